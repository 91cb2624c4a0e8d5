package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	formwire "github.com/goliatone/go-formwire"
	"github.com/goliatone/go-formwire/internal/logging"
	"github.com/goliatone/go-formwire/pkg/component"
	"github.com/goliatone/go-formwire/pkg/config"
	"github.com/goliatone/go-formwire/pkg/events"
	"github.com/goliatone/go-formwire/pkg/orchestrator"
	"github.com/goliatone/go-formwire/pkg/prompt"
	"github.com/goliatone/go-formwire/pkg/state"
	"github.com/goliatone/go-formwire/pkg/validation"
)

type rootOptions struct {
	configFile string
	valuesFile string
	snapshot   string
	files      []string

	// driver replaces the terminal prompts of fill.
	driver prompt.Driver
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&rootOptions{})
}

func newRootCmdWith(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formwire",
		Short: "Validate, commit and render server-driven forms",
		Long: `formwire loads a field document (JSON or YAML), applies submitted values
and staged uploads, and validates, commits or renders the resulting form.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "configuration file (default ./formwire.yaml or $HOME/.formwire/formwire.yaml)")
	cmd.PersistentFlags().StringVar(&opts.valuesFile, "values", "", "JSON or YAML file with submitted values")
	cmd.PersistentFlags().StringVar(&opts.snapshot, "snapshot", "", "restore component state from a snapshot file first")
	cmd.PersistentFlags().StringArrayVar(&opts.files, "file", nil, "stage an upload as field=path (repeatable)")

	cmd.AddCommand(
		newValidateCmd(opts),
		newCommitCmd(opts),
		newFillCmd(opts),
		newRenderCmd(opts),
	)
	return cmd
}

// session is the state shared by every subcommand run.
type session struct {
	orchestrator *orchestrator.Orchestrator
	component    *component.Component
	events       *events.Recorder
	logger       *zap.Logger
}

func openSession(cmd *cobra.Command, opts *rootOptions, documentPath string) (*session, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	doc, err := formwire.LoadDocument(documentPath)
	if err != nil {
		return nil, err
	}

	recorder := events.NewRecorder()
	o, err := orchestrator.FromConfig(cfg, logger, orchestrator.WithDispatcher(recorder))
	if err != nil {
		return nil, err
	}
	s := &session{
		orchestrator: o,
		component:    o.DocumentComponent(doc, nil),
		events:       recorder,
		logger:       logger,
	}
	if err := s.component.FillWithFormDefaults(); err != nil {
		return nil, err
	}

	if opts.snapshot != "" {
		data, err := os.ReadFile(opts.snapshot)
		if err != nil {
			return nil, fmt.Errorf("read snapshot: %w", err)
		}
		snap, err := state.Unmarshal(data)
		if err != nil {
			return nil, err
		}
		if err := state.Restore(s.component, snap, state.WithStager(o.Stager())); err != nil {
			return nil, err
		}
	}
	if opts.valuesFile != "" {
		values, err := readValues(opts.valuesFile)
		if err != nil {
			return nil, err
		}
		s.component.Properties().Fill(values)
	}
	for _, arg := range opts.files {
		name, path, _ := strings.Cut(arg, "=")
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)
		if name == "" || path == "" {
			return nil, fmt.Errorf("invalid --file %q, want field=path", arg)
		}
		staged, err := o.Stager().StageFile(cmd.Context(), path)
		if err != nil {
			return nil, err
		}
		s.component.Stage(name, staged)
	}
	return s, nil
}

func readValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	values := make(map[string]any)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	return values, nil
}

var errInvalid = errors.New("form is invalid")

// finish prints the report for err. Validation failures are reported and
// turned into errInvalid; other errors are returned unchanged.
func (s *session) finish(cmd *cobra.Command, err error, withProperties bool) error {
	var failure *validation.Failure
	if err != nil && !errors.As(err, &failure) {
		return err
	}
	if printErr := writeJSON(cmd, s.report(err == nil, withProperties)); printErr != nil {
		return printErr
	}
	if err != nil {
		return errInvalid
	}
	return nil
}

// report is printed by validate, commit and fill.
type report struct {
	Valid      bool                `json:"valid"`
	Errors     map[string][]string `json:"errors,omitempty"`
	Events     []events.Event      `json:"events,omitempty"`
	Properties map[string]any      `json:"properties,omitempty"`
}

func (s *session) report(valid bool, withProperties bool) report {
	r := report{
		Valid:  valid,
		Events: s.events.Events(),
	}
	if bag := s.component.Errors(); !bag.IsEmpty() {
		r.Errors = bag.Messages()
	}
	if withProperties {
		props := s.component.Properties().All()
		delete(props, "temporaryUploadedFiles")
		r.Properties = props
	}
	return r
}

func writeJSON(cmd *cobra.Command, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
