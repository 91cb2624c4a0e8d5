package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwire/pkg/orchestrator"
	"github.com/goliatone/go-formwire/pkg/render"
	"github.com/goliatone/go-formwire/pkg/state"
	"github.com/goliatone/go-formwire/pkg/validation"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var (
		renderer  string
		output    string
		activeTab string
		csrf      string
		embed     bool
		validate  bool
	)

	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Render the form with its current values and errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, args[0])
			if err != nil {
				return err
			}
			defer s.logger.Sync() //nolint:errcheck

			if validate {
				var failure *validation.Failure
				if err := s.component.Validate(cmd.Context()); err != nil && !errors.As(err, &failure) {
					return err
				}
			}

			base := render.RenderOptions{ActiveTab: activeTab}
			if csrf != "" {
				base.Hidden = append(base.Hidden, render.CSRFToken("_token", csrf))
			}
			if embed {
				encoded, err := state.Marshal(state.Capture(s.component))
				if err != nil {
					return err
				}
				base.Hidden = append(base.Hidden, render.SnapshotField(encoded))
			}

			out, err := s.orchestrator.Render(cmd.Context(), orchestrator.Request{
				Component:     s.component,
				Renderer:      renderer,
				RenderOptions: base,
			})
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&renderer, "renderer", "r", "", "renderer name (default html)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout")
	cmd.Flags().StringVar(&activeTab, "active-tab", "", "tab to show first, as container.tab or tab id")
	cmd.Flags().StringVar(&csrf, "csrf", "", "CSRF token to embed as a hidden field")
	cmd.Flags().BoolVar(&embed, "embed-state", false, "embed a component snapshot as a hidden field")
	cmd.Flags().BoolVar(&validate, "validate", false, "validate before rendering so errors are shown")
	return cmd
}
