package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwire/pkg/prompt"
)

func newFillCmd(opts *rootOptions) *cobra.Command {
	var attempts int

	cmd := &cobra.Command{
		Use:   "fill <document>",
		Short: "Fill a form interactively and commit it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, args[0])
			if err != nil {
				return err
			}
			defer s.logger.Sync() //nolint:errcheck

			options := []prompt.Option{
				prompt.WithAttempts(attempts),
				prompt.WithLogger(s.logger.Named("prompt")),
			}
			if opts.driver != nil {
				options = append(options, prompt.WithDriver(opts.driver))
			}
			filler := prompt.NewFiller(s.orchestrator.Stager(), options...)
			if err := filler.Fill(cmd.Context(), s.component); err != nil {
				return err
			}
			return s.finish(cmd, s.orchestrator.Submit(cmd.Context(), s.component), true)
		},
	}
	cmd.Flags().IntVar(&attempts, "attempts", 3, "prompts per field before giving up")
	return cmd
}
