package main

import (
	"github.com/spf13/cobra"
)

func newCommitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "commit <document>",
		Short: "Validate and persist staged uploads to their disks",
		Long: `commit validates every rule of the document and, when that passes, stores
each staged upload on its configured disk. The resulting properties are
printed as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, args[0])
			if err != nil {
				return err
			}
			defer s.logger.Sync() //nolint:errcheck

			return s.finish(cmd, s.orchestrator.Submit(cmd.Context(), s.component), true)
		},
	}
}
