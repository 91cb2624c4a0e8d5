package main

import (
	"github.com/spf13/cobra"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var only string
	var uploadsOnly bool

	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Validate submitted values and staged uploads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, args[0])
			if err != nil {
				return err
			}
			defer s.logger.Sync() //nolint:errcheck

			ctx := cmd.Context()
			switch {
			case only != "":
				err = s.component.ValidateOnly(ctx, only)
			case uploadsOnly:
				err = s.component.ValidateTemporaryUploadedFiles(ctx)
			default:
				err = s.component.Validate(ctx)
			}
			return s.finish(cmd, err, false)
		},
	}
	cmd.Flags().StringVar(&only, "only", "", "validate a single field")
	cmd.Flags().BoolVar(&uploadsOnly, "uploads", false, "validate staged uploads only")
	cmd.MarkFlagsMutuallyExclusive("only", "uploads")
	return cmd
}
