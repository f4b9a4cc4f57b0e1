package cmd

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formfate/pkg/defaults"
)

func newDefaultsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "defaults <definition>",
		Short: "Print the initial value map of a definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if a.memo != nil {
				raw, err := a.read(ctx, args[0])
				if err != nil {
					return err
				}
				values, err := a.memo.Defaults(ctx, raw)
				if err != nil {
					return err
				}
				return a.write(values)
			}

			doc, err := a.document(ctx, args[0])
			if err != nil {
				return err
			}
			values, err := defaults.Extract(doc)
			if err != nil {
				return err
			}
			return a.write(values)
		},
	}
}
