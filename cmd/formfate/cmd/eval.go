package cmd

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formfate/pkg/visibility"
	"github.com/goliatone/go-formfate/pkg/visibility/expr"
)

func newEvalCommand(a *app) *cobra.Command {
	var valuesPath, extrasPath string

	cmd := &cobra.Command{
		Use:   "eval <definition>",
		Short: "Print field visibility for a value map",
		Long: `Evaluate every conditional and disable rule of a definition against
the values in --values and print the state of each field in declaration
order.

Opaque rule strings are evaluated with the built-in expression language
unless the configuration sets rules to "none".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := a.document(ctx, args[0])
			if err != nil {
				return err
			}
			values, err := a.values(ctx, valuesPath)
			if err != nil {
				return err
			}
			extras, err := a.values(ctx, extrasPath)
			if err != nil {
				return err
			}

			opts := []visibility.Option{visibility.WithExtras(extras)}
			if a.cfg.Rules == "expr" {
				opts = append(opts, visibility.WithEvaluator(expr.New()))
			}
			states, err := visibility.Fields(doc, values, opts...)
			if err != nil {
				return err
			}
			return a.write(states)
		},
	}

	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON or YAML file with the current form values")
	cmd.Flags().StringVar(&extrasPath, "extras", "", "JSON or YAML file with host context exposed to rules as extras.*")
	return cmd
}
