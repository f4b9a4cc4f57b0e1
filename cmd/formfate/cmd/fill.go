package cmd

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formfate/pkg/tui"
	"github.com/goliatone/go-formfate/pkg/visibility"
	"github.com/goliatone/go-formfate/pkg/visibility/expr"
)

func newFillCommand(a *app) *cobra.Command {
	var valuesPath string

	cmd := &cobra.Command{
		Use:   "fill <definition>",
		Short: "Fill a definition interactively in the terminal",
		Long: `Prompt for every visible, enabled field in declaration order and print
the collected value map. Answers are checked against the field's length
and range constraints, and conditionals are re-evaluated after each answer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := a.document(ctx, args[0])
			if err != nil {
				return err
			}
			prefill, err := a.values(ctx, valuesPath)
			if err != nil {
				return err
			}

			var opts []visibility.Option
			if a.cfg.Rules == "expr" {
				opts = append(opts, visibility.WithEvaluator(expr.New()))
			}
			filler := tui.New(tui.WithOutput(cmd.ErrOrStderr()), tui.WithVisibility(opts...))
			values, err := filler.Fill(ctx, doc, prefill)
			if err != nil {
				return err
			}
			return a.write(values)
		},
	}

	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON or YAML file with values to start from")
	return cmd
}
