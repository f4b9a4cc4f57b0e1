package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formfate/pkg/lint"
)

type lintReport struct {
	Source   string         `json:"source"`
	Warnings []lint.Warning `json:"warnings"`
}

func newLintCommand(a *app) *cobra.Command {
	var (
		exprRules bool
		strict    bool
	)

	cmd := &cobra.Command{
		Use:   "lint <definition>...",
		Short: "Report advisory findings",
		Long: `Lint valid definitions for problems that do not break validation:
markup in labels, references to unknown fields, defaults missing from the
option list and duplicate option values.

With --expr opaque rules are parsed with the built-in expression language
and the fields they read are checked too.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var opts []lint.Option
			if exprRules {
				opts = append(opts, lint.WithExprRules())
			}

			reports := make([]lintReport, 0, len(args))
			total := 0
			for _, arg := range args {
				doc, err := a.document(ctx, arg)
				if err != nil {
					return err
				}
				warnings := lint.Lint(doc, opts...)
				if warnings == nil {
					warnings = []lint.Warning{}
				}
				total += len(warnings)
				reports = append(reports, lintReport{Source: arg, Warnings: warnings})
			}

			if err := a.write(reports); err != nil {
				return err
			}
			if strict && total > 0 {
				return fmt.Errorf("%d lint warnings", total)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&exprRules, "expr", false, "check opaque rules with the expression language")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any warning is reported")
	return cmd
}
