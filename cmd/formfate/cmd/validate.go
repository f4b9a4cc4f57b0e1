package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formfate/pkg/validation"
)

type validateReport struct {
	Source string            `json:"source"`
	Valid  bool              `json:"valid"`
	Issues validation.Issues `json:"issues,omitempty"`
}

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <definition>...",
		Short: "Validate form definitions",
		Long: `Validate every argument and print one report per definition.

Problems are aggregated, so a single run lists all issues of a document
with their path and source position. The command exits non-zero when any
definition is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reports := make([]validateReport, 0, len(args))
			failed := false

			for _, arg := range args {
				raw, err := a.read(ctx, arg)
				if err != nil {
					return err
				}
				report := validateReport{Source: raw.Location(), Valid: true}
				if _, err := a.validate(ctx, raw); err != nil {
					var issues validation.Issues
					if !errors.As(err, &issues) {
						return err
					}
					report.Valid = false
					report.Issues = issues
					failed = true
					a.logger.Debug("definition invalid", "source", report.Source, "issues", len(issues))
				}
				reports = append(reports, report)
			}

			if err := a.write(reports); err != nil {
				return err
			}
			if failed {
				return ErrInvalid
			}
			return nil
		},
	}
}
