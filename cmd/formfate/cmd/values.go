package cmd

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formfate/pkg/jsonschema"
)

type valuesReport struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations,omitempty"`
}

func newValuesCommand(a *app) *cobra.Command {
	var (
		valuesPath string
		closed     bool
	)

	cmd := &cobra.Command{
		Use:   "values <definition>",
		Short: "Check a value map against a definition",
		Args:  cobra.ExactArgs(1),
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

			var opts []jsonschema.Option
			if closed {
				opts = append(opts, jsonschema.WithClosedObjects())
			}
			report := valuesReport{Valid: true}
			if err := jsonschema.ValidateValues(doc, values, opts...); err != nil {
				report.Valid = false
				report.Violations = jsonschema.Violations(err)
			}
			if err := a.write(report); err != nil {
				return err
			}
			if !report.Valid {
				return ErrInvalid
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON or YAML file with the submitted values")
	cmd.Flags().BoolVar(&closed, "closed", false, "reject keys the definition does not declare")
	_ = cmd.MarkFlagRequired("values")
	return cmd
}
