package cmd

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formfate/pkg/jsonschema"
)

func newSchemaCommand(a *app) *cobra.Command {
	var closed bool

	cmd := &cobra.Command{
		Use:   "schema <definition>",
		Short: "Print the JSON Schema of a definition's values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.document(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var opts []jsonschema.Option
			if closed {
				opts = append(opts, jsonschema.WithClosedObjects())
			}
			return a.write(jsonschema.Export(doc, opts...))
		},
	}

	cmd.Flags().BoolVar(&closed, "closed", false, "set additionalProperties to false on every object")
	return cmd
}
