package cmd

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formfate/pkg/docs"
)

func newDocsCommand(a *app) *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "docs <definition>",
		Short: "Render a field reference as Markdown or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.document(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out, err := docs.Render(doc, docs.Format(as))
			if err != nil {
				return err
			}
			_, err = a.out.Write(out)
			return err
		},
	}

	cmd.Flags().StringVar(&as, "as", string(docs.FormatMarkdown), "output template: markdown or html")
	return cmd
}
