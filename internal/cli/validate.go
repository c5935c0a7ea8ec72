package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func validateCmd(flags *rootFlags) *cobra.Command {
	var book string

	c := &cobra.Command{
		Use:   "validate",
		Short: "Validate a query book and environment (no HTTP)",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(flags.workspaceFlags)
			if err != nil {
				return err
			}

			bookPath, err := resolveBookPath(ws, book)
			if err != nil {
				return err
			}

			b, err := ws.books.LoadBook(bookPath)
			if err != nil {
				return err
			}

			fmt.Printf("OK: %s (%d queries) against %s\n", b.Name, len(b.Queries), ws.endpoint())
			if ws.warning != nil {
				fmt.Printf("warning: %v\n", ws.warning)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&book, "book", "b", "", "Query book name or path (required)")

	_ = c.MarkFlagRequired("book")
	return c
}
