package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func booksCmd(flags *rootFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "books",
		Short: "Manage query books in a workspace",
	}

	c.AddCommand(booksListCmd(flags))
	return c
}

func booksListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List query books",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(flags.workspaceFlags)
			if err != nil {
				return err
			}
			if err := ws.requireRoot(); err != nil {
				return err
			}

			refs, err := ws.books.ListBooks(ws.root)
			if err != nil {
				return err
			}

			if len(refs) == 0 {
				fmt.Println("(no query books found)")
				return nil
			}

			fmt.Printf("Workspace: %s\n\n", ws.root)
			for _, r := range refs {
				rel, _ := filepath.Rel(ws.root, r.Path)
				fmt.Printf("- %s  (%s)\n", r.Name, rel)
			}
			return nil
		},
	}
}
