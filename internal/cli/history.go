package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
)

func historyCmd(flags *rootFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "history",
		Short: "Inspect saved queries",
	}

	c.AddCommand(historyListCmd(flags))
	return c
}

func historyListCmd(flags *rootFlags) *cobra.Command {
	var limit int
	var format string

	c := &cobra.Command{
		Use:   "list",
		Short: "List saved queries, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			ws, err := loadWorkspace(flags.workspaceFlags)
			if err != nil {
				return err
			}
			if err := ws.requireRoot(); err != nil {
				return err
			}

			refs, err := ws.store.List(limit)
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), refs, format)
		},
	}

	c.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func printHistory(w io.Writer, refs []domain.ArtifactRef, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(refs)
	}

	if len(refs) == 0 {
		fmt.Fprintln(w, "(no saved queries)")
		return nil
	}
	for _, r := range refs {
		fmt.Fprintf(w, "%s  %-8s  %s  %s\n",
			r.StartedAt.Local().Format(time.DateTime),
			r.Outcome,
			r.ID,
			clamp(r.Query, 60),
		)
	}
	return nil
}

func clamp(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
