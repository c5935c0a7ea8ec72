package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/usecase"
)

func runCmd(flags *rootFlags) *cobra.Command {
	var book string
	var noSave bool
	var format string

	c := &cobra.Command{
		Use:   "run",
		Short: "Run every query of a query book and check its expectations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			ws, err := loadWorkspace(flags.workspaceFlags)
			if err != nil {
				return err
			}

			bookPath, err := resolveBookPath(ws, book)
			if err != nil {
				return err
			}

			log, cleanup := startLogging(ws, flags.debug, false)
			defer cleanup()

			uc := usecase.NewRunQueryBook(ws.books, ws.submitter(log, nil, !noSave))

			res, err := uc.Execute(cmd.Context(), bookPath)
			if err != nil {
				_ = printBook(cmd.OutOrStdout(), res, format)
				return err
			}

			if err := printBook(cmd.OutOrStdout(), res, format); err != nil {
				return err
			}

			fails := countFailures(res)
			if fails > 0 {
				return fmt.Errorf("run failed (%d failed query(s))", fails)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&book, "book", "b", "", "Query book name or path (required)")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save the queries under history/")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")

	_ = c.MarkFlagRequired("book")
	return c
}

func printBook(w io.Writer, res domain.BookResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "pretty", "":
		printPrettyBook(w, res)
		return nil
	default:
		return checkFormat(format)
	}
}

func printPrettyBook(w io.Writer, res domain.BookResult) {
	total := res.EndedAt.Sub(res.StartedAt)
	if res.StartedAt.IsZero() || res.EndedAt.IsZero() {
		total = 0
	}

	fmt.Fprintf(w, "Book:     %s\n", res.BookName)
	fmt.Fprintf(w, "Started:  %s\n", res.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration: %s\n", total)
	fmt.Fprintln(w)

	for _, r := range res.Results {
		status := "OK"
		if r.Failed() {
			status = "FAIL"
		}

		fmt.Fprintf(w, "- [%s] %s %dms\n", status, r.Name, r.LatencyMS)
		if r.Message != "" {
			fmt.Fprintf(w, "  error: %s (%s)\n", r.Message, r.Outcome)
		} else {
			fmt.Fprintf(w, "  status: %d\n", r.StatusCode)
		}
		if len(r.Page.MissingKeys) > 0 {
			fmt.Fprintf(w, "  missing keys: %v\n", r.Page.MissingKeys)
		}

		if len(r.Assertions) > 0 {
			pass, fail := countAssertionPassFail(r.Assertions)
			fmt.Fprintf(w, "  assertions: %d pass / %d fail\n", pass, fail)
			for _, a := range r.Assertions {
				mark := "✓"
				if !a.Passed {
					mark = "✗"
				}
				fmt.Fprintf(w, "    %s %s: %s\n", mark, a.Name, a.Message)
			}
		}

		fmt.Fprintln(w)
	}
}

func countFailures(res domain.BookResult) int {
	n := 0
	for _, r := range res.Results {
		if r.Failed() {
			n++
		}
	}
	return n
}

func countAssertionPassFail(in []domain.AssertionResult) (pass int, fail int) {
	for _, a := range in {
		if a.Passed {
			pass++
		} else {
			fail++
		}
	}
	return pass, fail
}
