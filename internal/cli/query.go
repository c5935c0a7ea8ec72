package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/markup"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/usecase"
)

func queryCmd(flags *rootFlags) *cobra.Command {
	var noSave bool
	var format string

	c := &cobra.Command{
		Use:   "query <text>",
		Short: "Submit one query and print the rendered answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			ws, err := loadWorkspace(flags.workspaceFlags)
			if err != nil {
				return err
			}

			log, cleanup := startLogging(ws, flags.debug, false)
			defer cleanup()

			page := &usecase.RecordingPage{}
			sub, execErr := ws.submitter(log, nil, !noSave).Execute(cmd.Context(), strings.Join(args, " "), page)

			if err := printSubmission(cmd.OutOrStdout(), sub, page, format); err != nil {
				return err
			}
			return execErr
		},
	}

	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save the query under history/")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func checkFormat(format string) error {
	switch format {
	case "pretty", "json", "":
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

type submissionJSON struct {
	ID              string   `json:"id"`
	Outcome         string   `json:"outcome"`
	StatusCode      int      `json:"status_code,omitempty"`
	LatencyMS       int64    `json:"latency_ms"`
	ArtifactID      string   `json:"artifact_id,omitempty"`
	APIResponse     string   `json:"api_response,omitempty"`
	Endpoint        string   `json:"url,omitempty"`
	SummaryHTML     string   `json:"summary_html,omitempty"`
	Summary         string   `json:"summary,omitempty"`
	MissingKeys     []string `json:"missing_keys,omitempty"`
	MissingKeysHTML string   `json:"missing_keys_html,omitempty"`
	Message         string   `json:"response,omitempty"`
	QueryIntent     string   `json:"query_intent,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
}

func printSubmission(w io.Writer, sub usecase.Submission, page *usecase.RecordingPage, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		out := submissionJSON{
			ID:              sub.ID,
			Outcome:         string(sub.Outcome),
			StatusCode:      sub.StatusCode,
			LatencyMS:       sub.Elapsed.Milliseconds(),
			ArtifactID:      sub.ArtifactID,
			APIResponse:     page.APIResponse,
			Endpoint:        page.Endpoint,
			SummaryHTML:     page.SummaryHTML,
			MissingKeys:     sub.Page.MissingKeys,
			MissingKeysHTML: page.MissingKeysHTML,
			Message:         page.ResponseMessage,
			QueryIntent:     sub.Response.Details.QueryIntent,
			Warnings:        sub.Response.Details.Warnings,
		}
		if page.SummaryHTML != "" {
			out.Summary = markup.Text(page.SummaryHTML, nil)
		}
		return enc.Encode(out)
	case "pretty", "":
		printPrettySubmission(w, sub, page)
		return nil
	default:
		return checkFormat(format)
	}
}

func printPrettySubmission(w io.Writer, sub usecase.Submission, page *usecase.RecordingPage) {
	if page.ResponseMessage != "" {
		fmt.Fprintln(w, page.ResponseMessage)
		fmt.Fprintf(w, "(%s, %dms, id %s)\n", sub.Outcome, sub.Elapsed.Milliseconds(), sub.ID)
		return
	}

	fmt.Fprintln(w, page.Endpoint)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Summary:")
	fmt.Fprintln(w, indent(markup.Text(page.SummaryHTML, nil)))
	fmt.Fprintln(w)

	if page.MissingKeysHTML != "" {
		fmt.Fprintln(w, markup.Text(page.MissingKeysHTML, nil))
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "API Response:")
	fmt.Fprintln(w, indent(page.APIResponse))
	fmt.Fprintln(w)

	d := sub.Response.Details
	if d.QueryIntent != "" {
		fmt.Fprintf(w, "Intent:   %s\n", d.QueryIntent)
	}
	for _, warn := range d.Warnings {
		fmt.Fprintf(w, "Warning:  %s\n", warn)
	}
	fmt.Fprintf(w, "Status:   %d\n", sub.StatusCode)
	fmt.Fprintf(w, "Latency:  %dms\n", sub.Elapsed.Milliseconds())
	if sub.ArtifactID != "" {
		fmt.Fprintf(w, "Saved:    %s\n", sub.ArtifactID)
	}
}

func indent(s string) string {
	if s == "" {
		return ""
	}
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
