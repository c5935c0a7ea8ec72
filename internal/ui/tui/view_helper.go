package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/markup"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/usecase"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func renderSummary(t Theme, html string) string {
	if html == "" {
		return ""
	}
	return markup.Text(html, func(s string) string { return t.Emphasis.Render(s) })
}

func renderMissingKeys(html string) string {
	if html == "" {
		return "(none)"
	}
	return markup.Text(html, nil)
}

func renderStatus(sub usecase.Submission) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s • %dms", sub.Outcome, sub.Elapsed.Milliseconds()))
	if sub.StatusCode != 0 {
		b.WriteString(fmt.Sprintf(" • status %d", sub.StatusCode))
	}
	if sub.ArtifactID != "" {
		b.WriteString(" • saved ")
		b.WriteString(sub.ArtifactID)
	}
	d := sub.Response.Details
	if d.QueryIntent != "" {
		b.WriteString(" • intent ")
		b.WriteString(d.QueryIntent)
	}
	if len(d.Warnings) > 0 {
		b.WriteString("\nwarnings: ")
		b.WriteString(strings.Join(d.Warnings, "; "))
	}
	return b.String()
}
