// Package markup converts the backend's lightweight summary markup into
// HTML fragments and renders those fragments back as terminal text.
//
// Two tokens are understood: a section marker (**Title**) and a bullet
// marker (*item*). Matching is regex based, non-greedy and does not span
// lines. Nesting is not supported; unpaired asterisks pass through.
package markup

import (
	"regexp"
	"strings"
)

// FallbackSummary is shown when the backend returned no summary text.
const FallbackSummary = "No summary available."

var (
	reSection = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reBullet  = regexp.MustCompile(`\*(.*?)\*`)
)

// Format turns summary markup into an HTML fragment: section markers become
// <strong> headers, bullet markers become <li> items, and the whole text is
// wrapped in a single <ul>. It never fails.
func Format(summaryText string) string {
	out := reSection.ReplaceAllStringFunc(summaryText, func(m string) string {
		title := strings.TrimSpace(m[2 : len(m)-2])
		if !strings.HasSuffix(title, ":") {
			title += ":"
		}
		return "<br><strong>" + title + "</strong><br><br>"
	})

	// Bullets are matched on the section-replaced text, not the input.
	out = reBullet.ReplaceAllStringFunc(out, func(m string) string {
		return "<li>" + m[1:len(m)-1] + "</li><br>"
	})

	return "<ul>\n" + out + "\n</ul><br>"
}

// FormatOrFallback formats summaryText, substituting FallbackSummary when it
// is empty.
func FormatOrFallback(summaryText string) string {
	if summaryText == "" {
		summaryText = FallbackSummary
	}
	return Format(summaryText)
}
