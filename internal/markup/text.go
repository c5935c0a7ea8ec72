package markup

import (
	"strings"

	"golang.org/x/net/html"
)

const bulletPrefix = "• "

// Text renders an HTML fragment produced by Format as plain terminal text.
// Section titles are passed through emphasize (nil leaves them unchanged),
// list items get a bullet prefix and <br> becomes a line break. Tags it does
// not know are dropped; their text is kept.
func Text(fragment string, emphasize func(string) string) string {
	if emphasize == nil {
		emphasize = func(s string) string { return s }
	}

	var (
		b        strings.Builder
		title    strings.Builder
		inStrong bool
	)

	write := func(s string) {
		if inStrong {
			title.WriteString(s)
			return
		}
		b.WriteString(s)
	}

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if inStrong {
				b.WriteString(emphasize(title.String()))
			}
			return tidyLines(b.String())

		case html.TextToken:
			write(string(z.Text()))

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "br":
				write("\n")
			case "li":
				if tail := strings.TrimRight(b.String(), " \t"); !inStrong && tail != "" && !strings.HasSuffix(tail, "\n") {
					b.WriteString("\n")
				}
				write(bulletPrefix)
			case "strong", "b":
				if !inStrong {
					inStrong = true
					title.Reset()
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "strong", "b":
				if inStrong {
					inStrong = false
					b.WriteString(emphasize(title.String()))
				}
			}
		}
	}
}

// tidyLines trims every line and collapses runs of blank lines into one.
func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
			out = append(out, "")
			continue
		}
		blank = false
		out = append(out, ln)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
