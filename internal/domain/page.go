package domain

import (
	"encoding/json"
	"html"
	"math"
	"sort"
	"strconv"
	"strings"
)

// PageUpdate holds the computed contents of every output target for one
// successful query. It is built completely before any target is written.
type PageUpdate struct {
	APIResponse     string // text
	Endpoint        string // text
	SummaryHTML     string
	MissingKeysHTML string
	MissingKeys     []string
	Details         Details
}

// IsFalsy reports whether a decoded JSON value is falsy under JavaScript
// rules: null, false, "", 0 and NaN. Objects and arrays are truthy even
// when empty.
func IsFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case float64:
		return t == 0 || math.IsNaN(t)
	case float32:
		return t == 0 || math.IsNaN(float64(t))
	case int:
		return t == 0
	case int64:
		return t == 0
	case json.Number:
		f, err := strconv.ParseFloat(string(t), 64)
		return err == nil && f == 0
	default:
		return false
	}
}

// MissingKeys returns the payload keys whose value is falsy, sorted.
func MissingKeys(payload map[string]any) []string {
	out := []string{}
	for k, v := range payload {
		if IsFalsy(v) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// MissingKeysHTML renders the missing-keys notice, or "" when keys is empty.
// Keys are HTML-escaped.
func MissingKeysHTML(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("The following keys are missing values:<ul>")
	for _, k := range keys {
		b.WriteString("<li>")
		b.WriteString(html.EscapeString(k))
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

// EndpointText renders the URL target.
func EndpointText(url string) string {
	return "Endpoint: " + url
}
