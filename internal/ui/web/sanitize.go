package web

import "github.com/microcosm-cc/bluemonday"

// newFragmentPolicy allows only the markup the summary formatter and the
// missing-keys notice produce. Everything else is stripped, text is kept.
func newFragmentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("ul", "li", "strong", "br")
	return p
}
