package web

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/ports"
)

// pageState is the JSON form of the page targets. It doubles as the
// ports.Page a request renders into. HTML fields are sanitized on write.
type pageState struct {
	policy *bluemonday.Policy

	Loading         bool   `json:"loading"`
	APIResponse     string `json:"api_response"`
	Endpoint        string `json:"url"`
	SummaryHTML     string `json:"summary_html"`
	MissingKeysHTML string `json:"missing_keys_html"`
	ResponseMessage string `json:"response"`
}

var _ ports.Page = (*pageState)(nil)

func newPageState(policy *bluemonday.Policy) *pageState {
	return &pageState{policy: policy}
}

func (p *pageState) SetLoading(visible bool) { p.Loading = visible }
func (p *pageState) SetAPIResponse(text string) { p.APIResponse = text }
func (p *pageState) SetEndpoint(text string) { p.Endpoint = text }
func (p *pageState) SetResponseMessage(text string) { p.ResponseMessage = text }
func (p *pageState) SetSummaryHTML(html string) { p.SummaryHTML = p.policy.Sanitize(html) }
func (p *pageState) SetMissingKeysHTML(html string) { p.MissingKeysHTML = p.policy.Sanitize(html) }
