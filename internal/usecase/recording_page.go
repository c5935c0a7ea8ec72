package usecase

import "sync"

// RecordingPage is an in-memory ports.Page. It keeps the last value of each
// target and the order targets were written in.
type RecordingPage struct {
	mu sync.Mutex

	Loading         bool
	LoadingShown    int
	APIResponse     string
	Endpoint        string
	SummaryHTML     string
	MissingKeysHTML string
	ResponseMessage string
	Writes          []string
}

func (p *RecordingPage) SetLoading(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Loading = visible
	if visible {
		p.LoadingShown++
	}
	p.Writes = append(p.Writes, "loading")
}

func (p *RecordingPage) SetAPIResponse(text string) {
	p.set(&p.APIResponse, "api-response", text)
}

func (p *RecordingPage) SetEndpoint(text string) {
	p.set(&p.Endpoint, "url", text)
}

func (p *RecordingPage) SetSummaryHTML(html string) {
	p.set(&p.SummaryHTML, "summary", html)
}

func (p *RecordingPage) SetMissingKeysHTML(html string) {
	p.set(&p.MissingKeysHTML, "missing-keys", html)
}

func (p *RecordingPage) SetResponseMessage(text string) {
	p.set(&p.ResponseMessage, "response", text)
}

func (p *RecordingPage) set(dst *string, target, v string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	*dst = v
	p.Writes = append(p.Writes, target)
}
