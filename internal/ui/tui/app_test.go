package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/usecase"
)

type stubClient struct {
	doc map[string]any
	err error
}

func (s stubClient) Submit(_ context.Context, _ domain.QueryRequest) (domain.QueryResponse, error) {
	if s.err != nil {
		return domain.QueryResponse{}, s.err
	}
	return domain.QueryResponse{StatusCode: 200, Doc: s.doc}, nil
}

func answer(t *testing.T) map[string]any {
	t.Helper()
	var doc map[string]any
	raw := `{
	  "summary": {"summary": "**Task** *created*"},
	  "updated_mdl_res_with_value": {"endpoint_url": "http://e", "payload": {"k1": "v", "k2": ""}},
	  "external_api_response": {"ok": true}
	}`
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return doc
}

func testModel(client stubClient) model {
	return newModel(Deps{Submit: usecase.NewSubmitQuery(client), Endpoint: "http://backend/process-query"})
}

// submitAndDrain presses enter and feeds every page message back to the model.
func submitAndDrain(t *testing.T, m model, query string) model {
	t.Helper()
	m.input.SetValue(query)

	tm, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = tm.(model)
	if !m.busy || m.pending == nil {
		t.Fatalf("expected a submission in flight")
	}

	sawLoading := false
	for msg := range m.pending {
		if l, ok := msg.(loadingMsg); ok && l.visible {
			sawLoading = true
		}
		tm, _ = m.Update(msg)
		m = tm.(model)
	}
	if !sawLoading {
		t.Fatalf("expected the loading indicator to be shown")
	}
	return m
}

func TestSubmit_Success(t *testing.T) {
	m := submitAndDrain(t, testModel(stubClient{doc: answer(t)}), "create task")

	if m.busy || m.loading {
		t.Fatalf("expected idle model after submission, busy=%v loading=%v", m.busy, m.loading)
	}
	if m.endpoint != "Endpoint: http://e" {
		t.Fatalf("unexpected endpoint: %q", m.endpoint)
	}
	if m.apiResponse != "{\n  \"ok\": true\n}" {
		t.Fatalf("unexpected api response: %q", m.apiResponse)
	}
	if !strings.Contains(m.summaryHTML, "<strong>Task:</strong>") {
		t.Fatalf("unexpected summary: %q", m.summaryHTML)
	}
	if !strings.Contains(m.missingKeysHTML, "<li>k2</li>") {
		t.Fatalf("unexpected missing keys: %q", m.missingKeysHTML)
	}
	if m.message != "" {
		t.Fatalf("expected empty response message, got %q", m.message)
	}
	if !m.hasLast || m.last.Outcome != domain.OutcomeOK {
		t.Fatalf("expected ok submission, got %+v", m.last)
	}

	view := m.View()
	for _, want := range []string{"Endpoint: http://e", "Task:", "• created", "• k2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSubmit_Rejected(t *testing.T) {
	rej := &domain.OpError{
		Op:   "queryclient.submit",
		Kind: domain.KindRequestRejected,
		Err:  &domain.RejectedError{StatusCode: 422, Body: map[string]any{"detail": "bad"}},
	}
	m := submitAndDrain(t, testModel(stubClient{err: rej}), "create task")

	if m.message != domain.MsgRequestRejected {
		t.Fatalf("expected rejected message, got %q", m.message)
	}
	if m.loading {
		t.Fatalf("expected loading indicator hidden")
	}
	if m.apiResponse != "" || m.endpoint != "" || m.summaryHTML != "" || m.missingKeysHTML != "" {
		t.Fatalf("expected result targets untouched, got %+v", m)
	}
	if m.last.StatusCode != 422 {
		t.Fatalf("expected status 422, got %d", m.last.StatusCode)
	}
}

func TestSubmit_Unexpected(t *testing.T) {
	m := submitAndDrain(t, testModel(stubClient{err: errors.New("connection refused")}), "create task")

	if m.message != domain.MsgUnexpected {
		t.Fatalf("expected unexpected message, got %q", m.message)
	}
	if !strings.Contains(m.View(), domain.MsgUnexpected) {
		t.Fatalf("expected message in view")
	}
}

func TestSubmit_IgnoredWhileBusy(t *testing.T) {
	m := testModel(stubClient{doc: answer(t)})
	m.busy = true

	tm, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("expected no command while busy")
	}
	if tm.(model).pending != nil {
		t.Fatalf("expected no new submission")
	}
}

func TestSubmit_NoSubmitter(t *testing.T) {
	ch, _ := startSubmit(context.Background(), Deps{}, "q")

	var done submitDoneMsg
	for msg := range ch {
		done = msg.(submitDoneMsg)
	}
	if done.err == nil {
		t.Fatalf("expected an error without a submitter")
	}
}

func TestTabCyclesPanes(t *testing.T) {
	m := testModel(stubClient{})

	for _, want := range []pane{paneAPIResponse, paneMissingKeys, paneSummary} {
		tm, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = tm.(model)
		if m.focus != want {
			t.Fatalf("expected focus %d, got %d", want, m.focus)
		}
	}

	tm, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if tm.(model).focus != paneMissingKeys {
		t.Fatalf("expected shift+tab to go back")
	}
}

func TestResize(t *testing.T) {
	m := testModel(stubClient{})

	tm, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	m = tm.(model)
	if m.width != 120 || m.height != 50 {
		t.Fatalf("unexpected size %dx%d", m.width, m.height)
	}
	for i, p := range m.panes {
		if p.Width != 112 || p.Height < minPaneHeight {
			t.Fatalf("pane %d has size %dx%d", i, p.Width, p.Height)
		}
	}

	tm, _ = m.Update(tea.WindowSizeMsg{Width: 0, Height: 0})
	if tm.(model).width != 120 {
		t.Fatalf("expected zero size to be ignored")
	}
}

func TestView_ShowsWarningAndBanner(t *testing.T) {
	m := newModel(Deps{
		Endpoint:    "http://backend/process-query",
		Environment: "dev",
		Warning:     &domain.OpError{Op: "yamlenv.load", Kind: domain.KindNotFound},
	})

	view := m.View()
	for _, want := range []string{"Backend: http://backend/process-query", "Env: dev", "Environment not found"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSafeModel_PassesThrough(t *testing.T) {
	s := wrapSafe(testModel(stubClient{}), nil)

	tm, _ := s.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	sm, ok := tm.(safeModel)
	if !ok {
		t.Fatalf("expected safeModel, got %T", tm)
	}
	if sm.m.width != 100 {
		t.Fatalf("expected inner model to be updated")
	}
	if !strings.Contains(sm.View(), "querydesk") {
		t.Fatalf("expected inner view")
	}
}
