package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/infra/fsworkspace"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/usecase"
)

// --- looksLikePath ---

func TestLooksLikePath(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"sample", false},
		{"sample.yaml", false},
		{"./sample.yaml", true},
		{"queries/sample.yaml", true},
		{"/abs/path/sample.yaml", true},
	}
	for _, c := range cases {
		if got := looksLikePath(c.input); got != c.want {
			t.Errorf("looksLikePath(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

// --- hasYAMLExt ---

func TestHasYAMLExt(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"sample.yaml", true},
		{"sample.yml", true},
		{"SAMPLE.YAML", true},
		{"sample.json", false},
		{"sample", false},
		{"", false},
	}
	for _, c := range cases {
		if got := hasYAMLExt(c.input); got != c.want {
			t.Errorf("hasYAMLExt(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

// --- fileExists ---

func TestFileExists(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "exists.txt")
	if err := os.WriteFile(p, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !fileExists(p) {
		t.Errorf("expected fileExists=true for %s", p)
	}
	if fileExists(filepath.Join(tmp, "not_there.txt")) {
		t.Error("expected fileExists=false for non-existent file")
	}
}

// --- countFailures ---

func TestCountFailures(t *testing.T) {
	res := domain.BookResult{
		Results: []domain.QueryResult{
			{Outcome: domain.OutcomeOK, Assertions: []domain.AssertionResult{{Passed: true}}},
			{Outcome: domain.OutcomeOK, Assertions: []domain.AssertionResult{{Passed: false}}},
			{Outcome: domain.OutcomeFailed},
		},
	}
	if n := countFailures(res); n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
	if n := countFailures(domain.BookResult{}); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}

func TestCountAssertionPassFail(t *testing.T) {
	pass, fail := countAssertionPassFail([]domain.AssertionResult{{Passed: true}, {Passed: false}, {Passed: true}})
	if pass != 2 || fail != 1 {
		t.Errorf("expected pass=2 fail=1, got pass=%d fail=%d", pass, fail)
	}
}

// --- printBook ---

func TestPrintBook_JSON(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	res := domain.BookResult{BookName: "Sample", StartedAt: now, EndedAt: now.Add(time.Second)}

	var buf bytes.Buffer
	if err := printBook(&buf, res, "json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if payload["BookName"] != "Sample" {
		t.Errorf("expected BookName=Sample, got %v", payload["BookName"])
	}
}

func TestPrintBook_Pretty(t *testing.T) {
	res := domain.BookResult{
		BookName: "Sample",
		Results: []domain.QueryResult{
			{
				Name:       "create-task",
				Outcome:    domain.OutcomeOK,
				StatusCode: 200,
				LatencyMS:  42,
				Page:       domain.PageUpdate{MissingKeys: []string{"due"}},
				Assertions: []domain.AssertionResult{
					{Name: "status", Passed: true, Message: "status 200"},
					{Name: "no_missing_keys", Passed: false, Message: "missing values for: due"},
				},
			},
			{Name: "broken", Outcome: domain.OutcomeRejected, Message: domain.MsgRequestRejected},
		},
	}

	var buf bytes.Buffer
	if err := printBook(&buf, res, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Book:     Sample", "[FAIL] create-task", "1 pass / 1 fail", "missing keys: [due]", "error: Error submitting query. (rejected)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestPrintBook_UnknownFormat(t *testing.T) {
	err := printBook(io.Discard, domain.BookResult{}, "xml")
	if err == nil || !strings.Contains(err.Error(), "xml") {
		t.Fatalf("expected error mentioning format, got %v", err)
	}
}

// --- printSubmission ---

func TestPrintSubmission_PrettySuccess(t *testing.T) {
	page := &usecase.RecordingPage{
		APIResponse:     "{\n  \"ok\": true\n}",
		Endpoint:        "Endpoint: http://e",
		SummaryHTML:     "<ul>\n<br><strong>Task:</strong><br><br> <li>created</li><br>\n</ul><br>",
		MissingKeysHTML: domain.MissingKeysHTML([]string{"due"}),
	}
	sub := usecase.Submission{ID: "id-1", Outcome: domain.OutcomeOK, StatusCode: 200, ArtifactID: "id-1"}

	var buf bytes.Buffer
	if err := printSubmission(&buf, sub, page, "pretty"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Endpoint: http://e", "Task:", "• created", "• due", "  \"ok\": true", "Saved:    id-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestPrintSubmission_PrettyFailure(t *testing.T) {
	page := &usecase.RecordingPage{ResponseMessage: domain.MsgUnexpected}
	sub := usecase.Submission{ID: "id-2", Outcome: domain.OutcomeFailed}

	var buf bytes.Buffer
	if err := printSubmission(&buf, sub, page, "pretty"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), domain.MsgUnexpected+"\n") {
		t.Fatalf("expected the message first, got:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "Summary:") {
		t.Fatalf("expected no result sections on failure")
	}
}

// --- printHistory ---

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	if err := printHistory(&buf, nil, "pretty"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "no saved queries") {
		t.Fatalf("got %q", buf.String())
	}

	buf.Reset()
	refs := []domain.ArtifactRef{{ID: "abc", Query: strings.Repeat("q", 80), Outcome: domain.OutcomeOK, StartedAt: time.Now()}}
	if err := printHistory(&buf, refs, "pretty"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "abc") || !strings.Contains(buf.String(), strings.Repeat("q", 60)+"…") {
		t.Fatalf("got %q", buf.String())
	}
}

// --- command structure ---

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, expected := range []string{"query", "run", "validate", "serve", "history", "books", "envs", "init", "version"} {
		if !names[expected] {
			t.Errorf("expected subcommand %q to be registered", expected)
		}
	}
	for _, flag := range []string{"workspace", "env", "backend-url", "debug"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected persistent --%s flag", flag)
		}
	}
}

func TestSubcommandFlags(t *testing.T) {
	flags := &rootFlags{}
	cases := []struct {
		cmd   *cobra.Command
		flags []string
	}{
		{queryCmd(flags), []string{"no-save", "format"}},
		{runCmd(flags), []string{"book", "no-save", "format"}},
		{validateCmd(flags), []string{"book"}},
		{serveCmd(flags), []string{"listen", "no-save"}},
		{initCmd(), []string{"path", "force"}},
	}
	for _, c := range cases {
		for _, f := range c.flags {
			if c.cmd.Flags().Lookup(f) == nil {
				t.Errorf("expected --%s flag on %s", f, c.cmd.Name())
			}
		}
	}
}

func TestListCommands_HaveListSubcommand(t *testing.T) {
	flags := &rootFlags{}
	for _, cmd := range []*cobra.Command{envsCmd(flags), booksCmd(flags), historyCmd(flags)} {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Use == "list" {
				found = true
			}
		}
		if !found {
			t.Errorf("expected 'list' subcommand under %s", cmd.Use)
		}
	}
}

// --- resolveWorkspaceRoot ---

func TestResolveWorkspaceRoot_ExplicitPath(t *testing.T) {
	tmp := t.TempDir()
	got, err := resolveWorkspaceRoot(tmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != tmp {
		t.Errorf("expected %q, got %q", tmp, got)
	}
}

func TestResolveWorkspaceRoot_RelativePath(t *testing.T) {
	got, err := resolveWorkspaceRoot(".")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %q", got)
	}
}

// --- workspace wiring ---

func newWorkspace(t *testing.T) string {
	t.Helper()
	t.Setenv("QUERYDESK_BACKEND_URL", "")
	t.Setenv("QUERYDESK_TIMEOUT", "")
	t.Setenv("QUERYDESK_LISTEN", "")

	root := t.TempDir()
	if err := fsworkspace.NewInitializer().Init(domain.WorkspaceSpec{Root: root}, false); err != nil {
		t.Fatalf("init workspace: %v", err)
	}
	return root
}

func TestLoadWorkspace_DefaultEnvironment(t *testing.T) {
	root := newWorkspace(t)

	ws, err := loadWorkspace(workspaceFlags{workspace: root})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ws.env.Name != "dev" {
		t.Fatalf("expected dev env, got %q", ws.env.Name)
	}
	if ws.env.Headers["X-Client"] != "querydesk" {
		t.Fatalf("expected rendered header, got %v", ws.env.Headers)
	}
	if got := ws.endpoint(); got != "http://localhost:8000/process-query" {
		t.Fatalf("unexpected endpoint %q", got)
	}
	if ws.store == nil {
		t.Fatalf("expected a history store inside a workspace")
	}
}

func TestLoadWorkspace_Overrides(t *testing.T) {
	root := newWorkspace(t)
	t.Setenv("QUERYDESK_BACKEND_URL", "http://from-env:9000")

	ws, err := loadWorkspace(workspaceFlags{workspace: root})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ws.endpoint(); got != "http://from-env:9000/process-query" {
		t.Fatalf("expected process env to win over env file, got %q", got)
	}

	ws, err = loadWorkspace(workspaceFlags{workspace: root, backendURL: "http://flag:1/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ws.endpoint(); got != "http://flag:1/process-query" {
		t.Fatalf("expected flag to win, got %q", got)
	}
}

func TestLoadWorkspace_MissingDefaultEnvIsWarning(t *testing.T) {
	root := newWorkspace(t)
	if err := os.Remove(filepath.Join(root, "env", "dev.yaml")); err != nil {
		t.Fatal(err)
	}

	ws, err := loadWorkspace(workspaceFlags{workspace: root})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !domain.IsKind(ws.warning, domain.KindNotFound) {
		t.Fatalf("expected not-found warning, got %v", ws.warning)
	}

	if _, err := loadWorkspace(workspaceFlags{workspace: root, env: "prod"}); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected explicit missing env to fail, got %v", err)
	}
}

func TestResolveBookPath(t *testing.T) {
	root := newWorkspace(t)
	ws, err := loadWorkspace(workspaceFlags{workspace: root})
	if err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(root, "queries", "sample.yaml")
	for _, in := range []string{"sample", "sample.yaml", "queries/sample.yaml", "Sample"} {
		got, err := resolveBookPath(ws, in)
		if err != nil {
			t.Fatalf("resolveBookPath(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("resolveBookPath(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := resolveBookPath(ws, "nope"); err == nil {
		t.Fatalf("expected error for unknown book")
	}
}

// --- end to end against a fake backend ---

func fakeBackend(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Query == "" {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		if r.Header.Get("X-Client") != "querydesk" {
			http.Error(w, "missing header", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"detail": "cannot process"}`)
			return
		}
		_, _ = io.WriteString(w, `{
		  "summary": {"summary": "**Task** *created*"},
		  "updated_mdl_res_with_value": {"endpoint_url": "http://tasks/create", "payload": {"title": "x"}},
		  "external_api_response": {"id": 7}
		}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQueryCmd_SavesAndLists(t *testing.T) {
	root := newWorkspace(t)
	srv := fakeBackend(t, http.StatusOK)

	out, err := execute(t, "query", "-w", root, "--backend-url", srv.URL, "--format", "json", "create", "a", "task")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got["outcome"] != "ok" || got["url"] != "Endpoint: http://tasks/create" {
		t.Fatalf("unexpected output: %v", got)
	}
	id, _ := got["artifact_id"].(string)
	if id == "" {
		t.Fatalf("expected a saved artifact, got %v", got)
	}

	out, err = execute(t, "history", "list", "-w", root)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if !strings.Contains(out, id) || !strings.Contains(out, "create a task") {
		t.Fatalf("expected saved query in history, got:\n%s", out)
	}
}

func TestQueryCmd_Rejected(t *testing.T) {
	root := newWorkspace(t)
	srv := fakeBackend(t, http.StatusUnprocessableEntity)

	out, err := execute(t, "query", "-w", root, "--backend-url", srv.URL, "--no-save", "create a task")
	if !domain.IsKind(err, domain.KindRequestRejected) {
		t.Fatalf("expected rejected error, got %v", err)
	}
	if !strings.HasPrefix(out, domain.MsgRequestRejected) {
		t.Fatalf("expected rejected message, got:\n%s", out)
	}
}

func TestRunCmd_SampleBookPasses(t *testing.T) {
	root := newWorkspace(t)
	srv := fakeBackend(t, http.StatusOK)

	out, err := execute(t, "run", "-w", root, "--backend-url", srv.URL, "-b", "sample", "--no-save")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	for _, want := range []string{"[OK] create-task", "[OK] complete-payload"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestRunCmd_FailedExpectationsFail(t *testing.T) {
	root := newWorkspace(t)
	srv := fakeBackend(t, http.StatusInternalServerError)

	out, err := execute(t, "run", "-w", root, "--backend-url", srv.URL, "-b", "sample", "--no-save")
	if err == nil || !strings.Contains(err.Error(), "2 failed") {
		t.Fatalf("expected run failure, got %v\n%s", err, out)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "querydesk ") {
		t.Fatalf("got %q", out)
	}
}
