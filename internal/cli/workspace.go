package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/infra/historystore"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/infra/httpclient"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/infra/queryclient"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/infra/workspacefinder"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/infra/yamlenv"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/infra/yamlqueries"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/ports"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/usecase"
)

// workspaceFlags are the selectors shared by every command that talks to
// the backend.
type workspaceFlags struct {
	workspace  string
	env        string
	backendURL string
}

type workspaceCtx struct {
	// root is empty when running outside a workspace.
	root string
	cfg  domain.Config
	env  domain.Environment

	// warning is a non-fatal problem loading the default environment.
	warning error

	books      ports.QueryBookLoader
	envs       ports.EnvironmentLoader
	envCatalog ports.EnvironmentCatalog

	client *queryclient.Client
	store  ports.HistoryStore
}

func loadWorkspace(f workspaceFlags) (*workspaceCtx, error) {
	root, cfg, err := resolveWorkspace(f.workspace)
	if err != nil {
		return nil, err
	}

	envRoot := root
	if envRoot == "" {
		envRoot, _ = os.Getwd()
	}
	envLoader := yamlenv.NewLoader(
		envRoot,
		yamlenv.WithEnvDir(cfg.Paths.EnvironmentsDir),
	)

	ws := &workspaceCtx{
		root:       root,
		cfg:        cfg,
		books:      yamlqueries.NewLoader(yamlqueries.WithQueriesDir(cfg.Paths.QueriesDir)),
		envs:       envLoader,
		envCatalog: envLoader,
	}

	if err := ws.loadEnvironment(f.env); err != nil {
		return nil, err
	}

	backend := cfg.Backend
	if ws.env.BackendURL != "" {
		backend.BaseURL = ws.env.BackendURL
	}
	// Process environment beats the environment file.
	withEnv, err := workspacefinder.ApplyEnv(domain.Config{Backend: backend})
	if err != nil {
		return nil, err
	}
	backend = withEnv.Backend
	if u := strings.TrimSpace(f.backendURL); u != "" {
		backend.BaseURL = u
	}
	ws.cfg.Backend = backend

	exec := httpclient.NewExecutor(
		httpclient.WithClient(httpclient.New(httpclient.FromBackend(backend))),
		httpclient.WithTimeout(backend.Timeout),
	)
	ws.client = queryclient.New(
		backend.Endpoint(),
		queryclient.WithExecutor(exec),
		queryclient.WithHeaders(ws.env.Headers),
	)

	if root != "" {
		ws.store = historystore.NewJSONStore(root, ws.cfg)
	}
	return ws, nil
}

// loadEnvironment loads the named environment. Without a name the workspace
// default is tried and a missing file only becomes a warning.
func (ws *workspaceCtx) loadEnvironment(name string) error {
	arg := resolveEnvironmentArg(ws, name)
	if arg == "" {
		return nil
	}

	env, err := ws.envs.LoadEnvironment(arg)
	if err == nil {
		ws.env = env
		return nil
	}
	if strings.TrimSpace(name) == "" && domain.IsKind(err, domain.KindNotFound) {
		ws.warning = err
		return nil
	}
	return err
}

func (ws *workspaceCtx) endpoint() string {
	return ws.client.Endpoint()
}

// submitter wires the submit-query use case for this workspace.
func (ws *workspaceCtx) submitter(log *slog.Logger, observer ports.Observer, save bool) *usecase.SubmitQuery {
	opts := []usecase.SubmitOption{
		usecase.WithLogger(log),
		usecase.WithTarget(ws.env.Name, ws.endpoint()),
	}
	if save && ws.store != nil {
		opts = append(opts, usecase.WithHistory(ws.store))
	}
	if observer != nil {
		opts = append(opts, usecase.WithObserver(observer))
	}
	return usecase.NewSubmitQuery(ws.client, opts...)
}

func resolveWorkspace(workspaceFlag string) (string, domain.Config, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := resolveWorkspaceRoot(w)
		if err != nil {
			return "", domain.Config{}, err
		}
		cfg, err := workspacefinder.LoadConfig(abs)
		return abs, cfg, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", domain.Config{}, fmt.Errorf("get working directory: %w", err)
	}
	return workspacefinder.NewFinder().Resolve(wd)
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	abs, err := filepath.Abs(strings.TrimSpace(workspaceFlag))
	if err != nil {
		return "", fmt.Errorf("invalid workspace path: %w", err)
	}
	return abs, nil
}

// requireRoot fails for commands that only make sense inside a workspace.
func (ws *workspaceCtx) requireRoot() error {
	if ws.root == "" {
		return &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("no %s found (tip: run `querydesk init`)", workspacefinder.ConfigFile),
		}
	}
	return nil
}

func resolveBookPath(ws *workspaceCtx, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		return "", fmt.Errorf("query book is required (use --book or -b)")
	}

	base := ws.root
	if base == "" {
		base, _ = os.Getwd()
	}

	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		return filepath.Clean(p), nil
	}

	queriesDir := filepath.Join(base, ws.cfg.Paths.QueriesDir)

	if hasYAMLExt(in) {
		p := filepath.Join(queriesDir, in)
		if fileExists(p) {
			return p, nil
		}
	}

	for _, ext := range []string{".yaml", ".yml"} {
		p := filepath.Join(queriesDir, in+ext)
		if fileExists(p) {
			return p, nil
		}
	}

	// Last resort: match by the book's name field.
	refs, err := ws.books.ListBooks(base)
	if err == nil {
		for _, r := range refs {
			if strings.EqualFold(r.Name, in) {
				return r.Path, nil
			}
		}
	}

	return "", fmt.Errorf("query book %q not found in %q", in, queriesDir)
}

// resolveEnvironmentArg returns what to hand the environment loader: a
// path, a name, or "" when nothing should be loaded.
func resolveEnvironmentArg(ws *workspaceCtx, arg string) string {
	in := strings.TrimSpace(arg)
	if in == "" {
		if ws.root == "" {
			return ""
		}
		return ws.cfg.Defaults.Environment
	}

	base := ws.root
	if base == "" {
		base, _ = os.Getwd()
	}

	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		return filepath.Clean(p)
	}

	if hasYAMLExt(in) {
		return filepath.Join(base, ws.cfg.Paths.EnvironmentsDir, in)
	}

	return in
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func hasYAMLExt(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
