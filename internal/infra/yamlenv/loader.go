// Package yamlenv loads backend environments from env/<name>.yaml.
package yamlenv

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/app/template"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/ports"
)

type Loader struct {
	rootDir     string
	envDir      string
	secretsFile string
}

type Option func(*Loader)

func WithEnvDir(dir string) Option {
	return func(l *Loader) {
		if dir != "" {
			l.envDir = dir
		}
	}
}

func WithSecretsFile(name string) Option {
	return func(l *Loader) { l.secretsFile = name }
}

func NewLoader(root string, opts ...Option) *Loader {
	l := &Loader{
		rootDir:     root,
		envDir:      "env",
		secretsFile: "secrets.local.yaml",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var (
	_ ports.EnvironmentLoader  = (*Loader)(nil)
	_ ports.EnvironmentCatalog = (*Loader)(nil)
)

// LoadEnvironment accepts either an env name (e.g., "dev") or a full path to a YAML file.
// Secrets override vars; header values and backend_url are rendered with the merged vars.
func (l *Loader) LoadEnvironment(nameOrPath string) (domain.Environment, error) {
	envPath, envName := l.locate(nameOrPath)

	base, err := readEnv(envPath)
	if err != nil {
		return domain.Environment{}, err
	}

	// Secrets are optional; they override base vars.
	secretsPath := filepath.Join(filepath.Dir(envPath), l.secretsFile)
	secrets, secErr := readEnvOptional(secretsPath)
	if secErr != nil {
		return domain.Environment{}, secErr
	}

	vars := domain.Merge(base.Vars, secrets.Vars)

	headers, err := template.RenderHeaders(base.Headers, vars)
	if err != nil {
		return domain.Environment{}, &domain.OpError{Op: "yamlenv.headers", Kind: domain.KindOf(err), Path: envPath, Err: err}
	}
	backendURL, err := template.RenderString(strings.TrimSpace(base.BackendURL), vars)
	if err != nil {
		return domain.Environment{}, &domain.OpError{Op: "yamlenv.backend_url", Kind: domain.KindOf(err), Path: envPath, Err: err}
	}

	return domain.Environment{
		Name:       envName,
		BackendURL: backendURL,
		Vars:       vars,
		Headers:    headers,
	}, nil
}

// ListEnvironments returns the environments under root/env, secrets excluded.
func (l *Loader) ListEnvironments(root string) ([]domain.EnvironmentRef, error) {
	if root == "" {
		root = l.rootDir
	}
	dir := filepath.Join(root, l.envDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.EnvironmentRef{}, nil
		}
		return nil, &domain.OpError{Op: "yamlenv.list", Kind: domain.KindExecution, Path: dir, Err: err}
	}

	out := []domain.EnvironmentRef{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == l.secretsFile || !isYAML(name) {
			continue
		}
		out = append(out, domain.EnvironmentRef{
			Name: strings.TrimSuffix(name, filepath.Ext(name)),
			Path: filepath.Join(dir, name),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (l *Loader) locate(nameOrPath string) (path, name string) {
	if isYAML(nameOrPath) || strings.Contains(nameOrPath, string(filepath.Separator)) {
		path = filepath.Clean(nameOrPath)
		return path, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	path = filepath.Join(l.rootDir, l.envDir, nameOrPath+".yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		alt := filepath.Join(l.rootDir, l.envDir, nameOrPath+".yml")
		if _, altErr := os.Stat(alt); altErr == nil {
			path = alt
		}
	}
	return path, nameOrPath
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

type yamlEnv struct {
	BackendURL string            `yaml:"backend_url"`
	Vars       map[string]string `yaml:"vars"`
	Headers    map[string]string `yaml:"headers"`
}

type envFile struct {
	BackendURL string
	Vars       domain.Vars
	Headers    domain.Headers
}

func readEnv(path string) (envFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return envFile{}, &domain.OpError{
			Op:   "yamlenv.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlEnv
	if err := yaml.Unmarshal(b, &y); err != nil {
		return envFile{}, &domain.OpError{
			Op:   "yamlenv.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	out := envFile{
		BackendURL: y.BackendURL,
		Vars:       domain.Vars(y.Vars),
		Headers:    domain.Headers(y.Headers),
	}
	if out.Vars == nil {
		out.Vars = domain.Vars{}
	}
	if out.Headers == nil {
		out.Headers = domain.Headers{}
	}
	return out, nil
}

func readEnvOptional(path string) (envFile, error) {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return envFile{Vars: domain.Vars{}, Headers: domain.Headers{}}, nil
		}
		return envFile{}, &domain.OpError{
			Op:   "yamlenv.secrets",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	v, err := readEnv(path)
	if err != nil {
		return envFile{}, fmt.Errorf("failed to load secrets: %w", err)
	}
	return v, nil
}
