package domain

import "time"

// Config represents the querydesk configuration loaded from querydesk.yaml.
type Config struct {
	Backend  BackendConfig
	Server   ServerConfig
	Masking  MaskingConfig
	Defaults DefaultsConfig
	Paths    PathsConfig
}

// BackendConfig locates the query-processing backend.
type BackendConfig struct {
	BaseURL string
	Path    string
	Timeout time.Duration
}

// Endpoint joins BaseURL and Path.
func (b BackendConfig) Endpoint() string {
	base := b.BaseURL
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	path := b.Path
	if path == "" {
		return base
	}
	if path[0] != '/' {
		path = "/" + path
	}
	return base + path
}

type ServerConfig struct {
	Listen string
}

type MaskingConfig struct {
	Enabled bool
}

type DefaultsConfig struct {
	Environment string
}

type PathsConfig struct {
	QueriesDir      string
	EnvironmentsDir string
	HistoryDir      string
}

// DefaultConfig provides sane defaults if querydesk.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			BaseURL: "http://localhost:8000",
			Path:    "/process-query",
			Timeout: 2 * time.Minute,
		},
		Server:  ServerConfig{Listen: ":8080"},
		Masking: MaskingConfig{Enabled: true},
		Defaults: DefaultsConfig{
			Environment: "dev",
		},
		Paths: PathsConfig{
			QueriesDir:      "queries",
			EnvironmentsDir: "env",
			HistoryDir:      "history",
		},
	}
}

// WorkspaceSpec describes a workspace to create.
type WorkspaceSpec struct {
	Root string
}
