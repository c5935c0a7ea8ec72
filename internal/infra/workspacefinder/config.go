package workspacefinder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
)

// ConfigFile is the marker file of a querydesk workspace.
const ConfigFile = "querydesk.yaml"

// LoadConfig loads querydesk.yaml from the workspace root, applies defaults
// and then QUERYDESK_* environment overrides.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, ConfigFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	q := y.QueryDesk
	if q.Backend.BaseURL != "" {
		cfg.Backend.BaseURL = q.Backend.BaseURL
	}
	if q.Backend.Path != "" {
		cfg.Backend.Path = q.Backend.Path
	}
	if q.Backend.Timeout != "" {
		d, err := parseTimeout(q.Backend.Timeout)
		if err != nil {
			return cfg, &domain.OpError{
				Op:   "workspacefinder.loadconfig",
				Kind: domain.KindInvalidConfig,
				Path: path,
				Err:  err,
			}
		}
		cfg.Backend.Timeout = d
	}
	if q.Server.Listen != "" {
		cfg.Server.Listen = q.Server.Listen
	}
	if q.Masking.Enabled != nil {
		cfg.Masking.Enabled = *q.Masking.Enabled
	}
	if q.Defaults.Env != "" {
		cfg.Defaults.Environment = q.Defaults.Env
	}
	if q.Paths.QueriesDir != "" {
		cfg.Paths.QueriesDir = q.Paths.QueriesDir
	}
	if q.Paths.EnvironmentsDir != "" {
		cfg.Paths.EnvironmentsDir = q.Paths.EnvironmentsDir
	}
	if q.Paths.HistoryDir != "" {
		cfg.Paths.HistoryDir = q.Paths.HistoryDir
	}

	return ApplyEnv(cfg)
}

// ApplyEnv overrides cfg with QUERYDESK_BACKEND_URL, QUERYDESK_TIMEOUT and
// QUERYDESK_LISTEN when they are set.
func ApplyEnv(cfg domain.Config) (domain.Config, error) {
	v := viper.New()
	v.SetEnvPrefix("querydesk")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{"backend_url", "timeout", "listen"} {
		if err := v.BindEnv(key); err != nil {
			return cfg, &domain.OpError{Op: "workspacefinder.env", Kind: domain.KindInvalidConfig, Err: err}
		}
	}

	if s := strings.TrimSpace(v.GetString("backend_url")); s != "" {
		cfg.Backend.BaseURL = s
	}
	if s := strings.TrimSpace(v.GetString("timeout")); s != "" {
		d, err := parseTimeout(s)
		if err != nil {
			return cfg, &domain.OpError{
				Op:   "workspacefinder.env",
				Kind: domain.KindInvalidConfig,
				Path: "QUERYDESK_TIMEOUT",
				Err:  err,
			}
		}
		cfg.Backend.Timeout = d
	}
	if s := strings.TrimSpace(v.GetString("listen")); s != "" {
		cfg.Server.Listen = s
	}
	return cfg, nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: timeout %q: %v", domain.ErrInvalidConfig, s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: timeout %q is negative", domain.ErrInvalidConfig, s)
	}
	return d, nil
}

type yamlConfig struct {
	QueryDesk struct {
		Backend struct {
			BaseURL string `yaml:"base_url"`
			Path    string `yaml:"path"`
			Timeout string `yaml:"timeout"`
		} `yaml:"backend"`

		Server struct {
			Listen string `yaml:"listen"`
		} `yaml:"server"`

		Masking struct {
			Enabled *bool `yaml:"enabled"`
		} `yaml:"masking"`

		Defaults struct {
			Env string `yaml:"env"`
		} `yaml:"defaults"`

		Paths struct {
			QueriesDir      string `yaml:"queries_dir"`
			EnvironmentsDir string `yaml:"environments_dir"`
			HistoryDir      string `yaml:"history_dir"`
		} `yaml:"paths"`
	} `yaml:"querydesk"`
}
