// Package yamlqueries loads query books: saved queries with expectations
// stored as queries/*.yaml.
package yamlqueries

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/ports"
)

type Loader struct {
	queriesDir string
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{queriesDir: "queries"}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type Option func(*Loader)

func WithQueriesDir(dir string) Option {
	return func(l *Loader) {
		if dir != "" {
			l.queriesDir = dir
		}
	}
}

var _ ports.QueryBookLoader = (*Loader)(nil)

func (l *Loader) LoadBook(path string) (domain.QueryBook, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.QueryBook{}, &domain.OpError{
			Op:   "yamlqueries.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var yb yamlBook
	if err := yaml.Unmarshal(b, &yb); err != nil {
		return domain.QueryBook{}, &domain.OpError{
			Op:   "yamlqueries.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return mapAndValidate(path, yb)
}

// ListBooks returns the books under root/queries sorted by name. A missing
// directory is not an error.
func (l *Loader) ListBooks(root string) ([]domain.QueryBookRef, error) {
	dir := filepath.Join(root, l.queriesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.QueryBookRef{}, nil
		}
		return nil, &domain.OpError{
			Op:   "yamlqueries.list",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	refs := []domain.QueryBookRef{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		p := filepath.Join(dir, name)
		n, _ := readBookName(p)
		if strings.TrimSpace(n) == "" {
			n = strings.TrimSuffix(name, filepath.Ext(name))
		}

		refs = append(refs, domain.QueryBookRef{Name: n, Path: p})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

func readBookName(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var v struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return "", err
	}
	return v.Name, nil
}

type yamlBook struct {
	Name    string      `yaml:"name"`
	Queries []yamlQuery `yaml:"queries"`
}

type yamlQuery struct {
	Name   string     `yaml:"name"`
	Query  string     `yaml:"query"`
	Expect yamlExpect `yaml:"expect"`
}

type yamlExpect struct {
	Status        *int `yaml:"status"`
	MaxMS         *int `yaml:"max_ms"`
	NoMissingKeys bool `yaml:"no_missing_keys"`

	JSONPath map[string]yamlJSONPathAssertion `yaml:"jsonpath"`
}

type yamlJSONPathAssertion struct {
	Exists   bool    `yaml:"exists"`
	Eq       *string `yaml:"eq"`
	Contains *string `yaml:"contains"`
}

func mapAndValidate(path string, yb yamlBook) (domain.QueryBook, error) {
	if strings.TrimSpace(yb.Name) == "" {
		return domain.QueryBook{}, invalidField(path, "name", "book name is required")
	}
	if len(yb.Queries) == 0 {
		return domain.QueryBook{}, invalidField(path, "queries", "at least one query is required")
	}

	book := domain.QueryBook{
		Name:    yb.Name,
		Queries: make([]domain.QuerySpec, 0, len(yb.Queries)),
	}

	seen := map[string]bool{}
	for i, q := range yb.Queries {
		fieldPrefix := fmt.Sprintf("queries[%d]", i)

		name := strings.TrimSpace(q.Name)
		if name == "" {
			return domain.QueryBook{}, invalidField(path, fieldPrefix+".name", "query name is required")
		}
		if seen[name] {
			return domain.QueryBook{}, invalidField(path, fieldPrefix+".name", fmt.Sprintf("duplicate query name %q", name))
		}
		seen[name] = true

		if strings.TrimSpace(q.Query) == "" {
			return domain.QueryBook{}, invalidField(path, fieldPrefix+".query", "query text is required")
		}
		if q.Expect.MaxMS != nil && *q.Expect.MaxMS <= 0 {
			return domain.QueryBook{}, invalidField(path, fieldPrefix+".expect.max_ms", "must be positive")
		}

		book.Queries = append(book.Queries, domain.QuerySpec{
			Name:  name,
			Query: q.Query,
			Expect: domain.ExpectSpec{
				Status:        q.Expect.Status,
				MaxLatencyMS:  q.Expect.MaxMS,
				NoMissingKeys: q.Expect.NoMissingKeys,
				JSONPath:      mapJSONPath(q.Expect.JSONPath),
			},
		})
	}

	return book, nil
}

func mapJSONPath(in map[string]yamlJSONPathAssertion) map[string]domain.JSONPathAssertion {
	out := make(map[string]domain.JSONPathAssertion, len(in))
	for k, v := range in {
		out[k] = domain.JSONPathAssertion{Exists: v.Exists, Eq: v.Eq, Contains: v.Contains}
	}
	return out
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamlqueries.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s", field, msg),
	}
}
