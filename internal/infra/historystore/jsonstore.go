// Package historystore keeps submitted queries as JSON files with a JSONL index.
package historystore

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/ports"
)

const (
	defaultHistoryDir = "history"
	indexFile         = "index.jsonl"
	maskValue         = "********"
	maxSlugLen        = 40
)

type JSONStore struct {
	rootDir        string
	historyDirName string
	maskingEnabled bool
	now            func() time.Time
}

type Option func(*JSONStore)

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	dir := cfg.Paths.HistoryDir
	if strings.TrimSpace(dir) == "" {
		dir = defaultHistoryDir
	}

	s := &JSONStore{
		rootDir:        root,
		historyDirName: dir,
		maskingEnabled: cfg.Masking.Enabled,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.HistoryStore = (*JSONStore)(nil)

func (s *JSONStore) dir() string {
	return filepath.Join(s.rootDir, s.historyDirName)
}

// Save writes a as <timestamp>_<query-slug>.json and appends it to the
// index. The returned id is the artifact id.
func (s *JSONStore) Save(a domain.QueryArtifact) (string, error) {
	dir := s.dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{Op: "historystore.mkdir", Kind: domain.KindExecution, Path: dir, Err: err}
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.StartedAt.IsZero() {
		a.StartedAt = s.now()
	}
	a.StartedAt = a.StartedAt.UTC()

	slug := slugify(a.Query)
	if slug == "" {
		slug = "query"
	}
	base := fmt.Sprintf("%s_%s", a.StartedAt.Format("20060102T150405Z"), slug)

	toSave := a
	if s.maskingEnabled {
		toSave = maskArtifact(a)
	}

	b, err := json.MarshalIndent(toSave, "", "  ")
	if err != nil {
		return "", &domain.OpError{Op: "historystore.marshal", Kind: domain.KindExecution, Err: err}
	}

	filename, err := writeUnique(dir, base, b)
	if err != nil {
		return "", err
	}

	if err := s.appendIndex(dir, domain.ArtifactRef{
		ID:        a.ID,
		File:      filename,
		Query:     a.Query,
		Outcome:   a.Outcome,
		StartedAt: a.StartedAt,
	}); err != nil {
		return "", &domain.OpError{Op: "historystore.index", Kind: domain.KindExecution, Path: filepath.Join(dir, indexFile), Err: err}
	}

	return a.ID, nil
}

// writeUnique creates base.json, or base-2.json, base-3.json... if taken.
func writeUnique(dir, base string, b []byte) (string, error) {
	for i := 1; i < 1000; i++ {
		name := base + ".json"
		if i > 1 {
			name = fmt.Sprintf("%s-%d.json", base, i)
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", &domain.OpError{Op: "historystore.write", Kind: domain.KindExecution, Path: path, Err: err}
		}
		_, werr := f.Write(b)
		cerr := f.Close()
		if werr == nil {
			werr = cerr
		}
		if werr != nil {
			_ = os.Remove(path)
			return "", &domain.OpError{Op: "historystore.write", Kind: domain.KindExecution, Path: path, Err: werr}
		}
		return name, nil
	}
	return "", &domain.OpError{
		Op:   "historystore.write",
		Kind: domain.KindExecution,
		Path: filepath.Join(dir, base),
		Err:  errors.New("too many artifacts with the same name"),
	}
}

func (s *JSONStore) appendIndex(dir string, ref domain.ArtifactRef) error {
	line, err := json.Marshal(ref)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, indexFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

// List returns the newest index entries first. limit <= 0 returns all.
// Malformed index lines are skipped.
func (s *JSONStore) List(limit int) ([]domain.ArtifactRef, error) {
	path := filepath.Join(s.dir(), indexFile)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.ArtifactRef{}, nil
	}
	if err != nil {
		return nil, &domain.OpError{Op: "historystore.list", Kind: domain.KindExecution, Path: path, Err: err}
	}
	defer f.Close()

	out := []domain.ArtifactRef{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var ref domain.ArtifactRef
		if err := json.Unmarshal([]byte(line), &ref); err != nil {
			continue
		}
		out = append(out, ref)
	}
	if err := sc.Err(); err != nil {
		return nil, &domain.OpError{Op: "historystore.list", Kind: domain.KindExecution, Path: path, Err: err}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// maskArtifact returns a masked copy (does NOT mutate the input).
func maskArtifact(a domain.QueryArtifact) domain.QueryArtifact {
	out := a
	if a.Response != nil {
		out.Response, _ = maskValueTree(a.Response).(map[string]any)
	}
	return out
}

// maskValueTree deep-copies v, replacing values under sensitive keys.
func maskValueTree(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			if isSensitiveKey(k) && !domain.IsFalsy(val) {
				m[k] = maskValue
				continue
			}
			m[k] = maskValueTree(val)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = maskValueTree(val)
		}
		return out
	default:
		return v
	}
}

func isSensitiveKey(k string) bool {
	kk := strings.ToLower(strings.TrimSpace(k))
	switch kk {
	case "authorization", "proxy-authorization", "cookie", "set-cookie", "x-api-key", "x-auth-token":
		return true
	}

	return strings.Contains(kk, "token") ||
		strings.Contains(kk, "secret") ||
		strings.Contains(kk, "password") ||
		strings.Contains(kk, "api-key") ||
		strings.Contains(kk, "api_key") ||
		strings.Contains(kk, "apikey")
}

// slugify produces a safe filename component from the first words of a query.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		if b.Len() >= maxSlugLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
