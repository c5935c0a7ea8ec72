package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/ports"
)

// Submission is everything a front-end may want to show about one query.
type Submission struct {
	ID         string
	Query      string
	Outcome    domain.Outcome
	StatusCode int
	Elapsed    time.Duration
	Response   domain.QueryResponse
	Page       domain.PageUpdate
	ArtifactID string
}

// SubmitQuery sends a query to the backend and renders the answer into a page.
type SubmitQuery struct {
	client   ports.QueryClient
	history  ports.HistoryStore
	observer ports.Observer
	log      *slog.Logger

	environment string
	endpoint    string
	now         func() time.Time
}

type SubmitOption func(*SubmitQuery)

// WithHistory persists every submission to store.
func WithHistory(store ports.HistoryStore) SubmitOption {
	return func(uc *SubmitQuery) { uc.history = store }
}

func WithObserver(o ports.Observer) SubmitOption {
	return func(uc *SubmitQuery) { uc.observer = o }
}

func WithLogger(l *slog.Logger) SubmitOption {
	return func(uc *SubmitQuery) {
		if l != nil {
			uc.log = l
		}
	}
}

// WithTarget records the environment name and backend endpoint in artifacts.
func WithTarget(environment, endpoint string) SubmitOption {
	return func(uc *SubmitQuery) {
		uc.environment = environment
		uc.endpoint = endpoint
	}
}

func WithClock(now func() time.Time) SubmitOption {
	return func(uc *SubmitQuery) {
		if now != nil {
			uc.now = now
		}
	}
}

func NewSubmitQuery(client ports.QueryClient, opts ...SubmitOption) *SubmitQuery {
	uc := &SubmitQuery{
		client: client,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute submits query and writes the result to page. The loading
// indicator is shown first and always hidden on return. On success all
// four result targets are written; on failure only the response message
// is, and the returned error carries the kind that chose it.
func (uc *SubmitQuery) Execute(ctx context.Context, query string, page ports.Page) (Submission, error) {
	page.SetLoading(true)
	defer page.SetLoading(false)

	sub := Submission{ID: uuid.NewString(), Query: query}
	started := uc.now()
	uc.log.Info("query.start", "id", sub.ID, "endpoint", uc.endpoint, "query_len", len(query))

	resp, err := uc.client.Submit(ctx, domain.QueryRequest{Query: query})
	if err == nil {
		sub.Response = resp
		sub.StatusCode = resp.StatusCode
		sub.Page, err = BuildPageUpdate(resp)
	}
	sub.Elapsed = uc.now().Sub(started)
	sub.Outcome = domain.OutcomeOf(err)

	var rej *domain.RejectedError
	if errors.As(err, &rej) {
		sub.StatusCode = rej.StatusCode
	}

	if uc.observer != nil {
		uc.observer.ObserveQuery(sub.Outcome, sub.Elapsed)
	}
	sub.ArtifactID = uc.record(sub, started, err)

	if err != nil {
		uc.report(sub, err)
		page.SetResponseMessage(domain.UserMessage(err))
		return sub, err
	}

	ApplyPageUpdate(page, sub.Page)
	uc.log.Info("query.ok",
		"id", sub.ID,
		"status", sub.StatusCode,
		"latency_ms", sub.Elapsed.Milliseconds(),
		"missing_keys", len(sub.Page.MissingKeys),
	)
	return sub, nil
}

func (uc *SubmitQuery) report(sub Submission, err error) {
	var rej *domain.RejectedError
	if errors.As(err, &rej) {
		uc.log.Error("query.rejected", "id", sub.ID, "status", rej.StatusCode, "body", rej.Body)
		return
	}
	uc.log.Error("query.failed",
		"id", sub.ID,
		"kind", domain.KindOf(err),
		"cause", domain.ClassifyRunError(err),
		"err", err,
	)
}

func (uc *SubmitQuery) record(sub Submission, started time.Time, err error) string {
	if uc.history == nil {
		return ""
	}

	a := domain.QueryArtifact{
		ID:          sub.ID,
		Query:       sub.Query,
		Environment: uc.environment,
		Endpoint:    uc.endpoint,
		StartedAt:   started,
		FinishedAt:  started.Add(sub.Elapsed),
		Outcome:     sub.Outcome,
		StatusCode:  sub.StatusCode,
		LatencyMS:   sub.Elapsed.Milliseconds(),
		MissingKeys: sub.Page.MissingKeys,
		Response:    sub.Response.Doc,
		Error:       domain.NewRunError(err),
	}

	id, saveErr := uc.history.Save(a)
	if saveErr != nil {
		uc.log.Warn("history.save_failed", "id", sub.ID, "err", saveErr)
		return ""
	}
	return id
}
