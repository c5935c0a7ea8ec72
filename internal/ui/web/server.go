// Package web serves the query page and its JSON endpoint with gin.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/infra/metrics"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/ports"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/usecase"
)

//go:embed templates/index.html
var templatesFS embed.FS

// maxQueryBytes bounds the JSON body accepted by POST /query.
const maxQueryBytes = 64 << 10

// Submitter runs one query against a page.
type Submitter interface {
	Execute(ctx context.Context, query string, page ports.Page) (usecase.Submission, error)
}

type Server struct {
	submit  Submitter
	metrics *metrics.Exporter
	log     *slog.Logger
	policy  *bluemonday.Policy
	engine  *gin.Engine
}

type Option func(*Server)

func WithMetrics(m *metrics.Exporter) Option {
	return func(s *Server) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

func NewServer(submit Submitter, opts ...Option) (*Server, error) {
	s := &Server{
		submit: submit,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		policy: newFragmentPolicy(),
	}
	for _, opt := range opts {
		opt(s)
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, &domain.OpError{Op: "web.templates", Kind: domain.KindInvalidConfig, Err: err}
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())
	r.SetHTMLTemplate(tmpl)

	r.GET("/", s.handleIndex)
	r.POST("/", s.handleForm)
	r.POST("/query", s.handleQuery)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	s.engine = r
	return s, nil
}

// Handler returns the router; useful for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return &domain.OpError{Op: "web.listen", Kind: domain.KindExecution, Path: addr, Err: err}
	}
	return s.ServeListener(ctx, l)
}

func (s *Server) ServeListener(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("web.listening", "addr", l.Addr().String())
	if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return &domain.OpError{Op: "web.serve", Kind: domain.KindExecution, Err: err}
	}
	return nil
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	*pageState
	OK          bool     `json:"ok"`
	Outcome     string   `json:"outcome"`
	MissingKeys []string `json:"missing_keys"`
	RequestID   string   `json:"request_id"`
}

type indexData struct {
	Query           string
	Page            *pageState
	SummaryHTML     template.HTML
	MissingKeysHTML template.HTML
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", indexData{Page: newPageState(s.policy)})
}

// handleForm renders the page server-side for clients without JavaScript.
func (s *Server) handleForm(c *gin.Context) {
	query := c.PostForm("query")
	page, _ := s.run(c, query)

	c.HTML(http.StatusOK, "index.html", indexData{
		Query: query,
		Page:  page,
		// Both fields went through the sanitizer in pageState.
		SummaryHTML:     template.HTML(page.SummaryHTML),
		MissingKeysHTML: template.HTML(page.MissingKeysHTML),
	})
}

func (s *Server) handleQuery(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxQueryBytes)

	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "body must be a JSON object with a query field"})
		return
	}

	page, sub := s.run(c, req.Query)
	missing := sub.Page.MissingKeys
	if missing == nil {
		missing = []string{}
	}
	c.JSON(http.StatusOK, queryResponse{
		pageState:   page,
		OK:          sub.Outcome == domain.OutcomeOK,
		Outcome:     string(sub.Outcome),
		MissingKeys: missing,
		RequestID:   c.GetString("request_id"),
	})
}

func (s *Server) run(c *gin.Context, query string) (*pageState, usecase.Submission) {
	if s.metrics != nil {
		defer s.metrics.Track()()
	}
	page := newPageState(s.policy)
	sub, _ := s.submit.Execute(c.Request.Context(), query, page)
	return page, sub
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()
		s.log.Info("web.request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}
