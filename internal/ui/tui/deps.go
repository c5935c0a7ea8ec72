package tui

import (
	"context"
	"log/slog"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/ports"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/usecase"
)

// Submitter runs one query and writes its result to page.
type Submitter interface {
	Execute(ctx context.Context, query string, page ports.Page) (usecase.Submission, error)
}

type Deps struct {
	Submit Submitter

	Endpoint      string
	Environment   string
	WorkspaceRoot string

	// Warning is a non-fatal startup problem shown above the input.
	Warning error

	Logger *slog.Logger
	Debug  bool
}
