package ports

import (
	"context"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
)

// QueryClient submits a query to the backend and decodes its answer.
// A non-success status returns an error wrapping *domain.RejectedError.
type QueryClient interface {
	Submit(ctx context.Context, req domain.QueryRequest) (domain.QueryResponse, error)
}
