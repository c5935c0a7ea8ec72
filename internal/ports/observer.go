package ports

import (
	"time"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
)

// Observer is notified once per submitted query.
type Observer interface {
	ObserveQuery(outcome domain.Outcome, elapsed time.Duration)
}
