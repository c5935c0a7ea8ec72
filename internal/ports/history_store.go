package ports

import "github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"

// HistoryStore persists submitted queries.
type HistoryStore interface {
	Save(a domain.QueryArtifact) (id string, err error)
	List(limit int) ([]domain.ArtifactRef, error)
}
