package ports

import "github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"

// QueryBookLoader loads query books from a source (e.g., filesystem).
type QueryBookLoader interface {
	LoadBook(path string) (domain.QueryBook, error)
	ListBooks(root string) ([]domain.QueryBookRef, error)
}
