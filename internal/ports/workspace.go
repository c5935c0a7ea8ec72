package ports

import "github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"

// WorkspaceLocator finds a querydesk workspace root starting from an arbitrary directory.
type WorkspaceLocator interface {
	FindRoot(startDir string) (string, error)
}

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
