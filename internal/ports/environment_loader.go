package ports

import "github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"

// EnvironmentLoader loads a backend environment from a source (e.g., filesystem).
type EnvironmentLoader interface {
	LoadEnvironment(nameOrPath string) (domain.Environment, error)
}

type EnvironmentCatalog interface {
	ListEnvironments(root string) ([]domain.EnvironmentRef, error)
}
