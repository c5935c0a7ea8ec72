package usecase

import (
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/ports"
)

// InitWorkspace scaffolds a querydesk workspace (config, environments, query books).
type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
}

func NewInitWorkspace(initializer ports.WorkspaceInitializer) *InitWorkspace {
	return &InitWorkspace{initializer: initializer}
}

func (uc *InitWorkspace) Execute(root string, force bool) error {
	if root == "" {
		return &domain.OpError{Op: "usecase.init_workspace", Kind: domain.KindInvalidConfig, Err: domain.ErrInvalidConfig}
	}
	return uc.initializer.Init(domain.WorkspaceSpec{Root: root}, force)
}
