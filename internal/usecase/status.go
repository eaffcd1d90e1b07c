package usecase

import (
	"context"

	"github.com/totodo-app/totodo/internal/domain"
	"github.com/totodo-app/totodo/internal/sync"
)

// StatusOutput contains the synchronization and storage state.
type StatusOutput struct {
	Sync    domain.SyncStatus
	Storage domain.StorageInfo
}

// Status reports the derived synchronization state and storage usage.
type Status struct {
	local  domain.LocalStore
	engine *sync.Engine
}

// NewStatus creates a new Status use case.
func NewStatus(local domain.LocalStore, engine *sync.Engine) *Status {
	return &Status{local: local, engine: engine}
}

// Execute recomputes the state from the local store and connectivity flag.
func (uc *Status) Execute(_ context.Context) (*StatusOutput, error) {
	return &StatusOutput{
		Sync:    uc.engine.Status(),
		Storage: uc.local.Info(),
	}, nil
}
