package usecase

import (
	"context"
	"fmt"

	"github.com/totodo-app/totodo/internal/domain"
	"github.com/totodo-app/totodo/internal/sync"
)

// SyncNowOutput contains the outcome of a forced reconciliation pass.
type SyncNowOutput struct {
	Result sync.Result
	Status domain.SyncStatus
}

// SyncNow forces one reconciliation pass. If a pass is already running the
// call joins it and reports that pass's outcome.
type SyncNow struct {
	engine *sync.Engine
	conn   domain.Connectivity
}

// NewSyncNow creates a new SyncNow use case.
func NewSyncNow(engine *sync.Engine, conn domain.Connectivity) *SyncNow {
	return &SyncNow{engine: engine, conn: conn}
}

// Execute runs the pass and returns the resulting status.
func (uc *SyncNow) Execute(ctx context.Context) (*SyncNowOutput, error) {
	if !uc.conn.Online() {
		return nil, fmt.Errorf("sync now: %w", domain.ErrRemoteUnavailable)
	}

	result, err := uc.engine.Reconcile(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync now: %w", err)
	}
	return &SyncNowOutput{Result: result, Status: uc.engine.Status()}, nil
}
