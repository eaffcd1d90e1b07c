package usecase

import (
	"context"
	"fmt"

	"github.com/totodo-app/totodo/internal/domain"
)

// ClearLocalOutput reports what was wiped.
type ClearLocalOutput struct {
	Tasks   int
	Changes int
}

// ClearLocal wipes the local store. When an archiver is configured a snapshot
// is taken first so the wipe stays recoverable.
type ClearLocal struct {
	local    domain.LocalStore
	archiver domain.Archiver // optional
	clock    domain.Clock
	logger   domain.Logger
}

// NewClearLocal creates a new ClearLocal use case. archiver may be nil.
func NewClearLocal(local domain.LocalStore, archiver domain.Archiver, clock domain.Clock, logger domain.Logger) *ClearLocal {
	return &ClearLocal{local: local, archiver: archiver, clock: clock, logger: logger}
}

// Execute snapshots (when possible) and then clears the store.
func (uc *ClearLocal) Execute(_ context.Context) (*ClearLocalOutput, error) {
	tasks := uc.local.Tasks()
	changes := uc.local.PendingChanges()

	if uc.archiver != nil {
		label := fmt.Sprintf("before clear %s", uc.clock.Now().Format("2006-01-02 15:04:05"))
		if err := uc.archiver.Snapshot(label, tasks, changes, uc.local.LastSync()); err != nil {
			return nil, fmt.Errorf("snapshot before clear: %w", err)
		}
	}

	if err := uc.local.Clear(); err != nil {
		return nil, fmt.Errorf("clear local store: %w", err)
	}
	uc.logger.Info("store", fmt.Sprintf("cleared %d tasks and %d pending changes", len(tasks), len(changes)))

	return &ClearLocalOutput{Tasks: len(tasks), Changes: len(changes)}, nil
}
