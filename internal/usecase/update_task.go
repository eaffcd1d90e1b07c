package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/totodo-app/totodo/internal/domain"
)

// UpdateTaskInput contains the parameters for editing a task.
type UpdateTaskInput struct {
	Patch  domain.TaskPatch // Fields to change (nil fields untouched)
	TaskID string           // Task id (required)
}

// UpdateTaskOutput contains the result of editing a task.
type UpdateTaskOutput struct {
	Task   *domain.Task // The updated task
	Queued bool         // True if the remote write was deferred
}

// UpdateTask is the use case for editing an existing task.
type UpdateTask struct {
	local    domain.LocalStore
	remote   domain.RemoteStore
	conn     domain.Connectivity
	clock    domain.Clock
	logger   domain.Logger
	notifier domain.Notifier
}

// NewUpdateTask creates a new UpdateTask use case.
func NewUpdateTask(local domain.LocalStore, remote domain.RemoteStore, conn domain.Connectivity,
	clock domain.Clock, logger domain.Logger, notifier domain.Notifier) *UpdateTask {
	return &UpdateTask{local: local, remote: remote, conn: conn, clock: clock, logger: logger, notifier: notifier}
}

// Execute applies the patch locally, then attempts the scoped remote update.
func (uc *UpdateTask) Execute(ctx context.Context, in UpdateTaskInput) (*UpdateTaskOutput, error) {
	if in.Patch.IsZero() {
		return nil, domain.ErrNoFieldsToUpdate
	}
	if in.Patch.Title != nil && *in.Patch.Title == "" {
		return nil, domain.ErrEmptyTitle
	}

	now := uc.clock.Now()
	updated, err := uc.local.UpdateTask(in.TaskID, in.Patch, now)
	if err != nil {
		return nil, fmt.Errorf("update task locally: %w", err)
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	uc.logger.Info("task", fmt.Sprintf("updated %s", updated.ID))

	if uc.remote != nil && uc.conn.Online() {
		rerr := uc.remote.UpdateTask(ctx, *updated)
		if rerr == nil {
			return &UpdateTaskOutput{Task: updated}, nil
		}
		reportRemoteFailure(uc.conn, uc.logger, "update", updated.ID, rerr)
	}

	change := domain.PendingChange{
		ID:        uuid.NewString(),
		Kind:      domain.ChangeUpdate,
		TaskID:    updated.ID,
		Task:      updated.Clone(),
		Timestamp: now,
	}
	if err := uc.local.AppendChange(change); err != nil {
		return nil, fmt.Errorf("queue pending update: %w", err)
	}
	uc.notifier.Info("Offline Mode", "Change saved locally. Will sync when online.")

	return &UpdateTaskOutput{Task: updated, Queued: true}, nil
}
