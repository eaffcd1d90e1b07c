package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/totodo-app/totodo/internal/domain"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID string // Task id to delete
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	Queued bool // True if the remote delete was deferred
}

// DeleteTask is the use case for deleting a task.
type DeleteTask struct {
	local    domain.LocalStore
	remote   domain.RemoteStore
	conn     domain.Connectivity
	clock    domain.Clock
	logger   domain.Logger
	notifier domain.Notifier
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(local domain.LocalStore, remote domain.RemoteStore, conn domain.Connectivity,
	clock domain.Clock, logger domain.Logger, notifier domain.Notifier) *DeleteTask {
	return &DeleteTask{local: local, remote: remote, conn: conn, clock: clock, logger: logger, notifier: notifier}
}

// Execute removes the task locally, then attempts the scoped remote delete.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	if err := uc.local.DeleteTask(in.TaskID); err != nil {
		return nil, fmt.Errorf("delete task locally: %w", err)
	}
	uc.logger.Info("task", fmt.Sprintf("deleted %s", in.TaskID))

	if uc.remote != nil && uc.conn.Online() {
		rerr := uc.remote.DeleteTask(ctx, in.TaskID)
		if rerr == nil {
			return &DeleteTaskOutput{}, nil
		}
		reportRemoteFailure(uc.conn, uc.logger, "delete", in.TaskID, rerr)
	}

	change := domain.PendingChange{
		ID:        uuid.NewString(),
		Kind:      domain.ChangeDelete,
		TaskID:    in.TaskID,
		Timestamp: uc.clock.Now(),
	}
	if err := uc.local.AppendChange(change); err != nil {
		return nil, fmt.Errorf("queue pending delete: %w", err)
	}
	uc.notifier.Info("Offline Mode", "Deletion saved locally. Will sync when online.")

	return &DeleteTaskOutput{Queued: true}, nil
}
