// Package usecase contains application use cases. Every mutating use case
// follows the same local-first pipeline: stamp timestamps, write the local
// store synchronously, then attempt the scoped remote write if online; on
// failure the mutation is recorded in the change log for reconciliation.
package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/totodo-app/totodo/internal/domain"
)

// AddTaskInput contains the parameters for creating a new task.
type AddTaskInput struct {
	Title       string   // Task title (required)
	Description string   // Task description (optional)
	Priority    string   // low / medium / high (default medium)
	DueDate     string   // "2006-01-02" (optional)
	DueTime     string   // "15:04" (optional, needs DueDate)
	Project     string   // Project label (optional)
	Tags        []string // Labels (optional)
}

// AddTaskOutput contains the result of creating a task.
type AddTaskOutput struct {
	Task   *domain.Task // The created task (server row if the insert landed)
	Queued bool         // True if the remote write was deferred to the change log
}

// AddTask is the use case for creating a new task.
type AddTask struct {
	local    domain.LocalStore
	remote   domain.RemoteStore
	conn     domain.Connectivity
	clock    domain.Clock
	logger   domain.Logger
	notifier domain.Notifier
}

// NewAddTask creates a new AddTask use case.
func NewAddTask(local domain.LocalStore, remote domain.RemoteStore, conn domain.Connectivity,
	clock domain.Clock, logger domain.Logger, notifier domain.Notifier) *AddTask {
	return &AddTask{local: local, remote: remote, conn: conn, clock: clock, logger: logger, notifier: notifier}
}

// Execute creates a task: local write first (optimistic, always succeeds
// unless storage is exhausted), then an opportunistic remote insert.
func (uc *AddTask) Execute(ctx context.Context, in AddTaskInput) (*AddTaskOutput, error) {
	priority, err := domain.ParsePriority(in.Priority)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	task := domain.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Priority:    priority,
		DueDate:     in.DueDate,
		DueTime:     in.DueTime,
		Project:     in.Project,
		Tags:        in.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := uc.local.AddTask(task); err != nil {
		return nil, fmt.Errorf("save task locally: %w", err)
	}
	uc.logger.Info("task", fmt.Sprintf("created %s: %q", task.ID, task.Title))

	if uc.remote != nil && uc.conn.Online() {
		stored, err := uc.remote.InsertTask(ctx, task)
		if err == nil {
			// Adopt the server-generated row into the local copy.
			if _, uerr := uc.local.UpdateTask(stored.ID, fullPatch(stored), stored.UpdatedAt); uerr != nil {
				uc.logger.Warn("task", fmt.Sprintf("adopt server row %s: %v", stored.ID, uerr))
			}
			return &AddTaskOutput{Task: stored}, nil
		}
		reportRemoteFailure(uc.conn, uc.logger, "insert", task.ID, err)
	}

	change := domain.PendingChange{
		ID:        uuid.NewString(),
		Kind:      domain.ChangeCreate,
		TaskID:    task.ID,
		Task:      task.Clone(),
		Timestamp: now,
	}
	if err := uc.local.AppendChange(change); err != nil {
		return nil, fmt.Errorf("queue pending create: %w", err)
	}
	uc.notifier.Info("Offline Mode", "Task saved locally. Will sync when online.")

	return &AddTaskOutput{Task: &task, Queued: true}, nil
}
