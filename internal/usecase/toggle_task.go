package usecase

import (
	"context"
	"fmt"

	"github.com/totodo-app/totodo/internal/domain"
)

// ToggleTaskInput contains the parameters for toggling completion.
type ToggleTaskInput struct {
	TaskID string // Task id (required)
}

// ToggleTaskOutput contains the result of toggling a task.
type ToggleTaskOutput struct {
	Task   *domain.Task
	Queued bool
}

// ToggleTask is the use case for flipping a task's completed flag.
type ToggleTask struct {
	local  domain.LocalStore
	update *UpdateTask
}

// NewToggleTask creates a new ToggleTask use case.
func NewToggleTask(local domain.LocalStore, update *UpdateTask) *ToggleTask {
	return &ToggleTask{local: local, update: update}
}

// Execute flips the completed flag through the regular update pipeline.
func (uc *ToggleTask) Execute(ctx context.Context, in ToggleTaskInput) (*ToggleTaskOutput, error) {
	var current *domain.Task
	for _, t := range uc.local.Tasks() {
		if t.ID == in.TaskID {
			current = t.Clone()
			break
		}
	}
	if current == nil {
		return nil, domain.ErrTaskNotFound
	}

	completed := !current.Completed
	out, err := uc.update.Execute(ctx, UpdateTaskInput{
		TaskID: in.TaskID,
		Patch:  domain.TaskPatch{Completed: &completed},
	})
	if err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	return &ToggleTaskOutput{Task: out.Task, Queued: out.Queued}, nil
}
