package usecase

import (
	"context"
	"slices"

	"github.com/totodo-app/totodo/internal/domain"
)

// ListTasksInput specifies criteria for listing tasks.
type ListTasksInput struct {
	Completed *bool           // nil = all
	Priority  domain.Priority // empty = all
	Project   string          // empty = all
	Tag       string          // empty = all
}

// ListTasksOutput contains the matching tasks.
type ListTasksOutput struct {
	Tasks []domain.Task
}

// ListTasks serves the task collection from the local store only; it never
// blocks on the network.
type ListTasks struct {
	local domain.LocalStore
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(local domain.LocalStore) *ListTasks {
	return &ListTasks{local: local}
}

// Execute returns the filtered collection, newest first.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	var tasks []domain.Task
	for _, t := range uc.local.Tasks() {
		if in.Completed != nil && t.Completed != *in.Completed {
			continue
		}
		if in.Priority != "" && t.Priority != in.Priority {
			continue
		}
		if in.Project != "" && t.Project != in.Project {
			continue
		}
		if in.Tag != "" && !slices.Contains(t.Tags, in.Tag) {
			continue
		}
		tasks = append(tasks, t)
	}

	slices.SortFunc(tasks, func(a, b domain.Task) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return &ListTasksOutput{Tasks: tasks}, nil
}
