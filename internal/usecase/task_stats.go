package usecase

import (
	"context"

	"github.com/totodo-app/totodo/internal/domain"
)

// TaskStatsOutput aggregates the local collection.
type TaskStatsOutput struct {
	ByPriority map[domain.Priority]int
	ByProject  map[string]int
	Total      int
	Completed  int
	Active     int
	TimeSpent  int // Minutes across all tasks
	Overdue    int // Incomplete tasks with a due date before today
}

// TaskStats computes collection statistics from the local store.
type TaskStats struct {
	local domain.LocalStore
	clock domain.Clock
}

// NewTaskStats creates a new TaskStats use case.
func NewTaskStats(local domain.LocalStore, clock domain.Clock) *TaskStats {
	return &TaskStats{local: local, clock: clock}
}

// Execute walks the local collection once and tallies.
func (uc *TaskStats) Execute(_ context.Context) (*TaskStatsOutput, error) {
	out := &TaskStatsOutput{
		ByPriority: make(map[domain.Priority]int),
		ByProject:  make(map[string]int),
	}
	today := uc.clock.Now().Format("2006-01-02")

	for _, t := range uc.local.Tasks() {
		out.Total++
		out.TimeSpent += t.TimeSpent
		out.ByPriority[t.Priority]++
		if t.Project != "" {
			out.ByProject[t.Project]++
		}
		if t.Completed {
			out.Completed++
			continue
		}
		out.Active++
		if t.DueDate != "" && t.DueDate < today {
			out.Overdue++
		}
	}

	return out, nil
}
