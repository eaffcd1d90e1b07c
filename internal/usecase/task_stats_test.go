package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totodo-app/totodo/internal/domain"
	"github.com/totodo-app/totodo/internal/testutil"
)

func TestTaskStats_Execute(t *testing.T) {
	// Setup
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	local := testutil.NewMockLocalStore()
	local.TasksData = []domain.Task{
		{ID: "t1", Title: "Done", Priority: domain.PriorityLow, Completed: true,
			TimeSpent: 30, Project: "home", CreatedAt: now, UpdatedAt: now},
		{ID: "t2", Title: "Overdue", Priority: domain.PriorityHigh, DueDate: "2024-03-01",
			TimeSpent: 15, Project: "work", CreatedAt: now, UpdatedAt: now},
		{ID: "t3", Title: "Upcoming", Priority: domain.PriorityHigh, DueDate: "2024-04-01",
			CreatedAt: now, UpdatedAt: now},
	}
	uc := NewTaskStats(local, &testutil.MockClock{NowTime: now})

	// Execute
	out, err := uc.Execute(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 1, out.Completed)
	assert.Equal(t, 2, out.Active)
	assert.Equal(t, 1, out.Overdue)
	assert.Equal(t, 45, out.TimeSpent)
	assert.Equal(t, 2, out.ByPriority[domain.PriorityHigh])
	assert.Equal(t, 1, out.ByProject["home"])
	assert.Equal(t, 1, out.ByProject["work"])
}

func TestTaskStats_Execute_Empty(t *testing.T) {
	uc := NewTaskStats(testutil.NewMockLocalStore(), &testutil.MockClock{NowTime: time.Now()})

	out, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, out.Total)
	assert.Empty(t, out.ByProject)
}
