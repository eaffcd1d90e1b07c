package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTask(now time.Time) Task {
	return Task{
		ID:        "task-1",
		Title:     "Write tests",
		Priority:  PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("")
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, p)

	p, err = ParsePriority("HIGH")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestTask_Validate_Success(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	task := validTask(now)
	task.DueDate = "2024-02-01"
	task.DueTime = "09:30"

	assert.NoError(t, task.Validate())
}

func TestTask_Validate_EmptyTitle(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	task := validTask(now)
	task.Title = "   "

	assert.ErrorIs(t, task.Validate(), ErrEmptyTitle)
}

func TestTask_Validate_BadPriority(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	task := validTask(now)
	task.Priority = "urgent"

	assert.ErrorIs(t, task.Validate(), ErrInvalidPriority)
}

func TestTask_Validate_DueDate(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	task := validTask(now)
	task.DueDate = "01/02/2024"
	assert.ErrorIs(t, task.Validate(), ErrInvalidDueDate)

	// Due time without a due date is meaningless.
	task = validTask(now)
	task.DueTime = "09:30"
	assert.ErrorIs(t, task.Validate(), ErrInvalidDueDate)

	task = validTask(now)
	task.DueDate = "2024-02-01"
	task.DueTime = "9:30am"
	assert.ErrorIs(t, task.Validate(), ErrInvalidDueDate)
}

func TestTask_Validate_NegativeTimeSpent(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	task := validTask(now)
	task.TimeSpent = -5

	assert.ErrorIs(t, task.Validate(), ErrNegativeTimeSpent)
}

func TestTask_Validate_TimestampOrder(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	task := validTask(now)
	task.UpdatedAt = now.Add(-time.Hour)

	assert.ErrorIs(t, task.Validate(), ErrTimestampOrder)
}

func TestTask_Apply(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	task := validTask(now)

	title := "Renamed"
	done := true
	later := now.Add(time.Hour)
	task.Apply(TaskPatch{Title: &title, Completed: &done}, later)

	assert.Equal(t, "Renamed", task.Title)
	assert.True(t, task.Completed)
	assert.Equal(t, later, task.UpdatedAt)
}

func TestTask_Apply_UpdatedAtNeverMovesBack(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	task := validTask(now)
	task.UpdatedAt = now.Add(time.Hour)

	title := "Renamed"
	task.Apply(TaskPatch{Title: &title}, now)

	assert.Equal(t, "Renamed", task.Title)
	assert.Equal(t, now.Add(time.Hour), task.UpdatedAt)
}

func TestTask_Clone_Independent(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	task := validTask(now)
	task.Tags = []string{"a", "b"}

	clone := task.Clone()
	clone.Tags[0] = "mutated"

	assert.Equal(t, "a", task.Tags[0])
}

func TestTask_NewerThan(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := validTask(now)
	newer := validTask(now)
	newer.UpdatedAt = now.Add(time.Minute)

	assert.True(t, newer.NewerThan(&older))
	assert.False(t, older.NewerThan(&newer))
	// Equal timestamps: neither side wins, incoming is kept by callers.
	assert.False(t, older.NewerThan(&older))
}

func TestTaskPatch_IsZero(t *testing.T) {
	assert.True(t, TaskPatch{}.IsZero())

	title := "x"
	assert.False(t, TaskPatch{Title: &title}.IsZero())
}
