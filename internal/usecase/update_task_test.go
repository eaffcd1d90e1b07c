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

func (f *taskFixture) updateTask() *UpdateTask {
	return NewUpdateTask(f.local, f.remote, f.conn, f.clock, testutil.NopLogger{}, f.notifier)
}

func (f *taskFixture) seedTask(id, title string) domain.Task {
	task := domain.Task{
		ID:        id,
		Title:     title,
		Priority:  domain.PriorityMedium,
		CreatedAt: f.clock.NowTime.Add(-time.Hour),
		UpdatedAt: f.clock.NowTime.Add(-time.Hour),
	}
	f.local.TasksData = append(f.local.TasksData, task)
	return task
}

func TestUpdateTask_Execute_Online(t *testing.T) {
	// Setup
	f := newTaskFixture(true)
	f.seedTask("t1", "Before")
	uc := f.updateTask()

	// Execute
	title := "After"
	out, err := uc.Execute(context.Background(), UpdateTaskInput{
		TaskID: "t1",
		Patch:  domain.TaskPatch{Title: &title},
	})

	// Assert
	require.NoError(t, err)
	assert.False(t, out.Queued)
	assert.Equal(t, "After", out.Task.Title)
	assert.Equal(t, f.clock.NowTime, out.Task.UpdatedAt)

	require.Len(t, f.remote.Updated, 1)
	assert.Equal(t, "After", f.remote.Updated[0].Title)
	assert.Empty(t, f.local.ChangesData)
}

func TestUpdateTask_Execute_OfflineQueuesSnapshot(t *testing.T) {
	// Setup
	f := newTaskFixture(false)
	f.seedTask("t1", "Before")
	uc := f.updateTask()

	// Execute
	title := "After"
	out, err := uc.Execute(context.Background(), UpdateTaskInput{
		TaskID: "t1",
		Patch:  domain.TaskPatch{Title: &title},
	})

	// Assert: queued with the post-update snapshot
	require.NoError(t, err)
	assert.True(t, out.Queued)
	require.Len(t, f.local.ChangesData, 1)
	change := f.local.ChangesData[0]
	assert.Equal(t, domain.ChangeUpdate, change.Kind)
	require.NotNil(t, change.Task)
	assert.Equal(t, "After", change.Task.Title)
	assert.Contains(t, f.notifier.Titles(), "Offline Mode")
}

func TestUpdateTask_Execute_EmptyPatch(t *testing.T) {
	f := newTaskFixture(true)
	f.seedTask("t1", "Unchanged")
	uc := f.updateTask()

	_, err := uc.Execute(context.Background(), UpdateTaskInput{TaskID: "t1"})

	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)
}

func TestUpdateTask_Execute_EmptyTitle(t *testing.T) {
	f := newTaskFixture(true)
	f.seedTask("t1", "Unchanged")
	uc := f.updateTask()

	title := ""
	_, err := uc.Execute(context.Background(), UpdateTaskInput{
		TaskID: "t1",
		Patch:  domain.TaskPatch{Title: &title},
	})

	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
	assert.Equal(t, "Unchanged", f.local.TasksData[0].Title)
}

func TestUpdateTask_Execute_NotFound(t *testing.T) {
	f := newTaskFixture(true)
	uc := f.updateTask()

	title := "x"
	_, err := uc.Execute(context.Background(), UpdateTaskInput{
		TaskID: "missing",
		Patch:  domain.TaskPatch{Title: &title},
	})

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
