package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totodo-app/totodo/internal/domain"
	"github.com/totodo-app/totodo/internal/testutil"
)

func (f *taskFixture) deleteTask() *DeleteTask {
	return NewDeleteTask(f.local, f.remote, f.conn, f.clock, testutil.NopLogger{}, f.notifier)
}

func TestDeleteTask_Execute_Online(t *testing.T) {
	// Setup
	f := newTaskFixture(true)
	f.seedTask("t1", "Doomed")
	uc := f.deleteTask()

	// Execute
	out, err := uc.Execute(context.Background(), DeleteTaskInput{TaskID: "t1"})

	// Assert
	require.NoError(t, err)
	assert.False(t, out.Queued)
	assert.Empty(t, f.local.TasksData)
	assert.Equal(t, []string{"t1"}, f.remote.Deleted)
	assert.Empty(t, f.local.ChangesData)
}

func TestDeleteTask_Execute_OfflineQueuesWithoutSnapshot(t *testing.T) {
	// Setup
	f := newTaskFixture(false)
	f.seedTask("t1", "Doomed")
	uc := f.deleteTask()

	// Execute
	out, err := uc.Execute(context.Background(), DeleteTaskInput{TaskID: "t1"})

	// Assert: delete queued carrying only the id
	require.NoError(t, err)
	assert.True(t, out.Queued)
	assert.Empty(t, f.local.TasksData)
	require.Len(t, f.local.ChangesData, 1)
	change := f.local.ChangesData[0]
	assert.Equal(t, domain.ChangeDelete, change.Kind)
	assert.Equal(t, "t1", change.TaskID)
	assert.Nil(t, change.Task)
}

func TestDeleteTask_Execute_NotFound(t *testing.T) {
	f := newTaskFixture(true)
	uc := f.deleteTask()

	_, err := uc.Execute(context.Background(), DeleteTaskInput{TaskID: "missing"})

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
