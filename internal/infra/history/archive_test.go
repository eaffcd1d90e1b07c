package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totodo-app/totodo/internal/domain"
)

func testTask(id, title string) domain.Task {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return domain.Task{
		ID:        id,
		Title:     title,
		Priority:  domain.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestStore_SnapshotAndList(t *testing.T) {
	// Setup
	store := New(t.TempDir())
	lastSync := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	// Execute: two snapshots with different states
	require.NoError(t, store.Snapshot("first", []domain.Task{testTask("t1", "One")}, nil, lastSync))
	require.NoError(t, store.Snapshot("second",
		[]domain.Task{testTask("t1", "One"), testTask("t2", "Two")}, nil, lastSync))

	// Assert: newest first
	infos, err := store.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Contains(t, infos[0].Label, "second")
	assert.Contains(t, infos[1].Label, "first")
}

func TestStore_Snapshot_UnchangedStateIsNoOp(t *testing.T) {
	store := New(t.TempDir())
	tasks := []domain.Task{testTask("t1", "Stable")}
	lastSync := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Snapshot("first", tasks, nil, lastSync))
	// Identical payload: no new commit.
	require.NoError(t, store.Snapshot("again", tasks, nil, lastSync))

	infos, err := store.List()
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestStore_Restore(t *testing.T) {
	// Setup
	store := New(t.TempDir())
	lastSync := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	task := testTask("t1", "Archived")
	change := domain.PendingChange{
		ID: "c1", Kind: domain.ChangeCreate, TaskID: "t1", Task: &task, Timestamp: lastSync,
	}
	require.NoError(t, store.Snapshot("keep", []domain.Task{task}, []domain.PendingChange{change}, lastSync))

	infos, err := store.List()
	require.NoError(t, err)
	require.Len(t, infos, 1)

	// Execute
	tasks, changes, restoredSync, err := store.Restore(infos[0].Hash)

	// Assert
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Archived", tasks[0].Title)
	require.Len(t, changes, 1)
	assert.Equal(t, "c1", changes[0].ID)
	require.NotNil(t, changes[0].Task)
	assert.True(t, restoredSync.Equal(lastSync))
}

func TestStore_Restore_UnknownHash(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Snapshot("seed", []domain.Task{testTask("t1", "x")}, nil, time.Time{}))

	_, _, _, err := store.Restore("0000000000000000000000000000000000000000")
	assert.Error(t, err)
}

func TestStore_List_EmptyArchive(t *testing.T) {
	store := New(t.TempDir())

	infos, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, infos)
}
