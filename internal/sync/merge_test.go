package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totodo-app/totodo/internal/domain"
)

func TestMergeEvent_InsertAppends(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := testTask("t1", "Existing", now)
	incoming := testTask("t2", "New", now)

	merged := MergeEvent([]domain.Task{existing}, domain.TaskEvent{
		Kind: domain.EventInsert, TaskID: "t2", Task: &incoming,
	})

	require.Len(t, merged, 2)
	assert.Equal(t, "t2", merged[1].ID)
}

func TestMergeEvent_InsertReplacesOptimisticCopy(t *testing.T) {
	// An insert for an id we already hold locally (our own create echoed
	// back) replaces the local copy instead of duplicating it.
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	local := testTask("t1", "Local copy", now)
	echoed := testTask("t1", "Server copy", now.Add(time.Second))

	merged := MergeEvent([]domain.Task{local}, domain.TaskEvent{
		Kind: domain.EventInsert, TaskID: "t1", Task: &echoed,
	})

	require.Len(t, merged, 1)
	assert.Equal(t, "Server copy", merged[0].Title)
}

func TestMergeEvent_UpdateKeepsNewerLocal(t *testing.T) {
	// A stale event must not clobber a later local write.
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	local := testTask("t1", "Newer local", now.Add(time.Minute))
	stale := testTask("t1", "Stale remote", now)

	merged := MergeEvent([]domain.Task{local}, domain.TaskEvent{
		Kind: domain.EventUpdate, TaskID: "t1", Task: &stale,
	})

	require.Len(t, merged, 1)
	assert.Equal(t, "Newer local", merged[0].Title)
}

func TestMergeEvent_DeleteRemoves(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []domain.Task{testTask("t1", "Doomed", now), testTask("t2", "Kept", now)}

	merged := MergeEvent(tasks, domain.TaskEvent{Kind: domain.EventDelete, TaskID: "t1"})

	require.Len(t, merged, 1)
	assert.Equal(t, "t2", merged[0].ID)
}

func TestMergeEvent_Idempotent(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	incoming := testTask("t1", "Once", now)
	ev := domain.TaskEvent{Kind: domain.EventInsert, TaskID: "t1", Task: &incoming}

	once := MergeEvent(nil, ev)
	twice := MergeEvent(once, ev)

	assert.Equal(t, once, twice)
}

func TestMergeEvent_UnknownDeleteIsNoOp(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []domain.Task{testTask("t1", "Kept", now)}

	merged := MergeEvent(tasks, domain.TaskEvent{Kind: domain.EventDelete, TaskID: "missing"})

	assert.Equal(t, tasks, merged)
}
