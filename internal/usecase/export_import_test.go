package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totodo-app/totodo/internal/domain"
	"github.com/totodo-app/totodo/internal/testutil"
)

func TestExportData_Execute(t *testing.T) {
	// Setup
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	f := newTaskFixture(true)
	task := f.seedTask("t1", "Backed up")
	f.local.ChangesData = []domain.PendingChange{{
		ID: "c1", Kind: domain.ChangeCreate, TaskID: "t1", Task: task.Clone(), Timestamp: now,
	}}
	require.NoError(t, f.local.SetLastSync(now))
	uc := NewExportData(f.local, f.clock)

	// Execute
	out, err := uc.Execute(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, ExportVersion, out.Document.Version)
	assert.Equal(t, now.UnixMilli(), out.Document.LastSync)
	assert.Len(t, out.Document.Tasks, 1)
	assert.Len(t, out.Document.PendingChanges, 1)

	// The serialized form carries the documented field names.
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.JSON, &decoded))
	for _, key := range []string{"tasks", "pendingChanges", "lastSync", "exportedAt", "version"} {
		assert.Contains(t, decoded, key)
	}
}

func TestExportData_Execute_EmptyStore(t *testing.T) {
	// An empty store exports empty arrays, not nulls.
	f := newTaskFixture(true)
	uc := NewExportData(f.local, f.clock)

	out, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Document.LastSync)
	assert.Contains(t, string(out.JSON), `"tasks": []`)
	assert.Contains(t, string(out.JSON), `"pendingChanges": []`)
}

func TestExportData_Execute_NilTagsSerializeAsArray(t *testing.T) {
	// A task that never had tags set must still export as "tags": [], or the
	// document fails its own import validation.
	f := newTaskFixture(true)
	task := f.seedTask("t1", "Tagless")
	require.Nil(t, task.Tags)
	uc := NewExportData(f.local, f.clock)

	out, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Contains(t, string(out.JSON), `"tags": []`)
	assert.NotContains(t, string(out.JSON), `"tags": null`)

	// And the round trip accepts it.
	target := testutil.NewMockLocalStore()
	_, err = NewImportData(target, testutil.NopLogger{}).Execute(
		context.Background(), ImportDataInput{JSON: out.JSON})
	require.NoError(t, err)
	require.Len(t, target.TasksData, 1)
}

func TestImportData_Execute_RoundTrip(t *testing.T) {
	// Setup: export from one store, import into an empty one
	f := newTaskFixture(true)
	f.seedTask("t1", "Travels well")
	exported, err := NewExportData(f.local, f.clock).Execute(context.Background())
	require.NoError(t, err)

	target := testutil.NewMockLocalStore()
	uc := NewImportData(target, testutil.NopLogger{})

	// Execute
	out, err := uc.Execute(context.Background(), ImportDataInput{JSON: exported.JSON})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, out.Imported)
	assert.Equal(t, 0, out.Skipped)
	require.Len(t, target.TasksData, 1)
	assert.Equal(t, "Travels well", target.TasksData[0].Title)
}

func TestImportData_Execute_ExistingTasksWin(t *testing.T) {
	// Setup: the target already holds t1 with different content
	f := newTaskFixture(true)
	f.seedTask("t1", "Imported copy")
	f.seedTask("t2", "Only in backup")
	exported, err := NewExportData(f.local, f.clock).Execute(context.Background())
	require.NoError(t, err)

	target := newTaskFixture(true)
	target.seedTask("t1", "Local copy")
	uc := NewImportData(target.local, testutil.NopLogger{})

	// Execute
	out, err := uc.Execute(context.Background(), ImportDataInput{JSON: exported.JSON})

	// Assert: the existing task is untouched, only the unknown one appended
	require.NoError(t, err)
	assert.Equal(t, 1, out.Imported)
	assert.Equal(t, 1, out.Skipped)
	require.Len(t, target.local.TasksData, 2)
	assert.Equal(t, "Local copy", target.local.TasksData[0].Title)
	assert.Equal(t, "Only in backup", target.local.TasksData[1].Title)
}

func TestImportData_Execute_RejectsMalformedJSON(t *testing.T) {
	local := testutil.NewMockLocalStore()
	uc := NewImportData(local, testutil.NopLogger{})

	_, err := uc.Execute(context.Background(), ImportDataInput{JSON: []byte("{not json")})

	assert.ErrorIs(t, err, domain.ErrInvalidImport)
}

func TestImportData_Execute_RejectsSchemaViolation(t *testing.T) {
	// A task without a title must fail the whole import.
	local := testutil.NewMockLocalStore()
	local.TasksData = []domain.Task{{ID: "keep", Title: "Keep"}}
	uc := NewImportData(local, testutil.NopLogger{})

	doc := []byte(`{"version":"1.0","tasks":[{"id":"t1","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z"}]}`)
	_, err := uc.Execute(context.Background(), ImportDataInput{JSON: doc})

	assert.ErrorIs(t, err, domain.ErrInvalidImport)
	// Nothing was written.
	assert.Len(t, local.TasksData, 1)
}

func TestImportData_Execute_RejectsUnknownVersion(t *testing.T) {
	local := testutil.NewMockLocalStore()
	uc := NewImportData(local, testutil.NopLogger{})

	doc := []byte(`{"version":"2.0","tasks":[]}`)
	_, err := uc.Execute(context.Background(), ImportDataInput{JSON: doc})

	assert.ErrorIs(t, err, domain.ErrInvalidImport)
}
