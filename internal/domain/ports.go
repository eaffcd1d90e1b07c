package domain

import (
	"context"
	"time"
)

// LocalStore is the on-device persistence layer for the task collection,
// the change log and the last-sync timestamp. All operations are synchronous.
// Reads never fail outward: a corrupt or missing store reads as empty.
// Writes are all-or-nothing at the granularity of one saved collection.
type LocalStore interface {
	// Tasks returns the full task collection (empty if none).
	Tasks() []Task

	// SaveTasks atomically replaces the full task collection.
	SaveTasks(tasks []Task) error

	// AddTask appends a task to the collection.
	AddTask(task Task) error

	// UpdateTask applies a partial update to the task with the given id,
	// stamping UpdatedAt with now. Returns the updated task.
	UpdateTask(id string, patch TaskPatch, now time.Time) (*Task, error)

	// DeleteTask removes the task with the given id.
	DeleteTask(id string) error

	// PendingChanges returns the change log in FIFO order (empty if none).
	PendingChanges() []PendingChange

	// AppendChange appends an entry to the change log.
	AppendChange(change PendingChange) error

	// UpdateChange replaces the logged entry with the same id.
	UpdateChange(change PendingChange) error

	// RemoveChange removes the entry with the given id from the change log.
	RemoveChange(id string) error

	// LastSync returns the last successful sync time (zero if never synced).
	LastSync() time.Time

	// SetLastSync records the last successful sync time.
	SetLastSync(t time.Time) error

	// Clear wipes tasks, change log and last-sync timestamp.
	Clear() error

	// Info reports storage usage.
	Info() StorageInfo
}

// RemoteStore is the authoritative task database, reachable over the network.
// Every operation is scoped to the owning identity by the implementation.
type RemoteStore interface {
	// InsertTask inserts a task and returns the stored row.
	InsertTask(ctx context.Context, task Task) (*Task, error)

	// UpdateTask updates a task keyed by its id.
	UpdateTask(ctx context.Context, task Task) error

	// DeleteTask deletes a task keyed by its id.
	DeleteTask(ctx context.Context, id string) error

	// FetchTasks returns the full remote collection, newest first.
	FetchTasks(ctx context.Context) ([]Task, error)

	// Subscribe delivers realtime change events for the owning identity
	// until ctx is cancelled.
	Subscribe(ctx context.Context) (<-chan TaskEvent, error)
}

// Connectivity tracks network reachability. The cached flag can be stale;
// a failing remote call is more authoritative and should be reported back
// via MarkOffline.
type Connectivity interface {
	// Online returns the current cached reachability flag.
	Online() bool

	// MarkOnline records an online observation and emits a transition.
	MarkOnline()

	// MarkOffline records an offline observation and emits a transition.
	MarkOffline()

	// Subscribe returns a channel of reachability transitions
	// (true = online). Only transitions are delivered, not repeats.
	Subscribe() <-chan bool
}

// Archiver keeps restorable snapshots of the local store.
type Archiver interface {
	// Snapshot records the given store state under a human-readable label.
	Snapshot(label string, tasks []Task, changes []PendingChange, lastSync time.Time) error
}

// Notifier surfaces non-blocking user notices (the toast equivalent).
type Notifier interface {
	// Info reports a normal notice.
	Info(title, body string)

	// Warn reports a failure notice.
	Warn(title, body string)
}

// Logger writes categorized log entries.
type Logger interface {
	Debug(category, msg string)
	Info(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
