package domain

import "time"

// ChangeKind identifies the kind of a pending change.
type ChangeKind string

// Change kinds.
const (
	ChangeCreate ChangeKind = "create"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// Valid returns true if the kind is one of the known kinds.
func (k ChangeKind) Valid() bool {
	return k == ChangeCreate || k == ChangeUpdate || k == ChangeDelete
}

// PendingChange is one entry of the change log: a local mutation that has not
// yet been confirmed by the remote store. Create and update carry a snapshot
// of the task; delete carries only the task id.
// Fields are ordered to minimize memory padding.
type PendingChange struct {
	Timestamp time.Time  `json:"timestamp"`            // When the mutation was recorded
	Task      *Task      `json:"task,omitempty"`       // Snapshot (create/update only)
	ID        string     `json:"id"`                   // Change id (unique within the log)
	TaskID    string     `json:"task_id"`              // Affected task id
	Kind      ChangeKind `json:"type"`                 // create / update / delete
	LastError string     `json:"last_error,omitempty"` // Most recent failure, if any
	Attempts  int        `json:"attempts,omitempty"`   // Failed push attempts so far
}

// Validate checks the change invariants.
func (c *PendingChange) Validate() error {
	if !c.Kind.Valid() {
		return ErrInvalidChangeKind
	}
	if c.TaskID == "" {
		return ErrInvalidChangeKind
	}
	switch c.Kind {
	case ChangeCreate, ChangeUpdate:
		if c.Task == nil {
			return ErrMissingSnapshot
		}
	case ChangeDelete:
		if c.Task != nil {
			return ErrUnexpectedSnapshot
		}
	}
	return nil
}

// EventKind identifies a realtime event delivered by the remote store.
type EventKind string

// Event kinds.
const (
	EventInsert EventKind = "insert"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

// TaskEvent is a typed realtime change notification for the owning identity.
// Insert and update carry the task row; delete carries only the id.
type TaskEvent struct {
	Task   *Task     `json:"task,omitempty"`
	TaskID string    `json:"task_id"`
	Kind   EventKind `json:"kind"`
}
