package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrInvalidPriority    = errors.New("invalid priority (must be low, medium or high)")
	ErrInvalidDueDate     = errors.New("invalid due date or time")
	ErrNegativeTimeSpent  = errors.New("time spent cannot be negative")
	ErrTimestampOrder     = errors.New("updated_at precedes created_at")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
	ErrInvalidChangeKind  = errors.New("invalid pending change")
	ErrMissingSnapshot    = errors.New("pending change requires a task snapshot")
	ErrUnexpectedSnapshot = errors.New("delete change must not carry a task snapshot")
	ErrChangeNotFound     = errors.New("pending change not found")
	ErrStorageFull        = errors.New("local storage is full")
	ErrRemoteUnavailable  = errors.New("remote store unreachable")
	ErrRemoteRejected     = errors.New("remote store rejected the operation")
	ErrDuplicateTask      = errors.New("task already exists in remote store")
	ErrInvalidImport      = errors.New("invalid import document")
	ErrNotConfigured      = errors.New("remote store not configured (set [remote] in config.toml)")
)
