// Package domain contains core business entities and interfaces.
package domain

import (
	"slices"
	"strings"
	"time"
)

// Priority is the task priority level.
type Priority string

// Priority values.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority parses a priority string. An empty string defaults to medium.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(s) {
	case "":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return "", ErrInvalidPriority
	}
}

// Valid returns true if the priority is one of the known levels.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task represents a single to-do item owned by one user identity.
// JSON tags match the remote table columns and the export document format.
// Fields are ordered to minimize memory padding.
type Task struct {
	CreatedAt   time.Time `json:"created_at"`            // Creation time
	UpdatedAt   time.Time `json:"updated_at"`            // Last modification time (>= CreatedAt)
	ID          string    `json:"id"`                    // Opaque globally unique id, assigned at creation
	Title       string    `json:"title"`                 // Title (required, non-empty)
	Description string    `json:"description,omitempty"` // Description (optional)
	Priority    Priority  `json:"priority"`              // low / medium / high
	DueDate     string    `json:"due_date,omitempty"`    // Calendar date, "2006-01-02" (optional)
	DueTime     string    `json:"due_time,omitempty"`    // Time of day, "15:04"; only meaningful with DueDate
	Project     string    `json:"project,omitempty"`     // Project label (optional)
	Tags        []string  `json:"tags"`                  // Short labels, order irrelevant
	TimeSpent   int       `json:"time_spent"`            // Minutes, non-negative
	Completed   bool      `json:"completed"`             // Completion flag
}

// Validate checks the task invariants.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}
	if t.TimeSpent < 0 {
		return ErrNegativeTimeSpent
	}
	if t.DueDate != "" {
		if _, err := time.Parse("2006-01-02", t.DueDate); err != nil {
			return ErrInvalidDueDate
		}
	}
	if t.DueTime != "" {
		if t.DueDate == "" {
			return ErrInvalidDueDate
		}
		if _, err := time.Parse("15:04", t.DueTime); err != nil {
			return ErrInvalidDueDate
		}
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		return ErrTimestampOrder
	}
	return nil
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.Tags = slices.Clone(t.Tags)
	return &c
}

// TaskPatch is a partial task update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *Priority
	DueDate     *string
	DueTime     *string
	Project     *string
	Tags        *[]string
	TimeSpent   *int
}

// IsZero returns true if the patch changes nothing.
func (p TaskPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil &&
		p.Priority == nil && p.DueDate == nil && p.DueTime == nil &&
		p.Project == nil && p.Tags == nil && p.TimeSpent == nil
}

// Apply merges the patch into the task and advances UpdatedAt to now.
// UpdatedAt never moves backwards.
func (t *Task) Apply(p TaskPatch, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.DueTime != nil {
		t.DueTime = *p.DueTime
	}
	if p.Project != nil {
		t.Project = *p.Project
	}
	if p.Tags != nil {
		t.Tags = slices.Clone(*p.Tags)
	}
	if p.TimeSpent != nil {
		t.TimeSpent = *p.TimeSpent
	}
	if now.After(t.UpdatedAt) {
		t.UpdatedAt = now
	}
}

// NewerThan reports whether this task carries a later write than other,
// using UpdatedAt (last writer wins).
func (t *Task) NewerThan(other *Task) bool {
	return t.UpdatedAt.After(other.UpdatedAt)
}
