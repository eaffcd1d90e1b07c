package usecase

import (
	"errors"
	"fmt"

	"github.com/totodo-app/totodo/internal/domain"
)

// reportRemoteFailure logs a failed direct remote write and downgrades the
// cached connectivity flag when the failure was a reachability one: a real
// call failing is more authoritative than the cached flag.
func reportRemoteFailure(conn domain.Connectivity, logger domain.Logger, op, taskID string, err error) {
	logger.Warn("task", fmt.Sprintf("remote %s %s: %v", op, taskID, err))
	if errors.Is(err, domain.ErrRemoteUnavailable) {
		conn.MarkOffline()
	}
}

// fullPatch converts a task row into a patch replacing every field, used to
// adopt a server-returned row into the local copy.
func fullPatch(t *domain.Task) domain.TaskPatch {
	return domain.TaskPatch{
		Title:       &t.Title,
		Description: &t.Description,
		Completed:   &t.Completed,
		Priority:    &t.Priority,
		DueDate:     &t.DueDate,
		DueTime:     &t.DueTime,
		Project:     &t.Project,
		Tags:        &t.Tags,
		TimeSpent:   &t.TimeSpent,
	}
}
