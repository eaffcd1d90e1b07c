package sync

import (
	"slices"

	"github.com/totodo-app/totodo/internal/domain"
)

// MergeEvent applies one realtime event into a task collection, keyed by id:
// inserts append (or replace an optimistic local copy), updates replace,
// deletes remove. An incoming row only replaces an existing one if it does
// not carry an older updated_at, so a stale event cannot clobber a newer
// local write.
func MergeEvent(tasks []domain.Task, ev domain.TaskEvent) []domain.Task {
	switch ev.Kind {
	case domain.EventInsert, domain.EventUpdate:
		if ev.Task == nil {
			return tasks
		}
		return upsert(tasks, *ev.Task)
	case domain.EventDelete:
		return remove(tasks, ev.TaskID)
	default:
		return tasks
	}
}

func upsert(tasks []domain.Task, incoming domain.Task) []domain.Task {
	for i := range tasks {
		if tasks[i].ID != incoming.ID {
			continue
		}
		if tasks[i].NewerThan(&incoming) {
			return tasks // local copy carries a later write
		}
		out := slices.Clone(tasks)
		out[i] = incoming
		return out
	}
	return append(slices.Clone(tasks), incoming)
}

func remove(tasks []domain.Task, id string) []domain.Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return slices.Delete(slices.Clone(tasks), i, i+1)
		}
	}
	return tasks
}
