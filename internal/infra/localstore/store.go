// Package localstore provides a JSON file-based implementation of LocalStore.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/totodo-app/totodo/internal/domain"
)

// storeData represents the JSON file structure.
// Fields are ordered to minimize memory padding.
type storeData struct {
	LastSync       time.Time              `json:"last_sync"`
	Tasks          []domain.Task          `json:"tasks"`
	PendingChanges []domain.PendingChange `json:"pending_changes"`
}

// Store implements domain.LocalStore using a single JSON file.
type Store struct {
	path     string
	lockPath string
}

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first write.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Tasks returns the full task collection. A missing or corrupt file reads
// as an empty collection.
func (s *Store) Tasks() []domain.Task {
	var tasks []domain.Task
	_ = s.withLock(func(data *storeData) error {
		tasks = slices.Clone(data.Tasks)
		return nil
	})
	return tasks
}

// SaveTasks atomically replaces the full task collection.
func (s *Store) SaveTasks(tasks []domain.Task) error {
	return s.withLockWrite(func(data *storeData) error {
		data.Tasks = slices.Clone(tasks)
		return nil
	})
}

// AddTask appends a task to the collection.
func (s *Store) AddTask(task domain.Task) error {
	return s.withLockWrite(func(data *storeData) error {
		data.Tasks = append(data.Tasks, task)
		return nil
	})
}

// UpdateTask applies a partial update to the task with the given id.
func (s *Store) UpdateTask(id string, patch domain.TaskPatch, now time.Time) (*domain.Task, error) {
	var updated *domain.Task
	err := s.withLockWrite(func(data *storeData) error {
		for i := range data.Tasks {
			if data.Tasks[i].ID != id {
				continue
			}
			data.Tasks[i].Apply(patch, now)
			updated = data.Tasks[i].Clone()
			return nil
		}
		return domain.ErrTaskNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask removes the task with the given id.
func (s *Store) DeleteTask(id string) error {
	return s.withLockWrite(func(data *storeData) error {
		for i := range data.Tasks {
			if data.Tasks[i].ID == id {
				data.Tasks = slices.Delete(data.Tasks, i, i+1)
				return nil
			}
		}
		return domain.ErrTaskNotFound
	})
}

// PendingChanges returns the change log in FIFO order.
func (s *Store) PendingChanges() []domain.PendingChange {
	var changes []domain.PendingChange
	_ = s.withLock(func(data *storeData) error {
		changes = slices.Clone(data.PendingChanges)
		return nil
	})
	return changes
}

// AppendChange appends an entry to the change log.
func (s *Store) AppendChange(change domain.PendingChange) error {
	if err := change.Validate(); err != nil {
		return err
	}
	return s.withLockWrite(func(data *storeData) error {
		data.PendingChanges = append(data.PendingChanges, change)
		return nil
	})
}

// UpdateChange replaces the logged entry with the same id.
func (s *Store) UpdateChange(change domain.PendingChange) error {
	return s.withLockWrite(func(data *storeData) error {
		for i := range data.PendingChanges {
			if data.PendingChanges[i].ID == change.ID {
				data.PendingChanges[i] = change
				return nil
			}
		}
		return domain.ErrChangeNotFound
	})
}

// RemoveChange removes the entry with the given id from the change log.
func (s *Store) RemoveChange(id string) error {
	return s.withLockWrite(func(data *storeData) error {
		for i := range data.PendingChanges {
			if data.PendingChanges[i].ID == id {
				data.PendingChanges = slices.Delete(data.PendingChanges, i, i+1)
				return nil
			}
		}
		return domain.ErrChangeNotFound
	})
}

// LastSync returns the last successful sync time.
func (s *Store) LastSync() time.Time {
	var t time.Time
	_ = s.withLock(func(data *storeData) error {
		t = data.LastSync
		return nil
	})
	return t
}

// SetLastSync records the last successful sync time.
func (s *Store) SetLastSync(t time.Time) error {
	return s.withLockWrite(func(data *storeData) error {
		data.LastSync = t
		return nil
	})
}

// Clear wipes tasks, change log and last-sync timestamp.
func (s *Store) Clear() error {
	return s.withLockWrite(func(data *storeData) error {
		*data = storeData{}
		return nil
	})
}

// Info reports storage usage.
func (s *Store) Info() domain.StorageInfo {
	info := domain.StorageInfo{Path: s.path}
	if st, err := os.Stat(s.path); err == nil {
		info.UsedBytes = st.Size()
	}
	info.Tasks = len(s.Tasks())
	return info
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data := s.read()
	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the
// result. The read-modify-write is one synchronous step, so interleaved
// callers cannot lose updates to the change log.
func (s *Store) withLockWrite(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data := s.read()
	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

// read loads the store file. Reads never fail outward: a missing or
// unparsable file yields an empty store.
func (s *Store) read() *storeData {
	var data storeData
	content, err := os.ReadFile(s.path)
	if err != nil {
		return &data
	}
	if err := json.Unmarshal(content, &data); err != nil {
		return &storeData{}
	}
	return &data
}

// write persists the store via temp file + rename so a failed write leaves
// the previously persisted state intact.
func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		_ = os.Remove(tmpPath)
		if errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT) {
			return fmt.Errorf("write store file: %w", domain.ErrStorageFull)
		}
		return fmt.Errorf("write store file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename store file: %w", err)
	}

	return nil
}

// Ensure Store implements LocalStore.
var _ domain.LocalStore = (*Store)(nil)
