// Package sqlitestore provides a SQLite-backed implementation of LocalStore.
// It is selected with `backend = "sqlite"` in the [store] config section.
package sqlitestore

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/totodo-app/totodo/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// Store implements domain.LocalStore using a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the database at dbPath and initializes the schema.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tasks returns the full task collection in insertion order.
func (s *Store) Tasks() []domain.Task {
	rows, err := s.db.Query(`
		SELECT id, title, description, completed, priority, due_date,
		       due_time, project, tags, time_spent, created_at, updated_at
		FROM tasks ORDER BY position`)
	if err != nil {
		return nil
	}
	defer func() { _ = rows.Close() }()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil
		}
		tasks = append(tasks, t)
	}
	if rows.Err() != nil {
		return nil
	}
	return tasks
}

// SaveTasks atomically replaces the full task collection.
func (s *Store) SaveTasks(tasks []domain.Task) error {
	return s.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
			return err
		}
		for i, t := range tasks {
			if err := insertTask(tx, t, i); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddTask appends a task to the collection.
func (s *Store) AddTask(task domain.Task) error {
	return s.inTx(func(tx *sql.Tx) error {
		pos, err := nextPosition(tx, "tasks")
		if err != nil {
			return err
		}
		return insertTask(tx, task, pos)
	})
}

// UpdateTask applies a partial update to the task with the given id.
func (s *Store) UpdateTask(id string, patch domain.TaskPatch, now time.Time) (*domain.Task, error) {
	var updated *domain.Task
	err := s.inTx(func(tx *sql.Tx) error {
		row := tx.QueryRow(`
			SELECT id, title, description, completed, priority, due_date,
			       due_time, project, tags, time_spent, created_at, updated_at
			FROM tasks WHERE id = ?`, id)
		t, err := scanTask(row)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		if err != nil {
			return err
		}

		t.Apply(patch, now)
		tags, err := json.Marshal(t.Tags)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			UPDATE tasks SET title = ?, description = ?, completed = ?,
			       priority = ?, due_date = ?, due_time = ?, project = ?,
			       tags = ?, time_spent = ?, updated_at = ?
			WHERE id = ?`,
			t.Title, t.Description, t.Completed, string(t.Priority),
			t.DueDate, t.DueTime, t.Project, string(tags), t.TimeSpent,
			t.UpdatedAt.Format(time.RFC3339Nano), id)
		if err != nil {
			return err
		}
		updated = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask removes the task with the given id.
func (s *Store) DeleteTask(id string) error {
	return s.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrTaskNotFound
		}
		return nil
	})
}

// PendingChanges returns the change log in FIFO order.
func (s *Store) PendingChanges() []domain.PendingChange {
	rows, err := s.db.Query(`
		SELECT id, task_id, kind, snapshot, timestamp, attempts, last_error
		FROM pending_changes ORDER BY position`)
	if err != nil {
		return nil
	}
	defer func() { _ = rows.Close() }()

	var changes []domain.PendingChange
	for rows.Next() {
		var (
			c        domain.PendingChange
			kind     string
			snapshot sql.NullString
			ts       string
		)
		if err := rows.Scan(&c.ID, &c.TaskID, &kind, &snapshot, &ts, &c.Attempts, &c.LastError); err != nil {
			return nil
		}
		c.Kind = domain.ChangeKind(kind)
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			c.Timestamp = t
		}
		if snapshot.Valid && snapshot.String != "" {
			var task domain.Task
			if err := json.Unmarshal([]byte(snapshot.String), &task); err == nil {
				c.Task = &task
			}
		}
		changes = append(changes, c)
	}
	if rows.Err() != nil {
		return nil
	}
	return changes
}

// AppendChange appends an entry to the change log.
func (s *Store) AppendChange(change domain.PendingChange) error {
	if err := change.Validate(); err != nil {
		return err
	}
	return s.inTx(func(tx *sql.Tx) error {
		pos, err := nextPosition(tx, "pending_changes")
		if err != nil {
			return err
		}
		snapshot, err := marshalSnapshot(change.Task)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			INSERT INTO pending_changes (id, task_id, kind, snapshot, timestamp, attempts, last_error, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			change.ID, change.TaskID, string(change.Kind), snapshot,
			change.Timestamp.Format(time.RFC3339Nano), change.Attempts, change.LastError, pos)
		return err
	})
}

// UpdateChange replaces the logged entry with the same id.
func (s *Store) UpdateChange(change domain.PendingChange) error {
	return s.inTx(func(tx *sql.Tx) error {
		snapshot, err := marshalSnapshot(change.Task)
		if err != nil {
			return err
		}
		res, err := tx.Exec(`
			UPDATE pending_changes SET task_id = ?, kind = ?, snapshot = ?,
			       timestamp = ?, attempts = ?, last_error = ?
			WHERE id = ?`,
			change.TaskID, string(change.Kind), snapshot,
			change.Timestamp.Format(time.RFC3339Nano), change.Attempts, change.LastError, change.ID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrChangeNotFound
		}
		return nil
	})
}

// RemoveChange removes the entry with the given id from the change log.
func (s *Store) RemoveChange(id string) error {
	return s.inTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM pending_changes WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrChangeNotFound
		}
		return nil
	})
}

// LastSync returns the last successful sync time.
func (s *Store) LastSync() time.Time {
	var value string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'last_sync'`).Scan(&value)
	if err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SetLastSync records the last successful sync time.
func (s *Store) SetLastSync(t time.Time) error {
	return s.inTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO meta (key, value) VALUES ('last_sync', ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			t.Format(time.RFC3339Nano))
		return err
	})
}

// Clear wipes tasks, change log and last-sync timestamp.
func (s *Store) Clear() error {
	return s.inTx(func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM tasks`,
			`DELETE FROM pending_changes`,
			`DELETE FROM meta`,
		} {
			if _, err := tx.Exec(stmt); err != nil {
				return err
			}
		}
		return nil
	})
}

// Info reports storage usage.
func (s *Store) Info() domain.StorageInfo {
	info := domain.StorageInfo{Path: s.path}
	if st, err := os.Stat(s.path); err == nil {
		info.UsedBytes = st.Size()
	}
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tasks`).Scan(&count); err == nil {
		info.Tasks = count
	}
	return info
}

// inTx runs fn inside a transaction so every mutation is all-or-nothing.
func (s *Store) inTx(fn func(*sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return mapSQLiteErr(err)
	}
	if err := tx.Commit(); err != nil {
		return mapSQLiteErr(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// mapSQLiteErr converts a disk-full condition into the domain error.
func mapSQLiteErr(err error) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.Code == sqlite3.ErrFull {
		return fmt.Errorf("%v: %w", err, domain.ErrStorageFull)
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (domain.Task, error) {
	var (
		t        domain.Task
		priority string
		tags     string
		created  string
		updated  string
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &priority,
		&t.DueDate, &t.DueTime, &t.Project, &tags, &t.TimeSpent, &created, &updated)
	if err != nil {
		return domain.Task{}, err
	}
	t.Priority = domain.Priority(priority)
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		t.Tags = nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
		t.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		t.UpdatedAt = ts
	}
	return t, nil
}

func insertTask(tx *sql.Tx, t domain.Task, position int) error {
	tags, err := json.Marshal(t.Tags)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO tasks (id, title, description, completed, priority,
		       due_date, due_time, project, tags, time_spent, created_at,
		       updated_at, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.Completed, string(t.Priority),
		t.DueDate, t.DueTime, t.Project, string(tags), t.TimeSpent,
		t.CreatedAt.Format(time.RFC3339Nano), t.UpdatedAt.Format(time.RFC3339Nano),
		position)
	return err
}

func nextPosition(tx *sql.Tx, table string) (int, error) {
	var pos sql.NullInt64
	if err := tx.QueryRow(`SELECT MAX(position) FROM ` + table).Scan(&pos); err != nil {
		return 0, err
	}
	return int(pos.Int64) + 1, nil
}

func marshalSnapshot(task *domain.Task) (any, error) {
	if task == nil {
		return nil, nil
	}
	data, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Ensure Store implements LocalStore.
var _ domain.LocalStore = (*Store)(nil)
