// Package history keeps restorable snapshots of the local store in a git
// repository under the data directory. Each successful reconciliation (and
// explicit `totodo snapshot`) commits one snapshot; since the pull phase
// overwrites local state wholesale, the archive is the recovery path when an
// overwrite or import goes wrong.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"gopkg.in/yaml.v3"

	"github.com/totodo-app/totodo/internal/domain"
)

const snapshotFile = "snapshot.yaml"

// Store archives local store snapshots as git commits.
type Store struct {
	dir string
}

// SnapshotInfo describes one archived snapshot.
type SnapshotInfo struct {
	Time  time.Time
	Hash  string
	Label string
}

// snapshot is the YAML payload committed into the archive.
type snapshot struct {
	LastSync       time.Time              `yaml:"lastSync"`
	Tasks          []domain.Task          `yaml:"tasks"`
	PendingChanges []domain.PendingChange `yaml:"pendingChanges"`
}

// New creates a Store rooted at dir. The repository is initialized lazily
// on the first snapshot.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Snapshot records the given store state under a human-readable label.
func (s *Store) Snapshot(label string, tasks []domain.Task, changes []domain.PendingChange, lastSync time.Time) error {
	repo, err := s.open()
	if err != nil {
		return err
	}

	payload, err := yaml.Marshal(&snapshot{
		LastSync:       lastSync,
		Tasks:          tasks,
		PendingChanges: changes,
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, snapshotFile), payload, 0o600); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	if _, err := wt.Add(snapshotFile); err != nil {
		return fmt.Errorf("stage snapshot: %w", err)
	}

	_, err = wt.Commit(label, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "totodo",
			Email: "totodo@localhost",
			When:  time.Now(),
		},
	})
	if errors.Is(err, git.ErrEmptyCommit) {
		return nil // state unchanged since the last snapshot
	}
	if err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// List returns archived snapshots, newest first.
func (s *Store) List() ([]SnapshotInfo, error) {
	repo, err := git.PlainOpen(s.dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{})
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil // repository exists but has no commits yet
		}
		return nil, fmt.Errorf("read archive log: %w", err)
	}
	defer iter.Close()

	var infos []SnapshotInfo
	err = iter.ForEach(func(c *object.Commit) error {
		infos = append(infos, SnapshotInfo{
			Hash:  c.Hash.String(),
			Label: c.Message,
			Time:  c.Author.When,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk archive log: %w", err)
	}
	return infos, nil
}

// Restore reads the snapshot stored in the given commit.
func (s *Store) Restore(hash string) ([]domain.Task, []domain.PendingChange, time.Time, error) {
	repo, err := git.PlainOpen(s.dir)
	if err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("open archive: %w", err)
	}

	commit, err := repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("resolve snapshot %s: %w", hash, err)
	}

	file, err := commit.File(snapshotFile)
	if err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("snapshot file missing in %s: %w", hash, err)
	}
	contents, err := file.Contents()
	if err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := yaml.Unmarshal([]byte(contents), &snap); err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return snap.Tasks, snap.PendingChanges, snap.LastSync, nil
}

// open returns the archive repository, initializing it if needed.
func (s *Store) open() (*git.Repository, error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}

	repo, err := git.PlainOpen(s.dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInit(s.dir, false)
	}
	if err != nil {
		return nil, fmt.Errorf("open archive repository: %w", err)
	}
	return repo, nil
}

// Ensure Store implements Archiver.
var _ domain.Archiver = (*Store)(nil)
