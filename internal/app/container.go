// Package app provides the dependency injection container for the application.
package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/totodo-app/totodo/internal/domain"
	"github.com/totodo-app/totodo/internal/infra/config"
	"github.com/totodo-app/totodo/internal/infra/connectivity"
	"github.com/totodo-app/totodo/internal/infra/history"
	"github.com/totodo-app/totodo/internal/infra/localstore"
	"github.com/totodo-app/totodo/internal/infra/logging"
	"github.com/totodo-app/totodo/internal/infra/notify"
	"github.com/totodo-app/totodo/internal/infra/remote"
	"github.com/totodo-app/totodo/internal/infra/sqlitestore"
	"github.com/totodo-app/totodo/internal/sync"
	"github.com/totodo-app/totodo/internal/usecase"
)

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Local    domain.LocalStore
	Remote   domain.RemoteStore // nil when no remote is configured
	Conn     domain.Connectivity
	Clock    domain.Clock
	Logger   domain.Logger
	Notifier domain.Notifier
	Archiver domain.Archiver // nil when snapshots are disabled

	// Pointer fields
	Engine  *sync.Engine
	History *history.Store // nil when snapshots are disabled

	// Configuration
	Config *config.Config

	closers []io.Closer
}

// New creates a new Container from the user's configuration. The remote store
// is only wired when the config names one; without it the app runs fully
// offline and mutations accumulate in the change log.
func New() (*Container, error) {
	loader := config.NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Container from an already loaded configuration.
func NewWithConfig(cfg *config.Config) (*Container, error) {
	c := &Container{
		Config: cfg,
		Clock:  domain.RealClock{},
	}

	logger := logging.New(cfg.Store.Dir, logging.ParseLevel(cfg.Log.Level))
	c.Logger = logger
	c.closers = append(c.closers, logger)

	switch cfg.Store.Backend {
	case "", "json":
		c.Local = localstore.New(filepath.Join(cfg.Store.Dir, "tasks.json"))
	case "sqlite":
		store, err := sqlitestore.New(filepath.Join(cfg.Store.Dir, "tasks.db"))
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		c.Local = store
		c.closers = append(c.closers, store)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if cfg.Remote.Configured() {
		c.Remote = remote.New(cfg.Remote.URL, cfg.Remote.APIKey, cfg.Remote.AccessToken, cfg.Remote.UserID)
	}
	// Start optimistic when a remote exists; the first failing call or probe
	// corrects the flag.
	c.Conn = connectivity.New(c.Remote != nil)

	c.Notifier = notify.NewConsole(os.Stderr)

	if cfg.Sync.Snapshots {
		c.History = history.New(filepath.Join(cfg.Store.Dir, "history"))
		c.Archiver = c.History
	}

	c.Engine = sync.New(c.Local, c.Remote, c.Conn, c.Clock, c.Logger, c.Notifier, c.Archiver)

	return c, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg *config.Config, local domain.LocalStore, rem domain.RemoteStore,
	conn domain.Connectivity, clock domain.Clock, logger domain.Logger, notifier domain.Notifier,
	archiver domain.Archiver) *Container {
	return &Container{
		Config:   cfg,
		Local:    local,
		Remote:   rem,
		Conn:     conn,
		Clock:    clock,
		Logger:   logger,
		Notifier: notifier,
		Archiver: archiver,
		Engine:   sync.New(local, rem, conn, clock, logger, notifier, archiver),
	}
}

// SyncInterval returns the configured periodic reconcile interval.
func (c *Container) SyncInterval() time.Duration {
	return time.Duration(c.Config.Sync.IntervalSeconds) * time.Second
}

// ProbeInterval returns the configured connectivity probe interval.
func (c *Container) ProbeInterval() time.Duration {
	return time.Duration(c.Config.Sync.ProbeSeconds) * time.Second
}

// Close releases held resources (log file, database handles).
func (c *Container) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// UseCase factory methods

// AddTaskUseCase returns a new AddTask use case.
func (c *Container) AddTaskUseCase() *usecase.AddTask {
	return usecase.NewAddTask(c.Local, c.Remote, c.Conn, c.Clock, c.Logger, c.Notifier)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Local)
}

// UpdateTaskUseCase returns a new UpdateTask use case.
func (c *Container) UpdateTaskUseCase() *usecase.UpdateTask {
	return usecase.NewUpdateTask(c.Local, c.Remote, c.Conn, c.Clock, c.Logger, c.Notifier)
}

// ToggleTaskUseCase returns a new ToggleTask use case.
func (c *Container) ToggleTaskUseCase() *usecase.ToggleTask {
	return usecase.NewToggleTask(c.Local, c.UpdateTaskUseCase())
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Local, c.Remote, c.Conn, c.Clock, c.Logger, c.Notifier)
}

// TaskStatsUseCase returns a new TaskStats use case.
func (c *Container) TaskStatsUseCase() *usecase.TaskStats {
	return usecase.NewTaskStats(c.Local, c.Clock)
}

// SyncNowUseCase returns a new SyncNow use case.
func (c *Container) SyncNowUseCase() *usecase.SyncNow {
	return usecase.NewSyncNow(c.Engine, c.Conn)
}

// StatusUseCase returns a new Status use case.
func (c *Container) StatusUseCase() *usecase.Status {
	return usecase.NewStatus(c.Local, c.Engine)
}

// ExportDataUseCase returns a new ExportData use case.
func (c *Container) ExportDataUseCase() *usecase.ExportData {
	return usecase.NewExportData(c.Local, c.Clock)
}

// ImportDataUseCase returns a new ImportData use case.
func (c *Container) ImportDataUseCase() *usecase.ImportData {
	return usecase.NewImportData(c.Local, c.Logger)
}

// ClearLocalUseCase returns a new ClearLocal use case.
func (c *Container) ClearLocalUseCase() *usecase.ClearLocal {
	return usecase.NewClearLocal(c.Local, c.Archiver, c.Clock, c.Logger)
}

// WatchRemoteUseCase returns a new WatchRemote use case.
func (c *Container) WatchRemoteUseCase() *usecase.WatchRemote {
	return usecase.NewWatchRemote(c.Remote, c.Engine, c.Logger)
}
