// Package sync implements the reconciliation engine: it drains the pending
// change log against the remote store, pulls authoritative state back, and
// resolves the two into a single local task collection.
package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"github.com/totodo-app/totodo/internal/domain"
)

// maxRejectedAttempts is the number of rejected push attempts after which a
// change is surfaced to the user instead of being retried silently.
// Unreachable-network failures retry without limit.
const maxRejectedAttempts = 5

// Result is the outcome of one reconciliation pass.
type Result struct {
	Synced    bool // True if push and pull both completed
	Pushed    int  // Changes confirmed by the remote store this pass
	Pulled    int  // Tasks pulled from the remote store
	Remaining int  // Pending changes still unresolved
}

// pass is one in-flight reconciliation shared by coalesced callers.
type pass struct {
	done   chan struct{}
	result Result
	err    error
}

// Engine orchestrates push-then-pull reconciliation between the local store
// and the remote store. A pass already in progress absorbs new requests:
// concurrent callers block on the active pass and observe its outcome, so a
// pending change can never be double-submitted.
type Engine struct {
	local    domain.LocalStore
	remote   domain.RemoteStore
	conn     domain.Connectivity
	clock    domain.Clock
	logger   domain.Logger
	notifier domain.Notifier
	archiver domain.Archiver // optional

	mu       gosync.Mutex
	inflight *pass
}

// New creates an Engine. archiver may be nil to disable snapshots.
func New(local domain.LocalStore, remote domain.RemoteStore, conn domain.Connectivity,
	clock domain.Clock, logger domain.Logger, notifier domain.Notifier, archiver domain.Archiver) *Engine {
	return &Engine{
		local:    local,
		remote:   remote,
		conn:     conn,
		clock:    clock,
		logger:   logger,
		notifier: notifier,
		archiver: archiver,
	}
}

// Status recomputes the derived synchronization state.
func (e *Engine) Status() domain.SyncStatus {
	e.mu.Lock()
	syncing := e.inflight != nil
	e.mu.Unlock()

	return domain.SyncStatus{
		Online:   e.conn.Online(),
		Syncing:  syncing,
		LastSync: e.local.LastSync(),
		Pending:  len(e.local.PendingChanges()),
	}
}

// Reconcile runs one push-then-pull pass. If a pass is already active the
// call does not start a second one; it waits for the active pass and returns
// its result.
func (e *Engine) Reconcile(ctx context.Context) (Result, error) {
	e.mu.Lock()
	if e.inflight != nil {
		p := e.inflight
		e.mu.Unlock()
		select {
		case <-p.done:
			return p.result, p.err
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
	p := &pass{done: make(chan struct{})}
	e.inflight = p
	e.mu.Unlock()

	p.result, p.err = e.runPass(ctx)

	e.mu.Lock()
	e.inflight = nil
	e.mu.Unlock()
	close(p.done)

	return p.result, p.err
}

// runPass executes push, then pull, then bookkeeping. The pull only starts
// after the push has fully completed, so locally originated writes are
// already committed remotely before the overwrite.
func (e *Engine) runPass(ctx context.Context) (Result, error) {
	if !e.conn.Online() {
		e.logger.Debug("sync", "skipping reconciliation: offline")
		return Result{Remaining: len(e.local.PendingChanges())}, nil
	}

	pushed := e.PushPending(ctx)

	tasks, err := e.PullFromRemote(ctx)
	if err != nil {
		e.logger.Error("sync", fmt.Sprintf("pull failed: %v", err))
		e.notifier.Warn("Sync Failed", "Unable to sync tasks. Will retry automatically.")
		return Result{Pushed: pushed, Remaining: len(e.local.PendingChanges())}, err
	}

	now := e.clock.Now()
	if err := e.local.SetLastSync(now); err != nil {
		e.logger.Warn("sync", fmt.Sprintf("record last sync: %v", err))
	}

	remaining := len(e.local.PendingChanges())
	e.logger.Info("sync", fmt.Sprintf("reconciled: pushed=%d pulled=%d remaining=%d", pushed, len(tasks), remaining))

	if e.archiver != nil {
		label := fmt.Sprintf("sync %s", now.Format(time.RFC3339))
		if err := e.archiver.Snapshot(label, tasks, e.local.PendingChanges(), now); err != nil {
			e.logger.Warn("sync", fmt.Sprintf("archive snapshot: %v", err))
		}
	}

	if remaining == 0 {
		e.notifier.Info("Sync Complete", "All tasks synchronized successfully")
	}

	return Result{Synced: true, Pushed: pushed, Pulled: len(tasks), Remaining: remaining}, nil
}

// PushPending drains the change log in FIFO order. Each entry is removed
// only after its remote write is confirmed; a failing entry is left in place
// for the next pass and does not block the rest of the batch. Returns the
// number of changes confirmed.
func (e *Engine) PushPending(ctx context.Context) int {
	pushed := 0
	for _, change := range e.local.PendingChanges() {
		err := e.applyRemote(ctx, change)
		if err != nil && errors.Is(err, domain.ErrDuplicateTask) {
			// A replayed create the remote already holds: applied.
			e.logger.Debug("sync", fmt.Sprintf("change %s already applied remotely", change.ID))
			err = nil
		}
		if err != nil {
			e.recordFailure(change, err)
			continue
		}

		// Confirmed: removal happens strictly after success.
		if err := e.local.RemoveChange(change.ID); err != nil {
			e.logger.Error("sync", fmt.Sprintf("remove confirmed change %s: %v", change.ID, err))
			continue
		}
		pushed++
	}
	return pushed
}

// PullFromRemote fetches the full remote collection, replaces the local task
// collection with it and returns the pulled tasks. On failure the last
// known-good local collection is kept untouched.
func (e *Engine) PullFromRemote(ctx context.Context) ([]domain.Task, error) {
	tasks, err := e.remote.FetchTasks(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrRemoteUnavailable) {
			e.conn.MarkOffline()
		}
		return nil, fmt.Errorf("fetch remote tasks: %w", err)
	}
	e.conn.MarkOnline()
	if err := e.local.SaveTasks(tasks); err != nil {
		return nil, fmt.Errorf("save pulled tasks: %w", err)
	}
	return tasks, nil
}

// ApplyEvent mirrors one realtime event into the local store using the same
// id-keyed replace-or-append-or-remove logic as a pull.
func (e *Engine) ApplyEvent(ev domain.TaskEvent) error {
	merged := MergeEvent(e.local.Tasks(), ev)
	return e.local.SaveTasks(merged)
}

// Run reconciles on connectivity-regained transitions and on a periodic
// ticker until ctx is done. Explicit force-sync requests go through
// Reconcile directly and coalesce with this loop's passes.
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	transitions := e.conn.Subscribe()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case online := <-transitions:
			if !online {
				e.logger.Info("sync", "connection lost, mutations will queue locally")
				continue
			}
			e.logger.Info("sync", "connection regained, reconciling")
			if _, err := e.Reconcile(ctx); err != nil {
				e.logger.Error("sync", fmt.Sprintf("reconcile after reconnect: %v", err))
			}
		case <-ticker.C:
			if !e.conn.Online() {
				continue
			}
			if _, err := e.Reconcile(ctx); err != nil {
				e.logger.Error("sync", fmt.Sprintf("periodic reconcile: %v", err))
			}
		}
	}
}

// applyRemote performs the remote write for one change, scoped to the
// owning identity by the remote client.
func (e *Engine) applyRemote(ctx context.Context, change domain.PendingChange) error {
	switch change.Kind {
	case domain.ChangeCreate:
		_, err := e.remote.InsertTask(ctx, *change.Task)
		return err
	case domain.ChangeUpdate:
		return e.remote.UpdateTask(ctx, *change.Task)
	case domain.ChangeDelete:
		return e.remote.DeleteTask(ctx, change.TaskID)
	default:
		return domain.ErrInvalidChangeKind
	}
}

// recordFailure updates retry bookkeeping for a failed push. Rejected writes
// (validation or auth failures that will not heal on their own) are surfaced
// once their attempt count reaches the threshold; unreachable-network
// failures retry silently on the next pass.
func (e *Engine) recordFailure(change domain.PendingChange, err error) {
	e.logger.Error("sync", fmt.Sprintf("push %s %s: %v", change.Kind, change.TaskID, err))

	if errors.Is(err, domain.ErrRemoteUnavailable) {
		e.conn.MarkOffline()
	}

	change.Attempts++
	change.LastError = err.Error()
	if errors.Is(err, domain.ErrRemoteRejected) && change.Attempts == maxRejectedAttempts {
		e.notifier.Warn("Change Not Accepted",
			fmt.Sprintf("%s of task %s keeps being rejected by the server: %v", change.Kind, change.TaskID, err))
	}
	if uerr := e.local.UpdateChange(change); uerr != nil {
		e.logger.Warn("sync", fmt.Sprintf("record failed attempt for %s: %v", change.ID, uerr))
	}
}
