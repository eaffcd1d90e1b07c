package usecase

import (
	"context"
	"fmt"

	"github.com/totodo-app/totodo/internal/domain"
	"github.com/totodo-app/totodo/internal/sync"
)

// WatchRemote consumes the realtime event stream and mirrors each event into
// the local store. It blocks until the stream ends or ctx is cancelled.
type WatchRemote struct {
	remote domain.RemoteStore
	engine *sync.Engine
	logger domain.Logger
}

// NewWatchRemote creates a new WatchRemote use case.
func NewWatchRemote(remote domain.RemoteStore, engine *sync.Engine, logger domain.Logger) *WatchRemote {
	return &WatchRemote{remote: remote, engine: engine, logger: logger}
}

// Execute subscribes and applies events until the channel closes. Events that
// fail to apply are logged and skipped; the stream keeps going.
func (uc *WatchRemote) Execute(ctx context.Context) error {
	events, err := uc.remote.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to remote changes: %w", err)
	}
	uc.logger.Info("watch", "subscribed to realtime task events")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				uc.logger.Info("watch", "realtime stream closed")
				return nil
			}
			if err := uc.engine.ApplyEvent(ev); err != nil {
				uc.logger.Error("watch", fmt.Sprintf("apply %s event for %s: %v", ev.Kind, ev.TaskID, err))
			}
		}
	}
}
