package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/totodo-app/totodo/internal/app"
	"github.com/totodo-app/totodo/internal/domain"
	"github.com/totodo-app/totodo/internal/infra/connectivity"
	"github.com/totodo-app/totodo/internal/infra/remote"
)

// newSyncCommand creates the sync command for a forced reconciliation pass.
func newSyncCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "sync",
		Short:   "Push pending changes and pull the remote collection",
		GroupID: groupSync,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.Remote == nil {
				return domain.ErrNotConfigured
			}

			uc := c.SyncNowUseCase()
			out, err := uc.Execute(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d, pulled %d, %d pending\n",
				out.Result.Pushed, out.Result.Pulled, out.Result.Remaining)
			return nil
		},
	}
}

// newStatusCommand creates the status command.
func newStatusCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show sync and storage status",
		GroupID: groupSync,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.StatusUseCase()
			out, err := uc.Execute(cmd.Context())
			if err != nil {
				return err
			}

			mode := "offline"
			if out.Sync.Online {
				mode = "online"
			}
			if c.Remote == nil {
				mode = "local only (no remote configured)"
			}
			lastSync := "never"
			if !out.Sync.LastSync.IsZero() {
				lastSync = out.Sync.LastSync.Local().Format("2006-01-02 15:04:05")
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Mode:\t%s\n", mode)
			fmt.Fprintf(w, "Last sync:\t%s\n", lastSync)
			fmt.Fprintf(w, "Pending changes:\t%d\n", out.Sync.Pending)
			fmt.Fprintf(w, "Tasks:\t%d\n", out.Storage.Tasks)
			fmt.Fprintf(w, "Store:\t%s (%d bytes)\n", out.Storage.Path, out.Storage.UsedBytes)
			return w.Flush()
		},
	}
}

// newWatchCommand creates the watch command: the long-running sync daemon.
func newWatchCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   "Run the sync loop and mirror realtime remote changes",
		GroupID: groupSync,
		Long: `Run until interrupted. While running:

  - pending changes are pushed and the remote collection pulled on a
    periodic schedule and whenever connectivity returns
  - realtime remote changes are mirrored into the local store
  - remote reachability is probed in the background`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.Remote == nil {
				return domain.ErrNotConfigured
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if monitor, ok := c.Conn.(*connectivity.Monitor); ok {
				if prober, ok := c.Remote.(*remote.Client); ok {
					go monitor.Probe(ctx, prober, c.ProbeInterval())
				}
			}

			go c.Engine.Run(ctx, c.SyncInterval())

			// Catch up first, then follow the event stream.
			if _, err := c.Engine.Reconcile(ctx); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "initial sync: %v\n", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Watching for changes (sync every %s). Ctrl-C to stop.\n", c.SyncInterval())
			watch := c.WatchRemoteUseCase()
			for {
				err := watch.Execute(ctx)
				if errors.Is(err, context.Canceled) || ctx.Err() != nil {
					return nil
				}
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "realtime stream: %v\n", err)
				}
				// Stream dropped; pace the resubscription.
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(watchRetryDelay):
				}
			}
		},
	}
}

// watchRetryDelay paces resubscription after a dropped realtime stream.
const watchRetryDelay = 5 * time.Second
