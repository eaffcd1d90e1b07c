package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/totodo-app/totodo/internal/app"
	"github.com/totodo-app/totodo/internal/domain"
)

// newSnapshotCommand creates the snapshot command group for the history
// archive.
func newSnapshotCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Short:   "Manage local store snapshots",
		GroupID: groupData,
		Long: `Manage the snapshot archive.

A snapshot of the local store is archived after every successful sync and
before every clear. Since a sync overwrites local tasks with the remote
collection, restoring a snapshot is the way back when an overwrite loses
something.`,
	}

	cmd.AddCommand(
		newSnapshotTakeCommand(c),
		newSnapshotListCommand(c),
		newSnapshotRestoreCommand(c),
	)

	return cmd
}

// newSnapshotTakeCommand creates the snapshot take command.
func newSnapshotTakeCommand(c *app.Container) *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "take",
		Short: "Archive a snapshot of the local store now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.History == nil {
				return domain.ErrNotConfigured
			}

			if label == "" {
				label = fmt.Sprintf("manual %s", c.Clock.Now().Format("2006-01-02 15:04:05"))
			}
			err := c.History.Snapshot(label, c.Local.Tasks(), c.Local.PendingChanges(), c.Local.LastSync())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Archived snapshot: %s\n", label)
			return nil
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "Snapshot label")

	return cmd
}

// newSnapshotListCommand creates the snapshot list command.
func newSnapshotListCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.History == nil {
				return domain.ErrNotConfigured
			}

			infos, err := c.History.List()
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No snapshots")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "HASH\tTIME\tLABEL")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					info.Hash[:8], info.Time.Local().Format("2006-01-02 15:04:05"),
					strings.TrimSpace(info.Label))
			}
			return w.Flush()
		},
	}
}

// newSnapshotRestoreCommand creates the snapshot restore command.
func newSnapshotRestoreCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <hash>",
		Short: "Restore the local store from a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.History == nil {
				return domain.ErrNotConfigured
			}

			hash, err := resolveSnapshotHash(c, args[0])
			if err != nil {
				return err
			}
			tasks, changes, lastSync, err := c.History.Restore(hash)
			if err != nil {
				return err
			}

			// Archive the current state before overwriting it.
			label := fmt.Sprintf("before restore of %s", hash[:8])
			if err := c.History.Snapshot(label, c.Local.Tasks(), c.Local.PendingChanges(), c.Local.LastSync()); err != nil {
				return fmt.Errorf("snapshot before restore: %w", err)
			}

			if err := c.Local.SaveTasks(tasks); err != nil {
				return fmt.Errorf("restore tasks: %w", err)
			}
			for _, ch := range c.Local.PendingChanges() {
				if err := c.Local.RemoveChange(ch.ID); err != nil {
					return fmt.Errorf("drop change %s: %w", ch.ID, err)
				}
			}
			for _, ch := range changes {
				if err := c.Local.AppendChange(ch); err != nil {
					return fmt.Errorf("restore change %s: %w", ch.ID, err)
				}
			}
			if err := c.Local.SetLastSync(lastSync); err != nil {
				return fmt.Errorf("restore last sync: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d tasks and %d pending changes from %s\n",
				len(tasks), len(changes), hash[:8])
			return nil
		},
		Args: cobra.ExactArgs(1),
	}
}

// resolveSnapshotHash expands a commit hash prefix to the full hash.
func resolveSnapshotHash(c *app.Container, prefix string) (string, error) {
	infos, err := c.History.List()
	if err != nil {
		return "", err
	}
	var match string
	for _, info := range infos {
		if !strings.HasPrefix(info.Hash, prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("snapshot %q is ambiguous", prefix)
		}
		match = info.Hash
	}
	if match == "" {
		return "", fmt.Errorf("no snapshot matches %q", prefix)
	}
	return match, nil
}
