// Package cli provides the command-line interface for totodo.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/totodo-app/totodo/internal/app"
	"github.com/totodo-app/totodo/internal/domain"
)

// Command group IDs.
const (
	groupTask = "task"
	groupSync = "sync"
	groupData = "data"
)

// NewRootCommand creates the root command for totodo.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "totodo",
		Short: "Offline-first task management CLI",
		Long: `totodo is an offline-first task manager.

Every change lands in the local store immediately and is mirrored to the
configured remote when the network allows. While offline, changes queue in
a pending log and are pushed on the next sync. Without a [remote] section
in the config the app runs fully local.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
	}

	root.AddGroup(
		&cobra.Group{ID: groupTask, Title: "Task Commands:"},
		&cobra.Group{ID: groupSync, Title: "Sync Commands:"},
		&cobra.Group{ID: groupData, Title: "Data Commands:"},
	)

	root.AddCommand(
		newAddCommand(c),
		newListCommand(c),
		newDoneCommand(c),
		newEditCommand(c),
		newRemoveCommand(c),
		newStatsCommand(c),
		newSyncCommand(c),
		newStatusCommand(c),
		newWatchCommand(c),
		newExportCommand(c),
		newImportCommand(c),
		newClearCommand(c),
		newSnapshotCommand(c),
	)

	return root
}

// resolveTaskID expands a task id prefix to the full id. Fails when the
// prefix is ambiguous or matches nothing.
func resolveTaskID(c *app.Container, prefix string) (string, error) {
	var match string
	for _, t := range c.Local.Tasks() {
		if !strings.HasPrefix(t.ID, prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("task id %q is ambiguous", prefix)
		}
		match = t.ID
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrTaskNotFound, prefix)
	}
	return match, nil
}

// shortID trims a task id for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
