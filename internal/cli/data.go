package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/totodo-app/totodo/internal/app"
	"github.com/totodo-app/totodo/internal/usecase"
)

// newExportCommand creates the export command.
func newExportCommand(c *app.Container) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export tasks and pending changes as JSON",
		GroupID: groupData,
		Long: `Export the full local state as a JSON backup document.

The document includes pending changes, so a device that never managed to
sync can still be backed up without losing queued work.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ExportDataUseCase()
			out, err := uc.Execute(cmd.Context())
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(append(out.JSON, '\n'))
				return err
			}
			if err := os.WriteFile(output, out.JSON, 0o600); err != nil {
				return fmt.Errorf("write export file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks and %d pending changes to %s\n",
				len(out.Document.Tasks), len(out.Document.PendingChanges), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "import <file>",
		Short:   "Import tasks from a JSON backup",
		GroupID: groupData,
		Long: `Import tasks from a backup document produced by export.

The merge is additive: tasks whose id already exists locally are kept
untouched, only unknown tasks are appended. An invalid document imports
nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			uc := c.ImportDataUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ImportDataInput{JSON: data})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks (%d already present)\n", out.Imported, out.Skipped)
			return nil
		},
	}
}

// newClearCommand creates the clear command.
func newClearCommand(c *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "clear",
		Short:   "Wipe the local store",
		GroupID: groupData,
		Long: `Wipe all local tasks, the pending change log and the last-sync mark.

When snapshots are enabled a snapshot is archived first, so the wipe can
be undone with 'totodo snapshot restore'. Remote data is not touched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear without --yes")
			}

			uc := c.ClearLocalUseCase()
			out, err := uc.Execute(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d tasks and %d pending changes\n", out.Tasks, out.Changes)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the wipe")

	return cmd
}
