package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/totodo-app/totodo/internal/app"
	"github.com/totodo-app/totodo/internal/domain"
	"github.com/totodo-app/totodo/internal/usecase"
)

// newAddCommand creates the add command for creating tasks.
func newAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Description string
		Priority    string
		DueDate     string
		DueTime     string
		Project     string
		Tags        []string
	}

	cmd := &cobra.Command{
		Use:     "add <title>",
		Short:   "Create a new task",
		GroupID: groupTask,
		Long: `Create a new task.

The task is stored locally right away. If a remote is configured and
reachable it is mirrored immediately; otherwise the create is queued and
pushed on the next sync.

Examples:
  totodo add "Write release notes"
  totodo add "Pay rent" --due 2026-09-30 --priority high
  totodo add "Plan sprint" --project work --tag planning --tag team`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.AddTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.AddTaskInput{
				Title:       args[0],
				Description: opts.Description,
				Priority:    opts.Priority,
				DueDate:     opts.DueDate,
				DueTime:     opts.DueTime,
				Project:     opts.Project,
				Tags:        opts.Tags,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s\n", shortID(out.Task.ID), out.Task.Title)
			if out.Queued {
				fmt.Fprintln(cmd.OutOrStdout(), "Queued for sync (offline)")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "desc", "d", "", "Task description")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "Priority (low, medium, high)")
	cmd.Flags().StringVar(&opts.DueDate, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.DueTime, "due-time", "", "Due time (HH:MM, requires --due)")
	cmd.Flags().StringVar(&opts.Project, "project", "", "Project label")
	cmd.Flags().StringArrayVarP(&opts.Tags, "tag", "t", nil, "Tag (repeatable)")

	return cmd
}

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Completed bool
		Active    bool
		Project   string
		Tag       string
		Priority  string
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		GroupID: groupTask,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.ListTasksInput{
				Project: opts.Project,
				Tag:     opts.Tag,
			}
			if opts.Completed {
				v := true
				input.Completed = &v
			}
			if opts.Active {
				v := false
				input.Completed = &v
			}
			if opts.Priority != "" {
				p, err := domain.ParsePriority(opts.Priority)
				if err != nil {
					return err
				}
				input.Priority = p
			}

			uc := c.ListTasksUseCase()
			out, err := uc.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}
			if len(out.Tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATE\tPRI\tTITLE\tDUE\tPROJECT\tTAGS")
			for _, t := range out.Tasks {
				state := " "
				if t.Completed {
					state = "x"
				}
				due := t.DueDate
				if due != "" && t.DueTime != "" {
					due += " " + t.DueTime
				}
				fmt.Fprintf(w, "%s\t[%s]\t%s\t%s\t%s\t%s\t%s\n",
					shortID(t.ID), state, t.Priority, t.Title, due, t.Project, strings.Join(t.Tags, ","))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&opts.Completed, "completed", false, "Show only completed tasks")
	cmd.Flags().BoolVar(&opts.Active, "active", false, "Show only active tasks")
	cmd.Flags().StringVar(&opts.Project, "project", "", "Filter by project")
	cmd.Flags().StringVarP(&opts.Tag, "tag", "t", "", "Filter by tag")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "Filter by priority")
	cmd.MarkFlagsMutuallyExclusive("completed", "active")

	return cmd
}

// newDoneCommand creates the done command for toggling completion.
func newDoneCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "done <id>",
		Short:   "Toggle a task's completed flag",
		GroupID: groupTask,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}

			uc := c.ToggleTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ToggleTaskInput{TaskID: id})
			if err != nil {
				return err
			}

			state := "active"
			if out.Task.Completed {
				state = "completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", shortID(out.Task.ID), state)
			return nil
		},
	}
}

// newEditCommand creates the edit command.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Priority    string
		DueDate     string
		DueTime     string
		Project     string
		Tags        []string
		TimeSpent   int
	}

	cmd := &cobra.Command{
		Use:     "edit <id>",
		Short:   "Edit an existing task",
		GroupID: groupTask,
		Long: `Edit an existing task. Only the flags you pass are changed.

Examples:
  totodo edit 3f2a --title "New title"
  totodo edit 3f2a --due 2026-10-01 --priority low
  totodo edit 3f2a --time-spent 45`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}

			var patch domain.TaskPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &opts.Title
			}
			if flags.Changed("desc") {
				patch.Description = &opts.Description
			}
			if flags.Changed("priority") {
				p, err := domain.ParsePriority(opts.Priority)
				if err != nil {
					return err
				}
				patch.Priority = &p
			}
			if flags.Changed("due") {
				patch.DueDate = &opts.DueDate
			}
			if flags.Changed("due-time") {
				patch.DueTime = &opts.DueTime
			}
			if flags.Changed("project") {
				patch.Project = &opts.Project
			}
			if flags.Changed("tag") {
				patch.Tags = &opts.Tags
			}
			if flags.Changed("time-spent") {
				patch.TimeSpent = &opts.TimeSpent
			}

			uc := c.UpdateTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.UpdateTaskInput{TaskID: id, Patch: patch})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", shortID(out.Task.ID))
			if out.Queued {
				fmt.Fprintln(cmd.OutOrStdout(), "Queued for sync (offline)")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVarP(&opts.Description, "desc", "d", "", "New description")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "New priority (low, medium, high)")
	cmd.Flags().StringVar(&opts.DueDate, "due", "", "New due date (YYYY-MM-DD, empty to clear)")
	cmd.Flags().StringVar(&opts.DueTime, "due-time", "", "New due time (HH:MM, empty to clear)")
	cmd.Flags().StringVar(&opts.Project, "project", "", "New project label")
	cmd.Flags().StringArrayVarP(&opts.Tags, "tag", "t", nil, "Replace tags (repeatable)")
	cmd.Flags().IntVar(&opts.TimeSpent, "time-spent", 0, "Minutes spent")

	return cmd
}

// newRemoveCommand creates the rm command.
func newRemoveCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a task",
		GroupID: groupTask,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}

			uc := c.DeleteTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: id})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", shortID(id))
			if out.Queued {
				fmt.Fprintln(cmd.OutOrStdout(), "Queued for sync (offline)")
			}
			return nil
		},
	}
}

// newStatsCommand creates the stats command.
func newStatsCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "stats",
		Short:   "Show task statistics",
		GroupID: groupTask,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.TaskStatsUseCase()
			out, err := uc.Execute(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Total:\t%d\n", out.Total)
			fmt.Fprintf(w, "Active:\t%d\n", out.Active)
			fmt.Fprintf(w, "Completed:\t%d\n", out.Completed)
			fmt.Fprintf(w, "Overdue:\t%d\n", out.Overdue)
			fmt.Fprintf(w, "Time spent:\t%dm\n", out.TimeSpent)
			for _, p := range []domain.Priority{domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow} {
				if n := out.ByPriority[p]; n > 0 {
					fmt.Fprintf(w, "Priority %s:\t%d\n", p, n)
				}
			}

			projects := make([]string, 0, len(out.ByProject))
			for p := range out.ByProject {
				projects = append(projects, p)
			}
			sort.Strings(projects)
			for _, p := range projects {
				fmt.Fprintf(w, "Project %s:\t%d\n", p, out.ByProject[p])
			}
			return w.Flush()
		},
	}
}
