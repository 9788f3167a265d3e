package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taskdeck/internal/calendar"
	"taskdeck/internal/model"
	"taskdeck/internal/service"
)

func (a *App) addCmd() *cobra.Command {
	var input service.TaskInput

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Title = args[0]
			task, err := a.tasks.CreateTask(cmd.Context(), input)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd, task)
			}
			cmd.Printf("Added task %d: %s\n", task.ID, renderTaskLine(a.clock, *task))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input.Description, "desc", "D", "", "description")
	cmd.Flags().StringVarP(&input.Due, "due", "d", "", "due date (today, fri, +2w, 2026-09-01, ...)")
	cmd.Flags().StringVarP(&input.At, "at", "t", "", "due time (9:00, 5pm, ...)")
	cmd.Flags().StringSliceVar(&input.Tags, "tag", nil, "tags (repeatable)")
	cmd.Flags().StringVarP(&input.Project, "project", "p", "", "project label")
	cmd.Flags().IntVar(&input.Priority, "priority", 0, "priority: 0 normal, 1 high, 2 urgent")

	return cmd
}

func (a *App) listCmd() *cobra.Command {
	var completed bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active tasks grouped into buckets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if completed {
				tasks, err := a.buckets.Completed(cmd.Context())
				if err != nil {
					return err
				}
				if a.jsonOut {
					return printJSON(cmd, tasks)
				}
				renderCompleted(cmd, a.clock, tasks)
				return nil
			}

			buckets, err := a.buckets.Buckets(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd, buckets)
			}
			renderBuckets(cmd, a.clock, buckets)
			return nil
		},
	}

	cmd.Flags().BoolVar(&completed, "completed", false, "show completed tasks instead")
	return cmd
}

func (a *App) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := a.tasks.GetTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			if task == nil {
				return fmt.Errorf("task %d not found", id)
			}
			if a.jsonOut {
				return printJSON(cmd, task)
			}
			renderTaskDetail(cmd, a.clock, task)
			return nil
		},
	}
}

func (a *App) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := a.tasks.CompleteTask(cmd.Context(), id, time.Now())
			if err != nil {
				return err
			}
			if task == nil {
				return fmt.Errorf("task %d not found", id)
			}
			if a.jsonOut {
				return printJSON(cmd, task)
			}
			cmd.Printf("Completed: %s\n", task.Title)
			return nil
		},
	}
}

func (a *App) reopenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <id>",
		Short: "Reopen a completed task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := a.tasks.ReopenTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			if task == nil {
				return fmt.Errorf("task %d not found", id)
			}
			if a.jsonOut {
				return printJSON(cmd, task)
			}
			cmd.Printf("Reopened: %s\n", task.Title)
			return nil
		},
	}
}

func (a *App) editCmd() *cobra.Command {
	var (
		title, desc, due, at, project string
		tags                          []string
		priority                      int
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch service.TaskPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("desc") {
				patch.Description = &desc
			}
			if cmd.Flags().Changed("due") {
				patch.Due = &due
			}
			if cmd.Flags().Changed("at") {
				patch.At = &at
			}
			if cmd.Flags().Changed("tag") {
				patch.Tags = &tags
			}
			if cmd.Flags().Changed("project") {
				patch.Project = &project
			}
			if cmd.Flags().Changed("priority") {
				patch.Priority = &priority
			}

			task, err := a.tasks.EditTask(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			if task == nil {
				return fmt.Errorf("task %d not found", id)
			}
			if a.jsonOut {
				return printJSON(cmd, task)
			}
			cmd.Printf("Updated task %d: %s\n", task.ID, renderTaskLine(a.clock, *task))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&desc, "desc", "D", "", "new description")
	cmd.Flags().StringVarP(&due, "due", "d", "", "new due date (empty clears)")
	cmd.Flags().StringVarP(&at, "at", "t", "", "new due time (empty clears)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "replacement tags")
	cmd.Flags().StringVarP(&project, "project", "p", "", "new project label")
	cmd.Flags().IntVar(&priority, "priority", 0, "new priority")

	return cmd
}

func (a *App) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE:  a.deleteRun("Deleted"),
	}
}

// skip is deletion under another name, for occurrences a template stamped
// out that the operator wants to pass over this time.
func (a *App) skipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skip <id>",
		Short: "Skip a generated occurrence",
		Args:  cobra.ExactArgs(1),
		RunE:  a.deleteRun("Skipped"),
	}
}

func (a *App) deleteRun(verb string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		task, err := a.tasks.GetTask(cmd.Context(), id)
		if err != nil {
			return err
		}
		if task == nil {
			return fmt.Errorf("task %d not found", id)
		}
		if err := a.tasks.DeleteTask(cmd.Context(), id); err != nil {
			return err
		}
		if a.jsonOut {
			return printJSON(cmd, task)
		}
		cmd.Printf("%s: %s\n", verb, task.Title)
		return nil
	}
}

func (a *App) moveCmd(bucket, short string) *cobra.Command {
	return &cobra.Command{
		Use:   bucket + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var task *model.Task
			switch bucket {
			case "soon":
				task, err = a.tasks.MoveToSoon(cmd.Context(), id)
			case "someday":
				task, err = a.tasks.MoveToSomeday(cmd.Context(), id)
			default:
				task, err = a.tasks.MoveToInbox(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			if task == nil {
				return fmt.Errorf("task %d not found", id)
			}
			if a.jsonOut {
				return printJSON(cmd, task)
			}
			cmd.Printf("Moved to %s: %s\n", bucket, task.Title)
			return nil
		},
	}
}

func (a *App) scheduleCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "schedule <id> <date>",
		Short: "Give a task a due date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := a.tasks.ScheduleTask(cmd.Context(), id, args[1], at)
			if err != nil {
				return err
			}
			if task == nil {
				return fmt.Errorf("task %d not found", id)
			}
			if a.jsonOut {
				return printJSON(cmd, task)
			}
			cmd.Printf("Scheduled for %s: %s\n", a.clock.FormatDate(*task.DueDate), task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&at, "at", "t", "", "due time")
	return cmd
}

func (a *App) todayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show tasks due or overdue today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			buckets, err := a.buckets.Buckets(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd, map[string]any{
					"overdue": buckets.Overdue,
					"today":   buckets.Today,
				})
			}
			renderSection(cmd, a.clock, "Overdue", buckets.Overdue)
			renderSection(cmd, a.clock, "Today", buckets.Today)
			return nil
		},
	}
}

func (a *App) weekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show the coming seven days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days := make(map[string][]any)
			for _, date := range calendar.EnumerateRange(a.clock.Today(), 7) {
				tasks, err := a.buckets.ForDate(cmd.Context(), date)
				if err != nil {
					return err
				}
				if a.jsonOut {
					items := make([]any, len(tasks))
					for i, task := range tasks {
						items[i] = task
					}
					days[date] = items
					continue
				}
				renderSection(cmd, a.clock, a.clock.FormatDate(date), tasks)
			}
			if a.jsonOut {
				return printJSON(cmd, days)
			}
			return nil
		},
	}
}

func (a *App) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.buckets.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd, stats)
			}
			renderStats(cmd, stats)
			return nil
		},
	}
}
