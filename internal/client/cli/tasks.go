package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/gophtodo/internal/models"
	pkgapi "github.com/iudanet/gophtodo/pkg/api"
)

// dueDateLayout - формат срока задачи в командной строке
const dueDateLayout = "2006-01-02"

type taskFlags struct {
	title       string
	description string
	status      string
	due         string
}

func (c *Cli) newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Manage your tasks",
	}

	cmd.AddCommand(c.newTasksListCmd())
	cmd.AddCommand(c.newTasksAddCmd())
	cmd.AddCommand(c.newTasksShowCmd())
	cmd.AddCommand(c.newTasksEditCmd())
	cmd.AddCommand(c.newTasksDoneCmd())
	cmd.AddCommand(c.newTasksRemoveCmd())

	return cmd
}

func (c *Cli) newTasksListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withToken(cmd.Context(), func(ctx context.Context, token string) error {
				tasks, err := c.apiClient.ListTasks(ctx, token, status)
				if err != nil {
					return err
				}

				if len(tasks) == 0 {
					c.io.Println("No tasks found.")
					return nil
				}

				c.printTaskTable(tasks)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (todo, in_progress, done)")

	return cmd
}

func (c *Cli) newTasksAddCmd() *cobra.Command {
	flags := &taskFlags{}

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.title = args[0]
			}

			due, err := parseDueDate(flags.due)
			if err != nil {
				return err
			}

			title, err := c.promptIfEmpty(flags.title, "Title: ")
			if err != nil {
				return fmt.Errorf("failed to read title: %w", err)
			}

			description, err := c.promptIfEmpty(flags.description, "Description: ")
			if err != nil {
				return fmt.Errorf("failed to read description: %w", err)
			}

			req := pkgapi.TaskRequest{
				Title:       title,
				Description: description,
				Status:      flags.status,
				DueDate:     due,
			}

			return c.withToken(cmd.Context(), func(ctx context.Context, token string) error {
				task, err := c.apiClient.CreateTask(ctx, token, req)
				if err != nil {
					return err
				}

				c.io.Println("✓ Task created")
				c.printTask(task)
				return nil
			})
		},
	}

	addTaskFlags(cmd, flags)

	return cmd
}

func (c *Cli) newTasksShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withToken(cmd.Context(), func(ctx context.Context, token string) error {
				task, err := c.apiClient.GetTask(ctx, token, args[0])
				if err != nil {
					return err
				}

				c.printTask(task)
				return nil
			})
		},
	}
}

func (c *Cli) newTasksEditCmd() *cobra.Command {
	flags := &taskFlags{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Long:  `Only the fields passed as flags are changed. Pass --due "" to clear the due date.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed

			return c.withToken(cmd.Context(), func(ctx context.Context, token string) error {
				// PUT заменяет все поля, поэтому начинаем с текущего состояния
				task, err := c.apiClient.GetTask(ctx, token, args[0])
				if err != nil {
					return err
				}

				req := taskRequestFrom(task)
				if changed("title") {
					req.Title = flags.title
				}
				if changed("description") {
					req.Description = flags.description
				}
				if changed("status") {
					req.Status = flags.status
				}
				if changed("due") {
					if req.DueDate, err = parseDueDate(flags.due); err != nil {
						return err
					}
				}

				updated, err := c.apiClient.UpdateTask(ctx, token, task.ID, req)
				if err != nil {
					return err
				}

				c.io.Println("✓ Task updated")
				c.printTask(updated)
				return nil
			})
		},
	}

	addTaskFlags(cmd, flags)

	return cmd
}

func (c *Cli) newTasksDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withToken(cmd.Context(), func(ctx context.Context, token string) error {
				task, err := c.apiClient.GetTask(ctx, token, args[0])
				if err != nil {
					return err
				}

				req := taskRequestFrom(task)
				req.Status = string(models.TaskStatusDone)

				if _, err := c.apiClient.UpdateTask(ctx, token, task.ID, req); err != nil {
					return err
				}

				c.io.Printf("✓ Task %s marked as done\n", task.ID)
				return nil
			})
		},
	}
}

func (c *Cli) newTasksRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withToken(cmd.Context(), func(ctx context.Context, token string) error {
				if err := c.apiClient.DeleteTask(ctx, token, args[0]); err != nil {
					return err
				}

				c.io.Printf("✓ Task %s deleted\n", args[0])
				return nil
			})
		},
	}
}

// withToken выполняет fn с действующим токеном и обрабатывает 401 от сервера
func (c *Cli) withToken(ctx context.Context, fn func(ctx context.Context, token string) error) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	if err := fn(ctx, token); err != nil {
		return c.serverError(ctx, err)
	}
	return nil
}

func addTaskFlags(cmd *cobra.Command, flags *taskFlags) {
	cmd.Flags().StringVar(&flags.title, "title", "", "task title")
	cmd.Flags().StringVar(&flags.description, "description", "", "task description")
	cmd.Flags().StringVar(&flags.status, "status", "", "task status (todo, in_progress, done)")
	cmd.Flags().StringVar(&flags.due, "due", "", "due date (YYYY-MM-DD)")
}

func parseDueDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	due, err := time.Parse(dueDateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", value)
	}
	return &due, nil
}

func taskRequestFrom(task *pkgapi.Task) pkgapi.TaskRequest {
	return pkgapi.TaskRequest{
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		DueDate:     task.DueDate,
	}
}

func (c *Cli) printTaskTable(tasks []pkgapi.Task) {
	w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTATUS\tDUE\tTITLE")
	for _, t := range tasks {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Status, formatDue(t.DueDate), t.Title)
	}
	_ = w.Flush()
}

func (c *Cli) printTask(task *pkgapi.Task) {
	c.io.Printf("ID: %s\n", task.ID)
	c.io.Printf("Title: %s\n", task.Title)
	if task.Description != "" {
		c.io.Printf("Description: %s\n", task.Description)
	}
	c.io.Printf("Status: %s\n", task.Status)
	c.io.Printf("Due: %s\n", formatDue(task.DueDate))
	c.io.Printf("Created: %s\n", task.CreatedAt.Format(time.RFC3339))
}

func formatDue(due *time.Time) string {
	if due == nil {
		return "-"
	}
	return due.Format(dueDateLayout)
}
