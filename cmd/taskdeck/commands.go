package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	tderrors "github.com/abatilo/taskdeck/internal/errors"
	"github.com/abatilo/taskdeck/internal/output"
	"github.com/abatilo/taskdeck/internal/storage"
	"github.com/abatilo/taskdeck/internal/task"
)

// fieldFlags are the editable task fields shared by add and edit. Only flags
// the user actually set are applied.
type fieldFlags struct {
	title       string
	description string
	priority    string
	category    string
	due         string
	hours       float64
	clearDue    bool
	clearHours  bool
}

func (ff *fieldFlags) register(cmd *cobra.Command, editing bool) {
	fs := cmd.Flags()
	if editing {
		fs.StringVarP(&ff.title, "title", "t", "", "New title")
		fs.BoolVar(&ff.clearDue, "clear-due", false, "Remove the due date")
		fs.BoolVar(&ff.clearHours, "clear-hours", false, "Remove the estimate")
	}
	fs.StringVarP(&ff.description, "description", "d", "", "Task description")
	fs.StringVarP(&ff.priority, "priority", "p", "", "Priority (high, medium, low)")
	fs.StringVarP(&ff.category, "category", "c", "", "Category (work, personal, health, learning, or any text)")
	fs.StringVar(&ff.due, "due", "", "Due date (YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC3339)")
	fs.Float64Var(&ff.hours, "hours", 0, "Estimated hours")
}

// apply overlays the changed flags onto f.
func (ff *fieldFlags) apply(cmd *cobra.Command, f *storage.Fields) error {
	changed := cmd.Flags().Changed

	if changed("title") {
		f.Title = ff.title
	}
	if changed("description") {
		f.Description = ff.description
	}
	if changed("priority") {
		f.Priority = task.Priority(strings.ToLower(strings.TrimSpace(ff.priority)))
	}
	if changed("category") {
		f.Category = task.Category(strings.TrimSpace(ff.category))
	}
	if changed("due") {
		due, err := parseDue(ff.due)
		if err != nil {
			return err
		}
		f.DueDate = due
	}
	if changed("hours") {
		hours := ff.hours
		f.EstimatedHours = &hours
	}
	if ff.clearDue {
		f.DueDate = nil
	}
	if ff.clearHours {
		f.EstimatedHours = nil
	}
	return nil
}

func parseDue(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	due, err := storage.ParseTime(s)
	if err != nil {
		return nil, tderrors.InvalidInputError{Field: "due date", Reason: fmt.Sprintf("cannot parse %q", s)}
	}
	return &due, nil
}

func fieldsOf(t task.Task) storage.Fields {
	return storage.Fields{
		Title:          t.Title,
		Description:    t.Description,
		Priority:       t.Priority,
		Category:       t.Category,
		DueDate:        t.DueDate,
		EstimatedHours: t.EstimatedHours,
	}
}

// addCmd implements 'taskdeck add'.
func addCmd(a *app) *cobra.Command {
	var ff fieldFlags
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := storage.Fields{Title: args[0]}
			if err := ff.apply(cmd, &f); err != nil {
				return err
			}

			t, err := a.store.Create(f)
			if err != nil {
				return err
			}
			a.log.Task(t.ID, "task created",
				zap.String("priority", string(t.Priority)), zap.String("category", string(t.Category)))
			a.printTask("Task added", t)
			return nil
		},
	}
	ff.register(cmd, false)
	return cmd
}

// editCmd implements 'taskdeck edit'.
func editCmd(a *app) *cobra.Command {
	var ff fieldFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := a.store.Get(args[0])
			if err != nil {
				if a.softNotFound(err) {
					return nil
				}
				return err
			}

			f := fieldsOf(current)
			if err = ff.apply(cmd, &f); err != nil {
				return err
			}

			t, err := a.store.Update(current.ID, f)
			if err != nil {
				return err
			}
			a.log.Task(t.ID, "task updated")
			a.printTask("Task updated", t)
			return nil
		},
	}
	ff.register(cmd, true)
	return cmd
}

// toggleCmd implements 'taskdeck toggle'.
func toggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done", "complete"},
		Short:   "Toggle a task between pending and completed",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			t, err := a.store.ToggleCompletion(args[0])
			if err != nil {
				if a.softNotFound(err) {
					return nil
				}
				return err
			}

			msg := "Task reopened"
			if t.Completed {
				msg = "Task completed"
			}
			a.log.Task(t.ID, "task toggled", zap.Bool("completed", t.Completed))
			a.printTask(msg, t)
			return nil
		},
	}
}

// rmCmd implements 'taskdeck rm'.
func rmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.store.Delete(args[0]); err != nil {
				if a.softNotFound(err) {
					return nil
				}
				return err
			}
			a.log.Task(args[0], "task deleted")
			a.print(a.formatter.FormatMessage("Task deleted"))
			return nil
		},
	}
}

// showCmd implements 'taskdeck show'.
func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			t, err := a.store.Get(args[0])
			if err != nil {
				if a.softNotFound(err) {
					return nil
				}
				return err
			}
			a.print(a.formatter.FormatTask(t, a.store.Now()))
			return nil
		},
	}
}

// listCmd implements 'taskdeck list'.
func listCmd(a *app) *cobra.Command {
	var search, status, priority, category string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks matching every given filter",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := storage.NewCriteria(search, status, priority, category)
			if err != nil {
				return err
			}
			tasks := a.store.Filter(c)
			a.print(a.formatter.FormatTaskList(tasks, a.store.Now()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive text in title or description")
	cmd.Flags().StringVar(&status, "status", storage.All, "Status (all, pending, completed)")
	cmd.Flags().StringVarP(&priority, "priority", "p", storage.All, "Priority (all, high, medium, low)")
	cmd.Flags().StringVarP(&category, "category", "c", storage.All, "Category (all or any category)")
	return cmd
}

// statsCmd implements 'taskdeck stats'.
func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show progress statistics",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a.print(a.formatter.FormatStats(a.store.Statistics()))
			return nil
		},
	}
}

// pruneCmd implements 'taskdeck prune'.
func pruneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove all completed tasks",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			done := a.store.Filter(storage.Criteria{Status: storage.StatusCompleted})
			if len(done) == 0 {
				a.print(a.formatter.FormatMessage("No completed tasks to prune"))
				return nil
			}

			for _, t := range done {
				if err := a.store.Delete(t.ID); err != nil {
					return err
				}
			}
			a.log.Info("pruned completed tasks", zap.Int("count", len(done)))
			a.print(a.formatter.FormatMessage(fmt.Sprintf("Pruned %d completed task(s)", len(done))))
			return nil
		},
	}
}

// exportCmd implements 'taskdeck export'.
func exportCmd(a *app) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks as json, csv, yaml, pdf or markdown",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ef, err := output.ParseExportFormat(format)
			if err != nil {
				return err
			}
			tasks := a.store.List()

			if ef == output.ExportMarkdown {
				if out == "" {
					return tderrors.InvalidInputError{Field: "out", Reason: "markdown export needs a directory"}
				}
				if err = storage.WriteMarkdownDir(out, tasks); err != nil {
					return fmt.Errorf("export markdown: %w", err)
				}
				a.reportExport(ef, out, len(tasks))
				return nil
			}

			if out == "" {
				return output.Export(a.out, ef, tasks, a.store.Now())
			}
			if err = exportFile(out, ef, tasks, a.store.Now()); err != nil {
				return err
			}
			a.reportExport(ef, out, len(tasks))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(output.ExportJSON), "Format (json, csv, yaml, pdf, markdown)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, or directory for markdown (default stdout)")
	return cmd
}

func exportFile(path string, ef output.ExportFormat, tasks []task.Task, now time.Time) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export %s: %w", ef, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()
	return output.Export(f, ef, tasks, now)
}

func (a *app) reportExport(ef output.ExportFormat, path string, n int) {
	a.log.Info("tasks exported", zap.String("format", string(ef)), zap.String("path", path), zap.Int("count", n))
	a.print(a.formatter.FormatMessage(fmt.Sprintf("Exported %d task(s) to %s", n, path)))
}
