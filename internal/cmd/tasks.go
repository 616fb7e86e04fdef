package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/courtdesk/internal/api"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage your to-do list",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, optionally for one case",
	Args:  cobra.NoArgs,
	RunE:  runTasksList,
}

var tasksAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTasksAdd,
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done <task>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setTaskCompleted(cmd, args[0], true) },
}

var tasksReopenCmd = &cobra.Command{
	Use:   "reopen <task>",
	Short: "Mark a task as not completed",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setTaskCompleted(cmd, args[0], false) },
}

var tasksDeleteCmd = &cobra.Command{
	Use:   "delete <task>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksDelete,
}

var (
	tasksCase     string
	tasksPriority string
	tasksDue      string
)

func init() {
	tasksListCmd.Flags().StringVar(&tasksCase, "case", "", "only tasks of this case")
	tasksAddCmd.Flags().StringVar(&tasksCase, "case", "", "case the task belongs to")
	tasksAddCmd.Flags().StringVar(&tasksPriority, "priority", "medium", "low, medium or high")
	tasksAddCmd.Flags().StringVar(&tasksDue, "due", "", "due date (YYYY-MM-DD)")

	tasksCmd.AddCommand(tasksListCmd, tasksAddCmd, tasksDoneCmd, tasksReopenCmd, tasksDeleteCmd)
	rootCmd.AddCommand(tasksCmd)
}

func runTasksList(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		caseID, err := optionalCase(ctx, a, tasksCase)
		if err != nil {
			return err
		}
		tasks, err := a.client.ListTasks(ctx, caseID)
		if err != nil {
			return err
		}
		return render(cmd, taskList(tasks))
	})
}

func runTasksAdd(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		caseID, err := optionalCase(ctx, a, tasksCase)
		if err != nil {
			return err
		}
		t, err := a.client.CreateTask(ctx, api.TaskInput{
			CaseID:   caseID,
			Title:    strings.Join(args, " "),
			Priority: tasksPriority,
			DueDate:  tasksDue,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", t.ID, t.Title)
		return nil
	})
}

func setTaskCompleted(cmd *cobra.Command, ref string, completed bool) error {
	id, err := parseRef(api.TaskPrefix, ref)
	if err != nil {
		return err
	}
	return withSession(cmd, func(ctx context.Context, a *app) error {
		t, err := a.client.UpdateTask(ctx, id, api.TaskInput{Completed: &completed})
		if err != nil {
			return err
		}
		state := "open"
		if t.Completed {
			state = "completed"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", t.ID, state)
		return nil
	})
}

func runTasksDelete(cmd *cobra.Command, args []string) error {
	id, err := parseRef(api.TaskPrefix, args[0])
	if err != nil {
		return err
	}
	return withSession(cmd, func(ctx context.Context, a *app) error {
		if err := a.client.DeleteTask(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[0])
		return nil
	})
}

type taskList []api.Task

func (tasks taskList) RenderText(w io.Writer) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tPRIORITY\tDUE\tTITLE")
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		fmt.Fprintf(tw, "%s\t[%s]\t%s\t%s\t%s\n", t.ID, done, t.Priority, t.DueDate, t.Title)
	}
	return tw.Flush()
}
