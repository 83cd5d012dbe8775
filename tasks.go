package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mytodo/internal/lifecycle"
	"mytodo/internal/models"
)

var addCmd = &cobra.Command{
	Use:   "add <title>...",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var addPriority string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List active tasks, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var listDeleted bool

var toggleCmd = &cobra.Command{
	Use:   "toggle <task>",
	Short: "Toggle whether a task is done",
	Args:  cobra.ExactArgs(1),
	RunE:  runToggle,
}

var rmCmd = &cobra.Command{
	Use:   "rm <task>",
	Short: "Move a task to the history",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

var restoreCmd = &cobra.Command{
	Use:   "restore <task>",
	Short: "Restore a task from the history",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

var purgeCmd = &cobra.Command{
	Use:   "purge <task>",
	Short: "Permanently delete a task from the history",
	Args:  cobra.ExactArgs(1),
	RunE:  runPurge,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the history",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", string(models.DefaultPriority), "priority: high, medium or low")
	listCmd.Flags().BoolVar(&listDeleted, "deleted", false, "list the history instead")

	rootCmd.AddCommand(addCmd, listCmd, toggleCmd, rmCmd, restoreCmd, purgeCmd, clearCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	priority, err := models.ParsePriority(addPriority)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	v, err := a.tasks.Create(cmd.Context(), strings.Join(args, " "), priority)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", describe(*v.Task))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	v, err := a.tasks.Snapshot(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listDeleted {
		fmt.Fprint(out, renderDeleted(v.Deleted, now()))
	} else {
		fmt.Fprint(out, renderActive(v.Active))
	}
	return nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	return runOnTask(cmd, args[0], false, func(a *app, id string) (lifecycle.View, error) {
		return a.tasks.Toggle(cmd.Context(), id)
	}, func(t models.Task) string {
		if t.Completed {
			return "Completed " + describe(t)
		}
		return "Reopened " + describe(t)
	})
}

func runRemove(cmd *cobra.Command, args []string) error {
	return runOnTask(cmd, args[0], false, func(a *app, id string) (lifecycle.View, error) {
		return a.tasks.SoftDelete(cmd.Context(), id)
	}, func(t models.Task) string {
		return "Deleted " + describe(t)
	})
}

func runRestore(cmd *cobra.Command, args []string) error {
	return runOnTask(cmd, args[0], true, func(a *app, id string) (lifecycle.View, error) {
		return a.tasks.Restore(cmd.Context(), id)
	}, func(t models.Task) string {
		return "Restored " + describe(t)
	})
}

func runPurge(cmd *cobra.Command, args []string) error {
	return runOnTask(cmd, args[0], true, func(a *app, id string) (lifecycle.View, error) {
		return a.tasks.Purge(cmd.Context(), id)
	}, func(t models.Task) string {
		return "Purged " + describe(t)
	})
}

func runClear(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.tasks.ClearDeleted(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
	return nil
}

// runOnTask resolves arg against the active set, or the history when
// deleted is set, and applies op to the task it names.
func runOnTask(cmd *cobra.Command, arg string, deleted bool, op func(*app, string) (lifecycle.View, error), message func(models.Task) string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	v, err := a.tasks.Snapshot(cmd.Context())
	if err != nil {
		return err
	}
	candidates := v.Active
	if deleted {
		candidates = v.Deleted
	}

	id, err := resolveTask(candidates, arg)
	if err != nil {
		return err
	}

	v, err = op(a, id)
	if err != nil {
		return err
	}
	if !v.Changed() {
		return fmt.Errorf("task %s is no longer available", shortID(id))
	}
	fmt.Fprintln(cmd.OutOrStdout(), message(*v.Task))
	return nil
}

var positionPattern = regexp.MustCompile(`^[0-9]{1,3}$`)

const minPrefixLen = 4

// resolveTask maps a list position (as printed by list) or an id prefix to a
// task id.
func resolveTask(tasks []models.Task, arg string) (string, error) {
	arg = strings.TrimSpace(arg)

	if positionPattern.MatchString(arg) {
		n, _ := strconv.Atoi(arg)
		if n < 1 || n > len(tasks) {
			return "", fmt.Errorf("no task at position %d", n)
		}
		return tasks[n-1].ID, nil
	}

	if len(arg) < minPrefixLen {
		return "", fmt.Errorf("task id prefix %q is too short, use at least %d characters", arg, minPrefixLen)
	}

	var matches []string
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no task matching %q", arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("task id prefix %q is ambiguous (%d matches)", arg, len(matches))
	}
}
