package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"todokeep/internal/todo"
)

func newAddCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task to the top of the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, flags)
			if err != nil {
				return err
			}
			t, created, err := s.store.Add(strings.Join(args, " "))
			if !created {
				return todo.ErrEmptyText
			}
			if err != nil {
				return fmt.Errorf("task added but not saved: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.ID)
			return nil
		},
	}
}

func newListCmd(flags *rootFlags) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, flags)
			if err != nil {
				return err
			}
			raw := filter
			if !cmd.Flags().Changed("filter") {
				raw = s.cfg.UI.DefaultFilter
			}
			mode, err := todo.ParseFilterMode(raw)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), renderList(s.store, mode))
			return err
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "all, active or completed")
	return cmd
}

func newToggleCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task done or not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, flags)
			if err != nil {
				return err
			}
			_, found, err := s.store.Toggle(args[0])
			if !found {
				return fmt.Errorf("%w: %s", todo.ErrNotFound, args[0])
			}
			return err
		},
	}
}

func newRemoveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, flags)
			if err != nil {
				return err
			}
			found, err := s.store.Remove(args[0])
			if !found {
				return fmt.Errorf("%w: %s", todo.ErrNotFound, args[0])
			}
			return err
		},
	}
}

func newClearCompletedCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, flags)
			if err != nil {
				return err
			}
			removed, err := s.store.ClearCompleted()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d\n", removed)
			return nil
		},
	}
}

func newClearAllCmd(flags *rootFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear-all",
		Short: "Delete every task after confirmation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, flags)
			if err != nil {
				return err
			}
			var prompt todo.Prompt = todo.Confirmed
			if !yes {
				prompt = stdinPrompt(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			cleared, err := s.store.ClearAll(prompt)
			if err != nil {
				return err
			}
			if cleared {
				fmt.Fprintln(cmd.OutOrStdout(), "cleared")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "kept")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// stdinPrompt asks on out and reads one line from in. Anything but y/yes
// is a no.
func stdinPrompt(in io.Reader, out io.Writer) todo.Prompt {
	return todo.PromptFunc(func(message string) bool {
		fmt.Fprintf(out, "%s [y/N] ", message)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	})
}
