package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"todokeep/internal/todo"
	"todokeep/internal/tui"
)

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, flags)
			if err != nil {
				return err
			}
			selector := todo.NewSelector()
			if mode, err := todo.ParseFilterMode(s.cfg.UI.DefaultFilter); err == nil {
				selector.SetMode(mode)
			}

			m := tui.New(s.store, selector, s.cfg.UI.Title)
			p := tea.NewProgram(m, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}
