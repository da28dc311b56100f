// Package cli is the terminal front end: one-shot commands plus the
// interactive TUI.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"todokeep/internal/config"
	"todokeep/internal/kv"
	"todokeep/internal/todo"
)

type rootFlags struct {
	configPath string
	dataDir    string
	verbose    bool
}

// NewRootCmd builds the command tree. in/out/errOut are injected for tests.
func NewRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "todo",
		Short:         "Keep a local to-do list",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "todokeep.yml", "path to YAML config")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "override storage data directory")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log storage diagnostics to stderr")

	root.AddCommand(
		newAddCmd(flags),
		newListCmd(flags),
		newToggleCmd(flags),
		newRemoveCmd(flags),
		newClearCompletedCmd(flags),
		newClearAllCmd(flags),
		newTUICmd(flags),
	)
	return root
}

// Execute runs the CLI against the process's stdio.
func Execute(version string) error {
	root := NewRootCmd(os.Stdin, os.Stdout, os.Stderr)
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

type session struct {
	cfg   *config.Config
	store *todo.Store
}

func openSession(cmd *cobra.Command, flags *rootFlags) (*session, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.dataDir != "" {
		cfg.Storage.DataDir = flags.dataDir
	}

	backing, err := kv.Open(cfg.Storage.Driver, cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	logger := log.New(io.Discard, "", 0)
	if flags.verbose {
		logger = log.New(cmd.ErrOrStderr(), "", 0)
	}

	store := todo.NewStore(todo.Options{
		Adapter:        todo.NewAdapter(backing, cfg.Storage.Key),
		Logger:         logger,
		ConfirmMessage: cfg.UI.ConfirmMessage,
	})
	store.Load()
	return &session{cfg: cfg, store: store}, nil
}
