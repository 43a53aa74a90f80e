package cli

import (
	"fmt"
	"os"
	"strings"

	"board-cli/internal/config"
	"board-cli/internal/format"
	"board-cli/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type App struct {
	PrettyJSON bool
	Format     string

	Config config.Config
	Log    *logrus.Logger

	closeLog func() error
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "board",
		Short:        "Drag-and-drop board: terminal UI, web collaborator and gesture scripts",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board
  board

  # Record what you do to a trace
  board --record session.jsonl

  # Replay a gesture script (shortcut for: board replay script.jsonl)
  board script.jsonl

  # Share one board with browsers
  board serve --addr 127.0.0.1:7420
`),
		Args: cobra.NoArgs,
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return writeErr(cmd, err)
		}
		log, closeLog, err := logging.New(cfg.Log, cmd.ErrOrStderr())
		if err != nil {
			return writeErr(cmd, err)
		}
		app.Config = cfg
		app.Log = log
		app.closeLog = closeLog
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.closeLog == nil {
			return nil
		}
		return app.closeLog()
	}

	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("BOARD_FORMAT", "json"), "Output format (json|edn|text|markdown)")

	addTUIFlags(cmd, app)

	cmd.AddCommand(newReplayCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
