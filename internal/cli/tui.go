package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"board-cli/internal/board"
	"board-cli/internal/gesture"
	"board-cli/internal/logging"
	"board-cli/internal/tui"

	"github.com/spf13/cobra"
)

type seedFlags struct {
	containers int
	items      int
}

// resolve prefers explicit flags over the seed section of the config.
func (s seedFlags) resolve(cmd *cobra.Command, app *App) (int, int) {
	c, n := app.Config.Seed.Containers, app.Config.Seed.Items
	if cmd.Flags().Changed("seed-containers") {
		c = s.containers
	}
	if cmd.Flags().Changed("seed-items") {
		n = s.items
	}
	return c, n
}

func addSeedFlags(cmd *cobra.Command, s *seedFlags, defContainers, defItems int) {
	cmd.Flags().IntVar(&s.containers, "seed-containers", defContainers, "Containers to create on an empty board")
	cmd.Flags().IntVar(&s.items, "seed-items", defItems, "Items to create in each seeded container")
}

func addTUIFlags(cmd *cobra.Command, app *App) {
	var record string
	var seed seedFlags

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		log := logging.Quiet(app.Log, app.Config.Log)
		e := board.NewEngine(nil, board.WithLogger(log))

		containers, items := seed.resolve(cmd, app)
		if err := board.Seed(e, containers, items); err != nil {
			return writeErr(cmd, err)
		}

		path := strings.TrimSpace(record)
		if path == "" {
			path = strings.TrimSpace(app.Config.Trace.Path)
		}
		rec, closeRec, err := openRecorder(path)
		if err != nil {
			return writeErr(cmd, err)
		}
		defer closeRec()

		return tui.Run(e, tui.Options{
			Theme:         app.Config.UI.Theme,
			MarkdownStyle: app.Config.UI.MarkdownStyle,
			Recorder:      rec,
			Logger:        log,
		})
	}

	cmd.Flags().StringVar(&record, "record", "", "Append every gesture to this JSON-lines trace")
	addSeedFlags(cmd, &seed, 3, 3)
}

// openRecorder returns a nil recorder when path is empty.
func openRecorder(path string) (*gesture.Recorder, func() error, error) {
	if path == "" {
		return nil, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("trace dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open trace: %w", err)
	}
	return gesture.NewRecorder(f), f.Close, nil
}
