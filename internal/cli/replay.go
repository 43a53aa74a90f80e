package cli

import (
	"fmt"
	"os"
	"strings"

	"board-cli/internal/board"
	"board-cli/internal/gesture"
	"board-cli/internal/model"

	"github.com/spf13/cobra"
)

type transition struct {
	Op      string `json:"op"`
	Version uint64 `json:"version"`
	Mutated bool   `json:"mutated"`
}

type replayData struct {
	Board       model.Board      `json:"board"`
	Version     uint64           `json:"version"`
	Steps       []gesture.Result `json:"steps,omitempty"`
	Transitions []transition     `json:"transitions,omitempty"`
}

type replayOutput struct {
	Data replayData `json:"data"`
}

func (o replayOutput) Text() string {
	var sb strings.Builder
	for i, st := range o.Data.Steps {
		fmt.Fprintf(&sb, "%3d %-13s changed=%-5v state=%s", i, st.Type, st.Changed, st.State)
		if st.Created != "" {
			fmt.Fprintf(&sb, " created=%s", st.Created)
		}
		sb.WriteByte('\n')
	}
	if len(o.Data.Steps) > 0 {
		sb.WriteByte('\n')
	}
	sb.WriteString(o.Data.Board.Text())
	return sb.String()
}

func (o replayOutput) Markdown() string {
	return o.Data.Board.Markdown()
}

func newReplayCmd(app *App) *cobra.Command {
	var steps bool
	var seed seedFlags

	cmd := &cobra.Command{
		Use:   "replay <script.jsonl>",
		Short: "Apply a JSON-lines gesture script and print the resulting board",
		Example: strings.TrimSpace(`
  board replay drag.jsonl
  board replay drag.jsonl --format text --steps
  board replay - < drag.jsonl
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := readScript(cmd, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			var changes []transition
			e := board.NewEngine(nil,
				board.WithLogger(app.Log),
				board.WithObserver(func(c board.Change) {
					changes = append(changes, transition{Op: c.Op, Version: c.Version, Mutated: c.Mutated})
				}),
			)
			// Scripts start from an empty board unless seeding is asked for explicitly.
			if err := board.Seed(e, seed.containers, seed.items); err != nil {
				return writeErr(cmd, err)
			}
			seeded := len(changes)

			results, err := gesture.Replay(e, events)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("%s: %w", args[0], err))
			}

			out := replayOutput{Data: replayData{Board: e.Snapshot(), Version: e.Model().Version()}}
			if steps {
				out.Data.Steps = results
				out.Data.Transitions = changes[seeded:]
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().BoolVar(&steps, "steps", false, "Include per-event results and committed transitions")
	addSeedFlags(cmd, &seed, 0, 0)
	return cmd
}

func readScript(cmd *cobra.Command, path string) ([]gesture.Event, error) {
	if path == "-" {
		return gesture.Read(cmd.InOrStdin())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	events, err := gesture.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}
