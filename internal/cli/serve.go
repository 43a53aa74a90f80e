package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"board-cli/internal/board"
	"board-cli/internal/web"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var record string
	var seed seedFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Share one board with browsers over a WebSocket",
		Long: strings.TrimSpace(`
Serve the board to browsers. Every connected page sees the same board; gestures from any page
are applied in arrival order and the resulting snapshot is pushed to all of them.

A gesture is cancelled when the page that started it disconnects.
`),
		Example: strings.TrimSpace(`
  board serve
  board serve --addr 127.0.0.1:3334 --record web.jsonl
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				listenAddr = app.Config.Web.Addr
			}

			e := board.NewEngine(nil, board.WithLogger(app.Log))
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

			srv, err := web.NewServer(web.ServerConfig{Addr: listenAddr, Recorder: rec, Logger: app.Log}, e)
			if err != nil {
				return writeErr(cmd, err)
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      srv.Addr(),
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{"open http://" + srv.Addr()},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "board running at http://%s\n", srv.Addr())

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.Run(ctx); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: web.addr from config)")
	cmd.Flags().StringVar(&record, "record", "", "Append every applied gesture to this JSON-lines trace")
	addSeedFlags(cmd, &seed, 3, 3)
	return cmd
}
