package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"board-cli/internal/board"
	"board-cli/internal/gesture"

	"github.com/sirupsen/logrus"
)

//go:embed static/index.html
var assetsFS embed.FS

type ServerConfig struct {
	Addr string
	// Recorder, when set, receives every event the hub applied successfully.
	Recorder *gesture.Recorder
	Logger   logrus.FieldLogger
}

// Server exposes one engine to browser collaborators. All engine access happens on the hub
// goroutine started by Run.
type Server struct {
	cfg ServerConfig
	hub *hub
	log logrus.FieldLogger
}

func NewServer(cfg ServerConfig, e *board.Engine) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("web: missing addr")
	}
	if e == nil {
		return nil, errors.New("web: missing engine")
	}
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Server{cfg: cfg, hub: newHub(e, cfg.Recorder, log), log: log}, nil
}

func (s *Server) Addr() string { return strings.TrimSpace(s.cfg.Addr) }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /board", s.handleBoard)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Start runs the hub until ctx is done. Handler requests block until Start has been called.
func (s *Server) Start(ctx context.Context) {
	go s.hub.run(ctx)
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.Start(ctx)

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.WithField("addr", ln.Addr().String()).Info("web collaborator listening")

	select {
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		err := srv.Shutdown(shutdownCtx)
		<-errCh
		return err
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(b)
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	msg, err := s.hub.snapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(msg)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"ok":true}`+"\n")
}
