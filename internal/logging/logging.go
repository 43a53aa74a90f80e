package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"board-cli/internal/config"
)

// New builds a logger from cfg. BOARD_DEBUG=1 forces debug level.
// When cfg.File is set, entries are written there as JSON and the returned close func releases it.
func New(cfg config.LogConfig, stderr io.Writer) (*log.Logger, func() error, error) {
	logger := log.New()
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if stderr == nil {
		stderr = os.Stderr
	}
	logger.SetOutput(stderr)

	level := log.InfoLevel
	if s := strings.TrimSpace(cfg.Level); s != "" {
		l, err := log.ParseLevel(s)
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}
	if dbg, err := strconv.ParseBool(os.Getenv("BOARD_DEBUG")); err == nil && dbg {
		level = log.DebugLevel
	}
	logger.SetLevel(level)

	closeFn := func() error { return nil }
	if path := strings.TrimSpace(cfg.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logger.SetFormatter(&log.JSONFormatter{})
		logger.SetOutput(f)
		closeFn = f.Close
	}
	return logger, closeFn, nil
}

// Quiet returns l with its output discarded unless it writes to a file.
// The terminal UI owns the screen, so stderr logging would corrupt it.
func Quiet(l *log.Logger, cfg config.LogConfig) *log.Logger {
	if l == nil {
		l = log.New()
	}
	if strings.TrimSpace(cfg.File) == "" {
		l.SetOutput(io.Discard)
	}
	return l
}
