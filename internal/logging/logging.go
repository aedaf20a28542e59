package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

type appNameHook struct {
	appName string
}

// Levels implements logrus.Hook.
func (h *appNameHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h *appNameHook) Fire(entry *logrus.Entry) error {
	entry.Message = "[" + h.appName + "] " + entry.Message
	return nil
}

// New builds a logger writing to w. Unknown levels fall back to info.
func New(appName, level string, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)

	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		logger.Warnf("invalid log level %q, defaulting to info", level)
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		DisableColors:    true,
		QuoteEmptyFields: true,
	})
	logger.AddHook(&appNameHook{appName: appName})
	return logger
}

// Open builds a logger appending to path. The terminal belongs to the TUI, so
// interactive runs always log to a file. An empty path logs to stderr.
// The returned closer must be called on shutdown.
func Open(appName, level, path string) (*logrus.Logger, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return New(appName, level, os.Stderr), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(appName, level, f), f, nil
}

// nopCloser is handed out when the logger writes to stderr, which Open does
// not own.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Discard returns a logger that drops everything. Used by tests and by
// components constructed without a logger.
func Discard() *logrus.Logger {
	return New("discard", "panic", io.Discard)
}
