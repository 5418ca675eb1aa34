package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ParseLevel accepts debug, info, warn, error and fatal
func ParseLevel(level string) (log.Level, error) {
	if level == "" {
		return log.InfoLevel, nil
	}
	l, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

// NewLogger opens the log file and returns a logger writing to it. The TUI
// owns the terminal, so logs never go to stderr. Close the returned closer on exit.
func NewLogger(cfg Config, prefix string) (*log.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	path := cfg.LogPath()
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, f, nil
}
