package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmcdole/coinboard/internal/config"
	"github.com/mmcdole/coinboard/internal/domain"
)

// SetupLogger opens the log file and returns a JSON logger writing to it,
// plus the file so the caller can close it on exit. The TUI owns the
// terminal, so nothing is ever written to stderr.
//
// Every record carries the app name and version.
func SetupLogger(cfg *config.LoggingConfig) (*slog.Logger, io.Closer, error) {
	logPath, err := expandPath(cfg.File)
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}).WithAttrs([]slog.Attr{
		slog.String("app", domain.AppManifest.ShortName),
		slog.String("version", domain.AppManifest.Version),
	})

	return slog.New(handler), logFile, nil
}

// expandPath resolves a leading ~ and environment variables such as $XDG_STATE_HOME
func expandPath(path string) (string, error) {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	if path == "" {
		return "", fmt.Errorf("logging.file is empty")
	}
	return path, nil
}

// ParseLevel reads a level name as slog does ("debug", "WARN", "INFO+2").
// "warning" is accepted as WARN; anything unreadable is INFO.
func ParseLevel(level string) slog.Level {
	level = strings.TrimSpace(level)
	if strings.EqualFold(level, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// NullLogger returns a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
