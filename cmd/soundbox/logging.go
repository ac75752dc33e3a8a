package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	logFileName = "soundbox.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging returns a discarding logger unless debug is set, in which case it appends
// to dir/soundbox.log, rotating a file larger than maxLogSize aside first
// The terminal belongs to the presenter, so nothing is written to stdout or stderr
func setupLogging(debug bool, dir string) (*os.File, *slog.Logger, error) {
	if !debug {
		return nil, slog.New(slog.NewTextHandler(io.Discard, nil)), nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	logPath := filepath.Join(dir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(dir, fmt.Sprintf("soundbox-%s.log", time.Now().Format("20060102-150405")))
		if err := os.Rename(logPath, rotated); err != nil {
			return nil, nil, fmt.Errorf("rotate log: %w", err)
		}
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return file, logger, nil
}
