package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetupLogging_DisabledByDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logFile, logger, err := setupLogging(false, dir)
	if err != nil {
		t.Fatal(err)
	}
	if logFile != nil {
		t.Error("Expected nil log file when debug=false")
		logFile.Close()
	}
	logger.Info("dropped")
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("Expected no log directory when debug=false")
	}
}

func TestSetupLogging_EnabledWithDebug(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logFile, logger, err := setupLogging(true, dir)
	if err != nil {
		t.Fatal(err)
	}
	if logFile == nil {
		t.Fatal("Expected non-nil log file when debug=true")
	}
	defer logFile.Close()

	logger.Debug("test log message", "key", "value")

	info, err := os.Stat(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatalf("Failed to stat log file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected log file to contain content")
	}
}

func TestSetupLogging_Rotation(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, logFileName)

	if err := os.WriteFile(logPath, make([]byte, maxLogSize+1), 0o644); err != nil {
		t.Fatalf("Failed to create large log file: %v", err)
	}

	logFile, _, err := setupLogging(true, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer logFile.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read logs directory: %v", err)
	}
	rotatedFound := false
	for _, entry := range entries {
		if entry.Name() != logFileName && filepath.Ext(entry.Name()) == ".log" {
			rotatedFound = true
			break
		}
	}
	if !rotatedFound {
		t.Error("Expected to find rotated log file")
	}

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat new log file: %v", err)
	}
	if info.Size() > maxLogSize {
		t.Errorf("Expected new log file to be smaller than %d bytes, got %d", maxLogSize, info.Size())
	}
}
