package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"json", Config{Path: tmpDir, Level: "info", Format: "json"}, false},
		{"text", Config{Path: tmpDir, Level: "debug", Format: "text"}, false},
		{"invalid level", Config{Path: tmpDir, Level: "loud"}, true},
		{"stderr only", Config{Level: "info"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && logger != nil {
				_ = logger.Close()
			}
		})
	}
}

func TestComponentField(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := New(Config{Path: tmpDir, Level: "debug", Format: "json"})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	settingsLog := logger.WithComponent("settings")
	if settingsLog.component != "settings" {
		t.Errorf("component = %q", settingsLog.component)
	}
	settingsLog.Infof("stored %s", "countdownTitle")
	settingsLog.WarnErr(errors.New("disk full")).Str("key", "countdownTitle").Msg("write failed")
	_ = logger.Close()

	logFile := filepath.Join(tmpDir, filePrefix+time.Now().Format("2006-01-02")+".log")
	f, err := os.Open(logFile)
	if err != nil {
		t.Fatalf("open log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("log line is not JSON: %s", scanner.Text())
		}
		lines = append(lines, entry)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}
	if lines[0]["component"] != "settings" || lines[0]["message"] != "stored countdownTitle" {
		t.Errorf("unexpected first line: %v", lines[0])
	}
	if lines[1]["level"] != "warn" || lines[1]["error"] != "disk full" || lines[1]["key"] != "countdownTitle" {
		t.Errorf("unexpected second line: %v", lines[1])
	}
}

func TestLevelFiltering(t *testing.T) {
	tmpDir := t.TempDir()
	logger, err := New(Config{Path: tmpDir, Level: "warn"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Close()

	data, err := os.ReadFile(filepath.Join(tmpDir, filePrefix+time.Now().Format("2006-01-02")+".log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Errorf("unexpected log contents: %s", data)
	}
}

func TestCleanOldLogs(t *testing.T) {
	tmpDir := t.TempDir()
	now := time.Now()

	for _, age := range []int{10, 8, 3} {
		name := filepath.Join(tmpDir, filePrefix+now.AddDate(0, 0, -age).Format("2006-01-02")+".log")
		if err := os.WriteFile(name, []byte("x"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	unrelated := filepath.Join(tmpDir, "notes.txt")
	if err := os.WriteFile(unrelated, []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	logger, err := New(Config{Path: tmpDir, RetentionDays: 7})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = logger.Close() }()

	files, err := LogFiles(tmpDir)
	if err != nil {
		t.Fatalf("LogFiles: %v", err)
	}
	// today's file plus the 3-day-old one
	if len(files) != 2 {
		t.Errorf("expected 2 log files after pruning, got %v", files)
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Errorf("unrelated file removed: %v", err)
	}
}

func TestLogFilesOrder(t *testing.T) {
	tmpDir := t.TempDir()
	for _, age := range []int{2, 0, 1} {
		name := filepath.Join(tmpDir, filePrefix+time.Now().AddDate(0, 0, -age).Format("2006-01-02")+".log")
		if err := os.WriteFile(name, []byte("x"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	files, err := LogFiles(tmpDir)
	if err != nil {
		t.Fatalf("LogFiles: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}
	if files[0] < files[1] || files[1] < files[2] {
		t.Errorf("not sorted newest first: %v", files)
	}
}

func TestLogFilesMissingDir(t *testing.T) {
	files, err := LogFiles(filepath.Join(t.TempDir(), "nope"))
	if err != nil || len(files) != 0 {
		t.Errorf("LogFiles(missing) = %v, %v", files, err)
	}
}

func TestGlobalLogger(t *testing.T) {
	if err := Init(Config{Path: t.TempDir(), Level: "info"}); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	defer func() {
		globalMu.Lock()
		globalLogger = nil
		globalMu.Unlock()
	}()

	if c := Component("flow"); c.component != "flow" {
		t.Errorf("Component() returned %q", c.component)
	}
	if Get() == nil {
		t.Error("Get() returned nil")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" || cfg.Format != "json" || cfg.RetentionDays != 7 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !strings.Contains(cfg.Path, filepath.Join("daygrid", "logs")) {
		t.Errorf("expected default path to contain daygrid/logs, got %q", cfg.Path)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"error", false},
		{"DEBUG", false},
		{"invalid", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			_, err := ParseLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.level, err, tt.wantErr)
			}
		})
	}
}
