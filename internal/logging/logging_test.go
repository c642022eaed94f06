package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "curioloop.log")
	cfg := DefaultConfig()
	cfg.Path = path
	cfg.Level = "debug"

	log, closeFn, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Named("engine").Info("chapter completed", zap.String("path_id", "p1"), zap.Int("score", 80))
	log.Debug("debug line")
	closeFn()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("first line is not JSON: %v", err)
	}
	if entry["msg"] != "chapter completed" || entry["logger"] != "engine" || entry["path_id"] != "p1" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, closeFn, err := New(Config{Path: path, Level: "warn"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("dropped")
	log.Warn("kept")
	closeFn()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "dropped") || !strings.Contains(string(data), "kept") {
		t.Errorf("unexpected log content:\n%s", data)
	}
}

func TestNew_Off(t *testing.T) {
	path := filepath.Join(t.TempDir(), "off.log")
	log, closeFn, err := New(Config{Path: path, Level: "off"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Error("nothing")
	closeFn()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no log file, stat err = %v", err)
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, _, err := New(Config{Path: filepath.Join(t.TempDir(), "x.log"), Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestDefaultPath_XDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if want := filepath.Join("/tmp/state", "curioloop", "curioloop.log"); got != want {
		t.Errorf("DefaultPath = %q, want %q", got, want)
	}
}
