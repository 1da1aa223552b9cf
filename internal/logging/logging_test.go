package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func withLog(t *testing.T) string {
	t.Helper()
	prev := Path()
	path := filepath.Join(t.TempDir(), "nested", "trace.log")
	Configure(path)
	t.Cleanup(func() {
		SetTraceEnabled(false)
		mu.Lock()
		logPath = prev
		mu.Unlock()
	})
	return path
}

func TestConfigureCreatesDirectory(t *testing.T) {
	path := withLog(t)
	if Path() != path {
		t.Fatalf("expected path %s, got %s", path, Path())
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("expected log directory to exist: %v", err)
	}
}

func TestConfigureEmptyUsesDefault(t *testing.T) {
	withLog(t)
	Configure("   ")
	if Path() != DefaultPath() && Path() != logFileName {
		t.Fatalf("expected default path, got %s", Path())
	}
}

func TestTraceDisabledWritesNothing(t *testing.T) {
	path := withLog(t)
	Trace("picker.start", map[string]interface{}{"limit": 10})
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no log file, got err=%v", err)
	}
}

func TestTraceWritesJSONLines(t *testing.T) {
	path := withLog(t)
	SetTraceEnabled(true)
	Trace("scan.found", map[string]interface{}{"path": "/src/app"})
	Trace("scan.done", nil)

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var events []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry struct {
			Event   string                 `json:"event"`
			Payload map[string]interface{} `json:"payload"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("invalid json line %q: %v", scanner.Text(), err)
		}
		events = append(events, entry.Event)
		if entry.Event == "scan.found" && entry.Payload["path"] != "/src/app" {
			t.Fatalf("expected payload path, got %v", entry.Payload)
		}
	}
	if strings.Join(events, ",") != "scan.found,scan.done" {
		t.Fatalf("expected two events, got %v", events)
	}
}

func TestErrorAppendsLine(t *testing.T) {
	path := withLog(t)
	Error(nil)
	Error(errors.New("boom"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "boom") {
		t.Fatalf("expected error in log, got %q", data)
	}
}
