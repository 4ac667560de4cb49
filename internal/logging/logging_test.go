package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_LevelByDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "text", false)
	log.Debug("hidden")
	log.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be suppressed, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected warning in output, got %q", out)
	}

	buf.Reset()
	New(&buf, "text", true).Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected debug message with debug enabled, got %q", buf.String())
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "json", false).WithField("task_id", "abc").Warn("save failed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "save failed" || entry["task_id"] != "abc" {
		t.Errorf("unexpected entry: %v", entry)
	}
}
