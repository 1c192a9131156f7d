package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, "info")
	defer Init(os.Stderr, "info")

	Info("post_deleted", map[string]any{"id": 7})
	Debug("hidden", nil)

	var e struct {
		Level  string         `json:"level"`
		Msg    string         `json:"msg"`
		Fields map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &e); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if e.Level != "INFO" || e.Msg != "post_deleted" || e.Fields["id"] != float64(7) {
		t.Fatalf("unexpected entry %+v", e)
	}
}
