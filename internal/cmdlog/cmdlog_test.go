package cmdlog

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"shredder/internal/logging"
)

func TestRunLogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(&buf, "info")
	defer logging.Init(os.Stderr, "info")

	if err := Run("check", func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	if err := Run("run", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error passthrough, got %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"msg":"check_ok"`) || !strings.Contains(out, `"msg":"run_error"`) {
		t.Fatalf("missing log lines: %s", out)
	}
}
