package notify

import (
	"bytes"
	"errors"
	"testing"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(&buf)

	err := console.Notify(Notice{Level: LevelSuccess, Title: "PDF saved", Message: "/tmp/scan.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "[SUCCESS] PDF saved: /tmp/scan.pdf\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestMemory(t *testing.T) {
	memory := &Memory{}
	memory.Notify(Notice{Level: LevelInfo, Title: "first"})
	memory.Notify(Notice{Level: LevelError, Title: "second"})

	notices := memory.Notices()
	if len(notices) != 2 {
		t.Fatalf("expected 2 notices, got %d", len(notices))
	}
	if notices[0].Title != "first" || notices[1].Title != "second" {
		t.Error("notices out of order")
	}
}

func TestMemory_ForcedError(t *testing.T) {
	forced := errors.New("ui is gone")
	memory := &Memory{Err: forced}

	if err := memory.Notify(Notice{Title: "x"}); !errors.Is(err, forced) {
		t.Fatalf("expected forced error, got %v", err)
	}
	if len(memory.Notices()) != 0 {
		t.Error("failed notify must not record")
	}
}
