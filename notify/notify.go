// Package notify carries user facing notices out of the pipeline. Pipeline
// code reports outcomes here instead of printing, the application decides how
// to surface them.
package notify

import (
	"fmt"
	"io"
	"sync"
)

type Level string

const (
	LevelInfo    Level = "INFO"
	LevelSuccess Level = "SUCCESS"
	LevelError   Level = "ERROR"
)

type Notice struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type Notifier interface {
	Notify(notice Notice) error
}

// Console prints notices to a writer, one line each.
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Notify(notice Notice) error {
	_, err := fmt.Fprintf(c.out, "[%s] %s: %s\n", notice.Level, notice.Title, notice.Message)
	return err
}

// Nop swallows notices.
type Nop struct{}

func (Nop) Notify(Notice) error { return nil }

// Memory records notices for tests. Set Err to force failures.
type Memory struct {
	Err error

	mu      sync.Mutex
	notices []Notice
}

func (m *Memory) Notify(notice Notice) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, notice)
	return nil
}

// Notices returns everything recorded so far, oldest first.
func (m *Memory) Notices() []Notice {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Notice, len(m.notices))
	copy(out, m.notices)
	return out
}
