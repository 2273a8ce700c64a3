// Package clip abstracts the system clipboard so exporting can hand the
// created file path to the user without the caller binding to a platform.
package clip

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"
)

type Clipboard interface {
	// Replace clipboard contents with text.
	Write(text string) error
}

// System writes to the real OS clipboard.
type System struct{}

func (System) Write(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return errors.Join(errors.New("failed to write to system clipboard"), err)
	}
	return nil
}

// Nop discards writes. Used where no clipboard is wanted or available.
type Nop struct{}

func (Nop) Write(string) error { return nil }

// Memory records writes for tests. Set Err to force failures.
type Memory struct {
	Err error

	mu     sync.Mutex
	writes []string
}

func (m *Memory) Write(text string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = append(m.writes, text)
	return nil
}

// Writes returns everything written so far, oldest first.
func (m *Memory) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.writes))
	copy(out, m.writes)
	return out
}
