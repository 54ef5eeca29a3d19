package debugger

import "sync"

// CommandHistory keeps the REPL's recent command lines for the "history"
// command, sized from config.Config.Debugger.HistorySize so a session
// opened against a small or large history budget behaves accordingly.
type CommandHistory struct {
	mu       sync.RWMutex
	commands []string
	maxSize  int
}

// NewCommandHistory creates a history capped at maxSize entries. A
// non-positive maxSize falls back to a small default rather than keeping
// history unbounded.
func NewCommandHistory(maxSize int) *CommandHistory {
	if maxSize <= 0 {
		maxSize = 50
	}
	return &CommandHistory{
		commands: make([]string, 0, maxSize),
		maxSize:  maxSize,
	}
}

// Add records cmd, skipping empty lines and immediate repeats of the last
// command (so holding Enter to repeat the previous command doesn't flood
// history).
func (h *CommandHistory) Add(cmd string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cmd == "" {
		return
	}
	if len(h.commands) > 0 && h.commands[len(h.commands)-1] == cmd {
		return
	}

	h.commands = append(h.commands, cmd)
	if len(h.commands) > h.maxSize {
		h.commands = h.commands[len(h.commands)-h.maxSize:]
	}
}

// GetAll returns a copy of every retained command, oldest first, for the
// "history" REPL command to print.
func (h *CommandHistory) GetAll() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]string, len(h.commands))
	copy(result, h.commands)
	return result
}

// Size returns the number of commands currently retained.
func (h *CommandHistory) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.commands)
}
