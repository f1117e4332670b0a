package console

import (
	"maps"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrogolib/set"
)

// Host is the machine host used while debugging. Frames are inspected with
// the display command instead of being presented, the pressed keys are set
// with the key command. It always reports closed so that waiting for a key
// returns control to the console.
type Host struct {
	keys set.Set[keypad.Key]
}

// NewHost returns a host without pressed keys.
func NewHost() *Host {
	return &Host{keys: set.New[keypad.Key]()}
}

// PressedKeys returns the keys set by the last key command.
func (h *Host) PressedKeys() set.Set[keypad.Key] {
	return h.keys
}

// SetPressedKeys replaces the pressed keys.
func (h *Host) SetPressedKeys(keys set.Set[keypad.Key]) {
	h.keys = maps.Clone(keys)
	if h.keys == nil {
		h.keys = set.New[keypad.Key]()
	}
}

// Render discards the frame.
func (h *Host) Render(display.Frame) {}

// Closed always returns true.
func (h *Host) Closed() bool {
	return true
}
