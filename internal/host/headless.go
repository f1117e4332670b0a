package host

import (
	"context"
	"sync"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrogolib/set"
)

// Headless is a host without window and keyboard. It keeps the last
// rendered frame and reports closed once its context is done.
type Headless struct {
	done <-chan struct{}

	mu     sync.Mutex
	frame  display.Frame
	frames int
}

// NewHeadless returns a headless host that closes with the context.
func NewHeadless(ctx context.Context) *Headless {
	return &Headless{done: ctx.Done()}
}

// PressedKeys returns an empty set, no key is ever pressed.
func (h *Headless) PressedKeys() set.Set[keypad.Key] {
	return set.New[keypad.Key]()
}

// Render stores the frame.
func (h *Headless) Render(frame display.Frame) {
	h.mu.Lock()
	h.frame = frame
	h.frames++
	h.mu.Unlock()
}

// Closed returns whether the context of the host is done.
func (h *Headless) Closed() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Frame returns the last rendered frame and the number of renders.
func (h *Headless) Frame() (display.Frame, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frame, h.frames
}
