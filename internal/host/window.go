// Package host implements the environments a machine runs in: a desktop
// window and a headless host without display or keyboard.
package host

import (
	"context"
	"errors"
	"fmt"
	"image"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrogolib/set"
)

// Title is the window title.
const Title = "CHIP 8"

// DefaultScale is the default size of a display pixel in window pixels.
const DefaultScale = 10

// Window presents frames in a desktop window and reads the keyboard.
// Render and PressedKeys are called from the machine goroutine, the
// ebiten callbacks run on the main thread.
type Window struct {
	keymap  Keymap
	scale   int
	palette display.Palette

	mu     sync.RWMutex
	frame  *image.RGBA // last rendered frame, nil before the first render
	keys   set.Set[keypad.Key]
	screen *ebiten.Image

	closing atomic.Bool // request to close the window
	closed  atomic.Bool // window is closed
}

// NewWindow returns a window host using the keymap. A scale below 1 selects
// DefaultScale.
func NewWindow(keymap Keymap, scale int) *Window {
	if scale < 1 {
		scale = DefaultScale
	}
	return &Window{
		keymap:  keymap,
		scale:   scale,
		palette: display.DefaultPalette,
		keys:    set.New[keypad.Key](),
	}
}

// Run opens the window and executes fn in a new goroutine. The window
// closes when fn returns or ctx is cancelled, fn has to return once Closed
// reports true. Run has to be called from the main goroutine.
func (w *Window) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	width, height := w.Layout(0, 0)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(Title)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetRunnableOnUnfocused(true)

	stop := context.AfterFunc(ctx, func() { w.closing.Store(true) })
	defer stop()

	result := make(chan error, 1)
	go func() {
		err := fn(ctx)
		w.closing.Store(true)
		result <- err
	}()

	runErr := ebiten.RunGame(w)
	w.closed.Store(true)
	fnErr := <-result

	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		return fmt.Errorf("running window: %w", runErr)
	}
	return fnErr
}

// PressedKeys returns the keypad keys held down at the last window update.
func (w *Window) PressedKeys() set.Set[keypad.Key] {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return maps.Clone(w.keys)
}

// Render converts the frame to an image that is shown on the next draw.
func (w *Window) Render(frame display.Frame) {
	img := display.Render(frame, w.scale, w.palette)

	w.mu.Lock()
	w.frame = img
	w.mu.Unlock()
}

// Closed returns whether the window was closed.
func (w *Window) Closed() bool {
	return w.closed.Load()
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	if ebiten.IsWindowBeingClosed() || w.closing.Load() {
		w.closed.Store(true)
		return ebiten.Termination
	}

	keys := w.keymap.Pressed(ebiten.IsKeyPressed)
	w.mu.Lock()
	w.keys = keys
	w.mu.Unlock()
	return nil
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	w.mu.RLock()
	frame := w.frame
	w.mu.RUnlock()
	if frame == nil {
		return
	}

	if w.screen == nil {
		w.screen = ebiten.NewImage(frame.Bounds().Dx(), frame.Bounds().Dy())
	}
	w.screen.WritePixels(frame.Pix)
	screen.DrawImage(w.screen, nil)
}

// Layout implements ebiten.Game, the screen has the size of the upscaled
// display.
func (w *Window) Layout(_, _ int) (int, int) {
	return display.Width * w.scale, display.Height * w.scale
}
