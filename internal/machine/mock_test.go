package machine

import (
	"testing"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// mockHost records rendered frames and replays scripted key presses.
type mockHost struct {
	frames []display.Frame

	// keys is returned by PressedKeys once pressAfter renders happened.
	keys       set.Set[keypad.Key]
	pressAfter int

	// closeAfter closes the host after the given number of renders,
	// 0 never closes.
	closeAfter int
	closed     bool
}

func newMockHost() *mockHost {
	return &mockHost{keys: set.New[keypad.Key]()}
}

func (h *mockHost) PressedKeys() set.Set[keypad.Key] {
	if len(h.frames) < h.pressAfter {
		return set.New[keypad.Key]()
	}
	return h.keys
}

func (h *mockHost) Render(frame display.Frame) {
	h.frames = append(h.frames, frame)
	if h.closeAfter > 0 && len(h.frames) >= h.closeAfter {
		h.closed = true
	}
}

func (h *mockHost) Closed() bool {
	return h.closed
}

// testConfig disables all pacing and returns a fixed random byte.
func testConfig() Config {
	return Config{
		Random: func() uint8 { return 0xA5 },
	}
}

// quietLogger drops the error records that machine faults are logged with,
// the test logger fails the test on them.
func quietLogger() *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ErrorLevel + 1
	return log.NewWithConfig(cfg)
}

func newTestMachine(t *testing.T, host Host, program ...byte) *Machine {
	t.Helper()
	return newMachineWithLogger(t, log.NewTestLogger(t), host, program...)
}

// newFaultingMachine returns a machine for programs that fault in Run.
func newFaultingMachine(t *testing.T, host Host, program ...byte) *Machine {
	t.Helper()
	return newMachineWithLogger(t, quietLogger(), host, program...)
}

func newMachineWithLogger(t *testing.T, logger *log.Logger, host Host, program ...byte) *Machine {
	t.Helper()

	m := New(logger, host, testConfig())
	t.Cleanup(m.Close)

	if err := m.Load(program); err != nil {
		t.Fatalf("loading program: %v", err)
	}
	return m
}
