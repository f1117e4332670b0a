package machine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retroenv/retrochip8/internal/decoder"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestNew_InitialState(t *testing.T) {
	m := newTestMachine(t, newMockHost())

	regs := m.Registers()
	assert.Equal(t, uint16(ProgramStart), regs.PC)
	assert.Equal(t, uint16(0), regs.I)
	assert.Equal(t, [RegisterCount]uint8{}, regs.V)
	assert.Equal(t, uint8(0), regs.Delay)
	assert.Equal(t, 0, len(m.Stack()))
	assert.Equal(t, display.Frame{}, m.Frame())

	memory := m.Memory()
	assert.Equal(t, MemorySize, len(memory))
	assert.Equal(t, font[:], memory[FontAddress:FontAddress+len(font)])
	for _, b := range memory[FontAddress+len(font):] {
		assert.Equal(t, byte(0), b)
	}
}

func TestLoad(t *testing.T) {
	m := New(log.NewTestLogger(t), newMockHost(), testConfig())
	defer m.Close()

	program := make([]byte, MemorySize-ProgramStart)
	program[0] = 0x12
	program[len(program)-1] = 0x34
	assert.NoError(t, m.Load(program))

	memory := m.Memory()
	assert.Equal(t, byte(0x12), memory[ProgramStart])
	assert.Equal(t, byte(0x34), memory[MemorySize-1])
}

func TestLoad_ProgramTooLarge(t *testing.T) {
	m := New(log.NewTestLogger(t), newMockHost(), testConfig())
	defer m.Close()

	err := m.Load(make([]byte, MemorySize-ProgramStart+1))
	assert.True(t, errors.Is(err, ErrProgramTooLarge))

	var tooLarge *ProgramTooLargeError
	assert.True(t, errors.As(err, &tooLarge))
	assert.Equal(t, MemorySize-ProgramStart+1, tooLarge.Size)
	assert.Equal(t, MemorySize-ProgramStart, tooLarge.Free)
}

func TestStep_MoveThenReturnOnEmptyStack(t *testing.T) {
	m := newTestMachine(t, newMockHost(), 0x6A, 0x02, 0x00, 0xEE)

	assert.NoError(t, m.Step())
	assert.Equal(t, uint8(2), m.Registers().V[0xA])

	err := m.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))

	var underflow *StackUnderflowError
	assert.True(t, errors.As(err, &underflow))
	assert.Equal(t, uint16(0x202), underflow.Address)
}

func TestStep_Instructions(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
		setup   func(m *Machine)
		check   func(t *testing.T, m *Machine)
	}{
		{
			name:    "add wraps",
			program: []byte{0x60, 0xFF, 0x70, 0x01},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint8(0x00), m.v[0])
				assert.Equal(t, uint8(0), m.v[0xF])
			},
		},
		{
			name:    "add registers wraps without carry flag",
			program: []byte{0x60, 0xFF, 0x61, 0x02, 0x80, 0x14},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint8(0x01), m.v[0])
				assert.Equal(t, uint8(0), m.v[0xF])
			},
		},
		{
			name:    "sub x y wraps",
			program: []byte{0x60, 0x00, 0x61, 0x01, 0x80, 0x15},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint8(0xFF), m.v[0])
				assert.Equal(t, uint8(0), m.v[0xF])
			},
		},
		{
			name:    "sub y x wraps",
			program: []byte{0x60, 0x03, 0x61, 0x01, 0x80, 0x17},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint8(0xFE), m.v[0])
			},
		},
		{
			name:    "shift right copies source register",
			program: []byte{0x61, 0x03, 0x80, 0x16},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint8(0x01), m.v[0])
				assert.Equal(t, uint8(0x03), m.v[1])
				assert.Equal(t, uint8(1), m.v[0xF])
			},
		},
		{
			name:    "shift left copies source register",
			program: []byte{0x61, 0x81, 0x80, 0x1E},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint8(0x02), m.v[0])
				assert.Equal(t, uint8(1), m.v[0xF])
			},
		},
		{
			name:    "shift left clears flag",
			program: []byte{0x6F, 0x01, 0x61, 0x40, 0x80, 0x1E},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint8(0x80), m.v[0])
				assert.Equal(t, uint8(0), m.v[0xF])
			},
		},
		{
			name:    "logic operations",
			program: []byte{0x60, 0x0C, 0x61, 0x0A, 0x62, 0x0C, 0x63, 0x0C, 0x80, 0x11, 0x82, 0x12, 0x83, 0x13},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint8(0x0E), m.v[0])
				assert.Equal(t, uint8(0x08), m.v[2])
				assert.Equal(t, uint8(0x06), m.v[3])
			},
		},
		{
			name:    "move register",
			program: []byte{0x61, 0x42, 0x80, 0x10},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint8(0x42), m.v[0])
			},
		},
		{
			name:    "skip equal immediate",
			program: []byte{0x60, 0x05, 0x30, 0x05},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint16(0x206), m.pc)
			},
		},
		{
			name:    "skip not equal immediate not taken",
			program: []byte{0x60, 0x05, 0x40, 0x05},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint16(0x204), m.pc)
			},
		},
		{
			name:    "skip equal registers",
			program: []byte{0x60, 0x07, 0x61, 0x07, 0x50, 0x10},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint16(0x208), m.pc)
			},
		},
		{
			name:    "skip not equal registers",
			program: []byte{0x60, 0x07, 0x90, 0x10},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint16(0x206), m.pc)
			},
		},
		{
			name:    "jump",
			program: []byte{0x12, 0x34},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint16(0x234), m.pc)
			},
		},
		{
			name:    "call and return",
			program: []byte{0x23, 0x00, 0x00, 0x00},
			setup: func(m *Machine) {
				m.memory[0x300] = 0x00
				m.memory[0x301] = 0xEE
			},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint16(0x202), m.pc)
				assert.Equal(t, 0, len(m.stack))
			},
		},
		{
			name:    "move index",
			program: []byte{0xA1, 0x23},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint16(0x123), m.index)
			},
		},
		{
			name:    "random is masked",
			program: []byte{0xC0, 0x0F},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint8(0x05), m.v[0])
			},
		},
		{
			name:    "font character",
			program: []byte{0x60, 0x1A, 0xF0, 0x29},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint16(0xA*glyphSize), m.index)
			},
		},
		{
			name:    "binary coded decimal",
			program: []byte{0x60, 0x9C, 0xA3, 0x00, 0xF0, 0x33},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, []byte{1, 5, 6}, m.memory[0x300:0x303])
				assert.Equal(t, uint16(0x300), m.index)
			},
		},
		{
			name: "store and load round trip",
			program: []byte{
				0x60, 0x01, 0x61, 0x02, 0x62, 0x03, 0x63, 0x04, 0xA3, 0x00, 0xF3, 0x55,
				0x60, 0x00, 0x61, 0x00, 0x62, 0x00, 0x63, 0x00, 0xF3, 0x65,
			},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, []byte{1, 2, 3, 4, 0}, m.memory[0x300:0x305])
				assert.Equal(t, []uint8{1, 2, 3, 4, 0}, m.v[:5])
				assert.Equal(t, uint16(0x300), m.index)
			},
		},
		{
			name:    "store wraps around memory",
			program: []byte{0x60, 0x11, 0x61, 0x22, 0xF1, 0x55},
			setup: func(m *Machine) {
				m.index = MemorySize - 1
			},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, byte(0x11), m.memory[MemorySize-1])
				assert.Equal(t, byte(0x22), m.memory[0])
			},
		},
		{
			name:    "add index does not touch flag",
			program: []byte{0x60, 0x02, 0xAF, 0xFF, 0xF0, 0x1E},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint16(0x1001), m.index)
				assert.Equal(t, uint8(0), m.v[0xF])
			},
		},
		{
			name:    "delay timer set and get",
			program: []byte{0x60, 0x0A, 0xF0, 0x15, 0xF1, 0x07},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint8(0x0A), m.v[1])
			},
		},
		{
			name:    "sound timer has no effect",
			program: []byte{0x60, 0x0A, 0xF0, 0x18},
			check: func(t *testing.T, m *Machine) {
				t.Helper()
				assert.Equal(t, uint8(0x0A), m.v[0])
				assert.Equal(t, uint8(0), m.Registers().Delay)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(log.NewTestLogger(t), newMockHost(), Config{
				TimerInterval: time.Hour,
				Random:        func() uint8 { return 0xA5 },
			})
			defer m.Close()
			assert.NoError(t, m.Load(tt.program))
			if tt.setup != nil {
				tt.setup(m)
			}

			for range len(tt.program) / 2 {
				assert.NoError(t, m.Step())
			}
			tt.check(t, m)
		})
	}
}

func TestStep_CallPushesReturnAddress(t *testing.T) {
	m := newTestMachine(t, newMockHost(), 0x00, 0xE0, 0x23, 0x00)

	assert.NoError(t, m.Step())
	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0x300), m.Registers().PC)
	assert.Equal(t, []uint16{0x204}, m.Stack())
}

func TestStep_FetchWrapsAtEndOfMemory(t *testing.T) {
	m := newTestMachine(t, newMockHost())
	m.pc = MemorySize - 1
	m.memory[MemorySize-1] = 0x60

	next := m.NextInstruction()
	assert.Equal(t, uint16(MemorySize-1), next.Address)
	assert.Equal(t, uint16(0x6000)|uint16(font[0]), next.Word)

	assert.NoError(t, m.Step())
	assert.Equal(t, font[0], m.Registers().V[0])
	assert.Equal(t, uint16(1), m.NextInstruction().Address)
}

func TestStep_PCWrapsAtEndOfMemory(t *testing.T) {
	m := newTestMachine(t, newMockHost())
	m.pc = MemorySize - 2
	m.memory[MemorySize-2] = 0x23
	m.memory[MemorySize-1] = 0x00

	assert.NoError(t, m.Step())
	assert.Equal(t, []uint16{0x000}, m.Stack())

	m.pc = MemorySize - 2
	m.memory[MemorySize-2] = 0x60
	m.memory[MemorySize-1] = 0x01

	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0x000), m.Registers().PC)
	assert.Equal(t, uint8(1), m.Registers().V[0])
}

func TestStep_DrawCollision(t *testing.T) {
	host := newMockHost()
	m := newTestMachine(t, host, 0xA3, 0x00, 0xD0, 0x01, 0xD0, 0x01)
	m.memory[0x300] = 0xFF

	assert.NoError(t, m.Step())
	assert.NoError(t, m.Step())
	assert.Equal(t, uint8(0), m.v[0xF])
	for x := range 8 {
		assert.True(t, m.Frame()[0][x])
	}

	assert.NoError(t, m.Step())
	assert.Equal(t, uint8(1), m.v[0xF])
	assert.Equal(t, display.Frame{}, m.Frame())

	// every draw renders the complete result of that draw
	assert.Equal(t, 2, len(host.frames))
	assert.True(t, host.frames[0][0][7])
	assert.Equal(t, display.Frame{}, host.frames[1])
}

func TestStep_DrawFontGlyph(t *testing.T) {
	m := newTestMachine(t, newMockHost(), 0x60, 0x00, 0xF0, 0x29, 0xD0, 0x05)
	for range 3 {
		assert.NoError(t, m.Step())
	}

	frame := m.Frame()
	for x := range 4 {
		assert.True(t, frame[0][x])
		assert.True(t, frame[4][x])
	}
	assert.False(t, frame[2][1])
	assert.True(t, frame[2][0])
}

func TestStep_ClearScreen(t *testing.T) {
	m := newTestMachine(t, newMockHost(), 0xD0, 0x05, 0x00, 0xE0)
	assert.NoError(t, m.Step())
	assert.True(t, m.Frame() != (display.Frame{}))

	assert.NoError(t, m.Step())
	assert.Equal(t, display.Frame{}, m.Frame())
}

func TestStep_SkipKey(t *testing.T) {
	tests := []struct {
		name     string
		opcode   byte
		pressed  bool
		expected uint16
	}{
		{"skip if pressed, pressed", 0x9E, true, 0x206},
		{"skip if pressed, released", 0x9E, false, 0x204},
		{"skip if not pressed, pressed", 0xA1, true, 0x204},
		{"skip if not pressed, released", 0xA1, false, 0x206},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newMockHost()
			if tt.pressed {
				host.keys.Add(0x5)
			}
			m := newTestMachine(t, host, 0x60, 0x05, 0xE0, tt.opcode)

			assert.NoError(t, m.Step())
			assert.NoError(t, m.Step())
			assert.Equal(t, tt.expected, m.Registers().PC)
		})
	}
}

func TestStep_GetKeyWaitsForLowestKey(t *testing.T) {
	host := newMockHost()
	host.keys.Add(0xB)
	host.keys.Add(0x3)
	host.pressAfter = 3
	m := newTestMachine(t, host, 0xF2, 0x0A)

	assert.NoError(t, m.Step())
	assert.Equal(t, uint8(0x3), m.v[2])
	assert.Equal(t, uint16(0x202), m.pc)
	assert.Equal(t, 3, len(host.frames))
}

func TestStep_GetKeyHostClosed(t *testing.T) {
	host := newMockHost()
	host.closeAfter = 2
	m := newTestMachine(t, host, 0xF2, 0x0A)

	err := m.Step()
	assert.True(t, errors.Is(err, ErrClosed))
	assert.Equal(t, uint16(ProgramStart), m.pc)
	assert.Equal(t, 2, len(host.frames))
}

func TestStep_Illegal(t *testing.T) {
	m := newTestMachine(t, newMockHost(), 0xFF, 0xFF)

	err := m.Step()
	var illegal *IllegalOpcodeError
	assert.True(t, errors.As(err, &illegal))
	assert.Equal(t, uint16(ProgramStart), illegal.Address)
	assert.Equal(t, uint16(0xFFFF), illegal.Word)
	assert.Equal(t, "illegal opcode $FFFF at address $200", err.Error())
}

func TestRun_StopsWhenHostCloses(t *testing.T) {
	host := newMockHost()
	host.closeAfter = 5
	m := newTestMachine(t, host, 0xD0, 0x01, 0x12, 0x00)

	assert.NoError(t, m.Run(context.Background()))
	assert.Equal(t, 5, len(host.frames))
}

func TestRun_ContextCancelled(t *testing.T) {
	m := newTestMachine(t, newMockHost(), 0x12, 0x00)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, m.Run(ctx))
	assert.Equal(t, uint16(ProgramStart), m.Registers().PC)
}

func TestRun_IllegalOpcodeKeepsRendering(t *testing.T) {
	host := newMockHost()
	host.closeAfter = 3
	m := newFaultingMachine(t, host, 0x60, 0x01, 0xFF, 0xFF)

	err := m.Run(context.Background())
	assert.True(t, errors.Is(err, ErrIllegalOpcode))
	assert.Equal(t, 3, len(host.frames))
	assert.Equal(t, uint8(1), m.Registers().V[0])
}

func TestRun_StackUnderflow(t *testing.T) {
	host := newMockHost()
	m := newFaultingMachine(t, host, 0x00, 0xEE)

	err := m.Run(context.Background())
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, 0, len(host.frames))
}

func TestRun_GetKeyHostClosed(t *testing.T) {
	host := newMockHost()
	host.closeAfter = 1
	m := newTestMachine(t, host, 0xF0, 0x0A)

	assert.NoError(t, m.Run(context.Background()))
}

func TestRun_ClockRate(t *testing.T) {
	host := newMockHost()
	host.closeAfter = 2
	m := New(log.NewTestLogger(t), host, Config{ClockRate: 1000})
	defer m.Close()
	assert.NoError(t, m.Load([]byte{0xD0, 0x01, 0x12, 0x00}))

	start := time.Now()
	assert.NoError(t, m.Run(context.Background()))
	// two draws need at least three ticks
	assert.True(t, time.Since(start) >= 2*time.Millisecond)
}

func TestRender_FrameInterval(t *testing.T) {
	host := newMockHost()
	m := New(log.NewTestLogger(t), host, Config{FrameInterval: 20 * time.Millisecond})
	defer m.Close()
	assert.NoError(t, m.Load([]byte{0xD0, 0x01, 0xD0, 0x01}))

	start := time.Now()
	assert.NoError(t, m.Step())
	assert.NoError(t, m.Step())
	assert.True(t, time.Since(start) >= 20*time.Millisecond)
	assert.Equal(t, 2, len(host.frames))
}

func TestIntrospection_ReturnsCopies(t *testing.T) {
	m := newTestMachine(t, newMockHost(), 0x6A, 0x02, 0x23, 0x00)

	next := m.NextInstruction()
	assert.Equal(t, uint16(0x200), next.Address)
	assert.Equal(t, uint16(0x6A02), next.Word)
	assert.Equal(t, decoder.Operation(decoder.Move{X: 0xA, Value: 0x02}), next.Operation)

	assert.NoError(t, m.Step())
	assert.NoError(t, m.Step())

	stack := m.Stack()
	stack[0] = 0
	assert.Equal(t, []uint16{0x204}, m.Stack())

	memory := m.Memory()
	memory[ProgramStart] = 0
	assert.Equal(t, byte(0x6A), m.Memory()[ProgramStart])
}
