// Package machine implements the CHIP-8 execution engine: memory, registers,
// call stack and the fetch, decode and execute cycle.
package machine

import (
	"context"
	"errors"
	"time"

	"github.com/retroenv/retrochip8/internal/decoder"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/timer"
	"github.com/retroenv/retrogolib/log"
)

// Memory layout.
const (
	MemorySize    = 4096
	FontAddress   = 0x000
	ProgramStart  = 0x200
	RegisterCount = 16
	flagRegister  = 0xF
)

// Host is the environment the machine runs in. It presents rendered frames,
// reports the pressed keys and signals when the machine should stop.
type Host interface {
	keypad.Source

	// Render presents a complete frame.
	Render(frame display.Frame)
	// Closed returns whether the host was closed.
	Closed() bool
}

// Machine is a CHIP-8 virtual machine. All state is owned by the goroutine
// that calls Step or Run, only the delay timer counts down concurrently.
type Machine struct {
	logger *log.Logger
	host   Host
	cfg    Config

	memory [MemorySize]byte
	v      [RegisterCount]uint8
	index  uint16
	pc     uint16
	stack  []uint16

	display *display.Display
	delay   *timer.Timer

	lastRender time.Time
}

// New returns a machine in its initial state: font loaded, PC at the program
// start and everything else zeroed.
func New(logger *log.Logger, host Host, cfg Config) *Machine {
	if cfg.Random == nil {
		cfg.Random = NewRandom(uint64(time.Now().UnixNano()))
	}

	m := &Machine{
		logger:  logger,
		host:    host,
		cfg:     cfg,
		pc:      ProgramStart,
		display: display.New(),
		delay:   timer.New(cfg.TimerInterval),
	}
	copy(m.memory[FontAddress:], font[:])
	return m
}

// Load copies the program into memory at the program start address.
func (m *Machine) Load(program []byte) error {
	free := MemorySize - ProgramStart
	if len(program) > free {
		return &ProgramTooLargeError{Size: len(program), Free: free}
	}

	copy(m.memory[ProgramStart:], program)
	m.logger.Debug("Program loaded", log.Int("size", len(program)))
	return nil
}

// Step fetches, decodes and executes a single instruction. PC is advanced
// past the instruction before it is executed.
func (m *Machine) Step() error {
	address := m.pc % MemorySize
	word := m.fetch(address)
	m.pc = (address + 2) % MemorySize

	return m.execute(address, decoder.Decode(word))
}

// Run executes instructions until the host closes, the context is cancelled
// or a fault occurs. A normal stop returns nil. After an illegal opcode the
// machine keeps rendering until the host closes and then returns the fault.
func (m *Machine) Run(ctx context.Context) error {
	var clock <-chan time.Time
	if m.cfg.ClockRate > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(m.cfg.ClockRate))
		defer ticker.Stop()
		clock = ticker.C
	}

	for {
		if m.stopped(ctx) {
			m.logger.Debug("Host closed")
			return nil
		}

		if clock != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-clock:
			}
		}

		err := m.Step()
		if err == nil {
			continue
		}
		if errors.Is(err, ErrClosed) {
			m.logger.Debug("Host closed while waiting for key press")
			return nil
		}

		var illegal *IllegalOpcodeError
		if errors.As(err, &illegal) {
			m.logger.Error("Illegal opcode",
				log.Hex("address", illegal.Address),
				log.Hex("opcode", illegal.Word))
			m.halt(ctx)
			return err
		}

		var underflow *StackUnderflowError
		if errors.As(err, &underflow) {
			m.logger.Error("Call stack underflow", log.Hex("address", underflow.Address))
		}
		return err
	}
}

// Close stops the delay timer.
func (m *Machine) Close() {
	m.delay.Stop()
}

// halt keeps the host serviced without executing instructions until it
// closes.
func (m *Machine) halt(ctx context.Context) {
	m.logger.Info("Machine halted, waiting for host to close")
	for !m.stopped(ctx) {
		m.render()
	}
}

func (m *Machine) stopped(ctx context.Context) bool {
	return ctx.Err() != nil || m.host.Closed()
}

// render presents the display to the host, waiting if the previous frame
// was rendered less than a frame interval ago.
func (m *Machine) render() {
	if m.cfg.FrameInterval > 0 && !m.lastRender.IsZero() {
		if wait := m.cfg.FrameInterval - time.Since(m.lastRender); wait > 0 {
			time.Sleep(wait)
		}
	}

	m.host.Render(m.display.Frame())
	m.lastRender = time.Now()
}

// fetch returns the big endian word at the address, the second byte of a
// word at the last memory address is read from address 0.
func (m *Machine) fetch(address uint16) uint16 {
	return uint16(m.read(address))<<8 | uint16(m.read(address+1))
}

func (m *Machine) read(address uint16) byte {
	return m.memory[address%MemorySize]
}

func (m *Machine) write(address uint16, value byte) {
	m.memory[address%MemorySize] = value
}
