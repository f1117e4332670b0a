package machine

import (
	"slices"

	"github.com/retroenv/retrochip8/internal/decoder"
	"github.com/retroenv/retrochip8/internal/display"
)

// Instruction is the decoded instruction at an address.
type Instruction struct {
	Address   uint16
	Word      uint16
	Operation decoder.Operation
}

// Registers is a snapshot of the CPU registers.
type Registers struct {
	V     [RegisterCount]uint8
	I     uint16
	PC    uint16
	Delay uint8
}

// NextInstruction returns the instruction that the next Step executes.
func (m *Machine) NextInstruction() Instruction {
	address := m.pc % MemorySize
	word := m.fetch(address)
	return Instruction{
		Address:   address,
		Word:      word,
		Operation: decoder.Decode(word),
	}
}

// Registers returns a snapshot of the registers and the delay timer value.
func (m *Machine) Registers() Registers {
	return Registers{
		V:     m.v,
		I:     m.index,
		PC:    m.pc,
		Delay: m.delay.Get(),
	}
}

// Memory returns a copy of the memory.
func (m *Machine) Memory() []byte {
	return slices.Clone(m.memory[:])
}

// Stack returns a copy of the call stack, the most recent return address
// is last.
func (m *Machine) Stack() []uint16 {
	return slices.Clone(m.stack)
}

// Frame returns a snapshot of the display.
func (m *Machine) Frame() display.Frame {
	return m.display.Frame()
}
