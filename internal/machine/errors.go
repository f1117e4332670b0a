package machine

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalOpcode is matched by all *IllegalOpcodeError values.
	ErrIllegalOpcode = errors.New("illegal opcode")
	// ErrStackUnderflow is matched by all *StackUnderflowError values.
	ErrStackUnderflow = errors.New("call stack underflow")
	// ErrProgramTooLarge is matched by all *ProgramTooLargeError values.
	ErrProgramTooLarge = errors.New("program too large")
	// ErrClosed is returned by Step when the host closed while the machine
	// was waiting for a key press.
	ErrClosed = errors.New("host closed")
)

// IllegalOpcodeError reports a fetched word that does not decode to any
// known instruction.
type IllegalOpcodeError struct {
	Address uint16
	Word    uint16
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("illegal opcode $%04X at address $%03X", e.Word, e.Address)
}

// Is makes errors.Is match ErrIllegalOpcode.
func (e *IllegalOpcodeError) Is(target error) bool {
	return target == ErrIllegalOpcode
}

// StackUnderflowError reports a return instruction executed with an empty
// call stack.
type StackUnderflowError struct {
	Address uint16
}

func (e *StackUnderflowError) Error() string {
	return fmt.Sprintf("return with empty call stack at address $%03X", e.Address)
}

// Is makes errors.Is match ErrStackUnderflow.
func (e *StackUnderflowError) Is(target error) bool {
	return target == ErrStackUnderflow
}

// ProgramTooLargeError reports a program that does not fit into the memory
// available after the program start address.
type ProgramTooLargeError struct {
	Size int
	Free int
}

func (e *ProgramTooLargeError) Error() string {
	return fmt.Sprintf("program size %d exceeds available memory of %d bytes", e.Size, e.Free)
}

// Is makes errors.Is match ErrProgramTooLarge.
func (e *ProgramTooLargeError) Is(target error) bool {
	return target == ErrProgramTooLarge
}
