package decoder

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Register is the index of a general purpose register V0..VF.
type Register uint8

// String returns the register name, for example VA.
func (r Register) String() string {
	return fmt.Sprintf("V%X", uint8(r))
}

// Operation is a decoded instruction. The set of implementations is closed,
// every type in this file is one variant.
type Operation interface {
	fmt.Stringer

	// Instruction returns the instruction descriptor of the operation,
	// nil for Illegal.
	Instruction() *chip8.Instruction

	operation()
}

// ClearScreen turns all pixels off (00E0).
type ClearScreen struct{}

// Return pops the return address from the call stack (00EE).
type Return struct{}

// Jump sets PC to the address (1nnn).
type Jump struct{ Address uint16 }

// Call pushes PC and jumps to the address (2nnn).
type Call struct{ Address uint16 }

// SkipEqual skips the next instruction if V[X] equals the value (3xnn).
type SkipEqual struct {
	X     Register
	Value uint8
}

// SkipNotEqual skips the next instruction if V[X] differs from the value (4xnn).
type SkipNotEqual struct {
	X     Register
	Value uint8
}

// SkipEqualXY skips the next instruction if V[X] equals V[Y] (5xy0).
type SkipEqualXY struct{ X, Y Register }

// Move sets V[X] to the value (6xnn).
type Move struct {
	X     Register
	Value uint8
}

// Add adds the value to V[X], wrapping (7xnn).
type Add struct {
	X     Register
	Value uint8
}

// MoveXY copies V[Y] into V[X] (8xy0).
type MoveXY struct{ X, Y Register }

// Or sets V[X] to V[X] | V[Y] (8xy1).
type Or struct{ X, Y Register }

// And sets V[X] to V[X] & V[Y] (8xy2).
type And struct{ X, Y Register }

// Xor sets V[X] to V[X] ^ V[Y] (8xy3).
type Xor struct{ X, Y Register }

// AddXY sets V[X] to V[X] + V[Y], wrapping (8xy4).
type AddXY struct{ X, Y Register }

// SubXY sets V[X] to V[X] - V[Y], wrapping (8xy5).
type SubXY struct{ X, Y Register }

// ShiftRight copies V[Y] into V[X] and shifts it right by one (8xy6).
type ShiftRight struct{ X, Y Register }

// SubYX sets V[X] to V[Y] - V[X], wrapping (8xy7).
type SubYX struct{ X, Y Register }

// ShiftLeft copies V[Y] into V[X] and shifts it left by one (8xyE).
type ShiftLeft struct{ X, Y Register }

// SkipNotEqualXY skips the next instruction if V[X] differs from V[Y] (9xy0).
type SkipNotEqualXY struct{ X, Y Register }

// MoveIndex sets I to the address (Annn).
type MoveIndex struct{ Address uint16 }

// Random sets V[X] to a random byte masked with Mask (Cxnn).
type Random struct {
	X    Register
	Mask uint8
}

// Draw draws a sprite of Height rows from memory at I to (V[X], V[Y]) (Dxyn).
type Draw struct {
	X, Y   Register
	Height uint8
}

// SkipKey skips the next instruction if the key in V[X] is pressed (Ex9E).
type SkipKey struct{ X Register }

// SkipNotKey skips the next instruction if the key in V[X] is not pressed (ExA1).
type SkipNotKey struct{ X Register }

// DelayTimerGet reads the delay timer into V[X] (Fx07).
type DelayTimerGet struct{ X Register }

// GetKey waits for a key press and stores the key in V[X] (Fx0A).
type GetKey struct{ X Register }

// DelayTimerSet starts the delay timer from V[X] (Fx15).
type DelayTimerSet struct{ X Register }

// SetSoundTimer sets the sound timer from V[X] (Fx18).
type SetSoundTimer struct{ X Register }

// AddIndex adds V[X] to I (Fx1E).
type AddIndex struct{ X Register }

// FontChar points I at the font glyph for the low nibble of V[X] (Fx29).
type FontChar struct{ X Register }

// Decimal stores the BCD digits of V[X] at I, I+1 and I+2 (Fx33).
type Decimal struct{ X Register }

// Store writes V0..V[X] to memory starting at I (Fx55).
type Store struct{ X Register }

// Load reads V0..V[X] from memory starting at I (Fx65).
type Load struct{ X Register }

// Illegal is an instruction word that does not encode a known instruction.
type Illegal struct{ Word uint16 }

func (ClearScreen) Instruction() *chip8.Instruction    { return chip8.ClsInst }
func (Return) Instruction() *chip8.Instruction         { return chip8.RetInst }
func (Jump) Instruction() *chip8.Instruction           { return chip8.JpInst }
func (Call) Instruction() *chip8.Instruction           { return chip8.CallInst }
func (SkipEqual) Instruction() *chip8.Instruction      { return chip8.SeInst }
func (SkipNotEqual) Instruction() *chip8.Instruction   { return chip8.SneInst }
func (SkipEqualXY) Instruction() *chip8.Instruction    { return chip8.SeInst }
func (Move) Instruction() *chip8.Instruction           { return chip8.LdInst }
func (Add) Instruction() *chip8.Instruction            { return chip8.AddInst }
func (MoveXY) Instruction() *chip8.Instruction         { return chip8.LdInst }
func (Or) Instruction() *chip8.Instruction             { return chip8.OrInst }
func (And) Instruction() *chip8.Instruction            { return chip8.AndInst }
func (Xor) Instruction() *chip8.Instruction            { return chip8.XorInst }
func (AddXY) Instruction() *chip8.Instruction          { return chip8.AddInst }
func (SubXY) Instruction() *chip8.Instruction          { return chip8.SubInst }
func (ShiftRight) Instruction() *chip8.Instruction     { return chip8.ShrInst }
func (SubYX) Instruction() *chip8.Instruction          { return chip8.SubnInst }
func (ShiftLeft) Instruction() *chip8.Instruction      { return chip8.ShlInst }
func (SkipNotEqualXY) Instruction() *chip8.Instruction { return chip8.SneInst }
func (MoveIndex) Instruction() *chip8.Instruction      { return chip8.LdInst }
func (Random) Instruction() *chip8.Instruction         { return chip8.RndInst }
func (Draw) Instruction() *chip8.Instruction           { return chip8.DrwInst }
func (SkipKey) Instruction() *chip8.Instruction        { return chip8.SkpInst }
func (SkipNotKey) Instruction() *chip8.Instruction     { return chip8.SknpInst }
func (DelayTimerGet) Instruction() *chip8.Instruction  { return chip8.LdInst }
func (GetKey) Instruction() *chip8.Instruction         { return chip8.LdInst }
func (DelayTimerSet) Instruction() *chip8.Instruction  { return chip8.LdInst }
func (SetSoundTimer) Instruction() *chip8.Instruction  { return chip8.LdInst }
func (AddIndex) Instruction() *chip8.Instruction       { return chip8.AddInst }
func (FontChar) Instruction() *chip8.Instruction       { return chip8.LdInst }
func (Decimal) Instruction() *chip8.Instruction        { return chip8.LdInst }
func (Store) Instruction() *chip8.Instruction          { return chip8.LdInst }
func (Load) Instruction() *chip8.Instruction           { return chip8.LdInst }
func (Illegal) Instruction() *chip8.Instruction        { return nil }

func (o ClearScreen) String() string    { return format(o, "") }
func (o Return) String() string         { return format(o, "") }
func (o Jump) String() string           { return format(o, "$%03X", o.Address) }
func (o Call) String() string           { return format(o, "$%03X", o.Address) }
func (o SkipEqual) String() string      { return format(o, "%s, $%02X", o.X, o.Value) }
func (o SkipNotEqual) String() string   { return format(o, "%s, $%02X", o.X, o.Value) }
func (o SkipEqualXY) String() string    { return format(o, "%s, %s", o.X, o.Y) }
func (o Move) String() string           { return format(o, "%s, $%02X", o.X, o.Value) }
func (o Add) String() string            { return format(o, "%s, $%02X", o.X, o.Value) }
func (o MoveXY) String() string         { return format(o, "%s, %s", o.X, o.Y) }
func (o Or) String() string             { return format(o, "%s, %s", o.X, o.Y) }
func (o And) String() string            { return format(o, "%s, %s", o.X, o.Y) }
func (o Xor) String() string            { return format(o, "%s, %s", o.X, o.Y) }
func (o AddXY) String() string          { return format(o, "%s, %s", o.X, o.Y) }
func (o SubXY) String() string          { return format(o, "%s, %s", o.X, o.Y) }
func (o ShiftRight) String() string     { return format(o, "%s, %s", o.X, o.Y) }
func (o SubYX) String() string          { return format(o, "%s, %s", o.X, o.Y) }
func (o ShiftLeft) String() string      { return format(o, "%s, %s", o.X, o.Y) }
func (o SkipNotEqualXY) String() string { return format(o, "%s, %s", o.X, o.Y) }
func (o MoveIndex) String() string      { return format(o, "I, $%03X", o.Address) }
func (o Random) String() string         { return format(o, "%s, $%02X", o.X, o.Mask) }
func (o Draw) String() string           { return format(o, "%s, %s, $%X", o.X, o.Y, o.Height) }
func (o SkipKey) String() string        { return format(o, "%s", o.X) }
func (o SkipNotKey) String() string     { return format(o, "%s", o.X) }
func (o DelayTimerGet) String() string  { return format(o, "%s, DT", o.X) }
func (o GetKey) String() string         { return format(o, "%s, K", o.X) }
func (o DelayTimerSet) String() string  { return format(o, "DT, %s", o.X) }
func (o SetSoundTimer) String() string  { return format(o, "ST, %s", o.X) }
func (o AddIndex) String() string       { return format(o, "I, %s", o.X) }
func (o FontChar) String() string       { return format(o, "F, %s", o.X) }
func (o Decimal) String() string        { return format(o, "B, %s", o.X) }
func (o Store) String() string          { return format(o, "[I], %s", o.X) }
func (o Load) String() string           { return format(o, "%s, [I]", o.X) }

func (o Illegal) String() string {
	return fmt.Sprintf("illegal $%04X", o.Word)
}

// format returns the mnemonic of the operation followed by its formatted parameters.
func format(op Operation, params string, args ...any) string {
	name := op.Instruction().Name
	if params == "" {
		return name
	}
	return name + " " + fmt.Sprintf(params, args...)
}

func (ClearScreen) operation()    {}
func (Return) operation()         {}
func (Jump) operation()           {}
func (Call) operation()           {}
func (SkipEqual) operation()      {}
func (SkipNotEqual) operation()   {}
func (SkipEqualXY) operation()    {}
func (Move) operation()           {}
func (Add) operation()            {}
func (MoveXY) operation()         {}
func (Or) operation()             {}
func (And) operation()            {}
func (Xor) operation()            {}
func (AddXY) operation()          {}
func (SubXY) operation()          {}
func (ShiftRight) operation()     {}
func (SubYX) operation()          {}
func (ShiftLeft) operation()      {}
func (SkipNotEqualXY) operation() {}
func (MoveIndex) operation()      {}
func (Random) operation()         {}
func (Draw) operation()           {}
func (SkipKey) operation()        {}
func (SkipNotKey) operation()     {}
func (DelayTimerGet) operation()  {}
func (GetKey) operation()         {}
func (DelayTimerSet) operation()  {}
func (SetSoundTimer) operation()  {}
func (AddIndex) operation()       {}
func (FontChar) operation()       {}
func (Decimal) operation()        {}
func (Store) operation()          {}
func (Load) operation()           {}
func (Illegal) operation()        {}
