// Package decoder translates 16-bit CHIP-8 instruction words into typed operations.
//
// Decoding is total: every word maps to exactly one Operation. Words that do not
// encode a known instruction decode to Illegal, so reporting them is left to the
// caller.
package decoder

// Decode returns the operation encoded by the instruction word.
//
// The words are classified by an explicit switch instead of mask matching
// the chip8.Opcodes table of retrogolib: that table knows Bnnn (jump with
// V0 offset), which this machine does not execute and decodes to Illegal.
// The instruction descriptors of the table are still attached to the
// decoded operations, see Operation.Instruction.
func Decode(word uint16) Operation {
	switch word {
	case 0x00E0:
		return ClearScreen{}
	case 0x00EE:
		return Return{}
	}

	x := extractRegisterX(word)
	y := extractRegisterY(word)
	nn := extractByte(word)
	nnn := extractAddress(word)

	switch word & 0xF000 {
	case 0x1000:
		return Jump{Address: nnn}
	case 0x2000:
		return Call{Address: nnn}
	case 0x3000:
		return SkipEqual{X: x, Value: nn}
	case 0x4000:
		return SkipNotEqual{X: x, Value: nn}
	case 0x5000:
		if extractNibble(word) == 0 {
			return SkipEqualXY{X: x, Y: y}
		}
	case 0x6000:
		return Move{X: x, Value: nn}
	case 0x7000:
		return Add{X: x, Value: nn}
	case 0x8000:
		return decodeALU(word, x, y)
	case 0x9000:
		if extractNibble(word) == 0 {
			return SkipNotEqualXY{X: x, Y: y}
		}
	case 0xA000:
		return MoveIndex{Address: nnn}
	case 0xC000:
		return Random{X: x, Mask: nn}
	case 0xD000:
		return Draw{X: x, Y: y, Height: extractNibble(word)}
	case 0xE000:
		return decodeKey(word, x, nn)
	case 0xF000:
		return decodeMisc(word, x, nn)
	}
	return Illegal{Word: word}
}

// decodeALU decodes the 8xyN register to register family.
func decodeALU(word uint16, x, y Register) Operation {
	switch extractNibble(word) {
	case 0x0:
		return MoveXY{X: x, Y: y}
	case 0x1:
		return Or{X: x, Y: y}
	case 0x2:
		return And{X: x, Y: y}
	case 0x3:
		return Xor{X: x, Y: y}
	case 0x4:
		return AddXY{X: x, Y: y}
	case 0x5:
		return SubXY{X: x, Y: y}
	case 0x6:
		return ShiftRight{X: x, Y: y}
	case 0x7:
		return SubYX{X: x, Y: y}
	case 0xE:
		return ShiftLeft{X: x, Y: y}
	}
	return Illegal{Word: word}
}

// decodeKey decodes the ExNN keypad family.
func decodeKey(word uint16, x Register, nn uint8) Operation {
	switch nn {
	case 0x9E:
		return SkipKey{X: x}
	case 0xA1:
		return SkipNotKey{X: x}
	}
	return Illegal{Word: word}
}

// decodeMisc decodes the FxNN timer, index and memory block family.
func decodeMisc(word uint16, x Register, nn uint8) Operation {
	switch nn {
	case 0x07:
		return DelayTimerGet{X: x}
	case 0x0A:
		return GetKey{X: x}
	case 0x15:
		return DelayTimerSet{X: x}
	case 0x18:
		return SetSoundTimer{X: x}
	case 0x1E:
		return AddIndex{X: x}
	case 0x29:
		return FontChar{X: x}
	case 0x33:
		return Decimal{X: x}
	case 0x55:
		return Store{X: x}
	case 0x65:
		return Load{X: x}
	}
	return Illegal{Word: word}
}

// extractRegisterX extracts the X register nibble, bits 11-8.
func extractRegisterX(word uint16) Register {
	return Register((word & 0x0F00) >> 8)
}

// extractRegisterY extracts the Y register nibble, bits 7-4.
func extractRegisterY(word uint16) Register {
	return Register((word & 0x00F0) >> 4)
}

// extractNibble extracts the lowest nibble, bits 3-0.
func extractNibble(word uint16) uint8 {
	return uint8(word & 0x000F)
}

// extractByte extracts the 8-bit immediate, bits 7-0.
func extractByte(word uint16) uint8 {
	return uint8(word & 0x00FF)
}

// extractAddress extracts the 12-bit address, bits 11-0.
func extractAddress(word uint16) uint16 {
	return word & 0x0FFF
}
