package machine

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/decoder"
	"github.com/retroenv/retrochip8/internal/keypad"
)

// execute applies the operation fetched from address. PC already points to
// the following instruction.
func (m *Machine) execute(address uint16, op decoder.Operation) error {
	switch op := op.(type) {
	case decoder.ClearScreen:
		m.display.Clear()

	case decoder.Return:
		if len(m.stack) == 0 {
			return &StackUnderflowError{Address: address}
		}
		m.pc = m.stack[len(m.stack)-1]
		m.stack = m.stack[:len(m.stack)-1]

	case decoder.Jump:
		m.pc = op.Address

	case decoder.Call:
		m.stack = append(m.stack, m.pc)
		m.pc = op.Address

	case decoder.SkipEqual:
		m.skipIf(m.v[op.X] == op.Value)

	case decoder.SkipNotEqual:
		m.skipIf(m.v[op.X] != op.Value)

	case decoder.SkipEqualXY:
		m.skipIf(m.v[op.X] == m.v[op.Y])

	case decoder.SkipNotEqualXY:
		m.skipIf(m.v[op.X] != m.v[op.Y])

	case decoder.Move:
		m.v[op.X] = op.Value

	case decoder.Add:
		m.v[op.X] += op.Value

	case decoder.MoveXY:
		m.v[op.X] = m.v[op.Y]

	case decoder.Or:
		m.v[op.X] |= m.v[op.Y]

	case decoder.And:
		m.v[op.X] &= m.v[op.Y]

	case decoder.Xor:
		m.v[op.X] ^= m.v[op.Y]

	case decoder.AddXY:
		m.v[op.X] += m.v[op.Y]

	case decoder.SubXY:
		m.v[op.X] -= m.v[op.Y]

	case decoder.SubYX:
		m.v[op.X] = m.v[op.Y] - m.v[op.X]

	case decoder.ShiftRight:
		value := m.v[op.Y]
		m.v[op.X] = value >> 1
		m.v[flagRegister] = value & 0x01

	case decoder.ShiftLeft:
		value := m.v[op.Y]
		m.v[op.X] = value << 1
		m.v[flagRegister] = value >> 7

	case decoder.MoveIndex:
		m.index = op.Address

	case decoder.Random:
		m.v[op.X] = m.cfg.Random() & op.Mask

	case decoder.Draw:
		m.draw(op)

	case decoder.SkipKey:
		m.skipIf(m.pressed(m.v[op.X]))

	case decoder.SkipNotKey:
		m.skipIf(!m.pressed(m.v[op.X]))

	case decoder.GetKey:
		return m.waitForKey(address, op.X)

	case decoder.DelayTimerGet:
		m.v[op.X] = m.delay.Get()

	case decoder.DelayTimerSet:
		m.delay.Set(m.v[op.X])

	case decoder.SetSoundTimer:
		// no sound device, the value is discarded

	case decoder.AddIndex:
		m.index += uint16(m.v[op.X])

	case decoder.FontChar:
		m.index = glyphAddress(m.v[op.X])

	case decoder.Decimal:
		value := m.v[op.X]
		m.write(m.index, value/100)
		m.write(m.index+1, value/10%10)
		m.write(m.index+2, value%10)

	case decoder.Store:
		for i := range uint16(op.X) + 1 {
			m.write(m.index+i, m.v[i])
		}

	case decoder.Load:
		for i := range uint16(op.X) + 1 {
			m.v[i] = m.read(m.index + i)
		}

	case decoder.Illegal:
		return &IllegalOpcodeError{Address: address, Word: op.Word}

	default:
		panic(fmt.Sprintf("unsupported operation type %T", op))
	}
	return nil
}

func (m *Machine) skipIf(condition bool) {
	if condition {
		m.pc += 2
	}
}

// draw XORs the sprite at I onto the display, sets VF to the collision flag
// and renders the result.
func (m *Machine) draw(op decoder.Draw) {
	sprite := make([]byte, op.Height)
	for i := range sprite {
		sprite[i] = m.read(m.index + uint16(i))
	}

	collision := m.display.Draw(m.v[op.X], m.v[op.Y], sprite)
	if collision {
		m.v[flagRegister] = 1
	} else {
		m.v[flagRegister] = 0
	}

	m.render()
}

// pressed returns whether the key of the low nibble of code is held down.
func (m *Machine) pressed(code uint8) bool {
	return m.host.PressedKeys().Contains(keypad.Key(code & 0xF))
}

// waitForKey polls the host, rendering once per poll, until a key is pressed
// and stores the lowest pressed key in V[x]. If the host closes first, PC is
// moved back to the instruction so that it executes again on the next step.
func (m *Machine) waitForKey(address uint16, x decoder.Register) error {
	for {
		if key, ok := keypad.Lowest(m.host.PressedKeys()); ok {
			m.v[x] = uint8(key)
			return nil
		}

		m.render()
		if m.host.Closed() {
			m.pc = address
			return ErrClosed
		}
	}
}
