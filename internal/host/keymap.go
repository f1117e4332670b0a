package host

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrogolib/set"
)

// Keyboard layout names.
const (
	LayoutGrid = "grid"
	LayoutHex  = "hex"
)

// Keymap maps keyboard keys to keypad keys.
type Keymap map[ebiten.Key]keypad.Key

// gridRows are the keyboard rows that are placed onto the 4x4 keypad.
var gridRows = [4][4]ebiten.Key{
	{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4},
	{ebiten.KeyQ, ebiten.KeyW, ebiten.KeyE, ebiten.KeyR},
	{ebiten.KeyA, ebiten.KeyS, ebiten.KeyD, ebiten.KeyF},
	{ebiten.KeyZ, ebiten.KeyX, ebiten.KeyC, ebiten.KeyV},
}

// GridKeymap maps the left 4x4 block of a keyboard to the keypad by
// position.
func GridKeymap() Keymap {
	keymap := make(Keymap, keypad.Count)
	for row, keys := range gridRows {
		for column, key := range keys {
			keymap[key] = keypad.Layout[row][column]
		}
	}
	return keymap
}

// hexKeys lists the keyboard keys of every hex value.
var hexKeys = [keypad.Count][]ebiten.Key{
	{ebiten.KeyDigit0, ebiten.KeyNumpad0},
	{ebiten.KeyDigit1, ebiten.KeyNumpad1},
	{ebiten.KeyDigit2, ebiten.KeyNumpad2},
	{ebiten.KeyDigit3, ebiten.KeyNumpad3},
	{ebiten.KeyDigit4, ebiten.KeyNumpad4},
	{ebiten.KeyDigit5, ebiten.KeyNumpad5},
	{ebiten.KeyDigit6, ebiten.KeyNumpad6},
	{ebiten.KeyDigit7, ebiten.KeyNumpad7},
	{ebiten.KeyDigit8, ebiten.KeyNumpad8},
	{ebiten.KeyDigit9, ebiten.KeyNumpad9},
	{ebiten.KeyA},
	{ebiten.KeyB},
	{ebiten.KeyC},
	{ebiten.KeyD},
	{ebiten.KeyE},
	{ebiten.KeyF},
}

// HexKeymap maps the digit keys, the numeric keypad and the letters A-F to
// the keypad key with the same hex value.
func HexKeymap() Keymap {
	keymap := make(Keymap, 26)
	for code, keys := range hexKeys {
		for _, key := range keys {
			keymap[key] = keypad.Key(code)
		}
	}
	return keymap
}

// ParseLayout returns the keymap of the named layout.
func ParseLayout(name string) (Keymap, error) {
	switch name {
	case LayoutGrid:
		return GridKeymap(), nil
	case LayoutHex:
		return HexKeymap(), nil
	default:
		return nil, fmt.Errorf("unsupported key layout '%s'", name)
	}
}

// Pressed returns the keypad keys whose mapped keyboard key is reported as
// pressed.
func (k Keymap) Pressed(isPressed func(ebiten.Key) bool) set.Set[keypad.Key] {
	keys := set.New[keypad.Key]()
	for key, code := range k {
		if isPressed(key) {
			keys.Add(code)
		}
	}
	return keys
}
