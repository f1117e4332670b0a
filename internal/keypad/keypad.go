// Package keypad defines the 16 key hexadecimal keypad of the machine and the
// mapping between key codes and the symbols a host reports.
package keypad

import (
	"fmt"
	"slices"

	"github.com/retroenv/retrogolib/set"
)

// Key is a keypad key code in the range 0x0-0xF.
type Key uint8

// Count is the number of keys on the keypad.
const Count = 16

// symbols maps a key code to the hex digit printed on the key.
var symbols = [Count]rune{
	'0', '1', '2', '3', '4', '5', '6', '7',
	'8', '9', 'A', 'B', 'C', 'D', 'E', 'F',
}

// Layout is the physical arrangement of the keypad, row by row.
var Layout = [4][4]Key{
	{0x1, 0x2, 0x3, 0xC},
	{0x4, 0x5, 0x6, 0xD},
	{0x7, 0x8, 0x9, 0xE},
	{0xA, 0x0, 0xB, 0xF},
}

// Symbol returns the hex digit of the key, the low nibble of the code is used.
func (k Key) Symbol() rune {
	return symbols[k&0xF]
}

// String returns the hex digit of the key.
func (k Key) String() string {
	return string(k.Symbol())
}

// FromSymbol returns the key for a hex digit, lower case letters are accepted.
func FromSymbol(r rune) (Key, bool) {
	if r >= 'a' && r <= 'f' {
		r -= 'a' - 'A'
	}
	for code, symbol := range symbols {
		if symbol == r {
			return Key(code), true
		}
	}
	return 0, false
}

// ParseKeys parses a string of hex digits into a key set, for example "1AF".
func ParseKeys(s string) (set.Set[Key], error) {
	keys := set.New[Key]()
	for _, r := range s {
		key, ok := FromSymbol(r)
		if !ok {
			return nil, fmt.Errorf("invalid key symbol '%c'", r)
		}
		keys.Add(key)
	}
	return keys, nil
}

// Source reports the keys that are currently held down.
type Source interface {
	PressedKeys() set.Set[Key]
}

// Lowest returns the lowest key code of the set.
func Lowest(keys set.Set[Key]) (Key, bool) {
	if len(keys) == 0 {
		return 0, false
	}
	return Sorted(keys)[0], true
}

// Sorted returns the keys of the set in ascending order.
func Sorted(keys set.Set[Key]) []Key {
	sorted := make([]Key, 0, len(keys))
	for key := range keys {
		sorted = append(sorted, key)
	}
	slices.Sort(sorted)
	return sorted
}
