// Package display implements the monochrome CHIP-8 framebuffer.
package display

import (
	"strings"
)

// Display dimensions in pixels.
const (
	Width  = 64
	Height = 32
)

// Frame is a snapshot of all pixels, row-major with the origin top-left.
type Frame [Height][Width]bool

// String returns the frame as text, one line per row, '#' for a set pixel
// and '.' for a clear one.
func (f Frame) String() string {
	var sb strings.Builder
	sb.Grow(Height * (Width + 1))
	for _, row := range f {
		for _, pixel := range row {
			if pixel {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Display is the pixel grid mutated by the clear screen and draw instructions.
type Display struct {
	frame Frame
}

// New returns a cleared display.
func New() *Display {
	return &Display{}
}

// Clear turns all pixels off.
func (d *Display) Clear() {
	d.frame = Frame{}
}

// Draw XORs the sprite onto the display, one byte per row with the most
// significant bit leftmost. The origin wraps around the display size, pixels
// of the sprite that fall beyond the right or bottom edge are clipped.
// It returns whether any set pixel was turned off.
func (d *Display) Draw(x, y uint8, sprite []byte) bool {
	originX := int(x) % Width
	originY := int(y) % Height
	collision := false

	for row, data := range sprite {
		py := originY + row
		if py >= Height {
			break
		}

		for bit := range 8 {
			if data&(0x80>>bit) == 0 {
				continue
			}
			px := originX + bit
			if px >= Width {
				break
			}

			if d.frame[py][px] {
				collision = true
			}
			d.frame[py][px] = !d.frame[py][px]
		}
	}
	return collision
}

// Pixel returns whether the pixel at the coordinates is set. Coordinates
// outside of the display return false.
func (d *Display) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return d.frame[y][x]
}

// Frame returns a copy of the current pixels.
func (d *Display) Frame() Frame {
	return d.frame
}
