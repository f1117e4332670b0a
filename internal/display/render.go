package display

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Palette holds the colors of set and clear pixels.
type Palette struct {
	On  color.RGBA
	Off color.RGBA
}

// DefaultPalette draws white pixels on a black background.
var DefaultPalette = Palette{
	On:  color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	Off: color.RGBA{A: 0xFF},
}

// Render returns the frame as an RGBA image, every logical pixel upscaled to
// a scale x scale square. A scale below 1 is treated as 1.
func Render(frame Frame, scale int, palette Palette) *image.RGBA {
	if scale < 1 {
		scale = 1
	}

	src := image.NewPaletted(image.Rect(0, 0, Width, Height),
		color.Palette{palette.Off, palette.On})
	for y, row := range frame {
		for x, pixel := range row {
			if pixel {
				src.SetColorIndex(x, y, 1)
			}
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, Width*scale, Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
