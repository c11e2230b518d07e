package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultGridColor is used when GridOptions.Color is empty.
const DefaultGridColor = "#ff0000"

// GridOptions describes a coordinate grid drawn over a preview.
type GridOptions struct {
	// Spacing is the distance between grid lines in source pixels.
	Spacing int `json:"spacing"`

	// Color is a hex color such as "#ff0000".
	Color string `json:"color,omitempty"`

	// ShowCoordinates labels each intersection with its "x,y" position.
	ShowCoordinates bool `json:"show_coordinates,omitempty"`
}

// drawGrid draws grid lines every opts.Spacing source pixels. scale is the
// preview zoom and origin the source coordinate of the preview's top-left
// pixel.
func drawGrid(dst *image.NRGBA, opts GridOptions, scale int, origin image.Point) error {
	if opts.Spacing < 1 {
		return fmt.Errorf("grid spacing must be positive")
	}
	hex := opts.Color
	if hex == "" {
		hex = DefaultGridColor
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return fmt.Errorf("invalid grid color %q: %w", opts.Color, err)
	}
	r, g, b := c.RGB255()
	lineColor := color.NRGBA{R: r, G: g, B: b, A: 255}

	bounds := dst.Bounds()
	step := opts.Spacing * scale

	// First line at the next multiple of Spacing in source coordinates.
	firstX := (opts.Spacing - origin.X%opts.Spacing) % opts.Spacing * scale
	firstY := (opts.Spacing - origin.Y%opts.Spacing) % opts.Spacing * scale

	for x := firstX; x < bounds.Dx(); x += step {
		if x == 0 {
			continue
		}
		for y := 0; y < bounds.Dy(); y++ {
			dst.SetNRGBA(bounds.Min.X+x, bounds.Min.Y+y, lineColor)
		}
	}
	for y := firstY; y < bounds.Dy(); y += step {
		if y == 0 {
			continue
		}
		for x := 0; x < bounds.Dx(); x++ {
			dst.SetNRGBA(bounds.Min.X+x, bounds.Min.Y+y, lineColor)
		}
	}

	if !opts.ShowCoordinates {
		return nil
	}
	for y := firstY; y < bounds.Dy(); y += step {
		for x := firstX; x < bounds.Dx(); x += step {
			if x == 0 || y == 0 {
				continue
			}
			label := fmt.Sprintf("%d,%d", origin.X+x/scale, origin.Y+y/scale)
			drawLabel(dst, bounds.Min.X+x+2, bounds.Min.Y+y+2, label)
		}
	}
	return nil
}

// drawLabel writes text with its top-left corner at (x, y) on a dark
// backdrop, clipped to the image.
func drawLabel(dst *image.NRGBA, x, y int, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
	}

	width := d.MeasureString(text).Ceil()
	height := face.Metrics().Height.Ceil()
	backdrop := image.Rect(x-1, y-1, x+width+1, y+height).Intersect(dst.Bounds())
	draw.Draw(dst, backdrop, image.NewUniform(color.NRGBA{A: 180}), image.Point{}, draw.Over)

	d.Dot = fixed.P(x, y+face.Metrics().Ascent.Ceil())
	d.DrawString(text)
}
