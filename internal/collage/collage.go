// Package collage composes two images of the same format and size side by
// side or one above the other.
package collage

import (
	"strings"

	apperrors "github.com/ironsheep/netpbm-tools-mcp/internal/errors"
	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
)

// Direction selects how the two images are placed.
type Direction int

const (
	Horizontal Direction = iota + 1
	Vertical
)

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	}
	return "unknown"
}

// ParseDirection decodes "horizontal" or "vertical", ignoring case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal":
		return Horizontal, nil
	case "vertical":
		return Vertical, nil
	}
	return 0, apperrors.New(apperrors.IncompatibleImages, "invalid collage direction %q; use 'horizontal' or 'vertical'", s)
}

// Compose places a and b next to each other and returns a new image named
// outputName. Horizontal puts b to the right of a; Vertical puts b below a.
//
// Both images must share format, width and height, and outputName must carry
// the extension of that format. The result's max value is the larger of the
// two; samples are copied unchanged.
func Compose(dir Direction, a, b *netpbm.Image, outputName string) (*netpbm.Image, error) {
	if dir != Horizontal && dir != Vertical {
		return nil, apperrors.New(apperrors.IncompatibleImages, "invalid collage direction %s", dir)
	}
	if a.Format != b.Format {
		return nil, apperrors.New(apperrors.IncompatibleImages,
			"images %q (%s) and %q (%s) must be of the same format", a.Name, a.Format, b.Name, b.Format)
	}
	if a.Width != b.Width || a.Height != b.Height {
		return nil, apperrors.New(apperrors.IncompatibleImages,
			"images %q (%dx%d) and %q (%dx%d) must have the same dimensions",
			a.Name, a.Width, a.Height, b.Name, b.Width, b.Height)
	}
	ext := a.Format.Extension()
	if ext == "" {
		return nil, apperrors.New(apperrors.UnsupportedFormat, "cannot compose images of unknown format")
	}
	if !strings.HasSuffix(strings.ToLower(outputName), ext) {
		return nil, apperrors.New(apperrors.IncompatibleImages,
			"output file %q must have the %s extension", outputName, ext)
	}

	out := &netpbm.Image{
		Name:   outputName,
		Format: a.Format,
		Width:  a.Width,
		Height: a.Height,
	}
	if dir == Horizontal {
		out.Width *= 2
	} else {
		out.Height *= 2
	}
	if a.Format.HasMaxValue() {
		out.MaxValue = max(a.MaxValue, b.MaxValue)
	}

	switch a.Format {
	case netpbm.FormatPBM:
		out.Bits = join(dir, a.Bits, b.Bits)
	case netpbm.FormatPGM:
		out.Gray = join(dir, a.Gray, b.Gray)
	case netpbm.FormatPPM:
		out.Color = join(dir, a.Color, b.Color)
	}
	return out, nil
}

// join concatenates two equally shaped grids into freshly allocated rows.
func join[T any](dir Direction, a, b [][]T) [][]T {
	if dir == Horizontal {
		out := make([][]T, len(a))
		for y := range a {
			row := make([]T, 0, len(a[y])+len(b[y]))
			row = append(row, a[y]...)
			out[y] = append(row, b[y]...)
		}
		return out
	}

	out := make([][]T, 0, len(a)+len(b))
	for _, src := range [][][]T{a, b} {
		for _, r := range src {
			out = append(out, append([]T(nil), r...))
		}
	}
	return out
}
