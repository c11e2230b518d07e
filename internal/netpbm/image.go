package netpbm

import (
	"strings"

	apperrors "github.com/ironsheep/netpbm-tools-mcp/internal/errors"
)

// MaxSampleValue is the largest max color value allowed by the format.
const MaxSampleValue = 65535

// Format identifies one of the plain Netpbm formats.
type Format int

const (
	FormatUnknown Format = iota
	FormatPBM
	FormatPGM
	FormatPPM
)

// String returns the lower-case format name ("pbm", "pgm", "ppm").
func (f Format) String() string {
	switch f {
	case FormatPBM:
		return "pbm"
	case FormatPGM:
		return "pgm"
	case FormatPPM:
		return "ppm"
	}
	return "unknown"
}

// Magic returns the magic number that starts a file of this format.
func (f Format) Magic() string {
	switch f {
	case FormatPBM:
		return "P1"
	case FormatPGM:
		return "P2"
	case FormatPPM:
		return "P3"
	}
	return ""
}

// Extension returns the conventional file extension, including the dot.
func (f Format) Extension() string {
	if f == FormatUnknown {
		return ""
	}
	return "." + f.String()
}

// HasMaxValue reports whether images of this format carry a max color value.
func (f Format) HasMaxValue() bool {
	return f == FormatPGM || f == FormatPPM
}

// FormatFromMagic maps a magic number token to its format.
func FormatFromMagic(magic string) Format {
	switch magic {
	case "P1":
		return FormatPBM
	case "P2":
		return FormatPGM
	case "P3":
		return FormatPPM
	}
	return FormatUnknown
}

// FormatFromExtension maps a file name or bare extension to its format,
// ignoring case.
func FormatFromExtension(name string) Format {
	ext := strings.ToLower(name)
	if i := strings.LastIndex(ext, "."); i >= 0 {
		ext = ext[i+1:]
	}
	switch ext {
	case "pbm":
		return FormatPBM
	case "pgm":
		return FormatPGM
	case "ppm":
		return FormatPPM
	}
	return FormatUnknown
}

// RGB is one pixmap pixel.
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Image is a decoded Netpbm image.
//
// Exactly one of Bits, Gray and Color is non-nil, selected by Format.
type Image struct {
	// Name is the image's file name. It identifies the image within a
	// session and is the name it is saved under.
	Name string

	Format Format
	Width  int
	Height int

	// MaxValue is the max color value of graymaps and pixmaps; zero for
	// bitmaps.
	MaxValue int

	Bits  [][]bool
	Gray  [][]int
	Color [][]RGB
}

// NewBitmap builds a bitmap from rows of pixels. The rows are used as-is.
func NewBitmap(name string, rows [][]bool) *Image {
	img := &Image{Name: name, Format: FormatPBM, Bits: rows, Height: len(rows)}
	if len(rows) > 0 {
		img.Width = len(rows[0])
	}
	return img
}

// NewGraymap builds a graymap from rows of samples. The rows are used as-is.
func NewGraymap(name string, maxValue int, rows [][]int) *Image {
	img := &Image{Name: name, Format: FormatPGM, MaxValue: maxValue, Gray: rows, Height: len(rows)}
	if len(rows) > 0 {
		img.Width = len(rows[0])
	}
	return img
}

// NewPixmap builds a pixmap from rows of pixels. The rows are used as-is.
func NewPixmap(name string, maxValue int, rows [][]RGB) *Image {
	img := &Image{Name: name, Format: FormatPPM, MaxValue: maxValue, Color: rows, Height: len(rows)}
	if len(rows) > 0 {
		img.Width = len(rows[0])
	}
	return img
}

// Clone returns a deep copy of the image.
func (img *Image) Clone() *Image {
	c := *img
	c.Bits = cloneGrid(img.Bits)
	c.Gray = cloneGrid(img.Gray)
	c.Color = cloneGrid(img.Color)
	return &c
}

func cloneGrid[T any](rows [][]T) [][]T {
	if rows == nil {
		return nil
	}
	out := make([][]T, len(rows))
	for y, row := range rows {
		out[y] = append([]T(nil), row...)
	}
	return out
}

// Validate checks the image invariants: positive dimensions matching the
// populated buffer, a max value in range, and every sample within
// [0, MaxValue].
func (img *Image) Validate() error {
	if img.Width <= 0 || img.Height <= 0 {
		return apperrors.New(apperrors.InvalidFormat, "invalid dimensions %dx%d", img.Width, img.Height)
	}
	if img.Format.HasMaxValue() && (img.MaxValue < 1 || img.MaxValue > MaxSampleValue) {
		return apperrors.New(apperrors.InvalidFormat, "max color value %d outside [1, %d]", img.MaxValue, MaxSampleValue)
	}

	switch img.Format {
	case FormatPBM:
		return checkShape(img.Bits, img.Width, img.Height)
	case FormatPGM:
		if err := checkShape(img.Gray, img.Width, img.Height); err != nil {
			return err
		}
		for y, row := range img.Gray {
			for x, v := range row {
				if v < 0 || v > img.MaxValue {
					return apperrors.New(apperrors.InvalidFormat, "sample %d at (%d,%d) outside [0, %d]", v, x, y, img.MaxValue)
				}
			}
		}
	case FormatPPM:
		if err := checkShape(img.Color, img.Width, img.Height); err != nil {
			return err
		}
		for y, row := range img.Color {
			for x, p := range row {
				for _, v := range [3]int{p.R, p.G, p.B} {
					if v < 0 || v > img.MaxValue {
						return apperrors.New(apperrors.InvalidFormat, "sample %d at (%d,%d) outside [0, %d]", v, x, y, img.MaxValue)
					}
				}
			}
		}
	default:
		return apperrors.New(apperrors.UnsupportedFormat, "unsupported image format %q", img.Format)
	}
	return nil
}

func checkShape[T any](rows [][]T, width, height int) error {
	if len(rows) != height {
		return apperrors.New(apperrors.InvalidFormat, "buffer has %d rows, want %d", len(rows), height)
	}
	for y, row := range rows {
		if len(row) != width {
			return apperrors.New(apperrors.InvalidFormat, "row %d has %d pixels, want %d", y, len(row), width)
		}
	}
	return nil
}
