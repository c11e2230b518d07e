package imaging

import (
	"fmt"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
)

// RGBColor represents a color as 8-bit red, green, and blue components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in the HSL (Hue, Saturation, Lightness) color space.
//
// HSL is often more intuitive than RGB for describing colors:
//   - Hue identifies the color family (red, green, blue, etc.)
//   - Saturation indicates color intensity (gray vs vivid)
//   - Lightness indicates brightness (dark vs light)
type HSLColor struct {
	H int `json:"h"` // Hue: 0-359 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a sampled pixel both as stored in the file and as a
// display color.
type ColorResult struct {
	// Samples are the raw values from the file: one value for bitmaps and
	// graymaps, R, G and B for pixmaps.
	Samples  []int    `json:"samples"`
	MaxValue int      `json:"max_value,omitempty"`
	Hex      string   `json:"hex"` // Hex format "#RRGGBB"
	RGB      RGBColor `json:"rgb"`
	HSL      HSLColor `json:"hsl"`
}

// SampleColor returns the color of the pixel at (x, y).
//
// Returns an error if (x, y) lies outside the image.
func SampleColor(img *netpbm.Image, x, y int) (*ColorResult, error) {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, img.Width, img.Height)
	}

	var samples []int
	switch img.Format {
	case netpbm.FormatPBM:
		v := 0
		if img.Bits[y][x] {
			v = 1
		}
		samples = []int{v}
	case netpbm.FormatPGM:
		samples = []int{img.Gray[y][x]}
	case netpbm.FormatPPM:
		p := img.Color[y][x]
		samples = []int{p.R, p.G, p.B}
	default:
		return nil, fmt.Errorf("cannot sample image of unknown format")
	}

	rgb := rgb8(img, x, y)
	return &ColorResult{
		Samples:  samples,
		MaxValue: img.MaxValue,
		Hex:      hexString(rgb),
		RGB:      rgb,
		HSL:      toHSL(rgb),
	}, nil
}

// LabeledPoint represents a coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label,omitempty"`
}

// LabeledColorResult contains a color sample with its location and optional label.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"`
	X     int         `json:"x"`
	Y     int         `json:"y"`
	Color ColorResult `json:"color"`
}

// MultiColorResult contains color samples from multiple points.
type MultiColorResult struct {
	Samples []LabeledColorResult `json:"samples"` // Color samples in input order
}

// SampleColorsMulti samples colors at multiple points in a single call.
//
// If any point is out of bounds, the entire operation fails and returns an
// error identifying the problematic point.
func SampleColorsMulti(img *netpbm.Image, points []LabeledPoint) (*MultiColorResult, error) {
	results := make([]LabeledColorResult, 0, len(points))

	for _, p := range points {
		color, err := SampleColor(img, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		results = append(results, LabeledColorResult{
			Label: p.Label,
			X:     p.X,
			Y:     p.Y,
			Color: *color,
		})
	}

	return &MultiColorResult{Samples: results}, nil
}

// Region defines a rectangular area within an image.
type Region struct {
	X1 int `json:"x1"` // Left edge X coordinate (inclusive)
	Y1 int `json:"y1"` // Top edge Y coordinate (inclusive)
	X2 int `json:"x2"` // Right edge X coordinate (exclusive)
	Y2 int `json:"y2"` // Bottom edge Y coordinate (exclusive)
}

func (r Region) validate(width, height int) error {
	if r.X1 < 0 || r.Y1 < 0 || r.X2 > width || r.Y2 > height {
		return fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, width, height)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
	}
	return nil
}

// ColorFrequency represents a color and its prevalence in an image region.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#RRGGBB" (quantized)
	Percentage float64  `json:"percentage"` // Percentage of pixels with this color (0-100)
	RGB        RGBColor `json:"rgb"`        // RGB components (quantized)
}

// DominantColorsResult contains the most common colors found in an image or region.
type DominantColorsResult struct {
	Colors []ColorFrequency `json:"colors"` // Colors sorted by frequency (descending)
}

// DominantColors finds the most frequently occurring colors in an image or
// region.
//
// Display colors are quantized to 16 levels per channel (0, 16, 32, ..., 240)
// so that near-identical colors are grouped together. Ties are ordered by hex
// value. A nil region analyzes the whole image.
func DominantColors(img *netpbm.Image, count int, region *Region) (*DominantColorsResult, error) {
	r := Region{X1: 0, Y1: 0, X2: img.Width, Y2: img.Height}
	if region != nil {
		r = *region
	}
	if err := r.validate(img.Width, img.Height); err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, fmt.Errorf("count must be positive")
	}

	counts := make(map[RGBColor]int)
	total := 0
	for y := r.Y1; y < r.Y2; y++ {
		for x := r.X1; x < r.X2; x++ {
			c := rgb8(img, x, y)
			c = RGBColor{R: c.R / 16 * 16, G: c.G / 16 * 16, B: c.B / 16 * 16}
			counts[c]++
			total++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for c, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        hexString(c),
			Percentage: float64(n) / float64(total) * 100,
			RGB:        c,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if len(colors) > count {
		colors = colors[:count]
	}

	return &DominantColorsResult{Colors: colors}, nil
}

func hexString(c RGBColor) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func toHSL(c RGBColor) HSLColor {
	h, s, l := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hsl()

	hue := int(math.Round(h)) % 360
	return HSLColor{
		H: hue,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}
