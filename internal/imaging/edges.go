package imaging

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
)

// Default hysteresis thresholds for EdgeMap.
const (
	DefaultEdgeLow  = 50
	DefaultEdgeHigh = 150
)

const edgeBlurRadius = 1.0

// EdgeMapResult describes a traced edge bitmap.
type EdgeMapResult struct {
	Image      *netpbm.Image `json:"-"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	EdgePixels int           `json:"edge_pixels"`
}

// EdgeMap traces the outlines in img with a Canny-style detector and returns
// them as a bitmap called name in which edge pixels are set (black).
//
// Parameters:
//   - low: gradient magnitude below which a pixel is never an edge (0-255).
//   - high: gradient magnitude at or above which a pixel is always an edge.
//     Pixels between low and high are kept only next to a strong edge.
//
// # Algorithm
//
//  1. Luminance using ITU-R BT.601 weights on the 8-bit display colors
//  2. Gaussian blur to reduce noise
//  3. Sobel gradients: magnitude = sqrt(Gx² + Gy²), direction = atan2(Gy, Gx)
//  4. Non-maximum suppression to thin edges to one pixel
//  5. Hysteresis thresholding
//
// Border pixels are never marked.
func EdgeMap(img *netpbm.Image, name string, low, high int) (*EdgeMapResult, error) {
	if low < 0 || high > 255 || low > high {
		return nil, fmt.Errorf("invalid thresholds: need 0 <= low (%d) <= high (%d) <= 255", low, high)
	}
	if netpbm.FormatFromExtension(name) != netpbm.FormatPBM {
		return nil, fmt.Errorf("edge map name %q must end with .pbm", name)
	}

	width, height := img.Width, img.Height
	gray := effect.GrayscaleWithWeights(ToImage(img), 0.299, 0.587, 0.114)
	blurred := blur.Gaussian(gray, edgeBlurRadius)

	lum := func(x, y int) float64 {
		x = clamp(x, 0, width-1)
		y = clamp(y, 0, height-1)
		return float64(blurred.Pix[y*blurred.Stride+x*4])
	}

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	magnitude := make([][]float64, height)
	direction := make([][]float64, height)
	for y := 0; y < height; y++ {
		magnitude[y] = make([]float64, width)
		direction[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := lum(x+kx, y+ky)
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y][x] = math.Sqrt(gx*gx + gy*gy)
			direction[y][x] = math.Atan2(gy, gx)
		}
	}

	suppressed := suppressNonMaxima(magnitude, direction, width, height)

	// Double threshold and edge tracking by hysteresis
	lowThresh, highThresh := float64(low), float64(high)
	bits := make([][]bool, height)
	edges := 0
	for y := 0; y < height; y++ {
		bits[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			val := suppressed[y][x]
			if val == 0 || val < lowThresh {
				continue
			}
			if val >= highThresh || hasStrongNeighbor(suppressed, x, y, highThresh) {
				bits[y][x] = true
				edges++
			}
		}
	}

	return &EdgeMapResult{
		Image:      netpbm.NewBitmap(name, bits),
		Width:      width,
		Height:     height,
		EdgePixels: edges,
	}, nil
}

// suppressNonMaxima keeps only magnitudes that are local maxima along the
// gradient direction.
func suppressNonMaxima(magnitude, direction [][]float64, width, height int) [][]float64 {
	suppressed := make([][]float64, height)
	for y := 0; y < height; y++ {
		suppressed[y] = make([]float64, width)
		if y == 0 || y == height-1 {
			continue
		}
		for x := 1; x < width-1; x++ {
			angle := direction[y][x]
			mag := magnitude[y][x]

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude[y][x-1], magnitude[y][x+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude[y-1][x+1], magnitude[y+1][x-1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude[y-1][x], magnitude[y+1][x]
			default:
				n1, n2 = magnitude[y-1][x-1], magnitude[y+1][x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}
	return suppressed
}

func hasStrongNeighbor(suppressed [][]float64, x, y int, high float64) bool {
	height, width := len(suppressed), len(suppressed[0])
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			py := clamp(y+ky, 0, height-1)
			px := clamp(x+kx, 0, width-1)
			if suppressed[py][px] >= high {
				return true
			}
		}
	}
	return false
}

// clamp constrains an integer value to the range [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
