package transform

import (
	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
)

// indexLaw maps source (row i, column j) of an h×w grid to its position in
// the rotated w×h grid.
type indexLaw func(i, j, w, h int) (row, col int)

// rotateLeft turns the image a quarter counterclockwise: new[w-1-j][i] = old[i][j].
func rotateLeft(i, j, w, h int) (int, int) { return w - 1 - j, i }

// rotateRight turns the image a quarter clockwise: new[j][h-1-i] = old[i][j].
func rotateRight(i, j, w, h int) (int, int) { return j, h - 1 - i }

func rotateGrid[T any](rows [][]T, w, h int, law indexLaw) [][]T {
	out := make([][]T, w)
	for r := range out {
		out[r] = make([]T, h)
	}
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			r, c := law(i, j, w, h)
			out[r][c] = rows[i][j]
		}
	}
	return out
}

// rotate applies law to whichever buffer the image carries and swaps the
// dimensions.
func rotate(img *netpbm.Image, law indexLaw) *netpbm.Image {
	w, h := img.Width, img.Height

	var out *netpbm.Image
	switch img.Format {
	case netpbm.FormatPBM:
		out = withBits(img, rotateGrid(img.Bits, w, h, law))
	case netpbm.FormatPGM:
		out = withGray(img, rotateGrid(img.Gray, w, h, law))
	default:
		out = withColor(img, rotateGrid(img.Color, w, h, law))
	}
	out.Width, out.Height = h, w
	return out
}
