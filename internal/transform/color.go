package transform

import (
	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
)

// grayscale converts pixmap pixels to gray = trunc(0.30R + 0.59G + 0.11B),
// computed in integers so that white stays white.
func grayscale(img *netpbm.Image) (*netpbm.Image, Outcome) {
	switch img.Format {
	case netpbm.FormatPBM:
		return img, skipped("grayscale is not applicable to pbm images")
	case netpbm.FormatPGM:
		return img, skipped("pgm images are already grayscale")
	}

	return withColor(img, mapGrid(img.Color, func(p netpbm.RGB) netpbm.RGB {
		g := (30*p.R + 59*p.G + 11*p.B) / 100
		return netpbm.RGB{R: g, G: g, B: g}
	})), applied()
}

// monochrome thresholds samples at max/2: anything strictly above becomes
// max, everything else 0. Pixmaps threshold the channel average and set the
// whole pixel.
func monochrome(img *netpbm.Image) (*netpbm.Image, Outcome) {
	max := img.MaxValue
	threshold := max / 2

	switch img.Format {
	case netpbm.FormatPBM:
		return img, skipped("pbm images are already monochrome")
	case netpbm.FormatPGM:
		return withGray(img, mapGrid(img.Gray, func(v int) int {
			if v > threshold {
				return max
			}
			return 0
		})), applied()
	}

	return withColor(img, mapGrid(img.Color, func(p netpbm.RGB) netpbm.RGB {
		if (p.R+p.G+p.B)/3 > threshold {
			return netpbm.RGB{R: max, G: max, B: max}
		}
		return netpbm.RGB{}
	})), applied()
}

func negative(img *netpbm.Image) *netpbm.Image {
	max := img.MaxValue

	switch img.Format {
	case netpbm.FormatPBM:
		return withBits(img, mapGrid(img.Bits, func(b bool) bool { return !b }))
	case netpbm.FormatPGM:
		return withGray(img, mapGrid(img.Gray, func(v int) int { return max - v }))
	}

	return withColor(img, mapGrid(img.Color, func(p netpbm.RGB) netpbm.RGB {
		return netpbm.RGB{R: max - p.R, G: max - p.G, B: max - p.B}
	}))
}
