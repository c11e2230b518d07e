package imaging

import (
	"image"
	"image/color"

	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
)

// ToImage converts a Netpbm image to a Go image.
//
// Bitmaps become *image.Gray. Graymaps become *image.Gray, or *image.Gray16
// when MaxValue exceeds 255. Pixmaps become *image.NRGBA, or *image.NRGBA64
// when MaxValue exceeds 255. The result is fully opaque.
func ToImage(img *netpbm.Image) image.Image {
	rect := image.Rect(0, 0, img.Width, img.Height)
	deep := img.MaxValue > 255

	switch img.Format {
	case netpbm.FormatPBM:
		out := image.NewGray(rect)
		for y, row := range img.Bits {
			for x, black := range row {
				if !black {
					out.SetGray(x, y, color.Gray{Y: 255})
				}
			}
		}
		return out

	case netpbm.FormatPGM:
		if deep {
			out := image.NewGray16(rect)
			for y, row := range img.Gray {
				for x, v := range row {
					out.SetGray16(x, y, color.Gray16{Y: scale16(v, img.MaxValue)})
				}
			}
			return out
		}
		out := image.NewGray(rect)
		for y, row := range img.Gray {
			for x, v := range row {
				out.SetGray(x, y, color.Gray{Y: scale8(v, img.MaxValue)})
			}
		}
		return out

	case netpbm.FormatPPM:
		if deep {
			out := image.NewNRGBA64(rect)
			for y, row := range img.Color {
				for x, p := range row {
					out.SetNRGBA64(x, y, color.NRGBA64{
						R: scale16(p.R, img.MaxValue),
						G: scale16(p.G, img.MaxValue),
						B: scale16(p.B, img.MaxValue),
						A: 0xffff,
					})
				}
			}
			return out
		}
		out := image.NewNRGBA(rect)
		for y, row := range img.Color {
			for x, p := range row {
				out.SetNRGBA(x, y, color.NRGBA{
					R: scale8(p.R, img.MaxValue),
					G: scale8(p.G, img.MaxValue),
					B: scale8(p.B, img.MaxValue),
					A: 0xff,
				})
			}
		}
		return out
	}

	return image.NewGray(image.Rect(0, 0, 0, 0))
}

// rgb8 returns the 8-bit color of the pixel at (x, y).
func rgb8(img *netpbm.Image, x, y int) RGBColor {
	switch img.Format {
	case netpbm.FormatPBM:
		if img.Bits[y][x] {
			return RGBColor{}
		}
		return RGBColor{R: 255, G: 255, B: 255}
	case netpbm.FormatPGM:
		v := scale8(img.Gray[y][x], img.MaxValue)
		return RGBColor{R: v, G: v, B: v}
	}
	p := img.Color[y][x]
	return RGBColor{
		R: scale8(p.R, img.MaxValue),
		G: scale8(p.G, img.MaxValue),
		B: scale8(p.B, img.MaxValue),
	}
}

func scale8(v, max int) uint8 {
	return uint8((v*255 + max/2) / max)
}

func scale16(v, max int) uint16 {
	return uint16((v*65535 + max/2) / max)
}
