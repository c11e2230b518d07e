package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
)

func TestToImage(t *testing.T) {
	tests := []struct {
		name string
		img  *netpbm.Image
		x, y int
		want color.Color
	}{
		{
			"bitmap black",
			netpbm.NewBitmap("b.pbm", [][]bool{{true, false}}),
			0, 0, color.Gray{Y: 0},
		},
		{
			"bitmap white",
			netpbm.NewBitmap("b.pbm", [][]bool{{true, false}}),
			1, 0, color.Gray{Y: 255},
		},
		{
			"graymap scaled",
			netpbm.NewGraymap("g.pgm", 15, [][]int{{15, 7}}),
			1, 0, color.Gray{Y: 119},
		},
		{
			"graymap 16-bit",
			netpbm.NewGraymap("g.pgm", 1023, [][]int{{1023, 0}}),
			0, 0, color.Gray16{Y: 65535},
		},
		{
			"pixmap",
			netpbm.NewPixmap("p.ppm", 255, [][]netpbm.RGB{{{R: 255, G: 128, B: 0}}}),
			0, 0, color.NRGBA{R: 255, G: 128, B: 0, A: 255},
		},
		{
			"pixmap 16-bit",
			netpbm.NewPixmap("p.ppm", 65535, [][]netpbm.RGB{{{R: 65535, G: 0, B: 1}}}),
			0, 0, color.NRGBA64{R: 65535, G: 0, B: 1, A: 65535},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToImage(tt.img)
			if got.Bounds() != image.Rect(0, 0, tt.img.Width, tt.img.Height) {
				t.Errorf("bounds: got %v", got.Bounds())
			}
			if c := got.At(tt.x, tt.y); c != tt.want {
				t.Errorf("At(%d,%d): got %#v, want %#v", tt.x, tt.y, c, tt.want)
			}
		})
	}
}

func TestToImage_Types(t *testing.T) {
	tests := []struct {
		name string
		img  *netpbm.Image
		want string
	}{
		{"bitmap", netpbm.NewBitmap("b.pbm", [][]bool{{true}}), "*image.Gray"},
		{"graymap", netpbm.NewGraymap("g.pgm", 255, [][]int{{1}}), "*image.Gray"},
		{"deep graymap", netpbm.NewGraymap("g.pgm", 256, [][]int{{1}}), "*image.Gray16"},
		{"pixmap", netpbm.NewPixmap("p.ppm", 255, [][]netpbm.RGB{{{R: 1, G: 2, B: 3}}}), "*image.NRGBA"},
		{"deep pixmap", netpbm.NewPixmap("p.ppm", 4095, [][]netpbm.RGB{{{R: 1, G: 2, B: 3}}}), "*image.NRGBA64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			switch ToImage(tt.img).(type) {
			case *image.Gray:
				got = "*image.Gray"
			case *image.Gray16:
				got = "*image.Gray16"
			case *image.NRGBA:
				got = "*image.NRGBA"
			case *image.NRGBA64:
				got = "*image.NRGBA64"
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
