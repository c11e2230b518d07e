package imaging

import (
	"image/color"
	"testing"

	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
)

func TestPreview_Grid(t *testing.T) {
	img := createPixmap(10, 10, netpbm.RGB{})

	result, err := Preview(img, PreviewOptions{
		Scale: 4,
		Grid:  &GridOptions{Spacing: 5, Color: "#00ff00"},
	})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	out := decodePreview(t, result)

	green := color.NRGBA{G: 255, A: 255}
	black := color.NRGBA{A: 255}

	tests := []struct {
		name string
		x, y int
		want color.NRGBA
	}{
		{"vertical line", 20, 3, green},
		{"horizontal line", 3, 20, green},
		{"no line at the edge", 0, 3, black},
		{"between lines", 10, 10, black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nrgba(out.At(tt.x, tt.y)); got != tt.want {
				t.Errorf("At(%d,%d): got %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestPreview_GridFollowsRegionOrigin(t *testing.T) {
	img := createPixmap(10, 10, netpbm.RGB{})

	// Source x=5 is the only multiple of 5 inside [3,8); it lands at preview
	// column (5-3)*2 = 4.
	result, err := Preview(img, PreviewOptions{
		Region: &Region{X1: 3, Y1: 0, X2: 8, Y2: 4},
		Scale:  2,
		Grid:   &GridOptions{Spacing: 5},
	})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	out := decodePreview(t, result)

	red := color.NRGBA{R: 255, A: 255}
	if got := nrgba(out.At(4, 1)); got != red {
		t.Errorf("grid line: got %v, want red", got)
	}
	if got := nrgba(out.At(2, 1)); got == red {
		t.Error("unexpected grid line at column 2")
	}
}

func TestPreview_GridWithCoordinates(t *testing.T) {
	img := createPixmap(40, 40, netpbm.RGB{})

	result, err := Preview(img, PreviewOptions{
		Scale: 2,
		Grid:  &GridOptions{Spacing: 20, ShowCoordinates: true},
	})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	out := decodePreview(t, result)

	// The label "20,20" is drawn in white just below and right of the
	// intersection at (40,40).
	found := false
	for y := 42; y < 56 && !found; y++ {
		for x := 42; x < 80; x++ {
			if nrgba(out.At(x, y)) == (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("expected label pixels near the grid intersection")
	}
}

func TestPreview_GridErrors(t *testing.T) {
	img := createPixmap(10, 10, netpbm.RGB{})

	tests := []struct {
		name string
		grid GridOptions
	}{
		{"zero spacing", GridOptions{Spacing: 0}},
		{"bad color", GridOptions{Spacing: 2, Color: "green"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.grid
			if _, err := Preview(img, PreviewOptions{Grid: &g}); err == nil {
				t.Error("expected error")
			}
		})
	}
}
