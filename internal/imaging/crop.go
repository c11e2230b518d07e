package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
)

// MaxPreviewPixels bounds the area of a rendered preview.
const MaxPreviewPixels = 4096 * 4096

// PreviewOptions controls Preview.
type PreviewOptions struct {
	// Region limits the preview to part of the image. Nil means the whole
	// image.
	Region *Region

	// Scale is the integer zoom factor. Netpbm images are often tiny, so
	// pixels are enlarged with nearest-neighbor sampling to stay crisp.
	// Values below 1 mean 1.
	Scale int

	// Grid, when non-nil, draws a coordinate grid over the preview.
	Grid *GridOptions
}

// PreviewResult contains a rendered preview as base64-encoded PNG data.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Scale       int    `json:"scale"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Preview renders img, or a region of it, as a PNG.
//
// The region is cropped from the converted image with imaging.Crop, then
// enlarged by opts.Scale. Grid lines and coordinate labels refer to source
// pixel coordinates, so they can be fed straight back into SampleColor.
func Preview(img *netpbm.Image, opts PreviewOptions) (*PreviewResult, error) {
	r := Region{X1: 0, Y1: 0, X2: img.Width, Y2: img.Height}
	if opts.Region != nil {
		r = *opts.Region
	}
	if err := r.validate(img.Width, img.Height); err != nil {
		return nil, err
	}

	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}
	// Checked by division; the scaled size can overflow int.
	area := (r.X2 - r.X1) * (r.Y2 - r.Y1)
	if scale > MaxPreviewPixels/area || area*scale > MaxPreviewPixels/scale {
		return nil, fmt.Errorf("preview of a %dx%d region at scale %d exceeds the limit of %d pixels; use a smaller scale or region",
			r.X2-r.X1, r.Y2-r.Y1, scale, MaxPreviewPixels)
	}
	w, h := (r.X2-r.X1)*scale, (r.Y2-r.Y1)*scale

	out := imaging.Crop(ToImage(img), image.Rect(r.X1, r.Y1, r.X2, r.Y2))
	if scale > 1 {
		out = imaging.Resize(out, w, h, imaging.NearestNeighbor)
	}

	if opts.Grid != nil {
		if err := drawGrid(out, *opts.Grid, scale, image.Pt(r.X1, r.Y1)); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &PreviewResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		Scale:       scale,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// QuadrantRegion maps a named region to coordinates.
//
// Supported names are "top-left", "top-right", "bottom-left",
// "bottom-right", "top-half", "bottom-half", "left-half", "right-half" and
// "center" (the middle 50% in both dimensions).
func QuadrantRegion(img *netpbm.Image, name string) (*Region, error) {
	w, h := img.Width, img.Height
	midX, midY := w/2, h/2

	var r Region
	switch name {
	case "top-left":
		r = Region{0, 0, midX, midY}
	case "top-right":
		r = Region{midX, 0, w, midY}
	case "bottom-left":
		r = Region{0, midY, midX, h}
	case "bottom-right":
		r = Region{midX, midY, w, h}
	case "top-half":
		r = Region{0, 0, w, midY}
	case "bottom-half":
		r = Region{0, midY, w, h}
	case "left-half":
		r = Region{0, 0, midX, h}
	case "right-half":
		r = Region{midX, 0, w, h}
	case "center":
		qW, qH := w/4, h/4
		r = Region{qW, qH, w - qW, h - qH}
	default:
		return nil, fmt.Errorf("unknown region: %s", name)
	}

	if err := r.validate(w, h); err != nil {
		return nil, fmt.Errorf("region %s is empty for a %dx%d image", name, w, h)
	}
	return &r, nil
}
