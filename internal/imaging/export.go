package imaging

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"golang.org/x/image/tiff"

	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
)

// ExportFormats lists the file extensions Export understands.
var ExportFormats = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff"}

// Export encodes img in the format implied by name's extension. quality
// applies to JPEG only and must be in [1, 100].
func Export(w io.Writer, img *netpbm.Image, name string, quality int) error {
	enc, err := encoderFor(name, quality)
	if err != nil {
		return err
	}
	if err := img.Validate(); err != nil {
		return err
	}
	if err := enc(w, ToImage(img)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return nil
}

// CheckExportName reports whether name has an extension Export can write.
func CheckExportName(name string) error {
	_, err := encoderFor(name, 100)
	return err
}

func encoderFor(name string, quality int) (imgio.Encoder, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".png":
		return imgio.PNGEncoder(), nil
	case ".jpg", ".jpeg":
		if quality < 1 || quality > 100 {
			return nil, fmt.Errorf("jpeg quality %d outside [1, 100]", quality)
		}
		return imgio.JPEGEncoder(quality), nil
	case ".bmp":
		return imgio.BMPEncoder(), nil
	case ".tif", ".tiff":
		return func(w io.Writer, m image.Image) error {
			return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q; use one of %s", ext, strings.Join(ExportFormats, ", "))
	}
}
