package netpbm

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Encode writes img in its plain Netpbm format: the magic number, the
// dimensions, the max color value (graymaps and pixmaps), then the samples.
// Bitmap and graymap rows are written one per line; pixmap pixels are
// written one "R G B" triple per line.
func Encode(w io.Writer, img *Image) error {
	if err := img.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, img.Format.Magic())
	fmt.Fprintf(bw, "%d %d\n", img.Width, img.Height)
	if img.Format.HasMaxValue() {
		fmt.Fprintln(bw, img.MaxValue)
	}

	line := make([]byte, 0, 4*img.Width)
	switch img.Format {
	case FormatPBM:
		for _, row := range img.Bits {
			line = line[:0]
			for x, b := range row {
				if x > 0 {
					line = append(line, ' ')
				}
				if b {
					line = append(line, '1')
				} else {
					line = append(line, '0')
				}
			}
			line = append(line, '\n')
			bw.Write(line)
		}
	case FormatPGM:
		for _, row := range img.Gray {
			line = line[:0]
			for x, v := range row {
				if x > 0 {
					line = append(line, ' ')
				}
				line = strconv.AppendInt(line, int64(v), 10)
			}
			line = append(line, '\n')
			bw.Write(line)
		}
	case FormatPPM:
		for _, row := range img.Color {
			for _, p := range row {
				line = line[:0]
				line = strconv.AppendInt(line, int64(p.R), 10)
				line = append(line, ' ')
				line = strconv.AppendInt(line, int64(p.G), 10)
				line = append(line, ' ')
				line = strconv.AppendInt(line, int64(p.B), 10)
				line = append(line, '\n')
				bw.Write(line)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write %s image: %w", img.Format, err)
	}
	return nil
}

// Marshal returns the plain Netpbm encoding of img.
func Marshal(img *Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
