package netpbm

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/ironsheep/netpbm-tools-mcp/internal/errors"
)

// DefaultMaxHeaderLines bounds the lenient dimension scan.
const DefaultMaxHeaderLines = 64

// DefaultMaxPixels bounds width*height of a decoded image.
const DefaultMaxPixels = 1 << 26

// rowCapacity caps buffer capacity reserved from header values before any
// sample has been read.
const rowCapacity = 4096

// maxLineLength is the longest line the tokenizer accepts. A single body
// row of a wide pixmap can be long.
const maxLineLength = 64 * 1024 * 1024

// DecodeOptions controls decoding.
type DecodeOptions struct {
	// MaxHeaderLines is the number of lines the dimension scan may consume
	// before giving up. Zero means DefaultMaxHeaderLines.
	MaxHeaderLines int

	// MaxPixels is the largest width*height accepted. Zero means
	// DefaultMaxPixels.
	MaxPixels int
}

// Decode parses a plain Netpbm image using default options. The name
// becomes the image's Name.
func Decode(r io.Reader, name string) (*Image, error) {
	return DecodeOptions{}.Decode(r, name)
}

// Decode parses a plain Netpbm image from r.
func (o DecodeOptions) Decode(r io.Reader, name string) (*Image, error) {
	maxLines := o.MaxHeaderLines
	if maxLines <= 0 {
		maxLines = DefaultMaxHeaderLines
	}

	t := newTokenizer(r)

	magic, ok := t.next()
	if !ok {
		return nil, t.fail("missing magic number")
	}
	format := FormatFromMagic(magic)
	if format == FormatUnknown {
		if isMagicLike(magic) {
			return nil, apperrors.New(apperrors.UnsupportedFormat,
				"unsupported magic number %q; supported: P1 (PBM), P2 (PGM), P3 (PPM)", magic)
		}
		return nil, apperrors.New(apperrors.InvalidFormat, "invalid magic number %q", magic)
	}

	maxPixels := o.MaxPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	width, height, err := t.dimensions(maxLines)
	if err != nil {
		return nil, err
	}
	if width > maxPixels/height {
		return nil, apperrors.New(apperrors.InvalidFormat,
			"image dimensions %dx%d exceed the limit of %d pixels", width, height, maxPixels)
	}

	img := &Image{Name: name, Format: format, Width: width, Height: height}

	if format.HasMaxValue() {
		img.MaxValue, err = t.nextInt("max color value")
		if err != nil {
			return nil, err
		}
		if img.MaxValue <= 0 || img.MaxValue > MaxSampleValue {
			return nil, apperrors.New(apperrors.InvalidFormat,
				"invalid max color value %d; must be in [1, %d]", img.MaxValue, MaxSampleValue)
		}
	}

	switch format {
	case FormatPBM:
		err = t.readBits(img)
	case FormatPGM:
		err = t.readGray(img)
	case FormatPPM:
		err = t.readColor(img)
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// DetectFormat reports the format of the stream by reading only up to its first
// significant token. Any read error, or a token that is not P1, P2 or P3,
// yields FormatUnknown.
func DetectFormat(r io.Reader) Format {
	t := newTokenizer(r)
	tok, ok := t.next()
	if !ok {
		return FormatUnknown
	}
	return FormatFromMagic(tok)
}

func isMagicLike(tok string) bool {
	return len(tok) == 2 && tok[0] == 'P' && tok[1] >= '0' && tok[1] <= '9'
}

// tokenizer splits a Netpbm stream into whitespace-separated tokens,
// dropping blank lines and comments.
type tokenizer struct {
	sc     *bufio.Scanner
	fields []string
	line   int
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	return &tokenizer{sc: sc}
}

// fill makes sure the current line has at least one token, reading further
// lines as needed. It returns false at end of input.
func (t *tokenizer) fill() bool {
	for len(t.fields) == 0 {
		if !t.sc.Scan() {
			return false
		}
		t.line++
		text := strings.TrimSpace(t.sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		for i, f := range fields {
			if strings.HasPrefix(f, "#") {
				fields = fields[:i]
				break
			}
		}
		t.fields = fields
	}
	return true
}

func (t *tokenizer) next() (string, bool) {
	if !t.fill() {
		return "", false
	}
	tok := t.fields[0]
	t.fields = t.fields[1:]
	return tok, true
}

func (t *tokenizer) skipLine() {
	t.fields = nil
}

// fail reports the end of input, distinguishing read errors from a
// truncated stream.
func (t *tokenizer) fail(what string) error {
	if err := t.sc.Err(); err != nil {
		return apperrors.Wrap(apperrors.InvalidFormat, err, "failed to read image data")
	}
	return apperrors.New(apperrors.InvalidFormat, "%s (unexpected end of data after line %d)", what, t.line)
}

func (t *tokenizer) nextInt(what string) (int, error) {
	tok, ok := t.next()
	if !ok {
		return 0, t.fail("missing " + what)
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, apperrors.New(apperrors.InvalidFormat, "invalid %s %q on line %d", what, tok, t.line)
	}
	return v, nil
}

// dimensions scans for the first strictly positive width/height pair. Lines
// that do not start with an integer are skipped; a non-positive pair is
// discarded and the scan continues.
func (t *tokenizer) dimensions(maxLines int) (int, int, error) {
	for attempt := 0; attempt < maxLines; attempt++ {
		if !t.fill() {
			return 0, 0, t.fail("missing image dimensions")
		}
		width, err := strconv.Atoi(t.fields[0])
		if err != nil {
			t.skipLine()
			continue
		}
		t.fields = t.fields[1:]

		height, err := t.nextInt("image height")
		if err != nil {
			return 0, 0, err
		}
		if width > 0 && height > 0 {
			return width, height, nil
		}
	}
	return 0, 0, apperrors.New(apperrors.InvalidFormat,
		"no positive width and height found within %d header lines", maxLines)
}

func (t *tokenizer) readBits(img *Image) error {
	img.Bits = make([][]bool, 0, min(img.Height, rowCapacity))
	for y := 0; y < img.Height; y++ {
		row := make([]bool, 0, min(img.Width, rowCapacity))
		for x := 0; x < img.Width; x++ {
			v, err := t.nextInt("pixel value")
			if err != nil {
				return err
			}
			if v != 0 && v != 1 {
				return apperrors.New(apperrors.InvalidFormat, "invalid bitmap pixel value %d at (%d,%d); must be 0 or 1", v, x, y)
			}
			row = append(row, v == 1)
		}
		img.Bits = append(img.Bits, row)
	}
	return nil
}

func (t *tokenizer) readGray(img *Image) error {
	img.Gray = make([][]int, 0, min(img.Height, rowCapacity))
	for y := 0; y < img.Height; y++ {
		row := make([]int, 0, min(img.Width, rowCapacity))
		for x := 0; x < img.Width; x++ {
			v, err := t.sample(img.MaxValue, x, y)
			if err != nil {
				return err
			}
			row = append(row, v)
		}
		img.Gray = append(img.Gray, row)
	}
	return nil
}

func (t *tokenizer) readColor(img *Image) error {
	img.Color = make([][]RGB, 0, min(img.Height, rowCapacity))
	for y := 0; y < img.Height; y++ {
		row := make([]RGB, 0, min(img.Width, rowCapacity))
		for x := 0; x < img.Width; x++ {
			var c [3]int
			for i := range c {
				v, err := t.sample(img.MaxValue, x, y)
				if err != nil {
					return err
				}
				c[i] = v
			}
			row = append(row, RGB{R: c[0], G: c[1], B: c[2]})
		}
		img.Color = append(img.Color, row)
	}
	return nil
}

func (t *tokenizer) sample(maxValue, x, y int) (int, error) {
	v, err := t.nextInt("pixel value")
	if err != nil {
		return 0, err
	}
	if v < 0 || v > maxValue {
		return 0, apperrors.New(apperrors.InvalidFormat, "pixel value %d at (%d,%d) out of range [0, %d]", v, x, y, maxValue)
	}
	return v, nil
}
