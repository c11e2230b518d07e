// Package transform implements the pixel transformations the editor can
// queue against a session: grayscale, monochrome, negative and the two
// quarter-turn rotations.
//
// Every transformation is a pure function: Apply never modifies its input
// and returns a new image, or the input itself when the transformation does
// not apply to the image's format. Results keep integer semantics: all
// divisions truncate toward zero.
package transform

import (
	"fmt"
	"strings"

	apperrors "github.com/ironsheep/netpbm-tools-mcp/internal/errors"
	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
)

// Kind is one of the five recognized transformations.
type Kind int

const (
	Grayscale Kind = iota + 1
	Monochrome
	Negative
	RotateLeft
	RotateRight
)

var kindTokens = map[Kind]string{
	Grayscale:   "grayscale",
	Monochrome:  "monochrome",
	Negative:    "negative",
	RotateLeft:  "rotate_left",
	RotateRight: "rotate_right",
}

// Kinds lists every transformation in declaration order.
var Kinds = []Kind{Grayscale, Monochrome, Negative, RotateLeft, RotateRight}

func (k Kind) String() string {
	if tok, ok := kindTokens[k]; ok {
		return tok
	}
	return fmt.Sprintf("transform(%d)", int(k))
}

// Valid reports whether k is one of the recognized transformations.
func (k Kind) Valid() bool {
	_, ok := kindTokens[k]
	return ok
}

// ParseKind decodes a transformation token such as "rotate_left". Matching
// ignores case and surrounding whitespace.
func ParseKind(token string) (Kind, error) {
	tok := strings.ToLower(strings.TrimSpace(token))
	for _, k := range Kinds {
		if kindTokens[k] == tok {
			return k, nil
		}
	}
	return 0, apperrors.New(apperrors.UnknownTransformation, "unknown transformation %q", token)
}

// Outcome describes what Apply did.
type Outcome struct {
	// Applied is false when the transformation is a documented no-op for
	// the image's format.
	Applied bool

	// Notice explains a no-op, e.g. "pgm images are already grayscale".
	Notice string
}

func applied() Outcome { return Outcome{Applied: true} }

func skipped(format string, args ...interface{}) Outcome {
	return Outcome{Notice: fmt.Sprintf(format, args...)}
}

// Apply runs one transformation on img. The input is never modified. A
// well-formed image never fails: errors are limited to UnknownTransformation
// for a kind outside the enumeration and UnsupportedFormat for an image
// without a format.
func Apply(img *netpbm.Image, kind Kind) (*netpbm.Image, Outcome, error) {
	if img.Format == netpbm.FormatUnknown {
		return nil, Outcome{}, apperrors.New(apperrors.UnsupportedFormat, "cannot transform image %q of unknown format", img.Name)
	}

	switch kind {
	case Grayscale:
		out, o := grayscale(img)
		return out, o, nil
	case Monochrome:
		out, o := monochrome(img)
		return out, o, nil
	case Negative:
		return negative(img), applied(), nil
	case RotateLeft:
		return rotate(img, rotateLeft), applied(), nil
	case RotateRight:
		return rotate(img, rotateRight), applied(), nil
	}
	return nil, Outcome{}, apperrors.New(apperrors.UnknownTransformation, "unknown transformation %s", kind)
}

// ApplyAll folds kinds over img in order and collects the outcome of each
// step. On error the image produced so far is returned together with the
// error.
func ApplyAll(img *netpbm.Image, kinds []Kind) (*netpbm.Image, []Outcome, error) {
	outcomes := make([]Outcome, 0, len(kinds))
	for _, k := range kinds {
		next, o, err := Apply(img, k)
		if err != nil {
			return img, outcomes, err
		}
		img = next
		outcomes = append(outcomes, o)
	}
	return img, outcomes, nil
}

// mapGrid builds a same-shaped grid by applying f to every cell.
func mapGrid[T any](rows [][]T, f func(T) T) [][]T {
	out := make([][]T, len(rows))
	for y, row := range rows {
		nr := make([]T, len(row))
		for x, v := range row {
			nr[x] = f(v)
		}
		out[y] = nr
	}
	return out
}

// withBits, withGray and withColor return a shallow copy of img carrying
// the given buffer.
func withBits(img *netpbm.Image, bits [][]bool) *netpbm.Image {
	out := *img
	out.Bits = bits
	return &out
}

func withGray(img *netpbm.Image, gray [][]int) *netpbm.Image {
	out := *img
	out.Gray = gray
	return &out
}

func withColor(img *netpbm.Image, color [][]netpbm.RGB) *netpbm.Image {
	out := *img
	out.Color = color
	return &out
}
