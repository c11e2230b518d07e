// Package netpbm reads and writes the plain (text) Netpbm image formats.
//
// Three formats are supported, identified by their magic number:
//   - P1: PBM bitmap, one bit per pixel (1 = black, 0 = white)
//   - P2: PGM graymap, one integer sample per pixel
//   - P3: PPM pixmap, three integer samples (R, G, B) per pixel
//
// The raw variants P4, P5 and P6 are not supported.
//
// # Image Model
//
// An Image is a tagged union: Format selects which of the three pixel
// buffers (Bits, Gray or Color) is populated. Buffers are row-major, indexed
// [y][x], and their dimensions always equal Width and Height. Graymaps and
// pixmaps carry a MaxValue in [1, 65535]; every sample lies in [0, MaxValue].
//
// # Grammar
//
// A file is a sequence of whitespace-separated tokens. Blank lines and lines
// starting with '#' are ignored everywhere, and a token starting with '#'
// comments out the rest of its line. The header is scanned leniently: a line
// that does not start with an integer is skipped while looking for the
// dimensions, and a non-positive width/height pair is ignored in favor of
// the next pair. The scan gives up after DecodeOptions.MaxHeaderLines
// attempts.
//
// # Errors
//
// Every decoding failure is reported as an *errors.Error of kind
// InvalidFormat, except a well-formed but unsupported magic number (such as
// P6), which is UnsupportedFormat.
package netpbm
