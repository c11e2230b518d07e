// Package imaging bridges decoded Netpbm images to the standard image.Image
// world for inspection and viewing.
//
// The editor itself works on netpbm.Image values with their native sample
// range. This package converts them to 8- or 16-bit Go images so they can be
// previewed as PNG, sampled as web colors, or exported to PNG, JPEG, BMP and
// TIFF. Compare diffs two images by display color, and EdgeMap traces
// outlines into a new PBM bitmap. Nothing here modifies a session: every
// function takes an image and returns a new value.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Sample Scaling
//
// Netpbm samples range over [0, MaxValue]. Conversion scales them linearly to
// [0, 255] (or [0, 65535] when MaxValue exceeds 255), rounding to nearest.
// Bitmap pixels follow the PBM convention: 1 is black, 0 is white.
//
// # Thread Safety
//
// The Cache type is safe for concurrent use. All other functions are
// stateless.
package imaging
