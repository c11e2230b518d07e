package imaging

import (
	"fmt"
	"os"
	"sync"

	apperrors "github.com/ironsheep/netpbm-tools-mcp/internal/errors"
	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
)

// Cache provides thread-safe caching of decoded Netpbm files for the
// read-only inspection tools.
//
// The cache stores decoded images keyed by their file path. Once a file is
// loaded, subsequent Load() calls for the same path skip disk I/O. Every call
// returns a private copy, so callers may modify what they get back.
//
// Cached images remain in memory until explicitly removed via Evict() or
// Clear(). Writers that replace a file on disk should Evict() its path.
//
// # Example Usage
//
//	cache := imaging.NewCache(netpbm.DecodeOptions{})
//	img, err := cache.Load("target_images/cat.ppm")
//	if err != nil {
//	    return err
//	}
//	// Use img...
//	cache.Evict("target_images/cat.ppm")
type Cache struct {
	mu     sync.RWMutex
	opts   netpbm.DecodeOptions
	images map[string]*netpbm.Image
}

// NewCache creates an empty cache decoding with opts.
func NewCache(opts netpbm.DecodeOptions) *Cache {
	return &Cache{
		opts:   opts,
		images: make(map[string]*netpbm.Image),
	}
}

// Load retrieves an image from the cache or decodes it from disk if not
// cached.
//
// The image is cached using the exact path string provided. Different paths to
// the same file (e.g., relative vs absolute) will result in separate cache
// entries.
//
// # Errors
//
//   - NotFound if the file does not exist
//   - UnsupportedFormat if the file is not a plain PBM, PGM or PPM file
//   - InvalidFormat if the file is malformed
func (c *Cache) Load(path string) (*netpbm.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img.Clone(), nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.NotFound, err, "failed to open image")
		}
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := c.opts.Decode(f, path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img.Clone(), nil
}

// Clear removes all images from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*netpbm.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path. Unknown paths
// are ignored.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Info contains metadata about a Netpbm file.
type Info struct {
	// Path is the file that was inspected.
	Path string `json:"path"`

	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is "pbm", "pgm" or "ppm", taken from the magic number rather
	// than the file extension.
	Format string `json:"format"`

	// MaxValue is the max color value; zero for bitmaps.
	MaxValue int `json:"max_value,omitempty"`

	// ColorDepth is "1-bit", "8-bit" or "16-bit": the depth the samples
	// need once converted.
	ColorDepth string `json:"color_depth"`

	// FileSizeBytes is the size of the file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadInfo loads a file through the cache and returns its metadata.
func LoadInfo(cache *Cache, path string) (*Info, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	info := DescribeImage(img)
	info.Path = path
	info.FileSizeBytes = stat.Size()
	return info, nil
}

// DescribeImage returns the metadata of an in-memory image. Path and
// FileSizeBytes are left empty.
func DescribeImage(img *netpbm.Image) *Info {
	depth := "8-bit"
	switch {
	case img.Format == netpbm.FormatPBM:
		depth = "1-bit"
	case img.MaxValue > 255:
		depth = "16-bit"
	}

	return &Info{
		Width:      img.Width,
		Height:     img.Height,
		Format:     img.Format.String(),
		MaxValue:   img.MaxValue,
		ColorDepth: depth,
	}
}
