package workspace

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "github.com/ironsheep/netpbm-tools-mcp/internal/errors"
	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
)

// Store loads Netpbm images through a Resolver and saves them through a
// Writer.
type Store struct {
	resolver *Resolver
	writer   *Writer
	decode   netpbm.DecodeOptions
	log      *slog.Logger
}

// NewStore wires a resolver, a writer and decoder options together. A nil
// logger uses slog.Default().
func NewStore(resolver *Resolver, writer *Writer, opts netpbm.DecodeOptions, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{resolver: resolver, writer: writer, decode: opts, log: logger}
}

// Resolve returns the path of the image called name.
func (s *Store) Resolve(name string) (string, error) {
	return s.resolver.Resolve(name)
}

// Writer returns the store's output writer.
func (s *Store) Writer() *Writer {
	return s.writer
}

// Load resolves name, checks its magic number and decodes it. The image is
// named after the resolved file's base name.
func (s *Store) Load(name string) (*netpbm.Image, error) {
	path, err := s.resolver.Resolve(name)
	if err != nil {
		return nil, err
	}
	s.log.Debug("resolved image", "name", name, "path", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.InvalidFormat, err, "failed to open %s", name)
	}
	defer f.Close()

	if netpbm.DetectFormat(f) == netpbm.FormatUnknown {
		return nil, apperrors.New(apperrors.UnsupportedFormat, "%s is not a plain PBM, PGM or PPM file", name)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, apperrors.Wrap(apperrors.InvalidFormat, err, "failed to read %s", name)
	}

	return s.decode.Decode(f, filepath.Base(path))
}

// Save encodes img and writes it under its name into the output directory.
// It returns the written path.
func (s *Store) Save(img *netpbm.Image) (string, error) {
	if err := img.Validate(); err != nil {
		return "", err
	}
	path, err := s.writer.Create(img.Name, func(w io.Writer) error {
		return netpbm.Encode(w, img)
	})
	if err != nil {
		return "", err
	}
	s.log.Debug("saved image", "name", img.Name, "path", path)
	return path, nil
}
