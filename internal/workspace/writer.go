package workspace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	apperrors "github.com/ironsheep/netpbm-tools-mcp/internal/errors"
)

// Writer creates files inside an output directory.
type Writer struct {
	dir string
}

// NewWriter returns a writer for dir. The directory is created on the first
// write.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Create writes the file name inside the output directory by calling fill
// with a temporary file, then renaming it to its final name. If fill fails
// the temporary file is removed and any existing file under name is left
// untouched. name must be a local path; it may not escape the directory.
func (w *Writer) Create(name string, fill func(io.Writer) error) (string, error) {
	if !filepath.IsLocal(name) {
		return "", apperrors.New(apperrors.IO, "output name %q must be a relative path inside %s", name, w.dir)
	}

	dest := filepath.Join(w.dir, name)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", apperrors.Wrap(apperrors.IO, err, "failed to create output directory")
	}

	tmp := fmt.Sprintf("%s.%s.tmp", dest, uuid.NewString())
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", apperrors.Wrap(apperrors.IO, err, "failed to save %s", name)
	}

	if err := fill(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", apperrors.Wrap(apperrors.IO, err, "failed to save %s", name)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", apperrors.Wrap(apperrors.IO, err, "failed to save %s", name)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", apperrors.Wrap(apperrors.IO, err, "failed to save %s", name)
	}
	return dest, nil
}
