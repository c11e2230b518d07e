package workspace

import (
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/ironsheep/netpbm-tools-mcp/internal/errors"
)

// Resolver locates image files by name.
type Resolver struct {
	dirs []string
	exts []string
}

// NewResolver creates a resolver probing dirs in order. exts are appended to
// names given without an extension, e.g. ".ppm".
func NewResolver(dirs, exts []string) *Resolver {
	return &Resolver{
		dirs: append([]string(nil), dirs...),
		exts: append([]string(nil), exts...),
	}
}

// Resolve returns the path of the file called name. The probing order is:
//
//  1. name as given
//  2. name inside each search directory
//  3. name plus each known extension inside each search directory
//  4. a case-insensitive match of the file name, or of the file name without
//     its extension, among the files of each search directory
//
// A name that matches nothing yields a NotFound error.
func (r *Resolver) Resolve(name string) (string, error) {
	if name == "" {
		return "", apperrors.New(apperrors.NotFound, "empty file name")
	}
	if isFile(name) {
		return name, nil
	}

	for _, dir := range r.dirs {
		if p := filepath.Join(dir, name); isFile(p) {
			return p, nil
		}
	}

	for _, dir := range r.dirs {
		for _, ext := range r.exts {
			if p := filepath.Join(dir, name+ext); isFile(p) {
				return p, nil
			}
		}
	}

	for _, dir := range r.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			fn := e.Name()
			stem := strings.TrimSuffix(fn, filepath.Ext(fn))
			if strings.EqualFold(fn, name) || strings.EqualFold(stem, name) {
				return filepath.Join(dir, fn), nil
			}
		}
	}

	return "", apperrors.New(apperrors.NotFound, "file not found: %s (searched in %s)", name, strings.Join(r.dirs, ", "))
}

func isFile(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}
