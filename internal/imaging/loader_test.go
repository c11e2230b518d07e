package imaging

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	apperrors "github.com/ironsheep/netpbm-tools-mcp/internal/errors"
	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
)

// createTestFile writes content to a file in a temp dir and returns its path.
func createTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestCache_Load(t *testing.T) {
	path := createTestFile(t, "g.pgm", "P2\n2 1\n255\n0 255\n")
	cache := NewCache(netpbm.DecodeOptions{})

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Width != 2 || img.Height != 1 || img.Format != netpbm.FormatPGM {
		t.Errorf("unexpected image: %+v", img)
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestCache_ServesFromMemory(t *testing.T) {
	path := createTestFile(t, "g.pgm", "P2\n1 1\n9\n4\n")
	cache := NewCache(netpbm.DecodeOptions{})

	if _, err := cache.Load(path); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("cached Load failed: %v", err)
	}
	if img.Gray[0][0] != 4 {
		t.Errorf("sample: got %d, want 4", img.Gray[0][0])
	}
}

func TestCache_ReturnsCopies(t *testing.T) {
	path := createTestFile(t, "g.pgm", "P2\n1 1\n9\n4\n")
	cache := NewCache(netpbm.DecodeOptions{})

	first, _ := cache.Load(path)
	first.Gray[0][0] = 9

	second, err := cache.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if second.Gray[0][0] != 4 {
		t.Error("modifying a loaded image changed the cached copy")
	}
}

func TestCache_EvictAndClear(t *testing.T) {
	a := createTestFile(t, "a.pbm", "P1\n1 1\n1\n")
	b := createTestFile(t, "b.pbm", "P1\n1 1\n0\n")
	cache := NewCache(netpbm.DecodeOptions{})

	for _, p := range []string{a, b} {
		if _, err := cache.Load(p); err != nil {
			t.Fatal(err)
		}
	}

	cache.Evict(a)
	cache.Evict("never-loaded.pbm")
	if cache.Len() != 1 {
		t.Errorf("after Evict: got %d entries, want 1", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("after Clear: got %d entries, want 0", cache.Len())
	}
}

func TestCache_Errors(t *testing.T) {
	cache := NewCache(netpbm.DecodeOptions{})

	tests := []struct {
		name string
		path string
		kind apperrors.Kind
	}{
		{"missing", filepath.Join(t.TempDir(), "missing.ppm"), apperrors.NotFound},
		{"binary", createTestFile(t, "bin.ppm", "P6\n1 1\n255\nxyz"), apperrors.UnsupportedFormat},
		{"truncated", createTestFile(t, "short.pgm", "P2\n2 2\n9\n1 2 3\n"), apperrors.InvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cache.Load(tt.path)
			if !apperrors.Is(err, tt.kind) {
				t.Errorf("expected %v, got %v", tt.kind, err)
			}
		})
	}
	if cache.Len() != 0 {
		t.Error("failed loads must not be cached")
	}
}

func TestCache_Concurrent(t *testing.T) {
	path := createTestFile(t, "p.ppm", "P3\n2 2\n255\n1 2 3\n4 5 6\n7 8 9\n10 11 12\n")
	cache := NewCache(netpbm.DecodeOptions{})

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load failed: %v", err)
	}
}

func TestLoadInfo(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		format   string
		maxValue int
		depth    string
		w, h     int
	}{
		{"b.pbm", "P1\n3 2\n0 0 0\n1 1 1\n", "pbm", 0, "1-bit", 3, 2},
		{"g.pgm", "P2\n1 1\n255\n7\n", "pgm", 255, "8-bit", 1, 1},
		{"p.ppm", "P3\n1 1\n1023\n1 2 3\n", "ppm", 1023, "16-bit", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createTestFile(t, tt.name, tt.content)
			info, err := LoadInfo(NewCache(netpbm.DecodeOptions{}), path)
			if err != nil {
				t.Fatalf("LoadInfo failed: %v", err)
			}
			want := Info{
				Path:          path,
				Width:         tt.w,
				Height:        tt.h,
				Format:        tt.format,
				MaxValue:      tt.maxValue,
				ColorDepth:    tt.depth,
				FileSizeBytes: int64(len(tt.content)),
			}
			if *info != want {
				t.Errorf("got %+v, want %+v", *info, want)
			}
		})
	}
}
