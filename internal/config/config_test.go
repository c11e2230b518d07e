package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := &Config{
		Workspace: WorkspaceConfig{
			SearchDirs: []string{".", "target_images"},
			Extensions: []string{".ppm", ".pgm", ".pbm"},
			OutputDir:  "target_images/new images",
		},
		Codec:   CodecConfig{MaxHeaderLines: 64, MaxPixels: 1 << 26},
		Export:  ExportConfig{JPEGQuality: 90},
		Logging: LoggingConfig{Level: "info"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netpbm.yaml")
	content := `workspace:
  search_dirs: [images]
  output_dir: out
codec:
  max_header_lines: 8
logging:
  level: debug
  json_format: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff([]string{"images"}, cfg.Workspace.SearchDirs); diff != "" {
		t.Errorf("search dirs mismatch (-want +got):\n%s", diff)
	}
	if cfg.Workspace.OutputDir != "out" || cfg.Codec.MaxHeaderLines != 8 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.JSONFormat {
		t.Errorf("logging: got %+v", cfg.Logging)
	}
	if cfg.Export.JPEGQuality != 90 {
		t.Errorf("unset keys keep their defaults, got jpeg quality %d", cfg.Export.JPEGQuality)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("NETPBM_MCP_CODEC_MAX_HEADER_LINES", "5")
	t.Setenv("NETPBM_MCP_WORKSPACE_OUTPUT_DIR", "saved")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Codec.MaxHeaderLines != 5 {
		t.Errorf("max header lines: got %d, want 5", cfg.Codec.MaxHeaderLines)
	}
	if cfg.Workspace.OutputDir != "saved" {
		t.Errorf("output dir: got %q", cfg.Workspace.OutputDir)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("an explicit config file that does not exist should fail")
	}

	t.Setenv("NETPBM_MCP_EXPORT_JPEG_QUALITY", "0")
	if _, err := Load(""); err == nil {
		t.Error("invalid jpeg quality should fail validation")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Workspace: WorkspaceConfig{SearchDirs: []string{"."}, Extensions: []string{".ppm"}, OutputDir: "out"},
			Codec:     CodecConfig{MaxHeaderLines: 64, MaxPixels: 1 << 26},
			Export:    ExportConfig{JPEGQuality: 90},
			Logging:   LoggingConfig{Level: "info"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no search dirs", func(c *Config) { c.Workspace.SearchDirs = nil }},
		{"no output dir", func(c *Config) { c.Workspace.OutputDir = "" }},
		{"extension without dot", func(c *Config) { c.Workspace.Extensions = []string{"ppm"} }},
		{"zero header lines", func(c *Config) { c.Codec.MaxHeaderLines = 0 }},
		{"zero max pixels", func(c *Config) { c.Codec.MaxPixels = 0 }},
		{"jpeg quality too high", func(c *Config) { c.Export.JPEGQuality = 101 }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	base := valid()
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
