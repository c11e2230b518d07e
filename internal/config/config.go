package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Workspace WorkspaceConfig `mapstructure:"workspace"`
	Codec     CodecConfig     `mapstructure:"codec"`
	Export    ExportConfig    `mapstructure:"export"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type WorkspaceConfig struct {
	SearchDirs []string `mapstructure:"search_dirs"`
	Extensions []string `mapstructure:"extensions"`
	OutputDir  string   `mapstructure:"output_dir"`
}

type CodecConfig struct {
	MaxHeaderLines int `mapstructure:"max_header_lines"`
	MaxPixels      int `mapstructure:"max_pixels"`
}

type ExportConfig struct {
	JPEGQuality int `mapstructure:"jpeg_quality"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	JSONFormat bool   `mapstructure:"json_format"`
}

// Load reads the configuration. An explicit file, when given, must exist;
// otherwise config.yaml is looked up in the usual places and is optional.
func Load(file string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("workspace.search_dirs", []string{".", "target_images"})
	v.SetDefault("workspace.extensions", []string{".ppm", ".pgm", ".pbm"})
	v.SetDefault("workspace.output_dir", "target_images/new images")
	v.SetDefault("codec.max_header_lines", 64)
	v.SetDefault("codec.max_pixels", 1<<26)
	v.SetDefault("export.jpeg_quality", 90)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.json_format", false)

	// Config file locations
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.config/netpbm-mcp")
	}

	// Environment variables
	v.SetEnvPrefix("NETPBM_MCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Workspace.SearchDirs) == 0 {
		return fmt.Errorf("workspace.search_dirs must contain at least one directory")
	}
	if c.Workspace.OutputDir == "" {
		return fmt.Errorf("workspace.output_dir is required")
	}
	for _, ext := range c.Workspace.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("workspace.extensions entry %q must start with a dot", ext)
		}
	}
	if c.Codec.MaxHeaderLines < 1 {
		return fmt.Errorf("codec.max_header_lines must be positive")
	}
	if c.Codec.MaxPixels < 1 {
		return fmt.Errorf("codec.max_pixels must be positive")
	}
	if c.Export.JPEGQuality < 1 || c.Export.JPEGQuality > 100 {
		return fmt.Errorf("export.jpeg_quality must be between 1 and 100")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	return nil
}
