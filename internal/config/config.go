// Package config loads application settings from an optional YAML file and
// BARCODE_BATCHER_* environment variables via viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"barcode-batcher/internal/models"
)

const (
	// EnvPrefix is prepended to every environment override, e.g. BARCODE_BATCHER_LOG_LEVEL.
	EnvPrefix = "BARCODE_BATCHER"
	fileName  = "barcode-batcher"
)

// Config groups every setting of the application.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Generation GenerationConfig `mapstructure:"generation"`
	Export     ExportConfig     `mapstructure:"export"`
	Render     RenderConfig     `mapstructure:"render"`
	Preview    PreviewConfig    `mapstructure:"preview"`
	Reference  ReferenceConfig  `mapstructure:"reference"`
}

// LogConfig selects the zerolog level and output format.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// GenerationConfig holds the defaults offered by the generation form.
type GenerationConfig struct {
	Symbology string     `mapstructure:"symbology"`
	RangeA    RangeValue `mapstructure:"range_a"`
	RangeB    RangeValue `mapstructure:"range_b"`
	// MaxCount caps each count field in the form and on the command line.
	MaxCount int `mapstructure:"max_count"`
}

// RangeValue is the config form of models.DigitRange.
type RangeValue struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

// DigitRange converts to the model type.
func (r RangeValue) DigitRange() models.DigitRange {
	return models.DigitRange{Min: r.Min, Max: r.Max}
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	Prefix    string `mapstructure:"prefix"`
	Directory string `mapstructure:"directory"`
}

// RenderConfig sizes rendered barcode images, in pixels.
type RenderConfig struct {
	Width   int  `mapstructure:"width"`
	Height  int  `mapstructure:"height"`
	Caption bool `mapstructure:"caption"`
}

// PreviewConfig controls the thumbnail grid.
type PreviewConfig struct {
	ThumbnailSize int `mapstructure:"thumbnail_size"`
	Columns       int `mapstructure:"columns"`
}

// ReferenceConfig points at an optional reference-code file; empty means the embedded list.
type ReferenceConfig struct {
	File string `mapstructure:"file"`
}

// Default returns the configuration used when no file or env override is present.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Generation: GenerationConfig{
			Symbology: string(models.Code128),
			RangeA:    RangeValue{Min: 1, Max: 5},
			RangeB:    RangeValue{Min: 6, Max: 9},
			MaxCount:  100,
		},
		Export:    ExportConfig{Prefix: "barcode_"},
		Render:    RenderConfig{Width: 300, Height: 120, Caption: true},
		Preview:   PreviewConfig{ThumbnailSize: 100, Columns: 4},
		Reference: ReferenceConfig{},
	}
}

// Load reads configuration. An explicit path must exist; otherwise
// barcode-batcher.yaml is looked up in the working directory and the user
// config directory and silently skipped when absent. Env vars win over files.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, fileName))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("generation.symbology", d.Generation.Symbology)
	v.SetDefault("generation.range_a.min", d.Generation.RangeA.Min)
	v.SetDefault("generation.range_a.max", d.Generation.RangeA.Max)
	v.SetDefault("generation.range_b.min", d.Generation.RangeB.Min)
	v.SetDefault("generation.range_b.max", d.Generation.RangeB.Max)
	v.SetDefault("generation.max_count", d.Generation.MaxCount)
	v.SetDefault("export.prefix", d.Export.Prefix)
	v.SetDefault("export.directory", d.Export.Directory)
	v.SetDefault("render.width", d.Render.Width)
	v.SetDefault("render.height", d.Render.Height)
	v.SetDefault("render.caption", d.Render.Caption)
	v.SetDefault("preview.thumbnail_size", d.Preview.ThumbnailSize)
	v.SetDefault("preview.columns", d.Preview.Columns)
	v.SetDefault("reference.file", d.Reference.File)
}

// Validate rejects settings the generator or view could not honour.
func (c *Config) Validate() error {
	if _, err := models.ParseSymbology(c.Generation.Symbology); err != nil {
		return fmt.Errorf("config: generation.symbology: %w", err)
	}
	if err := c.Generation.RangeA.DigitRange().Validate(); err != nil {
		return fmt.Errorf("config: generation.range_a: %w", err)
	}
	if err := c.Generation.RangeB.DigitRange().Validate(); err != nil {
		return fmt.Errorf("config: generation.range_b: %w", err)
	}
	if c.Generation.MaxCount <= 0 || c.Generation.MaxCount > models.MaxSegmentCount {
		return fmt.Errorf("config: generation.max_count must be in 1..%d, got %d", models.MaxSegmentCount, c.Generation.MaxCount)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("config: render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Preview.ThumbnailSize <= 0 || c.Preview.Columns <= 0 {
		return fmt.Errorf("config: preview thumbnail_size and columns must be positive")
	}
	return nil
}

// Symbology returns the parsed default symbology. Validate has already checked it.
func (c *Config) Symbology() models.Symbology {
	s, _ := models.ParseSymbology(c.Generation.Symbology)
	return s
}

// CheckCount rejects a per-range count above the configured max_count
func (g GenerationConfig) CheckCount(name string, n int) error {
	if n > g.MaxCount {
		return fmt.Errorf("%w: %s is limited to %d, got %d", models.ErrInvalidCount, name, g.MaxCount, n)
	}
	return nil
}
