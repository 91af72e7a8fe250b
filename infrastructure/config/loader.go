package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"audio-extractor/domain/extraction"
)

// DefaultPath is used when no --config flag is given
const DefaultPath = "config/config.yaml"

// Config represents the complete application configuration
type Config struct {
	Extraction ExtractionConfig `yaml:"extraction"`
	Batch      BatchConfig      `yaml:"batch"`
	Watch      WatchConfig      `yaml:"watch"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ExtractionConfig contains how ffmpeg is run
type ExtractionConfig struct {
	UseContainer     bool   `yaml:"use_container"`
	ContainerRuntime string `yaml:"container_runtime"`
	ContainerImage   string `yaml:"container_image"`
	FFmpegPath       string `yaml:"ffmpeg_path"`
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
}

// BatchConfig contains directory extraction settings
type BatchConfig struct {
	Concurrency int    `yaml:"concurrency"`
	Format      string `yaml:"format"`
}

// WatchConfig contains watch mode settings
type WatchConfig struct {
	SettleSeconds int `yaml:"settle_seconds"`
}

// LoggingConfig contains log output settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			UseContainer:     false,
			ContainerRuntime: string(extraction.RuntimeAuto),
			ContainerImage:   extraction.DefaultImage,
			FFmpegPath:       "ffmpeg",
			TimeoutSeconds:   int(extraction.DefaultTimeout.Seconds()),
		},
		Batch: BatchConfig{
			Concurrency: 2,
			Format:      ".wav",
		},
		Watch: WatchConfig{
			SettleSeconds: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load reads and parses the configuration from the specified YAML file.
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not exist
func LoadOrDefault(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that cannot be corrected at run time
func (c *Config) Validate() error {
	switch extraction.ParseRuntime(c.Extraction.ContainerRuntime) {
	case extraction.RuntimeAuto, extraction.RuntimePodman, extraction.RuntimeDocker:
	default:
		return fmt.Errorf("extraction.container_runtime must be auto, podman or docker, got %q", c.Extraction.ContainerRuntime)
	}
	if c.Extraction.TimeoutSeconds < 0 {
		return fmt.Errorf("extraction.timeout_seconds must not be negative")
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be at least 1")
	}
	if c.Batch.Format != "" && !extraction.IsSupportedAudio(c.Batch.Format) {
		return fmt.Errorf("batch.format %q is not a supported audio format", c.Batch.Format)
	}
	if c.Watch.SettleSeconds < 0 {
		return fmt.Errorf("watch.settle_seconds must not be negative")
	}
	switch c.Logging.Format {
	case "", "auto", "text", "json":
	default:
		return fmt.Errorf("logging.format must be auto, text or json, got %q", c.Logging.Format)
	}
	return nil
}
