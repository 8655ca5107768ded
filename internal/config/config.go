// Package config loads tessera's project configuration from .tessera.yml.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = ".tessera.yml"

// Config is the full .tessera.yml document. Every field has a usable
// default so running without a config file works.
type Config struct {
	// SourceDir is the directory scanned for markdown documents.
	SourceDir string `yaml:"source_dir"`
	// OutputDir receives expanded documents during builds.
	OutputDir string `yaml:"output_dir"`
	// TemplatesDir, when set, resolves every template path against this
	// directory instead of the including document's directory.
	TemplatesDir string `yaml:"templates_dir"`
	// MaxDepth bounds template nesting; zero keeps the engine default.
	MaxDepth int `yaml:"max_depth"`

	Serve ServeConfig `yaml:"serve"`
}

// ServeConfig configures the HTTP document server.
type ServeConfig struct {
	Addr    string      `yaml:"addr"`
	Metrics bool        `yaml:"metrics"`
	Cache   CacheConfig `yaml:"cache"`
}

// CacheConfig configures the optional Redis cache for rendered pages.
// The cache is enabled when Addr is non-empty.
type CacheConfig struct {
	Addr     string   `yaml:"addr"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
	TTL      Duration `yaml:"ttl"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		SourceDir: "src",
		OutputDir: "out",
		Serve: ServeConfig{
			Addr:    ":8080",
			Metrics: true,
			Cache:   CacheConfig{TTL: Duration(5 * time.Minute)},
		},
	}
}

// Load reads the config file at path, layering it over Default. A missing
// file is not an error; it yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
