package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the optional tourte.yaml project file.
type Config struct {
	// Output is the assembly path used when -o is not given.
	// Relative paths are resolved against the config file's directory.
	Output string `yaml:"output,omitempty"`

	// Color is one of auto, always or never.
	Color string `yaml:"color,omitempty"`

	Cache    CacheConfig    `yaml:"cache"`
	Emulator EmulatorConfig `yaml:"emulator"`

	// dir is the directory holding the file, empty for defaults.
	dir string
}

type CacheConfig struct {
	// Enabled is a pointer so an absent key keeps the default.
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

type EmulatorConfig struct {
	MaxSteps int `yaml:"max_steps,omitempty"`
}

// Default returns the configuration used when no tourte.yaml exists.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads and parses a tourte.yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses tourte.yaml content.
// The path is used for error messages and to resolve relative paths.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.dir = filepath.Dir(path)
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for tourte.yaml starting from dir and walking up to
// parent directories. It returns an empty path and nil error when none exists.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadFor finds and loads the configuration governing sourceDir, then applies
// TOURTE_* overrides. Without a tourte.yaml the defaults apply, with paths
// relative to sourceDir.
func LoadFor(sourceDir string) (*Config, error) {
	path, err := FindConfig(sourceDir)
	if err != nil {
		return nil, err
	}
	var cfg *Config
	if path == "" {
		cfg = Default()
		cfg.dir = sourceDir
	} else if cfg, err = Load(path); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CacheEnabled reports whether generated assembly should be cached.
func (c *Config) CacheEnabled() bool {
	return c.Cache.Enabled == nil || *c.Cache.Enabled
}

// CachePath returns the cache database path.
func (c *Config) CachePath() string {
	return c.resolve(c.Cache.Path)
}

// OutputPath returns the configured output path, or "" when unset.
func (c *Config) OutputPath() string {
	if c.Output == "" {
		return ""
	}
	return c.resolve(c.Output)
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

func (c *Config) setDefaults() {
	if c.Color == "" {
		c.Color = ColorAuto
	}
	if c.Cache.Path == "" {
		c.Cache.Path = DefaultCachePath
	}
	if c.Emulator.MaxSteps == 0 {
		c.Emulator.MaxSteps = DefaultMaxSteps
	}
}

func (c *Config) validate(path string) error {
	switch c.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%s: color: must be one of auto, always, never (got %q)", path, c.Color)
	}
	if c.Emulator.MaxSteps < 0 {
		return fmt.Errorf("%s: emulator.max_steps: must not be negative (got %d)", path, c.Emulator.MaxSteps)
	}
	if c.Output != "" && filepath.Ext(c.Output) == SourceFileExt {
		return fmt.Errorf("%s: output: refusing to write assembly over a %s file", path, SourceFileExt)
	}
	return nil
}
