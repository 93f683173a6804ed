package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"orbcloud/orbital"
)

const (
	defaultConfigFile = "orbcloud.yaml"
	envPrefix         = "ORBCLOUD"
)

// OrbitalConfig selects the orbital and the grid it is tabulated on.
type OrbitalConfig struct {
	N          int     `mapstructure:"n" yaml:"n"`
	L          int     `mapstructure:"l" yaml:"l"`
	M          int     `mapstructure:"m" yaml:"m"`
	Scale      float64 `mapstructure:"scale" yaml:"scale"`
	Resolution int     `mapstructure:"resolution" yaml:"resolution"`
	GridLimit  float64 `mapstructure:"grid_limit" yaml:"grid_limit"`
}

// SamplingConfig controls cloud generation. Zero workers means one per CPU
// and a zero seed is derived from the orbital configuration.
type SamplingConfig struct {
	Particles int    `mapstructure:"particles" yaml:"particles"`
	Workers   int    `mapstructure:"workers" yaml:"workers"`
	Seed      uint64 `mapstructure:"seed" yaml:"seed"`
}

// ViewerConfig holds the terminal viewer settings.
type ViewerConfig struct {
	Style       int  `mapstructure:"style" yaml:"style"`
	AutoRotate  bool `mapstructure:"auto_rotate" yaml:"auto_rotate"`
	FrameMillis int  `mapstructure:"frame_millis" yaml:"frame_millis"`
}

// OutputConfig covers logging and export. Verbose overrides LogLevel.
type OutputConfig struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`
	Format   string `mapstructure:"format" yaml:"format"`
	Path     string `mapstructure:"path" yaml:"path"`
}

// Config is the full orbcloud configuration as loaded from file, environment and flags.
type Config struct {
	Orbital  OrbitalConfig  `mapstructure:"orbital" yaml:"orbital"`
	Sampling SamplingConfig `mapstructure:"sampling" yaml:"sampling"`
	Viewer   ViewerConfig   `mapstructure:"viewer" yaml:"viewer"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
}

func defaultConfig() Config {
	return Config{
		Orbital: OrbitalConfig{
			N:          2,
			L:          1,
			M:          0,
			Scale:      1.0,
			Resolution: 1000,
			GridLimit:  orbital.DefaultGridLimit,
		},
		Sampling: SamplingConfig{
			Particles: 20000,
		},
		Viewer: ViewerConfig{
			Style:       0,
			AutoRotate:  true,
			FrameMillis: 40,
		},
		Output: OutputConfig{
			LogLevel: "info",
			Format:   string(orbital.FormatJSON),
			Path:     "-",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := defaultConfig()

	v.SetDefault("orbital.n", d.Orbital.N)
	v.SetDefault("orbital.l", d.Orbital.L)
	v.SetDefault("orbital.m", d.Orbital.M)
	v.SetDefault("orbital.scale", d.Orbital.Scale)
	v.SetDefault("orbital.resolution", d.Orbital.Resolution)
	v.SetDefault("orbital.grid_limit", d.Orbital.GridLimit)

	v.SetDefault("sampling.particles", d.Sampling.Particles)
	v.SetDefault("sampling.workers", d.Sampling.Workers)
	v.SetDefault("sampling.seed", d.Sampling.Seed)

	v.SetDefault("viewer.style", d.Viewer.Style)
	v.SetDefault("viewer.auto_rotate", d.Viewer.AutoRotate)
	v.SetDefault("viewer.frame_millis", d.Viewer.FrameMillis)

	v.SetDefault("output.log_level", d.Output.LogLevel)
	v.SetDefault("output.verbose", d.Output.Verbose)
	v.SetDefault("output.log_file", d.Output.LogFile)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.path", d.Output.Path)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig reads path into v and decodes the merged settings. A missing
// file is only an error when the path was given explicitly.
func loadConfig(v *viper.Viper, path string, explicit bool) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	o := c.Orbital
	if err := (orbital.State{N: o.N, L: o.L, M: o.M}).Validate(); err != nil {
		return err
	}
	if !(o.Scale > 0) || math.IsInf(o.Scale, 0) {
		return fmt.Errorf("orbital.scale must be positive, got %g", o.Scale)
	}
	if o.Resolution < orbital.MinResolution || o.Resolution > orbital.MaxResolution {
		return fmt.Errorf("%w: orbital.resolution %d", orbital.ErrInvalidResolution, o.Resolution)
	}
	if !(o.GridLimit > 0) || math.IsInf(o.GridLimit, 0) {
		return fmt.Errorf("orbital.grid_limit must be positive, got %g", o.GridLimit)
	}
	if c.Sampling.Particles < 1 {
		return fmt.Errorf("sampling.particles must be at least 1, got %d", c.Sampling.Particles)
	}
	if c.Sampling.Workers < 0 {
		return fmt.Errorf("sampling.workers must not be negative, got %d", c.Sampling.Workers)
	}
	if c.Viewer.Style < 0 || c.Viewer.Style >= len(shadingStyles) {
		return fmt.Errorf("viewer.style must be in [0, %d), got %d", len(shadingStyles), c.Viewer.Style)
	}
	if c.Viewer.FrameMillis < 1 {
		return fmt.Errorf("viewer.frame_millis must be at least 1, got %d", c.Viewer.FrameMillis)
	}
	if _, err := orbital.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	return nil
}

// State returns the configured quantum numbers.
func (c *Config) State() orbital.State {
	return orbital.State{N: c.Orbital.N, L: c.Orbital.L, M: c.Orbital.M}
}

// Workers returns the sampling worker count, defaulting to one per CPU.
func (c *Config) Workers() int {
	if c.Sampling.Workers > 0 {
		return c.Sampling.Workers
	}
	return runtime.NumCPU()
}

// Seed returns the configured seed, or one derived from the orbital settings.
func (c *Config) Seed() uint64 {
	if c.Sampling.Seed != 0 {
		return c.Sampling.Seed
	}
	return orbital.DeriveSeed(c.State(), c.Orbital.Scale, c.Orbital.Resolution)
}

// NewSampler builds a sampler for the configured orbital and grid.
func (c *Config) NewSampler(opts ...orbital.Option) (*orbital.Sampler, error) {
	o := c.Orbital
	opts = append([]orbital.Option{orbital.WithGridLimit(o.GridLimit)}, opts...)
	return orbital.NewSampler(o.N, o.L, o.M, o.Scale, o.Resolution, opts...)
}

func writeDefaultConfig(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(defaultConfig()); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
