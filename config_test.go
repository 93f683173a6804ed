package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"orbcloud/orbital"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := loadConfig(newViper(), path, false)
	if err != nil {
		t.Fatalf("implicit missing file: %v", err)
	}
	if *cfg != defaultConfig() {
		t.Errorf("got %+v, want defaults", *cfg)
	}

	if _, err := loadConfig(newViper(), path, true); err == nil {
		t.Error("explicit missing file accepted")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbcloud.yaml")
	data := "orbital:\n  n: 3\n  l: 2\n  m: -1\nsampling:\n  seed: 42\n  particles: 500\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(newViper(), path, true)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.State() != (orbital.State{N: 3, L: 2, M: -1}) {
		t.Errorf("state %v", cfg.State())
	}
	if cfg.Sampling.Seed != 42 || cfg.Seed() != 42 || cfg.Sampling.Particles != 500 {
		t.Errorf("sampling %+v", cfg.Sampling)
	}
	if cfg.Orbital.Resolution != defaultConfig().Orbital.Resolution {
		t.Errorf("resolution %d not defaulted", cfg.Orbital.Resolution)
	}
}

func TestLoadConfigInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbcloud.yaml")
	if err := os.WriteFile(path, []byte("orbital:\n  n: 1\n  l: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(newViper(), path, true); err == nil {
		t.Error("l >= n accepted")
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("ORBCLOUD_ORBITAL_N", "4")
	t.Setenv("ORBCLOUD_ORBITAL_L", "3")
	t.Setenv("ORBCLOUD_OUTPUT_FORMAT", "csv")

	cfg, err := loadConfig(newViper(), "", false)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Orbital.N != 4 || cfg.Orbital.L != 3 || cfg.Output.Format != "csv" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad state", func(c *Config) { c.Orbital.M = 3 }},
		{"zero scale", func(c *Config) { c.Orbital.Scale = 0 }},
		{"low resolution", func(c *Config) { c.Orbital.Resolution = 1 }},
		{"negative grid", func(c *Config) { c.Orbital.GridLimit = -1 }},
		{"no particles", func(c *Config) { c.Sampling.Particles = 0 }},
		{"negative workers", func(c *Config) { c.Sampling.Workers = -2 }},
		{"style", func(c *Config) { c.Viewer.Style = len(shadingStyles) }},
		{"frame", func(c *Config) { c.Viewer.FrameMillis = 0 }},
		{"format", func(c *Config) { c.Output.Format = "ply" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("accepted")
			}
		})
	}
}

func TestConfigDerivedValues(t *testing.T) {
	cfg := defaultConfig()
	if got, want := cfg.Seed(), orbital.DeriveSeed(cfg.State(), cfg.Orbital.Scale, cfg.Orbital.Resolution); got != want {
		t.Errorf("seed %d, want %d", got, want)
	}
	if cfg.Workers() < 1 {
		t.Errorf("workers %d", cfg.Workers())
	}
	cfg.Sampling.Workers = 3
	if cfg.Workers() != 3 {
		t.Errorf("workers %d", cfg.Workers())
	}

	cfg.Orbital.Resolution = 200
	s, err := cfg.NewSampler()
	if err != nil {
		t.Fatal(err)
	}
	if s.GridLimit() != cfg.Orbital.GridLimit || s.Resolution() != 200 {
		t.Errorf("sampler grid %g resolution %d", s.GridLimit(), s.Resolution())
	}
}

func TestWriteDefaultConfigRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := writeDefaultConfig(&buf); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "orbcloud.yaml")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(newViper(), path, true)
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != defaultConfig() {
		t.Errorf("round trip %+v", *cfg)
	}
}

func TestSetupLogger(t *testing.T) {
	cases := []struct {
		name string
		cfg  OutputConfig
		want logrus.Level
	}{
		{"warn", OutputConfig{LogLevel: "warn"}, logrus.WarnLevel},
		{"unknown level", OutputConfig{LogLevel: "loud"}, logrus.InfoLevel},
		{"verbose without level", OutputConfig{Verbose: true}, logrus.DebugLevel},
		{"verbose over info", OutputConfig{LogLevel: "info", Verbose: true}, logrus.DebugLevel},
		{"verbose over error", OutputConfig{LogLevel: "error", Verbose: true}, logrus.DebugLevel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger, closeLog, err := setupLogger(tc.cfg)
			if err != nil {
				t.Fatal(err)
			}
			defer closeLog()
			if logger.GetLevel() != tc.want {
				t.Errorf("level %v, want %v", logger.GetLevel(), tc.want)
			}
		})
	}
}

func TestVerboseFromConfig(t *testing.T) {
	v := newViper()
	v.Set("output.verbose", true)
	cfg, err := loadConfig(v, "", false)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output.LogLevel != "info" {
		t.Fatalf("log level %q, want the default", cfg.Output.LogLevel)
	}
	logger, closeLog, err := setupLogger(cfg.Output)
	if err != nil {
		t.Fatal(err)
	}
	defer closeLog()
	if logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("verbose config gave level %v", logger.GetLevel())
	}
}

func TestSetupLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbcloud.log")
	logger, closeLog, err := setupLogger(OutputConfig{LogLevel: "info", LogFile: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hello")
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("hello")) {
		t.Errorf("log file %q", data)
	}
	if err := closeLog(); err == nil {
		t.Error("second close succeeded, file was not closed by the first")
	}

	if _, _, err := setupLogger(OutputConfig{LogFile: filepath.Join(t.TempDir(), "missing", "x.log")}); err == nil {
		t.Error("unwritable log path accepted")
	}
}
