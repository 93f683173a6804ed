// main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"orbcloud/orbital"
)

var (
	cfgViper   = newViper()
	configPath string
	randomSeed bool
	statsBins  int
	benchCount int
	forceInit  bool
)

var rootCmd = &cobra.Command{
	Use:   "orbcloud",
	Short: "Hydrogen orbital point clouds",
	Long: `orbcloud samples particle positions from hydrogen-like orbital probability
densities by inverse transform sampling over tabulated radial, polar and
azimuthal distributions. Clouds can be viewed in the terminal, exported or
summarised.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Render an orbital cloud in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closeLog, err := prepare(cmd)
		if err != nil {
			return err
		}
		defer closeLog()
		if cfg.Output.LogFile == "" {
			// The screen owns the terminal while the viewer runs.
			logger.SetOutput(io.Discard)
		}
		log := logger.WithField("cmd", "view")

		sampler, err := cfg.NewSampler(orbital.WithLogger(log))
		if err != nil {
			return err
		}
		renderer, err := NewCloudRenderer(cmd.Context(), sampler, cfg, log)
		if err != nil {
			return err
		}

		s, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("screen init failed: %w", err)
		}
		if err := s.Init(); err != nil {
			return fmt.Errorf("screen start failed: %w", err)
		}
		defer s.Fini()

		frame := time.Duration(cfg.Viewer.FrameMillis) * time.Millisecond
		return runViewer(cmd.Context(), s, renderer, frame)
	},
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate a cloud and export it as JSON, CSV or YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closeLog, err := prepare(cmd)
		if err != nil {
			return err
		}
		defer closeLog()
		log := logger.WithField("cmd", "sample")

		sampler, err := cfg.NewSampler(orbital.WithLogger(log))
		if err != nil {
			return err
		}

		seed := cfg.Seed()
		start := time.Now()
		ps, err := orbital.Generate(cmd.Context(), sampler, cfg.Sampling.Particles, cfg.Workers(), seed)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"state":     cfg.State().String(),
			"particles": len(ps),
			"seed":      seed,
			"elapsed":   time.Since(start),
		}).Info("cloud generated")

		format, err := orbital.ParseFormat(cfg.Output.Format)
		if err != nil {
			return err
		}
		path := cfg.Output.Path
		if path != "-" && path != "" && !cmd.Flags().Changed("format") {
			if f, err := orbital.ParseFormat(path); err == nil {
				format = f
			}
		}

		export := orbital.NewCloudExport(sampler, seed, ps)
		if err := writeCloud(cmd.OutOrStdout(), path, format, export); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"id": export.ID, "format": format, "path": path}).Info("cloud exported")
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Sample a cloud and compare it with the analytic radial distribution",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closeLog, err := prepare(cmd)
		if err != nil {
			return err
		}
		defer closeLog()
		sampler, err := cfg.NewSampler(orbital.WithLogger(logger.WithField("cmd", "stats")))
		if err != nil {
			return err
		}
		seed := cfg.Seed()
		ps, err := orbital.Generate(cmd.Context(), sampler, cfg.Sampling.Particles, cfg.Workers(), seed)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderReport(sampler, ps, seed, statsBins))
		return nil
	},
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time distribution builds and sampling for a set of orbitals",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, closeLog, err := prepare(cmd)
		if err != nil {
			return err
		}
		defer closeLog()
		states := []orbital.State{
			{N: 1, L: 0, M: 0},
			{N: 2, L: 1, M: 0},
			{N: 3, L: 2, M: 1},
			{N: 4, L: 3, M: -2},
			cfg.State(),
		}
		results, err := orbital.BenchmarkSampler(states, cfg.Orbital.Scale, cfg.Orbital.Resolution, benchCount)
		if err != nil {
			return err
		}
		orbital.PrintBenchmarkResults(cmd.OutOrStdout(), results)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultConfigFile
		if len(args) == 1 {
			path = args[0]
		}
		if path == "-" {
			return writeDefaultConfig(cmd.OutOrStdout())
		}

		if err := writeConfigFile(path, forceInit); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()

	// Configuration flags
	pf.StringVar(&configPath, "config", defaultConfigFile, "Configuration file path")

	// Orbital flags
	pf.IntP("principal", "n", 0, "Principal quantum number n")
	pf.IntP("angular", "l", 0, "Azimuthal quantum number l")
	pf.IntP("magnetic", "m", 0, "Magnetic quantum number m")
	pf.Float64("scale", 0, "Bohr radius scale factor")
	pf.Int("resolution", 0, "Grid points per axis")
	pf.Float64("grid-limit", 0, "Radial grid span")

	// Sampling flags
	pf.Int("particles", 0, "Number of particles")
	pf.Int("workers", 0, "Sampling workers (0 = one per CPU)")
	pf.Uint64("seed", 0, "Random seed (0 = derive from orbital)")
	pf.BoolVar(&randomSeed, "random-seed", false, "Use a fresh random seed")

	// Output flags
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.Bool("verbose", false, "Verbose output")
	pf.String("log-file", "", "Write logs to this file")

	viewCmd.Flags().Int("style", 0, "Initial shading style")
	viewCmd.Flags().Bool("auto-rotate", true, "Start with auto-rotation enabled")
	viewCmd.Flags().Int("frame-ms", 0, "Frame interval in milliseconds")

	sampleCmd.Flags().StringP("format", "f", "", "Export format: json, csv, yaml")
	sampleCmd.Flags().StringP("output", "o", "", "Output path (- for stdout)")

	statsCmd.Flags().IntVar(&statsBins, "bins", 40, "Radial histogram bins")
	benchCmd.Flags().IntVar(&benchCount, "samples", 10000, "Samples per orbital")
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing file")

	// Bind flags to viper
	binds := map[string]struct {
		cmd  *cobra.Command
		flag string
	}{
		"orbital.n":           {rootCmd, "principal"},
		"orbital.l":           {rootCmd, "angular"},
		"orbital.m":           {rootCmd, "magnetic"},
		"orbital.scale":       {rootCmd, "scale"},
		"orbital.resolution":  {rootCmd, "resolution"},
		"orbital.grid_limit":  {rootCmd, "grid-limit"},
		"sampling.particles":  {rootCmd, "particles"},
		"sampling.workers":    {rootCmd, "workers"},
		"sampling.seed":       {rootCmd, "seed"},
		"output.log_level":    {rootCmd, "log-level"},
		"output.verbose":      {rootCmd, "verbose"},
		"output.log_file":     {rootCmd, "log-file"},
		"viewer.style":        {viewCmd, "style"},
		"viewer.auto_rotate":  {viewCmd, "auto-rotate"},
		"viewer.frame_millis": {viewCmd, "frame-ms"},
		"output.format":       {sampleCmd, "format"},
		"output.path":         {sampleCmd, "output"},
	}
	for key, b := range binds {
		fl := b.cmd.PersistentFlags().Lookup(b.flag)
		if fl == nil {
			fl = b.cmd.Flags().Lookup(b.flag)
		}
		if err := cfgViper.BindPFlag(key, fl); err != nil {
			panic(fmt.Sprintf("bind %s: %v", key, err))
		}
	}

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(viewCmd, sampleCmd, statsCmd, benchCmd, configCmd)
}

// writeCloud exports c to stdout for an empty or "-" path, otherwise to the
// file at path. A failed close is reported since it can lose buffered data.
func writeCloud(stdout io.Writer, path string, f orbital.Format, c *orbital.CloudExport) (err error) {
	if path == "" || path == "-" {
		return c.Write(stdout, f)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}
	}()
	return c.Write(out, f)
}

// writeConfigFile writes the default configuration to path, refusing to
// replace an existing file unless force is set.
func writeConfigFile(path string, force bool) (err error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close config: %w", cerr)
		}
	}()
	return writeDefaultConfig(f)
}

// prepare loads configuration and logging for a subcommand. The caller must
// call the returned close function when the command finishes.
func prepare(cmd *cobra.Command) (*Config, *logrus.Logger, func() error, error) {
	cfg, err := loadConfig(cfgViper, configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, nil, nil, err
	}
	if randomSeed {
		seed, err := orbital.RandomSeed()
		if err != nil {
			return nil, nil, nil, err
		}
		cfg.Sampling.Seed = seed
	}
	logger, closeLog, err := setupLogger(cfg.Output)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.WithFields(logrus.Fields{
		"state":      cfg.State().String(),
		"scale":      cfg.Orbital.Scale,
		"resolution": cfg.Orbital.Resolution,
		"config":     cfgViper.ConfigFileUsed(),
	}).Debug("configuration loaded")
	return cfg, logger, closeLog, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
