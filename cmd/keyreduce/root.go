package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	reducer "github.com/tphakala/go-keyframe-reducer"
)

// Set by the linker at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rawConfig holds the unvalidated settings merged by viper from the config
// file, the environment and flags.
type rawConfig struct {
	Threshold    float64 `mapstructure:"threshold"`
	DT           float64 `mapstructure:"dt"`
	Sampling     string  `mapstructure:"sampling"`
	Workers      int     `mapstructure:"workers"`
	Strict       bool    `mapstructure:"strict"`
	UnwrapRadian bool    `mapstructure:"unwrap-radian"`
	MetricsFile  string  `mapstructure:"metrics-file"`
	Color        string  `mapstructure:"color"`
	Verbose      bool    `mapstructure:"verbose"`
	CPUProfile   string  `mapstructure:"cpuprofile"`
	Mode         string  `mapstructure:"mode"`
	Render       string  `mapstructure:"render"`
}

// settings is the validated form of rawConfig.
type settings struct {
	threshold    float64
	step         float32
	sampling     reducer.Sampling
	workers      int
	strict       bool
	unwrapRadian bool
	metricsFile  string
	useColor     bool
	cpuProfile   string
	mode         reducer.Mode
	render       string
	logger       *slog.Logger
}

// process validates raw and builds settings with a logger writing to logOut.
func (raw *rawConfig) process(logOut io.Writer) (*settings, error) {
	if math.IsNaN(raw.Threshold) || raw.Threshold < 0 {
		return nil, fmt.Errorf("--threshold must be a non-negative number, got %v", raw.Threshold)
	}
	if !(raw.DT > 0) || math.IsInf(raw.DT, 0) {
		return nil, fmt.Errorf("--dt must be a positive number of seconds, got %v", raw.DT)
	}
	if raw.Workers < 0 {
		return nil, fmt.Errorf("--workers must not be negative, got %d", raw.Workers)
	}

	sampling, err := reducer.ParseSampling(raw.Sampling)
	if err != nil {
		return nil, err
	}
	useColor, err := parseColor(raw.Color)
	if err != nil {
		return nil, err
	}

	mode := reducer.DefaultMode
	if raw.Mode != "" {
		if mode, err = reducer.ParseMode(raw.Mode); err != nil {
			return nil, err
		}
	}

	level := slog.LevelInfo
	if raw.Verbose {
		level = slog.LevelDebug
	}

	return &settings{
		threshold:    raw.Threshold,
		step:         float32(raw.DT),
		sampling:     sampling,
		workers:      raw.Workers,
		strict:       raw.Strict,
		unwrapRadian: raw.UnwrapRadian,
		metricsFile:  raw.MetricsFile,
		useColor:     useColor,
		cpuProfile:   raw.CPUProfile,
		mode:         mode,
		render:       raw.Render,
		logger:       slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level})),
	}, nil
}

// config returns the reducer configuration for one channel.
func (s *settings) config(mode reducer.Mode, channel string) reducer.Config {
	return reducer.Config{
		Threshold:    s.threshold,
		Mode:         mode,
		UnwrapRadian: s.unwrapRadian,
		Strict:       s.strict,
		Logger:       s.logger.With(slog.String("channel", channel)),
	}
}

// parseColor accepts yes/no in addition to strconv.ParseBool forms.
func parseColor(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("--color must be yes or no, got %q", v)
	}
	return b, nil
}

var rootCmd = &cobra.Command{
	Use:           "keyreduce",
	Short:         "Reduce dense animation curves to sparse Hermite keyframes.",
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(clipCmd)
	rootCmd.AddCommand(wavCmd)
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.Float64("threshold", reducer.DefaultThreshold, "Residual tolerance per window (sum of squared errors)")
	flags.Float64("dt", float64(reducer.DefaultStep), "Sampling step in seconds")
	flags.String("sampling", string(reducer.SamplingFixed), "Sampling policy: fixed or adaptive")
	flags.Int("workers", 0, "Channels reduced concurrently (0 = number of CPUs)")
	flags.Bool("strict", false, "Fail a channel on a corrupt segment instead of skipping the key")
	flags.Bool("unwrap-radian", false, "Unwrap radian channels modulo 2π")
	flags.String("metrics-file", "", "Write Prometheus metrics of the run to this textfile")
	flags.String("color", "yes", "Colour the summary table (yes/no)")
	flags.BoolP("verbose", "v", false, "Debug logging")
	flags.String("cpuprofile", "", "Write a CPU profile to this file")
	flags.String("config", "", "Path to config file")
	if err := viper.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("binding root flags: %v", err))
	}

	wavCmd.Flags().String("mode", reducer.DefaultMode.String(), "Mode for every WAV channel: discrete, linear, smooth, degree or radian")
	wavCmd.Flags().String("render", "", "Render the reduced curves to this WAV file")
	if err := viper.BindPFlags(wavCmd.Flags()); err != nil {
		panic(fmt.Sprintf("binding wav flags: %v", err))
	}
}

// initConfig points viper at the config file and environment.
func initConfig() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".keyreduce")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("KEYREDUCE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// loadSettings merges config file, environment and flags and validates them.
func loadSettings(logOut io.Writer) (*settings, error) {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var raw rawConfig
	if err := viper.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return raw.process(logOut)
}

// withSettings wraps a subcommand body with settings loading and optional
// CPU profiling.
func withSettings(ctx context.Context, body func(context.Context, *settings) error) error {
	s, err := loadSettings(os.Stderr)
	if err != nil {
		return err
	}
	if s.cpuProfile == "" {
		return body(ctx, s)
	}

	f, err := os.Create(s.cpuProfile)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("could not start CPU profile: %w", err)
	}
	defer func() {
		pprof.StopCPUProfile()
		_ = f.Close()
	}()
	return body(ctx, s)
}

func execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
