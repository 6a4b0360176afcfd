package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"airport-simulator/internal/game/conflict"
	"airport-simulator/internal/logging"
	"airport-simulator/pkg/types"

	"github.com/joho/godotenv"
)

// Config holds the simulator settings. Values come from the environment
// (optionally seeded from a .env file) and are overridden by command-line
// flags.
type Config struct {
	AirportFile string
	TrafficFile string

	Separation float64 // metres
	HorizonS   int     // seconds
	StartTime  string  // HH:MM:SS, empty for noon

	ListenAddr string // HTTP API, disabled when empty
	Steps      int    // batch mode when > 0

	Log logging.Config
}

// Getenv returns the value of key, or def when it is unset or empty.
func Getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// LoadEnvFile loads path into the environment if it exists. Variables that
// are already set win over the file.
func LoadEnvFile(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("loading %s: %w", path, err)
	}
	return true, nil
}

// FromEnv builds a configuration from the environment and the built-in
// defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		AirportFile: Getenv("AIRPORT_FILE", "data/demo_map.txt"),
		TrafficFile: Getenv("TRAFFIC_FILE", "data/demo_flights.txt"),
		StartTime:   Getenv("START_TIME", ""),
		ListenAddr:  Getenv("LISTEN_ADDR", ""),
		Log: logging.Config{
			Level: Getenv("LOG_LEVEL", "info"),
			File:  Getenv("LOG_FILE", ""),
		},
	}

	var err error
	if cfg.Separation, err = strconv.ParseFloat(Getenv("SEPARATION_M", strconv.FormatFloat(conflict.MIN_SEPARATION, 'f', -1, 64)), 64); err != nil {
		return nil, fmt.Errorf("SEPARATION_M: %w", err)
	}
	if cfg.HorizonS, err = strconv.Atoi(Getenv("HORIZON_S", strconv.Itoa(int(conflict.ANTICIPATION_DT)*types.STEP))); err != nil {
		return nil, fmt.Errorf("HORIZON_S: %w", err)
	}
	if cfg.Steps, err = strconv.Atoi(Getenv("STEPS", "0")); err != nil {
		return nil, fmt.Errorf("STEPS: %w", err)
	}
	return cfg, nil
}

// RegisterFlags binds every setting to fs, using the current values as
// defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.AirportFile, "airport", c.AirportFile, "airport description file")
	fs.StringVar(&c.TrafficFile, "traffic", c.TrafficFile, "traffic sample file")
	fs.Float64Var(&c.Separation, "sep", c.Separation, "minimum separation between flights, in metres")
	fs.IntVar(&c.HorizonS, "horizon", c.HorizonS, "conflict anticipation horizon, in seconds")
	fs.StringVar(&c.StartTime, "start", c.StartTime, "initial time of day, HH:MM:SS (default noon)")
	fs.StringVar(&c.ListenAddr, "listen", c.ListenAddr, "serve the HTTP API on this address")
	fs.IntVar(&c.Steps, "steps", c.Steps, "run this many steps in batch mode instead of the console")
	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "log level: debug, info, warn, error or off")
	fs.StringVar(&c.Log.File, "log-file", c.Log.File, "also write logs to this rotated file")
}

// Load reads envFile when present, then the environment, then args.
func Load(envFile string, args []string, output io.Writer) (*Config, error) {
	if envFile != "" {
		if _, err := LoadEnvFile(envFile); err != nil {
			return nil, err
		}
	}
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("airport-simulator", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments %q", fs.Args())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.AirportFile == "" {
		errs = append(errs, errors.New("airport file is required"))
	}
	if c.TrafficFile == "" {
		errs = append(errs, errors.New("traffic file is required"))
	}
	if c.Separation <= 0 {
		errs = append(errs, fmt.Errorf("separation must be positive, got %v", c.Separation))
	}
	if c.HorizonS < 0 {
		errs = append(errs, fmt.Errorf("horizon must not be negative, got %d", c.HorizonS))
	}
	if c.Steps < 0 {
		errs = append(errs, fmt.Errorf("steps must not be negative, got %d", c.Steps))
	}
	if _, err := c.StartStep(); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// StartStep is the initial cursor.
func (c *Config) StartStep() (types.TimeStep, error) {
	if c.StartTime == "" {
		return types.DAY / 2, nil
	}
	t, err := types.ParseHMS(c.StartTime)
	if err != nil {
		return 0, fmt.Errorf("start time: %w", err)
	}
	return t, nil
}

func (c *Config) ConflictConfig() conflict.Config {
	return conflict.Config{
		Separation: c.Separation,
		Horizon:    types.StepFromSeconds(c.HorizonS),
	}
}
