package refine

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config manages refinement configuration using Viper.
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration with defaults.
func NewConfig() *Config {
	v := viper.New()

	// Algorithm parameters
	v.SetDefault("refine.diff_threshold", 0.1)
	v.SetDefault("refine.max_iteration", 100)
	v.SetDefault("refine.weight_by_length", false)

	// Performance parameters
	v.SetDefault("performance.num_workers", runtime.NumCPU())

	// Logging parameters
	v.SetDefault("logging.level", "info")

	// Output parameters
	v.SetDefault("output.prefix", "")
	v.SetDefault("output.delimiter", ",")

	return &Config{v: v}
}

// LoadFromFile loads configuration from file.
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

func (c *Config) DiffThreshold() float64 { return c.v.GetFloat64("refine.diff_threshold") }
func (c *Config) MaxIteration() int      { return c.v.GetInt("refine.max_iteration") }
func (c *Config) WeightByLength() bool   { return c.v.GetBool("refine.weight_by_length") }
func (c *Config) NumWorkers() int        { return c.v.GetInt("performance.num_workers") }
func (c *Config) LogLevel() string       { return c.v.GetString("logging.level") }
func (c *Config) OutputPrefix() string   { return c.v.GetString("output.prefix") }
func (c *Config) Delimiter() string      { return c.v.GetString("output.delimiter") }

// Set allows dynamic configuration changes.
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// Options materializes engine options from the configuration.
func (c *Config) Options() Options {
	opts := DefaultOptions()
	opts.DiffThreshold = c.DiffThreshold()
	opts.MaxIteration = c.MaxIteration()
	opts.WeightByLength = c.WeightByLength()
	opts.NumWorkers = c.NumWorkers()
	opts.Logger = c.CreateLogger()
	return opts
}

// CreateLogger creates a zerolog logger based on config.
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "refine").Logger()
}
