// Package config loads simulator settings from flags, environment and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/eypacha/drawandroll/internal/bot"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DRAWANDROLL_GAMES.
const EnvPrefix = "DRAWANDROLL"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// ErrHelp is returned by Load when usage was requested.
var ErrHelp = pflag.ErrHelp

// Config is the full simulator configuration.
type Config struct {
	Games     int           `mapstructure:"games"`
	Seed      string        `mapstructure:"seed"`
	MaxTurns  int           `mapstructure:"max_turns"`
	Batch     string        `mapstructure:"batch"`
	JSON      bool          `mapstructure:"json"`
	Out       string        `mapstructure:"out"`
	Verbose   bool          `mapstructure:"verbose"`
	Workers   int           `mapstructure:"workers"`
	ReplayDir string        `mapstructure:"replay_dir"`
	Bots      BotsConfig    `mapstructure:"bots"`
	Logging   LoggingConfig `mapstructure:"log"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// BotsConfig selects the seat policies.
type BotsConfig struct {
	A      string `mapstructure:"a"`
	B      string `mapstructure:"b"`
	Rotate bool   `mapstructure:"rotate"`
}

// LoggingConfig controls the diagnostic logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"games":      "games",
	"seed":       "seed",
	"max-turns":  "max_turns",
	"batch":      "batch",
	"json":       "json",
	"out":        "out",
	"verbose":    "verbose",
	"workers":    "workers",
	"replay-dir": "replay_dir",
	"bot-a":      "bots.a",
	"bot-b":      "bots.b",
	"rotate":     "bots.rotate",
	"log-level":  "log.level",
	"log-format": "log.format",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("games", 0)
	v.SetDefault("seed", "")
	v.SetDefault("max_turns", 200)
	v.SetDefault("batch", "data/batches/batch.json")
	v.SetDefault("json", false)
	v.SetDefault("out", "")
	v.SetDefault("verbose", false)
	v.SetDefault("workers", 1)
	v.SetDefault("replay_dir", "")
	v.SetDefault("bots.a", bot.ProfileBaseline)
	v.SetDefault("bots.b", bot.ProfileBaseline)
	v.SetDefault("bots.rotate", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
}

// NewFlagSet declares the simulator's command-line flags.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.String("config", "", "path to a YAML configuration file")
	fs.IntP("games", "n", 0, "number of matches to simulate (required)")
	fs.StringP("seed", "s", "", "base seed; defaults to the current time in milliseconds")
	fs.Int("max-turns", 200, "turn cap per match")
	fs.StringP("batch", "b", "data/batches/batch.json", "card pool JSON file")
	fs.Bool("json", false, "print the full report as JSON")
	fs.StringP("out", "o", "", "write the report to a file (requires --json; .yaml/.yml writes YAML)")
	fs.BoolP("verbose", "v", false, "log a line per match")
	fs.IntP("workers", "w", 1, "matches played in parallel (0 = one per CPU)")
	fs.String("replay-dir", "", "write a replay file per match into this directory")
	fs.String("bot-a", bot.ProfileBaseline, "policy for player_a ("+strings.Join(bot.Names(), ", ")+")")
	fs.String("bot-b", bot.ProfileBaseline, "policy for player_b")
	fs.Bool("rotate", false, "cycle every ordered pair of policies across the batch")
	fs.String("log-level", "warn", "log level (debug, info, warn, error)")
	fs.String("log-format", "console", "log format (console, json)")
	return fs
}

// Load parses args, layers them over the environment, the config file and
// the defaults, and validates the result. Flags win over the environment,
// which wins over the file.
func Load(args []string, usage io.Writer) (*Config, error) {
	fs := NewFlagSet("simulate")
	if usage != nil {
		fs.SetOutput(usage)
	} else {
		fs.SetOutput(io.Discard)
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrInvalid, fs.Arg(0))
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	path, _ := fs.GetString("config")
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the simulator cannot run
// with.
func (c *Config) Validate() error {
	var errs []error
	if c.Games <= 0 {
		errs = append(errs, errors.New("--games must be a positive integer"))
	}
	if c.MaxTurns <= 0 {
		errs = append(errs, errors.New("--max-turns must be a positive integer"))
	}
	if c.Workers < 0 {
		errs = append(errs, errors.New("--workers cannot be negative"))
	}
	if c.Batch == "" {
		errs = append(errs, errors.New("--batch must name a file"))
	}
	if c.Out != "" && !c.JSON {
		errs = append(errs, errors.New("--out requires --json"))
	}
	if !c.Bots.Rotate {
		for _, name := range []string{c.Bots.A, c.Bots.B} {
			if _, err := bot.Lookup(name); err != nil {
				errs = append(errs, err)
			}
		}
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
