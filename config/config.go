package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/aedificium/oracle"
	"github.com/katalvlaran/aedificium/solve"
	"github.com/katalvlaran/aedificium/walk"
)

// Environment variables read by Load.
const (
	EnvURL      = "AEDIFICIUM_URL"
	EnvID       = "AEDIFICIUM_ID"
	EnvEngine   = "AEDIFICIUM_ENGINE"
	EnvLogLevel = "AEDIFICIUM_LOG_LEVEL"
	EnvSeed     = "AEDIFICIUM_SEED"
)

// Config is the complete configuration.
type Config struct {
	Oracle   OracleConfig  `yaml:"oracle"`
	Problem  string        `yaml:"problem" validate:"required"`
	Engine   string        `yaml:"engine" validate:"oneof=auto merge exhaustive"`
	Attempts int           `yaml:"attempts" validate:"min=1"`
	Plans    PlansConfig   `yaml:"plans"`
	Search   SearchConfig  `yaml:"search"`
	Archive  ArchiveConfig `yaml:"archive"`
	Serve    ServeConfig   `yaml:"serve"`
	Log      LogConfig     `yaml:"log"`
}

// OracleConfig locates the remote oracle.
type OracleConfig struct {
	URL     string        `yaml:"url" validate:"required,url"`
	ID      string        `yaml:"id"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
	Retries int           `yaml:"retries" validate:"min=1"`
}

// PlansConfig drives magic plan generation and the fingerprint stage.
type PlansConfig struct {
	Count        int   `yaml:"count" validate:"min=1"`
	MagicLen     int   `yaml:"magic_len" validate:"min=1"`
	MaxPadding   int   `yaml:"max_padding" validate:"min=2"`
	Seed         int64 `yaml:"seed"`
	SharedMagic  bool  `yaml:"shared_magic"`
	Fingerprints int   `yaml:"fingerprints" validate:"min=0,max=6"`
	Rounds       int   `yaml:"rounds" validate:"min=0"`
}

// SearchConfig tunes the engines.
type SearchConfig struct {
	MaxSteps       int  `yaml:"max_steps" validate:"min=0"`
	EagerThreshold int  `yaml:"eager_threshold" validate:"min=-1"`
	MinPatternLen  int  `yaml:"min_pattern_len" validate:"min=1"`
	Closure        bool `yaml:"closure"`
}

// ArchiveConfig locates the SQLite archive; an empty path disables it.
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// ServeConfig configures the simulated oracle server.
type ServeConfig struct {
	Addr string `yaml:"addr" validate:"required,hostname_port"`
	Seed int64  `yaml:"seed"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Oracle: OracleConfig{
			URL:     "https://31pwr5t6ij.execute-api.eu-west-2.amazonaws.com",
			Timeout: oracle.DefaultTimeout,
			Retries: oracle.DefaultRetries,
		},
		Problem:  "probatio",
		Engine:   solve.EngineAuto.String(),
		Attempts: solve.DefaultMaxAttempts,
		Plans: PlansConfig{
			Count:        solve.DefaultPlanCount,
			MagicLen:     walk.DefaultMagicLen,
			MaxPadding:   walk.DefaultMaxPadding,
			Fingerprints: solve.DefaultFingerprints,
			Rounds:       solve.DefaultRounds,
		},
		Search: SearchConfig{
			EagerThreshold: -1,
			MinPatternLen:  walk.DefaultMagicLen,
		},
		Serve: ServeConfig{Addr: "127.0.0.1:8080"},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

var validate = validator.New()

// Load reads path (when non-empty) over Default, applies the environment and
// validates.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks every field constraint.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvURL); v != "" {
		c.Oracle.URL = v
	}
	if v := os.Getenv(EnvID); v != "" {
		c.Oracle.ID = v
	}
	if v := os.Getenv(EnvEngine); v != "" {
		c.Engine = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvSeed, v, err)
		}
		c.Plans.Seed = seed
	}

	return nil
}

// SolveOptions converts the configuration into solve options.
func (c *Config) SolveOptions() ([]solve.Option, error) {
	e, err := solve.ParseEngine(c.Engine)
	if err != nil {
		return nil, err
	}

	return []solve.Option{
		solve.WithEngine(e),
		solve.WithMaxAttempts(c.Attempts),
		solve.WithPlanCount(c.Plans.Count),
		solve.WithMagicLen(c.Plans.MagicLen),
		solve.WithMaxPadding(c.Plans.MaxPadding),
		solve.WithSeed(c.Plans.Seed),
		solve.WithSharedMagic(c.Plans.SharedMagic),
		solve.WithFingerprints(c.Plans.Fingerprints),
		solve.WithRounds(c.Plans.Rounds),
		solve.WithMaxSteps(c.Search.MaxSteps),
		solve.WithEagerThreshold(c.Search.EagerThreshold),
		solve.WithMinPatternLen(c.Search.MinPatternLen),
		solve.WithClosure(c.Search.Closure),
	}, nil
}

// ClientOptions converts the oracle section into client options.
func (c *Config) ClientOptions(l *slog.Logger) []oracle.ClientOption {
	return []oracle.ClientOption{
		oracle.WithTimeout(c.Oracle.Timeout),
		oracle.WithRetries(c.Oracle.Retries),
		oracle.WithClientLogger(l),
	}
}

// Logger builds the configured handler over w.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return nil, fmt.Errorf("config: log level: %w", err)
	}
	hopts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	}

	return slog.New(slog.NewTextHandler(w, hopts)), nil
}
