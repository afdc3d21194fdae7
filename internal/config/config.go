package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ANALYZER_LOG_LEVEL.
const EnvPrefix = "ANALYZER"

// Config holds analyzer runtime options.
type Config struct {
	InputPath    string        `mapstructure:"input"`
	OutputPath   string        `mapstructure:"output"` // path, s3://bucket/key or http(s) URL
	Level        string        `mapstructure:"level"`  // optional filter: ERROR|WARNING|INFO
	Encoding     string        `mapstructure:"encoding"`
	DecodeErrors string        `mapstructure:"decode_errors"` // ignore|replace|strict
	Log          LogConfig     `mapstructure:"log"`
	Metrics      MetricsConfig `mapstructure:"metrics"`
	Sink         SinkConfig    `mapstructure:"sink"`
	S3           S3Config      `mapstructure:"s3"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	File   string `mapstructure:"file"`   // empty logs to stderr
}

type MetricsConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Addr    string        `mapstructure:"addr"`
	Linger  time.Duration `mapstructure:"linger"` // how long /metrics stays up after the run
}

// SinkConfig tunes delivery to remote report destinations.
type SinkConfig struct {
	MaxRetries  int           `mapstructure:"max_retries"`
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}

type S3Config struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		InputPath:    "sample.log",
		OutputPath:   "report.json",
		Encoding:     "utf-8",
		DecodeErrors: "ignore",
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Addr:   ":8000",
			Linger: 30 * time.Second,
		},
		Sink: SinkConfig{
			MaxRetries:  3,
			BackoffBase: 100 * time.Millisecond,
		},
	}
}

// SetDefaults registers every key of Default on v so env overrides and
// Unmarshal see the full key set.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("input", d.InputPath)
	v.SetDefault("output", d.OutputPath)
	v.SetDefault("level", d.Level)
	v.SetDefault("encoding", d.Encoding)
	v.SetDefault("decode_errors", d.DecodeErrors)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
	v.SetDefault("metrics.linger", d.Metrics.Linger)

	v.SetDefault("sink.max_retries", d.Sink.MaxRetries)
	v.SetDefault("sink.backoff_base", d.Sink.BackoffBase)

	v.SetDefault("s3.region", d.S3.Region)
	v.SetDefault("s3.endpoint", d.S3.Endpoint)
	v.SetDefault("s3.access_key_id", d.S3.AccessKeyID)
	v.SetDefault("s3.secret_access_key", d.S3.SecretAccessKey)
	v.SetDefault("s3.use_path_style", d.S3.UsePathStyle)
}

// Load resolves the configuration from defaults, an optional YAML or JSON
// file, ANALYZER_* environment variables and any flags already bound on v,
// in increasing order of precedence. An empty cfgFile falls back to
// ANALYZER_CONFIG.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		cfgFile = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// LoadEnvFiles loads .env, .env.<ANALYZER_ENV> and .env.local from dir when
// present. Variables already set in the process environment win over .env;
// the environment-specific and local files override it.
func LoadEnvFiles(dir string) error {
	base := filepath.Join(dir, ".env")
	if fileExists(base) {
		if err := godotenv.Load(base); err != nil {
			return fmt.Errorf("load %s: %w", base, err)
		}
	}

	if env := os.Getenv(EnvPrefix + "_ENV"); env != "" {
		envFile := filepath.Join(dir, ".env."+env)
		if fileExists(envFile) {
			if err := godotenv.Overload(envFile); err != nil {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
		}
	}

	local := filepath.Join(dir, ".env.local")
	if fileExists(local) {
		if err := godotenv.Overload(local); err != nil {
			return fmt.Errorf("load %s: %w", local, err)
		}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Validate checks the configuration for common misconfigurations and returns
// an error describing all issues found.
func Validate(cfg Config) error {
	var errs []string

	if strings.TrimSpace(cfg.InputPath) == "" {
		errs = append(errs, "input path is required")
	}
	if strings.TrimSpace(cfg.OutputPath) == "" {
		errs = append(errs, "output path is required")
	}

	validLevels := map[string]bool{"": true, "error": true, "warning": true, "info": true}
	if !validLevels[strings.ToLower(strings.TrimSpace(cfg.Level))] {
		errs = append(errs, fmt.Sprintf("invalid level %q: must be ERROR, WARNING, or INFO", cfg.Level))
	}

	validDecode := map[string]bool{"": true, "ignore": true, "replace": true, "strict": true}
	if !validDecode[strings.ToLower(cfg.DecodeErrors)] {
		errs = append(errs, fmt.Sprintf("invalid decode_errors %q: must be ignore, replace, or strict", cfg.DecodeErrors))
	}

	if strings.HasPrefix(strings.ToLower(cfg.OutputPath), "s3://") {
		rest := cfg.OutputPath[len("s3://"):]
		if i := strings.Index(rest, "/"); i <= 0 || i == len(rest)-1 {
			errs = append(errs, fmt.Sprintf("s3 output %q must look like s3://bucket/key", cfg.OutputPath))
		}
	}

	if cfg.Sink.MaxRetries < 0 {
		errs = append(errs, fmt.Sprintf("sink.max_retries cannot be negative: %d", cfg.Sink.MaxRetries))
	}
	if cfg.Sink.BackoffBase < 0 {
		errs = append(errs, fmt.Sprintf("sink.backoff_base cannot be negative: %s", cfg.Sink.BackoffBase))
	}

	if cfg.Metrics.Enabled && strings.TrimSpace(cfg.Metrics.Addr) == "" {
		errs = append(errs, "metrics.addr is required when metrics are enabled")
	}
	if cfg.Metrics.Linger < 0 {
		errs = append(errs, fmt.Sprintf("metrics.linger cannot be negative: %s", cfg.Metrics.Linger))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Log.Level != "" && !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		errs = append(errs, fmt.Sprintf("invalid log.level %q: must be debug, info, warn, or error", cfg.Log.Level))
	}

	validLogFormats := map[string]bool{"json": true, "console": true}
	if cfg.Log.Format != "" && !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		errs = append(errs, fmt.Sprintf("invalid log.format %q: must be json or console", cfg.Log.Format))
	}

	if len(errs) > 0 {
		return errors.New("configuration validation failed:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}
