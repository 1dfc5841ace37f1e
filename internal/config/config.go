// Package config loads lexiq settings from defaults, an optional YAML file
// and LEXIQ_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/abhisek/lexiq/internal/quiz"
)

// EnvPrefix prefixes every environment variable lexiq reads.
const EnvPrefix = "LEXIQ"

// Keys.
const (
	KeyDB                = "db"
	KeyLogLevel          = "log.level"
	KeyLogFile           = "log.file"
	KeyMaxBufferSize     = "quiz.max_buffer_size"
	KeyAcceptThreshold   = "quiz.accept_threshold"
	KeyDefaultCount      = "quiz.default_count"
	KeyReserveWholeBatch = "quiz.reserve_whole_batch"
)

// Config holds the resolved settings.
type Config struct {
	DB   string     `mapstructure:"db"`
	Log  LogConfig  `mapstructure:"log"`
	Quiz QuizConfig `mapstructure:"quiz"`

	// File is the config file that was read, or "" if none was found.
	File string `mapstructure:"-"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// QuizConfig holds the scheduler settings.
type QuizConfig struct {
	MaxBufferSize     int     `mapstructure:"max_buffer_size"`
	AcceptThreshold   float64 `mapstructure:"accept_threshold"`
	DefaultCount      int     `mapstructure:"default_count"`
	ReserveWholeBatch bool    `mapstructure:"reserve_whole_batch"`
}

// Scheduler converts the quiz settings for the quiz package.
func (q QuizConfig) Scheduler() quiz.Config {
	return quiz.Config{
		MaxBufferSize:     q.MaxBufferSize,
		AcceptThreshold:   q.AcceptThreshold,
		ReserveWholeBatch: q.ReserveWholeBatch,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDB, "")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyMaxBufferSize, quiz.DefaultMaxBufferSize)
	v.SetDefault(KeyAcceptThreshold, quiz.DefaultAcceptThreshold)
	v.SetDefault(KeyDefaultCount, 10)
	v.SetDefault(KeyReserveWholeBatch, false)
}

// Load reads the configuration. An explicit path must exist; otherwise
// config.yaml is looked up in the user config directory and is optional.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the scheduler cannot run with.
func (c *Config) Validate() error {
	if c.Quiz.MaxBufferSize <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyMaxBufferSize, c.Quiz.MaxBufferSize)
	}
	if c.Quiz.AcceptThreshold < 0 || c.Quiz.AcceptThreshold > 1 {
		return fmt.Errorf("%s must be within [0,1], got %g", KeyAcceptThreshold, c.Quiz.AcceptThreshold)
	}
	if c.Quiz.DefaultCount < 0 {
		return fmt.Errorf("%s must not be negative, got %d", KeyDefaultCount, c.Quiz.DefaultCount)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Dir returns the directory holding config.yaml:
// $XDG_CONFIG_HOME/lexiq, falling back to ~/.config/lexiq.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lexiq"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "lexiq"), nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%s: unknown level %q", KeyLogLevel, s)
	}
	return l, nil
}
