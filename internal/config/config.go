package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"

	"github.com/atomicstack/term-sessionizer/internal/app"
	"github.com/atomicstack/term-sessionizer/internal/picker"
	"github.com/atomicstack/term-sessionizer/internal/scan"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
	// File is the config file that was read, empty when none existed.
	File string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	MinLimit = 1
	MaxLimit = 20

	DefaultPrompt = "Select repository"
)

const (
	envPrompt         = "TERM_SESSIONIZER_PROMPT"
	envMaxPredictions = "TERM_SESSIONIZER_MAX_PREDICTIONS"
	envPollInterval   = "TERM_SESSIONIZER_POLL_INTERVAL"
	envAlgorithm      = "TERM_SESSIONIZER_ALGORITHM"
	envNewTab         = "TERM_SESSIONIZER_NEW_TAB"
	envTrace          = "TERM_SESSIONIZER_TRACE"
	envLogFile        = "TERM_SESSIONIZER_LOG_FILE"
	envConfig         = "TERM_SESSIONIZER_CONFIG"
	envHistoryFile    = "TERM_SESSIONIZER_HISTORY_FILE"
)

// fileConfig mirrors config.toml. Pointers distinguish unset keys.
type fileConfig struct {
	Prompt         *string  `toml:"prompt"`
	MaxPredictions *int     `toml:"max_predictions"`
	PollInterval   *string  `toml:"poll_interval"`
	Algorithm      *string  `toml:"algorithm"`
	Ignore         []string `toml:"ignore"`
	NewTab         *bool    `toml:"new_tab"`
	HistoryFile    *string  `toml:"history_file"`
	Logging        struct {
		File  *string `toml:"file"`
		Trace *bool   `toml:"trace"`
	} `toml:"logging"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		App: app.Config{
			Root:         ".",
			Prompt:       DefaultPrompt,
			Limit:        picker.DefaultLimit,
			PollInterval: picker.DefaultPollInterval,
			Algorithm:    string(picker.AlgorithmFzf),
			Ignore:       append([]string(nil), scan.DefaultIgnore...),
		},
		Flags: map[string]string{},
	}
}

// DefaultPath is config.toml in the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ""
	}
	return filepath.Join(dir, "term-sessionizer", "config.toml")
}

// Load layers defaults, the config file and the environment.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Only --config
// is read from args; every other flag is applied later by the command line.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)
	cfg := Defaults()
	cfg.Args = append([]string(nil), args...)

	path, explicit, err := configPath(args, env)
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		found, err := applyFile(&cfg, path)
		if err != nil {
			return Config{}, err
		}
		if !found && explicit {
			return Config{}, fmt.Errorf("config file %s: %w", path, os.ErrNotExist)
		}
		if found {
			cfg.File = path
		}
	}

	applyEnv(&cfg, env)
	return cfg, nil
}

// configPath finds --config in args, then the environment, then the default
// location. explicit reports that the user named the file.
func configPath(args []string, env map[string]string) (string, bool, error) {
	fs := pflag.NewFlagSet("term-sessionizer", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.ParseErrorsAllowlist.UnknownFlags = true
	flagPath := fs.String("config", "", "")
	if err := fs.Parse(args); err != nil && !errors.Is(err, pflag.ErrHelp) {
		return "", false, err
	}
	if *flagPath != "" {
		return *flagPath, true, nil
	}
	if v := strings.TrimSpace(envOrDefault(env, envConfig, "")); v != "" {
		return v, true, nil
	}
	return DefaultPath(), false, nil
}

func applyFile(cfg *Config, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return false, fmt.Errorf("config %s: %s", path, strings.TrimSpace(strict.String()))
		}
		return false, fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.Prompt != nil {
		cfg.App.Prompt = *fc.Prompt
	}
	if fc.MaxPredictions != nil {
		cfg.App.Limit = *fc.MaxPredictions
	}
	if fc.PollInterval != nil {
		d, err := time.ParseDuration(*fc.PollInterval)
		if err != nil {
			return false, fmt.Errorf("config %s: poll_interval: %w", path, err)
		}
		cfg.App.PollInterval = d
	}
	if fc.Algorithm != nil {
		cfg.App.Algorithm = *fc.Algorithm
	}
	if fc.Ignore != nil {
		cfg.App.Ignore = fc.Ignore
	}
	if fc.NewTab != nil {
		cfg.App.NewTab = *fc.NewTab
	}
	if fc.HistoryFile != nil {
		cfg.App.HistoryFile = *fc.HistoryFile
	}
	if fc.Logging.File != nil {
		cfg.Logging.FilePath = *fc.Logging.File
	}
	if fc.Logging.Trace != nil {
		cfg.Logging.Trace = *fc.Logging.Trace
	}
	return true, nil
}

func applyEnv(cfg *Config, env map[string]string) {
	cfg.App.Prompt = envOrDefault(env, envPrompt, cfg.App.Prompt)
	cfg.App.Limit = envOrInt(env, envMaxPredictions, cfg.App.Limit)
	cfg.App.PollInterval = envOrDuration(env, envPollInterval, cfg.App.PollInterval)
	cfg.App.Algorithm = envOrDefault(env, envAlgorithm, cfg.App.Algorithm)
	cfg.App.NewTab = envOrBool(env, envNewTab, cfg.App.NewTab)
	cfg.App.HistoryFile = envOrDefault(env, envHistoryFile, cfg.App.HistoryFile)
	cfg.Logging.Trace = envOrBool(env, envTrace, cfg.Logging.Trace)
	cfg.Logging.FilePath = envOrDefault(env, envLogFile, cfg.Logging.FilePath)
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects settings the picker cannot run with.
func Validate(cfg Config) error {
	if cfg.App.Limit < MinLimit || cfg.App.Limit > MaxLimit {
		return fmt.Errorf("max predictions must be between %d and %d (got %d)", MinLimit, MaxLimit, cfg.App.Limit)
	}
	if cfg.App.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive (got %s)", cfg.App.PollInterval)
	}
	if _, err := picker.NewScorer(picker.Algorithm(cfg.App.Algorithm)); err != nil {
		return err
	}
	return nil
}
