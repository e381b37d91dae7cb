// Package config loads gitwatch configuration via viper.
//
// Precedence, highest first: command-line flags, GITWATCH_* environment
// variables, a .gitwatch.toml file in the watched repository, built-in
// defaults. Flag binding happens in the cmd layer; this package owns
// defaults, file discovery, and unmarshaling.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mschirtzinger/gitwatch/internal/autosync"
	"github.com/mschirtzinger/gitwatch/internal/vcs"
	"github.com/mschirtzinger/gitwatch/internal/watch"
)

// FileName is the per-repository config file read from the watch path.
const FileName = ".gitwatch.toml"

// EnvPrefix is the environment variable prefix (GITWATCH_REMOTE etc.).
const EnvPrefix = "GITWATCH"

// Config holds the resolved gitwatch settings.
type Config struct {
	// Path is the repository path to watch
	Path string `mapstructure:"path"`

	// Remote is the push remote name
	Remote string `mapstructure:"remote"`

	// Branch is the push branch; empty resolves to the current branch
	Branch string `mapstructure:"branch"`

	// Debounce is the quiet period before a sync starts
	Debounce time.Duration `mapstructure:"debounce"`

	// Push enables the push step
	Push bool `mapstructure:"push"`

	// Ignore holds path substrings to skip
	Ignore []string `mapstructure:"ignore"`

	// Message is the commit message template ({ts} placeholder)
	Message string `mapstructure:"message"`

	// LogFile, when set, tees logs to a rotating file
	LogFile string `mapstructure:"log_file"`

	// Listen, when set, enables the dashboard on this address
	Listen string `mapstructure:"listen"`

	// AIMessage enables AI-generated commit messages
	AIMessage bool `mapstructure:"ai_message"`

	// AIModel selects the model for AI-generated messages
	AIModel string `mapstructure:"ai_model"`
}

// New returns a viper instance with gitwatch defaults and environment
// binding applied. The cmd layer binds flags onto it before Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("path", ".")
	v.SetDefault("remote", vcs.DefaultRemote)
	v.SetDefault("branch", "")
	v.SetDefault("debounce", watch.DefaultDebounce)
	v.SetDefault("push", true)
	v.SetDefault("ignore", []string{})
	v.SetDefault("message", autosync.DefaultTemplate)
	v.SetDefault("log_file", "")
	v.SetDefault("listen", "")
	v.SetDefault("ai_message", false)
	v.SetDefault("ai_model", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the repository config file (if present) and unmarshals
// the merged settings. path is the watch target; a missing config file
// is not an error, a malformed one is.
func Load(v *viper.Viper, path string) (*Config, error) {
	v.SetConfigFile(filepath.Join(path, FileName))
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if cfg.Path == "" {
		cfg.Path = "."
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = watch.DefaultDebounce
	}

	return &cfg, nil
}

// Save writes the given settings to a config file at path (a
// directory). Used by gitwatch init.
func Save(path string, cfg *Config) (string, error) {
	v := viper.New()
	v.SetConfigType("toml")

	v.Set("remote", cfg.Remote)
	v.Set("branch", cfg.Branch)
	v.Set("debounce", cfg.Debounce.String())
	v.Set("push", cfg.Push)
	v.Set("ignore", cfg.Ignore)
	v.Set("message", cfg.Message)
	if cfg.LogFile != "" {
		v.Set("log_file", cfg.LogFile)
	}
	if cfg.Listen != "" {
		v.Set("listen", cfg.Listen)
	}
	if cfg.AIMessage {
		v.Set("ai_message", true)
	}
	if cfg.AIModel != "" {
		v.Set("ai_model", cfg.AIModel)
	}

	file := filepath.Join(path, FileName)
	if err := v.WriteConfigAs(file); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return file, nil
}
