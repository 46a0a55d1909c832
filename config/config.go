// Package config loads linkprobe settings from defaults, an optional config
// file, a .env file, LINKPROBE_* environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lukemcguire/linkprobe/checker"
	"github.com/lukemcguire/linkprobe/suggest"
)

// EnvPrefix prefixes every environment variable read by linkprobe.
const EnvPrefix = "LINKPROBE"

// Output formats for the console listing.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ErrInvalid is returned for settings that fail validation.
var ErrInvalid = errors.New("invalid configuration")

// Config is the validated configuration of one run.
type Config struct {
	URL           string
	UserAgent     string
	Accept        string
	FetchTimeout  time.Duration
	Timeout       time.Duration
	RateLimit     float64
	OutputDir     string
	Format        string
	Plain         bool
	RespectRobots bool
	StrictHosts   bool
	FailOnInvalid bool
	Log           LogConfig
	Suggest       SuggestConfig
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string
	File  string
}

// SuggestConfig configures the optional replacement suggestions.
type SuggestConfig struct {
	Enabled   bool
	Model     string
	MaxTokens int64
	APIKey    string
}

// LoadEnvFile loads .env from the working directory. A missing file is not
// an error; variables already set in the environment win.
func LoadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// The API key keeps the provider's conventional variable name.
	_ = v.BindEnv("suggest.api_key", EnvPrefix+"_SUGGEST_API_KEY", "ANTHROPIC_API_KEY")
	return v
}

func setDefaults(v *viper.Viper) {
	defaults := checker.DefaultConfig("")

	v.SetDefault("url", "")
	v.SetDefault("user_agent", defaults.UserAgent)
	v.SetDefault("accept", defaults.Accept)
	v.SetDefault("fetch_timeout", defaults.FetchTimeout)
	v.SetDefault("timeout", defaults.RequestTimeout)
	v.SetDefault("rate_limit", 0.0)
	v.SetDefault("output_dir", ".")
	v.SetDefault("format", FormatText)
	v.SetDefault("plain", false)
	v.SetDefault("respect_robots", false)
	v.SetDefault("strict_hosts", false)
	v.SetDefault("fail_on_invalid", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("suggest.enabled", false)
	v.SetDefault("suggest.model", suggest.DefaultModel)
	v.SetDefault("suggest.max_tokens", suggest.DefaultMaxTokens)
}

// ReadFile reads path into v. With an empty path, linkprobe.yaml is looked up
// in the working directory and its absence is ignored.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("linkprobe")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// BindFlags binds every flag in flags to the key of the same name, with
// dashes turned into underscores and "log-" / "suggest-" prefixes turned
// into nested keys. The --suggest flag maps to suggest.enabled.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(flag *pflag.Flag) {
		if bindErr != nil || flag.Name == "config" || flag.Name == "help" {
			return
		}
		if err := v.BindPFlag(flagKey(flag.Name), flag); err != nil {
			bindErr = fmt.Errorf("bind flag %s: %w", flag.Name, err)
		}
	})
	return bindErr
}

func flagKey(name string) string {
	switch {
	case name == "suggest":
		return "suggest.enabled"
	case strings.HasPrefix(name, "log-"):
		return "log." + strings.ReplaceAll(strings.TrimPrefix(name, "log-"), "-", "_")
	case strings.HasPrefix(name, "suggest-"):
		return "suggest." + strings.ReplaceAll(strings.TrimPrefix(name, "suggest-"), "-", "_")
	default:
		return strings.ReplaceAll(name, "-", "_")
	}
}

// Load reads the settings from v and validates them.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		URL:           strings.TrimSpace(v.GetString("url")),
		UserAgent:     v.GetString("user_agent"),
		Accept:        v.GetString("accept"),
		FetchTimeout:  v.GetDuration("fetch_timeout"),
		Timeout:       v.GetDuration("timeout"),
		RateLimit:     v.GetFloat64("rate_limit"),
		OutputDir:     v.GetString("output_dir"),
		Format:        strings.ToLower(v.GetString("format")),
		Plain:         v.GetBool("plain"),
		RespectRobots: v.GetBool("respect_robots"),
		StrictHosts:   v.GetBool("strict_hosts"),
		FailOnInvalid: v.GetBool("fail_on_invalid"),
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
		Suggest: SuggestConfig{
			Enabled:   v.GetBool("suggest.enabled"),
			Model:     v.GetString("suggest.model"),
			MaxTokens: v.GetInt64("suggest.max_tokens"),
			APIKey:    v.GetString("suggest.api_key"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that do not depend on the page URL.
func (c Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON, FormatCSV:
	default:
		return fmt.Errorf("%w: format %q (want text, json or csv)", ErrInvalid, c.Format)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalid, c.Timeout)
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("%w: fetch timeout must not be negative, got %s", ErrInvalid, c.FetchTimeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rate limit must not be negative, got %g", ErrInvalid, c.RateLimit)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("%w: user agent must not be empty", ErrInvalid)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output dir must not be empty", ErrInvalid)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level: %w", ErrInvalid, err)
	}
	return nil
}

// Checker returns the checker settings for this configuration.
func (c Config) Checker() checker.Config {
	rule := checker.MatchContains
	if c.StrictHosts {
		rule = checker.MatchHost
	}
	return checker.Config{
		PageURL:        c.URL,
		UserAgent:      c.UserAgent,
		Accept:         c.Accept,
		FetchTimeout:   c.FetchTimeout,
		RequestTimeout: c.Timeout,
		RateLimit:      c.RateLimit,
		RespectRobots:  c.RespectRobots,
		MatchRule:      rule,
	}
}

// SuggestSettings returns the suggestion client settings.
func (c Config) SuggestSettings() suggest.Config {
	return suggest.Config{
		APIKey:    c.Suggest.APIKey,
		Model:     c.Suggest.Model,
		MaxTokens: c.Suggest.MaxTokens,
	}
}
