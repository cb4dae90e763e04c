// Package config provides configuration loading and validation for the CLI
// and the relay server.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jonathan/ats-tailor/internal/llm"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Load, e.g.
// ATS_PROVIDER or ATS_SERVER_PORT.
const EnvPrefix = "ATS"

// Config represents the application configuration. Values come from, in
// increasing priority: defaults, the config file, ATS_* environment
// variables, and CLI flags bound by the caller.
type Config struct {
	Provider string `mapstructure:"provider"` // openai, anthropic or gemini
	Model    string `mapstructure:"model"`    // optional model override
	APIKey   string `mapstructure:"api-key"`  // falls back to the provider's own env var
	Template string `mapstructure:"template"` // optional LaTeX template path

	Retries    int           `mapstructure:"retries"`
	RetryDelay time.Duration `mapstructure:"retry-delay"`

	OpenAIBaseURL    string `mapstructure:"openai-base-url"`
	AnthropicBaseURL string `mapstructure:"anthropic-base-url"`
	GeminiEndpoint   string `mapstructure:"gemini-endpoint"`

	Debug bool `mapstructure:"debug"`
	JSON  bool `mapstructure:"json"`

	Server ServerConfig `mapstructure:"server"`
}

// ServerConfig configures the relay server.
type ServerConfig struct {
	Port              int             `mapstructure:"port"`
	AllowedOrigins    []string        `mapstructure:"allowed-origins"`
	OpenAIUpstream    string          `mapstructure:"openai-upstream"`
	AnthropicUpstream string          `mapstructure:"anthropic-upstream"`
	AnthropicVersion  string          `mapstructure:"anthropic-version"`
	RateLimit         RateLimitConfig `mapstructure:"rate-limit"`
}

// RateLimitConfig configures the relay's per-client rate limiting.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default-limit"`
	DefaultWindow   time.Duration `mapstructure:"default-window"`
	CleanupInterval time.Duration `mapstructure:"cleanup-interval"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

// Provider credential environment variables used when no api-key is configured.
var providerKeyEnv = map[llm.Provider]string{
	llm.ProviderOpenAI:    "OPENAI_API_KEY",
	llm.ProviderAnthropic: "ANTHROPIC_API_KEY",
	llm.ProviderGemini:    "GEMINI_API_KEY",
}

// NewViper returns a viper instance with defaults and environment binding
// set up. Callers may bind flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// SetDefaults registers every configuration key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("provider", "")
	v.SetDefault("model", "")
	v.SetDefault("api-key", "")
	v.SetDefault("template", "")
	v.SetDefault("retries", 0)
	v.SetDefault("retry-delay", llm.DefaultRetryBaseDelay)
	v.SetDefault("openai-base-url", "")
	v.SetDefault("anthropic-base-url", "")
	v.SetDefault("gemini-endpoint", "")
	v.SetDefault("debug", false)
	v.SetDefault("json", false)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed-origins", []string{"http://localhost:5173", "http://localhost:3000"})
	v.SetDefault("server.openai-upstream", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("server.anthropic-upstream", "https://api.anthropic.com/v1/messages")
	v.SetDefault("server.anthropic-version", "2023-06-01")

	v.SetDefault("server.rate-limit.enabled", true)
	v.SetDefault("server.rate-limit.default-limit", 1000)
	v.SetDefault("server.rate-limit.default-window", time.Minute)
	v.SetDefault("server.rate-limit.cleanup-interval", 5*time.Minute)
	v.SetDefault("server.rate-limit.whitelist", []string{})
	v.SetDefault("server.rate-limit.blacklist", []string{})
}

// Load reads the optional config file at path into v and decodes the
// merged configuration. An empty path skips the file.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// A missing provider is not an error here: commands that need one report
// it when they build the provider config.
func (c *Config) Validate() error {
	if c.Provider != "" {
		if _, err := llm.ParseProvider(c.Provider); err != nil {
			return fmt.Errorf("config error: 'provider' %q is not supported", c.Provider)
		}
	}

	if c.Retries < 0 || c.Retries > 10 {
		return fmt.Errorf("config error: 'retries' must be between 0 and 10")
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("config error: 'retry-delay' must be non-negative")
	}

	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}

	for key, raw := range map[string]string{
		"openai-base-url":           c.OpenAIBaseURL,
		"anthropic-base-url":        c.AnthropicBaseURL,
		"server.openai-upstream":    c.Server.OpenAIUpstream,
		"server.anthropic-upstream": c.Server.AnthropicUpstream,
	} {
		if err := validateURL(raw); err != nil {
			return fmt.Errorf("config error: '%s' %w", key, err)
		}
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535")
	}
	if c.Server.RateLimit.DefaultLimit < 0 {
		return fmt.Errorf("config error: 'server.rate-limit.default-limit' must be non-negative")
	}
	if c.Server.RateLimit.Enabled && c.Server.RateLimit.DefaultWindow <= 0 {
		return fmt.Errorf("config error: 'server.rate-limit.default-window' must be positive")
	}

	return nil
}

// ProviderConfig builds the provider configuration. The credential falls
// back to the provider's conventional environment variable.
func (c *Config) ProviderConfig() (llm.ProviderConfig, error) {
	provider, err := llm.ParseProvider(c.Provider)
	if err != nil {
		return llm.ProviderConfig{}, err
	}

	apiKey := c.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(providerKeyEnv[provider])
	}

	cfg := llm.ProviderConfig{Provider: provider, APIKey: apiKey, Model: c.Model}
	if err := cfg.Validate(); err != nil {
		return llm.ProviderConfig{}, err
	}
	return cfg, nil
}

// TransportOptions returns the transport settings derived from the config.
func (c *Config) TransportOptions() llm.TransportOptions {
	return llm.TransportOptions{
		OpenAIBaseURL:    c.OpenAIBaseURL,
		AnthropicBaseURL: c.AnthropicBaseURL,
		GeminiEndpoint:   c.GeminiEndpoint,
	}
}

// ProviderKeyEnv returns the environment variable holding the credential
// for p.
func ProviderKeyEnv(p llm.Provider) string {
	return providerKeyEnv[p]
}

func validateURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must be an http or https URL")
	}
	if u.Host == "" {
		return fmt.Errorf("must include a host")
	}
	return nil
}
