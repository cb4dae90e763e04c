// Package llm provides the provider transport: one Sender abstraction over
// the supported text-generation providers.
package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenAI is the OpenAI chat-completions provider
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic is the Anthropic messages provider
	ProviderAnthropic Provider = "anthropic"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

var defaultModels = map[Provider]string{
	ProviderOpenAI:    "gpt-4o",
	ProviderAnthropic: "claude-3-5-sonnet-latest",
	ProviderGemini:    "gemini-2.5-flash",
}

// SupportedProviders returns the providers the transport can dispatch to.
func SupportedProviders() []Provider {
	return []Provider{ProviderOpenAI, ProviderAnthropic, ProviderGemini}
}

// ParseProvider resolves a provider name. "claude" is accepted as an alias
// for anthropic.
func ParseProvider(name string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai":
		return ProviderOpenAI, nil
	case "anthropic", "claude":
		return ProviderAnthropic, nil
	case "gemini":
		return ProviderGemini, nil
	case "":
		return "", &ConfigurationError{Message: "no provider configured"}
	default:
		return "", &ConfigurationError{Message: fmt.Sprintf("unsupported provider: %s", name)}
	}
}

// DefaultModel returns the model used when a config names none.
func DefaultModel(p Provider) string {
	return defaultModels[p]
}

// ProviderConfig selects a provider and carries its credential.
// It is treated as an immutable value: callers pass copies, never pointers
// they later mutate.
type ProviderConfig struct {
	Provider Provider
	APIKey   string
	Model    string // optional; DefaultModel(Provider) when empty
}

// ModelName returns the configured model or the provider default.
func (c ProviderConfig) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel(c.Provider)
}

// WithModel returns a copy of the config with a specific model.
func (c ProviderConfig) WithModel(model string) ProviderConfig {
	c.Model = model
	return c
}

// Validate reports a ConfigurationError when the config cannot be used to
// make a request.
func (c ProviderConfig) Validate() error {
	if c.Provider == "" {
		return &ConfigurationError{Message: "no provider configured"}
	}
	if _, ok := defaultModels[c.Provider]; !ok {
		return &ConfigurationError{Message: fmt.Sprintf("unsupported provider: %s", c.Provider)}
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return &ConfigurationError{Message: fmt.Sprintf("no API key configured for provider %s", c.Provider)}
	}
	return nil
}

// MarshalLogObject implements zapcore.ObjectMarshaler. The API key is
// reported only as present or absent.
func (c ProviderConfig) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("provider", string(c.Provider))
	enc.AddString("model", c.ModelName())
	enc.AddBool("api_key_set", c.APIKey != "")
	return nil
}

// String omits the API key so configs can be printed safely.
func (c ProviderConfig) String() string {
	return fmt.Sprintf("%s/%s", c.Provider, c.ModelName())
}
