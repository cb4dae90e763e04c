package llm

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Request is a single instruction sent to a provider.
type Request struct {
	System string // placed in the provider's system slot; may be empty
	Prompt string // sent as the single user message
}

// Sender is an abstraction over LLM providers. Implementations return the
// raw reply text of the first choice, content block or candidate.
type Sender interface {
	Send(ctx context.Context, cfg ProviderConfig, req Request) (string, error)
}

// Defaults applied to every provider request.
const (
	DefaultTemperature     = 0.3
	DefaultMaxOutputTokens = 4096
)

// TransportOptions configures how the transport reaches the providers.
// Zero values select the public endpoints.
type TransportOptions struct {
	HTTPClient       *http.Client
	OpenAIBaseURL    string // e.g. https://api.openai.com/v1
	AnthropicBaseURL string // e.g. https://api.anthropic.com
	GeminiEndpoint   string
	Temperature      float32
	MaxOutputTokens  int
	Logger           *zap.Logger
}

// variant is one member of the closed set of provider wire formats.
type variant interface {
	send(ctx context.Context, cfg ProviderConfig, req Request) (string, error)
}

// Transport implements Sender by dispatching on ProviderConfig.Provider.
// The OpenAI and Anthropic variants make exactly one HTTP request per Send.
// The Gemini client applies its library's default call policy, which may
// retry an Unavailable response and bounds a call at 600s; pass a context
// deadline to cap it. Application-level retries are layered on with
// RetrySender.
type Transport struct {
	opts   TransportOptions
	logger *zap.Logger
}

// NewTransport creates a transport with the given options.
func NewTransport(opts TransportOptions) *Transport {
	if opts.Temperature == 0 {
		opts.Temperature = DefaultTemperature
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = DefaultMaxOutputTokens
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transport{opts: opts, logger: logger}
}

// Send validates the config, then performs one request to the selected
// provider and returns its reply text.
func (t *Transport) Send(ctx context.Context, cfg ProviderConfig, req Request) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	v := t.variantFor(cfg.Provider)
	if v == nil {
		return "", &ConfigurationError{Message: "unsupported provider: " + string(cfg.Provider)}
	}

	t.logger.Debug("sending provider request",
		zap.Object("provider_config", cfg),
		zap.Int("prompt_chars", len(req.Prompt)),
	)

	start := time.Now()
	text, err := v.send(ctx, cfg, req)
	elapsed := time.Since(start)
	if err != nil {
		t.logger.Warn("provider request failed",
			zap.Object("provider_config", cfg),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return "", err
	}

	t.logger.Info("provider request completed",
		zap.Object("provider_config", cfg),
		zap.Duration("elapsed", elapsed),
		zap.Int("reply_chars", len(text)),
	)
	return text, nil
}

func (t *Transport) variantFor(p Provider) variant {
	switch p {
	case ProviderOpenAI:
		return openAIVariant{
			baseURL:     t.opts.OpenAIBaseURL,
			httpClient:  t.opts.HTTPClient,
			temperature: t.opts.Temperature,
		}
	case ProviderAnthropic:
		return anthropicVariant{
			baseURL:    t.opts.AnthropicBaseURL,
			httpClient: t.opts.HTTPClient,
			maxTokens:  t.opts.MaxOutputTokens,
		}
	case ProviderGemini:
		return geminiVariant{
			endpoint:    t.opts.GeminiEndpoint,
			temperature: t.opts.Temperature,
		}
	default:
		return nil
	}
}
