// Package llm provides the chat-completion backend for question answering
// and drug-name extraction. It speaks to any OpenAI-compatible provider
// (Zhipu, DeepSeek, OpenAI) through the official OpenAI Go SDK with a
// provider-specific base URL, matching how the service selects providers
// from the environment.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/ryoungl/health-information-harmonizer/drugdb/entities"
	"github.com/ryoungl/health-information-harmonizer/interfaces"
	"github.com/ryoungl/health-information-harmonizer/logging"
	"github.com/ryoungl/health-information-harmonizer/metrics"
)

// Supported providers. Each one maps to an OpenAI-compatible endpoint.
const (
	ProviderZhipu    = "zhipu"
	ProviderOpenAI   = "openai"
	ProviderDeepseek = "deepseek"
)

// ErrDisabled is returned by every call when no API key is configured.
// The service keeps running without the language model layer.
var ErrDisabled = errors.New("language model backend is not configured")

// Compile-time check to ensure Client implements LanguageModel
var _ interfaces.LanguageModel = (*Client)(nil)

// Client is a provider-agnostic chat completion client. The zero key case
// yields a disabled client whose calls return ErrDisabled, so callers can
// wire it unconditionally.
type Client struct {
	client   openai.Client
	provider string
	model    string
	timeout  time.Duration
	enabled  bool
}

// NewClient builds a client for the configured provider. An empty API key
// disables the client instead of failing, because the lexical matching
// endpoints work without a language model. Base URL and model fall back to
// per-provider defaults when unset.
func NewClient(provider, apiKey, baseURL, model string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		logging.Warn("No LLM API key configured, question answering is disabled")
		return &Client{provider: provider}, nil
	}

	defaultBase, defaultModel, err := providerDefaults(provider)
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		baseURL = defaultBase
	}
	if model == "" {
		model = defaultModel
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		client:   openai.NewClient(opts...),
		provider: provider,
		model:    model,
		timeout:  timeout,
		enabled:  true,
	}, nil
}

// providerDefaults returns the default base URL and model for a provider.
// The OpenAI provider keeps the SDK's own base URL.
func providerDefaults(provider string) (baseURL, model string, err error) {
	switch provider {
	case ProviderZhipu:
		return "https://open.bigmodel.cn/api/paas/v4", "glm-4-flash", nil
	case ProviderDeepseek:
		return "https://api.deepseek.com/v1", "deepseek-chat", nil
	case ProviderOpenAI:
		return "", "gpt-4o-mini", nil
	default:
		return "", "", fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// Enabled reports whether a backend is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

// ExtractDrugNames pulls medication mentions out of a free-text question.
// Temperature is pinned to zero so the JSON contract stays reproducible.
// Parse and transport failures surface as errors; callers treat extraction
// as advisory and degrade to an empty mention list.
func (c *Client) ExtractDrugNames(ctx context.Context, question string) ([]interfaces.DrugMention, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(extractSystemPrompt),
			openai.UserMessage(extractUserPrompt(question)),
		},
		Temperature: openai.Float(0),
		MaxTokens:   openai.Int(512),
	}

	content, err := c.complete(ctx, "extract", params)
	if err != nil {
		return nil, err
	}

	mentions, err := parseMentions(content)
	if err != nil {
		logging.Warn("Could not parse extraction reply",
			"provider", c.provider,
			"model", c.model,
			"error", err)
		return nil, err
	}

	return mentions, nil
}

// Answer generates a grounded answer for the question over the matched drug
// groups. The group context is rendered into a second system message so the
// model only sees curated label texts.
func (c *Client) Answer(ctx context.Context, question, lang string, groups []entities.DrugGroup) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	systemPrompt := answerSystemZH
	contextPrefix := drugContextPrefixZH
	if lang == "en" {
		systemPrompt = answerSystemEN
		contextPrefix = drugContextPrefixEN
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.SystemMessage(contextPrefix + buildDrugContext(groups, lang)),
			openai.UserMessage(question),
		},
		Temperature: openai.Float(0.2),
		MaxTokens:   openai.Int(1024),
	}

	content, err := c.complete(ctx, "answer", params)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(content), nil
}

// complete runs one chat completion with the configured timeout and records
// latency, outcome and token usage.
func (c *Client) complete(ctx context.Context, operation string, params openai.ChatCompletionNewParams) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	metrics.LLMRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(operation, "error").Inc()
		logging.Warn("LLM request failed",
			"operation", operation,
			"provider", c.provider,
			"model", c.model,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		metrics.LLMRequestsTotal.WithLabelValues(operation, "error").Inc()
		return "", errors.New("empty response from model")
	}

	metrics.LLMRequestsTotal.WithLabelValues(operation, "success").Inc()

	if resp.Usage.TotalTokens > 0 {
		logging.Debug("LLM request completed",
			"operation", operation,
			"provider", c.provider,
			"model", c.model,
			"input_tokens", resp.Usage.PromptTokens,
			"output_tokens", resp.Usage.CompletionTokens,
			"total_tokens", resp.Usage.TotalTokens,
			"duration_ms", duration.Milliseconds())
	}

	return resp.Choices[0].Message.Content, nil
}
