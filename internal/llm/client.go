// Package llm implements the generation backend on top of the OpenAI and
// Gemini SDKs. One Client serves the three generation tasks: commit
// messages, per-file change explanations, and contributor summaries.
package llm

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/gitscribe/gitscribe/internal/config"
	"github.com/gitscribe/gitscribe/internal/errors"
	"github.com/gitscribe/gitscribe/internal/git"
)

// Client is a provider-agnostic generation client. Every request passes
// through a shared rate limiter so interactive loops cannot hammer the
// provider on rapid regenerations.
type Client struct {
	provider     string
	openai       *openai.Client
	gemini       *genai.Client
	limiter      *rate.Limiter
	logger       *slog.Logger
	model        string
	maxTokens    int
	temperature  float32
	maxDiffLines int
}

// NewClient builds a client for the provider selected in cfg. The API key
// must already be resolved into cfg; use config.CredentialManager for the
// env/keychain/file lookup chain.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	key := cfg.APIKey()
	if key == "" {
		return nil, errors.ConfigErrorf("no %s API key configured; run 'gitscribe configure'", cfg.Provider)
	}

	rpm := cfg.Limits.RequestsPerMinute
	if rpm <= 0 {
		rpm = config.Default().Limits.RequestsPerMinute
	}

	c := &Client{
		provider:     cfg.Provider,
		limiter:      rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		logger:       slog.Default().With("component", "llm", "provider", cfg.Provider, "model", cfg.Model()),
		model:        cfg.Model(),
		maxTokens:    cfg.Generation.MaxTokens,
		temperature:  cfg.Generation.Temperature,
		maxDiffLines: cfg.Generation.MaxDiffLines,
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		c.openai = openai.NewClient(key)
	case config.ProviderGemini:
		gemini, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, errors.BackendError(err, "failed to create gemini client")
		}
		c.gemini = gemini
	default:
		return nil, errors.ConfigErrorf("unknown provider %q (expected %q or %q)",
			cfg.Provider, config.ProviderOpenAI, config.ProviderGemini)
	}

	c.logger.Debug("generation client initialized")
	return c, nil
}

// Provider returns the active provider name.
func (c *Client) Provider() string {
	return c.provider
}

// GenerateCommitMessage produces a one-line conventional commit message
// for the given working tree diff.
func (c *Client) GenerateCommitMessage(ctx context.Context, diff string) (string, error) {
	raw, err := c.complete(ctx, commitSystemPrompt, commitUserPrompt(git.TruncateDiff(diff, c.maxDiffLines)))
	if err != nil {
		return "", err
	}

	message := sanitizeMessage(raw)
	if message == "" {
		return "", errors.New(errors.KindBackend, "backend returned an empty commit message")
	}
	return message, nil
}

// ExplainChange summarizes what changed in one file, given that file's diff.
func (c *Client) ExplainChange(ctx context.Context, path, diff string) (string, error) {
	text, err := c.complete(ctx, explainSystemPrompt, explainUserPrompt(path, git.TruncateDiff(diff, c.maxDiffLines)))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// AnalyzeContributor turns a contributor report into a short narrative
// profile of that person's work.
func (c *Client) AnalyzeContributor(ctx context.Context, report string) (string, error) {
	text, err := c.complete(ctx, contributorSystemPrompt, contributorUserPrompt(report))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// complete routes one request to the active provider. The limiter runs
// first so both provider paths share the same budget.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", errors.BackendError(err, "interrupted while waiting on rate limit")
	}

	switch c.provider {
	case config.ProviderGemini:
		return c.completeGemini(ctx, system, user)
	default:
		return c.completeOpenAI(ctx, system, user)
	}
}

func (c *Client) completeOpenAI(ctx context.Context, system, user string) (string, error) {
	resp, err := c.openai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: user,
			},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", errors.BackendError(err, "openai completion failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New(errors.KindBackend, "openai returned no choices")
	}

	text := resp.Choices[0].Message.Content
	c.logger.Debug("openai completion",
		"prompt_length", len(user),
		"response_length", len(text),
		"tokens_used", resp.Usage.TotalTokens,
	)
	return text, nil
}

func (c *Client) completeGemini(ctx context.Context, system, user string) (string, error) {
	var systemInstruction *genai.Content
	if system != "" {
		systemInstruction = genai.Text(system)[0]
	}

	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       ptrFloat32(c.temperature),
		MaxOutputTokens:   int32(c.maxTokens),
	}

	resp, err := c.gemini.Models.GenerateContent(ctx, c.model, genai.Text(user), genConfig)
	if err != nil {
		return "", errors.BackendError(err, "gemini completion failed")
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New(errors.KindBackend, "gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New(errors.KindBackend, "gemini returned no content parts")
	}

	text := candidate.Content.Parts[0].Text
	c.logger.Debug("gemini completion",
		"prompt_length", len(user),
		"response_length", len(text),
	)
	return text, nil
}

// sanitizeMessage reduces a raw model response to a single subject line.
// Models occasionally wrap the answer in code fences or quotes despite the
// prompt asking for plain text.
func sanitizeMessage(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		line = strings.Trim(line, "`")
		line = strings.Trim(line, `"`)
		return strings.TrimSpace(line)
	}
	return ""
}

func ptrFloat32(f float32) *float32 {
	return &f
}
