// Package ai implements the content generation client: it asks an
// Anthropic model to propose block content for a page and converts the
// model's output into raw block descriptors the store can normalize.
package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// DefaultModel is used when neither config nor environment names one.
// PAGODA_MODEL overrides it at runtime.
const DefaultModel = "claude-3-5-haiku-20241022"

// ModelFromEnv returns the model to use, checking PAGODA_MODEL first
func ModelFromEnv(configured string) string {
	if model := os.Getenv("PAGODA_MODEL"); model != "" {
		return model
	}
	if configured != "" {
		return configured
	}
	return DefaultModel
}

// Generator calls the Anthropic Messages API to produce candidate
// blocks. It owns the retry policy, the circuit breaker, a concurrency
// semaphore bounding simultaneous calls, and a request rate limiter.
type Generator struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
	retry     RetryConfig
	breaker   *CircuitBreaker
	sem       *semaphore.Weighted
	limiter   *rate.Limiter
}

// Config holds generator configuration
type Config struct {
	APIKey    string      // Anthropic API key (if empty, reads ANTHROPIC_API_KEY)
	Model     string      // Model to use (default: DefaultModel, PAGODA_MODEL wins)
	MaxTokens int64       // Response token cap (default: 2048)
	Retry     RetryConfig // Retry tuning (defaults applied if zero)
	RateLimit float64     // Requests per second (default: 1; negative disables limiting)
}

// NewGenerator creates a content generator
func NewGenerator(cfg *Config) (*Generator, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	}

	retry := cfg.Retry
	if retry.MaxRetries == 0 {
		retry = DefaultRetryConfig()
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}

	rps := cfg.RateLimit
	if rps == 0 {
		rps = 1
	}

	var breaker *CircuitBreaker
	if retry.BreakerEnabled {
		breaker = NewCircuitBreaker(retry.FailureThreshold, retry.SuccessThreshold, retry.OpenTimeout)
	}

	var sem *semaphore.Weighted
	if retry.MaxConcurrentCalls > 0 {
		sem = semaphore.NewWeighted(int64(retry.MaxConcurrentCalls))
	}

	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Generator{
		client:    &client,
		model:     ModelFromEnv(cfg.Model),
		maxTokens: maxTokens,
		retry:     retry,
		breaker:   breaker,
		sem:       sem,
		limiter:   limiter,
	}, nil
}

// Model returns the model name the generator calls
func (g *Generator) Model() string {
	return g.model
}

// complete sends a single-user-message prompt and returns the
// concatenated text content of the response.
func (g *Generator) complete(ctx context.Context, operation, prompt string) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%s rate limit wait: %w", operation, err)
		}
	}

	start := time.Now()
	var response *anthropic.Message
	err := g.retryWithBackoff(ctx, operation, func(attemptCtx context.Context) error {
		resp, apiErr := g.client.Messages.New(attemptCtx, anthropic.MessageNewParams{
			Model:     anthropic.Model(g.model),
			MaxTokens: g.maxTokens,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if apiErr != nil {
			return apiErr
		}
		response = resp
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var text string
	for _, block := range response.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	fmt.Fprintf(os.Stderr, "generation %s: input=%d tokens, output=%d tokens, duration=%v, model=%s\n",
		operation, response.Usage.InputTokens, response.Usage.OutputTokens, time.Since(start), g.model)
	return text, nil
}
