package ml

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/credlens/credlens/internal/model"
)

// OpenAIProvider backs both classification and sentiment with chat
// completions. Every call is rate limited and bounded by a short timeout;
// callers fall back to the rule providers when a call fails.
type OpenAIProvider struct {
	client    *openai.Client
	modelName string
	timeout   time.Duration
	maxTokens int
	limiter   *rate.Limiter
}

// NewOpenAIProvider creates a provider from configuration
func NewOpenAIProvider(cfg model.MLConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = openai.GPT4oMini
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 256
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 4
	}

	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(clientConfig),
		modelName: modelName,
		timeout:   timeout,
		maxTokens: maxTokens,
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks that the API is reachable with the configured key
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	_, err := p.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

// Scores rates the text against each label via zero-shot classification
func (p *OpenAIProvider) Scores(ctx context.Context, text string, labels []string) (map[string]float64, error) {
	content, err := p.complete(ctx, classifySystemPrompt, buildClassifyPrompt(text, labels))
	if err != nil {
		return nil, err
	}

	var raw map[string]float64
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("parse classification response: %w", err)
	}

	scores := make(map[string]float64, len(labels))
	for _, label := range labels {
		scores[label] = clamp01(raw[label])
	}
	return scores, nil
}

// Analyze returns the dominant sentiment polarity and confidence
func (p *OpenAIProvider) Analyze(ctx context.Context, text string) (model.Polarity, float64, error) {
	content, err := p.complete(ctx, sentimentSystemPrompt, buildSentimentPrompt(text))
	if err != nil {
		return model.PolarityNeutral, 0, err
	}

	var raw struct {
		Polarity   string  `json:"polarity"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return model.PolarityNeutral, 0, fmt.Errorf("parse sentiment response: %w", err)
	}

	switch strings.ToLower(raw.Polarity) {
	case "negative":
		return model.PolarityNegative, clamp01(raw.Confidence), nil
	case "positive":
		return model.PolarityPositive, clamp01(raw.Confidence), nil
	default:
		return model.PolarityNeutral, clamp01(raw.Confidence), nil
	}
}

func (p *OpenAIProvider) complete(ctx context.Context, system, user string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   p.maxTokens,
		Temperature: 0, // Deterministic as the API allows
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

const classifySystemPrompt = "You classify corporate announcement text against risk categories. Respond with a JSON object mapping each category name to a score between 0 and 1."

const sentimentSystemPrompt = `You analyze the sentiment of corporate announcement text. Respond with a JSON object {"polarity": "negative"|"neutral"|"positive", "confidence": 0..1}.`

// maxPromptChars bounds how much announcement text goes into a prompt
const maxPromptChars = 4000

func buildClassifyPrompt(text string, labels []string) string {
	return fmt.Sprintf("Categories: %s\n\nText:\n%s", strings.Join(labels, ", "), truncate(text, maxPromptChars))
}

func buildSentimentPrompt(text string) string {
	return "Text:\n" + truncate(text, maxPromptChars)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
