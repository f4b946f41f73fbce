package sentiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/huangsam/steward/internal/contract"
	"github.com/sashabaranov/go-openai"
)

const systemPrompt = `You rate the sentiment of messages from software project discussions.
Reply with a single number between -1 (very negative) and 1 (very positive), and nothing else.
Technical descriptions without emotion are 0.`

// maxTextRunes bounds the text sent per request.
const maxTextRunes = 2000

// OpenAIScorer scores texts with a chat completion model.
type OpenAIScorer struct {
	client *openai.Client
	model  string
}

var _ contract.SentimentScorer = &OpenAIScorer{} // Compile-time check

// NewOpenAIScorer creates a scorer for model. A non-empty baseURL targets an
// OpenAI-compatible endpoint instead of the public API.
func NewOpenAIScorer(apiKey, model, baseURL string) (*OpenAIScorer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai scorer requires the %s environment variable", APIKeyEnv)
	}
	if model == "" {
		model = contract.DefaultOpenAIModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	return &OpenAIScorer{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

// Score implements the SentimentScorer interface.
func (s *OpenAIScorer) Score(ctx context.Context, text string) (float64, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: contract.TruncateText(text, maxTextRunes)},
		},
		Temperature: 0,
		MaxTokens:   8,
	})
	if err != nil {
		return 0, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return 0, errors.New("openai returned no choices")
	}
	return ParseScore(resp.Choices[0].Message.Content)
}

// ParseScore reads a model reply as a score and clamps it to [-1,1].
func ParseScore(reply string) (float64, error) {
	reply = strings.Trim(strings.TrimSpace(reply), "`\"'")
	reply = strings.TrimSuffix(reply, ".")
	v, err := strconv.ParseFloat(reply, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected model reply %q: %w", reply, err)
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("unexpected model reply %q", reply)
	}
	return clamp(v), nil
}
