// Package sentiment implements the sentiment scorers used for comment and review texts.
package sentiment

import (
	"fmt"
	"os"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
)

// APIKeyEnv names the environment variable holding the OpenAI API key.
const APIKeyEnv = "OPENAI_API_KEY"

// New returns the scorer selected in cfg, or nil for the none scorer.
func New(cfg *contract.Config) (contract.SentimentScorer, error) {
	switch cfg.Scorer {
	case schema.LexiconScorer, "":
		return NewLexiconScorer(), nil
	case schema.OpenAIScorer:
		return NewOpenAIScorer(os.Getenv(APIKeyEnv), cfg.OpenAIModel, cfg.OpenAIBaseURL)
	case schema.NoScorer:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported scorer: %s", cfg.Scorer)
	}
}

func clamp(v float64) float64 {
	return max(-1, min(1, v))
}
