package sentiment

import (
	"context"
	"sync"

	"github.com/huangsam/steward/internal/contract"
	"github.com/jonreiter/govader"
)

// LexiconScorer scores texts offline with the VADER lexicon and rules
// (negation, intensifiers, punctuation and capitalization emphasis).
// It is deterministic and never fails.
type LexiconScorer struct {
	mu       sync.Mutex // the analyzer is not documented as safe for concurrent use
	analyzer *govader.SentimentIntensityAnalyzer
}

var _ contract.SentimentScorer = &LexiconScorer{} // Compile-time check

// NewLexiconScorer creates a lexicon scorer. Loading the lexicon happens once here.
func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score implements the SentimentScorer interface. It returns the VADER compound
// score, which is already normalized to [-1,1]. Texts without known words score 0.
func (s *LexiconScorer) Score(ctx context.Context, text string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	scores := s.analyzer.PolarityScores(text)
	s.mu.Unlock()
	return clamp(scores.Compound), nil
}
