package analyzer

import (
	"math"

	"github.com/nao1215/onionwatch/internal/model"
)

const (
	// PositiveThreshold is the polarity above which text is Positive.
	PositiveThreshold = 0.1
	// NegativeThreshold is the polarity below which text is Negative.
	NegativeThreshold = -0.1
)

// Scorer computes a polarity score in [-1, 1] for a piece of text.
//
// Design decision: Classification thresholds live in Classify, not in the
// scorer. Any scorer can then be plugged in through WithScorer and the
// Positive, Neutral and Negative labels keep the same meaning.
type Scorer interface {
	Polarity(text string) float64
}

// ScorerFunc adapts a function to the Scorer interface.
type ScorerFunc func(text string) float64

// Polarity calls f(text).
func (f ScorerFunc) Polarity(text string) float64 {
	return f(text)
}

// Classify maps a polarity score to a sentiment label. The thresholds
// themselves are Neutral.
func Classify(polarity float64) model.Sentiment {
	switch {
	case polarity > PositiveThreshold:
		return model.SentimentPositive
	case polarity < NegativeThreshold:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

// clamp keeps custom scorer output inside [-1, 1].
func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
