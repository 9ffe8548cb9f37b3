package analyzer

import (
	"github.com/nao1215/onionwatch/internal/model"
)

// Analysis is the outcome of analyzing one page.
type Analysis struct {
	// Keywords holds the matched keywords in input order. Never nil.
	Keywords []string
	// Sentiment is the classified label.
	Sentiment model.Sentiment
	// Polarity is the clamped score the label was derived from.
	Polarity float64
}

// Analyzer detects keywords and classifies sentiment.
type Analyzer struct {
	scorer Scorer
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithScorer replaces the default VADER scorer.
func WithScorer(s Scorer) Option {
	return func(a *Analyzer) {
		if s != nil {
			a.scorer = s
		}
	}
}

// New creates an Analyzer that uses the VADER scorer unless
// another one is supplied.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{scorer: NewVaderScorer()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Sentiment classifies text.
func (a *Analyzer) Sentiment(text string) (model.Sentiment, float64) {
	p := clamp(a.scorer.Polarity(text))
	return Classify(p), p
}

// Analyze runs keyword detection and sentiment classification on text.
func (a *Analyzer) Analyze(text string, keywords []string) Analysis {
	sentiment, polarity := a.Sentiment(text)
	return Analysis{
		Keywords:  DetectKeywords(text, keywords),
		Sentiment: sentiment,
		Polarity:  polarity,
	}
}
