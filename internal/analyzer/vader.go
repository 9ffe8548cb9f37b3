package analyzer

import (
	"strings"
	"sync"

	"github.com/jonreiter/govader"
)

// sharedAnalyzer loads the VADER lexicon once per process. The analyzer is
// only read after construction, so concurrent scoring is safe.
var sharedAnalyzer = sync.OnceValue(govader.NewSentimentIntensityAnalyzer)

// VaderScorer scores text with the VADER rule set and reports the compound
// score as polarity.
type VaderScorer struct {
	sia *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer returns a scorer backed by the stock VADER lexicon. Extra
// entries map words to a valence between -4 and 4 and override the stock
// values; keys are matched case-insensitively.
func NewVaderScorer(extra ...map[string]float64) *VaderScorer {
	if len(extra) == 0 {
		return &VaderScorer{sia: sharedAnalyzer()}
	}
	sia := govader.NewSentimentIntensityAnalyzer()
	for _, m := range extra {
		for word, valence := range m {
			sia.Lexicon[strings.ToLower(word)] = valence
		}
	}
	return &VaderScorer{sia: sia}
}

// Polarity implements Scorer.
func (s *VaderScorer) Polarity(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return s.sia.PolarityScores(text).Compound
}
