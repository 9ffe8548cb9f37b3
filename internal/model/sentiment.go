package model

// Sentiment is the discrete sentiment class assigned to a page's text.
// It is stored as text in every backend, so the label itself is the value.
type Sentiment string

const (
	// SentimentPositive is assigned when polarity is strictly above the positive threshold.
	SentimentPositive Sentiment = "Positive"

	// SentimentNegative is assigned when polarity is strictly below the negative threshold.
	SentimentNegative Sentiment = "Negative"

	// SentimentNeutral is assigned to everything in between, boundaries included.
	SentimentNeutral Sentiment = "Neutral"
)

// String returns the label as stored and displayed.
func (s Sentiment) String() string {
	return string(s)
}

// IsValid reports whether s is one of the three known labels.
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	default:
		return false
	}
}
