package analyzer

import (
	"math"
	"reflect"
	"testing"

	"github.com/nao1215/onionwatch/internal/model"
)

func TestDetectKeywords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		keywords []string
		want     []string
	}{
		{
			name:     "keeps input order",
			text:     "There is a security threat here",
			keywords: []string{"threat", "security"},
			want:     []string{"threat", "security"},
		},
		{
			name:     "case insensitive both ways",
			text:     "RANSOMWARE kit for sale",
			keywords: []string{"Ransomware", "kit"},
			want:     []string{"Ransomware", "kit"},
		},
		{
			name:     "substring match",
			text:     "insecurity everywhere",
			keywords: []string{"security"},
			want:     []string{"security"},
		},
		{
			name:     "no match is empty not nil",
			text:     "nothing to see",
			keywords: []string{"threat"},
			want:     []string{},
		},
		{
			name:     "no keywords",
			text:     "anything",
			keywords: nil,
			want:     []string{},
		},
		{
			name:     "blank keyword ignored",
			text:     "anything",
			keywords: []string{"", "  "},
			want:     []string{},
		},
		{
			name:     "unicode folding",
			text:     "ÜBERWACHUNG läuft",
			keywords: []string{"überwachung"},
			want:     []string{"überwachung"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := DetectKeywords(tt.text, tt.keywords)
			if got == nil {
				t.Fatal("DetectKeywords returned nil")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DetectKeywords() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		polarity float64
		want     model.Sentiment
	}{
		{0.5, model.SentimentPositive},
		{0.1000001, model.SentimentPositive},
		{0.1, model.SentimentNeutral},
		{0, model.SentimentNeutral},
		{-0.1, model.SentimentNeutral},
		{-0.1000001, model.SentimentNegative},
		{-1, model.SentimentNegative},
	}

	for _, tt := range tests {
		if got := Classify(tt.polarity); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.polarity, got, tt.want)
		}
	}
}

func TestAnalyzerClampsScores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		score float64
		want  float64
		label model.Sentiment
	}{
		{name: "above range", score: 7, want: 1, label: model.SentimentPositive},
		{name: "below range", score: -3, want: -1, label: model.SentimentNegative},
		{name: "NaN", score: math.NaN(), want: 0, label: model.SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := New(WithScorer(ScorerFunc(func(string) float64 { return tt.score })))
			label, p := a.Sentiment("text")
			if p != tt.want || label != tt.label {
				t.Errorf("Sentiment() = (%s, %v), want (%s, %v)", label, p, tt.label, tt.want)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	a := New(WithScorer(ScorerFunc(func(string) float64 { return 0.05 })))
	got := a.Analyze("There is a security threat here", []string{"threat", "security", "risk"})

	if !reflect.DeepEqual(got.Keywords, []string{"threat", "security"}) {
		t.Errorf("Keywords = %v", got.Keywords)
	}
	if got.Sentiment != model.SentimentNeutral {
		t.Errorf("Sentiment = %s, want Neutral", got.Sentiment)
	}
	if got.Polarity != 0.05 {
		t.Errorf("Polarity = %v, want 0.05", got.Polarity)
	}
}

func TestVaderScorer(t *testing.T) {
	t.Parallel()

	s := NewVaderScorer()

	tests := []struct {
		name string
		text string
		want model.Sentiment
	}{
		{name: "positive", text: "Great vendor, fast and reliable. Highly recommended!", want: model.SentimentPositive},
		{name: "strongly positive", text: "The service was wonderful and amazing, truly fantastic vendors.", want: model.SentimentPositive},
		{name: "negative", text: "This market is a scam, my coins were stolen.", want: model.SentimentNegative},
		{name: "strongly negative", text: "Horrible, disgusting, miserable experience; the admins are liars.", want: model.SentimentNegative},
		{name: "neutral", text: "The forum opens at noon.", want: model.SentimentNeutral},
		{name: "empty", text: "", want: model.SentimentNeutral},
		{name: "whitespace", text: " \n\t ", want: model.SentimentNeutral},
		{name: "negation flips", text: "This is not good", want: model.SentimentNegative},
		{name: "contraction negation", text: "I don't hate it", want: model.SentimentPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := s.Polarity(tt.text)
			if p < -1 || p > 1 {
				t.Fatalf("Polarity(%q) = %v out of range", tt.text, p)
			}
			if got := Classify(p); got != tt.want {
				t.Errorf("Polarity(%q) = %v classified %s, want %s", tt.text, p, got, tt.want)
			}
		})
	}

	t.Run("booster strengthens", func(t *testing.T) {
		t.Parallel()

		if plain, boosted := s.Polarity("good"), s.Polarity("very good"); boosted <= plain {
			t.Errorf("very good (%v) should score above good (%v)", boosted, plain)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		text := "The exploit leaked data but the patch is great"
		if s.Polarity(text) != s.Polarity(text) {
			t.Error("Polarity is not deterministic")
		}
	})

	t.Run("extra lexicon", func(t *testing.T) {
		t.Parallel()

		if got := Classify(s.Polarity("user doxxed")); got != model.SentimentNeutral {
			t.Fatalf("stock lexicon classified unknown word as %s", got)
		}
		custom := NewVaderScorer(map[string]float64{"Doxxed": -3})
		if got := Classify(custom.Polarity("user doxxed")); got != model.SentimentNegative {
			t.Errorf("custom word classified %s, want Negative", got)
		}
		if got := Classify(s.Polarity("user doxxed")); got != model.SentimentNeutral {
			t.Error("extra entries leaked into the shared lexicon")
		}
	})
}

func TestNewDefaultsToVader(t *testing.T) {
	t.Parallel()

	got := New().Analyze("There is a security threat here", []string{"threat", "risk", "security"})

	if want := []string{"threat", "security"}; !reflect.DeepEqual(got.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", got.Keywords, want)
	}
	if got.Sentiment != model.SentimentNegative {
		t.Errorf("Sentiment = %s, want Negative", got.Sentiment)
	}
	// security (+1.4) and threat (-2.4) sum to -1.0, normalized by sqrt(1+15).
	if math.Abs(got.Polarity-(-0.25)) > 1e-3 {
		t.Errorf("Polarity = %v, want about -0.25", got.Polarity)
	}
}
