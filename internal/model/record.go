package model

import (
	"strings"
	"unicode/utf8"
)

// SnippetLength is the number of characters of extracted text kept per record.
const SnippetLength = 200

// KeywordSeparator joins matched keywords in the persisted keywords column.
const KeywordSeparator = ", "

// ScrapedRecord is one stored finding.
// ID is assigned by the store on insert and never changes afterwards.
type ScrapedRecord struct {
	// ID is the auto-assigned, monotonically increasing identity.
	ID int64 `json:"id" bson:"id"`

	// URL is the target address that produced this record.
	URL string `json:"url" bson:"url"`

	// Keywords is the comma-joined list of matched keyword terms.
	// It is empty when nothing matched.
	Keywords string `json:"keywords" bson:"keywords"`

	// Sentiment is one of the three sentiment labels.
	Sentiment Sentiment `json:"sentiment" bson:"sentiment"`

	// ContentSnippet holds the first SnippetLength characters of the page text.
	ContentSnippet string `json:"content_snippet" bson:"content_snippet"`
}

// RunResult is the in-memory outcome of one successfully processed target.
// Keywords stay a sequence here; they are only joined when persisted.
type RunResult struct {
	URL       string    `json:"url"`
	Keywords  []string  `json:"keywords"`
	Sentiment Sentiment `json:"sentiment"`
	Snippet   string    `json:"snippet"`
}

// Record converts the result into a ScrapedRecord without an ID.
func (r RunResult) Record() *ScrapedRecord {
	return &ScrapedRecord{
		URL:            r.URL,
		Keywords:       KeywordsFrom(r.Keywords),
		Sentiment:      r.Sentiment,
		ContentSnippet: r.Snippet,
	}
}

// KeywordsFrom joins matched keywords the way they are persisted.
func KeywordsFrom(keywords []string) string {
	return strings.Join(keywords, KeywordSeparator)
}

// Snippet returns the first SnippetLength characters of text.
// Characters are counted as runes so multi-byte text is never split.
func Snippet(text string) string {
	if utf8.RuneCountInString(text) <= SnippetLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:SnippetLength])
}
