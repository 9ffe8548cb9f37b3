package pipeline

import (
	"github.com/nao1215/onionwatch/internal/analyzer"
	"github.com/nao1215/onionwatch/internal/fetch"
	"github.com/nao1215/onionwatch/internal/model"
)

// TargetReport carries the state of one target through the steps.
type TargetReport struct {
	// Target is the address as the operator supplied it.
	Target string

	// Keywords are the keywords to look for.
	Keywords []string

	// Page is set by the fetch step.
	Page *fetch.Page

	// Analysis is set by the analyze step.
	Analysis analyzer.Analysis

	// RecordID is the id assigned by the persist step.
	RecordID int64

	// Err is the error of the step that stopped the pipeline.
	Err error

	// PerformedSteps lists the steps that ran, in order.
	PerformedSteps []string
}

// NewTargetReport creates an empty report for target.
func NewTargetReport(target string, keywords []string) *TargetReport {
	return &TargetReport{
		Target:         target,
		Keywords:       keywords,
		PerformedSteps: make([]string, 0, 3),
	}
}

// Text returns the extracted page text, or "" before the fetch step.
func (r *TargetReport) Text() string {
	if r.Page == nil {
		return ""
	}
	return r.Page.Text
}

// Result converts the report into the in-memory run result.
func (r *TargetReport) Result() model.RunResult {
	keywords := r.Analysis.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	sentiment := r.Analysis.Sentiment
	if sentiment == "" {
		sentiment = model.SentimentNeutral
	}
	return model.RunResult{
		URL:       r.Target,
		Keywords:  keywords,
		Sentiment: sentiment,
		Snippet:   model.Snippet(r.Text()),
	}
}
