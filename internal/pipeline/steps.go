package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nao1215/onionwatch/internal/analyzer"
	"github.com/nao1215/onionwatch/internal/database"
	"github.com/nao1215/onionwatch/internal/fetch"
)

// PageFetcher retrieves a target through an HTTP client. *fetch.Fetcher
// implements it.
type PageFetcher interface {
	Fetch(ctx context.Context, client *http.Client, target string) (*fetch.Page, error)
}

// TextAnalyzer extracts keywords and sentiment. *analyzer.Analyzer
// implements it.
type TextAnalyzer interface {
	Analyze(text string, keywords []string) analyzer.Analysis
}

// FetchStep downloads the target through the run's session.
type FetchStep struct {
	fetcher PageFetcher
	client  *http.Client
	logger  *slog.Logger
}

// NewFetchStep creates a fetch step bound to a session client.
func NewFetchStep(fetcher PageFetcher, client *http.Client, logger *slog.Logger) *FetchStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchStep{fetcher: fetcher, client: client, logger: logger}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do executes the fetch step.
func (s *FetchStep) Do(ctx context.Context, report *TargetReport) error {
	page, err := s.fetcher.Fetch(ctx, s.client, report.Target)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", report.Target, err)
	}
	report.Page = page

	attrs := []any{"target", report.Target, "text_length", len(page.Text)}
	if page.Document != nil {
		attrs = append(attrs, "status", page.Document.StatusCode, "title", page.Document.Title())
	}
	s.logger.Debug("fetched target", attrs...)
	return nil
}

// AnalyzeStep detects keywords and classifies sentiment of the fetched text.
type AnalyzeStep struct {
	analyzer TextAnalyzer
}

// NewAnalyzeStep creates an analyze step.
func NewAnalyzeStep(a TextAnalyzer) *AnalyzeStep {
	return &AnalyzeStep{analyzer: a}
}

// Name returns the step name.
func (s *AnalyzeStep) Name() string {
	return "analyze"
}

// Do executes the analyze step.
func (s *AnalyzeStep) Do(_ context.Context, report *TargetReport) error {
	report.Analysis = s.analyzer.Analyze(report.Text(), report.Keywords)
	return nil
}

// PersistStep appends the analyzed target to the store.
type PersistStep struct {
	store database.Store
}

// NewPersistStep creates a persist step.
func NewPersistStep(store database.Store) *PersistStep {
	return &PersistStep{store: store}
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do executes the persist step.
func (s *PersistStep) Do(ctx context.Context, report *TargetReport) error {
	result := report.Result()
	id, err := s.store.Insert(ctx, result.Record())
	if err != nil {
		return fmt.Errorf("persist %s: %w", report.Target, err)
	}
	report.RecordID = id
	return nil
}
