package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/onionwatch/internal/model"
)

// Format is an export file format.
type Format string

const (
	// FormatJSON is a pretty-printed JSON array.
	FormatJSON Format = "json"
	// FormatCSV is comma separated values with a header row.
	FormatCSV Format = "csv"
)

// csvHeader is the first row of every CSV export.
var csvHeader = []string{"url", "keywords", "sentiment", "snippet"}

// ParseFormat parses a format name, case insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (use json or csv)", ErrUnknownFormat, s)
	}
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Export writes results to w in the given format.
func Export(w io.Writer, format Format, results []model.RunResult) error {
	switch format {
	case FormatJSON:
		return ExportJSON(w, results)
	case FormatCSV:
		return ExportCSV(w, results)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ExportJSON writes results as an indented JSON array. A nil slice is
// written as [].
func ExportJSON(w io.Writer, results []model.RunResult) error {
	if results == nil {
		results = []model.RunResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}

// ExportCSV writes results as CSV in run order. Keywords are joined the
// same way they are stored.
func ExportCSV(w io.Writer, results []model.RunResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range results {
		row := []string{r.URL, model.KeywordsFrom(r.Keywords), r.Sentiment.String(), r.Snippet}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", r.URL, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// ExportFile writes results to path, creating parent directories. The file
// is readable by the owner only, since snippets may contain sensitive text.
func ExportFile(path string, format Format, results []model.RunResult) (err error) {
	if format != FormatJSON && format != FormatCSV {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close export file: %w", cerr)
		}
	}()

	return Export(f, format, results)
}
