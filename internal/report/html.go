package report

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/nao1215/onionwatch/internal/model"
)

const (
	// RecordsTitle heads the records table in notifications.
	RecordsTitle = "Scraped Dark Web Data"

	// NoDataText is shown instead of a table when there are no records.
	NoDataText = "No data available to display."
)

// RecordsHTML renders records as an HTML document with one table row per
// record. Field text appears literally; markup inside it is escaped.
func RecordsHTML(records []model.ScrapedRecord) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(RecordsMarkdown(records)), &body); err != nil {
		return "", fmt.Errorf("failed to render records as html: %w", err)
	}
	return "<html><body>\n" + body.String() + "</body></html>\n", nil
}
