package notify

import (
	"context"
	"io"
	"log/slog"

	"github.com/nao1215/onionwatch/internal/database"
	"github.com/nao1215/onionwatch/internal/model"
	"github.com/nao1215/onionwatch/internal/report"
)

// Subject is the subject line of every notification.
const Subject = report.RecordsTitle

// Notifier delivers all stored records to recipient.
type Notifier interface {
	Notify(ctx context.Context, recipient string) error
}

// loadRecords reads every record, or returns ErrNoRecords.
func loadRecords(ctx context.Context, store database.Store, logger *slog.Logger) ([]model.ScrapedRecord, error) {
	records := database.FetchAll(ctx, store, logger)
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
