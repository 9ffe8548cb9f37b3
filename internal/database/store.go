package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/onionwatch/internal/config"
	"github.com/nao1215/onionwatch/internal/model"
)

// Store is append-only storage for scraped records.
type Store interface {
	// Initialize creates the schema if it does not exist. It is idempotent
	// and never alters existing rows.
	Initialize(ctx context.Context) error

	// Insert appends a record and returns its newly assigned id.
	Insert(ctx context.Context, record *model.ScrapedRecord) (int64, error)

	// Records returns every stored record in ascending id order.
	Records(ctx context.Context) ([]model.ScrapedRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying connection.
	Close() error
}

// FetchAll returns every record in store. A read failure is logged and an
// empty slice is returned, so callers cannot tell "no rows" from "read
// failed" without looking at the log.
func FetchAll(ctx context.Context, store Store, logger *slog.Logger) []model.ScrapedRecord {
	records, err := store.Records(ctx)
	if err != nil {
		if logger != nil {
			logger.Error("failed to read stored records", "error", err)
		}
		return []model.ScrapedRecord{}
	}
	return records
}

// OpenStore opens the backend selected by cfg.StorageDriver and initializes it.
func OpenStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case config.StorageSQLite, "":
		return Open(cfg.DBDir, DefaultOptions())
	case config.StorageMongoDB:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.StorageDriver)
	}
}
