package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/onionwatch/internal/model"
)

// DBFileName is the SQLite file created inside the database directory.
// The name matches databases written by earlier releases so they are
// picked up without a copy.
const DBFileName = "darkweb_data.db"

// RecordDB stores scraped records in a local SQLite file.
//
// Design decision: We keep one database file for every run rather than a
// file per run or per target. Notifications and the records command read
// the whole history, which is then a single query.
type RecordDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RecordDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RecordDB in dbDir and initializes its schema.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RecordDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s (use CreateIfNotExists option to create)", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a new file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RecordDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.Initialize(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return rdb, nil
}

// Path returns the database file path.
func (rdb *RecordDB) Path() string {
	return rdb.dbPath
}

// Close closes the database connection.
func (rdb *RecordDB) Close() error {
	return rdb.db.Close()
}

// Initialize creates or migrates the schema.
func (rdb *RecordDB) Initialize(ctx context.Context) error {
	if err := migrate(ctx, rdb.db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Insert appends record and returns its id. record.ID is updated as well.
// Each insert commits on its own.
func (rdb *RecordDB) Insert(ctx context.Context, record *model.ScrapedRecord) (int64, error) {
	if record == nil {
		return 0, ErrNilRecord
	}

	query := `
	INSERT INTO scraped_data (url, keywords, sentiment, content_snippet)
	VALUES (?, ?, ?, ?)
	`

	result, err := rdb.db.ExecContext(ctx, query,
		record.URL,
		record.Keywords,
		string(record.Sentiment),
		record.ContentSnippet,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert record for %s: %w", record.URL, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get record id: %w", err)
	}
	record.ID = id
	return id, nil
}

// Records returns all records ordered by id.
func (rdb *RecordDB) Records(ctx context.Context) ([]model.ScrapedRecord, error) {
	query := `
	SELECT id, url, keywords, sentiment, content_snippet
	FROM scraped_data
	ORDER BY id ASC
	`

	rows, err := rdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := []model.ScrapedRecord{}
	for rows.Next() {
		var (
			rec                          model.ScrapedRecord
			keywords, sentiment, snippet sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.URL, &keywords, &sentiment, &snippet); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec.Keywords = keywords.String
		rec.Sentiment = model.Sentiment(sentiment.String)
		rec.ContentSnippet = snippet.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}

// Count returns the number of stored records.
func (rdb *RecordDB) Count(ctx context.Context) (int, error) {
	var n int
	if err := rdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM scraped_data").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}
