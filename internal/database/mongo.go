package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nao1215/onionwatch/internal/model"
)

const (
	recordsCollection  = "scraped_data"
	countersCollection = "counters"
)

// MongoStore keeps scraped records in MongoDB. Ids come from a counter
// document so they increase the same way SQLite rowids do.
type MongoStore struct {
	client   *mongo.Client
	records  *mongo.Collection
	counters *mongo.Collection
}

// OpenMongo connects to uri, pings the server and initializes the collections.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(database)
	store := &MongoStore{
		client:   client,
		records:  db.Collection(recordsCollection),
		counters: db.Collection(countersCollection),
	}

	if err := store.Initialize(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return store, nil
}

// Initialize creates the unique id index. Creating an existing index is a no-op.
func (s *MongoStore) Initialize(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.records.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create id index: %w", err)
	}
	return nil
}

// nextID atomically increments and returns the record counter.
func (s *MongoStore) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": recordsCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate record id: %w", err)
	}
	return counter.Seq, nil
}

// Insert appends record and returns its id.
func (s *MongoStore) Insert(ctx context.Context, record *model.ScrapedRecord) (int64, error) {
	if record == nil {
		return 0, ErrNilRecord
	}

	id, err := s.nextID(ctx)
	if err != nil {
		return 0, err
	}

	doc := *record
	doc.ID = id
	if _, err := s.records.InsertOne(ctx, doc); err != nil {
		return 0, fmt.Errorf("failed to insert record for %s: %w", record.URL, err)
	}

	record.ID = id
	return id, nil
}

// Records returns all records ordered by id.
func (s *MongoStore) Records(ctx context.Context) ([]model.ScrapedRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "id", Value: 1}}).
		SetProjection(bson.M{"_id": 0})

	cursor, err := s.records.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer cursor.Close(ctx)

	records := []model.ScrapedRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *MongoStore) Count(ctx context.Context) (int, error) {
	n, err := s.records.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return int(n), nil
}

// Close disconnects from the server.
func (s *MongoStore) Close() error {
	if err := s.client.Disconnect(context.Background()); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}
