package cache

import (
	"context"
	"errors"
	"time"

	"ytcurator/domain/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoBackend stores each namespace in its own collection, one document per key
type MongoBackend struct {
	client *mongo.Client
	db     *mongo.Database
}

type mongoEntry struct {
	Key       string     `bson:"key"`
	Data      []byte     `bson:"data"`
	Timestamp time.Time  `bson:"timestamp"`
	ExpiresAt *time.Time `bson:"expiresAt,omitempty"`
}

// NewMongoBackend connects lazily; call Ping to verify the server is reachable
func NewMongoBackend(uri, database string, connectTimeout time.Duration) (*MongoBackend, error) {
	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, err
	}
	return &MongoBackend{client: client, db: client.Database(database)}, nil
}

func (m *MongoBackend) Find(ctx context.Context, namespace, key string) (*model.CacheEntry, error) {
	var doc mongoEntry
	err := m.db.Collection(namespace).FindOne(ctx, bson.D{{Key: "key", Value: key}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model.CacheEntry{
		Key:       doc.Key,
		Data:      doc.Data,
		Timestamp: doc.Timestamp,
		ExpiresAt: doc.ExpiresAt,
	}, nil
}

func (m *MongoBackend) Upsert(ctx context.Context, namespace string, entry *model.CacheEntry) error {
	doc := mongoEntry{
		Key:       entry.Key,
		Data:      entry.Data,
		Timestamp: entry.Timestamp,
		ExpiresAt: entry.ExpiresAt,
	}
	_, err := m.db.Collection(namespace).ReplaceOne(ctx,
		bson.D{{Key: "key", Value: entry.Key}},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (m *MongoBackend) Remove(ctx context.Context, namespace, key string) error {
	_, err := m.db.Collection(namespace).DeleteOne(ctx, bson.D{{Key: "key", Value: key}})
	return err
}

func (m *MongoBackend) RemoveAll(ctx context.Context, namespace string) error {
	_, err := m.db.Collection(namespace).DeleteMany(ctx, bson.D{})
	return err
}

func (m *MongoBackend) Namespaces(ctx context.Context) ([]string, error) {
	return m.db.ListCollectionNames(ctx, bson.D{})
}

func (m *MongoBackend) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoBackend) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
