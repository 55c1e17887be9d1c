package ledgerRepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// record is the stored shape of one ledger entry.
type record struct {
	Key       string    `bson:"key"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoStore implements Store on a single MongoDB collection of
// {key, value, updatedAt} documents. Writes are acknowledged (durable)
// before Put returns, so mutations made under WithKeyLock are durable before
// the lock is released.
type MongoStore struct {
	coll  *mongo.Collection
	locks keyMutex
}

// NewMongoStore creates the store and ensures the unique key index.
func NewMongoStore(db *mongo.Database) (*MongoStore, error) {
	coll := db.Collection("ledger")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("ledger: create key index: %w", err)
	}
	return &MongoStore{coll: coll}, nil
}

func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rec record
	err := s.coll.FindOne(ctx, bson.M{"key": key}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: get %q: %w", key, err)
	}
	return rec.Value, nil
}

func (s *MongoStore) Put(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.coll.UpdateOne(ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{"value": value, "updatedAt": time.Now()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("ledger: put %q: %w", key, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.coll.DeleteOne(ctx, bson.M{"key": key}); err != nil {
		return fmt.Errorf("ledger: delete %q: %w", key, err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"key": bson.M{
		"$gte": prefix,
		"$lt":  prefixUpperBound(prefix),
	}}
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("ledger: list %q: %w", prefix, err)
	}
	defer cursor.Close(ctx)

	out := make(map[string][]byte)
	for cursor.Next(ctx) {
		var rec record
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("ledger: list %q: %w", prefix, err)
		}
		out[rec.Key] = rec.Value
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("ledger: list %q: %w", prefix, err)
	}
	return out, nil
}

func (s *MongoStore) WithKeyLock(key string, fn func() error) error {
	return s.locks.withLock(key, fn)
}

// prefixUpperBound returns the smallest key greater than every key with the
// given prefix, for a range scan on the unique key index.
func prefixUpperBound(prefix string) string {
	if prefix == "" {
		return "\xff"
	}
	b := []byte(strings.Clone(prefix))
	b[len(b)-1]++
	return string(b)
}
