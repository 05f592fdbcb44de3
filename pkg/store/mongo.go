package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/erlab/resolver"
)

// MongoSource is a ReferenceSource backed by a MongoDB collection: each
// document is converted into a Reference via the supplied Schema, keyed by
// its top-level fields (minus "_id" and "_metadata").
type MongoSource struct {
	collection *mongo.Collection
	schema     *resolver.Schema
	cursor     *mongo.Cursor
}

// NewMongoSource connects to uri and prepares to stream documents from
// database.collection, each converted via schema.
func NewMongoSource(ctx context.Context, uri, database, collection string, schema *resolver.Schema) (*MongoSource, error) {
	if uri == "" {
		return nil, errors.New("store: mongo uri is required")
	}
	if schema == nil {
		return nil, errors.New("store: schema is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	coll := client.Database(database).Collection(collection)
	return &MongoSource{collection: coll, schema: schema}, nil
}

// Next fetches and converts the next document. The underlying cursor is
// opened lazily on the first call.
func (s *MongoSource) Next(ctx context.Context) (*resolver.Reference, bool, error) {
	if s.cursor == nil {
		cur, err := s.collection.Find(ctx, bson.D{})
		if err != nil {
			return nil, false, err
		}
		s.cursor = cur
	}
	if !s.cursor.Next(ctx) {
		if err := s.cursor.Err(); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}

	var doc bson.M
	if err := s.cursor.Decode(&doc); err != nil {
		return nil, false, err
	}

	metadata := doc["_metadata"]
	delete(doc, "_id")
	delete(doc, "_metadata")

	values := make(map[string]any, len(doc))
	for k, v := range doc {
		values[k] = v
	}

	ref, err := s.schema.New(values, metadata)
	if err != nil {
		return nil, false, err
	}
	return ref, true, nil
}

// Close releases the underlying cursor, if one was opened.
func (s *MongoSource) Close(ctx context.Context) error {
	if s.cursor == nil {
		return nil
	}
	return s.cursor.Close(ctx)
}
