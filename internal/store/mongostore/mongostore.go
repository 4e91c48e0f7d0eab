// Package mongostore is the remote document-database adapter backed by
// MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"communishare-be/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", store.ErrUnavailable, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("%w: ping: %v", store.ErrUnavailable, err)
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

func (s *Store) GetCollection(ctx context.Context, collection string) ([]store.Document, error) {
	return s.find(ctx, collection, bson.M{})
}

func (s *Store) GetDocument(ctx context.Context, collection, id string) (store.Document, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s/%s: %v", store.ErrUnavailable, collection, id, err)
	}
	return fromBSON(doc), nil
}

func (s *Store) SetDocument(ctx context.Context, collection, id string, doc store.Document) error {
	replacement := toBSON(doc)
	replacement["_id"] = id
	_, err := s.db.Collection(collection).ReplaceOne(ctx,
		bson.M{"_id": id}, replacement, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%w: set %s/%s: %v", store.ErrUnavailable, collection, id, err)
	}
	return nil
}

func (s *Store) UpdateDocument(ctx context.Context, collection, id string, fields store.Document) error {
	res, err := s.db.Collection(collection).UpdateOne(ctx,
		bson.M{"_id": id}, bson.M{"$set": toBSON(fields)})
	if err != nil {
		return fmt.Errorf("%w: update %s/%s: %v", store.ErrUnavailable, collection, id, err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("%w: delete %s/%s: %v", store.ErrUnavailable, collection, id, err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Query(ctx context.Context, collection, field, value string) ([]store.Document, error) {
	return s.find(ctx, collection, bson.M{field: value})
}

// IncrementField uses an aggregation-pipeline update so the add-and-clamp is
// a single atomic server-side operation.
func (s *Store) IncrementField(ctx context.Context, collection, id, field string, delta int) error {
	pipeline := bson.A{bson.M{
		"$set": bson.M{
			field: bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{
				bson.M{"$ifNull": bson.A{"$" + field, 0}}, delta,
			}}}},
		},
	}}
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, pipeline)
	if err != nil {
		return fmt.Errorf("%w: increment %s/%s.%s: %v", store.ErrUnavailable, collection, id, field, err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) find(ctx context.Context, collection string, filter bson.M) ([]store.Document, error) {
	cur, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", store.ErrUnavailable, collection, err)
	}
	defer cur.Close(ctx)

	var docs []store.Document
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", store.ErrUnavailable, collection, err)
		}
		docs = append(docs, fromBSON(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: cursor %s: %v", store.ErrUnavailable, collection, err)
	}
	return docs, nil
}

func toBSON(doc store.Document) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func fromBSON(doc bson.M) store.Document {
	out := make(store.Document, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		out[k] = v
	}
	return out
}
