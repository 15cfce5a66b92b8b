package catalog

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	listTimeout  = 5 * time.Second
)

type MongoStore struct {
	products *mongo.Collection
}

func NewMongoStore(products *mongo.Collection) *MongoStore {
	return &MongoStore{products: products}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.products.Database().Client().Ping(ctx, readpref.Primary())
	})
}

func (s *MongoStore) Insert(ctx context.Context, p Product) (Product, error) {
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		id, err := s.nextID(ctx)
		if err != nil {
			return err
		}
		p.ID = id
		p.CreatedAt = time.Now().UTC()

		_, err = s.products.InsertOne(ctx, p)
		return err
	})
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

// nextID assigns max(existing)+1. Concurrent inserts can still collide,
// matching the observed id policy; the descending id index keeps the
// lookup cheap.
func (s *MongoStore) nextID(ctx context.Context) (int64, error) {
	var last Product
	err := s.products.FindOne(ctx,
		bson.M{},
		options.FindOne().
			SetSort(bson.D{{Key: "id", Value: -1}}).
			SetProjection(bson.M{"id": 1}),
	).Decode(&last)

	if err == mongo.ErrNoDocuments {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return last.ID + 1, nil
}

func (s *MongoStore) ListAll(ctx context.Context) ([]Product, error) {
	return s.list(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
}

func (s *MongoStore) ListRecent(ctx context.Context, n int) ([]Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "id", Value: -1}}).
		SetLimit(int64(n))
	return s.list(ctx, bson.M{}, opts)
}

func (s *MongoStore) ListByCategory(ctx context.Context, category string, n int) ([]Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "id", Value: 1}}).
		SetLimit(int64(n))
	return s.list(ctx, bson.M{"category": category}, opts)
}

func (s *MongoStore) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]Product, error) {
	out := make([]Product, 0, 16)

	err := withTimeout(ctx, listTimeout, func(ctx context.Context) error {
		cursor, err := s.products.Find(ctx, filter, opts)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)

		return cursor.All(ctx, &out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id int64) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.products.DeleteOne(ctx, bson.M{"id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
