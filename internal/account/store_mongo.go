package account

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
)

// MongoStore keeps one document per account with the cart embedded. All
// cart mutations are single-document atomic updates ($inc), which is what
// makes concurrent increments safe without any application-level locking.
type MongoStore struct {
	accounts *mongo.Collection
}

func NewMongoStore(accounts *mongo.Collection) *MongoStore {
	return &MongoStore{accounts: accounts}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.accounts.Database().Client().Ping(ctx, readpref.Primary())
	})
}

func (s *MongoStore) Create(ctx context.Context, a Account) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.accounts.InsertOne(ctx, a)
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return err
	})
}

func (s *MongoStore) FindByEmail(ctx context.Context, email string) (Account, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (Account, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (Account, error) {
	var a Account
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.accounts.FindOne(ctx, filter).Decode(&a)
	})
	if err == mongo.ErrNoDocuments {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, err
	}
	return a, nil
}

func (s *MongoStore) IncrementItem(ctx context.Context, accountID, itemID string) (int, error) {
	field := "cart." + itemID

	var updated Account
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.accounts.FindOneAndUpdate(ctx,
			bson.M{"_id": accountID},
			bson.M{"$inc": bson.M{field: 1}},
			options.FindOneAndUpdate().
				SetReturnDocument(options.After).
				SetProjection(bson.M{field: 1}),
		).Decode(&updated)
	})
	if err == mongo.ErrNoDocuments {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	return updated.Cart[itemID], nil
}

func (s *MongoStore) DecrementItem(ctx context.Context, accountID, itemID string) (int, error) {
	field := "cart." + itemID

	var updated Account
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		// The count guard lives in the filter, so absent-or-zero entries
		// never match and the decrement cannot go negative.
		return s.accounts.FindOneAndUpdate(ctx,
			bson.M{"_id": accountID, field: bson.M{"$gt": 0}},
			bson.M{"$inc": bson.M{field: -1}},
			options.FindOneAndUpdate().
				SetReturnDocument(options.After).
				SetProjection(bson.M{field: 1}),
		).Decode(&updated)
	})
	if err == mongo.ErrNoDocuments {
		return 0, s.classifyDecrementMiss(ctx, accountID)
	}
	if err != nil {
		return 0, err
	}

	return updated.Cart[itemID], nil
}

// classifyDecrementMiss tells a missing account apart from a missing or
// zeroed cart entry after a guarded decrement matched nothing.
func (s *MongoStore) classifyDecrementMiss(ctx context.Context, accountID string) error {
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.accounts.FindOne(ctx,
			bson.M{"_id": accountID},
			options.FindOne().SetProjection(bson.M{"_id": 1}),
		).Err()
	})
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrItemNotInCart
}

func (s *MongoStore) Cart(ctx context.Context, accountID string) (Cart, error) {
	a, err := s.findOne(ctx, bson.M{"_id": accountID})
	if err != nil {
		return nil, err
	}
	if a.Cart == nil {
		a.Cart = Cart{}
	}
	return a.Cart, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
