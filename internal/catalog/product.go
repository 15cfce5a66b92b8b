package catalog

import (
	"context"
	"errors"
	"time"
)

type Product struct {
	ID              int64     `bson:"id" json:"id"`
	Name            string    `bson:"name" json:"name"`
	Image           string    `bson:"image" json:"image"`
	Category        string    `bson:"category" json:"category"`
	PriceCents      int64     `bson:"price_cents" json:"price_cents"`
	OfferPriceCents int64     `bson:"offer_price_cents" json:"offer_price_cents"`
	Available       bool      `bson:"available" json:"available"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}

var ErrNotFound = errors.New("product not found")

// Store persists the product catalog. Products are inserted and hard
// deleted, never mutated. Ids are human-facing numerics assigned
// max(existing)+1 at insert; deleting one leaves every other product and
// any cart referencing it untouched.
type Store interface {
	Insert(ctx context.Context, p Product) (Product, error)
	ListAll(ctx context.Context) ([]Product, error)

	// ListRecent returns the n most recently inserted products, newest
	// first.
	ListRecent(ctx context.Context, n int) ([]Product, error)

	// ListByCategory returns the first n products of a category in
	// insertion order.
	ListByCategory(ctx context.Context, category string, n int) ([]Product, error)

	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
