package account

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// SeededSlots is the number of zero-count cart entries created at signup.
// Item ids at or beyond this range appear only when added dynamically.
const SeededSlots = 100

// Cart maps an item id to a non-negative held quantity. Item ids are opaque
// keys; nothing ties them to catalog product ids.
type Cart map[string]int

// NewSeededCart returns a cart with slots "0".."99" at zero.
func NewSeededCart() Cart {
	c := make(Cart, SeededSlots)
	for i := 0; i < SeededSlots; i++ {
		c[strconv.Itoa(i)] = 0
	}
	return c
}

type Account struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash []byte    `bson:"password_hash" json:"-"`
	Cart         Cart      `bson:"cart" json:"cart"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

var (
	ErrEmailExists   = errors.New("email already exists")
	ErrNotFound      = errors.New("account not found")
	ErrItemNotInCart = errors.New("item not in cart")
)

// Store persists accounts and their embedded carts. Cart mutations are
// atomic at this layer: two concurrent increments for the same account must
// both be observed, never lost to a read-modify-write race.
type Store interface {
	Create(ctx context.Context, a Account) error
	FindByEmail(ctx context.Context, email string) (Account, error)
	FindByID(ctx context.Context, id string) (Account, error)

	// IncrementItem adds one to cart[itemID], creating the key at 1 if
	// absent, and returns the new count.
	IncrementItem(ctx context.Context, accountID, itemID string) (int, error)

	// DecrementItem subtracts one from cart[itemID] and returns the new
	// count. Fails with ErrItemNotInCart when the entry is absent or zero;
	// the cart is left unchanged in that case.
	DecrementItem(ctx context.Context, accountID, itemID string) (int, error)

	Cart(ctx context.Context, accountID string) (Cart, error)
	Ping(ctx context.Context) error
}
