package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long a session token stays valid. Expiry is the only
// termination path: there is no revocation list and no refresh.
const TokenTTL = time.Hour

var (
	ErrTokenMissing = errors.New("token missing")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

type TokenMaker struct {
	secret []byte
	issuer string
}

// NewTokenMaker builds a HS256 signer. The secret comes from process
// configuration; it is never a compiled-in literal.
func NewTokenMaker(secret string) *TokenMaker {
	return &TokenMaker{
		secret: []byte(secret),
		issuer: "storefront",
	}
}

type claims struct {
	jwt.RegisteredClaims
}

// Issue signs a token bound to accountID, expiring TokenTTL from now.
func (t *TokenMaker) Issue(accountID string) (string, error) {
	return t.issueWithTTL(accountID, TokenTTL)
}

func (t *TokenMaker) issueWithTTL(accountID string, ttl time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
}

// Verify returns the account id a token was issued for. Expired tokens are
// reported as ErrTokenExpired so callers can log the distinction, though
// the HTTP boundary surfaces both the same way.
func (t *TokenMaker) Verify(tokenStr string) (string, error) {
	if tokenStr == "" {
		return "", ErrTokenMissing
	}

	var c claims
	token, err := jwt.ParseWithClaims(tokenStr, &c, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if token == nil || !token.Valid {
		return "", ErrTokenInvalid
	}

	if c.Issuer != t.issuer || c.Subject == "" {
		return "", ErrTokenInvalid
	}

	return c.Subject, nil
}
