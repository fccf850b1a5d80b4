package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("session token is invalid")

// Claims are the signed payload of a session token: the account it belongs
// to plus the registered claims (jti, iat, exp).
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
}

type Issuer struct {
	ledger *Ledger
	secret []byte
	ttl    time.Duration
}

func NewIssuer(ledger *Ledger, secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{
		ledger: ledger,
		secret: secret,
		ttl:    ttl,
	}
}

// Issue mints a signed token with a fresh jti and records the jti in the
// allow-list. The returned jti is what sign-out later revokes.
func (i *Issuer) Issue(ctx context.Context, accountID string) (token string, jti string, err error) {
	jti = uuid.NewString()
	now := time.Now()
	expiresAt := now.Add(i.ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		AccountID: accountID,
	})

	token, err = t.SignedString(i.secret)
	if err != nil {
		return "", "", err
	}

	if err := i.ledger.Add(ctx, jti, accountID, expiresAt); err != nil {
		return "", "", err
	}

	return token, jti, nil
}

// Validate checks signature and expiry first, then the allow-list. Garbage
// tokens are rejected by the cheap cryptographic check alone; only tokens
// that pass it cost a ledger lookup.
func (i *Issuer) Validate(ctx context.Context, token string) (accountID string, jti string, err error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return i.secret, nil
	})
	if err != nil || !t.Valid {
		return "", "", ErrInvalidToken
	}

	if claims.ID == "" || claims.AccountID == "" {
		return "", "", ErrInvalidToken
	}

	active, err := i.ledger.Contains(ctx, claims.ID)
	if err != nil {
		return "", "", err
	}
	if !active {
		return "", "", ErrInvalidToken
	}

	return claims.AccountID, claims.ID, nil
}

// Revoke removes the jti from the allow-list. Revoking twice is a no-op.
func (i *Issuer) Revoke(ctx context.Context, jti string) error {
	return i.ledger.Remove(ctx, jti)
}
