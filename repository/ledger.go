package repository

import (
	"context"
	"errors"
	"time"

	"github.com/atmacsn/agriadmin/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// TokenLedger records revoked tokens. Entries disappear once their expiry
// passes through the TTL index on expiresAt.
type TokenLedger struct {
	store RevokedStore
}

func NewTokenLedger(store RevokedStore) *TokenLedger {
	return &TokenLedger{store: store}
}

// Revoke is idempotent: revoking a token twice is not an error.
func (l *TokenLedger) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := l.Claim(ctx, token, expiresAt)
	return err
}

// Claim revokes token and reports whether this call was the one that did it.
// The unique index on token decides between concurrent callers.
func (l *TokenLedger) Claim(ctx context.Context, token string, expiresAt time.Time) (bool, error) {
	_, err := l.store.Insert(ctx, &models.RevokedToken{
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	})
	if errors.Is(err, ErrDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *TokenLedger) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := l.store.Count(ctx, bson.M{"token": token})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
