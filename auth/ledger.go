package auth

import (
	"context"
	"time"
)

// Ledger holds tokens revoked before their natural expiry.
type Ledger interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	// Claim revokes token and returns false when it was already revoked.
	Claim(ctx context.Context, token string, expiresAt time.Time) (bool, error)
}
