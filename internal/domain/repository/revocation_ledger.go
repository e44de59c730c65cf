package repository

import (
	"context"
	"time"
)

// RevocationLedger records bearer tokens that must no longer be honoured
// even though they have not expired. Implementations must be safe for
// concurrent use and may forget a token once expiresAt has passed.
type RevocationLedger interface {
	// Revoke is idempotent.
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
