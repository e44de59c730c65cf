package helpers

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// ErrPasswordTooLong is returned for plaintext bcrypt cannot represent (over 72 bytes).
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// PasswordHasher hashes and verifies passwords with bcrypt.
// Hashing is CPU bound, so at most `concurrency` computations run at once;
// callers beyond that wait on their request context.
type PasswordHasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewPasswordHasher clamps cost into bcrypt's accepted range.
func NewPasswordHasher(cost, concurrency int) *PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &PasswordHasher{cost: cost, sem: semaphore.NewWeighted(int64(concurrency))}
}

// Hash hashes the plain text password using bcrypt
func (h *PasswordHasher) Hash(ctx context.Context, plain string) (string, error) {
	if len(plain) > 72 {
		return "", ErrPasswordTooLong
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compares a bcrypt hash with a plain password. A malformed hash,
// a mismatch and a cancelled context all report false.
func (h *PasswordHasher) Verify(ctx context.Context, plain, hash string) bool {
	if hash == "" {
		return false
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Cost reports the work factor stored in hash.
func (h *PasswordHasher) Cost(hash string) (int, bool) {
	c, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return 0, false
	}
	return c, true
}
