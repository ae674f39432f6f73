package session

import (
	"context"
	"time"
)

// Session carries the authenticated wallet for one browser session. The
// reconciliation layer only ever reads the wallet address from it.
type Session struct {
	UserID int64  `json:"user_id"`
	Wallet string `json:"wallet_address"`
}

// Store persists sessions keyed by an opaque token.
type Store interface {
	// Create stores s and returns its token.
	Create(ctx context.Context, s Session, ttl time.Duration) (string, error)
	// Get returns the session for token, or nil when absent or expired.
	Get(ctx context.Context, token string) (*Session, error)
	// Delete removes the session for token. Deleting an unknown token is
	// not an error.
	Delete(ctx context.Context, token string) error
}
