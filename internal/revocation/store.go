// Package revocation provides the denylist that makes logout effective
// before a token's natural expiry. Entries carry a TTL equal to the token's
// remaining lifetime, so the store never retains an entry for a token that
// has already expired on its own.
package revocation

import (
	"context"
	"time"
)

// Store is a key-value denylist with per-key TTL. Absence of a key means
// "not revoked", not "valid": signature and expiry checks still apply.
type Store interface {
	// Blacklist records the token for ttl. ttl must be positive.
	Blacklist(ctx context.Context, token string, ttl time.Duration) error

	// IsBlacklisted reports whether the token is currently denylisted.
	IsBlacklisted(ctx context.Context, token string) (bool, error)

	Close() error
}
