package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// ExpiryFunc resolves the embedded expiry of a token string, reporting false
// when the token cannot be decoded.
type ExpiryFunc func(token string) (time.Time, bool)

// RevocationRegistry is a concurrency-safe record of tokens that must no
// longer validate regardless of their embedded expiry. It is constructed once
// at startup and passed by handle to every consumer.
type RevocationRegistry struct {
	mu       sync.RWMutex
	revoked  map[string]time.Time
	expiryOf ExpiryFunc
}

// NewRevocationRegistry creates an empty registry.
func NewRevocationRegistry() *RevocationRegistry {
	return &RevocationRegistry{revoked: make(map[string]time.Time)}
}

// SetExpiryResolver installs the function used to record each revoked
// token's own expiry, which bounds how long its entry is retained. Called
// once during wiring, before the registry receives traffic.
func (r *RevocationRegistry) SetExpiryResolver(fn ExpiryFunc) {
	r.expiryOf = fn
}

// Revoke records the token as revoked. A single leading "Bearer " transport
// prefix is stripped before storing; lookups must use the stripped form.
// Idempotent.
func (r *RevocationRegistry) Revoke(tokenOrBearer string) {
	token := strings.TrimPrefix(tokenOrBearer, bearerPrefix)

	var expiresAt time.Time
	if r.expiryOf != nil {
		if exp, ok := r.expiryOf(token); ok {
			expiresAt = exp
		}
	}

	r.mu.Lock()
	r.revoked[token] = expiresAt
	r.mu.Unlock()
}

// IsRevoked reports membership for the exact string given. No prefix
// normalization happens here: a still-prefixed lookup of a token revoked in
// prefixed form returns false, since Revoke stored the stripped form.
func (r *RevocationRegistry) IsRevoked(token string) bool {
	r.mu.RLock()
	_, ok := r.revoked[token]
	r.mu.RUnlock()
	return ok
}

// Len returns the number of tracked revocations.
func (r *RevocationRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.revoked)
}

// Sweep drops entries whose embedded expiry has passed and returns how many
// were removed. Entries with no known expiry are kept.
func (r *RevocationRegistry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for token, expiresAt := range r.revoked {
		if !expiresAt.IsZero() && !now.Before(expiresAt) {
			delete(r.revoked, token)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until the context is
// canceled.
func (r *RevocationRegistry) StartSweeper(ctx context.Context, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if removed := r.Sweep(now); removed > 0 {
					logger.Debug("swept expired revocations", zap.Int("removed", removed))
				}
			}
		}
	}()
}
