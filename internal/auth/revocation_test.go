package auth

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevokeStripsBearerPrefix(t *testing.T) {
	r := NewRevocationRegistry()

	r.Revoke("Bearer token-abc")

	// Revoke normalizes the transport prefix; IsRevoked does not.
	assert.True(t, r.IsRevoked("token-abc"))
	assert.False(t, r.IsRevoked("Bearer token-abc"))
}

func TestRevokeBareToken(t *testing.T) {
	r := NewRevocationRegistry()

	r.Revoke("token-abc")

	assert.True(t, r.IsRevoked("token-abc"))
	assert.False(t, r.IsRevoked("token-xyz"))
}

func TestRevokeStripsOnlyOnePrefix(t *testing.T) {
	r := NewRevocationRegistry()

	r.Revoke("Bearer Bearer token-abc")

	assert.True(t, r.IsRevoked("Bearer token-abc"))
	assert.False(t, r.IsRevoked("token-abc"))
}

func TestRevokeIdempotent(t *testing.T) {
	r := NewRevocationRegistry()

	r.Revoke("token-abc")
	r.Revoke("token-abc")
	r.Revoke("Bearer token-abc")

	assert.True(t, r.IsRevoked("token-abc"))
	assert.Equal(t, 1, r.Len())
}

func TestRevokeConcurrent(t *testing.T) {
	r := NewRevocationRegistry()

	const n = 64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			r.Revoke(fmt.Sprintf("Bearer token-%d", i))
		}(i)
	}
	wg.Wait()

	require.Equal(t, n, r.Len())
	for i := 0; i < n; i++ {
		assert.True(t, r.IsRevoked(fmt.Sprintf("token-%d", i)))
	}
}

func TestSweepDropsExpiredEntries(t *testing.T) {
	r := NewRevocationRegistry()
	now := time.Now()

	expiries := map[string]time.Time{
		"stale": now.Add(-time.Minute),
		"fresh": now.Add(time.Hour),
	}
	r.SetExpiryResolver(func(token string) (time.Time, bool) {
		exp, ok := expiries[token]
		return exp, ok
	})

	r.Revoke("stale")
	r.Revoke("fresh")
	r.Revoke("unknown")

	removed := r.Sweep(now)

	assert.Equal(t, 1, removed)
	assert.False(t, r.IsRevoked("stale"))
	assert.True(t, r.IsRevoked("fresh"))
	// Entries whose expiry could not be resolved are never swept.
	assert.True(t, r.IsRevoked("unknown"))
}

func TestSweepEmptyRegistry(t *testing.T) {
	r := NewRevocationRegistry()
	assert.Zero(t, r.Sweep(time.Now()))
}
