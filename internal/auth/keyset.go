package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/userdir/userdir-server/internal/logger"
)

// KeyfuncProvider resolves the verification key set for the Authorizer.
type KeyfuncProvider interface {
	Keyfunc(ctx context.Context) (jwt.Keyfunc, error)
}

// KeySetConfig controls how the identity provider's JWK set is fetched
// and cached.
type KeySetConfig struct {
	// URL of the provider's JWK set endpoint.
	URL string
	// RefreshInterval is how often the cached set is refreshed in the
	// background.
	RefreshInterval time.Duration
	// RefreshTimeout bounds a single fetch.
	RefreshTimeout time.Duration
	// RefreshUnknownKID triggers an immediate refetch when a token
	// names a key id that is not cached yet, covering key rotation.
	RefreshUnknownKID bool
}

var _ KeyfuncProvider = (*KeySet)(nil)

// KeySet caches the provider's public keys. The underlying JWK set is
// created lazily so an unreachable provider at startup degrades to
// per-request denials instead of a crash.
type KeySet struct {
	config KeySetConfig
	logger *logger.Logger

	mu   sync.Mutex
	jwks *keyfunc.JWKS
}

// NewKeySet creates a KeySet for the given endpoint.
func NewKeySet(config KeySetConfig, logger *logger.Logger) *KeySet {
	return &KeySet{config: config, logger: logger}
}

// Keyfunc returns the verification keyfunc, fetching the key set on
// first use. Concurrent callers share one fetch.
func (k *KeySet) Keyfunc(ctx context.Context) (jwt.Keyfunc, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.jwks == nil {
		// The set outlives the triggering request, so the request ctx
		// must not drive the background refresh.
		jwks, err := keyfunc.Get(k.config.URL, keyfunc.Options{
			Client:            &http.Client{Timeout: k.config.RefreshTimeout},
			RefreshInterval:   k.config.RefreshInterval,
			RefreshTimeout:    k.config.RefreshTimeout,
			RefreshUnknownKID: k.config.RefreshUnknownKID,
			RefreshErrorHandler: func(err error) {
				k.logger.Error("failed to refresh key set", "error", err)
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch key set: %w", err)
		}
		k.jwks = jwks
	}

	return k.jwks.Keyfunc, nil
}

// Close stops the background refresh.
func (k *KeySet) Close() {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.jwks != nil {
		k.jwks.EndBackground()
		k.jwks = nil
	}
}
