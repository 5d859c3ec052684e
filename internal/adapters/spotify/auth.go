package spotify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// tokenCache holds a client-credentials token and refreshes it once the
// clock is within skew of its expiry.
type tokenCache struct {
	cfg   *clientcredentials.Config
	clock clockwork.Clock
	skew  time.Duration

	mu        sync.Mutex
	token     *oauth2.Token
	expiresAt time.Time
	fetches   int
}

func newTokenCache(cfg *clientcredentials.Config, clock clockwork.Clock, skew time.Duration) *tokenCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &tokenCache{cfg: cfg, clock: clock, skew: skew}
}

// Token returns the cached token or exchanges the client credentials for a new one.
func (c *tokenCache) Token(ctx context.Context) (*oauth2.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != nil && c.fresh() {
		return c.token, nil
	}

	tok, err := c.cfg.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: client credentials exchange: %w", err)
	}
	c.fetches++
	c.token = tok
	c.expiresAt = time.Time{}
	if !tok.Expiry.IsZero() {
		c.expiresAt = c.clock.Now().Add(time.Until(tok.Expiry))
	}
	log.Debug().Time("expires_at", c.expiresAt).Msg("spotify adapter: fetched access token")
	return tok, nil
}

func (c *tokenCache) fresh() bool {
	if c.expiresAt.IsZero() {
		return true
	}
	return c.clock.Now().Add(c.skew).Before(c.expiresAt)
}

// Invalidate drops the cached token so the next call re-authenticates.
func (c *tokenCache) Invalidate() {
	c.mu.Lock()
	c.token = nil
	c.mu.Unlock()
}

// authTransport adds the bearer token to each request. A 401 response
// invalidates the token and the request is sent once more with a new one.
type authTransport struct {
	tokens *tokenCache
	base   http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.send(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	log.Warn().Str("url", req.URL.Path).Msg("spotify adapter: token rejected, re-authenticating")
	t.tokens.Invalidate()
	return t.send(req)
}

func (t *authTransport) send(req *http.Request) (*http.Response, error) {
	tok, err := t.tokens.Token(req.Context())
	if err != nil {
		return nil, err
	}
	r := req.Clone(req.Context())
	tok.SetAuthHeader(r)
	return t.base.RoundTrip(r)
}
