// Package remote implements the client for the remote CRM store that holds
// the durable inspection records. The package owns the wire schema mapping
// and the access-token lifecycle; everything above it works with domain
// records only.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrNoToken indicates that no access token could be acquired. The caller
// must treat this as "cannot sync now", not as a fatal error: the queue stays
// intact and the user retries after re-authenticating.
var ErrNoToken = errors.New("no access token available")

// TokenProvider supplies bearer tokens for the remote store.
//
// AccessToken may serve a cached token. Refresh must discard any cache and
// acquire a fresh token; the client calls it exactly once after a 401 before
// giving up.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// StaticTokenProvider returns a fixed token. Used in tests and for
// pre-provisioned station credentials. An empty token means "not signed in".
type StaticTokenProvider struct {
	Token string
}

// AccessToken implements TokenProvider.
func (p *StaticTokenProvider) AccessToken(context.Context) (string, error) {
	if p.Token == "" {
		return "", ErrNoToken
	}
	return p.Token, nil
}

// Refresh implements TokenProvider. A static token cannot be refreshed, so a
// second auth failure surfaces as final.
func (p *StaticTokenProvider) Refresh(context.Context) (string, error) {
	if p.Token == "" {
		return "", ErrNoToken
	}
	return p.Token, nil
}

// ClientCredentialsProvider acquires tokens from an OAuth2 client-credentials
// endpoint and caches them, refreshing 60 seconds before expiry. The cache is
// guarded with a double-checked RWMutex so concurrent requests share one
// token fetch.
type ClientCredentialsProvider struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scope        string

	httpClient *http.Client

	mu          sync.RWMutex
	tokenCache  string
	tokenExpire time.Time
}

// NewClientCredentialsProvider builds a provider with a 30 second HTTP timeout.
func NewClientCredentialsProvider(tokenURL, clientID, clientSecret, scope string) *ClientCredentialsProvider {
	return &ClientCredentialsProvider{
		TokenURL:     tokenURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scope:        scope,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// AccessToken returns the cached token when still valid, otherwise fetches a
// new one.
func (p *ClientCredentialsProvider) AccessToken(ctx context.Context) (string, error) {
	p.mu.RLock()
	if p.tokenCache != "" && time.Now().Before(p.tokenExpire) {
		token := p.tokenCache
		p.mu.RUnlock()
		return token, nil
	}
	p.mu.RUnlock()

	return p.fetch(ctx, false)
}

// Refresh discards the cache and acquires a fresh token.
func (p *ClientCredentialsProvider) Refresh(ctx context.Context) (string, error) {
	return p.fetch(ctx, true)
}

func (p *ClientCredentialsProvider) fetch(ctx context.Context, force bool) (string, error) {
	if p.ClientID == "" || p.ClientSecret == "" || p.TokenURL == "" {
		return "", ErrNoToken
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another request may have refreshed the token while we waited.
	if !force && p.tokenCache != "" && time.Now().Before(p.tokenExpire) {
		return p.tokenCache, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {p.ClientID},
		"client_secret": {p.ClientSecret},
		"scope":         {p.Scope},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token endpoint returned %s", ErrNoToken, resp.Status)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if result.AccessToken == "" {
		return "", ErrNoToken
	}

	// Expire the cache 60 seconds early so in-flight requests never carry a
	// token that lapses mid-call.
	p.tokenCache = result.AccessToken
	p.tokenExpire = time.Now().Add(time.Duration(result.ExpiresIn-60) * time.Second)
	return result.AccessToken, nil
}
