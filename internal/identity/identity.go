// Package identity establishes and persists the anonymous tenant token on
// the client side. Resolution order: token embedded in the navigation
// path, then the local cache file, then a freshly minted token from the
// server. Whatever wins is cached so later sessions reuse it.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrIdentity marks a fatal resolution failure: callers must not attempt
// any data operation without a resolved token.
var ErrIdentity = errors.New("cannot establish identity")

var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{6,32}$`)

// IsValid reports whether s is syntactically a tenant token.
func IsValid(s string) bool {
	return tokenPattern.MatchString(s)
}

// Resolver resolves and caches the active tenant token.
type Resolver struct {
	BaseURL   string
	AppKey    string
	CachePath string
	Client    *http.Client
}

// NewResolver creates a resolver against the given server.
func NewResolver(baseURL, appKey, cachePath string) *Resolver {
	return &Resolver{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		AppKey:    appKey,
		CachePath: cachePath,
		Client:    http.DefaultClient,
	}
}

// Resolve returns the active token. navPath is the client's current
// navigation path (e.g. "/Ab3xY9_k12"); its first segment wins when it
// looks like a token. Every error wraps ErrIdentity.
func (r *Resolver) Resolve(ctx context.Context, navPath string) (string, error) {
	if tok := firstSegment(navPath); IsValid(tok) {
		if err := r.cache(tok); err != nil {
			return "", err
		}
		return tok, nil
	}

	if data, err := os.ReadFile(r.CachePath); err == nil {
		if tok := strings.TrimSpace(string(data)); IsValid(tok) {
			return tok, nil
		}
	}

	tok, err := r.mint(ctx)
	if err != nil {
		return "", err
	}
	if err := r.cache(tok); err != nil {
		return "", err
	}
	return tok, nil
}

// mint requests a fresh token from the server. This is the one call that
// carries no user token, only the app key.
func (r *Resolver) mint(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+"/generate-short-token", nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIdentity, err)
	}
	req.Header.Set("x-app-key", r.AppKey)

	resp, err := r.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetch token: %v", ErrIdentity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: server returned status %d", ErrIdentity, resp.StatusCode)
	}

	var body struct {
		ShortToken string `json:"shortToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrIdentity, err)
	}
	if !IsValid(body.ShortToken) {
		return "", fmt.Errorf("%w: malformed token from server: %q", ErrIdentity, body.ShortToken)
	}
	return body.ShortToken, nil
}

func (r *Resolver) cache(tok string) error {
	if err := os.MkdirAll(filepath.Dir(r.CachePath), 0o755); err != nil {
		return fmt.Errorf("%w: cache token: %v", ErrIdentity, err)
	}
	if err := os.WriteFile(r.CachePath, []byte(tok), 0o600); err != nil {
		return fmt.Errorf("%w: cache token: %v", ErrIdentity, err)
	}
	return nil
}

func firstSegment(navPath string) string {
	return strings.SplitN(strings.TrimPrefix(navPath, "/"), "/", 2)[0]
}

// AuthHeaders returns the headers every data request must carry once a
// token is resolved.
func AuthHeaders(appKey, token string) map[string]string {
	return map[string]string{
		"x-app-key":    appKey,
		"x-user-token": token,
		"Content-Type": "application/json",
	}
}
