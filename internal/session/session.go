// Package session binds short-lived flow artifacts to opaque state tokens
// for the demo web app. It carries the secrets that must survive the
// redirect window (the OAuth1 request token secret or the OAuth2 PKCE
// verifier) and consumes them exactly once.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidState indicates a state token with a bad format or signature
	ErrInvalidState = errors.New("invalid state token")

	// ErrStateNotFound indicates an expired or already-consumed state
	ErrStateNotFound = errors.New("unknown or expired state")
)

// Data is the payload held across one redirect window. Exactly one field is
// set per flow: TokenSecret for OAuth1, Verifier for OAuth2.
type Data struct {
	TokenSecret string `json:"token_secret,omitempty"`
	Verifier    string `json:"verifier,omitempty"`
}

// Store provides payload storage operations
type Store interface {
	// Save stores a payload under key with expiry
	Save(ctx context.Context, key string, data *Data, expiresIn time.Duration) error

	// Take retrieves and deletes a payload; (nil, nil) if absent
	Take(ctx context.Context, key string) (*Data, error)

	// CheckHealth verifies the store is operational
	CheckHealth(ctx context.Context) error
}

// Manager issues HMAC-signed state tokens and binds payloads to them
type Manager struct {
	store     Store
	secret    []byte
	expiresIn time.Duration
}

// NewManager creates a new session manager
func NewManager(store Store, secret []byte, expiresIn time.Duration) *Manager {
	return &Manager{
		store:     store,
		secret:    secret,
		expiresIn: expiresIn,
	}
}

// NewState mints a signed random state token suitable for the OAuth2 state
// parameter. Nothing is stored until Attach is called with the payload.
func (m *Manager) NewState() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating state: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	h := hmac.New(sha256.New, m.secret)
	h.Write([]byte(token))
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))

	return token + "." + sig, nil
}

// Attach stores the payload under a state token minted by NewState.
func (m *Manager) Attach(ctx context.Context, state string, data *Data) error {
	if err := m.verify(state); err != nil {
		return err
	}
	if err := m.store.Save(ctx, state, data, m.expiresIn); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// Redeem verifies the state signature and consumes the stored payload.
// A second redeem of the same state fails with ErrStateNotFound.
func (m *Manager) Redeem(ctx context.Context, state string) (*Data, error) {
	if err := m.verify(state); err != nil {
		return nil, err
	}

	data, err := m.store.Take(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	if data == nil {
		return nil, ErrStateNotFound
	}
	return data, nil
}

// verify checks the HMAC signature on a state token.
func (m *Manager) verify(state string) error {
	token, sig, ok := strings.Cut(state, ".")
	if !ok || token == "" {
		return ErrInvalidState
	}

	h := hmac.New(sha256.New, m.secret)
	h.Write([]byte(token))
	expected := h.Sum(nil)

	actual, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return ErrInvalidState
	}
	if !hmac.Equal(expected, actual) {
		return ErrInvalidState
	}
	return nil
}

// Bind stores a payload under a caller-chosen key. The OAuth1 callback
// carries no state parameter, so the demo keys the token secret by the
// request token itself.
func (m *Manager) Bind(ctx context.Context, key string, data *Data) error {
	if key == "" {
		return ErrInvalidState
	}
	if err := m.store.Save(ctx, "bind:"+key, data, m.expiresIn); err != nil {
		return fmt.Errorf("saving payload: %w", err)
	}
	return nil
}

// Take consumes a payload stored with Bind.
func (m *Manager) Take(ctx context.Context, key string) (*Data, error) {
	data, err := m.store.Take(ctx, "bind:"+key)
	if err != nil {
		return nil, fmt.Errorf("loading payload: %w", err)
	}
	if data == nil {
		return nil, ErrStateNotFound
	}
	return data, nil
}

// CheckHealth verifies the session manager is operational
func (m *Manager) CheckHealth(ctx context.Context) error {
	if err := m.store.CheckHealth(ctx); err != nil {
		return fmt.Errorf("session store health check failed: %w", err)
	}
	return nil
}
