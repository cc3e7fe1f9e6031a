// Package oauth2 implements the authorization-code grant with PKCE (S256)
// against the X (Twitter) API.
//
// A Flow builds the user-facing authorize URL with a fresh PKCE pair per
// call and exchanges the resulting code for tokens through the shared retry
// executor. State-parameter validation stays with the caller.
package oauth2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wrale/oauth-flow-client/exchange"
	"github.com/wrale/oauth-flow-client/pkce"
)

const (
	defaultAuthorizeURL = "https://x.com/i/oauth2/authorize"
	defaultTokenURL     = "https://api.x.com/2/oauth2/token"

	responseTypeCode       = "code"
	grantAuthorizationCode = "authorization_code"
)

// ErrMissingCredentials indicates a Flow was constructed without a client
// ID, client secret or redirect URI. Constructors fail fast before any
// network call.
var ErrMissingCredentials = errors.New("client ID, client secret and redirect URI are required")

// Flow drives the authorization-code grant for one registered client. A Flow
// holds only immutable configuration; concurrent authorizations for
// different users each get their own PKCE pair and do not interfere.
type Flow struct {
	clientID     string
	clientSecret string
	redirectURI  string
	scopes       []Scope
	authorizeURL string
	tokenURL     string
	client       *http.Client
	retry        exchange.Config
}

// New validates the credentials and returns a Flow with the provider's
// default endpoints and retry budget.
func New(clientID, clientSecret, redirectURI string, scopes []Scope, opts ...Option) (*Flow, error) {
	if clientID == "" || clientSecret == "" || redirectURI == "" {
		return nil, ErrMissingCredentials
	}

	f := &Flow{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		scopes:       scopes,
		authorizeURL: defaultAuthorizeURL,
		tokenURL:     defaultTokenURL,
		client:       &http.Client{Timeout: exchange.DefaultTimeout},
		retry: exchange.Config{
			MaxAttempts: exchange.DefaultMaxAttempts,
			BaseDelay:   exchange.DefaultBaseDelay,
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// AuthorizeURL builds the authorization URL for the given state and returns
// it with the PKCE verifier backing the embedded challenge. The verifier
// must be retained by the caller across the redirect and supplied exactly
// once to Exchange; every call generates a fresh pair.
func (f *Flow) AuthorizeURL(state string) (authorizeURL, verifier string, err error) {
	pair, err := pkce.New()
	if err != nil {
		return "", "", fmt.Errorf("generating PKCE pair: %w", err)
	}

	u, err := url.Parse(f.authorizeURL)
	if err != nil {
		return "", "", fmt.Errorf("parsing authorize URL: %w", err)
	}
	q := u.Query()
	q.Set("response_type", responseTypeCode)
	q.Set("client_id", f.clientID)
	q.Set("redirect_uri", f.redirectURI)
	q.Set("scope", JoinScopes(f.scopes))
	q.Set("state", state)
	q.Set("code_challenge", pair.Challenge)
	q.Set("code_challenge_method", pkce.Method)
	u.RawQuery = q.Encode()

	return u.String(), pair.Verifier, nil
}

// Exchange swaps an authorization code and the verifier from AuthorizeURL
// for a token set. The provider recomputes the challenge from the verifier;
// a mismatch comes back as a client error.
func (f *Flow) Exchange(ctx context.Context, code, verifier string) (*TokenResult, error) {
	form := url.Values{
		"grant_type":    {grantAuthorizationCode},
		"code":          {code},
		"redirect_uri":  {f.redirectURI},
		"client_id":     {f.clientID},
		"code_verifier": {verifier},
	}
	encoded := form.Encode()

	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.tokenURL, strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.SetBasicAuth(f.clientID, f.clientSecret)
		return req, nil
	}

	decode := func(body []byte) (*TokenResult, error) {
		var res TokenResult
		if err := json.Unmarshal(body, &res); err != nil {
			return nil, fmt.Errorf("parsing token response: %w", err)
		}
		return &res, nil
	}

	res, err := exchange.Do(ctx, f.client, f.retry, build, decode)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return res, nil
}

// Option configures a Flow.
type Option func(*Flow)

// WithTryCount sets the attempt budget for token exchanges.
func WithTryCount(n int) Option {
	return func(f *Flow) {
		f.retry.MaxAttempts = n
	}
}

// WithRetryBaseDelay sets the base unit for exponential backoff between
// retried attempts.
func WithRetryBaseDelay(d time.Duration) Option {
	return func(f *Flow) {
		f.retry.BaseDelay = d
	}
}

// WithTimeout bounds each individual attempt.
func WithTimeout(d time.Duration) Option {
	return func(f *Flow) {
		f.client.Timeout = d
	}
}

// WithHTTPClient replaces the transport collaborator.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Flow) {
		f.client = client
	}
}

// WithAuthorizeURL overrides the authorization endpoint.
func WithAuthorizeURL(u string) Option {
	return func(f *Flow) {
		f.authorizeURL = u
	}
}

// WithTokenURL overrides the token endpoint, e.g. to point the flow at a
// mock endpoint in tests.
func WithTokenURL(u string) Option {
	return func(f *Flow) {
		f.tokenURL = u
	}
}
