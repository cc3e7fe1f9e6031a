// Package oauth1 implements the three-legged OAuth 1.0a flow with HMAC-SHA1
// request signing, as used by the X (Twitter) API.
//
// The flow moves through request-token retrieval, external user
// authorization, and access-token exchange. The request token secret is the
// caller's to hold between the first and third leg, since it cannot be
// re-derived; the library persists nothing between calls.
package oauth1

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/wrale/oauth-flow-client/exchange"
)

const (
	defaultBaseURL      = "https://api.x.com"
	defaultAuthorizeURL = "https://api.x.com/oauth/authorize"

	requestTokenPath = "/oauth/request_token"
	accessTokenPath  = "/oauth/access_token"
)

// AccessType optionally narrows the access level requested alongside a
// request token, signed as the x_auth_access_type parameter.
type AccessType string

const (
	// AccessTypeDefault requests whatever the application is registered for.
	AccessTypeDefault AccessType = ""
	AccessTypeRead    AccessType = "read"
	AccessTypeWrite   AccessType = "write"
)

// RequestToken is the first-leg artifact. TokenSecret must be held by the
// caller (typically in a short-lived session) until AccessToken is called.
type RequestToken struct {
	Token             string
	TokenSecret       string
	CallbackConfirmed string

	// AuthorizeURL is where the user must be redirected to approve access.
	AuthorizeURL string
}

// AccessToken is the terminal artifact of the flow; ownership passes fully
// to the caller.
type AccessToken struct {
	Token       string
	TokenSecret string
	ScreenName  string
}

// Flow drives the three-legged dance against one provider. A Flow holds only
// immutable configuration, so concurrent use for different users is safe:
// every call draws its own nonce and timestamp.
type Flow struct {
	consumerKey    string
	consumerSecret string
	callbackURL    string
	baseURL        string
	authorizeURL   string
	client         *http.Client
	retry          exchange.Config
	now            func() int64
}

// New validates the credentials and returns a Flow with default endpoints
// and retry budget (3 attempts, 500ms base delay, 10s per-attempt timeout).
func New(consumerKey, consumerSecret, callbackURL string, opts ...Option) (*Flow, error) {
	if consumerKey == "" || consumerSecret == "" || callbackURL == "" {
		return nil, ErrMissingCredentials
	}

	f := &Flow{
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		callbackURL:    callbackURL,
		baseURL:        defaultBaseURL,
		authorizeURL:   defaultAuthorizeURL,
		client:         &http.Client{Timeout: exchange.DefaultTimeout},
		retry: exchange.Config{
			MaxAttempts: exchange.DefaultMaxAttempts,
			BaseDelay:   exchange.DefaultBaseDelay,
		},
		now: func() int64 { return time.Now().Unix() },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// RequestToken performs the first leg: a signed POST to the request-token
// endpoint with oauth_callback (and the optional access-type hint) as extra
// signed parameters and an empty token secret.
func (f *Flow) RequestToken(ctx context.Context, accessType AccessType) (*RequestToken, error) {
	extra := []param{{"oauth_callback", f.callbackURL}}
	if accessType != AccessTypeDefault {
		extra = append(extra, param{"x_auth_access_type", string(accessType)})
	}

	body, err := f.post(ctx, f.baseURL+requestTokenPath, "", extra)
	if err != nil {
		return nil, fmt.Errorf("requesting token: %w", err)
	}
	if missing := body.require("oauth_token", "oauth_token_secret", "oauth_callback_confirmed"); len(missing) > 0 {
		return nil, &MalformedResponse{Missing: missing, Body: body.raw}
	}

	token := body.values["oauth_token"]
	authorizeURL, err := f.buildAuthorizeURL(token)
	if err != nil {
		return nil, err
	}
	return &RequestToken{
		Token:             token,
		TokenSecret:       body.values["oauth_token_secret"],
		CallbackConfirmed: body.values["oauth_callback_confirmed"],
		AuthorizeURL:      authorizeURL,
	}, nil
}

// AccessToken performs the final leg after the user authorized the request
// token externally. tokenSecret is the secret returned by RequestToken; it
// joins the signing key for this call.
func (f *Flow) AccessToken(ctx context.Context, token, tokenSecret, verifier string) (*AccessToken, error) {
	extra := []param{
		{"oauth_token", token},
		{"oauth_verifier", verifier},
	}

	body, err := f.post(ctx, f.baseURL+accessTokenPath, tokenSecret, extra)
	if err != nil {
		return nil, fmt.Errorf("exchanging access token: %w", err)
	}
	if missing := body.require("oauth_token", "oauth_token_secret", "screen_name"); len(missing) > 0 {
		return nil, &MalformedResponse{Missing: missing, Body: body.raw}
	}

	return &AccessToken{
		Token:       body.values["oauth_token"],
		TokenSecret: body.values["oauth_token_secret"],
		ScreenName:  body.values["screen_name"],
	}, nil
}

// post signs and sends one token-endpoint request through the retry
// executor. The builder re-signs on every attempt so nonce and timestamp
// stay fresh across retries.
func (f *Flow) post(ctx context.Context, endpoint, tokenSecret string, extra []param) (formBody, error) {
	build := func(ctx context.Context) (*http.Request, error) {
		header, err := authorizationHeader(f.consumerKey, f.consumerSecret, tokenSecret, extra, http.MethodPost, endpoint, nil, f.now)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", header)
		return req, nil
	}
	return exchange.Do(ctx, f.client, f.retry, build, parseFormBody)
}

func (f *Flow) buildAuthorizeURL(token string) (string, error) {
	u, err := url.Parse(f.authorizeURL)
	if err != nil {
		return "", fmt.Errorf("parsing authorize URL: %w", err)
	}
	q := u.Query()
	q.Set("oauth_token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
