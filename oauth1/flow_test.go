package oauth1

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/wrale/oauth-flow-client/exchange"
)

func newTestFlow(t *testing.T, baseURL string) *Flow {
	t.Helper()
	flow, err := New("ck", "cs", "https://example.com/callback",
		WithBaseURL(baseURL),
		WithTryCount(2),
		WithRetryBaseDelay(1),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return flow
}

func TestNewRequiresCredentials(t *testing.T) {
	tests := []struct {
		name                  string
		key, secret, callback string
	}{
		{"missing consumer key", "", "cs", "cb"},
		{"missing consumer secret", "ck", "", "cb"},
		{"missing callback URL", "ck", "cs", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.key, tt.secret, tt.callback); !errors.Is(err, ErrMissingCredentials) {
				t.Errorf("New() error = %v, want ErrMissingCredentials", err)
			}
		})
	}
}

func TestRequestToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/oauth/request_token" {
			t.Errorf("path = %s, want /oauth/request_token", r.URL.Path)
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "OAuth ") {
			t.Errorf("Authorization = %q, want OAuth header", auth)
		}
		for _, key := range []string{"oauth_consumer_key", "oauth_nonce", "oauth_signature", "oauth_timestamp", "oauth_callback"} {
			if !strings.Contains(auth, key+`="`) {
				t.Errorf("Authorization header missing %s", key)
			}
		}
		if _, err := w.Write([]byte("oauth_token=abc&oauth_token_secret=xyz&oauth_callback_confirmed=true")); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer srv.Close()

	got, err := newTestFlow(t, srv.URL).RequestToken(context.Background(), AccessTypeDefault)
	if err != nil {
		t.Fatalf("RequestToken() error = %v", err)
	}

	want := &RequestToken{
		Token:             "abc",
		TokenSecret:       "xyz",
		CallbackConfirmed: "true",
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(RequestToken{}, "AuthorizeURL")); diff != "" {
		t.Errorf("RequestToken mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasSuffix(got.AuthorizeURL, "oauth_token=abc") {
		t.Errorf("AuthorizeURL = %q, want suffix oauth_token=abc", got.AuthorizeURL)
	}
}

func TestRequestTokenSignsAccessType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); !strings.Contains(auth, `x_auth_access_type="write"`) {
			t.Errorf("Authorization header missing access type hint: %q", auth)
		}
		if _, err := w.Write([]byte("oauth_token=a&oauth_token_secret=b&oauth_callback_confirmed=true")); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer srv.Close()

	if _, err := newTestFlow(t, srv.URL).RequestToken(context.Background(), AccessTypeWrite); err != nil {
		t.Fatalf("RequestToken() error = %v", err)
	}
}

func TestRequestTokenMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("oauth_token_secret=xyz")); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer srv.Close()

	_, err := newTestFlow(t, srv.URL).RequestToken(context.Background(), AccessTypeDefault)

	var malformed *MalformedResponse
	if !errors.As(err, &malformed) {
		t.Fatalf("RequestToken() error = %v, want *MalformedResponse", err)
	}
	wantMissing := []string{"oauth_token", "oauth_callback_confirmed"}
	if diff := cmp.Diff(wantMissing, malformed.Missing); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}
	if malformed.Body != "oauth_token_secret=xyz" {
		t.Errorf("Body = %q, want the raw response", malformed.Body)
	}
}

func TestRequestTokenClientErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad consumer key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestFlow(t, srv.URL).RequestToken(context.Background(), AccessTypeDefault)

	var clientErr *exchange.ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("RequestToken() error = %v, want *exchange.ClientError", err)
	}
	if clientErr.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want %d", clientErr.Status, http.StatusUnauthorized)
	}
}

func TestAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/access_token" {
			t.Errorf("path = %s, want /oauth/access_token", r.URL.Path)
		}
		auth := r.Header.Get("Authorization")
		if !strings.Contains(auth, `oauth_token="req-token"`) {
			t.Errorf("Authorization header missing oauth_token: %q", auth)
		}
		if !strings.Contains(auth, `oauth_verifier="ver-123"`) {
			t.Errorf("Authorization header missing oauth_verifier: %q", auth)
		}
		if _, err := w.Write([]byte("oauth_token=final&oauth_token_secret=final-secret&screen_name=jdoe")); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer srv.Close()

	got, err := newTestFlow(t, srv.URL).AccessToken(context.Background(), "req-token", "req-secret", "ver-123")
	if err != nil {
		t.Fatalf("AccessToken() error = %v", err)
	}
	want := &AccessToken{Token: "final", TokenSecret: "final-secret", ScreenName: "jdoe"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AccessToken mismatch (-want +got):\n%s", diff)
	}
}

func TestAccessTokenMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("oauth_token=final&oauth_token_secret=final-secret")); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer srv.Close()

	_, err := newTestFlow(t, srv.URL).AccessToken(context.Background(), "tok", "sec", "ver")

	var malformed *MalformedResponse
	if !errors.As(err, &malformed) {
		t.Fatalf("AccessToken() error = %v, want *MalformedResponse", err)
	}
	if diff := cmp.Diff([]string{"screen_name"}, malformed.Missing); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestTokenRetriesTransient(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		if _, err := w.Write([]byte("oauth_token=a&oauth_token_secret=b&oauth_callback_confirmed=true")); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer srv.Close()

	if _, err := newTestFlow(t, srv.URL).RequestToken(context.Background(), AccessTypeDefault); err != nil {
		t.Fatalf("RequestToken() error = %v, want success after retry", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hit %d times, want 2", got)
	}
}
