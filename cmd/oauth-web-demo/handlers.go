package main

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/wrale/oauth-flow-client/exchange"
	"github.com/wrale/oauth-flow-client/internal/session"
	"github.com/wrale/oauth-flow-client/oauth1"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html><body>
<h1>OAuth flow demo</h1>
<ul>
{{if .OAuth1}}<li><a href="/oauth1/start">Sign in with OAuth 1.0a (three-legged)</a></li>{{end}}
{{if .OAuth2}}<li><a href="/oauth2/start">Sign in with OAuth 2.0 + PKCE</a></li>{{end}}
</ul>
</body></html>`))

var resultTmpl = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html><body>
<h1>{{.Title}}</h1>
<p>{{.Detail}}</p>
<p><a href="/">Back</a></p>
</body></html>`))

type resultPage struct {
	Title  string
	Detail string
}

func (s *server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.sessions.CheckHealth(r.Context()); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			log.Printf("Error writing health response: %v", err)
		}
	}
}

func (s *server) handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		data := struct{ OAuth1, OAuth2 bool }{s.oauth1 != nil, s.oauth2 != nil}
		if err := indexTmpl.Execute(w, data); err != nil {
			log.Printf("Error rendering index: %v", err)
		}
	}
}

// handleOAuth1Start performs the first leg and sends the user off to
// authorize. The request token secret is stashed keyed by the token, since
// the OAuth1 callback carries no state parameter.
func (s *server) handleOAuth1Start() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqToken, err := s.oauth1.RequestToken(r.Context(), oauth1.AccessTypeDefault)
		if err != nil {
			s.renderError(w, "requesting token", err)
			return
		}
		data := &session.Data{TokenSecret: reqToken.TokenSecret}
		if err := s.sessions.Bind(r.Context(), reqToken.Token, data); err != nil {
			s.renderError(w, "saving session", err)
			return
		}
		http.Redirect(w, r, reqToken.AuthorizeURL, http.StatusFound)
	}
}

func (s *server) handleOAuth1Callback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("oauth_token")
		verifier := r.URL.Query().Get("oauth_verifier")
		if token == "" || verifier == "" {
			http.Error(w, "missing oauth_token or oauth_verifier", http.StatusBadRequest)
			return
		}

		data, err := s.sessions.Take(r.Context(), token)
		if err != nil {
			s.renderError(w, "loading session", err)
			return
		}

		access, err := s.oauth1.AccessToken(r.Context(), token, data.TokenSecret, verifier)
		if err != nil {
			s.renderError(w, "exchanging access token", err)
			return
		}

		s.renderResult(w, resultPage{
			Title:  "OAuth1 authorization complete",
			Detail: fmt.Sprintf("Access token issued for @%s", access.ScreenName),
		})
	}
}

// handleOAuth2Start mints a signed state token, builds the authorize URL and
// stashes the PKCE verifier under the state for the callback leg.
func (s *server) handleOAuth2Start() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := s.sessions.NewState()
		if err != nil {
			s.renderError(w, "creating state", err)
			return
		}
		authorizeURL, verifier, err := s.oauth2.AuthorizeURL(state)
		if err != nil {
			s.renderError(w, "building authorize URL", err)
			return
		}
		if err := s.sessions.Attach(r.Context(), state, &session.Data{Verifier: verifier}); err != nil {
			s.renderError(w, "saving session", err)
			return
		}
		http.Redirect(w, r, authorizeURL, http.StatusFound)
	}
}

func (s *server) handleOAuth2Callback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		state := r.URL.Query().Get("state")
		if code == "" || state == "" {
			http.Error(w, "missing code or state", http.StatusBadRequest)
			return
		}

		// One-time redemption also rejects forged or replayed states
		data, err := s.sessions.Redeem(r.Context(), state)
		if err != nil {
			s.renderError(w, "validating state", err)
			return
		}

		result, err := s.oauth2.Exchange(r.Context(), code, data.Verifier)
		if err != nil {
			s.renderError(w, "exchanging code", err)
			return
		}

		s.renderResult(w, resultPage{
			Title:  "OAuth2 authorization complete",
			Detail: fmt.Sprintf("Issued %s token with scope %q, expires in %ds", result.TokenType, result.Scope, result.ExpiresIn),
		})
	}
}

func (s *server) renderResult(w http.ResponseWriter, page resultPage) {
	if err := resultTmpl.Execute(w, page); err != nil {
		log.Printf("Error rendering result: %v", err)
	}
}

// renderError maps failure classes to responses without leaking token or
// signature material into logs or pages.
func (s *server) renderError(w http.ResponseWriter, action string, err error) {
	var clientErr *exchange.ClientError
	var exhausted *exchange.RetriesExhausted

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrInvalidState), errors.Is(err, session.ErrStateNotFound):
		status = http.StatusBadRequest
	case errors.As(err, &clientErr):
		status = http.StatusBadGateway
	case errors.As(err, &exhausted):
		status = http.StatusGatewayTimeout
	}

	log.Printf("Error %s: %v", action, err)
	http.Error(w, fmt.Sprintf("error %s", action), status)
}
