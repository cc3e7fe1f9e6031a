package oauth2

import (
	"time"

	xoauth2 "golang.org/x/oauth2"
)

// TokenResult is the provider's token endpoint response and the terminal
// artifact of the flow.
type TokenResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
}

// Token converts the result into a golang.org/x/oauth2 token so it can feed
// token sources and HTTP clients from that ecosystem. Expiry is computed
// from ExpiresIn at call time; a zero ExpiresIn yields a token that never
// reports as expired.
func (t *TokenResult) Token() *xoauth2.Token {
	token := &xoauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
	}
	if t.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return token
}
