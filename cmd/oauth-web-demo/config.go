package main

import "time"

// Config holds demo configuration loaded from environment variables
type Config struct {
	Port     int    `envconfig:"PORT" default:"8080"`
	RedisURL string `envconfig:"REDIS_URL" required:"true"`

	// OAuth1 application credentials
	ConsumerKey    string `envconfig:"CONSUMER_KEY"`
	ConsumerSecret string `envconfig:"CONSUMER_SECRET"`
	CallbackURL    string `envconfig:"CALLBACK_URL"`

	// OAuth2 application credentials
	ClientID     string `envconfig:"CLIENT_ID"`
	ClientSecret string `envconfig:"CLIENT_SECRET"`
	RedirectURL  string `envconfig:"REDIRECT_URL"`
	Scopes       string `envconfig:"SCOPES" default:"tweet.read users.read offline.access"`

	// Session handling across the redirect window
	StateSecret string        `envconfig:"STATE_SECRET" required:"true"`
	SessionTTL  time.Duration `envconfig:"SESSION_TTL" default:"10m"`

	// Exchange behavior shared by both flows
	TryCount       int           `envconfig:"TRY_COUNT" default:"3"`
	RetryBaseDelay time.Duration `envconfig:"RETRY_BASE_DELAY" default:"500ms"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`

	// Optional overrides for testing against a mock provider
	OAuth1BaseURL  string `envconfig:"OAUTH1_BASE_URL"`
	OAuth2TokenURL string `envconfig:"OAUTH2_TOKEN_URL"`

	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"5s"`
	ReadTimeout       time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout      time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout       time.Duration `envconfig:"IDLE_TIMEOUT" default:"120s"`
}
