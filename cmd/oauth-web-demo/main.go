// Command oauth-web-demo hosts a minimal web front-end that walks a user
// through both supported authorization flows: the three-legged OAuth1 dance
// and the OAuth2 authorization-code grant with PKCE. Secrets that must
// survive the redirect window live in Redis-backed sessions.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"

	"github.com/wrale/oauth-flow-client/internal/session"
	"github.com/wrale/oauth-flow-client/oauth1"
	"github.com/wrale/oauth-flow-client/oauth2"
)

// Version is set by the build process
var Version = "dev"

func main() {
	// Load configuration from environment
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	// Create Redis client
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Error parsing Redis URL: %v", err)
	}
	redisClient := redis.NewClient(redisOpts)

	// Verify Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}

	// Sessions carry the token secret / PKCE verifier across redirects
	sessions := session.NewManager(session.NewRedisStore(redisClient), []byte(cfg.StateSecret), cfg.SessionTTL)

	oauth1Flow, err := buildOAuth1Flow(cfg)
	if err != nil {
		log.Fatalf("Error configuring OAuth1 flow: %v", err)
	}
	oauth2Flow, err := buildOAuth2Flow(cfg)
	if err != nil {
		log.Fatalf("Error configuring OAuth2 flow: %v", err)
	}
	if oauth1Flow == nil && oauth2Flow == nil {
		log.Fatal("No flow configured: set CONSUMER_KEY/CONSUMER_SECRET/CALLBACK_URL or CLIENT_ID/CLIENT_SECRET/REDIRECT_URL")
	}

	// Create and configure server
	srv := newServer(cfg, oauth1Flow, oauth2Flow, sessions)

	// Create HTTP server with proper timeout configurations
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start server
	go func() {
		log.Printf("Demo server %s listening on port %d", Version, cfg.Port)
		serverErrors <- httpServer.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-serverErrors:
		log.Fatalf("Error starting server: %v", err)

	case <-shutdown:
		log.Println("Starting shutdown")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down server: %v", err)
			if err := httpServer.Close(); err != nil {
				log.Printf("Error closing server: %v", err)
			}
		}

		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}
}

// buildOAuth1Flow returns nil without error when the OAuth1 credentials are
// simply not configured; partial credentials still fail fast.
func buildOAuth1Flow(cfg Config) (*oauth1.Flow, error) {
	if cfg.ConsumerKey == "" && cfg.ConsumerSecret == "" && cfg.CallbackURL == "" {
		return nil, nil
	}
	opts := []oauth1.Option{
		oauth1.WithTryCount(cfg.TryCount),
		oauth1.WithRetryBaseDelay(cfg.RetryBaseDelay),
		oauth1.WithTimeout(cfg.RequestTimeout),
	}
	if cfg.OAuth1BaseURL != "" {
		opts = append(opts, oauth1.WithBaseURL(cfg.OAuth1BaseURL))
	}
	return oauth1.New(cfg.ConsumerKey, cfg.ConsumerSecret, cfg.CallbackURL, opts...)
}

func buildOAuth2Flow(cfg Config) (*oauth2.Flow, error) {
	if cfg.ClientID == "" && cfg.ClientSecret == "" && cfg.RedirectURL == "" {
		return nil, nil
	}
	opts := []oauth2.Option{
		oauth2.WithTryCount(cfg.TryCount),
		oauth2.WithRetryBaseDelay(cfg.RetryBaseDelay),
		oauth2.WithTimeout(cfg.RequestTimeout),
	}
	if cfg.OAuth2TokenURL != "" {
		opts = append(opts, oauth2.WithTokenURL(cfg.OAuth2TokenURL))
	}
	return oauth2.New(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURL, oauth2.ParseScopes(cfg.Scopes), opts...)
}
