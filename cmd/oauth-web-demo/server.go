package main

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wrale/oauth-flow-client/internal/session"
	"github.com/wrale/oauth-flow-client/oauth1"
	"github.com/wrale/oauth-flow-client/oauth2"
)

type server struct {
	cfg      Config
	router   *chi.Mux
	oauth1   *oauth1.Flow
	oauth2   *oauth2.Flow
	sessions *session.Manager
}

func newServer(cfg Config, oauth1Flow *oauth1.Flow, oauth2Flow *oauth2.Flow, sessions *session.Manager) *server {
	srv := &server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		oauth1:   oauth1Flow,
		oauth2:   oauth2Flow,
		sessions: sessions,
	}

	// Set up middleware
	srv.router.Use(middleware.Logger)
	srv.router.Use(middleware.Recoverer)
	srv.router.Use(middleware.RealIP)
	srv.router.Use(middleware.Timeout(30 * time.Second))

	// Register routes
	srv.routes()

	return srv
}

func (s *server) routes() {
	s.router.Get("/health", s.handleHealth())
	s.router.Get("/", s.handleIndex())

	if s.oauth1 != nil {
		s.router.Get("/oauth1/start", s.handleOAuth1Start())
		s.router.Get("/oauth1/callback", s.handleOAuth1Callback())
	}
	if s.oauth2 != nil {
		s.router.Get("/oauth2/start", s.handleOAuth2Start())
		s.router.Get("/oauth2/callback", s.handleOAuth2Callback())
	}
}
