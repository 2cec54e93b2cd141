// Package rest exposes the vault over HTTP/JSON. Routes live under /api;
// every /api/credentials route and /api/auth/me require a bearer token.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/edupass/internal/logging"
	"github.com/dmitrijs2005/edupass/internal/server/auth"
	"github.com/dmitrijs2005/edupass/internal/server/models"
	"github.com/dmitrijs2005/edupass/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const shutdownTimeout = 10 * time.Second

// UserService is the account API used by the auth handlers.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

// SiteService lists the catalog.
type SiteService interface {
	List(ctx context.Context) ([]*models.Site, error)
}

// CredentialService is the per-user credential API.
type CredentialService interface {
	List(ctx context.Context, userID string) ([]*models.PlainCredential, error)
	Create(ctx context.Context, userID, siteID, login, secret string) (*models.PlainCredential, error)
	Update(ctx context.Context, userID, id, login, secret string) (*models.PlainCredential, error)
	Delete(ctx context.Context, userID, id string) error
}

// TokenVerifier checks bearer tokens.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// Pinger reports database reachability for /health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators the HTTP server calls into.
type Deps struct {
	Users          UserService
	Sites          SiteService
	Credentials    CredentialService
	Tokens         TokenVerifier
	DB             Pinger
	AllowedOrigins []string
}

type Server struct {
	address string
	logger  logging.Logger
	deps    Deps
}

func NewServer(a string, l logging.Logger, deps Deps) *Server {
	return &Server{
		address: a,
		logger:  l.With("module", "http_server"),
		deps:    deps,
	}
}

// Router builds the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.register)
			r.Post("/login", s.login)
			r.With(s.requireAuth).Get("/me", s.me)
		})

		r.Get("/sites", s.listSites)

		r.Route("/credentials", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.listCredentials)
			r.Post("/", s.createCredential)
			r.Put("/{id}", s.updateCredential)
			r.Delete("/{id}", s.deleteCredential)
		})
	})

	return r
}

func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *Server) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-stopped
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.deps.DB != nil {
		if err := s.deps.DB.PingContext(r.Context()); err != nil {
			s.logger.Warn(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
