package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/playperu/scrumcluedo/internal/account"
	"github.com/playperu/scrumcluedo/internal/auth"
	"github.com/playperu/scrumcluedo/internal/game"
)

// Deps are the services the HTTP layer dispatches to.
type Deps struct {
	Game     *game.Service
	Accounts *account.Service
	Sessions *auth.Sessions
	SPADir   string
}

type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// New builds the HTTP server. mount, when non-nil, registers extra routes
// such as health checks before the API routes. Shutdown ends open
// leaderboard streams so they do not hold the server open.
func New(addr string, logger *slog.Logger, deps Deps, mount func(r chi.Router)) *Server {
	broker := NewBroker()
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(logger, deps, mount, broker),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	srv.RegisterOnShutdown(broker.Close)
	return &Server{srv: srv, logger: logger}
}

// NewRouter returns the router with the full middleware stack.
func NewRouter(logger *slog.Logger, deps Deps, mount func(r chi.Router)) chi.Router {
	return newRouter(logger, deps, mount, NewBroker())
}

func newRouter(logger *slog.Logger, deps Deps, mount func(r chi.Router), broker *Broker) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newStructuredLogger(logger))
	r.Use(middleware.Recoverer)

	if mount != nil {
		mount(r)
	}
	addRoutes(r, logger, deps, broker)
	return r
}

func (s *Server) Run(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}
	return s.serve(ln)
}

func (s *Server) serve(ln net.Listener) error {
	err := s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
