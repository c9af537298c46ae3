// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — the composition root where the
// store, the token and password services, the account service and the
// handlers are all constructed once and connected. Nothing else in the
// codebase knows how the dependency graph is assembled.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/stemless/internal/auth"
	"github.com/sakif/stemless/internal/handler"
	"github.com/sakif/stemless/internal/middleware"
	sqliteRepo "github.com/sakif/stemless/internal/repository/sqlite"
	"github.com/sakif/stemless/internal/service"
)

// Config holds server configuration, loaded once in main.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string // process-wide signing key, immutable after startup
	Secure    bool   // serve TLS with CertFile/KeyFile
	CertFile  string
	KeyFile   string
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed and the file
// lock released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server and wires the full dependency chain:
//
//	sqlite.DB → UserStore ─┬→ AccountService → Auth/User handlers
//	TokenService ──────────┤
//	PasswordService ───────┘
//	UserStore + TokenService → RequireAuth gate
//
// Each layer only receives what it needs: the service gets repository
// interfaces, the handlers get the service, and neither touches the
// database directly.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router, mainly so tests can drive the full stack
// through httptest without opening a socket.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET  /                     → hello (liveness, human-facing)
//	GET  /ping                 → empty 200 (machine liveness)
//	POST /auth/signup          → register, returns {user, token}
//	POST /auth/login           → authenticate, returns {user, token}
//	GET  /users/me             → own record            [gated]
//	GET  /users/{key}/{value}  → lookup by enum key    [gated]
//	GET  /projects/{uuid}      → project record        [gated]
//	GET  /comments/{uuid}      → comment record        [gated]
//
// MIDDLEWARE ORDER MATTERS: RequestID and RealIP first so the logger
// sees them, Recoverer before anything that can panic, CORS before
// routing so preflights are answered even for unknown paths.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.CORS)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	users := s.db.Users()
	accounts := service.NewAccountService(users, tokens, passwords, s.logger)

	authHandler := handler.NewAuthHandler(accounts, s.logger)
	userHandler := handler.NewUserHandler(accounts, s.logger)
	projectHandler := handler.NewProjectHandler(s.db.Projects(), s.db.Comments(), s.logger)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Hello World"}`))
	})
	s.router.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/login", authHandler.HandleLogin)
	})

	// Protected routes: one token verification + one store lookup per
	// request, then the snapshot rides the context.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens, users))
		r.Get("/users/me", userHandler.HandleMe)
		r.Get("/users/{key}/{value}", userHandler.HandleGetByField)
		r.Get("/projects/{uuid}", projectHandler.HandleGetProject)
		r.Get("/comments/{uuid}", projectHandler.HandleGetComment)
	})

	return nil
}

// Start runs the HTTP server and blocks until shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new connections
// 2. Wait up to 30s for in-flight requests
// 3. Close the database (deferred — flushes WAL, releases the lock)
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.Bool("secure", s.config.Secure),
			slog.String("database", s.config.DBPath),
		)
		if s.config.Secure {
			serverErrors <- srv.ListenAndServeTLS(s.config.CertFile, s.config.KeyFile)
		} else {
			serverErrors <- srv.ListenAndServe()
		}
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
