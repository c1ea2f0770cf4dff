// Package server wires the application together: it owns the router, the
// database connection, and the dependency graph from repositories up to
// handlers. main.go only loads config, builds the logger, and calls Start.
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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/campus-portal/internal/auth"
	"github.com/sakif/campus-portal/internal/config"
	"github.com/sakif/campus-portal/internal/handler"
	"github.com/sakif/campus-portal/internal/middleware"
	sqliteRepo "github.com/sakif/campus-portal/internal/repository/sqlite"
	"github.com/sakif/campus-portal/internal/service"
)

// Server holds the router and the resources it must release on shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database, seeds it, and assembles the dependency graph:
// stores feed services, services feed handlers, handlers hang off the
// router. Each layer only receives what it needs; handlers never touch the
// database and services never touch HTTP.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
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

	passwords := auth.NewPasswordService(cfg.BcryptCost)
	if err := s.seed(passwords); err != nil {
		db.Close()
		return nil, err
	}

	if err := s.setupRoutes(passwords); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// seed fills the catalog tables on first run and guarantees the bootstrap
// administrator exists. Without a configured admin password the account gets
// an unusable placeholder hash, so password sign-in stays impossible until a
// deployer sets one.
func (s *Server) seed(passwords *auth.PasswordService) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.db.SeedCatalog(ctx); err != nil {
		return fmt.Errorf("seeding catalog: %w", err)
	}

	adminHash := ""
	if s.config.AdminPassword != "" {
		hash, err := passwords.Hash(s.config.AdminPassword)
		if err != nil {
			return fmt.Errorf("hashing admin password: %w", err)
		}
		adminHash = hash
	} else {
		hash, err := passwords.UnusableHash()
		if err != nil {
			return fmt.Errorf("generating placeholder admin hash: %w", err)
		}
		adminHash = hash
	}

	created, err := s.db.EnsureAdmin(ctx, s.config.AdminEmail, adminHash)
	if err != nil {
		return fmt.Errorf("seeding admin account: %w", err)
	}
	if created {
		s.logger.Info("bootstrap admin created", slog.String("email", s.config.AdminEmail))
		if s.config.AdminPassword == "" {
			s.logger.Warn("PORTAL_ADMIN_PASSWORD is unset; the bootstrap admin cannot sign in with a password")
		}
	}
	return nil
}

func (s *Server) setupRoutes(passwords *auth.PasswordService) error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	verifier := auth.NewGoogleVerifier(s.config.GoogleClientID)

	accountService := service.NewAccountService(
		s.db.Accounts(), tokens, passwords, verifier,
		s.config.AllowedDomains, s.logger,
	)
	catalogService := service.NewCatalogService(
		s.db.Colleges(), s.db.Programs(), s.db.Events(), s.logger,
	)

	authHandler := handler.NewAuthHandler(accountService, s.logger)
	adminHandler := handler.NewAdminHandler(accountService, s.logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Metrics)

	s.router.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		// Public catalog reads.
		r.Get("/colleges", catalogHandler.HandleListColleges)
		r.Get("/colleges/{id}", catalogHandler.HandleGetCollege)
		r.Get("/majors", catalogHandler.HandleListPrograms)
		r.Get("/programs/{id}", catalogHandler.HandleGetProgram)
		r.Get("/events", catalogHandler.HandleListEvents)
		r.Get("/events/{id}", catalogHandler.HandleGetEvent)

		// Sign-in endpoints.
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/google", authHandler.HandleGoogleLogin)
		r.Post("/auth/change-password", authHandler.HandleChangePassword)
		r.Post("/auth/logout", authHandler.HandleLogout)

		// Signed-in users only.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/auth/me", authHandler.HandleMe)
			r.Post("/auth/complete-profile", authHandler.HandleCompleteProfile)
		})

		// Admin portal.
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Use(auth.RequireAdmin)

			r.Get("/users", adminHandler.HandleListUsers)
			r.Post("/users", adminHandler.HandleCreateUser)
			r.Put("/users/{id}", adminHandler.HandleUpdateUser)
			r.Delete("/users/{id}", adminHandler.HandleDeleteUser)

			r.Post("/colleges", catalogHandler.HandleCreateCollege)
			r.Put("/colleges/{id}", catalogHandler.HandleUpdateCollege)
			r.Delete("/colleges/{id}", catalogHandler.HandleDeleteCollege)

			r.Post("/programs", catalogHandler.HandleCreateProgram)
			r.Put("/programs/{id}", catalogHandler.HandleUpdateProgram)
			r.Delete("/programs/{id}", catalogHandler.HandleDeleteProgram)

			r.Post("/events", catalogHandler.HandleCreateEvent)
			r.Put("/events/{id}", catalogHandler.HandleUpdateEvent)
			r.Delete("/events/{id}", catalogHandler.HandleDeleteEvent)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests, close
// the database.
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
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
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
