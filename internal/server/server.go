// Package server sets up the HTTP server, router, and all route definitions.
//
// It is the composition root: New opens the snapshot database, restores
// state into the in-memory store, builds the engine and hands it to the
// per-role handlers. main.go only loads config and calls Start.
//
//	config → sqlite.DB ─┐
//	         memory.Store ─→ service.Engine → handler.{Auth,Student,Company,Staff}Handler
//	         auth.PasswordService ─┘      ↘ service.AuthService ← auth.TokenService
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/placement-hub/internal/auth"
	"github.com/sakif/placement-hub/internal/config"
	"github.com/sakif/placement-hub/internal/handler"
	"github.com/sakif/placement-hub/internal/middleware"
	"github.com/sakif/placement-hub/internal/model"
	"github.com/sakif/placement-hub/internal/repository/memory"
	sqliteRepo "github.com/sakif/placement-hub/internal/repository/sqlite"
	"github.com/sakif/placement-hub/internal/service"
)

var _ service.Persister = (*sqliteRepo.DB)(nil)

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the database connection; Start closes it on shutdown so
// the WAL is flushed and the file lock released.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	engine *service.Engine
	tokens *auth.TokenService
}

// New builds the whole dependency chain and registers routes.
//
//  1. open the database (sqlite.New) and restore the last snapshot
//  2. build the engine over the restored store, persisting through the DB
//  3. create the first staff account on an empty deployment
//  4. wire handlers to routes
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s, err := newServer(cfg, logger, db)
	if err != nil {
		db.Close() // clean up DB if wiring fails
		return nil, err
	}
	return s, nil
}

func newServer(cfg *config.Config, logger *slog.Logger, db *sqliteRepo.DB) (*Server, error) {
	ctx := context.Background()

	store := memory.New()
	if err := db.Load(ctx, store); err != nil {
		return nil, fmt.Errorf("restoring snapshot: %w", err)
	}
	logger.Info("state restored", slog.Any("counts", store.Counts()))

	passwords := auth.NewPasswordServiceWithCost(cfg.Auth.BcryptCost)
	engine := service.NewEngine(store, passwords, logger, service.WithPersister(db))

	if cfg.Bootstrap.StaffPassword != "" {
		created, err := engine.EnsureStaff(ctx, service.StaffInput{
			AccountInput: service.AccountInput{
				ID:       cfg.Bootstrap.StaffID,
				Password: cfg.Bootstrap.StaffPassword,
				Name:     "Administrator",
			},
			Department: "Career Office",
			StaffRole:  "administrator",
		})
		if err != nil {
			return nil, fmt.Errorf("bootstrapping staff account: %w", err)
		}
		if created {
			logger.Info("bootstrap staff account created", slog.String("id", cfg.Bootstrap.StaffID))
		}
	}

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		engine: engine,
		tokens: tokens,
	}
	s.setupRoutes()

	return s, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /healthz
//
//	POST   /api/auth/login
//	POST   /api/auth/logout
//	POST   /api/auth/register                          company rep sign-up
//	GET    /api/auth/me                                [auth]
//	POST   /api/auth/password                          [auth]
//
//	GET    /api/student/internships                    [student]
//	POST   /api/student/internships/{id}/apply
//	GET    /api/student/applications
//	POST   /api/student/applications/{id}/accept
//	POST   /api/student/applications/{id}/withdraw
//	GET    /api/student/report
//
//	GET    /api/company/internships                    [company_rep]
//	POST   /api/company/internships
//	PUT    /api/company/internships/{id}
//	DELETE /api/company/internships/{id}
//	PATCH  /api/company/internships/{id}/visibility
//	GET    /api/company/internships/{id}/applications
//	POST   /api/company/applications/{id}/decision
//	GET    /api/company/report
//
//	GET    /api/staff/representatives/pending          [career_staff]
//	POST   /api/staff/representatives/{id}/decision
//	GET    /api/staff/internships/pending
//	GET    /api/staff/internships/{id}
//	POST   /api/staff/internships/{id}/decision
//	GET    /api/staff/withdrawals
//	POST   /api/staff/withdrawals/{id}/decision
//	POST   /api/staff/students
//	POST   /api/staff/staff
//	GET    /api/staff/report
//	GET    /api/staff/audit
//
// Middleware runs in the order it is added: RequestID first so the logger
// can report it, Recoverer last so it sees panics from every handler.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	authService := service.NewAuthService(s.engine, s.tokens, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.engine, s.logger)
	studentHandler := handler.NewStudentHandler(s.engine, s.logger)
	companyHandler := handler.NewCompanyHandler(s.engine, s.logger)
	staffHandler := handler.NewStaffHandler(s.engine, s.logger)

	requireAuth := auth.RequireAuth(s.tokens)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)
			r.Post("/register", authHandler.HandleRegister)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authHandler.HandleMe)
				r.Post("/password", authHandler.HandleChangePassword)
			})
		})

		r.Route("/student", func(r chi.Router) {
			r.Use(requireAuth, auth.RequireRole(model.RoleStudent))
			r.Get("/internships", studentHandler.HandleListInternships)
			r.Post("/internships/{id}/apply", studentHandler.HandleApply)
			r.Get("/applications", studentHandler.HandleListApplications)
			r.Post("/applications/{id}/accept", studentHandler.HandleAccept)
			r.Post("/applications/{id}/withdraw", studentHandler.HandleWithdraw)
			r.Get("/report", studentHandler.HandleReport)
		})

		r.Route("/company", func(r chi.Router) {
			r.Use(requireAuth, auth.RequireRole(model.RoleCompanyRep))
			r.Get("/internships", companyHandler.HandleListInternships)
			r.Post("/internships", companyHandler.HandleCreate)
			r.Put("/internships/{id}", companyHandler.HandleUpdate)
			r.Delete("/internships/{id}", companyHandler.HandleDelete)
			r.Patch("/internships/{id}/visibility", companyHandler.HandleVisibility)
			r.Get("/internships/{id}/applications", companyHandler.HandleListApplications)
			r.Post("/applications/{id}/decision", companyHandler.HandleDecide)
			r.Get("/report", companyHandler.HandleReport)
		})

		r.Route("/staff", func(r chi.Router) {
			r.Use(requireAuth, auth.RequireRole(model.RoleCareerStaff))
			r.Get("/representatives/pending", staffHandler.HandlePendingRepresentatives)
			r.Post("/representatives/{id}/decision", staffHandler.HandleDecideRepresentative)
			r.Get("/internships/pending", staffHandler.HandlePendingInternships)
			r.Get("/internships/{id}", staffHandler.HandleGetInternship)
			r.Post("/internships/{id}/decision", staffHandler.HandleDecideInternship)
			r.Get("/withdrawals", staffHandler.HandlePendingWithdrawals)
			r.Post("/withdrawals/{id}/decision", staffHandler.HandleResolveWithdrawal)
			r.Post("/students", staffHandler.HandleEnrollStudent)
			r.Post("/staff", staffHandler.HandleEnrollStaff)
			r.Get("/report", staffHandler.HandleReport)
			r.Get("/audit", staffHandler.HandleAudit)
		})
	})
}

// Start starts the HTTP server and handles graceful shutdown.
//
//  1. stop accepting new connections
//  2. wait up to 30s for in-flight requests
//  3. close the database (deferred)
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.App.Port),
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
			slog.Int("port", s.config.App.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.App.Port)),
			slog.String("database", s.config.Storage.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
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

// Close releases the database. Only needed when Start was never called.
func (s *Server) Close() error {
	return s.db.Close()
}
