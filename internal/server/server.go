// Package server wires the execution service: router, middleware, handlers
// and the resources they share.
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it testable (tests build a
// Server and drive Handler() through httptest) and keeps main.go down to
// "load config, pick an executor, start".
//
// DEPENDENCY INJECTION FLOW:
// main.go creates the logger and the executor, then:
//
//	Server.New() opens sqlite.DB (history) and workspace.Store (temp files)
//	  → RunService(exec, store, db) → RunHandler
//	  → FileService(store)          → FilesHandler
//
// This is the "composition root": all wiring happens in New/setupRoutes.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/pysnap/internal/config"
	"github.com/sakif/pysnap/internal/executor"
	"github.com/sakif/pysnap/internal/handler"
	"github.com/sakif/pysnap/internal/middleware"
	sqliteRepo "github.com/sakif/pysnap/internal/repository/sqlite"
	"github.com/sakif/pysnap/internal/service"
	"github.com/sakif/pysnap/internal/workspace"
)

// Config holds the parts of config.ServerConfig the server itself uses.
type Config struct {
	Addr    string
	TempDir string
	DBPath  string
	MaxList int
}

// ConfigFrom picks the server settings out of the loaded file config.
func ConfigFrom(c config.ServerConfig) Config {
	return Config{
		Addr:    c.Addr,
		TempDir: c.TempDir,
		DBPath:  c.DBPath,
		MaxList: c.MaxList,
	}
}

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the history database. Start closes it on shutdown; tests
// that never call Start call Close instead.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	store  *workspace.Store
	exec   executor.Executor
}

// New opens the history database and the temp directory and wires the routes.
func New(cfg Config, logger *slog.Logger, exec executor.Executor) (*Server, error) {
	if exec == nil {
		return nil, errors.New("server: an executor is required")
	}

	// === CREATE DATABASE ===
	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// === TEMP DIRECTORY ===
	store, err := workspace.New(cfg.TempDir)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("opening temp dir: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		store:  store,
		exec:   exec,
	}
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// POST   /run             → check, save, execute, record
// GET    /files           → saved runs, newest first
// GET    /file/{name}     → one file's content (JSON)
// GET    /download/{name} → one file as an attachment
// DELETE /clear           → delete every saved run
// GET    /history         → one day of run history
//
// MIDDLEWARE ORDER MATTERS:
// RequestID runs first so the logger can read the ID; Recoverer sits inside
// the logger so a panic is still logged as a 500.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	runService := service.NewRunService(s.exec, s.store, s.db, s.logger)
	fileService := service.NewFileService(s.store, s.config.MaxList, s.logger)

	runHandler := handler.NewRunHandler(runService, s.logger)
	filesHandler := handler.NewFilesHandler(fileService, s.logger)

	s.router.Post("/run", runHandler.HandleRun)
	s.router.Get("/history", runHandler.HandleHistory)
	s.router.Get("/files", filesHandler.HandleList)
	s.router.Get("/file/{name}", filesHandler.HandleGet)
	s.router.Get("/download/{name}", filesHandler.HandleDownload)
	s.router.Delete("/clear", filesHandler.HandleClear)
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the history database.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start serves until SIGINT/SIGTERM, then shuts down gracefully.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new connections
// 2. Wait for in-flight runs to finish (30s)
// 3. Close the database (flushes WAL, releases the file lock)
func (s *Server) Start() error {
	defer s.db.Close()

	// WriteTimeout is left at zero: a run without a timeout may legitimately
	// take longer than any fixed bound.
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.String("addr", s.config.Addr),
			slog.String("temp_dir", s.store.Dir()),
			slog.String("database", s.config.DBPath),
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
