// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/notegenius/internal/api"
	"github.com/starford/notegenius/internal/assistant"
	"github.com/starford/notegenius/internal/autosave"
	"github.com/starford/notegenius/internal/editor"
	"github.com/starford/notegenius/internal/index"
	"github.com/starford/notegenius/internal/mcpserver"
	"github.com/starford/notegenius/internal/noteservice"
	"github.com/starford/notegenius/internal/sse"
	"github.com/starford/notegenius/internal/storage"
)

// tasksThrottle bounds how often tasks.updated is pushed to browsers.
const tasksThrottle = 2 * time.Second

// backend is the storage side shared by every run mode.
type backend struct {
	store *storage.FS
	db    *index.DB
}

func (b *backend) Close() error {
	return errors.Join(b.db.Close(), b.store.Close())
}

// openBackend opens the note directory and the index, then brings the index
// up to date with the files on disk.
func openBackend(cfg *Config, logger *slog.Logger) (*backend, error) {
	store, err := storage.NewFS(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("init index: %w", err)
	}

	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}
	return &backend{store: store, db: db}, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func newAssistant(cfg AIConfig) *assistant.Assistant {
	opts := assistant.Options{MaxTokens: cfg.MaxTokens, Temperature: cfg.Temperature}
	if !cfg.Enabled() {
		return assistant.New(nil, opts)
	}
	return assistant.New(assistant.NewClient(assistant.ClientConfig{
		Endpoint: cfg.Endpoint,
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
		Timeout:  cfg.Timeout,
	}), opts)
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := newLogger(os.Stdout, cfg.App.LogLevel)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_path", cfg.Store.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Bool("assistant", cfg.AI.Enabled()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	be, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer be.Close()

	// SSE broker.
	broker := sse.NewBroker(tasksThrottle)

	svc := noteservice.NewService(be.store, be.db,
		noteservice.WithHistoryLimit(cfg.Editor.HistoryLimit),
		noteservice.WithPublisher(broker),
		noteservice.WithLogger(logger),
	)
	saver := autosave.New(svc, cfg.Editor.AutosaveDelay, logger)
	svc.SetScheduler(saver)

	apiRouter := api.NewRouter(svc, newAssistant(cfg.AI), broker, cfg.App.HTTP.CORSOrigins)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := be.db.Ping(); err != nil {
			logger.Warn("readiness check failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(runCtx)

	// Start file watcher; external edits refresh open sessions and reach
	// browsers through the service's publisher.
	g.Go(func() error {
		if err := index.Watch(gCtx, be.db, be.store, be.store.Root(), logger, svc.ExternalChange); err != nil {
			logger.Error("watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

	// Debounced saves; pending notes are written once the group stops.
	g.Go(func() error {
		if err := saver.Run(gCtx); err != nil {
			return fmt.Errorf("autosave flush: %w", err)
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Closing the broker ends open event streams so Shutdown does not
		// wait on them.
		broker.Close()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// Stops the watcher and lets the saver flush.
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the MCP tools on stdin/stdout. Logs go to stderr because
// stdout carries the protocol. Edits are written through immediately.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(os.Stderr, cfg.App.LogLevel)
	slog.SetDefault(logger)

	be, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer be.Close()

	svc := noteservice.NewService(be.store, be.db,
		noteservice.WithHistoryLimit(cfg.Editor.HistoryLimit),
		noteservice.WithLogger(logger),
	)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := index.Watch(watchCtx, be.db, be.store, be.store.Root(), logger, svc.ExternalChange); err != nil {
			logger.Error("watcher failed", slog.String("error", err.Error()))
		}
	}()

	logger.Info("MCP server starting on stdio", slog.String("version", app.version))
	if err := mcpserver.New(svc, app.version).ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// Dictate appends every line of r to note id as a dictation chunk and saves
// the note. It returns the number of chunks applied.
func Dictate(ctx context.Context, id string, r io.Reader, opts ...Option) (int, error) {
	app, err := newApplication(opts)
	if err != nil {
		return 0, err
	}
	cfg := app.config

	logger := newLogger(os.Stderr, cfg.App.LogLevel)

	be, err := openBackend(cfg, logger)
	if err != nil {
		return 0, err
	}
	defer be.Close()

	svc := noteservice.NewService(be.store, be.db, noteservice.WithLogger(logger))
	return svc.Dictate(ctx, id, editor.NewLineSource(r))
}
