// Package server exposes the compiled schema over HTTP: a POST /graphql
// endpoint, an interactive console, and a health probe. Schema reloads swap
// in atomically without dropping in-flight requests.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
)

// Server is the GraphQL HTTP server.
type Server struct {
	holder    *SchemaHolder
	bind      string
	port      int
	watchPath string
	logger    *slog.Logger
}

// Config holds configuration for the server.
type Config struct {
	Holder *SchemaHolder
	Bind   string
	Port   int
	// WatchPath, when set, names a config file whose changes trigger a
	// schema reload.
	WatchPath string
	Logger    *slog.Logger
}

// New creates a server instance.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		holder:    cfg.Holder,
		bind:      cfg.Bind,
		port:      cfg.Port,
		watchPath: cfg.WatchPath,
		logger:    logger,
	}
}

// Routes assembles the HTTP mux.
func (s *Server) Routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Post("/graphql", s.handleGraphQL)
	r.Get("/graphql", s.handlePlayground)
	r.Get("/healthz", s.handleHealth)
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.bind, s.port)
	s.logger.Info("starting GraphQL server", "addr", fmt.Sprintf("http://%s/graphql", addr))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watchPath != "" {
		eg.Go(func() error {
			return s.watchConfig(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// watchConfig reloads the schema when the watched config file changes. A
// reload failure logs and keeps the previous schema serving.
func (s *Server) watchConfig(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors replace files on save, which drops a
	// watch on the file itself.
	if err := watcher.Add(filepath.Dir(s.watchPath)); err != nil {
		s.logger.Error("failed to watch config directory", "error", err)
		return nil
	}

	target := filepath.Base(s.watchPath)

	// Debounce timer
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Base(event.Name) != target {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Info("config changed, reloading schema", "file", event.Name)
				if err := s.holder.Reload(ctx); err != nil {
					s.logger.Error("schema reload failed, keeping previous schema", "error", err)
				}
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}
