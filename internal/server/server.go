package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/litflow/litflow/internal/api"
	"github.com/litflow/litflow/internal/config"
	"github.com/litflow/litflow/internal/embedding"
	"github.com/litflow/litflow/internal/home"
	"github.com/litflow/litflow/internal/processing"
	"github.com/litflow/litflow/internal/project"
	"github.com/litflow/litflow/internal/retrieval"
	"github.com/litflow/litflow/internal/server/endpoints"
	"github.com/litflow/litflow/internal/store"
	"github.com/litflow/litflow/internal/svcctx"
)

// Server is the main Litflow HTTP server. It owns the key-value store
// lifecycle: opening it on start and closing it on shutdown.
type Server struct {
	httpServer *http.Server
	store      store.Store
	bus        *store.Bus
	configMgr  *config.Manager
	homeDir    *home.Dir
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	closeStore func() error

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8580)
	Port int
	// Home is the litflow home directory
	Home *home.Dir
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Store overrides the backend opened from config, mainly for tests
	Store store.Store
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8580
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Home == nil {
		var err error
		cfg.Home, err = home.New("")
		if err != nil {
			return nil, err
		}
	}

	s := &Server{
		store:     cfg.Store,
		configMgr: cfg.ConfigManager,
		homeDir:   cfg.Home,
		logger:    cfg.Logger,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{SwaggerSpecPath: endpoints.GetSwaggerSpecPath()}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// openStore opens the configured store backend unless one was injected.
func (s *Server) openStore() error {
	if s.store != nil {
		return nil
	}

	var storeCfg config.StoreCfg
	if s.configMgr != nil {
		storeCfg = s.configMgr.Get().Store
	}
	if storeCfg.Memory {
		s.store = store.NewMemStore()
		return nil
	}

	path := storeCfg.Path
	if path == "" {
		path = s.homeDir.StorePath()
	}
	if err := s.homeDir.EnsureExists(); err != nil {
		return err
	}
	db, err := store.OpenSQLite(path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	s.store = db
	s.closeStore = db.Close
	s.logger.Info("opened store", "path", path)
	return nil
}

// initServices opens the store and wires the service set used to enrich
// request contexts.
func (s *Server) initServices() error {
	if err := s.openStore(); err != nil {
		return err
	}

	s.bus = store.NewBus()

	var projects *project.Client
	if s.configMgr != nil {
		pc := s.configMgr.Get().Project
		if pc.BaseURL != "" {
			opts := []project.Option{}
			if pc.Attempts > 0 {
				opts = append(opts, project.WithAttempts(pc.Attempts))
			}
			projects = project.NewClient(pc.BaseURL, opts...)
		}
	}

	s.services = &svcctx.Services{
		Store:      s.store,
		Bus:        s.bus,
		Embeddings: embedding.NewManager(s.store, s.bus, s.logger),
		Retrievals: retrieval.NewManager(s.store, s.bus, s.logger),
		Processing: processing.NewManager(s.store, s.bus, s.logger),
		Projects:   projects,
		ConfigMgr:  s.configMgr,
		Logger:     s.logger,
		Home:       s.homeDir,
	}
	return nil
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if err := s.initServices(); err != nil {
		s.setNotRunning()
		return err
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			_ = s.shutdown()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server and the store.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	if s.closeStore != nil {
		if err := s.closeStore(); err != nil {
			s.logger.Error("store close error", "error", err)
		}
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Services returns the wired service set.
// Returns nil if the server hasn't started yet.
func (s *Server) Services() *svcctx.Services {
	return s.services
}

// Handler returns the server's HTTP handler, for tests that drive requests
// without a listener.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable if the store and managers aren't ready.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.services == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
