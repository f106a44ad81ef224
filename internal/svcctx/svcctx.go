// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/litflow/litflow/internal/config"
	"github.com/litflow/litflow/internal/embedding"
	"github.com/litflow/litflow/internal/home"
	"github.com/litflow/litflow/internal/processing"
	"github.com/litflow/litflow/internal/project"
	"github.com/litflow/litflow/internal/retrieval"
	"github.com/litflow/litflow/internal/store"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Store      store.Store
	Bus        *store.Bus
	Embeddings *embedding.Manager
	Retrievals *retrieval.Manager
	Processing *processing.Manager
	Projects   *project.Client
	ConfigMgr  *config.Manager
	Logger     *slog.Logger
	Home       *home.Dir
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// StoreFrom extracts the key-value store from context.
func StoreFrom(ctx context.Context) store.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Store
	}
	return nil
}

// BusFrom extracts the change-notification bus from context.
func BusFrom(ctx context.Context) *store.Bus {
	if s := ServicesFrom(ctx); s != nil {
		return s.Bus
	}
	return nil
}

// EmbeddingsFrom extracts the embedding strategy manager from context.
func EmbeddingsFrom(ctx context.Context) *embedding.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Embeddings
	}
	return nil
}

// RetrievalsFrom extracts the retrieval strategy manager from context.
func RetrievalsFrom(ctx context.Context) *retrieval.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Retrievals
	}
	return nil
}

// ProcessingFrom extracts the processing strategy manager from context.
func ProcessingFrom(ctx context.Context) *processing.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Processing
	}
	return nil
}

// ProjectsFrom extracts the project API client from context.
func ProjectsFrom(ctx context.Context) *project.Client {
	if s := ServicesFrom(ctx); s != nil {
		return s.Projects
	}
	return nil
}

// ConfigManagerFrom extracts the config manager from context.
func ConfigManagerFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.ConfigMgr
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}
