package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/litflow/litflow/internal/store"
	"github.com/litflow/litflow/internal/types"
)

// ErrNotFound is returned when an embedding strategy id is not in the list.
var ErrNotFound = errors.New("embedding strategy not found")

// Manager persists the project embedding list and per-strategy configs.
// List mutations rewrite the whole list and broadcast a change event.
type Manager struct {
	store  store.Store
	bus    *store.Bus
	logger *slog.Logger
}

// NewManager creates an embedding manager.
func NewManager(s store.Store, bus *store.Bus, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: s, bus: bus, logger: logger}
}

// List returns the project embedding list, seeding a single default entry
// when the list is missing or empty.
func (m *Manager) List(ctx context.Context) ([]types.Item, error) {
	var items []types.Item
	ok, err := store.LoadJSON(ctx, m.store, store.KeyProjectEmbeddings, &items)
	if err != nil {
		return nil, err
	}
	if !ok || len(items) == 0 {
		return m.seed(ctx)
	}
	return types.EnsureDefault(items), nil
}

func (m *Manager) seed(ctx context.Context) ([]types.Item, error) {
	items := []types.Item{{
		ID:        "default-embedding",
		Name:      "Default Embedding",
		IsDefault: true,
		Enabled:   true,
	}}
	if err := store.SaveJSON(ctx, m.store, store.KeyProjectEmbeddings, items); err != nil {
		return nil, err
	}
	if err := m.persistConfig(ctx, items[0].ID, DefaultConfig()); err != nil {
		return nil, err
	}

	m.logger.Info("seeded default embedding strategy", "id", items[0].ID)
	return items, nil
}

// GetConfig returns the persisted config for an embedding strategy,
// falling back to the catalog default when nothing usable is stored.
func (m *Manager) GetConfig(ctx context.Context, id string) (Config, error) {
	var cfg Config
	ok, err := store.LoadJSON(ctx, m.store, store.EmbeddingConfigKey(id), &cfg)
	if err != nil {
		return Config{}, err
	}
	if !ok || cfg.Provider == "" {
		return DefaultConfig(), nil
	}
	return cfg, nil
}

// SaveConfig validates and persists a config, mirrors the raw model id
// under its own key, and notifies listeners.
func (m *Manager) SaveConfig(ctx context.Context, id string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := m.persistConfig(ctx, id, cfg); err != nil {
		return err
	}
	m.bus.Notify(store.EventEmbeddingUpdated, id, map[string]any{"modelId": cfg.ModelID})
	return nil
}

func (m *Manager) persistConfig(ctx context.Context, id string, cfg Config) error {
	if err := store.SaveJSON(ctx, m.store, store.EmbeddingConfigKey(id), cfg); err != nil {
		return err
	}
	// The raw model id is mirrored for consumers that only need the model.
	if err := m.store.Set(ctx, store.EmbeddingModelKey(id), cfg.ModelID); err != nil {
		return err
	}
	return nil
}

// ModelID returns the raw persisted model id for a strategy, or the
// default model when absent.
func (m *Manager) ModelID(ctx context.Context, id string) (string, error) {
	raw, ok, err := store.LoadString(ctx, m.store, store.EmbeddingModelKey(id))
	if err != nil {
		return "", err
	}
	if !ok || raw == "" {
		return DefaultConfig().ModelID, nil
	}
	return raw, nil
}

// Create adds a new embedding entry with the given name and config.
func (m *Manager) Create(ctx context.Context, name string, cfg Config) (types.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Item{}, fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return types.Item{}, err
	}

	items, err := m.List(ctx)
	if err != nil {
		return types.Item{}, err
	}

	item := types.Item{
		ID:      uuid.NewString(),
		Name:    name,
		Enabled: true,
	}
	items = types.EnsureDefault(append(items, item))
	if err := store.SaveJSON(ctx, m.store, store.KeyProjectEmbeddings, items); err != nil {
		return types.Item{}, err
	}
	if err := m.persistConfig(ctx, item.ID, cfg); err != nil {
		return types.Item{}, err
	}

	m.bus.Notify(store.EventEmbeddingUpdated, item.ID, map[string]any{"created": true})
	return item, nil
}

// SetDefault flags the entry with the given id as the only default.
func (m *Manager) SetDefault(ctx context.Context, id string) error {
	items, err := m.List(ctx)
	if err != nil {
		return err
	}

	updated, found := types.SetDefault(items, id)
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := store.SaveJSON(ctx, m.store, store.KeyProjectEmbeddings, updated); err != nil {
		return err
	}

	m.bus.Notify(store.EventEmbeddingUpdated, id, map[string]any{"default": true})
	return nil
}

// Delete removes an entry and its config keys. A non-empty remainder
// keeps a default entry.
func (m *Manager) Delete(ctx context.Context, id string) error {
	items, err := m.List(ctx)
	if err != nil {
		return err
	}
	if types.Find(items, id) == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	remaining := types.Remove(items, id)
	if err := store.SaveJSON(ctx, m.store, store.KeyProjectEmbeddings, remaining); err != nil {
		return err
	}
	if err := m.store.Delete(ctx, store.EmbeddingConfigKey(id)); err != nil {
		return err
	}
	if err := m.store.Delete(ctx, store.EmbeddingModelKey(id)); err != nil {
		return err
	}

	m.bus.Notify(store.EventEmbeddingUpdated, id, map[string]any{"deleted": true})
	return nil
}
