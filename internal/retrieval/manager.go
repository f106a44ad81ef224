package retrieval

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

// ErrNotFound is returned when a retrieval strategy id is not in the list.
var ErrNotFound = errors.New("retrieval strategy not found")

// Manager persists the project retrieval list and per-strategy configs.
// Every mutation rewrites the full list (last-write-wins, no version
// check) and broadcasts a change event afterwards; readers re-read from
// the store rather than trusting event payloads.
type Manager struct {
	store  store.Store
	bus    *store.Bus
	logger *slog.Logger
}

// NewManager creates a retrieval manager.
func NewManager(s store.Store, bus *store.Bus, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: s, bus: bus, logger: logger}
}

// List returns the project retrieval list, seeding a single default entry
// when the list is missing or empty so the project is never without one.
func (m *Manager) List(ctx context.Context) ([]types.Item, error) {
	var items []types.Item
	ok, err := store.LoadJSON(ctx, m.store, store.KeyProjectRetrievals, &items)
	if err != nil {
		return nil, err
	}
	if !ok || len(items) == 0 {
		return m.seed(ctx)
	}
	return types.EnsureDefault(items), nil
}

// seed writes the initial default retrieval entry and its config.
func (m *Manager) seed(ctx context.Context) ([]types.Item, error) {
	items := []types.Item{{
		ID:        "default-retrieval",
		Name:      "Default Retrieval",
		IsDefault: true,
		Enabled:   true,
	}}
	if err := store.SaveJSON(ctx, m.store, store.KeyProjectRetrievals, items); err != nil {
		return nil, err
	}

	seedConfig := StrategyConfig{
		Type:   StrategyBasicSimilarity,
		Config: DefaultConfig(StrategyBasicSimilarity),
	}
	if err := store.SaveJSON(ctx, m.store, store.RetrievalConfigKey(items[0].ID), seedConfig); err != nil {
		return nil, err
	}

	m.logger.Info("seeded default retrieval strategy", "id", items[0].ID)
	return items, nil
}

// GetConfig returns the persisted config for a retrieval strategy,
// falling back to the basic similarity defaults when nothing (or
// something malformed) is stored.
func (m *Manager) GetConfig(ctx context.Context, id string) (StrategyConfig, error) {
	var sc StrategyConfig
	ok, err := store.LoadJSON(ctx, m.store, store.RetrievalConfigKey(id), &sc)
	if err != nil {
		return StrategyConfig{}, err
	}
	if !ok || !ValidType(sc.Type) {
		return StrategyConfig{
			Type:   StrategyBasicSimilarity,
			Config: DefaultConfig(StrategyBasicSimilarity),
		}, nil
	}
	return sc, nil
}

// SaveConfig persists a strategy config and notifies listeners.
func (m *Manager) SaveConfig(ctx context.Context, id string, sc StrategyConfig) error {
	if !ValidType(sc.Type) {
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, sc.Type)
	}
	if err := store.SaveJSON(ctx, m.store, store.RetrievalConfigKey(id), sc); err != nil {
		return err
	}
	m.bus.Notify(store.EventRetrievalUpdated, id, map[string]any{"type": string(sc.Type)})
	return nil
}

// Create adds a new retrieval entry with the given name and config.
// The first entry created into an empty list becomes the default.
func (m *Manager) Create(ctx context.Context, name string, sc StrategyConfig) (types.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Item{}, fmt.Errorf("%w: name is required", ErrInvalidField)
	}
	if !ValidType(sc.Type) {
		return types.Item{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, sc.Type)
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
	if err := store.SaveJSON(ctx, m.store, store.KeyProjectRetrievals, items); err != nil {
		return types.Item{}, err
	}
	if err := store.SaveJSON(ctx, m.store, store.RetrievalConfigKey(item.ID), sc); err != nil {
		return types.Item{}, err
	}

	m.bus.Notify(store.EventRetrievalUpdated, item.ID, map[string]any{"created": true})
	return item, nil
}

// SetDefault flags the entry with the given id as the only default.
// The whole list is rewritten.
func (m *Manager) SetDefault(ctx context.Context, id string) error {
	items, err := m.List(ctx)
	if err != nil {
		return err
	}

	updated, found := types.SetDefault(items, id)
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := store.SaveJSON(ctx, m.store, store.KeyProjectRetrievals, updated); err != nil {
		return err
	}

	m.bus.Notify(store.EventRetrievalUpdated, id, map[string]any{"default": true})
	return nil
}

// Delete removes an entry and its config. A non-empty remainder keeps a
// default entry.
func (m *Manager) Delete(ctx context.Context, id string) error {
	items, err := m.List(ctx)
	if err != nil {
		return err
	}
	if types.Find(items, id) == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	remaining := types.Remove(items, id)
	if err := store.SaveJSON(ctx, m.store, store.KeyProjectRetrievals, remaining); err != nil {
		return err
	}
	if err := m.store.Delete(ctx, store.RetrievalConfigKey(id)); err != nil {
		return err
	}

	m.bus.Notify(store.EventRetrievalUpdated, id, map[string]any{"deleted": true})
	return nil
}

// Rename updates an entry's display name.
func (m *Manager) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidField)
	}

	items, err := m.List(ctx)
	if err != nil {
		return err
	}
	item := types.Find(items, id)
	if item == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	item.Name = name

	if err := store.SaveJSON(ctx, m.store, store.KeyProjectRetrievals, items); err != nil {
		return err
	}
	m.bus.Notify(store.EventRetrievalUpdated, id, nil)
	return nil
}
