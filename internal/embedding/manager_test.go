package embedding

import (
	"errors"
	"testing"

	"github.com/litflow/litflow/internal/store"
)

func newTestManager(t *testing.T) (*Manager, *store.MemStore, *store.Bus) {
	t.Helper()
	s := store.NewMemStore()
	bus := store.NewBus()
	return NewManager(s, bus, nil), s, bus
}

func TestManager_ListSeedsDefault(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := t.Context()

	items, err := m.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("seeded list has %d entries, want 1", len(items))
	}
	if !items[0].IsDefault {
		t.Error("seeded entry is not the default")
	}

	cfg, err := m.GetConfig(ctx, items[0].ID)
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if cfg.Provider != "sentence-transformers" {
		t.Errorf("seeded provider = %q, want sentence-transformers", cfg.Provider)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("seeded config should validate: %v", err)
	}
}

func TestManager_GetConfig_FallsBackOnMalformed(t *testing.T) {
	m, s, _ := newTestManager(t)
	ctx := t.Context()

	if err := s.Set(ctx, store.EmbeddingConfigKey("x"), `{broken`); err != nil {
		t.Fatal(err)
	}
	cfg, err := m.GetConfig(ctx, "x")
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if cfg.ModelID != "all-MiniLM-L6-v2" {
		t.Errorf("fallback model = %q, want all-MiniLM-L6-v2", cfg.ModelID)
	}
}

func TestManager_SaveConfig(t *testing.T) {
	m, s, bus := newTestManager(t)
	ctx := t.Context()
	events, cancel := bus.Subscribe(4)
	defer cancel()

	cfg := DefaultConfigFor("openai", "text-embedding-3-small")
	if err := m.SaveConfig(ctx, "emb-1", cfg); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	got, err := m.GetConfig(ctx, "emb-1")
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if got.Provider != "openai" || got.Dimension != 1536 {
		t.Errorf("round-trip config = %+v", got)
	}

	// The raw model id is mirrored under its own key.
	raw, ok, err := s.Get(ctx, store.EmbeddingModelKey("emb-1"))
	if err != nil || !ok {
		t.Fatalf("model key missing: ok=%v err=%v", ok, err)
	}
	if raw != "text-embedding-3-small" {
		t.Errorf("model key = %q", raw)
	}

	select {
	case e := <-events:
		if e.Name != store.EventEmbeddingUpdated || e.StrategyID != "emb-1" {
			t.Errorf("event = %+v", e)
		}
	default:
		t.Error("no change event published")
	}
}

func TestManager_SaveConfig_RejectsInvalid(t *testing.T) {
	m, _, _ := newTestManager(t)

	cfg := DefaultConfig()
	cfg.BatchSize = 0
	err := m.SaveConfig(t.Context(), "emb-1", cfg)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("got %v, want ErrInvalidConfig", err)
	}
}

func TestManager_CreateSetDefaultDelete(t *testing.T) {
	m, s, _ := newTestManager(t)
	ctx := t.Context()

	if _, err := m.List(ctx); err != nil {
		t.Fatal(err)
	}
	item, err := m.Create(ctx, "Cloud", DefaultConfigFor("openai", "text-embedding-3-large"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if item.ID == "" || item.IsDefault {
		t.Errorf("created item = %+v", item)
	}

	if _, err := m.Create(ctx, "", DefaultConfig()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("empty name: got %v, want ErrInvalidConfig", err)
	}

	if err := m.SetDefault(ctx, item.ID); err != nil {
		t.Fatalf("SetDefault() error = %v", err)
	}
	items, err := m.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defaults := 0
	for _, it := range items {
		if it.IsDefault {
			defaults++
			if it.ID != item.ID {
				t.Errorf("default is %s, want %s", it.ID, item.ID)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("found %d defaults, want exactly 1", defaults)
	}

	if err := m.SetDefault(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: got %v, want ErrNotFound", err)
	}

	if err := m.Delete(ctx, item.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	items, err = m.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, it := range items {
		if it.ID == item.ID {
			t.Error("deleted entry still listed")
		}
	}
	if len(items) > 0 && !items[0].IsDefault {
		t.Error("default not re-derived after delete")
	}

	// Config and model keys are cleaned up with the entry.
	if _, ok, _ := s.Get(ctx, store.EmbeddingConfigKey(item.ID)); ok {
		t.Error("config key not deleted")
	}
	if _, ok, _ := s.Get(ctx, store.EmbeddingModelKey(item.ID)); ok {
		t.Error("model key not deleted")
	}
}
