package retrieval

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

	// Seeded config must be loadable and well-formed.
	sc, err := m.GetConfig(ctx, items[0].ID)
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if sc.Type != StrategyBasicSimilarity {
		t.Errorf("seeded config type = %s, want %s", sc.Type, StrategyBasicSimilarity)
	}
}

func TestManager_GetConfig_FallsBackOnMalformed(t *testing.T) {
	m, s, _ := newTestManager(t)
	ctx := t.Context()

	if err := s.Set(ctx, store.RetrievalConfigKey("x"), `{broken`); err != nil {
		t.Fatal(err)
	}
	sc, err := m.GetConfig(ctx, "x")
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if sc.Type != StrategyBasicSimilarity {
		t.Errorf("fallback type = %s, want %s", sc.Type, StrategyBasicSimilarity)
	}
}

func TestManager_SaveConfig(t *testing.T) {
	m, _, bus := newTestManager(t)
	ctx := t.Context()

	events, cancel := bus.Subscribe(4)
	defer cancel()

	config, err := BuildConfig(StrategyMultiQuery, FormFields{
		NumQueries: "2", TopK: "4", AggregationMethod: "mean", QueryWeights: "0.6,0.4",
	})
	if err != nil {
		t.Fatalf("BuildConfig() error = %v", err)
	}

	if err := m.SaveConfig(ctx, "s1", StrategyConfig{Type: StrategyMultiQuery, Config: config}); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	sc, err := m.GetConfig(ctx, "s1")
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if sc.Type != StrategyMultiQuery {
		t.Errorf("type = %s, want %s", sc.Type, StrategyMultiQuery)
	}

	select {
	case e := <-events:
		if e.Name != store.EventRetrievalUpdated || e.StrategyID != "s1" {
			t.Errorf("event = %+v, want %s for s1", e, store.EventRetrievalUpdated)
		}
	default:
		t.Error("no event published after SaveConfig")
	}
}

func TestManager_SaveConfig_RejectsUnknownType(t *testing.T) {
	m, _, _ := newTestManager(t)
	err := m.SaveConfig(t.Context(), "s1", StrategyConfig{Type: "Bogus"})
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("SaveConfig() error = %v, want ErrUnknownStrategy", err)
	}
}

func TestManager_RoundTrip(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := t.Context()

	fields := FormFields{
		TopK: "7", DistanceMetric: "dot", ScoreThreshold: "0.1",
	}
	built, err := BuildConfig(StrategyBasicSimilarity, fields)
	if err != nil {
		t.Fatalf("BuildConfig() error = %v", err)
	}
	if err := m.SaveConfig(ctx, "rt", StrategyConfig{Type: StrategyBasicSimilarity, Config: built}); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	// Load back into form state and rebuild.
	loaded, err := m.GetConfig(ctx, "rt")
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	rebuilt, err := BuildConfig(loaded.Type, FormFieldsFrom(loaded))
	if err != nil {
		t.Fatalf("BuildConfig() on loaded fields error = %v", err)
	}
	if !jsonEqual(t, built, rebuilt) {
		t.Errorf("round-trip mismatch:\nbuilt   = %#v\nrebuilt = %#v", built, rebuilt)
	}
}

func TestManager_CreateSetDefaultDelete(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := t.Context()

	item, err := m.Create(ctx, "Precise", StrategyConfig{
		Type:   StrategyReranked,
		Config: DefaultConfig(StrategyReranked),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	items, err := m.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("list has %d entries, want 2 (seed + created)", len(items))
	}

	t.Run("set_default", func(t *testing.T) {
		if err := m.SetDefault(ctx, item.ID); err != nil {
			t.Fatalf("SetDefault() error = %v", err)
		}
		items, _ := m.List(ctx)
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
			t.Errorf("defaults = %d, want 1", defaults)
		}
	})

	t.Run("set_default_missing", func(t *testing.T) {
		if err := m.SetDefault(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
			t.Errorf("SetDefault(ghost) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete_default_rederives", func(t *testing.T) {
		if err := m.Delete(ctx, item.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		items, _ := m.List(ctx)
		if len(items) != 1 {
			t.Fatalf("list has %d entries, want 1", len(items))
		}
		if !items[0].IsDefault {
			t.Error("no default remains after deleting the default entry")
		}
	})

	t.Run("create_blank_name", func(t *testing.T) {
		_, err := m.Create(ctx, "  ", StrategyConfig{Type: StrategyBasicSimilarity})
		if !errors.Is(err, ErrInvalidField) {
			t.Errorf("Create() error = %v, want ErrInvalidField", err)
		}
	})
}
