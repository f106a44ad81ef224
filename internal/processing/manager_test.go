package processing

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

func TestManager_ListBuiltins(t *testing.T) {
	m, _, _ := newTestManager(t)

	items, err := m.List(t.Context())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != len(builtins) {
		t.Fatalf("fresh list has %d entries, want %d", len(items), len(builtins))
	}
	defaults := 0
	for _, s := range items {
		if !s.BuiltIn {
			t.Errorf("fresh entry %s is not built-in", s.ID)
		}
		if s.IsDefault {
			defaults++
			if s.ID != fallbackDefaultID {
				t.Errorf("default is %s, want %s", s.ID, fallbackDefaultID)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("found %d defaults, want exactly 1", defaults)
	}
}

func TestManager_CreateAndOverrides(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := t.Context()

	s, err := m.Create(ctx, "Legal Docs", "Contracts and filings")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := m.Create(ctx, "", ""); !errors.Is(err, ErrInvalidStrategy) {
		t.Errorf("empty name: got %v, want ErrInvalidStrategy", err)
	}

	if err := m.Rename(ctx, s.ID, "Legal"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if err := m.SetDescription(ctx, s.ID, "Contracts only"); err != nil {
		t.Fatalf("SetDescription() error = %v", err)
	}

	got, err := m.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Legal" || got.Description != "Contracts only" {
		t.Errorf("overrides not applied: %+v", got)
	}

	// Overrides shadow built-ins too.
	if err := m.Rename(ctx, "standard", "House Default"); err != nil {
		t.Fatal(err)
	}
	b, err := m.Get(ctx, "standard")
	if err != nil {
		t.Fatal(err)
	}
	if b.Name != "House Default" || !b.BuiltIn {
		t.Errorf("built-in override: %+v", b)
	}
}

func TestManager_SetDefault(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := t.Context()

	s, err := m.Create(ctx, "Custom", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetDefault(ctx, s.ID); err != nil {
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
			if it.ID != s.ID {
				t.Errorf("default is %s, want %s", it.ID, s.ID)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("found %d defaults, want exactly 1", defaults)
	}

	if err := m.SetDefault(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: got %v, want ErrNotFound", err)
	}
}

func TestManager_DeleteBuiltinAndRestore(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := t.Context()

	if err := m.Delete(ctx, "standard"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := m.Get(ctx, "standard"); !errors.Is(err, ErrNotFound) {
		t.Errorf("soft-deleted built-in still visible: %v", err)
	}

	// The default moved off the deleted entry.
	items, err := m.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defaults := 0
	for _, it := range items {
		if it.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Errorf("found %d defaults after deleting the default, want 1", defaults)
	}

	if err := m.Restore(ctx, "standard"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if _, err := m.Get(ctx, "standard"); err != nil {
		t.Errorf("restored built-in not visible: %v", err)
	}

	s, err := m.Create(ctx, "Custom", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Restore(ctx, s.ID); !errors.Is(err, ErrInvalidStrategy) {
		t.Errorf("restoring a user strategy: got %v, want ErrInvalidStrategy", err)
	}
}

func TestManager_DeleteCustomCleansKeys(t *testing.T) {
	m, s, _ := newTestManager(t)
	ctx := t.Context()

	created, err := m.Create(ctx, "Custom", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetNeedsReprocess(ctx, created.ID, true); err != nil {
		t.Fatal(err)
	}
	if err := m.SaveParsers(ctx, created.ID, []ParserRow{
		{ID: "p1", Name: "TextParser", Priority: 10, Config: map[string]any{}},
	}); err != nil {
		t.Fatal(err)
	}

	if err := m.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := m.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted strategy still visible: %v", err)
	}
	for _, key := range []string{
		store.ParsersKey(created.ID),
		store.NeedsReprocessKey(created.ID),
	} {
		if _, ok, _ := s.Get(ctx, key); ok {
			t.Errorf("key %s not cleaned up", key)
		}
	}
}

func TestManager_BuiltinSeedRows(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := t.Context()

	parsers, err := m.Parsers(ctx, "standard")
	if err != nil {
		t.Fatalf("Parsers() error = %v", err)
	}
	if len(parsers) == 0 {
		t.Fatal("standard built-in has no seed parsers")
	}
	for _, p := range parsers {
		if p.Config == nil {
			t.Errorf("seed parser %s has nil config", p.Name)
		}
		if err := CheckPriority(p.Priority); err != nil {
			t.Errorf("seed parser %s: %v", p.Name, err)
		}
	}

	extractors, err := m.Extractors(ctx, "standard")
	if err != nil {
		t.Fatalf("Extractors() error = %v", err)
	}
	if len(extractors) == 0 {
		t.Fatal("standard built-in has no seed extractors")
	}

	// User strategies start with no rows.
	s, err := m.Create(ctx, "Custom", "")
	if err != nil {
		t.Fatal(err)
	}
	rows, err := m.Parsers(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("new strategy has %d parser rows, want 0", len(rows))
	}
}

func TestManager_SaveParsers_RejectsBeforeWrite(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := t.Context()

	good := []ParserRow{{ID: "p1", Name: "TextParser", Priority: 5, Config: map[string]any{}}}
	if err := m.SaveParsers(ctx, "standard", good); err != nil {
		t.Fatalf("SaveParsers() error = %v", err)
	}

	bad := []ParserRow{
		{ID: "p1", Name: "TextParser", Priority: 5, Config: map[string]any{}},
		{ID: "p2", Name: "PDFParser", Priority: 2000, Config: map[string]any{}},
	}
	if err := m.SaveParsers(ctx, "standard", bad); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("got %v, want ErrInvalidPriority", err)
	}

	// The rejected save must not have touched the stored list.
	rows, err := m.Parsers(ctx, "standard")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ID != "p1" {
		t.Errorf("stored rows changed after rejected save: %+v", rows)
	}
}

func TestManager_SaveParsers_SchemaValidation(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := t.Context()

	bad := []ParserRow{{
		ID:       "p1",
		Name:     "PDFParser",
		Priority: 10,
		Config:   map[string]any{"extract_images": "yes"},
	}}
	if err := m.SaveParsers(ctx, "standard", bad); !errors.Is(err, ErrInvalidStrategy) {
		t.Fatalf("got %v, want ErrInvalidStrategy", err)
	}

	// Rows naming an unregistered parser pass through.
	custom := []ParserRow{{
		ID:       "p1",
		Name:     "InHouseParser",
		Priority: 10,
		Config:   map[string]any{"anything": true},
	}}
	if err := m.SaveParsers(ctx, "standard", custom); err != nil {
		t.Errorf("unregistered parser rejected: %v", err)
	}
}

func TestManager_LegacyPriorityMigration(t *testing.T) {
	m, s, _ := newTestManager(t)
	ctx := t.Context()

	legacy := `[
		{"id":"a","name":"PDFParser","priority":120,"config":{}},
		{"id":"b","name":"DocxParser","priority":95,"config":{}},
		{"id":"c","name":"HTMLParser","priority":85,"config":{}},
		{"id":"d","name":"MarkdownParser","priority":60,"config":{}},
		{"id":"e","name":"TextParser","priority":0,"config":{}},
		{"id":"f","name":"CSVParser","priority":7,"config":{}}
	]`
	if err := s.Set(ctx, store.ParsersKey("standard"), legacy); err != nil {
		t.Fatal(err)
	}

	rows, err := m.Parsers(ctx, "standard")
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 2, 3, 4, 1, 7}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, w := range want {
		if rows[i].Priority != w {
			t.Errorf("row %s priority = %d, want %d", rows[i].ID, rows[i].Priority, w)
		}
	}
}

func TestManager_Duplicate(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := t.Context()

	dup, err := m.Duplicate(ctx, "standard", "Standard Copy")
	if err != nil {
		t.Fatalf("Duplicate() error = %v", err)
	}
	if dup.BuiltIn {
		t.Error("duplicate is marked built-in")
	}

	srcParsers, err := m.Parsers(ctx, "standard")
	if err != nil {
		t.Fatal(err)
	}
	dupParsers, err := m.Parsers(ctx, dup.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(dupParsers) != len(srcParsers) {
		t.Fatalf("duplicate has %d parser rows, want %d", len(dupParsers), len(srcParsers))
	}
	for i := range dupParsers {
		if dupParsers[i].ID == srcParsers[i].ID {
			t.Errorf("duplicate row %d shares id with source", i)
		}
		if dupParsers[i].Name != srcParsers[i].Name {
			t.Errorf("duplicate row %d name = %s, want %s", i, dupParsers[i].Name, srcParsers[i].Name)
		}
	}
}

func TestManager_NeedsReprocess(t *testing.T) {
	m, s, _ := newTestManager(t)
	ctx := t.Context()

	needed, err := m.NeedsReprocess(ctx, "standard")
	if err != nil || needed {
		t.Fatalf("fresh flag = %v, %v", needed, err)
	}
	if err := m.SetNeedsReprocess(ctx, "standard", true); err != nil {
		t.Fatal(err)
	}
	needed, err = m.NeedsReprocess(ctx, "standard")
	if err != nil || !needed {
		t.Fatalf("set flag = %v, %v", needed, err)
	}

	raw, _, _ := s.Get(ctx, store.NeedsReprocessKey("standard"))
	if raw != "1" {
		t.Errorf("stored flag = %q, want \"1\"", raw)
	}
	if err := m.SetNeedsReprocess(ctx, "standard", false); err != nil {
		t.Fatal(err)
	}
	raw, _, _ = s.Get(ctx, store.NeedsReprocessKey("standard"))
	if raw != "0" {
		t.Errorf("stored flag = %q, want \"0\"", raw)
	}
}

func TestManager_DatasetsUsingCount(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := t.Context()

	if err := m.SetDatasetsUsing(ctx, "standard", []string{"support-tickets", "handbook"}); err != nil {
		t.Fatal(err)
	}
	got, err := m.Get(ctx, "standard")
	if err != nil {
		t.Fatal(err)
	}
	if got.DatasetsUsing != 2 {
		t.Errorf("DatasetsUsing = %d, want 2", got.DatasetsUsing)
	}
}

func TestManager_SaveExtractorsNotifies(t *testing.T) {
	m, _, bus := newTestManager(t)
	ctx := t.Context()
	events, cancel := bus.Subscribe(4)
	defer cancel()

	rows := []ExtractorRow{{ID: "e1", Name: "TitleExtractor", Priority: 10, Config: map[string]any{}}}
	if err := m.SaveExtractors(ctx, "standard", rows); err != nil {
		t.Fatalf("SaveExtractors() error = %v", err)
	}

	select {
	case e := <-events:
		if e.Name != store.EventExtractionUpdated || e.StrategyID != "standard" {
			t.Errorf("event = %+v", e)
		}
	default:
		t.Error("no extraction event published")
	}
}
