package processing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/litflow/litflow/internal/schema"
	"github.com/litflow/litflow/internal/store"
)

var (
	// ErrNotFound is returned when a strategy id is not in the merged view.
	ErrNotFound = errors.New("processing strategy not found")

	// ErrInvalidStrategy is returned for rejected strategy or row input.
	ErrInvalidStrategy = errors.New("invalid processing strategy")
)

// Manager maintains the merged view of built-in and user-created processing
// strategies. Built-ins live in code; every mutation on them is an override
// key or a soft-delete entry, never an edit of the built-in itself. Row and
// list mutations rewrite the whole persisted value.
type Manager struct {
	store  store.Store
	bus    *store.Bus
	logger *slog.Logger
}

// NewManager creates a processing strategy manager.
func NewManager(s store.Store, bus *store.Bus, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: s, bus: bus, logger: logger}
}

// List returns all visible strategies: built-ins that have not been
// soft-deleted followed by user-created ones, with name and description
// overrides applied and exactly one entry flagged default.
func (m *Manager) List(ctx context.Context) ([]Strategy, error) {
	deleted, err := m.deletedIDs(ctx)
	if err != nil {
		return nil, err
	}
	customs, err := m.customStrategies(ctx)
	if err != nil {
		return nil, err
	}

	var out []Strategy
	for _, b := range builtins {
		if slices.Contains(deleted, b.ID) {
			continue
		}
		out = append(out, b)
	}
	for _, c := range customs {
		if slices.Contains(deleted, c.ID) {
			continue
		}
		out = append(out, c)
	}

	defID, err := m.defaultID(ctx, out)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if err := m.decorate(ctx, &out[i]); err != nil {
			return nil, err
		}
		out[i].IsDefault = out[i].ID == defID
	}
	return out, nil
}

// Get returns one visible strategy by id.
func (m *Manager) Get(ctx context.Context, id string) (Strategy, error) {
	items, err := m.List(ctx)
	if err != nil {
		return Strategy{}, err
	}
	for _, s := range items {
		if s.ID == id {
			return s, nil
		}
	}
	return Strategy{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// decorate applies per-id override keys and the datasets-using count.
func (m *Manager) decorate(ctx context.Context, s *Strategy) error {
	if name, ok, err := store.LoadString(ctx, m.store, store.NameOverrideKey(s.ID)); err != nil {
		return err
	} else if ok && name != "" {
		s.Name = name
	}
	if desc, ok, err := store.LoadString(ctx, m.store, store.DescriptionKey(s.ID)); err != nil {
		return err
	} else if ok {
		s.Description = desc
	}
	using, err := m.DatasetsUsing(ctx, s.ID)
	if err != nil {
		return err
	}
	s.DatasetsUsing = len(using)
	return nil
}

func (m *Manager) deletedIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if _, err := store.LoadJSON(ctx, m.store, store.KeyDeletedStrategies, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (m *Manager) customStrategies(ctx context.Context) ([]Strategy, error) {
	var customs []Strategy
	if _, err := store.LoadJSON(ctx, m.store, store.KeyCustomStrategies, &customs); err != nil {
		return nil, err
	}
	return customs, nil
}

// defaultID resolves the default pointer against the visible list, falling
// back to the standard built-in and then to the first visible entry.
func (m *Manager) defaultID(ctx context.Context, visible []Strategy) (string, error) {
	id, ok, err := store.LoadString(ctx, m.store, store.KeyDefaultStrategy)
	if err != nil {
		return "", err
	}
	has := func(id string) bool {
		return slices.ContainsFunc(visible, func(s Strategy) bool { return s.ID == id })
	}
	if ok && has(id) {
		return id, nil
	}
	if has(fallbackDefaultID) {
		return fallbackDefaultID, nil
	}
	if len(visible) > 0 {
		return visible[0].ID, nil
	}
	return "", nil
}

// Create adds a user strategy with no rows. Name is required.
func (m *Manager) Create(ctx context.Context, name, description string) (Strategy, error) {
	if name == "" {
		return Strategy{}, fmt.Errorf("%w: name is required", ErrInvalidStrategy)
	}
	customs, err := m.customStrategies(ctx)
	if err != nil {
		return Strategy{}, err
	}
	s := Strategy{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
	}
	customs = append(customs, s)
	if err := store.SaveJSON(ctx, m.store, store.KeyCustomStrategies, customs); err != nil {
		return Strategy{}, err
	}

	m.logger.Info("created processing strategy", "id", s.ID, "name", name)
	m.bus.Notify(store.EventProcessingUpdated, s.ID, nil)
	return s, nil
}

// Duplicate copies a visible strategy, rows included, into a new user
// strategy named newName.
func (m *Manager) Duplicate(ctx context.Context, id, newName string) (Strategy, error) {
	src, err := m.Get(ctx, id)
	if err != nil {
		return Strategy{}, err
	}
	parsers, err := m.Parsers(ctx, id)
	if err != nil {
		return Strategy{}, err
	}
	extractors, err := m.Extractors(ctx, id)
	if err != nil {
		return Strategy{}, err
	}

	dup, err := m.Create(ctx, newName, src.Description)
	if err != nil {
		return Strategy{}, err
	}
	for i := range parsers {
		parsers[i].ID = uuid.NewString()
	}
	for i := range extractors {
		extractors[i].ID = uuid.NewString()
	}
	if err := m.SaveParsers(ctx, dup.ID, parsers); err != nil {
		return Strategy{}, err
	}
	if err := m.SaveExtractors(ctx, dup.ID, extractors); err != nil {
		return Strategy{}, err
	}
	return dup, nil
}

// Rename sets a name override for the strategy. Built-ins keep their code
// definition; the override shadows it.
func (m *Manager) Rename(ctx context.Context, id, name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidStrategy)
	}
	if _, err := m.Get(ctx, id); err != nil {
		return err
	}
	if err := m.store.Set(ctx, store.NameOverrideKey(id), name); err != nil {
		return err
	}
	m.bus.Notify(store.EventProcessingUpdated, id, nil)
	return nil
}

// SetDescription sets a description override for the strategy.
func (m *Manager) SetDescription(ctx context.Context, id, description string) error {
	if _, err := m.Get(ctx, id); err != nil {
		return err
	}
	if err := m.store.Set(ctx, store.DescriptionKey(id), description); err != nil {
		return err
	}
	m.bus.Notify(store.EventProcessingUpdated, id, nil)
	return nil
}

// SetDefault points the default at id. The pointer is a single key, so
// exclusivity holds by construction.
func (m *Manager) SetDefault(ctx context.Context, id string) error {
	if _, err := m.Get(ctx, id); err != nil {
		return err
	}
	if err := m.store.Set(ctx, store.KeyDefaultStrategy, id); err != nil {
		return err
	}
	m.bus.Notify(store.EventProcessingUpdated, id, nil)
	return nil
}

// Delete removes a strategy from the visible list. Built-ins are
// soft-deleted; user strategies are removed outright. Per-id keys are
// cleaned up either way, and the default is re-derived when it pointed at
// the removed entry.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if _, err := m.Get(ctx, id); err != nil {
		return err
	}

	if _, builtin := builtinStrategy(id); builtin {
		deleted, err := m.deletedIDs(ctx)
		if err != nil {
			return err
		}
		if !slices.Contains(deleted, id) {
			deleted = append(deleted, id)
			if err := store.SaveJSON(ctx, m.store, store.KeyDeletedStrategies, deleted); err != nil {
				return err
			}
		}
	} else {
		customs, err := m.customStrategies(ctx)
		if err != nil {
			return err
		}
		customs = slices.DeleteFunc(customs, func(s Strategy) bool { return s.ID == id })
		if err := store.SaveJSON(ctx, m.store, store.KeyCustomStrategies, customs); err != nil {
			return err
		}
	}

	for _, key := range []string{
		store.ParsersKey(id),
		store.ExtractorsKey(id),
		store.NameOverrideKey(id),
		store.DescriptionKey(id),
		store.DatasetsUsingKey(id),
		store.DatasetsKey(id),
		store.NeedsReprocessKey(id),
	} {
		if err := m.store.Delete(ctx, key); err != nil {
			return err
		}
	}

	// Re-derive the default when it pointed at the removed entry.
	cur, ok, err := store.LoadString(ctx, m.store, store.KeyDefaultStrategy)
	if err != nil {
		return err
	}
	if !ok || cur == id {
		visible, err := m.List(ctx)
		if err != nil {
			return err
		}
		if len(visible) > 0 {
			def, err := m.defaultID(ctx, visible)
			if err != nil {
				return err
			}
			if err := m.store.Set(ctx, store.KeyDefaultStrategy, def); err != nil {
				return err
			}
		}
	}

	m.logger.Info("deleted processing strategy", "id", id)
	m.bus.Notify(store.EventProcessingUpdated, id, nil)
	return nil
}

// Restore clears the soft-delete mark on a built-in strategy.
func (m *Manager) Restore(ctx context.Context, id string) error {
	if _, builtin := builtinStrategy(id); !builtin {
		return fmt.Errorf("%w: %s is not a built-in", ErrInvalidStrategy, id)
	}
	deleted, err := m.deletedIDs(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(deleted, id) {
		return nil
	}
	deleted = slices.DeleteFunc(deleted, func(d string) bool { return d == id })
	if err := store.SaveJSON(ctx, m.store, store.KeyDeletedStrategies, deleted); err != nil {
		return err
	}
	m.bus.Notify(store.EventProcessingUpdated, id, nil)
	return nil
}

// Parsers returns the strategy's parser rows with legacy priorities migrated.
// Built-ins with no persisted rows get their seed rows.
func (m *Manager) Parsers(ctx context.Context, strategyID string) ([]ParserRow, error) {
	var rows []ParserRow
	ok, err := store.LoadJSON(ctx, m.store, store.ParsersKey(strategyID), &rows)
	if err != nil {
		return nil, err
	}
	if !ok {
		return builtinParserRows(strategyID)
	}
	for i := range rows {
		rows[i].Priority = MigratePriority(rows[i].Priority)
	}
	return rows, nil
}

// SaveParsers validates every row, then rewrites the strategy's parser list.
// Validation failures leave the stored list untouched.
func (m *Manager) SaveParsers(ctx context.Context, strategyID string, rows []ParserRow) error {
	for _, r := range rows {
		if err := CheckPriority(r.Priority); err != nil {
			return fmt.Errorf("parser %s: %w", r.Name, err)
		}
		if err := schema.Validate(schema.KindParser, r.Name, r.Config); err != nil {
			return fmt.Errorf("%w: parser %s: %v", ErrInvalidStrategy, r.Name, err)
		}
	}
	if err := store.SaveJSON(ctx, m.store, store.ParsersKey(strategyID), rows); err != nil {
		return err
	}
	m.bus.Notify(store.EventProcessingUpdated, strategyID, nil)
	return nil
}

// Extractors returns the strategy's extractor rows with legacy priorities
// migrated. Built-ins with no persisted rows get their seed rows.
func (m *Manager) Extractors(ctx context.Context, strategyID string) ([]ExtractorRow, error) {
	var rows []ExtractorRow
	ok, err := store.LoadJSON(ctx, m.store, store.ExtractorsKey(strategyID), &rows)
	if err != nil {
		return nil, err
	}
	if !ok {
		return builtinExtractorRows(strategyID)
	}
	for i := range rows {
		rows[i].Priority = MigratePriority(rows[i].Priority)
	}
	return rows, nil
}

// SaveExtractors validates every row, then rewrites the strategy's extractor
// list. Validation failures leave the stored list untouched.
func (m *Manager) SaveExtractors(ctx context.Context, strategyID string, rows []ExtractorRow) error {
	for _, r := range rows {
		if err := CheckPriority(r.Priority); err != nil {
			return fmt.Errorf("extractor %s: %w", r.Name, err)
		}
		if err := schema.Validate(schema.KindExtractor, r.Name, r.Config); err != nil {
			return fmt.Errorf("%w: extractor %s: %v", ErrInvalidStrategy, r.Name, err)
		}
	}
	if err := store.SaveJSON(ctx, m.store, store.ExtractorsKey(strategyID), rows); err != nil {
		return err
	}
	m.bus.Notify(store.EventExtractionUpdated, strategyID, nil)
	return nil
}

// NeedsReprocess reports whether the strategy's config changed since its
// datasets were last ingested.
func (m *Manager) NeedsReprocess(ctx context.Context, strategyID string) (bool, error) {
	v, ok, err := store.LoadString(ctx, m.store, store.NeedsReprocessKey(strategyID))
	if err != nil {
		return false, err
	}
	return ok && v == "1", nil
}

// SetNeedsReprocess stores the reprocess flag as "0" or "1".
func (m *Manager) SetNeedsReprocess(ctx context.Context, strategyID string, needed bool) error {
	v := "0"
	if needed {
		v = "1"
	}
	return m.store.Set(ctx, store.NeedsReprocessKey(strategyID), v)
}

// DatasetsUsing returns the names of datasets ingested with this strategy.
func (m *Manager) DatasetsUsing(ctx context.Context, strategyID string) ([]string, error) {
	var names []string
	if _, err := store.LoadJSON(ctx, m.store, store.DatasetsUsingKey(strategyID), &names); err != nil {
		return nil, err
	}
	return names, nil
}

// SetDatasetsUsing rewrites the list of dataset names using this strategy.
func (m *Manager) SetDatasetsUsing(ctx context.Context, strategyID string, names []string) error {
	return store.SaveJSON(ctx, m.store, store.DatasetsUsingKey(strategyID), names)
}

// Datasets returns the dataset names assigned to this strategy for the next
// ingestion run.
func (m *Manager) Datasets(ctx context.Context, strategyID string) ([]string, error) {
	var names []string
	if _, err := store.LoadJSON(ctx, m.store, store.DatasetsKey(strategyID), &names); err != nil {
		return nil, err
	}
	return names, nil
}

// SetDatasets rewrites the dataset assignment list.
func (m *Manager) SetDatasets(ctx context.Context, strategyID string, names []string) error {
	return store.SaveJSON(ctx, m.store, store.DatasetsKey(strategyID), names)
}
