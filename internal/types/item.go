// Package types provides shared types used across multiple packages.
// This package has no dependencies on other litflow packages to avoid import cycles.
package types

// Item is an entry in a project-level strategy list (embeddings or
// retrievals). Exactly one entry in a list is flagged as the default; the
// helpers below maintain that invariant across rewrites.
type Item struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
	Enabled   bool   `json:"enabled"`
}

// SetDefault returns a copy of items with IsDefault true on the entry whose
// id matches and false everywhere else. The bool reports whether id was
// found; when it is false the input is returned unchanged so no partial
// state escapes.
func SetDefault(items []Item, id string) ([]Item, bool) {
	found := false
	for _, it := range items {
		if it.ID == id {
			found = true
			break
		}
	}
	if !found {
		return items, false
	}

	out := make([]Item, len(items))
	for i, it := range items {
		it.IsDefault = it.ID == id
		out[i] = it
	}
	return out, true
}

// EnsureDefault guarantees that a non-empty list has exactly one default.
// If no entry is flagged, the first becomes the default; if several are
// flagged, only the first flagged entry keeps it.
func EnsureDefault(items []Item) []Item {
	if len(items) == 0 {
		return items
	}

	out := make([]Item, len(items))
	copy(out, items)

	seen := false
	for i := range out {
		if out[i].IsDefault {
			if seen {
				out[i].IsDefault = false
			}
			seen = true
		}
	}
	if !seen {
		out[0].IsDefault = true
	}
	return out
}

// Remove returns items without the entry whose id matches, re-deriving the
// default so a non-empty remainder always keeps one.
func Remove(items []Item, id string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return EnsureDefault(out)
}

// Find returns the entry with the given id, or nil.
func Find(items []Item, id string) *Item {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}

// Default returns the entry flagged as default, or nil for an empty list.
func Default(items []Item) *Item {
	for i := range items {
		if items[i].IsDefault {
			return &items[i]
		}
	}
	if len(items) > 0 {
		return &items[0]
	}
	return nil
}
