// Package store provides the key-value persistence layer for strategy
// configuration. Values are JSON-encoded strings under deterministic,
// namespaced keys; malformed stored JSON is treated as absent data rather
// than an error so callers can always fall back to seeded defaults.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"unicode"
)

// ErrInvalidKey is returned when a storage key contains invalid characters.
var ErrInvalidKey = errors.New("invalid storage key")

// Store is the key-value port backing all strategy persistence.
// Implementations must treat keys as opaque strings and values as raw
// JSON-encoded payloads.
type Store interface {
	// Get returns the raw value for key. The bool is false when the key
	// is absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes the raw value under key, replacing any existing value.
	Set(ctx context.Context, key, value string) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all keys with the given prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// ValidateKey checks if a storage key contains only allowed characters.
// Valid keys contain: letters, digits, dots, underscores, and hyphens.
// This protects against typos and malformed keys.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	return nil
}

// LoadJSON reads key and unmarshals its JSON value into dest.
// Returns false when the key is absent or the stored value is not valid
// JSON for dest - callers treat both as "not found" and fall back to
// defaults. The error reports storage-level failures only.
func LoadJSON(ctx context.Context, s Store, key string, dest any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		slog.Debug("stored value is not valid JSON, treating as absent",
			"key", key, "error", err)
		return false, nil
	}
	return true, nil
}

// SaveJSON marshals v to JSON and writes it under key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// LoadString reads a plain (non-JSON) string value.
// Returns false when the key is absent.
func LoadString(ctx context.Context, s Store, key string) (string, bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return raw, ok, nil
}
