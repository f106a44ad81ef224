package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestValidateKey(t *testing.T) {
	valid := []string{
		"lf_project_embeddings",
		"lf_strategy_retrieval_default-retrieval",
		"a.b.c",
		"Key-1",
	}
	for _, key := range valid {
		if err := ValidateKey(key); err != nil {
			t.Errorf("ValidateKey(%q) = %v, want nil", key, err)
		}
	}

	invalid := []string{
		"",
		"has space",
		"semi;colon",
		"slash/key",
	}
	for _, key := range invalid {
		err := ValidateKey(key)
		if err == nil {
			t.Errorf("ValidateKey(%q) = nil, want error", key)
		}
		if err != nil && !errors.Is(err, ErrInvalidKey) {
			t.Errorf("ValidateKey(%q) = %v, want ErrInvalidKey", key, err)
		}
	}
}

// storeImpls returns each Store implementation under test.
func storeImpls(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemStore(),
		"sqlite": sqlite,
	}
}

func TestStore_GetSetDelete(t *testing.T) {
	for name, s := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()

			if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
				t.Fatalf("Get(missing) = ok=%v err=%v, want absent", ok, err)
			}

			if err := s.Set(ctx, "k1", `{"a":1}`); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			v, ok, err := s.Get(ctx, "k1")
			if err != nil || !ok {
				t.Fatalf("Get(k1) = ok=%v err=%v, want found", ok, err)
			}
			if v != `{"a":1}` {
				t.Errorf("Get(k1) = %q, want %q", v, `{"a":1}`)
			}

			// Overwrite
			if err := s.Set(ctx, "k1", `{"a":2}`); err != nil {
				t.Fatalf("Set() overwrite error = %v", err)
			}
			v, _, _ = s.Get(ctx, "k1")
			if v != `{"a":2}` {
				t.Errorf("Get(k1) after overwrite = %q, want %q", v, `{"a":2}`)
			}

			if err := s.Delete(ctx, "k1"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, ok, _ := s.Get(ctx, "k1"); ok {
				t.Error("Get(k1) found after Delete")
			}

			// Deleting again is fine
			if err := s.Delete(ctx, "k1"); err != nil {
				t.Errorf("Delete() of missing key error = %v", err)
			}
		})
	}
}

func TestStore_Keys(t *testing.T) {
	for name, s := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			seed := map[string]string{
				"lf_strategy_parsers_a":    "[]",
				"lf_strategy_parsers_b":    "[]",
				"lf_strategy_extractors_a": "[]",
				"lf_project_embeddings":    "[]",
			}
			for k, v := range seed {
				if err := s.Set(ctx, k, v); err != nil {
					t.Fatalf("Set(%s) error = %v", k, err)
				}
			}

			keys, err := s.Keys(ctx, "lf_strategy_parsers_")
			if err != nil {
				t.Fatalf("Keys() error = %v", err)
			}
			want := []string{"lf_strategy_parsers_a", "lf_strategy_parsers_b"}
			if len(keys) != len(want) {
				t.Fatalf("Keys() = %v, want %v", keys, want)
			}
			for i := range want {
				if keys[i] != want[i] {
					t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
				}
			}
		})
	}
}

func TestLoadJSON(t *testing.T) {
	ctx := t.Context()
	s := NewMemStore()

	type item struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	t.Run("round_trip", func(t *testing.T) {
		in := []item{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
		if err := SaveJSON(ctx, s, "list", in); err != nil {
			t.Fatalf("SaveJSON() error = %v", err)
		}
		var out []item
		ok, err := LoadJSON(ctx, s, "list", &out)
		if err != nil || !ok {
			t.Fatalf("LoadJSON() = ok=%v err=%v, want found", ok, err)
		}
		if len(out) != 2 || out[0].ID != "a" || out[1].Name != "B" {
			t.Errorf("LoadJSON() = %+v, want %+v", out, in)
		}
	})

	t.Run("missing_key", func(t *testing.T) {
		var out []item
		ok, err := LoadJSON(ctx, s, "nope", &out)
		if err != nil {
			t.Fatalf("LoadJSON() error = %v", err)
		}
		if ok {
			t.Error("LoadJSON() = found, want absent")
		}
	})

	t.Run("malformed_json_is_absent", func(t *testing.T) {
		if err := s.Set(ctx, "bad", `{not json`); err != nil {
			t.Fatal(err)
		}
		var out []item
		ok, err := LoadJSON(ctx, s, "bad", &out)
		if err != nil {
			t.Fatalf("LoadJSON() error = %v, want nil for malformed JSON", err)
		}
		if ok {
			t.Error("LoadJSON() = found for malformed JSON, want absent")
		}
	})
}

func TestKeyBuilders(t *testing.T) {
	cases := []struct {
		got, want string
	}{
		{EmbeddingConfigKey("x"), "lf_strategy_embedding_config_x"},
		{EmbeddingModelKey("x"), "lf_strategy_embedding_model_x"},
		{RetrievalConfigKey("x"), "lf_strategy_retrieval_x"},
		{ParsersKey("x"), "lf_strategy_parsers_x"},
		{ExtractorsKey("x"), "lf_strategy_extractors_x"},
		{NameOverrideKey("x"), "lf_strategy_name_override_x"},
		{DescriptionKey("x"), "lf_strategy_description_x"},
		{DatasetsUsingKey("x"), "lf_strategy_datasets_using_x"},
		{DatasetsKey("x"), "lf_strategy_datasets_x"},
		{NeedsReprocessKey("x"), "lf_strategy_needs_reprocess_x"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("key = %q, want %q", c.got, c.want)
		}
	}
}
