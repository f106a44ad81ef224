package types

import "testing"

func sample() []Item {
	return []Item{
		{ID: "a", Name: "A", IsDefault: true, Enabled: true},
		{ID: "b", Name: "B", Enabled: true},
		{ID: "c", Name: "C", Enabled: false},
	}
}

func countDefaults(items []Item) int {
	n := 0
	for _, it := range items {
		if it.IsDefault {
			n++
		}
	}
	return n
}

func TestSetDefault(t *testing.T) {
	t.Run("existing_id", func(t *testing.T) {
		out, ok := SetDefault(sample(), "b")
		if !ok {
			t.Fatal("SetDefault() ok = false, want true")
		}
		if n := countDefaults(out); n != 1 {
			t.Errorf("defaults = %d, want 1", n)
		}
		if !out[1].IsDefault {
			t.Error("entry b is not the default")
		}
		if out[0].IsDefault {
			t.Error("previous default a still flagged")
		}
	})

	t.Run("missing_id", func(t *testing.T) {
		in := sample()
		out, ok := SetDefault(in, "nope")
		if ok {
			t.Fatal("SetDefault() ok = true for missing id")
		}
		if !out[0].IsDefault || countDefaults(out) != 1 {
			t.Error("input mutated on missing id")
		}
	})

	t.Run("input_not_mutated", func(t *testing.T) {
		in := sample()
		SetDefault(in, "c")
		if !in[0].IsDefault || in[2].IsDefault {
			t.Error("SetDefault mutated its input slice")
		}
	})
}

func TestEnsureDefault(t *testing.T) {
	t.Run("none_flagged", func(t *testing.T) {
		out := EnsureDefault([]Item{{ID: "a"}, {ID: "b"}})
		if !out[0].IsDefault {
			t.Error("first entry should become default")
		}
		if countDefaults(out) != 1 {
			t.Errorf("defaults = %d, want 1", countDefaults(out))
		}
	})

	t.Run("several_flagged", func(t *testing.T) {
		out := EnsureDefault([]Item{
			{ID: "a", IsDefault: true},
			{ID: "b", IsDefault: true},
		})
		if countDefaults(out) != 1 {
			t.Errorf("defaults = %d, want 1", countDefaults(out))
		}
		if !out[0].IsDefault {
			t.Error("first flagged entry should keep the default")
		}
	})

	t.Run("empty_list", func(t *testing.T) {
		if out := EnsureDefault(nil); len(out) != 0 {
			t.Errorf("EnsureDefault(nil) = %v, want empty", out)
		}
	})
}

func TestRemove(t *testing.T) {
	t.Run("deleting_default_rederives", func(t *testing.T) {
		out := Remove(sample(), "a")
		if len(out) != 2 {
			t.Fatalf("len = %d, want 2", len(out))
		}
		if countDefaults(out) != 1 {
			t.Errorf("defaults = %d, want exactly 1 after deleting the default", countDefaults(out))
		}
	})

	t.Run("deleting_non_default", func(t *testing.T) {
		out := Remove(sample(), "c")
		if len(out) != 2 {
			t.Fatalf("len = %d, want 2", len(out))
		}
		if !out[0].IsDefault {
			t.Error("default moved unexpectedly")
		}
	})

	t.Run("deleting_last", func(t *testing.T) {
		out := Remove([]Item{{ID: "a", IsDefault: true}}, "a")
		if len(out) != 0 {
			t.Errorf("len = %d, want 0", len(out))
		}
	})
}

func TestDefault(t *testing.T) {
	if d := Default(sample()); d == nil || d.ID != "a" {
		t.Errorf("Default() = %v, want entry a", d)
	}
	// Falls back to the first entry when nothing is flagged.
	if d := Default([]Item{{ID: "x"}, {ID: "y"}}); d == nil || d.ID != "x" {
		t.Errorf("Default() fallback = %v, want entry x", d)
	}
	if d := Default(nil); d != nil {
		t.Errorf("Default(nil) = %v, want nil", d)
	}
}
