package schema

import (
	"testing"
)

func TestAll(t *testing.T) {
	schemas, err := All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}

	parsers, extractors := 0, 0
	for _, s := range schemas {
		switch s.Kind {
		case KindParser:
			parsers++
		case KindExtractor:
			extractors++
		}
		if s.Title == "" {
			t.Errorf("schema %s has no title", s.Name)
		}
		if len(s.Properties) == 0 {
			t.Errorf("schema %s has no properties", s.Name)
		}
	}
	if parsers != 13 {
		t.Errorf("parser schemas = %d, want 13", parsers)
	}
	if extractors != 8 {
		t.Errorf("extractor schemas = %d, want 8", extractors)
	}
}

func TestGet(t *testing.T) {
	t.Run("known", func(t *testing.T) {
		s, ok, err := Get(KindParser, "PDFParser")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !ok || s == nil {
			t.Fatal("Get(PDFParser) not found")
		}
		if _, exists := s.Properties["chunk_size"]; !exists {
			t.Error("PDFParser missing chunk_size property")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		_, ok, err := Get(KindParser, "NopeParser")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if ok {
			t.Error("Get(NopeParser) = found, want not found")
		}
	})

	t.Run("kind_mismatch", func(t *testing.T) {
		_, ok, _ := Get(KindExtractor, "PDFParser")
		if ok {
			t.Error("PDFParser found under extractor kind")
		}
	})
}

// matchesType reports whether a derived default value matches the declared
// field type (or is null for a nullable field).
func matchesType(f FieldSchema, v any) bool {
	if v == nil {
		return f.Nullable
	}
	switch f.Type {
	case TypeInteger:
		switch v.(type) {
		case int, int64, float64:
			return true
		}
		return false
	case TypeNumber:
		switch v.(type) {
		case int, int64, float64:
			return true
		}
		return false
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeArray:
		switch v.(type) {
		case []any, []string:
			return true
		}
		return false
	}
	return false
}

func TestDeriveDefaults_AllSchemas(t *testing.T) {
	schemas, err := All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}

	for _, s := range schemas {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			config := DeriveDefaults(&s.StrategySchema)

			if len(config) != len(s.Properties) {
				t.Errorf("config has %d keys, schema has %d properties",
					len(config), len(s.Properties))
			}
			for field, fs := range s.Properties {
				v, ok := config[field]
				if !ok {
					t.Errorf("missing key %s", field)
					continue
				}
				if !matchesType(fs, v) {
					t.Errorf("field %s: default %v (%T) does not match type %s",
						field, v, v, fs.Type)
				}
			}
		})
	}
}

func TestDeriveDefaults_Fallbacks(t *testing.T) {
	min := 5.0
	s := &StrategySchema{
		Title: "test",
		Properties: map[string]FieldSchema{
			"declared":     {Type: TypeInteger, Default: float64(42)},
			"arr":          {Type: TypeArray},
			"arr_nullable": {Type: TypeArray, Nullable: true},
			"flag":         {Type: TypeBoolean},
			"int_min":      {Type: TypeInteger, Minimum: &min},
			"int_plain":    {Type: TypeInteger},
			"num_nullable": {Type: TypeNumber, Nullable: true},
			"text":         {Type: TypeString},
		},
	}

	config := DeriveDefaults(s)

	if got := config["declared"]; got != float64(42) {
		t.Errorf("declared = %v, want 42", got)
	}
	if got, ok := config["arr"].([]any); !ok || len(got) != 0 {
		t.Errorf("arr = %v, want empty array", config["arr"])
	}
	if config["arr_nullable"] != nil {
		t.Errorf("arr_nullable = %v, want nil", config["arr_nullable"])
	}
	if config["flag"] != false {
		t.Errorf("flag = %v, want false", config["flag"])
	}
	if got := config["int_min"]; got != 5 {
		t.Errorf("int_min = %v, want 5", got)
	}
	if got := config["int_plain"]; got != 0 {
		t.Errorf("int_plain = %v, want 0", got)
	}
	if config["num_nullable"] != nil {
		t.Errorf("num_nullable = %v, want nil", config["num_nullable"])
	}
	if config["text"] != "" {
		t.Errorf("text = %v, want empty string", config["text"])
	}
}

func TestDeriveDefaultsFor_Unknown(t *testing.T) {
	config, err := DeriveDefaultsFor(KindParser, "NotARealParser")
	if err != nil {
		t.Fatalf("DeriveDefaultsFor() error = %v", err)
	}
	if len(config) != 0 {
		t.Errorf("config = %v, want empty object", config)
	}
}

func TestValidate(t *testing.T) {
	t.Run("defaults_validate", func(t *testing.T) {
		schemas, err := All()
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		for _, s := range schemas {
			config := DeriveDefaults(&s.StrategySchema)
			if err := Validate(s.Kind, s.Name, config); err != nil {
				t.Errorf("Validate(%s, defaults) = %v, want nil", s.Name, err)
			}
		}
	})

	t.Run("out_of_range", func(t *testing.T) {
		config, _ := DeriveDefaultsFor(KindParser, "PDFParser")
		config["chunk_size"] = 1 // below minimum 64
		if err := Validate(KindParser, "PDFParser", config); err == nil {
			t.Error("Validate() = nil for out-of-range chunk_size")
		}
	})

	t.Run("wrong_type", func(t *testing.T) {
		config, _ := DeriveDefaultsFor(KindParser, "TextParser")
		config["split_paragraphs"] = "yes"
		if err := Validate(KindParser, "TextParser", config); err == nil {
			t.Error("Validate() = nil for bool field holding a string")
		}
	})

	t.Run("unknown_schema_passes", func(t *testing.T) {
		if err := Validate(KindParser, "CustomParser", map[string]any{"x": 1}); err != nil {
			t.Errorf("Validate(unknown) = %v, want nil", err)
		}
	})
}

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"PDFParser":         "pdf_parser",
		"DocxParser":        "docx_parser",
		"HTMLParser":        "html_parser",
		"CSVParser":         "csv_parser",
		"TitleExtractor":    "title_extractor",
		"MetadataExtractor": "metadata_extractor",
	}
	for in, want := range cases {
		if got := snakeCase(in); got != want {
			t.Errorf("snakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
