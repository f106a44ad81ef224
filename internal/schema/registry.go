// Package schema holds the declarative field schemas for parser and
// extractor configuration. Schemas are loaded from embedded JSON Schema
// files and drive both default-config derivation and load-boundary
// validation of persisted configs.
package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

//go:embed schemas/parsers/*.json schemas/extractors/*.json
var schemaFS embed.FS

// Kind distinguishes parser schemas from extractor schemas.
type Kind string

const (
	KindParser    Kind = "parser"
	KindExtractor Kind = "extractor"
)

// FieldType is the declared type of a schema field.
type FieldType string

const (
	TypeInteger FieldType = "integer"
	TypeNumber  FieldType = "number"
	TypeString  FieldType = "string"
	TypeBoolean FieldType = "boolean"
	TypeArray   FieldType = "array"
)

// validFieldType reports whether t is one of the five supported types.
func validFieldType(t FieldType) bool {
	switch t {
	case TypeInteger, TypeNumber, TypeString, TypeBoolean, TypeArray:
		return true
	}
	return false
}

// FieldSchema describes one configuration field.
type FieldSchema struct {
	Type        FieldType `json:"type"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Default     any       `json:"default,omitempty"`
	Minimum     *float64  `json:"minimum,omitempty"`
	Maximum     *float64  `json:"maximum,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
	Items       FieldType `json:"items,omitempty"`
	Nullable    bool      `json:"nullable,omitempty"`
}

// UnmarshalJSON accepts the JSON Schema representation where a nullable
// field declares `"type": ["<type>", "null"]` and items is an object.
func (f *FieldSchema) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type        json.RawMessage `json:"type"`
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Default     any             `json:"default"`
		Minimum     *float64        `json:"minimum"`
		Maximum     *float64        `json:"maximum"`
		Enum        []string        `json:"enum"`
		Items       *struct {
			Type FieldType `json:"type"`
		} `json:"items"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	f.Title = raw.Title
	f.Description = raw.Description
	f.Default = raw.Default
	f.Minimum = raw.Minimum
	f.Maximum = raw.Maximum
	f.Enum = raw.Enum
	if raw.Items != nil {
		f.Items = raw.Items.Type
	}

	// type is either "integer" or ["integer", "null"].
	var single string
	if err := json.Unmarshal(raw.Type, &single); err == nil {
		f.Type = FieldType(single)
		return nil
	}
	var multi []string
	if err := json.Unmarshal(raw.Type, &multi); err != nil {
		return fmt.Errorf("unsupported type declaration: %s", raw.Type)
	}
	for _, t := range multi {
		if t == "null" {
			f.Nullable = true
			continue
		}
		f.Type = FieldType(t)
	}
	return nil
}

// StrategySchema is the schema of one parser or extractor configuration.
type StrategySchema struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]FieldSchema `json:"properties"`
	Required    []string               `json:"required,omitempty"`
}

// Schema pairs a registered name with its parsed StrategySchema and the
// raw JSON Schema document it was loaded from.
type Schema struct {
	Name string
	Kind Kind
	StrategySchema
	Raw []byte
}

// registry lists every schema by kind. The file name is derived from the
// registered name (PDFParser -> schemas/parsers/pdf_parser.json).
var registry = []struct {
	Name string
	Kind Kind
}{
	{"PDFParser", KindParser},
	{"DocxParser", KindParser},
	{"PptxParser", KindParser},
	{"XlsxParser", KindParser},
	{"HTMLParser", KindParser},
	{"MarkdownParser", KindParser},
	{"TextParser", KindParser},
	{"CSVParser", KindParser},
	{"JSONParser", KindParser},
	{"XMLParser", KindParser},
	{"EmailParser", KindParser},
	{"CodeParser", KindParser},
	{"ImageParser", KindParser},

	{"TitleExtractor", KindExtractor},
	{"SummaryExtractor", KindExtractor},
	{"KeywordExtractor", KindExtractor},
	{"EntityExtractor", KindExtractor},
	{"QuestionExtractor", KindExtractor},
	{"LanguageExtractor", KindExtractor},
	{"TableExtractor", KindExtractor},
	{"MetadataExtractor", KindExtractor},
}

// All returns every registered schema, parsed and checked.
func All() ([]Schema, error) {
	schemas := make([]Schema, 0, len(registry))
	for _, entry := range registry {
		s, err := load(entry.Kind, entry.Name)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, *s)
	}
	return schemas, nil
}

// Names returns the registered names for a kind, in registry order.
func Names(kind Kind) []string {
	var names []string
	for _, entry := range registry {
		if entry.Kind == kind {
			names = append(names, entry.Name)
		}
	}
	return names
}

// Get returns a single schema by kind and name.
// The bool is false for unregistered names.
func Get(kind Kind, name string) (*Schema, bool, error) {
	for _, entry := range registry {
		if entry.Kind == kind && entry.Name == name {
			s, err := load(kind, name)
			if err != nil {
				return nil, true, err
			}
			return s, true, nil
		}
	}
	return nil, false, nil
}

// load reads and parses one embedded schema file, verifying that every
// property declares a supported type.
func load(kind Kind, name string) (*Schema, error) {
	filename := fmt.Sprintf("schemas/%ss/%s.json", kind, snakeCase(name))
	raw, err := schemaFS.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", name, err)
	}

	var parsed StrategySchema
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}
	for field, fs := range parsed.Properties {
		if !validFieldType(fs.Type) {
			return nil, fmt.Errorf("schema %s: field %s has invalid type %q", name, field, fs.Type)
		}
	}

	return &Schema{Name: name, Kind: kind, StrategySchema: parsed, Raw: raw}, nil
}

// snakeCase converts a registered name to its file name form
// (PDFParser -> pdf_parser, TitleExtractor -> title_extractor).
func snakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			boundary := i > 0 &&
				(unicode.IsLower(runes[i-1]) ||
					(i+1 < len(runes) && unicode.IsLower(runes[i+1])))
			if boundary {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
