package processing

import (
	"fmt"

	"github.com/litflow/litflow/internal/schema"
)

// Strategy is a named processing configuration owning parser and extractor
// rows. DatasetsUsing counts the datasets currently ingested with it.
type Strategy struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	IsDefault     bool   `json:"isDefault"`
	DatasetsUsing int    `json:"datasetsUsing"`
	BuiltIn       bool   `json:"builtIn,omitempty"`
}

// Built-in strategies ship with the product and cannot be edited in place,
// only overridden (name, description, rows) or soft-deleted.
var builtins = []Strategy{
	{
		ID:          "standard",
		Name:        "Standard",
		Description: "Balanced parsing and extraction for most document sets.",
		BuiltIn:     true,
	},
	{
		ID:          "fast",
		Name:        "Fast",
		Description: "Minimal extraction for quick ingestion runs.",
		BuiltIn:     true,
	},
	{
		ID:          "thorough",
		Name:        "Thorough",
		Description: "Every parser and extractor enabled for maximum metadata.",
		BuiltIn:     true,
	},
}

// fallbackDefaultID is used when no default pointer is stored and the
// standard built-in has been soft-deleted.
const fallbackDefaultID = "standard"

type rowSpec struct {
	name     string
	priority int
}

var builtinParsers = map[string][]rowSpec{
	"standard": {
		{"PDFParser", 10},
		{"DocxParser", 20},
		{"HTMLParser", 30},
		{"MarkdownParser", 40},
		{"TextParser", 50},
	},
	"fast": {
		{"MarkdownParser", 10},
		{"TextParser", 20},
	},
	"thorough": {
		{"PDFParser", 10},
		{"DocxParser", 20},
		{"PptxParser", 30},
		{"XlsxParser", 40},
		{"HTMLParser", 50},
		{"MarkdownParser", 60},
		{"TextParser", 70},
		{"CSVParser", 80},
		{"JSONParser", 90},
		{"XMLParser", 100},
		{"EmailParser", 110},
		{"CodeParser", 120},
		{"ImageParser", 130},
	},
}

var builtinExtractors = map[string][]rowSpec{
	"standard": {
		{"TitleExtractor", 10},
		{"SummaryExtractor", 20},
		{"KeywordExtractor", 30},
	},
	"fast": {
		{"TitleExtractor", 10},
	},
	"thorough": {
		{"TitleExtractor", 10},
		{"SummaryExtractor", 20},
		{"KeywordExtractor", 30},
		{"EntityExtractor", 40},
		{"QuestionExtractor", 50},
		{"LanguageExtractor", 60},
		{"TableExtractor", 70},
		{"MetadataExtractor", 80},
	},
}

// builtinStrategy returns a copy of the built-in with the given id.
func builtinStrategy(id string) (Strategy, bool) {
	for _, b := range builtins {
		if b.ID == id {
			return b, true
		}
	}
	return Strategy{}, false
}

// builtinParserRows synthesizes the seed parser rows for a built-in
// strategy, with each row's config derived from its schema defaults.
func builtinParserRows(strategyID string) ([]ParserRow, error) {
	specs, ok := builtinParsers[strategyID]
	if !ok {
		return nil, nil
	}
	rows := make([]ParserRow, 0, len(specs))
	for _, s := range specs {
		cfg, err := schema.DeriveDefaultsFor(schema.KindParser, s.name)
		if err != nil {
			return nil, fmt.Errorf("seed parser %s: %w", s.name, err)
		}
		rows = append(rows, ParserRow{
			ID:       strategyID + "-" + s.name,
			Name:     s.name,
			Priority: s.priority,
			Config:   cfg,
		})
	}
	return rows, nil
}

func builtinExtractorRows(strategyID string) ([]ExtractorRow, error) {
	specs, ok := builtinExtractors[strategyID]
	if !ok {
		return nil, nil
	}
	rows := make([]ExtractorRow, 0, len(specs))
	for _, s := range specs {
		cfg, err := schema.DeriveDefaultsFor(schema.KindExtractor, s.name)
		if err != nil {
			return nil, fmt.Errorf("seed extractor %s: %w", s.name, err)
		}
		rows = append(rows, ExtractorRow{
			ID:       strategyID + "-" + s.name,
			Name:     s.name,
			Priority: s.priority,
			Config:   cfg,
		})
	}
	return rows, nil
}
