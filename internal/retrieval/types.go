// Package retrieval implements the retrieval-strategy configuration model:
// the five strategy variants, the form-to-payload builder, and persistence
// of the project retrieval list.
package retrieval

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// StrategyType tags a retrieval strategy config variant.
type StrategyType string

const (
	StrategyBasicSimilarity  StrategyType = "BasicSimilarityStrategy"
	StrategyMetadataFiltered StrategyType = "MetadataFilteredStrategy"
	StrategyMultiQuery       StrategyType = "MultiQueryStrategy"
	StrategyReranked         StrategyType = "RerankedStrategy"
	StrategyHybridUniversal  StrategyType = "HybridUniversalStrategy"
)

// ValidType reports whether t is one of the five known strategy tags.
func ValidType(t StrategyType) bool {
	switch t {
	case StrategyBasicSimilarity, StrategyMetadataFiltered, StrategyMultiQuery,
		StrategyReranked, StrategyHybridUniversal:
		return true
	}
	return false
}

// StrategyConfig is the canonical persisted payload: a tag plus the
// tag-specific config object. Unknown config fields are preserved on
// round-trip but never read.
type StrategyConfig struct {
	Type   StrategyType   `json:"type"`
	Config map[string]any `json:"config"`
}

// Descriptor describes a strategy variant for catalog listings.
type Descriptor struct {
	Type        StrategyType `json:"type"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
}

// Catalog returns the five strategy variants with display metadata.
func Catalog() []Descriptor {
	return []Descriptor{
		{
			Type:        StrategyBasicSimilarity,
			Name:        "Basic Similarity",
			Description: "Nearest-neighbor search over the vector index with an optional score cutoff.",
		},
		{
			Type:        StrategyMetadataFiltered,
			Name:        "Metadata Filtered",
			Description: "Similarity search constrained by document metadata filters.",
		},
		{
			Type:        StrategyMultiQuery,
			Name:        "Multi-Query",
			Description: "Expands the query into variants and aggregates their result sets.",
		},
		{
			Type:        StrategyReranked,
			Name:        "Reranked",
			Description: "Over-fetches candidates, then reranks them by weighted factors.",
		},
		{
			Type:        StrategyHybridUniversal,
			Name:        "Hybrid",
			Description: "Combines weighted sub-strategies with a fusion method.",
		},
	}
}

// DefaultConfig returns a fresh default config object for a strategy tag.
// Unknown tags yield an empty object.
func DefaultConfig(t StrategyType) map[string]any {
	switch t {
	case StrategyBasicSimilarity:
		return map[string]any{
			"top_k":           5,
			"distance_metric": "cosine",
			"score_threshold": nil,
		}
	case StrategyMetadataFiltered:
		return map[string]any{
			"top_k":               5,
			"filters":             map[string]any{},
			"filter_mode":         "pre",
			"fallback_multiplier": 3,
		}
	case StrategyMultiQuery:
		return map[string]any{
			"num_queries":        3,
			"top_k":              5,
			"aggregation_method": "max",
			"query_weights":      nil,
		}
	case StrategyReranked:
		return map[string]any{
			"initial_k": 20,
			"final_k":   5,
			"rerank_factors": map[string]any{
				"similarity_weight": 0.6,
				"recency_weight":    0.2,
				"length_weight":     0.1,
				"metadata_weight":   0.1,
			},
			"normalize_scores": true,
		}
	case StrategyHybridUniversal:
		return map[string]any{
			"strategies": []any{
				map[string]any{
					"type":   string(StrategyBasicSimilarity),
					"weight": 1.0,
					"config": DefaultConfig(StrategyBasicSimilarity),
				},
			},
			"combination_method": "weighted_average",
			"final_k":            5,
		}
	}
	return map[string]any{}
}

// SubStrategyFields is the form state for one hybrid sub-strategy.
type SubStrategyFields struct {
	Type   StrategyType   `json:"type"`
	Weight string         `json:"weight"`
	Config map[string]any `json:"config,omitempty"`
}

// FormFields is the raw, mostly string-typed form state a strategy editor
// submits. BuildConfig turns it into the canonical payload for a tag;
// FormFieldsFrom goes the other way when an editor loads a saved config.
type FormFields struct {
	// Shared
	TopK string `json:"topK,omitempty"`

	// BasicSimilarityStrategy
	DistanceMetric string `json:"distanceMetric,omitempty"`
	ScoreThreshold string `json:"scoreThreshold,omitempty"`

	// MetadataFilteredStrategy
	Filters            map[string]string `json:"filters,omitempty"`
	FilterMode         string            `json:"filterMode,omitempty"`
	FallbackMultiplier string            `json:"fallbackMultiplier,omitempty"`

	// MultiQueryStrategy
	NumQueries        string `json:"numQueries,omitempty"`
	AggregationMethod string `json:"aggregationMethod,omitempty"`
	QueryWeights      string `json:"queryWeights,omitempty"`

	// RerankedStrategy
	InitialK         string `json:"initialK,omitempty"`
	FinalK           string `json:"finalK,omitempty"`
	SimilarityWeight string `json:"similarityWeight,omitempty"`
	RecencyWeight    string `json:"recencyWeight,omitempty"`
	LengthWeight     string `json:"lengthWeight,omitempty"`
	MetadataWeight   string `json:"metadataWeight,omitempty"`
	NormalizeScores  bool   `json:"normalizeScores,omitempty"`

	// HybridUniversalStrategy
	SubStrategies     []SubStrategyFields `json:"subStrategies,omitempty"`
	CombinationMethod string              `json:"combinationMethod,omitempty"`
}

// FormFieldsFrom populates form state from a canonical config, the inverse
// of BuildConfig. Missing fields come back as empty strings so an editor
// renders them blank.
func FormFieldsFrom(sc StrategyConfig) FormFields {
	c := sc.Config
	var f FormFields

	switch sc.Type {
	case StrategyBasicSimilarity:
		f.TopK = intString(c["top_k"])
		f.DistanceMetric = stringOr(c["distance_metric"], "")
		f.ScoreThreshold = floatString(c["score_threshold"])

	case StrategyMetadataFiltered:
		f.TopK = intString(c["top_k"])
		f.FilterMode = stringOr(c["filter_mode"], "")
		f.FallbackMultiplier = intString(c["fallback_multiplier"])
		if filters, ok := c["filters"].(map[string]any); ok {
			f.Filters = make(map[string]string, len(filters))
			for k, v := range filters {
				f.Filters[k] = filterValueString(v)
			}
		}

	case StrategyMultiQuery:
		f.NumQueries = intString(c["num_queries"])
		f.TopK = intString(c["top_k"])
		f.AggregationMethod = stringOr(c["aggregation_method"], "")
		f.QueryWeights = weightsString(c["query_weights"])

	case StrategyReranked:
		f.InitialK = intString(c["initial_k"])
		f.FinalK = intString(c["final_k"])
		if factors, ok := c["rerank_factors"].(map[string]any); ok {
			f.SimilarityWeight = floatString(factors["similarity_weight"])
			f.RecencyWeight = floatString(factors["recency_weight"])
			f.LengthWeight = floatString(factors["length_weight"])
			f.MetadataWeight = floatString(factors["metadata_weight"])
		}
		if b, ok := c["normalize_scores"].(bool); ok {
			f.NormalizeScores = b
		}

	case StrategyHybridUniversal:
		f.FinalK = intString(c["final_k"])
		f.CombinationMethod = stringOr(c["combination_method"], "")
		if subs, ok := c["strategies"].([]any); ok {
			for _, raw := range subs {
				sub, ok := raw.(map[string]any)
				if !ok {
					continue
				}
				sf := SubStrategyFields{
					Type:   StrategyType(stringOr(sub["type"], "")),
					Weight: floatString(sub["weight"]),
				}
				if cfg, ok := sub["config"].(map[string]any); ok {
					sf.Config = cfg
				}
				f.SubStrategies = append(f.SubStrategies, sf)
			}
		}
	}
	return f
}

// intString renders a numeric config value for a form field.
func intString(v any) string {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatInt(int64(n), 10)
	case json.Number:
		return n.String()
	}
	return ""
}

// floatString renders a float config value; nil becomes the empty string.
func floatString(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	case int:
		return strconv.Itoa(n)
	case json.Number:
		return n.String()
	}
	return ""
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

// filterValueString renders a coerced filter value back to its raw form
// field representation.
func filterValueString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(t, ",")
	default:
		return floatString(v)
	}
}

// weightsString renders a weight list as the comma-separated form value.
func weightsString(v any) string {
	var parts []string
	switch ws := v.(type) {
	case nil:
		return ""
	case []float64:
		for _, w := range ws {
			parts = append(parts, strconv.FormatFloat(w, 'g', -1, 64))
		}
	case []any:
		for _, w := range ws {
			parts = append(parts, floatString(w))
		}
	}
	return strings.Join(parts, ", ")
}

// sortedFilterKeys returns filter keys in stable order for deterministic
// payload assembly.
func sortedFilterKeys(filters map[string]string) []string {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
