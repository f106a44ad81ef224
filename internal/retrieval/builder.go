package retrieval

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownStrategy is returned for a tag outside the five known variants.
var ErrUnknownStrategy = errors.New("unknown retrieval strategy type")

// ErrInvalidField is returned when a form field fails validation.
// No partial payload is produced.
var ErrInvalidField = errors.New("invalid field value")

var (
	distanceMetrics    = []string{"cosine", "euclidean", "manhattan", "dot"}
	filterModes        = []string{"pre", "post"}
	aggregationMethods = []string{"max", "mean", "weighted", "reciprocal_rank"}
	combinationMethods = []string{"weighted_average", "rank_fusion", "score_fusion"}
)

// BuildConfig assembles the canonical config payload for a strategy tag
// from raw form fields. The builder is idempotent: rebuilding from form
// fields populated via FormFieldsFrom reproduces the same object.
func BuildConfig(t StrategyType, f FormFields) (map[string]any, error) {
	switch t {
	case StrategyBasicSimilarity:
		return buildBasicSimilarity(f)
	case StrategyMetadataFiltered:
		return buildMetadataFiltered(f)
	case StrategyMultiQuery:
		return buildMultiQuery(f)
	case StrategyReranked:
		return buildReranked(f)
	case StrategyHybridUniversal:
		return buildHybridUniversal(f)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, t)
}

func buildBasicSimilarity(f FormFields) (map[string]any, error) {
	topK, err := intField("top_k", f.TopK, 5)
	if err != nil {
		return nil, err
	}
	metric, err := enumField("distance_metric", f.DistanceMetric, distanceMetrics)
	if err != nil {
		return nil, err
	}

	// An empty threshold input means "no cutoff", persisted as null.
	var threshold any
	if s := strings.TrimSpace(f.ScoreThreshold); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: score_threshold %q is not a number", ErrInvalidField, s)
		}
		threshold = v
	}

	return map[string]any{
		"top_k":           topK,
		"distance_metric": metric,
		"score_threshold": threshold,
	}, nil
}

func buildMetadataFiltered(f FormFields) (map[string]any, error) {
	topK, err := intField("top_k", f.TopK, 5)
	if err != nil {
		return nil, err
	}
	mode, err := enumField("filter_mode", f.FilterMode, filterModes)
	if err != nil {
		return nil, err
	}
	multiplier, err := intField("fallback_multiplier", f.FallbackMultiplier, 3)
	if err != nil {
		return nil, err
	}

	filters := make(map[string]any)
	for _, key := range sortedFilterKeys(f.Filters) {
		if strings.TrimSpace(key) == "" {
			continue // blank keys are dropped
		}
		filters[key] = CoerceFilterValue(f.Filters[key])
	}

	return map[string]any{
		"top_k":               topK,
		"filters":             filters,
		"filter_mode":         mode,
		"fallback_multiplier": multiplier,
	}, nil
}

func buildMultiQuery(f FormFields) (map[string]any, error) {
	numQueries, err := intField("num_queries", f.NumQueries, 3)
	if err != nil {
		return nil, err
	}
	topK, err := intField("top_k", f.TopK, 5)
	if err != nil {
		return nil, err
	}
	method, err := enumField("aggregation_method", f.AggregationMethod, aggregationMethods)
	if err != nil {
		return nil, err
	}

	var weights any
	if ws := ParseWeightsList(f.QueryWeights, numQueries); ws != nil {
		weights = ws
	}

	return map[string]any{
		"num_queries":        numQueries,
		"top_k":              topK,
		"aggregation_method": method,
		"query_weights":      weights,
	}, nil
}

func buildReranked(f FormFields) (map[string]any, error) {
	initialK, err := intField("initial_k", f.InitialK, 20)
	if err != nil {
		return nil, err
	}
	finalK, err := intField("final_k", f.FinalK, 5)
	if err != nil {
		return nil, err
	}

	factors := map[string]any{}
	for _, pair := range []struct {
		key, raw string
		fallback float64
	}{
		{"similarity_weight", f.SimilarityWeight, 0.6},
		{"recency_weight", f.RecencyWeight, 0.2},
		{"length_weight", f.LengthWeight, 0.1},
		{"metadata_weight", f.MetadataWeight, 0.1},
	} {
		v, err := floatField(pair.key, pair.raw, pair.fallback)
		if err != nil {
			return nil, err
		}
		factors[pair.key] = v
	}

	return map[string]any{
		"initial_k":        initialK,
		"final_k":          finalK,
		"rerank_factors":   factors,
		"normalize_scores": f.NormalizeScores,
	}, nil
}

func buildHybridUniversal(f FormFields) (map[string]any, error) {
	method, err := enumField("combination_method", f.CombinationMethod, combinationMethods)
	if err != nil {
		return nil, err
	}
	finalK, err := intField("final_k", f.FinalK, 5)
	if err != nil {
		return nil, err
	}

	subs := make([]any, 0, len(f.SubStrategies))
	for i, sub := range f.SubStrategies {
		if !ValidType(sub.Type) {
			return nil, fmt.Errorf("%w: sub-strategy %d has %q", ErrUnknownStrategy, i, sub.Type)
		}
		weight, err := floatField(fmt.Sprintf("strategies[%d].weight", i), sub.Weight, 1.0)
		if err != nil {
			return nil, err
		}
		config := sub.Config
		if config == nil {
			config = DefaultConfig(sub.Type)
		}
		subs = append(subs, map[string]any{
			"type":   string(sub.Type),
			"weight": weight,
			"config": config,
		})
	}

	return map[string]any{
		"strategies":         subs,
		"combination_method": method,
		"final_k":            finalK,
	}, nil
}

// CoerceFilterValue converts a raw filter input string to its typed value:
// a comma yields a list of trimmed strings, true/false a boolean, a
// numeric string a number, anything else the raw string.
func CoerceFilterValue(raw string) any {
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		items := make([]any, 0, len(parts))
		for _, p := range parts {
			items = append(items, strings.TrimSpace(p))
		}
		return items
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}

// ParseWeightsList parses a comma-separated weight string and reconciles
// the count to numQueries: a blank input yields nil (unweighted), extra
// weights are truncated, and a short non-empty list is padded with 1.0.
// Tokens that do not parse as numbers are skipped.
func ParseWeightsList(raw string, numQueries int) []float64 {
	if strings.TrimSpace(raw) == "" || numQueries <= 0 {
		return nil
	}

	var weights []float64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if w, err := strconv.ParseFloat(part, 64); err == nil {
			weights = append(weights, w)
		}
	}
	if len(weights) == 0 {
		return nil
	}

	if len(weights) > numQueries {
		return weights[:numQueries]
	}
	for len(weights) < numQueries {
		weights = append(weights, 1.0)
	}
	return weights
}

// intField parses an integer form field, using fallback for a blank input.
func intField(name, raw string, fallback int) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrInvalidField, name, s)
	}
	return n, nil
}

// floatField parses a float form field, using fallback for a blank input.
func floatField(name, raw string, fallback float64) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrInvalidField, name, s)
	}
	return n, nil
}

// enumField validates a string field against its allowed values, taking
// the first allowed value for a blank input.
func enumField(name, raw string, allowed []string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return allowed[0], nil
	}
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %s %q is not one of %v", ErrInvalidField, name, s, allowed)
}
