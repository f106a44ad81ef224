package processing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Priority bounds. Lower numbers run first.
const (
	MinPriority = 0
	MaxPriority = 1000
)

// ErrInvalidPriority is returned for non-integer or out-of-range priorities.
var ErrInvalidPriority = errors.New("invalid priority")

// ParserRow assigns a parser to a processing strategy. Include and Exclude
// are comma-joined glob pattern lists.
type ParserRow struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Priority int            `json:"priority"`
	Include  string         `json:"include,omitempty"`
	Exclude  string         `json:"exclude,omitempty"`
	Config   map[string]any `json:"config"`
}

// ExtractorRow assigns an extractor to a processing strategy. ApplyTo is a
// comma-joined glob pattern list.
type ExtractorRow struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Priority int            `json:"priority"`
	ApplyTo  string         `json:"applyTo,omitempty"`
	Config   map[string]any `json:"config"`
}

// ParsePriority parses raw form input into a priority value. Anything that
// is not an integer in [MinPriority, MaxPriority] is rejected.
func ParsePriority(raw string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidPriority, raw)
	}
	if err := CheckPriority(p); err != nil {
		return 0, err
	}
	return p, nil
}

// CheckPriority validates an already-parsed priority value.
func CheckPriority(p int) error {
	if p < MinPriority || p > MaxPriority {
		return fmt.Errorf("%w: %d outside [%d, %d]", ErrInvalidPriority, p, MinPriority, MaxPriority)
	}
	return nil
}

// MigratePriority maps priorities persisted under the historical large-number
// scale onto the current one. In-range modern values pass through unchanged.
func MigratePriority(p int) int {
	switch {
	case p >= 100:
		return 1
	case p >= 90:
		return 2
	case p >= 80:
		return 3
	case p >= 50:
		return 4
	case p < 1:
		return 1
	default:
		return p
	}
}

// SplitPatterns parses a comma-joined pattern list, trimming whitespace and
// dropping empty entries.
func SplitPatterns(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinPatterns is the inverse of SplitPatterns.
func JoinPatterns(patterns []string) string {
	return strings.Join(patterns, ", ")
}
