package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrValidation is returned when a config object fails its schema.
var ErrValidation = errors.New("schema validation failed")

var (
	compiledMu sync.Mutex
	compiled   = make(map[string]*jsonschema.Schema)
)

// Validate checks a stored config object against a registered schema.
// Unknown schema names pass: rows naming an unregistered parser or
// extractor are carried through untouched rather than rejected.
func Validate(kind Kind, name string, config map[string]any) error {
	s, ok, err := Get(kind, name)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	cs, err := compile(s)
	if err != nil {
		return err
	}

	// Round-trip through JSON so numeric types match what the validator
	// expects from decoded documents.
	data, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal config for %s: %w", name, err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("reparse config for %s: %w", name, err)
	}

	if err := cs.Validate(doc); err != nil {
		return fmt.Errorf("%w: config does not match %s schema: %v", ErrValidation, name, err)
	}
	return nil
}

// compile returns the compiled JSON Schema for s, caching by kind/name.
func compile(s *Schema) (*jsonschema.Schema, error) {
	key := string(s.Kind) + "/" + s.Name

	compiledMu.Lock()
	defer compiledMu.Unlock()
	if cs, ok := compiled[key]; ok {
		return cs, nil
	}

	compiler := jsonschema.NewCompiler()
	url := "litflow://" + key + ".json"
	if err := compiler.AddResource(url, bytes.NewReader(s.Raw)); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", s.Name, err)
	}
	cs, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", s.Name, err)
	}

	compiled[key] = cs
	return cs, nil
}
