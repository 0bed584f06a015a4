package validator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// Factory builds a configured validator from decoded config params.
type Factory func(params map[string]any) (Validator, error)

// Registry maps validator type names to factories. It is populated
// explicitly by the embedding application; there is no filesystem
// discovery.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Build constructs a validator of the named type. Unknown names fail
// fast, listing what is registered.
func (r *Registry) Build(name string, params map[string]any) (Validator, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("validator type %q not found. Available: %s", name, strings.Join(r.Names(), ", "))
	}

	return factory(params)
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a registry preloaded with the built-in validator
// types: range, regex and json_schema.
func Builtin() *Registry {
	r := NewRegistry()

	r.Register("range", func(params map[string]any) (Validator, error) {
		min, err := floatParam(params, "min", 0)
		if err != nil {
			return nil, err
		}
		max, err := floatParam(params, "max", 0)
		if err != nil {
			return nil, err
		}

		valueType := ValueTypeInteger
		if raw, ok := params["value_type"]; ok {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("range validator: value_type must be a string, got %T", raw)
			}
			valueType = ValueType(s)
		}

		return NewRangeValidator(min, max, valueType)
	})

	r.Register("regex", func(params map[string]any) (Validator, error) {
		pattern, ok := params["pattern"].(string)
		if !ok || pattern == "" {
			return nil, fmt.Errorf("regex validator: missing required param %q", "pattern")
		}
		return NewRegexValidator(pattern)
	})

	r.Register("json_schema", func(params map[string]any) (Validator, error) {
		raw, ok := params["schema"]
		if !ok {
			return nil, fmt.Errorf("json_schema validator: missing required param %q", "schema")
		}

		// The schema arrives as a decoded YAML mapping; round-trip it
		// through JSON into the schema type.
		data, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("json_schema validator: invalid schema: %w", err)
		}

		var schema jsonschema.Schema
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("json_schema validator: invalid schema: %w", err)
		}

		return NewSchemaValidator(&schema)
	})

	return r
}

func floatParam(params map[string]any, key string, fallback float64) (float64, error) {
	raw, ok := params[key]
	if !ok {
		return fallback, nil
	}

	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("param %q must be a number, got %T", key, raw)
	}
}
