package schema

// DeriveDefaults produces a concrete configuration for a schema: the
// declared default of every field, or a type-appropriate fallback.
//
// Fallbacks: array -> null when nullable else []; boolean -> false;
// integer/number -> null when nullable, else the declared minimum, else 0;
// string -> "".
func DeriveDefaults(s *StrategySchema) map[string]any {
	config := make(map[string]any, len(s.Properties))
	for name, field := range s.Properties {
		config[name] = fieldDefault(field)
	}
	return config
}

// DeriveDefaultsFor derives the default config for a registered schema
// name. An unknown name yields an empty object.
func DeriveDefaultsFor(kind Kind, name string) (map[string]any, error) {
	s, ok, err := Get(kind, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[string]any{}, nil
	}
	return DeriveDefaults(&s.StrategySchema), nil
}

func fieldDefault(f FieldSchema) any {
	if f.Default != nil {
		return f.Default
	}
	switch f.Type {
	case TypeArray:
		if f.Nullable {
			return nil
		}
		return []any{}
	case TypeBoolean:
		return false
	case TypeInteger, TypeNumber:
		if f.Nullable {
			return nil
		}
		if f.Minimum != nil {
			if f.Type == TypeInteger {
				return int(*f.Minimum)
			}
			return *f.Minimum
		}
		if f.Type == TypeInteger {
			return 0
		}
		return 0.0
	default:
		return ""
	}
}
