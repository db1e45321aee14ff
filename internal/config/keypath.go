package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/davetashner/dupscan/internal/model"
)

// GetValue retrieves a value from a Config by dot-notation key path, such as
// "filters.import_group" or "languages.go.min_occurrences". Maps are returned
// for intermediate nodes.
func GetValue(cfg *Config, keyPath string) (any, error) {
	if err := ValidateKeyPath(keyPath); err != nil {
		return nil, err
	}
	m, err := configToMap(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return navigateMap(m, keyPath)
}

// Flatten returns every scalar setting of cfg keyed by dot-notation path.
func Flatten(cfg *Config) (map[string]any, error) {
	m, err := configToMap(cfg)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any)
	flattenInto(out, m, "")
	return out, nil
}

func flattenInto(out map[string]any, m map[string]any, prefix string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flattenInto(out, sub, key)
			continue
		}
		out[key] = v
	}
}

// ValidateKeyPath checks that a dot-notation key path names a Config field,
// using the yaml struct tags.
func ValidateKeyPath(keyPath string) error {
	parts := strings.Split(keyPath, ".")
	top := yamlKeys(reflect.TypeOf(Config{}))
	first := parts[0]
	if !top[first] {
		return fmt.Errorf("unknown key %q; valid top-level keys: %s", first, sortedKeys(top))
	}

	switch first {
	case "filters":
		if len(parts) == 1 {
			return nil
		}
		fk := yamlKeys(reflect.TypeOf(FilterConfig{}))
		if len(parts) > 2 || !fk[parts[1]] {
			return fmt.Errorf("unknown filter %q; valid filters: %s", strings.Join(parts[1:], "."), sortedKeys(fk))
		}
		return nil
	case "languages":
		if len(parts) == 1 {
			return nil
		}
		if !model.Language(parts[1]).Known() {
			return fmt.Errorf("unknown language %q", parts[1])
		}
		if len(parts) == 2 {
			return nil
		}
		lk := yamlKeys(reflect.TypeOf(LanguageConfig{}))
		if len(parts) > 3 || !lk[parts[2]] {
			return fmt.Errorf("unknown language field %q; valid fields: %s", strings.Join(parts[2:], "."), sortedKeys(lk))
		}
		return nil
	}
	if len(parts) > 1 {
		return fmt.Errorf("key %q is a scalar; cannot use sub-keys", first)
	}
	return nil
}

// configToMap marshals a Config to a map via YAML round-trip.
func configToMap(cfg *Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

func navigateMap(m map[string]any, keyPath string) (any, error) {
	var current any = m
	for _, part := range strings.Split(keyPath, ".") {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("key %q: parent is not a map", part)
		}
		val, exists := cm[part]
		if !exists {
			return nil, fmt.Errorf("key %q not set", keyPath)
		}
		current = val
	}
	return current, nil
}

func yamlKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		if name := strings.Split(tag, ",")[0]; name != "" {
			keys[name] = true
		}
	}
	return keys
}

func sortedKeys(m map[string]bool) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
