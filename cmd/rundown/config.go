package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// joinPairs renders a mapping as sorted key=value pairs in kong's map flag
// syntax.
func joinPairs(m map[string]any) string {
	keys := slices.Sorted(maps.Keys(m))
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%v", k, m[k])
	}
	return strings.Join(pairs, ";")
}

// yamlLoader reads flag defaults from a YAML mapping. Keys are flag names;
// dashes and underscores are interchangeable. A nested mapping sets a map
// flag such as format-label. Values of flags given
// on the command line or through the environment take precedence.
func yamlLoader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing YAML config: %w", err)
	}

	config := make(map[string]any, len(values))
	for k, v := range values {
		config[strings.ReplaceAll(k, "_", "-")] = v
	}

	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		v, ok := config[flag.Name]
		if !ok {
			return nil, nil
		}
		switch v := v.(type) {
		case []any:
			items := make([]string, len(v))
			for i, item := range v {
				items[i] = fmt.Sprint(item)
			}
			return strings.Join(items, ","), nil
		case map[string]any:
			return joinPairs(v), nil
		case map[any]any:
			pairs := make(map[string]any, len(v))
			for k, item := range v {
				pairs[fmt.Sprint(k)] = item
			}
			return joinPairs(pairs), nil
		default:
			return fmt.Sprint(v), nil
		}
	}), nil
}
