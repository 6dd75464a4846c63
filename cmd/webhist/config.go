package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// defaultConfigPath is read on startup when present. Kong expands the "~".
const defaultConfigPath = "~/.webhist/config.yaml"

// YAMLConfig is a kong.ConfigurationLoader for YAML files mapping flag
// names to values, e.g.
//
//	timeout: 30s
//	match-limit: 5
//
// Keys may use dashes or underscores. Values must be scalars.
func YAMLConfig(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		v, ok := values[flag.Name]
		if !ok {
			v, ok = values[strings.ReplaceAll(flag.Name, "-", "_")]
		}
		if !ok || v == nil {
			return nil, nil
		}

		switch v.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("config key %q must be a single value", flag.Name)
		}

		// Kong's mappers all accept strings, so hand values over as text.
		return fmt.Sprint(v), nil
	}), nil
}
