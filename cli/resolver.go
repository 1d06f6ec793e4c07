package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/pxx/log"
)

// resolve returns a [kong.ConfigurationLoader] for YAML configuration
// files. The document is a mapping of flag names to values:
//
//	log-level: debug
//	log-pretty: false
//	include:
//	  - /opt/eigen3/include
//
// Nested mappings are flattened by joining keys with "-", so the same
// settings can also be written as:
//
//	log:
//	  level: debug
//
// Keys may use "_" in place of "-". Command-line flags override the file.
// An unreadable document is logged and ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).DecodeContext(ctx, &doc); err != nil {
			if !errors.Is(err, io.EOF) {
				log.WarnContext(ctx, "ignoring configuration file",
					slog.String("error", err.Error()),
				)
			}

			return config{}, nil
		}

		c := make(config)
		c.flatten("", doc)

		return c, nil
	}
}

// config implements [kong.Resolver] over a flattened configuration.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := strings.ReplaceAll(k, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := v.(map[string]any); ok {
			c.flatten(key, sub)

			continue
		}

		c[key] = value(v)
	}
}

// value converts a decoded YAML value into a form kong can parse. Kong
// decodes scalars from strings and lists from comma-separated strings.
func value(v any) any {
	switch v := v.(type) {
	case nil, bool, string:
		return v
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprint(e)
		}

		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	return nil, nil
}
