package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Load reads a run config file. The format follows the extension: .yaml or
// .yml, .toml, .properties, and JSON with comments for anything else,
// including the default .muncher file. Arrays become comma separated lists.
func Load(path string) (Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".properties":
		props, perr := ParseProperties(data)
		if perr != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, perr)
		}
		return props, nil
	default:
		err = json.Unmarshal(jsonc.ToJSON(data), &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return flatten(raw), nil
}

func flatten(raw map[string]any) Properties {
	props := make(Properties, len(raw))
	for key, val := range raw {
		if s, ok := scalar(val); ok {
			props[strings.ToLower(key)] = s
		}
	}
	return props
}

func scalar(val any) (string, bool) {
	switch v := val.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := scalar(item); ok && s != "" {
				items = append(items, s)
			}
		}
		return strings.Join(items, ","), true
	case map[string]any:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}

// Write saves props as an indented JSON run config
func Write(path string, props Properties) error {
	data, err := json.MarshalIndent(map[string]string(props), "", "\t")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
