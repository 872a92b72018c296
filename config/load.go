package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the configuration from a file. Files ending with .yaml or .yml
// are parsed as YAML, everything else as JSON. The returned configuration has
// passed Validate.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot open configuration file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))

	return Parse(data, ext == ".yaml" || ext == ".yml")
}

// Parse decodes and validates a configuration document.
func Parse(data []byte, useYAML bool) (Config, error) {
	raw, err := decodeRaw(data, useYAML)
	if err != nil {
		return Config{}, err
	}

	if err := checkRequiredFields(raw); err != nil {
		return Config{}, err
	}

	c := Config{}
	if useYAML {
		err = yaml.Unmarshal(data, &c)
	} else {
		err = json.Unmarshal(data, &c)
	}

	if err != nil {
		return Config{}, fmt.Errorf("cannot decode configuration: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func decodeRaw(data []byte, useYAML bool) (map[string]any, error) {
	raw := map[string]any{}

	if useYAML {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("cannot parse configuration: %w", err)
		}

		return raw, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("cannot parse configuration: %w", err)
	}

	return raw, nil
}

func checkRequiredFields(raw map[string]any) error {
	v := &validator{}

	for _, field := range RequiredFields {
		value, found := raw[field]
		if !found {
			v.add(field, "missing")
			continue
		}

		if !isUnsignedInteger(value) {
			v.add(field, "must be a non-negative integer")
		}
	}

	return v.err()
}

func isUnsignedInteger(value any) bool {
	switch n := value.(type) {
	case json.Number:
		i, err := n.Int64()
		if err == nil {
			return i >= 0
		}

		// Too large for int64, but could still be a uint64.
		f, err := n.Float64()

		return err == nil && f >= 0 && f == math.Trunc(f) &&
			!strings.ContainsAny(n.String(), ".eE")
	case int:
		return n >= 0
	case int64:
		return n >= 0
	case uint64:
		return true
	default:
		return false
	}
}
