package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Properties is a flat set of run options keyed by option name. Every
// config file format is reduced to this shape; list values are comma
// separated.
type Properties map[string]string

// ParseProperties parses properties text supporting both = and : delimiters
func ParseProperties(data []byte) (Properties, error) {
	props := make(Properties)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}

		// Parse key=value or key: value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		}
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		props[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading properties: %w", err)
	}

	return props, nil
}

// Get returns the value for a key, or empty string if not found
func (p Properties) Get(key string) string {
	return p[key]
}

// GetWithDefault returns the value for a key, or the default if not found
func (p Properties) GetWithDefault(key, defaultValue string) string {
	if val, ok := p[key]; ok && val != "" {
		return val
	}
	return defaultValue
}

// GetBool returns true unless the value is "false", "no", or "0"
func (p Properties) GetBool(key string) bool {
	val := strings.ToLower(p[key])
	if val == "" {
		return false
	}
	return !(val == "false" || val == "no" || val == "0")
}

// GetInt returns the integer value for a key, or the default if not set
func (p Properties) GetInt(key string, defaultValue int) (int, error) {
	val := strings.TrimSpace(p[key])
	if val == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", key, val)
	}
	return n, nil
}

// GetList parses a comma-separated value into a slice
func (p Properties) GetList(key string) []string {
	val := p[key]
	if val == "" {
		return []string{}
	}

	var result []string
	items := strings.Split(val, ",")
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

// Merge copies every entry of other over p
func (p Properties) Merge(other Properties) {
	for k, v := range other {
		p[k] = v
	}
}

// FileExists checks if a file exists at the given path
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
