package tokenmap

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
)

// Names is the on-disk shape shared by the manifest and the ignore list:
//
//	{ "id": ["nav"], "class": ["menu", "active"] }
type Names struct {
	ID    []string `json:"id"`
	Class []string `json:"class"`
}

// Len returns the total number of names
func (n Names) Len() int {
	return len(n.ID) + len(n.Class)
}

// ReadNames reads a names file. Comments and trailing commas are allowed.
func ReadNames(path string) (Names, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Names{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var n Names
	if err := json.Unmarshal(jsonc.ToJSON(data), &n); err != nil {
		return Names{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return n, nil
}

// WriteNames writes n as tab indented JSON, preserving array order
func WriteNames(path string, n Names) error {
	if n.ID == nil {
		n.ID = []string{}
	}
	if n.Class == nil {
		n.Class = []string{}
	}

	data, err := json.MarshalIndent(n, "", "\t")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// NewIgnore normalizes ignore-list entries: whitespace is removed from
// each entry and empty entries are dropped.
func NewIgnore(n Names) Names {
	return Names{
		ID:    stripAll(n.ID),
		Class: stripAll(n.Class),
	}
}

func stripAll(names []string) []string {
	var result []string
	for _, name := range names {
		name = strings.Join(strings.Fields(name), "")
		if name != "" {
			result = append(result, name)
		}
	}
	return result
}
