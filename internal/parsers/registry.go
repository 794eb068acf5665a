// Package parsers holds the script parser/writer extensions that run after
// the built-in script recognizers.
//
// Extensions register themselves by name from an init function, or are
// loaded at runtime from a shared object that exports a symbol named
// "Plugin" implementing the Plugin interface.
package parsers

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"munch/internal/selector"
	"munch/internal/tokenmap"
)

// Plugin discovers and rewrites ids and classes in script text
type Plugin interface {
	Name() string

	// Scan returns the names found in script
	Scan(script string) tokenmap.Names

	// Rewrite returns script with known names replaced by their tokens
	Rewrite(script string, lookup tokenmap.Lookup) string
}

// Finder is implemented by plugins that can report the spans of their
// usages. Their rewrites are spliced together with the built-in ones
// against the original script instead of running over rewritten text.
type Finder interface {
	Find(script string) []selector.Usage
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Plugin)
)

// Register makes a plugin available by name, replacing any earlier one
func Register(p Plugin) {
	mu.Lock()
	defer mu.Unlock()
	registry[p.Name()] = p
}

// Lookup returns the registered plugin called name
func Lookup(name string) (Plugin, bool) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := registry[name]
	return p, ok
}

// Registered returns the names of all registered plugins, sorted
func Registered() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load resolves identifier to a plugin: a registered name, or the path of
// a shared object ending in ".so".
func Load(identifier string) (Plugin, error) {
	identifier = strings.TrimSpace(identifier)

	if p, ok := Lookup(identifier); ok {
		return p, nil
	}
	if strings.HasSuffix(identifier, ".so") {
		return openShared(identifier)
	}
	return nil, fmt.Errorf("unknown parser %q (available: %s)", identifier, strings.Join(Registered(), ", "))
}

// LoadAll resolves every identifier, skipping blanks
func LoadAll(identifiers []string) ([]Plugin, error) {
	var plugins []Plugin
	for _, id := range identifiers {
		if strings.TrimSpace(id) == "" {
			continue
		}
		p, err := Load(id)
		if err != nil {
			return nil, err
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

// Patterns is a plugin built from selector recognizers
type Patterns struct {
	ID          string
	Recognizers []selector.Recognizer
}

func (p *Patterns) Name() string {
	return p.ID
}

func (p *Patterns) Scan(script string) tokenmap.Names {
	var names tokenmap.Names
	for _, u := range selector.Discover(script, p.Recognizers) {
		if u.Kind == tokenmap.ID {
			names.ID = append(names.ID, u.Name)
		} else {
			names.Class = append(names.Class, u.Name)
		}
	}
	return names
}

func (p *Patterns) Find(script string) []selector.Usage {
	return selector.Discover(script, p.Recognizers)
}

func (p *Patterns) Rewrite(script string, lookup tokenmap.Lookup) string {
	return selector.Rewrite(script, p.Recognizers, lookup)
}
