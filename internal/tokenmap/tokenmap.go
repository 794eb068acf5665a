// Package tokenmap assigns short replacement tokens to CSS ids and classes.
//
// A Map is shared by every scanner and rewriter of a run. Names are
// registered during discovery (or replayed from a manifest) and then only
// looked up while files are rewritten.
package tokenmap

import (
	"strings"
	"sync"
)

// Kind identifies which partition of the map a name belongs to
type Kind string

const (
	ID    Kind = "id"
	Class Kind = "class"
)

// Lookup resolves an original name to its token. ok is false when the
// name is ignore-listed or was never registered.
type Lookup interface {
	Lookup(kind Kind, name string) (token string, ok bool)
}

type partition struct {
	tokens map[string]string
	order  []string
}

func newPartition() *partition {
	return &partition{tokens: make(map[string]string)}
}

// Map is the process-wide name -> token mapping
type Map struct {
	mu      sync.Mutex
	enc     Encoder
	counter int
	parts   map[Kind]*partition
	ignore  map[Kind]map[string]bool
}

// New creates an empty Map. Names present in ignore are never registered.
func New(enc Encoder, ignore Names) *Map {
	ignore = NewIgnore(ignore)

	m := &Map{
		enc: enc,
		parts: map[Kind]*partition{
			ID:    newPartition(),
			Class: newPartition(),
		},
		ignore: map[Kind]map[string]bool{
			ID:    toSet(ignore.ID),
			Class: toSet(ignore.Class),
		},
	}
	return m
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// AddID registers a single id. Values with inner whitespace are not valid
// ids and are skipped.
func (m *Map) AddID(name string) {
	name = strings.TrimSpace(name)
	if strings.ContainsAny(name, " \t\r\n\f") {
		return
	}
	m.Add(ID, name)
}

// AddClass registers every whitespace separated class in each argument
func (m *Map) AddClass(names ...string) {
	for _, list := range names {
		for _, name := range strings.Fields(list) {
			m.Add(Class, name)
		}
	}
}

// Add registers name under kind. Empty, ignored and already known names
// are left alone; a new name takes the next counter value whose token is
// not itself an ignored name.
func (m *Map) Add(kind Kind, name string) {
	if name == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	part, ok := m.parts[kind]
	if !ok || m.ignore[kind][name] {
		return
	}
	if _, exists := part.tokens[name]; exists {
		return
	}

	part.tokens[name] = m.next()
	part.order = append(part.order, name)
}

// next returns the token for the counter and advances it, stepping over
// values that encode to an ignored name of either kind
func (m *Map) next() string {
	for {
		token := m.enc.Encode(m.counter)
		m.counter++
		if !m.ignore[ID][token] && !m.ignore[Class][token] {
			return token
		}
	}
}

// Lookup returns the token for name
func (m *Map) Lookup(kind Kind, name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ignore[kind][name] {
		return "", false
	}
	part, ok := m.parts[kind]
	if !ok {
		return "", false
	}
	token, ok := part.tokens[name]
	return token, ok
}

// Ignored reports whether name is on the ignore list for kind
func (m *Map) Ignored(kind Kind, name string) bool {
	return m.ignore[kind][name]
}

// Len returns the number of registered names across both kinds
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.parts[ID].order) + len(m.parts[Class].order)
}

// Names returns the registered names of each kind in first-sighting order
func (m *Map) Names() Names {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Names{
		ID:    append([]string{}, m.parts[ID].order...),
		Class: append([]string{}, m.parts[Class].order...),
	}
}

// Load replays a manifest: ids in array order, then classes in array order
func (m *Map) Load(n Names) {
	for _, id := range n.ID {
		m.AddID(id)
	}
	m.AddClass(n.Class...)
}
