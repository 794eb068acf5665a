package tokenmap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequence(n int) string {
	return fmt.Sprintf("t%d", n)
}

func TestAddAssignsOnFirstSighting(t *testing.T) {
	m := New(EncoderFunc(sequence), Names{})

	m.AddID("nav")
	m.AddClass("menu active")
	m.AddID("nav")
	m.AddClass("menu")

	tok, ok := m.Lookup(ID, "nav")
	require.True(t, ok)
	assert.Equal(t, "t0", tok)

	tok, ok = m.Lookup(Class, "menu")
	require.True(t, ok)
	assert.Equal(t, "t1", tok)

	tok, ok = m.Lookup(Class, "active")
	require.True(t, ok)
	assert.Equal(t, "t2", tok)

	assert.Equal(t, 3, m.Len())
}

func TestSharedCounterAcrossKinds(t *testing.T) {
	enc, err := NewHashids(DefaultSalt, 0)
	require.NoError(t, err)
	m := New(enc, Names{})

	// the same name as id and class must get two different tokens
	m.AddID("box")
	m.AddClass("box")
	m.AddClass("header footer sidebar", "content")
	m.AddID("main")

	seen := make(map[string]string)
	names := m.Names()
	for _, id := range names.ID {
		tok, _ := m.Lookup(ID, id)
		if prev, dup := seen[tok]; dup {
			t.Fatalf("token %q issued for both %s and id %s", tok, prev, id)
		}
		seen[tok] = "id " + id
	}
	for _, cls := range names.Class {
		tok, _ := m.Lookup(Class, cls)
		if prev, dup := seen[tok]; dup {
			t.Fatalf("token %q issued for both %s and class %s", tok, prev, cls)
		}
		seen[tok] = "class " + cls
	}
	assert.Len(t, seen, 7)
}

func TestIgnoredNamesNeverAdded(t *testing.T) {
	m := New(EncoderFunc(sequence), Names{ID: []string{"app"}, Class: []string{" js-hook "}})

	m.AddID("app")
	m.AddClass("js-hook visible")

	_, ok := m.Lookup(ID, "app")
	assert.False(t, ok)
	_, ok = m.Lookup(Class, "js-hook")
	assert.False(t, ok)
	assert.True(t, m.Ignored(Class, "js-hook"))

	tok, ok := m.Lookup(Class, "visible")
	require.True(t, ok)
	assert.Equal(t, "t0", tok, "ignored names must not consume counter values")
	assert.Equal(t, Names{ID: []string{}, Class: []string{"visible"}}, m.Names())
}

func TestAddSkipsEmptyAndMalformed(t *testing.T) {
	m := New(EncoderFunc(sequence), Names{})

	m.AddID("")
	m.AddID("two words")
	m.AddClass("", "   ")
	m.Add(Kind("data"), "x")

	assert.Equal(t, 0, m.Len())
}

func TestAddIDTrimsSurroundingSpace(t *testing.T) {
	m := New(EncoderFunc(sequence), Names{})
	m.AddID("  nav ")

	_, ok := m.Lookup(ID, "nav")
	assert.True(t, ok)
}

func TestNamesKeepsDiscoveryOrder(t *testing.T) {
	m := New(EncoderFunc(sequence), Names{})
	m.AddClass("zeta")
	m.AddID("beta")
	m.AddClass("alpha")
	m.AddID("aardvark")

	assert.Equal(t, Names{
		ID:    []string{"beta", "aardvark"},
		Class: []string{"zeta", "alpha"},
	}, m.Names())
}

func TestDiscoveryIsDeterministic(t *testing.T) {
	build := func() *Map {
		enc, err := NewHashids("salt", 0)
		require.NoError(t, err)
		m := New(enc, Names{})
		m.AddID("nav")
		m.AddClass("menu active", "footer")
		m.AddID("content")
		return m
	}

	a, b := build(), build()
	for _, kind := range []Kind{ID, Class} {
		for _, name := range []string{"nav", "menu", "active", "footer", "content"} {
			ta, oka := a.Lookup(kind, name)
			tb, okb := b.Lookup(kind, name)
			assert.Equal(t, oka, okb)
			assert.Equal(t, ta, tb)
		}
	}
}

func TestLoadReplaysDiscovery(t *testing.T) {
	enc, err := NewHashids(DefaultSalt, 0)
	require.NoError(t, err)

	discovered := New(enc, Names{})
	discovered.AddID("nav")
	discovered.AddClass("menu")

	replayed := New(enc, Names{})
	replayed.Load(Names{ID: []string{"nav"}, Class: []string{"menu"}})

	for _, tc := range []struct {
		kind Kind
		name string
	}{{ID, "nav"}, {Class, "menu"}} {
		want, ok := discovered.Lookup(tc.kind, tc.name)
		require.True(t, ok)
		got, ok := replayed.Lookup(tc.kind, tc.name)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestTokensStepOverIgnoredNames(t *testing.T) {
	enc, err := NewHashids(DefaultSalt, 0)
	require.NoError(t, err)

	clashClass, clashID := enc.Encode(1), enc.Encode(3)
	m := New(enc, Names{ID: []string{clashID}, Class: []string{clashClass}})
	m.AddClass("one two three four")

	expected := map[string]string{
		"one":   enc.Encode(0),
		"two":   enc.Encode(2),
		"three": enc.Encode(4),
		"four":  enc.Encode(5),
	}
	for name, token := range expected {
		got, ok := m.Lookup(Class, name)
		require.True(t, ok, name)
		assert.Equal(t, token, got, name)
	}
	assert.Equal(t, 4, m.Len())

	// replay takes the same steps
	replayed := New(enc, Names{ID: []string{clashID}, Class: []string{clashClass}})
	replayed.Load(m.Names())
	for name, token := range expected {
		got, _ := replayed.Lookup(Class, name)
		assert.Equal(t, token, got, name)
	}
}
