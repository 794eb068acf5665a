package parsers

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munch/internal/selector"
	"munch/internal/tokenmap"
)

type fixedMap map[tokenmap.Kind]map[string]string

func (f fixedMap) Lookup(kind tokenmap.Kind, name string) (string, bool) {
	tok, ok := f[kind][name]
	return tok, ok
}

func TestLoadRegistered(t *testing.T) {
	p, err := Load(" jquery ")
	require.NoError(t, err)
	assert.Equal(t, "jquery", p.Name())
	assert.Contains(t, Registered(), "jquery")
}

func TestLoadUnknown(t *testing.T) {
	_, err := Load("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jquery")
}

func TestLoadMissingSharedObject(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.so"))
	assert.Error(t, err)
}

func TestLoadAll(t *testing.T) {
	plugins, err := LoadAll([]string{"jquery", "", "  "})
	require.NoError(t, err)
	assert.Len(t, plugins, 1)

	_, err = LoadAll([]string{"jquery", "nope"})
	assert.Error(t, err)
}

func TestRegisterCustom(t *testing.T) {
	Register(&Patterns{
		ID: "data-target",
		Recognizers: []selector.Recognizer{
			selector.Literal(`data-target="#([\w-]+)"`, tokenmap.ID, false),
		},
	})

	p, ok := Lookup("data-target")
	require.True(t, ok)

	script := `'<a data-target="#modal">'`
	assert.Equal(t, []string{"modal"}, p.Scan(script).ID)

	m := fixedMap{tokenmap.ID: {"modal": "q"}}
	assert.True(t, strings.Contains(p.Rewrite(script, m), `data-target="#q"`))
}

func TestJQueryPlugin(t *testing.T) {
	p, ok := Lookup("jquery")
	require.True(t, ok)

	script := `$(el).attr("class", "menu open").children(".item").prop('id', 'nav');`

	names := p.Scan(script)
	assert.Equal(t, []string{"nav"}, names.ID)
	assert.Equal(t, []string{"menu", "open", "item"}, names.Class)

	m := fixedMap{
		tokenmap.ID:    {"nav": "a"},
		tokenmap.Class: {"menu": "b", "item": "c"},
	}
	assert.Equal(t,
		`$(el).attr("class", "b open").children(".c").prop('id', 'a');`,
		p.Rewrite(script, m))
}
