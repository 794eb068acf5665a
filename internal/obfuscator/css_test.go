package obfuscator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munch/internal/tokenmap"
)

func newMap() *tokenmap.Map {
	return tokenmap.New(tokenmap.EncoderFunc(func(n int) string {
		return fmt.Sprintf("t%d", n)
	}), tokenmap.Names{})
}

const stylesheet = `#nav .menu > li.item:hover, .menu a[href="#top"] { color: #fff; background: url(a.b.png) }
@media (max-width: 10px) { .menu .collapsed { display: none } }
@keyframes spin { from { opacity: 0 } to { opacity: 1 } }
@font-face { font-family: x; src: url(x.woff) }
.card { color: red; & .title { margin: 0 } }
/* .commented { } */
.x::after { content: ".fake" }
`

func TestScanCSS(t *testing.T) {
	m := newMap()
	ScanCSS(stylesheet, m)

	names := m.Names()
	assert.Equal(t, []string{"nav"}, names.ID)
	assert.Equal(t, []string{"menu", "item", "collapsed", "card", "title", "x"}, names.Class)
}

func TestScanCSSEmpty(t *testing.T) {
	m := newMap()
	ScanCSS("", m)
	ScanCSS("/* nothing */ @charset \"utf-8\";", m)
	assert.Equal(t, 0, m.Len())
}

func TestRewriteCSS(t *testing.T) {
	m := newMap()
	src := `#nav .menu>li.item:hover{color:#fff}@media print{.menu{display:none}}.menu-item{}`
	ScanCSS(src, m)
	m.AddID("fff")

	assert.Equal(t,
		`#t0 .t1>li.t2:hover{color:#fff}@media print{.t1{display:none}}.t3{}`,
		RewriteCSS(src, m))
}

func TestRewriteCSSLeavesDeclarations(t *testing.T) {
	m := newMap()
	m.AddClass("fake", "png")
	m.AddID("top")

	src := `a[href="#top"] { content: ".fake"; background: url(a.png) }`
	assert.Equal(t, src, RewriteCSS(src, m))
}

func TestSelectorSpans(t *testing.T) {
	src := "@import url(x.css);\n.a , .b {}\n@supports (display: grid) { #c { } }"
	spans := selectorSpans(src)

	var got []string
	for _, s := range spans {
		got = append(got, src[s[0]:s[1]])
	}
	assert.Equal(t, []string{".a , .b", "#c"}, got)
}

func TestRewriteCSSKeepsIgnoredClassApart(t *testing.T) {
	enc, err := tokenmap.NewHashids(tokenmap.DefaultSalt, 0)
	require.NoError(t, err)

	// an ignored class spelled like the fifth token
	clash := enc.Encode(4)
	m := tokenmap.New(enc, tokenmap.Names{Class: []string{clash}})

	src := ".one{a:1}.two{a:2}.three{a:3}.four{a:4}.five{a:5}." + clash + "{a:6}"
	ScanCSS(src, m)

	expected := fmt.Sprintf(".%s{a:1}.%s{a:2}.%s{a:3}.%s{a:4}.%s{a:5}.%s{a:6}",
		enc.Encode(0), enc.Encode(1), enc.Encode(2), enc.Encode(3), enc.Encode(5), clash)
	assert.Equal(t, expected, RewriteCSS(src, m))
}
