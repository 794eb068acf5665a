package obfuscator

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	htmllex "github.com/tdewolff/parse/v2/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"munch/internal/parsers"
	"munch/internal/selector"
	"munch/internal/tokenmap"
)

// rawText reports the element whose text the tokenizer returns next, if
// that text is a stylesheet, a script or markup the tokenizer leaves
// unparsed.
func rawText(tt html.TokenType, tok html.Token) atom.Atom {
	if tt != html.StartTagToken {
		return 0
	}
	switch tok.DataAtom {
	case atom.Style, atom.Script, atom.Noscript, atom.Noembed, atom.Noframes, atom.Iframe:
		return tok.DataAtom
	}
	return 0
}

func isHandler(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "on")
}

// ScanHTML registers element ids and classes, the selectors of embedded
// stylesheets, and the names found in inline scripts and event handlers.
func ScanHTML(source string, m *tokenmap.Map, plugins []parsers.Plugin) {
	var scripts []string

	z := html.NewTokenizer(strings.NewReader(source))
	var raw atom.Atom

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			for _, a := range tok.Attr {
				switch {
				case a.Key == "id":
					m.AddID(a.Val)
				case a.Key == "class":
					m.AddClass(a.Val)
				case isHandler(a.Key):
					scripts = append(scripts, a.Val)
				}
			}
			raw = rawText(tt, tok)

		case html.TextToken:
			switch raw {
			case atom.Style:
				ScanCSS(string(z.Text()), m)
			case atom.Script:
				scripts = append(scripts, string(z.Text()))
			case atom.Noscript, atom.Noembed, atom.Noframes, atom.Iframe:
				ScanHTML(string(z.Text()), m, plugins)
			}

		default:
			raw = 0
		}
	}

	if len(scripts) > 0 {
		ScanJS(strings.Join(scripts, "\n"), m, plugins)
	}
}

// RewriteHTML substitutes tokens in id and class attributes, event
// handlers, and embedded style and script text. Every other byte of the
// document is copied through unchanged.
func RewriteHTML(source string, m tokenmap.Lookup, plugins []parsers.Plugin) string {
	var b strings.Builder
	b.Grow(len(source))

	z := html.NewTokenizer(strings.NewReader(source))
	var raw atom.Atom

	for {
		tt := z.Next()
		// Raw must be copied before Token reuses the buffer
		chunk := string(z.Raw())

		if tt == html.ErrorToken {
			b.WriteString(chunk)
			break
		}

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			chunk = rewriteTag(chunk, m, plugins)
			raw = rawText(tt, tok)

		case html.TextToken:
			switch raw {
			case atom.Style:
				chunk = RewriteCSS(chunk, m)
			case atom.Script:
				chunk = RewriteJS(chunk, m, plugins)
			case atom.Noscript, atom.Noembed, atom.Noframes, atom.Iframe:
				chunk = RewriteHTML(chunk, m, plugins)
			}

		default:
			raw = 0
		}

		b.WriteString(chunk)
	}

	return b.String()
}

// rewriteTag splices new id, class and handler values into a raw start
// tag. Tag and attribute names, quoting and spacing stay as written.
func rewriteTag(tag string, m tokenmap.Lookup, plugins []parsers.Plugin) string {
	// The lexer only sees the attributes, behind a neutral tag name, so
	// that svg and math tags are not read as whole XML islands.
	name := strings.IndexAny(tag, " \t\n\r\f/>")
	if name < 0 {
		return tag
	}
	l := htmllex.NewLexer(parse.NewInputString("<a" + tag[name:]))
	shift := name - len("<a")

	var edits []selector.Edit
	pos := 0
	for {
		tt, data := l.Next()
		if tt == htmllex.ErrorToken {
			break
		}
		pos += len(data)

		if tt == htmllex.AttributeToken && l.AttrVal() != nil {
			key := string(l.AttrKey())
			start, end := pos-len(l.AttrVal())+shift, pos+shift

			var quote byte
			if start < end && (tag[start] == '"' || tag[start] == '\'') {
				quote = tag[start]
				start++
				if end > start && tag[end-1] == quote {
					end--
				}
			}

			val := tag[start:end]
			if out := rewriteValue(key, val, quote, m, plugins); out != val {
				edits = append(edits, selector.Edit{Start: start, End: end, Text: out})
			}
		}

		if tt == htmllex.StartTagCloseToken || tt == htmllex.StartTagVoidToken {
			break
		}
	}

	return selector.Splice(tag, edits)
}

// rewriteValue rewrites the raw text of one attribute value. Values with
// character references are decoded first and escaped again for quote.
func rewriteValue(key, raw string, quote byte, m tokenmap.Lookup, plugins []parsers.Plugin) string {
	if !strings.Contains(raw, "&") {
		return rewriteAttribute(key, raw, m, plugins)
	}

	val := html.UnescapeString(raw)
	out := rewriteAttribute(key, val, m, plugins)
	if out == val {
		return raw
	}

	out = strings.ReplaceAll(out, "&", "&amp;")
	switch quote {
	case '"':
		out = strings.ReplaceAll(out, `"`, "&quot;")
	case '\'':
		out = strings.ReplaceAll(out, "'", "&#39;")
	}
	return out
}

func rewriteAttribute(key, val string, m tokenmap.Lookup, plugins []parsers.Plugin) string {
	switch {
	case key == "id":
		if token, ok := m.Lookup(tokenmap.ID, strings.TrimSpace(val)); ok {
			return token
		}
	case key == "class":
		return rewriteClassList(val, m)
	case isHandler(key):
		return RewriteJS(val, m, plugins)
	}
	return val
}

// rewriteClassList replaces known classes where they stand. Unknown
// classes, order and spacing are kept.
func rewriteClassList(list string, m tokenmap.Lookup) string {
	var edits []selector.Edit

	start := -1
	for i := 0; i <= len(list); i++ {
		if i < len(list) && !isSpace(list[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start < 0 {
			continue
		}
		if token, ok := m.Lookup(tokenmap.Class, list[start:i]); ok {
			edits = append(edits, selector.Edit{Start: start, End: i, Text: token})
		}
		start = -1
	}

	return selector.Splice(list, edits)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
