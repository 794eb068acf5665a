package obfuscator

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"munch/internal/selector"
	"munch/internal/tokenmap"
)

// At-rules whose block holds rules rather than declarations or frames
var groupRules = map[string]bool{
	"media":          true,
	"supports":       true,
	"document":       true,
	"-moz-document":  true,
	"layer":          true,
	"container":      true,
	"scope":          true,
	"starting-style": true,
}

type block int

const (
	rules block = iota
	declarations
	skipped
)

// selectorSpans returns the byte ranges of every selector list in a
// stylesheet, including rules nested in group at-rules and in other rules.
func selectorSpans(source string) [][2]int {
	var spans [][2]int

	l := css.NewLexer(parse.NewInputString(source))
	stack := []block{rules}
	offset := 0
	start, end := -1, -1
	atRule := ""

	reset := func() {
		start, end = -1, -1
		atRule = ""
	}

	for {
		tt, text := l.Next()
		if tt == css.ErrorToken {
			break
		}

		pos := offset
		offset += len(text)
		top := stack[len(stack)-1]

		switch tt {
		case css.WhitespaceToken, css.CommentToken, css.CDOToken, css.CDCToken:
			continue
		case css.LeftBraceToken:
			switch {
			case top == skipped:
				stack = append(stack, skipped)
			case atRule != "":
				if !groupRules[atRule] {
					stack = append(stack, skipped)
				} else if top == rules {
					stack = append(stack, rules)
				} else {
					stack = append(stack, declarations)
				}
			case start >= 0:
				spans = append(spans, [2]int{start, end})
				stack = append(stack, declarations)
			default:
				stack = append(stack, skipped)
			}
			reset()
			continue
		case css.RightBraceToken:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
			reset()
			continue
		case css.SemicolonToken:
			reset()
			continue
		}

		if top == skipped {
			continue
		}
		if start < 0 {
			start = pos
			if tt == css.AtKeywordToken {
				atRule = strings.ToLower(string(text[1:]))
			}
		}
		end = offset
	}

	return spans
}

func stylesheetUsages(source string) []selector.Usage {
	var usages []selector.Usage
	for _, span := range selectorSpans(source) {
		found := selector.Extract(source[span[0]:span[1]])
		usages = append(usages, selector.Shift(found, span[0])...)
	}
	return usages
}

// ScanCSS registers every id and class used in the stylesheet's selectors
func ScanCSS(source string, m *tokenmap.Map) {
	register(m, stylesheetUsages(source))
}

// RewriteCSS replaces known ids and classes in the stylesheet's selectors.
// Declarations, strings and comments are left untouched.
func RewriteCSS(source string, m tokenmap.Lookup) string {
	return selector.Replace(source, stylesheetUsages(source), m)
}

func register(m *tokenmap.Map, usages []selector.Usage) {
	for _, u := range usages {
		m.Add(u.Kind, u.Name)
	}
}
