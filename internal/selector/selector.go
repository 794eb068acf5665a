// Package selector finds id and class usages in selector text and script
// source, and substitutes them with tokens by exact byte span.
package selector

import (
	"regexp"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"munch/internal/tokenmap"
)

// Usage is one occurrence of an id or class name. Start and End delimit the
// bare name (no '#' or '.') in the scanned text.
type Usage struct {
	Kind  tokenmap.Kind
	Name  string
	Start int
	End   int
}

var namePrefix = regexp.MustCompile(`^[\w-]+`)

// Extract returns every #id and .class in a selector list. Names inside
// attribute selectors and strings are not usages.
func Extract(sel string) []Usage {
	var usages []Usage

	l := css.NewLexer(parse.NewInputString(sel))
	offset := 0
	brackets := 0
	afterDot := false

	for {
		tt, text := l.Next()
		if tt == css.ErrorToken {
			break
		}

		start := offset
		offset += len(text)
		dot := afterDot
		afterDot = false

		switch tt {
		case css.LeftBracketToken:
			brackets++
		case css.RightBracketToken:
			if brackets > 0 {
				brackets--
			}
		case css.HashToken:
			if brackets == 0 {
				usages = appendName(usages, tokenmap.ID, text[1:], start+1)
			}
		case css.DelimToken:
			afterDot = brackets == 0 && len(text) == 1 && text[0] == '.'
		case css.IdentToken, css.CustomPropertyNameToken:
			if dot {
				usages = appendName(usages, tokenmap.Class, text, start)
			}
		}
	}

	return usages
}

func appendName(usages []Usage, kind tokenmap.Kind, text []byte, start int) []Usage {
	name := namePrefix.Find(text)
	if len(name) == 0 {
		return usages
	}
	return append(usages, Usage{
		Kind:  kind,
		Name:  string(name),
		Start: start,
		End:   start + len(name),
	})
}

// Shift moves usages found in a substring to the coordinates of the
// enclosing text.
func Shift(usages []Usage, by int) []Usage {
	for i := range usages {
		usages[i].Start += by
		usages[i].End += by
	}
	return usages
}
