package selector

import (
	"cmp"
	"slices"
	"strings"

	"munch/internal/tokenmap"
)

// Edit replaces src[Start:End] with Text
type Edit struct {
	Start int
	End   int
	Text  string
}

// Splice applies edits to src. Edits that overlap an earlier edit or fall
// outside src are dropped.
func Splice(src string, edits []Edit) string {
	if len(edits) == 0 {
		return src
	}

	slices.SortStableFunc(edits, func(a, b Edit) int {
		return cmp.Compare(a.Start, b.Start)
	})

	var b strings.Builder
	b.Grow(len(src))
	last := 0
	for _, e := range edits {
		if e.Start < last || e.Start > e.End || e.End > len(src) {
			continue
		}
		b.WriteString(src[last:e.Start])
		b.WriteString(e.Text)
		last = e.End
	}
	b.WriteString(src[last:])

	return b.String()
}

// Replace substitutes every usage whose name has a token. Usages without a
// token are left as they are.
func Replace(src string, usages []Usage, lookup tokenmap.Lookup) string {
	var edits []Edit
	for _, u := range usages {
		token, ok := lookup.Lookup(u.Kind, u.Name)
		if !ok || token == u.Name {
			continue
		}
		edits = append(edits, Edit{Start: u.Start, End: u.End, Text: token})
	}
	return Splice(src, edits)
}
