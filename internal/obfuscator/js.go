package obfuscator

import (
	"munch/internal/parsers"
	"munch/internal/selector"
	"munch/internal/tokenmap"
)

// ScanJS registers the ids and classes the script recognizers find, then
// those each plugin reports.
func ScanJS(source string, m *tokenmap.Map, plugins []parsers.Plugin) {
	register(m, selector.Discover(source, selector.Script))

	for _, p := range plugins {
		names := p.Scan(source)
		for _, id := range names.ID {
			m.AddID(id)
		}
		m.AddClass(names.Class...)
	}
}

// RewriteJS substitutes tokens for the names the script recognizers and
// span-reporting plugins find in source, in one splice. Any other plugin
// then rewrites the result in turn.
func RewriteJS(source string, m tokenmap.Lookup, plugins []parsers.Plugin) string {
	usages := selector.Discover(source, selector.Script)

	var writers []parsers.Plugin
	for _, p := range plugins {
		if f, ok := p.(parsers.Finder); ok {
			usages = append(usages, f.Find(source)...)
		} else {
			writers = append(writers, p)
		}
	}

	result := selector.Replace(source, usages, m)
	for _, p := range writers {
		result = p.Rewrite(result, m)
	}

	return result
}
