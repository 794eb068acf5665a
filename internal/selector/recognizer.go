package selector

import (
	"regexp"
	"strings"

	"munch/internal/tokenmap"
)

// Recognizer finds id/class literals in script text by pattern. Script is
// never parsed; each recognizer trades precision for coverage in its own
// way and may both miss usages and report text that only looks like one.
type Recognizer interface {
	Find(script string) []Usage
}

var fields = regexp.MustCompile(`\S+`)

// literal captures a name (or a whitespace separated list of class names)
// of a fixed kind in group 1.
type literal struct {
	re   *regexp.Regexp
	kind tokenmap.Kind
	list bool
}

// Literal builds a recognizer whose first group is a value of kind. When
// list is set the value is split on whitespace.
func Literal(pattern string, kind tokenmap.Kind, list bool) Recognizer {
	return literal{re: regexp.MustCompile(pattern), kind: kind, list: list}
}

func (r literal) Find(script string) []Usage {
	var usages []Usage
	for _, m := range r.re.FindAllStringSubmatchIndex(script, -1) {
		usages = appendValue(usages, script, m[2], m[3], r.kind, r.list)
	}
	return usages
}

// keyed captures a key in group 1 that decides the kind of the value in
// group 2: "#" or "id" for ids, "." "class" or "className" for classes.
type keyed struct {
	re *regexp.Regexp
}

// Keyed builds a recognizer whose first group names the kind of the second
func Keyed(pattern string) Recognizer {
	return keyed{re: regexp.MustCompile(pattern)}
}

func (r keyed) Find(script string) []Usage {
	var usages []Usage
	for _, m := range r.re.FindAllStringSubmatchIndex(script, -1) {
		if m[2] < 0 {
			continue
		}
		switch strings.ToLower(script[m[2]:m[3]]) {
		case "#", "id":
			usages = appendValue(usages, script, m[4], m[5], tokenmap.ID, false)
		case ".", "class", "classname":
			usages = appendValue(usages, script, m[4], m[5], tokenmap.Class, true)
		}
	}
	return usages
}

// fragment captures a selector literal in any group and runs the selector
// extractor over it.
type fragment struct {
	re *regexp.Regexp
}

// Fragment builds a recognizer for selector-engine calls
func Fragment(pattern string) Recognizer {
	return fragment{re: regexp.MustCompile(pattern)}
}

func (r fragment) Find(script string) []Usage {
	var usages []Usage
	for _, m := range r.re.FindAllStringSubmatchIndex(script, -1) {
		for g := 2; g+1 < len(m); g += 2 {
			if m[g] < 0 {
				continue
			}
			usages = append(usages, Shift(Extract(script[m[g]:m[g+1]]), m[g])...)
			break
		}
	}
	return usages
}

func appendValue(usages []Usage, script string, start, end int, kind tokenmap.Kind, list bool) []Usage {
	if start < 0 || start >= end {
		return usages
	}
	if !list {
		return append(usages, Usage{Kind: kind, Name: script[start:end], Start: start, End: end})
	}
	for _, f := range fields.FindAllStringIndex(script[start:end], -1) {
		usages = append(usages, Usage{
			Kind:  kind,
			Name:  script[start+f[0] : start+f[1]],
			Start: start + f[0],
			End:   start + f[1],
		})
	}
	return usages
}

// Script is the built-in battery, in the order it is applied
var Script = []Recognizer{
	// document.getElementById("nav")
	Literal(`getElementById\(\s*["']([\w-]+)["']\s*\)`, tokenmap.ID, false),
	// document.getElementsByClassName("menu active")
	Literal(`getElementsByClassName\(\s*["']([\w\s-]+)["']\s*\)`, tokenmap.Class, true),
	// $("#nav .menu"), el.querySelectorAll(".item > a")
	Fragment(`(?:\$|\bjQuery|\.querySelector(?:All)?|\.find|\.closest|\.matches)\(\s*(?:"([^"\n]*)"|'([^'\n]*)')`),
	// any literal that is exactly "#name" or ".name"; matches unrelated
	// strings such as ".js" too
	Keyed(`["']([#.])([\w-]+)["']`),
	// el.setAttribute("class", "menu open")
	Keyed(`setAttribute\(\s*["'](id|class)["']\s*,\s*["']([\w\s-]*)["']`),
	// '<div id="nav">', el.id == "nav"
	Literal(`(?i)\bid\s*(?:[!=]==?|=)\s*["']([\w-]+)["']`, tokenmap.ID, false),
	// '<li class="item active">', el.className = "item"
	Literal(`(?i)\b(?:class|className)\s*(?:[!=]==?|=)\s*["']([\w\s-]+)["']`, tokenmap.Class, true),
	// $(el).addClass("open"), el.classList.toggle("open")
	Literal(`\.(?:addClass|removeClass|toggleClass|hasClass)\(\s*["']([\w\s-]+)["']`, tokenmap.Class, true),
	Literal(`\.classList\.(?:add|remove|toggle|contains)\(\s*["']([\w-]+)["']`, tokenmap.Class, false),
}

// Discover returns the usages every recognizer finds in script
func Discover(script string, recognizers []Recognizer) []Usage {
	var usages []Usage
	for _, r := range recognizers {
		usages = append(usages, r.Find(script)...)
	}
	return usages
}

// Rewrite substitutes every usage the recognizers find in script. All of
// them match against the original text and are spliced in one pass, so a
// token that equals another known name is never renamed again. Where two
// recognizers claim the same span the earlier one wins.
func Rewrite(script string, recognizers []Recognizer, lookup tokenmap.Lookup) string {
	return Replace(script, Discover(script, recognizers), lookup)
}
