package obfuscator

import (
	"fmt"
	"regexp"

	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minhtml "github.com/tdewolff/minify/v2/html"
	minjs "github.com/tdewolff/minify/v2/js"
)

const (
	MediaHTML = "text/html"
	MediaCSS  = "text/css"
	MediaJS   = "text/javascript"
)

var minifier = newMinifier()

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(MediaCSS, mincss.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), minjs.Minify)
	m.Add(MediaHTML, &minhtml.Minifier{
		KeepDocumentTags:    true,
		KeepEndTags:         true,
		KeepQuotes:          true,
		KeepDefaultAttrVals: true,
	})
	return m
}

// Compress minifies source of the given media type. On failure the source
// is returned unchanged with the error.
func Compress(mediatype, source string) (string, error) {
	result, err := minifier.String(mediatype, source)
	if err != nil {
		return source, fmt.Errorf("failed to compress %s: %w", mediatype, err)
	}
	return result, nil
}
