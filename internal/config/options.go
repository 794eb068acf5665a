// Package config holds the options of a munch run and loads them from run
// config files.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"munch/internal/tokenmap"
)

// DefaultManifest is the run config read when --manifest is given without a path
const DefaultManifest = ".muncher"

// Option keys, shared by run config files and command line flags
const (
	KeyView         = "view"
	KeyCSS          = "css"
	KeyJS           = "js"
	KeyViewExt      = "view-ext"
	KeyCSSExt       = "css-ext"
	KeyJSExt        = "js-ext"
	KeyCompressView = "compress-view"
	KeyCompressCSS  = "compress-css"
	KeyCompressJS   = "compress-js"
	KeySilent       = "silent"
	KeyShowSavings  = "show-savings"
	KeyMap          = "map"
	KeyRead         = "read"
	KeySuffix       = "suffix"
	KeyIgnore       = "ignore"
	KeyParsers      = "parsers"
	KeyExclude      = "exclude"
	KeySalt         = "salt"
	KeyMinLength    = "min-length"
	KeyDryRun       = "dry-run"
)

// Options configures a munch run
type Options struct {
	// Comma separated inputs: files, directories or glob patterns
	View []string
	CSS  []string
	JS   []string

	// Extension filters used when walking directories
	ViewExt string
	CSSExt  string
	JSExt   string

	CompressView bool
	CompressCSS  bool
	CompressJS   bool

	Silent      bool
	ShowSavings bool

	// Manifest to write after discovery
	Map string

	// Manifest to replay instead of discovering
	Read string

	// Appended to each input path to form its output path; empty rewrites in place
	Suffix string

	// Ignore list files
	Ignore []string

	// Script plugins, by registered name or .so path
	Parsers []string

	// Patterns of input files to leave alone
	Exclude []string

	Salt      string
	MinLength int

	// Print a diff instead of writing output
	DryRun bool
}

// Defaults returns options with the standard extensions and token settings
func Defaults() Options {
	return Options{
		ViewExt: ".html",
		CSSExt:  ".css",
		JSExt:   ".js",
		Salt:    tokenmap.DefaultSalt,
	}
}

// FromProperties builds options from flat key/value settings, falling back
// to Defaults for anything unset.
func FromProperties(props Properties) (Options, error) {
	d := Defaults()

	minLength, err := props.GetInt(KeyMinLength, d.MinLength)
	if err != nil {
		return Options{}, err
	}

	return Options{
		View:         props.GetList(KeyView),
		CSS:          props.GetList(KeyCSS),
		JS:           props.GetList(KeyJS),
		ViewExt:      normalizeExt(props.GetWithDefault(KeyViewExt, d.ViewExt)),
		CSSExt:       normalizeExt(props.GetWithDefault(KeyCSSExt, d.CSSExt)),
		JSExt:        normalizeExt(props.GetWithDefault(KeyJSExt, d.JSExt)),
		CompressView: props.GetBool(KeyCompressView),
		CompressCSS:  props.GetBool(KeyCompressCSS),
		CompressJS:   props.GetBool(KeyCompressJS),
		Silent:       props.GetBool(KeySilent),
		ShowSavings:  props.GetBool(KeyShowSavings),
		Map:          props.Get(KeyMap),
		Read:         props.Get(KeyRead),
		Suffix:       props.Get(KeySuffix),
		Ignore:       props.GetList(KeyIgnore),
		Parsers:      props.GetList(KeyParsers),
		Exclude:      props.GetList(KeyExclude),
		Salt:         props.GetWithDefault(KeySalt, d.Salt),
		MinLength:    minLength,
		DryRun:       props.GetBool(KeyDryRun),
	}, nil
}

// normalizeExt accepts extensions with or without the leading dot
func normalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Validate reports configuration errors that must stop a run before any
// file is touched.
func (o Options) Validate() error {
	if len(o.View) == 0 && len(o.CSS) == 0 && len(o.JS) == 0 {
		return fmt.Errorf("missing required option: at least one of view, css or js")
	}
	if o.Map != "" && o.Read != "" && filepath.Clean(o.Map) == filepath.Clean(o.Read) {
		return fmt.Errorf("map and read must not name the same file: %s", o.Map)
	}
	if o.MinLength < 0 {
		return fmt.Errorf("invalid min-length %d: must not be negative", o.MinLength)
	}
	return nil
}

// Replay reports whether the token map comes from a manifest
func (o Options) Replay() bool {
	return o.Read != ""
}
