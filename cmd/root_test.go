package cmd

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munch/internal/config"
	"munch/internal/ui"
)

func newRunCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	t.Cleanup(func() { manifestPath = "" })

	cmd := &cobra.Command{Use: "munch"}
	addRunFlags(cmd.Flags())
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func quiet(t *testing.T) {
	t.Helper()
	prev := ui.Out
	ui.Out = io.Discard
	t.Cleanup(func() { ui.Out = prev })
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadOptionsFromFlags(t *testing.T) {
	cmd := newRunCommand(t, "--view=a.html, b.html", "--suffix=.min", "--min-length=4", "--compress-css")

	opts, err := loadOptions(cmd)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.html", "b.html"}, opts.View)
	assert.Equal(t, ".min", opts.Suffix)
	assert.Equal(t, 4, opts.MinLength)
	assert.True(t, opts.CompressCSS)
	assert.False(t, opts.CompressJS)
	assert.Equal(t, ".html", opts.ViewExt)
	assert.Equal(t, "munch", opts.Salt)
}

func TestLoadOptionsManifestWithOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.muncher")
	writeFile(t, path, `{
  // shared settings
  "view": ["index.html", "about.html"],
  "css": "site.css",
  "suffix": ".out",
  "show-savings": true
}`)

	cmd := newRunCommand(t, "--manifest="+path, "--suffix=.min")

	opts, err := loadOptions(cmd)
	require.NoError(t, err)

	assert.Equal(t, path, manifestPath)
	assert.Equal(t, []string{"index.html", "about.html"}, opts.View)
	assert.Equal(t, []string{"site.css"}, opts.CSS)
	assert.Equal(t, ".min", opts.Suffix)
	assert.True(t, opts.ShowSavings)
}

func TestLoadOptionsMissingManifest(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.muncher")
	cmd := newRunCommand(t, "--manifest="+missing)

	_, err := loadOptions(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadOptionsBadMinLength(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.properties")
	writeFile(t, path, "css=site.css\nmin-length=short\n")

	cmd := newRunCommand(t, "--manifest="+path)

	_, err := loadOptions(cmd)
	assert.Error(t, err)
}

func TestRunMunch(t *testing.T) {
	quiet(t)
	dir := t.TempDir()
	css := filepath.Join(dir, "site.css")
	writeFile(t, css, ".menu { color: red }\n#nav .menu { margin: 0 }\n")

	opts := config.Defaults()
	opts.CSS = []string{css}
	opts.Suffix = ".out"
	opts.ShowSavings = true

	m, err := runMunch(opts, false)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Failures)

	out, err := os.ReadFile(css + ".out")
	require.NoError(t, err)
	assert.NotContains(t, string(out), "menu")
	assert.NotContains(t, string(out), "nav")

	src, err := os.ReadFile(css)
	require.NoError(t, err)
	assert.Contains(t, string(src), ".menu", "input must be left alone when a suffix is set")
}

func TestRunMunchInvalidOptions(t *testing.T) {
	quiet(t)

	_, err := runMunch(config.Defaults(), false)
	assert.Error(t, err)
}

func TestWatchList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "css", "a.css"), "")
	writeFile(t, filepath.Join(dir, "css", "a.css.min"), "")
	writeFile(t, filepath.Join(dir, "css", "b.css"), "")
	ignore := filepath.Join(dir, "ignore.json")
	t.Cleanup(func() { manifestPath = "" })
	manifestPath = filepath.Join(dir, ".muncher")

	opts := config.Defaults()
	opts.CSS = []string{filepath.Join(dir, "css")}
	opts.CSSExt = ".min"
	opts.Suffix = ".min"
	opts.Ignore = []string{ignore}
	opts.Read = filepath.Join(dir, "map.json")

	files := watchList(opts)

	assert.Equal(t, []string{ignore, opts.Read, manifestPath}, files)

	opts.CSSExt = ".css"
	files = watchList(opts)
	assert.Equal(t, []string{
		filepath.Join(dir, "css", "a.css"),
		filepath.Join(dir, "css", "b.css"),
		ignore,
		opts.Read,
		manifestPath,
	}, files)
}

func TestInitPropertiesFromFlags(t *testing.T) {
	quiet(t)

	props := initProperties(t.TempDir(), config.Properties{"css": "styles", "suffix": ".min"}, bufio.NewReader(strings.NewReader("")))

	assert.Equal(t, config.Properties{
		"css":          "styles",
		"suffix":       ".min",
		"show-savings": "true",
	}, props)
}

func TestInitPropertiesInteractive(t *testing.T) {
	var out bytes.Buffer
	prev := ui.Out
	ui.Out = &out
	t.Cleanup(func() { ui.Out = prev })

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "templates"), 0755))

	// Accept the guessed view directory, then answer the rest
	answers := "\nstyles\n\n.min\nmap.json\n"
	props := initProperties(dir, config.Properties{}, bufio.NewReader(strings.NewReader(answers)))

	assert.Equal(t, config.Properties{
		"view":         "templates",
		"css":          "styles",
		"js":           ".",
		"suffix":       ".min",
		"map":          "map.json",
		"show-savings": "true",
	}, props)
	assert.Contains(t, out.String(), "HTML files or directories [templates]")
}

func TestCompletionTarget(t *testing.T) {
	home := t.TempDir()

	zsh, err := completionTargetFor("zsh", home)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".zsh", "completions", "_munch"), zsh.file)
	assert.Equal(t, filepath.Join(home, ".zshrc"), zsh.rc)

	fish, err := completionTargetFor("fish", home)
	require.NoError(t, err)
	assert.Empty(t, fish.rc)

	_, err = completionTargetFor("", home)
	assert.Error(t, err)
	_, err = completionTargetFor("tcsh", home)
	assert.Error(t, err)

	assert.Equal(t, "zsh", detectShell("/usr/bin/zsh"))
	assert.Equal(t, "", detectShell("/bin/sh"))
}

func TestInstallCompletion(t *testing.T) {
	quiet(t)
	home := t.TempDir()

	target, err := completionTargetFor("bash", home)
	require.NoError(t, err)

	require.NoError(t, installCompletion(target))
	require.NoError(t, installCompletion(target))

	script, err := os.ReadFile(target.file)
	require.NoError(t, err)
	assert.Contains(t, string(script), "munch")

	rc, err := os.ReadFile(target.rc)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(rc), target.line))
}
