// Package muncher runs the two passes of a munch: discovery of every id and
// class in the configured files, then rewriting of those files against the
// resulting token map.
package muncher

import (
	"fmt"
	"os"

	"munch/internal/config"
	"munch/internal/obfuscator"
	"munch/internal/parsers"
	"munch/internal/tokenmap"
	"munch/internal/ui"
)

// Phase is a step of a run
type Phase int

const (
	PhaseInit Phase = iota
	PhaseDiscover
	PhaseLoad
	PhasePersist
	PhaseRewrite
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseDiscover:
		return "discover"
	case PhaseLoad:
		return "load"
	case PhasePersist:
		return "persist"
	case PhaseRewrite:
		return "rewrite"
	case PhaseDone:
		return "done"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Input groups, in processing order
const (
	GroupView = "view"
	GroupCSS  = "css"
	GroupJS   = "js"
)

type group struct {
	name      string
	ext       string
	inputs    []string
	compress  bool
	mediatype string
}

// Muncher owns the token map of a run and drives it through its phases
type Muncher struct {
	Options config.Options
	Map     *tokenmap.Map
	Plugins []parsers.Plugin

	// Phase is the step the run is in
	Phase Phase

	// Results of the rewrite pass, one per input file
	Results []Result

	// Failures counts file level errors reported during the run
	Failures int

	groups []group
	files  map[string][]string
}

// New validates opts and prepares a run: the ignore list, token encoder and
// script plugins. Any error here is a configuration error.
func New(opts config.Options) (*Muncher, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var ignore tokenmap.Names
	for _, path := range opts.Ignore {
		names, err := tokenmap.ReadNames(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load ignore list: %w", err)
		}
		ignore.ID = append(ignore.ID, names.ID...)
		ignore.Class = append(ignore.Class, names.Class...)
	}

	enc, err := tokenmap.NewHashids(opts.Salt, opts.MinLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create token encoder: %w", err)
	}

	plugins, err := parsers.LoadAll(opts.Parsers)
	if err != nil {
		return nil, fmt.Errorf("failed to load parsers: %w", err)
	}

	return &Muncher{
		Options: opts,
		Map:     tokenmap.New(enc, ignore),
		Plugins: plugins,
		groups: []group{
			{GroupView, opts.ViewExt, opts.View, opts.CompressView, obfuscator.MediaHTML},
			{GroupCSS, opts.CSSExt, opts.CSS, opts.CompressCSS, obfuscator.MediaCSS},
			{GroupJS, opts.JSExt, opts.JS, opts.CompressJS, obfuscator.MediaJS},
		},
	}, nil
}

// Run drives the run from init to done. Only a failure to resolve inputs
// or to read a replay manifest stops it; file errors are reported and
// counted in Failures.
func (m *Muncher) Run() error {
	m.Phase = PhaseInit
	for m.Phase != PhaseDone {
		next, err := m.step()
		if err != nil {
			return fmt.Errorf("%s: %w", m.Phase, err)
		}
		m.Phase = next
	}
	return nil
}

func (m *Muncher) step() (Phase, error) {
	switch m.Phase {
	case PhaseInit:
		if err := m.resolve(); err != nil {
			return PhaseDone, err
		}
		if m.Options.Replay() {
			return PhaseLoad, nil
		}
		return PhaseDiscover, nil

	case PhaseDiscover:
		m.discover()
		return PhasePersist, nil

	case PhaseLoad:
		if err := m.load(); err != nil {
			return PhaseDone, err
		}
		return PhaseRewrite, nil

	case PhasePersist:
		m.persist()
		return PhaseRewrite, nil

	case PhaseRewrite:
		m.rewrite()
		return PhaseDone, nil
	}

	return PhaseDone, fmt.Errorf("unknown phase")
}

// resolve expands the inputs of every group
func (m *Muncher) resolve() error {
	m.files = make(map[string][]string, len(m.groups))
	for _, g := range m.groups {
		files, err := ExpandInputs(g.inputs, g.ext, m.Options.Exclude)
		if err != nil {
			return fmt.Errorf("failed to expand %s inputs: %w", g.name, err)
		}
		m.files[g.name] = dropOutputs(files, m.Options.Suffix)
	}
	return nil
}

// Files returns the resolved input files of a group
func (m *Muncher) Files(name string) []string {
	return m.files[name]
}

func (m *Muncher) discover() {
	for _, g := range m.groups {
		files := m.files[g.name]
		if len(files) == 0 {
			continue
		}

		m.info("Processing %s", g.name)
		for _, path := range files {
			data, err := os.ReadFile(path)
			if err != nil {
				m.Failures++
				m.warn("Skipping %s: %v", path, err)
				continue
			}
			m.scan(g.name, string(data))
		}
	}
}

func (m *Muncher) scan(name, source string) {
	switch name {
	case GroupView:
		obfuscator.ScanHTML(source, m.Map, m.Plugins)
	case GroupCSS:
		obfuscator.ScanCSS(source, m.Map)
	case GroupJS:
		obfuscator.ScanJS(source, m.Map, m.Plugins)
	}
}

func (m *Muncher) load() error {
	m.info("Reading map from %s", m.Options.Read)
	names, err := tokenmap.ReadNames(m.Options.Read)
	if err != nil {
		return fmt.Errorf("failed to load map: %w", err)
	}
	m.Map.Load(names)
	return nil
}

func (m *Muncher) persist() {
	if m.Options.Map != "" && !m.Options.DryRun {
		if err := tokenmap.WriteNames(m.Options.Map, m.Map.Names()); err != nil {
			m.Failures++
			ui.PrintError("%v", err)
		} else {
			m.success("Wrote %d ids and classes in %s", m.Map.Len(), m.Options.Map)
		}
	}
	m.success("Mapped %d ids and classes", m.Map.Len())
}

func (m *Muncher) rewrite() {
	for _, g := range m.groups {
		files := m.files[g.name]
		if len(files) == 0 {
			continue
		}

		m.info("Rewriting %s", g.name)
		for _, path := range files {
			res := m.rewriteFile(g, path)
			m.Results = append(m.Results, res)

			if res.Err != nil {
				m.Failures++
				ui.PrintError("%v", res.Err)
				continue
			}

			if m.Options.ShowSavings {
				m.info("%s Saved for %s", ui.FormatPercent(res.Savings()), res.Output)
			} else {
				m.info("%s", res.Output)
			}
		}
	}
}

func (m *Muncher) rewriteFile(g group, path string) Result {
	res := Result{Group: g.name, Path: path, Output: path + m.Options.Suffix}

	info, err := os.Stat(path)
	if err != nil {
		res.Err = fmt.Errorf("failed to read %s: %w", path, err)
		return res
	}
	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("failed to read %s: %w", path, err)
		return res
	}
	res.Input = int64(len(data))

	output := m.transform(g.name, string(data))

	if g.compress {
		compressed, err := obfuscator.Compress(g.mediatype, output)
		if err != nil {
			m.warn("Leaving %s uncompressed: %v", path, err)
		} else {
			output = compressed
		}
	}
	res.Size = int64(len(output))

	if m.Options.DryRun {
		m.printDiff(res.Output, string(data), output)
		return res
	}

	if err := os.WriteFile(res.Output, []byte(output), info.Mode().Perm()); err != nil {
		res.Err = fmt.Errorf("failed to write %s: %w", res.Output, err)
	}
	return res
}

func (m *Muncher) transform(name, source string) string {
	switch name {
	case GroupView:
		return obfuscator.RewriteHTML(source, m.Map, m.Plugins)
	case GroupCSS:
		return obfuscator.RewriteCSS(source, m.Map)
	case GroupJS:
		return obfuscator.RewriteJS(source, m.Map, m.Plugins)
	}
	return source
}

func (m *Muncher) printDiff(path, from, to string) {
	if m.Options.Silent {
		return
	}

	lines := DiffLines(from, to)
	if len(lines) == 0 {
		return
	}

	ui.PrintLine(ui.Header(path))
	for _, line := range lines {
		if line[0] == '-' {
			ui.PrintLine(ui.RemovedStyle.Render(line))
		} else {
			ui.PrintLine(ui.AddedStyle.Render(line))
		}
	}
}

// Summary returns one savings row per rewritten file plus the total
func (m *Muncher) Summary() ([]ui.SavingsRow, ui.SavingsRow) {
	var rows []ui.SavingsRow
	for _, r := range m.Results {
		if r.Err != nil {
			continue
		}
		rows = append(rows, ui.SavingsRow{Path: r.Output, Input: r.Input, Output: r.Size, Savings: r.Savings()})
	}

	in, out := Totals(m.Results)
	return rows, ui.SavingsRow{Path: "Total", Input: in, Output: out, Savings: Savings(in, out)}
}

func (m *Muncher) info(format string, args ...interface{}) {
	if !m.Options.Silent {
		ui.PrintInfo(format, args...)
	}
}

func (m *Muncher) success(format string, args ...interface{}) {
	if !m.Options.Silent {
		ui.PrintSuccess(format, args...)
	}
}

func (m *Muncher) warn(format string, args ...interface{}) {
	if !m.Options.Silent {
		ui.PrintWarning(format, args...)
	}
}
