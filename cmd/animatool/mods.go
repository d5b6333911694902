package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/Comcast/anima/core"
	"github.com/Comcast/anima/tools"

	"github.com/jsccast/yaml"
)

// Mod is a Timeline modifier or reporter.
type Mod interface {
	// F does the work.
	F(*core.Timeline) error

	// Doc describes the Mod.
	Doc() string

	// Flags returns the Mod's flags.
	Flags() *flag.FlagSet

	// Emits reports whether the (possibly modified) Timelines
	// should be written to stdout after F.
	Emits() bool
}

var Mods = map[string]Mod{
	"analyze": NewAnalyzer(),
	"graph":   NewGrapher(),
	"mermaid": NewMermaider(),
	"html":    NewDocumenter(),
	"scale":   NewScaler(),
	"rename":  NewRenamer(),
}

// ModNames returns the names of the Mods in sorted order.
func ModNames() []string {
	acc := make([]string, 0, len(Mods))
	for name := range Mods {
		acc = append(acc, name)
	}
	sort.Strings(acc)
	return acc
}

// outputFile opens the named file or returns stdout if the name is
// empty or "-".
func outputFile(filename string) (*os.File, error) {
	if filename == "" || filename == "-" {
		return os.Stdout, nil
	}
	return os.Create(filename)
}

type Analyzer struct {
	fs *flag.FlagSet
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		fs: flag.NewFlagSet("analyze", flag.PanicOnError),
	}
}

func (m *Analyzer) Flags() *flag.FlagSet {
	return m.fs
}

func (m *Analyzer) Doc() string {
	return "Analyze the timeline and write the report (YAML) to stderr."
}

func (m *Analyzer) Emits() bool {
	return false
}

func (m *Analyzer) F(tl *core.Timeline) error {
	a, err := tools.Analyze(tl)
	if err != nil {
		return err
	}
	bs, err := yaml.Marshal(a)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "# %s\n%s\n", tl.Label(), bs)
	if 0 < len(a.Errors) {
		return fmt.Errorf("%s has %d problems", tl.Label(), len(a.Errors))
	}
	return nil
}

type Grapher struct {
	fs *flag.FlagSet

	DotFile string
	From    string
	To      string
}

func NewGrapher() *Grapher {
	m := &Grapher{
		fs: flag.NewFlagSet("graph", flag.PanicOnError),
	}
	m.fs.StringVar(&m.DotFile, "o", "timeline.dot", "output Graphviz dot file")
	m.fs.StringVar(&m.From, "from", "", "optional source state of a transition to highlight")
	m.fs.StringVar(&m.To, "to", "", "optional target state of a transition to highlight")
	return m
}

func (m *Grapher) Flags() *flag.FlagSet {
	return m.fs
}

func (m *Grapher) Doc() string {
	return "Write a Graphviz dot file for the timeline."
}

func (m *Grapher) Emits() bool {
	return false
}

func (m *Grapher) F(tl *core.Timeline) error {
	out, err := outputFile(m.DotFile)
	if err != nil {
		return err
	}
	return tools.Dot(tl, out, m.From, m.To)
}

type Mermaider struct {
	fs *flag.FlagSet

	Filename  string
	Selectors bool
	From      string
	To        string
}

func NewMermaider() *Mermaider {
	m := &Mermaider{
		fs: flag.NewFlagSet("mermaid", flag.PanicOnError),
	}
	m.fs.StringVar(&m.Filename, "o", "-", "output Mermaid file")
	m.fs.BoolVar(&m.Selectors, "s", false, "show animated selectors on edges")
	m.fs.StringVar(&m.From, "from", "", "optional source state of a transition to highlight")
	m.fs.StringVar(&m.To, "to", "", "optional target state of a transition to highlight")
	return m
}

func (m *Mermaider) Flags() *flag.FlagSet {
	return m.fs
}

func (m *Mermaider) Doc() string {
	return "Write a Mermaid flowchart for the timeline."
}

func (m *Mermaider) Emits() bool {
	return false
}

func (m *Mermaider) F(tl *core.Timeline) error {
	out, err := outputFile(m.Filename)
	if err != nil {
		return err
	}
	opts := &tools.MermaidOpts{
		ShowTriggers:  true,
		ShowSelectors: m.Selectors,
		TerminalFill:  "#bcf2db",
		CurrentFill:   "#f98b8b",
	}
	return tools.Mermaid(tl, out, opts, m.From, m.To)
}

type Documenter struct {
	fs *flag.FlagSet

	Filename string
	CSS      string
	Graph    bool
}

func NewDocumenter() *Documenter {
	m := &Documenter{
		fs: flag.NewFlagSet("html", flag.PanicOnError),
	}
	m.fs.StringVar(&m.Filename, "o", "-", "output HTML file")
	m.fs.StringVar(&m.CSS, "css", "", "optional stylesheet URL")
	m.fs.BoolVar(&m.Graph, "g", true, "include a graph")
	return m
}

func (m *Documenter) Flags() *flag.FlagSet {
	return m.fs
}

func (m *Documenter) Doc() string {
	return "Write an HTML page that documents the timeline."
}

func (m *Documenter) Emits() bool {
	return false
}

func (m *Documenter) F(tl *core.Timeline) error {
	out, err := outputFile(m.Filename)
	if err != nil {
		return err
	}
	var css []string
	if m.CSS != "" {
		css = []string{m.CSS}
	}
	if err = tools.RenderTimelinePage(tl, out, css, m.Graph); err != nil {
		return err
	}
	if out != os.Stdout {
		return out.Close()
	}
	return nil
}

// Scaler multiplies every timer delay and animation timing by a
// factor.
type Scaler struct {
	fs *flag.FlagSet

	Factor float64
}

func NewScaler() *Scaler {
	m := &Scaler{
		fs: flag.NewFlagSet("scale", flag.PanicOnError),
	}
	m.fs.Float64Var(&m.Factor, "f", 1, "factor for delays and durations")
	return m
}

func (m *Scaler) Flags() *flag.FlagSet {
	return m.fs
}

func (m *Scaler) Doc() string {
	return "Scale timer delays and animation timings."
}

func (m *Scaler) Emits() bool {
	return true
}

func (m *Scaler) F(tl *core.Timeline) error {
	if m.Factor < 0 {
		return fmt.Errorf("negative factor %v", m.Factor)
	}
	for _, s := range tl.States {
		if s == nil {
			continue
		}
		for _, l := range s.Listeners {
			if l == nil {
				continue
			}
			l.Delay *= m.Factor
			for _, t := range l.Animations {
				if t == nil {
					continue
				}
				t.Delay *= m.Factor
				t.Duration *= m.Factor
			}
		}
	}
	return nil
}

// Renamer renames a State and updates every reference to it.
type Renamer struct {
	fs *flag.FlagSet

	From string
	To   string
}

func NewRenamer() *Renamer {
	m := &Renamer{
		fs: flag.NewFlagSet("rename", flag.PanicOnError),
	}
	m.fs.StringVar(&m.From, "from", "", "current state name")
	m.fs.StringVar(&m.To, "to", "", "new state name")
	return m
}

func (m *Renamer) Flags() *flag.FlagSet {
	return m.fs
}

func (m *Renamer) Doc() string {
	return "Rename a state."
}

func (m *Renamer) Emits() bool {
	return true
}

func (m *Renamer) F(tl *core.Timeline) error {
	s, have := tl.States[m.From]
	if !have {
		return &core.UnknownState{Timeline: tl, StateName: m.From}
	}
	if _, have := tl.States[m.To]; have {
		return fmt.Errorf("%s already has a state named '%s'", tl.Label(), m.To)
	}
	delete(tl.States, m.From)
	tl.States[m.To] = s
	if tl.InitialStateName == m.From {
		tl.InitialStateName = m.To
	}
	for _, s := range tl.States {
		if s == nil {
			continue
		}
		for _, l := range s.Listeners {
			if l != nil && l.ChangeToState == m.From {
				l.ChangeToState = m.To
			}
		}
	}
	return tl.Compile(true)
}
