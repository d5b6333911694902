package tools

// dot -Tpng g.dot > g.png

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	. "github.com/Comcast/anima/core"

	"gopkg.in/yaml.v2"
)

// Dot makes a Graphviz dot file for the given Timeline.
//
// The optional fromState and toState can be names of States during a
// transition.  If non-zero, then the edge between them and the
// toState will be red.
func Dot(tl *Timeline, w io.WriteCloser, fromState, toState string) error {

	fmt.Fprintf(w, "digraph G {\n")
	fmt.Fprintf(w, `  graph [ordering=out,rankdir=TB,nodesep=0.3,ranksep=0.6]
  node [shape="record" style="rounded,filled"]
  edge [fontsize = "12"]
`)

	ids := make(map[string]string, len(tl.States))
	names := tl.StateNames()
	for i, name := range names {
		ids[name] = fmt.Sprintf("s%d", i)
	}

	node := func(name string, s *State) {
		label := entities(name)
		if s != nil && s.Doc != "" {
			label += "<BR/><FONT POINT-SIZE='8'>" + entities(firstSentence(s.Doc)) + "</FONT>"
		}
		if s != nil && 0 < len(s.Overrides) {
			label += `<FONT POINT-SIZE="6"><BR/>` + lines(overridesText(s.Overrides)) + `</FONT>`
		}
		fillcolor := "#99ddc8"
		color := "black"
		style := "filled"
		if toState == name {
			color = "red"
			fillcolor = "#f98b8b"
		}
		if name == tl.InitialStateName {
			style += ",bold"
		}
		if s.Terminal() {
			style += ",dashed"
		}
		fmt.Fprintf(w, "  %s [shape=\"record\", style=\"%s\", color=\"%s\", fillcolor=\"%s\", label=<%s> ]\n",
			ids[name], style, color, fillcolor, label)
	}

	for _, name := range names {
		node(name, tl.States[name])
	}

	for _, name := range names {
		s := tl.States[name]
		if s == nil {
			continue
		}
		for i, l := range s.Listeners {
			if l == nil {
				continue
			}
			to, have := ids[l.ChangeToState]
			if !have {
				// Make a node for the missing State so the
				// problem is visible.
				to = fmt.Sprintf("missing%d", len(ids))
				ids[l.ChangeToState] = to
				fmt.Fprintf(w, "  %s [shape=\"octagon\", color=\"red\", label=<%s> ]\n",
					to, entities(l.ChangeToState))
			}

			label := `<FONT COLOR="#2d93ad">` + string(l.Type) + `</FONT>`
			switch {
			case l.Type == Timer:
				label += fmt.Sprintf(" %sms", FormatNumber(l.Delay))
			case l.TargetSelector != "":
				label += " " + entities(l.TargetSelector)
			}
			if 0 < len(l.Animations) {
				label += `<FONT POINT-SIZE="8"><BR ALIGN="LEFT"/>` + lines(timingText(l.Animations)) + `</FONT>`
			}

			color := "black"
			if fromState == name && toState == l.ChangeToState {
				color = "red"
			}

			label = fmt.Sprintf("%d/%d %s", i+1, len(s.Listeners), label)
			fmt.Fprintf(w, "  %s -> %s [ color=\"%s\" label = <%s> ]\n",
				ids[name], to, color, label)
		}
	}

	fmt.Fprintf(w, "}\n")
	return w.Close()
}

// PNG generates a PNG image based on output from Dot.
//
// This function with write two files: basename.dot and basename.png,
// where the basename is the given string.
func PNG(tl *Timeline, basename string, fromState, toState string) (string, error) {
	dotname := basename + ".dot"
	pngname := basename + ".png"

	dotfile, err := os.Create(dotname)
	if err != nil {
		return pngname, err
	}
	if err := Dot(tl, dotfile, fromState, toState); err != nil {
		return pngname, err
	}
	cmd := "dot -Tpng -Gstart=1 " + dotname + " > " + pngname
	if err := exec.Command("bash", "-c", cmd).Run(); err != nil {
		return pngname, err
	}
	return pngname, nil
}

// timingText renders animation timings as YAML.
func timingText(as map[string]*Timing) string {
	bs, err := yaml.Marshal(as)
	if err != nil {
		return err.Error()
	}
	return string(bs)
}

func overridesText(ovs Overrides) string {
	var b strings.Builder
	for _, sel := range ovs.Selectors() {
		ps := ovs[sel]
		if sel == "" {
			sel = "(root)"
		}
		b.WriteString(sel + ":")
		for _, p := range ps.Names() {
			b.WriteString(" " + string(p) + "=" + ps[p].String())
		}
		b.WriteString("\n")
	}
	return b.String()
}

func firstSentence(doc string) string {
	if 40 < len(doc) {
		if period := strings.Index(doc, ". "); 0 < period {
			doc = doc[0 : period+1]
		}
	}
	return strings.TrimSpace(doc)
}

func lines(s string) string {
	return strings.Replace(entities(s), "\n", `<BR ALIGN="LEFT"/>`, -1)
}

func entities(s string) string {
	s = strings.Replace(s, "&", `&amp;`, -1)
	s = strings.Replace(s, "<", `&lt;`, -1)
	s = strings.Replace(s, ">", `&gt;`, -1)
	return s
}

func sortedKeys(m map[string]*Timing) []string {
	acc := make([]string, 0, len(m))
	for k := range m {
		acc = append(acc, k)
	}
	sort.Strings(acc)
	return acc
}
