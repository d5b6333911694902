/* Copyright 2018-2024 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package tools

import (
	"fmt"
	"io"
	"log"
	"strings"

	. "github.com/Comcast/anima/core"
)

type MermaidOpts struct {
	// ShowTriggers will result in an edge label that gives the
	// listener type and its target or delay.
	ShowTriggers bool `json:"showTriggers"`

	// ShowSelectors adds the animated selectors to the edge
	// label.
	ShowSelectors bool `json:"showSelectors,omitempty"`

	// TerminalFill is the fill color of terminal States.
	TerminalFill string `json:"terminalFill,omitempty"`

	// CurrentFill is the fill color of the toState.
	CurrentFill string `json:"currentFill,omitempty"`
}

// Mermaid makes a Mermaid (https://mermaidjs.github.io/) input file
// for the given Timeline.
func Mermaid(tl *Timeline, w io.WriteCloser, opts *MermaidOpts, fromState, toState string) error {

	if opts == nil {
		opts = &MermaidOpts{
			ShowTriggers: true,
			TerminalFill: "#bcf2db",
			CurrentFill:  "#f98b8b",
		}
	}

	names := tl.StateNames()

	log.Printf("processing %d states", len(names))

	fmt.Fprintf(w, "graph TB\n")

	ids := make(map[string]string)
	num := 0

	node := func(name string) string {
		if id, already := ids[name]; already {
			return id
		}
		num++
		id := fmt.Sprintf("n%d", num)
		ids[name] = id

		s, have := tl.States[name]
		switch {
		case !have:
			fmt.Fprintf(w, "  %s{{\"%s\"}}\n", id, quote(name))
		case name == tl.InitialStateName:
			fmt.Fprintf(w, "  %s([\"%s\"])\n", id, quote(name))
		default:
			fmt.Fprintf(w, "  %s(\"%s\")\n", id, quote(name))
		}
		switch {
		case name == toState && opts.CurrentFill != "":
			fmt.Fprintf(w, "  style %s fill:%s\n", id, opts.CurrentFill)
		case have && s.Terminal() && opts.TerminalFill != "":
			fmt.Fprintf(w, "  style %s fill:%s\n", id, opts.TerminalFill)
		}

		return id
	}

	for _, name := range names {
		node(name)
	}

	edge := 0
	for _, name := range names {
		s := tl.States[name]
		if s == nil {
			continue
		}
		from := node(name)
		for _, l := range s.Listeners {
			if l == nil {
				continue
			}
			to := node(l.ChangeToState)

			label := ""
			if opts.ShowTriggers {
				trigger := string(l.Type)
				switch {
				case l.Type == Timer:
					trigger += " " + FormatNumber(l.Delay) + "ms"
				case l.TargetSelector != "":
					trigger += " " + l.TargetSelector
				}
				if opts.ShowSelectors && 0 < len(l.Animations) {
					trigger += "<br/>" + strings.Join(sortedKeys(l.Animations), ", ")
				}
				label = fmt.Sprintf(`-- "%s"`, quote(trigger))
			}

			fmt.Fprintf(w, "  %s %s --> %s\n", from, label, to)
			if fromState == name && toState == l.ChangeToState {
				fmt.Fprintf(w, "  linkStyle %d stroke:red\n", edge)
			}
			edge++
		}
	}

	fmt.Fprintf(w, "\n")
	log.Printf("mermaid gen done")

	return w.Close()
}

func quote(s string) string {
	return strings.Replace(s, `"`, `#quot;`, -1)
}
