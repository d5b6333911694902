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

// Package tools has utilities for examining and presenting Timelines.
package tools

import (
	"fmt"
	"sort"

	"github.com/Comcast/anima/core"
	"github.com/Comcast/anima/dom"
)

// TimelineAnalysis reports the structure of a Timeline and things
// that look like mistakes.
type TimelineAnalysis struct {
	Errors           []string `json:"errors,omitempty"`
	StateCount       int      `json:"states"`
	Listeners        int      `json:"listeners"`
	Timers           int      `json:"timers"`
	PointerListeners int      `json:"pointerListeners"`
	TerminalStates   []string `json:"terminalStates,omitempty"`

	// Orphans are States (other than the initial State) that no
	// listener targets.
	Orphans []string `json:"orphans,omitempty"`

	// Unreachable are States that can't be reached from the
	// initial State.
	Unreachable []string `json:"unreachable,omitempty"`

	MissingTargets []string `json:"missingTargets,omitempty"`

	// Selectors are all the selectors that the Timeline
	// mentions.
	Selectors []string `json:"selectors"`

	// Unanimated are transitions that change a selector's
	// properties without giving that selector any timing.  Those
	// changes are never applied.
	Unanimated []string `json:"unanimated,omitempty"`
}

// Analyze examines the Timeline.
//
// The Timeline need not compile.  Without compilation, overrides
// aren't considered, so Unanimated will be empty.
func Analyze(tl *core.Timeline) (*TimelineAnalysis, error) {
	a := TimelineAnalysis{
		StateCount: len(tl.States),
		Errors:     make([]string, 0, 8),
	}

	terminal := make([]string, 0, len(tl.States))
	targeted := make(map[string]bool)
	missing := make(map[string]bool)
	selectors := make(map[string]bool)
	unanimated := make(map[string]bool)

	// Every property gets a placeholder initial value so that
	// reverted properties count as changes.
	initial := make(core.Overrides)
	for sel, ps := range tl.SnapshotKeys() {
		for _, p := range ps {
			initial.Set(sel, p, core.KeywordValue("initial"))
		}
	}

	for _, name := range tl.StateNames() {
		s := tl.States[name]
		if s.Terminal() {
			terminal = append(terminal, name)
		}
		if s == nil {
			continue
		}
		for sel := range s.Overrides {
			selectors[sel] = true
		}
		for i, l := range s.Listeners {
			if l == nil {
				a.Errors = append(a.Errors, fmt.Sprintf("state %s listener %d is null", name, i))
				continue
			}
			a.Listeners++
			if l.Type == core.Timer {
				a.Timers++
			} else {
				a.PointerListeners++
				selectors[l.TargetSelector] = true
			}
			for sel := range l.Animations {
				selectors[sel] = true
			}

			to, have := tl.States[l.ChangeToState]
			if !have || to == nil {
				missing[l.ChangeToState] = true
				continue
			}
			targeted[l.ChangeToState] = true

			for sel, ps := range core.Diff(initial, s.Overrides, to.Overrides) {
				if len(ps) == 0 {
					continue
				}
				if _, have := l.Animations[sel]; !have {
					unanimated[fmt.Sprintf("%s -> %s (%s): %q", name, l.ChangeToState, l.Type, sel)] = true
				}
			}
		}
	}

	for name := range missing {
		a.Errors = append(a.Errors, fmt.Sprintf("state %s not found", name))
	}
	sort.Strings(a.Errors)

	orphans := make(map[string]bool)
	for name := range tl.States {
		if name != tl.InitialStateName && !targeted[name] {
			orphans[name] = true
		}
	}

	reached := Reachable(tl)
	unreachable := make(map[string]bool)
	for name := range tl.States {
		if !reached[name] {
			unreachable[name] = true
		}
	}

	a.TerminalStates = terminal
	a.Orphans = keysToStringSlice(orphans)
	a.Unreachable = keysToStringSlice(unreachable)
	a.MissingTargets = keysToStringSlice(missing)
	a.Selectors = keysToStringSlice(selectors)
	a.Unanimated = keysToStringSlice(unanimated)

	return &a, nil
}

// Reachable returns the States that can be reached from the initial
// State, which is included.
func Reachable(tl *core.Timeline) map[string]bool {
	reached := make(map[string]bool, len(tl.States))
	pending := []string{tl.InitialStateName}
	for 0 < len(pending) {
		name := pending[0]
		pending = pending[1:]
		s, have := tl.States[name]
		if !have || reached[name] {
			continue
		}
		reached[name] = true
		if s == nil {
			continue
		}
		for _, l := range s.Listeners {
			if l != nil && !reached[l.ChangeToState] {
				pending = append(pending, l.ChangeToState)
			}
		}
	}
	return reached
}

// Unresolved returns the selectors of the Timeline that don't resolve
// against the given root element.
func Unresolved(a *TimelineAnalysis, root dom.Element) []string {
	acc := make([]string, 0, 4)
	for _, sel := range a.Selectors {
		if dom.Resolve(root, sel) == nil {
			acc = append(acc, sel)
		}
	}
	return acc
}

// keysToStringSlice returns the sorted keys of the map.
func keysToStringSlice(m map[string]bool) []string {
	list := make([]string, 0, len(m))
	for key := range m {
		list = append(list, key)
	}
	sort.Strings(list)
	return list
}
