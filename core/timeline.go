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

package core

import (
	"sort"
	"time"
)

// Timeline is a specification of one animated state machine bound to
// a DOM subtree.
//
// A Timeline gives the structure of the machine.  This data does not
// include any runtime state (such as the name of the current State).
//
// The JSON and YAML keys are those of the authored definitions:
// initial_state_name, root_element, and states_flow.
//
// A Timeline should be Compiled before use.
type Timeline struct {
	// Name is an optional name for this timeline.  Something
	// like "missouri-east-west".  If empty, RootElement serves
	// as a name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Doc is optional documentation (Markdown).
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// InitialStateName is the State that's current when the
	// timeline is activated.
	InitialStateName string `json:"initial_state_name" yaml:"initial_state_name"`

	// RootElement is a selector for the element that this
	// timeline animates.  All other selectors are relative to
	// that element.
	RootElement string `json:"root_element" yaml:"root_element"`

	// States is the structure of the machine.
	States map[string]*State `json:"states_flow" yaml:"states_flow"`

	compiled bool
}

// Label returns the Name if there is one and the RootElement
// otherwise.
func (tl *Timeline) Label() string {
	if tl.Name != "" {
		return tl.Name
	}
	return tl.RootElement
}

// Compiled reports whether Compile has succeeded.
func (tl *Timeline) Compiled() bool {
	return tl.compiled
}

// StateNames returns the names of the States in sorted order with
// the initial State first.
func (tl *Timeline) StateNames() []string {
	acc := make([]string, 0, len(tl.States))
	for name := range tl.States {
		if name == tl.InitialStateName {
			continue
		}
		acc = append(acc, name)
	}
	sort.Strings(acc)
	if _, have := tl.States[tl.InitialStateName]; have {
		acc = append([]string{tl.InitialStateName}, acc...)
	}
	return acc
}

// Copy makes a deep copy of the Timeline.  The copy is not compiled.
func (tl *Timeline) Copy() *Timeline {
	ss := make(map[string]*State, len(tl.States))
	for name, s := range tl.States {
		ss[name] = s.Copy()
	}
	return &Timeline{
		Name:             tl.Name,
		Doc:              tl.Doc,
		InitialStateName: tl.InitialStateName,
		RootElement:      tl.RootElement,
		States:           ss,
	}
}

// Compile parses all declared override values into typed Values and
// checks the structure of the Timeline.
//
// Compile fails on an unknown property, an unparsable value, an
// unknown listener type, or a reference to a State that doesn't
// exist.  With force, previously compiled overrides are compiled
// again from their sources.
func (tl *Timeline) Compile(force bool) error {
	if tl.RootElement == "" {
		return MissingRoot
	}

	if tl.States == nil {
		tl.States = make(map[string]*State)
	}

	if _, have := tl.States[tl.InitialStateName]; !have {
		return &UnknownState{tl, tl.InitialStateName}
	}

	for name, s := range tl.States {
		if s == nil {
			s = &State{}
			tl.States[name] = s
		}

		if s.OverrideSources != nil && (force || s.Overrides == nil) {
			os, err := compileOverrides(name, s.OverrideSources)
			if err != nil {
				return err
			}
			s.Overrides = os
		}
		if s.Overrides == nil {
			s.Overrides = make(Overrides)
		}
		if s.OverrideSources == nil && 0 < len(s.Overrides) {
			// Built in Go rather than loaded, so keep a
			// serializable form around.
			s.OverrideSources = s.Overrides.Sources()
		}

		for i, l := range s.Listeners {
			if l == nil {
				return &NilListener{StateName: name, Index: i}
			}
			if !l.Type.Valid() {
				return &BadListenerType{StateName: name, Type: l.Type}
			}
			if _, have := tl.States[l.ChangeToState]; !have {
				return &UnknownState{tl, l.ChangeToState}
			}
		}
	}

	tl.compiled = true

	return nil
}

func compileOverrides(stateName string, srcs map[string]map[string]interface{}) (Overrides, error) {
	acc := make(Overrides, len(srcs))
	for sel, props := range srcs {
		ps := make(Props, len(props))
		for name, x := range props {
			p, err := ParseProperty(name)
			if err != nil {
				return nil, &OverrideError{StateName: stateName, Selector: sel, Err: err}
			}
			v, err := ParseValue(p, x)
			if err != nil {
				return nil, &OverrideError{StateName: stateName, Selector: sel, Err: err}
			}
			ps[p] = v
		}
		acc[sel] = ps
	}
	return acc, nil
}

// SnapshotKeys returns every (selector, property) pair that any
// State overrides.
//
// These are the pairs that the Initial Property Snapshot records.
func (tl *Timeline) SnapshotKeys() map[string][]Property {
	seen := make(map[string]map[Property]bool)
	for _, s := range tl.States {
		if s == nil {
			continue
		}
		for sel, ps := range s.Overrides {
			m, have := seen[sel]
			if !have {
				m = make(map[Property]bool)
				seen[sel] = m
			}
			for p := range ps {
				m[p] = true
			}
		}
	}
	acc := make(map[string][]Property, len(seen))
	for sel, m := range seen {
		ps := make([]Property, 0, len(m))
		for p := range m {
			ps = append(ps, p)
		}
		sort.Slice(ps, func(i, j int) bool { return ps[i] < ps[j] })
		acc[sel] = ps
	}
	return acc
}

// State is a named set of target property overrides plus listeners
// that define the outgoing transitions.
type State struct {
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Listeners is the list of possible transitions.  Order only
	// matters for registration order.
	//
	// No Listeners means that this state is terminal.
	Listeners []*Listener `json:"listeners" yaml:"listeners"`

	// OverrideSources are the overrides as authored: selector to
	// property name to declared value.
	OverrideSources map[string]map[string]interface{} `json:"overrides" yaml:"overrides"`

	// Overrides are the compiled OverrideSources.
	Overrides Overrides `json:"-" yaml:"-"`
}

// Copy makes a deep copy of the State.  Declared values are not
// copied.
func (s *State) Copy() *State {
	if s == nil {
		return nil
	}
	ls := make([]*Listener, len(s.Listeners))
	for i, l := range s.Listeners {
		ls[i] = l.Copy()
	}
	var srcs map[string]map[string]interface{}
	if s.OverrideSources != nil {
		srcs = make(map[string]map[string]interface{}, len(s.OverrideSources))
		for sel, props := range s.OverrideSources {
			m := make(map[string]interface{}, len(props))
			for p, x := range props {
				m[p] = x
			}
			srcs[sel] = m
		}
	}
	var os Overrides
	if s.Overrides != nil {
		os = s.Overrides.Copy()
	}
	return &State{
		Doc:             s.Doc,
		Listeners:       ls,
		OverrideSources: srcs,
		Overrides:       os,
	}
}

// Terminal determines if a state has no listeners.
func (s *State) Terminal() bool {
	return s == nil || len(s.Listeners) == 0
}

// ListenerType says what triggers a Listener.
type ListenerType string

const (
	Timer      ListenerType = "timer"
	Click      ListenerType = "click"
	MouseEnter ListenerType = "mouseenter"
	MouseLeave ListenerType = "mouseleave"
)

// Valid reports whether the type is one of the four known types.
func (t ListenerType) Valid() bool {
	switch t {
	case Timer, Click, MouseEnter, MouseLeave:
		return true
	}
	return false
}

// IsPointer reports whether the type is a pointer event.
func (t ListenerType) IsPointer() bool {
	return t.Valid() && t != Timer
}

// Listener is a trigger paired with a target State and per-selector
// animation timing.
type Listener struct {
	Type ListenerType `json:"listener_type" yaml:"listener_type"`

	// TargetSelector is the element to attach to.  Empty means
	// the root element.  Not used by timers.
	TargetSelector string `json:"target_selector,omitempty" yaml:"target_selector,omitempty"`

	// Delay is the number of milliseconds before a timer fires.
	Delay float64 `json:"delay,omitempty" yaml:"delay,omitempty"`

	// ChangeToState is the name of the State to enter when this
	// listener fires.
	ChangeToState string `json:"change_to_state" yaml:"change_to_state"`

	// Animations says how to animate each selector's changed
	// properties during this transition.  A selector that isn't
	// here isn't animated.
	Animations map[string]*Timing `json:"animations" yaml:"animations"`
}

// Copy makes a deep copy of the Listener.
func (l *Listener) Copy() *Listener {
	if l == nil {
		return nil
	}
	as := make(map[string]*Timing, len(l.Animations))
	for sel, t := range l.Animations {
		if t == nil {
			as[sel] = nil
			continue
		}
		c := *t
		as[sel] = &c
	}
	return &Listener{
		Type:           l.Type,
		TargetSelector: l.TargetSelector,
		Delay:          l.Delay,
		ChangeToState:  l.ChangeToState,
		Animations:     as,
	}
}

// DelayDuration returns Delay as a time.Duration.
func (l *Listener) DelayDuration() time.Duration {
	return Millis(l.Delay)
}

// Timing describes how a selector's changed properties are animated.
//
// Delay and Duration are milliseconds.
type Timing struct {
	Delay    float64 `json:"delay" yaml:"delay"`
	Duration float64 `json:"duration" yaml:"duration"`
	Easing   string  `json:"easing,omitempty" yaml:"easing,omitempty"`
}

// Total is Delay plus Duration.
func (t *Timing) Total() time.Duration {
	if t == nil {
		return 0
	}
	return Millis(t.Delay + t.Duration)
}

// Millis converts milliseconds to a time.Duration.
func Millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
