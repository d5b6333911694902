/* Copyright 2024 Comcast Cable Communications Management, LLC
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

// Package tween defines what a player needs from a tween engine:
// something that takes a parameter record and interpolates property
// values over time.
//
// The engine is a black box.  Package tween/mem is an in-process
// engine.  Package tween/animejs (js/wasm only) hands the parameters
// to anime.js.
package tween

import (
	"sort"
	"sync"

	"github.com/Comcast/anima/dom"
)

// Params is one animation request.
//
// Props maps CSS property names (and transform channel names such as
// rotate or translateX) to target values in CSS syntax.  Durations
// are milliseconds.
type Params struct {
	// Targets are the elements to animate.
	Targets []dom.Element `json:"-"`

	// Timeline and Selector identify the target for consumers
	// that can't see elements.  Selector is relative to the
	// timeline's root element.
	Timeline string `json:"timeline,omitempty"`
	Selector string `json:"selector"`

	Props    map[string]string `json:"props"`
	Duration float64           `json:"duration"`
	Delay    float64           `json:"delay"`
	Easing   string            `json:"easing,omitempty"`

	// Complete, if not nil, is called (on the event loop) when
	// the animation finishes.  It isn't called for an animation
	// that's removed.
	Complete func() `json:"-"`
}

// Names returns the property names in sorted order.
func (p *Params) Names() []string {
	acc := make([]string, 0, len(p.Props))
	for name := range p.Props {
		acc = append(acc, name)
	}
	sort.Strings(acc)
	return acc
}

// Copy makes a copy that shares Targets and Complete.
func (p *Params) Copy() *Params {
	props := make(map[string]string, len(p.Props))
	for k, v := range p.Props {
		props[k] = v
	}
	c := *p
	c.Props = props
	return &c
}

// Engine animates things.
type Engine interface {
	// Animate starts an animation.
	Animate(p *Params)

	// Remove stops every animation targeting the element and
	// leaves it as it is.
	Remove(e dom.Element)
}

// Tee is an Engine that forwards to several Engines.  Only the first
// Engine sees each Complete callback.
func Tee(first Engine, others ...Engine) Engine {
	return &tee{first, others}
}

type tee struct {
	first  Engine
	others []Engine
}

func (t *tee) Animate(p *Params) {
	for _, e := range t.others {
		c := p.Copy()
		c.Complete = nil
		e.Animate(c)
	}
	t.first.Animate(p)
}

func (t *tee) Remove(el dom.Element) {
	t.first.Remove(el)
	for _, e := range t.others {
		e.Remove(el)
	}
}

// Watch returns an Engine that just calls f for each animation.
func Watch(f func(*Params)) Engine {
	return watcher(f)
}

type watcher func(*Params)

func (w watcher) Animate(p *Params)  { w(p) }
func (w watcher) Remove(dom.Element) {}

// Recorder is an Engine that remembers what it's asked to do.
//
// If Apply is true, Animate immediately sets each target's inline
// style to the target values (with transform channels written as
// individual transform functions) and calls Complete.
type Recorder struct {
	sync.Mutex

	Apply bool

	Animations []*Params
	Removed    []dom.Element
}

// NewRecorder makes a Recorder.
func NewRecorder(apply bool) *Recorder {
	return &Recorder{
		Apply:      apply,
		Animations: make([]*Params, 0, 16),
	}
}

// Animate implements Engine.
func (r *Recorder) Animate(p *Params) {
	r.Lock()
	r.Animations = append(r.Animations, p)
	r.Unlock()

	if r.Apply {
		for _, e := range p.Targets {
			SetStyles(e, p.Props)
		}
		if p.Complete != nil {
			p.Complete()
		}
	}
}

// Remove implements Engine.
func (r *Recorder) Remove(e dom.Element) {
	r.Lock()
	r.Removed = append(r.Removed, e)
	r.Unlock()
}

// Reset forgets everything.
func (r *Recorder) Reset() {
	r.Lock()
	r.Animations = r.Animations[:0]
	r.Removed = nil
	r.Unlock()
}

// Find returns the recorded animations for the selector.
func (r *Recorder) Find(selector string) []*Params {
	r.Lock()
	defer r.Unlock()
	var acc []*Params
	for _, p := range r.Animations {
		if p.Selector == selector {
			acc = append(acc, p)
		}
	}
	return acc
}
