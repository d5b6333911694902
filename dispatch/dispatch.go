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

// Package dispatch turns property changes into requests for a tween
// engine.
package dispatch

import (
	"log"
	"math"

	"github.com/Comcast/anima/core"
	"github.com/Comcast/anima/dom"
	"github.com/Comcast/anima/tween"
	"github.com/Comcast/anima/units"
)

// VisibilityThreshold is the opacity at or below which an element is
// considered invisible.
const VisibilityThreshold = 0.001

// negligible is the magnitude below which a percentage is treated as
// zero.
const negligible = 0.001

// Dispatcher submits animations to a tween.Engine.
type Dispatcher struct {
	Engine tween.Engine

	// Timeline is an optional label that's copied into each
	// tween.Params.
	Timeline string

	Debug bool
}

// NewDispatcher makes a Dispatcher for the given engine.
func NewDispatcher(engine tween.Engine) *Dispatcher {
	return &Dispatcher{
		Engine: engine,
	}
}

func (d *Dispatcher) logf(format string, args ...interface{}) {
	if d.Debug {
		log.Printf("dispatch "+format, args...)
	}
}

// Dispatch animates each selector's properties with the given
// timing.  Selectors are resolved against root, and the empty
// selector is root itself.  A selector that doesn't resolve is
// skipped.
//
// For each element, Dispatch
//
//  1. marks the element hidden (dom.Hidden) unless its target
//     opacity is positive or its current opacity is above
//     VisibilityThreshold,
//  2. removes any animation already running on the element,
//  3. flattens a transform into one parameter per function,
//  4. translates the easing (see core.TranslateEasing),
//  5. converts the element's positioning to the target values' modes
//     (see units.ConvertPositioning),
//  6. encodes each side as a percentage plus a margin (or as pixels),
//  7. collapses each size into a single percentage (or pixels),
//
// and then submits the parameters to the engine.  When the animation
// completes, the element is marked hidden or not based on its
// current opacity.
//
// Dispatch returns the number of animations submitted.
func (d *Dispatcher) Dispatch(root dom.Element, changes core.Overrides, timing *core.Timing) int {
	if timing == nil {
		timing = &core.Timing{}
	}
	n := 0
	for _, sel := range changes.Selectors() {
		props := changes[sel]
		if len(props) == 0 {
			continue
		}
		e := dom.Resolve(root, sel)
		if e == nil {
			d.logf("no element for %q", sel)
			continue
		}
		d.Engine.Animate(d.params(e, sel, props, timing))
		n++
	}
	return n
}

// Apply sets properties without animation.  This is how a timeline's
// initial state is established.
func (d *Dispatcher) Apply(root dom.Element, overrides core.Overrides) int {
	return d.Dispatch(root, overrides, &core.Timing{})
}

// params does the work of Dispatch for one element.
func (d *Dispatcher) params(e dom.Element, sel string, props core.Props, timing *core.Timing) *tween.Params {
	visible := func() bool {
		x, _ := core.ParseLength(e.ComputedStyle("opacity"))
		return VisibilityThreshold < x
	}

	// Before: the target opacity or the current one.
	targetVisible := false
	if v, have := props[core.Opacity]; have {
		if x, ok := v.Opacity(); ok && 0 < x {
			targetVisible = true
		}
	}
	dom.Toggle(e, dom.Hidden, !(targetVisible || visible()))

	d.Engine.Remove(e)

	p := &tween.Params{
		Targets:  []dom.Element{e},
		Timeline: d.Timeline,
		Selector: sel,
		Props:    make(map[string]string, len(props)+2),
		Duration: timing.Duration,
		Delay:    timing.Delay,
		Complete: func() {
			// After: only the rendered opacity.
			dom.Toggle(e, dom.Hidden, !visible())
		},
	}

	for _, name := range props.Names() {
		v := props[name]
		if name == core.Transform {
			if len(v.Transform) == 0 {
				d.logf("%q: nothing to animate in transform %q", sel, v)
			}
			for fn, args := range v.Transform.Channels() {
				p.Props[fn] = args
			}
			continue
		}
		p.Props[string(name)] = v.String()
	}

	if timing.Easing != "" {
		p.Easing = core.TranslateEasing(timing.Easing)
	}

	units.ConvertPositioning(e, props)

	for _, side := range core.Sides {
		v, have := props[side]
		if !have {
			continue
		}
		po := v.PercentOffset()
		if math.Abs(po.Percent) < negligible {
			p.Props[string(side)] = core.FormatNumber(po.PixelOffset) + "px"
		} else {
			p.Props[string(side)] = core.FormatNumber(po.Percent) + "%"
			p.Props[string(side.Margin())] = core.FormatNumber(po.PixelOffset) + "px"
		}
		e.SetInlineStyle(string(side.Opposite()), "auto")
	}

	for _, size := range core.Sizes {
		v, have := props[size]
		if !have {
			continue
		}
		po := v.PercentOffset()
		if math.Abs(po.Percent) < negligible {
			p.Props[string(size)] = core.FormatNumber(po.PixelOffset) + "px"
			continue
		}
		percent := po.Percent
		if po.PixelOffset != 0 {
			percent = math.Max(0, percent+units.ToRelativePercent(e, size, po.PixelOffset))
		}
		p.Props[string(size)] = core.FormatNumber(percent) + "%"
	}

	d.logf("%q: %v", sel, p.Props)

	return p
}
