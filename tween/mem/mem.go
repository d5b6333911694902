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

// Package mem is an in-process tween engine that writes interpolated
// values to elements' inline styles on a scheduler's clock.
//
// Values with the same unit (px, %, deg, or none) are interpolated.
// Anything else jumps to its target value at the end.
package mem

import (
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Comcast/anima/core"
	"github.com/Comcast/anima/dom"
	"github.com/Comcast/anima/timers"
	"github.com/Comcast/anima/tween"
)

// DefaultFrame is the default time between frames.
var DefaultFrame = 16 * time.Millisecond

// Engine is a tween.Engine.
type Engine struct {
	Sched timers.Scheduler
	Frame time.Duration
	Debug bool

	running []*animation
}

// NewEngine makes an Engine that uses the given scheduler.
func NewEngine(sched timers.Scheduler) *Engine {
	return &Engine{
		Sched: sched,
		Frame: DefaultFrame,
	}
}

type animation struct {
	params *tween.Params
	curve  Curve
	tracks []*track
	start  time.Time
	cancel func()
	done   bool
}

// track is one property of one element.
type track struct {
	target  dom.Element
	name    string
	channel bool
	from    quantity
	to      quantity
	final   string
	lerp    bool
}

type quantity struct {
	x    float64
	unit string
}

var quantitySyntax = regexp.MustCompile(`^(-?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?)([a-z%]*)$`)

func parseQuantity(s string) (quantity, bool) {
	m := quantitySyntax.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return quantity{}, false
	}
	x, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return quantity{}, false
	}
	return quantity{x, m[2]}, true
}

func (q quantity) String() string {
	return core.FormatNumber(q.x) + q.unit
}

// channelDefaults are the identity values for transform channels.
var channelDefaults = map[string]string{
	"scale":  "1",
	"scaleX": "1",
	"scaleY": "1",
	"scaleZ": "1",
}

func channelDefault(name string) string {
	if s, have := channelDefaults[name]; have {
		return s
	}
	if strings.HasPrefix(name, "rotate") || strings.HasPrefix(name, "skew") {
		return "0deg"
	}
	return "0px"
}

// current returns the element's current value for a property or
// transform channel.
func current(e dom.Element, name string, channel bool) string {
	if !channel {
		if s := e.InlineStyle(name); s != "" {
			return s
		}
		return e.ComputedStyle(name)
	}
	t, err := core.ParseTransform(e.InlineStyle("transform"))
	if err == nil {
		if args, have := t.Channels()[name]; have {
			return args
		}
	}
	return channelDefault(name)
}

func (eng *Engine) logf(format string, args ...interface{}) {
	if eng.Debug {
		log.Printf("tween/mem "+format, args...)
	}
}

// Animate implements tween.Engine.
//
// A zero delay and a zero duration sets the values (and calls
// Complete) before returning.
func (eng *Engine) Animate(p *tween.Params) {
	curve, ok := ParseEasing(p.Easing)
	if !ok {
		eng.logf("unknown easing %q; using linear", p.Easing)
	}
	a := &animation{
		params: p,
		curve:  curve,
	}

	if p.Delay <= 0 && p.Duration <= 0 {
		eng.begin(a)
		eng.finish(a)
		return
	}

	eng.running = append(eng.running, a)
	a.cancel = eng.Sched.AfterFunc(core.Millis(p.Delay), func() {
		eng.begin(a)
		eng.frame(a)
	})
}

// begin records where each property starts.
func (eng *Engine) begin(a *animation) {
	a.start = eng.Sched.Now()
	for _, e := range a.params.Targets {
		for _, name := range a.params.Names() {
			to := a.params.Props[name]
			channel := tween.IsChannel(name)
			t := &track{
				target:  e,
				name:    name,
				channel: channel,
				final:   to,
			}
			fq, fok := parseQuantity(current(e, name, channel))
			tq, tok := parseQuantity(to)
			if fok && tok && (fq.unit == tq.unit || fq.x == 0) {
				fq.unit = tq.unit
				t.from, t.to, t.lerp = fq, tq, true
			}
			a.tracks = append(a.tracks, t)
		}
	}
}

func (eng *Engine) frame(a *animation) {
	if a.done {
		return
	}
	elapsed := eng.Sched.Now().Sub(a.start)
	total := core.Millis(a.params.Duration)
	if total <= elapsed {
		eng.finish(a)
		return
	}
	progress := a.curve(float64(elapsed) / float64(total))
	eng.write(a, func(t *track) string {
		if !t.lerp {
			return ""
		}
		q := quantity{t.from.x + (t.to.x-t.from.x)*progress, t.to.unit}
		return q.String()
	})

	next := eng.Frame
	if next <= 0 {
		next = DefaultFrame
	}
	if left := total - elapsed; left < next {
		next = left
	}
	a.cancel = eng.Sched.AfterFunc(next, func() {
		eng.frame(a)
	})
}

// write sets a value for every track.  The value function returns
// the empty string to leave a track alone.
func (eng *Engine) write(a *animation, value func(*track) string) {
	for _, e := range a.params.Targets {
		props := make(map[string]string, len(a.tracks))
		for _, t := range a.tracks {
			if !dom.Same(t.target, e) {
				continue
			}
			if s := value(t); s != "" {
				props[t.name] = s
			}
		}
		tween.SetStyles(e, props)
	}
}

func (eng *Engine) finish(a *animation) {
	a.done = true
	eng.write(a, func(t *track) string {
		return t.final
	})
	eng.forget(a)
	if a.params.Complete != nil {
		a.params.Complete()
	}
}

func (eng *Engine) forget(a *animation) {
	for i, x := range eng.running {
		if x == a {
			eng.running = append(eng.running[:i], eng.running[i+1:]...)
			return
		}
	}
}

// Remove implements tween.Engine.
func (eng *Engine) Remove(e dom.Element) {
	keep := eng.running[:0]
	for _, a := range eng.running {
		if targets(a, e) {
			eng.logf("removing animation of %s", a.params.Selector)
			a.done = true
			if a.cancel != nil {
				a.cancel()
			}
			continue
		}
		keep = append(keep, a)
	}
	for i := len(keep); i < len(eng.running); i++ {
		eng.running[i] = nil
	}
	eng.running = keep
}

func targets(a *animation, e dom.Element) bool {
	for _, t := range a.params.Targets {
		if dom.Same(t, e) {
			return true
		}
	}
	return false
}

// Running returns the number of animations that haven't finished.
func (eng *Engine) Running() int {
	return len(eng.running)
}
