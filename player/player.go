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

// Package player runs Timelines.
//
// A Player is one running instance of one Timeline bound to one root
// element.  Its only mutable state is the name of the current State
// and the cancel functions of that State's live listeners.  All
// Player methods and all callbacks must run on the scheduler's event
// loop.
package player

import (
	"log"
	"sort"
	"time"

	"github.com/Comcast/anima/core"
	"github.com/Comcast/anima/dispatch"
	"github.com/Comcast/anima/dom"
	"github.com/Comcast/anima/listen"
	"github.com/Comcast/anima/timers"
	"github.com/Comcast/anima/tween"
)

// Transition reports what happened when a listener fired.
type Transition struct {
	Timeline string            `json:"timeline"`
	From     string            `json:"from"`
	To       string            `json:"to"`
	Trigger  core.ListenerType `json:"trigger"`
	Target   string            `json:"target,omitempty"`

	// Dispatched is the number of animations submitted.
	Dispatched int `json:"dispatched"`

	// Longest is the longest delay plus duration of those
	// animations.  Timers in the new State start after this.
	Longest time.Duration `json:"longest"`

	At time.Time `json:"at"`
}

// Player runs one Timeline.
type Player struct {
	Timeline   *core.Timeline
	Root       dom.Element
	Sched      timers.Scheduler
	Dispatcher *dispatch.Dispatcher

	// Observer, if not nil, is called after each transition.
	Observer func(*Transition)

	Debug bool

	initial core.Overrides
	current string
	cancels []func()
	epoch   int
	stopped bool
	err     error
}

// NewPlayer makes a Player.  The Timeline must be compiled.
func NewPlayer(tl *core.Timeline, root dom.Element, sched timers.Scheduler, engine tween.Engine) (*Player, error) {
	if !tl.Compiled() {
		return nil, &core.TimelineNotCompiled{Timeline: tl}
	}
	if root == nil {
		return nil, &RootNotFound{Selector: tl.RootElement}
	}
	d := dispatch.NewDispatcher(engine)
	d.Timeline = tl.Label()
	return &Player{
		Timeline:   tl,
		Root:       root,
		Sched:      sched,
		Dispatcher: d,
	}, nil
}

func (p *Player) logf(format string, args ...interface{}) {
	if p.Debug {
		log.Printf("player %s "+format, append([]interface{}{p.Timeline.Label()}, args...)...)
	}
}

// Current returns the name of the current State.
func (p *Player) Current() string {
	return p.current
}

// Err returns the configuration error, if any, that stopped the
// Player.
func (p *Player) Err() error {
	return p.err
}

// Snapshot returns the Initial Property Snapshot taken by Activate.
func (p *Player) Snapshot() core.Overrides {
	return p.initial
}

// Live returns the number of live listeners.
func (p *Player) Live() int {
	return len(p.cancels)
}

// Activate takes the Initial Property Snapshot, applies the initial
// State's overrides without animation, and enters the initial State.
//
// Calling Activate again starts over: every snapshotted property is
// restored first.
func (p *Player) Activate() error {
	if p.initial == nil {
		p.initial = TakeSnapshot(p.Timeline, p.Root)
	} else {
		p.Stop()
		p.Dispatcher.Apply(p.Root, p.initial)
	}
	p.stopped = false
	p.err = nil

	name := p.Timeline.InitialStateName
	s, have := p.Timeline.States[name]
	if !have {
		p.fail(&core.UnknownState{Timeline: p.Timeline, StateName: name})
		return p.err
	}
	p.Dispatcher.Apply(p.Root, s.Overrides)
	p.enter(name, 0)
	return p.err
}

// Stop cancels the current State's listeners.  Animations in flight
// continue.
func (p *Player) Stop() {
	p.cancel()
	p.stopped = true
}

func (p *Player) cancel() {
	for _, f := range p.cancels {
		f()
	}
	p.cancels = nil
	p.epoch++
}

func (p *Player) fail(err error) {
	log.Printf("player %s: %v", p.Timeline.Label(), err)
	p.err = err
	p.Stop()
}

// enter registers the listeners of the named State.  Timers are
// pushed back by pending, which is how long the transition into the
// State takes.
func (p *Player) enter(name string, pending time.Duration) {
	s, have := p.Timeline.States[name]
	if !have {
		p.fail(&core.UnknownState{Timeline: p.Timeline, StateName: name})
		return
	}

	p.current = name
	p.cancels = make([]func(), 0, len(s.Listeners))
	p.epoch++
	epoch := p.epoch

	p.logf("entering %s (pending %s)", name, pending)

	for _, l := range s.Listeners {
		armed := l.Copy()
		if armed.Type == core.Timer {
			armed.Delay += float64(pending) / float64(time.Millisecond)
		}
		l := l
		cancel := listen.Register(p.Root, p.Sched, armed, func() {
			p.fire(epoch, name, l)
		})
		p.cancels = append(p.cancels, cancel)
	}
}

// fire moves the machine out of the State it was in when the
// listener was registered.
func (p *Player) fire(epoch int, from string, l *core.Listener) {
	if p.stopped || epoch != p.epoch {
		// A sibling already fired.
		return
	}

	p.cancel()

	to, have := p.Timeline.States[l.ChangeToState]
	if !have {
		p.fail(&core.UnknownState{Timeline: p.Timeline, StateName: l.ChangeToState})
		return
	}

	changes := core.Diff(p.initial, p.Timeline.States[from].Overrides, to.Overrides)

	sels := make([]string, 0, len(l.Animations))
	for sel := range l.Animations {
		sels = append(sels, sel)
	}
	sort.Strings(sels)

	var (
		longest    time.Duration
		dispatched int
	)
	for _, sel := range sels {
		props := changes[sel]
		if len(props) == 0 {
			continue
		}
		timing := l.Animations[sel]
		dispatched += p.Dispatcher.Dispatch(p.Root, core.Overrides{sel: props}, timing)
		if d := timing.Total(); longest < d {
			longest = d
		}
	}

	p.logf("%s -> %s via %s (%d animations, longest %s)", from, l.ChangeToState, l.Type, dispatched, longest)

	if p.Observer != nil {
		p.Observer(&Transition{
			Timeline:   p.Timeline.Label(),
			From:       from,
			To:         l.ChangeToState,
			Trigger:    l.Type,
			Target:     l.TargetSelector,
			Dispatched: dispatched,
			Longest:    longest,
			At:         p.Sched.Now(),
		})
	}

	p.enter(l.ChangeToState, longest)
}

// TakeSnapshot records, for every (selector, property) that any of
// the Timeline's States overrides, the element's value before any
// State is applied: its inline style, else rotate(0deg) for a
// transform, else its computed style.
//
// A selector that doesn't resolve is left out.
func TakeSnapshot(tl *core.Timeline, root dom.Element) core.Overrides {
	acc := make(core.Overrides)
	keys := tl.SnapshotKeys()
	sels := make([]string, 0, len(keys))
	for sel := range keys {
		sels = append(sels, sel)
	}
	sort.Strings(sels)

	for _, sel := range sels {
		e := dom.Resolve(root, sel)
		if e == nil {
			log.Printf("player %s: no element for %q", tl.Label(), sel)
			continue
		}
		for _, prop := range keys[sel] {
			raw := e.InlineStyle(string(prop))
			if raw == "" && prop == core.Transform {
				raw = "rotate(0deg)"
			}
			if raw == "" {
				raw = e.ComputedStyle(string(prop))
			}
			v, err := core.ParseValue(prop, raw)
			if err != nil {
				log.Printf("player %s: snapshot %q %s: %v", tl.Label(), sel, prop, err)
				v = core.KeywordValue(raw)
			}
			acc.Set(sel, prop, v)
		}
	}
	return acc
}
