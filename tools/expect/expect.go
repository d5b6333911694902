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

// Package expect is a tool for testing Timelines against a page.
//
// You construct a Session, which has inputs (pointer events and the
// passage of time) and expected outputs (transitions and styles).
// Then run the session to see if the expected outputs actually
// appeared.
//
// A Session runs in virtual time, so a Session that covers minutes
// of animation runs in milliseconds.
//
// See ../../cmd/animatool for command-line use.
package expect

import (
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"time"

	"github.com/Comcast/anima/core"
	"github.com/Comcast/anima/dom/mem"
	"github.com/Comcast/anima/player"
	"github.com/Comcast/anima/timers"
	tmem "github.com/Comcast/anima/tween/mem"
	. "github.com/Comcast/anima/util/testutil"

	"github.com/jsccast/yaml"
)

// Output is a specification for a transition that's expected.
//
// Empty fields match anything.
type Output struct {
	// Doc is an opaque documentation string.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	Timeline string            `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	From     string            `json:"from,omitempty" yaml:"from,omitempty"`
	To       string            `json:"to,omitempty" yaml:"to,omitempty"`
	Trigger  core.ListenerType `json:"trigger,omitempty" yaml:"trigger,omitempty"`

	// Inverted means that a matching transition isn't desired!
	Inverted bool `json:"inverted,omitempty" yaml:"inverted,omitempty"`

	// Seen, which is the matching transition, is written during
	// processing.  Just for diagnostics.
	Seen *player.Transition `json:"seen,omitempty" yaml:"-"`
}

// Matches reports whether the transition is what's expected.
func (o *Output) Matches(t *player.Transition) bool {
	return (o.Timeline == "" || o.Timeline == t.Timeline) &&
		(o.From == "" || o.From == t.From) &&
		(o.To == "" || o.To == t.To) &&
		(o.Trigger == "" || o.Trigger == t.Trigger)
}

// Input is a pointer event to dispatch.
type Input struct {
	// Type is click, mouseenter, or mouseleave.
	Type string `json:"type" yaml:"type"`

	// Selector finds the target in the whole document.
	Selector string `json:"selector" yaml:"selector"`
}

// Style is a computed style that's expected.
type Style struct {
	Selector string `json:"selector" yaml:"selector"`
	Property string `json:"property" yaml:"property"`
	Value    string `json:"value" yaml:"value"`
}

// IO is a package of inputs and required outputs.
//
// Waits are in milliseconds of virtual time.
type IO struct {
	// Doc is an opaque documentation string.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// WaitBefore is the time to wait before sending the first
	// input.
	WaitBefore float64 `json:"waitBefore,omitempty" yaml:"waitBefore,omitempty"`

	// WaitBetween is the time to wait between inputs.
	WaitBetween float64 `json:"waitBetween,omitempty" yaml:"waitBetween,omitempty"`

	// Inputs are the events to dispatch.
	Inputs []Input `json:"inputs,omitempty" yaml:"inputs,omitempty"`

	// WaitAfter is the time to wait after sending the last
	// input.
	WaitAfter float64 `json:"waitAfter,omitempty" yaml:"waitAfter,omitempty"`

	// OutputSet is the set (not a list) of transitions to verify
	// after WaitAfter.
	OutputSet []Output `json:"outputSet,omitempty" yaml:"outputSet,omitempty"`

	// Styles are checked after WaitAfter.
	Styles []Style `json:"styles,omitempty" yaml:"styles,omitempty"`
}

// Session is mostly a sequence of IOs.
type Session struct {
	// Doc is an opaque documentation string.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// IOs is sequence of IOs that this session will run.
	IOs []IO `json:"ios" yaml:"ios"`

	// Frame is the tween engine's frame period in milliseconds.
	// Zero means tween/mem.DefaultFrame.
	Frame float64 `json:"frame,omitempty" yaml:"frame,omitempty"`

	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// ReadSession reads a YAML (or JSON) Session.
func ReadSession(filename string) (*Session, error) {
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var s Session
	if err = yaml.Unmarshal(bs, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Failure describes an IO that didn't go as expected.
type Failure struct {
	IO      int
	Problem string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("io %d: %s", f.IO, f.Problem)
}

// Run activates the Timelines on the document and processes all the
// IOs in the Session.
//
// The document is modified.
func (s *Session) Run(ctx context.Context, doc *mem.Document, tls []*core.Timeline) error {

	ts := timers.NewVirtualTimers(time.Unix(0, 0).UTC())

	engine := tmem.NewEngine(ts)
	if 0 < s.Frame {
		engine.Frame = core.Millis(s.Frame)
	}

	var seen []*player.Transition

	pg := player.NewPage(doc, ts, engine)
	pg.Observer = func(t *player.Transition) {
		if s.Verbose {
			log.Printf("transition %s", JS(t))
		}
		seen = append(seen, t)
	}
	for _, tl := range tls {
		if _, err := pg.Add(tl); err != nil {
			return err
		}
	}
	defer pg.Stop()

	if err := pg.Activate(); err != nil {
		return err
	}

	for i, iop := range s.IOs {
		if err := ctx.Err(); err != nil {
			return err
		}

		seen = seen[:0]

		s.pause(ts, "waitBefore", iop.WaitBefore)
		for j, input := range iop.Inputs {
			if 0 < j {
				s.pause(ts, "waitBetween", iop.WaitBetween)
			}
			e := doc.Find(input.Selector)
			if e == nil {
				return &Failure{i, fmt.Sprintf("no element for input %s", JS(input))}
			}
			if s.Verbose {
				log.Printf("in %s", JS(input))
			}
			e.Dispatch(input.Type)
		}
		s.pause(ts, "waitAfter", iop.WaitAfter)

		for k := range iop.OutputSet {
			output := &iop.OutputSet[k]
			output.Seen = nil
			for _, t := range seen {
				if output.Matches(t) {
					output.Seen = t
					break
				}
			}
			switch {
			case output.Inverted && output.Seen != nil:
				return &Failure{i, fmt.Sprintf("undesired output %s", JS(output))}
			case !output.Inverted && output.Seen == nil:
				return &Failure{i, fmt.Sprintf("missing output %s (saw %s)", JS(output), JS(seen))}
			}
		}

		for _, style := range iop.Styles {
			e := doc.Find(style.Selector)
			if e == nil {
				return &Failure{i, fmt.Sprintf("no element for style %s", JS(style))}
			}
			if got := e.ComputedStyle(style.Property); got != style.Value {
				return &Failure{i, fmt.Sprintf("%s %s is %q, not %q", style.Selector, style.Property, got, style.Value)}
			}
		}

		for _, p := range pg.Players {
			if err := p.Err(); err != nil {
				return &Failure{i, err.Error()}
			}
		}
	}

	return nil
}

func (s *Session) pause(ts *timers.Timers, why string, ms float64) {
	if 0 < ms {
		if s.Verbose {
			log.Printf("pause %s %sms", why, core.FormatNumber(ms))
		}
		ts.Advance(core.Millis(ms))
	}
}
