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

// Package listen registers the triggers that move a timeline from one
// state to another.
package listen

import (
	"github.com/Comcast/anima/core"
	"github.com/Comcast/anima/dom"
	"github.com/Comcast/anima/timers"
	"github.com/Comcast/anima/util"
)

// Register sets up one trigger.
//
// A timer listener calls onFire after the listener's Delay.  A
// pointer listener resolves its TargetSelector against root, marks
// the target with the dom.ListenersActive class (and, for a click,
// dom.ListenersActiveClick), and adds a capturing handler.  A click
// fires on any click that reaches the target.  A mouseenter or
// mouseleave fires only if the event's target is the resolved element
// itself.  A firing handler stops propagation.
//
// The returned function cancels a pending timer or removes the
// handler and both marker classes.
//
// Register doesn't prevent a second firing.  The caller should
// cancel all of a state's listeners when one of them fires.
//
// If the target can't be found, Register logs and returns a cancel
// function that does nothing.
func Register(root dom.Element, sched timers.Scheduler, l *core.Listener, onFire func()) (cancel func()) {
	switch l.Type {
	case core.Timer:
		return sched.AfterFunc(l.DelayDuration(), onFire)

	case core.Click, core.MouseEnter, core.MouseLeave:
		target := dom.Resolve(root, l.TargetSelector)
		if target == nil {
			util.Logf("listen: no element for %q (%s)", l.TargetSelector, l.Type)
			return func() {}
		}

		typ := string(l.Type)
		handler := func(ev dom.Event) {
			if ev.Type() == string(core.Click) || dom.Same(ev.Target(), target) {
				ev.StopPropagation()
				onFire()
			}
		}

		target.AddClass(dom.ListenersActive)
		if l.Type == core.Click {
			target.AddClass(dom.ListenersActiveClick)
		}

		remove := target.AddEventListener(typ, true, handler)

		return func() {
			remove()
			target.RemoveClass(dom.ListenersActive)
			target.RemoveClass(dom.ListenersActiveClick)
		}

	default:
		util.Logf("listen: ignoring listener type %q", l.Type)
		return func() {}
	}
}
