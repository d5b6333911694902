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

// Package dom is the small slice of a document object model that an
// animation player needs: selector lookup, layout containers,
// computed and inline styles, class membership, and event listeners.
//
// Package dom/mem is an in-memory implementation.  Package dom/jsdom
// (js/wasm only) binds these interfaces to a real browser.
package dom

// Marker classes.
const (
	// Hidden marks an element that is (or is becoming)
	// transparent so that page CSS can turn off its pointer
	// events.
	Hidden = "anima-hidden"

	// ListenersActive marks an element with a live pointer
	// listener.
	ListenersActive = "anima-listeners-active"

	// ListenersActiveClick additionally marks an element with a
	// live click listener.
	ListenersActiveClick = "anima-listeners-active-click"

	// NotReady is removed from every element once all timelines
	// on a page have applied their initial states.
	NotReady = "anima-not-ready"
)

// Element is a node in a document.
type Element interface {
	// QuerySelector returns the first descendant matching the
	// selector or nil.
	QuerySelector(selector string) Element

	// OffsetParent returns the element's layout container or nil.
	OffsetParent() Element

	// InlineStyle returns the element's own style for the CSS
	// property (or the empty string).
	InlineStyle(property string) string

	// SetInlineStyle sets the element's own style for the CSS
	// property.
	SetInlineStyle(property, value string)

	// ComputedStyle returns the resolved value for the CSS
	// property.  Lengths come back in pixels.
	ComputedStyle(property string) string

	AddClass(class string)
	RemoveClass(class string)
	HasClass(class string) bool

	// AddEventListener registers a handler for the event type.
	// The returned function removes it.
	AddEventListener(typ string, capture bool, handler func(Event)) (remove func())
}

// Event is something that happened to an Element.
type Event interface {
	Type() string

	// Target is the element the event was dispatched to, which
	// might be a descendant of the element whose listener is
	// running.
	Target() Element

	StopPropagation()
}

// Document is the thing elements live in.
type Document interface {
	QuerySelector(selector string) Element
	QuerySelectorAll(selector string) []Element
}

// Equaler is implemented by Elements that aren't comparable with ==.
type Equaler interface {
	Equal(Element) bool
}

// Same reports whether the two Elements are the same node.
func Same(a, b Element) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if e, is := a.(Equaler); is {
		return e.Equal(b)
	}
	return a == b
}

// Resolve finds the element for a selector relative to root.  The
// empty selector is the root itself.
func Resolve(root Element, selector string) Element {
	if selector == "" {
		return root
	}
	if root == nil {
		return nil
	}
	return root.QuerySelector(selector)
}

// Toggle adds the class if on and removes it otherwise.
func Toggle(e Element, class string, on bool) {
	if on {
		e.AddClass(class)
	} else {
		e.RemoveClass(class)
	}
}
