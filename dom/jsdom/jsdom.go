//go:build js && wasm

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

// Package jsdom binds the dom interfaces to a browser's document.
//
// Everything here must run on the browser's (only) thread.
package jsdom

import (
	"syscall/js"

	"github.com/Comcast/anima/dom"
)

// Document is the browser's document.
type Document struct {
	js.Value
}

// NewDocument returns the global document.
func NewDocument() *Document {
	return &Document{js.Global().Get("document")}
}

func wrap(v js.Value) dom.Element {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	return &Element{v}
}

func (d *Document) QuerySelector(s string) dom.Element {
	return wrap(d.Call("querySelector", s))
}

func (d *Document) QuerySelectorAll(s string) []dom.Element {
	list := d.Call("querySelectorAll", s)
	n := list.Length()
	acc := make([]dom.Element, 0, n)
	for i := 0; i < n; i++ {
		acc = append(acc, &Element{list.Index(i)})
	}
	return acc
}

// Element is a browser element.  Two Elements can wrap the same node,
// so use dom.Same to compare them.
type Element struct {
	js.Value
}

// Equal reports whether x wraps the same browser node.
func (e *Element) Equal(x dom.Element) bool {
	o, is := x.(*Element)
	return is && e.Value.Equal(o.Value)
}

func (e *Element) QuerySelector(s string) dom.Element {
	return wrap(e.Call("querySelector", s))
}

func (e *Element) OffsetParent() dom.Element {
	return wrap(e.Get("offsetParent"))
}

func (e *Element) InlineStyle(p string) string {
	return e.Get("style").Call("getPropertyValue", p).String()
}

func (e *Element) SetInlineStyle(p, v string) {
	e.Get("style").Call("setProperty", p, v)
}

func (e *Element) ComputedStyle(p string) string {
	return js.Global().Call("getComputedStyle", e.Value).Call("getPropertyValue", p).String()
}

func (e *Element) AddClass(class string) {
	e.Get("classList").Call("add", class)
}

func (e *Element) RemoveClass(class string) {
	e.Get("classList").Call("remove", class)
}

func (e *Element) HasClass(class string) bool {
	return e.Get("classList").Call("contains", class).Bool()
}

func (e *Element) AddEventListener(typ string, capture bool, h func(dom.Event)) func() {
	f := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if 0 < len(args) {
			h(&Event{args[0]})
		}
		return nil
	})
	e.Call("addEventListener", typ, f, capture)
	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		e.Call("removeEventListener", typ, f, capture)
		f.Release()
	}
}

// Event is a browser event.
type Event struct {
	js.Value
}

func (ev *Event) Type() string {
	return ev.Get("type").String()
}

func (ev *Event) Target() dom.Element {
	return wrap(ev.Get("target"))
}

func (ev *Event) StopPropagation() {
	ev.Call("stopPropagation")
}
