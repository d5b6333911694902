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

// Package mem is an in-memory dom.Document built from HTML markup.
//
// The layout model is deliberately tiny.  An element's offset parent
// is its parent element (or nil if the element is the document
// element or has display: none).  Percentages and calc()
// expressions for left, right, width, and margins resolve against
// the offset parent's computed width; top, bottom, and height
// resolve against its computed height.  Styles come from the style
// attribute (inline) and from rules in <style> elements, whose
// selectors are anything cascadia compiles.
//
// Events go through capture, target, and bubble phases.  Click
// bubbles; mouseenter and mouseleave don't.
package mem

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Comcast/anima/core"
	"github.com/Comcast/anima/dom"
	"github.com/Comcast/anima/util"

	"golang.org/x/net/html"
)

// Document is an in-memory dom.Document.
type Document struct {
	// Root is the document element (<html>).
	Root *Element

	rules []rule
}

type rule struct {
	sel   selector
	decls map[string]string
}

// Element is an in-memory dom.Element.
type Element struct {
	Tag string

	doc       *Document
	node      *html.Node
	parent    *Element
	children  []*Element
	classes   []string
	style     map[string]string
	listeners []*listener
}

type listener struct {
	typ     string
	capture bool
	handler func(dom.Event)
	removed bool
}

// ParseHTML builds a Document from markup.
func ParseHTML(r io.Reader) (*Document, error) {
	n, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	doc := &Document{}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			doc.Root = doc.build(c, nil)
			break
		}
	}
	if doc.Root == nil {
		return nil, fmt.Errorf("no document element")
	}
	return doc, nil
}

// MustParseHTML is ParseHTML for string literals.  Panics on error.
func MustParseHTML(s string) *Document {
	doc, err := ParseHTML(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return doc
}

func (doc *Document) build(n *html.Node, parent *Element) *Element {
	e := &Element{
		Tag:    strings.ToLower(n.Data),
		doc:    doc,
		node:   n,
		parent: parent,
		style:  make(map[string]string),
	}
	for _, a := range n.Attr {
		switch a.Key {
		case "class":
			e.classes = strings.Fields(a.Val)
		case "style":
			for p, v := range parseDecls(a.Val) {
				e.style[p] = v
			}
		}
	}
	if e.Tag == "style" {
		var text strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				text.WriteString(c.Data)
			}
		}
		if err := doc.AddRules(text.String()); err != nil {
			util.Logf("mem: ignoring style: %v", err)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			e.children = append(e.children, doc.build(c, e))
		}
	}
	return e
}

// parseDecls parses "a: b; c: d".
func parseDecls(s string) map[string]string {
	acc := make(map[string]string)
	for _, decl := range strings.Split(s, ";") {
		i := strings.Index(decl, ":")
		if i < 0 {
			continue
		}
		p := strings.ToLower(strings.TrimSpace(decl[:i]))
		v := strings.TrimSpace(decl[i+1:])
		if p == "" {
			continue
		}
		acc[p] = v
	}
	return acc
}

// AddRules adds style rules of the form "sel, sel { p: v; ... }".
// Later rules win.  Specificity is ignored.
func (doc *Document) AddRules(css string) error {
	for _, block := range strings.Split(css, "}") {
		i := strings.Index(block, "{")
		if i < 0 {
			if strings.TrimSpace(block) != "" {
				return fmt.Errorf("bad rule %q", block)
			}
			continue
		}
		sel, err := parseSelector(block[:i])
		if err != nil {
			return err
		}
		doc.rules = append(doc.rules, rule{sel: sel, decls: parseDecls(block[i+1:])})
	}
	return nil
}

// QuerySelector implements dom.Document.
func (doc *Document) QuerySelector(s string) dom.Element {
	if doc.Root == nil {
		return nil
	}
	sel, err := parseSelector(s)
	if err != nil {
		return nil
	}
	if sel.matches(doc.Root) {
		return doc.Root
	}
	if e := doc.Root.find(sel); e != nil {
		return e
	}
	return nil
}

// QuerySelectorAll implements dom.Document.
func (doc *Document) QuerySelectorAll(s string) []dom.Element {
	sel, err := parseSelector(s)
	if err != nil || doc.Root == nil {
		return nil
	}
	acc := make([]dom.Element, 0, 8)
	doc.Root.walk(func(e *Element) {
		if sel.matches(e) {
			acc = append(acc, e)
		}
	})
	return acc
}

// Find is QuerySelector with a concrete result.
func (doc *Document) Find(s string) *Element {
	if e, is := doc.QuerySelector(s).(*Element); is {
		return e
	}
	return nil
}

// Render writes the document, with current classes and inline
// styles, as HTML.
func (doc *Document) Render(w io.Writer) error {
	doc.Root.walk(func(e *Element) {
		e.sync()
	})
	top := doc.Root.node
	for top.Parent != nil {
		top = top.Parent
	}
	return html.Render(w, top)
}

// walk visits e and its descendants in document order.
func (e *Element) walk(f func(*Element)) {
	f(e)
	for _, c := range e.children {
		c.walk(f)
	}
}

func (e *Element) find(sel selector) *Element {
	for _, c := range e.children {
		if sel.matches(c) {
			return c
		}
		if x := c.find(sel); x != nil {
			return x
		}
	}
	return nil
}

// sync writes classes and inline style back to the html.Node.
func (e *Element) sync() {
	attrs := make([]html.Attribute, 0, len(e.node.Attr))
	for _, a := range e.node.Attr {
		if a.Key != "class" && a.Key != "style" {
			attrs = append(attrs, a)
		}
	}
	if 0 < len(e.classes) {
		attrs = append(attrs, html.Attribute{Key: "class", Val: strings.Join(e.classes, " ")})
	}
	if 0 < len(e.style) {
		ps := make([]string, 0, len(e.style))
		for p := range e.style {
			ps = append(ps, p)
		}
		sort.Strings(ps)
		decls := make([]string, len(ps))
		for i, p := range ps {
			decls[i] = p + ": " + e.style[p]
		}
		attrs = append(attrs, html.Attribute{Key: "style", Val: strings.Join(decls, "; ")})
	}
	e.node.Attr = attrs
}

// ID returns the element's id attribute.
func (e *Element) ID() string {
	for _, a := range e.node.Attr {
		if a.Key == "id" {
			return a.Val
		}
	}
	return ""
}

// Parent returns the parent element or nil.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns the child elements.
func (e *Element) Children() []*Element {
	return e.children
}

// QuerySelector implements dom.Element.
func (e *Element) QuerySelector(s string) dom.Element {
	sel, err := parseSelector(s)
	if err != nil {
		return nil
	}
	if x := e.find(sel); x != nil {
		return x
	}
	return nil
}

// Find is QuerySelector with a concrete result.
func (e *Element) Find(s string) *Element {
	if x, is := e.QuerySelector(s).(*Element); is {
		return x
	}
	return nil
}

// OffsetParent implements dom.Element.
func (e *Element) OffsetParent() dom.Element {
	if e.parent == nil || e.specified("display") == "none" {
		return nil
	}
	return e.parent
}

// InlineStyle implements dom.Element.
func (e *Element) InlineStyle(p string) string {
	return e.style[p]
}

// SetInlineStyle implements dom.Element.  The empty value removes the
// property.
func (e *Element) SetInlineStyle(p, v string) {
	if v == "" {
		delete(e.style, p)
	} else {
		e.style[p] = v
	}
	e.sync()
}

// AddClass implements dom.Element.
func (e *Element) AddClass(class string) {
	if !e.HasClass(class) {
		e.classes = append(e.classes, class)
		e.sync()
	}
}

// RemoveClass implements dom.Element.
func (e *Element) RemoveClass(class string) {
	for i, c := range e.classes {
		if c == class {
			e.classes = append(e.classes[:i], e.classes[i+1:]...)
			e.sync()
			return
		}
	}
}

// HasClass implements dom.Element.
func (e *Element) HasClass(class string) bool {
	for _, c := range e.classes {
		if c == class {
			return true
		}
	}
	return false
}

// Listeners returns the number of live event listeners for the type.
func (e *Element) Listeners(typ string) int {
	n := 0
	for _, l := range e.listeners {
		if l.typ == typ {
			n++
		}
	}
	return n
}

// AddEventListener implements dom.Element.
func (e *Element) AddEventListener(typ string, capture bool, h func(dom.Event)) func() {
	l := &listener{
		typ:     typ,
		capture: capture,
		handler: h,
	}
	e.listeners = append(e.listeners, l)
	return func() {
		l.removed = true
		for i, x := range e.listeners {
			if x == l {
				e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

// specified returns the cascaded value: inline, else the last
// matching rule, else the empty string.
func (e *Element) specified(p string) string {
	if v, have := e.style[p]; have {
		return v
	}
	v := ""
	for _, r := range e.doc.rules {
		if x, have := r.decls[p]; have && r.sel.matches(e) {
			v = x
		}
	}
	return v
}

var defaults = map[string]string{
	"opacity":   "1",
	"transform": "none",
	"display":   "block",
}

// ComputedStyle implements dom.Element.
//
// Lengths resolve to pixels.  An auto (or missing) offset, margin,
// or size resolves to 0px.
func (e *Element) ComputedStyle(p string) string {
	v := e.specified(p)
	axis := lengthAxis(p)
	if axis == "" {
		if v == "" {
			return defaults[p]
		}
		return v
	}
	return core.FormatNumber(e.resolveLength(v, axis)) + "px"
}

// lengthAxis returns the container dimension for a length property
// or the empty string for a property that isn't a length.
func lengthAxis(p string) string {
	switch p {
	case "left", "right", "width", "margin-left", "margin-right":
		return "width"
	case "top", "bottom", "height", "margin-top", "margin-bottom":
		return "height"
	}
	return ""
}

func (e *Element) resolveLength(v, axis string) float64 {
	v = strings.TrimSpace(v)
	if v == "" || v == "auto" {
		return 0
	}
	po := core.ParsePercentOffset(v)
	if po.Percent == 0 {
		return po.PixelOffset
	}
	size := 0.0
	if e.parent != nil {
		size = e.parent.resolveLength(e.parent.specified(axis), axis)
	}
	return po.Percent*size/100 + po.PixelOffset
}

// event is an in-memory dom.Event.
type event struct {
	typ     string
	target  *Element
	stopped bool
}

func (ev *event) Type() string        { return ev.typ }
func (ev *event) Target() dom.Element { return ev.target }
func (ev *event) StopPropagation()    { ev.stopped = true }

// Bubbles reports whether events of the given type bubble.
func Bubbles(typ string) bool {
	switch typ {
	case "mouseenter", "mouseleave":
		return false
	}
	return true
}

// Dispatch sends an event of the given type to the target through
// the capture, target, and (if the type bubbles) bubble phases.  It
// returns false if a listener stopped propagation.
func (e *Element) Dispatch(typ string) bool {
	ev := &event{
		typ:    typ,
		target: e,
	}

	path := make([]*Element, 0, 8)
	for a := e.parent; a != nil; a = a.parent {
		path = append(path, a)
	}

	// Capture: from the top down to the parent.
	for i := len(path) - 1; 0 <= i; i-- {
		if path[i].invoke(ev, true, false) {
			return false
		}
	}

	// Target: everything, in registration order.
	if e.invoke(ev, true, true) {
		return false
	}

	if Bubbles(typ) {
		for _, a := range path {
			if a.invoke(ev, false, true) {
				return false
			}
		}
	}

	return true
}

// Click dispatches a click to the element.
func (e *Element) Click() bool {
	return e.Dispatch("click")
}

// invoke calls the element's listeners for the event.  Capturing
// listeners are called if capture; others are called if bubble.  It
// returns true if propagation was stopped.
func (e *Element) invoke(ev *event, capture, bubble bool) bool {
	ls := make([]*listener, len(e.listeners))
	copy(ls, e.listeners)
	for _, l := range ls {
		if l.removed || l.typ != ev.typ {
			continue
		}
		if (l.capture && capture) || (!l.capture && bubble) {
			l.handler(ev)
		}
	}
	return ev.stopped
}
