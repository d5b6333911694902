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

package core

import "sort"

// Property is the name of a CSS-like property that a State can
// override.
//
// The set of properties that a Timeline may declare is closed.  See
// ParseProperty.  The margin properties are never declared; the
// dispatcher emits them when it encodes an offset position.
type Property string

const (
	Opacity   Property = "opacity"
	Left      Property = "left"
	Right     Property = "right"
	Top       Property = "top"
	Bottom    Property = "bottom"
	Width     Property = "width"
	Height    Property = "height"
	Transform Property = "transform"

	MarginLeft   Property = "margin-left"
	MarginRight  Property = "margin-right"
	MarginTop    Property = "margin-top"
	MarginBottom Property = "margin-bottom"
)

var (
	// Sides are the directional properties in the order the
	// dispatcher processes them.
	Sides = []Property{Left, Right, Top, Bottom}

	// Sizes are the size properties in the order the dispatcher
	// processes them.
	Sizes = []Property{Height, Width}

	declarable = map[Property]bool{
		Opacity:   true,
		Left:      true,
		Right:     true,
		Top:       true,
		Bottom:    true,
		Width:     true,
		Height:    true,
		Transform: true,
	}

	opposites = map[Property]Property{
		Left:   Right,
		Right:  Left,
		Top:    Bottom,
		Bottom: Top,
	}

	axes = map[Property]Property{
		Left:   Width,
		Right:  Width,
		Width:  Width,
		Top:    Height,
		Bottom: Height,
		Height: Height,
	}

	margins = map[Property]Property{
		Left:   MarginLeft,
		Right:  MarginRight,
		Top:    MarginTop,
		Bottom: MarginBottom,
	}
)

// ParseProperty returns the Property with the given name, which must
// be one that a Timeline may declare.
func ParseProperty(name string) (Property, error) {
	p := Property(name)
	if !declarable[p] {
		return "", &UnknownProperty{Name: name}
	}
	return p, nil
}

// IsSide reports whether the property is left, right, top, or bottom.
func (p Property) IsSide() bool {
	_, is := opposites[p]
	return is
}

// IsSize reports whether the property is width or height.
func (p Property) IsSize() bool {
	return p == Width || p == Height
}

// Opposite returns the opposite side (left for right, etc.) or the
// empty Property if p isn't a side.
func (p Property) Opposite() Property {
	return opposites[p]
}

// Axis returns the container dimension (width or height) that
// governs the property, or the empty Property.
func (p Property) Axis() Property {
	return axes[p]
}

// Margin returns the margin property for a side.
func (p Property) Margin() Property {
	return margins[p]
}

// Props maps properties to values for one element.
type Props map[Property]Value

// Copy makes a shallow copy.  Values are immutable.
func (ps Props) Copy() Props {
	acc := make(Props, len(ps))
	for p, v := range ps {
		acc[p] = v
	}
	return acc
}

// Names returns the property names in sorted order.
func (ps Props) Names() []Property {
	acc := make([]Property, 0, len(ps))
	for p := range ps {
		acc = append(acc, p)
	}
	sort.Slice(acc, func(i, j int) bool { return acc[i] < acc[j] })
	return acc
}

// Overrides maps element selectors to Props.
//
// The empty selector denotes the root element.
type Overrides map[string]Props

// Copy makes a deep copy.
func (o Overrides) Copy() Overrides {
	acc := make(Overrides, len(o))
	for sel, ps := range o {
		acc[sel] = ps.Copy()
	}
	return acc
}

// Selectors returns the selectors in sorted order.
func (o Overrides) Selectors() []string {
	acc := make([]string, 0, len(o))
	for sel := range o {
		acc = append(acc, sel)
	}
	sort.Strings(acc)
	return acc
}

// Get returns the value, if any, for the selector and property.
func (o Overrides) Get(sel string, p Property) (Value, bool) {
	ps, have := o[sel]
	if !have {
		return Value{}, false
	}
	v, have := ps[p]
	return v, have
}

// Set sets the value for the selector and property.
func (o Overrides) Set(sel string, p Property, v Value) {
	ps, have := o[sel]
	if !have {
		ps = make(Props)
		o[sel] = ps
	}
	ps[p] = v
}

// Sources renders the Overrides in their declared (string) form.
func (o Overrides) Sources() map[string]map[string]interface{} {
	acc := make(map[string]map[string]interface{}, len(o))
	for sel, ps := range o {
		m := make(map[string]interface{}, len(ps))
		for p, v := range ps {
			m[string(p)] = v.String()
		}
		acc[sel] = m
	}
	return acc
}
