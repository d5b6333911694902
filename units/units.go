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

// Package units converts between pixels and percentages of an
// element's layout container.
//
// See core.ParsePercentOffset and core.FormatCalc for the pure
// parsing half of this business.
package units

import (
	"math"
	"strconv"

	"github.com/Comcast/anima/core"
	"github.com/Comcast/anima/dom"
)

// ToRelativePercent converts a length in pixels to a percentage of
// the size of the element's container along the property's axis.
//
// The container size is floored at 1.  If the element has no
// container, the result is 0.
func ToRelativePercent(e dom.Element, p core.Property, px float64) float64 {
	parent := e.OffsetParent()
	if parent == nil {
		return 0
	}
	axis := p.Axis()
	if axis == "" {
		return 0
	}
	size, _ := core.ParseLength(parent.ComputedStyle(string(axis)))
	return 100 * px / math.Max(1, size)
}

// FormatPercent renders a percentage with four decimal places.
func FormatPercent(x float64) string {
	return strconv.FormatFloat(x, 'f', 4, 64) + "%"
}

// ConvertPositioning rewrites the element's inline positions and
// sizes so that each property in props is expressed in the same
// mode (percent or pixels) as the target value in props, without
// moving the element.
//
// For a side, the current computed side and its margin are folded
// into the side, both margins on that axis are zeroed, and an inline
// constraint on the opposite side is released (set to auto).
//
// Converting a property that's already in the target mode doesn't
// move anything (up to the four decimal places of a percentage).
func ConvertPositioning(e dom.Element, props core.Props) {
	for _, p := range core.Sides {
		v, have := props[p]
		if !have {
			continue
		}
		pos, _ := core.ParseLength(e.ComputedStyle(string(p)))
		margin, _ := core.ParseLength(e.ComputedStyle(string(p.Margin())))
		e.SetInlineStyle(string(p), format(e, p, pos+margin, v.IsPercentMode()))

		opp := p.Opposite()
		e.SetInlineStyle(string(p.Margin()), "0px")
		e.SetInlineStyle(string(opp.Margin()), "0px")
		if e.InlineStyle(string(opp)) != "" {
			e.SetInlineStyle(string(opp), "auto")
		}
	}

	for _, p := range core.Sizes {
		v, have := props[p]
		if !have {
			continue
		}
		size, _ := core.ParseLength(e.ComputedStyle(string(p)))
		e.SetInlineStyle(string(p), format(e, p, size, v.IsPercentMode()))
	}
}

func format(e dom.Element, p core.Property, px float64, percent bool) string {
	if percent {
		return FormatPercent(ToRelativePercent(e, p, px))
	}
	return core.FormatNumber(px) + "px"
}
