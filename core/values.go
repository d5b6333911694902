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

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind says what sort of thing a Value holds.
type Kind int

const (
	Number  Kind = iota // A unitless number (opacity).
	Percent             // 12.5%
	Pixel               // 30px (or a bare number for a length).
	Calc                // calc(P% ± Npx)
	Keyword             // auto, none, ...
	TransformList       // rotate(45deg) translateX(10px)
)

var kindNames = []string{"number", "percent", "pixel", "calc", "keyword", "transform"}

func (k Kind) String() string {
	if int(k) < 0 || len(kindNames) <= int(k) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Value is a tagged property value.
//
// Only the fields appropriate to the Kind are meaningful.
type Value struct {
	Kind Kind

	// Num is the value of a Number.
	Num float64

	// Percent is the percentage of a Percent or a Calc.
	Percent float64

	// Pixels is the length of a Pixel or the pixel term of a Calc.
	Pixels float64

	// Word is the keyword of a Keyword.
	Word string

	// Transform is the list of a TransformList.
	Transform Transforms
}

// NumberValue makes a Number.
func NumberValue(x float64) Value {
	return Value{Kind: Number, Num: x}
}

// PercentValue makes a Percent.
func PercentValue(p float64) Value {
	return Value{Kind: Percent, Percent: p}
}

// PixelValue makes a Pixel.
func PixelValue(px float64) Value {
	return Value{Kind: Pixel, Pixels: px}
}

// CalcValue makes a Calc.
func CalcValue(p, px float64) Value {
	return Value{Kind: Calc, Percent: p, Pixels: px}
}

// KeywordValue makes a Keyword.
func KeywordValue(w string) Value {
	return Value{Kind: Keyword, Word: w}
}

// TransformValue makes a TransformList.
func TransformValue(t Transforms) Value {
	return Value{Kind: TransformList, Transform: t}
}

// String renders the value in CSS syntax.
func (v Value) String() string {
	switch v.Kind {
	case Number:
		return FormatNumber(v.Num)
	case Percent:
		return FormatNumber(v.Percent) + "%"
	case Pixel:
		return FormatNumber(v.Pixels) + "px"
	case Calc:
		return FormatCalc(v.Percent, v.Pixels)
	case Keyword:
		return v.Word
	case TransformList:
		if len(v.Transform) == 0 {
			return "none"
		}
		return v.Transform.String()
	}
	return ""
}

// IsPercentMode reports whether the value is expressed relative to
// its container.
func (v Value) IsPercentMode() bool {
	return v.Kind == Percent || v.Kind == Calc
}

// PercentOffset returns the percent and pixel parts of the value.
//
// A Number is treated as pixels.  Anything else is zero.
func (v Value) PercentOffset() PercentOffset {
	switch v.Kind {
	case Percent:
		return PercentOffset{Percent: v.Percent}
	case Pixel:
		return PercentOffset{PixelOffset: v.Pixels}
	case Calc:
		return PercentOffset{Percent: v.Percent, PixelOffset: v.Pixels}
	case Number:
		return PercentOffset{PixelOffset: v.Num}
	}
	return PercentOffset{}
}

// Opacity returns the value as an opacity.  The second result is
// false if the value isn't a number.
func (v Value) Opacity() (float64, bool) {
	if v.Kind == Number {
		return v.Num, true
	}
	return 0, false
}

// MarshalJSON renders the value as its CSS string, except that a
// TransformList is rendered as a structured list.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Kind == TransformList {
		return json.Marshal(v.Transform)
	}
	return json.Marshal(v.String())
}

// MarshalYAML is the YAML analog of MarshalJSON.
func (v Value) MarshalYAML() (interface{}, error) {
	if v.Kind == TransformList {
		return v.Transform, nil
	}
	return v.String(), nil
}

var (
	lengthSyntax  = regexp.MustCompile(`^(-?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?)(px|%)?$`)
	calcSyntax    = regexp.MustCompile(`^calc\(\s*(-?[0-9]*\.?[0-9]+)%\s*([-+])\s*([0-9]*\.?[0-9]+)px\s*\)$`)
	keywordSyntax = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)
)

// ParseValue parses a declared value for the given property.
//
// The declared value is usually a string.  A transform can also be
// given as a list of {fn, args} maps, and an opacity can be given as
// a number.
func ParseValue(p Property, x interface{}) (Value, error) {
	if p == Transform {
		switch vv := x.(type) {
		case string:
			s := strings.TrimSpace(vv)
			if s == "none" || s == "" {
				return TransformValue(Transforms{}), nil
			}
			t, err := ParseTransform(s)
			if err != nil {
				return Value{}, &BadValue{Property: p, Value: x, Err: err}
			}
			return TransformValue(t), nil
		case []interface{}, []map[string]interface{}, Transforms:
			var t Transforms
			if err := Decode(vv, &t); err != nil {
				return Value{}, &BadValue{Property: p, Value: x, Err: err}
			}
			if err := t.Valid(); err != nil {
				return Value{}, &BadValue{Property: p, Value: x, Err: err}
			}
			return TransformValue(t), nil
		default:
			return Value{}, &BadValue{Property: p, Value: x}
		}
	}

	var s string
	switch vv := x.(type) {
	case string:
		s = strings.TrimSpace(vv)
	case float64:
		s = FormatNumber(vv)
	case int:
		s = strconv.Itoa(vv)
	case int64:
		s = strconv.FormatInt(vv, 10)
	default:
		return Value{}, &BadValue{Property: p, Value: x}
	}

	v, err := parseScalar(s)
	if err != nil {
		return Value{}, &BadValue{Property: p, Value: x, Err: err}
	}

	switch p {
	case Opacity:
		if v.Kind != Number {
			return Value{}, &BadValue{Property: p, Value: x}
		}
	default:
		if v.Kind == Number {
			// A bare number is a length in pixels.
			v = PixelValue(v.Num)
		}
	}

	return v, nil
}

// parseScalar parses everything except transforms.  A bare number
// comes back as a Number.
func parseScalar(s string) (Value, error) {
	if m := calcSyntax.FindStringSubmatch(s); m != nil {
		p, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Value{}, err
		}
		px, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return Value{}, err
		}
		if m[2] == "-" {
			px = -px
		}
		return CalcValue(p, px), nil
	}
	if m := lengthSyntax.FindStringSubmatch(s); m != nil {
		x, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Value{}, err
		}
		switch m[2] {
		case "%":
			return PercentValue(x), nil
		case "px":
			return PixelValue(x), nil
		default:
			return NumberValue(x), nil
		}
	}
	if keywordSyntax.MatchString(s) {
		return KeywordValue(s), nil
	}
	return Value{}, fmt.Errorf("unrecognized value %q", s)
}

// PercentOffset is a position or size expressed as a percentage of
// the container plus a pixel nudge.
type PercentOffset struct {
	Percent     float64 `json:"percent"`
	PixelOffset float64 `json:"pixelOffset"`
}

var (
	lenientCalcSyntax = regexp.MustCompile(`^calc\(\s*(-?[0-9.]*)%\s*([-+])\s*([0-9.]*)px\s*\)$`)
	percentSyntax     = regexp.MustCompile(`^(-?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?)\s*%$`)
)

// ParsePercentOffset parses "12.5%", "30px", "30", or
// "calc(P% ± Npx)".
//
// This function never fails: input that doesn't match any of those
// forms yields the zero PercentOffset.  Computed styles and other
// strings that weren't validated by Timeline.Compile come through
// here.
func ParsePercentOffset(s string) PercentOffset {
	s = strings.TrimSpace(s)
	if m := lenientCalcSyntax.FindStringSubmatch(s); m != nil {
		p, _ := leadingFloat(m[1])
		px, _ := leadingFloat(m[3])
		if m[2] == "-" {
			px = -px
		}
		return PercentOffset{Percent: p, PixelOffset: px}
	}
	if m := percentSyntax.FindStringSubmatch(s); m != nil {
		p, _ := strconv.ParseFloat(m[1], 64)
		return PercentOffset{Percent: p}
	}
	if strings.Contains(s, "%") {
		return PercentOffset{}
	}
	px, _ := leadingFloat(s)
	return PercentOffset{PixelOffset: px}
}

// FormatCalc renders a percent and a pixel offset as calc(P% ± Npx).
func FormatCalc(percent, offset float64) string {
	op := "+"
	if offset < 0 {
		op = "-"
		offset = -offset
	}
	return "calc(" + FormatNumber(percent) + "% " + op + " " + FormatNumber(offset) + "px)"
}

// FormatNumber renders a float with no exponent and no trailing
// zeros.
func FormatNumber(x float64) string {
	if x == 0 {
		return "0"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// ParseLength returns the leading number of a CSS length such as
// "120.5px".  Like JavaScript's parseFloat, it ignores any trailing
// unit.  The second result is false if there's no leading number.
func ParseLength(s string) (float64, bool) {
	return leadingFloat(strings.TrimSpace(s))
}

func leadingFloat(s string) (float64, bool) {
	end := 0
	seenDigit, seenDot := false, false
LOOP:
	for i, c := range s {
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case c == '.' && !seenDot:
			seenDot = true
		case (c == '-' || c == '+') && i == 0:
		default:
			break LOOP
		}
		end = i + 1
	}
	if !seenDigit {
		return 0, false
	}
	x, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return x, true
}
