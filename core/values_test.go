package core

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParsePercentOffset(t *testing.T) {
	tests := []struct {
		in     string
		expect PercentOffset
	}{
		{"12.5%", PercentOffset{12.5, 0}},
		{"30px", PercentOffset{0, 30}},
		{"30", PercentOffset{0, 30}},
		{"-4px", PercentOffset{0, -4}},
		{"calc(47.79% + 19px)", PercentOffset{47.79, 19}},
		{"calc(10% - 3px)", PercentOffset{10, -3}},
		{"calc( 10%-3px)", PercentOffset{10, -3}},
		{"auto", PercentOffset{}},
		{"", PercentOffset{}},
		{"calc(nonsense)", PercentOffset{}},
		{"calc(12% * 2)", PercentOffset{}},
		{"calc(10% + 3px) junk", PercentOffset{}},
		{"12%%", PercentOffset{}},
		{"50 %", PercentOffset{50, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := ParsePercentOffset(tc.in); got != tc.expect {
				t.Fatalf("got %#v, expected %#v", got, tc.expect)
			}
		})
	}
}

func TestFormatCalcRoundTrip(t *testing.T) {
	pairs := []PercentOffset{
		{0, 0},
		{0, 19},
		{47.79, 0},
		{47.79, 19},
		{10, -3},
		{33.3333, -0.5},
	}
	for _, po := range pairs {
		s := FormatCalc(po.Percent, po.PixelOffset)
		got := ParsePercentOffset(s)
		if math.Abs(got.Percent-po.Percent) > 1e-9 || math.Abs(got.PixelOffset-po.PixelOffset) > 1e-9 {
			t.Fatalf("%s: got %#v, expected %#v", s, got, po)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		p       Property
		in      interface{}
		kind    Kind
		css     string
		failure bool
	}{
		{p: Opacity, in: "0.0", kind: Number, css: "0"},
		{p: Opacity, in: 0.9, kind: Number, css: "0.9"},
		{p: Opacity, in: "50%", failure: true},
		{p: Top, in: "26.04%", kind: Percent, css: "26.04%"},
		{p: Top, in: "calc(47.79% + 19px)", kind: Calc, css: "calc(47.79% + 19px)"},
		{p: Height, in: "26px", kind: Pixel, css: "26px"},
		{p: Height, in: "26", kind: Pixel, css: "26px"},
		{p: Height, in: 26, kind: Pixel, css: "26px"},
		{p: Left, in: "auto", kind: Keyword, css: "auto"},
		{p: Left, in: "12 px", failure: true},
		{p: Left, in: true, failure: true},
		{p: Transform, in: "rotate(45deg)", kind: TransformList, css: "rotate(45deg)"},
		{p: Transform, in: "none", kind: TransformList, css: "none"},
		{p: Transform, in: "rotate(45deg", failure: true},
		{
			p: Transform,
			in: []interface{}{
				map[string]interface{}{"fn": "translate", "args": []interface{}{"10px", "20px"}},
			},
			kind: TransformList,
			css:  "translate(10px, 20px)",
		},
	}
	for _, tc := range tests {
		t.Run(string(tc.p)+" "+JSON(tc.in), func(t *testing.T) {
			v, err := ParseValue(tc.p, tc.in)
			if tc.failure {
				if err == nil {
					t.Fatalf("expected an error but got %v", v)
				}
				if _, is := err.(*BadValue); !is {
					t.Fatalf("expected a BadValue but got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if v.Kind != tc.kind {
				t.Fatalf("kind %s, expected %s", v.Kind, tc.kind)
			}
			if v.String() != tc.css {
				t.Fatalf("css %q, expected %q", v.String(), tc.css)
			}
		})
	}
}

func TestParseTransform(t *testing.T) {
	tr, err := ParseTransform("rotate(45deg) translate( 10px , 20px ) scale(2)")
	if err != nil {
		t.Fatal(err)
	}
	if len(tr) != 3 {
		t.Fatal(tr)
	}
	chs := tr.Channels()
	if chs["rotate"] != "45deg" || chs["translate"] != "10px, 20px" || chs["scale"] != "2" {
		t.Fatal(chs)
	}
	if _, err := ParseTransform("(45deg)"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestTranslateEasing(t *testing.T) {
	tests := map[string]string{
		"ease-in-out":                   "cubicBezier(0.42, 0, 0.58, 1)",
		" ease-in ":                     "cubicBezier(0.42, 0, 1, 1)",
		"ease-out":                      "cubicBezier(0, 0, 0.58, 1)",
		"cubic-bezier(0.1, 0.2, 0.3, 1)": "cubicBezier(0.1, 0.2, 0.3, 1)",
		"linear":                        "linear",
		"easeOutElastic(1, .5)":         "easeOutElastic(1, .5)",
	}
	for in, expect := range tests {
		if got := TranslateEasing(in); got != expect {
			t.Fatalf("%q: got %q, expected %q", in, got, expect)
		}
	}
}

func TestValueJSON(t *testing.T) {
	ps := Props{
		Top:       CalcValue(10, -3),
		Transform: TransformValue(Transforms{{Fn: "rotate", Args: []string{"0deg"}}}),
	}
	js, err := json.Marshal(ps)
	if err != nil {
		t.Fatal(err)
	}
	expect := `{"top":"calc(10% - 3px)","transform":[{"fn":"rotate","args":["0deg"]}]}`
	if string(js) != expect {
		t.Fatalf("got %s", js)
	}
}

func JSON(x interface{}) string {
	js, err := json.Marshal(x)
	if err != nil {
		return err.Error()
	}
	return string(js)
}
