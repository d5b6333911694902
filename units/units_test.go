package units

import (
	"math"
	"testing"

	"github.com/Comcast/anima/core"
	"github.com/Comcast/anima/dom/mem"
)

const page = `<html><body>
<div class="frame" style="width: 400px; height: 200px">
  <div class="shape" style="left: 25%; margin-left: 12px; right: 10px; top: 30px; width: 40px; height: 10%"></div>
  <div class="hidden" style="display: none; left: 10px"></div>
</div>
</body></html>`

func TestToRelativePercent(t *testing.T) {
	doc := mem.MustParseHTML(page)
	shape := doc.Find(".shape")

	tests := []struct {
		p      core.Property
		px     float64
		expect float64
	}{
		{core.Left, 100, 25},
		{core.Right, 40, 10},
		{core.Width, 400, 100},
		{core.Top, 50, 25},
		{core.Height, -20, -10},
		{core.Opacity, 20, 0},
	}
	for _, tc := range tests {
		if got := ToRelativePercent(shape, tc.p, tc.px); got != tc.expect {
			t.Fatalf("%s %v: got %v, expected %v", tc.p, tc.px, got, tc.expect)
		}
	}

	if got := ToRelativePercent(doc.Find(".hidden"), core.Left, 10); got != 0 {
		t.Fatal(got)
	}
}

func TestToRelativePercentTinyContainer(t *testing.T) {
	doc := mem.MustParseHTML(`<div class="a" style="width: 0px"><div class="b"></div></div>`)
	if got := ToRelativePercent(doc.Find(".b"), core.Width, 3); got != 300 {
		t.Fatal(got)
	}
}

// position returns the resolved offset of a side including its
// margin.
func position(t *testing.T, e *mem.Element, p core.Property) float64 {
	pos, ok := core.ParseLength(e.ComputedStyle(string(p)))
	if !ok {
		t.Fatalf("%s: %q", p, e.ComputedStyle(string(p)))
	}
	margin, _ := core.ParseLength(e.ComputedStyle(string(p.Margin())))
	return pos + margin
}

func TestConvertPositioning(t *testing.T) {
	doc := mem.MustParseHTML(page)
	shape := doc.Find(".shape")

	ConvertPositioning(shape, core.Props{
		core.Left:   core.PercentValue(50),
		core.Top:    core.PercentValue(10),
		core.Width:  core.CalcValue(10, 2),
		core.Height: core.PixelValue(5),
	})

	expect := map[string]string{
		"left":          "28.0000%",
		"margin-left":   "0px",
		"margin-right":  "0px",
		"right":         "auto",
		"top":           "15.0000%",
		"width":         "10.0000%",
		"height":        "20px",
		"margin-bottom": "0px",
	}
	for p, v := range expect {
		if got := shape.InlineStyle(p); got != v {
			t.Fatalf("%s: got %q, expected %q", p, got, v)
		}
	}
	// No inline bottom, so it's left alone.
	if got := shape.InlineStyle("bottom"); got != "" {
		t.Fatal(got)
	}
}

func TestConvertPositioningIdempotent(t *testing.T) {
	doc := mem.MustParseHTML(page)
	shape := doc.Find(".shape")

	props := core.Props{
		core.Left:  core.PercentValue(1),
		core.Top:   core.PixelValue(1),
		core.Width: core.PercentValue(1),
	}

	ConvertPositioning(shape, props)

	before := map[core.Property]float64{
		core.Left:  position(t, shape, core.Left),
		core.Top:   position(t, shape, core.Top),
		core.Width: position(t, shape, core.Width),
	}

	for i := 0; i < 3; i++ {
		ConvertPositioning(shape, props)
		for p, x := range before {
			y := position(t, shape, p)
			if 1e-4 < math.Abs(x-y)/math.Max(1, math.Abs(x)) {
				t.Fatalf("%s moved from %v to %v", p, x, y)
			}
		}
	}
}

func TestConvertPositioningKeepsPlace(t *testing.T) {
	doc := mem.MustParseHTML(page)
	shape := doc.Find(".shape")

	// 25% of 400 plus a 12px margin.
	if x := position(t, shape, core.Left); x != 112 {
		t.Fatal(x)
	}
	ConvertPositioning(shape, core.Props{core.Left: core.PixelValue(0)})
	if got := shape.InlineStyle("left"); got != "112px" {
		t.Fatal(got)
	}
	if x := position(t, shape, core.Left); x != 112 {
		t.Fatal(x)
	}
}
