package mem

import (
	"math"
	"testing"
	"time"

	"github.com/Comcast/anima/core"
	"github.com/Comcast/anima/dom"
	dmem "github.com/Comcast/anima/dom/mem"
	"github.com/Comcast/anima/timers"
	"github.com/Comcast/anima/tween"
)

func setup() (*dmem.Element, *timers.Timers, *Engine) {
	doc := dmem.MustParseHTML(`<div class="frame" style="width: 100px"><div class="x" style="left: 10%"></div></div>`)
	ts := timers.NewVirtualTimers(time.Unix(0, 0))
	return doc.Find(".x"), ts, NewEngine(ts)
}

func opacity(t *testing.T, e dom.Element) float64 {
	x, ok := core.ParseLength(e.ComputedStyle("opacity"))
	if !ok {
		t.Fatal(e.ComputedStyle("opacity"))
	}
	return x
}

func TestAnimate(t *testing.T) {
	x, ts, eng := setup()

	completed := 0
	eng.Animate(&tween.Params{
		Targets:  []dom.Element{x},
		Props:    map[string]string{"opacity": "0", "left": "30%", "rotate": "90deg"},
		Duration: 100,
		Easing:   "linear",
		Complete: func() { completed++ },
	})

	ts.Advance(50 * time.Millisecond)
	if o := opacity(t, x); o < 0.4 || 0.6 < o {
		t.Fatal(o)
	}
	if completed != 0 {
		t.Fatal(completed)
	}
	if eng.Running() != 1 {
		t.Fatal(eng.Running())
	}

	ts.Advance(60 * time.Millisecond)
	if completed != 1 {
		t.Fatal(completed)
	}
	if s := x.InlineStyle("opacity"); s != "0" {
		t.Fatal(s)
	}
	if s := x.InlineStyle("left"); s != "30%" {
		t.Fatal(s)
	}
	if s := x.InlineStyle("transform"); s != "rotate(90deg)" {
		t.Fatal(s)
	}
	if eng.Running() != 0 {
		t.Fatal(eng.Running())
	}
}

func TestAnimateImmediately(t *testing.T) {
	x, _, eng := setup()
	completed := false
	eng.Animate(&tween.Params{
		Targets:  []dom.Element{x},
		Props:    map[string]string{"opacity": "0.25", "height": "26px"},
		Complete: func() { completed = true },
	})
	if !completed {
		t.Fatal("not completed")
	}
	if x.InlineStyle("opacity") != "0.25" || x.InlineStyle("height") != "26px" {
		t.Fatal("not applied")
	}
}

func TestDelay(t *testing.T) {
	x, ts, eng := setup()
	eng.Animate(&tween.Params{
		Targets: []dom.Element{x},
		Props:   map[string]string{"opacity": "0"},
		Delay:   100,
	})
	ts.Advance(99 * time.Millisecond)
	if o := opacity(t, x); o != 1 {
		t.Fatal(o)
	}
	ts.Advance(time.Millisecond)
	if o := opacity(t, x); o != 0 {
		t.Fatal(o)
	}
}

func TestRemove(t *testing.T) {
	x, ts, eng := setup()
	completed := false
	eng.Animate(&tween.Params{
		Targets:  []dom.Element{x},
		Props:    map[string]string{"opacity": "0"},
		Duration: 100,
		Complete: func() { completed = true },
	})
	ts.Advance(40 * time.Millisecond)
	eng.Remove(x)
	o := opacity(t, x)
	ts.Advance(time.Second)
	if completed {
		t.Fatal("removed animation completed")
	}
	if opacity(t, x) != o {
		t.Fatal("removed animation kept going")
	}
	if o == 1 || o == 0 {
		t.Fatal(o)
	}
	if ts.Pending() != 0 {
		t.Fatal(ts.Pending())
	}
}

func TestKeepsOtherTransformFunctions(t *testing.T) {
	x, _, eng := setup()
	x.SetInlineStyle("transform", "translateX(5px) rotate(10deg)")
	eng.Animate(&tween.Params{
		Targets: []dom.Element{x},
		Props:   map[string]string{"rotate": "45deg", "scale": "2"},
	})
	if s := x.InlineStyle("transform"); s != "translateX(5px) rotate(45deg) scale(2)" {
		t.Fatal(s)
	}
}

func TestCurves(t *testing.T) {
	c, ok := ParseEasing(core.TranslateEasing("ease-in-out"))
	if !ok {
		t.Fatal("not understood")
	}
	if y := c(0.5); 1e-6 < math.Abs(y-0.5) {
		t.Fatal(y)
	}
	if c(0) != 0 || c(1) != 1 {
		t.Fatal("endpoints")
	}
	// Ease-in is slow at first.
	in, _ := ParseEasing(core.TranslateEasing("ease-in"))
	if y := in(0.25); 0.25 <= y {
		t.Fatal(y)
	}
	for i := 1; i < 10; i++ {
		a, b := in(float64(i-1)/10), in(float64(i)/10)
		if b < a {
			t.Fatalf("not monotonic at %d", i)
		}
	}

	if _, ok := ParseEasing("easeOutElastic(1, .5)"); ok {
		t.Fatal("shouldn't understand")
	}
	if _, ok := ParseEasing("cubicBezier(1, 2)"); ok {
		t.Fatal("shouldn't understand")
	}
}
