package listen

import (
	"testing"
	"time"

	"github.com/Comcast/anima/core"
	"github.com/Comcast/anima/dom"
	"github.com/Comcast/anima/dom/mem"
	"github.com/Comcast/anima/timers"
)

const page = `<div class="root">
  <div class="combinedshape"><div class="part"></div></div>
  <div class="button"></div>
</div>`

func setup() (*mem.Document, *mem.Element, *timers.Timers) {
	doc := mem.MustParseHTML(page)
	return doc, doc.Find(".root"), timers.NewVirtualTimers(time.Unix(0, 0))
}

func TestTimer(t *testing.T) {
	_, root, ts := setup()
	n := 0
	Register(root, ts, &core.Listener{Type: core.Timer, Delay: 100}, func() { n++ })
	ts.Advance(99 * time.Millisecond)
	if n != 0 {
		t.Fatal(n)
	}
	ts.Advance(time.Millisecond)
	if n != 1 {
		t.Fatal(n)
	}
}

func TestTimerCancel(t *testing.T) {
	_, root, ts := setup()
	n := 0
	cancel := Register(root, ts, &core.Listener{Type: core.Timer, Delay: 100}, func() { n++ })
	ts.Advance(50 * time.Millisecond)
	cancel()
	ts.Advance(time.Second)
	if n != 0 {
		t.Fatal(n)
	}
	if ts.Pending() != 0 {
		t.Fatal(ts.Pending())
	}
}

func TestClick(t *testing.T) {
	_, root, ts := setup()
	button := root.Find(".button")

	outer := 0
	root.AddEventListener("click", false, func(dom.Event) { outer++ })

	n := 0
	cancel := Register(root, ts, &core.Listener{Type: core.Click, TargetSelector: ".button"}, func() { n++ })

	if !button.HasClass(dom.ListenersActive) || !button.HasClass(dom.ListenersActiveClick) {
		t.Fatal("marker classes missing")
	}

	button.Click()
	if n != 1 {
		t.Fatal(n)
	}
	if outer != 0 {
		t.Fatal("propagation wasn't stopped")
	}

	cancel()
	if button.HasClass(dom.ListenersActive) || button.HasClass(dom.ListenersActiveClick) {
		t.Fatal("marker classes remain")
	}
	if button.Listeners("click") != 0 {
		t.Fatal("handler remains")
	}
	button.Click()
	if n != 1 {
		t.Fatal(n)
	}
}

func TestClickOnDescendant(t *testing.T) {
	_, root, ts := setup()
	n := 0
	Register(root, ts, &core.Listener{Type: core.Click, TargetSelector: ".combinedshape"}, func() { n++ })
	root.Find(".part").Click()
	if n != 1 {
		t.Fatal(n)
	}
}

func TestHover(t *testing.T) {
	for _, typ := range []core.ListenerType{core.MouseEnter, core.MouseLeave} {
		t.Run(string(typ), func(t *testing.T) {
			_, root, ts := setup()
			shape := root.Find(".combinedshape")

			n := 0
			cancel := Register(root, ts, &core.Listener{Type: typ, TargetSelector: ".combinedshape"}, func() { n++ })

			if !shape.HasClass(dom.ListenersActive) || shape.HasClass(dom.ListenersActiveClick) {
				t.Fatal("wrong marker classes")
			}

			root.Find(".part").Dispatch(string(typ))
			if n != 0 {
				t.Fatal("fired for a descendant")
			}

			shape.Dispatch(string(typ))
			if n != 1 {
				t.Fatal(n)
			}

			cancel()
			if shape.HasClass(dom.ListenersActive) {
				t.Fatal("marker class remains")
			}
			shape.Dispatch(string(typ))
			if n != 1 {
				t.Fatal(n)
			}
		})
	}
}

func TestRootTarget(t *testing.T) {
	_, root, ts := setup()
	n := 0
	Register(root, ts, &core.Listener{Type: core.MouseEnter}, func() { n++ })
	if !root.HasClass(dom.ListenersActive) {
		t.Fatal("root not marked")
	}
	root.Dispatch("mouseenter")
	if n != 1 {
		t.Fatal(n)
	}
}

func TestMissingTarget(t *testing.T) {
	_, root, ts := setup()
	cancel := Register(root, ts, &core.Listener{Type: core.Click, TargetSelector: ".nope"}, func() {
		t.Fatal("fired")
	})
	cancel()
}
