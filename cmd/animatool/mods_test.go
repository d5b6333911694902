package main

import (
	"testing"

	"github.com/Comcast/anima/core"
)

func TestScaler(t *testing.T) {
	tl, err := core.MissouriTimeline()
	if err != nil {
		t.Fatal(err)
	}
	m := NewScaler()
	if err = m.Flags().Parse([]string{"-f", "2"}); err != nil {
		t.Fatal(err)
	}
	if err = m.F(tl); err != nil {
		t.Fatal(err)
	}
	l := tl.States["state17"].Listeners[1]
	if l.Delay != 4 {
		t.Fatal(l.Delay)
	}
	if d := l.Animations[".missouruh"].Duration; d != 800 {
		t.Fatal(d)
	}

	m.Factor = -1
	if err = m.F(tl); err == nil {
		t.Fatal("expected an error")
	}
}

func TestRenamer(t *testing.T) {
	tl, err := core.MissouriTimeline()
	if err != nil {
		t.Fatal(err)
	}
	m := NewRenamer()
	if err = m.Flags().Parse([]string{"-from", "state17", "-to", "dwell"}); err != nil {
		t.Fatal(err)
	}
	if err = m.F(tl); err != nil {
		t.Fatal(err)
	}
	if tl.InitialStateName != "dwell" {
		t.Fatal(tl.InitialStateName)
	}
	if _, have := tl.States["state17"]; have {
		t.Fatal("old name survived")
	}

	m.From, m.To = "nope", "whatever"
	if err = m.F(tl); err == nil {
		t.Fatal("expected an error")
	}

	m.From, m.To = "dwell", "state19"
	if err = m.F(tl); err == nil {
		t.Fatal("expected a collision")
	}
}
