package loader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Comcast/anima/core"
)

func TestFromFileYAML(t *testing.T) {
	tls, err := FromFile(context.Background(), "testdata/missouri.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(tls) != 1 {
		t.Fatal(len(tls))
	}
	tl := tls[0]
	if tl.Name != "missouri" {
		t.Fatal(tl.Name)
	}
	if !tl.Compiled() {
		t.Fatal("not compiled")
	}

	s := tl.States["state17"]
	if len(s.Listeners) != 2 {
		t.Fatal(len(s.Listeners))
	}
	if s.Listeners[1].Type != core.Timer || s.Listeners[1].Delay != 2 {
		t.Fatal(s.Listeners[1])
	}

	v, have := s.Overrides.Get(".missouree", core.Top)
	if !have || v.Kind != core.Calc || v.Percent != 47.79 || v.Pixels != 19 {
		t.Fatal(v)
	}
	if v, _ = s.Overrides.Get(".missouruh", core.Opacity); v.Kind != core.Number || v.Num != 0 {
		t.Fatal(v)
	}

	v, _ = tl.States["state19"].Overrides.Get(".westhalf", core.Transform)
	if len(v.Transform) != 2 || v.Transform[1].Fn != "translateX" {
		t.Fatal(v)
	}
}

func TestFromFileJSON(t *testing.T) {
	tls, err := FromFile(context.Background(), "testdata/pair.json")
	if err != nil {
		t.Fatal(err)
	}
	if len(tls) != 2 {
		t.Fatal(len(tls))
	}
	if tls[0].Name != "first" || tls[1].Name != "second" {
		t.Fatal(tls[0].Name, tls[1].Name)
	}
	if tls[0].States["a"].Listeners[0].Animations[""].Duration != 100 {
		t.Fatal("timing")
	}
}

func TestFromJS(t *testing.T) {
	tls, err := FromFile(context.Background(), "testdata/page.js")
	if err != nil {
		t.Fatal(err)
	}
	if len(tls) != 1 {
		t.Fatal(len(tls))
	}
	tl := tls[0]
	if tl.RootElement != ".lamp" {
		t.Fatal(tl.RootElement)
	}
	l := tl.States["off"].Listeners[0]
	if l.Animations[".bulb"].Duration != 250 || l.Animations[".bulb"].Easing != "ease-in-out" {
		t.Fatal(l.Animations[".bulb"])
	}
	v, _ := tl.States["on"].Overrides.Get(".bulb", core.Transform)
	if len(v.Transform) != 1 || v.Transform[0].Fn != "scale" {
		t.Fatal(v)
	}
}

func TestEvalLastExpression(t *testing.T) {
	src := `({root_element: ".x", initial_state_name: "s", states_flow: {s: {overrides: {}, listeners: []}}})`
	tls, err := FromJS(context.Background(), "inline", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(tls) != 1 || tls[0].Name != "inline" {
		t.Fatal(tls)
	}
}

func TestEvalTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := Eval(ctx, "spin", `for (;;) {}`)
	if err != Interrupted {
		t.Fatal(err)
	}
}

func TestDecodeComponents(t *testing.T) {
	x := map[string]interface{}{
		ComponentsKey: []interface{}{
			map[string]interface{}{"root_element": ".a"},
			map[string]interface{}{"root_element": ".b"},
		},
	}
	tls, err := Decode(x)
	if err != nil {
		t.Fatal(err)
	}
	if len(tls) != 2 || tls[1].RootElement != ".b" {
		t.Fatal(tls)
	}

	if _, err = Decode("nope"); err == nil {
		t.Fatal("should have complained")
	}
	if _, err = Decode(nil); err == nil {
		t.Fatal("should have complained")
	}
}

func TestErrors(t *testing.T) {
	if _, err := FromFile(context.Background(), "testdata/notes.txt"); err == nil {
		t.Fatal("should have complained")
	} else {
		var uf *UnknownFormat
		if !errors.As(err, &uf) {
			t.Fatal(err)
		}
	}

	bad := `{"root_element": ".r", "initial_state_name": "s", "states_flow": {"s": {"overrides": {".a": {"colour": "red"}}, "listeners": []}}}`
	if _, err := FromJSON("bad", []byte(bad)); err == nil {
		t.Fatal("should have complained about the property")
	}

	missing := `{"root_element": ".r", "initial_state_name": "s", "states_flow": {"s": {"listeners": [{"listener_type": "timer", "change_to_state": "nowhere"}]}}}`
	if _, err := FromJSON("missing", []byte(missing)); err == nil {
		t.Fatal("should have complained about the state")
	}

	null := `{"initial_state_name":"a","root_element":".root","states_flow":{"a":{"listeners":[null],"overrides":{}}}}`
	if _, err := FromJSON("null", []byte(null)); err == nil {
		t.Fatal("should have complained about the null listener")
	} else {
		var nl *core.NilListener
		if !errors.As(err, &nl) {
			t.Fatal(err)
		}
	}

	if _, err := FromYAML("syntax", []byte("a: [")); err == nil {
		t.Fatal("should have complained about the syntax")
	}
}

func TestReadDir(t *testing.T) {
	tls, err := ReadDir(context.Background(), "testdata")
	if err != nil {
		t.Fatal(err)
	}
	// missouri.yaml, page.js, pair.json
	if len(tls) != 4 {
		t.Fatal(len(tls))
	}
	if tls[0].Name != "missouri" || tls[1].Name != "page" {
		t.Fatal(tls[0].Name, tls[1].Name)
	}
}
