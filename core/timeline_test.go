package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestMissouriTimeline(t *testing.T) {
	tl, err := MissouriTimeline()
	if err != nil {
		t.Fatal(err)
	}
	if !tl.Compiled() {
		t.Fatal("not compiled")
	}

	v, have := tl.States["state17"].Overrides.Get(".missouree", Top)
	if !have {
		t.Fatal("no top")
	}
	if v.Kind != Calc || v.Percent != 47.79 || v.Pixels != 19 {
		t.Fatal(v)
	}

	if names := tl.StateNames(); names[0] != "state17" || len(names) != 3 {
		t.Fatal(names)
	}

	if !tl.States["state20"].Terminal() {
		t.Fatal("state20 should be terminal")
	}

	keys := tl.SnapshotKeys()
	if ps := keys[".westhalf"]; len(ps) != 2 || ps[0] != Opacity || ps[1] != Transform {
		t.Fatal(ps)
	}
}

func TestCompileErrors(t *testing.T) {
	base := func() *Timeline {
		return &Timeline{
			InitialStateName: "a",
			RootElement:      ".root",
			States: map[string]*State{
				"a": {
					Listeners: []*Listener{
						{Type: Timer, Delay: 1, ChangeToState: "b"},
					},
				},
				"b": {
					OverrideSources: map[string]map[string]interface{}{
						".x": {"opacity": "0.5"},
					},
				},
			},
		}
	}

	if err := base().Compile(false); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		description string
		mod         func(tl *Timeline)
		check       func(err error) bool
	}{
		{
			description: "missing root",
			mod:         func(tl *Timeline) { tl.RootElement = "" },
			check:       func(err error) bool { return err == MissingRoot },
		},
		{
			description: "unknown initial state",
			mod:         func(tl *Timeline) { tl.InitialStateName = "z" },
			check: func(err error) bool {
				u, is := err.(*UnknownState)
				return is && u.StateName == "z"
			},
		},
		{
			description: "unknown target",
			mod:         func(tl *Timeline) { tl.States["a"].Listeners[0].ChangeToState = "nowhere" },
			check: func(err error) bool {
				u, is := err.(*UnknownState)
				return is && u.StateName == "nowhere"
			},
		},
		{
			description: "bad listener type",
			mod:         func(tl *Timeline) { tl.States["a"].Listeners[0].Type = "dblclick" },
			check: func(err error) bool {
				_, is := err.(*BadListenerType)
				return is
			},
		},
		{
			description: "null listener",
			mod: func(tl *Timeline) {
				tl.States["a"].Listeners = append(tl.States["a"].Listeners, nil)
			},
			check: func(err error) bool {
				n, is := err.(*NilListener)
				return is && n.StateName == "a" && n.Index == 1
			},
		},
		{
			description: "unknown property",
			mod: func(tl *Timeline) {
				tl.States["b"].OverrideSources[".x"]["color"] = "red"
			},
			check: func(err error) bool {
				var u *UnknownProperty
				return errors.As(err, &u) && u.Name == "color"
			},
		},
		{
			description: "bad value",
			mod: func(tl *Timeline) {
				tl.States["b"].OverrideSources[".x"]["opacity"] = "lots"
			},
			check: func(err error) bool {
				var b *BadValue
				return errors.As(err, &b) && b.Property == Opacity
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			tl := base()
			tc.mod(tl)
			err := tl.Compile(false)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !tc.check(err) {
				t.Fatalf("unexpected error %T: %v", err, err)
			}
			if tl.Compiled() {
				t.Fatal("shouldn't be compiled")
			}
		})
	}
}

func TestTimelineJSON(t *testing.T) {
	src := `{
  "initial_state_name": "state1",
  "root_element": ".missouri-schwa",
  "states_flow": {
    "state1": {
      "listeners": [
        {
          "animations": {".path": {"delay": 0, "duration": 200, "easing": "ease-in-out"}},
          "change_to_state": "state2",
          "delay": 1,
          "listener_type": "timer"
        }
      ],
      "overrides": {".path": {"opacity": "0.0"}}
    },
    "state2": {"listeners": [], "overrides": {}}
  }
}`
	var tl Timeline
	if err := json.Unmarshal([]byte(src), &tl); err != nil {
		t.Fatal(err)
	}
	if err := tl.Compile(false); err != nil {
		t.Fatal(err)
	}
	l := tl.States["state1"].Listeners[0]
	if l.Type != Timer || l.Delay != 1 || l.Animations[".path"].Total() != Millis(200) {
		t.Fatal(JSON(l))
	}
}

func TestCompileKeepsGoOverrides(t *testing.T) {
	tl := &Timeline{
		InitialStateName: "a",
		RootElement:      ".root",
		States: map[string]*State{
			"a": {Overrides: Overrides{".x": {Width: PercentValue(10)}}},
		},
	}
	if err := tl.Compile(false); err != nil {
		t.Fatal(err)
	}
	if s := tl.States["a"].OverrideSources[".x"]["width"]; s != "10%" {
		t.Fatal(s)
	}

	c := tl.Copy()
	if err := c.Compile(true); err != nil {
		t.Fatal(err)
	}
	if v, _ := c.States["a"].Overrides.Get(".x", Width); v.Percent != 10 {
		t.Fatal(v)
	}
}
