package core

// MissouriTimeline returns a small compiled Timeline in the shape of
// the "Missouri" schwa animation: a dwell timer, a hover that can cut
// the dwell short, and a mouseleave that ends in a terminal State.
//
// Tests and tools use this Timeline.
func MissouriTimeline() (*Timeline, error) {
	fast := func() *Timing {
		return &Timing{Delay: 0, Duration: 400, Easing: "ease-in-out"}
	}
	slow := func() *Timing {
		return &Timing{Delay: 0, Duration: 200, Easing: "ease-in-out"}
	}

	tl := &Timeline{
		Name:             "missouri",
		Doc:              "Fade the *schwa* in and out on hover.",
		InitialStateName: "state17",
		RootElement:      ".missouri-schwa",
		States: map[string]*State{
			"state17": {
				Doc: "Dwell, waiting for a hover.",
				OverrideSources: map[string]map[string]interface{}{
					".missouruh": {
						"opacity": "0.0",
						"top":     "26.04%",
					},
					".missouree": {
						"opacity": "0.0",
						"top":     "calc(47.79% + 19px)",
					},
					".westhalf": {
						"opacity": "0.9",
					},
				},
				Listeners: []*Listener{
					{
						Type:           MouseEnter,
						TargetSelector: ".missouruh",
						ChangeToState:  "state19",
						Animations: map[string]*Timing{
							".missouruh": fast(),
							".missouree": fast(),
							".westhalf":  slow(),
						},
					},
					{
						Type:          Timer,
						Delay:         2,
						ChangeToState: "state19",
						Animations: map[string]*Timing{
							".missouruh": fast(),
							".missouree": fast(),
							".westhalf":  slow(),
						},
					},
				},
			},
			"state19": {
				Doc: "Shown.  Leave the shape to finish.",
				OverrideSources: map[string]map[string]interface{}{
					".missouruhmask": {
						"height": "26px",
					},
					".westhalf": {
						"opacity": "0.9",
					},
				},
				Listeners: []*Listener{
					{
						Type:           MouseLeave,
						TargetSelector: ".combinedshape",
						ChangeToState:  "state20",
						Animations: map[string]*Timing{
							".missouruh":     fast(),
							".missouruhmask": fast(),
							".westhalf":      slow(),
						},
					},
				},
			},
			"state20": {
				Doc: "Done.",
				OverrideSources: map[string]map[string]interface{}{
					".westhalf": {
						"opacity":   "0.4",
						"transform": "rotate(45deg)",
					},
				},
				Listeners: []*Listener{},
			},
		},
	}

	if err := tl.Compile(true); err != nil {
		return nil, err
	}

	return tl, nil
}
