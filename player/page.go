package player

import (
	"github.com/Comcast/anima/core"
	"github.com/Comcast/anima/dom"
	"github.com/Comcast/anima/timers"
	"github.com/Comcast/anima/tween"
)

// RootNotFound occurs when a Timeline's root element isn't in the
// document.
type RootNotFound struct {
	Selector string
}

func (e *RootNotFound) Error() string {
	return `root element "` + e.Selector + `" not found`
}

// Page is a set of Players on one document.  Each Player is
// independent.  Activate activates them all and then signals that the
// page is ready.
type Page struct {
	Doc    dom.Document
	Sched  timers.Scheduler
	Engine tween.Engine

	// Observer, if not nil, is given to each Player.
	Observer func(*Transition)

	Debug bool

	Players []*Player
}

// NewPage makes an empty Page.
func NewPage(doc dom.Document, sched timers.Scheduler, engine tween.Engine) *Page {
	return &Page{
		Doc:     doc,
		Sched:   sched,
		Engine:  engine,
		Players: make([]*Player, 0, 4),
	}
}

// Add makes a Player for the Timeline.
func (pg *Page) Add(tl *core.Timeline) (*Player, error) {
	root := pg.Doc.QuerySelector(tl.RootElement)
	if root == nil {
		return nil, &RootNotFound{Selector: tl.RootElement}
	}
	p, err := NewPlayer(tl, root, pg.Sched, pg.Engine)
	if err != nil {
		return nil, err
	}
	p.Observer = pg.Observer
	p.Debug = pg.Debug
	p.Dispatcher.Debug = pg.Debug
	pg.Players = append(pg.Players, p)
	return p, nil
}

// Find returns the Player for the Timeline with the given label.
func (pg *Page) Find(label string) *Player {
	for _, p := range pg.Players {
		if p.Timeline.Label() == label {
			return p
		}
	}
	return nil
}

// Activate activates every Player and then removes dom.NotReady from
// every element that has it.
//
// Activate returns the first error, but every Player is activated
// regardless.
func (pg *Page) Activate() error {
	var first error
	for _, p := range pg.Players {
		if err := p.Activate(); err != nil && first == nil {
			first = err
		}
	}
	for _, e := range pg.Doc.QuerySelectorAll("." + dom.NotReady) {
		e.RemoveClass(dom.NotReady)
	}
	return first
}

// Stop stops every Player.
func (pg *Page) Stop() {
	for _, p := range pg.Players {
		p.Stop()
	}
}
