package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/Comcast/anima/core"
	"github.com/Comcast/anima/dom/mem"
	"github.com/Comcast/anima/player"
	"github.com/Comcast/anima/storage"
	"github.com/Comcast/anima/timers"
	"github.com/Comcast/anima/tween"
	tmem "github.com/Comcast/anima/tween/mem"
	"github.com/Comcast/anima/util"
)

// Server plays Timelines on an in-memory page and reports what
// happens to subscribers.
//
// Everything that touches the document runs on the Timers event
// loop.
type Server struct {
	Timers *timers.Timers
	Store  storage.Store

	// PageHTML is the markup that Load parses for each new page.
	PageHTML string

	Debug bool

	// doc and page belong to the event loop.
	doc  *mem.Document
	page *player.Page

	sync.Mutex
	subs map[string]chan *Message
}

// Message is what subscribers receive.  Only one field has a value.
type Message struct {
	Transition *player.Transition `json:"transition,omitempty"`
	Animate    *tween.Params      `json:"animate,omitempty"`
	Loaded     []string           `json:"loaded,omitempty"`
	Err        string             `json:"err,omitempty"`
}

// NewServer makes a Server.  Call Load to put Timelines on the page.
func NewServer(ts *timers.Timers, store storage.Store, pageHTML string) *Server {
	return &Server{
		Timers:   ts,
		Store:    store,
		PageHTML: pageHTML,
		subs:     make(map[string]chan *Message),
	}
}

func (s *Server) logf(format string, args ...interface{}) {
	util.Debugf(s.Debug, "Server", format, args...)
}

// call runs f on the event loop and waits for it to finish.
//
// Until Run starts, f runs in the caller's goroutine.
func (s *Server) call(ctx context.Context, f func() error) error {
	if !s.Timers.IsRunning() {
		return f()
	}
	done := make(chan error, 1)
	s.Timers.Post(func() {
		done <- f()
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// Subscribe registers a channel that receives Messages.  The returned
// function unsubscribes.
func (s *Server) Subscribe(id string, c chan *Message) func() {
	s.Lock()
	s.subs[id] = c
	s.Unlock()
	return func() {
		s.Lock()
		delete(s.subs, id)
		s.Unlock()
	}
}

// publish sends the Message to every subscriber without blocking.
func (s *Server) publish(m *Message) {
	s.Lock()
	defer s.Unlock()
	for id, c := range s.subs {
		select {
		case c <- m:
		default:
			log.Printf("subscriber %s blocked", id)
		}
	}
}

// Load parses a fresh page and activates the given Timelines on it.
// The previous page, if any, is stopped.
func (s *Server) Load(ctx context.Context, tls []*core.Timeline) error {
	doc, err := mem.ParseHTML(strings.NewReader(s.PageHTML))
	if err != nil {
		return err
	}

	return s.call(ctx, func() error {
		if s.page != nil {
			s.page.Stop()
		}

		engine := tween.Tee(tmem.NewEngine(s.Timers), tween.Watch(func(p *tween.Params) {
			s.publish(&Message{Animate: p.Copy()})
		}))

		pg := player.NewPage(doc, s.Timers, engine)
		pg.Debug = s.Debug
		pg.Observer = func(t *player.Transition) {
			s.logf("transition %s %s -> %s", t.Timeline, t.From, t.To)
			s.publish(&Message{Transition: t})
		}

		names := make([]string, 0, len(tls))
		for _, tl := range tls {
			if _, err := pg.Add(tl); err != nil {
				return err
			}
			names = append(names, tl.Label())
		}

		s.doc, s.page = doc, pg

		if err := pg.Activate(); err != nil {
			return err
		}

		s.publish(&Message{Loaded: names})
		return nil
	})
}

// LoadStored loads every Timeline in the Store.
func (s *Server) LoadStored(ctx context.Context) error {
	tls, err := storage.GetAll(ctx, s.Store)
	if err != nil {
		return err
	}
	return s.Load(ctx, tls)
}

// Replay reactivates every Player, which restores the initial
// property snapshot and starts over in each initial State.
func (s *Server) Replay(ctx context.Context) error {
	return s.call(ctx, func() error {
		if s.page == nil {
			return fmt.Errorf("nothing loaded")
		}
		return s.page.Activate()
	})
}

// Dispatch sends a pointer event to the first element matching the
// selector.
func (s *Server) Dispatch(ctx context.Context, typ, selector string) error {
	if !core.ListenerType(typ).IsPointer() {
		return fmt.Errorf("not a pointer event: '%s'", typ)
	}
	return s.call(ctx, func() error {
		if s.doc == nil {
			return fmt.Errorf("nothing loaded")
		}
		e := s.doc.Find(selector)
		if e == nil {
			return fmt.Errorf("no element for '%s'", selector)
		}
		e.Dispatch(typ)
		return nil
	})
}

// State reports the current State of each Player.
func (s *Server) State(ctx context.Context) (map[string]string, error) {
	acc := make(map[string]string)
	err := s.call(ctx, func() error {
		if s.page == nil {
			return nil
		}
		for _, p := range s.page.Players {
			if err := p.Err(); err != nil {
				acc[p.Timeline.Label()] = "error: " + err.Error()
				continue
			}
			acc[p.Timeline.Label()] = p.Current()
		}
		return nil
	})
	return acc, err
}

// Render writes the current document.
func (s *Server) Render(ctx context.Context, w io.Writer) error {
	return s.call(ctx, func() error {
		if s.doc == nil {
			return fmt.Errorf("nothing loaded")
		}
		return s.doc.Render(w)
	})
}
