package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Comcast/anima/core"
	"github.com/Comcast/anima/loader"
	"github.com/Comcast/anima/storage"
	. "github.com/Comcast/anima/util/testutil"
)

// Op is a request from a client.
//
// Only one of Event, Replay, Load, Put, or State should have value.
type Op struct {
	// Event is a pointer event to dispatch on the page.
	Event *EventOp `json:"event,omitempty" yaml:",omitempty"`

	// Replay starts every Timeline over.
	Replay bool `json:"replay,omitempty" yaml:",omitempty"`

	// Load gives the names of stored Timelines to put on a fresh
	// page.  An empty list means all of them.
	Load []string `json:"load,omitempty" yaml:",omitempty"`

	// Put stores a Timeline (given in any form that the loader
	// accepts).
	Put interface{} `json:"put,omitempty" yaml:",omitempty"`

	// State asks for the current State of each Timeline, which is
	// returned in States.
	State bool `json:"state,omitempty" yaml:",omitempty"`

	States map[string]string `json:"states,omitempty" yaml:",omitempty"`

	// Err will hold a string representation of an error (if any)
	// that results from processing this operation.
	Err string `json:"err,omitempty" yaml:",omitempty"`
}

// EventOp describes a pointer event.
type EventOp struct {
	Type     string `json:"type"`
	Selector string `json:"selector"`
}

// ParseOp reads an Op from JSON.
func ParseOp(js []byte) (*Op, error) {
	var op Op
	if err := json.Unmarshal(js, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

// Do executes the Op.  Any error is also recorded in Err.
func (o *Op) Do(ctx context.Context, s *Server) error {

	var err error
	switch {
	case o.Event != nil:
		err = s.Dispatch(ctx, o.Event.Type, o.Event.Selector)
	case o.Replay:
		err = s.Replay(ctx)
	case o.Load != nil:
		err = o.load(ctx, s)
	case o.Put != nil:
		err = o.put(ctx, s)
	case o.State:
		o.States, err = s.State(ctx)
	default:
		err = fmt.Errorf("not implemented: %s", JS(o))
	}

	if err != nil {
		o.Err = err.Error()
	}

	return err
}

func (o *Op) load(ctx context.Context, s *Server) error {
	if len(o.Load) == 0 {
		return s.LoadStored(ctx)
	}
	tls := make([]*core.Timeline, 0, len(o.Load))
	for _, name := range o.Load {
		tl, err := s.Store.Get(ctx, name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		tls = append(tls, tl)
	}
	return s.Load(ctx, tls)
}

func (o *Op) put(ctx context.Context, s *Server) error {
	tls, err := loader.Decode(o.Put)
	if err != nil {
		return err
	}
	for _, tl := range tls {
		if err = tl.Compile(true); err != nil {
			return err
		}
	}
	return storage.PutAll(ctx, s.Store, tls)
}
