// Package storage persists Timeline definitions.
package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Comcast/anima/core"
)

// NotFound is returned by Get and Rem when there is no Timeline with
// the given name.
var NotFound = errors.New("not found")

// Store is a place to keep Timelines by name.
//
// The name of a Timeline is its Label.  Get returns a compiled
// Timeline.
type Store interface {
	Open(ctx context.Context) error

	Close(ctx context.Context) error

	// List returns the names of the stored Timelines in sorted
	// order.
	List(ctx context.Context) ([]string, error)

	Get(ctx context.Context, name string) (*core.Timeline, error)

	// Put replaces any Timeline with the same name.
	Put(ctx context.Context, tl *core.Timeline) error

	Rem(ctx context.Context, name string) error
}

// Encode serializes a Timeline for storage.
func Encode(tl *core.Timeline) ([]byte, error) {
	return json.Marshal(tl)
}

// Decode deserializes and compiles a stored Timeline.
func Decode(bs []byte) (*core.Timeline, error) {
	var tl core.Timeline
	if err := json.Unmarshal(bs, &tl); err != nil {
		return nil, err
	}
	if err := tl.Compile(true); err != nil {
		return nil, err
	}
	return &tl, nil
}

// PutAll stores each Timeline.
func PutAll(ctx context.Context, s Store, tls []*core.Timeline) error {
	for _, tl := range tls {
		if err := s.Put(ctx, tl); err != nil {
			return err
		}
	}
	return nil
}

// GetAll gets every stored Timeline.
func GetAll(ctx context.Context, s Store) ([]*core.Timeline, error) {
	names, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	acc := make([]*core.Timeline, 0, len(names))
	for _, name := range names {
		tl, err := s.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		acc = append(acc, tl)
	}
	return acc, nil
}
