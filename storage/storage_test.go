package storage

import (
	"context"
	"testing"

	"github.com/Comcast/anima/core"
)

func TestMemStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	if err := s.Open(ctx); err != nil {
		t.Fatal(err)
	}
	defer s.Close(ctx)

	tl, err := core.MissouriTimeline()
	if err != nil {
		t.Fatal(err)
	}

	if _, err = s.Get(ctx, "missouri"); err != NotFound {
		t.Fatal(err)
	}

	if err = PutAll(ctx, s, []*core.Timeline{tl}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "missouri")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Compiled() {
		t.Fatal("not compiled")
	}
	if got.InitialStateName != "state17" || len(got.States) != 3 {
		t.Fatal(got)
	}
	v, have := got.States["state17"].Overrides.Get(".missouree", core.Top)
	if !have || v.Kind != core.Calc || v.Pixels != 19 {
		t.Fatal(v)
	}

	// Changing what we got doesn't change what's stored.
	got.States["state17"].Listeners = nil
	again, err := s.Get(ctx, "missouri")
	if err != nil {
		t.Fatal(err)
	}
	if len(again.States["state17"].Listeners) != 2 {
		t.Fatal("store was modified")
	}

	all, err := GetAll(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatal(len(all))
	}

	if err = s.Rem(ctx, "missouri"); err != nil {
		t.Fatal(err)
	}
	if err = s.Rem(ctx, "missouri"); err != NotFound {
		t.Fatal(err)
	}
	names, _ := s.List(ctx)
	if len(names) != 0 {
		t.Fatal(names)
	}
}
