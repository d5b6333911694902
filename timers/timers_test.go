package timers

import (
	"context"
	"log"
	"math/rand"
	"strconv"
	"sync"
	"testing"
	"time"
)

func TestTimersBasic(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ts, err := NewTimers(10)
	if err != nil {
		t.Fatal(err)
	}

	go func() {
		ts.Run(ctx)
	}()

	if !ts.Wait(time.Second) {
		t.Fatal("timers didn't start running")
	}

	var (
		lock  sync.Mutex
		heard = make([]string, 0, 8)
		done  = make(chan bool)
	)

	f := func(_ context.Context, t *Timer) {
		log.Printf("firing %s (late: %s)", t.Id, t.Executed.Sub(t.At))
		lock.Lock()
		heard = append(heard, t.Id)
		if t.Id == "6" {
			close(done)
		}
		lock.Unlock()
	}

	ft := func(id string, d time.Duration) {
		err := ts.Add(&Timer{
			Id: id,
			At: time.Now().Add(d),
			F:  f,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	ft("3", 200*time.Millisecond)
	ft("2", 100*time.Millisecond)
	ft("1", 20*time.Millisecond)
	ts.Rem("2")
	ft("5", 300*time.Millisecond)
	ft("4", 240*time.Millisecond)
	ts.Rem("5")
	ft("6", 500*time.Millisecond)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout")
	}

	want := []string{"1", "3", "4", "6"}

	lock.Lock()
	defer lock.Unlock()
	if len(heard) != len(want) {
		t.Fatalf("heard %v", heard)
	}
	for i, s := range heard {
		if want[i] != s {
			t.Fatalf("expected '%s' but got '%s' at %d", want[i], s, i)
		}
	}
}

func TestTimersErrors(t *testing.T) {
	ts, err := NewTimers(2)
	if err != nil {
		t.Fatal(err)
	}
	noop := func(context.Context, *Timer) {}
	at := time.Now().Add(time.Hour)

	if err = ts.Add(&Timer{Id: "a", At: at, F: noop}); err != nil {
		t.Fatal(err)
	}
	if err = ts.Add(&Timer{Id: "a", At: at, F: noop}); err != IdExists {
		t.Fatal(err)
	}
	if err = ts.Add(&Timer{Id: "b", At: at, F: noop}); err != nil {
		t.Fatal(err)
	}
	if err = ts.Add(&Timer{Id: "c", At: at, F: noop}); err != TooMany {
		t.Fatal(err)
	}
	if err = ts.Rem("z"); err != NotFound {
		t.Fatal(err)
	}
	if _, err = NewTimers(0); err == nil {
		t.Fatal("expected an error")
	}
	if err = NewVirtualTimers(time.Now()).Run(context.Background()); err != Virtual {
		t.Fatal(err)
	}
}

func TestVirtualOrder(t *testing.T) {
	ts := NewVirtualTimers(time.Unix(0, 0))
	start := ts.Now()

	var heard []string
	at := make(map[string]time.Duration)
	note := func(id string) func() {
		return func() {
			heard = append(heard, id)
			at[id] = ts.Now().Sub(start)
		}
	}

	ts.AfterFunc(30*time.Millisecond, note("c"))
	ts.AfterFunc(10*time.Millisecond, note("a"))
	cancelB := ts.AfterFunc(20*time.Millisecond, note("b"))
	ts.AfterFunc(10*time.Millisecond, note("a2"))
	ts.AfterFunc(10*time.Millisecond, func() {
		// Cancelled by an earlier callback at the same time.
		cancelB()
		// Chained timer that comes due within the same Advance.
		ts.AfterFunc(5*time.Millisecond, note("d"))
	})

	ts.Advance(9 * time.Millisecond)
	if len(heard) != 0 {
		t.Fatal(heard)
	}

	ts.Advance(100 * time.Millisecond)

	want := []string{"a", "a2", "d", "c"}
	if len(heard) != len(want) {
		t.Fatalf("heard %v", heard)
	}
	for i := range want {
		if heard[i] != want[i] {
			t.Fatalf("heard %v", heard)
		}
	}
	if at["d"] != 15*time.Millisecond {
		t.Fatal(at["d"])
	}
	if ts.Now().Sub(start) != 109*time.Millisecond {
		t.Fatal(ts.Now().Sub(start))
	}
	if ts.Pending() != 0 {
		t.Fatal(ts.Pending())
	}
}

func TestVirtualPost(t *testing.T) {
	ts := NewVirtualTimers(time.Unix(0, 0))
	n := 0
	ts.Post(func() { n++ })
	if n != 0 {
		t.Fatal(n)
	}
	ts.Flush()
	if n != 1 {
		t.Fatal(n)
	}
}

func TestTimersLag(t *testing.T) {
	testTimersLag(t, 20*time.Millisecond, 100)
}

func testTimersLag(t *testing.T, dMax time.Duration, n int) {
	timeout := 10 * dMax * time.Duration(n)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ts, err := NewTimers(n)
	if err != nil {
		t.Fatal(err)
	}

	go func() {
		ts.Run(ctx)
	}()

	if !ts.Wait(time.Second) {
		t.Fatal("timers didn't start running")
	}

	var totalLag time.Duration
	var totalFired int

	wg := sync.WaitGroup{}

	f := func(_ context.Context, t *Timer) {
		// All timers run on the Run goroutine, so no lock.
		totalLag += t.Executed.Sub(t.At)
		totalFired++
		wg.Done()
	}

	for i := 0; i < n; i++ {
		wg.Add(1)
		d := time.Duration(rand.Intn(int(dMax/time.Millisecond))) * time.Millisecond
		err := ts.Add(&Timer{
			Id: strconv.Itoa(i),
			At: time.Now().Add(d),
			F:  f,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	waited := make(chan bool)
	go func() {
		wg.Wait()
		close(waited)
	}()

	select {
	case <-time.NewTimer(timeout).C:
		t.Fatal("timeout")
	case <-waited:
	}

	if 0 < totalFired {
		log.Printf("dMax: %v fired: %d mean lag: %v", dMax, totalFired, totalLag/time.Duration(totalFired))
	}
}
