// Package timers provides the event loop that drives animation
// timelines.
//
// A Timers instance is a set of pending timers plus a queue of posted
// work.  All timer functions and all posted functions execute
// serially on one goroutine: the one calling Run (real time) or the
// one calling Advance (virtual time).  That's the single-threaded,
// cooperative model that the player depends on.  When one callback
// cancels another pending timer, that timer is removed from the
// backlog before it can run.
//
// The backlog is ordered by ascending trigger time, and timers with
// the same trigger time fire in the order they were added.  At any
// point in time, only one time.Timer exists to implement all managed
// timers.  A Timers instance is designed to manage a few hundred
// timers (and not many thousands of timers).
package timers

import (
	"context"
	"errors"
	"log"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

var (
	NotFound       = errors.New("not found")
	TooMany        = errors.New("too many")
	IdExists       = errors.New("id exists")
	AlreadyRunning = errors.New("already running")
	Virtual        = errors.New("virtual timers can't Run")
)

const (
	notRunning = int64(iota)
	running
)

// Scheduler is what the player needs from an event loop.
type Scheduler interface {
	// AfterFunc arranges for f to be called, on the loop, after
	// d.  The returned function cancels the call if it hasn't
	// happened yet.
	AfterFunc(d time.Duration, f func()) (cancel func())

	// Post arranges for f to be called on the loop as soon as
	// possible.
	Post(f func())

	// Now is the loop's current time.
	Now() time.Time
}

// Timer represents some work to be done in the future.
type Timer struct {
	// Id is a unique identifier across all timers managed by a
	// given Timers instance.
	Id string `json:"id"`

	// F is the work to be performed in the future.
	F func(context.Context, *Timer) `json:"-"`

	// At is the desired time to execute F.
	At time.Time `json:"time"`

	// Executed, which is the time that F was actually executed,
	// will be written when F is executed.
	Executed time.Time `json:"executed"`
}

// Timers is a managed set of Timer instances and posted work.
type Timers struct {
	Max   int  `json:"max"`
	Debug bool `json:"-"`

	sync.Mutex
	backlog []*Timer
	posted  []func()
	wake    chan bool
	ready   chan bool
	running int64
	count   uint64

	virtual bool
	now     time.Time
	ctx     context.Context
}

// NewTimers makes a new real-time instance with the given maximum
// number of pending timers.  Call Run to drive it.
func NewTimers(max int) (*Timers, error) {
	if max <= 0 {
		return nil, errors.New("max must be positive")
	}
	// Let's bring in some magic numbers.
	initial := max / 4
	if initial < 8 {
		initial = 8
	}
	return &Timers{
		Max:     max,
		backlog: make([]*Timer, 0, initial),
		wake:    make(chan bool, 1),
		ready:   make(chan bool, 1),
		ctx:     context.Background(),
	}, nil
}

// NewVirtualTimers makes an instance whose clock only moves when
// Advance is called.  Tests use this.
func NewVirtualTimers(start time.Time) *Timers {
	return &Timers{
		Max:     1 << 16,
		backlog: make([]*Timer, 0, 8),
		wake:    make(chan bool, 1),
		ready:   make(chan bool, 1),
		virtual: true,
		now:     start,
		ctx:     context.Background(),
	}
}

// Now returns the current time, which is virtual for virtual Timers.
func (ts *Timers) Now() time.Time {
	if ts.virtual {
		ts.Lock()
		now := ts.now
		ts.Unlock()
		return now
	}
	return time.Now()
}

// Run executes timers and posted work in the current goroutine until
// the context is done.
func (ts *Timers) Run(ctx context.Context) error {
	if ts.virtual {
		return Virtual
	}
	if !atomic.CompareAndSwapInt64(&ts.running, notRunning, running) {
		return AlreadyRunning
	}
	defer atomic.StoreInt64(&ts.running, notRunning)

	ts.Lock()
	ts.ctx = ctx
	ts.Unlock()

	select {
	case ts.ready <- true:
	default:
	}

	for {
		ts.runPosted(ctx)
		ts.runDue(ctx, time.Now())

		var (
			timer *time.Timer
			fire  <-chan time.Time
		)
		if d, have := ts.untilNext(time.Now()); have {
			ts.debugf("next timer in %s", d)
			timer = time.NewTimer(d)
			fire = timer.C
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case <-ts.wake:
		case <-fire:
		}

		if timer != nil {
			timer.Stop()
		}
	}
}

// IsRunning tries to report whether the Run method is currently
// executing.
func (ts *Timers) IsRunning() bool {
	return atomic.LoadInt64(&ts.running) == running
}

// Wait waits until Run has started (or the timeout expires).
func (ts *Timers) Wait(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-timer.C:
		return false
	case <-ts.ready:
		return true
	}
}

// Advance moves a virtual clock forward by d, executing (in order)
// every timer that comes due along the way.  Timers added by those
// timers also fire if they come due before the new time.
func (ts *Timers) Advance(d time.Duration) {
	ts.Lock()
	target := ts.now.Add(d)
	ts.Unlock()

	ts.runPosted(ts.ctx)
	for {
		ts.Lock()
		if len(ts.backlog) == 0 || ts.backlog[0].At.After(target) {
			ts.now = target
			ts.Unlock()
			break
		}
		t := ts.pop()
		if t.At.After(ts.now) {
			ts.now = t.At
		}
		ts.Unlock()

		ts.execute(ts.ctx, t)
		ts.runPosted(ts.ctx)
	}
	ts.runPosted(ts.ctx)
}

// Flush executes any posted work now.  For virtual Timers.
func (ts *Timers) Flush() {
	ts.runPosted(ts.ctx)
}

// Pending returns the number of pending timers.
func (ts *Timers) Pending() int {
	ts.Lock()
	n := len(ts.backlog)
	ts.Unlock()
	return n
}

// Add adds the given timer to the Timers instance.
func (ts *Timers) Add(t *Timer) error {
	ts.Lock()

	var err error
	if len(ts.backlog) == ts.Max {
		err = TooMany
	} else {
		for _, x := range ts.backlog {
			if x.Id == t.Id {
				err = IdExists
				break
			}
		}

		if err == nil {
			n := len(ts.backlog)
			i := sort.Search(n, func(i int) bool {
				return ts.backlog[i].At.After(t.At)
			})

			ts.debugf("add %s at %d n=%d", t.Id, i, n)
			// Try to avoid leaks ...
			switch i {
			case n:
				ts.backlog = append(ts.backlog, t)
			default:
				ts.backlog = append(ts.backlog, nil)
				copy(ts.backlog[i+1:], ts.backlog[i:])
				ts.backlog[i] = t
			}
		}
	}

	ts.Unlock()

	if err == nil {
		ts.poke()
	}

	return err
}

// Rem removes the given timer from the Timers instance.
func (ts *Timers) Rem(id string) error {
	ts.debugf("rem %s", id)

	ts.Lock()
	defer ts.Unlock()

	for i, t := range ts.backlog {
		if t.Id == id {
			// Try to avoid leaks.
			copy(ts.backlog[i:], ts.backlog[i+1:])
			ts.backlog[len(ts.backlog)-1] = nil
			ts.backlog = ts.backlog[:len(ts.backlog)-1]
			return nil
		}
	}

	return NotFound
}

// AfterFunc implements Scheduler.
func (ts *Timers) AfterFunc(d time.Duration, f func()) func() {
	id := "t" + strconv.FormatUint(atomic.AddUint64(&ts.count, 1), 10)
	err := ts.Add(&Timer{
		Id: id,
		At: ts.Now().Add(d),
		F: func(context.Context, *Timer) {
			f()
		},
	})
	if err != nil {
		log.Printf("Timers.AfterFunc %s: %v", id, err)
		return func() {}
	}
	return func() {
		ts.Rem(id)
	}
}

// Post implements Scheduler.
func (ts *Timers) Post(f func()) {
	ts.Lock()
	ts.posted = append(ts.posted, f)
	ts.Unlock()
	ts.poke()
}

func (ts *Timers) poke() {
	select {
	case ts.wake <- true:
	default:
	}
}

// pop removes the first timer.  Caller holds the lock.
func (ts *Timers) pop() *Timer {
	t := ts.backlog[0]
	ts.backlog[0] = nil
	ts.backlog = ts.backlog[1:]
	return t
}

func (ts *Timers) untilNext(now time.Time) (time.Duration, bool) {
	ts.Lock()
	defer ts.Unlock()
	if len(ts.backlog) == 0 {
		return 0, false
	}
	return ts.backlog[0].At.Sub(now), true
}

func (ts *Timers) runDue(ctx context.Context, now time.Time) {
	for {
		ts.Lock()
		if len(ts.backlog) == 0 || ts.backlog[0].At.After(now) {
			ts.Unlock()
			return
		}
		t := ts.pop()
		ts.Unlock()

		ts.execute(ctx, t)
		ts.runPosted(ctx)
	}
}

func (ts *Timers) execute(ctx context.Context, t *Timer) {
	t.Executed = ts.Now()
	ts.debugf("timer %s firing (late: %s)", t.Id, t.Executed.Sub(t.At))
	t.F(ctx, t)
}

func (ts *Timers) runPosted(ctx context.Context) {
	for {
		ts.Lock()
		if len(ts.posted) == 0 {
			ts.Unlock()
			return
		}
		f := ts.posted[0]
		ts.posted[0] = nil
		ts.posted = ts.posted[1:]
		ts.Unlock()

		f()
	}
}

func (ts *Timers) debugf(format string, args ...interface{}) {
	if ts.Debug {
		log.Printf("debug "+format, args...)
	}
}
