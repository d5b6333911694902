//go:build js && wasm

package jsdom

import (
	"syscall/js"
	"time"
)

// Scheduler is a timers.Scheduler backed by setTimeout.
type Scheduler struct{}

func (Scheduler) AfterFunc(d time.Duration, f func()) func() {
	var (
		fn   js.Func
		done bool
	)
	fn = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if !done {
			done = true
			fn.Release()
			f()
		}
		return nil
	})
	ms := float64(d) / float64(time.Millisecond)
	id := js.Global().Call("setTimeout", fn, ms)
	return func() {
		if done {
			return
		}
		done = true
		js.Global().Call("clearTimeout", id)
		fn.Release()
	}
}

func (s Scheduler) Post(f func()) {
	s.AfterFunc(0, f)
}

func (Scheduler) Now() time.Time {
	return time.Now()
}
