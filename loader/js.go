package loader

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/Comcast/anima/core"

	"github.com/dop251/goja"
)

var (
	// InterruptedMessage is the string value of Interrupted.
	InterruptedMessage = "RuntimeError: timeout"

	// Interrupted is returned by Eval if the execution is
	// interrupted.
	Interrupted = errors.New(InterruptedMessage)

	// DefaultTimeout limits Eval when the context has no
	// deadline.
	DefaultTimeout = 5 * time.Second
)

// Eval runs the JavaScript source and returns its timeline data.
//
// The data is the value of a global anima_components if the source
// defines one (with var, let, or const), and the value of the
// source's last expression otherwise.
//
// The following properties are available from the runtime at _.
//
//    log(x): log x as JSON.
//    gensym(): generate a random string.
func Eval(ctx context.Context, name, src string) (interface{}, error) {
	if _, have := ctx.Deadline(); !have {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	p, err := goja.Compile(name, src, false)
	if err != nil {
		return nil, err
	}

	o := goja.New()

	env := map[string]interface{}{
		"gensym": func() interface{} {
			return core.Gensym(32)
		},
		"log": func(x interface{}) interface{} {
			switch vv := x.(type) {
			case goja.Value:
				x = vv.Export()
			}
			js, err := json.Marshal(&x)
			if err != nil {
				log.Println(name + " log (can't marshal: " + err.Error() + ")")
			} else {
				log.Println(name + " " + string(js))
			}
			return x
		},
	}
	o.Set("_", env)

	ictx, cancel := context.WithCancel(ctx)
	go func() {
		<-ictx.Done()
		// If cancel() is called after RunProgram returns, this
		// interruption is never seen.
		o.Interrupt(InterruptedMessage)
	}()

	v, err := o.RunProgram(p)
	if err == nil {
		// A lexical declaration isn't a property of the global
		// object, so ask by name.
		var c goja.Value
		c, err = o.RunString("typeof " + ComponentsKey + ` === "undefined" ? undefined : ` + ComponentsKey)
		if err == nil && !goja.IsUndefined(c) {
			v = c
		}
	}
	cancel()

	if err != nil {
		if _, is := err.(*goja.InterruptedError); is {
			return nil, Interrupted
		}
		return nil, err
	}

	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}

	// Round trip through JSON to get plain maps and float64s.
	js, err := json.Marshal(v.Export())
	if err != nil {
		return nil, err
	}
	var x interface{}
	if err = json.Unmarshal(js, &x); err != nil {
		return nil, err
	}
	return x, nil
}
