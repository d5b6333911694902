//go:build js && wasm

// Package animejs is a tween.Engine that drives anime.js
// (https://animejs.com) in a browser.
package animejs

import (
	"syscall/js"

	"github.com/Comcast/anima/dom"
	"github.com/Comcast/anima/dom/jsdom"
	"github.com/Comcast/anima/tween"
	"github.com/Comcast/anima/util"
)

// Engine calls the global anime function.
type Engine struct {
	anime js.Value
}

// NewEngine finds the global anime function.  Returns nil if there
// isn't one.
func NewEngine() *Engine {
	a := js.Global().Get("anime")
	if a.IsUndefined() || a.IsNull() {
		return nil
	}
	return &Engine{anime: a}
}

// Animate implements tween.Engine.
func (eng *Engine) Animate(p *tween.Params) {
	targets := make([]interface{}, 0, len(p.Targets))
	for _, e := range p.Targets {
		je, is := e.(*jsdom.Element)
		if !is {
			util.Logf("animejs: ignoring a %T", e)
			continue
		}
		targets = append(targets, je.Value)
	}
	if len(targets) == 0 {
		return
	}

	args := map[string]interface{}{
		"targets":  targets,
		"duration": p.Duration,
		"delay":    p.Delay,
	}
	if p.Easing != "" {
		args["easing"] = p.Easing
	}
	for name, v := range p.Props {
		args[name] = v
	}

	if p.Complete != nil {
		var complete js.Func
		complete = js.FuncOf(func(this js.Value, _ []js.Value) interface{} {
			complete.Release()
			p.Complete()
			return nil
		})
		args["complete"] = complete
	}

	eng.anime.Invoke(args)
}

// Remove implements tween.Engine.
func (eng *Engine) Remove(e dom.Element) {
	if je, is := e.(*jsdom.Element); is {
		eng.anime.Call("remove", je.Value)
	}
}
