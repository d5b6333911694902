//go:build js && wasm

// Package main plays the page's Timelines in a browser.
//
// The page defines a global anima_components array and loads
// anime.js.  Then:
//
//	GOOS=js GOARCH=wasm go build -o anima.wasm ./cmd/animawasm
//
// and run anima.wasm with wasm_exec.js.  The program exposes
// animaReplay() and animaState() to page scripts.
package main

import (
	"log"
	"syscall/js"

	"github.com/Comcast/anima/dom/jsdom"
	"github.com/Comcast/anima/loader"
	"github.com/Comcast/anima/player"
	"github.com/Comcast/anima/tween/animejs"
	"github.com/Comcast/anima/util"
)

func main() {
	global := js.Global()

	if global.Get("animaDebug").Truthy() {
		util.Logging = true
	}

	start := func() {
		if err := play(global); err != nil {
			log.Printf("anima: %v", err)
		}
	}

	doc := global.Get("document")
	if doc.Get("readyState").String() == "loading" {
		var f js.Func
		f = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			f.Release()
			start()
			return nil
		})
		doc.Call("addEventListener", "DOMContentLoaded", f)
	} else {
		start()
	}

	// Callbacks need the program to stay alive.
	select {}
}

func play(global js.Value) error {
	cs := global.Get(loader.ComponentsKey)
	if cs.IsUndefined() || cs.IsNull() {
		return &missing{loader.ComponentsKey}
	}
	src := global.Get("JSON").Call("stringify", cs).String()

	tls, err := loader.FromJSON("", []byte(src))
	if err != nil {
		return err
	}

	engine := animejs.NewEngine()
	if engine == nil {
		return &missing{"anime"}
	}

	pg := player.NewPage(jsdom.NewDocument(), jsdom.Scheduler{}, engine)
	pg.Debug = util.Logging
	pg.Observer = func(t *player.Transition) {
		util.Logf("anima: %s %s -> %s (%s)", t.Timeline, t.From, t.To, t.Trigger)
	}

	for _, tl := range tls {
		if _, err := pg.Add(tl); err != nil {
			// One broken Timeline doesn't stop the others.
			log.Printf("anima: %v", err)
		}
	}

	err = pg.Activate()

	exports(global, pg)

	return err
}

func exports(global js.Value, pg *player.Page) {
	global.Set("animaReplay", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if err := pg.Activate(); err != nil {
			return err.Error()
		}
		return nil
	}))

	global.Set("animaState", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		acc := make(map[string]interface{}, len(pg.Players))
		for _, p := range pg.Players {
			acc[p.Timeline.Label()] = p.Current()
		}
		return acc
	}))
}

type missing struct {
	name string
}

func (e *missing) Error() string {
	return "no global " + e.name
}
