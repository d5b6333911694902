// Package main is a command-line tool for Timelines.
//
// Most subcommands read Timelines (YAML, which includes JSON) from
// stdin.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/Comcast/anima/core"
	"github.com/Comcast/anima/dom/mem"
	"github.com/Comcast/anima/loader"
	"github.com/Comcast/anima/tools"
	"github.com/Comcast/anima/tools/expect"

	"github.com/jsccast/yaml"
)

func main() {

	if len(os.Args) < 2 {
		Usage()
		os.Exit(1)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "yamltojson", "jstojson":
		pretty := false

		switch len(os.Args) {
		case 2:
		case 3:
			switch os.Args[2] {
			case "-p":
				pretty = true
			default:
				die(fmt.Errorf("unsupported args: %v", os.Args[1:]))
			}
		default:
			die(fmt.Errorf("unsupported args: %v", os.Args[1:]))
		}

		bs, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			die(err)
		}

		format := loader.YAML
		if os.Args[1] == "jstojson" {
			format = loader.JS
		}

		tls, err := loader.Parse(ctx, format, "", bs)
		if err != nil {
			die(err)
		}

		if pretty {
			bs, err = json.MarshalIndent(&tls, "  ", "  ")
		} else {
			bs, err = json.Marshal(&tls)
		}
		if err != nil {
			die(err)
		}

		write(bs)

	case "jsontoyaml":

		bs, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			die(err)
		}

		tls, err := loader.FromJSON("", bs)
		if err != nil {
			die(err)
		}

		if bs, err = yaml.Marshal(&tls); err != nil {
			die(err)
		}

		write(bs)

	case "bundle":
		flags := flag.NewFlagSet("bundle", flag.ExitOnError)
		var (
			page = flags.String("page", "page.html", `page template with %inline("TIMELINES")`)
			dir  = flags.String("dir", "", "directory for timeline files (default: the page's)")
		)
		flags.Parse(os.Args[2:])

		var (
			bs  []byte
			err error
		)
		if *dir == "" {
			bs, err = tools.ReadPageWithTimelines(ctx, *page)
		} else if bs, err = ioutil.ReadFile(*page); err == nil {
			bs, err = tools.InlineTimelines(ctx, bs, *dir)
		}
		if err != nil {
			die(err)
		}

		write(bs)

	case "expect":
		flags := flag.NewFlagSet("expect", flag.ExitOnError)
		var (
			page      = flags.String("page", "page.html", "page HTML")
			timelines = flags.String("timelines", "timelines", "directory of timeline files")
			verbose   = flags.Bool("v", false, "verbose")
		)
		flags.Parse(os.Args[2:])

		tls, err := loader.ReadDir(ctx, *timelines)
		if err != nil {
			die(err)
		}

		failures := 0
		for _, filename := range flags.Args() {
			s, err := expect.ReadSession(filename)
			if err != nil {
				die(err)
			}
			s.Verbose = s.Verbose || *verbose

			in, err := os.Open(*page)
			if err != nil {
				die(err)
			}
			doc, err := mem.ParseHTML(in)
			in.Close()
			if err != nil {
				die(err)
			}

			// A fresh copy of the Timelines for each Session.
			fresh := make([]*core.Timeline, len(tls))
			for i, tl := range tls {
				fresh[i] = tl.Copy()
				if err := fresh[i].Compile(true); err != nil {
					die(err)
				}
			}

			if err = s.Run(ctx, doc, fresh); err != nil {
				fmt.Printf("FAIL %s: %v\n", filename, err)
				failures++
				continue
			}
			fmt.Printf("ok   %s\n", filename)
		}
		if 0 < failures {
			os.Exit(1)
		}

	default:

		mod, have := Mods[os.Args[1]]
		if !have {
			fmt.Printf("Unknown subcommand \"%s\"\n", os.Args[1])
			Usage()
			os.Exit(1)
		}

		if err := mod.Flags().Parse(os.Args[2:]); err != nil {
			die(err)
		}

		bs, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			die(err)
		}

		if len(bs) == 0 {
			bs = []byte(DefaultTimelineYAML)
		}

		tls, err := loader.FromYAML("", bs)
		if err != nil {
			die(err)
		}

		for _, tl := range tls {
			if err := mod.F(tl); err != nil {
				die(err)
			}
		}

		if !mod.Emits() {
			return
		}

		if bs, err = yaml.Marshal(&tls); err != nil {
			die(err)
		}

		write(bs)
	}
}

func die(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func write(bs []byte) {
	if _, err := os.Stdout.Write(bs); err != nil {
		die(err)
	}
}

func Usage() {
	fmt.Printf("Subcommands:\n\n")
	for _, name := range ModNames() {
		mod := Mods[name]
		mod.Flags().Usage()
		fmt.Println("  " + mod.Doc())
		fmt.Println()
	}
	fmt.Println("Usage of yamltojson and jstojson:")
	fmt.Printf("  -p    pretty-print\n\n")
	fmt.Printf("Usage of jsontoyaml: (no arguments)\n\n")
	fmt.Printf("Usage of bundle: -page page.html [-dir DIR]\n\n")
	fmt.Printf("Usage of expect: -page page.html -timelines DIR SESSION...\n\n")
}

var DefaultTimelineYAML = `root_element: body
initial_state_name: start
states_flow:
  start:
    overrides: {}
    listeners: []
`
