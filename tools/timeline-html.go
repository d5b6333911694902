package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Comcast/anima/core"
	"github.com/Comcast/anima/loader"
	. "github.com/Comcast/anima/util/testutil"

	md "github.com/russross/blackfriday/v2"
)

// RenderTimelineHTML writes an HTML fragment that documents the
// Timeline.  Doc strings are Markdown.
func RenderTimelineHTML(tl *core.Timeline, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	f(`<div class="timelineDoc doc">%s</div>`, md.Run([]byte(tl.Doc)))
	f(`<div class="root">root: <code>%s</code></div>`, entities(tl.RootElement))

	f(`<div class="states"><table>`)
	for _, name := range tl.StateNames() {
		s := tl.States[name]
		f(`<tr class="state"><td><span id="%s" class="stateName">%s</span></td><td>`, name, name)
		if s == nil {
			f(`</td></tr>`)
			continue
		}

		if s.Doc != "" {
			f(`<div class="stateDoc doc">%s</div>`, md.Run([]byte(s.Doc)))
		}

		if 0 < len(s.Overrides) {
			f(`<div class="overrides"><table>`)
			for _, sel := range s.Overrides.Selectors() {
				ps := s.Overrides[sel]
				for _, p := range ps.Names() {
					f(`<tr><td><code>%s</code></td><td>%s</td><td><code>%s</code></td></tr>`,
						entities(sel), p, entities(ps[p].String()))
				}
			}
			f(`</table></div>`)
		}

		if s.Terminal() {
			f(`<div class="terminal">terminal</div>`)
		}

		if 0 < len(s.Listeners) {
			f(`<div class="listeners">`)
			f(`<table>`)
			for i, l := range s.Listeners {
				if l == nil {
					continue
				}
				f(`<tr><td><div class="listenerNum">%d</div></td><td>`, i)
				f(`<table>`)
				f(`<tr><td></td><td>type</td><td><span class="listenerType">%s</span></td></tr>`, l.Type)
				if l.Type == core.Timer {
					f(`<tr><td></td><td>delay</td><td>%sms</td></tr>`, core.FormatNumber(l.Delay))
				} else if l.TargetSelector != "" {
					f(`<tr><td></td><td>target</td><td><code>%s</code></td></tr>`, entities(l.TargetSelector))
				}
				f(`<tr><td></td><td>to</td><td><a href="#%s"><code>%s</code></a></td></tr>`, l.ChangeToState, l.ChangeToState)
				if 0 < len(l.Animations) {
					f(`<tr><td></td><td>animations</td><td><code>%s</code></td></tr>`, entities(JS(l.Animations)))
				}
				f(`</table>`)
				f(`</td></tr>`)
			}
			f(`</table>`)
			f(`</div>`)
		}
		f(`</td></tr>`)
	}
	f(`</table></div>`)

	return nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

// RenderTimelinePage writes a complete HTML page that documents the
// Timeline.  With includeGraph, the page also has a Mermaid graph.
func RenderTimelinePage(tl *core.Timeline, out io.Writer, cssFiles []string, includeGraph bool) error {

	if cssFiles == nil {
		cssFiles = []string{"/static/timeline-html.css"}
	}

	js, err := json.Marshal(tl)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, entities(tl.Label()))

	if includeGraph {
		fmt.Fprintf(out, `
  <script src="https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"></script>
  <script>
  var thisTimeline = %s;
  mermaid.initialize({startOnLoad: true});
  </script>
`, js)
	}

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, entities(tl.Label()))

	if includeGraph {
		var g bytes.Buffer
		if err = Mermaid(tl, nopCloser{&g}, nil, "", ""); err != nil {
			return err
		}
		fmt.Fprintf(out, "<pre class=\"mermaid\" id=\"graph\">\n%s</pre>\n", g.String())
	}

	if err = RenderTimelineHTML(tl, out); err != nil {
		return err
	}

	fmt.Fprintf(out, `
  </body>
</html>
`)

	return nil
}

// ReadAndRenderTimelinePage loads the file's first Timeline and
// renders it with RenderTimelinePage.
func ReadAndRenderTimelinePage(filename string, cssFiles []string, out io.Writer, includeGraph bool) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tls, err := loader.FromFile(ctx, filename)
	if err != nil {
		return err
	}

	return RenderTimelinePage(tls[0], out, cssFiles, includeGraph)
}
