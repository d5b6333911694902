package tween

import (
	"sort"
	"strings"

	"github.com/Comcast/anima/core"
	"github.com/Comcast/anima/dom"
)

var channels = map[string]bool{
	"translate":   true,
	"translateX":  true,
	"translateY":  true,
	"translateZ":  true,
	"rotate":      true,
	"rotateX":     true,
	"rotateY":     true,
	"rotateZ":     true,
	"scale":       true,
	"scaleX":      true,
	"scaleY":      true,
	"scaleZ":      true,
	"skew":        true,
	"skewX":       true,
	"skewY":       true,
	"perspective": true,
	"matrix":      true,
}

// IsChannel reports whether the name is a transform function that an
// engine animates as its own parameter.
func IsChannel(name string) bool {
	return channels[name]
}

// MergeTransform replaces or appends transform functions.  Existing
// functions keep their positions.  New ones are appended in name
// order.  A current value that doesn't parse is discarded.
func MergeTransform(current string, chs map[string]string) string {
	t, err := core.ParseTransform(current)
	if err != nil || strings.TrimSpace(current) == "none" {
		t = core.Transforms{}
	}

	seen := make(map[string]bool, len(chs))
	for i, fn := range t {
		if args, have := chs[fn.Fn]; have {
			t[i] = core.TransformFn{Fn: fn.Fn, Args: []string{args}}
			seen[fn.Fn] = true
		}
	}

	fresh := make([]string, 0, len(chs))
	for name := range chs {
		if !seen[name] {
			fresh = append(fresh, name)
		}
	}
	sort.Strings(fresh)
	for _, name := range fresh {
		t = append(t, core.TransformFn{Fn: name, Args: []string{chs[name]}})
	}

	if len(t) == 0 {
		return "none"
	}
	return t.String()
}

// SetStyles writes property values to the element's inline style.
// Transform channels are merged into the inline transform.
func SetStyles(e dom.Element, props map[string]string) {
	var chs map[string]string
	for name, v := range props {
		if IsChannel(name) {
			if chs == nil {
				chs = make(map[string]string)
			}
			chs[name] = v
			continue
		}
		e.SetInlineStyle(name, v)
	}
	if chs != nil {
		e.SetInlineStyle("transform", MergeTransform(e.InlineStyle("transform"), chs))
	}
}
