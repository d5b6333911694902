package core

import "strings"

// Easings maps CSS easing keywords to the tween engine's cubic-Bézier
// syntax.
var Easings = map[string]string{
	"ease-in-out": "cubicBezier(0.42, 0, 0.58, 1)",
	"ease-in":     "cubicBezier(0.42, 0, 1, 1)",
	"ease-out":    "cubicBezier(0, 0, 0.58, 1)",
}

// TranslateEasing translates a CSS easing into the tween engine's
// vocabulary.
//
// Keywords in Easings are replaced, "cubic-bezier(...)" is renamed to
// "cubicBezier(...)", and anything else is returned (trimmed) as is.
func TranslateEasing(easing string) string {
	e := strings.TrimSpace(easing)
	if s, have := Easings[e]; have {
		return s
	}
	if strings.HasPrefix(e, "cubic-bezier") {
		return strings.Replace(e, "cubic-bezier", "cubicBezier", 1)
	}
	return e
}
