package mem

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Curve maps linear progress in [0, 1] to eased progress.
type Curve func(float64) float64

// Linear is no easing.
func Linear(t float64) float64 {
	return t
}

// CubicBezier returns a curve matching CSS cubic-bezier(x1, y1, x2,
// y2).
func CubicBezier(x1, y1, x2, y2 float64) Curve {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if 1 <= t {
			return 1
		}

		// Newton-Raphson first.
		u := t
		for i := 0; i < 8; i++ {
			x := sample(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				return sample(y1, y2, clamp(u))
			}
			dx := derivative(x1, x2, u)
			if math.Abs(dx) < 1e-7 {
				break
			}
			u -= x / dx
		}

		// Then bisection.
		lo, hi := 0.0, 1.0
		u = clamp(u)
		for i := 0; i < 20; i++ {
			x := sample(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				break
			}
			if 0 < x {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) / 2
		}
		return sample(y1, y2, u)
	}
}

// sample evaluates one coordinate of the curve with endpoints 0 and 1.
func sample(a, b, u float64) float64 {
	v := 1 - u
	return 3*v*v*u*a + 3*v*u*u*b + u*u*u
}

func derivative(a, b, u float64) float64 {
	v := 1 - u
	return 3*v*v*a + 6*v*u*(b-a) + 3*u*u*(1-b)
}

func clamp(u float64) float64 {
	return math.Max(0, math.Min(1, u))
}

var bezierSyntax = regexp.MustCompile(`^cubicBezier\(([^)]*)\)$`)

// ParseEasing understands "linear" and "cubicBezier(x1, y1, x2,
// y2)".  Anything else is linear.  The second result reports whether
// the easing was understood.
func ParseEasing(s string) (Curve, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "linear" {
		return Linear, true
	}
	m := bezierSyntax.FindStringSubmatch(s)
	if m == nil {
		return Linear, false
	}
	parts := strings.Split(m[1], ",")
	if len(parts) != 4 {
		return Linear, false
	}
	var xs [4]float64
	for i, p := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Linear, false
		}
		xs[i] = x
	}
	return CubicBezier(xs[0], xs[1], xs[2], xs[3]), true
}
