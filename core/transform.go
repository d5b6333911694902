package core

import (
	"errors"
	"fmt"
	"strings"
)

// TransformFn is one function of a CSS transform, like rotate(45deg).
type TransformFn struct {
	Fn   string   `json:"fn" yaml:"fn"`
	Args []string `json:"args" yaml:"args"`
}

// Transforms is an ordered list of transform functions.
type Transforms []TransformFn

// ParseTransform parses a CSS transform string like "rotate(45deg)
// translate(10px, 20px)".
//
// Timeline.Compile uses this function so that transforms authored as
// strings become structured lists once, at load time.
func ParseTransform(s string) (Transforms, error) {
	acc := make(Transforms, 0, 2)
	rest := strings.TrimSpace(s)
	for rest != "" {
		open := strings.Index(rest, "(")
		if open <= 0 {
			return nil, fmt.Errorf("bad transform %q", s)
		}
		closing := strings.Index(rest, ")")
		if closing < open {
			return nil, fmt.Errorf("unbalanced transform %q", s)
		}
		fn := strings.TrimSpace(rest[:open])
		if !keywordSyntax.MatchString(fn) {
			return nil, fmt.Errorf("bad transform function %q", fn)
		}
		var args []string
		for _, arg := range strings.Split(rest[open+1:closing], ",") {
			if arg = strings.TrimSpace(arg); arg != "" {
				args = append(args, arg)
			}
		}
		acc = append(acc, TransformFn{Fn: fn, Args: args})
		rest = strings.TrimSpace(rest[closing+1:])
	}
	return acc, nil
}

// Valid checks that every function has a name.
func (t Transforms) Valid() error {
	for i, f := range t {
		if f.Fn == "" {
			return fmt.Errorf("transform function %d has no name", i)
		}
		if !keywordSyntax.MatchString(f.Fn) {
			return errors.New("bad transform function " + f.Fn)
		}
	}
	return nil
}

func (t Transforms) String() string {
	parts := make([]string, len(t))
	for i, f := range t {
		parts[i] = f.Fn + "(" + strings.Join(f.Args, ", ") + ")"
	}
	return strings.Join(parts, " ")
}

// Channels flattens the transform into one parameter per function,
// which is what a tween engine wants.  A later function with the same
// name wins.
func (t Transforms) Channels() map[string]string {
	acc := make(map[string]string, len(t))
	for _, f := range t {
		acc[f.Fn] = strings.Join(f.Args, ", ")
	}
	return acc
}
