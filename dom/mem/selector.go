package mem

import (
	"github.com/andybalholm/cascadia"
)

// selector matches Elements by way of their html.Nodes, so the
// Element's classes and inline style must be synced before matching.
type selector cascadia.Selector

// parseSelector compiles a CSS selector group.
func parseSelector(s string) (selector, error) {
	sel, err := cascadia.Compile(s)
	if err != nil {
		return nil, err
	}
	return selector(sel), nil
}

// matches reports whether e matches the selector.  Like the
// browser's, ancestors outside the queried subtree count.
func (s selector) matches(e *Element) bool {
	return cascadia.Selector(s).Match(e.node)
}
