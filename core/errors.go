package core

// These errors are user errors, not internal errors.  They describe
// something wrong with a Timeline.

import (
	"errors"
	"fmt"
)

// TimelineNotCompiled occurs when a Timeline is used before it has
// been Compile()ed.
type TimelineNotCompiled struct {
	Timeline *Timeline
}

func (e *TimelineNotCompiled) Error() string {
	return `timeline "` + e.Timeline.Label() + `" not compiled`
}

// UnknownState occurs when a listener's change_to_state (or the
// initial_state_name) isn't in the Timeline.
type UnknownState struct {
	Timeline  *Timeline
	StateName string
}

func (e *UnknownState) Error() string {
	return `state "` + e.StateName + `" not found in timeline "` + e.Timeline.Label() + `"`
}

// UnknownProperty occurs when an override names a property that isn't
// one of the recognized Properties.
type UnknownProperty struct {
	Name string
}

func (e *UnknownProperty) Error() string {
	return `unknown property "` + e.Name + `"`
}

// BadListenerType occurs when a listener_type isn't timer, click,
// mouseenter, or mouseleave.
type BadListenerType struct {
	StateName string
	Type      ListenerType
}

func (e *BadListenerType) Error() string {
	return `bad listener type "` + string(e.Type) + `" at state "` + e.StateName + `"`
}

// NilListener occurs when a State's listeners include a null.
type NilListener struct {
	StateName string
	Index     int
}

func (e *NilListener) Error() string {
	return fmt.Sprintf(`null listener #%d at state "%s"`, e.Index, e.StateName)
}

// BadValue occurs when a declared value can't be parsed for its
// property.
type BadValue struct {
	Property Property
	Value    interface{}
	Err      error
}

func (e *BadValue) Error() string {
	msg := fmt.Sprintf("bad value %#v for %s", e.Value, e.Property)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BadValue) Unwrap() error {
	return e.Err
}

// OverrideError locates a BadValue or UnknownProperty within a
// Timeline.
type OverrideError struct {
	StateName string
	Selector  string
	Err       error
}

func (e *OverrideError) Error() string {
	return `state "` + e.StateName + `" selector "` + e.Selector + `": ` + e.Err.Error()
}

func (e *OverrideError) Unwrap() error {
	return e.Err
}

// MissingRoot occurs when a Timeline has no root_element.
var MissingRoot = errors.New("timeline has no root_element")
