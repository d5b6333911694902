// Package util has logging switches shared by the anima packages.
package util

import "log"

// Logging is a clumsy switch that affects what Logf does.
//
// If Logging is true, then Logf calls log.Printf.  Library packages
// use Logf to report configuration mismatches (a selector that finds
// nothing, an unknown listener type) that they skip.
var Logging = false

// Logf calls log.Printf if Logging is true.
func Logf(format string, args ...interface{}) {
	if !Logging {
		return
	}
	log.Printf(format, args...)
}

// Debugf calls log.Printf with the component's name as a prefix if
// either on or Logging is true.
func Debugf(on bool, component, format string, args ...interface{}) {
	if !on && !Logging {
		return
	}
	log.Printf(component+" "+format, args...)
}
