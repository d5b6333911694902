// Package anima plays declarative state-machine animations.
//
// A Timeline (package 'core') binds a state machine to a DOM subtree.
// Each State gives target style values for selectors, and listeners
// (pointer events and timers) move the machine between States while
// the changed properties animate.  The runtime is in package
// 'player', and some command-line tools are in `cmd`.
package anima
