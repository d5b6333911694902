/* Copyright 2018-2024 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package core provides the core gear for declarative state-machine
// animations.  A Timeline describes a finite set of named States.
// Each State asserts property Overrides for elements under the
// Timeline's root element, and each State has Listeners (timers and
// pointer events) that, when fired, move the machine to another
// State.
//
// The primary type is Timeline, and the primary function is Diff.  A
// Timeline is usually loaded from YAML, JSON, or JavaScript (see
// package loader).  Declared property values are strings (or, for
// transforms, structured lists); Timeline.Compile parses them into
// typed Values so that nothing is parsed defensively at animation
// time.
//
// Given the Initial Property Snapshot (the implicit "state 0") and
// two States, Diff computes what must change to go from one State to
// the other.  This package does not touch a DOM or a tween engine.
// See packages player, dispatch, and listen for that.
//
// To use this package, make a Timeline.  Then Compile() it.  You
// might also want to Analyze() it (see package tools).  Then hand it
// to a player.Player.
package core
