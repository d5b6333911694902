/* Copyright 2024 Comcast Cable Communications Management, LLC
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

package core

// Diff computes the property values that take elements from the
// "from" State to the "to" State.
//
// Every (selector, property) that "from" overrides is reverted to its
// value in the initial snapshot.  Then every (selector, property)
// that "to" overrides is set to its value in "to".  So the result is
// the union of the properties touched by either State, each resolved
// to its end value.
//
// A property that only "from" touches and that has no snapshot value
// (because its element was missing when the snapshot was taken) is
// left out.
func Diff(initial, from, to Overrides) Overrides {
	acc := make(Overrides, len(from)+len(to))

	for sel, ps := range from {
		for p := range ps {
			v, have := initial.Get(sel, p)
			if !have {
				continue
			}
			acc.Set(sel, p, v)
		}
	}

	for sel, ps := range to {
		for p, v := range ps {
			acc.Set(sel, p, v)
		}
	}

	return acc
}
