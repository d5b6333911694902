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

package tools

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"regexp"

	"github.com/Comcast/anima/loader"
	"github.com/Comcast/anima/util"
)

// Inline replaces '%inline("NAME")' with f(NAME).
func Inline(bs []byte, f func(string) ([]byte, error)) ([]byte, error) {
	p, err := regexp.Compile(`(?s)(.*?)(%inline *\("([^"]*)"\))`)
	if err != nil {
		return nil, err
	}
	i := 0
	acc := make([]byte, 0, len(bs))
	for {
		part := p.FindSubmatch(bs[i:])
		if part == nil {
			acc = append(acc, bs[i:]...)
			break
		}
		i += len(part[0])
		acc = append(acc, part[1]...)
		replacement, err := f(string(part[3]))
		if err != nil {
			return nil, err
		}
		util.Logf("inlining %s (%d bytes)", part[3], len(replacement))
		acc = append(acc, replacement...)
	}

	return acc, nil
}

// ReadPageWithTimelines reads a page template and InlineTimelines
// it with timeline files found in the page's directory.
func ReadPageWithTimelines(ctx context.Context, filename string) ([]byte, error) {
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return InlineTimelines(ctx, bs, filepath.Dir(filename))
}

// InlineTimelines replaces '%inline("NAME")' with the JSON array of
// the Timelines in the file NAME, which can be YAML, JSON, or
// JavaScript.  Relative names are relative to dir.
//
// A page can then say
//
//    const anima_components = %inline("missouri.yaml");
func InlineTimelines(ctx context.Context, bs []byte, dir string) ([]byte, error) {
	f := func(name string) ([]byte, error) {
		if !filepath.IsAbs(name) {
			name = filepath.Join(dir, name)
		}
		tls, err := loader.FromFile(ctx, name)
		if err != nil {
			return nil, err
		}
		return json.MarshalIndent(tls, "", "  ")
	}

	return Inline(bs, f)
}
