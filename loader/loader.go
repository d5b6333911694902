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

// Package loader reads Timeline definitions from YAML, JSON, and
// JavaScript sources.
//
// A source can hold a single Timeline, an array of them, or an object
// with an "anima_components" array.  Every Timeline that's returned
// has been compiled.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Comcast/anima/core"

	"github.com/jsccast/yaml"
)

// ComponentsKey is the name of the array of Timelines that a page
// script defines.
const ComponentsKey = "anima_components"

// Format is the syntax of a Timeline source.
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
	JS   Format = "js"
)

// UnknownFormat occurs when a filename's extension doesn't indicate
// a Format.
type UnknownFormat struct {
	Filename string
}

func (e *UnknownFormat) Error() string {
	return `unknown timeline format for "` + e.Filename + `"`
}

// FormatOf determines the Format from the filename's extension.
func FormatOf(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	case ".js":
		return JS, nil
	}
	return "", &UnknownFormat{filename}
}

// Parse reads Timelines in the given Format.  The name, if not
// empty, is given to a single unnamed Timeline.
func Parse(ctx context.Context, format Format, name string, bs []byte) ([]*core.Timeline, error) {
	var (
		x   interface{}
		err error
	)
	switch format {
	case YAML:
		err = yaml.Unmarshal(bs, &x)
	case JSON:
		err = json.Unmarshal(bs, &x)
	case JS:
		x, err = Eval(ctx, name, string(bs))
	default:
		return nil, &UnknownFormat{name}
	}
	if err != nil {
		return nil, err
	}

	tls, err := Decode(x)
	if err != nil {
		return nil, err
	}

	if len(tls) == 1 && tls[0].Name == "" {
		tls[0].Name = name
	}

	for i, tl := range tls {
		if err = tl.Compile(true); err != nil {
			return nil, fmt.Errorf("%w with '%s' (#%d)", err, name, i)
		}
	}

	return tls, nil
}

// FromYAML reads YAML Timelines.
func FromYAML(name string, bs []byte) ([]*core.Timeline, error) {
	return Parse(context.Background(), YAML, name, bs)
}

// FromJSON reads JSON Timelines.
func FromJSON(name string, bs []byte) ([]*core.Timeline, error) {
	return Parse(context.Background(), JSON, name, bs)
}

// FromJS evaluates JavaScript that produces Timelines.  See Eval.
func FromJS(ctx context.Context, name string, src []byte) ([]*core.Timeline, error) {
	return Parse(ctx, JS, name, src)
}

// Decode turns generic data into Timelines.
//
// The data can be a single Timeline, an array of Timelines, or an
// object with an "anima_components" array.
func Decode(x interface{}) ([]*core.Timeline, error) {
	switch vv := x.(type) {
	case []interface{}:
		if len(vv) == 0 {
			return nil, fmt.Errorf("no timelines")
		}
		var tls []*core.Timeline
		if err := core.Decode(vv, &tls); err != nil {
			return nil, err
		}
		for i, tl := range tls {
			if tl == nil {
				return nil, fmt.Errorf("timeline #%d is null", i)
			}
		}
		return tls, nil
	case map[string]interface{}:
		if cs, have := vv[ComponentsKey]; have {
			return Decode(cs)
		}
		var tl core.Timeline
		if err := core.Decode(vv, &tl); err != nil {
			return nil, err
		}
		return []*core.Timeline{&tl}, nil
	case nil:
		return nil, fmt.Errorf("no timelines")
	default:
		return nil, fmt.Errorf("can't get timelines from a %T", x)
	}
}

// FromFile reads Timelines from a file.  The Format comes from the
// extension, and the filename without its extension names a single
// unnamed Timeline.
func FromFile(ctx context.Context, filename string) ([]*core.Timeline, error) {
	format, err := FormatOf(filename)
	if err != nil {
		return nil, err
	}
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(ctx, format, baseName(filename), bs)
}

// ReadDir loads every Timeline file in the directory.  Files with
// other extensions are ignored.
func ReadDir(ctx context.Context, dir string) ([]*core.Timeline, error) {
	log.Printf("ReadDir %s", dir)

	files, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for _, fi := range files {
		if fi.IsDir() {
			continue
		}
		if _, err := FormatOf(fi.Name()); err != nil {
			continue
		}
		names = append(names, fi.Name())
	}
	sort.Strings(names)

	acc := make([]*core.Timeline, 0, len(names))
	for _, name := range names {
		tls, err := FromFile(ctx, filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		acc = append(acc, tls...)
	}

	log.Printf("Loaded %d timelines", len(acc))

	return acc, nil
}

func baseName(filename string) string {
	name := filepath.Base(filename)
	if i := strings.LastIndex(name, "."); 0 < i {
		name = name[0:i]
	}
	return name
}
