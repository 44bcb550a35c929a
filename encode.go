// Copyright (c) 2020 Siemens AG
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
//
// Author(s): Jonas Plum

package goartifacts

import (
	"reflect"

	"github.com/fatih/structs"
	"github.com/stoewer/go-strcase"
)

// fields that are left out of a record if empty
var optionalFields = map[string]bool{ // nolint:gochecknoglobals
	"doc":          true,
	"aliases":      true,
	"supported_os": true,
	"urls":         true,
	"labels":       true,
	"conditions":   true,
	"provides":     true,
	"regex":        true,
	"wmi_key":      true,
	"args":         true,
	"separator":    true,
	"base_object":  true,
}

// Record encodes the definition into the structure MakeArtifact reads, so
// it can be written as YAML or JSON again.
func (a *ArtifactDefinition) Record() map[string]interface{} {
	return lower(structs.Map(a)).(map[string]interface{})
}

// Record encodes a single source like it appears in a definition record.
func (s Source) Record() map[string]interface{} {
	return lower(structs.Map(s)).(map[string]interface{})
}

func lower(f interface{}) interface{} {
	switch f := f.(type) {
	case []interface{}:
		for i := range f {
			f[i] = lower(f[i])
		}
		return f
	case map[string]interface{}:
		lf := make(map[string]interface{}, len(f))
		for k, v := range f {
			key := strcase.SnakeCase(k)
			if optionalFields[key] && isEmptyValue(reflect.ValueOf(v)) {
				continue
			}
			lf[key] = lower(v)
		}
		return lf
	case SourceType:
		return string(f)
	default:
		return f
	}
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}
