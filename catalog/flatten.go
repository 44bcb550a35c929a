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

package catalog

import (
	"fmt"
	"strconv"
)

// flatten stores every leaf of a nested record in flat under its dotted
// path, e.g. sources.0.attributes.paths.0.
func flatten(prefix string, nested interface{}, flat map[string]string) {
	switch nested := nested.(type) {
	case nil:
	case map[string]interface{}:
		for key, value := range nested {
			flatten(join(prefix, key), value, flat)
		}
	case []interface{}:
		for i, value := range nested {
			flatten(join(prefix, strconv.Itoa(i)), value, flat)
		}
	case []string:
		for i, value := range nested {
			flat[join(prefix, strconv.Itoa(i))] = value
		}
	default:
		flat[prefix] = fmt.Sprint(nested)
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
