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
	"sort"
)

// checkKeys fails on the first key in raw (in sorted order) that is not
// listed in known.
func checkKeys(raw map[string]interface{}, known ...string) error {
	allowed := make(map[string]bool, len(known))
	for _, key := range known {
		allowed[key] = true
	}
	var keys []string
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !allowed[key] {
			return unexpected(key)
		}
	}
	return nil
}

func stringField(raw map[string]interface{}, key string, required bool) (string, error) {
	value, ok := raw[key]
	if !ok || value == nil {
		if required {
			return "", missing(key)
		}
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", invalid(key, value)
	}
	return s, nil
}

func stringListField(raw map[string]interface{}, key string, required bool) ([]string, error) {
	value, ok := raw[key]
	if !ok || value == nil {
		if required {
			return nil, missing(key)
		}
		return []string{}, nil
	}
	switch list := value.(type) {
	case []string:
		return append([]string{}, list...), nil
	case []interface{}:
		values := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, invalid(key, item)
			}
			values = append(values, s)
		}
		return values, nil
	default:
		return nil, invalid(key, value)
	}
}

func mapListField(raw map[string]interface{}, key string, required bool) ([]map[string]interface{}, error) {
	value, ok := raw[key]
	if !ok || value == nil {
		if required {
			return nil, missing(key)
		}
		return nil, nil
	}
	switch list := value.(type) {
	case []map[string]interface{}:
		return list, nil
	case []interface{}:
		values := make([]map[string]interface{}, 0, len(list))
		for _, item := range list {
			m, ok := item.(map[string]interface{})
			if !ok {
				return nil, invalid(key, item)
			}
			values = append(values, m)
		}
		return values, nil
	default:
		return nil, invalid(key, value)
	}
}

func mapField(raw map[string]interface{}, key string) (map[string]interface{}, error) {
	value, ok := raw[key]
	if !ok || value == nil {
		return map[string]interface{}{}, nil
	}
	m, ok := value.(map[string]interface{})
	if !ok {
		return nil, invalid(key, value)
	}
	return m, nil
}
