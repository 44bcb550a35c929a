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

// SourceProvide describes a piece of information a source provides, e.g. a
// registry value that yields a user name.
type SourceProvide struct {
	Key    string
	Regex  string
	WMIKey string `structs:"wmi_key"`
}

func decodeProvides(raw []map[string]interface{}) ([]SourceProvide, error) {
	provides := make([]SourceProvide, 0, len(raw))
	for _, entry := range raw {
		if err := checkKeys(entry, "key", "regex", "wmi_key"); err != nil {
			return nil, err
		}
		key, err := stringField(entry, "key", true)
		if err != nil {
			return nil, err
		}
		regex, err := stringField(entry, "regex", false)
		if err != nil {
			return nil, err
		}
		wmiKey, err := stringField(entry, "wmi_key", false)
		if err != nil {
			return nil, err
		}
		provides = append(provides, SourceProvide{Key: key, Regex: regex, WMIKey: wmiKey})
	}
	return provides, nil
}
