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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_lower(t *testing.T) {
	type args struct {
		f interface{}
	}
	tests := []struct {
		name string
		args args
		want interface{}
	}{
		{"Map", args{map[string]interface{}{"KeyValuePairs": "B"}}, map[string]interface{}{"key_value_pairs": "B"}},
		{"List", args{[]interface{}{"A", "B"}}, []interface{}{"A", "B"}},
		{"Source type", args{SourceTypeWMI}, "WMI"},
		{"Optional empty", args{map[string]interface{}{"Separator": "", "Args": []string{}}}, map[string]interface{}{}},
		{"Required empty", args{map[string]interface{}{"Cmd": "", "Paths": []string{}}}, map[string]interface{}{"cmd": "", "paths": []string{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lower(tt.args.f); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("lower() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_isEmptyValue(t *testing.T) {
	var emptyInterface *int
	type args struct {
		v reflect.Value
	}
	tests := []struct {
		name string
		args args
		want bool
	}{
		{"List", args{reflect.ValueOf([]string{})}, true},
		{"Interface", args{reflect.ValueOf(emptyInterface)}, true},
		{"String", args{reflect.ValueOf("x")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEmptyValue(tt.args.v); got != tt.want {
				t.Errorf("isEmptyValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSourceRecord(t *testing.T) {
	source := NewWMISource("SELECT * FROM Win32_UserAccount", "", []SourceProvide{{Key: "users.sid", WMIKey: "SID"}}, nil)

	want := map[string]interface{}{
		"type": "WMI",
		"provides": []interface{}{
			map[string]interface{}{"key": "users.sid", "wmi_key": "SID"},
		},
		"attributes": map[string]interface{}{"query": "SELECT * FROM Win32_UserAccount"},
	}
	if diff := cmp.Diff(want, source.Record()); diff != "" {
		t.Errorf("Record() mismatch (-want +got):\n%s", diff)
	}
}

func TestArtifactDefinition_Record(t *testing.T) {
	for name, raw := range map[string]map[string]interface{}{
		"registry": registryRecord(),
		"full":     fullRecord(),
	} {
		t.Run(name, func(t *testing.T) {
			definition, err := MakeArtifact(raw)
			require.NoError(t, err)

			record := definition.Record()
			assert.Equal(t, raw["name"], record["name"])

			again, err := MakeArtifact(record)
			require.NoError(t, err)
			if diff := cmp.Diff(definition, again); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
