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
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registryRecord() map[string]interface{} {
	return map[string]interface{}{
		"name":         "WindowsRunKeys",
		"aliases":      []interface{}{"RunKeys"},
		"supported_os": []interface{}{"Windows"},
		"sources": []interface{}{
			map[string]interface{}{
				"type": "REGISTRY_KEY",
				"attributes": map[string]interface{}{
					"keys": []interface{}{
						`HKEY_USERS\%%users.sid%%\Software\Microsoft\Windows\CurrentVersion\Run\*`,
						`HKEY_LOCAL_MACHINE\Software\Microsoft\Windows\CurrentVersion\Run\*`,
					},
				},
			},
		},
	}
}

func fullRecord() map[string]interface{} {
	return map[string]interface{}{
		"name":         "Everything",
		"doc":          "One source of every type.",
		"supported_os": []interface{}{"Windows", "Linux"},
		"urls":         []interface{}{"https://artifacts-kb.readthedocs.io"},
		"labels":       []interface{}{"System"},
		"sources": []interface{}{
			map[string]interface{}{
				"type":       "ARTIFACT_GROUP",
				"attributes": map[string]interface{}{"names": []interface{}{"WindowsRunKeys", "LinuxPasswd"}},
			},
			map[string]interface{}{
				"type":         "COMMAND",
				"supported_os": []interface{}{"Linux"},
				"attributes": map[string]interface{}{
					"cmd":  "run %%tool%%",
					"args": []interface{}{"--user", "%%username%%"},
				},
			},
			map[string]interface{}{
				"type": "FILE",
				"provides": []interface{}{
					map[string]interface{}{"key": "users.username", "regex": "^([^:]+):"},
				},
				"attributes": map[string]interface{}{
					"paths":     []interface{}{"/etc/passwd", "%%users.homedir%%/.bash_history"},
					"separator": "/",
				},
			},
			map[string]interface{}{
				"type":       "DIRECTORY",
				"attributes": map[string]interface{}{"paths": []interface{}{"%%environ_systemroot%%\\Tasks"}},
			},
			map[string]interface{}{
				"type":       "PATH",
				"attributes": map[string]interface{}{"paths": []interface{}{"/usr/bin"}},
			},
			map[string]interface{}{
				"type": "REGISTRY_VALUE",
				"provides": []interface{}{
					map[string]interface{}{"key": "environ_systemroot"},
				},
				"attributes": map[string]interface{}{
					"key_value_pairs": []interface{}{
						map[string]interface{}{"key": "HKLM\\%%hive%%", "value": "%%notavar%%"},
					},
				},
			},
			map[string]interface{}{
				"type": "WMI",
				"provides": []interface{}{
					map[string]interface{}{"key": "users.sid", "wmi_key": "SID"},
				},
				"attributes": map[string]interface{}{
					"query":       "SELECT * FROM %%class%%",
					"base_object": "winmgmts:\\root\\cimv2",
				},
			},
		},
	}
}

func TestMakeArtifact(t *testing.T) {
	definition, err := MakeArtifact(fullRecord())
	require.NoError(t, err)

	assert.Equal(t, "Everything", definition.Name)
	assert.Equal(t, "One source of every type.", definition.Doc)
	assert.Equal(t, []string{}, definition.Aliases)
	assert.Equal(t, []string{"Windows", "Linux"}, definition.SupportedOS)
	assert.Equal(t, []string{"System"}, definition.Labels)
	require.Len(t, definition.Sources, 7)

	var types []SourceType
	for _, source := range definition.Sources {
		types = append(types, source.Type)
	}
	assert.Equal(t, []SourceType{
		SourceTypeArtifactGroup, SourceTypeCommand, SourceTypeFile, SourceTypeDirectory,
		SourceTypePath, SourceTypeRegistryValue, SourceTypeWMI,
	}, types)

	want := []Source{
		{
			Type: SourceTypeArtifactGroup, Provides: []SourceProvide{}, Needs: []string{}, SupportedOS: []string{},
			Attributes: &ArtifactGroupAttributes{Names: []string{"WindowsRunKeys", "LinuxPasswd"}},
		},
		{
			Type: SourceTypeCommand, Provides: []SourceProvide{}, Needs: []string{"tool", "username"},
			SupportedOS: []string{"Linux"},
			Attributes:  &CommandAttributes{Cmd: "run %%tool%%", Args: []string{"--user", "%%username%%"}},
		},
		{
			Type: SourceTypeFile, Provides: []SourceProvide{{Key: "users.username", Regex: "^([^:]+):"}},
			Needs: []string{"users.homedir"}, SupportedOS: []string{},
			Attributes: &FileSystemAttributes{
				Paths: []string{"/etc/passwd", "%%users.homedir%%/.bash_history"}, Separator: "/",
			},
		},
		{
			Type: SourceTypeDirectory, Provides: []SourceProvide{}, Needs: []string{"environ_systemroot"},
			SupportedOS: []string{}, Attributes: &FileSystemAttributes{Paths: []string{"%%environ_systemroot%%\\Tasks"}},
		},
		{
			Type: SourceTypePath, Provides: []SourceProvide{}, Needs: []string{},
			SupportedOS: []string{}, Attributes: &FileSystemAttributes{Paths: []string{"/usr/bin"}},
		},
		{
			Type: SourceTypeRegistryValue, Provides: []SourceProvide{{Key: "environ_systemroot"}},
			Needs: []string{"hive"}, SupportedOS: []string{},
			Attributes: &RegistryValueAttributes{
				KeyValuePairs: []KeyValuePair{{Key: "HKLM\\%%hive%%", Value: "%%notavar%%"}},
			},
		},
		{
			Type: SourceTypeWMI, Provides: []SourceProvide{{Key: "users.sid", WMIKey: "SID"}},
			Needs: []string{"class"}, SupportedOS: []string{},
			Attributes: &WMIAttributes{Query: "SELECT * FROM %%class%%", BaseObject: "winmgmts:\\root\\cimv2"},
		},
	}
	if diff := cmp.Diff(want, definition.Sources); diff != "" {
		t.Errorf("MakeArtifact() sources mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{"class", "environ_systemroot", "hive", "tool", "username", "users.homedir"}, definition.Needs())
	assert.Equal(t, []string{"WindowsRunKeys", "LinuxPasswd"}, definition.GroupNames())
}

func TestMakeArtifact_deterministic(t *testing.T) {
	first, err := MakeArtifact(fullRecord())
	require.NoError(t, err)
	second, err := MakeArtifact(fullRecord())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("MakeArtifact() not deterministic (-first +second):\n%s", diff)
	}
}

func TestMakeArtifact_errors(t *testing.T) { // nolint:funlen
	withSource := func(source map[string]interface{}) map[string]interface{} {
		return map[string]interface{}{"name": "Broken", "sources": []interface{}{source}}
	}

	tests := []struct {
		name    string
		raw     map[string]interface{}
		wantErr error
	}{
		{"missing name", map[string]interface{}{"sources": []interface{}{}}, ErrMissingAttribute},
		{"missing sources", map[string]interface{}{"name": "X"}, ErrMissingAttribute},
		{"name not string", map[string]interface{}{"name": 1, "sources": []interface{}{}}, ErrInvalidAttribute},
		{"unknown top level key", map[string]interface{}{"name": "X", "sources": []interface{}{}, "foo": "bar"}, ErrUnexpectedAttribute},
		{"sources not list", map[string]interface{}{"name": "X", "sources": "FILE"}, ErrInvalidAttribute},
		{"missing type", withSource(map[string]interface{}{"attributes": map[string]interface{}{}}), ErrMissingAttribute},
		{"unknown type", withSource(map[string]interface{}{"type": "BOGUS"}), ErrUnknownSourceType},
		{"unknown source key", withSource(map[string]interface{}{"type": "FILE", "foo": 1}), ErrUnexpectedAttribute},
		{"missing attributes", withSource(map[string]interface{}{"type": "FILE"}), ErrMissingAttribute},
		{"missing paths", withSource(map[string]interface{}{
			"type": "PATH", "attributes": map[string]interface{}{"separator": "\\"},
		}), ErrMissingAttribute},
		{"paths not list", withSource(map[string]interface{}{
			"type": "FILE", "attributes": map[string]interface{}{"paths": "/etc/passwd"},
		}), ErrInvalidAttribute},
		{"path not string", withSource(map[string]interface{}{
			"type": "FILE", "attributes": map[string]interface{}{"paths": []interface{}{1}},
		}), ErrInvalidAttribute},
		{"unexpected attribute", withSource(map[string]interface{}{
			"type": "FILE", "attributes": map[string]interface{}{"paths": []interface{}{"/"}, "keys": []interface{}{}},
		}), ErrUnexpectedAttribute},
		{"missing cmd", withSource(map[string]interface{}{
			"type": "COMMAND", "attributes": map[string]interface{}{"args": []interface{}{"-a"}},
		}), ErrMissingAttribute},
		{"missing names", withSource(map[string]interface{}{
			"type": "ARTIFACT_GROUP", "attributes": map[string]interface{}{},
		}), ErrMissingAttribute},
		{"group with provides", withSource(map[string]interface{}{
			"type":       "ARTIFACT_GROUP",
			"provides":   []interface{}{map[string]interface{}{"key": "x"}},
			"attributes": map[string]interface{}{"names": []interface{}{"A"}},
		}), ErrUnexpectedAttribute},
		{"missing keys", withSource(map[string]interface{}{
			"type": "REGISTRY_KEY", "attributes": map[string]interface{}{},
		}), ErrMissingAttribute},
		{"missing value", withSource(map[string]interface{}{
			"type": "REGISTRY_VALUE", "attributes": map[string]interface{}{
				"key_value_pairs": []interface{}{map[string]interface{}{"key": "HKLM"}},
			},
		}), ErrMissingAttribute},
		{"unexpected pair key", withSource(map[string]interface{}{
			"type": "REGISTRY_VALUE", "attributes": map[string]interface{}{
				"key_value_pairs": []interface{}{map[string]interface{}{"key": "HKLM", "value": "v", "type": "x"}},
			},
		}), ErrUnexpectedAttribute},
		{"missing query", withSource(map[string]interface{}{
			"type": "WMI", "attributes": map[string]interface{}{"base_object": "x"},
		}), ErrMissingAttribute},
		{"provides missing key", withSource(map[string]interface{}{
			"type":       "WMI",
			"provides":   []interface{}{map[string]interface{}{"wmi_key": "SID"}},
			"attributes": map[string]interface{}{"query": "SELECT * FROM Win32_UserAccount"},
		}), ErrMissingAttribute},
		{"provides unexpected key", withSource(map[string]interface{}{
			"type":       "WMI",
			"provides":   []interface{}{map[string]interface{}{"key": "users.sid", "foo": "bar"}},
			"attributes": map[string]interface{}{"query": "SELECT * FROM Win32_UserAccount"},
		}), ErrUnexpectedAttribute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MakeArtifact(tt.raw)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMakeArtifact_unknownSourceType(t *testing.T) {
	raw := map[string]interface{}{
		"name": "BadArtifact",
		"sources": []interface{}{
			map[string]interface{}{"type": "FILE", "attributes": map[string]interface{}{"paths": []interface{}{"/"}}},
			map[string]interface{}{"type": "BOGUS", "attributes": map[string]interface{}{}},
		},
	}
	_, err := MakeArtifact(raw)
	require.ErrorIs(t, err, ErrUnknownSourceType)
	assert.Contains(t, err.Error(), "BadArtifact")
	assert.Contains(t, err.Error(), "BOGUS")
}

func TestMakeArtifact_sourceSupportedOS(t *testing.T) {
	definition, err := MakeArtifact(fullRecord())
	require.NoError(t, err)

	assert.Equal(t, []string{"Windows", "Linux"}, definition.SupportedOS)
	assert.Equal(t, []string{"Linux"}, definition.Sources[1].SupportedOS)
	assert.Equal(t, []string{}, definition.Sources[0].SupportedOS)
}

func TestMakeArtifact_emptySources(t *testing.T) {
	definition, err := MakeArtifact(map[string]interface{}{"name": "Empty", "sources": []interface{}{}})
	require.NoError(t, err)
	assert.Empty(t, definition.Sources)
	assert.Empty(t, definition.Needs())
}

func TestParser_trace(t *testing.T) {
	tests := []struct {
		name      string
		raw       map[string]interface{}
		wantTrace string
		wantErr   bool
	}{
		{"named", registryRecord(), "making artifact WindowsRunKeys", false},
		{"unnamed", map[string]interface{}{"sources": []interface{}{}}, "making artifact <unnamed>", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			p := NewParser(log.New(buf, "", 0))
			_, err := p.MakeArtifact(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Errorf("MakeArtifact() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := strings.TrimSpace(buf.String()); got != tt.wantTrace {
				t.Errorf("trace = %q, want %q", got, tt.wantTrace)
			}
		})
	}
}
