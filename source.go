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
	"github.com/pkg/errors"
)

// SourceType names the kind of a Source.
type SourceType string

// The closed set of source types.
const (
	SourceTypeArtifactGroup SourceType = "ARTIFACT_GROUP"
	SourceTypeCommand       SourceType = "COMMAND"
	SourceTypeDirectory     SourceType = "DIRECTORY"
	SourceTypeFile          SourceType = "FILE"
	SourceTypePath          SourceType = "PATH"
	SourceTypeRegistryKey   SourceType = "REGISTRY_KEY"
	SourceTypeRegistryValue SourceType = "REGISTRY_VALUE"
	SourceTypeWMI           SourceType = "WMI"
)

// SourceTypes lists all known source types.
var SourceTypes = []SourceType{ // nolint:gochecknoglobals
	SourceTypeArtifactGroup, SourceTypeCommand, SourceTypeDirectory, SourceTypeFile,
	SourceTypePath, SourceTypeRegistryKey, SourceTypeRegistryValue, SourceTypeWMI,
}

// IsFileSystem reports whether t is DIRECTORY, FILE or PATH.
func (t SourceType) IsFileSystem() bool {
	return t == SourceTypeDirectory || t == SourceTypeFile || t == SourceTypePath
}

// Attributes is the type specific part of a Source. Only the attribute
// types of this package implement it:
//
//	ARTIFACT_GROUP            *ArtifactGroupAttributes
//	COMMAND                   *CommandAttributes
//	DIRECTORY, FILE, PATH     *FileSystemAttributes
//	REGISTRY_KEY              *RegistryKeyAttributes
//	REGISTRY_VALUE            *RegistryValueAttributes
//	WMI                       *WMIAttributes
type Attributes interface {
	// freeForm returns the strings that may contain variable placeholders.
	freeForm() []string
}

// ArtifactGroupAttributes references other artifacts by name.
type ArtifactGroupAttributes struct {
	Names []string
}

func (*ArtifactGroupAttributes) freeForm() []string { return nil }

// CommandAttributes describes a command and its arguments.
type CommandAttributes struct {
	Cmd  string
	Args []string
}

func (a *CommandAttributes) freeForm() []string {
	return append([]string{a.Cmd}, a.Args...)
}

// FileSystemAttributes holds the paths of DIRECTORY, FILE and PATH sources.
type FileSystemAttributes struct {
	Paths     []string
	Separator string
}

func (a *FileSystemAttributes) freeForm() []string { return a.Paths }

// RegistryKeyAttributes holds registry key paths.
type RegistryKeyAttributes struct {
	Keys []string
}

func (a *RegistryKeyAttributes) freeForm() []string { return a.Keys }

// KeyValuePair addresses a single registry value.
type KeyValuePair struct {
	Key   string
	Value string
}

// RegistryValueAttributes holds registry values.
type RegistryValueAttributes struct {
	KeyValuePairs []KeyValuePair
}

func (a *RegistryValueAttributes) freeForm() []string {
	keys := make([]string, 0, len(a.KeyValuePairs))
	for _, pair := range a.KeyValuePairs {
		keys = append(keys, pair.Key)
	}
	return keys
}

// WMIAttributes holds a WMI query.
type WMIAttributes struct {
	Query      string
	BaseObject string
}

func (a *WMIAttributes) freeForm() []string { return []string{a.Query} }

// Source is a single, validated source of an artifact definition. Needs
// holds the variables referenced by the free-form fields of the attributes
// and is computed on construction.
type Source struct {
	Type        SourceType
	Provides    []SourceProvide
	Needs       []string `structs:"-"`
	SupportedOS []string
	Attributes  Attributes
}

func (s Source) String() string {
	return string(s.Type)
}

func newSource(sourceType SourceType, attributes Attributes, provides []SourceProvide, supportedOS []string) Source {
	return Source{
		Type:        sourceType,
		Provides:    append([]SourceProvide{}, provides...),
		Needs:       NeededVars(attributes.freeForm()...),
		SupportedOS: clone(supportedOS),
		Attributes:  attributes,
	}
}

// NewArtifactGroupSource creates an ARTIFACT_GROUP source.
func NewArtifactGroupSource(names []string, supportedOS []string) Source {
	return newSource(SourceTypeArtifactGroup, &ArtifactGroupAttributes{Names: clone(names)}, nil, supportedOS)
}

// NewCommandSource creates a COMMAND source.
func NewCommandSource(cmd string, args []string, provides []SourceProvide, supportedOS []string) Source {
	return newSource(SourceTypeCommand, &CommandAttributes{Cmd: cmd, Args: clone(args)}, provides, supportedOS)
}

// NewFileSystemSource creates a DIRECTORY, FILE or PATH source.
func NewFileSystemSource(
	sourceType SourceType, paths []string, separator string, provides []SourceProvide, supportedOS []string,
) (Source, error) {
	if !sourceType.IsFileSystem() {
		return Source{}, errors.Wrap(ErrUnknownSourceType, string(sourceType))
	}
	attributes := &FileSystemAttributes{Paths: clone(paths), Separator: separator}
	return newSource(sourceType, attributes, provides, supportedOS), nil
}

// NewRegistryKeySource creates a REGISTRY_KEY source.
func NewRegistryKeySource(keys []string, provides []SourceProvide, supportedOS []string) Source {
	return newSource(SourceTypeRegistryKey, &RegistryKeyAttributes{Keys: clone(keys)}, provides, supportedOS)
}

// NewRegistryValueSource creates a REGISTRY_VALUE source.
func NewRegistryValueSource(pairs []KeyValuePair, provides []SourceProvide, supportedOS []string) Source {
	attributes := &RegistryValueAttributes{KeyValuePairs: append([]KeyValuePair{}, pairs...)}
	return newSource(SourceTypeRegistryValue, attributes, provides, supportedOS)
}

// NewWMISource creates a WMI source.
func NewWMISource(query, baseObject string, provides []SourceProvide, supportedOS []string) Source {
	return newSource(SourceTypeWMI, &WMIAttributes{Query: query, BaseObject: baseObject}, provides, supportedOS)
}

// decodeSource validates the attributes of a single source and builds it.
func decodeSource( // nolint:gocyclo,funlen
	sourceType SourceType, attributes map[string]interface{}, provides []SourceProvide, supportedOS []string,
) (Source, error) {
	switch sourceType {
	case SourceTypeDirectory, SourceTypeFile, SourceTypePath:
		if err := checkKeys(attributes, "paths", "separator"); err != nil {
			return Source{}, err
		}
		paths, err := stringListField(attributes, "paths", true)
		if err != nil {
			return Source{}, err
		}
		separator, err := stringField(attributes, "separator", false)
		if err != nil {
			return Source{}, err
		}
		return NewFileSystemSource(sourceType, paths, separator, provides, supportedOS)
	case SourceTypeArtifactGroup:
		if err := checkKeys(attributes, "names"); err != nil {
			return Source{}, err
		}
		if len(provides) > 0 {
			return Source{}, unexpected("provides")
		}
		names, err := stringListField(attributes, "names", true)
		if err != nil {
			return Source{}, err
		}
		return NewArtifactGroupSource(names, supportedOS), nil
	case SourceTypeCommand:
		if err := checkKeys(attributes, "cmd", "args"); err != nil {
			return Source{}, err
		}
		cmd, err := stringField(attributes, "cmd", true)
		if err != nil {
			return Source{}, err
		}
		args, err := stringListField(attributes, "args", false)
		if err != nil {
			return Source{}, err
		}
		return NewCommandSource(cmd, args, provides, supportedOS), nil
	case SourceTypeRegistryKey:
		if err := checkKeys(attributes, "keys"); err != nil {
			return Source{}, err
		}
		keys, err := stringListField(attributes, "keys", true)
		if err != nil {
			return Source{}, err
		}
		return NewRegistryKeySource(keys, provides, supportedOS), nil
	case SourceTypeRegistryValue:
		if err := checkKeys(attributes, "key_value_pairs"); err != nil {
			return Source{}, err
		}
		pairs, err := decodeKeyValuePairs(attributes)
		if err != nil {
			return Source{}, err
		}
		return NewRegistryValueSource(pairs, provides, supportedOS), nil
	case SourceTypeWMI:
		if err := checkKeys(attributes, "query", "base_object"); err != nil {
			return Source{}, err
		}
		query, err := stringField(attributes, "query", true)
		if err != nil {
			return Source{}, err
		}
		baseObject, err := stringField(attributes, "base_object", false)
		if err != nil {
			return Source{}, err
		}
		return NewWMISource(query, baseObject, provides, supportedOS), nil
	default:
		return Source{}, errors.WithStack(ErrUnknownSourceType)
	}
}

func decodeKeyValuePairs(attributes map[string]interface{}) ([]KeyValuePair, error) {
	rawPairs, err := mapListField(attributes, "key_value_pairs", true)
	if err != nil {
		return nil, err
	}
	pairs := make([]KeyValuePair, 0, len(rawPairs))
	for _, rawPair := range rawPairs {
		if err := checkKeys(rawPair, "key", "value"); err != nil {
			return nil, err
		}
		key, err := stringField(rawPair, "key", true)
		if err != nil {
			return nil, err
		}
		value, err := stringField(rawPair, "value", true)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, KeyValuePair{Key: key, Value: value})
	}
	return pairs, nil
}

func clone(values []string) []string {
	return append([]string{}, values...)
}
