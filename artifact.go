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
	"io"
	"log"
	"sort"

	"github.com/pkg/errors"
)

// ArtifactDefinition is a single parsed and validated artifact definition.
type ArtifactDefinition struct {
	Name        string
	Doc         string
	Aliases     []string
	Sources     []Source
	SupportedOS []string
	URLs        []string `structs:"urls"`
	Labels      []string
	Conditions  []string
}

func (a *ArtifactDefinition) String() string {
	return a.Name
}

// Needs returns the variables referenced by any source of the artifact.
func (a *ArtifactDefinition) Needs() []string {
	set := map[string]bool{}
	for _, source := range a.Sources {
		for _, need := range source.Needs {
			set[need] = true
		}
	}
	needs := make([]string, 0, len(set))
	for need := range set {
		needs = append(needs, need)
	}
	sort.Strings(needs)
	return needs
}

// GroupNames returns the artifact names referenced by ARTIFACT_GROUP
// sources in declaration order.
func (a *ArtifactDefinition) GroupNames() []string {
	var names []string
	for _, source := range a.Sources {
		if group, ok := source.Attributes.(*ArtifactGroupAttributes); ok {
			names = append(names, group.Names...)
		}
	}
	return names
}

const unnamed = "<unnamed>"

// A Parser converts raw, decoded definition records into
// ArtifactDefinitions. The zero value discards diagnostics.
type Parser struct {
	logger *log.Logger
}

// NewParser creates a Parser that traces to logger. A nil logger discards
// all output.
func NewParser(logger *log.Logger) *Parser {
	return &Parser{logger: logger}
}

// MakeArtifact parses a record with a Parser that discards diagnostics.
func MakeArtifact(raw map[string]interface{}) (*ArtifactDefinition, error) {
	return (&Parser{}).MakeArtifact(raw)
}

func (p *Parser) log() *log.Logger {
	if p == nil || p.logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return p.logger
}

// MakeArtifact parses a single raw definition record, as decoded from YAML
// or JSON. Parsing is all or nothing: any invalid field rejects the whole
// definition.
func (p *Parser) MakeArtifact(raw map[string]interface{}) (*ArtifactDefinition, error) { // nolint:gocyclo,funlen
	traceName, ok := raw["name"].(string)
	if !ok {
		traceName = unnamed
	}
	p.log().Printf("making artifact %s", traceName)

	name, err := stringField(raw, "name", true)
	if err != nil {
		return nil, err
	}
	if err := checkKeys(raw, "name", "doc", "aliases", "sources", "supported_os", "urls", "labels", "conditions"); err != nil {
		return nil, errors.Wrap(err, name)
	}

	definition := &ArtifactDefinition{Name: name}
	definition.Doc, err = stringField(raw, "doc", false)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	lists := []struct {
		key    string
		target *[]string
	}{
		{"supported_os", &definition.SupportedOS},
		{"aliases", &definition.Aliases},
		{"urls", &definition.URLs},
		{"labels", &definition.Labels},
		{"conditions", &definition.Conditions},
	}
	for _, list := range lists {
		*list.target, err = stringListField(raw, list.key, false)
		if err != nil {
			return nil, errors.Wrap(err, name)
		}
	}

	rawSources, err := mapListField(raw, "sources", true)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	definition.Sources = make([]Source, 0, len(rawSources))
	for i, rawSource := range rawSources {
		source, err := p.makeSource(rawSource)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: source %d", name, i)
		}
		definition.Sources = append(definition.Sources, source)
	}

	return definition, nil
}

func (p *Parser) makeSource(raw map[string]interface{}) (Source, error) {
	if err := checkKeys(raw, "type", "attributes", "supported_os", "provides", "conditions"); err != nil {
		return Source{}, err
	}
	sourceType, err := stringField(raw, "type", true)
	if err != nil {
		return Source{}, err
	}

	rawProvides, err := mapListField(raw, "provides", false)
	if err != nil {
		return Source{}, err
	}
	provides, err := decodeProvides(rawProvides)
	if err != nil {
		return Source{}, errors.Wrap(err, "provides")
	}

	// supported_os of a source replaces the artifact's, it is not merged
	supportedOS, err := stringListField(raw, "supported_os", false)
	if err != nil {
		return Source{}, err
	}
	if _, err := stringListField(raw, "conditions", false); err != nil {
		return Source{}, err
	}

	attributes, err := mapField(raw, "attributes")
	if err != nil {
		return Source{}, err
	}
	source, err := decodeSource(SourceType(sourceType), attributes, provides, supportedOS)
	if err != nil {
		return Source{}, errors.Wrap(err, sourceType)
	}
	return source, nil
}
