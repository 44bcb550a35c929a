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
	"context"
	_ "embed" // definition schema
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/qri-io/jsonschema"
	"github.com/tidwall/gjson"
)

//go:embed definition.schema.json
var definitionSchema []byte

var (
	schemaOnce sync.Once // nolint:gochecknoglobals
	schema     *jsonschema.Schema
	schemaErr  error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema = &jsonschema.Schema{}
		schemaErr = errors.Wrap(json.Unmarshal(definitionSchema, schema), "could not unmarshal definition schema")
	})
	return schema, schemaErr
}

// ValidateRecord checks a JSON encoded definition record against the
// definition schema and returns all flaws found. Attributes of the sources
// are not covered by the schema, they are checked by MakeArtifact.
func ValidateRecord(ctx context.Context, record []byte) (flaws []string, err error) {
	s, err := loadSchema()
	if err != nil {
		return nil, err
	}

	name := gjson.GetBytes(record, "name")
	if !name.Exists() {
		flaws = append(flaws, "definition needs to have a name")
	}
	label := name.String()
	if label == "" {
		label = unnamed
	}

	errs, err := s.ValidateBytes(ctx, record)
	if err != nil {
		return nil, err
	}
	for _, verr := range errs {
		flaws = append(flaws, fmt.Sprintf("%s: failed to validate definition: %s", label, verr))
	}
	return flaws, nil
}
