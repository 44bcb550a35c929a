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

var (
	// ErrMissingAttribute is returned if a required field is absent.
	ErrMissingAttribute = errors.New("missing attribute")
	// ErrUnexpectedAttribute is returned for fields a definition, source or
	// provides entry does not know.
	ErrUnexpectedAttribute = errors.New("unexpected attribute")
	// ErrInvalidAttribute is returned if a field has the wrong shape, e.g. a
	// number where a list of strings is required.
	ErrInvalidAttribute = errors.New("invalid attribute")
	// ErrUnknownSourceType is returned for source types outside the closed
	// set of known types.
	ErrUnknownSourceType = errors.New("unknown source type")
	// ErrDuplicateArtifact is returned if a name or alias is already taken.
	ErrDuplicateArtifact = errors.New("duplicate artifact")
)

func missing(field string) error {
	return errors.Wrap(ErrMissingAttribute, field)
}

func unexpected(field string) error {
	return errors.Wrap(ErrUnexpectedAttribute, field)
}

func invalid(field string, value interface{}) error {
	return errors.Wrapf(ErrInvalidAttribute, "%s (%T)", field, value)
}
