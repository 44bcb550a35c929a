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
	"sync"

	"github.com/pkg/errors"
)

// Collection indexes artifact definitions by name and alias. It is safe for
// concurrent use.
type Collection struct {
	sync.RWMutex
	definitions map[string]*ArtifactDefinition
	aliases     map[string]string
}

// NewCollection creates an empty Collection.
func NewCollection() *Collection {
	return &Collection{
		definitions: map[string]*ArtifactDefinition{},
		aliases:     map[string]string{},
	}
}

// Add inserts a definition. Names and aliases must be unique across the
// collection.
func (c *Collection) Add(definition *ArtifactDefinition) error {
	c.Lock()
	defer c.Unlock()

	if c.taken(definition.Name) {
		return errors.Wrap(ErrDuplicateArtifact, definition.Name)
	}
	for _, alias := range definition.Aliases {
		if alias == definition.Name || c.taken(alias) {
			return errors.Wrapf(ErrDuplicateArtifact, "%s: alias %s", definition.Name, alias)
		}
	}

	c.definitions[definition.Name] = definition
	for _, alias := range definition.Aliases {
		c.aliases[alias] = definition.Name
	}
	return nil
}

func (c *Collection) taken(name string) bool {
	_, isName := c.definitions[name]
	_, isAlias := c.aliases[name]
	return isName || isAlias
}

// Get returns the definition with the given name or alias.
func (c *Collection) Get(name string) (*ArtifactDefinition, bool) {
	c.RLock()
	defer c.RUnlock()

	if definition, ok := c.definitions[name]; ok {
		return definition, true
	}
	if target, ok := c.aliases[name]; ok {
		return c.definitions[target], true
	}
	return nil, false
}

// Names returns the sorted names of all definitions.
func (c *Collection) Names() []string {
	c.RLock()
	defer c.RUnlock()

	names := make([]string, 0, len(c.definitions))
	for name := range c.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all definitions sorted by name.
func (c *Collection) All() []*ArtifactDefinition {
	names := c.Names()

	c.RLock()
	defer c.RUnlock()
	definitions := make([]*ArtifactDefinition, 0, len(names))
	for _, name := range names {
		definitions = append(definitions, c.definitions[name])
	}
	return definitions
}

// Len returns the number of definitions.
func (c *Collection) Len() int {
	c.RLock()
	defer c.RUnlock()
	return len(c.definitions)
}
