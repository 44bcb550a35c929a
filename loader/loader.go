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

// Package loader reads artifact definition files into a
// goartifacts.Collection.
package loader

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar"
	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/forensicanalysis/goartifacts"
)

// ErrInvalidSchema is returned for records that do not match the definition
// schema.
var ErrInvalidSchema = errors.New("definition does not match schema")

// Options configure a Loader. Zero fields are filled from DefaultOptions.
type Options struct {
	// Pattern selects definition files by their slash separated path relative
	// to the root directory.
	Pattern string
	// Workers is the number of files parsed in parallel.
	Workers int
	// Schema enables validation of every record against the definition
	// schema before parsing.
	Schema bool
	// SkipInvalid collects invalid definitions in Result.Rejected instead of
	// aborting.
	SkipInvalid bool
	Logger      *log.Logger
}

// DefaultOptions returns the options used for unset fields.
func DefaultOptions() Options {
	return Options{
		Pattern: "**/*.{yaml,yml,json}",
		Workers: 4, // nolint:gomnd
		Logger:  log.New(io.Discard, "", 0),
	}
}

// Loader reads definition files from a filesystem.
type Loader struct {
	fs      afero.Fs
	options Options
	parser  *goartifacts.Parser
}

// Result holds the definitions of a Load call.
type Result struct {
	Collection *goartifacts.Collection
	// Rejected holds one error per invalid definition, only filled if
	// Options.SkipInvalid is set.
	Rejected []error
}

// New creates a Loader for fs.
func New(fs afero.Fs, options Options) (*Loader, error) {
	if err := mergo.Merge(&options, DefaultOptions()); err != nil {
		return nil, errors.Wrap(err, "could not apply default options")
	}
	if _, err := doublestar.Match(options.Pattern, ""); err != nil {
		return nil, errors.Wrapf(err, "invalid pattern %s", options.Pattern)
	}
	return &Loader{
		fs:      fs,
		options: options,
		parser:  goartifacts.NewParser(options.Logger),
	}, nil
}

// Decode reads all YAML or JSON documents from r. Empty documents are
// skipped.
func Decode(r io.Reader) ([]map[string]interface{}, error) {
	decoder := yaml.NewDecoder(r)
	var records []map[string]interface{}
	for {
		var record map[string]interface{}
		err := decoder.Decode(&record)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "could not decode definition")
		}
		if record != nil {
			records = append(records, record)
		}
	}
}

// Files returns the sorted paths below the roots that match
// Options.Pattern. A root that is a file is returned as is.
func (l *Loader) Files(roots ...string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	add := func(file string) {
		if !seen[file] {
			seen[file] = true
			files = append(files, file)
		}
	}

	for _, root := range roots {
		info, err := l.fs.Stat(root)
		if err != nil {
			return nil, errors.Wrapf(err, "could not walk %s", root)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = afero.Walk(l.fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			match, err := doublestar.Match(l.options.Pattern, filepath.ToSlash(rel))
			if err != nil {
				return err
			}
			if match {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "could not walk %s", root)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Load parses all definition files below the roots in parallel.
func (l *Loader) Load(ctx context.Context, roots ...string) (*Result, error) {
	files, err := l.Files(roots...)
	if err != nil {
		return nil, err
	}

	result := &Result{Collection: goartifacts.NewCollection()}
	var rejectedMutex sync.Mutex
	reject := func(err error) error {
		if !l.options.SkipInvalid {
			return err
		}
		l.options.Logger.Print(err)
		rejectedMutex.Lock()
		result.Rejected = append(result.Rejected, err)
		rejectedMutex.Unlock()
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.options.Workers)
	for _, file := range files {
		file := file
		g.Go(func() error {
			return l.loadFile(ctx, file, result.Collection, reject)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(result.Rejected, func(i, j int) bool {
		return result.Rejected[i].Error() < result.Rejected[j].Error()
	})
	return result, nil
}

func (l *Loader) loadFile(
	ctx context.Context, file string, collection *goartifacts.Collection, reject func(error) error,
) error {
	l.options.Logger.Printf("loading %s", file)
	f, err := l.fs.Open(file)
	if err != nil {
		return errors.Wrapf(err, "could not open %s", file)
	}
	records, err := Decode(f)
	f.Close() // nolint:errcheck
	if err != nil {
		return errors.Wrap(err, file)
	}

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		definition, err := l.parse(ctx, record)
		if err == nil {
			err = collection.Add(definition)
		}
		if err != nil {
			if err := reject(errors.Wrapf(err, "%s: document %d", file, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Loader) parse(ctx context.Context, record map[string]interface{}) (*goartifacts.ArtifactDefinition, error) {
	if l.options.Schema {
		b, err := json.Marshal(record)
		if err != nil {
			return nil, err
		}
		flaws, err := goartifacts.ValidateRecord(ctx, b)
		if err != nil {
			return nil, err
		}
		if len(flaws) > 0 {
			return nil, errors.Wrap(ErrInvalidSchema, strings.Join(flaws, ", "))
		}
	}
	return l.parser.MakeArtifact(record)
}
