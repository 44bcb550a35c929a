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

// Package catalog persists parsed artifact definitions in a sqlite
// database, so they can be looked up without parsing the definition files
// again.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"
	"time"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/forensicanalysis/goartifacts"
)

const catalogVersion = 1
const applicationID = 1634890867 // "arts"

var ErrCatalogExists = fmt.Errorf("catalog already exists")
var ErrCatalogNotExists = fmt.Errorf("catalog does not exist")
var ErrNotFound = fmt.Errorf("artifact not found")

// The Catalog stores artifact definitions as records together with
// indexes for their aliases, source types and operating systems.
type Catalog struct {
	conn   *sqlite.Conn
	logger *log.Logger
}

// New creates a new catalog. The url ":memory:" creates an in memory
// catalog. A nil logger discards all output.
func New(url string, logger *log.Logger) (*Catalog, error) {
	return open(url, true, logger)
}

// Open opens an existing catalog.
func Open(url string, logger *log.Logger) (*Catalog, error) {
	return open(url, false, logger)
}

func open(url string, create bool, logger *log.Logger) (*Catalog, error) { // nolint:gocyclo,funlen
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if url != ":memory:" {
		url = strings.TrimRight(url, "/")

		exists := true
		_, err := os.Stat(url)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			exists = false
		}

		if create && exists {
			return nil, ErrCatalogExists
		}
		if !create && !exists {
			return nil, ErrCatalogNotExists
		}

		if create {
			err = os.MkdirAll(path.Dir(url), 0750)
			if err != nil {
				return nil, err
			}

			logger.Printf("creating catalog %s", url)
			f, err := os.Create(url)
			if err != nil {
				return nil, err
			}
			f.Close() // nolint:errcheck
		}
	}

	conn, err := sqlite.OpenConn(url, 0)
	if err != nil {
		return nil, err
	}
	catalog := &Catalog{conn: conn, logger: logger}

	if create {
		err = catalog.setup()
	} else {
		err = catalog.check()
	}
	if err != nil {
		conn.Close() // nolint:errcheck
		return nil, err
	}
	return catalog, nil
}

func (c *Catalog) setup() error {
	if err := c.setPragma("application_id", applicationID); err != nil {
		return err
	}
	if err := c.setPragma("user_version", catalogVersion); err != nil {
		return err
	}
	for _, query := range []string{
		"CREATE TABLE `artifacts` (name TEXT PRIMARY KEY, json TEXT NOT NULL, insert_time TEXT)",
		"CREATE TABLE `aliases` (alias TEXT PRIMARY KEY, name TEXT NOT NULL)",
		"CREATE TABLE `sources` (name TEXT NOT NULL, position INTEGER NOT NULL, type TEXT NOT NULL)",
		"CREATE TABLE `supported_os` (name TEXT NOT NULL, os TEXT NOT NULL)",
		"CREATE TABLE `fields` (name TEXT NOT NULL, path TEXT NOT NULL, value TEXT)",
	} {
		if err := c.exec(query); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) check() error {
	id, err := c.pragma("application_id")
	if err != nil {
		return err
	}
	if id != applicationID {
		msg := "wrong file format (application_id is %d, requires %d)"
		return fmt.Errorf(msg, id, applicationID)
	}

	version, err := c.pragma("user_version")
	if err != nil {
		return err
	}
	if version != catalogVersion {
		msg := "wrong file format (user_version is %d, requires %d)"
		return fmt.Errorf(msg, version, catalogVersion)
	}
	return nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.conn.Close()
}

/* ################################
#   API
################################ */

// Insert adds a definition. Names and aliases must not be used by another
// definition of the catalog.
func (c *Catalog) Insert(definition *goartifacts.ArtifactDefinition) (err error) {
	defer sqlitex.Save(c.conn)(&err)
	c.logger.Printf("inserting %s", definition.Name)

	seen := map[string]bool{}
	for _, name := range append([]string{definition.Name}, definition.Aliases...) {
		if seen[name] {
			return errors.Wrap(goartifacts.ErrDuplicateArtifact, name)
		}
		seen[name] = true
		taken, err := c.resolve(name)
		if err != nil {
			return err
		}
		if taken != "" {
			return errors.Wrap(goartifacts.ErrDuplicateArtifact, name)
		}
	}

	record := definition.Record()
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	err = c.insert("INSERT INTO `artifacts` (name, json, insert_time) VALUES ($name, $json, $time)", map[string]string{
		"$name": definition.Name,
		"$json": string(b),
		"$time": time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	})
	if err != nil {
		return err
	}

	for _, alias := range definition.Aliases {
		err = c.insert("INSERT INTO `aliases` (alias, name) VALUES ($alias, $name)", map[string]string{
			"$alias": alias, "$name": definition.Name,
		})
		if err != nil {
			return errors.Wrapf(err, "could not insert alias %s", alias)
		}
	}

	for _, system := range definition.SupportedOS {
		err = c.insert("INSERT INTO `supported_os` (name, os) VALUES ($name, $os)", map[string]string{
			"$name": definition.Name, "$os": system,
		})
		if err != nil {
			return err
		}
	}

	for i, source := range definition.Sources {
		stmt, err := c.conn.Prepare("INSERT INTO `sources` (name, position, type) VALUES ($name, $position, $type)")
		if err != nil {
			return err
		}
		stmt.SetText("$name", definition.Name)
		stmt.SetInt64("$position", int64(i))
		stmt.SetText("$type", string(source.Type))
		if _, err = stmt.Step(); err != nil {
			return errors.Wrap(err, "could not insert source")
		}
		if err = stmt.Finalize(); err != nil {
			return err
		}
	}

	fields := map[string]string{}
	flatten("", record, fields)
	for fieldPath, value := range fields {
		err = c.insert("INSERT INTO `fields` (name, path, value) VALUES ($name, $path, $value)", map[string]string{
			"$name": definition.Name, "$path": fieldPath, "$value": value,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Get returns the definition with the given name or alias.
func (c *Catalog) Get(name string) (*goartifacts.ArtifactDefinition, error) {
	target, err := c.resolve(name)
	if err != nil {
		return nil, err
	}
	if target == "" {
		return nil, errors.Wrap(ErrNotFound, name)
	}

	stmt, err := c.conn.Prepare("SELECT json FROM `artifacts` WHERE name = $name")
	if err != nil {
		return nil, err
	}
	stmt.SetText("$name", target)
	records, err := c.rowsToStrings(stmt, "json")
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.Wrap(ErrNotFound, name)
	}

	record := map[string]interface{}{}
	if err := json.Unmarshal([]byte(records[0]), &record); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal stored definition")
	}
	return goartifacts.MakeArtifact(record)
}

// Doc returns the description of a definition without parsing it.
func (c *Catalog) Doc(name string) (string, error) {
	stmt, err := c.conn.Prepare("SELECT json FROM `artifacts` WHERE name = $name")
	if err != nil {
		return "", err
	}
	stmt.SetText("$name", name)
	records, err := c.rowsToStrings(stmt, "json")
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", errors.Wrap(ErrNotFound, name)
	}
	return gjson.Get(records[0], "doc").String(), nil
}

// Names returns the sorted names of all definitions.
func (c *Catalog) Names() ([]string, error) {
	stmt, err := c.conn.Prepare("SELECT name FROM `artifacts` ORDER BY name")
	if err != nil {
		return nil, err
	}
	return c.rowsToStrings(stmt, "name")
}

// Select returns the sorted names of definitions with at least one source
// of the given type.
func (c *Catalog) Select(sourceType goartifacts.SourceType) ([]string, error) {
	stmt, err := c.conn.Prepare("SELECT DISTINCT name FROM `sources` WHERE type = $type ORDER BY name")
	if err != nil {
		return nil, err
	}
	stmt.SetText("$type", string(sourceType))
	return c.rowsToStrings(stmt, "name")
}

// SelectOS returns the sorted names of definitions for the given operating
// system. Definitions without supported_os apply to every system.
func (c *Catalog) SelectOS(system string) ([]string, error) {
	stmt, err := c.conn.Prepare("SELECT name FROM `artifacts` " +
		"WHERE name IN (SELECT name FROM `supported_os` WHERE os = $os) " +
		"OR name NOT IN (SELECT name FROM `supported_os`) ORDER BY name")
	if err != nil {
		return nil, err
	}
	stmt.SetText("$os", system)
	return c.rowsToStrings(stmt, "name")
}

// Find returns the sorted names of definitions with any value containing
// term, e.g. all definitions that collect /etc/passwd. If field is not
// empty only values at paths ending in field are searched, e.g. "paths".
func (c *Catalog) Find(term, field string) ([]string, error) {
	query := "SELECT DISTINCT name FROM `fields` WHERE instr(value, $term) > 0"
	if field != "" {
		query += " AND (path = $field" +
			" OR substr(path, -length($field) - 1) = '.' || $field" +
			" OR instr(path, '.' || $field || '.') > 0)"
	}
	stmt, err := c.conn.Prepare(query + " ORDER BY name")
	if err != nil {
		return nil, err
	}
	stmt.SetText("$term", term)
	if field != "" {
		stmt.SetText("$field", field)
	}
	return c.rowsToStrings(stmt, "name")
}

/* ################################
#   Intern
################################ */

// resolve returns the name for a name or alias or "" if it is unknown.
func (c *Catalog) resolve(name string) (string, error) {
	stmt, err := c.conn.Prepare("SELECT name FROM `artifacts` WHERE name = $name " +
		"UNION SELECT name FROM `aliases` WHERE alias = $name")
	if err != nil {
		return "", err
	}
	stmt.SetText("$name", name)
	names, err := c.rowsToStrings(stmt, "name")
	if err != nil || len(names) == 0 {
		return "", err
	}
	return names[0], nil
}

func (c *Catalog) insert(query string, values map[string]string) error {
	stmt, err := c.conn.Prepare(query)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("could not prepare statement %s", query))
	}
	for param, value := range values {
		stmt.SetText(param, value)
	}
	if _, err = stmt.Step(); err != nil {
		stmt.Finalize() // nolint:errcheck
		return errors.Wrap(err, fmt.Sprint("could not exec statement ", query))
	}
	return stmt.Finalize()
}

func (c *Catalog) rowsToStrings(stmt *sqlite.Stmt, column string) (values []string, err error) {
	values = []string{}
	for {
		if hasRow, err := stmt.Step(); err != nil {
			stmt.Finalize() // nolint:errcheck
			return nil, err
		} else if !hasRow {
			break
		}
		values = append(values, stmt.GetText(column))
	}
	return values, stmt.Finalize()
}

func (c *Catalog) exec(query string) error {
	return errors.Wrapf(sqlitex.ExecTransient(c.conn, query, nil), "could not exec %s", query)
}

// pragma reads an integer pragma of the database.
func (c *Catalog) pragma(name string) (value int64, err error) {
	err = sqlitex.ExecTransient(c.conn, "PRAGMA "+name, func(stmt *sqlite.Stmt) error {
		value = stmt.ColumnInt64(0)
		return nil
	})
	return value, errors.Wrapf(err, "could not read pragma %s", name)
}

func (c *Catalog) setPragma(name string, value int64) error {
	err := sqlitex.ExecTransient(c.conn, fmt.Sprintf("PRAGMA %s = %d", name, value), nil)
	return errors.Wrapf(err, "could not set pragma %s", name)
}
