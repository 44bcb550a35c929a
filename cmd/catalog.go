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

package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/forensicanalysis/goartifacts"
	"github.com/forensicanalysis/goartifacts/catalog"
)

// Index is the artifacts index commandline subcommand
func Index() *cobra.Command {
	var appendTo bool
	indexCommand := &cobra.Command{
		Use:   "index <catalog> <path>...",
		Short: "Store definitions in a catalog",
		Args:  cobra.MinimumNArgs(2), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := load(cmd, args[1:], false)
			if err != nil {
				return err
			}

			open := catalog.New
			if appendTo {
				open = catalog.Open
			}
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			c, err := open(args[0], config.logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer c.Close()

			for _, definition := range result.Collection.All() {
				if err := c.Insert(definition); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d definitions\n", result.Collection.Len())
			return nil
		},
	}
	indexCommand.Flags().BoolVar(&appendTo, "append", false, "add to an existing catalog")
	return indexCommand
}

// Get is the artifacts get commandline subcommand
func Get() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name> <catalog>",
		Short: "Retrieve a single definition by name or alias",
		Args:  cobra.ExactArgs(2), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCatalog(cmd, args[1])
			if err != nil {
				return err
			}
			defer c.Close()

			definition, err := c.Get(args[0])
			if err != nil {
				return err
			}
			b, err := json.Marshal(definition.Record())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", b)
			return nil
		},
	}
}

// Select is the artifacts select commandline subcommand
func Select() *cobra.Command {
	var sourceType, system string
	selectCommand := &cobra.Command{
		Use:   "select <catalog>",
		Short: "List definition names, optionally filtered by source type and operating system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCatalog(cmd, args[0])
			if err != nil {
				return err
			}
			defer c.Close()

			names, err := selectNames(c, sourceType, system)
			if err != nil {
				return err
			}
			b, _ := json.Marshal(names)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", b)
			return nil
		},
	}
	selectCommand.Flags().StringVar(&sourceType, "type", "", "source type, e.g. FILE")
	selectCommand.Flags().StringVar(&system, "os", "", "operating system, e.g. Windows")
	return selectCommand
}

// Find is the artifacts find commandline subcommand
func Find() *cobra.Command {
	var field string
	findCommand := &cobra.Command{
		Use:   "find <term> <catalog>",
		Short: "List definitions with a value containing term",
		Args:  cobra.ExactArgs(2), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCatalog(cmd, args[1])
			if err != nil {
				return err
			}
			defer c.Close()

			names, err := c.Find(args[0], field)
			if err != nil {
				return err
			}
			b, _ := json.Marshal(names)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", b)
			return nil
		},
	}
	findCommand.Flags().StringVar(&field, "field", "", "only search this attribute, e.g. paths")
	return findCommand
}

func openCatalog(cmd *cobra.Command, url string) (*catalog.Catalog, error) {
	config, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return catalog.Open(url, config.logger(cmd.ErrOrStderr()))
}

func selectNames(c *catalog.Catalog, sourceType, system string) ([]string, error) {
	names, err := c.Names()
	if err != nil {
		return nil, err
	}

	if sourceType != "" {
		if !knownSourceType(sourceType) {
			return nil, errors.Wrap(goartifacts.ErrUnknownSourceType, sourceType)
		}
		typed, err := c.Select(goartifacts.SourceType(sourceType))
		if err != nil {
			return nil, err
		}
		names = intersect(names, typed)
	}

	if system != "" {
		matching, err := c.SelectOS(system)
		if err != nil {
			return nil, err
		}
		names = intersect(names, matching)
	}
	return names, nil
}

func knownSourceType(sourceType string) bool {
	for _, t := range goartifacts.SourceTypes {
		if string(t) == sourceType {
			return true
		}
	}
	return false
}

func intersect(a, b []string) []string {
	in := make(map[string]bool, len(b))
	for _, s := range b {
		in[s] = true
	}
	result := []string{}
	for _, s := range a {
		if in[s] {
			result = append(result, s)
		}
	}
	sort.Strings(result)
	return result
}
