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
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/forensicanalysis/goartifacts/loader"
)

// ErrInvalidDefinitions is returned by validate if any definition failed.
var ErrInvalidDefinitions = errors.New("invalid definitions")

// Root returns the artifacts command with all subcommands attached.
func Root() *cobra.Command {
	defaults := loader.DefaultOptions()
	rootCmd := &cobra.Command{
		Use:           "artifacts",
		Short:         "Parse, validate and index forensic artifact definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file")
	flags.String("pattern", defaults.Pattern, "glob selecting definition files in directories")
	flags.Int("workers", defaults.Workers, "number of files parsed in parallel")
	flags.Bool("skip-invalid", false, "skip invalid definitions instead of aborting")
	flags.Bool("schema", false, "check definitions against the JSON schema")
	flags.BoolP("verbose", "v", false, "log parser diagnostics to stderr")

	rootCmd.AddCommand(Validate(), Show(), Needs(), Index(), Get(), Select(), Find())
	return rootCmd
}

// Validate is the artifacts validate commandline subcommand
func Validate() *cobra.Command {
	var noFail bool
	validateCommand := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Validate definition files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := load(cmd, args, true)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, rejected := range result.Rejected {
				fmt.Fprintln(out, rejected)
			}
			fmt.Fprintf(out, "%d valid, %d invalid\n", result.Collection.Len(), len(result.Rejected))
			if len(result.Rejected) > 0 && !noFail {
				return errors.Wrapf(ErrInvalidDefinitions, "found %d", len(result.Rejected))
			}
			return nil
		},
	}
	validateCommand.Flags().BoolVar(&noFail, "no-fail", false, "return exit code 0")
	return validateCommand
}

// Show is the artifacts show commandline subcommand
func Show() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name> <path>...",
		Short: "Print a single definition as JSON",
		Args:  cobra.MinimumNArgs(2), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := load(cmd, args[1:], false)
			if err != nil {
				return err
			}
			definition, ok := result.Collection.Get(args[0])
			if !ok {
				return errors.Errorf("unknown artifact %s", args[0])
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

// Needs is the artifacts needs commandline subcommand
func Needs() *cobra.Command {
	return &cobra.Command{
		Use:   "needs <path>...",
		Short: "List the variables each definition depends on",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := load(cmd, args, false)
			if err != nil {
				return err
			}
			for _, definition := range result.Collection.All() {
				needs := definition.Needs()
				if len(needs) == 0 {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", definition.Name, strings.Join(needs, ", "))
			}
			return nil
		},
	}
}

func load(cmd *cobra.Command, paths []string, skipInvalid bool) (*loader.Result, error) {
	config, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	options := config.options(cmd.ErrOrStderr())
	if skipInvalid {
		options.SkipInvalid = true
	}
	l, err := loader.New(afero.NewOsFs(), options)
	if err != nil {
		return nil, err
	}
	return l.Load(cmd.Context(), paths...)
}
