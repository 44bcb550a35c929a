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
	"io"
	"log"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/forensicanalysis/goartifacts/loader"
)

// Config holds the settings shared by all subcommands. Values are read from
// flags, ARTIFACTS_ environment variables and an optional config file, in
// that order of precedence.
type Config struct {
	Pattern     string `mapstructure:"pattern"`
	Workers     int    `mapstructure:"workers"`
	SkipInvalid bool   `mapstructure:"skip_invalid"`
	Schema      bool   `mapstructure:"schema"`
	Verbose     bool   `mapstructure:"verbose"`
}

// config keys and the flags they are bound to
var configFlags = map[string]string{ // nolint:gochecknoglobals
	"pattern":      "pattern",
	"workers":      "workers",
	"skip_invalid": "skip-invalid",
	"schema":       "schema",
	"verbose":      "verbose",
}

func loadConfig(cmd *cobra.Command) (*Config, error) {
	defaults := loader.DefaultOptions()

	v := viper.New()
	v.SetDefault("pattern", defaults.Pattern)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("skip_invalid", false)
	v.SetDefault("schema", false)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("ARTIFACTS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, name := range configFlags {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, errors.Wrapf(err, "could not bind flag %s", name)
			}
		}
	}

	if flag := cmd.Flags().Lookup("config"); flag != nil && flag.Value.String() != "" {
		v.SetConfigFile(flag.Value.String())
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "could not read config")
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "could not decode config")
	}
	if config.Workers < 1 {
		return nil, errors.Errorf("workers must be positive, got %d", config.Workers)
	}
	return config, nil
}

// options converts the config into loader options. Diagnostics are written
// to w in verbose mode.
func (c *Config) options(w io.Writer) loader.Options {
	options := loader.Options{
		Pattern:     c.Pattern,
		Workers:     c.Workers,
		Schema:      c.Schema,
		SkipInvalid: c.SkipInvalid,
	}
	options.Logger = c.logger(w)
	return options
}

// logger returns a logger writing to w in verbose mode and nil otherwise.
func (c *Config) logger(w io.Writer) *log.Logger {
	if !c.Verbose {
		return nil
	}
	return log.New(w, "", log.LstdFlags)
}
