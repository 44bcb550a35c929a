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

// Package artifacts implements the artifacts command line tool for
// ForensicArtifacts definition files.
//
//	validate  Validate definition files
//	show      Print a single definition as JSON
//	needs     List the variables each definition depends on
//	index     Store definitions in a catalog
//	get       Retrieve a definition from a catalog
//	select    List catalog definitions by source type and operating system
//	find      List catalog definitions with a value containing a term
//
// # Usage
//
// Validate a directory of definitions
//
//	artifacts validate --schema artifacts/data
//
// Build and query a catalog
//
//	artifacts index artifacts.db artifacts/data
//	artifacts get WindowsRunKeys artifacts.db
//	artifacts select --type REGISTRY_KEY --os Windows artifacts.db
//
// Settings can also be given as ARTIFACTS_ environment variables
// (e.g. ARTIFACTS_WORKERS=8) or in a file passed with --config.
package main

import (
	"fmt"
	"os"

	"github.com/forensicanalysis/goartifacts/cmd"
)

func main() {
	if err := cmd.Root().Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
