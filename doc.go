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

// Package goartifacts parses forensic artifact definitions.
//
// An artifact definition describes where forensically relevant data can be
// found on a system: files, directories, registry keys and values, WMI
// queries, command output or other artifacts. Definitions are declared in
// YAML or JSON, e.g.
//
//	name: WindowsRunKeys
//	supported_os: [Windows]
//	sources:
//	- type: REGISTRY_KEY
//	  attributes:
//	    keys:
//	    - 'HKEY_USERS\%%users.sid%%\Software\Microsoft\Windows\CurrentVersion\Run\*'
//
// MakeArtifact turns one decoded record into an ArtifactDefinition. Every
// source is validated for its type and the %%variables%% its paths,
// commands and queries reference are collected in Source.Needs.
//
// The definitions only describe where to look, this package never accesses a
// live system.
package goartifacts
