/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */


package console

import (
	"bytes"
	"flag"
	"os"
	"strings"
	"sync"
	"testing"

	"devt.de/krotik/common/httputil"
	"devt.de/krotik/querytoken/api"
	v1 "devt.de/krotik/querytoken/api/v1"
	"devt.de/krotik/querytoken/config"
	"devt.de/krotik/querytoken/query"
	"devt.de/krotik/querytoken/query/macro"
)

const TESTPORT = ":9597"

func TestMain(m *testing.M) {
	flag.Parse()

	// Initialise config

	config.LoadDefaultConfig()

	// Initialise the query processor

	d := macro.NewDictionary()
	d.Add("site: normal,no_params site:[example.com]x")
	d.Add("foo: normal bar")
	d.Add("lang: global lang:en")

	api.QP = query.NewProcessor(d, 100, 100, 0)

	// Start the server

	hs, wg := startServer()
	if hs == nil {
		return
	}

	// Register endpoints

	api.RegisterRestEndpoints(api.GeneralEndpointMap)
	api.RegisterRestEndpoints(v1.V1EndpointMap)

	// Run the tests

	res := m.Run()

	// Stop the server

	stopServer(hs, wg)

	os.Exit(res)
}

/*
Start a HTTP test server.
*/
func startServer() (*httputil.HTTPServer, *sync.WaitGroup) {
	hs := &httputil.HTTPServer{}

	var wg sync.WaitGroup
	wg.Add(1)

	go hs.RunHTTPServer(TESTPORT, &wg)

	wg.Wait()

	// Server is started

	if hs.LastError != nil {
		panic(hs.LastError)
	}

	return hs, &wg
}

/*
Stop a started HTTP test server.
*/
func stopServer(hs *httputil.HTTPServer, wg *sync.WaitGroup) {

	if hs.Running == true {

		wg.Add(1)

		// Server is shut down

		hs.Shutdown()

		wg.Wait()

	} else {

		panic("Server was not running as expected")
	}
}

func newTestConsole(out *bytes.Buffer, export *bytes.Buffer) CommandConsole {
	return NewConsole("http://localhost"+TESTPORT, out,
		func(args []string, e *bytes.Buffer) error {
			export.Reset()
			export.Write(e.Bytes())
			return nil
		})
}

func TestDescriptions(t *testing.T) {
	var out, export bytes.Buffer

	c := newTestConsole(&out, &export)

	for _, cmd := range c.Commands() {
		if ok, err := c.Run("help " + cmd.Name()); !ok || err != nil {
			t.Error(ok, err)
			return
		}
	}

	if res := out.String(); res != `
Exports the machine readable form of the last output (e.g. the token tree of a parsed query as JSON or a word table as CSV).
Display descriptions for all available commands. Shows the extensive description of every command which is given as argument.
Displays the names of all known macros. Displays the attribute values of a macro if a name is given.
Parses a search query and displays the resulting token tree. The export buffer contains the token tree as JSON.
Returns the byte offset of the n-th word in a text (counting from 1). Returns the length of the text if it contains fewer words.
Splits a text into plain words and displays the position and length of each word.
Displays the product name and version of the connected query service together with its REST API versions and the number of known macros.
`[1:] {
		t.Error("Unexpected result:", res)
		return
	}

	out.Reset()

	if ok, err := c.Run("help skip macro; export"); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if res := out.String(); res != `
Returns the byte offset of the n-th word in a text (counting from 1). Returns the length of the text if it contains fewer words.
Displays the names of all known macros. Displays the attribute values of a macro if a name is given.
`[1:] || export.String() != res {
		t.Error("Unexpected result:", res, export.String())
		return
	}

	out.Reset()

	if ok, err := c.Run("help skip foo"); ok || err == nil || err.Error() != "Unknown command: foo" || out.Len() != 0 {
		t.Error(ok, err)
		return
	}

	if ok, err := c.Run("foo"); ok || err == nil || err.Error() != "Unknown command" {
		t.Error(ok, err)
		return
	}

	// Without an export function there is no export command

	c = NewConsole("http://localhost"+TESTPORT, &out, nil)

	if ok, err := c.Run("export"); ok || err == nil || err.Error() != "Unknown command" {
		t.Error(ok, err)
		return
	}
}

func TestBasicCommands(t *testing.T) {
	var out, export bytes.Buffer

	c := newTestConsole(&out, &export)

	if ok, err := c.Run("?"); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if res := out.String(); res != `
Command Description
export  Exports the last output.
help    Display descriptions for all available commands.
macro   Displays known macros.
parse   Parses a search query.
skip    Returns the offset of the n-th word in a text.
tokens  Splits a text into plain words.
ver     Displays server version information.
`[1:] {
		t.Error("Unexpected result:", res)
		return
	}

	out.Reset()

	if ok, err := c.Run("ver; export"); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if res := out.String(); res != `
Server        http://localhost`[1:]+TESTPORT+`
Product       QueryToken
Version       `+config.ProductVersion+`
REST versions [v1]
Macros        3
` {
		t.Error("Unexpected result:", res)
		return
	}

	if res := export.String(); !strings.Contains(res, "Macros, 3") {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestParseCommand(t *testing.T) {
	var out, export bytes.Buffer

	c := newTestConsole(&out, &export)

	if ok, err := c.Run("parse"); ok || err == nil || err.Error() != "Please specify a search query" {
		t.Error(ok, err)
		return
	}

	if ok, err := c.Run("parse a b; export"); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if res := out.String(); res != "(\n\ta\n\tb\n" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := export.String(); res != `
{
  "children": [
    {
      "kind": "word",
      "len": 1,
      "pos": 0,
      "text": "a"
    },
    {
      "kind": "word",
      "len": 1,
      "pos": 2,
      "text": "b"
    }
  ],
  "kind": "openparen",
  "len": 3,
  "pos": 0,
  "text": "("
}`[1:] {
		t.Error("Unexpected result:", res)
		return
	}

	out.Reset()

	if ok, err := c.Run("parse lang site"); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if res := out.String(); res != `
site:
 * example.com
 * x
Globals: lang:
`[1:] {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestTokensCommand(t *testing.T) {
	var out, export bytes.Buffer

	c := newTestConsole(&out, &export)

	if ok, err := c.Run("tokens"); ok || err == nil || err.Error() != "Please specify a text" {
		t.Error(ok, err)
		return
	}

	if ok, err := c.Run("tokens a_b c; export"); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if res := out.String(); res != `
┌────┬────┬─────┐
│Pos │Len │Word │
├────┼────┼─────┤
│0   │1   │a    │
│2   │1   │b    │
│4   │1   │c    │
└────┴────┴─────┘
3 words
`[1:] {
		t.Error("Unexpected result:", res)
		return
	}

	if res := export.String(); res != `
Pos, Len, Word
0, 1, a
2, 1, b
4, 1, c
`[1:] {
		t.Error("Unexpected result:", res)
		return
	}

	out.Reset()

	if ok, err := c.Run("tokens x"); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if res := out.String(); res != `
┌────┬────┬─────┐
│Pos │Len │Word │
├────┼────┼─────┤
│0   │1   │x    │
└────┴────┴─────┘
1 word
`[1:] {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestSkipCommand(t *testing.T) {
	var out, export bytes.Buffer

	c := newTestConsole(&out, &export)

	if ok, err := c.Run("skip 1"); ok || err == nil ||
		err.Error() != "Please specify a number of words and a text" {
		t.Error(ok, err)
		return
	}

	if ok, err := c.Run("skip x a"); ok || err == nil ||
		err.Error() != "Number of words should be an integer: x" {
		t.Error(ok, err)
		return
	}

	if ok, err := c.Run("skip 2 a_b c; export"); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if res := out.String(); res != "Offset: 2\n" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := export.String(); res != "2" {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestMacroCommand(t *testing.T) {
	var out, export bytes.Buffer

	c := newTestConsole(&out, &export)

	if ok, err := c.Run("macro"); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if res := out.String(); res != `
┌──────┐
│Macro │
├──────┤
│foo   │
│lang  │
│site  │
└──────┘
`[1:] {
		t.Error("Unexpected result:", res)
		return
	}

	out.Reset()

	if ok, err := c.Run("macro site; export"); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if res := out.String(); res != `
┌────────────┐
│Value       │
├────────────┤
│example.com │
│x           │
└────────────┘
`[1:] {
		t.Error("Unexpected result:", res)
		return
	}

	if res := export.String(); res != `
Value
example.com
x
`[1:] {
		t.Error("Unexpected result:", res)
		return
	}

	if ok, err := c.Run("macro bar"); ok || err == nil ||
		err.Error() != "GET request to /query/v1/macro/bar failed: Unknown macro: bar" {
		t.Error(ok, err)
		return
	}

	if _, err := c.Run("macro bar"); err.(*CommError).Resp.StatusCode != 404 {
		t.Error("Unexpected result:", err)
		return
	}
}
