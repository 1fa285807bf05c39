/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */


/*
QueryToken is a search query processing service. It turns search queries into
normalized token trees.

Features:

- Single pass tokenizer which folds signs, merges comparison operators and
builds nested groups for parentheses, braces, brackets and quotes.

- Attribute lists of the form field:[a,b]value.

- A macro dictionary which expands known words into prebuilt token trees.

- Boolean normalization which lifts explicit OR and AND and splits NOT.

- A REST API, a websocket endpoint for parsing and ECAL scripting support.

- A command line console which talks to a running server.
*/
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/common/fileutil"
	"devt.de/krotik/common/termutil"
	"devt.de/krotik/querytoken/config"
	"devt.de/krotik/querytoken/console"
	"devt.de/krotik/querytoken/query"
	"devt.de/krotik/querytoken/query/macro"
	"devt.de/krotik/querytoken/server"
)

func main() {

	// Initialize the default command line parser

	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)

	// Define default usage message

	flag.Usage = func() {

		// Print usage for tool selection

		fmt.Println(fmt.Sprintf("Usage of %s <tool>", os.Args[0]))
		fmt.Println()
		fmt.Println(fmt.Sprintf("QueryToken %v - Search query processing service", config.ProductVersion))
		fmt.Println()
		fmt.Println("Available commands:")
		fmt.Println()
		fmt.Println("    console   QueryToken server console")
		fmt.Println("    dump      Parse a query and print its token tree")
		fmt.Println("    server    Start QueryToken server")
		fmt.Println()
		fmt.Println(fmt.Sprintf("Use %s <command> -help for more information about a given command.", os.Args[0]))
		fmt.Println()
	}

	// Parse the command bit

	err := flag.CommandLine.Parse(os.Args[1:])

	if len(flag.Args()) > 0 {

		arg := flag.Args()[0]

		if arg == "server" {
			config.LoadConfigFile(config.DefaultConfigFile)
			server.StartServerWithSingleOp(handleServerCommandLine)
		} else if arg == "console" {
			config.LoadConfigFile(config.DefaultConfigFile)
			RunCliConsole()
		} else if arg == "dump" {
			config.LoadDefaultConfig()
			RunDump()
		} else {
			flag.Usage()
		}

	} else if err == nil {

		flag.Usage()
	}
}

/*
RunCliConsole runs the server console on the commandline.
*/
func RunCliConsole() {
	var err error

	// Try to get the server host and port from the config file

	chost, cport := getHostPortFromConfig()

	host := flag.String("host", chost, "Host of the QueryToken server")
	port := flag.String("port", cport, "Port of the QueryToken server")

	cmdfile := flag.String("file", "", "Read commands from a file and exit")
	cmdline := flag.String("exec", "", "Execute a single line and exit")

	showHelp := flag.Bool("help", false, "Show this help message")

	flag.Usage = func() {
		fmt.Println()
		fmt.Println(fmt.Sprintf("Usage of %s console [options]", os.Args[0]))
		fmt.Println()
		flag.PrintDefaults()
		fmt.Println()
	}

	flag.CommandLine.Parse(os.Args[2:])

	if *showHelp {
		flag.Usage()
		return
	}

	if *cmdfile == "" && *cmdline == "" {
		fmt.Println(fmt.Sprintf("QueryToken %v - Console", config.ProductVersion))
	}

	var clt termutil.ConsoleLineTerminal

	isExitLine := func(s string) bool {
		return s == "exit" || s == "q" || s == "quit" || s == "bye" || s == "\x04"
	}

	clt, err = termutil.NewConsoleLineTerminal(os.Stdout)

	if *cmdfile != "" {
		var file *os.File

		// Read commands from a file

		file, err = os.Open(*cmdfile)
		if err == nil {
			defer file.Close()

			clt, err = termutil.AddFileReadingWrapper(clt, file, true)
		}

	} else if *cmdline != "" {
		var buf bytes.Buffer

		buf.WriteString(fmt.Sprintln(*cmdline))

		// Read commands from a single line

		clt, err = termutil.AddFileReadingWrapper(clt, &buf, true)

	} else {

		// Add history functionality

		histfile := filepath.Join(filepath.Dir(os.Args[0]), ".querytoken_console_history")
		clt, err = termutil.AddHistoryMixin(clt, histfile,
			func(s string) bool {
				return isExitLine(s)
			})
	}

	if err == nil {

		// Create the console object

		con := console.NewConsole(fmt.Sprintf("http://%s:%s", *host, *port), os.Stdout,
			func(args []string, exportBuf *bytes.Buffer) error {

				// Export data to a chosen file

				filename := "export.out"

				if len(args) > 0 {
					filename = args[0]
				}

				return ioutil.WriteFile(filename, exportBuf.Bytes(), 0666)
			})

		// Start the console

		if err = clt.StartTerm(); err == nil {
			var line string

			defer clt.StopTerm()

			if *cmdfile == "" && *cmdline == "" {
				fmt.Println("Type 'q' or 'quit' to exit the shell and '?' to get help")
			}

			line, err = clt.NextLine()
			for err == nil && !isExitLine(line) {

				_, cerr := con.Run(line)

				if cerr != nil {

					// Output any error

					fmt.Fprintln(clt, cerr.Error())
				}

				line, err = clt.NextLine()
			}
		}
	}

	if err != nil {
		fmt.Println(err.Error())
	}
}

/*
RunDump parses a query given on the commandline and prints its token tree.
*/
func RunDump() {
	var err error
	var dict *macro.Dictionary

	macros := flag.String("macros", "", "Macro dictionary file which should be used")
	maxTokens := flag.Int("max-tokens", int(config.Int(config.MaxQueryTokens)),
		"Maximum number of tokens per query")
	asJSON := flag.Bool("json", false, "Print the token tree as JSON")

	showHelp := flag.Bool("help", false, "Show this help message")

	flag.Usage = func() {
		fmt.Println()
		fmt.Println(fmt.Sprintf("Usage of %s dump [options] <query>", os.Args[0]))
		fmt.Println()
		flag.PrintDefaults()
		fmt.Println()
	}

	flag.CommandLine.Parse(os.Args[2:])

	if *showHelp || len(flag.Args()) == 0 {
		flag.Usage()
		return
	}

	if *macros != "" {
		macro.LogInfo = func(v ...interface{}) {
			fmt.Fprintln(os.Stderr, v...)
		}

		dict, err = macro.LoadDictionary(*macros, false)
	}

	if err == nil {
		var tree string

		qp := query.NewProcessor(dict, *maxTokens, 0, 0)

		if tree, err = dumpQuery(qp, strings.Join(flag.Args(), " "), *asJSON); err == nil {
			fmt.Print(tree)
		}
	}

	if err != nil {
		fmt.Println(err.Error())
	}
}

/*
dumpQuery parses a query and renders the result either as debug dump or as JSON.
*/
func dumpQuery(qp *query.Processor, q string, asJSON bool) (string, error) {
	tree, err := qp.Parse(q)
	if err != nil {
		return "", err
	}

	if asJSON {
		res, err := json.MarshalIndent(tree.Plain(), "", "  ")
		errorutil.AssertOk(err)
		return string(res) + "\n", nil
	}

	var buf bytes.Buffer

	buf.WriteString(tree.String())

	for _, g := range tree.Globals {
		buf.WriteString(fmt.Sprintf("Global: %v%v\n", g.Text, attrString(g.Attrs)))
	}

	return buf.String(), nil
}

/*
attrString renders the attribute list of a token.
*/
func attrString(attrs []string) string {
	if len(attrs) == 0 {
		return ""
	}
	return " [" + strings.Join(attrs, ", ") + "]"
}

/*
getHostPortFromConfig gets the host and port from the config file or the
default config.
*/
func getHostPortFromConfig() (string, string) {
	host := fileutil.ConfStr(config.DefaultConfig, config.HTTPHost)
	port := fileutil.ConfStr(config.DefaultConfig, config.HTTPPort)

	configFile := filepath.Join(filepath.Dir(os.Args[0]), config.DefaultConfigFile)
	if ok, _ := fileutil.PathExists(configFile); ok {
		cfg, _ := fileutil.LoadConfig(configFile, config.DefaultConfig)
		if cfg != nil {

			host = fileutil.ConfStr(cfg, config.HTTPHost)
			port = fileutil.ConfStr(cfg, config.HTTPPort)
		}
	}

	return host, port
}

/*
handleServerCommandLine handles all command line options for the server
*/
func handleServerCommandLine(qp *query.Processor) bool {

	check := flag.String("check", "", "Parse a query with the loaded macros and exit")

	showHelp := flag.Bool("help", false, "Show this help message")

	flag.Usage = func() {
		fmt.Println()
		fmt.Println(fmt.Sprintf("Usage of %s server [options]", os.Args[0]))
		fmt.Println()
		flag.PrintDefaults()
		fmt.Println()
	}

	flag.CommandLine.Parse(os.Args[2:])

	if *showHelp {
		flag.Usage()
		return true
	}

	if *check != "" {
		res, err := dumpQuery(qp, *check, false)

		if err != nil {
			res = err.Error() + "\n"
		}

		fmt.Print(res)

		return true
	}

	return false
}
