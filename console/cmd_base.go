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
	"fmt"

	"devt.de/krotik/common/stringutil"
	"devt.de/krotik/querytoken/api"
)

/*
commandInfo holds the name and the descriptions of a console command. All
commands embed it.
*/
type commandInfo struct {
	name  string // Name of the command (as it should be typed)
	short string // Single line description
	long  string // Extensive description (defaults to the short description)
}

/*
Name returns the command name.
*/
func (ci *commandInfo) Name() string {
	return ci.name
}

/*
ShortDescription returns a short description of the command (single line).
*/
func (ci *commandInfo) ShortDescription() string {
	return ci.short
}

/*
LongDescription returns an extensive description of the command.
*/
func (ci *commandInfo) LongDescription() string {
	if ci.long == "" {
		return ci.short
	}
	return ci.long
}

// Command: ver
// ============

/*
CommandVer is a command name.
*/
const CommandVer = "ver"

/*
CmdVer shows which query service the console is talking to.
*/
type CmdVer struct {
	commandInfo
}

func newCmdVer() *CmdVer {
	return &CmdVer{commandInfo{
		name:  CommandVer,
		short: "Displays server version information.",
		long: "Displays the product name and version of the connected query service " +
			"together with its REST API versions and the number of known macros.",
	}}
}

/*
Run executes the command.
*/
func (c *CmdVer) Run(args []string, capi CommandConsoleAPI) error {

	res, err := capi.Req(api.EndpointAbout, "GET", nil)
	if err != nil {
		return err
	}

	data := res.(map[string]interface{})

	tab := []string{
		"Server", capi.URL(),
		"Product", fmt.Sprint(data["product"]),
		"Version", fmt.Sprint(data["version"]),
		"REST versions", fmt.Sprint(data["api_versions"]),
		"Macros", fmt.Sprint(data["macros"]),
	}

	capi.ExportBuffer().WriteString(stringutil.PrintCSVTable(tab, 2))
	fmt.Fprint(capi.Out(), stringutil.PrintStringTable(tab, 2))

	return nil
}

// Command: export
// ===============

/*
CommandExport is a command name.
*/
const CommandExport = "export"

/*
CmdExport hands the export buffer to an export function.
*/
type CmdExport struct {
	commandInfo
	exportFunc func([]string, *bytes.Buffer) error
}

func newCmdExport(exportFunc func([]string, *bytes.Buffer) error) *CmdExport {
	return &CmdExport{commandInfo{
		name:  CommandExport,
		short: "Exports the last output.",
		long: "Exports the machine readable form of the last output (e.g. the token " +
			"tree of a parsed query as JSON or a word table as CSV).",
	}, exportFunc}
}

/*
Run executes the command.
*/
func (c *CmdExport) Run(args []string, capi CommandConsoleAPI) error {
	return c.exportFunc(args, capi.ExportBuffer())
}

// Command: help
// =============

/*
CommandHelp is a command name.
*/
const CommandHelp = "help"

/*
CmdHelp describes the available commands.
*/
type CmdHelp struct {
	commandInfo
}

func newCmdHelp() *CmdHelp {
	return &CmdHelp{commandInfo{
		name:  CommandHelp,
		short: "Display descriptions for all available commands.",
		long: "Display descriptions for all available commands. Shows the extensive " +
			"description of every command which is given as argument.",
	}}
}

/*
Run executes the command.
*/
func (c *CmdHelp) Run(args []string, capi CommandConsoleAPI) error {
	cmds := make(map[string]Command)

	tab := []string{"Command", "Description"}

	for _, cmd := range capi.Commands() {
		cmds[cmd.Name()] = cmd
		tab = append(tab, cmd.Name(), cmd.ShortDescription())
	}

	if len(args) == 0 {
		capi.ExportBuffer().WriteString(stringutil.PrintCSVTable(tab, 2))
		fmt.Fprint(capi.Out(), stringutil.PrintStringTable(tab, 2))
		return nil
	}

	for _, name := range args {
		if _, ok := cmds[name]; !ok {
			return fmt.Errorf("Unknown command: %s", name)
		}
	}

	for _, name := range args {
		desc := cmds[name].LongDescription()

		capi.ExportBuffer().WriteString(desc + "\n")
		fmt.Fprintln(capi.Out(), desc)
	}

	return nil
}
