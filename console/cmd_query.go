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
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/common/stringutil"
	v1 "devt.de/krotik/querytoken/api/v1"
)

// Command: parse
// ==============

/*
CommandParse is a command name.
*/
const CommandParse = "parse"

/*
CmdParse parses a search query.
*/
type CmdParse struct {
	commandInfo
}

func newCmdParse() *CmdParse {
	return &CmdParse{commandInfo{
		name:  CommandParse,
		short: "Parses a search query.",
		long: "Parses a search query and displays the resulting token tree. " +
			"The export buffer contains the token tree as JSON.",
	}}
}

/*
Run executes the command.
*/
func (c *CmdParse) Run(args []string, capi CommandConsoleAPI) error {

	if len(args) == 0 {
		return fmt.Errorf("Please specify a search query")
	}

	content, err := json.Marshal(map[string]interface{}{
		"query": strings.Join(args, " "),
	})
	errorutil.AssertOk(err) // Json marshall should never fail

	res, err := capi.Req(v1.EndpointParse, "POST", content)

	if err == nil {
		data := res.(map[string]interface{})

		ast, _ := json.MarshalIndent(data["ast"], "", "  ")
		capi.ExportBuffer().Write(ast)

		if dump := fmt.Sprint(data["dump"]); dump != "" {
			fmt.Fprint(capi.Out(), dump)
		} else {
			fmt.Fprintln(capi.Out(), "Empty query")
		}

		if globals, ok := data["globals"].([]interface{}); ok && len(globals) > 0 {
			var names []string

			for _, g := range globals {
				names = append(names, fmt.Sprint(g.(map[string]interface{})["text"]))
			}

			fmt.Fprintln(capi.Out(), fmt.Sprintf("Globals: %v", strings.Join(names, " ")))
		}
	}

	return err
}

// Command: tokens
// ===============

/*
CommandTokens is a command name.
*/
const CommandTokens = "tokens"

/*
CmdTokens splits a text into plain words.
*/
type CmdTokens struct {
	commandInfo
}

func newCmdTokens() *CmdTokens {
	return &CmdTokens{commandInfo{
		name:  CommandTokens,
		short: "Splits a text into plain words.",
		long:  "Splits a text into plain words and displays the position and length of each word.",
	}}
}

/*
Run executes the command.
*/
func (c *CmdTokens) Run(args []string, capi CommandConsoleAPI) error {

	if len(args) == 0 {
		return fmt.Errorf("Please specify a text")
	}

	res, err := capi.Req(v1.EndpointTokens+"?q="+url.QueryEscape(strings.Join(args, " ")), "GET", nil)

	if err == nil {
		data := res.(map[string]interface{})

		tab := []string{"Pos", "Len", "Word"}

		for _, t := range data["tokens"].([]interface{}) {
			tok := t.(map[string]interface{})
			tab = append(tab, fmt.Sprint(tok["pos"]), fmt.Sprint(tok["len"]), fmt.Sprint(tok["text"]))
		}

		capi.ExportBuffer().WriteString(stringutil.PrintCSVTable(tab, 3))

		fmt.Fprint(capi.Out(), stringutil.PrintGraphicStringTable(tab, 3, 1,
			stringutil.SingleLineTable))

		count := int(data["count"].(float64))

		fmt.Fprintln(capi.Out(), fmt.Sprintf("%v word%v", count, stringutil.Plural(count)))
	}

	return err
}

// Command: skip
// =============

/*
CommandSkip is a command name.
*/
const CommandSkip = "skip"

/*
CmdSkip locates a word in a text.
*/
type CmdSkip struct {
	commandInfo
}

func newCmdSkip() *CmdSkip {
	return &CmdSkip{commandInfo{
		name:  CommandSkip,
		short: "Returns the offset of the n-th word in a text.",
		long: "Returns the byte offset of the n-th word in a text (counting from 1). " +
			"Returns the length of the text if it contains fewer words.",
	}}
}

/*
Run executes the command.
*/
func (c *CmdSkip) Run(args []string, capi CommandConsoleAPI) error {

	if len(args) < 2 {
		return fmt.Errorf("Please specify a number of words and a text")
	}

	if _, err := strconv.Atoi(args[0]); err != nil {
		return fmt.Errorf("Number of words should be an integer: %v", args[0])
	}

	res, err := capi.Req(fmt.Sprintf("%v?skip=%v&q=%v", v1.EndpointTokens, args[0],
		url.QueryEscape(strings.Join(args[1:], " "))), "GET", nil)

	if err == nil {
		offset := fmt.Sprint(res.(map[string]interface{})["offset"])

		capi.ExportBuffer().WriteString(offset)
		fmt.Fprintln(capi.Out(), fmt.Sprintf("Offset: %v", offset))
	}

	return err
}

// Command: macro
// ==============

/*
CommandMacro is a command name.
*/
const CommandMacro = "macro"

/*
CmdMacro displays known macros.
*/
type CmdMacro struct {
	commandInfo
}

func newCmdMacro() *CmdMacro {
	return &CmdMacro{commandInfo{
		name:  CommandMacro,
		short: "Displays known macros.",
		long: "Displays the names of all known macros. Displays the attribute values " +
			"of a macro if a name is given.",
	}}
}

/*
Run executes the command.
*/
func (c *CmdMacro) Run(args []string, capi CommandConsoleAPI) error {
	var tab []string
	var rows []interface{}

	if len(args) > 0 {

		res, err := capi.Req(v1.EndpointMacro+url.PathEscape(args[0]), "GET", nil)
		if err != nil {
			return err
		}

		tab = append(tab, "Value")
		rows = res.(map[string]interface{})["values"].([]interface{})

	} else {

		res, err := capi.Req(v1.EndpointMacro, "GET", nil)
		if err != nil {
			return err
		}

		tab = append(tab, "Macro")
		rows = res.([]interface{})
	}

	for _, r := range rows {
		tab = append(tab, fmt.Sprint(r))
	}

	capi.ExportBuffer().WriteString(stringutil.PrintCSVTable(tab, 1))

	fmt.Fprint(capi.Out(), stringutil.PrintGraphicStringTable(tab, 1, 1,
		stringutil.SingleLineTable))

	return nil
}
