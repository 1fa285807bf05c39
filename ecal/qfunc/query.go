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
Package qfunc contains query processor related ECAL functions.
*/
package qfunc

import (
	"fmt"
	"strconv"

	"devt.de/krotik/ecal/parser"
	"devt.de/krotik/ecal/scope"
	"devt.de/krotik/querytoken/query"
	qparser "devt.de/krotik/querytoken/query/parser"
)

/*
ParseFunc parses a search query.
*/
type ParseFunc struct {
	QP *query.Processor
}

/*
Run executes the ECAL function.
*/
func (f *ParseFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	if arglen := len(args); arglen != 1 {
		return nil, fmt.Errorf("Function requires 1 parameter: query string")
	}

	tree, err := f.QP.Parse(fmt.Sprint(args[0]))

	if err != nil {
		return nil, err
	}

	return PlainTree(tree), nil
}

/*
DocString returns a descriptive string.
*/
func (f *ParseFunc) DocString() (string, error) {
	return "Parse a search query into a token tree.", nil
}

/*
TokensFunc splits a text into plain words.
*/
type TokensFunc struct {
	QP *query.Processor
}

/*
Run executes the ECAL function.
*/
func (f *TokensFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	if arglen := len(args); arglen != 1 {
		return nil, fmt.Errorf("Function requires 1 parameter: text")
	}

	tokens, err := f.QP.Tokenize(fmt.Sprint(args[0]))

	if err != nil {
		return nil, err
	}

	ret := make([]interface{}, len(tokens))
	for i, t := range tokens {
		ret[i] = t.Text
	}

	return ret, nil
}

/*
DocString returns a descriptive string.
*/
func (f *TokensFunc) DocString() (string, error) {
	return "Split a text into plain words.", nil
}

/*
CountFunc counts the plain words in a text.
*/
type CountFunc struct {
	QP *query.Processor
}

/*
Run executes the ECAL function.
*/
func (f *CountFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	if arglen := len(args); arglen != 1 {
		return nil, fmt.Errorf("Function requires 1 parameter: text")
	}

	return float64(f.QP.Count(fmt.Sprint(args[0]))), nil
}

/*
DocString returns a descriptive string.
*/
func (f *CountFunc) DocString() (string, error) {
	return "Count the plain words in a text.", nil
}

/*
SkipFunc returns the byte offset of the n-th word in a text.
*/
type SkipFunc struct {
	QP *query.Processor
}

/*
Run executes the ECAL function.
*/
func (f *SkipFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	if arglen := len(args); arglen != 2 {
		return nil, fmt.Errorf("Function requires 2 parameters: text and number of words")
	}

	n, err := strconv.Atoi(fmt.Sprint(args[1]))

	if err != nil {
		return nil, fmt.Errorf("Number of words should be an integer: %v", args[1])
	}

	return float64(f.QP.Skip(fmt.Sprint(args[0]), n)), nil
}

/*
DocString returns a descriptive string.
*/
func (f *SkipFunc) DocString() (string, error) {
	return "Return the byte offset of the n-th word in a text.", nil
}

/*
MacroValuesFunc returns the attribute values of a macro.
*/
type MacroValuesFunc struct {
	QP *query.Processor
}

/*
Run executes the ECAL function.
*/
func (f *MacroValuesFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	if arglen := len(args); arglen != 1 {
		return nil, fmt.Errorf("Function requires 1 parameter: macro name")
	}

	values, ok := f.QP.MacroValues(fmt.Sprint(args[0]))

	if !ok {
		return nil, nil
	}

	ret := make([]interface{}, len(values))
	for i, v := range values {
		ret[i] = v
	}

	return ret, nil
}

/*
DocString returns a descriptive string.
*/
func (f *MacroValuesFunc) DocString() (string, error) {
	return "Return the attribute values of a macro (NULL if the macro is unknown).", nil
}

// Helper functions
// ================

/*
PlainTree returns an ECAL object representation of a given token tree.
*/
func PlainTree(tree *qparser.Tree) map[interface{}]interface{} {
	return scope.ConvertJSONToECALObject(tree.Plain()).(map[interface{}]interface{})
}
