/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */


package parser

import (
	"errors"
	"fmt"
)

/*
newParserError creates a new parser error object.
*/
func newParserError(name string, t error, d string, pos int) error {
	return &Error{name, t, d, pos}
}

/*
Error models a parser related error
*/
type Error struct {
	Source string // Name of the source which was given to the parser
	Type   error  // Error type (to be used for equal checks)
	Detail string // Details of this error
	Pos    int    // Position of the error in the input
}

/*
Error returns a human-readable string representation of this error.
*/
func (pe *Error) Error() string {
	var ret string

	if pe.Detail != "" {
		ret = fmt.Sprintf("Parse error in %s: %v (%v)", pe.Source, pe.Type, pe.Detail)
	} else {
		ret = fmt.Sprintf("Parse error in %s: %v", pe.Source, pe.Type)
	}

	if pe.Pos != 0 {
		return fmt.Sprintf("%s (Pos:%d)", ret, pe.Pos)
	}

	return ret
}

/*
Parser related error types
*/
var (
	ErrPoolExhausted = errors.New("Token pool exhausted")
	ErrCallback      = errors.New("Macro callback failed")
)

/*
recoverPool turns a pool exhaustion panic into an error. It must be called
deferred by every public entry point which allocates tokens.
*/
func recoverPool(name string, pos *int, err *error) {
	if r := recover(); r != nil {
		pe, ok := r.(poolExhausted)
		if !ok {
			panic(r)
		}

		*err = newParserError(name, ErrPoolExhausted,
			fmt.Sprintf("limit is %v tokens", pe.max), *pos)
	}
}
