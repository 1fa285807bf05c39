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

/*
CallbackData is the data which is exchanged with a MacroCallback for a
single candidate word.
*/
type CallbackData struct {
	Pool     *Pool    // Pool of the current parse (replacement tokens must be allocated here)
	Text     string   // Candidate text (may be changed by the callback)
	Attrs    []string // Collected attribute list (only set for field:[a,b]value words)
	NoParams bool     // Flag to discard the attribute list and rewind the scan
	Alt      *Token   // Replacement token tree
}

/*
MacroCallback is consulted by the expression parser for every candidate word
before a token is created for it.
*/
type MacroCallback interface {

	/*
		Expand classifies a candidate word. It may change the candidate text,
		request a rewind of the attribute list or provide a replacement token tree.
	*/
	Expand(data *CallbackData) (CallbackKind, error)
}

/*
CallbackFunc is a function which implements MacroCallback.
*/
type CallbackFunc func(data *CallbackData) (CallbackKind, error)

/*
Expand calls the wrapped function.
*/
func (f CallbackFunc) Expand(data *CallbackData) (CallbackKind, error) {
	return f(data)
}

/*
PassThrough is a MacroCallback which keeps every word as it is.
*/
var PassThrough MacroCallback = CallbackFunc(func(data *CallbackData) (CallbackKind, error) {
	return CallbackNormal, nil
})
