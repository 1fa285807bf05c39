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
Package parser contains the search query tokenizer.

Tokenize

Tokenize() splits a given text into a flat list of plain word tokens. Count()
and Skip() use the same word boundaries and can be used to count or locate
words in a text without building tokens.

ParseExpression

ParseExpression() scans a search query in a single pass and builds a token tree.
While scanning, runs of sign operators are folded, comparison characters are
merged into multi character operators and grouping characters open and close
nested scopes. Candidate words can be handed to a MacroCallback which may
replace them with a prebuilt token tree (see the macro package).

Once the scan is complete the tree is normalized:

- Explicit OR tokens are lifted up: a or b c -> or(a, (b c))
- Explicit AND tokens are lifted up: a & b -> and(a, b)
- NOT tokens are split from the remaining tokens: not a b -> not(a, b)
- A top level list of more than one token is grouped with a synthetic paren
*/
package parser

/*
TokenKind represents the kind of a token in a token tree.
*/
type TokenKind int

/*
Available token kinds
*/
const (
	KindPlainWord    TokenKind = iota // Plain word
	KindOperator                      // Arithmetic operator or sign (+ - * / % ^)
	KindComparison                    // Comparison operator (! = < > and merged forms)
	KindAnd                           // Explicit and (& or &&)
	KindOr                            // Explicit or (| or ||)
	KindNot                           // Synthetic not
	KindQuestion                      // Question mark
	KindColon                         // Colon which does not follow a word
	KindComma                         // Comma inside a paren or bracket scope
	KindQuote                         // Double quote (owns the quoted tokens)
	KindOpenParen                     // ( (also used as implicit and group)
	KindCloseParen                    // )
	KindOpenBrace                     // {
	KindCloseBrace                    // }
	KindOpenBracket                   // [
	KindCloseBracket                  // ]
	KindSpace                         // Whitespace (never part of a tree)
	KindRangeDash                     // Range operator ..
	KindModifier                      // Word followed by a modifier character (* or ?)
	KindOther                         // Any other significant character
	KindEmptyGroup                    // Placeholder for an empty group
)

/*
Names of all token kinds
*/
var kindNames = map[TokenKind]string{
	KindPlainWord:    "word",
	KindOperator:     "operator",
	KindComparison:   "comparison",
	KindAnd:          "and",
	KindOr:           "or",
	KindNot:          "not",
	KindQuestion:     "question",
	KindColon:        "colon",
	KindComma:        "comma",
	KindQuote:        "quote",
	KindOpenParen:    "openparen",
	KindCloseParen:   "closeparen",
	KindOpenBrace:    "openbrace",
	KindCloseBrace:   "closebrace",
	KindOpenBracket:  "openbracket",
	KindCloseBracket: "closebracket",
	KindSpace:        "space",
	KindRangeDash:    "range",
	KindModifier:     "modifier",
	KindOther:        "other",
	KindEmptyGroup:   "empty",
}

/*
String returns the name of a token kind.
*/
func (k TokenKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

/*
KindFromString returns a token kind from a given name.
*/
func KindFromString(name string) (TokenKind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindOther, false
}

/*
CallbackKind is the classification a MacroCallback gives a candidate word.
*/
type CallbackKind int

/*
Available callback kinds
*/
const (
	CallbackNormal CallbackKind = iota // Token is attached to the tree
	CallbackSkip                       // Token is dropped
	CallbackNext                       // Token is attached as modifier to the next token
	CallbackGlobal                     // Token is collected in the global list of the tree
	CallbackNumber                     // Token is attached and marked as number
)

var callbackNames = map[CallbackKind]string{
	CallbackNormal: "normal",
	CallbackSkip:   "skip",
	CallbackNext:   "next",
	CallbackGlobal: "global",
	CallbackNumber: "number",
}

/*
String returns the name of a callback kind.
*/
func (k CallbackKind) String() string {
	if name, ok := callbackNames[k]; ok {
		return name
	}
	return "unknown"
}

/*
CallbackKindFromString returns a callback kind from its name (as used in
macro definitions).
*/
func CallbackKindFromString(name string) (CallbackKind, bool) {
	for k, n := range callbackNames {
		if n == name {
			return k, true
		}
	}
	return CallbackNormal, false
}

/*
Texts of synthesized tokens
*/
const (
	TextOpenParen = "("
	TextOr        = "or"
	TextAnd       = "and"
	TextNot       = "not"
	TextEquals    = "="
	TextSpace     = " "
)
