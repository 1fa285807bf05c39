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
Package query contains the query processor which is used by all outer
interfaces. A processor combines a macro dictionary, a token limit per query
and a cache for parsed queries.
*/
package query

import (
	"fmt"

	"devt.de/krotik/common/datautil"
	"devt.de/krotik/querytoken/query/macro"
	"devt.de/krotik/querytoken/query/parser"
)

/*
ParseRule is a rule which is consulted after a query was parsed. A rule
can reject a parsed query by returning an error.
*/
type ParseRule interface {

	/*
		Name returns the name of the rule.
	*/
	Name() string

	/*
		Handle handles a parsed query.
	*/
	Handle(query string, tree *parser.Tree) error
}

/*
Processor parses search queries. Parsed token trees are cached and must be
treated as read-only by all callers.
*/
type Processor struct {
	dict      *macro.Dictionary  // Macro dictionary (may be nil)
	maxTokens int                // Maximum number of tokens per query (0 for no limit)
	cache     *datautil.MapCache // Cache for parsed queries (may be nil)
	rule      ParseRule          // Rule for parsed queries (may be nil)
}

/*
NewProcessor creates a new query processor. The dictionary may be nil if no
macros should be expanded. A cache size of 0 disables the parse cache.
*/
func NewProcessor(dict *macro.Dictionary, maxTokens int, cacheSize uint64, cacheMaxAge int64) *Processor {
	var cache *datautil.MapCache

	if cacheSize > 0 {
		cache = datautil.NewMapCache(cacheSize, cacheMaxAge)
	}

	return &Processor{dict, maxTokens, cache, nil}
}

/*
SetParseRule sets a rule which handles all parsed queries. The rule should be
set before the processor is used.
*/
func (p *Processor) SetParseRule(rule ParseRule) {
	p.rule = rule
}

/*
Dictionary returns the macro dictionary of this processor (may be nil).
*/
func (p *Processor) Dictionary() *macro.Dictionary {
	return p.dict
}

/*
Parse parses a given search query into a normalized token tree.
*/
func (p *Processor) Parse(query string) (*parser.Tree, error) {
	var res *parser.Tree
	var err error

	if p.cache != nil {
		if cached, ok := p.cache.Get(query); ok {
			res = cached.(*parser.Tree)
		}
	}

	if res == nil {
		var cb parser.MacroCallback

		if p.dict != nil {
			cb = p.dict
		}

		res, err = parser.ParseExpression(inputName(query), parser.NewPool(p.maxTokens), query, cb)

		if err == nil && p.cache != nil {
			p.cache.Put(query, res)
		}
	}

	if err == nil && p.rule != nil {
		if err = p.rule.Handle(query, res); err != nil {
			res = nil
		}
	}

	return res, err
}

/*
Tokenize splits a given text into plain words.
*/
func (p *Processor) Tokenize(text string) ([]*parser.Token, error) {
	var ret []*parser.Token

	first, err := parser.Tokenize(parser.NewPool(p.maxTokens), text)

	for t := first; t != nil; t = t.Next {
		ret = append(ret, t)
	}

	return ret, err
}

/*
Count returns the number of plain words in a given text.
*/
func (p *Processor) Count(text string) int {
	return parser.Count(text)
}

/*
Skip returns the byte offset of the n-th plain word in a given text.
*/
func (p *Processor) Skip(text string, n int) int {
	return parser.Skip(text, n)
}

/*
MacroNames returns the names of all known macros.
*/
func (p *Processor) MacroNames() []string {
	if p.dict == nil {
		return nil
	}
	return p.dict.Names()
}

/*
MacroValues returns the attribute list of a given macro. Returns false if
the macro is unknown.
*/
func (p *Processor) MacroValues(name string) ([]string, bool) {
	if p.dict == nil {
		return nil, false
	}

	if !p.dict.Has(name) {
		return nil, false
	}

	return p.dict.Values(name), true
}

/*
inputName returns a short name for a query which is used in error messages.
*/
func inputName(query string) string {
	if len(query) > 20 {
		return fmt.Sprintf("%q...", query[:20])
	}
	return fmt.Sprintf("%q", query)
}
