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

import "strings"

/*
Token is a single node of a token tree. Every syntactic construct (word,
operator, punctuation or synthetic group) is represented by a token.
Child and Next are the forward links of the tree, Parent and Prev are back
references.
*/
type Token struct {
	Kind TokenKind // Kind of this token
	Text string    // Token text
	Pos  int       // Start position in the input (in bytes)
	Len  int       // Length of the token in the input (in bytes)

	Parent *Token // Parent token
	Child  *Token // First child token
	Next   *Token // Next sibling
	Prev   *Token // Previous sibling

	Modifiers []*Token     // Tokens of callback kind next which preceded this token
	Attrs     []string     // Attribute list (field:[a,b]value)
	Callback  CallbackKind // Callback kind this token was created with
	NoParams  bool         // Flag to discard attribute lists (stored macro trees)

	closed bool // Flag if a group token was closed
}

/*
Children returns all direct children of this token.
*/
func (t *Token) Children() []*Token {
	return siblings(t.Child)
}

/*
String returns a debug dump of this token and all its siblings.
*/
func (t *Token) String() string {
	return Dump(t)
}

/*
isOpenGroup checks if this token is a group which can still take a first child.
*/
func (t *Token) isOpenGroup() bool {
	switch t.Kind {
	case KindOpenParen, KindOpenBrace, KindOpenBracket, KindQuote:
		return t.Child == nil && !t.closed
	case KindComparison:
		return t.Child == nil && t.Text == TextEquals
	}
	return false
}

/*
isWord checks if this token is a plain word with a given text (case insensitive).
*/
func (t *Token) isWord(text string) bool {
	return t.Kind == KindPlainWord && strings.EqualFold(t.Text, text)
}

/*
Tree is the result of an expression parse.
*/
type Tree struct {
	Root    *Token   // Root of the normalized token tree (nil for an empty expression)
	Globals []*Token // Tokens of callback kind global
	Pool    *Pool    // Pool which owns all tokens of this tree
}

/*
String returns a debug dump of the tree.
*/
func (t *Tree) String() string {
	return Dump(t.Root)
}

// Pool
// ====

/*
poolSlabSize is the number of tokens which are allocated at once.
*/
const poolSlabSize = 64

/*
Pool owns the tokens of one or more token trees. Tokens are never freed
individually - all tokens of a pool live as long as the pool. A pool
must not be shared between concurrent parses.
*/
type Pool struct {
	slab      []Token // Remaining preallocated tokens
	count     int     // Number of allocated tokens
	maxTokens int     // Maximum number of tokens (0 for no limit)
}

/*
NewPool creates a new token pool. A maxTokens value of 0 means unlimited.
*/
func NewPool(maxTokens int) *Pool {
	return &Pool{maxTokens: maxTokens}
}

/*
Size returns the number of tokens which were allocated from this pool.
*/
func (p *Pool) Size() int {
	return p.count
}

/*
poolExhausted is the panic value used to unwind a parse once a pool is full.
*/
type poolExhausted struct {
	max int
}

/*
newToken allocates a new token from the pool.
*/
func (p *Pool) newToken(kind TokenKind, text string, pos int, length int) *Token {
	if p.maxTokens > 0 && p.count >= p.maxTokens {
		panic(poolExhausted{p.maxTokens})
	}

	if len(p.slab) == 0 {
		p.slab = make([]Token, poolSlabSize)
	}

	t := &p.slab[0]
	p.slab = p.slab[1:]
	p.count++

	t.Kind = kind
	t.Text = text
	t.Pos = pos
	t.Len = length

	return t
}

/*
synthetic allocates a synthetic token which takes the position of a given token.
*/
func (p *Pool) synthetic(kind TokenKind, text string, at *Token) *Token {
	return p.newToken(kind, text, at.Pos, at.Len)
}

// Link helpers
// ============

/*
siblings returns a given token and all its following siblings.
*/
func siblings(t *Token) []*Token {
	var ret []*Token

	for ; t != nil; t = t.Next {
		ret = append(ret, t)
	}

	return ret
}

/*
link turns a list of tokens into a sibling chain under a given parent (which
may be nil). Returns the first token of the chain.
*/
func link(parent *Token, tokens []*Token) *Token {
	var prev *Token

	for _, t := range tokens {
		t.Parent = parent
		t.Prev = prev
		t.Next = nil

		if prev != nil {
			prev.Next = t
		}
		prev = t
	}

	var first *Token

	if len(tokens) > 0 {
		first = tokens[0]
	}

	if parent != nil {
		parent.Child = first
	}

	return first
}
