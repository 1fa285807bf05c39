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
pass is a rewrite of a single sibling chain. It returns the new chain.
*/
type pass func(pool *Pool, nodes []*Token) []*Token

/*
normalize runs all rewrite passes over a raw token tree.
*/
func normalize(pool *Pool, head *Token) *Token {
	if head == nil {
		return nil
	}

	head = apply(pool, nil, head, liftOrs)
	head = apply(pool, nil, head, liftAnds)
	head = apply(pool, nil, head, splitNots)
	head = groupAnd(pool, head)

	return fixOpenParens(head)
}

/*
apply runs a pass in postorder over a chain and all nested chains. The
contents of quotes are left untouched.
*/
func apply(pool *Pool, parent *Token, first *Token, p pass) *Token {
	nodes := siblings(first)

	for _, n := range nodes {
		if n.Child != nil && n.Kind != KindQuote {
			apply(pool, n, n.Child, p)
		}
	}

	return link(parent, p(pool, nodes))
}

/*
wrap creates a synthetic token which contains a given list of tokens.
*/
func wrap(pool *Pool, kind TokenKind, text string, nodes []*Token) *Token {
	first, last := nodes[0], nodes[len(nodes)-1]

	length := last.Pos + last.Len - first.Pos
	if length < 0 {
		length = first.Len
	}

	w := pool.newToken(kind, text, first.Pos, length)
	w.closed = true

	link(w, nodes)

	return w
}

/*
isOr checks if a token separates alternatives.
*/
func isOr(t *Token) bool {
	return t.Kind == KindOr || t.isWord(TextOr)
}

/*
isAnd checks if a token is an explicit and.
*/
func isAnd(t *Token) bool {
	return t.Kind == KindAnd
}

/*
isNot checks if a token negates its following sibling.
*/
func isNot(t *Token) bool {
	return (t.Kind == KindNot && t.Child == nil) || t.isWord(TextNot)
}

/*
liftOrs lifts explicit or tokens: a b or c -> or((a b), c)
*/
func liftOrs(pool *Pool, nodes []*Token) []*Token {
	return lift(pool, nodes, isOr, KindOr, TextOr)
}

/*
liftAnds lifts explicit and tokens: a & b -> and(a, b)
*/
func liftAnds(pool *Pool, nodes []*Token) []*Token {
	return lift(pool, nodes, isAnd, KindAnd, TextAnd)
}

/*
lift cuts a chain at every separator token and puts the segments under a
synthetic token. A single remaining segment still gets the synthetic token as
its parent. Segments with more than one token are grouped with a
synthetic paren.
*/
func lift(pool *Pool, nodes []*Token, isSep func(*Token) bool,
	kind TokenKind, text string) []*Token {

	var segments [][]*Token
	var segment []*Token

	cuts := 0

	for _, n := range nodes {
		if isSep(n) {
			cuts++

			if len(segment) > 0 {
				segments = append(segments, segment)
			}
			segment = nil

			continue
		}

		segment = append(segment, n)
	}

	if len(segment) > 0 {
		segments = append(segments, segment)
	}

	if cuts == 0 || len(segments) == 0 {
		return nodes
	}

	children := make([]*Token, 0, len(segments))

	for _, seg := range segments {
		if len(seg) == 1 {
			children = append(children, seg[0])
		} else {
			children = append(children, wrap(pool, KindOpenParen, TextOpenParen, seg))
		}
	}

	return []*Token{wrap(pool, kind, text, children)}
}

/*
splitNots separates negated tokens from all other tokens of a chain:
not a b not c -> not(or(a, c), b)
*/
func splitNots(pool *Pool, nodes []*Token) []*Token {
	var negated, others []*Token

	for i := 0; i < len(nodes); i++ {
		n := nodes[i]

		if isNot(n) {
			if i+1 < len(nodes) {
				negated = append(negated, nodes[i+1])
				i++
			}
			continue
		}

		others = append(others, n)
	}

	if len(negated) == 0 || len(others) == 0 {
		return nodes
	}

	negGroup := negated[0]
	if len(negated) > 1 {
		negGroup = wrap(pool, KindOr, TextOr, negated)
	}

	otherGroup := others[0]
	if len(others) > 1 {
		otherGroup = wrap(pool, KindOpenParen, TextOpenParen, others)
	}

	return []*Token{wrap(pool, KindNot, TextNot, []*Token{negGroup, otherGroup})}
}

/*
groupAnd groups a top level chain of more than one token with a synthetic
paren.
*/
func groupAnd(pool *Pool, head *Token) *Token {
	if head.Next == nil {
		return head
	}
	return wrap(pool, KindOpenParen, TextOpenParen, siblings(head))
}

/*
fixOpenParens is the last rewrite step. Groups are currently kept as they are.
*/
func fixOpenParens(head *Token) *Token {
	return head
}
