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
Clone creates a deep copy of a given token and all its following siblings.
All new tokens are allocated from the given pool. The copy shares no tokens
and no attribute lists with the original.
*/
func Clone(pool *Pool, t *Token) (ret *Token, err error) {
	var pos int

	if t != nil {
		pos = t.Pos
	}

	defer recoverPool("clone", &pos, &err)

	return cloneChain(pool, t, nil), nil
}

/*
cloneChain copies a sibling chain under a given parent.
*/
func cloneChain(pool *Pool, t *Token, parent *Token) *Token {
	var first, prev *Token

	for ; t != nil; t = t.Next {
		c := cloneToken(pool, t, parent)

		if prev == nil {
			first = c
		} else {
			prev.Next = c
			c.Prev = prev
		}

		prev = c
	}

	return first
}

/*
cloneToken copies a single token with its children and modifiers.
*/
func cloneToken(pool *Pool, t *Token, parent *Token) *Token {
	c := pool.newToken(t.Kind, t.Text, t.Pos, t.Len)

	c.Parent = parent
	c.Callback = t.Callback
	c.NoParams = t.NoParams
	c.closed = t.closed

	if t.Attrs != nil {
		c.Attrs = make([]string, len(t.Attrs))
		copy(c.Attrs, t.Attrs)
	}

	for _, m := range t.Modifiers {
		c.Modifiers = append(c.Modifiers, cloneToken(pool, m, nil))
	}

	c.Child = cloneChain(pool, t.Child, c)

	return c
}
