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
	"bytes"
	"fmt"

	"devt.de/krotik/common/stringutil"
)

/*
Dump returns a depth indented text rendering of a given token and all its
siblings. Attributes are listed with a leading asterisk, modifiers are
indented two levels and children one level deeper than their token.
*/
func Dump(t *Token) string {
	var buf bytes.Buffer

	dumpChain(&buf, t, 0)

	return buf.String()
}

func dumpChain(buf *bytes.Buffer, t *Token, depth int) {
	for ; t != nil; t = t.Next {
		dumpToken(buf, t, depth)
	}
}

func dumpToken(buf *bytes.Buffer, t *Token, depth int) {
	indent := stringutil.GenerateRollingString("\t", depth)

	text := t.Text
	if t.Kind == KindEmptyGroup {
		text = "<empty>"
	}

	fmt.Fprintf(buf, "%s%s\n", indent, text)

	for _, a := range t.Attrs {
		fmt.Fprintf(buf, "%s * %s\n", indent, a)
	}

	for _, m := range t.Modifiers {
		dumpToken(buf, m, depth+2)
	}

	dumpChain(buf, t.Child, depth+1)
}

/*
Plain returns a plain object representation of this token and its children
which can be serialized to JSON.
*/
func (t *Token) Plain() map[string]interface{} {
	ret := map[string]interface{}{
		"kind": t.Kind.String(),
		"text": t.Text,
		"pos":  t.Pos,
		"len":  t.Len,
	}

	if t.Callback != CallbackNormal {
		ret["callback"] = t.Callback.String()
	}

	if len(t.Attrs) > 0 {
		attrs := make([]interface{}, len(t.Attrs))
		for i, a := range t.Attrs {
			attrs[i] = a
		}
		ret["attrs"] = attrs
	}

	if len(t.Modifiers) > 0 {
		ret["modifiers"] = PlainList(t.Modifiers)
	}

	if t.Child != nil {
		ret["children"] = PlainList(t.Children())
	}

	return ret
}

/*
PlainList returns the plain object representation of a list of tokens.
*/
func PlainList(tokens []*Token) []interface{} {
	ret := make([]interface{}, 0, len(tokens))

	for _, t := range tokens {
		ret = append(ret, t.Plain())
	}

	return ret
}

/*
Plain returns the plain object representation of a tree. The object contains
the normalized token tree (ast), the global tokens and a debug dump.
*/
func (t *Tree) Plain() map[string]interface{} {
	var ast interface{}

	if t.Root != nil {
		ast = t.Root.Plain()
	}

	return map[string]interface{}{
		"ast":     ast,
		"globals": PlainList(t.Globals),
		"dump":    t.String(),
	}
}
