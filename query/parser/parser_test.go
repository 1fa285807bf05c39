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
	"testing"
)

/*
checkLinks checks that all links of a token chain are consistent.
*/
func checkLinks(t *Token, parent *Token) error {
	var prev *Token

	for ; t != nil; t = t.Next {
		if t.Parent != parent {
			return fmt.Errorf("Token %v has wrong parent %v (expected %v)", t.Text, t.Parent, parent)
		}
		if t.Prev != prev {
			return fmt.Errorf("Token %v has wrong previous sibling", t.Text)
		}
		if t.Child != nil {
			if err := checkLinks(t.Child, t); err != nil {
				return err
			}
		}
		prev = t
	}

	return nil
}

func parse(input string, cb MacroCallback) (*Tree, error) {
	res, err := ParseExpression("test", NewPool(0), input, cb)

	if err == nil {
		err = checkLinks(res.Root, nil)
	}

	return res, err
}

func TestExampleQuery(t *testing.T) {

	res, err := parse(exampleQuery, nil)

	if err != nil || fmt.Sprint(res) != `
(
	allintitle:
	 * This
	is
	a
	test
	num_results:
	 * 10
	this
	-
	is
	{
		1
		+
		5
`[1:] {
		t.Error("Unexpected result:\n", res, err)
		return
	}

	first := res.Root.Child

	if first.Pos != 0 || first.Len != 15 || first.Kind != KindPlainWord {
		t.Error("Unexpected token data:", first.Pos, first.Len, first.Kind)
		return
	}

	if first.Next.Pos != 16 || first.Next.Text != "is" {
		t.Error("Unexpected token data:", first.Next.Pos, first.Next.Text)
		return
	}
}

func TestEmptyInput(t *testing.T) {

	for _, input := range []string{"", "   ", "\t\n", ",", ")"} {
		res, err := parse(input, nil)

		if err != nil || res.Root != nil || fmt.Sprint(res) != "" {
			t.Error("Unexpected result for", input, ":", res, err)
			return
		}
	}
}

func TestSignAndComparisonMerge(t *testing.T) {

	tests := map[string]string{
		"a - - b":   "(\n\ta\n\t+\n\tb\n",
		"a---b":     "(\n\ta\n\t-\n\tb\n",
		"a -+-+ b":  "(\n\ta\n\t+\n\tb\n",
		"a ++ b":    "(\n\ta\n\t+\n\tb\n",
		"a +- b":    "(\n\ta\n\t-\n\tb\n",
		"a != b":    "(\n\ta\n\t!=\n\tb\n",
		"a == b":    "(\n\ta\n\t==\n\tb\n",
		"a <=> b":   "(\n\ta\n\t<=>\n\tb\n",
		"a - b - c": "(\n\ta\n\t-\n\tb\n\t-\n\tc\n",
	}

	for input, expected := range tests {
		if res, err := parse(input, nil); err != nil || fmt.Sprint(res) != expected {
			t.Error("Unexpected result for", input, ":\n", res, err)
			return
		}
	}

	// Merged operators cover all their characters

	res, _ := parse("a <=> b", nil)

	if op := res.Root.Child.Next; op.Pos != 2 || op.Len != 3 || op.Kind != KindComparison {
		t.Error("Unexpected token data:", op.Pos, op.Len, op.Kind)
		return
	}

	// Signs are folded by their text so this also happens inside quotes

	if res, err := parse(`"--"`, nil); err != nil || fmt.Sprint(res) != "\"\n\t+\n" {
		t.Error("Unexpected result:\n", res, err)
		return
	}
}

func TestGroups(t *testing.T) {

	tests := map[string]string{
		"(a)":       "(\n\ta\n",
		"()":        "(\n\t<empty>\n",
		"{}":        "{\n\t<empty>\n",
		"[]":        "[\n\t<empty>\n",
		"(())":      "(\n\t(\n\t\t<empty>\n",
		`""`:        "\"\n",
		`"" a`:      "(\n\t\"\n\ta\n",
		"a)":        "a\n",
		"(a]":       "(\n\ta\n",
		"(a, b)":    "(\n\ta\n\t,\n\tb\n",
		"[a,b] c":   "(\n\t[\n\t\ta\n\t\t,\n\t\tb\n\tc\n",
		"a, b":      "(\n\ta\n\tb\n",
		"(a) b":     "(\n\t(\n\t\ta\n\tb\n",
		"{a (b)} c": "(\n\t{\n\t\ta\n\t\t(\n\t\t\tb\n\tc\n",
		`"a or b"`:  "\"\n\ta\n\tor\n\tb\n",
	}

	for input, expected := range tests {
		if res, err := parse(input, nil); err != nil || fmt.Sprint(res) != expected {
			t.Error("Unexpected result for", input, ":\n", res, err)
			return
		}
	}

	// Everything inside a quote is kept as it is

	res, err := parse(`x "a, (b): c"`, nil)

	if err != nil || fmt.Sprint(res) != `
(
	x
	"
		a
		,
		(
		b
		)
		:
		c
`[1:] {
		t.Error("Unexpected result:\n", res, err)
		return
	}

	if q := res.Root.Child.Next; q.Kind != KindQuote || q.Child.Next.Kind != KindOther {
		t.Error("Unexpected token kinds:", q.Kind, q.Child.Next.Kind)
		return
	}
}

func TestFieldScopes(t *testing.T) {

	tests := map[string]string{
		"f=v":      "(\n\tf\n\t=\n\t\tv\n",
		"f= v w":   "(\n\tf\n\t=\n\t\tv\n\tw\n",
		"f=v w":    "(\n\tf\n\t=\n\t\tv\n\tw\n",
		"(f=v) w":  "(\n\tf\n\t=\n\t\tv\n\tw\n",
		"(f=v ) w": "(\n\t(\n\t\tf\n\t\t=\n\t\t\tv\n\tw\n",
		"[f=v]":    "[\n\tf\n\t=\n\t\tv\n",
		"f>=v":     "(\n\tf\n\t>=\n\tv\n",
	}

	for input, expected := range tests {
		if res, err := parse(input, nil); err != nil || fmt.Sprint(res) != expected {
			t.Error("Unexpected result for", input, ":\n", res, err)
			return
		}
	}
}

func TestSymbols(t *testing.T) {

	tests := map[string]string{
		"foo* {a*b}": "(\n\tfoo*\n\t{\n\t\ta\n\t\t*\n\t\tb\n",
		"* a":        "(\n\t*\n\ta\n",
		"1..5":       "(\n\t1\n\t..\n\t5\n",
		"a..":        "(\n\ta\n\t.\n\t.\n",
		"a? b":       "(\n\ta\n\t?\n\tb\n",
		"a#b;c":      "(\n\ta\n\t#\n\tb\n\t;\n\tc\n",
		`a\ b`:       "(\n\ta\n\tb\n",
		"a'b":        "(\n\ta\n\tb\n",
		"\u00e4_b":   "\u00e4_b\n",
		": a":        "(\n\t:\n\ta\n",
	}

	for input, expected := range tests {
		if res, err := parse(input, nil); err != nil || fmt.Sprint(res) != expected {
			t.Error("Unexpected result for", input, ":\n", res, err)
			return
		}
	}

	res, _ := parse("foo* a? 1..5", nil)

	if c := res.Root.Child; c.Kind != KindModifier || c.Next.Kind != KindModifier ||
		c.Next.Next.Kind != KindQuestion || c.Next.Next.Next.Next.Kind != KindRangeDash {
		t.Error("Unexpected token kinds:", res.Root.Children())
		return
	}
}

func TestTernary(t *testing.T) {

	res, err := parse("x a == b ? c : d", nil)

	if err != nil || fmt.Sprint(res) != `
(
	x
	(
		a
		==
		b
		?
		c
		:
		d
`[1:] {
		t.Error("Unexpected result:\n", res, err)
		return
	}

	if g := res.Root.Child.Next; g.Pos != 2 || g.Len != 14 || g.Kind != KindOpenParen {
		t.Error("Unexpected token data:", g.Pos, g.Len, g.Kind)
		return
	}

	// Tokens after the ternary follow the group

	res, err = parse("a < b ? c : d e", nil)

	if err != nil || fmt.Sprint(res) != `
(
	(
		a
		<
		b
		?
		c
		:
		d
	e
`[1:] {
		t.Error("Unexpected result:\n", res, err)
		return
	}

	// No comparison - no group

	res, err = parse("a b ? c : d", nil)

	if err != nil || fmt.Sprint(res) != "(\n\ta\n\tb\n\t?\n\tc\n\t:\n\td\n" {
		t.Error("Unexpected result:\n", res, err)
		return
	}
}

func TestAttributes(t *testing.T) {

	res, err := parse(`site:[a, "b c"]value x`, nil)

	if err != nil || fmt.Sprint(res) != `
(
	site:
	 * a
	 * b c
	 * value
	x
`[1:] {
		t.Error("Unexpected result:\n", res, err)
		return
	}

	if a := res.Root.Child; a.Len != 20 || a.Next.Pos != 21 {
		t.Error("Unexpected token data:", a.Len, a.Next.Pos)
		return
	}

	// Unterminated lists and quotes

	res, err = parse(`f:['a\'b, c`, nil)

	if err != nil || fmt.Sprint(res) != "f:\n * a\\'b, c\n" {
		t.Error("Unexpected result:\n", res, err)
		return
	}

	res, err = parse(`f:[a,,b`, nil)

	if err != nil || fmt.Sprint(res) != "f:\n * a\n * b\n" {
		t.Error("Unexpected result:\n", res, err)
		return
	}

	// A colon with nothing after it

	res, err = parse(`f: x`, nil)

	if err != nil || fmt.Sprint(res) != "(\n\tf:\n\tx\n" || res.Root.Child.Attrs != nil {
		t.Error("Unexpected result:\n", res, err)
		return
	}

	// Attributes are parsed inside quotes as well

	res, err = parse(`"f:a b"`, nil)

	if err != nil || fmt.Sprint(res) != "\"\n\tf:\n\t * a\n\tb\n" {
		t.Error("Unexpected result:\n", res, err)
		return
	}

	if q := res.Root; q.Kind != KindQuote || q.Child.Kind != KindPlainWord || q.Child.Len != 3 {
		t.Error("Unexpected token data:", q.Kind, q.Child.Kind, q.Child.Len)
		return
	}

	// The last attribute runs to the next whitespace

	res, err = parse(`"f:a"`, nil)

	if err != nil || fmt.Sprint(res.Root.Child.Attrs) != `[a"]` {
		t.Error("Unexpected result:\n", res, err)
		return
	}

	// A colon without a preceding word inside a quote

	res, err = parse(`"a : b"`, nil)

	if err != nil || res.Root.Child.Next.Kind != KindColon {
		t.Error("Unexpected result:\n", res, err)
		return
	}
}

func TestCallback(t *testing.T) {
	var seen []string

	cb := CallbackFunc(func(data *CallbackData) (CallbackKind, error) {
		seen = append(seen, data.Text)

		switch data.Text {
		case "foo":
			return CallbackNext, nil
		case "bar":
			return CallbackGlobal, nil
		case "baz":
			return CallbackSkip, nil
		case "@1":
			return CallbackNumber, nil
		case "unknown:":
			data.NoParams = true
			data.Text = "unknown"
		case "alt":
			data.Alt = data.Pool.newToken(KindPlainWord, "replaced", 0, 0)
		}

		return CallbackNormal, nil
	})

	res, err := parse("foo a bar baz b @1 unknown:[x]y alt", cb)

	if err != nil || fmt.Sprint(res) != `
(
	a
			foo
	b
	@1
	unknown
	[
		x
	y
	replaced
`[1:] {
		t.Error("Unexpected result:\n", res, err)
		return
	}

	if fmt.Sprint(seen) != "[foo a bar baz b @1 unknown: x y alt]" {
		t.Error("Unexpected callback calls:", seen)
		return
	}

	if len(res.Globals) != 1 || res.Globals[0].Text != "bar" || res.Globals[0].Callback != CallbackGlobal {
		t.Error("Unexpected globals:", res.Globals)
		return
	}

	if n := res.Root.Child.Next.Next; n.Callback != CallbackNumber || n.Text != "@1" {
		t.Error("Unexpected token:", n.Text, n.Callback)
		return
	}

	if m := res.Root.Child.Modifiers; len(m) != 1 || m[0].Callback != CallbackNext {
		t.Error("Unexpected modifiers:", m)
		return
	}

	// Pending modifiers at the end of the input are dropped

	if res, err = parse("a foo", cb); err != nil || fmt.Sprint(res) != "a\n" {
		t.Error("Unexpected result:\n", res, err)
		return
	}

	// The pass through callback keeps everything

	if res, err = parse("a:[b]c d", PassThrough); err != nil || fmt.Sprint(res) != "(\n\ta:\n\t * b\n\t * c\n\td\n" {
		t.Error("Unexpected result:\n", res, err)
		return
	}
}

func TestCallbackError(t *testing.T) {

	cb := CallbackFunc(func(data *CallbackData) (CallbackKind, error) {
		if data.Text == "b" || data.Text == "b:" {
			return CallbackNormal, errors.New("boom")
		}
		return CallbackNormal, nil
	})

	res, err := parse("a b", cb)

	if err == nil || res != nil || err.Error() != "Parse error in test: Macro callback failed (boom) (Pos:2)" {
		t.Error("Unexpected result:", res, err)
		return
	}

	if err.(*Error).Type != ErrCallback {
		t.Error("Unexpected error type:", err)
		return
	}

	res, err = parse("b:c", cb)

	if err == nil || res != nil || err.(*Error).Type != ErrCallback {
		t.Error("Unexpected result:", res, err)
		return
	}
}

func TestPoolExhaustion(t *testing.T) {

	res, err := ParseExpression("test", NewPool(2), "a b c", nil)

	if err == nil || res != nil || err.(*Error).Type != ErrPoolExhausted {
		t.Error("Unexpected result:", res, err)
		return
	}

	// Synthetic tokens of the normalizer count as well

	res, err = ParseExpression("test", NewPool(2), "a b", nil)

	if err == nil || res != nil || err.(*Error).Type != ErrPoolExhausted {
		t.Error("Unexpected result:", res, err)
		return
	}

	pool := NewPool(3)

	if res, err = ParseExpression("test", pool, "a b", nil); err != nil || pool.Size() != 3 {
		t.Error("Unexpected result:", res, err, pool.Size())
		return
	}
}
