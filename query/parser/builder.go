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
ParseExpression parses a given search query into a normalized token tree.
All tokens are allocated from the given pool. The optional callback is
consulted for every candidate word.
*/
func ParseExpression(name string, pool *Pool, input string, cb MacroCallback) (ret *Tree, err error) {
	b := &builder{name: name, input: input, pool: pool, cb: cb}

	defer func() {
		if err != nil {
			ret = nil
		}
	}()
	defer recoverPool(name, &b.pos, &err)

	if err = b.scan(); err == nil {
		ret = &Tree{normalize(pool, b.head), b.globals, pool}
	}

	return ret, err
}

/*
symbolKinds maps grouping, comparison and operator characters to token kinds.
Inside a quote all of these are kept as KindOther.
*/
var symbolKinds = map[byte]TokenKind{
	',': KindComma,
	'(': KindOpenParen,
	')': KindCloseParen,
	'{': KindOpenBrace,
	'}': KindCloseBrace,
	'[': KindOpenBracket,
	']': KindCloseBracket,
	'!': KindComparison,
	'=': KindComparison,
	'<': KindComparison,
	'>': KindComparison,
	'-': KindOperator,
	'+': KindOperator,
	'/': KindOperator,
	'%': KindOperator,
	'^': KindOperator,
}

/*
openerKinds maps closing group kinds to their opening kinds.
*/
var openerKinds = map[TokenKind]TokenKind{
	KindCloseParen:   KindOpenParen,
	KindCloseBrace:   KindOpenBrace,
	KindCloseBracket: KindOpenBracket,
}

/*
builder is the state of a single expression parse.
*/
type builder struct {
	name    string        // Name of the input
	input   string        // Input string
	pool    *Pool         // Pool for new tokens
	cb      MacroCallback // Macro callback (may be nil)
	pos     int           // Current scan position
	head    *Token        // First token of the top level chain
	tail    *Token        // Insertion point for the next token
	next    []*Token      // Pending modifiers for the next attached token
	globals []*Token      // Collected global tokens
}

/*
scan runs the main loop over the input.
*/
func (b *builder) scan() error {
	s := b.input
	start := -1

	flush := func(end int, kind TokenKind) error {
		if start == -1 {
			return nil
		}

		ws := start
		start = -1

		return b.word(kind, s[ws:end], ws, end-ws)
	}

	for b.pos < len(s) {
		i := b.pos
		c := s[i]

		switch {

		case c == '*':

			if start == -1 {
				b.symbol(KindOperator, i, 1)

			} else if b.inScope(KindOpenBrace) {

				// Inside braces a star is a multiplication

				if err := flush(i, KindModifier); err != nil {
					return err
				}
				b.symbol(KindOperator, i, 1)

			} else if err := flush(i+1, KindModifier); err != nil {
				return err
			}

			b.pos++

		case c == ':':

			if start != -1 {
				ws := start
				start = -1

				pos, err := b.attribute(ws, i+1)
				if err != nil {
					return err
				}

				b.pos = pos
				continue
			}

			b.symbol(KindColon, i, 1)
			b.pos++

		case c == '?':

			if err := flush(i, KindModifier); err != nil {
				return err
			}

			b.symbol(KindQuestion, i, 1)
			b.pos++

		case c == '&' || c == '|':

			if err := flush(i, KindPlainWord); err != nil {
				return err
			}

			kind, l := KindAnd, 1
			if c == '|' {
				kind = KindOr
			}
			if i+1 < len(s) && s[i+1] == c {
				l = 2
			}

			b.add(kind, s[i:i+1], i, l, CallbackNormal, nil)
			b.pos += l

		case c == '"':

			if err := flush(i, KindPlainWord); err != nil {
				return err
			}

			b.symbol(KindQuote, i, 1)
			b.pos++

		case c == '.':

			if err := flush(i, KindPlainWord); err != nil {
				return err
			}

			if i+2 < len(s) && s[i+1] == '.' {
				b.symbol(KindRangeDash, i, 2)
				b.pos += 2
			} else {
				b.symbol(KindOther, i, 1)
				b.pos++
			}

		case symbolKinds[c] != 0:

			if err := flush(i, KindPlainWord); err != nil {
				return err
			}

			if b.inScope(KindQuote) {
				b.symbol(KindOther, i, 1)
			} else {
				b.symbol(symbolKinds[c], i, 1)
			}

			b.pos++

		case c == '#' || c == '~' || c == '`' || c == ';':

			if err := flush(i, KindPlainWord); err != nil {
				return err
			}

			b.symbol(KindOther, i, 1)
			b.pos++

		case c == '\\':

			if err := flush(i, KindPlainWord); err != nil {
				return err
			}

			if i+1 < len(s) {
				b.pos += 2
			} else {
				b.pos++
			}

		case c == '\'' || isSpace(c):

			if err := flush(i, KindPlainWord); err != nil {
				return err
			}

			for b.pos++; b.pos < len(s) && isSpace(s[b.pos]); b.pos++ {
			}

			b.add(KindSpace, TextSpace, i, b.pos-i, CallbackNormal, nil)

		default:

			if start == -1 {
				start = i
			}
			b.pos++
		}
	}

	return flush(len(s), KindPlainWord)
}

/*
symbol adds a single punctuation token.
*/
func (b *builder) symbol(kind TokenKind, pos int, length int) {
	b.add(kind, b.input[pos:pos+length], pos, length, CallbackNormal, nil)
}

/*
word adds a candidate word token. The macro callback is consulted first.
*/
func (b *builder) word(kind TokenKind, text string, pos int, length int) error {
	ck := CallbackNormal
	var alt *Token

	if b.cb != nil {
		var err error

		data := &CallbackData{Pool: b.pool, Text: text}

		if ck, err = b.cb.Expand(data); err != nil {
			return b.callbackError(err, pos)
		} else if ck == CallbackSkip {
			return nil
		}

		text = data.Text
		alt = data.Alt
	}

	b.add(kind, text, pos, length, ck, alt)

	return nil
}

/*
callbackError wraps an error of the macro callback.
*/
func (b *builder) callbackError(err error, pos int) error {
	if pe, ok := err.(*Error); ok && pe.Type == ErrPoolExhausted {
		return err
	}
	return newParserError(b.name, ErrCallback, err.Error(), pos)
}

/*
inScope checks if the insertion point is inside an open group of a given kind.
*/
func (b *builder) inScope(kind TokenKind) bool {
	t := b.tail

	if t == nil {
		return false
	}

	if t.Kind == kind && !t.closed {
		return true
	}

	for p := t.Parent; p != nil; p = p.Parent {
		if p.Kind == kind {
			return true
		}
	}

	return false
}

/*
commaAllowed checks if the insertion point is inside a paren or bracket
scope which is not separated by a quote.
*/
func (b *builder) commaAllowed() bool {
	t := b.tail

	if t == nil {
		return false
	}

	if (t.Kind == KindOpenParen || t.Kind == KindOpenBracket) && !t.closed {
		return true
	}

	for p := t.Parent; p != nil && p.Kind != KindQuote; p = p.Parent {
		if p.Kind == KindOpenParen || p.Kind == KindOpenBracket {
			return true
		}
	}

	return false
}

/*
leaveEquals moves the insertion point out of a field=value scope.
*/
func (b *builder) leaveEquals() bool {
	if t := b.tail; t != nil && t.Parent != nil &&
		t.Parent.Kind == KindComparison && t.Parent.Text == TextEquals {

		b.tail = t.Parent
		return true
	}
	return false
}

/*
mergeSign folds a sign into a preceding sign. Signs are recognised by their
text alone.
*/
func (b *builder) mergeSign(text string) bool {
	tail := b.tail

	if text != "-" && text != "+" {
		return false
	}

	switch tail.Text {
	case "-":
		if text == "-" {
			tail.Text = "+"
		}
		return true
	case "+":
		if text == "-" {
			tail.Text = "-"
		}
		return true
	}

	return false
}

/*
add applies the merge and scope rules for a new token and attaches it to the
tree. Returns the attached token or nil if no token was attached.
*/
func (b *builder) add(kind TokenKind, text string, pos int, length int,
	ck CallbackKind, alt *Token) *Token {

	tail := b.tail

	if tail != nil {

		if b.mergeSign(text) {
			return nil
		}

		if kind == KindComparison && tail.Kind == KindComparison {

			// Multi character comparison operators are built in place

			tail.Text += text
			tail.Len += length

			return nil
		}
	}

	switch kind {

	case KindCloseParen, KindCloseBrace, KindCloseBracket:

		b.close(openerKinds[kind], pos, length)

		return nil

	case KindQuote:

		if tail != nil && tail.Parent != nil && tail.Parent.Kind == KindQuote {
			b.tail = tail.Parent
			b.tail.closed = true
			return nil
		}

		if tail != nil && tail.Kind == KindQuote && tail.Child == nil && !tail.closed {

			// Empty quotes have no placeholder child

			tail.closed = true
			return nil
		}

	case KindSpace:

		b.leaveEquals()

		return nil

	case KindComma:

		if !b.commaAllowed() {
			return nil
		}
	}

	t := alt

	if t == nil {
		t = b.pool.newToken(kind, text, pos, length)
		t.Callback = ck
	}

	switch ck {
	case CallbackNext:
		b.next = append(b.next, t)
		return t
	case CallbackGlobal:
		b.globals = append(b.globals, t)
		return t
	}

	if len(b.next) > 0 {
		t.Modifiers = append(t.Modifiers, b.next...)
		b.next = nil
	}

	b.attach(t)

	return t
}

/*
close closes the innermost group of a given kind.
*/
func (b *builder) close(open TokenKind, pos int, length int) {
	tail := b.tail

	if tail == nil {
		return
	}

	if tail.Kind == open && tail.Child == nil && !tail.closed {
		e := b.pool.newToken(KindEmptyGroup, "", pos, length)
		e.Parent = tail
		tail.Child = e
		tail.closed = true

	} else if tail.Parent != nil && tail.Parent.Kind == open {
		b.tail = tail.Parent
		b.tail.closed = true
	}
}

/*
attach links a new token (and its siblings) into the tree.
*/
func (b *builder) attach(t *Token) {
	tail := b.tail

	if tail == nil {
		b.head = t
		b.tail = setParent(t, nil)
		return
	}

	if tail.isOpenGroup() {
		tail.Child = t
		t.Prev = nil
		b.tail = setParent(t, tail)
		return
	}

	tail.Next = t
	t.Prev = tail
	b.tail = setParent(t, tail.Parent)

	if tail.Kind == KindColon {
		b.regroupTernary()
	}
}

/*
regroupTernary wraps a ternary expression which follows a comparison into a
synthetic paren group: a < b ? c : d -> (a < b ? c : d)
*/
func (b *builder) regroupTernary() {
	var pre [7]*Token

	pre[0] = b.tail
	for i := 1; i < len(pre); i++ {
		if pre[i] = pre[i-1].Prev; pre[i] == nil {
			return
		}
	}

	if pre[3].Kind != KindQuestion || pre[5].Kind != KindComparison {
		return
	}

	first := pre[6]
	paren := b.pool.newToken(KindOpenParen, TextOpenParen, first.Pos,
		b.tail.Pos+b.tail.Len-first.Pos)

	paren.Parent = first.Parent
	paren.Prev = first.Prev
	paren.closed = true

	if first.Prev != nil {
		first.Prev.Next = paren
	} else if first.Parent != nil {
		first.Parent.Child = paren
	} else {
		b.head = paren
	}

	first.Prev = nil
	setParent(first, paren)
	paren.Child = first

	b.tail = paren
}

/*
setParent sets the parent of a token and all its following siblings. Returns
the last sibling.
*/
func setParent(t *Token, parent *Token) *Token {
	for {
		t.Parent = parent
		if t.Next == nil {
			return t
		}
		t = t.Next
	}
}
