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
attribute parses an attribute list which follows a word and a colon:

	field:[a, "b c"]value

The word (including the colon) is given to the macro callback together with
the collected attributes. Returns the position after the attribute list.
*/
func (b *builder) attribute(wordStart int, afterColon int) (int, error) {
	var attrs []string
	var attr string

	s := b.input
	i := afterColon

	if i < len(s) && s[i] == '[' {

		for i++; i < len(s) && s[i] != ']'; {
			if attr, i = nextAttrToken(s, i, "],"); attr != "" {
				attrs = append(attrs, attr)
			}

			if i < len(s) && s[i] != ']' {
				i++
			}
		}

		if i < len(s) && s[i] == ']' {
			i++
		}
	}

	if attr, i = nextAttrToken(s, i, ""); attr != "" {
		attrs = append(attrs, attr)
	}

	ck := CallbackNormal
	data := &CallbackData{Pool: b.pool, Text: s[wordStart:afterColon], Attrs: attrs}

	if b.cb != nil {
		var err error

		if ck, err = b.cb.Expand(data); err != nil {
			return i, b.callbackError(err, wordStart)
		}
	}

	if data.NoParams {

		// Continue as if there was no attribute list

		data.Attrs = nil
		i = afterColon
	}

	if ck == CallbackSkip {
		return i, nil
	}

	t := b.add(KindPlainWord, data.Text, wordStart, i-wordStart, ck, data.Alt)

	if t != nil && len(data.Attrs) > 0 {
		t.Attrs = data.Attrs
	}

	return i, nil
}

/*
nextAttrToken reads the next token of an attribute list. A token is either a
quoted string or runs until whitespace or one of the given delimiters.
*/
func nextAttrToken(s string, i int, delims string) (string, int) {

	if i < len(s) && (s[i] == '"' || s[i] == '\'') {
		quote := s[i]
		start := i + 1

		for i = start; i < len(s) && s[i] != quote; {
			if s[i] == '\\' && i+1 < len(s) {
				i += 2
			} else {
				i++
			}
		}

		ret := s[start:i]

		if i < len(s) {
			i++
		}

		return ret, i
	}

	start := i

	for i < len(s) && !isSpace(s[i]) && strings.IndexByte(delims, s[i]) == -1 {
		i++
	}

	return s[start:i], i
}
