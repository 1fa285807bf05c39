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
wordDelimiters contains all symbols which end a word in plain text.
*/
const wordDelimiters = ":?&|'\".,()[]{}!=<>-+*/%^#~`;"

/*
delimiterTable maps every byte to a flag if it is a symbol delimiter.
*/
var delimiterTable [256]bool

func init() {
	for i := 0; i < len(wordDelimiters); i++ {
		delimiterTable[wordDelimiters[i]] = true
	}
}

/*
isSpace checks if a given byte is whitespace or a control character.
*/
func isSpace(c byte) bool {
	return c <= ' '
}

/*
scanWords scans a given text for plain words. The visit function is called
with the start and end offset of every word. Scanning stops if the visit
function returns false.
*/
func scanWords(s string, visit func(start, end int) bool) {
	start := -1

	emit := func(end int) bool {
		if start == -1 {
			return true
		}

		ret := visit(start, end)
		start = -1

		return ret
	}

	for i := 0; i < len(s); {
		c := s[i]

		switch {

		case delimiterTable[c]:
			if !emit(i) {
				return
			}
			i++

		case c == '_' || isSpace(c):
			if !emit(i) {
				return
			}
			for i++; i < len(s) && isSpace(s[i]); i++ {
			}

		case c == '\\':

			// An escaped character is dropped together with the backslash

			if !emit(i) {
				return
			}
			if i+1 < len(s) {
				i += 2
			} else {
				i++
			}

		default:
			if start == -1 {
				start = i
			}
			i++
		}
	}

	emit(len(s))
}

/*
Tokenize splits a given text into a flat chain of plain word tokens. Returns
the first token of the chain or nil if the text contains no words.
*/
func Tokenize(pool *Pool, s string) (ret *Token, err error) {
	var pos int
	var last *Token

	defer func() {
		if err != nil {
			ret = nil
		}
	}()
	defer recoverPool("tokenizer", &pos, &err)

	scanWords(s, func(start, end int) bool {
		pos = start

		t := pool.newToken(KindPlainWord, s[start:end], start, end-start)

		if last == nil {
			ret = t
		} else {
			last.Next = t
			t.Prev = last
		}
		last = t

		return true
	})

	return ret, err
}

/*
Count returns the number of plain words in a given text. Word boundaries are
the same as in Tokenize.
*/
func Count(s string) int {
	var count int

	scanWords(s, func(start, end int) bool {
		count++
		return true
	})

	return count
}

/*
Skip returns the byte offset of the n-th word (counting from 1) in a given
text. Returns 0 if n is 0 and the length of the text if it contains fewer
than n words.
*/
func Skip(s string, n int) int {
	if n <= 0 {
		return 0
	}

	ret := len(s)
	found := 0

	scanWords(s, func(start, end int) bool {
		if found++; found == n {
			ret = start
			return false
		}
		return true
	})

	return ret
}
