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
Package macro contains the macro dictionary for search queries.

A macro dictionary stores named token trees which are used to replace words
while a search query is parsed. Macros are defined with lines of the form:

	name: kind[,no_params] expansion text

The kind (skip, normal, next, global or number) determines how the expansion
is used by the parser. The no_params option discards attribute lists which
were given with the macro name (name:[a,b]value).
*/
package macro

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/querytoken/query/parser"
	"github.com/emirpasic/gods/maps/treemap"
)

// Logging
// =======

/*
Logger is a function which processes log messages from the macro code
*/
type Logger func(v ...interface{})

/*
LogInfo is called if an info message is logged in the macro code
*/
var LogInfo = Logger(log.Print)

/*
LogDebug is called if a debug message is logged in the macro code
*/
var LogDebug = Logger(LogNull)

/*
LogNull is a discarding logger to be used for disabling loggers
*/
var LogNull = func(v ...interface{}) {
}

// Errors
// ======

/*
Macro related error types
*/
var (
	ErrMissingName      = errors.New("Missing macro name")
	ErrMissingKind      = errors.New("Missing macro kind")
	ErrMissingExpansion = errors.New("Missing macro expansion")
	ErrUnknownKind      = errors.New("Unknown macro kind")
	ErrEmptyExpansion   = errors.New("Macro expansion contains no tokens")
)

/*
DefinitionError is returned if a macro definition was rejected.
*/
type DefinitionError struct {
	Line   string // Rejected line
	Type   error  // Error type (to be used for equal checks)
	Detail string // Details of this error
}

/*
Error returns a human-readable string representation of this error.
*/
func (de *DefinitionError) Error() string {
	if de.Detail != "" {
		return fmt.Sprintf("%v (%v): %v", de.Type, de.Detail, de.Line)
	}
	return fmt.Sprintf("%v: %v", de.Type, de.Line)
}

/*
OptNoParams is the definition option to discard attribute lists.
*/
const OptNoParams = "no_params"

// Dictionary
// ==========

/*
Dictionary is a sorted store of named token trees. A dictionary can be used as
a parser.MacroCallback. It is safe for concurrent use.
*/
type Dictionary struct {
	pool  *parser.Pool  // Pool which owns all stored token trees
	index *treemap.Map  // Index of stored token trees by name
	lock  *sync.RWMutex // Lock for pool and index
}

/*
NewDictionary creates a new empty macro dictionary.
*/
func NewDictionary() *Dictionary {
	return &Dictionary{parser.NewPool(0), treemap.NewWithStringComparator(), &sync.RWMutex{}}
}

/*
LoadDictionary creates a new macro dictionary from a definition file. Rejected
definitions are logged. If the strict flag is set an error is returned which
lists all rejected definitions.
*/
func LoadDictionary(filename string, strict bool) (*Dictionary, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := NewDictionary()

	return d, d.Load(f, strict)
}

/*
Load reads macro definitions line by line from a given reader. Empty lines
and lines starting with # are ignored. Rejected definitions are logged. If the
strict flag is set an error is returned which lists all rejected definitions.
*/
func (d *Dictionary) Load(r io.Reader, strict bool) error {
	var lineNum, added int

	cerr := errorutil.NewCompositeError()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineNum++

		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := d.Define(line); err != nil {
			LogInfo(fmt.Sprintf("Rejected macro definition in line %v: %v", lineNum, err))

			if strict {
				cerr.Add(fmt.Errorf("Line %v: %v", lineNum, err))
			}

			continue
		}

		added++
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	LogDebug(fmt.Sprintf("Loaded %v macro definitions (%v lines)", added, lineNum))

	if cerr.HasErrors() {
		return cerr
	}

	return nil
}

/*
Add adds a macro definition of the form: name: kind[,no_params] expansion
Returns false if the definition was rejected. A definition replaces any
previous definition with the same name.
*/
func (d *Dictionary) Add(line string) bool {
	return d.Define(line) == nil
}

/*
Define adds a macro definition. Returns an error if the definition was rejected.
*/
func (d *Dictionary) Define(line string) error {
	newError := func(t error, detail string) error {
		return &DefinitionError{line, t, detail}
	}

	name, rest := nextField(line)
	if name == "" {
		return newError(ErrMissingName, "")
	}

	kindField, expansion := nextField(rest)
	if kindField == "" {
		return newError(ErrMissingKind, "")
	} else if strings.TrimSpace(expansion) == "" {
		return newError(ErrMissingExpansion, "")
	}

	name = strings.TrimSuffix(name, ":")
	if name == "" {
		return newError(ErrMissingName, "")
	}

	options := strings.Split(kindField, ",")

	kind, ok := parser.CallbackKindFromString(options[0])
	if !ok {
		return newError(ErrUnknownKind, options[0])
	}

	noParams := false
	for _, opt := range options[1:] {
		noParams = noParams || opt == OptNoParams
	}

	d.lock.Lock()
	defer d.lock.Unlock()

	tree, err := parser.ParseExpression(name, d.pool, expansion, nil)
	if err != nil {
		return newError(err, "")
	} else if tree.Root == nil {
		return newError(ErrEmptyExpansion, "")
	}

	tree.Root.Callback = kind
	tree.Root.NoParams = noParams

	if _, ok := d.index.Get(name); ok {
		LogDebug("Replacing macro definition: ", name)
	}

	d.index.Put(name, tree.Root)

	return nil
}

/*
nextField splits the next whitespace separated field from a given string.
*/
func nextField(s string) (string, string) {
	isSep := func(r rune) bool {
		return r <= ' '
	}

	s = strings.TrimLeftFunc(s, isSep)

	if i := strings.IndexFunc(s, isSep); i != -1 {
		return s[:i], s[i+1:]
	}

	return s, ""
}

/*
Expand looks up a candidate word in the dictionary (parser.MacroCallback).
Known words are replaced by a copy of their token tree. Unknown words which
start with @ are numbers, all other unknown words are kept without attributes.
*/
func (d *Dictionary) Expand(data *parser.CallbackData) (parser.CallbackKind, error) {
	key := strings.TrimSuffix(data.Text, ":")

	d.lock.RLock()
	defer d.lock.RUnlock()

	val, ok := d.index.Get(key)

	if !ok {
		if strings.HasPrefix(data.Text, "@") {
			return parser.CallbackNumber, nil
		}

		data.NoParams = true
		data.Text = key

		return parser.CallbackNormal, nil
	}

	root := val.(*parser.Token)

	alt, err := parser.Clone(data.Pool, root)
	if err != nil {
		return parser.CallbackNormal, err
	}

	data.NoParams = data.NoParams || root.NoParams
	data.Alt = alt

	return root.Callback, nil
}

/*
Values returns the attribute list of a macro (nil if the macro is unknown
or has no attributes).
*/
func (d *Dictionary) Values(name string) []string {
	var ret []string

	d.lock.RLock()
	defer d.lock.RUnlock()

	if val, ok := d.index.Get(name); ok {
		if attrs := val.(*parser.Token).Attrs; len(attrs) > 0 {
			ret = make([]string, len(attrs))
			copy(ret, attrs)
		}
	}

	return ret
}

/*
Has checks if a macro with a given name exists.
*/
func (d *Dictionary) Has(name string) bool {
	d.lock.RLock()
	defer d.lock.RUnlock()

	_, ok := d.index.Get(name)

	return ok
}

/*
Value returns the first attribute of a macro.
*/
func (d *Dictionary) Value(name string) (string, bool) {
	if vals := d.Values(name); len(vals) > 0 {
		return vals[0], true
	}
	return "", false
}

/*
Get returns a copy of the token tree of a macro. The copy is allocated from
a new pool.
*/
func (d *Dictionary) Get(name string) (*parser.Token, bool) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	val, ok := d.index.Get(name)
	if !ok {
		return nil, false
	}

	ret, err := parser.Clone(parser.NewPool(0), val.(*parser.Token))
	errorutil.AssertOk(err) // Pool without limit

	return ret, true
}

/*
Names returns the names of all macros in ascending order.
*/
func (d *Dictionary) Names() []string {
	d.lock.RLock()
	defer d.lock.RUnlock()

	keys := d.index.Keys()
	ret := make([]string, 0, len(keys))

	for _, k := range keys {
		ret = append(ret, k.(string))
	}

	return ret
}

/*
Size returns the number of macros in this dictionary.
*/
func (d *Dictionary) Size() int {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.index.Size()
}

/*
String returns a string representation of all macros in this dictionary.
*/
func (d *Dictionary) String() string {
	var buf strings.Builder

	for _, name := range d.Names() {
		d.lock.RLock()
		val, _ := d.index.Get(name)
		d.lock.RUnlock()

		root := val.(*parser.Token)

		fmt.Fprintf(&buf, "%v: %v", name, root.Callback)
		if root.NoParams {
			buf.WriteString("," + OptNoParams)
		}
		buf.WriteString("\n")

		for _, l := range strings.Split(strings.TrimSuffix(parser.Dump(root), "\n"), "\n") {
			fmt.Fprintf(&buf, "  %v\n", l)
		}
	}

	return buf.String()
}
