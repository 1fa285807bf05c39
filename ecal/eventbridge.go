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
Package ecal contains the scripting support via the event condition action
language (ECAL).

Every successfully parsed query is forwarded to ECAL as a query.parsed event.
A sink can reject a query by raising an error.
*/
package ecal

import (
	"fmt"

	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/ecal/engine"
	"devt.de/krotik/ecal/util"
	"devt.de/krotik/querytoken/ecal/qfunc"
	"devt.de/krotik/querytoken/query/parser"
)

/*
EventParsed is the ECAL event kind of a parsed query.

State: query string, ast, globals and dump of the parsed query
*/
var EventParsed = []string{"query", "parsed"}

/*
EventBridge is a rule for a query processor to forward all parsed queries to ECAL.
*/
type EventBridge struct {
	Processor engine.Processor
	Logger    util.Logger
}

/*
Name returns the name of the rule.
*/
func (eb *EventBridge) Name() string {
	return "ecal.eventbridge"
}

/*
Handle handles a parsed query.
*/
func (eb *EventBridge) Handle(query string, tree *parser.Tree) error {
	var err error

	eventName := "QueryToken: query.parsed"

	// Construct an event which can be used to check if any rule will trigger.
	// This is to avoid the relative costly state construction below for events
	// which would not trigger any rules.

	if !eb.Processor.IsTriggering(engine.NewEvent(eventName, EventParsed, nil)) {
		return nil
	}

	// Build up state

	state := qfunc.PlainTree(tree)
	state["query"] = query

	// Try to inject the event

	var m engine.Monitor
	m, err = eb.Processor.AddEventAndWait(engine.NewEvent(eventName, EventParsed, state), nil)

	if err == nil {

		// If there was no direct error adding the event then check if an error was
		// raised in a sink

		if errs := m.(*engine.RootMonitor).AllErrors(); len(errs) > 0 {
			ce := errorutil.NewCompositeError()

			for _, e := range errs {
				ce.Add(e)
			}

			err = ce
		}
	}

	if err != nil {
		eb.Logger.LogDebug(fmt.Sprintf("Query %q was handled by ECAL and returned: %v", query, err))
	}

	return err
}
