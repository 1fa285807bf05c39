/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */


package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"devt.de/krotik/common/cryptutil"
	"devt.de/krotik/querytoken/api"
	"github.com/gorilla/websocket"
)

/*
EndpointParseSock is the parse endpoint URL (rooted) for websocket operations. Handles everything under sock/...
*/
const EndpointParseSock = api.APIRoot + APIv1 + "/sock/"

/*
sockUpgrader can upgrade normal requests to websocket communications
*/
var sockUpgrader = websocket.Upgrader{
	Subprotocols:    []string{"query-sock"},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

/*
ParseSockEndpointInst creates a new endpoint handler.
*/
func ParseSockEndpointInst() api.RestEndpointHandler {
	return &parseSockEndpoint{}
}

/*
Handler object for websocket parse operations.
*/
type parseSockEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandleGET handles websocket parse operations.
*/
func (pe *parseSockEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkProcessor(w) {
		return
	}

	// Update the incomming connection to a websocket
	// If the upgrade fails then the client gets an HTTP error response.

	conn, err := sockUpgrader.Upgrade(w, r, nil)

	if err != nil {

		// We give details here on what went wrong

		w.Write([]byte(err.Error()))
		return
	}

	defer conn.Close()

	sc := newSockConnection(fmt.Sprintf("%x", cryptutil.GenerateUUID()), conn)

	sc.Init()

	for {
		var fatal bool
		var data map[string]interface{}

		// Read websocket message

		if data, fatal, err = sc.ReadData(); err != nil {

			sc.WriteData(map[string]interface{}{
				"error": err.Error(),
			})

			if fatal {
				break
			}

			continue
		}

		if val, ok := data["close"]; ok && fmt.Sprint(val) == "true" {
			sc.Close("")
			break
		}

		query, ok := data["query"]

		if !ok {
			sc.WriteData(map[string]interface{}{
				"error": "Need a query parameter",
			})
			continue
		}

		tree, err := api.QP.Parse(fmt.Sprint(query))

		if err != nil {
			sc.WriteData(map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}

		sc.WriteData(tree.Plain())
	}
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (pe *parseSockEndpoint) SwaggerDefs(s map[string]interface{}) {
	// No swagger definitions for this endpoint as it only handles websocket requests
}

// Websocket connection
// ====================

/*
sockConnection models a single websocket connection.

Websocket connections support one concurrent reader and one concurrent writer.
See: https://godoc.org/github.com/gorilla/websocket#hdr-Concurrency
*/
type sockConnection struct {
	commID string
	conn   *websocket.Conn
	rMutex *sync.Mutex
	wMutex *sync.Mutex
}

/*
newSockConnection creates a new sockConnection object.
*/
func newSockConnection(commID string, c *websocket.Conn) *sockConnection {
	return &sockConnection{
		commID: commID,
		conn:   c,
		rMutex: &sync.Mutex{},
		wMutex: &sync.Mutex{}}
}

/*
Init initializes the websocket connection.
*/
func (sc *sockConnection) Init() {
	sc.wMutex.Lock()
	defer sc.wMutex.Unlock()
	sc.conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"init_success","payload":{}}`))
}

/*
ReadData reads data from the websocket connection.
*/
func (sc *sockConnection) ReadData() (map[string]interface{}, bool, error) {
	var data map[string]interface{}
	var fatal = true

	sc.rMutex.Lock()
	_, msg, err := sc.conn.ReadMessage()
	sc.rMutex.Unlock()

	if err == nil {
		fatal = false
		err = json.Unmarshal(msg, &data)
	}

	return data, fatal, err
}

/*
WriteData writes data to the websocket.
*/
func (sc *sockConnection) WriteData(data map[string]interface{}) {
	sc.wMutex.Lock()
	defer sc.wMutex.Unlock()

	jsonData, _ := json.Marshal(map[string]interface{}{
		"commID":  sc.commID,
		"type":    "data",
		"payload": data,
	})

	sc.conn.WriteMessage(websocket.TextMessage, jsonData)
}

/*
Close closes the websocket connection.
*/
func (sc *sockConnection) Close(msg string) {
	sc.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(
			websocket.CloseNormalClosure, msg), time.Now().Add(10*time.Second))

	sc.conn.Close()
}
