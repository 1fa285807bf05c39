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
Package v1 contains version 1 of the REST API.

/parse

Parse a search query into a token tree. The query is given as a JSON object
in the body of a POST request:

	{ "query" : "allintitle:This is a test" }

/tokens

Split a text into plain words. The text is given in the q parameter. An
optional skip parameter returns the byte offset of the n-th word.

/macro

Returns the names of all known macros or the attribute values of a single
macro (/macro/<name>).

/sock

Websocket endpoint to parse search queries. Each message should be a JSON
object with a query value.
*/
package v1

import (
	"net/http"
	"strconv"
	"strings"

	"devt.de/krotik/querytoken/api"
)

/*
APIv1 is the directory for version 1 of the API
*/
const APIv1 = "/v1"

/*
HTTPHeaderTotalCount is a special header value containing the total count of objects.
*/
const HTTPHeaderTotalCount = "X-Total-Count"

/*
V1EndpointMap is a map of urls to endpoints for version 1 of the API
*/
var V1EndpointMap = map[string]api.RestEndpointInst{
	EndpointMacro:  MacroEndpointInst,
	EndpointParse:  ParseEndpointInst,
	EndpointTokens: TokensEndpointInst,
}

/*
V1SockEndpointMap is a map of urls to websocket endpoints for version 1 of the API
*/
var V1SockEndpointMap = map[string]api.RestEndpointInst{
	EndpointParseSock: ParseSockEndpointInst,
}

// Helper functions
// ================

/*
checkProcessor checks if a query processor is available.
*/
func checkProcessor(w http.ResponseWriter) bool {
	if api.QP == nil {
		http.Error(w, "Query processor is not available", http.StatusServiceUnavailable)
		return false
	}
	return true
}

/*
checkResources check given resources for a GET request.
*/
func checkResources(w http.ResponseWriter, resources []string, requiredMin int, requiredMax int, errorMsg string) bool {
	if len(resources) < requiredMin {
		http.Error(w, errorMsg, http.StatusBadRequest)
		return false
	} else if len(resources) > requiredMax {
		http.Error(w, "Invalid resource specification: "+strings.Join(resources[1:], "/"), http.StatusBadRequest)
		return false
	}
	return true
}

/*
Extract a positive number from a query parameter. Returns -1 and true
if the parameter was not given.
*/
func queryParamPosNum(w http.ResponseWriter, r *http.Request, param string) (int, bool) {

	val := r.URL.Query().Get(param)

	if val == "" {
		return -1, true
	}

	num, err := strconv.Atoi(val)

	if err != nil || num < 0 {
		http.Error(w, "Invalid parameter value: "+param+" should be a positive integer number", http.StatusBadRequest)
		return -1, false
	}

	return num, true
}
