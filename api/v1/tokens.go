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

	"devt.de/krotik/querytoken/api"
	"devt.de/krotik/querytoken/query/parser"
)

/*
EndpointTokens is the tokens endpoint URL (rooted). Handles everything under tokens/...
*/
const EndpointTokens = api.APIRoot + APIv1 + "/tokens/"

/*
TokensEndpointInst creates a new endpoint handler.
*/
func TokensEndpointInst() api.RestEndpointHandler {
	return &tokensEndpoint{}
}

/*
Handler object for tokenizer operations.
*/
type tokensEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandleGET handles a tokenizer REST call.
*/
func (te *tokensEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkProcessor(w) || !checkResources(w, resources, 0, 0, "") {
		return
	}

	params := r.URL.Query()

	if _, ok := params["q"]; !ok {
		http.Error(w, "Need a q parameter", http.StatusBadRequest)
		return
	}

	text := params.Get("q")

	skip, ok := queryParamPosNum(w, r, "skip")
	if !ok {
		return
	}

	tokens, err := api.QP.Tokenize(text)

	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	count := api.QP.Count(text)
	offset := 0

	if skip != -1 {
		offset = api.QP.Skip(text, skip)
	}

	w.Header().Set(HTTPHeaderTotalCount, fmt.Sprint(count))
	w.Header().Set("content-type", "application/json; charset=utf-8")

	json.NewEncoder(w).Encode(map[string]interface{}{
		"tokens": parser.PlainList(tokens),
		"count":  count,
		"offset": offset,
	})
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (te *tokensEndpoint) SwaggerDefs(s map[string]interface{}) {

	s["paths"].(map[string]interface{})["/v1/tokens"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Plain text tokenizer endpoint.",
			"description": "The tokens endpoint splits a given text into plain words.",
			"produces": []string{
				"text/plain",
				"application/json",
			},
			"parameters": []map[string]interface{}{
				{
					"name":        "q",
					"in":          "query",
					"description": "Text which should be tokenized.",
					"required":    true,
					"type":        "string",
				},
				{
					"name":        "skip",
					"in":          "query",
					"description": "Return the byte offset of the n-th word as offset.",
					"required":    false,
					"type":        "integer",
				},
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "Words of the given text.",
					"schema": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"tokens": map[string]interface{}{
								"description": "List of word tokens.",
								"type":        "array",
								"items":       api.SwaggerTokenRef,
							},
							"count": map[string]interface{}{
								"description": "Number of words.",
								"type":        "integer",
							},
							"offset": map[string]interface{}{
								"description": "Byte offset of the requested word.",
								"type":        "integer",
							},
						},
					},
				},
				"default": api.SwaggerErrorResponse(),
			},
		},
	}
}
