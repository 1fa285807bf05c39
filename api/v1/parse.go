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
)

/*
EndpointParse is the parse endpoint URL (rooted). Handles everything under parse/...
*/
const EndpointParse = api.APIRoot + APIv1 + "/parse/"

/*
ParseEndpointInst creates a new endpoint handler.
*/
func ParseEndpointInst() api.RestEndpointHandler {
	return &parseEndpoint{}
}

/*
Handler object for parse operations.
*/
type parseEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandlePOST handles REST calls to parse search queries.
*/
func (pe *parseEndpoint) HandlePOST(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkProcessor(w) {
		return
	}

	dec := json.NewDecoder(r.Body)
	data := make(map[string]interface{})

	if err := dec.Decode(&data); err != nil {
		http.Error(w, "Could not decode request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	query, ok := data["query"]

	if !ok {
		http.Error(w, "Need a query parameter", http.StatusBadRequest)
		return
	}

	tree, err := api.QP.Parse(fmt.Sprint(query))

	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("content-type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(tree.Plain())
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (pe *parseEndpoint) SwaggerDefs(s map[string]interface{}) {

	s["paths"].(map[string]interface{})["/v1/parse"] = map[string]interface{}{
		"post": map[string]interface{}{
			"summary":     "Search query parser endpoint.",
			"description": "The parse endpoint should be used to parse a given search query into a normalized token tree.",
			"consumes": []string{
				"application/json",
			},
			"produces": []string{
				"text/plain",
				"application/json",
			},
			"parameters": []map[string]interface{}{
				{
					"name":        "data",
					"in":          "body",
					"description": "Query which should be parsed.",
					"required":    true,
					"schema": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"query": map[string]interface{}{
								"description": "Search query which should be parsed.",
								"type":        "string",
							},
						},
					},
				},
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The token tree of the query.",
					"schema": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"ast": api.SwaggerTokenRef,
							"globals": map[string]interface{}{
								"description": "Tokens which were collected as globals.",
								"type":        "array",
								"items":       api.SwaggerTokenRef,
							},
							"dump": map[string]interface{}{
								"description": "Text rendering of the token tree.",
								"type":        "string",
							},
						},
					},
				},
				"default": api.SwaggerErrorResponse(),
			},
		},
	}
}
