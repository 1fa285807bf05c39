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
	"net/http"

	"devt.de/krotik/querytoken/api"
)

/*
EndpointMacro is the macro endpoint URL (rooted). Handles everything under macro/...
*/
const EndpointMacro = api.APIRoot + APIv1 + "/macro/"

/*
MacroEndpointInst creates a new endpoint handler.
*/
func MacroEndpointInst() api.RestEndpointHandler {
	return &macroEndpoint{}
}

/*
Handler object for macro queries.
*/
type macroEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandleGET handles a macro query REST call.
*/
func (me *macroEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {
	var data interface{}

	if !checkProcessor(w) || !checkResources(w, resources, 0, 1, "") {
		return
	}

	if len(resources) == 0 {
		names := api.QP.MacroNames()

		if names == nil {
			names = []string{}
		}

		data = names

	} else {

		values, ok := api.QP.MacroValues(resources[0])

		if !ok {
			http.Error(w, "Unknown macro: "+resources[0], http.StatusNotFound)
			return
		}

		if values == nil {
			values = []string{}
		}

		data = map[string]interface{}{
			"values": values,
		}
	}

	w.Header().Set("content-type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(data)
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (me *macroEndpoint) SwaggerDefs(s map[string]interface{}) {

	s["paths"].(map[string]interface{})["/v1/macro"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Return the names of all known macros.",
			"description": "The macro endpoint returns the names of all macros in the macro dictionary.",
			"produces": []string{
				"text/plain",
				"application/json",
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "A list of macro names.",
					"schema": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "string",
						},
					},
				},
				"default": api.SwaggerErrorResponse(),
			},
		},
	}

	s["paths"].(map[string]interface{})["/v1/macro/{name}"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Return the attribute values of a macro.",
			"description": "Returns all attribute values of the expansion of a given macro.",
			"produces": []string{
				"text/plain",
				"application/json",
			},
			"parameters": []map[string]interface{}{
				{
					"name":        "name",
					"in":          "path",
					"description": "Name of the macro.",
					"required":    true,
					"type":        "string",
				},
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "Attribute values of the macro.",
					"schema": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"values": map[string]interface{}{
								"type": "array",
								"items": map[string]interface{}{
									"type": "string",
								},
							},
						},
					},
				},
				"default": api.SwaggerErrorResponse(),
			},
		},
	}
}
