/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package api

import (
	"encoding/json"
	"net/http"
)

/*
EndpointSwagger is the swagger endpoint URL (rooted). Handles swagger.json/
*/
const EndpointSwagger = APIRoot + "/swagger.json/"

/*
SwaggerTokenRef references the token object definition of the swagger file.
*/
var SwaggerTokenRef = map[string]interface{}{
	"$ref": "#/definitions/Token",
}

/*
SwaggerErrorResponse returns the default response of all endpoints.
*/
func SwaggerErrorResponse() map[string]interface{} {
	return map[string]interface{}{
		"description": "Error response",
		"schema": map[string]interface{}{
			"$ref": "#/definitions/Error",
		},
	}
}

/*
swaggerProperty describes a single typed property of a response object.
*/
func swaggerProperty(typ string, description string) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"type":        typ,
	}
}

/*
SwaggerEndpointInst creates a new endpoint handler.
*/
func SwaggerEndpointInst() RestEndpointHandler {
	return &swaggerEndpoint{}
}

/*
Handler object for swagger operations.
*/
type swaggerEndpoint struct {
	*DefaultEndpointHandler
}

/*
HandleGET writes the swagger definition of all registered endpoints.
*/
func (se *swaggerEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {
	doc := map[string]interface{}{
		"swagger":     "2.0",
		"host":        APIHost,
		"schemes":     APISchemes,
		"basePath":    APIRoot,
		"produces":    []string{"application/json"},
		"paths":       map[string]interface{}{},
		"definitions": map[string]interface{}{},
	}

	se.SwaggerDefs(doc)

	for _, inst := range registered {
		inst().SwaggerDefs(doc)
	}

	w.Header().Set("content-type", "application/json; charset=utf-8")

	json.NewEncoder(w).Encode(doc)
}

/*
SwaggerDefs adds the service information and the shared object definitions.
*/
func (se *swaggerEndpoint) SwaggerDefs(s map[string]interface{}) {

	s["info"] = map[string]interface{}{
		"title":       "QueryToken API",
		"description": "Parse and tokenize search queries.",
		"version":     APIVersion,
	}

	defs := s["definitions"].(map[string]interface{})

	defs["Error"] = swaggerProperty("string", "A human readable error message.")

	defs["Token"] = map[string]interface{}{
		"description": "A node of a token tree.",
		"type":        "object",
		"properties": map[string]interface{}{
			"kind":     swaggerProperty("string", "Kind of the token (e.g. word or openparen)."),
			"text":     swaggerProperty("string", "Token text."),
			"pos":      swaggerProperty("integer", "Byte offset of the token in the query."),
			"len":      swaggerProperty("integer", "Number of query bytes covered by the token."),
			"callback": swaggerProperty("string", "Macro callback result of the token."),
			"attrs": map[string]interface{}{
				"description": "Attribute list of a field token.",
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
			},
			"modifiers": map[string]interface{}{
				"description": "Tokens which modify this token.",
				"type":        "array",
				"items":       SwaggerTokenRef,
			},
			"children": map[string]interface{}{
				"description": "Child tokens of a group token.",
				"type":        "array",
				"items":       SwaggerTokenRef,
			},
		},
	}
}

/*
SwaggerDefs describes the about endpoint.
*/
func (a *aboutEndpoint) SwaggerDefs(s map[string]interface{}) {

	versions := swaggerProperty("array", "List of available API versions.")
	versions["items"] = swaggerProperty("string", "Available API version.")

	s["paths"].(map[string]interface{})["/about"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Return information about the query service.",
			"description": "Returns available API versions, product name, product version and macro count.",
			"produces": []string{
				"text/plain",
				"application/json",
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "About info object",
					"schema": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"api_versions": versions,
							"product":      swaggerProperty("string", "Product name of the query service."),
							"version":      swaggerProperty("string", "Version of the query service."),
							"macros":       swaggerProperty("integer", "Number of known macros."),
						},
					},
				},
				"default": SwaggerErrorResponse(),
			},
		},
	}
}
