// Package openapi builds an OpenAPI v3.1.0 document from the endpoints
// registered in mux tables.
//
// Parameters come from the argument descriptors of each endpoint: path
// arguments become path parameters, query and header arguments become
// query and header parameters, and body arguments become one object
// schema accepted as JSON or as a form post. Literal sets are rendered as
// enums, several allowed types as oneOf, and defaults are carried over.
//
// See: https://spec.openapis.org/oas/v3.1.0
//
// # Spec Builder
//
//	spec := openapi.NewSpec(openapi.Info{Title: "Users", Version: "1.0.0"})
//	spec.AddTable(users, "/api/v1")
//
// Endpoint names ("GET /users/{id:int}" unless the route names itself)
// select the operation to annotate:
//
//	spec.Op("GET /users/{id:int}").
//	    Summary("Fetch a user").
//	    ResponseDescription(http.StatusOK, "The user")
//
// # Serving
//
// Handler serves the document below a prefix router key; the request tail
// selects JSON, YAML or the Swagger UI page:
//
//	router.Handle("/openapi", spec.Handler(nil))
//	// /openapi/json, /openapi/yaml, /openapi/docs
package openapi
