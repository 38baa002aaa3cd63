// Package oas2validate provides a Swagger 2.0 request/response validation
// core: a runtime model built once from a resolved document, then used to
// look up operations by method and URL and validate requests and responses
// against the operations' declared parameters, schemas, and content types.
//
// # Overview
//
// The module is split into two packages:
//
//   - document: the parsed Swagger 2.0 document shape (paths, operations,
//     parameters, responses, security, schemas). Producing this shape from
//     raw JSON/YAML and resolving $ref happen upstream; this package only
//     describes the already-resolved document.
//   - core: the runtime model (API, Path, Operation, Parameter, Response)
//     built from a document.Document, plus request and response
//     validation against that model.
//
// # Quick start
//
//	doc := &document.Document{ /* populated by an upstream parser */ }
//	api, err := core.NewAPI(doc, core.NewJSONSchemaValidator())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	op, ok := api.GetOperation("/v2/pet/42", "GET")
//	if !ok {
//		log.Fatal("no matching operation")
//	}
//
//	result := op.ValidateRequest(core.FromHTTPRequest(req, nil))
//	if !result.Valid() {
//		for _, e := range result.Errors {
//			fmt.Printf("%+v\n", e)
//		}
//	}
//
// # Non-goals
//
// This module does not generate server stubs or client code, does not emit
// documentation, does not enforce a specific HTTP runtime, does not mutate
// the input document, and does not maintain persistent state across calls.
// External reference resolution, document loading from disk, and network
// transport are the caller's concern.
package oas2validate
