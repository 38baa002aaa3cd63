// Package core is the model-construction and validation pipeline for a
// resolved Swagger 2.0 document: the path-to-regexp compiler, the
// parameter composition and coercion engine, the schema-validation
// plumbing, and content-type negotiation.
//
// An API is built once from a document.Document via NewAPI and is
// immutable and safe for unbounded concurrent use thereafter. Dispatch a
// request with API.GetOperation, then call Operation.ValidateRequest /
// Operation.ValidateResponse.
package core
