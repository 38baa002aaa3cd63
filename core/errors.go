package core

import "github.com/go-oas2/oas2validate/internal/severity"

// Error codes are part of the public contract: consumers match on these
// strings, so they must never be renamed once released.
const (
	CodeInvalidContentType            = "INVALID_CONTENT_TYPE"
	CodeInvalidRequestParameter       = "INVALID_REQUEST_PARAMETER"
	CodeInvalidType                   = "INVALID_TYPE"
	CodeObjectMissingRequiredProperty = "OBJECT_MISSING_REQUIRED_PROPERTY"
	CodeInvalidResponseCode           = "INVALID_RESPONSE_CODE"
	CodeInvalidResponseHeader         = "INVALID_RESPONSE_HEADER"
	CodeInvalidResponseBody           = "INVALID_RESPONSE_BODY"
)

// Issue is a single neutral error record: {code, message, path}. Both the
// schema validator adapter and the value coercer produce these; the
// operation/response models wrap them in envelopes as needed.
type Issue struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Path     []string          `json:"path"`
	Severity severity.Severity `json:"-"`
}

// ParameterError envelopes one failing request parameter (§4.G): it always
// carries code INVALID_REQUEST_PARAMETER plus the parameter's name/in and
// its flattened nested issues.
type ParameterError struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Path    []string `json:"path"`
	Name    string  `json:"name"`
	In      string  `json:"in"`
	Errors  []Issue `json:"errors"`
}

// HeaderError envelopes one failing response header (§4.F): code is always
// INVALID_RESPONSE_HEADER.
type HeaderError struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Path    []string `json:"path"`
	Name    string  `json:"name"`
	Errors  []Issue `json:"errors"`
}

// BodyError envelopes a failing response body: code is
// INVALID_RESPONSE_BODY. A failing request body is reported as a
// ParameterError with name/in == "body".
type BodyError struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Path    []string `json:"path"`
	Errors  []Issue `json:"errors"`
}

// ValidationResult is the outcome of a validateRequest/validateResponse
// call: never an error in the Go sense — validation always returns a
// result, per §7's "no failure is re-raised as fatal".
type ValidationResult struct {
	Errors   []any `json:"errors"`
	Warnings []any `json:"warnings"`
}

// Valid reports whether the result carries no errors.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}
