package core

import (
	"fmt"
	"strings"

	"github.com/go-oas2/oas2validate/document"
)

// Response is the runtime model of a single declared response (§3/§4.F).
type Response struct {
	owner      *Operation
	ptr        string
	statusCode string
	def        *document.Response
}

// StatusCode returns the status code string, or "default".
func (r *Response) StatusCode() string { return r.statusCode }

// Pointer is this response's JSON Pointer.
func (r *Response) Pointer() string { return r.ptr }

// Schema returns the declared body schema, or nil.
func (r *Response) Schema() *document.Schema { return r.def.Schema }

// Headers returns the declared header schemas, keyed by header name.
func (r *Response) Headers() map[string]*document.Header { return r.def.Headers }

// ValidateResponse implements §4.F: content-type, then headers, then
// body, in that order.
func (r *Response) ValidateResponse(statusCode string, headers map[string]string, body any, encoding string, validator SchemaValidator) ValidationResult {
	result := ValidationResult{}

	if !skipResponseContentTypeCheck(r.def.Schema != nil, statusCode) {
		actual := ""
		for k, v := range headers {
			if strings.EqualFold(k, "content-type") {
				actual = v
				break
			}
		}
		if err := negotiateContentType(actual, r.owner.produces); err != nil {
			result.Errors = append(result.Errors, Issue{Code: CodeInvalidContentType, Message: err.Error(), Path: []string{}})
		}
	}

	// No required-header check is performed: intentional, per the
	// documented Swagger 2.0 spec ambiguity around response header
	// requiredness.
	for name, headerDef := range r.def.Headers {
		raw, hasRaw := lookupHeader(headers, name)
		if !hasRaw && headerDef.Default != nil {
			raw = fmt.Sprintf("%v", headerDef.Default)
			hasRaw = true
		}
		if !hasRaw {
			continue
		}

		cs := &coercionSchema{Type: headerDef.Type, Format: headerDef.Format, CollectionFormat: headerDef.CollectionFormat, Default: headerDef.Default}
		if headerDef.Items != nil {
			cs.Items = coercionSchemaFromItems(headerDef.Items)
		}
		value, err := coerce(raw, true, cs)
		if err != nil {
			result.Errors = append(result.Errors, &HeaderError{
				Code:    CodeInvalidResponseHeader,
				Message: fmt.Sprintf("Invalid response header %q", name),
				Name:    name,
				Errors:  []Issue{err.(*coercionError).Issue(nil)},
			})
			continue
		}
		if validator != nil {
			issues, verr := validator.Validate(headerDef, jsonSchemaValue(value, cs))
			if verr == nil && len(issues) > 0 {
				result.Errors = append(result.Errors, &HeaderError{
					Code:    CodeInvalidResponseHeader,
					Message: fmt.Sprintf("Invalid response header %q", name),
					Name:    name,
					Errors:  issues,
				})
			}
		}
	}

	if r.def.Schema != nil && statusCode != "204" && statusCode != "304" {
		if validator != nil {
			issues, err := validator.Validate(r.def.Schema, body)
			if err == nil && len(issues) > 0 {
				result.Errors = append(result.Errors, &BodyError{
					Code:    CodeInvalidResponseBody,
					Message: "Invalid response body",
					Errors:  issues,
				})
			}
		}
	}

	return result
}

// lookupHeader performs a case-insensitive lookup over the response
// header map, trying an exact match first.
func lookupHeader(headers map[string]string, name string) (string, bool) {
	if v, ok := headers[name]; ok {
		return v, true
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
