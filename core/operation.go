package core

import (
	"fmt"
	"sort"

	"github.com/go-oas2/oas2validate/document"
)

// Operation is the runtime model of a single (path, method) pair (§3/§4.G).
// It holds borrowed references to its owning Path and the API, per §9.
type Operation struct {
	api      *API
	path     *Path
	method   string
	ptr      string
	def      *document.Operation
	params   []*Parameter
	consumes []string
	produces []string
	security []document.SecurityRequirement
	secDefs  map[string]*document.SecurityScheme
	responses map[string]*Response
}

// Method returns the lowercase HTTP method.
func (o *Operation) Method() string { return o.method }

// Pointer is this operation's JSON Pointer, e.g. "#/paths/~1pet~1{petId}/get".
func (o *Operation) Pointer() string { return o.ptr }

// Path returns the owning Path.
func (o *Operation) Path() *Path { return o.path }

// API returns the owning API.
func (o *Operation) API() *API { return o.api }

// Consumes returns the operation's effective consumes list (§4.I).
func (o *Operation) Consumes() []string { return o.consumes }

// Produces returns the operation's effective produces list (§4.I).
func (o *Operation) Produces() []string { return o.produces }

// Security returns the operation's effective security requirements.
func (o *Operation) Security() []document.SecurityRequirement { return o.security }

// SecurityDefinitions returns the subset of document-level security
// definitions referenced by this operation's effective security
// requirements (§4.I).
func (o *Operation) SecurityDefinitions() map[string]*document.SecurityScheme { return o.secDefs }

// Tags returns the operation's declared tags.
func (o *Operation) Tags() []string { return o.def.Tags }

// GetParameters returns the operation's effective parameters: path-level
// parameters followed by operation-level ones, with operation-level
// entries overriding path-level entries sharing (name, in) (§3 Operation
// invariant / P2).
func (o *Operation) GetParameters() []*Parameter { return o.params }

// GetResponse returns the Response for code, or the default entry if code
// is empty or unmatched.
func (o *Operation) GetResponse(code string) (*Response, bool) {
	if code != "" {
		if r, ok := o.responses[code]; ok {
			return r, true
		}
	}
	if r, ok := o.responses["default"]; ok {
		return r, true
	}
	return nil, false
}

// GetResponses returns all declared responses, keyed by status code
// string or "default".
func (o *Operation) GetResponses() map[string]*Response { return o.responses }

// pathMatch runs the owning Path's compiled matcher against url.
func (o *Operation) pathMatch(url string) (matched bool, params map[string]string, found bool) {
	m, p := o.path.matcher.Match(url)
	return m, p, m
}

// hasBodyParam reports whether this operation declares a body or formData
// parameter, used by §4.C's request-side content-type skip rule.
func (o *Operation) hasBodyParam() bool {
	for _, p := range o.params {
		if p.In() == "body" || p.In() == "formData" {
			return true
		}
	}
	return false
}

// ValidateRequest implements §4.G's validateRequest: content-type check,
// then per-parameter validation, each failure becoming its own envelope
// in parameter declaration order. Content-type errors precede parameter
// errors (§5 ordering guarantee / P7).
func (o *Operation) ValidateRequest(req Request) ValidationResult {
	result := ValidationResult{}

	if o.hasBodyParam() && !skipRequestContentTypeCheck(o.consumes, o.hasBodyParam()) {
		actual := requestContentType(req)
		if err := negotiateContentType(actual, o.consumes); err != nil {
			result.Errors = append(result.Errors, Issue{Code: CodeInvalidContentType, Message: err.Error(), Path: []string{}})
		}
	}

	for _, p := range o.params {
		pv := p.getValue(req, o.api.schemaValidator)
		if !pv.Valid {
			if env := pv.envelope(); env != nil {
				result.Errors = append(result.Errors, env)
			}
		}
	}

	return result
}

// ValidateResponse implements §4.G's validateResponse: resolve the
// Response by status code (falling back to default), or emit
// INVALID_RESPONSE_CODE.
func (o *Operation) ValidateResponse(statusCode string, headers map[string]string, body any, encoding string) ValidationResult {
	resp, ok := o.GetResponse(statusCode)
	if !ok {
		result := ValidationResult{}
		var message string
		if statusCode == "" {
			message = "This operation does not have a defined 'default' response code"
		} else {
			message = fmt.Sprintf("This operation does not have a '%s' or 'default' response code", statusCode)
		}
		result.Errors = append(result.Errors, Issue{Code: CodeInvalidResponseCode, Message: message, Path: []string{}})
		return result
	}

	return resp.ValidateResponse(statusCode, headers, body, encoding, o.api.schemaValidator)
}

// sortOperationsByTag is a small helper shared by Path.GetOperationsByTag
// and API.GetOperationsByTag to keep tag-filtered listings in a
// deterministic order (operationId, then method).
func sortOperationsByTag(ops []*Operation) []*Operation {
	sort.SliceStable(ops, func(i, j int) bool {
		if ops[i].def.OperationID != ops[j].def.OperationID {
			return ops[i].def.OperationID < ops[j].def.OperationID
		}
		return ops[i].method < ops[j].method
	})
	return ops
}
