package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-oas2/oas2validate/document"
	"github.com/go-oas2/oas2validate/internal/httputil"
)

// API is the entry point of the runtime model (§3/§4.I): built once from a
// resolved document, immutable thereafter.
type API struct {
	doc             *document.Document
	basePath        string
	consumes        []string
	produces        []string
	security        []document.SecurityRequirement
	secDefs         map[string]*document.SecurityScheme
	paths           []*Path
	pathsByTemplate map[string]*Path
	pathsByPrefixed map[string]*Path
	matcherSet      *PathMatcherSet
	schemaValidator SchemaValidator
}

// NewAPI constructs an API from a fully-resolved Swagger 2.0 document. The
// document is assumed already resolved: every $ref has been inlined
// upstream (§1 Out of scope). validator is the schema validator adapter
// (§4.B); pass nil to disable schema validation and rely on coercion
// checks only.
func NewAPI(doc *document.Document, validator SchemaValidator) (*API, error) {
	if doc == nil {
		return nil, fmt.Errorf("document cannot be nil")
	}

	api := &API{
		doc:             doc,
		basePath:        normalizeBasePath(doc.BasePath),
		consumes:        doc.Consumes,
		produces:        doc.Produces,
		security:        doc.Security,
		secDefs:         doc.SecurityDefinitions,
		pathsByTemplate: make(map[string]*Path),
		schemaValidator: validator,
	}

	templates := make([]string, 0, len(doc.Paths))
	for template := range doc.Paths {
		templates = append(templates, template)
	}
	sort.Strings(templates)

	prefixedTemplates := make([]string, len(templates))
	for i, t := range templates {
		prefixedTemplates[i] = api.basePath + t
	}
	matcherSet, err := NewPathMatcherSet(prefixedTemplates)
	if err != nil {
		return nil, fmt.Errorf("compile path matchers: %w", err)
	}
	api.matcherSet = matcherSet
	api.pathsByPrefixed = make(map[string]*Path, len(templates))

	for i, template := range templates {
		item := doc.Paths[template]
		path, err := api.buildPath(template, item)
		if err != nil {
			return nil, fmt.Errorf("build path %q: %w", template, err)
		}
		api.paths = append(api.paths, path)
		api.pathsByTemplate[template] = path
		api.pathsByPrefixed[prefixedTemplates[i]] = path
	}

	return api, nil
}

// normalizeBasePath implements §3's API invariant: an absent base path, or
// "/", normalizes to empty; otherwise the base path is a prefix with no
// trailing slash.
func normalizeBasePath(basePath string) string {
	if basePath == "" || basePath == "/" {
		return ""
	}
	return strings.TrimSuffix(basePath, "/")
}

func (api *API) buildPath(template string, item *document.PathItem) (*Path, error) {
	matcher, err := NewPathMatcher(api.basePath + template)
	if err != nil {
		return nil, err
	}

	path := &Path{
		api:        api,
		template:   template,
		ptr:        "#/paths/" + jsonPointerEscape(template),
		matcher:    matcher,
		parameters: item.Parameters,
		operations: make(map[string]*Operation),
	}

	for _, entry := range item.Operations() {
		op, err := api.buildOperation(path, entry.Method, entry.Op)
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", entry.Method, err)
		}
		path.operations[entry.Method] = op
	}

	return path, nil
}

func (api *API) buildOperation(path *Path, method string, def *document.Operation) (*Operation, error) {
	op := &Operation{
		api:    api,
		path:   path,
		method: method,
		ptr:    path.ptr + "/" + method,
		def:    def,
	}

	op.consumes = effectiveMediaTypes(def.Consumes, api.consumes)
	op.produces = effectiveMediaTypes(def.Produces, api.produces)
	op.security = effectiveSecurity(def.Security, api.security)
	op.secDefs = referencedSecurityDefs(op.security, api.secDefs)

	op.params = mergeParameters(path.ptr, path.parameters, op.ptr, def.Parameters)
	for _, p := range op.params {
		p.owner = op
	}

	op.responses = make(map[string]*Response)
	for code, rdef := range def.Responses {
		if !httputil.ValidateStatusCode(code) {
			return nil, fmt.Errorf("operation %s: invalid response status code %q", op.ptr, code)
		}
		op.responses[code] = &Response{
			owner:      op,
			ptr:        op.ptr + "/responses/" + code,
			statusCode: code,
			def:        rdef,
		}
	}

	return op, nil
}

// mergeParameters implements §3's Operation invariant / P2: the union of
// path-level parameters followed by operation-level parameters,
// deduplicated on (name, in) with operation-level taking precedence. Order
// is path-level (minus any overridden entries) followed by operation-level
// in declaration order. Each parameter's pointer addresses its declaration
// under pathPtr or opPtr.
func mergeParameters(pathPtr string, pathParams []*document.Parameter, opPtr string, opParams []*document.Parameter) []*Parameter {
	overridden := make(map[string]bool, len(opParams))
	for _, p := range opParams {
		if p != nil {
			overridden[p.In+":"+p.Name] = true
		}
	}

	out := make([]*Parameter, 0, len(pathParams)+len(opParams))
	for i, p := range pathParams {
		if p == nil {
			continue
		}
		if overridden[p.In+":"+p.Name] {
			continue
		}
		out = append(out, newParameter(nil, fmt.Sprintf("%s/parameters/%d", pathPtr, i), p))
	}
	for i, p := range opParams {
		if p != nil {
			out = append(out, newParameter(nil, fmt.Sprintf("%s/parameters/%d", opPtr, i), p))
		}
	}
	return out
}

// effectiveMediaTypes implements §4.I: an operation-level list falls back
// to the document-level list when it is absent or explicitly empty, so
// both nil and empty slices fall back here.
func effectiveMediaTypes(operationLevel, documentLevel []string) []string {
	if len(operationLevel) == 0 {
		return documentLevel
	}
	return operationLevel
}

// effectiveSecurity falls back to document-level security requirements
// when the operation does not declare its own (nil or empty).
func effectiveSecurity(operationLevel, documentLevel []document.SecurityRequirement) []document.SecurityRequirement {
	if len(operationLevel) == 0 {
		return documentLevel
	}
	return operationLevel
}

// referencedSecurityDefs computes the subset of document-level security
// definitions referenced by any of the given requirements (§4.I).
func referencedSecurityDefs(reqs []document.SecurityRequirement, all map[string]*document.SecurityScheme) map[string]*document.SecurityScheme {
	out := make(map[string]*document.SecurityScheme)
	for _, req := range reqs {
		for name := range req {
			if scheme, ok := all[name]; ok {
				out[name] = scheme
			}
		}
	}
	return out
}

// jsonPointerEscape escapes "~" and "/" per RFC 6901 for use inside a JSON
// Pointer token.
func jsonPointerEscape(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	s = strings.ReplaceAll(s, "/", "~1")
	return s
}

// BasePath returns the normalized base path.
func (api *API) BasePath() string { return api.basePath }

// Consumes returns the document-level consumes list.
func (api *API) Consumes() []string { return api.consumes }

// Produces returns the document-level produces list.
func (api *API) Produces() []string { return api.produces }

// Security returns the document-level security requirements.
func (api *API) Security() []document.SecurityRequirement { return api.security }

// GetPath returns the Path registered for the given template.
func (api *API) GetPath(template string) (*Path, bool) {
	p, ok := api.pathsByTemplate[template]
	return p, ok
}

// GetPaths returns every Path, in sorted-template order.
func (api *API) GetPaths() []*Path { return api.paths }

// GetOperations returns every Operation in the API, optionally filtered to
// a single path template when path is non-empty.
func (api *API) GetOperations(path string) []*Operation {
	var out []*Operation
	for _, p := range api.paths {
		if path != "" && p.template != path {
			continue
		}
		out = append(out, p.GetOperations()...)
	}
	return sortOperationsByTag(out)
}

// GetOperationsByTag flattens GetOperationsByTag across every Path — a
// convenience not named at the Path level alone in the original
// distillation but implied by the exposed `getOperationsByTag(tag?)`
// consumer surface.
func (api *API) GetOperationsByTag(tag string) []*Operation {
	var out []*Operation
	for _, p := range api.paths {
		out = append(out, p.GetOperationsByTag(tag)...)
	}
	return sortOperationsByTag(out)
}

// GetOperation implements the Dispatcher (§4.J): test each Path's matcher
// against url until one matches, then return the Operation keyed by the
// lowercased method. Returns false if no path matches, or if the matched
// path's operation map lacks the method.
func (api *API) GetOperation(url, method string) (*Operation, bool) {
	prefixedTemplate, _, found := api.matcherSet.Match(url)
	if !found {
		return nil, false
	}
	path, ok := api.pathsByPrefixed[prefixedTemplate]
	if !ok {
		return nil, false
	}
	return path.GetOperation(strings.ToLower(method))
}

// GetOperationForRequest is the request-shaped overload of GetOperation:
// it reads method and url from req.
func (api *API) GetOperationForRequest(req Request) (*Operation, bool) {
	return api.GetOperation(req.URL(), req.Method())
}
