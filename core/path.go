package core

import (
	"github.com/go-oas2/oas2validate/document"
)

// Path groups the operations declared under a single URL template (§3/§4.H).
type Path struct {
	api        *API
	template   string
	ptr        string
	matcher    *PathMatcher
	parameters []*document.Parameter
	operations map[string]*Operation // lowercase method -> Operation
}

// Template is the original path template (e.g. "/pet/{petId}").
func (p *Path) Template() string { return p.template }

// Pointer is this path's JSON Pointer.
func (p *Path) Pointer() string { return p.ptr }

// Matcher returns the compiled PathMatcher.
func (p *Path) Matcher() *PathMatcher { return p.matcher }

// Parameters returns the path-level parameter definitions.
func (p *Path) Parameters() []*document.Parameter { return p.parameters }

// GetOperation returns the Operation declared for the given lowercase
// method, if any.
func (p *Path) GetOperation(method string) (*Operation, bool) {
	op, ok := p.operations[method]
	return op, ok
}

// GetOperations returns every Operation under this path.
func (p *Path) GetOperations() []*Operation {
	out := make([]*Operation, 0, len(p.operations))
	for _, op := range p.operations {
		out = append(out, op)
	}
	return sortOperationsByTag(out)
}

// GetOperationsByTag filters this path's operations to those whose tags
// list contains tag (§4.H). An empty tag returns every operation,
// matching the optional "tag?" consumer surface (§6).
func (p *Path) GetOperationsByTag(tag string) []*Operation {
	if tag == "" {
		return p.GetOperations()
	}
	var out []*Operation
	for _, op := range p.operations {
		for _, t := range op.Tags() {
			if t == tag {
				out = append(out, op)
				break
			}
		}
	}
	return sortOperationsByTag(out)
}
