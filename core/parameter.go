package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-oas2/oas2validate/document"
)

// Parameter is the runtime model of a single declared parameter (§3/§4.E).
// It holds a borrowed reference to its owning Operation rather than an
// owning one, per §9's cyclic-back-reference design note.
type Parameter struct {
	owner      *Operation
	ptr        string
	def        *document.Parameter
	schema     *coercionSchema
	bodySchema *document.Schema
	valSchema  *document.Schema // JSON-Schema-shaped view of a non-body parameter, for the schema validator adapter
}

// Name is the parameter's declared name.
func (p *Parameter) Name() string { return p.def.Name }

// In is the parameter's location: body, formData, query, header, or path.
func (p *Parameter) In() string { return p.def.In }

// Required reports the parameter's required flag. Path parameters are
// always required (§3 invariant).
func (p *Parameter) Required() bool {
	return p.def.In == "path" || p.def.Required
}

// Pointer is this parameter's JSON Pointer into the source document.
func (p *Parameter) Pointer() string { return p.ptr }

// Definition returns the raw parameter definition, per §9's "extra
// properties" design note: the model's own surface stays limited to the
// documented attributes, and callers needing anything else read the raw
// tree.
func (p *Parameter) Definition() *document.Parameter { return p.def }

// Schema returns the effective schema used for validation: the declared
// schema of a body parameter, or the inlined
// {type,format,items,...} shape for everything else.
func (p *Parameter) Schema() any {
	if p.def.In == "body" {
		return p.bodySchema
	}
	return p.valSchema
}

func newParameter(owner *Operation, ptr string, def *document.Parameter) *Parameter {
	p := &Parameter{owner: owner, ptr: ptr, def: def}
	if def.In == "body" {
		p.bodySchema = def.Schema
	} else {
		p.schema = coercionSchemaFromParameter(def)
		p.valSchema = validationSchemaFromParameter(def)
	}
	return p
}

// validationSchemaFromParameter extracts the {type, format, items, ...}
// shape of a non-body parameter as a genuine JSON Schema document — unlike
// the parameter object itself, which carries Swagger-only fields like
// "required" as a bool rather than the JSON Schema array keyword of the
// same name (§3's "effective schema... extracted from the parameter
// object for non-body parameters").
func validationSchemaFromParameter(def *document.Parameter) *document.Schema {
	return &document.Schema{
		Type:             def.Type,
		Format:           def.Format,
		Items:            itemsToSchema(def.Items),
		Enum:             def.Enum,
		MultipleOf:       def.MultipleOf,
		Maximum:          def.Maximum,
		ExclusiveMaximum: def.ExclusiveMaximum,
		Minimum:          def.Minimum,
		ExclusiveMinimum: def.ExclusiveMinimum,
		MaxLength:        def.MaxLength,
		MinLength:        def.MinLength,
		Pattern:          def.Pattern,
		MaxItems:         def.MaxItems,
		MinItems:         def.MinItems,
		UniqueItems:      def.UniqueItems,
	}
}

// itemsToSchema converts a recursive Items descriptor to its Schema
// equivalent for the same reason as validationSchemaFromParameter.
func itemsToSchema(items *document.Items) *document.Schema {
	if items == nil {
		return nil
	}
	return &document.Schema{
		Type:             items.Type,
		Format:           items.Format,
		Items:            itemsToSchema(items.Items),
		Enum:             items.Enum,
		MultipleOf:       items.MultipleOf,
		Maximum:          items.Maximum,
		ExclusiveMaximum: items.ExclusiveMaximum,
		Minimum:          items.Minimum,
		ExclusiveMinimum: items.ExclusiveMinimum,
		MaxLength:        items.MaxLength,
		MinLength:        items.MinLength,
		Pattern:          items.Pattern,
		MaxItems:         items.MaxItems,
		MinItems:         items.MinItems,
		UniqueItems:      items.UniqueItems,
	}
}

func coercionSchemaFromParameter(def *document.Parameter) *coercionSchema {
	cs := &coercionSchema{
		Type:             def.Type,
		Format:           def.Format,
		CollectionFormat: def.CollectionFormat,
		Default:          def.Default,
	}
	if def.Items != nil {
		cs.Items = coercionSchemaFromItems(def.Items)
	}
	return cs
}

func coercionSchemaFromItems(items *document.Items) *coercionSchema {
	if items == nil {
		return nil
	}
	cs := &coercionSchema{
		Type:             items.Type,
		Format:           items.Format,
		CollectionFormat: items.CollectionFormat,
		Default:          items.Default,
	}
	if items.Items != nil {
		cs.Items = coercionSchemaFromItems(items.Items)
	}
	return cs
}

// ParameterValue is the product of running a Parameter against a request
// (§3 ParameterValue / §4.E). It is produced on demand and never stored.
type ParameterValue struct {
	Param   *Parameter
	Raw     any
	HasRaw  bool
	Value   any
	Valid   bool
	Issues  []Issue
}

// getValue implements §4.E: read the raw value for p.In(), coerce it, and
// run schema validation when required or present.
func (p *Parameter) getValue(req Request, validator SchemaValidator) *ParameterValue {
	raw, hasRaw := p.readRaw(req)

	pv := &ParameterValue{Param: p, Raw: raw, HasRaw: hasRaw, Valid: true}

	if p.def.In == "body" {
		if !hasRaw {
			if p.Required() {
				pv.Valid = false
				pv.Issues = append(pv.Issues, Issue{Code: CodeObjectMissingRequiredProperty, Message: "Missing required body parameter", Path: nil})
			}
			return pv
		}
		pv.Value = raw
		if validator != nil && p.bodySchema != nil {
			issues, err := validator.Validate(p.bodySchema, raw)
			if err == nil && len(issues) > 0 {
				pv.Valid = false
				pv.Issues = append(pv.Issues, issues...)
			}
		}
		return pv
	}

	var value any
	var err error

	if multi, ok := raw.([]string); ok && hasRaw {
		// collectionFormat "multi": the caller already supplied repeated
		// values, one coercion per element, no delimiter splitting (§4.D).
		items := make([]any, 0, len(multi))
		for _, v := range multi {
			iv, ierr := coerce(v, true, itemSchema(p.schema))
			if ierr != nil {
				err = ierr
				break
			}
			items = append(items, iv)
		}
		if err == nil {
			value = items
		}
	} else {
		strRaw, _ := raw.(string)
		value, err = coerce(strRaw, hasRaw, p.schema)
	}

	if err != nil {
		pv.Valid = false
		if ce, ok := err.(*coercionError); ok {
			pv.Issues = append(pv.Issues, ce.Issue(nil))
		} else {
			pv.Issues = append(pv.Issues, Issue{Code: CodeInvalidType, Message: err.Error()})
		}
		return pv
	}
	pv.Value = value

	runsValidation := p.Required() || hasRaw
	if runsValidation && validator != nil {
		issues, verr := validator.Validate(p.valSchema, jsonSchemaValue(value, p.schema))
		if verr == nil && len(issues) > 0 {
			pv.Valid = false
			pv.Issues = append(pv.Issues, issues...)
		}
	}

	return pv
}

// jsonSchemaValue converts a coerced value into the shape the JSON Schema
// adapter expects: a date/date-time parameter coerces to a time.Time for
// consumers (§4.D), but the schema engine validates JSON-decoded values, so
// it is given back its original wire-format string here instead, per the
// schema's declared format.
func jsonSchemaValue(value any, schema *coercionSchema) any {
	if schema == nil {
		return value
	}
	if t, ok := value.(time.Time); ok {
		if schema.Format == "date" {
			return t.Format("2006-01-02")
		}
		return t.Format(time.RFC3339)
	}
	if items, ok := value.([]any); ok {
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = jsonSchemaValue(item, schema.Items)
		}
		return out
	}
	return value
}

// itemSchema returns the array item schema, or nil for a non-array
// schema.
func itemSchema(schema *coercionSchema) *coercionSchema {
	if schema == nil {
		return nil
	}
	return schema.Items
}

// readRaw implements the per-location lookup rules of §4.E.
func (p *Parameter) readRaw(req Request) (any, bool) {
	switch p.def.In {
	case "body":
		return req.Body(), req.Body() != nil
	case "formData":
		if p.def.Type == "file" {
			f, ok := req.File(p.def.Name)
			return f, ok
		}
		body, _ := req.Body().(map[string]any)
		if body == nil {
			return nil, false
		}
		v, ok := body[p.def.Name]
		return v, ok
	case "query":
		values := req.Query()
		if values == nil {
			return nil, false
		}
		vs, ok := values[p.def.Name]
		if !ok || len(vs) == 0 {
			return nil, false
		}
		if p.def.CollectionFormat == "multi" {
			return vs, true
		}
		return vs[0], true
	case "header":
		v, ok := req.Header(strings.ToLower(p.def.Name))
		return v, ok
	case "path":
		matched, params, found := p.owner.pathMatch(req.URL())
		if !found || !matched {
			return nil, false
		}
		v, ok := params[p.def.Name]
		return v, ok
	default:
		return nil, false
	}
}

// envelope wraps pv into a ParameterError when invalid, matching §4.G's
// "single envelope error per failing parameter" rule.
func (pv *ParameterValue) envelope() *ParameterError {
	if pv.Valid {
		return nil
	}
	issues := pv.Issues
	if len(issues) == 0 {
		issues = []Issue{{Code: CodeInvalidType, Message: "invalid parameter"}}
	}
	return &ParameterError{
		Code:    CodeInvalidRequestParameter,
		Message: fmt.Sprintf("Invalid parameter %q (in: %s)", pv.Param.Name(), pv.Param.In()),
		Name:    pv.Param.Name(),
		In:      pv.Param.In(),
		Errors:  issues,
	}
}
