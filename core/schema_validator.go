package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaValidator is the §4.B adapter contract: validate a JSON-decoded
// value against a schema (itself a JSON-decodable tree) and return a
// neutral, ordered list of Issue records. Implementations are injected
// into the core rather than baked in, per §9's "validator pluggability"
// design note — a different Swagger/OpenAPI dialect can supply its own.
type SchemaValidator interface {
	Validate(schema any, value any) ([]Issue, error)
	RegisterFormat(name string, predicate func(value any) bool)
}

// JSONSchemaValidator is the default SchemaValidator, backed by
// github.com/santhosh-tekuri/jsonschema/v6. Each distinct schema is
// compiled once and cached by its serialized form (§4.B/§5: the validator
// instance is shared after construction; the mutable state is the cache,
// guarded by sync.Map, plus the format registry and the resource-id
// counter, both guarded by mu).
type JSONSchemaValidator struct {
	mu      sync.Mutex
	cache   sync.Map // string (schema JSON) -> *jsonschema.Schema
	formats map[string]func(value any) bool
	seq     int
}

// NewJSONSchemaValidator constructs a JSONSchemaValidator with an empty
// format registry.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		formats: make(map[string]func(value any) bool),
	}
}

// RegisterFormat registers a custom format predicate under name. Must be
// called before any Validate call that depends on it; registrations are
// applied to the compiler used for schemas compiled afterward.
func (v *JSONSchemaValidator) RegisterFormat(name string, predicate func(value any) bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.formats[name] = predicate
}

// Validate implements SchemaValidator. schema is typically a
// *document.Schema or a map[string]any already shaped like one; value is
// the already-coerced request/response value to check.
func (v *JSONSchemaValidator) Validate(schema any, value any) ([]Issue, error) {
	compiled, err := v.compile(schema)
	if err != nil {
		return nil, err
	}

	err = compiled.Validate(value)
	if err == nil {
		return nil, nil
	}

	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, err
	}

	var issues []Issue
	collectSchemaIssues(verr, &issues)
	return issues, nil
}

// compile marshals schema to JSON, compiles it via jsonschema/v6, and
// caches the result by the marshaled form so that repeated validations of
// the same declared schema across operations compile it at most once
// (P9).
func (v *JSONSchemaValidator) compile(schema any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	key := string(raw)

	if cached, ok := v.cache.Load(key); ok {
		return cached.(*jsonschema.Schema), nil
	}

	v.mu.Lock()
	id := fmt.Sprintf("schema-%d.json", v.seq)
	v.seq++
	formats := make(map[string]func(value any) bool, len(v.formats))
	for name, pred := range v.formats {
		formats[name] = pred
	}
	v.mu.Unlock()

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()
	for name, pred := range formats {
		compiler.RegisterFormat(&jsonschema.Format{
			Name: name,
			Validate: func(v any) error {
				if pred(v) {
					return nil
				}
				return fmt.Errorf("value does not satisfy format %q", name)
			},
		})
	}

	var schemaDoc any
	if err := json.Unmarshal(raw, &schemaDoc); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	if err := compiler.AddResource(id, schemaDoc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	compiled, err := compiler.Compile(id)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	v.cache.Store(key, compiled)
	return compiled, nil
}

// collectSchemaIssues recursively flattens a *jsonschema.ValidationError
// tree into Issue records, preserving validator order (§4.B's
// determinism requirement). Leaf causes become individual Issues; kinds
// mentioning "required" or "type" are mapped onto this core's taxonomy
// codes, everything else keeps a schema-prefixed code derived from the
// library's own error kind.
func collectSchemaIssues(verr *jsonschema.ValidationError, out *[]Issue) {
	if verr == nil {
		return
	}

	path := append([]string{}, verr.InstanceLocation...)
	kind := strings.Join(verr.ErrorKind.KeywordPath(), "/")

	if len(verr.Causes) == 0 {
		*out = append(*out, Issue{
			Code:    codeForSchemaKind(kind),
			Message: verr.Error(),
			Path:    path,
		})
	}

	for _, cause := range verr.Causes {
		collectSchemaIssues(cause, out)
	}
}

// codeForSchemaKind maps a jsonschema/v6 ErrorKind's keyword path onto this
// core's error taxonomy (§7), falling back to a schema-prefixed code for
// constraint kinds that have no direct equivalent.
func codeForSchemaKind(kind string) string {
	lower := strings.ToLower(kind)
	switch {
	case strings.Contains(lower, "required"):
		return CodeObjectMissingRequiredProperty
	case strings.Contains(lower, "type"):
		return CodeInvalidType
	case strings.Contains(lower, "minimum"):
		return "SCHEMA_MINIMUM"
	case strings.Contains(lower, "maximum"):
		return "SCHEMA_MAXIMUM"
	case strings.Contains(lower, "minlength"):
		return "SCHEMA_MIN_LENGTH"
	case strings.Contains(lower, "maxlength"):
		return "SCHEMA_MAX_LENGTH"
	case strings.Contains(lower, "pattern"):
		return "SCHEMA_PATTERN"
	case strings.Contains(lower, "enum"):
		return "SCHEMA_ENUM"
	case strings.Contains(lower, "minitems"):
		return "SCHEMA_MIN_ITEMS"
	case strings.Contains(lower, "maxitems"):
		return "SCHEMA_MAX_ITEMS"
	case strings.Contains(lower, "uniqueitems"):
		return "SCHEMA_UNIQUE_ITEMS"
	case strings.Contains(lower, "additionalproperties"):
		return "SCHEMA_ADDITIONAL_PROPERTIES"
	default:
		return "SCHEMA_" + strings.ToUpper(kind)
	}
}
