package core

import (
	"strconv"
	"strings"
	"time"
)

// coercionSchema is the minimal {type, format, items, collectionFormat}
// shape the coercer needs, satisfied by both document.Items and the
// non-body fields lifted from a document.Parameter/Header.
type coercionSchema struct {
	Type             string
	Format           string
	Items            *coercionSchema
	CollectionFormat string
	Default          any
}

// coerce implements §4.D: convert a raw wire string into a typed value per
// the declared schema. A nil schema passes the raw value through
// unchanged.
func coerce(raw string, hasRaw bool, schema *coercionSchema) (any, error) {
	if !hasRaw {
		if schema != nil && schema.Default != nil {
			return schema.Default, nil
		}
		return nil, nil
	}

	if schema == nil {
		return raw, nil
	}

	switch schema.Type {
	case "integer":
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &coercionError{code: CodeInvalidType, message: "Expected type integer but found type string"}
		}
		return v, nil
	case "number":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &coercionError{code: CodeInvalidType, message: "Expected type number but found type string"}
		}
		return v, nil
	case "boolean":
		switch strings.ToLower(raw) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return nil, &coercionError{code: CodeInvalidType, message: "Expected type boolean but found type string"}
		}
	case "string":
		if schema.Format == "date" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return nil, &coercionError{code: CodeInvalidType, message: "Expected type string with format date"}
			}
			return t, nil
		}
		if schema.Format == "date-time" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return nil, &coercionError{code: CodeInvalidType, message: "Expected type string with format date-time"}
			}
			return t, nil
		}
		return raw, nil
	case "array":
		parts := splitByCollectionFormat(raw, schema.CollectionFormat)
		out := make([]any, 0, len(parts))
		for _, part := range parts {
			v, err := coerce(part, true, schema.Items)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case "object", "file", "":
		return raw, nil
	default:
		return raw, nil
	}
}

// splitByCollectionFormat splits a raw array parameter string by the
// delimiter its collectionFormat implies. "multi" never splits: raw is
// returned as a single-element list. Repeated "multi" values are coerced
// one by one by the caller (Parameter.getValue) and do not pass through
// here.
func splitByCollectionFormat(raw, collectionFormat string) []string {
	switch collectionFormat {
	case "ssv":
		return strings.Split(raw, " ")
	case "tsv":
		return strings.Split(raw, "\t")
	case "pipes":
		return strings.Split(raw, "|")
	case "multi":
		return []string{raw}
	case "csv", "":
		return strings.Split(raw, ",")
	default:
		return strings.Split(raw, ",")
	}
}

// coercionError is the error type coerce returns; it is surfaced
// unmodified as part of a ParameterError's nested Issues.
type coercionError struct {
	code    string
	message string
}

func (e *coercionError) Error() string { return e.message }

// Issue converts a coercionError into a neutral Issue record.
func (e *coercionError) Issue(path []string) Issue {
	return Issue{Code: e.code, Message: e.message, Path: path}
}
