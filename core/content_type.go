package core

import (
	"fmt"
	"mime"
	"strings"

	"github.com/go-oas2/oas2validate/internal/httputil"
)

const defaultContentType = "application/octet-stream"

// negotiateContentType implements §4.C: match an actual media type against
// a declared set. An absent content type is treated as
// "application/octet-stream". Matching compares the type/subtype portion
// with any "; charset=..."-style parameters stripped, but an exact
// full-string match (parameters included) also counts. There is no
// wildcard matching.
func negotiateContentType(actual string, declared []string) error {
	if len(declared) == 0 {
		return nil
	}

	effective := actual
	if effective == "" {
		effective = defaultContentType
	}

	if !httputil.IsValidMediaType(effective) {
		return fmt.Errorf("Invalid Content-Type (%s): not a well-formed media type", effective)
	}

	for _, d := range declared {
		if d == effective {
			return nil
		}
	}

	effectiveBase := mediaTypeBase(effective)
	for _, d := range declared {
		if mediaTypeBase(d) == effectiveBase {
			return nil
		}
	}

	return fmt.Errorf("Invalid Content-Type (%s). These are supported: %s", effective, strings.Join(declared, ", "))
}

// mediaTypeBase returns the type/subtype portion of a media type, ignoring
// any parameters such as "; charset=utf-8". Falls back to a lowercase,
// trimmed copy of the input if it cannot be parsed as a media type.
func mediaTypeBase(mediaType string) string {
	base, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mediaType))
	}
	return base
}

// skipRequestContentTypeCheck implements the §4.C request-side skip rule:
// no check when there is no declared consumes list, or no body/formData
// parameter is present on the operation.
func skipRequestContentTypeCheck(consumes []string, hasBodyParam bool) bool {
	return len(consumes) == 0 || !hasBodyParam
}

// skipResponseContentTypeCheck implements the §4.C response-side skip
// rule: no check when the response has no schema, or the status is 204 or
// 304.
func skipResponseContentTypeCheck(hasSchema bool, statusCode string) bool {
	return !hasSchema || statusCode == "204" || statusCode == "304"
}
