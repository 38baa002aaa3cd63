package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-oas2/oas2validate/document"
)

// newPetstoreDoc builds the Petstore-shaped fixture referenced throughout
// §8's concrete scenarios.
func newPetstoreDoc() *document.Document {
	petSchema := &document.Schema{
		Type:     "object",
		Required: []string{"photoUrls", "name"},
		Properties: map[string]*document.Schema{
			"name":      {Type: "string"},
			"photoUrls": {Type: "array", Items: &document.Schema{Type: "string"}},
		},
	}

	return &document.Document{
		Swagger:  "2.0",
		BasePath: "/v2",
		Consumes: []string{"application/json"},
		Produces: []string{"application/json"},
		SecurityDefinitions: map[string]*document.SecurityScheme{
			"petstore_auth": {Type: "oauth2", Flow: "implicit", AuthorizationURL: "https://example.com/oauth/authorize", Scopes: map[string]string{
				"read:pets":  "read your pets",
				"write:pets": "modify pets",
			}},
		},
		Paths: map[string]*document.PathItem{
			"/pet": {
				Post: &document.Operation{
					OperationID: "addPet",
					Consumes:    []string{"application/json", "application/xml"},
					Parameters: []*document.Parameter{
						{Name: "body", In: "body", Required: true, Schema: petSchema},
					},
					Responses: map[string]*document.Response{},
				},
			},
			"/pet/{petId}": {
				Parameters: []*document.Parameter{
					{Name: "petId", In: "path", Required: true, Type: "integer"},
				},
				Get: &document.Operation{
					OperationID: "getPetById",
					Security: []document.SecurityRequirement{
						{"petstore_auth": []string{"read:pets", "write:pets"}},
					},
					Responses: map[string]*document.Response{
						"200":     {Description: "ok"},
						"default": {Description: "unexpected error"},
					},
				},
			},
			"/pet/{petId}/uploadImage": {
				Parameters: []*document.Parameter{
					{Name: "petId", In: "path", Required: true, Type: "integer"},
				},
				Post: &document.Operation{
					OperationID: "uploadFile",
					Consumes:    []string{"multipart/form-data"},
					Parameters: []*document.Parameter{
						{Name: "file", In: "formData", Type: "file"},
					},
					Responses: map[string]*document.Response{
						"200": {Description: "ok"},
					},
				},
			},
		},
	}
}

func buildPetstoreAPI(t *testing.T) *API {
	t.Helper()
	api, err := NewAPI(newPetstoreDoc(), NewJSONSchemaValidator())
	require.NoError(t, err)
	return api
}

// Scenario 1.
func TestScenarioGetPetByIDSecurityAndPointer(t *testing.T) {
	api := buildPetstoreAPI(t)

	op, ok := api.GetOperation("/v2/pet/42", "GET")
	require.True(t, ok)

	assert.Equal(t, []document.SecurityRequirement{{"petstore_auth": []string{"read:pets", "write:pets"}}}, op.Security())
	assert.Equal(t, "#/paths/~1pet~1{petId}/get", op.Pointer())
}

// Scenario 2 & 3.
func TestScenarioAddPetInvalidContentType(t *testing.T) {
	api := buildPetstoreAPI(t)
	op, ok := api.GetOperation("/v2/pet", "POST")
	require.True(t, ok)

	req := &SimpleRequest{
		RequestURL:    "/v2/pet",
		RequestMethod: "POST",
		Headers:       map[string]string{"content-type": "application/x-yaml"},
		RequestBody:   map[string]any{"name": "x", "photoUrls": []any{}},
	}
	result := op.ValidateRequest(req)
	require.Len(t, result.Errors, 1)
	issue, ok := result.Errors[0].(Issue)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidContentType, issue.Code)
	assert.Contains(t, issue.Message, "application/x-yaml")

	req2 := &SimpleRequest{
		RequestURL:    "/v2/pet",
		RequestMethod: "POST",
		RequestBody:   map[string]any{"name": "x", "photoUrls": []any{}},
	}
	result2 := op.ValidateRequest(req2)
	require.Len(t, result2.Errors, 1)
	issue2 := result2.Errors[0].(Issue)
	assert.Contains(t, issue2.Message, "application/octet-stream")
}

// Scenario 4.
func TestScenarioAddPetMissingRequiredBodyFields(t *testing.T) {
	api := buildPetstoreAPI(t)
	op, ok := api.GetOperation("/v2/pet", "POST")
	require.True(t, ok)

	req := &SimpleRequest{
		RequestURL:    "/v2/pet",
		RequestMethod: "POST",
		Headers:       map[string]string{"content-type": "application/json"},
		RequestBody:   map[string]any{},
	}
	result := op.ValidateRequest(req)
	require.Len(t, result.Errors, 1)

	envelope, ok := result.Errors[0].(*ParameterError)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidRequestParameter, envelope.Code)
	assert.Equal(t, "body", envelope.In)
	assert.Equal(t, "body", envelope.Name)
	require.NotEmpty(t, envelope.Errors)
	for _, issue := range envelope.Errors {
		assert.Equal(t, CodeObjectMissingRequiredProperty, issue.Code)
	}
}

// Scenario 5.
func TestScenarioUploadImageInvalidPetIDType(t *testing.T) {
	api := buildPetstoreAPI(t)
	op, ok := api.GetOperation("/v2/pet/notANumber/uploadImage", "POST")
	require.True(t, ok)

	req := &SimpleRequest{
		RequestURL:    "/v2/pet/notANumber/uploadImage",
		RequestMethod: "POST",
		Headers:       map[string]string{"content-type": "multipart/form-data"},
		RequestBody:   map[string]any{},
	}
	result := op.ValidateRequest(req)
	require.Len(t, result.Errors, 1)

	envelope, ok := result.Errors[0].(*ParameterError)
	require.True(t, ok)
	assert.Equal(t, "path", envelope.In)
	assert.Equal(t, "petId", envelope.Name)
	require.Len(t, envelope.Errors, 1)
	assert.Equal(t, CodeInvalidType, envelope.Errors[0].Code)
	assert.Equal(t, "Expected type integer but found type string", envelope.Errors[0].Message)
}

// Scenario 6.
func TestScenarioValidateResponseCodeResolution(t *testing.T) {
	api := buildPetstoreAPI(t)
	op, ok := api.GetOperation("/v2/pet", "POST")
	require.True(t, ok)

	result := op.ValidateResponse("", nil, nil, "")
	require.Len(t, result.Errors, 1)
	issue := result.Errors[0].(Issue)
	assert.Equal(t, CodeInvalidResponseCode, issue.Code)
	assert.Equal(t, "This operation does not have a defined 'default' response code", issue.Message)

	result2 := op.ValidateResponse("201", nil, nil, "")
	require.Len(t, result2.Errors, 1)
	issue2 := result2.Errors[0].(Issue)
	assert.Equal(t, "This operation does not have a '201' or 'default' response code", issue2.Message)

	opWithDefault, ok := api.GetOperation("/v2/pet/42", "GET")
	require.True(t, ok)
	result3 := opWithDefault.ValidateResponse("201", map[string]string{}, nil, "")
	assert.Empty(t, result3.Errors)
}

// P2: effective parameters are the union of path-level and operation-level
// parameters deduplicated on (name, in), with operation precedence.
func TestOperationParameterMerging(t *testing.T) {
	api := buildPetstoreAPI(t)
	op, ok := api.GetOperation("/v2/pet/42", "GET")
	require.True(t, ok)

	params := op.GetParameters()
	require.Len(t, params, 1)
	assert.Equal(t, "petId", params[0].Name())
	assert.Equal(t, "path", params[0].In())
	assert.True(t, params[0].Required())
}

// P3: Operation.Consumes falls back to the document-level list when the
// operation declares none.
func TestOperationConsumesFallback(t *testing.T) {
	api := buildPetstoreAPI(t)

	op, ok := api.GetOperation("/v2/pet/42", "GET")
	require.True(t, ok)
	assert.Equal(t, []string{"application/json"}, op.Consumes())

	uploadOp, ok := api.GetOperation("/v2/pet/42/uploadImage", "POST")
	require.True(t, ok)
	assert.Equal(t, []string{"multipart/form-data"}, uploadOp.Consumes())
}

// P6: a 204 response never emits a Content-Type or body error.
func TestValidateResponse204SkipsContentTypeAndBody(t *testing.T) {
	resp := &Response{
		def: &document.Response{Schema: &document.Schema{Type: "object"}},
	}
	resp.owner = &Operation{produces: []string{"application/json"}}

	result := resp.ValidateResponse("204", map[string]string{"content-type": "text/plain"}, "not valid json", "", NewJSONSchemaValidator())
	assert.Empty(t, result.Errors)
}

func TestBasePathNormalization(t *testing.T) {
	assert.Equal(t, "", normalizeBasePath(""))
	assert.Equal(t, "", normalizeBasePath("/"))
	assert.Equal(t, "/v2", normalizeBasePath("/v2"))
	assert.Equal(t, "/v2", normalizeBasePath("/v2/"))
}
