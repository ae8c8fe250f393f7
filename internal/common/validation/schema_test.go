package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSchema() JSONSchema {
	return JSONSchema{
		Type:     "object",
		Required: []string{"deploymentId"},
		Properties: map[string]Property{
			"deploymentId": {Type: "string", MinLength: IntPtr(1)},
			"inputs":       {Type: "object"},
			"recipeId": {
				AnyOf: []Property{
					{Type: "string"},
					{Type: "object", Required: []string{"value"}},
				},
			},
			"items": {
				Type:     "array",
				MinItems: IntPtr(1),
				Items: &Property{
					Type:     "object",
					Required: []string{"deploymentId"},
				},
			},
		},
		AdditionalProperties: false,
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name      string
		input     map[string]interface{}
		valid     bool
		field     string
		errorCode string
	}{
		{
			name:  "valid minimal",
			input: map[string]interface{}{"deploymentId": "d1"},
			valid: true,
		},
		{
			name: "recipe id as resource locator",
			input: map[string]interface{}{
				"deploymentId": "d1",
				"recipeId":     map[string]interface{}{"mode": "list", "value": "A"},
			},
			valid: true,
		},
		{
			name:      "missing required field",
			input:     map[string]interface{}{},
			field:     "deploymentId",
			errorCode: "REQUIRED_FIELD_MISSING",
		},
		{
			name:      "empty deployment id",
			input:     map[string]interface{}{"deploymentId": ""},
			field:     "deploymentId",
			errorCode: "MIN_LENGTH_VIOLATION",
		},
		{
			name:      "wrong type",
			input:     map[string]interface{}{"deploymentId": "d1", "inputs": "nope"},
			field:     "inputs",
			errorCode: "INVALID_TYPE",
		},
		{
			name:      "extra field",
			input:     map[string]interface{}{"deploymentId": "d1", "surprise": true},
			field:     "surprise",
			errorCode: "EXTRA_FIELD",
		},
		{
			name:      "empty items",
			input:     map[string]interface{}{"deploymentId": "d1", "items": []interface{}{}},
			field:     "items",
			errorCode: "MIN_ITEMS_VIOLATION",
		},
		{
			name:      "recipe id of wrong shape",
			input:     map[string]interface{}{"deploymentId": "d1", "recipeId": 42},
			field:     "recipeId",
			errorCode: "NO_MATCHING_ALTERNATIVE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateInput(tt.input, runSchema())
			require.NotNil(t, result)
			assert.Equal(t, tt.valid, result.Valid, "errors: %v", result.GetErrorMessages())

			if !tt.valid {
				fieldErrs := result.GetErrorsForField(tt.field)
				require.NotEmpty(t, fieldErrs, "errors: %v", result.GetErrorMessages())
				assert.True(t, result.HasErrors(tt.field))
				codes := make([]string, 0, len(fieldErrs))
				for _, e := range fieldErrs {
					codes = append(codes, e.Code)
				}
				assert.Contains(t, codes, tt.errorCode)
			}
		})
	}
}

func TestValidateInput_NilInput(t *testing.T) {
	result := ValidateInput(nil, JSONSchema{Type: "object", AdditionalProperties: true})
	assert.True(t, result.Valid)
}

func TestJSONSchema_Document(t *testing.T) {
	doc, err := runSchema().Document()
	require.NoError(t, err)
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, false, doc["additionalProperties"])
	assert.Contains(t, doc["properties"], "deploymentId")
}

func TestValidateActivityNaming(t *testing.T) {
	assert.NoError(t, ValidateActivityNaming("promptstudio.deployment.run"))
	assert.Error(t, ValidateActivityNaming("promptstudio-deployment-run"))
	assert.Error(t, ValidateActivityNaming("Prompt.Studio.Run"))
}
