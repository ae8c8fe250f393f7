package searchrecipes

import "promptstudio-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"filter": {
				Type:        "string",
				Description: "Case-insensitive substring matched against recipe names",
				MaxLength:   validation.IntPtr(200),
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"results"},
		Properties: map[string]validation.Property{
			"results": {
				Type:        "array",
				Description: "One option per recipe; value is the encoded recipe group",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"name", "value"},
					Properties: map[string]validation.Property{
						"name":  {Type: "string", Description: "Recipe name"},
						"value": {Type: "string", Description: "Encoded recipe group"},
					},
				},
			},
		},
		AdditionalProperties: false,
	}
}
