package mappingcolumns

import "promptstudio-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"deploymentId"},
		Properties: map[string]validation.Property{
			"recipeId": {
				Description: "Encoded recipe group, or a resource locator whose value is one",
				AnyOf: []validation.Property{
					{Type: "string"},
					{
						Type: "object",
						Properties: map[string]validation.Property{
							"mode":  {Type: "string"},
							"value": {Type: "string"},
						},
					},
				},
			},
			"deploymentId": {
				Type:        "string",
				Description: "Deployment selected from the recipe",
				MinLength:   validation.IntPtr(1),
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	field := func(desc string) validation.Property {
		return validation.Property{Type: "boolean", Description: desc}
	}
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"fields"},
		Properties: map[string]validation.Property{
			"fields": {
				Type:        "array",
				Description: "One descriptor per top-level key of the request schema",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"id", "displayName", "required", "type"},
					Properties: map[string]validation.Property{
						"id":               {Type: "string"},
						"displayName":      {Type: "string"},
						"type":             {Type: "string", Enum: []string{"string"}},
						"required":         field("Always true"),
						"defaultMatch":     field("Always true"),
						"display":          field("Always true"),
						"canBeUsedToMatch": field("Always true"),
						"readOnly":         field("Always false"),
						"removed":          field("Always false"),
					},
				},
			},
		},
		AdditionalProperties: false,
	}
}
