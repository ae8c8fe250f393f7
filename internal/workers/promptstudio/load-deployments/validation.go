package loaddeployments

import "promptstudio-workers/internal/common/validation"

// recipeIDProperty accepts the encoded group directly or wrapped in a
// {mode, value} locator.
func recipeIDProperty() validation.Property {
	return validation.Property{
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
	}
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"recipeId": recipeIDProperty(),
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"deploymentOptions"},
		Properties: map[string]validation.Property{
			"deploymentOptions": {
				Type:        "array",
				Description: "Deployments of the recipe, most recent label first",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"name", "value"},
					Properties: map[string]validation.Property{
						"name":  {Type: "string", Description: "<created_at> - <deployment_id>"},
						"value": {Type: "string", Description: "Deployment id"},
					},
				},
			},
		},
		AdditionalProperties: false,
	}
}
