package rundeployment

import "promptstudio-workers/internal/common/validation"

// inputsProperty accepts a plain field mapping or a resource mapper wrapping
// one in its value.
func inputsProperty() validation.Property {
	return validation.Property{
		Description: "Field values sent as the run input",
		AnyOf: []validation.Property{
			{Type: "null"},
			{Type: "object"},
		},
	}
}

func deploymentIDProperty() validation.Property {
	return validation.Property{
		Type:        "string",
		Description: "Deployment to run",
		MinLength:   validation.IntPtr(1),
	}
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"items": {
				Type:        "array",
				Description: "Batch of data records; deploymentId and inputs are read from the first one only",
				MinItems:    validation.IntPtr(1),
				Items:       &validation.Property{Type: "object"},
			},
			"deploymentId": deploymentIDProperty(),
			"inputs":       inputsProperty(),
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"runResults"},
		Properties: map[string]validation.Property{
			"runResults": {
				Type:        "array",
				Description: "One record per item: the run response object, or {data} for other JSON values",
				Items:       &validation.Property{Type: "object"},
			},
		},
		AdditionalProperties: false,
	}
}
