package models

import "fmt"

// RecipeValue extracts the encoded recipe group from a job variable that is
// either a plain string or a resource locator. Anything else yields "".
func RecipeValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]interface{}:
		if s, ok := t["value"].(string); ok {
			return s
		}
	}
	return ""
}

// InputMapping extracts the field mapping from a job variable that is either
// a plain object or a resource mapper. A missing or null mapping is nil.
func InputMapping(v interface{}) (map[string]interface{}, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("inputs must be an object, got %T", v)
	}

	if _, isMapper := m["mappingMode"]; !isMapper {
		return m, nil
	}
	switch value := m["value"].(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		return value, nil
	default:
		return nil, fmt.Errorf("inputs.value must be an object, got %T", value)
	}
}

// RunResult normalizes a run response into one output record: objects are
// kept as-is, any other JSON value is wrapped as {"data": value}.
func RunResult(response interface{}) map[string]interface{} {
	if obj, ok := response.(map[string]interface{}); ok {
		return obj
	}
	if response == nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}{"data": response}
}

// RunItem is one execution request: the deployment to run and its inputs.
type RunItem struct {
	DeploymentID string                 `json:"deploymentId"`
	Inputs       map[string]interface{} `json:"inputs,omitempty"`
}
