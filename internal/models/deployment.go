// internal/models/deployment.go
package models

import "encoding/json"

// Deployment is one deployed, executable version of a recipe as returned by
// GET /deployments. It is never mutated locally.
type Deployment struct {
	DeploymentID string  `json:"deployment_id"`
	CreatedAt    string  `json:"created_at"`
	RecipeID     string  `json:"recipe_id"`
	RecipeName   string  `json:"recipe_name"`
	Schemas      Schemas `json:"schemas"`
}

// Schemas holds the request/response schema objects of a deployment. They are
// kept as raw JSON so key order and nested content survive re-encoding.
type Schemas struct {
	RequestSchema  json.RawMessage `json:"request_schema,omitempty"`
	ResponseSchema json.RawMessage `json:"response_schema,omitempty"`
}

type DeploymentList struct {
	Deployments []Deployment `json:"deployments"`
}

// RunRequest is the body of POST /instructions/{deployment_id}/run.
type RunRequest struct {
	DeploymentID string                 `json:"-"`
	Input        map[string]interface{} `json:"input"`
}
