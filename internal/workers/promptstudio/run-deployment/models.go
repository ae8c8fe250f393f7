package rundeployment

import (
	"context"

	"promptstudio-workers/internal/common/logger"
	"promptstudio-workers/internal/models"
)

// Input is one batch. Items[0] carries the run parameters; later items only
// count how many times the run is repeated and may be zero values.
type Input struct {
	Items []models.RunItem `json:"items"`
}

type Output struct {
	RunResults []map[string]interface{} `json:"runResults"`
}

// DeploymentRunner is the part of the Prompt Studio client this worker needs.
type DeploymentRunner interface {
	RunDeployment(ctx context.Context, req models.RunRequest) (interface{}, error)
	TestConnection(ctx context.Context) error
}

type ServiceDependencies struct {
	Logger logger.Logger
	Client DeploymentRunner
}
