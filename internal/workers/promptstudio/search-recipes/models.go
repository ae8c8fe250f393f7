package searchrecipes

import (
	"context"

	"promptstudio-workers/internal/common/logger"
	"promptstudio-workers/internal/models"
)

type Input struct {
	Filter string `json:"filter,omitempty"`
}

type Output struct {
	Results []models.Option `json:"results"`
}

// DeploymentLister is the part of the Prompt Studio client this worker needs.
type DeploymentLister interface {
	ListDeployments(ctx context.Context) ([]models.Deployment, error)
	TestConnection(ctx context.Context) error
}

type ServiceDependencies struct {
	Logger logger.Logger
	Client DeploymentLister
}
