package loaddeployments

import (
	"promptstudio-workers/internal/common/logger"
	"promptstudio-workers/internal/common/selection"
	"promptstudio-workers/internal/models"
)

type Input struct {
	RecipeValue string
}

type Output struct {
	DeploymentOptions []models.Option `json:"deploymentOptions"`
}

type ServiceDependencies struct {
	Logger    logger.Logger
	Formatter selection.TimestampFormatter
}
