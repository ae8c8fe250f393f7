package mappingcolumns

import (
	"promptstudio-workers/internal/common/logger"
	"promptstudio-workers/internal/models"
)

type Input struct {
	RecipeValue  string
	DeploymentID string
}

type Output struct {
	Fields []models.FieldDescriptor `json:"fields"`
}

type ServiceDependencies struct {
	Logger logger.Logger
}
