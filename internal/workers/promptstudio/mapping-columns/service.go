package mappingcolumns

import (
	"context"
	stderrors "errors"
	"fmt"

	"promptstudio-workers/internal/common/errors"
	"promptstudio-workers/internal/common/logger"
	"promptstudio-workers/internal/common/metrics"
	"promptstudio-workers/internal/common/selection"
)

type Service struct {
	config *Config
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
	}
}

// Execute derives the input fields of the selected deployment from the
// request schema carried in the recipe value.
func (s *Service) Execute(_ context.Context, input *Input) (*Output, error) {
	res := selection.DecodeResult(input.RecipeValue)
	metrics.SelectionDecodes.WithLabelValues(res.Status.String()).Inc()
	if res.Status == selection.StatusMalformed {
		s.logger.Warn("Recipe selection could not be decoded, treating it as empty", map[string]interface{}{
			"error":        fmt.Sprint(res.Err),
			"deploymentId": input.DeploymentID,
		})
	}

	fields, err := selection.DeriveGroupFields(res.Group, input.DeploymentID)
	if err != nil {
		if stderrors.Is(err, selection.ErrNoSchema) {
			return nil, errors.NewSchemaNotFoundError(TaskType, input.DeploymentID, err)
		}
		return nil, err
	}

	s.logger.Debug("Input fields derived", map[string]interface{}{
		"deploymentId": input.DeploymentID,
		"fields":       len(fields),
	})
	return &Output{Fields: fields}, nil
}
