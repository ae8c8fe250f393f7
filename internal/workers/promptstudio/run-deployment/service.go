package rundeployment

import (
	"context"

	"promptstudio-workers/internal/common/errors"
	"promptstudio-workers/internal/common/logger"
	"promptstudio-workers/internal/common/promptstudio"
	"promptstudio-workers/internal/models"
)

type Service struct {
	config *Config
	logger logger.Logger
	client DeploymentRunner
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	client := deps.Client
	if client == nil {
		client = promptstudio.NewClient(config.BaseURL, config.APIKey, config.APITimeout)
	}

	return &Service{
		config: config,
		logger: deps.Logger,
		client: client,
	}
}

// Execute submits one run request per item. The deployment and inputs are
// taken from the first item and reused for the whole batch. Requests are sent
// one after another and the first failure aborts the batch.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.Items) == 0 {
		return nil, errors.NewValidationFailedError("at least one run item with a deploymentId is required")
	}

	first := input.Items[0]
	if len(input.Items) > 1 {
		s.logger.Debug("Reusing first item parameters for the batch", map[string]interface{}{
			"deploymentId": first.DeploymentID,
			"items":        len(input.Items),
		})
	}

	results := make([]map[string]interface{}, 0, len(input.Items))
	for i := range input.Items {
		response, err := s.client.RunDeployment(ctx, models.RunRequest{
			DeploymentID: first.DeploymentID,
			Input:        first.Inputs,
		})
		if err != nil {
			s.logger.Error("Deployment run failed", map[string]interface{}{
				"deploymentId": first.DeploymentID,
				"item":         i,
				"error":        err.Error(),
			})
			if promptstudio.IsAuthError(err) {
				return nil, errors.NewCredentialsInvalidError(err)
			}
			return nil, errors.NewDeploymentRunFailedError(first.DeploymentID, err)
		}
		results = append(results, models.RunResult(response))
	}

	s.logger.Info("Deployment runs completed", map[string]interface{}{
		"deploymentId": first.DeploymentID,
		"runs":         len(results),
	})
	return &Output{RunResults: results}, nil
}

func (s *Service) TestConnection(ctx context.Context) error {
	return s.client.TestConnection(ctx)
}
