package searchrecipes

import (
	"context"
	"fmt"

	"promptstudio-workers/internal/common/errors"
	"promptstudio-workers/internal/common/logger"
	"promptstudio-workers/internal/common/promptstudio"
	"promptstudio-workers/internal/common/selection"
	"promptstudio-workers/internal/models"
)

type Service struct {
	config *Config
	logger logger.Logger
	client DeploymentLister
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

// Execute lists every deployment and returns one option per recipe, filtered
// by input.Filter.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	deployments, err := s.client.ListDeployments(ctx)
	if err != nil {
		if promptstudio.IsAuthError(err) {
			return nil, errors.NewCredentialsInvalidError(err)
		}
		return nil, errors.NewDeploymentListFailedError(err)
	}

	recipes, err := selection.Aggregate(deployments)
	if err != nil {
		stdErr := errors.NewDeploymentListFailedError(fmt.Errorf("unusable deployment list: %w", err))
		stdErr.Retryable = false
		return nil, stdErr
	}

	matched := selection.FilterOptions(recipes, input.Filter)

	results := make([]models.Option, 0, len(matched))
	for _, r := range matched {
		results = append(results, r.Option)
	}

	s.logger.Info("Recipes listed", map[string]interface{}{
		"deployments": len(deployments),
		"recipes":     len(recipes),
		"matched":     len(results),
		"filter":      input.Filter,
	})

	return &Output{Results: results}, nil
}

func (s *Service) TestConnection(ctx context.Context) error {
	return s.client.TestConnection(ctx)
}
