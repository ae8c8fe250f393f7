package loaddeployments

import (
	"context"
	"fmt"

	"promptstudio-workers/internal/common/logger"
	"promptstudio-workers/internal/common/metrics"
	"promptstudio-workers/internal/common/selection"
)

type Service struct {
	config    *Config
	logger    logger.Logger
	formatter selection.TimestampFormatter
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	formatter := deps.Formatter
	if formatter == nil {
		formatter = selection.FormatTimestamp
	}
	return &Service{
		config:    config,
		logger:    deps.Logger,
		formatter: formatter,
	}
}

// Execute lists the deployments carried by the selected recipe. A missing or
// foreign recipe value yields an empty list.
func (s *Service) Execute(_ context.Context, input *Input) (*Output, error) {
	res := selection.DecodeResult(input.RecipeValue)
	metrics.SelectionDecodes.WithLabelValues(res.Status.String()).Inc()
	if res.Status == selection.StatusMalformed {
		s.logger.Warn("Recipe selection could not be decoded, treating it as empty", map[string]interface{}{
			"error": fmt.Sprint(res.Err),
		})
	}

	options := selection.ResolveGroup(res.Group, s.formatter)

	s.logger.Debug("Deployments resolved", map[string]interface{}{
		"deployments": len(options),
		"status":      res.Status.String(),
	})
	return &Output{DeploymentOptions: options}, nil
}
