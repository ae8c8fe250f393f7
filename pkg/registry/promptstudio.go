package registry

import (
	"fmt"
	"time"

	"promptstudio-workers/internal/common/errors"
	"promptstudio-workers/internal/common/validation"
	loaddeployments "promptstudio-workers/internal/workers/promptstudio/load-deployments"
	mappingcolumns "promptstudio-workers/internal/workers/promptstudio/mapping-columns"
	rundeployment "promptstudio-workers/internal/workers/promptstudio/run-deployment"
	searchrecipes "promptstudio-workers/internal/workers/promptstudio/search-recipes"
)

const (
	RegistryVersion = "1.0.0"
	categoryName    = "promptstudio"
)

type workerSpec struct {
	id, displayName, description string
	taskType                     string
	input, output                validation.JSONSchema
	fetch                        []string
	errorCodes                   []errors.ErrorCode
	timeout                      time.Duration
	tags                         []string
}

func workerSpecs() []workerSpec {
	return []workerSpec{
		{
			id:          searchrecipes.WorkerName,
			displayName: "Search Recipes",
			description: "Lists every deployment and returns one option per recipe, optionally filtered by name",
			taskType:    searchrecipes.TaskType,
			input:       searchrecipes.GetInputSchema(),
			output:      searchrecipes.GetOutputSchema(),
			fetch:       []string{"filter"},
			errorCodes:  []errors.ErrorCode{errors.ErrCodeDeploymentListFailed, errors.ErrCodeCredentialsInvalid, errors.ErrCodeValidationFailed},
			timeout:     searchrecipes.DefaultConfig().Timeout,
			tags:        []string{"selection", "api"},
		},
		{
			id:          loaddeployments.WorkerName,
			displayName: "Load Deployments",
			description: "Lists the deployments of the selected recipe, most recent first",
			taskType:    loaddeployments.TaskType,
			input:       loaddeployments.GetInputSchema(),
			output:      loaddeployments.GetOutputSchema(),
			fetch:       []string{"recipeId"},
			errorCodes:  []errors.ErrorCode{errors.ErrCodeValidationFailed},
			timeout:     loaddeployments.DefaultConfig().Timeout,
			tags:        []string{"selection"},
		},
		{
			id:          mappingcolumns.WorkerName,
			displayName: "Map Input Columns",
			description: "Derives the input fields of the selected deployment from its request schema",
			taskType:    mappingcolumns.TaskType,
			input:       mappingcolumns.GetInputSchema(),
			output:      mappingcolumns.GetOutputSchema(),
			fetch:       []string{"recipeId", "deploymentId"},
			errorCodes:  []errors.ErrorCode{errors.ErrCodeSchemaNotFound, errors.ErrCodeValidationFailed},
			timeout:     mappingcolumns.DefaultConfig().Timeout,
			tags:        []string{"selection", "schema"},
		},
		{
			id:          rundeployment.WorkerName,
			displayName: "Run Deployment",
			description: "Runs a deployment with the mapped inputs and returns the raw response",
			taskType:    rundeployment.TaskType,
			input:       rundeployment.GetInputSchema(),
			output:      rundeployment.GetOutputSchema(),
			fetch:       []string{"items", "deploymentId", "inputs"},
			errorCodes:  []errors.ErrorCode{errors.ErrCodeDeploymentRunFailed, errors.ErrCodeCredentialsInvalid, errors.ErrCodeValidationFailed},
			timeout:     rundeployment.DefaultConfig().Timeout,
			tags:        []string{"execution", "api"},
		},
	}
}

// PromptStudioActivities builds the registry entries of the Prompt Studio
// workers from their declared schemas.
func PromptStudioActivities() ([]Activity, error) {
	specs := workerSpecs()
	activities := make([]Activity, 0, len(specs))
	for _, s := range specs {
		in, err := s.input.Document()
		if err != nil {
			return nil, fmt.Errorf("%s input schema: %w", s.id, err)
		}
		out, err := s.output.Document()
		if err != nil {
			return nil, fmt.Errorf("%s output schema: %w", s.id, err)
		}

		codes := make([]string, 0, len(s.errorCodes))
		retries := 0
		for _, c := range s.errorCodes {
			codes = append(codes, string(c))
			if n := errors.GetRetryCount(c); n > retries {
				retries = n
			}
		}

		activities = append(activities, Activity{
			ID:                   s.id,
			DisplayName:          s.displayName,
			Description:          s.description,
			Category:             categoryName,
			Version:              RegistryVersion,
			TaskType:             s.taskType,
			ImplementationStatus: "completed",
			InputSchema:          in,
			OutputSchema:         out,
			FetchVariables:       s.fetch,
			ErrorCodes:           codes,
			Timeout:              s.timeout.String(),
			Retries:              retries,
			Tags:                 s.tags,
		})
	}
	return activities, nil
}

// Generate returns a registry describing the Prompt Studio workers.
func Generate(now time.Time) (*ActivityRegistry, error) {
	activities, err := PromptStudioActivities()
	if err != nil {
		return nil, err
	}
	return &ActivityRegistry{
		Version:     RegistryVersion,
		LastUpdated: now.UTC().Format(time.RFC3339),
		Activities:  activities,
	}, nil
}
