package loaddeployments

import (
	"context"
	"testing"
	"time"

	"promptstudio-workers/internal/common/camunda/camundatest"
	"promptstudio-workers/internal/common/logger"
	"promptstudio-workers/internal/common/selection"
	"promptstudio-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodedRecipe(t *testing.T) string {
	t.Helper()
	value, err := selection.Encode(selection.Group{Deployments: []selection.Entry{
		{ID: "d1", CreatedAt: "2023-01-01T00:00:00Z"},
		{ID: "d3", CreatedAt: "2024-06-01T14:30:00Z"},
		{ID: "d2", CreatedAt: "2024-06-01T09:15:00Z"},
	}})
	require.NoError(t, err)
	return value
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		CustomConfig: &Config{Enabled: true, MaxJobsActive: 1, Timeout: time.Second},
		Logger:       logger.NewNoOpLogger(),
	})
	require.NoError(t, err)
	return h
}

func TestHandler_NewHandler_InvalidConfig(t *testing.T) {
	_, err := NewHandler(HandlerOptions{CustomConfig: &Config{Enabled: true, MaxJobsActive: 0, Timeout: time.Second}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_jobs_active must be positive")
}

func TestService_Execute_MostRecentFirst(t *testing.T) {
	output, err := newTestHandler(t).Execute(context.Background(), &Input{RecipeValue: encodedRecipe(t)})
	require.NoError(t, err)

	assert.Equal(t, []models.Option{
		{Name: "2024-06-01, 14:30:00 - d3", Value: "d3"},
		{Name: "2024-06-01, 09:15:00 - d2", Value: "d2"},
		{Name: "2023-01-01, 00:00:00 - d1", Value: "d1"},
	}, output.DeploymentOptions)
}

func TestService_Execute_EmptyOrForeignValue(t *testing.T) {
	for _, value := range []string{"", "   ", "not json", `{"v":99,"deployments":[]}`} {
		output, err := newTestHandler(t).Execute(context.Background(), &Input{RecipeValue: value})
		require.NoError(t, err, value)
		assert.NotNil(t, output.DeploymentOptions, value)
		assert.Empty(t, output.DeploymentOptions, value)
	}
}

func TestService_CustomFormatter(t *testing.T) {
	svc := NewService(ServiceDependencies{
		Logger:    logger.NewNoOpLogger(),
		Formatter: func(string) string { return "T" },
	}, DefaultConfig())

	output, err := svc.Execute(context.Background(), &Input{RecipeValue: encodedRecipe(t)})
	require.NoError(t, err)
	require.Len(t, output.DeploymentOptions, 3)
	assert.Equal(t, "T - d3", output.DeploymentOptions[0].Name)
}

func TestHandler_ParseInput(t *testing.T) {
	h := newTestHandler(t)
	value := encodedRecipe(t)

	tests := []struct {
		name      string
		variables map[string]interface{}
		want      string
		wantErr   bool
	}{
		{name: "plain string", variables: map[string]interface{}{"recipeId": value}, want: value},
		{
			name:      "resource locator",
			variables: map[string]interface{}{"recipeId": map[string]interface{}{"mode": "list", "value": value}},
			want:      value,
		},
		{name: "absent", variables: map[string]interface{}{}, want: ""},
		{name: "wrong type", variables: map[string]interface{}{"recipeId": true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := h.parseInput(camundatest.NewJob(1, TaskType, tt.variables))
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "VALIDATION_FAILED", extractErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, input.RecipeValue)
		})
	}
}

func TestHandler_Handle(t *testing.T) {
	client := camundatest.NewJobClient()
	job := camundatest.NewJob(55, TaskType, map[string]interface{}{
		"recipeId": map[string]interface{}{"mode": "list", "value": encodedRecipe(t)},
	})

	newTestHandler(t).Handle(client, job)

	vars, ok := client.CompletedVariables()
	require.True(t, ok)
	options, ok := vars["deploymentOptions"].([]interface{})
	require.True(t, ok)
	require.Len(t, options, 3)
	assert.Equal(t, "d3", options[0].(map[string]interface{})["value"])
}

func TestHandler_Handle_MalformedVariables(t *testing.T) {
	client := camundatest.NewJobClient()
	newTestHandler(t).Handle(client, camundatest.NewRawJob(56, TaskType, "{broken"))

	require.Len(t, client.Thrown(), 1)
	assert.Equal(t, "INPUT_PARSING_FAILED", client.Thrown()[0].ErrorCode)
}
