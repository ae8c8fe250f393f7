package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"promptstudio-workers/internal/common/promptstudio"
	"promptstudio-workers/internal/common/selection"
	"promptstudio-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) ListDeployments(ctx context.Context) ([]models.Deployment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Deployment), args.Error(1)
}

func (m *mockClient) RunDeployment(ctx context.Context, req models.RunRequest) (interface{}, error) {
	args := m.Called(ctx, req)
	return args.Get(0), args.Error(1)
}

func (m *mockClient) TestConnection(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func sampleDeployments() []models.Deployment {
	return []models.Deployment{
		{
			DeploymentID: "d1",
			CreatedAt:    "2023-01-01T00:00:00Z",
			RecipeID:     "A",
			RecipeName:   "Weather Report",
			Schemas:      models.Schemas{RequestSchema: json.RawMessage(`{"city":{},"days":{}}`)},
		},
		{
			DeploymentID: "d2",
			CreatedAt:    "2024-06-01T00:00:00Z",
			RecipeID:     "A",
			RecipeName:   "Weather Report",
		},
		{
			DeploymentID: "d3",
			CreatedAt:    "2024-02-01T00:00:00Z",
			RecipeID:     "B",
			RecipeName:   "Summarizer",
		},
	}
}

type factoryCall struct {
	baseURL string
	apiKey  string
	timeout time.Duration
}

// execute runs the CLI against client and returns stdout.
func execute(t *testing.T, client Client, args ...string) (string, *factoryCall, error) {
	t.Helper()
	t.Setenv("PROMPTSTUDIO_API_KEY", "")

	call := &factoryCall{}
	root := newRootCmd(func(baseURL, apiKey string, timeout time.Duration) Client {
		*call = factoryCall{baseURL: baseURL, apiKey: apiKey, timeout: timeout}
		return client
	})

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), call, err
}

func TestRecipesCmd(t *testing.T) {
	client := &mockClient{}
	client.On("ListDeployments", mock.Anything).Return(sampleDeployments(), nil)

	out, call, err := execute(t, client, "recipes", "--api-key", "k", "--base-url", "http://ps.local/api/v1")
	require.NoError(t, err)

	assert.Equal(t, "http://ps.local/api/v1", call.baseURL)
	assert.Equal(t, "k", call.apiKey)
	assert.Equal(t, 30*time.Second, call.timeout)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "RECIPE ID")
	assert.Contains(t, lines[1], "Weather Report")
	assert.Contains(t, lines[1], "2")
	assert.Contains(t, lines[2], "Summarizer")
}

func TestRecipesCmd_Filter(t *testing.T) {
	client := &mockClient{}
	client.On("ListDeployments", mock.Anything).Return(sampleDeployments(), nil)

	out, _, err := execute(t, client, "recipes", "--api-key", "k", "-f", "SUMM")
	require.NoError(t, err)
	assert.Contains(t, out, "Summarizer")
	assert.NotContains(t, out, "Weather")
}

func TestDeploymentsCmd_ByRecipeID(t *testing.T) {
	client := &mockClient{}
	client.On("ListDeployments", mock.Anything).Return(sampleDeployments(), nil)

	out, _, err := execute(t, client, "deployments", "--api-key", "k", "--recipe", "A")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "2024-06-01, 00:00:00 - d2")
	assert.Contains(t, lines[2], "2023-01-01, 00:00:00 - d1")
}

func TestDeploymentsCmd_EncodedValueSkipsListing(t *testing.T) {
	value, err := selection.Encode(selection.Group{Deployments: []selection.Entry{{ID: "x1", CreatedAt: "raw"}}})
	require.NoError(t, err)

	client := &mockClient{}
	out, _, err := execute(t, client, "deployments", "--api-key", "k", "--recipe", value)
	require.NoError(t, err)
	assert.Contains(t, out, "raw - x1")
	client.AssertNotCalled(t, "ListDeployments", mock.Anything)
}

func TestDeploymentsCmd_UnknownRecipe(t *testing.T) {
	client := &mockClient{}
	client.On("ListDeployments", mock.Anything).Return(sampleDeployments(), nil)

	_, _, err := execute(t, client, "deployments", "--api-key", "k", "--recipe", "Z")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `recipe "Z" not found`)
}

func TestFieldsCmd(t *testing.T) {
	client := &mockClient{}
	client.On("ListDeployments", mock.Anything).Return(sampleDeployments(), nil)

	out, _, err := execute(t, client, "fields", "--api-key", "k", "--recipe", "A", "--deployment", "d1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "city"))
	assert.True(t, strings.HasPrefix(lines[2], "days"))

	_, _, err = execute(t, client, "fields", "--api-key", "k", "--recipe", "A", "--deployment", "d2")
	require.Error(t, err)
	assert.ErrorIs(t, err, selection.ErrNoSchema)
}

func TestRunCmd(t *testing.T) {
	client := &mockClient{}
	client.On("RunDeployment", mock.Anything, models.RunRequest{
		DeploymentID: "d1",
		Input:        map[string]interface{}{"city": "Paris", "days": "3", "units": "metric"},
	}).Return(map[string]interface{}{"result": "ok"}, nil).Once()

	out, _, err := execute(t, client, "run", "--api-key", "k", "--deployment", "d1",
		"--json", `{"days":1,"units":"metric"}`, "-i", "city=Paris", "--input", "days=3")
	require.NoError(t, err)

	var printed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &printed))
	assert.Equal(t, map[string]interface{}{"result": "ok"}, printed)
	client.AssertExpectations(t)
}

func TestRunCmd_WrapsNonObjectResponse(t *testing.T) {
	client := &mockClient{}
	client.On("RunDeployment", mock.Anything, mock.Anything).Return("plain text", nil)

	out, _, err := execute(t, client, "run", "--api-key", "k", "--deployment", "d1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":"plain text"}`, out)
}

func TestCommands_RequireAPIKey(t *testing.T) {
	_, _, err := execute(t, &mockClient{}, "recipes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no api key")
}

func TestCommands_APIKeyFromEnv(t *testing.T) {
	client := &mockClient{}
	client.On("TestConnection", mock.Anything).Return(nil)

	call := &factoryCall{}
	root := newRootCmd(func(baseURL, apiKey string, timeout time.Duration) Client {
		*call = factoryCall{baseURL: baseURL, apiKey: apiKey, timeout: timeout}
		return client
	})
	t.Setenv("PROMPTSTUDIO_API_KEY", "from-env")

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"auth", "test"})
	require.NoError(t, root.Execute())

	assert.Equal(t, "from-env", call.apiKey)
	assert.Equal(t, promptstudio.DefaultBaseURL, call.baseURL)
	assert.Equal(t, "Credentials OK\n", out.String())
}

func TestAuthTestCmd_Failure(t *testing.T) {
	client := &mockClient{}
	client.On("TestConnection", mock.Anything).Return(promptstudio.ErrCredentialInvalid)

	_, _, err := execute(t, client, "auth", "test", "--api-key", "bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, promptstudio.ErrCredentialInvalid)
}

func TestParseInputs(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		raw     string
		want    map[string]interface{}
		wantErr bool
	}{
		{name: "nothing", want: map[string]interface{}{}},
		{name: "pairs", pairs: []string{"a=1", "b=x=y"}, want: map[string]interface{}{"a": "1", "b": "x=y"}},
		{name: "empty value", pairs: []string{"a="}, want: map[string]interface{}{"a": ""}},
		{name: "json", raw: `{"n":2}`, want: map[string]interface{}{"n": float64(2)}},
		{name: "missing separator", pairs: []string{"a"}, wantErr: true},
		{name: "empty key", pairs: []string{"=v"}, wantErr: true},
		{name: "json array", raw: `[1]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInputs(tt.pairs, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
