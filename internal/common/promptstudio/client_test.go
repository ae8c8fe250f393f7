package promptstudio

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"promptstudio-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deploymentsBody = `{
	"deployments": [
		{"deployment_id":"d1","created_at":"2023-01-01T00:00:00Z","recipe_id":"A","recipe_name":"Weather",
		 "schemas":{"request_schema":{"units":{"type":"string"},"city":{"type":"string"}},"response_schema":{}}},
		{"deployment_id":"d2","created_at":"2024-06-01T00:00:00Z","recipe_id":"A","recipe_name":"Weather",
		 "schemas":{"request_schema":{"city":{}},"response_schema":{}}}
	]
}`

func TestClient_ListDeployments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/deployments", r.URL.Path)
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(deploymentsBody))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api/v1/", "secret-key", 5*time.Second)
	deployments, err := client.ListDeployments(context.Background())

	require.NoError(t, err)
	require.Len(t, deployments, 2)
	assert.Equal(t, "d1", deployments[0].DeploymentID)
	assert.Equal(t, "Weather", deployments[0].RecipeName)
	assert.JSONEq(t, `{"units":{"type":"string"},"city":{"type":"string"}}`, string(deployments[0].Schemas.RequestSchema))
}

func TestClient_ListDeployments_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	deployments, err := NewClient(server.URL, "k", 0).ListDeployments(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, deployments)
	assert.Empty(t, deployments)
}

func TestClient_ListDeployments_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		authError  bool
		wantAPIErr bool
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"bad key"}`, authError: true, wantAPIErr: true},
		{name: "forbidden", status: http.StatusForbidden, body: `nope`, authError: true, wantAPIErr: true},
		{name: "server error", status: http.StatusInternalServerError, body: `boom`, wantAPIErr: true},
		{name: "invalid json", status: http.StatusOK, body: `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, "k", 0).ListDeployments(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.authError, IsAuthError(err))

			var apiErr *APIError
			assert.Equal(t, tt.wantAPIErr, errors.As(err, &apiErr))
			if tt.wantAPIErr {
				assert.Equal(t, tt.status, apiErr.StatusCode)
				assert.Equal(t, OperationListDeployments, apiErr.Operation)
			}
		})
	}
}

func TestClient_RunDeployment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/instructions/dep-1/run", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"input":{"city":"Paris","units":"metric"}}`, string(body))

		_, _ = w.Write([]byte(`{"result":"ok","tokens":12}`))
	}))
	defer server.Close()

	result, err := NewClient(server.URL, "k", 0).RunDeployment(context.Background(), models.RunRequest{
		DeploymentID: "dep-1",
		Input:        map[string]interface{}{"city": "Paris", "units": "metric"},
	})

	require.NoError(t, err)
	obj, ok := result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ok", obj["result"])
	assert.Equal(t, json.Number("12"), obj["tokens"])
}

func TestClient_RunDeployment_NilInputSendsEmptyObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"input":{}}`, string(body))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	result, err := NewClient(server.URL, "k", 0).RunDeployment(context.Background(), models.RunRequest{DeploymentID: "d"})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestClient_RunDeployment_FailureIdentifiesDeployment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "k", 0).RunDeployment(context.Background(), models.RunRequest{DeploymentID: "dep-9"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "dep-9", apiErr.DeploymentID)
	assert.Equal(t, OperationRunDeployment, apiErr.Operation)
	assert.Contains(t, err.Error(), "dep-9")
	assert.Contains(t, err.Error(), "upstream down")
}

func TestClient_RunDeployment_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, "k", 0).RunDeployment(context.Background(), models.RunRequest{DeploymentID: "dep-3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dep-3")
	assert.False(t, IsAuthError(err))
}

func TestClient_TestConnection(t *testing.T) {
	t.Run("valid credential", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"deployments":[]}`))
		}))
		defer server.Close()

		assert.NoError(t, NewClient(server.URL, "k", 0).TestConnection(context.Background()))
	})

	t.Run("rejected credential", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		err := NewClient(server.URL, "k", 0).TestConnection(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrCredentialInvalid))
		assert.True(t, IsAuthError(err))
	})

	t.Run("missing credential", func(t *testing.T) {
		err := NewClient("http://127.0.0.1:1", "", 0).TestConnection(context.Background())
		assert.True(t, errors.Is(err, ErrCredentialInvalid))
	})
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient("", "k", 0).BaseURL())
	assert.Equal(t, "http://x/api", NewClient("http://x/api/", "k", 0).BaseURL())
}
