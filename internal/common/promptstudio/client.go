// Package promptstudio is the authenticated client for the Prompt Studio
// deployments API.
package promptstudio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	httpclient "promptstudio-workers/internal/common/http"
	"promptstudio-workers/internal/common/metrics"
	"promptstudio-workers/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const DefaultBaseURL = "https://api.prompt.studio/api/v1"

const (
	OperationListDeployments = "list_deployments"
	OperationRunDeployment   = "run_deployment"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Operation    string
	DeploymentID string
	StatusCode   int
	Body         string
}

func (e *APIError) Error() string {
	if e.DeploymentID != "" {
		return fmt.Sprintf("prompt studio %s for deployment %s failed (status %d): %s", e.Operation, e.DeploymentID, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("prompt studio %s failed (status %d): %s", e.Operation, e.StatusCode, e.Body)
}

// IsAuthError reports whether err is a 401/403 response from the API.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// ErrCredentialInvalid wraps every connectivity self-test failure.
var ErrCredentialInvalid = errors.New("credential invalid")

type Client struct {
	baseURL string
	http    *httpclient.Client
	tracer  trace.Tracer
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return NewClientWithTransport(baseURL, httpclient.NewClient(timeout, apiKey))
}

func NewClientWithTransport(baseURL string, transport *httpclient.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    transport,
		tracer:  otel.Tracer("promptstudio-workers/promptstudio"),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListDeployments fetches every deployment visible to the credential.
func (c *Client) ListDeployments(ctx context.Context) ([]models.Deployment, error) {
	ctx, span := c.tracer.Start(ctx, "promptstudio.ListDeployments")
	defer span.End()

	body, err := c.do(ctx, OperationListDeployments, "", http.MethodGet, c.baseURL+"/deployments", nil)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	var list models.DeploymentList
	if err := json.Unmarshal(body, &list); err != nil {
		err = fmt.Errorf("failed to decode deployment list: %w", err)
		recordSpanError(span, err)
		return nil, err
	}
	if list.Deployments == nil {
		list.Deployments = []models.Deployment{}
	}

	span.SetAttributes(attribute.Int("promptstudio.deployments", len(list.Deployments)))
	return list.Deployments, nil
}

// RunDeployment submits one run request and returns the decoded response body
// unmodified.
func (c *Client) RunDeployment(ctx context.Context, req models.RunRequest) (interface{}, error) {
	ctx, span := c.tracer.Start(ctx, "promptstudio.RunDeployment",
		trace.WithAttributes(attribute.String("promptstudio.deployment_id", req.DeploymentID)))
	defer span.End()

	if req.Input == nil {
		req.Input = map[string]interface{}{}
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/instructions/%s/run", c.baseURL, url.PathEscape(req.DeploymentID))
	body, err := c.do(ctx, OperationRunDeployment, req.DeploymentID, http.MethodPost, endpoint, payload)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var result interface{}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&result); err != nil {
		err = fmt.Errorf("failed to decode run response for deployment %s: %w", req.DeploymentID, err)
		recordSpanError(span, err)
		return nil, err
	}
	return result, nil
}

// TestConnection checks the credential by listing deployments. Any failure is
// reported as ErrCredentialInvalid.
func (c *Client) TestConnection(ctx context.Context) error {
	if !c.http.HasCredential() {
		return fmt.Errorf("%w: no api key configured", ErrCredentialInvalid)
	}
	if _, err := c.ListDeployments(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrCredentialInvalid, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, operation, deploymentID, method, endpoint string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.APIRequests.WithLabelValues(operation, "error").Inc()
		if deploymentID != "" {
			return nil, fmt.Errorf("prompt studio %s for deployment %s: %w", operation, deploymentID, err)
		}
		return nil, fmt.Errorf("prompt studio %s: %w", operation, err)
	}
	defer resp.Body.Close()

	metrics.APIRequests.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Operation:    operation,
			DeploymentID: deploymentID,
			StatusCode:   resp.StatusCode,
			Body:         strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
