// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSchemaNotFound       ErrorCode = "SCHEMA_NOT_FOUND"
	ErrCodeDeploymentListFailed ErrorCode = "DEPLOYMENT_LIST_FAILED"
	ErrCodeDeploymentRunFailed  ErrorCode = "DEPLOYMENT_RUN_FAILED"
	ErrCodeCredentialsInvalid   ErrorCode = "CREDENTIALS_INVALID"

	ErrCodeInputParsingFailed ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewSchemaNotFoundError is raised when the selected deployment has no request
// schema; the input fields cannot be derived, so the job must stop.
func NewSchemaNotFoundError(taskType, deploymentID string, err error) *StandardError {
	details := fmt.Sprintf("taskType: %s, deploymentId: %s", taskType, deploymentID)
	if err != nil {
		details = fmt.Sprintf("%s, error: %s", details, err.Error())
	}
	return &StandardError{
		Code:      ErrCodeSchemaNotFound,
		Message:   "No schema found for the selected deployment",
		Details:   details,
		Retryable: false,
		Metadata: map[string]interface{}{
			"taskType":     taskType,
			"deploymentId": deploymentID,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewDeploymentListFailedError wraps a failed GET /deployments. Listing is
// idempotent, so the engine may retry it.
func NewDeploymentListFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDeploymentListFailed,
		Message:   "Failed to list Prompt Studio deployments",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeploymentRunFailedError wraps a failed run request. Runs are not
// idempotent and are never retried.
func NewDeploymentRunFailedError(deploymentID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDeploymentRunFailed,
		Message:   "Prompt Studio deployment run failed",
		Details:   fmt.Sprintf("deploymentId: %s, error: %s", deploymentID, err.Error()),
		Retryable: false,
		Metadata: map[string]interface{}{
			"deploymentId": deploymentID,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewCredentialsInvalidError is used for 401/403 responses and failed
// connectivity self-tests.
func NewCredentialsInvalidError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCredentialsInvalid,
		Message:   "Prompt Studio credential invalid",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInputParsingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputParsingFailed,
		Message:   "Failed to parse job variables",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      "AUTHENTICATION_ERROR",
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes caught by
// boundary events in the process models.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeSchemaNotFound:       "SCHEMA_NOT_FOUND",
	ErrCodeDeploymentListFailed: "DEPLOYMENT_LIST_FAILED",
	ErrCodeDeploymentRunFailed:  "DEPLOYMENT_RUN_FAILED",
	ErrCodeCredentialsInvalid:   "CREDENTIALS_INVALID",
	ErrCodeInputParsingFailed:   "INPUT_PARSING_FAILED",
	ErrCodeValidationFailed:     "VALIDATION_FAILED",
}

// GetRetryCount returns the engine-side retry budget for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDeploymentListFailed:
		return 3

	case "EXTERNAL_SERVICE_ERROR", "TIMEOUT_ERROR":
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SCHEMA"):
		return "SCHEMA"
	case strings.Contains(codeStr, "DEPLOYMENT"):
		return "PROMPT_STUDIO"
	case strings.Contains(codeStr, "CREDENTIALS") || strings.Contains(codeStr, "AUTHENTICATION"):
		return "AUTH"
	case strings.Contains(codeStr, "PARSING") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
