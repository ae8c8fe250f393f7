// Package api serves the selection stages over HTTP so that a UI can populate
// its pickers without starting a process instance.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"promptstudio-workers/internal/common/errors"
	"promptstudio-workers/internal/common/logger"
	"promptstudio-workers/internal/models"
	loaddeployments "promptstudio-workers/internal/workers/promptstudio/load-deployments"
	mappingcolumns "promptstudio-workers/internal/workers/promptstudio/mapping-columns"
	rundeployment "promptstudio-workers/internal/workers/promptstudio/run-deployment"
	searchrecipes "promptstudio-workers/internal/workers/promptstudio/search-recipes"

	"github.com/gorilla/mux"
)

// Client is the Prompt Studio API surface the server needs.
type Client interface {
	ListDeployments(ctx context.Context) ([]models.Deployment, error)
	RunDeployment(ctx context.Context, req models.RunRequest) (interface{}, error)
	TestConnection(ctx context.Context) error
}

type Server struct {
	token   string
	logger  logger.Logger
	client  Client
	recipes *searchrecipes.Service
	deploys *loaddeployments.Service
	fields  *mappingcolumns.Service
	runs    *rundeployment.Service
}

// NewServer builds the options API. Every /api request must carry
// "Authorization: Bearer <token>"; an empty token rejects all of them.
func NewServer(client Client, token string, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Server{
		token:  token,
		logger: log,
		client: client,
		recipes: searchrecipes.NewService(searchrecipes.ServiceDependencies{
			Logger: log,
			Client: client,
		}, searchrecipes.DefaultConfig()),
		deploys: loaddeployments.NewService(loaddeployments.ServiceDependencies{Logger: log}, loaddeployments.DefaultConfig()),
		fields:  mappingcolumns.NewService(mappingcolumns.ServiceDependencies{Logger: log}, mappingcolumns.DefaultConfig()),
		runs: rundeployment.NewService(rundeployment.ServiceDependencies{
			Logger: log,
			Client: client,
		}, rundeployment.DefaultConfig()),
	}
}

// RegisterRoutes mounts the API under /api on r.
func (s *Server) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.requireToken)
	api.HandleFunc("/recipes", s.listRecipes).Methods(http.MethodGet)
	api.HandleFunc("/deployments", s.listDeployments).Methods(http.MethodGet)
	api.HandleFunc("/deployments/{id}/run", s.runDeployment).Methods(http.MethodPost)
	api.HandleFunc("/fields", s.listFields).Methods(http.MethodGet)
	api.HandleFunc("/credentials/test", s.testCredentials).Methods(http.MethodGet)
}

func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request) {
	out, err := s.recipes.Execute(r.Context(), &searchrecipes.Input{Filter: r.URL.Query().Get("filter")})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listDeployments(w http.ResponseWriter, r *http.Request) {
	out, err := s.deploys.Execute(r.Context(), &loaddeployments.Input{RecipeValue: r.URL.Query().Get("recipe")})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listFields(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("deployment") == "" {
		s.writeError(w, errors.NewValidationFailedError("query parameter deployment is required"))
		return
	}
	out, err := s.fields.Execute(r.Context(), &mappingcolumns.Input{
		RecipeValue:  q.Get("recipe"),
		DeploymentID: q.Get("deployment"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type runBody struct {
	Inputs interface{} `json:"inputs"`
}

func (s *Server) runDeployment(w http.ResponseWriter, r *http.Request) {
	var body runBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && err != io.EOF {
		s.writeError(w, errors.NewInputParsingFailedError(err))
		return
	}
	inputs, err := models.InputMapping(body.Inputs)
	if err != nil {
		s.writeError(w, errors.NewValidationFailedError(err.Error()))
		return
	}

	out, err := s.runs.Execute(r.Context(), &rundeployment.Input{Items: []models.RunItem{
		{DeploymentID: mux.Vars(r)["id"], Inputs: inputs},
	}})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) testCredentials(w http.ResponseWriter, r *http.Request) {
	if err := s.client.TestConnection(r.Context()); err != nil {
		s.writeError(w, errors.NewCredentialsInvalidError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	stdErr := errors.Normalize(err)
	status := statusFor(stdErr.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("API request failed", map[string]interface{}{
			"code":  string(stdErr.Code),
			"error": stdErr.Details,
		})
	}
	writeJSON(w, status, errorBody{
		Code:    string(stdErr.Code),
		Message: stdErr.Message,
		Details: stdErr.Details,
	})
}

func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeSchemaNotFound:
		return http.StatusNotFound
	case errors.ErrCodeCredentialsInvalid:
		return http.StatusUnauthorized
	case errors.ErrCodeValidationFailed, errors.ErrCodeInputParsingFailed:
		return http.StatusBadRequest
	case errors.ErrCodeDeploymentListFailed, errors.ErrCodeDeploymentRunFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
