// ABOUTME: HTTP transport for the GraphQL schema
// ABOUTME: Accepts POST JSON bodies and GET query strings and writes the execution result

package graphql

import (
	"encoding/json"
	"log/slog"
	"net/http"

	gql "github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"

	"github.com/2389/holonet/internal/character"
)

const maxBodyBytes = 1 << 20

// Request is a GraphQL-over-HTTP request body.
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

// Handler executes GraphQL requests against one schema.
type Handler struct {
	schema gql.Schema
	logger *slog.Logger
}

// NewHandler builds the schema over repo and returns its HTTP handler.
func NewHandler(repo character.Repository, logger *slog.Logger) (*Handler, error) {
	logger = logger.With("component", "graphql")
	schema, err := NewSchema(repo, logger)
	if err != nil {
		return nil, err
	}
	return &Handler{schema: schema, logger: logger}, nil
}

// ServeHTTP handles GET ?query=&variables=&operationName= and POST JSON.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if v := q.Get("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
				h.sendErrors(w, http.StatusBadRequest, "variables must be a JSON object")
				return
			}
		}
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.sendErrors(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		h.sendErrors(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if req.Query == "" {
		h.sendErrors(w, http.StatusBadRequest, "query is required")
		return
	}

	result := gql.Do(gql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})
	if result.HasErrors() {
		h.logger.Debug("graphql request returned errors", "errors", len(result.Errors))
	}

	h.sendJSON(w, http.StatusOK, result)
}

func (h *Handler) sendErrors(w http.ResponseWriter, status int, message string) {
	h.sendJSON(w, status, &gql.Result{
		Errors: []gqlerrors.FormattedError{{Message: message}},
	})
}

func (h *Handler) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to write response", "error", err)
	}
}
