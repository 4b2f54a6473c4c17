// ABOUTME: REST handlers for the /sw-characters resource
// ABOUTME: Translates HTTP requests into Repository calls and results into JSON

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/2389/holonet/internal/character"
	"github.com/2389/holonet/internal/store"
)

// BasePath is the collection route.
const BasePath = "/sw-characters"

// maxBodyBytes caps POST and PUT bodies.
const maxBodyBytes = 1 << 20

// Handler serves the character REST surface.
type Handler struct {
	repo   character.Repository
	logger *slog.Logger
}

// NewHandler creates a Handler over repo.
func NewHandler(repo character.Repository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger.With("component", "api"),
	}
}

// Register mounts the routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+BasePath, h.handleList)
	mux.HandleFunc("POST "+BasePath, h.handleCreate)
	mux.HandleFunc("GET "+BasePath+"/{id}", h.handleGet)
	mux.HandleFunc("PUT "+BasePath+"/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE "+BasePath+"/{id}", h.handleDelete)
}

// handleList handles GET /sw-characters?name=&faction=&homeland=&species=.
// The homeworld filter travels as "homeland" on the wire.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.CharacterFilter{
		Name:      q.Get("name"),
		Faction:   q.Get("faction"),
		Homeworld: q.Get("homeland"),
		Species:   q.Get("species"),
	}

	characters, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.internalError(w, "failed to list characters", err)
		return
	}
	if characters == nil {
		characters = []*store.Character{}
	}

	h.sendJSON(w, http.StatusOK, characters)
}

// handleGet handles GET /sw-characters/{id}.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	c, err := h.repo.Get(r.Context(), id)
	if errors.Is(err, character.ErrNotFound) {
		h.sendJSONError(w, http.StatusNotFound, "character not found")
		return
	}
	if err != nil {
		h.internalError(w, "failed to get character", err)
		return
	}

	h.sendJSON(w, http.StatusOK, c)
}

// handleCreate handles POST /sw-characters.
// Responds 201 with the stored character and its Location.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	c, err := h.repo.Create(r.Context(), in)
	if errors.Is(err, character.ErrInvalidInput) {
		h.sendJSONError(w, http.StatusBadRequest, "All fields must be filled")
		return
	}
	if err != nil {
		h.internalError(w, "failed to create character", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/%d", BasePath, c.ID))
	h.sendJSON(w, http.StatusCreated, c)
}

// handleUpdate handles PUT /sw-characters/{id}.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	c, err := h.repo.Update(r.Context(), id, in)
	switch {
	case errors.Is(err, character.ErrInvalidInput):
		h.sendJSONError(w, http.StatusBadRequest, "All fields must be filled")
		return
	case errors.Is(err, character.ErrNotFound):
		h.sendJSONError(w, http.StatusNotFound, "character not found")
		return
	case err != nil:
		h.internalError(w, "failed to update character", err)
		return
	}

	h.sendJSON(w, http.StatusOK, c)
}

// handleDelete handles DELETE /sw-characters/{id}. Success is an empty 200.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	err := h.repo.Delete(r.Context(), id)
	if errors.Is(err, character.ErrNotFound) {
		h.sendJSONError(w, http.StatusNotFound, "character not found")
		return
	}
	if err != nil {
		h.internalError(w, "failed to delete character", err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// pathID parses the {id} segment, writing a 400 when it is not an integer.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.sendJSONError(w, http.StatusBadRequest, "invalid character id")
		return 0, false
	}
	return id, true
}

// decodeInput reads the JSON body. A client-sent id is dropped.
func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (character.Input, bool) {
	var in character.Input
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return in, false
	}
	return in, true
}

func (h *Handler) internalError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	h.sendJSONError(w, http.StatusInternalServerError, "internal server error")
}

func (h *Handler) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to write response", "error", err)
	}
}

// sendJSONError writes a JSON error response.
func (h *Handler) sendJSONError(w http.ResponseWriter, status int, message string) {
	h.sendJSON(w, status, map[string]string{"error": message})
}
