// ABOUTME: Browser client for holonet served at / with embedded templates
// ABOUTME: Renders the character table server-side and the markdown guide via goldmark

package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/2389/holonet/internal/character"
	"github.com/2389/holonet/internal/store"
)

// pageData is shared by every page. An empty GraphQLPath hides the
// scripted parts of the page.
type pageData struct {
	Title       string
	GraphQLPath string
	Filter      store.CharacterFilter
	Characters  []*store.Character
	Guide       template.HTML
}

// Handler serves the browser client.
type Handler struct {
	repo        character.Repository
	graphqlPath string
	logger      *slog.Logger

	index *template.Template
	guide *template.Template
	html  template.HTML
}

// New parses the embedded templates and renders the guide. graphqlPath is
// the endpoint the page script talks to; pass "" when GraphQL is disabled.
func New(repo character.Repository, graphqlPath string, logger *slog.Logger) (*Handler, error) {
	index, err := template.ParseFS(templateFS, "templates/base.html", "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}
	guide, err := template.ParseFS(templateFS, "templates/base.html", "templates/guide.html")
	if err != nil {
		return nil, fmt.Errorf("parse guide template: %w", err)
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert(guideMarkdown, &buf); err != nil {
		return nil, fmt.Errorf("render guide: %w", err)
	}

	return &Handler{
		repo:        repo,
		graphqlPath: graphqlPath,
		logger:      logger.With("component", "web"),
		index:       index,
		guide:       guide,
		html:        template.HTML(buf.String()),
	}, nil
}

// Register mounts /, /guide and /static/ on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	static, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	mux.HandleFunc("GET /guide", h.handleGuide)
	mux.HandleFunc("GET /{$}", h.handleIndex)
}

// handleIndex renders the table for the name, faction, homeworld and
// species query parameters so the page works without scripts.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.CharacterFilter{
		Name:      q.Get("name"),
		Faction:   q.Get("faction"),
		Homeworld: q.Get("homeworld"),
		Species:   q.Get("species"),
	}

	characters, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list characters", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, h.index, pageData{
		Title:       "Characters",
		GraphQLPath: h.graphqlPath,
		Filter:      filter,
		Characters:  characters,
	})
}

func (h *Handler) handleGuide(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.guide, pageData{
		Title: "Guide",
		Guide: h.html,
	})
}

func (h *Handler) render(w http.ResponseWriter, tmpl *template.Template, data pageData) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		h.logger.Error("failed to render page", "title", data.Title, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write page", "error", err)
	}
}
