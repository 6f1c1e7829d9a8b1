package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/mkalra/profiled/internal/profile"
	"github.com/mkalra/profiled/internal/query"
	"github.com/mkalra/profiled/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// ProfileStore covers the profile CRUD operations the HTTP layer needs.
// Implemented by storage.Store.
type ProfileStore interface {
	ReplaceAll(ctx context.Context, p profile.Profile) error
	UpdateProfile(ctx context.Context, p profile.Profile) error
	DeleteProfile(ctx context.Context, id string) error
	FindFirst(ctx context.Context) (profile.Profile, error)
}

// QueryService runs the read-only search and aggregation queries.
// Implemented by query.Service.
type QueryService interface {
	SearchBySkill(ctx context.Context, skill string) ([]profile.Project, error)
	SearchByKeyword(ctx context.Context, q string) ([]query.MatchedView, error)
	TopSkills(ctx context.Context, limit int) ([]query.SkillCount, error)
}

type Deps struct {
	Store       ProfileStore
	Queries     QueryService
	CORSOrigins []string
}

// NewHandler builds the HTTP router: health, profile CRUD, and the
// read-only query endpoints.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Get("/health", handleHealth)

	r.Get("/profile", handleGetProfile(deps))
	r.Post("/profile", handleCreateProfile(deps))
	r.Put("/profile/{id}", handleUpdateProfile(deps))
	r.Delete("/profile/{id}", handleDeleteProfile(deps))

	r.Get("/query/projects", handleProjectsBySkill(deps))
	r.Get("/query/skills/top", handleTopSkills(deps))
	r.Get("/query/search", handleSearch(deps))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func handleGetProfile(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := deps.Store.FindFirst(r.Context())
		if errors.Is(err, storage.ErrNotFound) {
			// No profile yet: the body is JSON null, not an error.
			writeJSON(w, nil)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get profile: %v", err)
			return
		}
		writeJSON(w, p)
	}
}

func handleCreateProfile(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		var req profile.CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		p := req.Profile(uuid.New().String())
		if err := deps.Store.ReplaceAll(r.Context(), p); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save profile: %v", err)
			return
		}
		writeJSON(w, p)
	}
}

func handleUpdateProfile(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		var req profile.UpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		p := req.Profile(id)
		err := deps.Store.UpdateProfile(r.Context(), p)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to update profile: %v", err)
			return
		}
		writeJSON(w, p)
	}
}

func handleDeleteProfile(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := deps.Store.DeleteProfile(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete profile: %v", err)
			return
		}
		writeJSON(w, map[string]string{"status": "deleted"})
	}
}

func handleProjectsBySkill(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := deps.Queries.SearchBySkill(r.Context(), r.URL.Query().Get("skill"))
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to search projects: %v", err)
			return
		}
		writeJSON(w, projects)
	}
}

func handleTopSkills(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", query.DefaultTopSkills, 50)

		skills, err := deps.Queries.TopSkills(r.Context(), limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to rank skills: %v", err)
			return
		}
		writeJSON(w, skills)
	}
}

func handleSearch(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := deps.Queries.SearchByKeyword(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to search profiles: %v", err)
			return
		}
		writeJSON(w, map[string]any{"profiles": views})
	}
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
