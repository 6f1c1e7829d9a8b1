package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mkalra/profiled/internal/profile"
	"github.com/mkalra/profiled/internal/query"
	"github.com/mkalra/profiled/internal/storage"
)

// --- mocks ---

type failingQueries struct {
	err error
}

func (f *failingQueries) SearchBySkill(_ context.Context, _ string) ([]profile.Project, error) {
	return nil, f.err
}

func (f *failingQueries) SearchByKeyword(_ context.Context, _ string) ([]query.MatchedView, error) {
	return nil, f.err
}

func (f *failingQueries) TopSkills(_ context.Context, _ int) ([]query.SkillCount, error) {
	return nil, f.err
}

// --- helpers ---

func newTestHandler(t *testing.T) (http.Handler, *storage.Store) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewHandler(Deps{
		Store:       store,
		Queries:     query.NewService(store),
		CORSOrigins: []string{"http://localhost:3000"},
	}), store
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return v
}

func seedProfile(t *testing.T, h http.Handler) profile.Profile {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/profile", profile.CreateRequest{
		Name:   "Ada Lovelace",
		Email:  "ada@x.com",
		Skills: []string{"math"},
		Projects: []profile.Project{
			{Title: "Engine", Description: "calc", PSkills: []string{"python", "math"}},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("seeding profile: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	return decodeBody[profile.Profile](t, rec)
}

// --- tests ---

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestGetProfile_NoneReturnsNull(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/profile", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "null" {
		t.Errorf("body = %q, want null", got)
	}
}

func TestCreateAndGetProfile(t *testing.T) {
	h, _ := newTestHandler(t)

	created := seedProfile(t, h)
	if created.ID == "" {
		t.Fatal("created profile has no ID")
	}

	rec := doRequest(t, h, http.MethodGet, "/profile", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := decodeBody[profile.Profile](t, rec)
	if got.ID != created.ID || got.Name != "Ada Lovelace" {
		t.Errorf("profile = %q/%q, want %q/Ada Lovelace", got.ID, got.Name, created.ID)
	}
}

func TestCreateProfile_ReplacesExisting(t *testing.T) {
	h, _ := newTestHandler(t)

	first := seedProfile(t, h)
	rec := doRequest(t, h, http.MethodPost, "/profile", profile.CreateRequest{Name: "Grace Hopper"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	second := decodeBody[profile.Profile](t, rec)
	if second.ID == first.ID {
		t.Error("replacement profile reused the old ID")
	}

	got := decodeBody[profile.Profile](t, doRequest(t, h, http.MethodGet, "/profile", nil))
	if got.Name != "Grace Hopper" {
		t.Errorf("surviving profile = %q, want Grace Hopper", got.Name)
	}
}

func TestCreateProfile_InvalidBody(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/profile", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	h, _ := newTestHandler(t)
	created := seedProfile(t, h)

	rec := doRequest(t, h, http.MethodPut, "/profile/"+created.ID, profile.UpdateRequest{
		Name:  "Ada King",
		Email: "ada@x.com",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[profile.Profile](t, rec)
	if updated.Name != "Ada King" {
		t.Errorf("Name = %q, want Ada King", updated.Name)
	}
	// Collections absent from the update read back as empty.
	if updated.Skills == nil || len(updated.Skills) != 0 {
		t.Errorf("Skills = %v, want empty non-nil", updated.Skills)
	}
}

func TestUpdateProfile_NotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPut, "/profile/missing", profile.UpdateRequest{Name: "x"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteProfile(t *testing.T) {
	h, _ := newTestHandler(t)
	created := seedProfile(t, h)

	rec := doRequest(t, h, http.MethodDelete, "/profile/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if got := strings.TrimSpace(doRequest(t, h, http.MethodGet, "/profile", nil).Body.String()); got != "null" {
		t.Errorf("profile after delete = %q, want null", got)
	}
}

func TestDeleteProfile_NotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodDelete, "/profile/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestQueryProjects(t *testing.T) {
	h, _ := newTestHandler(t)
	seedProfile(t, h)

	rec := doRequest(t, h, http.MethodGet, "/query/projects?skill=python", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	projects := decodeBody[[]profile.Project](t, rec)
	if len(projects) != 1 || projects[0].Title != "Engine" {
		t.Errorf("projects = %v, want [Engine]", projects)
	}
}

func TestQueryProjects_EmptySkill(t *testing.T) {
	h, _ := newTestHandler(t)
	seedProfile(t, h)

	rec := doRequest(t, h, http.MethodGet, "/query/projects", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestQueryTopSkills(t *testing.T) {
	h, _ := newTestHandler(t)
	seedProfile(t, h)

	rec := doRequest(t, h, http.MethodGet, "/query/skills/top", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	skills := decodeBody[[]query.SkillCount](t, rec)
	want := []query.SkillCount{{Skill: "python", Count: 1}, {Skill: "math", Count: 1}}
	if len(skills) != len(want) {
		t.Fatalf("skills = %v, want %v", skills, want)
	}
	for i := range want {
		if skills[i] != want[i] {
			t.Errorf("skills[%d] = %v, want %v", i, skills[i], want[i])
		}
	}
}

func TestQueryTopSkills_LimitParam(t *testing.T) {
	h, _ := newTestHandler(t)
	seedProfile(t, h)

	rec := doRequest(t, h, http.MethodGet, "/query/skills/top?limit=1", nil)
	skills := decodeBody[[]query.SkillCount](t, rec)
	if len(skills) != 1 {
		t.Errorf("len = %d, want 1", len(skills))
	}

	// Bad limits fall back to the default instead of erroring.
	rec = doRequest(t, h, http.MethodGet, "/query/skills/top?limit=banana", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestQuerySearch(t *testing.T) {
	h, _ := newTestHandler(t)
	seedProfile(t, h)

	rec := doRequest(t, h, http.MethodGet, "/query/search?q=ada", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody[map[string][]query.MatchedView](t, rec)
	views := body["profiles"]
	if len(views) != 1 {
		t.Fatalf("profiles = %v, want 1 entry", views)
	}
	if views[0].Name != "Ada Lovelace" {
		t.Errorf("Name = %q, want Ada Lovelace", views[0].Name)
	}
}

func TestQuerySearch_EmptyQuery(t *testing.T) {
	h, _ := newTestHandler(t)
	seedProfile(t, h)

	rec := doRequest(t, h, http.MethodGet, "/query/search", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody[map[string][]query.MatchedView](t, rec)
	if len(body["profiles"]) != 0 {
		t.Errorf("profiles = %v, want empty", body["profiles"])
	}
}

// Store failures surface as 500 with the JSON error envelope, never as
// an empty result.
func TestQueryFailureReturns500(t *testing.T) {
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	h := NewHandler(Deps{
		Store:       store,
		Queries:     &failingQueries{err: errors.New("disk on fire")},
		CORSOrigins: []string{"*"},
	})

	for _, path := range []string{"/query/projects?skill=go", "/query/skills/top", "/query/search?q=go"} {
		rec := doRequest(t, h, http.MethodGet, path, nil)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s: status = %d, want 500", path, rec.Code)
			continue
		}
		body := decodeBody[map[string]map[string]string](t, rec)
		if body["error"]["type"] != "api_error" {
			t.Errorf("%s: error type = %q, want api_error", path, body["error"]["type"])
		}
	}
}

func TestCORSPreflightAllowed(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodOptions, "/query/search", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q, want http://localhost:3000", got)
	}
}
