package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkalra/profiled/internal/profile"
)

// DefaultTopSkills is the ranking size when the caller does not ask for one.
const DefaultTopSkills = 5

// Repository fetches profiles for query evaluation. Implemented by
// storage.Store; tests substitute an in-memory fake.
type Repository interface {
	FindAll(ctx context.Context) ([]profile.Profile, error)
}

// Service runs read-only search and aggregation queries over the
// profile collection. Every call is a fresh, stateless read — no
// caching, no invalidation, no writes.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SearchBySkill returns every project whose tags contain skill
// (case-insensitive exact match). An empty or whitespace-only skill
// yields an empty result without touching the repository.
func (s *Service) SearchBySkill(ctx context.Context, skill string) ([]profile.Project, error) {
	skill = normalize(skill)
	if skill == "" {
		return []profile.Project{}, nil
	}

	profiles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching profiles: %w", err)
	}
	return projectsBySkill(profiles, skill), nil
}

// SearchByKeyword projects each profile against q and returns the
// qualifying matched views in repository iteration order. An empty or
// whitespace-only q yields an empty result without touching the
// repository.
func (s *Service) SearchByKeyword(ctx context.Context, q string) ([]MatchedView, error) {
	q = normalize(q)
	if q == "" {
		return []MatchedView{}, nil
	}

	profiles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching profiles: %w", err)
	}

	views := make([]MatchedView, 0, len(profiles))
	for _, p := range profiles {
		if v := matchProfile(p, q); v.qualifies() {
			views = append(views, v)
		}
	}
	return views, nil
}

// TopSkills ranks project tags by frequency across all profiles and
// returns up to limit entries, counts non-increasing. A limit <= 0
// falls back to DefaultTopSkills.
func (s *Service) TopSkills(ctx context.Context, limit int) ([]SkillCount, error) {
	if limit <= 0 {
		limit = DefaultTopSkills
	}

	profiles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching profiles: %w", err)
	}
	return topSkills(profiles, limit), nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
