package query

import "github.com/mkalra/profiled/internal/profile"

// MatchedView is a partial, read-only projection of a profile produced
// by a keyword search. Only the fields and sub-items that satisfied the
// match are present; the profile ID is always included. Never persisted.
type MatchedView struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name,omitempty"`
	Email     string                   `json:"email,omitempty"`
	Education string                   `json:"education,omitempty"`
	Skills    []string                 `json:"skills,omitempty"`
	Projects  []profile.Project        `json:"projects,omitempty"`
	Work      []profile.WorkExperience `json:"work,omitempty"`
	Links     *profile.Links           `json:"links,omitempty"`
}

// matchProfile projects p against needle. Scalar fields are included
// when they match individually; skills keep only matching entries; a
// project or work entry is included whole when any of its fields match.
func matchProfile(p profile.Profile, needle string) MatchedView {
	v := MatchedView{ID: p.ID}

	if matches(p.Name, needle) {
		v.Name = p.Name
	}
	if matches(p.Email, needle) {
		v.Email = p.Email
	}
	if matches(p.Education, needle) {
		v.Education = p.Education
	}
	v.Skills = matchAny(p.Skills, needle)

	for _, proj := range p.Projects {
		if matches(proj.Title, needle) || matches(proj.Description, needle) || matches(proj.Link, needle) {
			v.Projects = append(v.Projects, proj)
		}
	}

	for _, w := range p.Work {
		if matches(w.Role, needle) || matches(w.Company, needle) || matches(w.Duration, needle) || matches(w.Description, needle) {
			v.Work = append(v.Work, w)
		}
	}

	var links profile.Links
	if matches(p.Links.GitHub, needle) {
		links.GitHub = p.Links.GitHub
	}
	if matches(p.Links.LinkedIn, needle) {
		links.LinkedIn = p.Links.LinkedIn
	}
	if matches(p.Links.Portfolio, needle) {
		links.Portfolio = p.Links.Portfolio
	}
	if !links.Empty() {
		v.Links = &links
	}

	return v
}

// qualifies reports whether the view has at least one matched field that
// counts toward inclusion in search results. Matching only on links (or
// only on education) does not qualify a profile; this mirrors the
// long-standing behavior of the search endpoint.
func (v MatchedView) qualifies() bool {
	return v.Name != "" || v.Email != "" || len(v.Skills) > 0 || len(v.Projects) > 0 || len(v.Work) > 0
}
