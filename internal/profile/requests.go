package profile

// CreateRequest is the payload for creating a profile. It deliberately
// has no ID field: identifiers are assigned by the store, so a client
// cannot smuggle one in.
type CreateRequest struct {
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Education string           `json:"education"`
	Skills    []string         `json:"skills"`
	Projects  []Project        `json:"projects"`
	Work      []WorkExperience `json:"work"`
	Links     Links            `json:"links"`
}

// UpdateRequest is the payload for replacing an existing profile. Same
// shape as CreateRequest; the target ID comes from the URL, never the body.
type UpdateRequest = CreateRequest

// Profile builds a Profile with the given ID, defaulting absent
// collections to empty so downstream code never sees nil where a
// sequence is expected.
func (r CreateRequest) Profile(id string) Profile {
	p := Profile{
		ID:        id,
		Name:      r.Name,
		Email:     r.Email,
		Education: r.Education,
		Skills:    r.Skills,
		Projects:  r.Projects,
		Work:      r.Work,
		Links:     r.Links,
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	for i := range p.Projects {
		if p.Projects[i].PSkills == nil {
			p.Projects[i].PSkills = []string{}
		}
	}
	if p.Work == nil {
		p.Work = []WorkExperience{}
	}
	return p
}
