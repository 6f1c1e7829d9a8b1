package profile

// Profile is the single user record holding identity and career data.
// The store assigns the ID on create; at most one live profile exists
// at a time (enforced by the store, not by callers).
type Profile struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Education string           `json:"education"`
	Skills    []string         `json:"skills"`
	Projects  []Project        `json:"projects"`
	Work      []WorkExperience `json:"work"`
	Links     Links            `json:"links"`
}

// Project is a sub-entity owned by a Profile. It has no identity of its
// own and is addressed only by position within the owning profile.
// PSkills are the project's own tags, distinct from the profile-level
// Skills list.
type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	PSkills     []string `json:"pskills"`
}

// WorkExperience is a sub-entity owned by a Profile. All fields are
// optional in practice.
type WorkExperience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Links holds the profile's external links. Keys are fixed; empty
// values mean the link is not set.
type Links struct {
	GitHub    string `json:"github,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

// Empty reports whether no link is set.
func (l Links) Empty() bool {
	return l.GitHub == "" && l.LinkedIn == "" && l.Portfolio == ""
}
