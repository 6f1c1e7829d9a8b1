package query

import (
	"strings"

	"github.com/mkalra/profiled/internal/profile"
)

// projectsBySkill returns every project, across all profiles, whose
// pskills contain skill — exact match, case-insensitive, not substring.
// The caller lower-cases skill and guarantees it is non-empty.
func projectsBySkill(profiles []profile.Profile, skill string) []profile.Project {
	out := []profile.Project{}
	for _, p := range profiles {
		for _, proj := range p.Projects {
			for _, tag := range proj.PSkills {
				if strings.ToLower(tag) == skill {
					out = append(out, proj)
					break
				}
			}
		}
	}
	return out
}
