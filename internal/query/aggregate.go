package query

import (
	"sort"
	"strings"

	"github.com/mkalra/profiled/internal/profile"
)

// SkillCount is one entry of a skill-frequency ranking.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// topSkills counts lower-cased project tags across every project of
// every profile and returns up to limit entries sorted by count
// descending. Ties keep first-seen order: the sort is stable over the
// profiles → projects → pskills traversal.
func topSkills(profiles []profile.Profile, limit int) []SkillCount {
	counts := make(map[string]int)
	var order []string

	for _, p := range profiles {
		for _, proj := range p.Projects {
			for _, tag := range proj.PSkills {
				tag = strings.ToLower(tag)
				if _, seen := counts[tag]; !seen {
					order = append(order, tag)
				}
				counts[tag]++
			}
		}
	}

	ranked := make([]SkillCount, 0, len(order))
	for _, tag := range order {
		ranked = append(ranked, SkillCount{Skill: tag, Count: counts[tag]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
