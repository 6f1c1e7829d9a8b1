package profile

import (
	"reflect"
	"testing"
)

func TestCreateRequestProfile_DefaultsAbsentCollections(t *testing.T) {
	req := CreateRequest{Name: "Ada"}

	p := req.Profile("p-1")

	if p.ID != "p-1" {
		t.Errorf("ID = %q, want %q", p.ID, "p-1")
	}
	if p.Skills == nil || len(p.Skills) != 0 {
		t.Errorf("Skills = %v, want empty non-nil", p.Skills)
	}
	if p.Projects == nil || len(p.Projects) != 0 {
		t.Errorf("Projects = %v, want empty non-nil", p.Projects)
	}
	if p.Work == nil || len(p.Work) != 0 {
		t.Errorf("Work = %v, want empty non-nil", p.Work)
	}
}

func TestCreateRequestProfile_DefaultsProjectTags(t *testing.T) {
	req := CreateRequest{
		Projects: []Project{
			{Title: "Engine"},
			{Title: "Notes", PSkills: []string{"writing"}},
		},
	}

	p := req.Profile("p-1")

	if p.Projects[0].PSkills == nil || len(p.Projects[0].PSkills) != 0 {
		t.Errorf("Projects[0].PSkills = %v, want empty non-nil", p.Projects[0].PSkills)
	}
	if !reflect.DeepEqual(p.Projects[1].PSkills, []string{"writing"}) {
		t.Errorf("Projects[1].PSkills = %v, want [writing]", p.Projects[1].PSkills)
	}
}

func TestCreateRequestProfile_KeepsProvidedValues(t *testing.T) {
	req := CreateRequest{
		Name:      "Ada",
		Email:     "ada@x.com",
		Education: "London",
		Skills:    []string{"math"},
		Work:      []WorkExperience{{Company: "Babbage & Co"}},
		Links:     Links{GitHub: "https://github.com/ada"},
	}

	p := req.Profile("p-1")

	if p.Name != "Ada" || p.Email != "ada@x.com" || p.Education != "London" {
		t.Errorf("scalars not preserved: %+v", p)
	}
	if !reflect.DeepEqual(p.Skills, []string{"math"}) {
		t.Errorf("Skills = %v, want [math]", p.Skills)
	}
	if len(p.Work) != 1 || p.Work[0].Company != "Babbage & Co" {
		t.Errorf("Work = %v, want the provided entry", p.Work)
	}
	if p.Links.GitHub != "https://github.com/ada" {
		t.Errorf("Links.GitHub = %q, want the provided URL", p.Links.GitHub)
	}
}

func TestLinksEmpty(t *testing.T) {
	if !(Links{}).Empty() {
		t.Error("zero Links must be empty")
	}
	if (Links{Portfolio: "https://ada.dev"}).Empty() {
		t.Error("Links with a portfolio must not be empty")
	}
}
