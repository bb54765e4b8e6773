package models

import (
	"fmt"
)

type EmploymentType string

const (
	FullTime   EmploymentType = "Full-time"
	PartTime   EmploymentType = "Part-time"
	Internship EmploymentType = "Internship"
	Freelance  EmploymentType = "Freelance"
)

var EmploymentTypes = []EmploymentType{FullTime, PartTime, Internship, Freelance}

type ExperienceLevel string

const (
	EntryLevel ExperienceLevel = "Entry-level"
	MidLevel   ExperienceLevel = "Mid-level"
	Senior     ExperienceLevel = "Senior"
)

var ExperienceLevels = []ExperienceLevel{EntryLevel, MidLevel, Senior}

// Document field names shared by every store backend.
const (
	FieldTitle           = "title"
	FieldCompany         = "company"
	FieldLocation        = "location"
	FieldType            = "type"
	FieldExperienceLevel = "experienceLevel"
	FieldTrack           = "track"
	FieldSkills          = "skills"
	FieldDescription     = "description"
	FieldLogo            = "logo"
	FieldSeeded          = "seeded"
	FieldSeedBatch       = "seedBatch"
)

type JobPosting struct {
	Title           string          `json:"title"`
	Company         string          `json:"company"`
	Location        string          `json:"location"`
	Type            EmploymentType  `json:"type"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
	Track           string          `json:"track"`
	Skills          []string        `json:"skills"`
	Description     string          `json:"description"`
	Logo            string          `json:"logo"`
}

func (j JobPosting) Validate() error {
	if j.Title == "" || j.Company == "" {
		return fmt.Errorf("job posting requires title and company")
	}
	if !validEmploymentType(j.Type) {
		return fmt.Errorf("job posting %q: unknown employment type %q", j.Title, j.Type)
	}
	if !validExperienceLevel(j.ExperienceLevel) {
		return fmt.Errorf("job posting %q: unknown experience level %q", j.Title, j.ExperienceLevel)
	}
	return nil
}

// ToDocument renders the posting in the collection's field layout. The
// seed marker is attached only when batchID is non-empty.
func (j JobPosting) ToDocument(batchID string) map[string]any {
	skills := make([]any, len(j.Skills))
	for i, s := range j.Skills {
		skills[i] = s
	}

	doc := map[string]any{
		FieldTitle:           j.Title,
		FieldCompany:         j.Company,
		FieldLocation:        j.Location,
		FieldType:            string(j.Type),
		FieldExperienceLevel: string(j.ExperienceLevel),
		FieldTrack:           j.Track,
		FieldSkills:          skills,
		FieldDescription:     j.Description,
		FieldLogo:            j.Logo,
	}
	if batchID != "" {
		doc[FieldSeeded] = true
		doc[FieldSeedBatch] = batchID
	}
	return doc
}

func validEmploymentType(t EmploymentType) bool {
	for _, known := range EmploymentTypes {
		if t == known {
			return true
		}
	}
	return false
}

func validExperienceLevel(l ExperienceLevel) bool {
	for _, known := range ExperienceLevels {
		if l == known {
			return true
		}
	}
	return false
}
