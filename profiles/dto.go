package profiles

import "strings"

// UpsertProfileRequest is the payload for creating or updating a profile.
// Status and skills are required; every other field is optional and, matching
// the partial-update contract, an empty value means "leave unchanged" on an
// existing profile. Skills arrive as a single comma-separated string.
type UpsertProfileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" validate:"required" example:"Senior Developer"`
	GithubUsername string `json:"githubusername"`
	Skills         string `json:"skills" validate:"required" example:"Go,PostgreSQL,React"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

var upsertProfileMessages = map[string]string{
	"status": "Status is required",
	"skills": "Skills is required",
}

// SplitSkills normalizes a comma-separated skills string into a trimmed,
// ordered list. Empty items are dropped.
func SplitSkills(skills string) []string {
	parts := strings.Split(skills, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// AddExperienceRequest is the payload for prepending an experience entry.
type AddExperienceRequest struct {
	Title       string `json:"title" validate:"required" example:"Backend Engineer"`
	Company     string `json:"company" validate:"required" example:"Acme"`
	Location    string `json:"location"`
	From        Date   `json:"from" validate:"required"`
	To          *Date  `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

var addExperienceMessages = map[string]string{
	"title":   "Title is required",
	"company": "Company is required",
	"from":    "From date is required",
}

// AddEducationRequest is the payload for prepending an education entry.
type AddEducationRequest struct {
	School       string `json:"school" validate:"required" example:"State University"`
	Degree       string `json:"degree" validate:"required" example:"BSc"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required" example:"Computer Science"`
	From         Date   `json:"from" validate:"required"`
	To           *Date  `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

var addEducationMessages = map[string]string{
	"school":       "School is required",
	"degree":       "Degree is required",
	"fieldofstudy": "Field of study is required",
	"from":         "From date is required",
}

// MessageResponse is the body of operations that only confirm an action.
type MessageResponse struct {
	Msg string `json:"msg" example:"User deleted"`
}
