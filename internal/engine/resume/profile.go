package resume

import (
	"context"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go-kit/llm"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

// Profile is the LLM-extracted professional profile used for job search
// query generation and dashboards.
type Profile struct {
	Name                 string   `json:"name"`
	CurrentTitle         string   `json:"current_title"`
	Seniority            string   `json:"seniority"`
	TotalExperienceYears float64  `json:"total_experience_years"`
	TopSkills            []string `json:"top_skills"`
	Domains              []string `json:"domains"`
	Achievements         []string `json:"achievements"`
	EducationLevel       string   `json:"education_level"`
	PreferredRoles       []string `json:"preferred_roles"`
	SearchKeywords       []string `json:"search_keywords"`
}

// SearchQuery is a suggested job-board query derived from a profile.
type SearchQuery struct {
	Query string `json:"query"`
	Type  string `json:"type"` // role_title | keyword | skills
}

// BuildProfile extracts a professional profile from a parsed resume.
// Without an LLM client the returned Completion is pending and carries
// the prompt for the caller to run.
func BuildProfile(ctx context.Context, res *Resume) (Profile, engine.Completion, error) {
	name := res.Contact.Name
	if name == "" {
		name = "Unknown"
	}
	email := res.Contact.Email
	if email == "" {
		email = "Not found"
	}

	prompt := fmt.Sprintf(engine.PromptProfile,
		engine.SanitizeContent(res.RawText, "RESUME"), name, email)

	return engine.CompleteJSON[Profile](ctx, engine.ProfileSystem, prompt,
		llm.WithChatTemperature(0.2))
}

// SearchQueries derives job-board queries from the profile: up to three
// role titles, up to three keywords not already covered by a role, and
// one combined query from the top skills.
func (p Profile) SearchQueries() []SearchQuery {
	var queries []SearchQuery

	roles := p.PreferredRoles
	if len(roles) > 3 {
		roles = roles[:3]
	}
	for _, role := range roles {
		queries = append(queries, SearchQuery{Query: role, Type: "role_title"})
	}

	covered := make(map[string]bool, len(p.PreferredRoles))
	for _, r := range p.PreferredRoles {
		covered[strings.ToLower(r)] = true
	}

	keywords := p.SearchKeywords
	if len(keywords) > 3 {
		keywords = keywords[:3]
	}
	for _, kw := range keywords {
		if covered[strings.ToLower(kw)] {
			continue
		}
		queries = append(queries, SearchQuery{Query: kw, Type: "keyword"})
	}

	if len(p.TopSkills) > 0 {
		skills := p.TopSkills
		if len(skills) > 4 {
			skills = skills[:4]
		}
		queries = append(queries, SearchQuery{Query: strings.Join(skills, " "), Type: "skills"})
	}
	return queries
}
