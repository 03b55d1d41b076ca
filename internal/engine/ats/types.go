// Package ats scores a parsed resume against a job description in three
// layers: formatting (max 20), keyword relevance (max 60) and data
// integrity (max 20). Layer 1 is fully deterministic; layer 2 compares
// LLM extracts of the JD and the resume; layer 3 is deterministic over
// those extracts plus the parsed resume. Without a configured LLM client
// the checker returns a partial result carrying both extraction prompts
// so the host model can finish the job.
package ats

// Severity levels for check issues. Pass issues document what was verified.
const (
	SeverityPass    = "pass"
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// StatusNeedsExternalCompletion marks a partial result whose extraction
// prompts still have to be run by the host model.
const StatusNeedsExternalCompletion = "needs_external_completion"

// Issue is a single check finding.
type Issue struct {
	Check      string `json:"check"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// SeveritySummary counts issues by severity.
type SeveritySummary struct {
	Errors   int  `json:"errors"`
	Warnings int  `json:"warnings"`
	Infos    int  `json:"infos"`
	Passed   bool `json:"passed"`
}

func countSeverities(issues []Issue) (errors, warnings, infos int) {
	for _, i := range issues {
		switch i.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		case SeverityInfo:
			infos++
		}
	}
	return errors, warnings, infos
}

// FormatterResult is the layer 1 outcome.
type FormatterResult struct {
	Layer    int             `json:"layer"`
	Name     string          `json:"name"`
	Score    int             `json:"score"`
	MaxScore int             `json:"max_score"`
	Issues   []Issue         `json:"issues"`
	Summary  SeveritySummary `json:"summary"`
}

// KeywordResult is the layer 2 outcome.
type KeywordResult struct {
	Layer           int            `json:"layer"`
	Name            string         `json:"name"`
	Score           int            `json:"score"`
	MaxScore        int            `json:"max_score"`
	MatchPercentage float64        `json:"match_percentage"`
	MatchedKeywords []string       `json:"matched_keywords"`
	InferredMatches []string       `json:"inferred_matches"`
	MissingKeywords []string       `json:"missing_keywords"`
	TotalJDKeywords int            `json:"total_jd_keywords"`
	TotalMatched    int            `json:"total_matched"`
	Issues          []Issue        `json:"issues"`
	Summary         KeywordSummary `json:"summary"`
}

// KeywordSummary is the layer 2 digest.
type KeywordSummary struct {
	MatchPct float64 `json:"match_pct"`
	Matched  int     `json:"matched"`
	Inferred int     `json:"inferred"`
	Missing  int     `json:"missing"`
}

// IntegrityResult is the layer 3 outcome.
type IntegrityResult struct {
	Layer    int             `json:"layer"`
	Name     string          `json:"name"`
	Score    int             `json:"score"`
	MaxScore int             `json:"max_score"`
	Issues   []Issue         `json:"issues"`
	Summary  SeveritySummary `json:"summary"`
}

// JDExtract is the structured job-description extract. JSON nulls for
// experience and education leave the zero value, which disables the
// corresponding integrity checks.
type JDExtract struct {
	RequiredHardSkills      []string          `json:"required_hard_skills"`
	PreferredHardSkills     []string          `json:"preferred_hard_skills"`
	SoftSkills              []string          `json:"soft_skills"`
	ExperienceRequiredYears float64           `json:"experience_required_years"`
	EducationRequired       string            `json:"education_required"`
	Acronyms                map[string]string `json:"acronyms"`
	JobTitle                string            `json:"job_title"`
	DomainKeywords          []string          `json:"domain_keywords"`
	ToolsAndFrameworks      []string          `json:"tools_and_frameworks"`
	TotalKeywordsCount      int               `json:"total_keywords_count"`
}

// InferredSkill is a skill demonstrated in resume bullet text without
// being listed in a skills section.
type InferredSkill struct {
	Skill      string `json:"skill"`
	Evidence   string `json:"evidence,omitempty"`
	Confidence string `json:"confidence,omitempty"`
}

// JobPeriod is one employment entry from the resume extract.
type JobPeriod struct {
	Title          string `json:"title"`
	Company        string `json:"company"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	DurationMonths int    `json:"duration_months,omitempty"`
}

// Education is one degree entry from the resume extract.
type Education struct {
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        int    `json:"year,omitempty"`
}

// ResumeExtract is the structured resume extract.
type ResumeExtract struct {
	HardSkills           []string        `json:"hard_skills"`
	InferredSkills       []InferredSkill `json:"inferred_skills"`
	SoftSkills           []string        `json:"soft_skills"`
	JobTitles            []JobPeriod     `json:"job_titles"`
	TotalExperienceYears float64         `json:"total_experience_years"`
	Education            []Education     `json:"education"`
	Certifications       []string        `json:"certifications"`
	Domains              []string        `json:"domains"`
	AcronymsUsed         map[string]bool `json:"acronyms_used"`
}

// Report is the combined three-layer result.
type Report struct {
	JobTitle        string           `json:"job_title"`
	Company         string           `json:"company"`
	OverallScore    int              `json:"overall_score"`
	MaxScore        int              `json:"max_score"`
	Grade           string           `json:"grade"`
	GradeIcon       string           `json:"grade_icon"`
	MatchPercentage float64          `json:"match_percentage"`
	Formatting      *FormatterResult `json:"formatting"`
	Keywords        *KeywordResult   `json:"keywords"`
	Integrity       *IntegrityResult `json:"integrity"`
	MatchedKeywords []string         `json:"matched_keywords"`
	MissingKeywords []string         `json:"missing_keywords"`
	FormattedText   string           `json:"formatted_text"`
}

// PartialResult is returned when the extracts need the host model.
// Layer 1 is already complete; the caller runs both prompts and resumes
// via CheckWithExtracts.
type PartialResult struct {
	Status                 string           `json:"status"`
	Layer1Complete         *FormatterResult `json:"layer1_complete"`
	JDExtractionPrompt     string           `json:"jd_extraction_prompt"`
	ResumeExtractionPrompt string           `json:"resume_extraction_prompt"`
	JobTitle               string           `json:"job_title"`
	Company                string           `json:"company"`
	Instruction            string           `json:"instruction"`
}
