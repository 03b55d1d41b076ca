// Package tailor rewrites resumes for specific jobs and writes cover
// letters. Every successful tailoring is bound to a single-use token so
// the exported document is exactly the text the user confirmed.
package tailor

import (
	"context"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go-kit/llm"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/diff"
)

// Prompt size caps, in runes. Resumes and JDs are truncated before they
// go into a prompt so a long document cannot blow the context window.
const (
	tailorResumeChars = 3500
	tailorJDChars     = 1000
	letterResumeChars = 2000
	letterJDChars     = 2000
	maxPromptKeywords = 15
	maxPromptIssues   = 10
)

// Request carries the inputs for one tailoring run. Issues are
// pre-rendered "- message → suggestion" lines from an ATS report.
type Request struct {
	ResumeText      string
	JobTitle        string
	Company         string
	JobDescription  string
	MissingKeywords []string
	Issues          []string
}

// Result is a finished tailoring with its confirmation material.
type Result struct {
	OriginalText          string       `json:"original_text"`
	TailoredText          string       `json:"tailored_text"`
	Diff                  *diff.Result `json:"diff"`
	JobTitle              string       `json:"job_title"`
	Company               string       `json:"company"`
	RequiresConfirmation  bool         `json:"requires_confirmation"`
	ConfirmationMessage   string       `json:"confirmation_message"`
	TailorToken           string       `json:"tailor_token"`
	TokenExpiresInMinutes int          `json:"token_expires_in_minutes"`
}

// LetterRequest carries the inputs for one cover letter.
type LetterRequest struct {
	ResumeText     string
	CandidateName  string
	JobTitle       string
	Company        string
	JobDescription string
	HiringManager  string
	Tone           string // defaults to "professional"
}

// Letter is a finished cover letter.
type Letter struct {
	CoverLetter   string `json:"cover_letter"`
	JobTitle      string `json:"job_title"`
	Company       string `json:"company"`
	WordCount     int    `json:"word_count"`
	CandidateName string `json:"candidate_name"`
}

// Tailor rewrites the resume for the job and issues a tailor token.
// In external-completion mode the returned Completion is pending and
// the Result is nil.
func Tailor(ctx context.Context, req Request) (*Result, engine.Completion, error) {
	title := req.JobTitle
	if title == "" {
		title = "the role"
	}
	company := req.Company
	if company == "" {
		company = "the company"
	}

	prompt := fmt.Sprintf(engine.PromptTailor,
		engine.SanitizeContent(engine.TruncateRunes(req.ResumeText, tailorResumeChars, ""), "RESUME"),
		title,
		company,
		engine.SanitizeContent(engine.TruncateRunes(req.JobDescription, tailorJDChars, ""), "JOB_DESCRIPTION"),
		keywordsLine(req.MissingKeywords),
		issuesBlock(req.Issues),
	)

	comp, err := engine.Generate(ctx, engine.TailorSystem, prompt, llm.WithChatTemperature(0.3))
	if err != nil || comp.Pending() {
		return nil, comp, err
	}

	tailored := comp.Text()
	d := diff.Compare(req.ResumeText, tailored)
	token, ttl := IssueToken(tailored)
	engine.IncrTailorings()

	return &Result{
		OriginalText:         req.ResumeText,
		TailoredText:         tailored,
		Diff:                 d,
		JobTitle:             title,
		Company:              company,
		RequiresConfirmation: true,
		ConfirmationMessage: fmt.Sprintf(
			"Review the changes above (%d modifications). Do you want to apply these changes to your resume?",
			d.Statistics.TotalChanges),
		TailorToken:           token,
		TokenExpiresInMinutes: int(ttl.Minutes()),
	}, comp, nil
}

// CoverLetter writes a personalised cover letter for the application.
func CoverLetter(ctx context.Context, req LetterRequest) (*Letter, engine.Completion, error) {
	title := req.JobTitle
	if title == "" {
		title = "the role"
	}
	company := req.Company
	if company == "" {
		company = "the company"
	}
	name := req.CandidateName
	if name == "" {
		name = "the candidate"
	}
	tone := req.Tone
	if tone == "" {
		tone = "professional"
	}
	manager := req.HiringManager
	if manager == "" {
		manager = "Unknown (address the hiring team)"
	}

	prompt := fmt.Sprintf(engine.PromptCoverLetter,
		name,
		engine.SanitizeContent(engine.TruncateRunes(req.ResumeText, letterResumeChars, ""), "RESUME"),
		title,
		company,
		engine.SanitizeContent(engine.TruncateRunes(req.JobDescription, letterJDChars, ""), "JOB_DESCRIPTION"),
		manager,
		tone,
		company,
	)

	comp, err := engine.Generate(ctx, engine.CoverLetterSystem, prompt, llm.WithChatTemperature(0.5))
	if err != nil || comp.Pending() {
		return nil, comp, err
	}

	text := comp.Text()
	engine.IncrCoverLetters()

	return &Letter{
		CoverLetter:   text,
		JobTitle:      title,
		Company:       company,
		WordCount:     len(strings.Fields(text)),
		CandidateName: name,
	}, comp, nil
}

func keywordsLine(keywords []string) string {
	if len(keywords) == 0 {
		return "None identified"
	}
	if len(keywords) > maxPromptKeywords {
		keywords = keywords[:maxPromptKeywords]
	}
	return strings.Join(keywords, ", ")
}

func issuesBlock(issues []string) string {
	if len(issues) == 0 {
		return "No major issues"
	}
	if len(issues) > maxPromptIssues {
		issues = issues[:maxPromptIssues]
	}
	return strings.Join(issues, "\n")
}
