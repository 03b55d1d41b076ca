// Package jobs acquires job postings: single postings come from a URL
// or pasted text and are structured by the LLM into JobDetails, listings
// come from public job-board APIs. Every fetched posting is persisted so
// ATS checks and applications can reference it by job_id.
package jobs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/store"
)

// Fetch result statuses.
const (
	// StatusSuccess marks a fully structured fetch.
	StatusSuccess = "success"
	// StatusNeedsExternalCompletion marks a fetch whose structuring
	// prompt still has to be run by the host model. The posting is
	// persisted either way; details stay empty until then.
	StatusNeedsExternalCompletion = "needs_external_completion"
)

// maxPromptChars caps how much posting text goes into the structuring
// prompt. The stored raw text is not capped.
const maxPromptChars = 5000

// parseInstruction tells the host model what to do with ParsePrompt.
const parseInstruction = `No LLM client is configured. Run parse_prompt through your own model to get the structured job JSON. The raw posting is already saved under job_id, so ats_check and prepare_application work without it.`

// FetchRequest identifies a posting: either a URL to scrape or pasted
// text, never both. Title and Company are optional hints used when the
// page (or text) does not state them.
type FetchRequest struct {
	URL     string
	Text    string
	Title   string
	Company string
}

// JobDetails is the LLM-structured view of one posting.
type JobDetails struct {
	Title              string       `json:"title"`
	Company            string       `json:"company"`
	Location           string       `json:"location"`
	SalaryRange        string       `json:"salary_range"`
	ExperienceRequired string       `json:"experience_required"`
	EmploymentType     string       `json:"employment_type"`
	Requirements       Requirements `json:"requirements"`
	Responsibilities   []string     `json:"responsibilities"`
	DescriptionSummary string       `json:"description_summary"`
}

// Requirements splits must-have from nice-to-have asks.
type Requirements struct {
	MustHave   []string `json:"must_have"`
	NiceToHave []string `json:"nice_to_have"`
}

// FetchResult is the outcome of a fetch. Job is the persisted record.
type FetchResult struct {
	Status        string           `json:"status"`
	JobID         string           `json:"job_id"`
	Job           *store.JobRecord `json:"job"`
	Details       *JobDetails      `json:"details,omitempty"`
	RawTextLength int              `json:"raw_text_length"`
	ParsePrompt   string           `json:"parse_prompt,omitempty"`
	Instruction   string           `json:"instruction,omitempty"`
}

// JobID derives the stable external id for a posting. URL-mode ids hash
// the URL so re-fetching the same page updates one row; text-mode ids
// hash the hints plus the pasted content.
func JobID(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return "job_" + hex.EncodeToString(sum[:])[:8]
}

// FetchJob scrapes (or accepts) a posting, structures it through the
// LLM and persists the record. Without an LLM client the raw posting is
// still saved and the structuring prompt is handed back.
func FetchJob(ctx context.Context, st store.Store, req FetchRequest) (*FetchResult, error) {
	if req.URL != "" && req.Text != "" {
		return nil, errors.New("jobs: provide either a URL or pasted job description text, not both")
	}
	if req.URL == "" && strings.TrimSpace(req.Text) == "" {
		return nil, errors.New("jobs: provide either a URL or pasted job description text")
	}

	rec := &store.JobRecord{
		Title:   strings.TrimSpace(req.Title),
		Company: strings.TrimSpace(req.Company),
	}

	var text string
	if req.URL != "" {
		body, err := engine.FetchPage(ctx, req.URL)
		if err != nil {
			return nil, err
		}
		pc, err := extractJobPage(body)
		if err != nil {
			return nil, err
		}
		if pc.Description == "" {
			return nil, fmt.Errorf("jobs: could not extract a job description from %s", req.URL)
		}
		text = pc.Description
		if rec.Title == "" {
			rec.Title = pc.Title
		}
		if rec.Company == "" {
			rec.Company = pc.Company
		}
		rec.JobID = JobID(req.URL)
		rec.URL = req.URL
		rec.Platform = detectPlatform(req.URL)
	} else {
		text = strings.TrimSpace(req.Text)
		rec.JobID = JobID(rec.Title + rec.Company + text)
	}
	rec.RawText = text

	prompt := fmt.Sprintf(engine.PromptJobParse,
		engine.SanitizeContent(engine.Truncate(text, maxPromptChars), "JOB_POSTING"),
		hintLine("Known title", rec.Title),
		hintLine("Known company", rec.Company))

	details, comp, err := engine.CompleteJSON[JobDetails](ctx, engine.JobParseSystem, prompt)
	if err != nil {
		return nil, fmt.Errorf("jobs: structure posting: %w", err)
	}

	res := &FetchResult{JobID: rec.JobID, RawTextLength: len(text)}
	if comp.Pending() {
		res.Status = StatusNeedsExternalCompletion
		res.ParsePrompt = comp.Prompt()
		res.Instruction = parseInstruction
	} else {
		res.Status = StatusSuccess
		res.Details = &details
		mergeDetails(rec, &details)
	}

	if _, err := st.SaveJob(ctx, rec); err != nil {
		return nil, err
	}
	res.Job = rec

	slog.Info("job fetched",
		slog.String("job_id", rec.JobID),
		slog.String("status", res.Status),
		slog.String("platform", rec.Platform),
		slog.Int("chars", len(text)))
	return res, nil
}

// mergeDetails copies structured fields onto the record. Model output
// wins over scraped hints since it has seen the whole posting.
func mergeDetails(rec *store.JobRecord, d *JobDetails) {
	if d.Title != "" {
		rec.Title = d.Title
	}
	if d.Company != "" {
		rec.Company = d.Company
	}
	rec.Location = d.Location
	rec.Salary = d.SalaryRange
	if raw, err := json.Marshal(d); err == nil {
		rec.JDExtractJSON = string(raw)
	}
}

func hintLine(label, value string) string {
	if value == "" {
		return ""
	}
	return label + ": " + value
}

// detectPlatform maps a posting URL to the board it came from.
func detectPlatform(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch {
	case strings.Contains(host, "greenhouse.io"):
		return "greenhouse"
	case strings.Contains(host, "lever.co"):
		return "lever"
	case strings.Contains(host, "linkedin.com"):
		return "linkedin"
	case strings.Contains(host, "indeed.com"):
		return "indeed"
	case strings.Contains(host, "naukri.com"):
		return "naukri"
	case strings.Contains(host, "remoteok.com"):
		return "remoteok"
	case strings.Contains(host, "remotive.com"):
		return "remotive"
	case host == "news.ycombinator.com":
		return "hn"
	}
	return ""
}
