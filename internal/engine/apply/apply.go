// Package apply gates application submission behind explicit user
// confirmation. Prepare creates a draft and returns a summary of
// everything that would be sent; nothing is marked submitted until
// Confirm is called with the draft's id. Every transition that touches
// a record lands in the append-only action log.
package apply

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/store"
)

const defaultMinATSScore = 60

// Rejection reasons. Rejections are guard-rail refusals carried as
// values in result structs; the operation succeeded by declining.
const (
	ReasonBelowThreshold = "ats_below_threshold"
	ReasonDuplicate      = "duplicate_application"
	ReasonInvalidState   = "invalid_state"
)

// Rejection explains why a guard rail declined the request.
type Rejection struct {
	Reason         string `json:"reason"`
	Message        string `json:"message"`
	Suggestion     string `json:"suggestion,omitempty"`
	Threshold      int    `json:"threshold,omitempty"`
	ExistingID     int64  `json:"existing_id,omitempty"`
	ExistingStatus string `json:"existing_status,omitempty"`
}

// Agent runs the prepare/confirm/cancel state machine over a store.
type Agent struct {
	store store.Store
}

func NewAgent(st store.Store) *Agent { return &Agent{store: st} }

// PrepareRequest carries everything the user intends to submit.
// ATSScore 0 means the resume was never scored; the threshold gate
// only fires on a real score.
type PrepareRequest struct {
	ResumeID      int64
	JobID         string
	TailoredText  string
	CoverLetter   string
	ATSScore      int
	ATSReportJSON string
	Override      bool // skip the minimum-score gate
}

// Summary is the human-review view of a prepared application.
type Summary struct {
	Candidate         string `json:"candidate"`
	Position          string `json:"position"`
	Company           string `json:"company"`
	Platform          string `json:"platform,omitempty"`
	URL               string `json:"url,omitempty"`
	ATSScore          int    `json:"ats_score,omitempty"`
	HasTailoredResume bool   `json:"has_tailored_resume"`
	HasCoverLetter    bool   `json:"has_cover_letter"`
}

// PrepareResult is either a draft awaiting confirmation or a Rejection.
type PrepareResult struct {
	Rejection            *Rejection `json:"rejection,omitempty"`
	ApplicationID        int64      `json:"application_id,omitempty"`
	Status               string     `json:"status,omitempty"`
	RequiresConfirmation bool       `json:"requires_confirmation,omitempty"`
	Summary              *Summary   `json:"summary,omitempty"`
	ConfirmationMessage  string     `json:"confirmation_message,omitempty"`
}

// ConfirmResult reports a submission, or a Rejection naming the state
// that blocked it.
type ConfirmResult struct {
	Rejection     *Rejection `json:"rejection,omitempty"`
	ApplicationID int64      `json:"application_id,omitempty"`
	Status        string     `json:"status,omitempty"`
	AppliedAt     string     `json:"applied_at,omitempty"`
	Message       string     `json:"message,omitempty"`
}

// CancelResult reports a cancellation. Cancel has no rejection arm.
type CancelResult struct {
	ApplicationID int64  `json:"application_id"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

func minScore() int {
	if engine.Cfg.MinATSScore > 0 {
		return engine.Cfg.MinATSScore
	}
	return defaultMinATSScore
}

// Prepare creates a draft application after the guard rails pass: the
// ATS score must clear the minimum (unless overridden) and the
// resume/job pair must have no other live application. Validation
// failures return errors and touch nothing; rejections are values.
func (a *Agent) Prepare(ctx context.Context, req PrepareRequest) (*PrepareResult, error) {
	if req.ATSScore > 0 && req.ATSScore < minScore() && !req.Override {
		return &PrepareResult{Rejection: &Rejection{
			Reason:    ReasonBelowThreshold,
			Message:   fmt.Sprintf("ATS score %d/100 is below the minimum threshold (%d).", req.ATSScore, minScore()),
			Threshold: minScore(),
			Suggestion: "Tailor your resume first to improve ATS compatibility, " +
				"or set override to skip this check.",
		}}, nil
	}

	res, err := a.store.GetResume(ctx, req.ResumeID)
	if err != nil {
		return nil, fmt.Errorf("apply: resume %d: %w", req.ResumeID, err)
	}
	job, err := a.store.GetJob(ctx, req.JobID)
	if err != nil {
		return nil, fmt.Errorf("apply: job %s: %w", req.JobID, err)
	}

	existing, err := a.store.ActiveApplication(ctx, req.ResumeID, req.JobID)
	switch {
	case err == nil:
		return &PrepareResult{Rejection: &Rejection{
			Reason:         ReasonDuplicate,
			Message:        "An application already exists for this resume + job combination.",
			ExistingID:     existing.ID,
			ExistingStatus: string(existing.Status),
			Suggestion:     "Use the existing application or cancel it first.",
		}}, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("apply: duplicate check: %w", err)
	}

	app := &store.Application{
		ResumeID:      req.ResumeID,
		JobID:         req.JobID,
		Status:        store.StatusDraft,
		ATSScore:      req.ATSScore,
		ATSReportJSON: req.ATSReportJSON,
		TailoredText:  req.TailoredText,
		CoverLetter:   req.CoverLetter,
		Platform:      job.Platform,
	}
	id, err := a.store.CreateApplication(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("apply: create: %w", err)
	}
	detail := fmt.Sprintf("%s at %s (ats %d)", job.Title, job.Company, req.ATSScore)
	if err := a.store.LogAction(ctx, id, "prepared", detail); err != nil {
		return nil, fmt.Errorf("apply: log prepared: %w", err)
	}
	engine.IncrApplicationsPrepared()

	summary := &Summary{
		Candidate:         orUnknown(res.Name),
		Position:          orUnknown(job.Title),
		Company:           orUnknown(job.Company),
		Platform:          job.Platform,
		URL:               job.URL,
		ATSScore:          req.ATSScore,
		HasTailoredResume: req.TailoredText != "",
		HasCoverLetter:    req.CoverLetter != "",
	}
	return &PrepareResult{
		ApplicationID:        id,
		Status:               string(store.StatusDraft),
		RequiresConfirmation: true,
		Summary:              summary,
		ConfirmationMessage:  confirmationMessage(summary),
	}, nil
}

// Confirm marks a prepared application as submitted. Only draft and
// ready records are confirmable; the same timestamp is written to the
// row and to the confirmed log entry.
func (a *Agent) Confirm(ctx context.Context, id int64) (*ConfirmResult, error) {
	app, err := a.store.GetApplication(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("apply: application %d: %w", id, err)
	}
	if app.Status != store.StatusDraft && app.Status != store.StatusReady {
		return &ConfirmResult{Rejection: &Rejection{
			Reason:     ReasonInvalidState,
			Message:    fmt.Sprintf("Application %d is in '%s' state — cannot submit", id, app.Status),
			Suggestion: "Only 'draft' or 'ready' applications can be submitted",
		}}, nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	err = a.store.UpdateApplication(ctx, id, map[string]any{
		"status":     store.StatusSubmitted,
		"applied_at": now,
	})
	if err != nil {
		return nil, fmt.Errorf("apply: confirm %d: %w", id, err)
	}
	if err := a.store.LogAction(ctx, id, "confirmed", "applied_at "+now); err != nil {
		return nil, fmt.Errorf("apply: log confirmed: %w", err)
	}
	engine.IncrApplicationsConfirmed()

	return &ConfirmResult{
		ApplicationID: id,
		Status:        string(store.StatusSubmitted),
		AppliedAt:     now,
		Message:       "Application marked as submitted! Good luck! 🎯",
	}, nil
}

// Cancel withdraws an application from any state, including an already
// cancelled one; each call appends its own log entry.
func (a *Agent) Cancel(ctx context.Context, id int64, reason string) (*CancelResult, error) {
	if _, err := a.store.GetApplication(ctx, id); err != nil {
		return nil, fmt.Errorf("apply: application %d: %w", id, err)
	}

	notes := "Cancelled by user"
	if reason != "" {
		notes = "Cancelled: " + reason
	}
	err := a.store.UpdateApplication(ctx, id, map[string]any{
		"status": store.StatusCancelled,
		"notes":  notes,
	})
	if err != nil {
		return nil, fmt.Errorf("apply: cancel %d: %w", id, err)
	}
	detail := reason
	if detail == "" {
		detail = "cancelled by user"
	}
	if err := a.store.LogAction(ctx, id, "cancelled", detail); err != nil {
		return nil, fmt.Errorf("apply: log cancelled: %w", err)
	}
	engine.IncrApplicationsCancelled()

	return &CancelResult{
		ApplicationID: id,
		Status:        string(store.StatusCancelled),
		Message:       "Application cancelled. You can re-apply later.",
	}, nil
}

func confirmationMessage(s *Summary) string {
	lines := []string{
		"═══ Application Summary ═══",
		"Candidate:  " + s.Candidate,
		"Position:   " + s.Position,
		"Company:    " + s.Company,
	}
	if s.URL != "" {
		lines = append(lines, "Job URL:    "+s.URL)
	}
	if s.ATSScore > 0 {
		lines = append(lines, fmt.Sprintf("ATS Score:  %d/100", s.ATSScore))
	}
	resumeLine := "📄 Original"
	if s.HasTailoredResume {
		resumeLine = "✅ Tailored"
	}
	letterLine := "❌ Not included"
	if s.HasCoverLetter {
		letterLine = "✅ Generated"
	}
	lines = append(lines,
		"Resume:     "+resumeLine,
		"Cover Letter: "+letterLine,
		"",
		"⚠️  Do you want to proceed with this application?",
		"    Reply 'yes' to confirm or 'no' to cancel.",
		strings.Repeat("═", 30),
	)
	return strings.Join(lines, "\n")
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
