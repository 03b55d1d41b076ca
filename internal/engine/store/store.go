// Package store persists parsed resumes, fetched jobs, applications and
// their append-only audit trail. The default backend is SQLite under the
// data directory; setting DATABASE_URL switches to Postgres.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

// Status is the application lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusReady     Status = "ready"
	StatusSubmitted Status = "submitted"
	StatusRejected  Status = "rejected"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusCancelled Status = "cancelled"
)

// ValidStatus reports whether s names a known application status.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusDraft, StatusReady, StatusSubmitted, StatusRejected,
		StatusInterview, StatusOffer, StatusCancelled:
		return true
	}
	return false
}

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("store: not found")

// InvalidFieldError rejects an application update that names a column
// outside the update whitelist. Nothing is applied.
type InvalidFieldError struct{ Field string }

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("store: field %q is not updatable", e.Field)
}

// InvalidStatusError rejects an unknown application status value.
type InvalidStatusError struct{ Status string }

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("store: invalid status %q (valid: draft, ready, submitted, rejected, interview, offer, cancelled)", e.Status)
}

// ResumeRecord is a parsed resume row.
type ResumeRecord struct {
	ID          int64  `json:"id"`
	FilePath    string `json:"file_path"`
	FileType    string `json:"file_type"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	RawText     string `json:"-"`
	ParsedJSON  string `json:"-"`
	ProfileJSON string `json:"-"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// JobRecord is a fetched job posting row. JobID is the stable external
// identifier ("job_" + content hash), unique across fetches.
type JobRecord struct {
	ID            int64  `json:"id"`
	JobID         string `json:"job_id"`
	Title         string `json:"title,omitempty"`
	Company       string `json:"company,omitempty"`
	Location      string `json:"location,omitempty"`
	URL           string `json:"url,omitempty"`
	Salary        string `json:"salary,omitempty"`
	RawText       string `json:"-"`
	JDExtractJSON string `json:"-"`
	Platform      string `json:"platform,omitempty"`
	FetchedAt     string `json:"fetched_at"`
}

// Application is one tracked application. JobTitle and JobCompany are
// read-only display columns joined from the jobs table.
type Application struct {
	ID            int64  `json:"id"`
	ResumeID      int64  `json:"resume_id"`
	JobID         string `json:"job_id"`
	Status        Status `json:"status"`
	ATSScore      int    `json:"ats_score"`
	ATSReportJSON string `json:"-"`
	TailoredText  string `json:"-"`
	CoverLetter   string `json:"-"`
	AppliedAt     string `json:"applied_at,omitempty"`
	Platform      string `json:"platform,omitempty"`
	Notes         string `json:"notes,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
	JobTitle      string `json:"job_title,omitempty"`
	JobCompany    string `json:"job_company,omitempty"`
}

// ActionEntry is one append-only audit log row.
type ActionEntry struct {
	ID            int64  `json:"id"`
	ApplicationID int64  `json:"application_id"`
	Action        string `json:"action"`
	Detail        string `json:"detail,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// Store is the persistence boundary shared by the SQLite and Postgres
// backends.
type Store interface {
	SaveResume(ctx context.Context, r *ResumeRecord) (int64, error)
	GetResume(ctx context.Context, id int64) (*ResumeRecord, error)

	// SaveJob upserts on JobID and returns the row id.
	SaveJob(ctx context.Context, j *JobRecord) (int64, error)
	GetJob(ctx context.Context, jobID string) (*JobRecord, error)

	CreateApplication(ctx context.Context, a *Application) (int64, error)
	GetApplication(ctx context.Context, id int64) (*Application, error)
	// ActiveApplication returns the non-cancelled application for the
	// pair, or ErrNotFound. Cancelled rows never block re-application.
	ActiveApplication(ctx context.Context, resumeID int64, jobID string) (*Application, error)
	// UpdateApplication applies whitelisted fields atomically: any
	// unknown field rejects the whole update before SQL runs.
	UpdateApplication(ctx context.Context, id int64, fields map[string]any) error
	ListApplications(ctx context.Context, status string, limit int) ([]Application, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	// AverageATSScore averages over scored applications, 0 when none.
	AverageATSScore(ctx context.Context) (float64, error)

	LogAction(ctx context.Context, applicationID int64, action, detail string) error
	History(ctx context.Context, applicationID int64) ([]ActionEntry, error)

	Close() error
}

// Open connects the configured backend: Postgres when DatabaseURL is
// set, SQLite under the data directory otherwise.
func Open(ctx context.Context) (Store, error) {
	if engine.Cfg.DatabaseURL != "" {
		return openPostgres(ctx, engine.Cfg.DatabaseURL)
	}
	return openSQLite()
}

// updatable is the whitelist for UpdateApplication. The identity
// columns and created_at are never updatable.
var updatable = map[string]bool{
	"status":          true,
	"ats_score":       true,
	"ats_report_json": true,
	"tailored_text":   true,
	"cover_letter":    true,
	"applied_at":      true,
	"platform":        true,
	"notes":           true,
}

// validateUpdate checks fields against the whitelist and returns the
// names in sorted order so the generated SQL is deterministic. A status
// value is normalized to string and enum-checked.
func validateUpdate(fields map[string]any) ([]string, error) {
	if len(fields) == 0 {
		return nil, errors.New("store: update requires at least one field")
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !updatable[k] {
			return nil, &InvalidFieldError{Field: k}
		}
	}
	if v, ok := fields["status"]; ok {
		s := statusString(v)
		if !ValidStatus(s) {
			return nil, &InvalidStatusError{Status: s}
		}
		fields["status"] = s
	}
	return keys, nil
}

func statusString(v any) string {
	switch s := v.(type) {
	case Status:
		return string(s)
	case string:
		return s
	}
	return fmt.Sprint(v)
}

func rfcNow() string { return time.Now().UTC().Format(time.RFC3339) }

// applicationCols is the SELECT list shared by both backends; the jobs
// join supplies the display title and company.
const applicationCols = `a.id, a.resume_id, a.job_id, a.status, a.ats_score,
	a.ats_report_json, a.tailored_text, a.cover_letter, a.applied_at,
	a.platform, a.notes, a.created_at, a.updated_at,
	COALESCE(j.title, ''), COALESCE(j.company, '')`

const applicationFrom = ` FROM applications a LEFT JOIN jobs j ON j.job_id = a.job_id`
