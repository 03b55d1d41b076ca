package apply

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_apply/internal/engine/store"
)

// Tracker reports on application status across the pipeline.
type Tracker struct {
	store store.Store
}

func NewTracker(st store.Store) *Tracker { return &Tracker{store: st} }

// HistoryResult pairs an application with its full audit trail.
type HistoryResult struct {
	Application *store.Application  `json:"application"`
	History     []store.ActionEntry `json:"history"`
}

// DashboardResult summarises every application on file.
type DashboardResult struct {
	TotalApplications int                 `json:"total_applications"`
	StatusBreakdown   map[string]int      `json:"status_breakdown"`
	AverageATSScore   float64             `json:"average_ats_score,omitempty"`
	Recent            []store.Application `json:"recent_applications"`
	Formatted         string              `json:"formatted"`
}

var statusIcons = map[string]string{
	"draft":     "📝",
	"ready":     "✅",
	"submitted": "📤",
	"rejected":  "❌",
	"interview": "🎯",
	"offer":     "🎉",
}

// UpdateStatus moves an application to a new status, appends a log
// entry, and returns the updated row. Status values are validated by
// the store's update whitelist.
func (t *Tracker) UpdateStatus(ctx context.Context, id int64, status, notes string) (*store.Application, error) {
	fields := map[string]any{"status": status}
	if notes != "" {
		fields["notes"] = notes
	}
	if err := t.store.UpdateApplication(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("apply: update status: %w", err)
	}
	detail := "status " + status
	if notes != "" {
		detail += ": " + notes
	}
	if err := t.store.LogAction(ctx, id, "status_updated", detail); err != nil {
		return nil, fmt.Errorf("apply: log status: %w", err)
	}
	return t.store.GetApplication(ctx, id)
}

// List returns applications, optionally filtered by status, newest first.
func (t *Tracker) List(ctx context.Context, status string, limit int) ([]store.Application, error) {
	return t.store.ListApplications(ctx, status, limit)
}

// History returns an application and its action log, oldest entry first.
func (t *Tracker) History(ctx context.Context, id int64) (*HistoryResult, error) {
	app, err := t.store.GetApplication(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("apply: application %d: %w", id, err)
	}
	entries, err := t.store.History(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("apply: history %d: %w", id, err)
	}
	return &HistoryResult{Application: app, History: entries}, nil
}

// Dashboard aggregates counts by status, the average ATS score of
// scored applications, and the ten most recent records.
func (t *Tracker) Dashboard(ctx context.Context) (*DashboardResult, error) {
	counts, err := t.store.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply: dashboard counts: %w", err)
	}
	avg, err := t.store.AverageATSScore(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply: dashboard average: %w", err)
	}
	avg = math.Round(avg*10) / 10
	recent, err := t.store.ListApplications(ctx, "", 10)
	if err != nil {
		return nil, fmt.Errorf("apply: dashboard recent: %w", err)
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	return &DashboardResult{
		TotalApplications: total,
		StatusBreakdown:   counts,
		AverageATSScore:   avg,
		Recent:            recent,
		Formatted:         formatDashboard(total, counts, avg, recent),
	}, nil
}

func formatDashboard(total int, counts map[string]int, avg float64, recent []store.Application) string {
	rule := strings.Repeat("━", 40)
	lines := []string{
		"Job Application Tracker",
		rule,
		fmt.Sprintf("Total Applications: %d", total),
	}
	if avg > 0 {
		lines = append(lines, "Average ATS Score:  "+strconv.FormatFloat(avg, 'f', 1, 64))
	}

	lines = append(lines, "", "Status Breakdown:")
	statuses := make([]string, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		icon, ok := statusIcons[s]
		if !ok {
			icon = "•"
		}
		lines = append(lines, fmt.Sprintf("  %s %s: %d", icon, titleCase(s), counts[s]))
	}

	if len(recent) > 0 {
		lines = append(lines, "", "Recent Applications:")
		show := recent
		if len(show) > 5 {
			show = show[:5]
		}
		for _, a := range show {
			ats := "N/A"
			if a.ATSScore > 0 {
				ats = strconv.Itoa(a.ATSScore)
			}
			lines = append(lines, fmt.Sprintf("  • %s @ %s — %s (ATS: %s)",
				orUnknown(a.JobTitle), orUnknown(a.JobCompany), a.Status, ats))
		}
	}

	lines = append(lines, rule)
	return strings.Join(lines, "\n")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
