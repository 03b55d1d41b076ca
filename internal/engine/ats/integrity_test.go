package ats

import (
	"strings"
	"testing"
	"time"

	"github.com/anatolykoptev/go_apply/internal/engine/resume"
)

func integrityResume(rawText string) *resume.Resume {
	return &resume.Resume{
		FileInfo: resume.FileInfo{Type: "pdf"},
		RawText:  rawText,
	}
}

func TestIntegrityMissingContact(t *testing.T) {
	res := integrityResume("Jane Roe\nSenior Engineer\nBuilt things at scale")

	got := CheckIntegrity(res, &ResumeExtract{}, nil)

	// Missing email is an error (−3), missing phone a warning (−2).
	if got.Score != 15 {
		t.Fatalf("score = %d, want 15", got.Score)
	}
	if got.Summary.Errors != 1 || got.Summary.Warnings != 1 {
		t.Errorf("summary = %+v", got.Summary)
	}
	if got.Summary.Passed {
		t.Error("passed = true with a missing email")
	}
}

func TestIntegrityContactFound(t *testing.T) {
	res := integrityResume("Jane Roe\njane@acme.io\n+91 98765 43210")

	got := CheckIntegrity(res, &ResumeExtract{}, nil)

	if got.Score != 20 {
		t.Fatalf("score = %d, want 20", got.Score)
	}
	var email, phone string
	for _, i := range got.Issues {
		switch i.Check {
		case "contact_email":
			email = i.Message
		case "contact_phone":
			phone = i.Message
		}
	}
	if email != "Email found: jane@acme.io" {
		t.Errorf("email message = %q", email)
	}
	if !strings.HasPrefix(phone, "Phone number found:") {
		t.Errorf("phone message = %q", phone)
	}
	if !got.Summary.Passed {
		t.Error("passed = false without errors")
	}
}

func TestIntegrityFuzzyDates(t *testing.T) {
	res := integrityResume("jane@acme.io +91 98765 43210\nIntern, Summer 2021\nResearch assistant, Fall 2019")

	got := CheckIntegrity(res, &ResumeExtract{}, nil)

	if got.Score != 19 {
		t.Fatalf("score = %d, want 19", got.Score)
	}
	var msg string
	for _, i := range got.Issues {
		if i.Check == "date_format" && i.Severity == SeverityWarning {
			msg = i.Message
		}
	}
	if msg != "Fuzzy dates found: Summer 2021, Fall 2019" {
		t.Errorf("message = %q", msg)
	}
}

func TestIntegrityStandardDates(t *testing.T) {
	res := integrityResume("jane@acme.io +91 98765 43210\nEngineer, January 2021 to 06/2023")

	got := CheckIntegrity(res, &ResumeExtract{}, nil)

	if got.Score != 20 {
		t.Fatalf("score = %d, want 20", got.Score)
	}
	var msg string
	for _, i := range got.Issues {
		if i.Check == "date_format" {
			msg = i.Message
		}
	}
	if msg != "2 dates in standard format found" {
		t.Errorf("message = %q", msg)
	}
}

func TestIntegrityBareYears(t *testing.T) {
	res := integrityResume("jane@acme.io +91 98765 43210\nEngineer, 2021 to 2023")

	got := CheckIntegrity(res, &ResumeExtract{}, nil)

	if got.Score != 20 {
		t.Fatalf("score = %d, want 20 (bare years are informational)", got.Score)
	}
	found := false
	for _, i := range got.Issues {
		if i.Check == "date_format" && i.Severity == SeverityInfo {
			found = true
		}
	}
	if !found {
		t.Error("no bare-year info issue")
	}
}

func TestIntegrityGapDetection(t *testing.T) {
	res := integrityResume("jane@acme.io +91 98765 43210")
	rx := &ResumeExtract{JobTitles: []JobPeriod{
		{Title: "Senior Engineer", StartDate: "06/2022", EndDate: "01/2023"},
		{Title: "Engineer", StartDate: "01/2020", EndDate: "06/2021"},
	}}

	got := CheckIntegrity(res, rx, nil)

	if got.Score != 18 {
		t.Fatalf("score = %d, want 18 (one gap, −2)", got.Score)
	}
	var msg string
	for _, i := range got.Issues {
		if i.Check == "employment_gap" {
			msg = i.Message
		}
	}
	if msg != "12-month gap (Jun 2021 – Jun 2022)" {
		t.Errorf("message = %q", msg)
	}
}

func TestIntegrityGapBelowThreshold(t *testing.T) {
	res := integrityResume("jane@acme.io +91 98765 43210")
	rx := &ResumeExtract{JobTitles: []JobPeriod{
		{StartDate: "09/2021", EndDate: "present"},
		{StartDate: "01/2020", EndDate: "06/2021"},
	}}

	got := CheckIntegrity(res, rx, nil)

	// Three months is under the six-month default.
	for _, i := range got.Issues {
		if i.Check == "employment_gap" {
			t.Errorf("unexpected gap issue: %+v", i)
		}
	}
	if got.Score != 20 {
		t.Errorf("score = %d, want 20", got.Score)
	}
}

func TestIntegrityGapPenaltyCap(t *testing.T) {
	res := integrityResume("jane@acme.io +91 98765 43210")
	rx := &ResumeExtract{JobTitles: []JobPeriod{
		{StartDate: "01/2024", EndDate: "06/2024"},
		{StartDate: "01/2022", EndDate: "01/2023"},
		{StartDate: "01/2020", EndDate: "01/2021"},
	}}

	got := CheckIntegrity(res, rx, nil)

	// Two 12-month gaps: 2+2 capped at 4.
	if got.Score != 16 {
		t.Fatalf("score = %d, want 16", got.Score)
	}
	gaps := 0
	for _, i := range got.Issues {
		if i.Check == "employment_gap" {
			gaps++
		}
	}
	if gaps != 2 {
		t.Errorf("gap issues = %d, want 2", gaps)
	}
}

func TestIntegrityExperience(t *testing.T) {
	res := integrityResume("jane@acme.io +91 98765 43210")

	tests := []struct {
		name         string
		total        float64
		required     float64
		wantSeverity string
		wantScore    int
	}{
		{"meets requirement", 6, 5, SeverityPass, 20},
		{"short by one year", 4.5, 5, SeverityInfo, 20},
		{"short by more", 3, 5, SeverityWarning, 18},
		{"requirement unset", 4, 0, "", 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rx := &ResumeExtract{TotalExperienceYears: tt.total}
			jd := &JDExtract{ExperienceRequiredYears: tt.required}

			got := CheckIntegrity(res, rx, jd)

			if got.Score != tt.wantScore {
				t.Errorf("score = %d, want %d", got.Score, tt.wantScore)
			}
			var severity string
			for _, i := range got.Issues {
				if i.Check == "experience_years" {
					severity = i.Severity
				}
			}
			if severity != tt.wantSeverity {
				t.Errorf("severity = %q, want %q", severity, tt.wantSeverity)
			}
		})
	}
}

func TestIntegrityExperienceMessage(t *testing.T) {
	res := integrityResume("jane@acme.io +91 98765 43210")
	rx := &ResumeExtract{TotalExperienceYears: 4.5}
	jd := &JDExtract{ExperienceRequiredYears: 5}

	got := CheckIntegrity(res, rx, jd)

	var msg string
	for _, i := range got.Issues {
		if i.Check == "experience_years" {
			msg = i.Message
		}
	}
	if !strings.Contains(msg, "4.5 years detected (JD requires 5+)") {
		t.Errorf("message = %q", msg)
	}
}

func TestIntegrityEducation(t *testing.T) {
	res := integrityResume("jane@acme.io +91 98765 43210")

	tests := []struct {
		name         string
		degrees      []Education
		required     string
		wantSeverity string
	}{
		{"meets requirement", []Education{{Degree: "Bachelor of Technology"}}, "Bachelor's in Computer Science", SeverityPass},
		{"exceeds requirement", []Education{{Degree: "M.Tech"}}, "Bachelor's degree", SeverityPass},
		{"below requirement", []Education{{Degree: "Bachelor of Technology"}}, "Master's degree or equivalent", SeverityInfo},
		{"no requirement", []Education{{Degree: "Bachelor of Technology"}}, "", ""},
		{"unknown degree", []Education{{Degree: "School of Life"}}, "Bachelor's degree", ""},
		{"short alias stands alone", []Education{{Degree: "BS in Information Systems"}}, "Master's degree", SeverityInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rx := &ResumeExtract{Education: tt.degrees}
			jd := &JDExtract{EducationRequired: tt.required}

			got := CheckIntegrity(res, rx, jd)

			var severity string
			for _, i := range got.Issues {
				if i.Check == "education" {
					severity = i.Severity
				}
			}
			if severity != tt.wantSeverity {
				t.Errorf("severity = %q, want %q", severity, tt.wantSeverity)
			}
			// Education never affects the score.
			if got.Score != 20 {
				t.Errorf("score = %d, want 20", got.Score)
			}
		})
	}
}

func TestParseMonthYear(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"01/2021", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"12-2023", time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), true},
		{"January 2021", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"Jun 2022", time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"June 2022", time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"2019", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"present", time.Time{}, false},
		{"Current", time.Time{}, false},
		{"now", time.Time{}, false},
		{"", time.Time{}, false},
		{"13/2021", time.Time{}, false},
		{"someday", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseMonthYear(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("parseMonthYear(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
