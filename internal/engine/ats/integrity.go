package ats

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/resume"
)

const (
	integrityMax        = 20
	defaultGapThreshold = 6
)

var (
	strictEmailRe = regexp.MustCompile(`[a-zA-Z0-9](?:[\w.+-]*[a-zA-Z0-9])?@[a-zA-Z0-9](?:[\w.-]*[a-zA-Z0-9])?\.[a-zA-Z]{2,}`)
	phoneINRe     = regexp.MustCompile(`(?:\+91[\s-]?)?\d{10}|(?:\+91[\s-]?)?\d{5}[\s-]?\d{5}`)
	phoneIntlRe   = regexp.MustCompile(`\+?\d{1,3}[\s-]?\(?\d{1,4}\)?[\s-]?\d{3,4}[\s-]?\d{3,4}`)

	dateMMYYYYRe    = regexp.MustCompile(`\b(0?[1-9]|1[0-2])[/-](19|20)\d{2}\b`)
	dateMonthYYYYRe = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(19|20)\d{2}\b`)
	dateFuzzyRe     = regexp.MustCompile(`(?i)\b(Spring|Summer|Autumn|Fall|Winter|Q[1-4])\s+(19|20)\d{2}\b`)
	dateBareYearRe  = regexp.MustCompile(`\b(19|20)\d{2}\b`)

	monthYearStartRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{4})`)
	bareYearStartRe  = regexp.MustCompile(`^\d{4}`)
	anyYearRe        = regexp.MustCompile(`\d{4}`)
)

// Long month names come before their abbreviations so "june" wins over
// "jun" during substring scanning.
var monthNames = []struct {
	name  string
	month time.Month
}{
	{"january", time.January}, {"february", time.February}, {"march", time.March},
	{"april", time.April}, {"may", time.May}, {"june", time.June},
	{"july", time.July}, {"august", time.August}, {"september", time.September},
	{"october", time.October}, {"november", time.November}, {"december", time.December},
	{"jan", time.January}, {"feb", time.February}, {"mar", time.March},
	{"apr", time.April}, {"jun", time.June}, {"jul", time.July},
	{"aug", time.August}, {"sep", time.September}, {"oct", time.October},
	{"nov", time.November}, {"dec", time.December},
}

// CheckIntegrity runs layer 3: contact completeness, date hygiene,
// employment gaps, and JD fit on experience and education. The
// JD-dependent checks are skipped when jd is nil or the field is unset.
func CheckIntegrity(res *resume.Resume, rx *ResumeExtract, jd *JDExtract) *IntegrityResult {
	issues := []Issue{}
	score := integrityMax

	contactIssues, contactPenalty := checkContactIntegrity(res.RawText)
	issues = append(issues, contactIssues...)
	score -= contactPenalty

	dateIssues, datePenalty := checkDateFormats(res.RawText)
	issues = append(issues, dateIssues...)
	score -= datePenalty

	gapIssues, gapPenalty := checkEmploymentGaps(rx.JobTitles, gapThreshold())
	issues = append(issues, gapIssues...)
	score -= gapPenalty

	if jd != nil {
		expIssues, expPenalty := checkExperienceYears(rx.TotalExperienceYears, jd.ExperienceRequiredYears)
		issues = append(issues, expIssues...)
		score -= expPenalty

		issues = append(issues, checkEducationLevel(rx.Education, jd.EducationRequired)...)
	}

	errors, warnings, infos := countSeverities(issues)
	return &IntegrityResult{
		Layer:    3,
		Name:     "Data Integrity",
		Score:    max(score, 0),
		MaxScore: integrityMax,
		Issues:   issues,
		Summary: SeveritySummary{
			Errors:   errors,
			Warnings: warnings,
			Infos:    infos,
			Passed:   errors == 0,
		},
	}
}

func gapThreshold() int {
	if engine.Cfg.GapThresholdMonths > 0 {
		return engine.Cfg.GapThresholdMonths
	}
	return defaultGapThreshold
}

func checkContactIntegrity(text string) ([]Issue, int) {
	var issues []Issue
	penalty := 0

	if email := strictEmailRe.FindString(text); email != "" {
		issues = append(issues, Issue{
			Check:    "contact_email",
			Severity: SeverityPass,
			Message:  "Email found: " + email,
		})
	} else {
		issues = append(issues, Issue{
			Check:      "contact_email",
			Severity:   SeverityError,
			Message:    "No email address found in resume",
			Suggestion: "Add your email address to the resume body",
		})
		penalty += 3
	}

	phone := phoneINRe.FindString(text)
	if phone == "" {
		phone = phoneIntlRe.FindString(text)
	}
	if phone != "" {
		issues = append(issues, Issue{
			Check:    "contact_phone",
			Severity: SeverityPass,
			Message:  "Phone number found: " + phone,
		})
	} else {
		issues = append(issues, Issue{
			Check:      "contact_phone",
			Severity:   SeverityWarning,
			Message:    "No phone number found in resume",
			Suggestion: "Add your phone number with country code",
		})
		penalty += 2
	}
	return issues, penalty
}

func checkDateFormats(text string) ([]Issue, int) {
	var issues []Issue
	penalty := 0

	fuzzyDates := dateFuzzyRe.FindAllString(text, -1)
	if len(fuzzyDates) > 0 {
		issues = append(issues, Issue{
			Check:      "date_format",
			Severity:   SeverityWarning,
			Message:    "Fuzzy dates found: " + strings.Join(head(fuzzyDates, 3), ", "),
			Suggestion: "Use MM/YYYY or 'Month YYYY' format instead",
		})
		penalty++
	}

	standard := len(dateMMYYYYRe.FindAllString(text, -1)) + len(dateMonthYYYYRe.FindAllString(text, -1))
	switch {
	case standard > 0:
		issues = append(issues, Issue{
			Check:    "date_format",
			Severity: SeverityPass,
			Message:  fmt.Sprintf("%d dates in standard format found", standard),
		})
	case len(fuzzyDates) == 0 && dateBareYearRe.MatchString(text):
		issues = append(issues, Issue{
			Check:    "date_format",
			Severity: SeverityInfo,
			Message:  "Only bare years found (e.g., '2023') — consider using 'Month YYYY' format",
		})
	}
	return issues, penalty
}

type employmentSpan struct {
	start, end time.Time
}

// checkEmploymentGaps sorts datable jobs most-recent first and flags
// whole-month gaps between consecutive jobs above the threshold,
// 2 points each capped at 4. Open-ended jobs run until now.
func checkEmploymentGaps(jobs []JobPeriod, thresholdMonths int) ([]Issue, int) {
	if len(jobs) < 2 {
		return nil, 0
	}

	var spans []employmentSpan
	for _, j := range jobs {
		start, ok := parseMonthYear(j.StartDate)
		if !ok {
			continue
		}
		end, ok := parseMonthYear(j.EndDate)
		if !ok {
			end = time.Now()
		}
		spans = append(spans, employmentSpan{start: start, end: end})
	}
	sort.SliceStable(spans, func(i, k int) bool { return spans[i].start.After(spans[k].start) })

	var issues []Issue
	penalty := 0
	for i := 0; i+1 < len(spans); i++ {
		currentStart := spans[i].start
		previousEnd := spans[i+1].end
		gap := (currentStart.Year()-previousEnd.Year())*12 + int(currentStart.Month()-previousEnd.Month())
		if gap > thresholdMonths {
			issues = append(issues, Issue{
				Check:    "employment_gap",
				Severity: SeverityWarning,
				Message: fmt.Sprintf("%d-month gap (%s – %s)", gap,
					previousEnd.Format("Jan 2006"), currentStart.Format("Jan 2006")),
				Suggestion: "Consider adding context (freelance, education, sabbatical)",
			})
			penalty += 2
		}
	}
	return issues, min(penalty, 4)
}

// parseMonthYear parses "01/2021", "January 2021" or a bare "2021".
// Open-ended markers ("present", "current", "now") and unparseable
// strings report false.
func parseMonthYear(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if s == "" || lower == "present" || lower == "current" || lower == "now" {
		return time.Time{}, false
	}

	if m := monthYearStartRe.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
		}
	}

	for _, mn := range monthNames {
		if strings.Contains(lower, mn.name) {
			if y := anyYearRe.FindString(s); y != "" {
				year, _ := strconv.Atoi(y)
				return time.Date(year, mn.month, 1, 0, 0, 0, 0, time.UTC), true
			}
		}
	}

	if y := bareYearStartRe.FindString(s); y != "" {
		year, _ := strconv.Atoi(y)
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func checkExperienceYears(totalYears, requiredYears float64) ([]Issue, int) {
	if requiredYears <= 0 {
		return nil, 0
	}
	total, required := fmtYears(totalYears), fmtYears(requiredYears)

	switch {
	case totalYears >= requiredYears:
		return []Issue{{
			Check:    "experience_years",
			Severity: SeverityPass,
			Message:  fmt.Sprintf("%s years experience (JD requires %s+)", total, required),
		}}, 0
	case requiredYears-totalYears <= 1:
		return []Issue{{
			Check:    "experience_years",
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("%s years detected (JD requires %s+) — close enough, worth applying", total, required),
		}}, 0
	default:
		return []Issue{{
			Check:      "experience_years",
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("%s years detected but JD requires %s+ years", total, required),
			Suggestion: "Consider highlighting project experience or freelance work",
		}}, 2
	}
}

// degreeRanks orders degree keywords from highest to lowest; longer
// spellings come before their short aliases so the most specific key
// is tried first when the JD side stops at the first hit.
var degreeRanks = []struct {
	key  string
	rank int
}{
	{"phd", 4}, {"doctorate", 4}, {"ph.d", 4},
	{"master", 3}, {"mtech", 3}, {"mba", 3}, {"m.tech", 3}, {"m.s", 3}, {"ms", 3},
	{"bachelor", 2}, {"btech", 2}, {"b.tech", 2}, {"b.s", 2}, {"bs", 2}, {"b.e", 2}, {"be", 2},
	{"diploma", 1},
}

// Two-letter aliases must stand alone so "ms" does not hit "systems".
var shortDegreeRes = map[string]*regexp.Regexp{
	"ms": regexp.MustCompile(`\bms\b`),
	"bs": regexp.MustCompile(`\bbs\b`),
	"be": regexp.MustCompile(`\bbe\b`),
}

// checkEducationLevel is informational only: meeting the JD requirement
// is a pass, falling short is an info, and an unknown rank on either
// side skips the check.
func checkEducationLevel(education []Education, required string) []Issue {
	if required == "" {
		return nil
	}

	highestRank := 0
	highestDegree := ""
	for _, edu := range education {
		degree := strings.ToLower(edu.Degree)
		for _, dr := range degreeRanks {
			if dr.rank > highestRank && hasDegreeToken(degree, dr.key) {
				highestRank = dr.rank
				highestDegree = edu.Degree
			}
		}
	}

	requiredRank := 0
	requiredLower := strings.ToLower(required)
	for _, dr := range degreeRanks {
		if hasDegreeToken(requiredLower, dr.key) {
			requiredRank = dr.rank
			break
		}
	}

	if highestRank == 0 || requiredRank == 0 {
		return nil
	}
	if highestRank >= requiredRank {
		return []Issue{{
			Check:    "education",
			Severity: SeverityPass,
			Message:  fmt.Sprintf("Education: %s (meets requirement)", highestDegree),
		}}
	}
	return []Issue{{
		Check:      "education",
		Severity:   SeverityInfo,
		Message:    fmt.Sprintf("Education: %s — JD prefers %s", highestDegree, required),
		Suggestion: "Relevant experience may compensate; worth applying",
	}}
}

func hasDegreeToken(s, key string) bool {
	if re, ok := shortDegreeRes[key]; ok {
		return re.MatchString(s)
	}
	return strings.Contains(s, key)
}

func fmtYears(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
