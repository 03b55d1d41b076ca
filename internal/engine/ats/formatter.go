package ats

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/anatolykoptev/go_apply/internal/engine/resume"
)

const formatterMax = 20

// Multi-column detection: a page needs at least columnMinRows positioned
// rows and a gap wider than columnGapPt between distinct x-coordinates.
const (
	columnMinRows = 4
	columnGapPt   = 200.0
)

// problematicBullets are glyphs known to trip ATS text extractors.
var problematicBullets = []string{
	"→", "➤", "➜", "►", "★", "✦", "✓", "✔", "⬤", "◆", "◇", "▪", "▸",
}

// requiredSections are the canonical sections ATS parsers key on.
var requiredSections = []string{"experience", "education", "skills"}

var headerCaser = cases.Title(language.English)

// CheckFormatting runs layer 1. It is fully deterministic: file type,
// section headers, contact placement, column layout and bullet glyphs.
// A non-PDF/DOCX source is a hard block and short-circuits to score 0.
func CheckFormatting(res *resume.Resume) *FormatterResult {
	issues := []Issue{}
	score := formatterMax

	if ft := res.FileInfo.Type; ft != "pdf" && ft != "docx" {
		if ft == "" {
			ft = "unknown"
		}
		issues = append(issues, Issue{
			Check:      "file_type",
			Severity:   SeverityError,
			Message:    fmt.Sprintf("File type .%s not accepted — only .pdf and .docx are ATS-compatible", ft),
			Suggestion: "Convert your resume to PDF or DOCX format",
		})
		return formatterResult(0, issues)
	}

	headerIssues, headerPenalty := checkSectionHeaders(res.SectionHeaders)
	issues = append(issues, headerIssues...)
	score -= headerPenalty

	sectionIssues, sectionPenalty := checkRequiredSections(res.Sections)
	issues = append(issues, sectionIssues...)
	score -= sectionPenalty

	contactIssues, contactPenalty := checkContactPlacement(res.Metadata.Warnings)
	issues = append(issues, contactIssues...)
	score -= contactPenalty

	layoutIssues, layoutPenalty := checkLayout(res.Layout)
	issues = append(issues, layoutIssues...)
	score -= layoutPenalty

	bulletIssues, bulletPenalty := checkBullets(res.RawText)
	issues = append(issues, bulletIssues...)
	score -= bulletPenalty

	return formatterResult(max(score, 0), issues)
}

// checkSectionHeaders flags non-standard headers, 1 point each capped
// at 3. Headers with a recognisable canonical cousin get a concrete
// rename suggestion; the rest are informational.
func checkSectionHeaders(headers []resume.SectionHeader) ([]Issue, int) {
	var issues []Issue
	penalty := 0

	for _, h := range headers {
		if h.IsStandard {
			continue
		}
		if nearest := resume.NearestCanonical(h.Original); nearest != "" {
			issues = append(issues, Issue{
				Check:      "section_header",
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("Section header %q is non-standard", h.Original),
				Suggestion: fmt.Sprintf("Rename to %q for better ATS parsing", headerCaser.String(nearest)),
			})
		} else {
			issues = append(issues, Issue{
				Check:      "section_header",
				Severity:   SeverityInfo,
				Message:    fmt.Sprintf("Unrecognised section header: %q", h.Original),
				Suggestion: "Consider using a standard header name",
			})
		}
		penalty++
	}
	return issues, min(penalty, 3)
}

func checkRequiredSections(sections map[string][]string) ([]Issue, int) {
	var issues []Issue
	penalty := 0

	for _, name := range requiredSections {
		if len(sections[name]) > 0 {
			continue
		}
		title := headerCaser.String(name)
		issues = append(issues, Issue{
			Check:      "missing_section",
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("No %q section found", title),
			Suggestion: fmt.Sprintf("Add a clearly labelled %q section", title),
		})
		penalty++
	}
	return issues, penalty
}

// checkContactPlacement surfaces parser warnings about contact info in
// page furniture, 1 point each capped at 2. ATS systems routinely strip
// headers and footers before parsing.
func checkContactPlacement(warnings []string) ([]Issue, int) {
	var issues []Issue
	penalty := 0

	for _, w := range warnings {
		lower := strings.ToLower(w)
		if !strings.Contains(lower, "header") && !strings.Contains(lower, "footer") {
			continue
		}
		issues = append(issues, Issue{
			Check:      "contact_placement",
			Severity:   SeverityWarning,
			Message:    w,
			Suggestion: "Move contact information to the main body of the resume",
		})
		penalty++
	}
	return issues, min(penalty, 2)
}

func checkLayout(layout []resume.Row) ([]Issue, int) {
	if !detectColumns(layout) {
		return nil, 0
	}
	return []Issue{{
		Check:      "layout",
		Severity:   SeverityWarning,
		Message:    "Multi-column layout detected — may cause text jumbling in ATS parsers",
		Suggestion: "Use a single-column layout for best ATS compatibility",
	}}, 2
}

// detectColumns reports whether any page has columnMinRows or more
// positioned rows whose distinct sorted x-coordinates contain a gap
// wider than columnGapPt.
func detectColumns(layout []resume.Row) bool {
	rowCount := map[int]int{}
	pageXs := map[int][]float64{}
	for _, row := range layout {
		if len(row.X) == 0 {
			continue
		}
		rowCount[row.Page]++
		pageXs[row.Page] = append(pageXs[row.Page], row.X...)
	}

	for page, xs := range pageXs {
		if rowCount[page] < columnMinRows {
			continue
		}
		sort.Float64s(xs)
		prev := xs[0]
		for _, x := range xs[1:] {
			if x == prev {
				continue
			}
			if x-prev > columnGapPt {
				return true
			}
			prev = x
		}
	}
	return false
}

// checkBullets flags problematic glyphs in lines that are not list
// items. A "▪ item" line is a legitimate bullet; "A → B" in running
// text gets mangled by older extractors.
func checkBullets(rawText string) ([]Issue, int) {
	found := map[string]bool{}
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || resume.IsListLine(line) {
			continue
		}
		for _, glyph := range problematicBullets {
			if strings.Contains(line, glyph) {
				found[glyph] = true
			}
		}
	}
	if len(found) == 0 {
		return nil, 0
	}

	glyphs := make([]string, 0, len(found))
	for g := range found {
		glyphs = append(glyphs, g)
	}
	sort.Strings(glyphs)
	for i, g := range glyphs {
		glyphs[i] = `"` + g + `"`
	}

	return []Issue{{
		Check:      "bullet_style",
		Severity:   SeverityInfo,
		Message:    "Non-standard bullet characters found: " + strings.Join(glyphs, ", "),
		Suggestion: `Replace with standard bullets: "•" or "-"`,
	}}, 1
}

func formatterResult(score int, issues []Issue) *FormatterResult {
	errors, warnings, infos := countSeverities(issues)
	return &FormatterResult{
		Layer:    1,
		Name:     "Formatting & Structure",
		Score:    score,
		MaxScore: formatterMax,
		Issues:   issues,
		Summary: SeveritySummary{
			Errors:   errors,
			Warnings: warnings,
			Infos:    infos,
			Passed:   len(issues) == 0,
		},
	}
}
