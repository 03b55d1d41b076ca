package ats

import (
	"fmt"
	"strconv"
	"strings"
)

// Grade bands over the combined score.
const (
	gradeExcellent = 90
	gradeGood      = 75
	gradeNeedsWork = 60
)

// Grade returns the icon and label for an overall score.
func Grade(score int) (icon, label string) {
	switch {
	case score >= gradeExcellent:
		return "🟢", "Excellent"
	case score >= gradeGood:
		return "🟡", "Good"
	case score >= gradeNeedsWork:
		return "🟠", "Needs Improvement"
	default:
		return "🔴", "Significant Issues"
	}
}

var severityIcons = map[string]string{
	SeverityPass:    "✅",
	SeverityError:   "❌",
	SeverityWarning: "⚠️",
	SeverityInfo:    "ℹ️",
}

// BuildReport combines the three layer results into the final report,
// including the human-readable rendering.
func BuildReport(formatting *FormatterResult, keywords *KeywordResult, integrity *IntegrityResult, jobTitle, company string) *Report {
	overall := formatting.Score + keywords.Score + integrity.Score
	maxScore := formatting.MaxScore + keywords.MaxScore + integrity.MaxScore
	icon, label := Grade(overall)

	return &Report{
		JobTitle:        jobTitle,
		Company:         company,
		OverallScore:    overall,
		MaxScore:        maxScore,
		Grade:           label,
		GradeIcon:       icon,
		MatchPercentage: keywords.MatchPercentage,
		Formatting:      formatting,
		Keywords:        keywords,
		Integrity:       integrity,
		MatchedKeywords: keywords.MatchedKeywords,
		MissingKeywords: keywords.MissingKeywords,
		FormattedText:   renderReport(formatting, keywords, integrity, overall, maxScore, icon, label, jobTitle, company),
	}
}

func renderReport(formatting *FormatterResult, keywords *KeywordResult, integrity *IntegrityResult,
	overall, maxScore int, icon, label, jobTitle, company string) string {

	rule := strings.Repeat("━", 50)
	var b strings.Builder

	fmt.Fprintf(&b, "ATS Report — %s %s\n", company, jobTitle)
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Overall Score:       %d / %d   %s  %s\n\n", overall, maxScore, icon, label)

	fmt.Fprintf(&b, "Layer 1 — Formatting:   %d / %d\n", formatting.Score, formatting.MaxScore)
	writeIssueLines(&b, formatting.Issues)
	b.WriteString("\n")

	fmt.Fprintf(&b, "Layer 2 — Keywords:     %d / %d\n", keywords.Score, keywords.MaxScore)
	fmt.Fprintf(&b, "  Match: %s%% (%d/%d JD keywords found)\n",
		formatPct(keywords.MatchPercentage), keywords.TotalMatched, keywords.TotalJDKeywords)
	writeIssueLines(&b, keywords.Issues)
	b.WriteString("\n")

	fmt.Fprintf(&b, "Layer 3 — Integrity:    %d / %d\n", integrity.Score, integrity.MaxScore)
	writeIssueLines(&b, integrity.Issues)
	b.WriteString("\n")

	b.WriteString("Recommendation: " + recommendation(overall) + "\n")
	b.WriteString(rule)
	return b.String()
}

func writeIssueLines(b *strings.Builder, issues []Issue) {
	for _, issue := range issues {
		icon, ok := severityIcons[issue.Severity]
		if !ok {
			icon = severityIcons[SeverityInfo]
		}
		fmt.Fprintf(b, "  %s %s\n", icon, issue.Message)
	}
}

func recommendation(overall int) string {
	switch {
	case overall >= gradeExcellent:
		return "Resume is well-optimised. Ready to apply!"
	case overall >= gradeGood:
		return "Minor improvements possible. Consider tailoring."
	case overall >= gradeNeedsWork:
		return "Tailor resume to fix the above before applying."
	default:
		return "Significant changes needed before applying."
	}
}

func formatPct(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
