package ats

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	keywordMax = 60

	exactMatchPoints    = 3
	inferredMatchPoints = 2
	acronymBonusPoints  = 1
	placementSummary    = 5
	placementExperience = 3
	placementSkills     = 1

	// Density band: 2+ mentions inside the optimal band earn a bonus,
	// anything past the stuffing line draws a warning.
	densityOptimalMax = 0.03
	densityStuffing   = 0.05
)

// ScoreKeywords runs layer 2 over the JD and resume extracts. Matching
// is case-insensitive. Sections are optional; when present the top ten
// required keywords earn placement points, summary outranking
// experience outranking skills.
func ScoreKeywords(jd *JDExtract, rx *ResumeExtract, resumeText string, sections map[string][]string) *KeywordResult {
	issues := []Issue{}
	score := 0

	jdRequired := lowerAll(jd.RequiredHardSkills)
	jdAll := dedupeLower(jd.RequiredHardSkills, jd.PreferredHardSkills, jd.DomainKeywords, jd.ToolsAndFrameworks)

	resumeHard := toSet(lowerAll(rx.HardSkills))
	resumeInferred := map[string]bool{}
	for _, s := range rx.InferredSkills {
		if skill := strings.ToLower(strings.TrimSpace(s.Skill)); skill != "" {
			resumeInferred[skill] = true
		}
	}

	matched, inferred, missing := []string{}, []string{}, []string{}
	for _, kw := range jdAll {
		switch {
		case resumeHard[kw]:
			matched = append(matched, kw)
		case resumeInferred[kw]:
			inferred = append(inferred, kw)
		default:
			missing = append(missing, kw)
		}
	}

	score += min(len(matched)*exactMatchPoints, 30)
	score += min(len(inferred)*inferredMatchPoints, 10)

	if len(matched) > 0 {
		issues = append(issues, Issue{
			Check:    "keyword_match",
			Severity: SeverityPass,
			Message:  "Found: " + strings.Join(head(matched, 15), ", "),
		})
	}
	if len(inferred) > 0 {
		issues = append(issues, Issue{
			Check:    "inferred_match",
			Severity: SeverityPass,
			Message:  "Inferred skills matched: " + strings.Join(head(inferred, 10), ", "),
		})
	}
	if len(missing) > 0 {
		issues = append(issues, Issue{
			Check:      "missing_keywords",
			Severity:   SeverityWarning,
			Message:    "Missing: " + strings.Join(head(missing, 15), ", "),
			Suggestion: "Add these keywords to your resume if you have the experience",
		})
	}

	totalJD := len(jdAll)
	totalMatched := len(matched) + len(inferred)
	matchPct := 0.0
	if totalJD > 0 {
		matchPct = round1(float64(totalMatched) / float64(totalJD) * 100)
	}

	acronymIssues := checkAcronyms(jd.Acronyms, resumeText)
	issues = append(issues, acronymIssues...)
	acronymPasses := 0
	for _, i := range acronymIssues {
		if i.Severity == SeverityPass {
			acronymPasses++
		}
	}
	score += min(acronymPasses*acronymBonusPoints, 5)

	densityIssues, densityBonus := checkDensity(jdAll, resumeText)
	issues = append(issues, densityIssues...)
	score += densityBonus

	if len(sections) > 0 {
		score += min(scorePlacement(jdRequired, sections), 10)
	}

	return &KeywordResult{
		Layer:           2,
		Name:            "Keywords & Relevance",
		Score:           min(score, keywordMax),
		MaxScore:        keywordMax,
		MatchPercentage: matchPct,
		MatchedKeywords: matched,
		InferredMatches: inferred,
		MissingKeywords: missing,
		TotalJDKeywords: totalJD,
		TotalMatched:    totalMatched,
		Issues:          issues,
		Summary: KeywordSummary{
			MatchPct: matchPct,
			Matched:  len(matched),
			Inferred: len(inferred),
			Missing:  len(missing),
		},
	}
}

// checkAcronyms rewards resumes containing both forms of each JD
// acronym and warns on one-sided usage. Keys are visited in sorted
// order so its output is stable.
func checkAcronyms(acronyms map[string]string, resumeText string) []Issue {
	if len(acronyms) == 0 {
		return nil
	}

	shorts := make([]string, 0, len(acronyms))
	for short := range acronyms {
		shorts = append(shorts, short)
	}
	sort.Strings(shorts)

	lower := strings.ToLower(resumeText)
	var issues []Issue
	for _, short := range shorts {
		long := acronyms[short]
		if short == "" || long == "" {
			continue
		}
		hasShort := strings.Contains(lower, strings.ToLower(short))
		hasLong := strings.Contains(lower, strings.ToLower(long))
		switch {
		case hasShort && hasLong:
			issues = append(issues, Issue{
				Check:    "acronym",
				Severity: SeverityPass,
				Message:  fmt.Sprintf("Both %q and %q found", short, long),
			})
		case hasShort:
			issues = append(issues, Issue{
				Check:      "acronym",
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("%q found but not %q — include both", short, long),
				Suggestion: fmt.Sprintf("Add %q to your resume", long+" ("+short+")"),
			})
		case hasLong:
			issues = append(issues, Issue{
				Check:      "acronym",
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("%q found but not %q — include both", long, short),
				Suggestion: fmt.Sprintf("Add %q alongside the full form", short),
			})
		}
	}
	return issues
}

// checkDensity counts keyword occurrences relative to total word count.
// Multi-word keywords are counted as substrings, single words as whole
// tokens.
func checkDensity(keywords []string, resumeText string) ([]Issue, int) {
	lower := strings.ToLower(resumeText)
	words := strings.Fields(lower)
	if len(words) == 0 {
		return nil, 0
	}
	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[w]++
	}

	var issues []Issue
	bonus := 0
	for _, kw := range keywords {
		var n int
		if strings.Contains(kw, " ") {
			n = strings.Count(lower, kw)
		} else {
			n = counts[kw]
		}
		if n == 0 {
			continue
		}
		density := float64(n) / float64(len(words))
		switch {
		case density > densityStuffing:
			issues = append(issues, Issue{
				Check:      "keyword_density",
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("%q mentioned %d× — density too high (%.1f%%)", kw, n, density*100),
				Suggestion: fmt.Sprintf("Aim for 2–3 mentions, currently at %d", n),
			})
		case n >= 2 && density <= densityOptimalMax:
			bonus++
		}
	}
	return issues, min(bonus, 5)
}

func scorePlacement(required []string, sections map[string][]string) int {
	summary := strings.ToLower(strings.Join(sections["summary"], " "))
	experience := strings.ToLower(strings.Join(sections["experience"], " "))
	skills := strings.ToLower(strings.Join(sections["skills"], " "))

	score := 0
	for _, kw := range head(required, 10) {
		switch {
		case strings.Contains(summary, kw):
			score += placementSummary
		case strings.Contains(experience, kw):
			score += placementExperience
		case strings.Contains(skills, kw):
			score += placementSkills
		}
	}
	return score
}

func lowerAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// dedupeLower merges keyword lists into one lowercased list, first
// occurrence wins, input order preserved.
func dedupeLower(lists ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, list := range lists {
		for _, s := range lowerAll(list) {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func toSet(ss []string) map[string]bool {
	set := make(map[string]bool, len(ss))
	for _, s := range ss {
		set[s] = true
	}
	return set
}

func head(ss []string, n int) []string {
	if len(ss) > n {
		return ss[:n]
	}
	return ss
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
