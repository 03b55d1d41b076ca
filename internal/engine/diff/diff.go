// Package diff renders the change view a user confirms before a
// tailored resume replaces the original. Line diffs use the difflib
// port; all output is deterministic for identical inputs.
package diff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
	"github.com/pmezard/go-difflib/difflib"
)

const previewLen = 100

// Result is a full line-level comparison of two resume texts.
type Result struct {
	DiffText   string     `json:"diff_text"`
	Statistics Statistics `json:"statistics"`
	Changes    []Change   `json:"changes"`
	Formatted  string     `json:"formatted"`
	HasChanges bool       `json:"has_changes"`
}

type Statistics struct {
	LinesAdded    int `json:"lines_added"`
	LinesRemoved  int `json:"lines_removed"`
	TotalChanges  int `json:"total_changes"`
	OriginalLines int `json:"original_lines"`
	ModifiedLines int `json:"modified_lines"`
}

// Change is one opcode block from the sequence matcher. Ranges are
// 1-based and inclusive; previews are capped at 100 chars.
type Change struct {
	Type            string `json:"type"` // replace | insert | delete
	OriginalRange   [2]int `json:"original_range"`
	ModifiedRange   [2]int `json:"modified_range"`
	OriginalPreview string `json:"original_preview,omitempty"`
	ModifiedPreview string `json:"modified_preview,omitempty"`
	Description     string `json:"description"`
}

// SectionsResult compares two section maps key by key.
type SectionsResult struct {
	SectionDiffs      map[string]*Result `json:"section_diffs"`
	ChangedSections   []string           `json:"changed_sections"`
	UnchangedSections []string           `json:"unchanged_sections"`
}

// Compare diffs two resume texts with 3 lines of context.
func Compare(original, modified string) *Result {
	if original == modified {
		return &Result{
			Statistics: Statistics{
				OriginalLines: lineCount(original),
				ModifiedLines: lineCount(modified),
			},
			Changes:   []Change{},
			Formatted: "No changes detected.",
		}
	}

	a := difflib.SplitLines(original)
	b := difflib.SplitLines(modified)

	diffText, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        a,
		B:        b,
		FromFile: "Original Resume",
		ToFile:   "Tailored Resume",
		Context:  3,
	})
	if err != nil {
		// Only reachable on writer failure, which strings.Builder never has.
		diffText = ""
	}

	added, removed := 0, 0
	for _, line := range strings.Split(diffText, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}

	changes := extractChanges(a, b)

	return &Result{
		DiffText: diffText,
		Statistics: Statistics{
			LinesAdded:    added,
			LinesRemoved:  removed,
			TotalChanges:  added + removed,
			OriginalLines: lineCount(original),
			ModifiedLines: lineCount(modified),
		},
		Changes:    changes,
		Formatted:  formatChanges(changes),
		HasChanges: added+removed > 0,
	}
}

// Sections diffs two section maps over the union of their keys,
// in sorted key order.
func Sections(original, modified map[string][]string) *SectionsResult {
	keys := make(map[string]bool, len(original)+len(modified))
	for k := range original {
		keys[k] = true
	}
	for k := range modified {
		keys[k] = true
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	out := &SectionsResult{
		SectionDiffs:      make(map[string]*Result, len(sorted)),
		ChangedSections:   []string{},
		UnchangedSections: []string{},
	}
	for _, key := range sorted {
		res := Compare(strings.Join(original[key], "\n"), strings.Join(modified[key], "\n"))
		out.SectionDiffs[key] = res
		if res.HasChanges {
			out.ChangedSections = append(out.ChangedSections, key)
		} else {
			out.UnchangedSections = append(out.UnchangedSections, key)
		}
	}
	return out
}

func extractChanges(a, b []string) []Change {
	matcher := difflib.NewMatcher(a, b)
	changes := []Change{}

	for _, op := range matcher.GetOpCodes() {
		if op.Tag == 'e' {
			continue
		}

		change := Change{
			OriginalRange: [2]int{op.I1 + 1, op.I2},
			ModifiedRange: [2]int{op.J1 + 1, op.J2},
		}

		switch op.Tag {
		case 'r':
			change.Type = "replace"
			change.OriginalPreview = preview(a[op.I1:op.I2])
			change.ModifiedPreview = preview(b[op.J1:op.J2])
			change.Description = fmt.Sprintf("Lines %d–%d modified", op.I1+1, op.I2)
		case 'i':
			change.Type = "insert"
			change.ModifiedPreview = preview(b[op.J1:op.J2])
			change.Description = fmt.Sprintf("New content added after line %d", op.I1)
		case 'd':
			change.Type = "delete"
			change.OriginalPreview = preview(a[op.I1:op.I2])
			change.Description = fmt.Sprintf("Lines %d–%d removed", op.I1+1, op.I2)
		}

		changes = append(changes, change)
	}
	return changes
}

func formatChanges(changes []Change) string {
	if len(changes) == 0 {
		return "No changes detected."
	}

	lines := []string{fmt.Sprintf("Found %d change(s):\n", len(changes))}
	for i, change := range changes {
		icon := "•"
		switch change.Type {
		case "replace":
			icon = "✏️"
		case "insert":
			icon = "➕"
		case "delete":
			icon = "➖"
		}
		lines = append(lines, fmt.Sprintf("%s Change %d: %s", icon, i+1, change.Description))
		if change.OriginalPreview != "" {
			lines = append(lines, fmt.Sprintf("  Original: %q", change.OriginalPreview))
		}
		if change.ModifiedPreview != "" {
			lines = append(lines, fmt.Sprintf("  Modified: %q", change.ModifiedPreview))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func preview(lines []string) string {
	return strutil.TruncateWith(strings.TrimSpace(strings.Join(lines, "")), previewLen, "...")
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return len(strings.Split(strings.TrimSuffix(s, "\n"), "\n"))
}
