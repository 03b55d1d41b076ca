package diff

import (
	"reflect"
	"strings"
	"testing"
)

func TestCompareIdentical(t *testing.T) {
	text := "line one\nline two\nline three"
	res := Compare(text, text)

	if res.HasChanges {
		t.Error("identical texts reported changes")
	}
	if res.Statistics.TotalChanges != 0 || res.Statistics.LinesAdded != 0 || res.Statistics.LinesRemoved != 0 {
		t.Errorf("expected zero counts, got %+v", res.Statistics)
	}
	if len(res.Changes) != 0 {
		t.Errorf("expected no changes, got %d", len(res.Changes))
	}
	if res.Formatted != "No changes detected." {
		t.Errorf("Formatted = %q", res.Formatted)
	}
	if res.DiffText != "" {
		t.Errorf("DiffText should be empty, got %q", res.DiffText)
	}
}

func TestCompareDeterministic(t *testing.T) {
	original := "alpha\nbeta\ngamma"
	modified := "alpha\nBETA\ngamma\ndelta"

	first := Compare(original, modified)
	second := Compare(original, modified)
	if !reflect.DeepEqual(first, second) {
		t.Error("Compare is not deterministic for equal inputs")
	}
}

func TestCompareModification(t *testing.T) {
	original := "Developed software\nWorked on backend\nManaged team"
	modified := "Developed software\nBuilt scalable backend services\nManaged team"

	res := Compare(original, modified)

	if !res.HasChanges {
		t.Fatal("expected changes")
	}
	if !strings.Contains(res.DiffText, "--- Original Resume") {
		t.Error("missing original file label")
	}
	if !strings.Contains(res.DiffText, "+++ Tailored Resume") {
		t.Error("missing tailored file label")
	}
	if res.Statistics.LinesAdded != 1 || res.Statistics.LinesRemoved != 1 {
		t.Errorf("added/removed = %d/%d, want 1/1", res.Statistics.LinesAdded, res.Statistics.LinesRemoved)
	}
	if res.Statistics.TotalChanges != 2 {
		t.Errorf("TotalChanges = %d, want 2", res.Statistics.TotalChanges)
	}

	if len(res.Changes) != 1 {
		t.Fatalf("expected 1 change block, got %d", len(res.Changes))
	}
	change := res.Changes[0]
	if change.Type != "replace" {
		t.Errorf("Type = %q, want replace", change.Type)
	}
	// Second line changed: 1-based inclusive range [2,2].
	if change.OriginalRange != [2]int{2, 2} {
		t.Errorf("OriginalRange = %v, want [2 2]", change.OriginalRange)
	}
	if change.ModifiedRange != [2]int{2, 2} {
		t.Errorf("ModifiedRange = %v, want [2 2]", change.ModifiedRange)
	}
	if change.OriginalPreview != "Worked on backend" {
		t.Errorf("OriginalPreview = %q", change.OriginalPreview)
	}
	if !strings.Contains(change.Description, "Lines 2–2 modified") {
		t.Errorf("Description = %q", change.Description)
	}
}

func TestCompareInsertDelete(t *testing.T) {
	t.Run("insert", func(t *testing.T) {
		res := Compare("one\ntwo", "one\ntwo\nthree")
		if len(res.Changes) != 1 || res.Changes[0].Type != "insert" {
			t.Fatalf("changes = %+v", res.Changes)
		}
		if !strings.Contains(res.Changes[0].Description, "New content added after line 2") {
			t.Errorf("Description = %q", res.Changes[0].Description)
		}
		if res.Changes[0].ModifiedPreview != "three" {
			t.Errorf("ModifiedPreview = %q", res.Changes[0].ModifiedPreview)
		}
	})

	t.Run("delete", func(t *testing.T) {
		res := Compare("one\ntwo\nthree", "one\nthree")
		if len(res.Changes) != 1 || res.Changes[0].Type != "delete" {
			t.Fatalf("changes = %+v", res.Changes)
		}
		if !strings.Contains(res.Changes[0].Description, "Lines 2–2 removed") {
			t.Errorf("Description = %q", res.Changes[0].Description)
		}
	})
}

func TestComparePreviewTruncation(t *testing.T) {
	long := strings.Repeat("word ", 50) // 250 chars
	res := Compare("short", long)

	for _, change := range res.Changes {
		if len(change.ModifiedPreview) > previewLen+3 {
			t.Errorf("preview too long: %d chars", len(change.ModifiedPreview))
		}
	}
}

func TestCompareFormatted(t *testing.T) {
	res := Compare("a\nb", "a\nc")
	if !strings.Contains(res.Formatted, "Found 1 change(s):") {
		t.Errorf("Formatted = %q", res.Formatted)
	}
	if !strings.Contains(res.Formatted, "✏️ Change 1:") {
		t.Errorf("missing change icon: %q", res.Formatted)
	}
}

func TestSections(t *testing.T) {
	original := map[string][]string{
		"summary":    {"Backend engineer"},
		"experience": {"Company A", "Built APIs"},
		"skills":     {"Go, SQL"},
	}
	modified := map[string][]string{
		"summary":    {"Backend engineer focused on Go"},
		"experience": {"Company A", "Built APIs"},
		"education":  {"BSc Computer Science"},
	}

	res := Sections(original, modified)

	// Union of keys, sorted.
	want := []string{"education", "skills", "summary"}
	if !reflect.DeepEqual(res.ChangedSections, want) {
		t.Errorf("ChangedSections = %v, want %v", res.ChangedSections, want)
	}
	if !reflect.DeepEqual(res.UnchangedSections, []string{"experience"}) {
		t.Errorf("UnchangedSections = %v", res.UnchangedSections)
	}
	if len(res.SectionDiffs) != 4 {
		t.Errorf("SectionDiffs has %d keys, want 4", len(res.SectionDiffs))
	}
	if !res.SectionDiffs["summary"].HasChanges {
		t.Error("summary should have changes")
	}
	if res.SectionDiffs["experience"].HasChanges {
		t.Error("experience should be unchanged")
	}
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"a\n", 1},
		{"a\nb", 2},
		{"a\nb\n", 2},
	}
	for _, tt := range tests {
		if got := lineCount(tt.in); got != tt.want {
			t.Errorf("lineCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
