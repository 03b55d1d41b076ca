package resume

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

func TestCanonicalSection(t *testing.T) {
	tests := []struct {
		header   string
		want     string
		standard bool
	}{
		{"Experience", "experience", true},
		{"WORK EXPERIENCE", "experience", true},
		{"Employment History:", "experience", true},
		{"Technical Skills", "skills", true},
		{"Core Competencies", "skills", true},
		{"Career Objective", "summary", true},
		{"About Me", "summary", true},
		{"Achievements", "awards", true},
		{"Honours", "awards", true},
		{"Personal Details", "contact", true},
		{"My Journey", "", false},
		{"Stuff I Did", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := canonicalSection(tt.header)
			if ok != tt.standard {
				t.Errorf("canonicalSection(%q) standard = %v, want %v", tt.header, ok, tt.standard)
			}
			if ok && got != tt.want {
				t.Errorf("canonicalSection(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestOrganiseSections(t *testing.T) {
	blocks := []block{
		{kind: blockText, text: "Jane Roe"},
		{kind: blockText, text: "jane@example.com"},
		{kind: blockHeading, text: "Professional Summary"},
		{kind: blockText, text: "Backend engineer."},
		{kind: blockHeading, text: "My Journey"},
		{kind: blockText, text: "Did things."},
		{kind: blockHeading, text: "Skills"},
		{kind: blockList, text: "Go"},
	}

	sections, headers := organiseSections(blocks)

	// Content before the first heading lands in "header".
	if got := sections["header"]; len(got) != 2 || got[0] != "Jane Roe" {
		t.Errorf("header section = %v", got)
	}
	if got := sections["summary"]; len(got) != 1 || got[0] != "Backend engineer." {
		t.Errorf("summary section = %v", got)
	}
	if got := sections["other"]; len(got) != 1 || got[0] != "Did things." {
		t.Errorf("other section = %v", got)
	}
	if got := sections["skills"]; len(got) != 1 || got[0] != "Go" {
		t.Errorf("skills section = %v", got)
	}

	if len(headers) != 3 {
		t.Fatalf("got %d headers, want 3", len(headers))
	}
	if headers[0].Canonical != "summary" || !headers[0].IsStandard {
		t.Errorf("headers[0] = %+v", headers[0])
	}
	if headers[1].Original != "My Journey" || headers[1].Canonical != "other" || headers[1].IsStandard {
		t.Errorf("headers[1] = %+v", headers[1])
	}
}

func TestExtractContact(t *testing.T) {
	text := strings.Join([]string{
		"Jane Roe",
		"jane.roe@example.com | +1 555-123-4567",
		"linkedin.com/in/janeroe | github.com/janeroe",
		"Also reachable at jane@backup.org",
	}, "\n")

	c := extractContact(text)

	if c.Name != "Jane Roe" {
		t.Errorf("Name = %q", c.Name)
	}
	if c.Email != "jane.roe@example.com" {
		t.Errorf("Email = %q", c.Email)
	}
	if len(c.AllEmails) != 2 {
		t.Errorf("AllEmails = %v", c.AllEmails)
	}
	if c.Phone == "" {
		t.Error("phone not found")
	}
	if !strings.Contains(c.LinkedIn, "linkedin.com/in/janeroe") {
		t.Errorf("LinkedIn = %q", c.LinkedIn)
	}
	if !strings.Contains(c.GitHub, "github.com/janeroe") {
		t.Errorf("GitHub = %q", c.GitHub)
	}
}

func TestExtractContactNameRules(t *testing.T) {
	tests := []struct {
		name     string
		first    string
		wantName string
	}{
		{"plain name", "Jane Roe", "Jane Roe"},
		{"email first line", "jane@example.com", ""},
		{"url first line", "https://janeroe.dev", ""},
		{"dotted first line", "Jane Roe, M.Sc", ""},
		{"too long", strings.Repeat("Jane Roe ", 8), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := extractContact(tt.first + "\nSecond line")
			if c.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", c.Name, tt.wantName)
			}
		})
	}
}

func TestPhonePatterns(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"+91 98765 43210", true},
		{"9876543210", true},
		{"555-123-4567", true},
		{"+1 555 123 4567", true},
		{"12345", false},
	}
	for _, tt := range tests {
		got := phoneRe.FindString(tt.in)
		if (got != "") != tt.want {
			t.Errorf("phoneRe(%q) = %q, want match=%v", tt.in, got, tt.want)
		}
	}
}

func TestCheckWarnings(t *testing.T) {
	res := &Resume{
		Contact: Contact{Email: "jane@example.com"},
		Metadata: Metadata{
			HasFooter:  true,
			FooterText: "jane@example.com | page 1",
		},
	}
	warnings := checkWarnings(res)

	var hasFooterWarning, hasPhoneWarning bool
	for _, w := range warnings {
		if strings.Contains(w, "Email found in page footer") {
			hasFooterWarning = true
		}
		if w == "No phone number found in resume" {
			hasPhoneWarning = true
		}
	}
	if !hasFooterWarning {
		t.Errorf("missing footer warning in %v", warnings)
	}
	if !hasPhoneWarning {
		t.Errorf("missing phone warning in %v", warnings)
	}
}

func TestIsHeadingLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Experience", true},
		{"TECHNICAL EXPERTISE", true},
		{"Skills:", true},
		{"Worked on backend systems at scale", false},
		{"jane@example.com", false},
		{"2019 - 2022", false},
		{"AB", false}, // too short for an all-caps label
	}
	for _, tt := range tests {
		if got := isHeadingLine(tt.line); got != tt.want {
			t.Errorf("isHeadingLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestParseGate(t *testing.T) {
	engine.Init(engine.Config{MaxResumeSizeMB: 1})
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		if _, err := Parse(filepath.Join(dir, "nope.pdf")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(dir, "resume.txt")
		if err := os.WriteFile(path, []byte("text"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := Parse(path)
		if err == nil || !strings.Contains(err.Error(), "unsupported file type") {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("oversized file", func(t *testing.T) {
		path := filepath.Join(dir, "big.pdf")
		if err := os.WriteFile(path, make([]byte, 2<<20), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := Parse(path)
		if err == nil || !strings.Contains(err.Error(), "too large") {
			t.Errorf("err = %v", err)
		}
	})
}

func TestParseDOCX(t *testing.T) {
	engine.Init(engine.Config{})
	dir := t.TempDir()
	path := writeTestDocx(t, dir, docxFixture{
		body: []string{
			textPara("Jane Roe"),
			textPara("jane.roe@example.com | +1 555-123-4567"),
			headingPara("Heading1", "Professional Summary"),
			textPara("Backend engineer with 8 years of Go."),
			headingPara("Heading1", "Work Experience"),
			textPara("Acme Corp, Senior Engineer, Jan 2020 - Present"),
			bulletPara("Built payment APIs in Go"),
			headingPara("Heading1", "My Journey"),
			textPara("Long and winding."),
			textPara("SKILLS"),
			textPara("Go, PostgreSQL, Kubernetes"),
		},
		header: "Jane Roe Resume",
		footer: "jane.roe@example.com",
	})

	res, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if res.FileInfo.Type != "docx" {
		t.Errorf("Type = %q", res.FileInfo.Type)
	}
	if res.Contact.Name != "Jane Roe" {
		t.Errorf("Name = %q", res.Contact.Name)
	}
	if res.Contact.Email != "jane.roe@example.com" {
		t.Errorf("Email = %q", res.Contact.Email)
	}

	if got := res.Sections["summary"]; len(got) != 1 {
		t.Errorf("summary = %v", got)
	}
	if got := res.Sections["experience"]; len(got) != 2 {
		t.Errorf("experience = %v", got)
	}
	if got := res.Sections["skills"]; len(got) != 1 {
		t.Errorf("skills = %v", got)
	}

	var nonStandard []string
	for _, h := range res.SectionHeaders {
		if !h.IsStandard {
			nonStandard = append(nonStandard, h.Original)
		}
	}
	if len(nonStandard) != 1 || nonStandard[0] != "My Journey" {
		t.Errorf("non-standard headers = %v", nonStandard)
	}

	if !res.Metadata.HasHeader || !res.Metadata.HasFooter {
		t.Errorf("header/footer = %v/%v", res.Metadata.HasHeader, res.Metadata.HasFooter)
	}

	// Email sits in the footer part: the warning must fire.
	var emailInFooter bool
	for _, w := range res.Metadata.Warnings {
		if strings.Contains(w, "Email found in page footer") {
			emailInFooter = true
		}
	}
	if !emailInFooter {
		t.Errorf("warnings = %v", res.Metadata.Warnings)
	}
}

func TestRepeatedEdge(t *testing.T) {
	t.Run("repeated on two pages", func(t *testing.T) {
		text, ok := repeatedEdge([]string{"Jane Roe - Resume", "Jane Roe - Resume", "References"})
		if !ok || text != "Jane Roe - Resume" {
			t.Errorf("got %q, %v", text, ok)
		}
	})
	t.Run("all distinct", func(t *testing.T) {
		if _, ok := repeatedEdge([]string{"a", "b", "c"}); ok {
			t.Error("distinct rows reported as repeated")
		}
	})
	t.Run("single page", func(t *testing.T) {
		if _, ok := repeatedEdge([]string{"only page"}); ok {
			t.Error("single page cannot have repeats")
		}
	})
}

// --- docx fixture helpers ---

type docxFixture struct {
	body   []string
	header string
	footer string
}

const docxNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func textPara(text string) string {
	return "<w:p><w:r><w:t>" + text + "</w:t></w:r></w:p>"
}

func headingPara(style, text string) string {
	return `<w:p><w:pPr><w:pStyle w:val="` + style + `"/></w:pPr><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func bulletPara(text string) string {
	return `<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/></w:numPr></w:pPr><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func writeTestDocx(t *testing.T, dir string, fx docxFixture) string {
	t.Helper()

	path := filepath.Join(dir, "resume.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}

	write("word/document.xml",
		`<?xml version="1.0" encoding="UTF-8"?><w:document `+docxNS+`><w:body>`+
			strings.Join(fx.body, "")+`</w:body></w:document>`)

	if fx.header != "" {
		write("word/header1.xml",
			`<?xml version="1.0" encoding="UTF-8"?><w:hdr `+docxNS+`>`+textPara(fx.header)+`</w:hdr>`)
	}
	if fx.footer != "" {
		write("word/footer1.xml",
			`<?xml version="1.0" encoding="UTF-8"?><w:ftr `+docxNS+`>`+textPara(fx.footer)+`</w:ftr>`)
	}

	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}
