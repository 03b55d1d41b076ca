// Package resume parses PDF and DOCX resumes into structured data:
// canonical sections, contact info, layout rows and page metadata.
// The output feeds the ATS scoring layers and the tailoring prompts.
package resume

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

// Resume is the parsed contract shared by the ATS checker, the profiler
// and the tailor. Section names are canonical (see sectionMap).
type Resume struct {
	FileInfo       FileInfo            `json:"file_info"`
	Contact        Contact             `json:"contact"`
	Sections       map[string][]string `json:"sections"`
	SectionHeaders []SectionHeader     `json:"section_headers"`
	RawText        string              `json:"raw_text"`
	Layout         []Row               `json:"layout,omitempty"`
	Metadata       Metadata            `json:"metadata"`
}

type FileInfo struct {
	Path string `json:"path"`
	Type string `json:"type"` // "pdf" or "docx"
}

type Contact struct {
	Name      string   `json:"name,omitempty"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	LinkedIn  string   `json:"linkedin,omitempty"`
	GitHub    string   `json:"github,omitempty"`
	AllEmails []string `json:"all_emails,omitempty"`
	AllPhones []string `json:"all_phones,omitempty"`
}

// SectionHeader records a heading as it appeared in the document and the
// canonical section it was mapped to. Non-standard headers keep
// IsStandard=false and count against the formatting score.
type SectionHeader struct {
	Original   string `json:"original"`
	Canonical  string `json:"canonical"`
	IsStandard bool   `json:"is_standard"`
}

// Row is one positioned text row from a PDF page. X holds the start
// x-coordinate of every text run in the row, sorted ascending; the
// column-layout check looks for large gaps in it.
type Row struct {
	Page int       `json:"page"`
	Y    float64   `json:"y"`
	X    []float64 `json:"x"`
	Text string    `json:"text"`
}

type Metadata struct {
	PageCount  int      `json:"page_count"`
	HasHeader  bool     `json:"has_header"`
	HasFooter  bool     `json:"has_footer"`
	HeaderText string   `json:"header_text,omitempty"`
	FooterText string   `json:"footer_text,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Canonical section vocabulary. Headers not in sectionMap canonicalize
// to "other"; content before the first heading lands in "header".
var sectionMap = map[string]string{
	"experience":              "experience",
	"work experience":         "experience",
	"professional experience": "experience",
	"employment history":      "experience",
	"career history":          "experience",
	"work history":            "experience",
	"education":               "education",
	"academic background":     "education",
	"qualifications":          "education",
	"skills":                  "skills",
	"technical skills":        "skills",
	"core competencies":       "skills",
	"key skills":              "skills",
	"expertise":               "skills",
	"summary":                 "summary",
	"professional summary":    "summary",
	"objective":               "summary",
	"career objective":        "summary",
	"profile":                 "summary",
	"about":                   "summary",
	"about me":                "summary",
	"projects":                "projects",
	"key projects":            "projects",
	"certifications":          "certifications",
	"certificates":            "certifications",
	"awards":                  "awards",
	"achievements":            "awards",
	"honours":                 "awards",
	"honors":                  "awards",
	"publications":            "publications",
	"languages":               "languages",
	"references":              "references",
	"contact":                 "contact",
	"contact information":     "contact",
	"personal details":        "contact",
}

var (
	emailRe    = regexp.MustCompile(`[\w.+-]+@[\w.-]+\.\w+`)
	phoneRe    = regexp.MustCompile(`(?:\+\d{1,3}[\s-]?)?(?:\d{5}[\s-]?\d{5}|\d{10}|\d{3}[\s-]\d{3}[\s-]\d{4})`)
	linkedinRe = regexp.MustCompile(`(?i)linkedin\.com/in/[\w-]+`)
	githubRe   = regexp.MustCompile(`(?i)github\.com/[\w-]+`)
)

// block is an intermediate unit from the format-specific extractors.
type block struct {
	kind blockKind
	text string
}

type blockKind int

const (
	blockText blockKind = iota
	blockHeading
	blockList
)

// document is the raw extraction result before section organisation.
type document struct {
	text       string
	blocks     []block
	layout     []Row
	pageCount  int
	hasHeader  bool
	hasFooter  bool
	headerText string
	footerText string
}

// Parse reads a resume file and returns the structured contract.
// Only .pdf and .docx are accepted, capped at Cfg.MaxResumeSizeMB.
func Parse(path string) (*Resume, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("resume: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".pdf" && ext != ".docx" {
		return nil, fmt.Errorf("resume: unsupported file type %q, only .pdf and .docx are accepted", ext)
	}

	maxMB := engine.Cfg.MaxResumeSizeMB
	if maxMB <= 0 {
		maxMB = 10
	}
	if sizeMB := float64(info.Size()) / (1 << 20); sizeMB > float64(maxMB) {
		return nil, fmt.Errorf("resume: file too large (%.1f MB), maximum allowed size is %d MB", sizeMB, maxMB)
	}

	var doc *document
	switch ext {
	case ".pdf":
		doc, err = parsePDF(path)
	case ".docx":
		doc, err = parseDOCX(path)
	}
	if err != nil {
		return nil, err
	}

	contact := extractContact(doc.text)
	sections, headers := organiseSections(doc.blocks)

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	res := &Resume{
		FileInfo:       FileInfo{Path: abs, Type: strings.TrimPrefix(ext, ".")},
		Contact:        contact,
		Sections:       sections,
		SectionHeaders: headers,
		RawText:        doc.text,
		Layout:         doc.layout,
		Metadata: Metadata{
			PageCount:  doc.pageCount,
			HasHeader:  doc.hasHeader,
			HasFooter:  doc.hasFooter,
			HeaderText: doc.headerText,
			FooterText: doc.footerText,
		},
	}
	res.Metadata.Warnings = checkWarnings(res)

	engine.IncrResumesParsed()
	return res, nil
}

// canonicalSection maps a raw header to its canonical section name.
func canonicalSection(header string) (string, bool) {
	normalized := strings.TrimRight(strings.TrimSpace(strings.ToLower(header)), ":")
	canonical, ok := sectionMap[normalized]
	return canonical, ok
}

var sectionKeys = sortedSectionKeys()

func sortedSectionKeys() []string {
	keys := make([]string, 0, len(sectionMap))
	for k := range sectionMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NearestCanonical suggests the canonical section a non-standard header
// most likely stands for, or "" when nothing comes close. A single word
// from the header hitting the synonym table wins; otherwise the closest
// fuzzy match over the table keys decides.
func NearestCanonical(header string) string {
	normalized := strings.TrimRight(strings.TrimSpace(strings.ToLower(header)), ":")
	if canonical, ok := sectionMap[normalized]; ok {
		return canonical
	}

	for _, word := range strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if canonical, ok := sectionMap[word]; ok {
			return canonical
		}
	}

	best, bestRank := "", -1
	for _, key := range sectionKeys {
		rank := fuzzy.RankMatchNormalizedFold(key, normalized)
		if rank < 0 {
			continue
		}
		if bestRank < 0 || rank < bestRank {
			best, bestRank = sectionMap[key], rank
		}
	}
	return best
}

func organiseSections(blocks []block) (map[string][]string, []SectionHeader) {
	organised := make(map[string][]string)
	headers := []SectionHeader{}
	current := "header"

	for _, b := range blocks {
		if b.kind == blockHeading {
			canonical, ok := canonicalSection(b.text)
			if !ok {
				canonical = "other"
			}
			current = canonical
			headers = append(headers, SectionHeader{
				Original:   b.text,
				Canonical:  canonical,
				IsStandard: ok,
			})
			continue
		}
		organised[current] = append(organised[current], b.text)
	}
	return organised, headers
}

func extractContact(text string) Contact {
	c := Contact{
		AllEmails: emailRe.FindAllString(text, -1),
		AllPhones: phoneRe.FindAllString(text, -1),
	}
	if len(c.AllEmails) > 0 {
		c.Email = c.AllEmails[0]
	}
	if len(c.AllPhones) > 0 {
		c.Phone = c.AllPhones[0]
	}
	if m := linkedinRe.FindString(text); m != "" {
		c.LinkedIn = m
	}
	if m := githubRe.FindString(text); m != "" {
		c.GitHub = m
	}

	// Name is likely the first line if short and free of contact markers.
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) < 60 && !strings.ContainsAny(line, "@.") &&
			!strings.Contains(line, "http") && !strings.Contains(line, "://") {
			c.Name = line
		}
		break
	}
	return c
}

func checkWarnings(res *Resume) []string {
	var warnings []string

	furniture := func(where, text string) {
		if res.Contact.Email != "" && strings.Contains(text, res.Contact.Email) {
			warnings = append(warnings, fmt.Sprintf("Email found in page %s and may be missed by ATS parsers", where))
		}
		if res.Contact.Phone != "" && strings.Contains(text, res.Contact.Phone) {
			warnings = append(warnings, fmt.Sprintf("Phone found in page %s and may be missed by ATS parsers", where))
		}
	}
	if res.Metadata.HasHeader {
		furniture("header", res.Metadata.HeaderText)
	}
	if res.Metadata.HasFooter {
		furniture("footer", res.Metadata.FooterText)
	}

	if res.Contact.Email == "" {
		warnings = append(warnings, "No email address found in resume")
	}
	if res.Contact.Phone == "" {
		warnings = append(warnings, "No phone number found in resume")
	}
	return warnings
}

// blocksFromText classifies plain-text lines into headings, list items
// and body text. Used for PDF input where no style info survives.
func blocksFromText(text string) []block {
	var blocks []block
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case isHeadingLine(line):
			blocks = append(blocks, block{kind: blockHeading, text: line})
		case IsListLine(line):
			blocks = append(blocks, block{kind: blockList, text: line})
		default:
			blocks = append(blocks, block{kind: blockText, text: line})
		}
	}
	return blocks
}

// isHeadingLine: a known section name in any casing, or a short
// all-caps label ("TECHNICAL EXPERTISE").
func isHeadingLine(line string) bool {
	if utf8.RuneCountInString(line) >= 60 {
		return false
	}
	if _, ok := canonicalSection(line); ok {
		return true
	}
	return isAllCapsLabel(line)
}

func isAllCapsLabel(line string) bool {
	if utf8.RuneCountInString(line) >= 50 || strings.ContainsAny(line, "@:/") {
		return false
	}
	letters := 0
	for _, r := range line {
		if unicode.IsDigit(r) {
			return false
		}
		if unicode.IsLetter(r) {
			if unicode.IsLower(r) {
				return false
			}
			letters++
		}
	}
	return letters >= 3
}

var listMarkers = []string{"•", "▪", "►", "◦", "‣", "- ", "* ", "– "}

// IsListLine reports whether a line starts with a recognised bullet
// marker. The formatting checks use it to tell list bullets apart from
// decorative glyphs in running text.
func IsListLine(line string) bool {
	for _, m := range listMarkers {
		if strings.HasPrefix(line, m) {
			return true
		}
	}
	return false
}
