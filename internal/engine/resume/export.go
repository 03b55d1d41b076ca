package resume

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/tailor"
)

//go:embed templates/resume.html.tmpl
var htmlTemplate string

var (
	resumeTmpl      = template.Must(template.New("resume").Parse(htmlTemplate))
	filenameCleanRe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
	titleCaser      = cases.Title(language.English)
)

// ExportInput selects the content and naming for an export. Exactly one
// of Text or Token must be set; a token is consumed on use.
type ExportInput struct {
	Text    string
	Token   string
	Format  string // "md" or "html"
	Name    string
	Company string
	Title   string
}

// Export writes the resume text as markdown or HTML into the outputs
// dir and returns the file path.
func Export(in ExportInput) (string, error) {
	text, err := resolveExportText(in)
	if err != nil {
		return "", err
	}

	format := strings.ToLower(strings.TrimSpace(in.Format))
	if format == "" || format == "markdown" {
		format = "md"
	}

	var content string
	switch format {
	case "md":
		content = renderMarkdown(splitExportSections(text))
	case "html":
		content, err = renderHTML(in.Name, splitExportSections(text))
		if err != nil {
			return "", fmt.Errorf("resume: render html: %w", err)
		}
	default:
		return "", fmt.Errorf("resume: unsupported export format %q, use md or html", in.Format)
	}

	dir := outputsDir()
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("resume: create outputs dir: %w", err)
	}

	path := filepath.Join(dir, exportFilename(in.Name, in.Company, in.Title, format))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("resume: write export: %w", err)
	}
	return path, nil
}

func resolveExportText(in ExportInput) (string, error) {
	hasText := strings.TrimSpace(in.Text) != ""
	hasToken := strings.TrimSpace(in.Token) != ""
	switch {
	case hasText && hasToken:
		return "", fmt.Errorf("resume: provide either text or a tailor token, not both")
	case hasToken:
		text, err := tailor.Consume(strings.TrimSpace(in.Token))
		if err != nil {
			return "", fmt.Errorf("resume: export token: %w", err)
		}
		return text, nil
	case hasText:
		return in.Text, nil
	default:
		return "", fmt.Errorf("resume: nothing to export, provide text or a tailor token")
	}
}

func outputsDir() string {
	if engine.Cfg.OutputsDir != "" {
		return engine.Cfg.OutputsDir
	}
	if engine.Cfg.DataDir != "" {
		return filepath.Join(engine.Cfg.DataDir, "outputs")
	}
	return "outputs"
}

// exportFilename builds {name}_{company}_{title}_{YYYYMMDD}.{ext},
// cleaned to [A-Za-z0-9_-].
func exportFilename(name, company, title, ext string) string {
	parts := []string{"resume"}
	if name != "" {
		parts[0] = name
	}
	if company != "" {
		parts = append(parts, company)
	}
	if title != "" {
		parts = append(parts, title)
	}
	parts = append(parts, time.Now().Format("20060102"))

	joined := strings.ReplaceAll(strings.Join(parts, "_"), " ", "_")
	return filenameCleanRe.ReplaceAllString(joined, "") + "." + ext
}

// exportSection groups rendered lines under one detected heading.
// Consecutive bullets collapse into a single node so HTML lists and
// markdown runs come out contiguous.
type exportSection struct {
	Heading string
	Items   []exportNode
}

type exportNode struct {
	Paragraph string
	Bullets   []string
}

func splitExportSections(text string) []exportSection {
	sections := []exportSection{{}}
	cur := func() *exportSection { return &sections[len(sections)-1] }

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch {
		case isExportHeading(line):
			sections = append(sections, exportSection{Heading: titleCaser.String(strings.ToLower(line))})
		case IsListLine(line):
			item := strings.Trim(strings.TrimLeft(line, "•-–▪►*"), " ")
			s := cur()
			if n := len(s.Items); n > 0 && len(s.Items[n-1].Bullets) > 0 {
				s.Items[n-1].Bullets = append(s.Items[n-1].Bullets, item)
			} else {
				s.Items = append(s.Items, exportNode{Bullets: []string{item}})
			}
		default:
			s := cur()
			s.Items = append(s.Items, exportNode{Paragraph: line})
		}
	}

	if sections[0].Heading == "" && len(sections[0].Items) == 0 {
		sections = sections[1:]
	}
	return sections
}

// isExportHeading mirrors the heading heuristic for plain-text input:
// an all-caps line shorter than 50 chars.
func isExportHeading(line string) bool {
	if utf8.RuneCountInString(line) >= 50 {
		return false
	}
	hasUpper := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

func renderMarkdown(sections []exportSection) string {
	var sb strings.Builder
	for _, s := range sections {
		if s.Heading != "" {
			sb.WriteString("## " + s.Heading + "\n\n")
		}
		for _, n := range s.Items {
			if len(n.Bullets) > 0 {
				for _, b := range n.Bullets {
					sb.WriteString("- " + b + "\n")
				}
				sb.WriteString("\n")
				continue
			}
			sb.WriteString(n.Paragraph + "\n\n")
		}
	}
	return strings.TrimSpace(sb.String()) + "\n"
}

func renderHTML(title string, sections []exportSection) (string, error) {
	if title == "" {
		title = "Resume"
	}
	var sb strings.Builder
	err := resumeTmpl.Execute(&sb, struct {
		Title    string
		Sections []exportSection
	}{Title: title, Sections: sections})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
