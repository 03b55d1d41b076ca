package jobs

import (
	"bytes"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// pageContent is the raw material pulled out of a job posting page
// before any model-side structuring.
type pageContent struct {
	Title       string
	Company     string
	Description string
}

// containerSelectors are tried in order; the first non-empty match wins.
// Boards that wrap the posting in a recognisable container give much
// cleaner text than a whole-page conversion.
var containerSelectors = []string{
	"div.job-description",
	"div.jobDescriptionContent",
	"div.description",
	"div.job-details",
	"div#job-description",
	"div#jobDescription",
	"div.jd-container",
}

var chromeSelectors = []string{
	"script", "style", "noscript", "iframe", "svg",
	"nav", "footer", "header",
}

// extractJobPage pulls title, company and description out of a posting
// page. The description comes back as markdown so lists and headings
// survive into the stored text.
func extractJobPage(html []byte) (*pageContent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("jobs: parse page: %w", err)
	}
	doc.Find(strings.Join(chromeSelectors, ", ")).Remove()

	return &pageContent{
		Title:       extractTitle(doc),
		Company:     extractCompany(doc),
		Description: extractDescription(doc),
	}, nil
}

func extractTitle(doc *goquery.Document) string {
	selectors := []string{
		"h1.job-title", "h2.job-title",
		"h1.jobTitle", "h2.jobTitle",
		"h1.title", "h2.title",
	}
	for _, sel := range selectors {
		if t := collapseSpace(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	if t := collapseSpace(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	return collapseSpace(doc.Find("title").First().Text())
}

func extractCompany(doc *goquery.Document) string {
	selectors := []string{
		"span.company-name", "a.company-name", "div.company-name",
		"span.companyName", "a.companyName", "div.companyName",
		"span.company", "a.company", "div.company",
	}
	for _, sel := range selectors {
		if c := collapseSpace(doc.Find(sel).First().Text()); c != "" {
			return c
		}
	}
	return ""
}

func extractDescription(doc *goquery.Document) string {
	for _, sel := range containerSelectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if md := selectionMarkdown(node); md != "" {
			return md
		}
	}
	// No recognisable container: take the page's main content region.
	for _, sel := range []string{"main", "article", "body"} {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if md := selectionMarkdown(node); md != "" {
			return md
		}
	}
	return ""
}

// selectionMarkdown converts a selection to markdown, falling back to
// plain text when conversion fails.
func selectionMarkdown(sel *goquery.Selection) string {
	raw, err := goquery.OuterHtml(sel)
	if err != nil {
		return strings.TrimSpace(sel.Text())
	}
	md, err := htmltomarkdown.ConvertString(raw)
	if err != nil {
		return strings.TrimSpace(sel.Text())
	}
	return strings.TrimSpace(md)
}

// collapseSpace flattens whitespace runs to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
