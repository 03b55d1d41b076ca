package resume

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// parsePDF extracts text, positioned rows and page metadata.
// The pdf library panics on malformed files, hence the recover.
func parsePDF(path string) (doc *document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("resume: pdf parse failed for %s: %v", filepath.Base(path), r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("resume: open pdf: %w", err)
	}
	defer f.Close()

	doc = &document{pageCount: r.NumPage()}

	var sb strings.Builder
	var firstRows, lastRows []string

	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows := pageRows(i, page)
		if len(rows) == 0 {
			// No positioned runs (scanned page or odd encoding):
			// fall back to the plain-text stream.
			text, err := page.GetPlainText(nil)
			if err != nil {
				slog.Warn("resume: pdf page extraction failed", slog.Int("page", i), slog.Any("error", err))
				continue
			}
			sb.WriteString(text)
			sb.WriteString("\n")
			continue
		}

		for _, row := range rows {
			sb.WriteString(row.Text)
			sb.WriteString("\n")
		}
		doc.layout = append(doc.layout, rows...)
		firstRows = append(firstRows, rows[0].Text)
		lastRows = append(lastRows, rows[len(rows)-1].Text)
	}

	doc.text = strings.TrimSpace(sb.String())
	if doc.text == "" {
		return nil, fmt.Errorf("resume: no text content found in %s", filepath.Base(path))
	}
	doc.blocks = blocksFromText(doc.text)

	// The same first/last row on 2+ pages is page furniture.
	if text, ok := repeatedEdge(firstRows); ok {
		doc.hasHeader, doc.headerText = true, text
	}
	if text, ok := repeatedEdge(lastRows); ok {
		doc.hasFooter, doc.footerText = true, text
	}
	return doc, nil
}

// pageRows groups positioned text runs into visual rows, top to bottom.
func pageRows(pageNum int, page pdf.Page) []Row {
	runs := page.Content().Text
	if len(runs) == 0 {
		return nil
	}

	// PDF y-origin is bottom-left: larger Y is higher on the page.
	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].Y != runs[j].Y {
			return runs[i].Y > runs[j].Y
		}
		return runs[i].X < runs[j].X
	})

	const yTolerance = 2.0
	var rows []Row
	var cur []pdf.Text
	flush := func() {
		if len(cur) == 0 {
			return
		}
		if row := buildRow(pageNum, cur); row.Text != "" {
			rows = append(rows, row)
		}
		cur = nil
	}
	for _, t := range runs {
		if t.S == "" {
			continue
		}
		if len(cur) > 0 && math.Abs(cur[0].Y-t.Y) > yTolerance {
			flush()
		}
		cur = append(cur, t)
	}
	flush()
	return rows
}

func buildRow(pageNum int, runs []pdf.Text) Row {
	row := Row{Page: pageNum, Y: runs[0].Y}
	var sb strings.Builder
	var prevEnd float64
	for i, t := range runs {
		row.X = append(row.X, t.X)
		if i > 0 && t.X-prevEnd > 2 {
			sb.WriteString(" ")
		}
		sb.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	row.Text = strings.TrimSpace(sb.String())
	return row
}

// repeatedEdge returns the most repeated non-empty row text when it
// appears on at least two pages.
func repeatedEdge(rowTexts []string) (string, bool) {
	counts := make(map[string]int)
	for _, t := range rowTexts {
		t = strings.TrimSpace(t)
		if t != "" {
			counts[t]++
		}
	}
	best, n := "", 0
	for t, c := range counts {
		if c > n || (c == n && t < best) {
			best, n = t, c
		}
	}
	return best, n >= 2
}
