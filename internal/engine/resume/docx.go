package resume

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
)

// parseDOCX extracts paragraphs from word/document.xml and real
// header/footer parts from word/header*.xml / word/footer*.xml.
func parseDOCX(path string) (*document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("resume: open docx: %w", err)
	}
	defer zr.Close()

	doc := &document{pageCount: 1}
	var headerParts, footerParts []string

	for _, f := range zr.File {
		switch {
		case f.Name == "word/document.xml":
			paras, err := docxParagraphs(f)
			if err != nil {
				return nil, fmt.Errorf("resume: parse docx body: %w", err)
			}
			doc.blocks = blocksFromParagraphs(paras)
			var lines []string
			for _, p := range paras {
				if p.text != "" {
					lines = append(lines, p.text)
				}
			}
			doc.text = strings.Join(lines, "\n")

		case isDocxPart(f.Name, "header"):
			headerParts = append(headerParts, docxPartText(f))

		case isDocxPart(f.Name, "footer"):
			footerParts = append(footerParts, docxPartText(f))

		case f.Name == "docProps/app.xml":
			if n := docxPageCount(f); n > 0 {
				doc.pageCount = n
			}
		}
	}

	if strings.TrimSpace(doc.text) == "" {
		return nil, fmt.Errorf("resume: no text content found in %s", filepath.Base(path))
	}

	if text := strings.TrimSpace(strings.Join(headerParts, " ")); text != "" {
		doc.hasHeader, doc.headerText = true, text
	}
	if text := strings.TrimSpace(strings.Join(footerParts, " ")); text != "" {
		doc.hasFooter, doc.footerText = true, text
	}
	return doc, nil
}

func isDocxPart(name, kind string) bool {
	return strings.HasPrefix(name, "word/"+kind) && strings.HasSuffix(name, ".xml")
}

// docxPara is one paragraph from a WordprocessingML part.
type docxPara struct {
	style string // pStyle val, e.g. "Heading1"
	list  bool   // has numbering properties
	text  string
}

func docxParagraphs(f *zip.File) ([]docxPara, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return decodeParagraphs(rc)
}

// decodeParagraphs walks WordprocessingML tokens. Namespace prefixes are
// ignored: Go's xml package exposes local names, and hyperlink-wrapped
// runs are picked up because only p/pStyle/numPr/t/tab/br matter.
func decodeParagraphs(r io.Reader) ([]docxPara, error) {
	dec := xml.NewDecoder(r)
	var paras []docxPara
	var cur *docxPara
	var sb strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				cur = &docxPara{}
				sb.Reset()
			case "pStyle":
				if cur != nil {
					for _, a := range t.Attr {
						if a.Name.Local == "val" {
							cur.style = a.Value
						}
					}
				}
			case "numPr":
				if cur != nil {
					cur.list = true
				}
			case "t":
				if cur != nil {
					var s string
					if err := dec.DecodeElement(&s, &t); err == nil {
						sb.WriteString(s)
					}
				}
			case "tab":
				if cur != nil {
					sb.WriteString(" ")
				}
			case "br":
				if cur != nil {
					sb.WriteString(" ")
				}
			}
		case xml.EndElement:
			if t.Name.Local == "p" && cur != nil {
				cur.text = strings.TrimSpace(sb.String())
				paras = append(paras, *cur)
				cur = nil
			}
		}
	}
	return paras, nil
}

// blocksFromParagraphs classifies paragraphs using their style first,
// falling back to the text heuristics for styleless resumes.
func blocksFromParagraphs(paras []docxPara) []block {
	var blocks []block
	for _, p := range paras {
		if p.text == "" {
			continue
		}
		style := strings.ToLower(p.style)
		switch {
		case strings.Contains(style, "heading") || strings.Contains(style, "title"):
			blocks = append(blocks, block{kind: blockHeading, text: p.text})
		case p.list:
			blocks = append(blocks, block{kind: blockList, text: p.text})
		case isHeadingLine(p.text):
			blocks = append(blocks, block{kind: blockHeading, text: p.text})
		case IsListLine(p.text):
			blocks = append(blocks, block{kind: blockList, text: p.text})
		default:
			blocks = append(blocks, block{kind: blockText, text: p.text})
		}
	}
	return blocks
}

func docxPartText(f *zip.File) string {
	paras, err := docxParagraphs(f)
	if err != nil {
		slog.Warn("resume: docx part unreadable", slog.String("part", f.Name), slog.Any("error", err))
		return ""
	}
	var lines []string
	for _, p := range paras {
		if p.text != "" {
			lines = append(lines, p.text)
		}
	}
	return strings.Join(lines, " ")
}

// docxPageCount reads <Pages> from docProps/app.xml when present.
func docxPageCount(f *zip.File) int {
	rc, err := f.Open()
	if err != nil {
		return 0
	}
	defer rc.Close()

	var props struct {
		Pages string `xml:"Pages"`
	}
	if err := xml.NewDecoder(rc).Decode(&props); err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(props.Pages))
	if err != nil {
		return 0
	}
	return n
}
