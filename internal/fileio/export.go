package fileio

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"

	"docedit/internal/diff"
)

const (
	contentTypeTXT  = "text/plain; charset=utf-8"
	contentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	contentTypePDF  = "application/pdf"
)

// span is a run of text with a single color. Changed text is rendered red in
// docx and pdf exports.
type span struct {
	text    string
	changed bool
}

// Export serializes text into the requested download format. The optional
// change list colors inserted/replaced text red in docx and pdf output; txt
// output ignores it. Returns the artifact bytes and its MIME content type.
func Export(text, format string, changes []diff.Change) ([]byte, string, error) {
	switch strings.ToLower(format) {
	case "txt", "md":
		return []byte(text), contentTypeTXT, nil
	case "docx":
		data, err := exportDOCX(spansFor(text, changes))
		return data, contentTypeDOCX, err
	case "pdf":
		data, err := exportPDF(spansFor(text, changes))
		return data, contentTypePDF, err
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// spansFor partitions text into plain and changed spans. Change positions are
// offsets into text; out-of-range entries are clamped rather than rejected so
// a stale change list degrades to plain output instead of failing the export.
func spansFor(text string, changes []diff.Change) []span {
	if len(changes) == 0 {
		return []span{{text: text}}
	}

	sorted := make([]diff.Change, len(changes))
	copy(sorted, changes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	var spans []span
	cur := 0
	for _, ch := range sorted {
		start := ch.Position
		if start < cur {
			start = cur
		}
		if start > len(text) {
			start = len(text)
		}
		end := start + len(ch.Text)
		if end > len(text) {
			end = len(text)
		}
		if start > cur {
			spans = append(spans, span{text: text[cur:start]})
		}
		if end > start {
			spans = append(spans, span{text: text[start:end], changed: true})
		}
		cur = end
	}
	if cur < len(text) {
		spans = append(spans, span{text: text[cur:]})
	}
	return spans
}

const (
	docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

	docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`
)

// exportDOCX writes a minimal OOXML package: content types, package rels, and
// a document.xml whose paragraphs follow the newlines in the spans.
func exportDOCX(spans []span) ([]byte, error) {
	var doc strings.Builder
	doc.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	doc.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	doc.WriteString("<w:p>")
	for _, sp := range spans {
		parts := strings.Split(sp.text, "\n")
		for i, part := range parts {
			if i > 0 {
				doc.WriteString("</w:p><w:p>")
			}
			if part == "" {
				continue
			}
			doc.WriteString("<w:r>")
			if sp.changed {
				doc.WriteString(`<w:rPr><w:color w:val="FF0000"/></w:rPr>`)
			}
			doc.WriteString(`<w:t xml:space="preserve">`)
			if err := xml.EscapeText(&doc, []byte(part)); err != nil {
				return nil, fmt.Errorf("escape docx text: %w", err)
			}
			doc.WriteString("</w:t></w:r>")
		}
	}
	doc.WriteString("</w:p></w:body></w:document>")

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	files := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", doc.String()},
	}
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", f.name, err)
		}
		if _, err := w.Write([]byte(f.body)); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize docx: %w", err)
	}
	return buf.Bytes(), nil
}

func exportPDF(spans []span) ([]byte, error) {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)

	const lineHeight = 14.0
	for _, sp := range spans {
		if sp.changed {
			doc.SetTextColor(255, 0, 0)
		} else {
			doc.SetTextColor(0, 0, 0)
		}
		parts := strings.Split(sp.text, "\n")
		for i, part := range parts {
			if i > 0 {
				doc.Ln(lineHeight)
			}
			if part != "" {
				doc.Write(lineHeight, part)
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := doc.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
