package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// Office Open XML structure for word/document.xml. Only the text-bearing
// elements are mapped; formatting is discarded.
type docxDocument struct {
	Body docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Text  []string   `xml:"t"`
	Tabs  []struct{} `xml:"tab"`
	Waits []struct{} `xml:"br"`
}

// DOCX extracts the raw text of an Office Open XML word document. Paragraphs
// are separated by newlines, tab marks become tabs. Any structural failure
// degrades to an empty string.
func DOCX(data []byte) string {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return ""
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return ""
		}

		var doc docxDocument
		if err := xml.Unmarshal(raw, &doc); err != nil {
			return ""
		}

		var b strings.Builder
		for _, para := range doc.Body.Paragraphs {
			var line strings.Builder
			for _, run := range para.Runs {
				for _, t := range run.Text {
					line.WriteString(t)
				}
				for range run.Tabs {
					line.WriteByte('\t')
				}
				for range run.Waits {
					line.WriteByte('\n')
				}
			}
			b.WriteString(line.String())
			b.WriteByte('\n')
		}
		return strings.TrimSpace(b.String())
	}

	return ""
}
