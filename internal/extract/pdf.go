package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts text page by page. Text runs within a page are joined by single
// spaces, pages by a newline, and the result is trimmed. Malformed documents
// (including ones that make the parser panic) degrade to an empty string.
func PDF(data []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	var full strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()

		var pageText strings.Builder
		for _, item := range content.Text {
			if pageText.Len() > 0 {
				pageText.WriteByte(' ')
			}
			pageText.WriteString(item.S)
		}
		full.WriteString(pageText.String())
		full.WriteByte('\n')
	}

	return strings.TrimSpace(full.String())
}
