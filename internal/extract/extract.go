// Package extract turns raw uploaded file bytes into best-effort plain text
// for indexing and search. Extraction never fails the caller's flow: parse
// errors degrade to an empty string or a descriptive placeholder, never to an
// error return.
package extract

import (
	"fmt"
	"strings"
)

const (
	mimePDF  = "application/pdf"
	mimeDOC  = "application/msword"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeXLS  = "application/vnd.ms-excel"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeText = "text/plain"
)

// Content routes the file to the right extractor based on its declared MIME
// type, falling back to the filename extension for clients that mislabel the
// type. First match wins: PDF, DOCX, legacy DOC, Excel, plain text, image.
// Anything else yields the generic placeholder. A panicking extractor is
// recovered here and converted to an empty string.
func Content(data []byte, declaredType, fileName string) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	fileType := strings.ToLower(declaredType)
	name := strings.ToLower(fileName)

	switch {
	case fileType == mimePDF:
		return PDF(data)
	case fileType == mimeDOCX || strings.HasSuffix(name, ".docx"):
		return DOCX(data)
	case fileType == mimeDOC || strings.HasSuffix(name, ".doc"):
		// Legacy binary Word format, not parsed.
		return fmt.Sprintf("DOC file: %s (legacy format - content extraction limited)", fileName)
	case fileType == mimeXLSX || fileType == mimeXLS ||
		strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xls"):
		return Excel(data)
	case fileType == mimeText || strings.HasSuffix(name, ".txt"):
		return PlainText(data)
	case strings.HasPrefix(fileType, "image/"):
		return ImageMetadata(fileName, int64(len(data)), declaredType)
	default:
		return fmt.Sprintf("File: %s (%s)", fileName, declaredType)
	}
}

// PlainText decodes the bytes verbatim and trims surrounding whitespace.
// Internal whitespace structure is preserved for the normalizer to handle.
func PlainText(data []byte) string {
	return strings.TrimSpace(string(data))
}

// ImageMetadata synthesizes a searchable description for image files. No pixel
// or OCR analysis is performed.
func ImageMetadata(fileName string, size int64, declaredType string) string {
	return fmt.Sprintf("Image file: %s, Size: %.2fKB, Type: %s", fileName, float64(size)/1024, declaredType)
}
