package extract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func buildWorkbook(t *testing.T, sheets map[string][][]string, order []string) []byte {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", order[0]))
	for _, name := range order[1:] {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
	}
	for name, rows := range sheets {
		for r, row := range rows {
			for c, cell := range row {
				ref, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(name, ref, cell))
			}
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestContent_RouterDispatch(t *testing.T) {
	tests := []struct {
		name         string
		data         []byte
		declaredType string
		fileName     string
		want         string
	}{
		{
			name:         "plain text by mime",
			data:         []byte("  hello world\n"),
			declaredType: "text/plain",
			fileName:     "notes.bin",
			want:         "hello world",
		},
		{
			name:         "plain text by extension",
			data:         []byte("hi"),
			declaredType: "application/octet-stream",
			fileName:     "readme.TXT",
			want:         "hi",
		},
		{
			name:         "legacy doc placeholder",
			data:         []byte{0xd0, 0xcf},
			declaredType: "application/msword",
			fileName:     "old.doc",
			want:         "DOC file: old.doc (legacy format - content extraction limited)",
		},
		{
			name:         "image metadata",
			data:         make([]byte, 2048),
			declaredType: "image/png",
			fileName:     "logo.png",
			want:         "Image file: logo.png, Size: 2.00KB, Type: image/png",
		},
		{
			name:         "unsupported type placeholder",
			data:         []byte("binary"),
			declaredType: "application/zip",
			fileName:     "archive.zip",
			want:         "File: archive.zip (application/zip)",
		},
		{
			name:         "corrupt pdf degrades to empty",
			data:         []byte("not a pdf at all"),
			declaredType: "application/pdf",
			fileName:     "broken.pdf",
			want:         "",
		},
		{
			name:         "corrupt xlsx by extension degrades to empty",
			data:         []byte("not a workbook"),
			declaredType: "application/octet-stream",
			fileName:     "report.xlsx",
			want:         "",
		},
		{
			name:         "corrupt docx degrades to empty",
			data:         []byte("not a zip"),
			declaredType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			fileName:     "letter.docx",
			want:         "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Content(tt.data, tt.declaredType, tt.fileName))
		})
	}
}

func TestContent_ExtensionFallbackRoutesToExcel(t *testing.T) {
	// A mislabelled workbook must still reach the Excel extractor.
	data := buildWorkbook(t, map[string][][]string{
		"Budget": {{"item", "cost"}, {"pens", "3"}},
	}, []string{"Budget"})

	got := Content(data, "application/octet-stream", "report.xlsx")

	assert.Contains(t, got, "--- Budget ---")
	assert.Contains(t, got, "item\tcost")
	assert.Contains(t, got, "pens\t3")
}

func TestExcel_SheetOrder(t *testing.T) {
	data := buildWorkbook(t, map[string][][]string{
		"Q1": {{"jan", "feb"}},
		"Q2": {{"apr", "may"}},
	}, []string{"Q1", "Q2"})

	got := Excel(data)

	q1 := strings.Index(got, "--- Q1 ---")
	q2 := strings.Index(got, "--- Q2 ---")
	require.GreaterOrEqual(t, q1, 0)
	require.Greater(t, q2, q1)
	assert.Contains(t, got, "jan\tfeb")
	assert.Contains(t, got, "apr\tmay")
}

func TestDOCX(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second</w:t></w:r><w:r><w:t> paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	got := DOCX(buildDOCX(t, doc))

	assert.Equal(t, "First paragraph.\nSecond paragraph.", got)
}

func TestDOCX_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, _ = w.Write([]byte("<styles/>"))
	require.NoError(t, zw.Close())

	assert.Empty(t, DOCX(buf.Bytes()))
}

func TestPDF_CorruptInput(t *testing.T) {
	assert.Empty(t, PDF([]byte("%PDF-1.4 truncated garbage")))
	assert.Empty(t, PDF(nil))
}

func TestPlainText_PreservesInternalWhitespace(t *testing.T) {
	got := PlainText([]byte("\n\nline one\n\tline two  \n"))
	assert.Equal(t, "line one\n\tline two", got)
}
