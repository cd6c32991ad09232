package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Excel extracts text from every sheet of a workbook, in the order the sheets
// are declared. Each sheet contributes a "--- <name> ---" header followed by
// its rows, cells joined by tabs. Parse failures (including legacy binary .xls
// files, which the OOXML reader cannot open) degrade to an empty string.
func Excel(data []byte) string {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	defer f.Close()

	var full strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}

		var sheetText strings.Builder
		for _, row := range rows {
			sheetText.WriteString(strings.Join(row, "\t"))
			sheetText.WriteByte('\n')
		}
		full.WriteString(fmt.Sprintf("\n--- %s ---\n%s\n", sheet, sheetText.String()))
	}

	return strings.TrimSpace(full.String())
}
