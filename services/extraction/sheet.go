package extraction

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

var dateLikeRe = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}(/\d{2,4})?|\d{4}-\d{2}-\d{2})\b`)

// extractWorkbook reads every sheet of an Excel workbook. Sheets may use
// section-marker rows (a lone value in the first cell) naming the lab for all
// rows that follow; this is the common layout of per-lab schedule blocks
// inside one flat table.
func extractWorkbook(data []byte) ([]SourceLine, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, NewExtractionFailedError("could not open workbook", err)
	}
	defer f.Close()

	var lines []SourceLine
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			// Skip sheet if rows can't be read
			continue
		}
		lines = append(lines, gridLines(rows, fmt.Sprintf("Sheet: %s", sheet), true)...)
	}
	return lines, nil
}

// extractCSV treats CSV as a degenerate single-sheet spreadsheet.
func extractCSV(data []byte) ([]SourceLine, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, NewExtractionFailedError("could not parse CSV content", err)
		}
		rows = append(rows, record)
	}
	return gridLines(rows, "CSV", false), nil
}

// gridColumns holds the detected column indices of a schedule sheet.
type gridColumns struct {
	date, time, subject, course int
}

// detectGridHeader looks for a header row within the first 5 rows by keyword
// match on date plus at least one of time/course/subject columns.
func detectGridHeader(rows [][]string) (gridColumns, int) {
	cols := gridColumns{date: -1, time: -1, subject: -1, course: -1}
	limit := len(rows)
	if limit > 5 {
		limit = 5
	}
	for ri := 0; ri < limit; ri++ {
		found := gridColumns{date: -1, time: -1, subject: -1, course: -1}
		for ci, cellText := range rows[ri] {
			n := Normalize(cellText)
			if n == "" {
				continue
			}
			switch {
			case found.date < 0 && matchesAny(n, dateHeaderKeywords):
				found.date = ci
			case found.time < 0 && matchesAny(n, timeHeaderKeywords):
				found.time = ci
			case found.course < 0 && matchesAny(n, courseHeaderKeywords):
				found.course = ci
			case found.subject < 0 && matchesAny(n, topicHeaderKeywords):
				found.subject = ci
			}
		}
		if found.date >= 0 && (found.time >= 0 || found.course >= 0 || found.subject >= 0) {
			return found, ri
		}
	}
	return cols, -1
}

// isSectionMarker reports whether a row is a lab section header: a non-empty
// first cell followed by three empty cells.
func isSectionMarker(row []string) bool {
	if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
		return false
	}
	for i := 1; i <= 3; i++ {
		if i < len(row) && strings.TrimSpace(row[i]) != "" {
			return false
		}
	}
	return true
}

// gridLines converts a cell grid into tabular source lines. When
// allowSections is set, section-marker rows update the running lab carried
// onto every following data row. Rows without a parseable date are skipped.
func gridLines(rows [][]string, origin string, allowSections bool) []SourceLine {
	cols, headerIdx := detectGridHeader(rows)
	if headerIdx < 0 {
		return nil
	}

	var lines []SourceLine
	currentLab := ""
	for ri := headerIdx + 1; ri < len(rows); ri++ {
		row := rows[ri]
		joined := strings.TrimSpace(strings.Join(row, " | "))
		if joined == "" || isLegendText(joined) {
			continue
		}

		if allowSections && isSectionMarker(row) && !isHeaderLabel(row[0]) {
			currentLab = strings.TrimSpace(row[0])
			continue
		}

		dateCell := cellAt(row, cols.date)
		if !dateLikeRe.MatchString(dateCell) {
			continue
		}

		lines = append(lines, SourceLine{
			Text:   joined,
			Origin: origin,
			Row: map[string]string{
				ColDate:   dateCell,
				ColTime:   cellAt(row, cols.time),
				ColTopic:  cellAt(row, cols.subject),
				ColCourse: cellAt(row, cols.course),
				ColLab:    currentLab,
			},
		})
	}
	return lines
}
