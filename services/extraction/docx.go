package extraction

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// docxContent is the flattened body of a DOCX document part: every table as
// a cell grid, plus all paragraph text outside tables.
type docxContent struct {
	tables     [][][]string
	paragraphs []string
}

// extractDocx decompresses the DOCX container, parses the main document XML
// and looks for a syllabus table. A qualifying table yields tabular source
// lines; otherwise the document's plain paragraphs are returned as free text.
func extractDocx(data []byte) ([]SourceLine, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, NewExtractionFailedError("could not open document container", err)
	}

	var docPart *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docPart = f
			break
		}
	}
	if docPart == nil {
		return nil, NewExtractionFailedError("document container has no word/document.xml entry", nil)
	}

	rc, err := docPart.Open()
	if err != nil {
		return nil, NewExtractionFailedError("could not read document XML", err)
	}
	defer rc.Close()

	content, err := parseDocumentXML(rc)
	if err != nil {
		return nil, NewExtractionFailedError("could not parse document XML", err)
	}

	for ti, table := range content.tables {
		if lines := syllabusTableLines(table, fmt.Sprintf("Table %d", ti+1)); len(lines) > 0 {
			return lines, nil
		}
	}

	// No qualifying table; fall back to plain paragraph text.
	var lines []SourceLine
	for _, p := range content.paragraphs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		lines = append(lines, SourceLine{Text: p, Origin: "Paragraph"})
	}
	return lines, nil
}

// parseDocumentXML walks the WordprocessingML token stream collecting tables
// (w:tbl > w:tr > w:tc) and top-level paragraph text (w:p > w:r > w:t).
// Nested tables are flattened into their enclosing cell's text.
func parseDocumentXML(r io.Reader) (*docxContent, error) {
	dec := xml.NewDecoder(r)
	content := &docxContent{}

	var (
		tableDepth int
		curTable   [][]string
		curRow     []string
		inCell     bool
		cell       strings.Builder
		inPara     bool
		para       strings.Builder
		inText     bool
	)

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
			case "tbl":
				if tableDepth == 0 {
					curTable = nil
				}
				tableDepth++
			case "tr":
				if tableDepth == 1 {
					curRow = nil
				}
			case "tc":
				if tableDepth == 1 {
					inCell = true
					cell.Reset()
				}
			case "p":
				if tableDepth == 0 {
					inPara = true
					para.Reset()
				} else if inCell && cell.Len() > 0 {
					cell.WriteString(" ")
				}
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth--
				if tableDepth == 0 && len(curTable) > 0 {
					content.tables = append(content.tables, curTable)
				}
			case "tr":
				if tableDepth == 1 {
					curTable = append(curTable, curRow)
				}
			case "tc":
				if tableDepth == 1 {
					curRow = append(curRow, strings.TrimSpace(cell.String()))
					inCell = false
				}
			case "p":
				if tableDepth == 0 && inPara {
					content.paragraphs = append(content.paragraphs, strings.TrimSpace(para.String()))
					inPara = false
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if !inText {
				continue
			}
			if inCell {
				cell.Write(t)
			} else if inPara {
				para.Write(t)
			}
		}
	}
	return content, nil
}

// syllabusColumns holds the detected column indices of a syllabus table.
// A value of -1 means the column was not found.
type syllabusColumns struct {
	date, time, topic, practical int
}

func (sc syllabusColumns) qualifies() bool {
	return sc.date >= 0 && (sc.topic >= 0 || sc.practical >= 0)
}

// detectSyllabusColumns scans the first rows of a table for a header row
// whose cells match the known column keywords by substring.
func detectSyllabusColumns(table [][]string) (syllabusColumns, int) {
	cols := syllabusColumns{date: -1, time: -1, topic: -1, practical: -1}
	limit := len(table)
	if limit > 3 {
		limit = 3
	}
	for ri := 0; ri < limit; ri++ {
		row := table[ri]
		found := syllabusColumns{date: -1, time: -1, topic: -1, practical: -1}
		for ci, cellText := range row {
			n := Normalize(cellText)
			if n == "" {
				continue
			}
			switch {
			case found.date < 0 && matchesAny(n, dateHeaderKeywords):
				found.date = ci
			case found.time < 0 && matchesAny(n, timeHeaderKeywords):
				found.time = ci
			case found.practical < 0 && matchesAny(n, practicalHeaderKeywords):
				found.practical = ci
			case found.topic < 0 && matchesAny(n, topicHeaderKeywords):
				found.topic = ci
			}
		}
		if found.qualifies() {
			return found, ri
		}
	}
	return cols, -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// syllabusTableLines converts a qualifying syllabus table into tabular source
// lines. A data row is accepted as a practical session if its practical
// marker cell is non-empty (and not a header label), or its topic mentions a
// lab keyword. Legend and separator rows are skipped.
func syllabusTableLines(table [][]string, origin string) []SourceLine {
	cols, headerIdx := detectSyllabusColumns(table)
	if headerIdx < 0 {
		return nil
	}

	var lines []SourceLine
	for ri := headerIdx + 1; ri < len(table); ri++ {
		row := table[ri]
		joined := strings.Join(row, " | ")
		if strings.TrimSpace(joined) == "" || isLegendText(joined) {
			continue
		}

		practical := cellAt(row, cols.practical)
		topic := cellAt(row, cols.topic)
		isPractical := (practical != "" && !isHeaderLabel(practical)) || HasLabKeyword(topic)
		if !isPractical {
			continue
		}

		lines = append(lines, SourceLine{
			Text:   joined,
			Origin: origin,
			Row: map[string]string{
				ColDate:      cellAt(row, cols.date),
				ColTime:      cellAt(row, cols.time),
				ColTopic:     topic,
				ColPractical: practical,
			},
		})
	}
	return lines
}
