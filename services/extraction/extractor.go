package extraction

import (
	"path/filepath"
	"strings"
)

// Column roles assigned when an adapter can parse tabular structure.
const (
	ColDate      = "date"
	ColTime      = "time"
	ColTopic     = "topic"
	ColPractical = "practical"
	ColCourse    = "course"
	ColLab       = "lab"
)

// SourceLine is one unit of the intermediate representation handed to the
// candidate extraction engines: raw text, an optional column-role map for
// tabular sources, and a provenance tag for user-facing messages.
type SourceLine struct {
	Text   string            `json:"text"`
	Row    map[string]string `json:"row,omitempty"`
	Origin string            `json:"origin"`
}

// Tabular reports whether the line carries a parsed-row map.
func (l SourceLine) Tabular() bool {
	return len(l.Row) > 0
}

// Extract dispatches raw file bytes to the format adapter selected by the
// file extension. Dispatch is by extension only; unrecognized extensions are
// rejected before any parsing begins.
func Extract(fileName string, data []byte) ([]SourceLine, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".docx", ".doc":
		return extractDocx(data)
	case ".xlsx", ".xls":
		return extractWorkbook(data)
	case ".csv":
		return extractCSV(data)
	case ".pdf":
		return extractPDF(data)
	default:
		return nil, NewUnsupportedFormatError(ext)
	}
}
