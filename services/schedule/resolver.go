package schedule

import (
	"strings"

	"labsched/models"
	"labsched/services/extraction"
)

// ResolveLab matches free-text lab naming against the Lab Catalog. An exact
// case/diacritic-insensitive match wins; otherwise the free text containing
// the catalog name, or the catalog name's first token appearing in the free
// text, counts as a match. Catalog declaration order breaks ties, an
// accepted imprecision. Returns nil on miss, never errors.
func ResolveLab(freeText string, labs []models.Lab) *models.Lab {
	n := extraction.Normalize(freeText)
	if n == "" {
		return nil
	}
	for i := range labs {
		if extraction.Normalize(labs[i].DisplayName) == n {
			return &labs[i]
		}
	}
	for i := range labs {
		name := extraction.Normalize(labs[i].DisplayName)
		if strings.Contains(n, name) {
			return &labs[i]
		}
		if tok := firstToken(name); tok != "" && strings.Contains(n, tok) {
			return &labs[i]
		}
	}
	return nil
}

// ResolveCourse matches free text against Course Catalog labels with the
// same exact-then-substring strategy. Returns "" on miss.
func ResolveCourse(freeText string, courses []models.CourseOption) string {
	n := extraction.Normalize(freeText)
	if n == "" {
		return ""
	}
	for _, c := range courses {
		if extraction.Normalize(c.Label) == n {
			return c.Value
		}
	}
	for _, c := range courses {
		label := extraction.Normalize(c.Label)
		if strings.Contains(n, label) {
			return c.Value
		}
		if tok := firstToken(label); tok != "" && strings.Contains(n, tok) {
			return c.Value
		}
	}
	return ""
}

// ResolveCourses collects every catalog course mentioned in the free text,
// in declaration order, for cells that list several courses at once.
func ResolveCourses(freeText string, courses []models.CourseOption) []string {
	n := extraction.Normalize(freeText)
	if n == "" {
		return nil
	}
	var out []string
	for _, c := range courses {
		label := extraction.Normalize(c.Label)
		if strings.Contains(n, label) {
			out = append(out, c.Value)
		}
	}
	return out
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
