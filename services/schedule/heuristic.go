package schedule

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"labsched/models"
	"labsched/services/extraction"
)

// maxSubjectLength caps the subject carried on a candidate; the untruncated
// source text is kept separately for audit/display.
const maxSubjectLength = 200

// minFreeTextStarterLength: a dateless free-text line must be at least this
// long (and carry a time) to start a new candidate on its own.
const minFreeTextStarterLength = 25

// HeuristicEngine is the deterministic extraction strategy: column/keyword
// rules for tabular sources, a stateful line scan for free text.
type HeuristicEngine struct {
	Catalogs *models.Catalogs
}

func NewHeuristicEngine(catalogs *models.Catalogs) *HeuristicEngine {
	return &HeuristicEngine{Catalogs: catalogs}
}

func (e *HeuristicEngine) Extract(ctx context.Context, lines []extraction.SourceLine, meta SourceMeta) ([]models.CandidateSession, error) {
	var candidates []models.CandidateSession
	var freeText []extraction.SourceLine

	for _, line := range lines {
		if line.Tabular() {
			candidates = append(candidates, e.fromRow(line, meta))
		} else {
			freeText = append(freeText, line)
		}
	}
	candidates = append(candidates, e.scanFreeText(freeText, meta)...)

	// Precision over recall: a low-confidence candidate that also has no
	// real subject is noise, not a session.
	filtered := candidates[:0]
	for _, c := range candidates {
		if c.Confidence == models.ConfidenceLow && c.Subject == models.PlaceholderSubject {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered, nil
}

// fromRow maps one parsed table/sheet row straight through the normalizer
// and resolvers.
func (e *HeuristicEngine) fromRow(line extraction.SourceLine, meta SourceMeta) models.CandidateSession {
	row := line.Row

	subjectSource := row[extraction.ColTopic]
	if subjectSource == "" {
		subjectSource = row[extraction.ColPractical]
	}

	date := ParseDate(row[extraction.ColDate], meta.DefaultYear)
	blocks := MapToTimeBlocks(row[extraction.ColTime], e.Catalogs.TimeBlocks)
	if len(blocks) == 0 {
		// Some layouts put the time inside the topic or a merged cell.
		blocks = MapToTimeBlocks(line.Text, e.Catalogs.TimeBlocks)
	}

	lab := ResolveLab(row[extraction.ColLab], e.Catalogs.Labs)
	if lab == nil {
		lab = ResolveLab(row[extraction.ColTopic], e.Catalogs.Labs)
	}
	if lab == nil {
		lab = ResolveLab(row[extraction.ColPractical], e.Catalogs.Labs)
	}

	confidence := models.ConfidenceMedium
	if date != "" && len(blocks) > 0 {
		confidence = models.ConfidenceHigh
	}

	c := models.CandidateSession{
		ID:                  uuid.New().String(),
		Subject:             cleanSubject(subjectSource),
		OriginalSubjectText: subjectSource,
		Selected:            true,
		ScheduledDate:       date,
		TimeBlocks:          blocks,
		Courses:             ResolveCourses(row[extraction.ColCourse], e.Catalogs.Courses),
		Confidence:          confidence,
		SourceExcerpt:       excerpt(line),
	}
	applyLab(&c, lab)
	return c
}

// scanFreeText runs the stateful accumulator over non-tabular lines: a line
// with a date (or a long enough line with a time) opens a new candidate;
// dateless lines with a time fill in the open candidate's gaps; the open
// candidate is flushed when the next one starts or at end of input.
func (e *HeuristicEngine) scanFreeText(lines []extraction.SourceLine, meta SourceMeta) []models.CandidateSession {
	var out []models.CandidateSession
	var open *models.CandidateSession

	flush := func() {
		if open != nil {
			out = append(out, *open)
			open = nil
		}
	}

	for _, line := range lines {
		text := line.Text
		date := ParseDate(text, meta.DefaultYear)
		blocks := MapToTimeBlocks(text, e.Catalogs.TimeBlocks)
		lab := ResolveLab(text, e.Catalogs.Labs)

		starts := date != "" || (len(blocks) > 0 && len(text) >= minFreeTextStarterLength)
		if starts {
			flush()
			c := models.CandidateSession{
				ID:                  uuid.New().String(),
				Subject:             cleanSubject(subjectFromLine(text)),
				OriginalSubjectText: text,
				Selected:            true,
				ScheduledDate:       date,
				TimeBlocks:          blocks,
				Confidence:          freeTextConfidence(date, blocks),
				SourceExcerpt:       excerpt(line),
			}
			if c.Subject == models.PlaceholderSubject && date == "" {
				// A bare time with no date and no words around it is noise.
				c.Confidence = models.ConfidenceLow
			}
			applyLab(&c, lab)
			open = &c
			continue
		}

		if open == nil {
			continue
		}
		// Continuation line: only fill gaps, earlier evidence wins.
		if len(open.TimeBlocks) == 0 && len(blocks) > 0 {
			open.TimeBlocks = blocks
			open.Confidence = freeTextConfidence(open.ScheduledDate, blocks)
		}
		if open.LabID == "" && lab != nil {
			applyLab(open, lab)
		}
	}
	flush()
	return out
}

func freeTextConfidence(date string, blocks []string) string {
	switch {
	case date != "" && len(blocks) > 0:
		return models.ConfidenceHigh
	case date != "" || len(blocks) > 0:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func applyLab(c *models.CandidateSession, lab *models.Lab) {
	if lab == nil {
		return
	}
	c.LabID = lab.ID
	c.LabType = lab.LabType
}

// subjectFromLine strips date and time noise off a free-text line so the
// remaining words can serve as the subject.
func subjectFromLine(text string) string {
	s := slashDateRe.ReplaceAllString(text, "")
	s = isoDateRe.ReplaceAllString(s, "")
	s = startTimeRe.ReplaceAllString(s, "")
	s = clockTimeRe.ReplaceAllString(s, "")
	s = strings.Trim(strings.Join(strings.Fields(s), " "), " -–|:")
	return s
}

func cleanSubject(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.PlaceholderSubject
	}
	if runes := []rune(s); len(runes) > maxSubjectLength {
		s = string(runes[:maxSubjectLength])
	}
	return s
}

func excerpt(line extraction.SourceLine) string {
	if line.Origin == "" {
		return line.Text
	}
	return line.Origin + ": " + line.Text
}
