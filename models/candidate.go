package models

// Confidence levels self-assessed by the extraction engine.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// PlaceholderSubject is assigned when a source line yields no usable topic.
const PlaceholderSubject = "Practical session"

// ConflictRef points at a persisted booking that collides with a candidate.
type ConflictRef struct {
	BookingID string   `json:"bookingId"`
	Subject   string   `json:"subject"`
	Date      string   `json:"date"`
	Blocks    []string `json:"blocks,omitempty"`
	Start     int      `json:"start"`
	End       int      `json:"end"`
}

// CandidateSession is an extracted, editable, not-yet-committed class entry.
// It lives in the review session cache only; committing converts it 1:1 into
// a Booking owned by the store.
type CandidateSession struct {
	ID                  string       `json:"id"`
	Subject             string       `json:"subject"`
	OriginalSubjectText string       `json:"originalSubjectText,omitempty"`
	Selected            bool         `json:"selected"`
	ScheduledDate       string       `json:"scheduledDate,omitempty"` // "2006-01-02", empty if unknown
	TimeBlocks          []string     `json:"timeBlocks"`
	LabID               string       `json:"labId,omitempty"`
	LabType             string       `json:"labType,omitempty"`
	Courses             []string     `json:"courses"`
	Notes               string       `json:"notes,omitempty"`
	Confidence          string       `json:"confidence"`
	ExtractionRationale string       `json:"extractionRationale,omitempty"`
	SourceExcerpt       string       `json:"sourceExcerpt,omitempty"`
	Conflict            *ConflictRef `json:"conflict,omitempty"`
}

// Committable reports whether the candidate satisfies the commit invariant:
// subject, date, at least one time block and a lab, with no open conflict.
func (c *CandidateSession) Committable() bool {
	return c.Subject != "" &&
		c.ScheduledDate != "" &&
		len(c.TimeBlocks) > 0 &&
		c.LabID != "" &&
		c.Conflict == nil
}

// MissingFields lists the commit requirements the candidate does not meet.
func (c *CandidateSession) MissingFields() []string {
	var missing []string
	if c.Subject == "" {
		missing = append(missing, "subject")
	}
	if c.ScheduledDate == "" {
		missing = append(missing, "scheduledDate")
	}
	if len(c.TimeBlocks) == 0 {
		missing = append(missing, "timeBlocks")
	}
	if c.LabID == "" {
		missing = append(missing, "labId")
	}
	if c.Conflict != nil {
		missing = append(missing, "conflict")
	}
	return missing
}
