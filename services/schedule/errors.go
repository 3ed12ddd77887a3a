package schedule

import (
	"fmt"
	"strings"
)

// ValidationIssue names one candidate that cannot be committed and why.
type ValidationIssue struct {
	CandidateID string   `json:"candidateId"`
	Subject     string   `json:"subject"`
	Missing     []string `json:"missing"`
}

// ValidationError blocks the whole commit batch; nothing is written while
// any selected candidate is incomplete or conflicted.
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		subject := issue.Subject
		if subject == "" {
			subject = issue.CandidateID
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", subject, strings.Join(issue.Missing, ", ")))
	}
	return fmt.Sprintf("validationFailed: %d candidate(s) not committable: %s", len(e.Issues), strings.Join(parts, "; "))
}
