package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "labsched/database/repository/booking"
	"labsched/models"
	"labsched/utils"
)

// Roles whose commits are written as immediately approved; everyone else
// writes pending bookings. The store's own access rules remain the final
// authority on status transitions.
var privilegedRoles = map[string]bool{
	"coordinator": true,
	"technician":  true,
	"admin":       true,
}

// CommitItemResult records the outcome of one candidate's write.
type CommitItemResult struct {
	CandidateID string `json:"candidateId"`
	Subject     string `json:"subject"`
	BookingID   string `json:"bookingId,omitempty"`
	Committed   bool   `json:"committed"`
	Error       string `json:"error,omitempty"`
}

// CommitReport aggregates per-item outcomes; partial success is expected and
// surfaced, never rolled back.
type CommitReport struct {
	Total     int                `json:"total"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
	Status    string             `json:"status"` // booking status the batch was written with
	Items     []CommitItemResult `json:"items"`
}

// CommitService validates and persists accepted candidates.
type CommitService struct {
	Repo      bookingRepo.BookingRepository
	Catalogs  *models.Catalogs
	Conflicts *ConflictChecker
}

func NewCommitService(repo bookingRepo.BookingRepository, catalogs *models.Catalogs) *CommitService {
	return &CommitService{
		Repo:      repo,
		Catalogs:  catalogs,
		Conflicts: NewConflictChecker(repo, catalogs),
	}
}

// Commit writes every selected candidate to the booking store. Validation is
// fail-fast: if any selected candidate is incomplete, or the commit-time
// conflict re-check finds a collision created during review, nothing is
// written and a ValidationError reports every offender. Past validation, the
// writes run sequentially and independently: a failure on one item never
// aborts its siblings. Committed candidates are deselected in place, so
// resubmitting the same batch retries only the failed items.
func (s *CommitService) Commit(ctx context.Context, candidates []models.CandidateSession, role, userID string) (*CommitReport, error) {
	logger := utils.GetLogger()

	var selected []*models.CandidateSession
	for i := range candidates {
		if candidates[i].Selected {
			selected = append(selected, &candidates[i])
		}
	}

	// Review time is unbounded; re-validate conflicts against the store
	// before trusting the annotations made at extraction time.
	batch := make([]models.CandidateSession, len(selected))
	for i, c := range selected {
		batch[i] = *c
	}
	if err := s.Conflicts.CheckConflicts(ctx, batch); err != nil {
		return nil, err
	}
	for i, c := range selected {
		c.Conflict = batch[i].Conflict
	}

	var issues []ValidationIssue
	for _, c := range selected {
		if !c.Committable() {
			issues = append(issues, ValidationIssue{
				CandidateID: c.ID,
				Subject:     c.Subject,
				Missing:     c.MissingFields(),
			})
		}
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	status := models.BookingStatusPending
	if privilegedRoles[role] {
		status = models.BookingStatusApproved
	}

	report := &CommitReport{Total: len(selected), Status: status}
	for i, c := range selected {
		booking := s.toBooking(c, status, userID)
		id, err := s.Repo.Insert(ctx, booking)
		item := CommitItemResult{CandidateID: c.ID, Subject: c.Subject}
		if err != nil {
			item.Error = err.Error()
			report.Failed++
			logger.Warn("booking commit item failed",
				zap.Int("item", i+1),
				zap.Int("total", len(selected)),
				zap.String("subject", c.Subject),
				zap.Error(err))
		} else {
			item.BookingID = id
			item.Committed = true
			// Deselect so a resubmitted batch retries only the failures;
			// a committed candidate would otherwise collide with its own
			// booking on the re-check.
			c.Selected = false
			report.Succeeded++
			logger.Info("booking committed",
				zap.Int("item", i+1),
				zap.Int("total", len(selected)),
				zap.String("bookingId", id))
		}
		report.Items = append(report.Items, item)
	}
	return report, nil
}

func (s *CommitService) toBooking(c *models.CandidateSession, status, userID string) *models.Booking {
	labType := c.LabType
	if lab := s.Catalogs.LabByID(c.LabID); lab != nil {
		labType = lab.LabType
	}
	b := &models.Booking{
		ID:        uuid.New().String(),
		LabID:     c.LabID,
		LabType:   labType,
		Subject:   c.Subject,
		Date:      c.ScheduledDate,
		Blocks:    c.TimeBlocks,
		Courses:   c.Courses,
		Notes:     c.Notes,
		Status:    status,
		CreatedBy: userID,
		CreatedAt: time.Now(),
	}
	b.SpanFromBlocks(s.Catalogs)
	return b
}
