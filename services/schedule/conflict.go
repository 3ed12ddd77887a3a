package schedule

import (
	"context"
	"fmt"

	bookingRepo "labsched/database/repository/booking"
	"labsched/models"
)

// ConflictChecker annotates candidate batches against the booking store.
type ConflictChecker struct {
	Repo     bookingRepo.BookingRepository
	Catalogs *models.Catalogs
}

func NewConflictChecker(repo bookingRepo.BookingRepository, catalogs *models.Catalogs) *ConflictChecker {
	return &ConflictChecker{Repo: repo, Catalogs: catalogs}
}

// CheckConflicts issues at most one range query against the booking store
// for the whole batch, then matches candidates against the returned bookings
// in memory. A candidate conflicts with a booking iff same lab, same day and
// a shared time block (or overlapping [start,end) intervals when the booking
// carries no block list). Candidates missing lab, date or time are skipped
// with conflict left nil. The annotation is advisory: review takes unbounded
// wall-clock time, so commit re-validates.
func (cc *ConflictChecker) CheckConflicts(ctx context.Context, candidates []models.CandidateSession) error {
	minDate, maxDate := "", ""
	for i := range candidates {
		c := &candidates[i]
		if c.ScheduledDate == "" || c.LabID == "" || len(c.TimeBlocks) == 0 {
			continue
		}
		if minDate == "" || c.ScheduledDate < minDate {
			minDate = c.ScheduledDate
		}
		if maxDate == "" || c.ScheduledDate > maxDate {
			maxDate = c.ScheduledDate
		}
	}
	if minDate == "" {
		// Nothing checkable in this batch; clear any stale annotations.
		for i := range candidates {
			candidates[i].Conflict = nil
		}
		return nil
	}

	statuses := []string{models.BookingStatusApproved, models.BookingStatusPending}
	bookings, err := cc.Repo.QueryRange(ctx, minDate, maxDate, statuses)
	if err != nil {
		return fmt.Errorf("conflict check query failed: %w", err)
	}

	for i := range candidates {
		candidates[i].Conflict = cc.findConflict(&candidates[i], bookings)
	}
	return nil
}

// CheckCandidate re-checks a single candidate with a per-lab day query. Used
// after an edit or manual add, when the rest of the batch is untouched and a
// full range query would be wasted.
func (cc *ConflictChecker) CheckCandidate(ctx context.Context, c *models.CandidateSession) error {
	c.Conflict = nil
	if c.ScheduledDate == "" || c.LabID == "" || len(c.TimeBlocks) == 0 {
		return nil
	}

	statuses := []string{models.BookingStatusApproved, models.BookingStatusPending}
	bookings, err := cc.Repo.QueryByLabAndDate(ctx, c.LabID, c.ScheduledDate, statuses)
	if err != nil {
		return fmt.Errorf("conflict check query failed: %w", err)
	}
	c.Conflict = cc.findConflict(c, bookings)
	return nil
}

func (cc *ConflictChecker) findConflict(c *models.CandidateSession, bookings []models.Booking) *models.ConflictRef {
	if c.ScheduledDate == "" || c.LabID == "" || len(c.TimeBlocks) == 0 {
		return nil
	}
	for i := range bookings {
		b := &bookings[i]
		if b.LabID != c.LabID || b.Date != c.ScheduledDate {
			continue
		}
		if cc.overlaps(c, b) {
			return &models.ConflictRef{
				BookingID: b.ID,
				Subject:   b.Subject,
				Date:      b.Date,
				Blocks:    b.Blocks,
				Start:     b.Start,
				End:       b.End,
			}
		}
	}
	return nil
}

func (cc *ConflictChecker) overlaps(c *models.CandidateSession, b *models.Booking) bool {
	if len(b.Blocks) > 0 {
		for _, cb := range c.TimeBlocks {
			for _, bb := range b.Blocks {
				if cb == bb {
					return true
				}
			}
		}
		return false
	}
	// Older records carry only a raw interval; compare under strict
	// half-open semantics: start < otherEnd && end > otherStart.
	start, end := cc.candidateSpan(c)
	if end == 0 {
		return false
	}
	return start < b.End && end > b.Start
}

func (cc *ConflictChecker) candidateSpan(c *models.CandidateSession) (int, int) {
	start, end := 0, 0
	for _, id := range c.TimeBlocks {
		tb := cc.Catalogs.BlockByID(id)
		if tb == nil {
			continue
		}
		if end == 0 || tb.StartMinute < start {
			start = tb.StartMinute
		}
		if tb.EndMinute > end {
			end = tb.EndMinute
		}
	}
	return start, end
}
