package schedule

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labsched/config"
	"labsched/models"
)

// fakeBookingRepo is the in-memory store the schedule tests run against. It
// counts queries, makes inserted bookings visible to later queries, and can
// fail inserts for chosen subjects.
type fakeBookingRepo struct {
	bookings     []models.Booking
	inserted     []models.Booking
	rangeCalls   int
	labDateCalls int
	lastMinDate  string
	lastMaxDate  string
	failInsert   map[string]error
}

func (f *fakeBookingRepo) QueryRange(ctx context.Context, minDate, maxDate string, statuses []string) ([]models.Booking, error) {
	f.rangeCalls++
	f.lastMinDate = minDate
	f.lastMaxDate = maxDate

	allowed := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		allowed[s] = true
	}
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Date >= minDate && b.Date <= maxDate && allowed[b.Status] {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) QueryByLabAndDate(ctx context.Context, labID, date string, statuses []string) ([]models.Booking, error) {
	f.labDateCalls++

	allowed := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		allowed[s] = true
	}
	var out []models.Booking
	for _, b := range f.bookings {
		if b.LabID == labID && b.Date == date && allowed[b.Status] {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) Insert(ctx context.Context, booking *models.Booking) (string, error) {
	if err := f.failInsert[booking.Subject]; err != nil {
		return "", err
	}
	f.inserted = append(f.inserted, *booking)
	f.bookings = append(f.bookings, *booking)
	return booking.ID, nil
}

func candidate(subject, date, labID string, blocks ...string) models.CandidateSession {
	return models.CandidateSession{
		ID:            subject + "-id",
		Subject:       subject,
		Selected:      true,
		ScheduledDate: date,
		TimeBlocks:    blocks,
		LabID:         labID,
		Confidence:    models.ConfidenceHigh,
	}
}

func TestCheckConflictsSingleQueryPerBatch(t *testing.T) {
	repo := &fakeBookingRepo{}
	checker := NewConflictChecker(repo, config.DefaultCatalogs())

	batch := []models.CandidateSession{
		candidate("Histology", "2025-03-10", "microscopy", "07:00-09:10"),
		candidate("Biochemistry practice", "2025-03-24", "biochemistry", "13:00-15:10"),
		candidate("Suturing", "2025-03-17", "skills", "09:30-11:40"),
	}

	require.NoError(t, checker.CheckConflicts(context.Background(), batch))

	assert.Equal(t, 1, repo.rangeCalls)
	assert.Equal(t, "2025-03-10", repo.lastMinDate)
	assert.Equal(t, "2025-03-24", repo.lastMaxDate)
}

func TestCheckConflictsFlagsSharedBlock(t *testing.T) {
	repo := &fakeBookingRepo{
		bookings: []models.Booking{
			{
				ID:      "bk-1",
				LabID:   "anatomy-1",
				Subject: "Dissection",
				Date:    "2025-03-12",
				Blocks:  []string{"07:00-09:10"},
				Status:  models.BookingStatusApproved,
			},
		},
	}
	checker := NewConflictChecker(repo, config.DefaultCatalogs())

	batch := []models.CandidateSession{
		candidate("Cell Biology", "2025-03-12", "anatomy-1", "07:00-09:10"),
		candidate("Cell Biology II", "2025-03-12", "anatomy-1", "09:30-11:40"),
		candidate("Cell Biology III", "2025-03-12", "anatomy-2", "07:00-09:10"),
	}

	require.NoError(t, checker.CheckConflicts(context.Background(), batch))

	require.NotNil(t, batch[0].Conflict)
	assert.Equal(t, "bk-1", batch[0].Conflict.BookingID)
	assert.Equal(t, "Dissection", batch[0].Conflict.Subject)

	// Same lab, different block: no conflict.
	assert.Nil(t, batch[1].Conflict)
	// Same block, different lab: no conflict.
	assert.Nil(t, batch[2].Conflict)
}

func TestCheckConflictsIntervalFallback(t *testing.T) {
	// Older bookings carry only a raw minute span, no block list.
	repo := &fakeBookingRepo{
		bookings: []models.Booking{
			{
				ID:      "bk-old",
				LabID:   "simulation",
				Subject: "Resuscitation drill",
				Date:    "2025-05-02",
				Start:   8 * 60,
				End:     10 * 60,
				Status:  models.BookingStatusPending,
			},
		},
	}
	checker := NewConflictChecker(repo, config.DefaultCatalogs())

	overlapping := []models.CandidateSession{
		candidate("Airway management", "2025-05-02", "simulation", "07:00-09:10"),
	}
	require.NoError(t, checker.CheckConflicts(context.Background(), overlapping))
	require.NotNil(t, overlapping[0].Conflict)
	assert.Equal(t, "bk-old", overlapping[0].Conflict.BookingID)

	// 13:00-15:10 sits entirely after the booked span.
	disjoint := []models.CandidateSession{
		candidate("Airway management", "2025-05-02", "simulation", "13:00-15:10"),
	}
	require.NoError(t, checker.CheckConflicts(context.Background(), disjoint))
	assert.Nil(t, disjoint[0].Conflict)
}

func TestCheckConflictsSkipsIncompleteCandidates(t *testing.T) {
	repo := &fakeBookingRepo{
		bookings: []models.Booking{
			{
				ID:     "bk-1",
				LabID:  "anatomy-1",
				Date:   "2025-03-12",
				Blocks: []string{"07:00-09:10"},
				Status: models.BookingStatusApproved,
			},
		},
	}
	checker := NewConflictChecker(repo, config.DefaultCatalogs())

	noLab := candidate("No lab yet", "2025-03-12", "", "07:00-09:10")
	noDate := candidate("No date yet", "", "anatomy-1", "07:00-09:10")
	noBlocks := candidate("No time yet", "2025-03-12", "anatomy-1")
	full := candidate("Complete", "2025-03-12", "anatomy-1", "07:00-09:10")

	batch := []models.CandidateSession{noLab, noDate, noBlocks, full}
	require.NoError(t, checker.CheckConflicts(context.Background(), batch))

	assert.Nil(t, batch[0].Conflict)
	assert.Nil(t, batch[1].Conflict)
	assert.Nil(t, batch[2].Conflict)
	assert.NotNil(t, batch[3].Conflict)
}

func TestCheckConflictsNothingCheckableClearsAnnotations(t *testing.T) {
	repo := &fakeBookingRepo{}
	checker := NewConflictChecker(repo, config.DefaultCatalogs())

	stale := candidate("Edited since flagged", "", "anatomy-1", "07:00-09:10")
	stale.Conflict = &models.ConflictRef{BookingID: "gone"}

	batch := []models.CandidateSession{stale}
	require.NoError(t, checker.CheckConflicts(context.Background(), batch))

	assert.Zero(t, repo.rangeCalls)
	assert.Nil(t, batch[0].Conflict)
}

func TestCheckCandidateUsesPerLabQuery(t *testing.T) {
	repo := &fakeBookingRepo{
		bookings: []models.Booking{
			{
				ID:      "bk-1",
				LabID:   "anatomy-1",
				Subject: "Dissection",
				Date:    "2025-03-12",
				Blocks:  []string{"07:00-09:10"},
				Status:  models.BookingStatusApproved,
			},
		},
	}
	checker := NewConflictChecker(repo, config.DefaultCatalogs())

	hit := candidate("Cell Biology", "2025-03-12", "anatomy-1", "07:00-09:10")
	require.NoError(t, checker.CheckCandidate(context.Background(), &hit))
	require.NotNil(t, hit.Conflict)
	assert.Equal(t, "bk-1", hit.Conflict.BookingID)
	assert.Equal(t, 1, repo.labDateCalls)
	assert.Zero(t, repo.rangeCalls)

	// An edit that moved the candidate off the booked day clears the stale
	// annotation.
	moved := candidate("Cell Biology", "2025-03-13", "anatomy-1", "07:00-09:10")
	moved.Conflict = &models.ConflictRef{BookingID: "bk-1"}
	require.NoError(t, checker.CheckCandidate(context.Background(), &moved))
	assert.Nil(t, moved.Conflict)

	// Incomplete candidates clear without querying.
	incomplete := candidate("No lab yet", "2025-03-12", "", "07:00-09:10")
	incomplete.Conflict = &models.ConflictRef{BookingID: "bk-1"}
	calls := repo.labDateCalls
	require.NoError(t, checker.CheckCandidate(context.Background(), &incomplete))
	assert.Nil(t, incomplete.Conflict)
	assert.Equal(t, calls, repo.labDateCalls)
}

func TestCheckConflictsQueryError(t *testing.T) {
	repo := &failingRangeRepo{err: fmt.Errorf("primary unavailable")}
	checker := NewConflictChecker(repo, config.DefaultCatalogs())

	batch := []models.CandidateSession{
		candidate("Histology", "2025-03-10", "microscopy", "07:00-09:10"),
	}
	err := checker.CheckConflicts(context.Background(), batch)
	require.Error(t, err)
	assert.ErrorContains(t, err, "conflict check query failed")
}

type failingRangeRepo struct {
	fakeBookingRepo
	err error
}

func (f *failingRangeRepo) QueryRange(ctx context.Context, minDate, maxDate string, statuses []string) ([]models.Booking, error) {
	return nil, f.err
}
