package bookingRepo

import (
	"context"

	"labsched/models"
)

// BookingRepository is the booking store surface the scheduling core needs:
// one bounded range query per candidate batch, plus independent inserts.
type BookingRepository interface {
	// QueryRange returns bookings with a date in [minDate, maxDate] (inclusive,
	// "2006-01-02" strings) whose status is one of the given values.
	QueryRange(ctx context.Context, minDate, maxDate string, statuses []string) ([]models.Booking, error)

	// QueryByLabAndDate returns bookings for one lab on one day.
	QueryByLabAndDate(ctx context.Context, labID, date string, statuses []string) ([]models.Booking, error)

	// Insert persists a booking and returns its id.
	Insert(ctx context.Context, booking *models.Booking) (string, error)
}
