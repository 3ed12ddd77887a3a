package models

import "time"

// Booking statuses considered when checking conflicts.
const (
	BookingStatusApproved = "approved"
	BookingStatusPending  = "pending"
)

// Booking represents a persisted lab session record.
type Booking struct {
	ID        string    `bson:"id" json:"id"`                   // Unique booking identifier (UUID)
	LabID     string    `bson:"lab_id" json:"lab_id"`           // Lab Catalog reference
	LabType   string    `bson:"lab_type" json:"lab_type"`       // Derived from the lab entry
	Subject   string    `bson:"subject" json:"subject"`         // Session topic
	Date      string    `bson:"date" json:"date"`               // Session date in "YYYY-MM-DD" format
	Blocks    []string  `bson:"blocks" json:"blocks"`           // Canonical time block ids
	Start     int       `bson:"start" json:"start"`             // Session start (minutes from midnight)
	End       int       `bson:"end" json:"end"`                 // Session end (minutes from midnight)
	Courses   []string  `bson:"courses" json:"courses"`         // Course Catalog references
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Status    string    `bson:"status" json:"status"`           // "approved" or "pending"
	CreatedBy string    `bson:"created_by" json:"created_by"`   // Identity of the committing user
	CreatedAt time.Time `bson:"created_at" json:"created_at"`   // Timestamp when booking was created
}

// SpanFromBlocks fills Start/End from the booking's blocks using the catalog.
// Bookings always snap to canonical blocks; the interval form exists for
// range queries and overlap checks against older records.
func (b *Booking) SpanFromBlocks(catalogs *Catalogs) {
	b.Start, b.End = 0, 0
	for _, id := range b.Blocks {
		tb := catalogs.BlockByID(id)
		if tb == nil {
			continue
		}
		if b.End == 0 || tb.StartMinute < b.Start {
			b.Start = tb.StartMinute
		}
		if tb.EndMinute > b.End {
			b.End = tb.EndMinute
		}
	}
}
