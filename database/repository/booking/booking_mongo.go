package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"labsched/config"
	"labsched/database"
	"labsched/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	bookingColl *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoBookingRepo{
		bookingColl: db.Collection("bookings"),
	}
}

// QueryRange fetches bookings whose date falls inside the inclusive range.
// Dates are stored as "YYYY-MM-DD" strings, so lexical comparison is safe.
func (repo *MongoBookingRepo) QueryRange(ctx context.Context, minDate, maxDate string, statuses []string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"date":   bson.M{"$gte": minDate, "$lte": maxDate},
		"status": bson.M{"$in": statuses},
	}
	cursor, err := repo.bookingColl.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error querying bookings in range [%s, %s]: %w", minDate, maxDate, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// QueryByLabAndDate fetches all bookings for a lab on a single day.
func (repo *MongoBookingRepo) QueryByLabAndDate(ctx context.Context, labID, date string, statuses []string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"lab_id": labID,
		"date":   date,
		"status": bson.M{"$in": statuses},
	}
	cursor, err := repo.bookingColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings for lab %s on %s: %w", labID, date, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// Insert persists a new booking document.
func (repo *MongoBookingRepo) Insert(ctx context.Context, booking *models.Booking) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}
	if _, err := repo.bookingColl.InsertOne(ctx, booking); err != nil {
		return "", fmt.Errorf("error creating booking: %w", err)
	}
	return booking.ID, nil
}
