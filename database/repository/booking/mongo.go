package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"lashbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository on a "bookings" collection.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates the repo and ensures the indexes that back
// idempotent confirmation: uniqueness on bookingReference and a lookup
// index on paymentReference.
func NewMongoBookingRepo(db *mongo.Database) (*MongoBookingRepo, error) {
	coll := db.Collection("bookings")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "bookingReference", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "paymentReference", Value: 1}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("booking: create indexes: %w", err)
	}
	return &MongoBookingRepo{coll: coll}, nil
}

func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateReference
		}
		return fmt.Errorf("booking: insert: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoBookingRepo) GetByReference(ctx context.Context, ref string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"bookingReference": ref})
}

func (r *MongoBookingRepo) GetByPaymentReference(ctx context.Context, payRef string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"paymentReference": payRef})
}

func (r *MongoBookingRepo) SetCalendarEventID(ctx context.Context, id, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"calendarEventId": eventID}},
	)
	if err != nil {
		return fmt.Errorf("booking: set calendar event: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoBookingRepo) findOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, filter).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("booking: find: %w", err)
	}
	return &booking, nil
}
