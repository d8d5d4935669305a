package mongo

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/travel-reservations/internal/domain"
	"github.com/robertarktes/travel-reservations/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LedgerRepository owns the bookings collection. Bookings are append-only
// except for the status flip to CANCELLED, which is guarded by a filtered
// update so the flip happens at most once.
type LedgerRepository struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewLedgerRepository(db *mongo.Database, logger observability.Logger) *LedgerRepository {
	return &LedgerRepository{
		coll:   db.Collection("bookings"),
		logger: logger,
	}
}

type BookingDoc struct {
	ID        uuid.UUID `bson:"_id"`
	UserID    uuid.UUID `bson:"user_id"`
	PackageID uuid.UUID `bson:"package_id"`
	Date      time.Time `bson:"date"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d BookingDoc) toDomain() domain.Booking {
	return domain.Booking{
		ID:        d.ID,
		UserID:    d.UserID,
		PackageID: d.PackageID,
		Date:      d.Date,
		Status:    domain.BookingStatus(d.Status),
		CreatedAt: d.CreatedAt,
	}
}

func (l *LedgerRepository) InsertBooking(ctx context.Context, b domain.Booking) error {
	doc := BookingDoc{
		ID:        b.ID,
		UserID:    b.UserID,
		PackageID: b.PackageID,
		Date:      b.Date,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
	if _, err := l.coll.InsertOne(ctx, doc); err != nil {
		l.logger.Error("failed to insert booking", err)
		return errors.Mark(err, domain.ErrUpstream)
	}
	return nil
}

// GetBookingForUser fetches a booking only if it is owned by the given
// user, so callers cannot cancel or inspect someone else's booking.
func (l *LedgerRepository) GetBookingForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Booking, error) {
	var doc BookingDoc
	err := l.coll.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.Wrap(domain.ErrNotFound, "booking")
	}
	if err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	b := doc.toDomain()
	return &b, nil
}

// MarkCancelled flips the booking to CANCELLED if it is not already. The
// status guard lives in the filter, so two racing cancels produce exactly
// one flip: the loser gets flipped=false and must not re-credit
// availability.
func (l *LedgerRepository) MarkCancelled(ctx context.Context, id, userID uuid.UUID) (*domain.Booking, bool, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc BookingDoc
	err := l.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "user_id": userID, "status": bson.M{"$ne": string(domain.StatusCancelled)}},
		bson.M{"$set": bson.M{"status": string(domain.StatusCancelled)}},
		opts,
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		l.logger.Error("failed to cancel booking", err)
		return nil, false, errors.Mark(err, domain.ErrUpstream)
	}
	b := doc.toDomain()
	return &b, true, nil
}

func (l *LedgerRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	return l.list(ctx, bson.M{"user_id": userID})
}

func (l *LedgerRepository) ListAll(ctx context.Context) ([]domain.Booking, error) {
	return l.list(ctx, bson.M{})
}

func (l *LedgerRepository) list(ctx context.Context, filter bson.M) ([]domain.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := l.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	defer cur.Close(ctx)

	var bookings []domain.Booking
	for cur.Next(ctx) {
		var doc BookingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Mark(err, domain.ErrUpstream)
		}
		bookings = append(bookings, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	return bookings, nil
}
