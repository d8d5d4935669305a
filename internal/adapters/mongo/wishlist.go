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

// WishlistRepository owns the wishlists collection. The unique compound
// index on (user_id, package_id) enforces at most one entry per pair; the
// duplicate-key error from a racing insert maps to ErrConflict.
type WishlistRepository struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewWishlistRepository(db *mongo.Database, logger observability.Logger) *WishlistRepository {
	return &WishlistRepository{
		coll:   db.Collection("wishlists"),
		logger: logger,
	}
}

type WishlistDoc struct {
	ID        uuid.UUID `bson:"_id"`
	UserID    uuid.UUID `bson:"user_id"`
	PackageID uuid.UUID `bson:"package_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d WishlistDoc) toDomain() domain.WishlistItem {
	return domain.WishlistItem{
		ID:        d.ID,
		UserID:    d.UserID,
		PackageID: d.PackageID,
		CreatedAt: d.CreatedAt,
	}
}

func (w *WishlistRepository) EnsureIndexes(ctx context.Context) error {
	_, err := w.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "package_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (w *WishlistRepository) Add(ctx context.Context, item domain.WishlistItem) error {
	doc := WishlistDoc{
		ID:        item.ID,
		UserID:    item.UserID,
		PackageID: item.PackageID,
		CreatedAt: item.CreatedAt,
	}
	_, err := w.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return errors.Wrap(domain.ErrConflict, "package already in wishlist")
	}
	if err != nil {
		w.logger.Error("failed to add wishlist item", err)
		return errors.Mark(err, domain.ErrUpstream)
	}
	return nil
}

func (w *WishlistRepository) Remove(ctx context.Context, userID, packageID uuid.UUID) (*domain.WishlistItem, error) {
	var doc WishlistDoc
	err := w.coll.FindOneAndDelete(ctx, bson.M{"user_id": userID, "package_id": packageID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.Wrap(domain.ErrNotFound, "wishlist item")
	}
	if err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	item := doc.toDomain()
	return &item, nil
}

func (w *WishlistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := w.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	defer cur.Close(ctx)

	var items []domain.WishlistItem
	for cur.Next(ctx) {
		var doc WishlistDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Mark(err, domain.ErrUpstream)
		}
		items = append(items, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	return items, nil
}
