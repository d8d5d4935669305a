package mongo

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/travel-reservations/internal/domain"
	"github.com/robertarktes/travel-reservations/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CatalogRepository owns the packages collection. It is the only place
// availability is ever written, and every write is an atomic $inc so that
// concurrent reserve/cancel calls serialize in the store, never in
// application memory.
type CatalogRepository struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewCatalogRepository(db *mongo.Database, logger observability.Logger) *CatalogRepository {
	return &CatalogRepository{
		coll:   db.Collection("packages"),
		logger: logger,
	}
}

type PackageDoc struct {
	ID           uuid.UUID `bson:"_id"`
	Title        string    `bson:"title"`
	Description  string    `bson:"description"`
	Price        float64   `bson:"price"`
	Duration     string    `bson:"duration"`
	Destination  string    `bson:"destination"`
	Category     string    `bson:"category"`
	Availability int       `bson:"availability"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d PackageDoc) toDomain() domain.Package {
	return domain.Package{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		Price:        d.Price,
		Duration:     d.Duration,
		Destination:  d.Destination,
		Category:     domain.Category(d.Category),
		Availability: d.Availability,
		CreatedAt:    d.CreatedAt,
	}
}

func packageDoc(p domain.Package) PackageDoc {
	return PackageDoc{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price,
		Duration:     p.Duration,
		Destination:  p.Destination,
		Category:     string(p.Category),
		Availability: p.Availability,
		CreatedAt:    p.CreatedAt,
	}
}

func (c *CatalogRepository) GetPackage(ctx context.Context, id uuid.UUID) (*domain.Package, error) {
	var doc PackageDoc
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.Wrap(domain.ErrNotFound, "package")
	}
	if err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	pkg := doc.toDomain()
	return &pkg, nil
}

// GetPackages resolves a set of ids in one query. Missing ids are simply
// absent from the result map.
func (c *CatalogRepository) GetPackages(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Package, error) {
	out := make(map[uuid.UUID]domain.Package, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := c.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc PackageDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Mark(err, domain.ErrUpstream)
		}
		out[doc.ID] = doc.toDomain()
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	return out, nil
}

// PackageQuery filters ListPackages. Zero values mean "no constraint".
type PackageQuery struct {
	Search          string
	MinPrice        float64
	MaxPrice        float64
	Category        string
	MinAvailability int
}

func (c *CatalogRepository) ListPackages(ctx context.Context, q PackageQuery) ([]domain.Package, error) {
	filter := bson.M{}
	if q.Search != "" {
		rx := primitive.Regex{Pattern: q.Search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": rx},
			bson.M{"destination": rx},
		}
	}
	price := bson.M{}
	if q.MinPrice > 0 {
		price["$gte"] = q.MinPrice
	}
	if q.MaxPrice > 0 {
		price["$lte"] = q.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	if q.Category != "" {
		filter["category"] = primitive.Regex{Pattern: q.Category, Options: "i"}
	}
	if q.MinAvailability > 0 {
		filter["availability"] = bson.M{"$gte": q.MinAvailability}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	defer cur.Close(ctx)

	var pkgs []domain.Package
	for cur.Next(ctx) {
		var doc PackageDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Mark(err, domain.ErrUpstream)
		}
		pkgs = append(pkgs, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	return pkgs, nil
}

func (c *CatalogRepository) CreatePackage(ctx context.Context, pkg domain.Package) error {
	_, err := c.coll.InsertOne(ctx, packageDoc(pkg))
	if err != nil {
		c.logger.Error("failed to create package", err)
		return errors.Mark(err, domain.ErrUpstream)
	}
	return nil
}

// PackageUpdate carries the optional fields of an admin edit. Nil means
// leave the stored value alone.
type PackageUpdate struct {
	Title        *string
	Description  *string
	Price        *float64
	Duration     *string
	Destination  *string
	Category     *string
	Availability *int
}

func (c *CatalogRepository) UpdatePackage(ctx context.Context, id uuid.UUID, upd PackageUpdate) (*domain.Package, error) {
	set := bson.M{}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Duration != nil {
		set["duration"] = *upd.Duration
	}
	if upd.Destination != nil {
		set["destination"] = *upd.Destination
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Availability != nil {
		set["availability"] = *upd.Availability
	}
	if len(set) == 0 {
		return c.GetPackage(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc PackageDoc
	err := c.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.Wrap(domain.ErrNotFound, "package")
	}
	if err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	pkg := doc.toDomain()
	return &pkg, nil
}

func (c *CatalogRepository) DeletePackage(ctx context.Context, id uuid.UUID) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Mark(err, domain.ErrUpstream)
	}
	if res.DeletedCount == 0 {
		return errors.Wrap(domain.ErrNotFound, "package")
	}
	return nil
}

// DecrementIfAvailable takes one unit of availability if and only if at
// least one unit remains. The filter and the $inc run as a single document
// update, so two concurrent callers can never both win the last unit.
// Returns false when the package is out of stock, ErrNotFound when it does
// not exist.
func (c *CatalogRepository) DecrementIfAvailable(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := c.coll.UpdateOne(
		ctx,
		bson.M{"_id": id, "availability": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"availability": -1}},
	)
	if err != nil {
		c.logger.Error("failed to decrement availability", err)
		return false, errors.Mark(err, domain.ErrUpstream)
	}
	if res.ModifiedCount == 1 {
		return true, nil
	}
	n, err := c.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, errors.Mark(err, domain.ErrUpstream)
	}
	if n == 0 {
		return false, errors.Wrap(domain.ErrNotFound, "package")
	}
	return false, nil
}

// AdjustAvailability applies an unconditional atomic delta. Used for
// restocks, cancellation credits and compensation of a failed reserve.
func (c *CatalogRepository) AdjustAvailability(ctx context.Context, id uuid.UUID, delta int) error {
	res, err := c.coll.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"availability": delta}},
	)
	if err != nil {
		c.logger.Error("failed to adjust availability", err)
		return errors.Mark(err, domain.ErrUpstream)
	}
	if res.MatchedCount == 0 {
		return errors.Wrap(domain.ErrNotFound, "package")
	}
	return nil
}
