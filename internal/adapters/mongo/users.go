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

type UserRepository struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewUserRepository(db *mongo.Database, logger observability.Logger) *UserRepository {
	return &UserRepository{
		coll:   db.Collection("users"),
		logger: logger,
	}
}

type UserDoc struct {
	ID           uuid.UUID  `bson:"_id"`
	Username     string     `bson:"username"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"password"`
	FirstName    string     `bson:"first_name"`
	LastName     string     `bson:"last_name"`
	PhoneNumber  string     `bson:"phone_number"`
	IsAdmin      bool       `bson:"is_admin"`
	CreatedAt    time.Time  `bson:"created_at"`
	LastLogin    *time.Time `bson:"last_login,omitempty"`
}

func (d UserDoc) toDomain() domain.User {
	return domain.User{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		PhoneNumber:  d.PhoneNumber,
		IsAdmin:      d.IsAdmin,
		CreatedAt:    d.CreatedAt,
		LastLogin:    d.LastLogin,
	}
}

func userDoc(u domain.User) UserDoc {
	return UserDoc{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PhoneNumber:  u.PhoneNumber,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
		LastLogin:    u.LastLogin,
	}
}

func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

func (r *UserRepository) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.coll.InsertOne(ctx, userDoc(u))
	if mongo.IsDuplicateKeyError(err) {
		return errors.Wrap(domain.ErrConflict, "username or email is taken")
	}
	if err != nil {
		r.logger.Error("failed to create user", err)
		return errors.Mark(err, domain.ErrUpstream)
	}
	return nil
}

func (r *UserRepository) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var doc UserDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.Wrap(domain.ErrNotFound, "user")
	}
	if err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	u := doc.toDomain()
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var doc UserDoc
	err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.Wrap(domain.ErrNotFound, "user")
	}
	if err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	u := doc.toDomain()
	return &u, nil
}

// GetUsers resolves a set of user ids in one query; missing ids are absent
// from the result.
func (r *UserRepository) GetUsers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.User, error) {
	out := make(map[uuid.UUID]domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc UserDoc
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

func (r *UserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	defer cur.Close(ctx)

	var users []domain.User
	for cur.Next(ctx) {
		var doc UserDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Mark(err, domain.ErrUpstream)
		}
		users = append(users, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	return users, nil
}

// UserUpdate carries the optional fields of a profile update. Nil leaves
// the stored value alone.
type UserUpdate struct {
	Email        *string
	FirstName    *string
	LastName     *string
	PhoneNumber  *string
	PasswordHash *string
	LastLogin    *time.Time
}

func (r *UserRepository) UpdateUser(ctx context.Context, id uuid.UUID, upd UserUpdate) (*domain.User, error) {
	set := bson.M{}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.FirstName != nil {
		set["first_name"] = *upd.FirstName
	}
	if upd.LastName != nil {
		set["last_name"] = *upd.LastName
	}
	if upd.PhoneNumber != nil {
		set["phone_number"] = *upd.PhoneNumber
	}
	if upd.PasswordHash != nil {
		set["password"] = *upd.PasswordHash
	}
	if upd.LastLogin != nil {
		set["last_login"] = *upd.LastLogin
	}
	if len(set) == 0 {
		return r.GetUser(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc UserDoc
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.Wrap(domain.ErrNotFound, "user")
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, errors.Wrap(domain.ErrConflict, "email is taken")
	}
	if err != nil {
		return nil, errors.Mark(err, domain.ErrUpstream)
	}
	u := doc.toDomain()
	return &u, nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Mark(err, domain.ErrUpstream)
	}
	if res.DeletedCount == 0 {
		return errors.Wrap(domain.ErrNotFound, "user")
	}
	return nil
}
