package mongodb

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roamtrails/tours-api/internal/domain/entity"
	"github.com/roamtrails/tours-api/internal/domain/repository"
)

// UserRepository is the credential store. Default reads exclude users soft
// deleted via active=false; callers can override by filtering on active.
type UserRepository struct {
	*Repo[entity.User]
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	coll := db.Collection(UsersColl)
	scope := bson.M{"active": bson.M{"$ne": false}}
	return &UserRepository{Repo: NewRepo[entity.User](coll, scope), coll: coll}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	u.Active = true
	u.CreatedAt = time.Now()
	res, err := r.coll.InsertOne(ctx, u)
	if err != nil {
		return mapErr(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.FindByID(ctx, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *UserRepository) GetByResetToken(ctx context.Context, hashedToken string, now time.Time) (*entity.User, error) {
	return r.findOne(ctx, bson.M{
		"password_reset_token":   hashedToken,
		"password_reset_expires": bson.M{"$gt": now},
	})
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, hashedToken string, expires time.Time) error {
	oid, err := oidFromHex(id)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"password_reset_token":   hashedToken,
		"password_reset_expires": expires,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	oid, err := oidFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.coll.UpdateByID(ctx, oid, bson.M{"$unset": bson.M{
		"password_reset_token":   "",
		"password_reset_expires": "",
	}})
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string, changedAt time.Time) error {
	oid, err := oidFromHex(id)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{
		"$set": bson.M{
			"password":            hash,
			"password_changed_at": changedAt,
			"updated_at":          time.Now(),
		},
		"$unset": bson.M{
			"password_reset_token":   "",
			"password_reset_expires": "",
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, set bson.M) (*entity.User, error) {
	set["updated_at"] = time.Now()
	return r.UpdateByID(ctx, id, set)
}

func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	oid, err := oidFromHex(id)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"active": false}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
