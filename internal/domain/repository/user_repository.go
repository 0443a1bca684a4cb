package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/roamtrails/tours-api/internal/domain/entity"
)

// UserRepository defines credential-store operations. All reads exclude
// inactive users unless the caller filters on active explicitly.
type UserRepository interface {
	Collection[entity.User]

	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByResetToken(ctx context.Context, hashedToken string, now time.Time) (*entity.User, error)

	SetResetToken(ctx context.Context, id, hashedToken string, expires time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	// UpdatePassword stores a new hash, refreshes password_changed_at and
	// clears any pending reset token in one write.
	UpdatePassword(ctx context.Context, id, hash string, changedAt time.Time) error

	UpdateProfile(ctx context.Context, id string, set bson.M) (*entity.User, error)
	Deactivate(ctx context.Context, id string) error
}
