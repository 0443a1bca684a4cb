package application

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/roamtrails/tours-api/internal/domain/entity"
	"github.com/roamtrails/tours-api/internal/domain/repository"
)

var ErrUserNotFound = errors.New("user not found")

// UserService covers profile reads and self-service mutations; the password
// lifecycle stays with AuthService.
type UserService struct {
	Repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{Repo: repo}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name  string
	Photo string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	set := bson.M{}
	if in.Name != "" {
		set["name"] = in.Name
	}
	if in.Photo != "" {
		set["photo"] = in.Photo
	}
	u, err := s.Repo.UpdateProfile(ctx, userID, set)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Deactivate soft-deletes the account; the record stays but drops out of
// every default query.
func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	if err := s.Repo.Deactivate(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
