package service

import (
	"context"

	"parley/internal/models"
	"parley/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	UserID     uint
	Email      *string
	Tel        *string
	AvatarPath *string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	return s.userRepo.GetProfile(ctx, userID)
}

// UpdateProfile applies a partial update; absent fields keep their stored
// values.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.UserProfile, error) {
	profile, err := s.userRepo.GetProfile(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		profile.Email = *in.Email
	}
	if in.Tel != nil {
		profile.Tel = in.Tel
	}
	if in.AvatarPath != nil {
		profile.AvatarPath = in.AvatarPath
	}

	if err := s.userRepo.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// DeleteUser removes the account. Owned posts, the profile and the token go
// with it; authored messages survive with author set NULL.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}
