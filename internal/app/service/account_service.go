package service

import (
	"context"
	"errors"
	"fmt"

	"pinnacle_metals/internal/common"
	"pinnacle_metals/internal/common/security"
	"pinnacle_metals/internal/domain/model"
	"pinnacle_metals/internal/domain/repository"
)

type AccountService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
}

func NewAccountService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository) *AccountService {
	return &AccountService{userRepo: userRepo, profileRepo: profileRepo}
}

type AccountResponse struct {
	User    model.UserView `json:"user"`
	Profile *model.Profile `json:"profile"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

func (s *AccountService) Get(ctx context.Context, userID string) (*AccountResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	return &AccountResponse{User: user.View(), Profile: profile}, nil
}

// UpdateProfile applies the set fields of patch, creating the profile if the
// account never had one.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, patch model.ProfilePatch) (*model.Profile, error) {
	if err := common.Validate(patch); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		profile = &model.Profile{UserID: userID}
	}
	patch.Apply(profile)

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

func (s *AccountService) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	if err := common.Validate(req); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.WithMessage(common.ErrBadRequest, "User not found")
		}
		return err
	}
	if !security.CheckPasswordHash(req.CurrentPassword, user.HashedPassword) {
		return common.WithMessage(common.ErrBadRequest, "Current password is incorrect")
	}

	hashedPassword, err := security.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, userID, hashedPassword)
}
