package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unicode/utf8"

	"pinnacle_metals/internal/common"
	"pinnacle_metals/internal/common/security"
	"pinnacle_metals/internal/domain/model"
	"pinnacle_metals/internal/domain/repository"

	"github.com/google/uuid"
)

// MinPasswordLength matches the min=8 rule on every password the API accepts.
const MinPasswordLength = 8

type SeedAdminRequest struct {
	Email    string
	Password string
	// PromoteOnly refuses to create a new account.
	PromoteOnly bool
}

type SeedAdminResult struct {
	User    model.UserView
	Created bool
}

// AdminSeeder bootstraps administrator accounts from the command line.
type AdminSeeder struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	runTx       TxRunner
}

func NewAdminSeeder(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, runTx TxRunner) *AdminSeeder {
	return &AdminSeeder{userRepo: userRepo, profileRepo: profileRepo, runTx: runTx}
}

// Seed promotes an existing account (updating its password when one is given)
// or creates a verified admin with a fresh account id.
func (s *AdminSeeder) Seed(ctx context.Context, req SeedAdminRequest) (*SeedAdminResult, error) {
	email := model.NormalizeEmail(req.Email)
	if email == "" {
		return nil, errors.New("missing admin email: provide -email or ADMIN_EMAIL")
	}
	if !req.PromoteOnly && req.Password == "" {
		return nil, errors.New("missing admin password: provide -password or ADMIN_PASSWORD (or -promote to only promote an existing user)")
	}

	if req.Password != "" && utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return nil, common.NewValidationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}

	var hashed *string
	if req.Password != "" {
		h, err := security.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		hashed = &h
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.userRepo.PromoteToAdmin(ctx, existing.ID, hashed); err != nil {
			return nil, fmt.Errorf("promote %s: %w", email, err)
		}
		existing.Role = model.RoleAdmin
		return &SeedAdminResult{User: existing.View()}, nil
	case !errors.Is(err, common.ErrNotFound):
		return nil, err
	case req.PromoteOnly:
		return nil, fmt.Errorf("user %s not found to promote; drop -promote to create a new admin", email)
	}

	user := &model.User{
		ID:                 uuid.NewString(),
		Email:              email,
		HashedPassword:     *hashed,
		Role:               model.RoleAdmin,
		VerificationStatus: model.VerificationVerified,
	}
	_, err = security.WithUniqueAccountID(ctx, func(ctx context.Context, candidate string) error {
		taken, err := s.userRepo.AccountIDExists(ctx, candidate)
		if err != nil {
			return err
		}
		if taken {
			return security.ErrAccountIDCollision
		}
		user.AccountID = candidate
		return s.runTx(ctx, func(tx *sql.Tx) error {
			if err := s.userRepo.Create(ctx, tx, user); err != nil {
				return err
			}
			return s.profileRepo.Create(ctx, tx, &model.Profile{UserID: user.ID, FullName: "Administrator"})
		})
	})
	if err != nil {
		return nil, fmt.Errorf("create admin %s: %w", email, err)
	}
	return &SeedAdminResult{User: user.View(), Created: true}, nil
}
