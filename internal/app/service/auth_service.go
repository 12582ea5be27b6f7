package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pinnacle_metals/internal/common"
	"pinnacle_metals/internal/common/security"
	"pinnacle_metals/internal/domain/model"
	"pinnacle_metals/internal/domain/repository"
	"pinnacle_metals/internal/platform/mail"

	"github.com/google/uuid"
)

const ForgotPasswordMessage = "If that email exists, a reset link was sent."

var errInvalidCredentials = common.WithMessage(common.ErrUnauthenticated, "Invalid credentials")

type AuthConfig struct {
	ResetTokenTTL        time.Duration
	VerificationTokenTTL time.Duration
}

type AuthService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	tokens      *security.TokenService
	runTx       TxRunner
	mailQueue   MailQueue
	templates   mail.Templates
	cfg         AuthConfig
	logger      *slog.Logger
	now         Clock
	// checkPassword is security.CheckPasswordHash outside tests.
	checkPassword func(password, hash string) bool
}

func NewAuthService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	tokens *security.TokenService,
	runTx TxRunner,
	mailQueue MailQueue,
	templates mail.Templates,
	cfg AuthConfig,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tokens:      tokens,
		runTx:       runTx,
		mailQueue:   mailQueue,
		templates:   templates,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,

		checkPassword: security.CheckPasswordHash,
	}
}

type RegisterRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8"`
	FullName     string  `json:"fullName" validate:"required,min=2"`
	Phone        *string `json:"phone,omitempty"`
	AddressLine1 *string `json:"addressLine1,omitempty"`
	City         *string `json:"city,omitempty"`
	Postcode     *string `json:"postcode,omitempty"`
	BusinessName *string `json:"businessName,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthResponse is the session token plus the user projection, flattened on the wire.
type AuthResponse struct {
	Token string `json:"token"`
	model.UserView
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Email = model.NormalizeEmail(req.Email)
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, common.WithMessage(common.ErrConflict, "Email already in use")
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	verifyToken, err := security.NewSideToken()
	if err != nil {
		return nil, err
	}
	verifyExpires := s.now().Add(s.cfg.VerificationTokenTTL)

	user := &model.User{
		ID:                         uuid.NewString(),
		Email:                      req.Email,
		HashedPassword:             hashedPassword,
		Role:                       model.RoleUser,
		VerificationStatus:         model.VerificationUnverified,
		EmailVerificationToken:     &verifyToken,
		EmailVerificationExpiresAt: &verifyExpires,
	}
	profile := &model.Profile{
		UserID:       user.ID,
		FullName:     req.FullName,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		City:         req.City,
		Postcode:     req.Postcode,
		BusinessName: req.BusinessName,
	}

	// Each candidate is pre-checked, and an insert that loses a race on the
	// account_id constraint counts against the same attempt limit.
	_, err = security.WithUniqueAccountID(ctx, func(ctx context.Context, candidate string) error {
		taken, err := s.userRepo.AccountIDExists(ctx, candidate)
		if err != nil {
			return fmt.Errorf("failed to check account id: %w", err)
		}
		if taken {
			return security.ErrAccountIDCollision
		}
		user.AccountID = candidate
		return s.runTx(ctx, func(tx *sql.Tx) error {
			if err := s.userRepo.Create(ctx, tx, user); err != nil {
				return err
			}
			return s.profileRepo.Create(ctx, tx, profile)
		})
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) || errors.Is(err, common.ErrResourceExhausted) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.sendVerificationEmail(ctx, user.Email, verifyToken)

	return s.session(user)
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Email = model.NormalizeEmail(req.Email)
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// pay for a bcrypt compare anyway so timing matches a wrong password
			s.checkPassword(req.Password, security.DummyPasswordHash())
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.checkPassword(req.Password, user.HashedPassword) {
		return nil, errInvalidCredentials
	}

	return s.session(user)
}

// ForgotPassword never reveals whether the address is registered. Issuing a
// new token replaces any earlier one.
func (s *AuthService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	req.Email = model.NormalizeEmail(req.Email)
	if err := common.Validate(req); err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	token, err := security.NewSideToken()
	if err != nil {
		return err
	}
	if err := s.userRepo.SetResetToken(ctx, user.ID, token, s.now().Add(s.cfg.ResetTokenTTL)); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	msg, err := s.templates.PasswordReset(user.Email, token)
	if err != nil {
		s.logger.Error("failed to render reset email", "user_id", user.ID, "error", err)
		return nil
	}
	if err := s.mailQueue.Enqueue(ctx, msg); err != nil {
		s.logger.Error("failed to enqueue reset email", "user_id", user.ID, "error", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := common.Validate(req); err != nil {
		return err
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := s.userRepo.ConsumeResetToken(ctx, req.Token, s.now(), hashedPassword); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.WithMessage(common.ErrInvalidToken, "Invalid or expired reset token")
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return common.WithMessage(common.ErrBadRequest, "Missing token")
	}
	if _, err := s.userRepo.ConsumeEmailVerificationToken(ctx, token, s.now()); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.WithMessage(common.ErrInvalidToken, "Invalid verification token")
		}
		return fmt.Errorf("failed to verify email: %w", err)
	}
	return nil
}

// Me resolves a raw session token to its user. Any failure (no token, bad
// token, deleted user) yields nil without an error.
func (s *AuthService) Me(ctx context.Context, token string) (*model.UserView, error) {
	if token == "" {
		return nil, nil
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, nil
	}
	user, err := s.userRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	view := user.View()
	return &view, nil
}

func (s *AuthService) session(user *model.User) (*AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, UserView: user.View()}, nil
}

func (s *AuthService) sendVerificationEmail(ctx context.Context, to, token string) {
	msg, err := s.templates.EmailVerification(to, token)
	if err != nil {
		s.logger.Error("failed to render verification email", "to", to, "error", err)
		return
	}
	if err := s.mailQueue.Enqueue(ctx, msg); err != nil {
		s.logger.Error("failed to enqueue verification email", "to", to, "error", err)
	}
}
