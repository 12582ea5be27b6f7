package model

import (
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	VerificationUnverified = "unverified"
	VerificationVerified   = "verified"
)

type User struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	HashedPassword     string    `json:"-"` // Not exposed
	Role               string    `json:"role"`
	AccountID          string    `json:"accountId"`
	VerificationStatus string    `json:"verificationStatus"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`

	// Side tokens. Present only between issuance and redemption.
	ResetToken                 *string    `json:"-"`
	ResetTokenExpiresAt        *time.Time `json:"-"`
	EmailVerificationToken     *string    `json:"-"`
	EmailVerificationExpiresAt *time.Time `json:"-"`
}

// UserView is the canonical user-facing projection returned by auth and account endpoints.
type UserView struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	AccountID          string `json:"accountId"`
	VerificationStatus string `json:"verificationStatus"`
}

func (u *User) View() UserView {
	return UserView{
		ID:                 u.ID,
		Email:              u.Email,
		Role:               u.Role,
		AccountID:          u.AccountID,
		VerificationStatus: u.VerificationStatus,
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeEmail trims and lowercases an address; emails are unique in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

func IsValidVerificationStatus(status string) bool {
	return status == VerificationUnverified || status == VerificationVerified
}

// UserListItem is a user row joined with the profile fields shown in admin listings.
type UserListItem struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Role               string    `json:"role"`
	AccountID          string    `json:"accountId"`
	VerificationStatus string    `json:"verificationStatus"`
	CreatedAt          time.Time `json:"createdAt"`
	FullName           string    `json:"fullName"`
	Phone              string    `json:"phone"`
	BusinessName       string    `json:"businessName"`
}
