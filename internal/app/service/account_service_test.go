package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinnacle_metals/internal/common"
	"pinnacle_metals/internal/common/security"
	"pinnacle_metals/internal/domain/model"
	"pinnacle_metals/internal/domain/repository/repotest"
)

func strPtr(s string) *string { return &s }

func seedUser(t *testing.T, users *repotest.Users, id, email, password, role string) *model.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)
	u := &model.User{
		ID:                 id,
		Email:              email,
		HashedPassword:     hash,
		Role:               role,
		AccountID:          "PM-" + id,
		VerificationStatus: model.VerificationUnverified,
	}
	users.Seed(u)
	return u
}

func TestAccountGet(t *testing.T) {
	users, profiles := repotest.NewUsers(), repotest.NewProfiles()
	svc := NewAccountService(users, profiles)
	seedUser(t, users, "u1", "a@x.com", "password123", model.RoleUser)

	resp, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.Nil(t, resp.Profile)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAccountUpdateProfile_PartialUpsert(t *testing.T) {
	users, profiles := repotest.NewUsers(), repotest.NewProfiles()
	svc := NewAccountService(users, profiles)

	p, err := svc.UpdateProfile(context.Background(), "u1", model.ProfilePatch{City: strPtr("Leeds")})
	require.NoError(t, err)
	assert.Equal(t, "Leeds", *p.City)

	p, err = svc.UpdateProfile(context.Background(), "u1", model.ProfilePatch{FullName: strPtr("Ada L")})
	require.NoError(t, err)
	assert.Equal(t, "Ada L", p.FullName)
	require.NotNil(t, p.City)
	assert.Equal(t, "Leeds", *p.City, "unset fields are left alone")

	_, err = svc.UpdateProfile(context.Background(), "u1", model.ProfilePatch{FullName: strPtr("A")})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestAccountChangePassword(t *testing.T) {
	users, profiles := repotest.NewUsers(), repotest.NewProfiles()
	svc := NewAccountService(users, profiles)
	seedUser(t, users, "u1", "a@x.com", "password123", model.RoleUser)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, "u1", ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "newpassword1", ConfirmPassword: "different1"})
	assert.ErrorIs(t, err, common.ErrValidation)

	err = svc.ChangePassword(ctx, "u1", ChangePasswordRequest{CurrentPassword: "wrong-pass", NewPassword: "newpassword1", ConfirmPassword: "newpassword1"})
	assert.ErrorIs(t, err, common.ErrBadRequest)
	assert.Equal(t, "Current password is incorrect", err.Error())

	require.NoError(t, svc.ChangePassword(ctx, "u1", ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "newpassword1", ConfirmPassword: "newpassword1"}))
	u, _ := users.FindByID(ctx, "u1")
	assert.True(t, security.CheckPasswordHash("newpassword1", u.HashedPassword))
}
