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

func TestAdminSeeder_CreatesVerifiedAdmin(t *testing.T) {
	users, profiles := repotest.NewUsers(), repotest.NewProfiles()
	seeder := NewAdminSeeder(users, profiles, noTx)

	res, err := seeder.Seed(context.Background(), SeedAdminRequest{Email: " Boss@X.com", Password: "password123"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "boss@x.com", res.User.Email)
	assert.Equal(t, model.RoleAdmin, res.User.Role)
	assert.Equal(t, model.VerificationVerified, res.User.VerificationStatus)
	assert.True(t, security.IsAccountID(res.User.AccountID))
}

func TestAdminSeeder_PromotesExisting(t *testing.T) {
	users := repotest.NewUsers()
	seedUser(t, users, "u1", "a@x.com", "password123", model.RoleUser)
	seeder := NewAdminSeeder(users, repotest.NewProfiles(), noTx)

	res, err := seeder.Seed(context.Background(), SeedAdminRequest{Email: "a@x.com", PromoteOnly: true})
	require.NoError(t, err)
	assert.False(t, res.Created)

	u, err := users.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.True(t, security.CheckPasswordHash("password123", u.HashedPassword), "password untouched without -password")
}

func TestAdminSeeder_Errors(t *testing.T) {
	seeder := NewAdminSeeder(repotest.NewUsers(), repotest.NewProfiles(), noTx)
	ctx := context.Background()

	_, err := seeder.Seed(ctx, SeedAdminRequest{Password: "password123"})
	assert.ErrorContains(t, err, "missing admin email")

	_, err = seeder.Seed(ctx, SeedAdminRequest{Email: "a@x.com"})
	assert.ErrorContains(t, err, "missing admin password")

	_, err = seeder.Seed(ctx, SeedAdminRequest{Email: "ghost@x.com", PromoteOnly: true})
	assert.ErrorContains(t, err, "not found to promote")
}

func TestAdminSeeder_RejectsShortPassword(t *testing.T) {
	users := repotest.NewUsers()
	seedUser(t, users, "u1", "a@x.com", "password123", model.RoleUser)
	seeder := NewAdminSeeder(users, repotest.NewProfiles(), noTx)
	ctx := context.Background()

	_, err := seeder.Seed(ctx, SeedAdminRequest{Email: "new@x.com", Password: "a"})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Zero(t, users.Creates, "no admin may be created with a short password")

	_, err = seeder.Seed(ctx, SeedAdminRequest{Email: "a@x.com", Password: "1234567"})
	require.ErrorIs(t, err, common.ErrValidation)
	u, err := users.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, u.Role, "promotion must not happen with a rejected password")
}
