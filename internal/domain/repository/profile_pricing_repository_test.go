package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinnacle_metals/internal/common"
	"pinnacle_metals/internal/domain/model"
)

func TestProfileFindByUserID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgProfileRepository(db)
	now := time.Now()

	mock.ExpectQuery(`FROM user_profiles WHERE user_id = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{
			"user_id", "full_name", "phone", "address_line1", "city", "postcode", "business_name", "created_at", "updated_at",
		}).AddRow("u1", "Ada", "0123", nil, "Leeds", nil, nil, now, now))

	p, err := repo.FindByUserID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.FullName)
	require.NotNil(t, p.City)
	assert.Equal(t, "Leeds", *p.City)
	assert.Nil(t, p.Postcode)
}

func TestProfileFindByUserID_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgProfileRepository(db)

	mock.ExpectQuery(`FROM user_profiles`).WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUserID(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestProfileUpsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgProfileRepository(db)
	now := time.Now()
	city := "York"
	p := &model.Profile{UserID: "u1", FullName: "Ada", City: &city}

	mock.ExpectQuery(`INSERT INTO user_profiles .* ON CONFLICT \(user_id\) DO UPDATE`).
		WithArgs("u1", "Ada", p.Phone, p.AddressLine1, p.City, p.Postcode, p.BusinessName).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Upsert(context.Background(), p))
	assert.Equal(t, now, p.UpdatedAt)
}

func TestProfileCreate_InsideTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgProfileRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO user_profiles`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), tx, &model.Profile{UserID: "u1", FullName: "Ada"}))
	require.NoError(t, tx.Commit())
}

func TestPricingGet_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgPricingRepository(db)

	mock.ExpectQuery(`FROM pricing_config WHERE id = 1`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPricingUpsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgPricingRepository(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO pricing_config .* ON CONFLICT \(id\) DO UPDATE`).
		WithArgs(true, 7000.0, now).
		WillReturnRows(sqlmock.NewRows([]string{"override_set", "base_copper_price", "updated_at"}).
			AddRow(true, 7000.0, now))

	cfg, err := repo.Upsert(context.Background(), true, 7000, now)
	require.NoError(t, err)
	price, ok := cfg.ActiveOverride()
	assert.True(t, ok)
	assert.Equal(t, 7000.0, price)
}
