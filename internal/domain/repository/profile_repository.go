package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pinnacle_metals/internal/common"
	"pinnacle_metals/internal/domain/model"
)

type ProfileRepository interface {
	Create(ctx context.Context, tx *sql.Tx, profile *model.Profile) error
	FindByUserID(ctx context.Context, userID string) (*model.Profile, error)
	Upsert(ctx context.Context, profile *model.Profile) error
}

type pgProfileRepository struct {
	db *sql.DB
}

func NewPgProfileRepository(db *sql.DB) ProfileRepository {
	return &pgProfileRepository{db: db}
}

func (r *pgProfileRepository) Create(ctx context.Context, tx *sql.Tx, profile *model.Profile) error {
	query := `INSERT INTO user_profiles (user_id, full_name, phone, address_line1, city, postcode, business_name)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING created_at, updated_at`
	err := pick(r.db, tx).QueryRowContext(ctx, query,
		profile.UserID, profile.FullName, profile.Phone, profile.AddressLine1,
		profile.City, profile.Postcode, profile.BusinessName,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgProfileRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProfileRepository) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	query := `SELECT user_id, full_name, phone, address_line1, city, postcode, business_name, created_at, updated_at
	          FROM user_profiles WHERE user_id = $1`
	p := &model.Profile{}
	var phone, address, city, postcode, business sql.NullString
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.FullName, &phone, &address, &city, &postcode, &business, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProfileRepository.FindByUserID: %w", err)
	}
	p.Phone = nullStringPtr(phone)
	p.AddressLine1 = nullStringPtr(address)
	p.City = nullStringPtr(city)
	p.Postcode = nullStringPtr(postcode)
	p.BusinessName = nullStringPtr(business)
	return p, nil
}

// Upsert writes every profile column, creating the row for accounts that never had one.
func (r *pgProfileRepository) Upsert(ctx context.Context, profile *model.Profile) error {
	query := `INSERT INTO user_profiles (user_id, full_name, phone, address_line1, city, postcode, business_name)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (user_id) DO UPDATE SET
	              full_name = EXCLUDED.full_name,
	              phone = EXCLUDED.phone,
	              address_line1 = EXCLUDED.address_line1,
	              city = EXCLUDED.city,
	              postcode = EXCLUDED.postcode,
	              business_name = EXCLUDED.business_name,
	              updated_at = CURRENT_TIMESTAMP
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		profile.UserID, profile.FullName, profile.Phone, profile.AddressLine1,
		profile.City, profile.Postcode, profile.BusinessName,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgProfileRepository.Upsert: %w", err)
	}
	return nil
}
