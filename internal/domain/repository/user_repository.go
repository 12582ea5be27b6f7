package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pinnacle_metals/internal/common"
	"pinnacle_metals/internal/common/security"
	"pinnacle_metals/internal/domain/model"
)

const (
	ConstraintUsersEmail     = "users_email_key"
	ConstraintUsersAccountID = "users_account_id_key"
)

type UserRepository interface {
	Create(ctx context.Context, tx *sql.Tx, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	AccountIDExists(ctx context.Context, accountID string) (bool, error)

	UpdatePassword(ctx context.Context, id, hashedPassword string) error
	UpdateRole(ctx context.Context, id, role string) (*model.User, error)
	UpdateVerificationStatus(ctx context.Context, id, status string) (*model.User, error)
	PromoteToAdmin(ctx context.Context, id string, hashedPassword *string) error

	SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, token string, now time.Time, hashedPassword string) (string, error)
	ConsumeEmailVerificationToken(ctx context.Context, token string, now time.Time) (string, error)

	List(ctx context.Context, status string, limit, offset int) ([]model.UserListItem, int, error)
	ListAll(ctx context.Context) ([]model.UserListItem, error)
	CountByVerificationStatus(ctx context.Context) (map[string]int, error)
	Delete(ctx context.Context, id string) error
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, email, hashed_password, role, account_id, verification_status,
	reset_token, reset_token_expires_at, email_verification_token, email_verification_expires_at,
	created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*model.User, error) {
	user := &model.User{}
	var (
		resetToken, verifyToken     sql.NullString
		resetExpires, verifyExpires sql.NullTime
	)
	err := row.Scan(
		&user.ID, &user.Email, &user.HashedPassword, &user.Role, &user.AccountID, &user.VerificationStatus,
		&resetToken, &resetExpires, &verifyToken, &verifyExpires,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.ResetToken = nullStringPtr(resetToken)
	user.ResetTokenExpiresAt = nullTimePtr(resetExpires)
	user.EmailVerificationToken = nullStringPtr(verifyToken)
	user.EmailVerificationExpiresAt = nullTimePtr(verifyExpires)
	return user, nil
}

func (r *pgUserRepository) Create(ctx context.Context, tx *sql.Tx, user *model.User) error {
	query := `INSERT INTO users (id, email, hashed_password, role, account_id, verification_status,
	              email_verification_token, email_verification_expires_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING created_at, updated_at`
	err := pick(r.db, tx).QueryRowContext(ctx, query,
		user.ID, user.Email, user.HashedPassword, user.Role, user.AccountID, user.VerificationStatus,
		user.EmailVerificationToken, user.EmailVerificationExpiresAt,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err, ConstraintUsersAccountID) {
			return security.ErrAccountIDCollision
		}
		if common.IsUniqueViolation(err, ConstraintUsersEmail) {
			return common.WithMessage(common.ErrConflict, "Email already in use")
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) findOne(ctx context.Context, where string, arg interface{}) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := r.findOne(ctx, "email = $1", model.NormalizeEmail(email))
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("pgUserRepository.FindByEmail: %w", err)
	}
	return user, err
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if !isRowID(id) {
		return nil, common.ErrNotFound
	}
	user, err := r.findOne(ctx, "id = $1", id)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("pgUserRepository.FindByID: %w", err)
	}
	return user, err
}

func (r *pgUserRepository) AccountIDExists(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE account_id = $1)`, accountID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgUserRepository.AccountIDExists: %w", err)
	}
	return exists, nil
}

func (r *pgUserRepository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET hashed_password = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		hashedPassword, id)
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdatePassword: %w", err)
	}
	return requireRow(res, "pgUserRepository.UpdatePassword")
}

func (r *pgUserRepository) updateReturning(ctx context.Context, op, set string, args ...interface{}) (*model.User, error) {
	query := `UPDATE users SET ` + set + `, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $` + fmt.Sprint(len(args)) + ` RETURNING ` + userColumns
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (r *pgUserRepository) UpdateRole(ctx context.Context, id, role string) (*model.User, error) {
	if !isRowID(id) {
		return nil, common.ErrNotFound
	}
	return r.updateReturning(ctx, "pgUserRepository.UpdateRole", "role = $1", role, id)
}

func (r *pgUserRepository) UpdateVerificationStatus(ctx context.Context, id, status string) (*model.User, error) {
	if !isRowID(id) {
		return nil, common.ErrNotFound
	}
	return r.updateReturning(ctx, "pgUserRepository.UpdateVerificationStatus", "verification_status = $1", status, id)
}

func (r *pgUserRepository) PromoteToAdmin(ctx context.Context, id string, hashedPassword *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET role = 'admin', hashed_password = COALESCE($1, hashed_password),
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2`,
		hashedPassword, id)
	if err != nil {
		return fmt.Errorf("pgUserRepository.PromoteToAdmin: %w", err)
	}
	return requireRow(res, "pgUserRepository.PromoteToAdmin")
}

// SetResetToken overwrites any earlier reset token; only the latest link stays valid.
func (r *pgUserRepository) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET reset_token = $1, reset_token_expires_at = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3`,
		token, expiresAt, id)
	if err != nil {
		return fmt.Errorf("pgUserRepository.SetResetToken: %w", err)
	}
	return requireRow(res, "pgUserRepository.SetResetToken")
}

// ConsumeResetToken sets the new password and clears the token in one conditional
// statement, so a token can be redeemed at most once.
func (r *pgUserRepository) ConsumeResetToken(ctx context.Context, token string, now time.Time, hashedPassword string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`UPDATE users SET hashed_password = $1, reset_token = NULL, reset_token_expires_at = NULL,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE reset_token = $2 AND reset_token_expires_at > $3
		 RETURNING id`,
		hashedPassword, token, now).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("pgUserRepository.ConsumeResetToken: %w", err)
	}
	return id, nil
}

func (r *pgUserRepository) ConsumeEmailVerificationToken(ctx context.Context, token string, now time.Time) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`UPDATE users SET verification_status = 'verified', email_verification_token = NULL,
		     email_verification_expires_at = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE email_verification_token = $1
		   AND (email_verification_expires_at IS NULL OR email_verification_expires_at > $2)
		 RETURNING id`,
		token, now).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("pgUserRepository.ConsumeEmailVerificationToken: %w", err)
	}
	return id, nil
}

const listColumns = `u.id, u.email, u.role, u.account_id, u.verification_status, u.created_at,
	COALESCE(p.full_name, ''), COALESCE(p.phone, ''), COALESCE(p.business_name, '')`

func (r *pgUserRepository) scanList(rows *sql.Rows) ([]model.UserListItem, error) {
	defer rows.Close()
	items := []model.UserListItem{}
	for rows.Next() {
		var it model.UserListItem
		if err := rows.Scan(&it.ID, &it.Email, &it.Role, &it.AccountID, &it.VerificationStatus, &it.CreatedAt,
			&it.FullName, &it.Phone, &it.BusinessName); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// List pages through users newest first. An empty status means no filter.
func (r *pgUserRepository) List(ctx context.Context, status string, limit, offset int) ([]model.UserListItem, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE ($1 = '' OR verification_status = $1)`, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgUserRepository.List count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+listColumns+`
		 FROM users u LEFT JOIN user_profiles p ON p.user_id = u.id
		 WHERE ($1 = '' OR u.verification_status = $1)
		 ORDER BY u.created_at DESC
		 LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgUserRepository.List: %w", err)
	}
	items, err := r.scanList(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("pgUserRepository.List scan: %w", err)
	}
	return items, total, nil
}

func (r *pgUserRepository) ListAll(ctx context.Context) ([]model.UserListItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+listColumns+`
		 FROM users u LEFT JOIN user_profiles p ON p.user_id = u.id
		 ORDER BY u.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.ListAll: %w", err)
	}
	items, err := r.scanList(rows)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.ListAll scan: %w", err)
	}
	return items, nil
}

func (r *pgUserRepository) CountByVerificationStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT verification_status, COUNT(*) FROM users GROUP BY verification_status`)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.CountByVerificationStatus: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{
		model.VerificationUnverified: 0,
		model.VerificationVerified:   0,
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("pgUserRepository.CountByVerificationStatus scan: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// Delete removes the user; the profile goes with it via ON DELETE CASCADE.
func (r *pgUserRepository) Delete(ctx context.Context, id string) error {
	if !isRowID(id) {
		return common.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgUserRepository.Delete: %w", err)
	}
	return requireRow(res, "pgUserRepository.Delete")
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
