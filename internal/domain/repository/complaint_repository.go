package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pinnacle_metals/internal/common"
	"pinnacle_metals/internal/domain/model"
)

type ComplaintRepository interface {
	Create(ctx context.Context, c *model.Complaint) error
	ListByUser(ctx context.Context, userID string) ([]model.Complaint, error)
	List(ctx context.Context, status string, limit, offset int) ([]model.ComplaintListItem, int, error)
	UpdateStatus(ctx context.Context, id, status string) (*model.Complaint, error)
}

type pgComplaintRepository struct {
	db *sql.DB
}

func NewPgComplaintRepository(db *sql.DB) ComplaintRepository {
	return &pgComplaintRepository{db: db}
}

const complaintColumns = `id, user_id, subject, message, status, created_at, updated_at`

func scanComplaint(row interface{ Scan(...interface{}) error }, extra ...interface{}) (*model.Complaint, error) {
	c := &model.Complaint{}
	dest := append([]interface{}{
		&c.ID, &c.UserID, &c.Subject, &c.Message, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *pgComplaintRepository) Create(ctx context.Context, c *model.Complaint) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO complaints (id, user_id, subject, message, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		c.ID, c.UserID, c.Subject, c.Message, c.Status,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgComplaintRepository.Create: %w", err)
	}
	return nil
}

func (r *pgComplaintRepository) ListByUser(ctx context.Context, userID string) ([]model.Complaint, error) {
	out := []model.Complaint{}
	if !isRowID(userID) {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("pgComplaintRepository.ListByUser: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("pgComplaintRepository.ListByUser scan: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// List pages through complaints newest first. An empty status means no filter.
func (r *pgComplaintRepository) List(ctx context.Context, status string, limit, offset int) ([]model.ComplaintListItem, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM complaints WHERE ($1 = '' OR status = $1)`, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgComplaintRepository.List count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.user_id, c.subject, c.message, c.status, c.created_at, c.updated_at,
		        u.email, u.account_id, COALESCE(p.full_name, '')
		 FROM complaints c
		 JOIN users u ON u.id = c.user_id
		 LEFT JOIN user_profiles p ON p.user_id = c.user_id
		 WHERE ($1 = '' OR c.status = $1)
		 ORDER BY c.created_at DESC
		 LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgComplaintRepository.List: %w", err)
	}
	defer rows.Close()

	items := []model.ComplaintListItem{}
	for rows.Next() {
		var owner model.Owner
		c, err := scanComplaint(rows, &owner.Email, &owner.AccountID, &owner.FullName)
		if err != nil {
			return nil, 0, fmt.Errorf("pgComplaintRepository.List scan: %w", err)
		}
		owner.ID = c.UserID
		items = append(items, model.ComplaintListItem{Complaint: *c, Owner: owner})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgComplaintRepository.List rows: %w", err)
	}
	return items, total, nil
}

func (r *pgComplaintRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Complaint, error) {
	if !isRowID(id) {
		return nil, common.ErrNotFound
	}
	c, err := scanComplaint(r.db.QueryRowContext(ctx,
		`UPDATE complaints SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2
		 RETURNING `+complaintColumns, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgComplaintRepository.UpdateStatus: %w", err)
	}
	return c, nil
}
