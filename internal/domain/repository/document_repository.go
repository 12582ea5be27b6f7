package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pinnacle_metals/internal/common"
	"pinnacle_metals/internal/domain/model"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	ListByUser(ctx context.Context, userID string) ([]model.Document, error)
	List(ctx context.Context, status string, limit, offset int) ([]model.DocumentListItem, int, error)
	UpdateStatus(ctx context.Context, id, status string) (*model.Document, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type pgDocumentRepository struct {
	db *sql.DB
}

func NewPgDocumentRepository(db *sql.DB) DocumentRepository {
	return &pgDocumentRepository{db: db}
}

const documentColumns = `id, user_id, type, original_name, storage_name, mime_type, size, status, uploaded_at`

func scanDocument(row interface{ Scan(...interface{}) error }, extra ...interface{}) (*model.Document, error) {
	doc := &model.Document{}
	dest := append([]interface{}{
		&doc.ID, &doc.UserID, &doc.Type, &doc.OriginalName, &doc.StorageName,
		&doc.MimeType, &doc.Size, &doc.Status, &doc.UploadedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *pgDocumentRepository) Create(ctx context.Context, doc *model.Document) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO documents (id, user_id, type, original_name, storage_name, mime_type, size, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING uploaded_at`,
		doc.ID, doc.UserID, doc.Type, doc.OriginalName, doc.StorageName, doc.MimeType, doc.Size, doc.Status,
	).Scan(&doc.UploadedAt)
	if err != nil {
		return fmt.Errorf("pgDocumentRepository.Create: %w", err)
	}
	return nil
}

func (r *pgDocumentRepository) ListByUser(ctx context.Context, userID string) ([]model.Document, error) {
	docs := []model.Document{}
	if !isRowID(userID) {
		return docs, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE user_id = $1 ORDER BY uploaded_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("pgDocumentRepository.ListByUser: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("pgDocumentRepository.ListByUser scan: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// List pages through documents newest first, each with its owner. An empty
// status means no filter.
func (r *pgDocumentRepository) List(ctx context.Context, status string, limit, offset int) ([]model.DocumentListItem, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE ($1 = '' OR status = $1)`, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgDocumentRepository.List count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT d.id, d.user_id, d.type, d.original_name, d.storage_name, d.mime_type, d.size, d.status, d.uploaded_at,
		        u.email, u.account_id, COALESCE(p.full_name, '')
		 FROM documents d
		 JOIN users u ON u.id = d.user_id
		 LEFT JOIN user_profiles p ON p.user_id = d.user_id
		 WHERE ($1 = '' OR d.status = $1)
		 ORDER BY d.uploaded_at DESC
		 LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgDocumentRepository.List: %w", err)
	}
	defer rows.Close()

	items := []model.DocumentListItem{}
	for rows.Next() {
		var owner model.Owner
		doc, err := scanDocument(rows, &owner.Email, &owner.AccountID, &owner.FullName)
		if err != nil {
			return nil, 0, fmt.Errorf("pgDocumentRepository.List scan: %w", err)
		}
		owner.ID = doc.UserID
		items = append(items, model.DocumentListItem{Document: *doc, Owner: owner})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgDocumentRepository.List rows: %w", err)
	}
	return items, total, nil
}

func (r *pgDocumentRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Document, error) {
	if !isRowID(id) {
		return nil, common.ErrNotFound
	}
	doc, err := scanDocument(r.db.QueryRowContext(ctx,
		`UPDATE documents SET status = $1 WHERE id = $2 RETURNING `+documentColumns, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgDocumentRepository.UpdateStatus: %w", err)
	}
	return doc, nil
}

func (r *pgDocumentRepository) Delete(ctx context.Context, id string) error {
	if !isRowID(id) {
		return common.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgDocumentRepository.Delete: %w", err)
	}
	return requireRow(res, "pgDocumentRepository.Delete")
}

func (r *pgDocumentRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM documents GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("pgDocumentRepository.CountByStatus: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{
		model.DocumentPending:  0,
		model.DocumentApproved: 0,
		model.DocumentRejected: 0,
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("pgDocumentRepository.CountByStatus scan: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
