package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinnacle_metals/internal/common"
	"pinnacle_metals/internal/domain/model"
)

const testDocumentID = "33333333-3333-3333-3333-333333333333"

var documentRowColumns = []string{
	"id", "user_id", "type", "original_name", "storage_name", "mime_type", "size", "status", "uploaded_at",
}

func TestDocumentCreate_SetsUploadedAt(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgDocumentRepository(db)
	now := time.Now()
	doc := &model.Document{
		ID: testDocumentID, UserID: testUserID, Type: model.DocumentTypeID,
		OriginalName: "passport.pdf", StorageName: "abc.pdf", MimeType: "application/pdf",
		Size: 1024, Status: model.DocumentPending,
	}

	mock.ExpectQuery(`INSERT INTO documents .* RETURNING uploaded_at`).
		WithArgs(doc.ID, doc.UserID, doc.Type, doc.OriginalName, doc.StorageName, doc.MimeType, doc.Size, doc.Status).
		WillReturnRows(sqlmock.NewRows([]string{"uploaded_at"}).AddRow(now))

	require.NoError(t, repo.Create(context.Background(), doc))
	assert.Equal(t, now, doc.UploadedAt)
}

func TestDocumentList_JoinsOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgDocumentRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents`).
		WithArgs(model.DocumentPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`FROM documents d\s+JOIN users u .* ORDER BY d.uploaded_at DESC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs(model.DocumentPending, 2, 2).
		WillReturnRows(sqlmock.NewRows(append(documentRowColumns, "email", "account_id", "full_name")).
			AddRow(testDocumentID, testUserID, "id", "passport.pdf", "abc.pdf", "application/pdf", int64(1024),
				"pending", now, "a@x.com", "PM-0123456789", "Ada"))

	items, total, err := repo.List(context.Background(), model.DocumentPending, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 1)
	assert.Equal(t, "passport.pdf", items[0].OriginalName)
	assert.Equal(t, model.Owner{ID: testUserID, Email: "a@x.com", AccountID: "PM-0123456789", FullName: "Ada"}, items[0].Owner)
}

func TestDocumentUpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgDocumentRepository(db)

	mock.ExpectQuery(`UPDATE documents SET status = \$1 WHERE id = \$2 RETURNING`).
		WithArgs(model.DocumentApproved, testDocumentID).
		WillReturnRows(sqlmock.NewRows(documentRowColumns).
			AddRow(testDocumentID, testUserID, "id", "passport.pdf", "abc.pdf", "application/pdf", int64(1024),
				"approved", time.Now()))
	mock.ExpectQuery(`UPDATE documents SET status`).
		WithArgs(model.DocumentRejected, missingUserID).
		WillReturnRows(sqlmock.NewRows(documentRowColumns))

	doc, err := repo.UpdateStatus(context.Background(), testDocumentID, model.DocumentApproved)
	require.NoError(t, err)
	assert.Equal(t, model.DocumentApproved, doc.Status)

	_, err = repo.UpdateStatus(context.Background(), missingUserID, model.DocumentRejected)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDocumentDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgDocumentRepository(db)

	mock.ExpectExec(`DELETE FROM documents WHERE id = \$1`).
		WithArgs(testDocumentID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM documents`).
		WithArgs(missingUserID).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), testDocumentID))
	assert.ErrorIs(t, repo.Delete(context.Background(), missingUserID), common.ErrNotFound)
}

func TestDocumentCountByStatus_FillsMissingStatuses(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgDocumentRepository(db)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM documents GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow("pending", 4).AddRow("approved", 1))

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"pending": 4, "approved": 1, "rejected": 0}, counts)
}

func TestDocumentLookupsRejectMalformedIDs(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewPgDocumentRepository(db)
	ctx := context.Background()

	for _, id := range []string{"not-a-uuid", "", "42"} {
		_, err := repo.UpdateStatus(ctx, id, model.DocumentApproved)
		assert.ErrorIs(t, err, common.ErrNotFound, id)
		assert.ErrorIs(t, repo.Delete(ctx, id), common.ErrNotFound, id)
		docs, err := repo.ListByUser(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, docs)
	}
}
