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

const testComplaintID = "44444444-4444-4444-4444-444444444444"

var complaintRowColumns = []string{"id", "user_id", "subject", "message", "status", "created_at", "updated_at"}

func TestComplaintCreate_SetsTimestamps(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgComplaintRepository(db)
	now := time.Now()
	c := &model.Complaint{ID: testComplaintID, UserID: testUserID, Subject: "Late", Message: "Quote was late", Status: model.ComplaintPending}

	mock.ExpectQuery(`INSERT INTO complaints .* RETURNING created_at, updated_at`).
		WithArgs(c.ID, c.UserID, c.Subject, c.Message, c.Status).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, now, c.CreatedAt)
}

func TestComplaintList_UnfilteredJoinsOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgComplaintRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM complaints`).
		WithArgs("").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM complaints c\s+JOIN users u .* ORDER BY c.created_at DESC`).
		WithArgs("", 10, 0).
		WillReturnRows(sqlmock.NewRows(append(complaintRowColumns, "email", "account_id", "full_name")).
			AddRow(testComplaintID, testUserID, "Late", "Quote was late", "pending", now, now, "a@x.com", "PM-0123456789", ""))

	items, total, err := repo.List(context.Background(), "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Late", items[0].Subject)
	assert.Equal(t, "a@x.com", items[0].Owner.Email)
	assert.Equal(t, testUserID, items[0].Owner.ID)
}

func TestComplaintUpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgComplaintRepository(db)
	now := time.Now()

	mock.ExpectQuery(`UPDATE complaints SET status = \$1, updated_at = CURRENT_TIMESTAMP WHERE id = \$2`).
		WithArgs(model.ComplaintResolved, testComplaintID).
		WillReturnRows(sqlmock.NewRows(complaintRowColumns).
			AddRow(testComplaintID, testUserID, "Late", "Quote was late", "resolved", now, now))
	mock.ExpectQuery(`UPDATE complaints`).
		WithArgs(model.ComplaintResolved, missingUserID).
		WillReturnRows(sqlmock.NewRows(complaintRowColumns))

	c, err := repo.UpdateStatus(context.Background(), testComplaintID, model.ComplaintResolved)
	require.NoError(t, err)
	assert.Equal(t, model.ComplaintResolved, c.Status)

	_, err = repo.UpdateStatus(context.Background(), missingUserID, model.ComplaintResolved)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// never reaches the database
	_, err = repo.UpdateStatus(context.Background(), "abc", model.ComplaintResolved)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
