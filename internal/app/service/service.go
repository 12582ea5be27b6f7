package service

import (
	"context"
	"database/sql"
	"time"

	"pinnacle_metals/internal/domain/model"
)

// TxRunner runs fn inside one database transaction, committing when fn returns nil.
type TxRunner func(ctx context.Context, fn func(tx *sql.Tx) error) error

// MailQueue accepts outbound mail for asynchronous delivery.
type MailQueue interface {
	Enqueue(ctx context.Context, msg model.MailMessage) error
}

// Clock is swapped out in tests.
type Clock func() time.Time
