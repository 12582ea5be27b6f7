package service

import (
	"context"
	"database/sql"
	"sync"

	"pinnacle_metals/internal/domain/model"
	"pinnacle_metals/internal/platform/pricefeed"
)

type fakeFeed struct {
	quote pricefeed.Quote
	err   error
	calls int
}

func (f *fakeFeed) FetchLiveCopperPrice(context.Context) (pricefeed.Quote, error) {
	f.calls++
	return f.quote, f.err
}

type fakeMailQueue struct {
	mu   sync.Mutex
	msgs []model.MailMessage
	err  error
}

func (q *fakeMailQueue) Enqueue(_ context.Context, msg model.MailMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.msgs = append(q.msgs, msg)
	return nil
}

// noTx runs fn without a transaction; the fakes ignore the tx argument.
func noTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}
