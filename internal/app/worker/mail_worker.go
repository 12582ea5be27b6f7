package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"pinnacle_metals/internal/platform/mail"
	"pinnacle_metals/internal/platform/queue"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultMaxAttempts  = 3
	DefaultRetryBackoff = 30 * time.Second
	popTimeout          = 5 * time.Second
)

type listClient interface {
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// MailWorker drains the outbound mail list and hands each message to a Sender.
// Producers LPUSH and the worker BRPOPs, so the list is FIFO. A failed send
// waits RetryBackoff times its attempt count and then goes back to the head,
// behind everything already queued, until MaxAttempts is reached.
type MailWorker struct {
	rdb          listClient
	queueName    string
	sender       mail.Sender
	logger       *slog.Logger
	MaxAttempts  int
	RetryBackoff time.Duration
	errBackoff   time.Duration
	wait         func(ctx context.Context, d time.Duration)
}

func NewMailWorker(rdb listClient, queueName string, sender mail.Sender, logger *slog.Logger) *MailWorker {
	return &MailWorker{
		rdb:          rdb,
		queueName:    queueName,
		sender:       sender,
		logger:       logger.With("worker", "mail", "queue", queueName),
		MaxAttempts:  DefaultMaxAttempts,
		RetryBackoff: DefaultRetryBackoff,
		errBackoff:   5 * time.Second,
		wait:         sleep,
	}
}

// Start blocks until ctx is cancelled.
func (w *MailWorker) Start(ctx context.Context) {
	w.logger.Info("mail worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("mail worker stopping")
			return
		default:
		}

		res, err := w.rdb.BRPop(ctx, popTimeout, w.queueName).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				// redis.Nil is an idle timeout; context errors end the loop on the next check
				continue
			}
			w.logger.Error("failed to BRPop from mail queue", "error", err)
			w.wait(ctx, w.errBackoff)
			continue
		}

		// res is [queueName, value]
		if len(res) < 2 || res[1] == "" {
			w.logger.Warn("BRPop returned an empty payload")
			continue
		}
		w.process(ctx, res[1])
	}
}

func (w *MailWorker) process(ctx context.Context, payload string) {
	var env queue.MailEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		w.logger.Error("dropping malformed mail payload", "error", err)
		return
	}

	env.Attempts++
	err := w.sender.Send(ctx, env.Message)
	if err == nil {
		w.logger.Info("email sent", "to", env.Message.To, "subject", env.Message.Subject)
		return
	}

	if env.Attempts >= w.MaxAttempts {
		w.logger.Error("giving up on email", "to", env.Message.To, "attempts", env.Attempts, "error", err)
		return
	}
	delay := w.RetryBackoff * time.Duration(env.Attempts)
	w.logger.Warn("email send failed, re-queueing",
		"to", env.Message.To, "attempts", env.Attempts, "retry_in", delay, "error", err)
	w.wait(ctx, delay)
	w.requeue(ctx, env)
}

func (w *MailWorker) requeue(ctx context.Context, env queue.MailEnvelope) {
	data, err := json.Marshal(env)
	if err != nil {
		w.logger.Error("failed to marshal mail envelope for re-queue", "error", err)
		return
	}
	// requeue even when ctx is done so a shutdown does not lose the message
	if err := w.rdb.LPush(context.WithoutCancel(ctx), w.queueName, data).Err(); err != nil {
		w.logger.Error("failed to re-queue email", "to", env.Message.To, "error", err)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
