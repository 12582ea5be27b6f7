package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"pinnacle_metals/internal/domain/model"
	"pinnacle_metals/internal/platform/mail"

	"github.com/redis/go-redis/v9"
)

// MailEnvelope is the JSON document stored on the Redis list.
type MailEnvelope struct {
	Message  model.MailMessage `json:"message"`
	Attempts int               `json:"attempts"`
}

// ConnectRedis opens a client and pings it once.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

type lpusher interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// RedisMailQueue pushes messages for the mail worker to pick up with BRPOP.
type RedisMailQueue struct {
	rdb  lpusher
	name string
}

func NewRedisMailQueue(rdb lpusher, name string) *RedisMailQueue {
	return &RedisMailQueue{rdb: rdb, name: name}
}

func (q *RedisMailQueue) Enqueue(ctx context.Context, msg model.MailMessage) error {
	payload, err := json.Marshal(MailEnvelope{Message: msg})
	if err != nil {
		return fmt.Errorf("marshal mail envelope: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.name, payload).Err(); err != nil {
		return fmt.Errorf("enqueue mail on %s: %w", q.name, err)
	}
	return nil
}

// DirectMailQueue is used when no Redis is configured: each message is sent
// from its own goroutine so the request never waits on SMTP.
type DirectMailQueue struct {
	sender  mail.Sender
	logger  *slog.Logger
	timeout time.Duration
}

func NewDirectMailQueue(sender mail.Sender, logger *slog.Logger) *DirectMailQueue {
	return &DirectMailQueue{sender: sender, logger: logger, timeout: 30 * time.Second}
}

func (q *DirectMailQueue) Enqueue(_ context.Context, msg model.MailMessage) error {
	go func() {
		// detached from the request so a finished response does not cancel delivery
		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		defer cancel()
		if err := q.sender.Send(ctx, msg); err != nil {
			q.logger.Error("failed to send email", "to", msg.To, "subject", msg.Subject, "error", err)
		}
	}()
	return nil
}
