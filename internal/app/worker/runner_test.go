package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinnacle_metals/internal/domain/model"
)

// blockingSender holds a send open until release is closed.
type blockingSender struct {
	started chan struct{}
	release chan struct{}
	done    atomic.Bool
}

func (s *blockingSender) Send(context.Context, model.MailMessage) error {
	close(s.started)
	<-s.release
	s.done.Store(true)
	return nil
}

func TestRunner_StopWaitsForInFlightSend(t *testing.T) {
	list := &fakeList{items: []string{envelope(t, 0)}}
	sender := &blockingSender{started: make(chan struct{}), release: make(chan struct{})}
	w := NewMailWorker(list, "q", sender, slog.Default())

	r := NewRunner(context.Background())
	r.Go(w.Start)
	<-sender.started

	stopped := make(chan error, 1)
	go func() { stopped <- r.Stop(context.Background()) }()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a send was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(sender.release)
	select {
	case err := <-stopped:
		require.NoError(t, err)
		assert.True(t, sender.done.Load())
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the send finished")
	}
}

func TestRunner_StopHonoursDeadline(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	r := NewRunner(context.Background())
	r.Go(func(context.Context) { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := r.Stop(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
