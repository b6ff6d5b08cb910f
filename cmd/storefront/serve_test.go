package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindones/storefront/internal/notify"
)

type countingSender struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (s *countingSender) Send(_ context.Context, m notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, m)
	return nil
}

// drainingServer stands in for http.Server: Shutdown runs onShutdown as if an
// in-flight request completed during the grace period.
type drainingServer struct {
	closed     chan struct{}
	onShutdown func()
}

func (s *drainingServer) ListenAndServe() error {
	<-s.closed
	return http.ErrServerClosed
}

func (s *drainingServer) Shutdown(context.Context) error {
	s.onShutdown()
	close(s.closed)
	return nil
}

func TestServe_WorkersOutliveInFlightRequests(t *testing.T) {
	sender := &countingSender{}
	mailer := &notify.Mailer{Sender: sender, From: "orders@kindones.test", BaseURL: "https://kindones.test", Backoff: time.Millisecond}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	dispatcher := notify.NewDispatcher(mailer, log, 1, 4)

	var queued bool
	srv := &drainingServer{
		closed: make(chan struct{}),
		onShutdown: func() {
			// a dispatcher tied to the signal would have closed by now
			time.Sleep(20 * time.Millisecond)
			queued = dispatcher.Enqueue(notify.Confirmation{
				RecipientEmail:  "late@example.com",
				RecipientName:   "Late",
				OrderID:         "3f2a9c1e-7b6d-4e0a-9a51-0c9d3b1f2e77",
				OneTimePassword: "DEADBEEF",
			})
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, serve(ctx, log, srv, dispatcher.Run, time.Second))

	assert.True(t, queued)
	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "late@example.com", sender.sent[0].To)
}

func TestServe_ListenFailureStopsWorkers(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	stopped := make(chan struct{})
	workers := func(ctx context.Context) error {
		<-ctx.Done()
		close(stopped)
		return nil
	}

	err := serve(context.Background(), log, failingServer{}, workers, time.Second)
	require.ErrorContains(t, err, "http server")
	select {
	case <-stopped:
	default:
		t.Fatal("workers still running")
	}
}

type failingServer struct{}

func (failingServer) ListenAndServe() error { return io.ErrUnexpectedEOF }

func (failingServer) Shutdown(context.Context) error { return nil }
