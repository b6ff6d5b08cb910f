package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// serve runs srv and the background workers until ctx is done. Workers are
// stopped only after srv.Shutdown returns, so requests finishing during the
// grace period can still hand work to them.
func serve(ctx context.Context, log *slog.Logger, srv httpServer, workers func(context.Context) error, grace time.Duration) error {
	wctx, stopWorkers := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorkers()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return workers(wctx)
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting_down")
		defer stopWorkers()

		sctx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}
