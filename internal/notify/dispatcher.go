package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kindones/storefront/pkg/logging"
)

const sendTimeout = 30 * time.Second

// Dispatcher runs confirmations on a fixed pool of workers so request
// handlers return as soon as the order is committed.
type Dispatcher struct {
	mailer  *Mailer
	log     *slog.Logger
	workers int
	jobs    chan Confirmation

	mu     sync.RWMutex
	closed bool

	// OnDone is called after every attempt. Tests use it to wait for delivery.
	OnDone func(Confirmation, Outcome)
}

func NewDispatcher(m *Mailer, log *slog.Logger, workers, queue int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		mailer:  m,
		log:     log,
		workers: workers,
		jobs:    make(chan Confirmation, queue),
	}
}

// Enqueue reports false when the queue is full or the dispatcher stopped.
func (d *Dispatcher) Enqueue(c Confirmation) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}
	select {
	case d.jobs <- c:
		return true
	default:
		return false
	}
}

// Run blocks until ctx is done, then drains what is already queued.
func (d *Dispatcher) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range d.jobs {
				d.deliver(c)
			}
		}()
	}

	<-ctx.Done()
	d.mu.Lock()
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	wg.Wait()
	return nil
}

func (d *Dispatcher) deliver(c Confirmation) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	ctx = logging.IntoContext(ctx, d.log)

	out := d.mailer.SendOrderConfirmation(ctx, c)
	if d.OnDone != nil {
		d.OnDone(c, out)
	}
}
