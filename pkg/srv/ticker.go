package srv

import (
	"context"
	"time"
)

// tickerService implements Service interface. It runs fn on a fixed
// interval until the context is cancelled or Shutdown is called.
type tickerService struct {
	interval time.Duration
	fn       func(ctx context.Context)
	stop     chan struct{}
}

func (t *tickerService) Start(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.fn(ctx)
		case <-ctx.Done():
			return nil
		case <-t.stop:
			return nil
		}
	}
}

func (t *tickerService) Shutdown(ctx context.Context) error {
	close(t.stop)
	return nil
}

func NewTicker(interval time.Duration, fn func(ctx context.Context)) Service {
	return &tickerService{
		interval: interval,
		fn:       fn,
		stop:     make(chan struct{}),
	}
}
