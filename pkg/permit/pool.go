package permit

import "context"

// Pool bounds the number of concurrent in-flight operations. Callers past
// the limit queue on the semaphore instead of failing.
type Pool struct {
	sem chan struct{}
}

func NewPool(size int) *Pool {
	if size <= 0 {
		size = 10
	}
	return &Pool{sem: make(chan struct{}, size)}
}

// Do runs fn while holding a permit, waiting for one if the pool is full.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.sem <- struct{}{}:
		defer func() { <-p.sem }()
		return fn()
	}
}

// InFlight reports the number of currently held permits.
func (p *Pool) InFlight() int {
	return len(p.sem)
}
