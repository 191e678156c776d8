package catalog

import (
	"context"
	"errors"
)

// ErrStopped is returned by Do once Run has returned.
var ErrStopped = errors.New("catalog controller stopped")

type op struct {
	fn   func(*Collection) error
	done chan error
}

// Controller owns a Collection and applies every read and write to it from
// a single goroutine, in submission order.
type Controller struct {
	coll    *Collection
	ops     chan op
	stopped chan struct{}
}

// NewController wraps c. Nothing else may touch c afterwards.
func NewController(c *Collection) *Controller {
	return &Controller{
		coll:    c,
		ops:     make(chan op),
		stopped: make(chan struct{}),
	}
}

// Run serves queued operations until ctx is done.
func (ctl *Controller) Run(ctx context.Context) error {
	defer close(ctl.stopped)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case o := <-ctl.ops:
			o.done <- o.fn(ctl.coll)
		}
	}
}

// Do runs fn on the controller goroutine and waits for its result.
// fn must not retain the collection or call Do.
func (ctl *Controller) Do(ctx context.Context, fn func(*Collection) error) error {
	o := op{fn: fn, done: make(chan error, 1)}

	select {
	case ctl.ops <- o:
	case <-ctl.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-o.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
