package usecase

import (
	"context"
)

// RequestGate bounds the number of provider calls in flight at once. One
// gate is shared by every caller in the process, so run-listing and job
// fetches compete for the same slots.
type RequestGate struct {
	slots chan struct{}
}

func NewRequestGate(limit int) *RequestGate {
	if limit < 1 {
		limit = 1
	}
	return &RequestGate{
		slots: make(chan struct{}, limit),
	}
}

// Acquire blocks until a slot is free or the context is done.
func (g *RequestGate) Acquire(ctx context.Context) error {
	select {
	case g.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *RequestGate) Release() {
	<-g.slots
}
