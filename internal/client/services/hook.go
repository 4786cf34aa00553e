package services

import (
	"context"
	"sync"
)

// Hook runs fetches in the background and delivers their results to one
// callback until Close is called. Results that arrive after Close are
// dropped, and Close cancels fetches still in flight.
//
// The callback runs with the hook's lock held; it must not call Close.
type Hook[T any] struct {
	mu       sync.Mutex
	alive    bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	onResult func(T, error)
}

// NewHook derives the hook's lifetime from parent.
func NewHook[T any](parent context.Context, onResult func(T, error)) *Hook[T] {
	ctx, cancel := context.WithCancel(parent)
	return &Hook[T]{alive: true, ctx: ctx, cancel: cancel, onResult: onResult}
}

// Run starts fetch. It is a no-op on a closed hook.
func (h *Hook[T]) Run(fetch func(ctx context.Context) (T, error)) {
	h.mu.Lock()
	if !h.alive {
		h.mu.Unlock()
		return
	}
	h.wg.Add(1)
	h.mu.Unlock()

	go func() {
		defer h.wg.Done()
		v, err := fetch(h.ctx)

		h.mu.Lock()
		defer h.mu.Unlock()
		if h.alive {
			h.onResult(v, err)
		}
	}()
}

// Alive reports whether results are still delivered.
func (h *Hook[T]) Alive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.alive
}

// Close stops delivery and cancels running fetches. Once Close returns the
// callback is not invoked again.
func (h *Hook[T]) Close() {
	h.mu.Lock()
	h.alive = false
	h.mu.Unlock()
	h.cancel()
}

// Wait blocks until every started fetch has finished.
func (h *Hook[T]) Wait() {
	h.wg.Wait()
}
