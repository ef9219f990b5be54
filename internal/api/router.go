package api

import (
	"context"
	"net/http"
	"sync"
)

// Completion receives the outcome of one Send call. Invoked exactly once per
// top-level call, regardless of how many retries happened internally.
type Completion func(data []byte, resp *http.Response, err error)

// Router is the callback-based execution path over a Client. Send never
// blocks the caller; completions for one Router are delivered serially, in
// the order their underlying attempts finished. No cross-request ordering is
// enforced.
type Router struct {
	client *Client

	mu     sync.Mutex // guards cancel
	cancel context.CancelFunc

	deliverMu sync.Mutex // serializes completion delivery
}

// NewRouter creates a Router over the given client.
func NewRouter(client *Client) *Router {
	return &Router{client: client}
}

// Send builds and executes the endpoint's request on a background goroutine.
// Build failures complete asynchronously with (nil, nil, err) and make no
// network attempt. Retry semantics are those of Client.Do.
func (r *Router) Send(ep Endpoint, completion Completion) {
	ctx, cancel := context.WithCancel(context.Background())

	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()

	go func() {
		defer cancel()
		data, resp, err := r.client.Do(ctx, ep)

		r.deliverMu.Lock()
		defer r.deliverMu.Unlock()
		completion(data, resp, err)
	}()
}

// Cancel aborts the most recently issued Send of this Router, including any
// pending retry delay. Safe to call with nothing in flight.
func (r *Router) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}
