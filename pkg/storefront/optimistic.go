package storefront

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type pendingOp[T any] struct {
	id    string
	apply func(T) (T, error)
}

// optimistic is confirmed server state plus the ordered operations still in
// flight. The visible state is the confirmed state with every pending
// operation replayed on top.
//
// Operations reach the server one at a time in submission order, so each
// response holds exactly the operations confirmed before it and none of the
// ones still pending.
type optimistic[T any] struct {
	mu        sync.Mutex
	confirmed T
	pending   []pendingOp[T]
	// tail is closed when the most recently submitted operation has finished.
	tail chan struct{}
}

func (o *optimistic[T]) view() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.viewLocked()
}

func (o *optimistic[T]) viewLocked() T {
	state := o.confirmed
	for _, op := range o.pending {
		// an op that no longer applies (its line vanished server-side) is skipped
		if next, err := op.apply(state); err == nil {
			state = next
		}
	}
	return state
}

func (o *optimistic[T]) pendingCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

func (o *optimistic[T]) reset(state T) {
	o.mu.Lock()
	o.confirmed = state
	o.pending = nil
	o.mu.Unlock()
}

// submit applies op to the view at once and queues it for sending. The
// server's answer becomes the new confirmed state; a failure drops only this op.
func (o *optimistic[T]) submit(ctx context.Context, apply func(T) (T, error), send func(context.Context) (T, error)) error {
	o.mu.Lock()
	if _, err := apply(o.viewLocked()); err != nil {
		o.mu.Unlock()
		return err
	}
	id := uuid.New().String()
	o.pending = append(o.pending, pendingOp[T]{id: id, apply: apply})
	prev, done := o.tail, make(chan struct{})
	o.tail = done
	o.mu.Unlock()

	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			o.drop(id)
			// keep the queue ordered for whoever is behind us
			go func() {
				<-prev
				close(done)
			}()
			return ctx.Err()
		}
	}
	defer close(done)

	state, err := send(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.dropLocked(id)
	if err != nil {
		return err
	}
	o.confirmed = state
	return nil
}

func (o *optimistic[T]) drop(id string) {
	o.mu.Lock()
	o.dropLocked(id)
	o.mu.Unlock()
}

func (o *optimistic[T]) dropLocked(id string) {
	for i, op := range o.pending {
		if op.id == id {
			o.pending = append(o.pending[:i:i], o.pending[i+1:]...)
			return
		}
	}
}
