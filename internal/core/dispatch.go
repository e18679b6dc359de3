package core

import (
	"context"
	"sync"
)

// mailbox is an unbounded FIFO feeding one guild worker. put never blocks,
// so a guild stuck in a handler cannot stall the reader.
type mailbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Event
	closed bool
}

func newMailbox() *mailbox {
	mb := &mailbox{}
	mb.cond = sync.NewCond(&mb.mu)
	return mb
}

func (mb *mailbox) put(ev Event) {
	mb.mu.Lock()
	mb.items = append(mb.items, ev)
	mb.mu.Unlock()
	mb.cond.Signal()
}

func (mb *mailbox) close() {
	mb.mu.Lock()
	mb.closed = true
	mb.mu.Unlock()
	mb.cond.Broadcast()
}

// take returns the next event, or false once the mailbox is closed and
// drained.
func (mb *mailbox) take() (Event, bool) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for len(mb.items) == 0 && !mb.closed {
		mb.cond.Wait()
	}
	if len(mb.items) == 0 {
		return nil, false
	}
	ev := mb.items[0]
	mb.items[0] = nil
	mb.items = mb.items[1:]
	return ev, true
}

// Run consumes events until the channel is closed or ctx is cancelled.
// Ready events are handled inline; every other event goes to the worker of
// its guild, so a slow voice operation in one guild never delays another.
// Run returns after all workers have finished their queued events.
func (r *Router) Run(ctx context.Context, events <-chan Event) error {
	var wg sync.WaitGroup
	workers := make(map[string]*mailbox)

	defer func() {
		for _, mb := range workers {
			mb.close()
		}
		wg.Wait()
	}()

	for {
		var ev Event
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok = <-events:
			if !ok {
				return nil
			}
		}

		if _, ready := ev.(ReadyEvent); ready {
			r.Handle(ctx, ev)
			continue
		}

		key := ev.guild()
		mb, exists := workers[key]
		if !exists {
			mb = newMailbox()
			workers[key] = mb
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					ev, ok := mb.take()
					if !ok {
						return
					}
					r.Handle(ctx, ev)
				}
			}()
		}
		mb.put(ev)
	}
}
