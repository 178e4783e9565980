// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package observable

import (
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/juju/collections/deque"
	"gopkg.in/tomb.v2"
)

// slowHandlerDuration is how long a handler callback may run before a
// warning is logged for it.
const slowHandlerDuration = 5 * time.Second

// Subscription represents the registration of a handler against the
// event stream of a Value. It is returned by Listen and stays live
// until Cancel is called or the owning Value is disposed.
//
// Events are dispatched to the handler one at a time, in the order the
// mutations produced them, on a goroutine owned by the subscription.
// The Kill and Wait methods satisfy the worker.Worker interface, so a
// subscription may be managed by a catacomb alongside other workers.
type Subscription struct {
	id      int
	owner   *Value
	clock   clock.Clock
	handler func(Change)

	tomb tomb.Tomb

	mu      sync.Mutex
	pending *deque.Deque
	data    chan struct{}
}

func newSubscription(owner *Value, id int, handler func(Change)) *Subscription {
	sub := &Subscription{
		id:      id,
		owner:   owner,
		clock:   owner.clock,
		handler: handler,
		pending: deque.New(),
		data:    make(chan struct{}, 1),
	}
	sub.tomb.Go(sub.loop)
	return sub
}

// Cancel retires the subscription: no events produced after the cancel
// are delivered to its handler. An event already being dispatched is
// allowed to finish. Cancelling an already cancelled subscription has
// no effect.
func (s *Subscription) Cancel() {
	s.owner.cancel(s)
	s.tomb.Kill(nil)
}

// Kill is part of the worker.Worker interface.
func (s *Subscription) Kill() {
	s.Cancel()
}

// Wait is part of the worker.Worker interface.
func (s *Subscription) Wait() error {
	return s.tomb.Wait()
}

// notify queues a single event for dispatch. It never blocks and never
// runs the handler; that happens on the subscription's own goroutine.
func (s *Subscription) notify(change Change) {
	s.mu.Lock()
	s.pending.PushBack(change)
	s.mu.Unlock()

	select {
	case s.data <- struct{}{}:
	default:
		// Loop already has a wakeup pending.
	}
}

func (s *Subscription) loop() error {
	for {
		select {
		case <-s.tomb.Dying():
			return tomb.ErrDying
		case <-s.data:
		}
		for {
			s.mu.Lock()
			val, ok := s.pending.PopFront()
			s.mu.Unlock()
			if !ok {
				break
			}
			select {
			case <-s.tomb.Dying():
				return tomb.ErrDying
			default:
			}
			s.dispatch(val.(Change))
		}
	}
}

// dispatch runs the handler for one event. A panic in the handler is
// contained here: it must not take down the dispatch loop, nor affect
// other subscriptions on the same Value.
func (s *Subscription) dispatch(change Change) {
	defer func() {
		if err := recover(); err != nil {
			logger.Errorf("subscription %d handler panicked: %v", s.id, err)
		}
	}()
	start := s.clock.Now()
	s.handler(change)
	if elapsed := s.clock.Now().Sub(start); elapsed >= slowHandlerDuration {
		logger.Warningf(
			"subscription %d handler took %v to process %T event",
			s.id, elapsed, change)
	}
}
