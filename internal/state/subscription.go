package state

import (
	"sync"

	"fetchlist/internal/model"
)

// Subscription delivers published states over a channel. Each subscription
// has an unbounded queue drained by its own goroutine, so a slow reader never
// blocks the store or other subscribers.
type Subscription struct {
	store *Store
	ch    chan model.ViewState

	mu    sync.Mutex
	queue []model.ViewState
	wake  chan struct{}
	done  chan struct{}
	once  sync.Once
}

func newSubscription(s *Store) *Subscription {
	return &Subscription{
		store: s,
		ch:    make(chan model.ViewState),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// C returns the delivery channel.
func (sub *Subscription) C() <-chan model.ViewState {
	return sub.ch
}

// Close unregisters the subscription and closes its channel. Undelivered
// states are dropped.
func (sub *Subscription) Close() {
	sub.store.unsubscribe(sub)
	sub.stop()
}

func (sub *Subscription) stop() {
	sub.once.Do(func() { close(sub.done) })
}

func (sub *Subscription) push(st model.ViewState) {
	sub.mu.Lock()
	sub.queue = append(sub.queue, st)
	sub.mu.Unlock()

	select {
	case sub.wake <- struct{}{}:
	default:
	}
}

func (sub *Subscription) next() (model.ViewState, bool) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if len(sub.queue) == 0 {
		return model.ViewState{}, false
	}
	st := sub.queue[0]
	sub.queue[0] = model.ViewState{}
	sub.queue = sub.queue[1:]
	return st, true
}

func (sub *Subscription) pump() {
	defer close(sub.ch)
	for {
		select {
		case <-sub.wake:
		case <-sub.done:
			return
		}
		for {
			st, ok := sub.next()
			if !ok {
				break
			}
			select {
			case sub.ch <- st:
			case <-sub.done:
				return
			}
		}
	}
}
