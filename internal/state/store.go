// Package state owns the view model of the list screen. A Store runs fetch
// cycles and publishes exactly one terminal ViewState per cycle, preceded by
// Loading, to any number of subscribers.
package state

import (
	"context"
	"fmt"
	"sync"

	"fetchlist/internal/errors"
	"fetchlist/internal/log"
	"fetchlist/internal/model"
	"fetchlist/internal/transform"
)

// ErrClosed is returned by WaitTerminal when the store is closed first.
var ErrClosed = errors.New("store closed")

// Fetcher retrieves the raw list. *fetch.Client satisfies it.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]model.ListItem, error)
}

// TransformFunc orders the raw items for display.
type TransformFunc func([]model.ListItem) []model.ListItem

type Option func(*Store)

// WithTransform replaces transform.Transform.
func WithTransform(fn TransformFunc) Option {
	return func(s *Store) { s.transform = fn }
}

// Store is the single writer of the current ViewState.
//
// Each cycle gets its own context and generation number. Refresh cancels the
// previous cycle and bumps the generation; a cycle whose generation is no
// longer current drops its result, so a slow superseded request can never
// overwrite a newer state.
type Store struct {
	fetcher   Fetcher
	transform TransformFunc

	mu      sync.Mutex
	current model.ViewState
	gen     uint64
	cancel  context.CancelFunc
	started bool
	closed  bool
	subs    map[*Subscription]struct{}

	running sync.WaitGroup
}

// New returns a store in the Loading state. No request is made until Start.
func New(fetcher Fetcher, opts ...Option) *Store {
	s := &Store{
		fetcher:   fetcher,
		transform: transform.Transform,
		current:   model.Loading(),
		subs:      make(map[*Subscription]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start triggers the first cycle. Later calls do nothing.
func (s *Store) Start() {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.Refresh()
}

// Refresh begins a new cycle. Loading is published before it returns.
func (s *Store) Refresh() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.publishLocked(model.Loading())
	s.running.Add(1)
	s.mu.Unlock()

	log.LogWithFields(log.F("cycle", gen)).Debug("fetch cycle started")
	go s.run(ctx, gen)
}

func (s *Store) run(ctx context.Context, gen uint64) {
	defer s.running.Done()

	next := s.cycle(ctx, gen)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.closed {
		log.LogWithFields(log.F("cycle", gen), log.F("current", s.gen)).Debug("discarding superseded cycle result")
		return
	}
	s.cancel()
	s.cancel = nil
	s.publishLocked(next)
	log.LogWithFields(log.F("cycle", gen), log.F("phase", next.Phase.String()), log.F("items", len(next.Items))).
		Debug("fetch cycle finished")
}

// cycle fetches and transforms. Every failure, panics included, becomes an
// Error state without detail; the cause only goes to the log.
func (s *Store) cycle(ctx context.Context, gen uint64) (state model.ViewState) {
	defer func() {
		if r := recover(); r != nil {
			log.LogWithError(fmt.Errorf("panic: %v", r)).With(log.F("cycle", gen)).Error("fetch cycle panicked")
			state = model.Failure()
		}
	}()

	items, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			log.LogWithFields(log.F("cycle", gen)).Debug("fetch cycle cancelled")
		} else {
			log.LogWithError(err).With(log.F("cycle", gen)).Error("failed to load list")
		}
		return model.Failure()
	}
	return model.Success(s.transform(items))
}

// publishLocked conflates consecutive equal states. Callers hold s.mu, which
// also fixes the delivery order across subscribers.
func (s *Store) publishLocked(next model.ViewState) {
	if s.current.Equal(next) {
		return
	}
	s.current = next
	for sub := range s.subs {
		sub.push(next)
	}
}

// Current returns the latest published state. Items must not be modified.
func (s *Store) Current() model.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers an observer. The returned channel yields the current
// state immediately and then every later publication in order. It is closed
// by Subscription.Close or Store.Close.
func (s *Store) Subscribe() *Subscription {
	sub := newSubscription(s)
	go sub.pump()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		sub.stop()
		return sub
	}
	s.subs[sub] = struct{}{}
	sub.push(s.current)
	return sub
}

func (s *Store) unsubscribe(sub *Subscription) {
	s.mu.Lock()
	delete(s.subs, sub)
	s.mu.Unlock()
}

// Wait blocks until no cycle is running.
func (s *Store) Wait() {
	s.running.Wait()
}

// WaitTerminal blocks until the store holds Success or Error and returns it.
func (s *Store) WaitTerminal(ctx context.Context) (model.ViewState, error) {
	sub := s.Subscribe()
	defer sub.Close()

	for {
		select {
		case st, ok := <-sub.C():
			if !ok {
				return s.Current(), ErrClosed
			}
			if st.IsTerminal() {
				return st, nil
			}
		case <-ctx.Done():
			return s.Current(), ctx.Err()
		}
	}
}

// Close cancels the running cycle, closes every subscription and waits for
// in-flight cycles to return. The current state is left as it was.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	subs := s.subs
	s.subs = make(map[*Subscription]struct{})
	s.mu.Unlock()

	for sub := range subs {
		sub.stop()
	}
	s.running.Wait()
}
