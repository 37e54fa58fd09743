package state

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"fetchlist/internal/errors"
	"fetchlist/internal/fetch"
	"fetchlist/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

// fakeFetcher answers each call with fn, which receives the 1-based call
// number.
type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, call int) ([]model.ListItem, error)
}

func (f *fakeFetcher) FetchAll(ctx context.Context) ([]model.ListItem, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	return f.fn(ctx, call)
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func returning(items []model.ListItem, err error) *fakeFetcher {
	return &fakeFetcher{fn: func(context.Context, int) ([]model.ListItem, error) {
		return items, err
	}}
}

func receive(t *testing.T, sub *Subscription) model.ViewState {
	t.Helper()
	select {
	case st, ok := <-sub.C():
		require.True(t, ok, "subscription closed unexpectedly")
		return st
	case <-time.After(waitTimeout):
		t.Fatal("timeout waiting for state")
		return model.ViewState{}
	}
}

func assertNoMore(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case st, ok := <-sub.C():
		if ok {
			t.Fatalf("unexpected extra state: %+v", st)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func waitTerminal(t *testing.T, s *Store) model.ViewState {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	st, err := s.WaitTerminal(ctx)
	require.NoError(t, err)
	return st
}

func TestInitialStateIsLoading(t *testing.T) {
	f := returning(nil, nil)
	s := New(f)
	defer s.Close()

	assert.True(t, s.Current().IsLoading())
	assert.Equal(t, 0, f.Calls(), "no request before Start")

	sub := s.Subscribe()
	assert.True(t, receive(t, sub).IsLoading())
}

func TestSuccessfulCycle(t *testing.T) {
	f := returning([]model.ListItem{
		model.NewItem(2, 1, "Item 2"),
		model.NewItem(1, 2, "Item 1"),
		model.NewItem(3, 3, "Item 3"),
	}, nil)
	s := New(f)
	defer s.Close()

	sub := s.Subscribe()
	s.Start()

	assert.True(t, receive(t, sub).IsLoading())
	st := receive(t, sub)
	require.True(t, st.IsSuccess())
	assert.Equal(t, []model.ListItem{
		model.NewItem(1, 2, "Item 1"),
		model.NewItem(2, 1, "Item 2"),
		model.NewItem(3, 3, "Item 3"),
	}, st.Items)
	assert.True(t, s.Current().Equal(st))
}

func TestFilteringCycle(t *testing.T) {
	f := returning([]model.ListItem{
		model.NewItem(2, 1, "Item 2"),
		model.NewItem(1, 2, ""),
		model.NewUnnamedItem(3, 3),
	}, nil)
	s := New(f)
	defer s.Close()

	s.Start()
	st := waitTerminal(t, s)
	require.True(t, st.IsSuccess())
	assert.Equal(t, []model.ListItem{model.NewItem(2, 1, "Item 2")}, st.Items)
}

func TestEmptyResponseIsSuccess(t *testing.T) {
	s := New(returning([]model.ListItem{}, nil))
	defer s.Close()

	s.Start()
	st := waitTerminal(t, s)
	assert.True(t, st.IsSuccess())
	assert.NotNil(t, st.Items)
	assert.Empty(t, st.Items)
	assert.False(t, st.Equal(model.Failure()))
}

func TestFailureMapping(t *testing.T) {
	tests := map[string]*fakeFetcher{
		"network error": returning(nil, errors.NewNetworkError("request failed", "http://x", errors.TransportFailed, nil)),
		"plain error":   returning(nil, errors.New("boom")),
		"panic": {fn: func(context.Context, int) ([]model.ListItem, error) {
			panic("fetcher exploded")
		}},
	}
	for name, f := range tests {
		t.Run(name, func(t *testing.T) {
			s := New(f)
			defer s.Close()

			s.Start()
			st := waitTerminal(t, s)
			assert.True(t, st.IsError())
			assert.Nil(t, st.Detail, "failure detail is never surfaced")
		})
	}

	t.Run("panic in transform", func(t *testing.T) {
		s := New(returning([]model.ListItem{model.NewItem(1, 1, "Item 1")}, nil),
			WithTransform(func([]model.ListItem) []model.ListItem { panic("bad transform") }))
		defer s.Close()

		s.Start()
		assert.True(t, waitTerminal(t, s).IsError())
	})
}

func TestStartIsIdempotent(t *testing.T) {
	f := returning([]model.ListItem{}, nil)
	s := New(f)
	defer s.Close()

	s.Start()
	s.Start()
	waitTerminal(t, s)
	s.Start()
	s.Wait()

	assert.Equal(t, 1, f.Calls())
	assert.True(t, s.Current().IsSuccess())
}

func TestRefreshResetsToLoading(t *testing.T) {
	f := &fakeFetcher{fn: func(_ context.Context, call int) ([]model.ListItem, error) {
		if call == 1 {
			return nil, errors.New("first attempt fails")
		}
		return []model.ListItem{model.NewItem(1, 1, "Item 1")}, nil
	}}
	s := New(f)
	defer s.Close()

	sub := s.Subscribe()
	assert.True(t, receive(t, sub).IsLoading())

	s.Start()
	assert.True(t, receive(t, sub).IsError())

	s.Refresh()
	assert.True(t, receive(t, sub).IsLoading())
	st := receive(t, sub)
	require.True(t, st.IsSuccess())
	assert.Len(t, st.Items, 1)

	s.Refresh()
	assert.True(t, receive(t, sub).IsLoading())
	assert.True(t, receive(t, sub).IsSuccess())
	assert.Equal(t, 3, f.Calls())
}

func TestRefreshPublishesLoadingSynchronously(t *testing.T) {
	release := make(chan struct{})
	f := &fakeFetcher{fn: func(ctx context.Context, call int) ([]model.ListItem, error) {
		if call == 1 {
			return []model.ListItem{}, nil
		}
		<-release
		return []model.ListItem{}, nil
	}}
	s := New(f)
	defer s.Close()

	s.Start()
	require.True(t, waitTerminal(t, s).IsSuccess())

	s.Refresh()
	assert.True(t, s.Current().IsLoading())
	close(release)
	assert.True(t, waitTerminal(t, s).IsSuccess())
}

func TestSupersededCycleNeverOverwrites(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	firstDone := make(chan struct{})

	f := &fakeFetcher{fn: func(ctx context.Context, call int) ([]model.ListItem, error) {
		if call == 1 {
			// Ignores cancellation to model a request that completes late
			close(firstStarted)
			<-releaseFirst
			defer close(firstDone)
			return []model.ListItem{model.NewItem(9, 1, "Item 1")}, nil
		}
		return []model.ListItem{model.NewItem(1, 2, "Item 2")}, nil
	}}
	s := New(f)
	defer s.Close()

	sub := s.Subscribe()
	assert.True(t, receive(t, sub).IsLoading())

	s.Start()
	<-firstStarted
	s.Refresh()

	st := receive(t, sub)
	require.True(t, st.IsSuccess())
	assert.Equal(t, 1, st.Items[0].ListID)

	close(releaseFirst)
	<-firstDone
	s.Wait()

	assert.Equal(t, 1, s.Current().Items[0].ListID, "stale result must be discarded")
	assertNoMore(t, sub)
}

func TestRefreshCancelsInFlightCycle(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan error, 1)
	f := &fakeFetcher{fn: func(ctx context.Context, call int) ([]model.ListItem, error) {
		if call == 1 {
			close(started)
			<-ctx.Done()
			cancelled <- ctx.Err()
			return nil, ctx.Err()
		}
		return []model.ListItem{}, nil
	}}
	s := New(f)
	defer s.Close()

	s.Start()
	<-started
	s.Refresh()

	select {
	case err := <-cancelled:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(waitTimeout):
		t.Fatal("first cycle was not cancelled")
	}
	s.Wait()
	assert.True(t, s.Current().IsSuccess())
}

func TestSubscribersSeeSameOrder(t *testing.T) {
	f := &fakeFetcher{fn: func(_ context.Context, call int) ([]model.ListItem, error) {
		if call%2 == 0 {
			return nil, errors.New("even calls fail")
		}
		return []model.ListItem{model.NewItem(call, call, "Item 1")}, nil
	}}
	s := New(f)
	defer s.Close()

	a := s.Subscribe()
	b := s.Subscribe()

	s.Start()
	waitTerminal(t, s)
	for i := 0; i < 3; i++ {
		s.Refresh()
		waitTerminal(t, s)
	}

	var seqA, seqB []model.Phase
	for i := 0; i < 8; i++ {
		seqA = append(seqA, receive(t, a).Phase)
		seqB = append(seqB, receive(t, b).Phase)
	}
	want := []model.Phase{
		model.PhaseLoading,
		model.PhaseSuccess,
		model.PhaseLoading, model.PhaseError,
		model.PhaseLoading, model.PhaseSuccess,
		model.PhaseLoading, model.PhaseError,
	}
	assert.Equal(t, want, seqA)
	assert.Equal(t, seqA, seqB)
	assertNoMore(t, a)
}

func TestLateSubscriberGetsLatest(t *testing.T) {
	s := New(returning([]model.ListItem{model.NewItem(1, 1, "Item 1")}, nil))
	defer s.Close()

	s.Start()
	waitTerminal(t, s)

	sub := s.Subscribe()
	st := receive(t, sub)
	assert.True(t, st.IsSuccess())
	assertNoMore(t, sub)
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	f := returning([]model.ListItem{}, errors.New("fail"))
	s := New(f)
	defer s.Close()

	slow := s.Subscribe() // never read until the end
	for i := 0; i < 20; i++ {
		s.Refresh()
		waitTerminal(t, s)
	}
	assert.Equal(t, 20, f.Calls())

	// Everything is still delivered in order
	assert.True(t, receive(t, slow).IsLoading())
	for i := 0; i < 20; i++ {
		if i > 0 {
			assert.True(t, receive(t, slow).IsLoading())
		}
		assert.True(t, receive(t, slow).IsError())
	}
}

func TestClose(t *testing.T) {
	block := make(chan struct{})
	f := &fakeFetcher{fn: func(ctx context.Context, call int) ([]model.ListItem, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-block:
			return []model.ListItem{}, nil
		}
	}}
	s := New(f)
	sub := s.Subscribe()
	s.Start()

	s.Close()
	defer close(block)

	// Channel drains and closes
	for range sub.C() {
	}
	assert.True(t, s.Current().IsLoading(), "cancelled cycle publishes nothing")

	s.Refresh()
	assert.Equal(t, 1, f.Calls(), "refresh after close is ignored")

	late := s.Subscribe()
	_, ok := <-late.C()
	assert.False(t, ok)

	_, err := s.WaitTerminal(context.Background())
	assert.ErrorIs(t, err, ErrClosed)

	s.Close()
}

func TestSubscriptionClose(t *testing.T) {
	s := New(returning([]model.ListItem{}, nil))
	defer s.Close()

	sub := s.Subscribe()
	sub.Close()
	sub.Close()

	for range sub.C() {
	}
	s.Start()
	waitTerminal(t, s)
}

func TestStoreWithHTTPFetcher(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"listId":2,"id":1,"name":"Item 2"},{"listId":1,"id":2,"name":""},{"listId":3,"id":3,"name":null}]`))
		}))
		defer srv.Close()

		s := New(fetch.New(srv.URL))
		defer s.Close()
		s.Start()

		st := waitTerminal(t, s)
		require.True(t, st.IsSuccess())
		assert.Equal(t, []model.ListItem{model.NewItem(2, 1, "Item 2")}, st.Items)
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		s := New(fetch.New(srv.URL))
		defer s.Close()
		s.Start()

		st := waitTerminal(t, s)
		assert.True(t, st.IsError())
		assert.Nil(t, st.Detail)
	})

	t.Run("unreachable host", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		s := New(fetch.New(url))
		defer s.Close()
		s.Start()

		assert.True(t, waitTerminal(t, s).IsError())
	})
}
