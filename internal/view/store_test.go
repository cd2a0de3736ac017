package view

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	N     int
	Items []string
}

func TestStore_UpdateNotifiesInOrder(t *testing.T) {
	s := NewStore(counter{})

	var got []string
	s.Subscribe(func(c counter) { got = append(got, "a") })
	s.Subscribe(func(c counter) { got = append(got, "b") })

	s.Update(func(c *counter) { c.N++ })

	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, s.Get().N)
}

func TestStore_ListenerSeesNewState(t *testing.T) {
	s := NewStore(counter{})

	var seen int
	s.Subscribe(func(c counter) { seen = c.N })

	s.Update(func(c *counter) { c.N = 7 })

	assert.Equal(t, 7, seen)
}

func TestStore_Unsubscribe(t *testing.T) {
	s := NewStore(counter{})

	calls := 0
	unsub := s.Subscribe(func(counter) { calls++ })

	s.Update(func(c *counter) { c.N++ })
	unsub()
	unsub()
	s.Update(func(c *counter) { c.N++ })

	assert.Equal(t, 1, calls)
}

func TestStore_GetIsSnapshot(t *testing.T) {
	s := NewStore(counter{Items: []string{"x"}})

	snap := s.Get()
	s.Update(func(c *counter) { c.Items = append([]string(nil), "y") })

	assert.Equal(t, []string{"x"}, snap.Items)
	assert.Equal(t, []string{"y"}, s.Get().Items)
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	s := NewStore(counter{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(func(c *counter) { c.N++ })
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Get().N)
}

func TestScheduler_WaitRunsEffects(t *testing.T) {
	sched := NewScheduler(context.Background())

	var mu sync.Mutex
	ran := 0
	for i := 0; i < 3; i++ {
		require.True(t, sched.Go(func(ctx context.Context) {
			mu.Lock()
			ran++
			mu.Unlock()
		}))
	}
	sched.Wait()

	assert.Equal(t, 3, ran)
}

func TestScheduler_CloseCancelsAndBlocksCommit(t *testing.T) {
	sched := NewScheduler(context.Background())

	started := make(chan struct{})
	committed := make(chan bool, 1)

	sched.Go(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		committed <- sched.Commit(func() {})
	})

	<-started
	sched.Close()

	assert.False(t, <-committed)
	assert.False(t, sched.Go(func(context.Context) {}))
	assert.False(t, sched.Commit(func() {}))
}

func TestScheduler_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	sched := NewScheduler(parent)

	cancel()

	assert.False(t, sched.Commit(func() {}))
	sched.Close()
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseIdle, "idle"},
		{PhaseLoading, "loading"},
		{PhaseError, "error"},
		{PhaseEmpty, "empty"},
		{PhaseReady, "ready"},
		{Phase(42), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.phase.String())
	}
}
