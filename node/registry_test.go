package node

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeProber struct {
	responsive atomic.Bool
}

func (f *fakeProber) Probe(ctx context.Context, address string) (time.Duration, error) {
	if !f.responsive.Load() {
		return 0, errors.New("fake: unreachable")
	}
	return 42 * time.Millisecond, nil
}

func TestRegistryPingFreshness(t *testing.T) {
	prober := &fakeProber{}
	prober.responsive.Store(true)

	r := NewRegistry(prober, time.Hour) // interval irrelevant; probeAll called directly
	r.Upsert(1, "node1:6112", "us")
	r.Upsert(2, "node2:6112", "eu")

	for i := 0; i < 3; i++ {
		r.probeAll(context.Background())
	}

	for _, e := range r.List() {
		if e.CurrentPing == nil {
			t.Fatalf("node %d: CurrentPing = nil, want Some(_)", e.NodeID)
		}
	}
}

func TestRegistryPingLossWithinThreeAttempts(t *testing.T) {
	prober := &fakeProber{}
	prober.responsive.Store(true)

	r := NewRegistry(prober, time.Hour)
	r.Upsert(1, "node1:6112", "us")
	r.probeAll(context.Background())

	prober.responsive.Store(false)
	for i := 0; i < 3; i++ {
		r.probeAll(context.Background())
	}

	entries := r.List()
	if entries[0].CurrentPing != nil {
		t.Fatalf("CurrentPing = %v, want nil after stub stopped responding", *entries[0].CurrentPing)
	}
}

func TestSelectNodePrefersLowerPing(t *testing.T) {
	prober := &fakeProber{}
	prober.responsive.Store(true)

	r := NewRegistry(prober, time.Hour)
	r.Upsert(1, "node1:6112", "us")
	r.Upsert(2, "node2:6112", "us")
	r.probeAll(context.Background())

	// Manually give node 2 a lower ping than node 1.
	r.mu.Lock()
	fast := 5 * time.Millisecond
	slow := 500 * time.Millisecond
	r.nodes[1].CurrentPing = &slow
	r.nodes[2].CurrentPing = &fast
	r.mu.Unlock()

	id, err := r.SelectNode("us")
	if err != nil {
		t.Fatalf("SelectNode: %v", err)
	}
	if id != 2 {
		t.Fatalf("SelectNode = %d, want 2 (lower ping)", id)
	}
}

func TestSelectNodeFallsBackWhenRegionEmpty(t *testing.T) {
	prober := &fakeProber{}
	prober.responsive.Store(true)

	r := NewRegistry(prober, time.Hour)
	r.Upsert(1, "node1:6112", "us")
	r.probeAll(context.Background())

	id, err := r.SelectNode("eu")
	if err != nil {
		t.Fatalf("SelectNode: %v", err)
	}
	if id != 1 {
		t.Fatalf("SelectNode = %d, want 1 (fallback to global lowest)", id)
	}
}

func TestSelectNodeNoNodesAvailable(t *testing.T) {
	r := NewRegistry(&fakeProber{}, time.Hour)
	if _, err := r.SelectNode(""); err != ErrNoNodesAvailable {
		t.Fatalf("got %v, want ErrNoNodesAvailable", err)
	}
}

func TestRegistryUpdatesNewestWins(t *testing.T) {
	prober := &fakeProber{}
	prober.responsive.Store(true)

	r := NewRegistry(prober, time.Hour)
	r.Upsert(1, "node1:6112", "us")

	// Publish several updates without anyone draining the channel;
	// only the most recent should be observable.
	r.probeAll(context.Background())
	r.probeAll(context.Background())
	r.probeAll(context.Background())

	select {
	case u := <-r.Updates():
		if u.NodeID != 1 {
			t.Fatalf("NodeID = %d, want 1", u.NodeID)
		}
	default:
		t.Fatal("expected a buffered update")
	}

	select {
	case <-r.Updates():
		t.Fatal("expected channel to be drained after newest-wins collapse")
	default:
	}
}
