package main

import (
	"fmt"
	"sync"
	"testing"

	"github.com/hiddenjvc/server/server/store/types"
)

func TestPresenceJoinLeave(t *testing.T) {
	pt := NewPresenceTracker()

	count, _, _, _ := pt.Join("10.0.0.1", 51, "", nil)
	if count != 1 {
		t.Errorf("expected forum count 1, got %d", count)
	}
	count, _, _, _ = pt.Join("10.0.0.2", 51, "", nil)
	if count != 2 {
		t.Errorf("expected forum count 2, got %d", count)
	}

	pt.Leave("10.0.0.1", []int64{51}, nil)
	if got := pt.ForumCount(51); got != 1 {
		t.Errorf("after leave: expected forum count 1, got %d", got)
	}
}

func TestPresenceSameKeyCollapses(t *testing.T) {
	pt := NewPresenceTracker()

	// Two tabs of the same client count as one viewer.
	pt.Join("10.0.0.3", 52, "", nil)
	count, _, _, _ := pt.Join("10.0.0.3", 52, "", nil)
	if count != 1 {
		t.Errorf("same key must collapse to 1, got %d", count)
	}
}

func TestPresenceTopicKeysIndependent(t *testing.T) {
	pt := NewPresenceTracker()
	tid := types.Uid(1200)

	visible := presenceTopicKey(53, false, tid)
	hidden := presenceTopicKey(53, true, tid)
	if visible == hidden {
		t.Fatal("hidden and visible sections must have distinct keys")
	}

	pt.Join("10.0.0.4", 53, visible, nil)
	pt.Join("10.0.0.5", 53, hidden, nil)

	if got := pt.TopicCount(visible); got != 1 {
		t.Errorf("visible topic: expected 1, got %d", got)
	}
	if got := pt.TopicCount(hidden); got != 1 {
		t.Errorf("hidden topic: expected 1, got %d", got)
	}
}

func TestPresenceMapReclamation(t *testing.T) {
	pt := NewPresenceTracker()
	tid := types.Uid(1201)
	key := presenceTopicKey(54, false, tid)

	pt.Join("10.0.0.6", 54, key, nil)
	pt.Leave("10.0.0.6", []int64{54}, []string{key})

	// Empty rooms are removed, not kept around at zero.
	if pt.ForumTracked(54) {
		t.Error("empty forum room must be dropped")
	}
	if pt.TopicTracked(key) {
		t.Error("empty topic room must be dropped")
	}
}

func TestPresenceConcurrentJoins(t *testing.T) {
	pt := NewPresenceTracker()

	const n = 64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			pt.Join(fmt.Sprintf("10.1.0.%d", i), 55, "", nil)
		}(i)
	}
	wg.Wait()

	if got := pt.ForumCount(55); got != n {
		t.Errorf("expected %d viewers after concurrent joins, got %d", n, got)
	}

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			pt.Leave(fmt.Sprintf("10.1.0.%d", i), []int64{55}, nil)
		}(i)
	}
	wg.Wait()

	if pt.ForumTracked(55) {
		t.Error("forum room must be dropped after everyone left")
	}
}

func TestPresenceListsAuthenticatedViewers(t *testing.T) {
	pt := NewPresenceTracker()

	pt.Join("10.0.0.7", 56, "", map[string]any{"fn": "alice"})
	count, _, users, _ := pt.Join("10.0.0.8", 56, "", nil)

	if count != 2 {
		t.Errorf("expected 2 viewers, got %d", count)
	}
	// Only the authenticated viewer is listable; the anonymous one is
	// counted but contributes no profile.
	if len(users) != 1 {
		t.Fatalf("expected 1 listed viewer, got %d", len(users))
	}
}
