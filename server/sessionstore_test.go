package main

import (
	"testing"
)

func TestSessionStoreAddGetDelete(t *testing.T) {
	ss := NewSessionStore()

	s1, count := ss.NewSession(nil, "0acc-1")
	if count != 1 {
		t.Errorf("expected 1 live session, got %d", count)
	}
	if got := ss.Get("0acc-1"); got != s1 {
		t.Error("Get must return the stored session")
	}
	if got := ss.Get("no-such-sid"); got != nil {
		t.Errorf("expected nil for unknown sid, got %+v", got)
	}

	_, count = ss.NewSession(nil, "0acc-2")
	if count != 2 {
		t.Errorf("expected 2 live sessions, got %d", count)
	}

	ss.Delete(s1)
	if got := ss.Get("0acc-1"); got != nil {
		t.Error("deleted session must be gone")
	}

	live := 0
	ss.Range(func(sid string, s *Session) bool {
		live++
		return true
	})
	if live != 1 {
		t.Errorf("expected 1 session in Range, got %d", live)
	}
}

func TestSessionStoreShutdown(t *testing.T) {
	ss := NewSessionStore()
	s, _ := ss.NewSession(nil, "0acc-3")

	ss.Shutdown()

	select {
	case msg := <-s.stop:
		if msg == nil {
			t.Error("expected a serialized shutdown message")
		}
	default:
		t.Error("expected a shutdown message queued on the stop channel")
	}
}
