package session

import (
	"sync"
	"testing"
)

func TestGetDefaultsToNoSession(t *testing.T) {
	m := NewMemoryManager()
	s := m.Get(42)
	if s.Phase != PhaseNoSession {
		t.Fatalf("phase = %q, want %q", s.Phase, PhaseNoSession)
	}
	if len(s.PendingNumbers) != 0 {
		t.Fatalf("pending numbers = %v, want empty", s.PendingNumbers)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	m := NewMemoryManager()
	m.Set(1, Session{Phase: PhaseAwaitingName, PendingNumbers: []int{1, 2, 3}})

	s := m.Get(1)
	if s.Phase != PhaseAwaitingName || len(s.PendingNumbers) != 3 {
		t.Fatalf("unexpected session: %+v", s)
	}

	// Other users are untouched.
	if other := m.Get(2); other.Phase != PhaseNoSession {
		t.Fatalf("user 2 phase = %q", other.Phase)
	}
}

func TestClear(t *testing.T) {
	m := NewMemoryManager()
	m.Set(7, Session{Phase: PhaseCompleted})
	m.Clear(7)
	if s := m.Get(7); s.Phase != PhaseNoSession {
		t.Fatalf("phase after clear = %q", s.Phase)
	}
}

func TestTurnSerializesSameUser(t *testing.T) {
	m := NewMemoryManager()

	const rounds = 200
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				release := m.Turn(99)
				counter++
				release()
			}
		}()
	}
	wg.Wait()
	if counter != 4*rounds {
		t.Fatalf("counter = %d, want %d", counter, 4*rounds)
	}
}
