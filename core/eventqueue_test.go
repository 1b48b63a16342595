package core

import (
	"errors"
	"testing"
)

func TestEventQueueOrder(t *testing.T) {
	q := NewEventQueue(4)
	for _, l := range []LineID{Line3, Line1, Line4} {
		if err := q.Put(l); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	if q.Len() != 3 {
		t.Errorf("Expected 3 queued events, got %d", q.Len())
	}

	var got []LineID
	n := q.Execute(func(l LineID) { got = append(got, l) })
	if n != 3 {
		t.Errorf("Expected 3 events executed, got %d", n)
	}
	want := []LineID{Line3, Line1, Line4}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Event %d: expected %d, got %d", i, want[i], got[i])
		}
	}
	if q.Len() != 0 {
		t.Error("Queue not empty after Execute")
	}
}

func TestEventQueueFull(t *testing.T) {
	q := NewEventQueue(2)
	_ = q.Put(Line1)
	_ = q.Put(Line2)

	err := q.Put(Line3)
	if !errors.Is(err, ErrNoMem) {
		t.Fatalf("Expected ErrNoMem on full queue, got %v", err)
	}
	if q.Dropped() != 1 {
		t.Errorf("Expected 1 dropped event, got %d", q.Dropped())
	}

	// Space frees up after draining
	q.Execute(func(LineID) {})
	if err := q.Put(Line4); err != nil {
		t.Errorf("Put after drain failed: %v", err)
	}
}

func TestEventQueueWrap(t *testing.T) {
	q := NewEventQueue(3)
	total := 0
	for round := 0; round < 5; round++ {
		_ = q.Put(Line1)
		_ = q.Put(Line2)
		total += q.Execute(func(LineID) {})
	}
	if total != 10 {
		t.Errorf("Expected 10 events through the ring, got %d", total)
	}
}

func TestEventQueuePutFromHandler(t *testing.T) {
	q := NewEventQueue(0)
	var got []LineID
	_ = q.Put(Line1)
	q.Execute(func(l LineID) {
		got = append(got, l)
		if l == Line1 {
			_ = q.Put(Line2)
		}
	})
	if len(got) != 2 || got[1] != Line2 {
		t.Errorf("Event queued during Execute not handled: %v", got)
	}
}
