package core

// Timer represents a scheduled wakeup in a TimerService
type Timer struct {
	WakeTime uint32
	ID       TimerID
	Next     *Timer

	queued bool
}

// timerList keeps timers sorted by WakeTime, like Klipper's sched_add_timer.
// Callers hold the critical section.
type timerList struct {
	head *Timer
}

// timeBefore reports whether a is earlier than b, tolerating tick wraparound
func timeBefore(a, b uint32) bool {
	return int32(a-b) < 0
}

// insert adds t in sorted order by WakeTime. Timers with equal WakeTime fire
// in insertion order.
func (l *timerList) insert(t *Timer) {
	t.queued = true
	if l.head == nil || timeBefore(t.WakeTime, l.head.WakeTime) {
		t.Next = l.head
		l.head = t
		return
	}

	current := l.head
	for current.Next != nil && !timeBefore(t.WakeTime, current.Next.WakeTime) {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// remove unlinks t. It reports whether t was queued.
func (l *timerList) remove(t *Timer) bool {
	if !t.queued {
		return false
	}
	t.queued = false

	if l.head == t {
		l.head = t.Next
		t.Next = nil
		return true
	}
	for current := l.head; current != nil; current = current.Next {
		if current.Next == t {
			current.Next = t.Next
			t.Next = nil
			return true
		}
	}
	return false
}

// popDue unlinks and returns the earliest timer if it is due at now
func (l *timerList) popDue(now uint32) *Timer {
	t := l.head
	if t == nil || timeBefore(now, t.WakeTime) {
		return nil
	}
	l.head = t.Next
	t.Next = nil // Clear Next pointer to avoid circular references
	t.queued = false
	return t
}

// len counts queued timers
func (l *timerList) len() int {
	n := 0
	for t := l.head; t != nil; t = t.Next {
		n++
	}
	return n
}
