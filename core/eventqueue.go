package core

// DefaultEventQueueSize is the capacity used when none is configured
const DefaultEventQueueSize = 10

// EventQueue defers line events from interrupt context to the main loop,
// in the manner of the Nordic app_scheduler.
type EventQueue struct {
	buf     []LineID
	read    int
	write   int
	dropped uint32
}

// NewEventQueue creates a queue holding up to size events
func NewEventQueue(size int) *EventQueue {
	if size <= 0 {
		size = DefaultEventQueueSize
	}
	// One slot stays empty to tell full from empty
	return &EventQueue{buf: make([]LineID, size+1)}
}

// Put appends an event. It is safe to call from interrupt context.
func (q *EventQueue) Put(line LineID) error {
	state := disableInterrupts()
	next := (q.write + 1) % len(q.buf)
	if next == q.read {
		q.dropped++
		restoreInterrupts(state)
		RecordTiming(EvtDropped, uint8(line), GetTime(), 0, 0)
		return &TimerServiceError{Op: "queue", Err: ErrNoMem}
	}
	q.buf[q.write] = line
	q.write = next
	restoreInterrupts(state)
	return nil
}

// Execute pops queued events in order and runs fn for each, outside the
// critical section. It returns the number of events handled.
func (q *EventQueue) Execute(fn func(LineID)) int {
	n := 0
	for {
		state := disableInterrupts()
		if q.read == q.write {
			restoreInterrupts(state)
			return n
		}
		line := q.buf[q.read]
		q.read = (q.read + 1) % len(q.buf)
		restoreInterrupts(state)

		fn(line)
		n++
	}
}

// Len returns the number of queued events
func (q *EventQueue) Len() int {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	if q.write >= q.read {
		return q.write - q.read
	}
	return len(q.buf) - q.read + q.write
}

// Dropped returns the number of events rejected because the queue was full
func (q *EventQueue) Dropped() uint32 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return q.dropped
}
