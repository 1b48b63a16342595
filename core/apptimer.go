// Application timers
// A small pool of software timers multiplexed onto the system tick, modeled on
// the Nordic app_timer: create once, then start/stop from any context.
package core

// TimerMode is fixed per timer at creation time
type TimerMode uint8

const (
	ModeSingleShot TimerMode = iota
	ModeRepeating
)

func (m TimerMode) String() string {
	switch m {
	case ModeSingleShot:
		return "single-shot"
	case ModeRepeating:
		return "repeating"
	default:
		return "unknown"
	}
}

// TimerID identifies a timer created by a TimerService
type TimerID uint8

// ExpiryHandler is called when a timer expires. The id tells a shared
// handler which timer fired.
type ExpiryHandler func(id TimerID)

const (
	MaxTimers       = 8 // Timers per service
	MinTimeoutTicks = 5 // Shortest accepted timeout (APP_TIMER_MIN_TIMEOUT_TICKS)
)

type appTimer struct {
	Timer
	mode    TimerMode
	period  uint32
	handler ExpiryHandler
	running bool
	gen     uint32 // bumped on every Start/Stop
}

// TimerService owns a fixed pool of application timers
type TimerService struct {
	timers      [MaxTimers]appTimer
	count       int
	list        timerList
	initialized bool
	clock       func() uint32
}

// NewTimerService creates a timer service driven by the system tick
func NewTimerService() *TimerService {
	return &TimerService{clock: GetTime}
}

// SetClock replaces the tick source
func (s *TimerService) SetClock(clock func() uint32) {
	s.clock = clock
}

// Init prepares the service. Calling it again is harmless.
func (s *TimerService) Init() error {
	state := disableInterrupts()
	s.initialized = true
	restoreInterrupts(state)
	return nil
}

// Create allocates a timer with the given mode and handler
func (s *TimerService) Create(mode TimerMode, handler ExpiryHandler) (TimerID, error) {
	if handler == nil || mode > ModeRepeating {
		return 0, &TimerServiceError{Op: "create", Err: ErrInvalidParam}
	}

	state := disableInterrupts()
	defer restoreInterrupts(state)

	if s.count >= MaxTimers {
		return 0, &TimerServiceError{Op: "create", Err: ErrNoMem}
	}
	id := TimerID(s.count)
	s.timers[id] = appTimer{
		Timer:   Timer{ID: id},
		mode:    mode,
		handler: handler,
	}
	s.count++
	return id, nil
}

// Start arms the timer to expire ticks from now. A running timer is
// restarted from zero with the new timeout.
func (s *TimerService) Start(id TimerID, ticks uint32) error {
	state := disableInterrupts()
	if !s.initialized {
		restoreInterrupts(state)
		return &TimerServiceError{Op: "start", Timer: id, Err: ErrInvalidState}
	}
	if int(id) >= s.count || ticks < MinTimeoutTicks || ticks > 0x7FFFFFFF {
		restoreInterrupts(state)
		return &TimerServiceError{Op: "start", Timer: id, Err: ErrInvalidParam}
	}

	now := s.clock()
	t := &s.timers[id]
	s.list.remove(&t.Timer)
	t.period = ticks
	t.running = true
	t.gen++
	t.WakeTime = now + ticks
	s.list.insert(&t.Timer)
	restoreInterrupts(state)

	RecordTiming(EvtTimerStart, uint8(id), now, ticks, uint32(t.mode))
	return nil
}

// Stop disarms the timer. Stopping an idle timer is not an error.
func (s *TimerService) Stop(id TimerID) error {
	state := disableInterrupts()
	if int(id) >= s.count {
		restoreInterrupts(state)
		return &TimerServiceError{Op: "stop", Timer: id, Err: ErrInvalidParam}
	}
	t := &s.timers[id]
	wasRunning := t.running
	s.list.remove(&t.Timer)
	t.running = false
	t.gen++
	restoreInterrupts(state)

	if wasRunning {
		RecordTiming(EvtTimerStop, uint8(id), s.clock(), 0, 0)
	}
	return nil
}

// StopAll disarms every timer
func (s *TimerService) StopAll() {
	state := disableInterrupts()
	for i := 0; i < s.count; i++ {
		t := &s.timers[i]
		s.list.remove(&t.Timer)
		t.running = false
		t.gen++
	}
	restoreInterrupts(state)
}

// IsRunning reports whether the timer is armed
func (s *TimerService) IsRunning(id TimerID) bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return int(id) < s.count && s.timers[id].running
}

// Mode returns the mode the timer was created with
func (s *TimerService) Mode(id TimerID) TimerMode {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	if int(id) >= s.count {
		return ModeSingleShot
	}
	return s.timers[id].mode
}

// Pending returns the number of armed timers
func (s *TimerService) Pending() int {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return s.list.len()
}

// Dispatch runs the handlers of all timers due at the current tick and
// returns how many fired. Handlers run outside the critical section, one at
// a time, so a single Dispatch caller serializes delivery. A repeating timer
// is re-armed unless its handler stopped or restarted it.
func (s *TimerService) Dispatch() int {
	now := s.clock()
	fired := 0
	for {
		state := disableInterrupts()
		entry := s.list.popDue(now)
		if entry == nil {
			restoreInterrupts(state)
			return fired
		}
		t := &s.timers[entry.ID]
		gen := t.gen
		wake := t.WakeTime
		mode := t.mode
		if mode == ModeSingleShot {
			t.running = false
		}
		handler := t.handler
		restoreInterrupts(state)

		RecordTiming(EvtTimerFire, uint8(entry.ID), now, wake, uint32(mode))
		handler(entry.ID)
		fired++

		if mode != ModeRepeating {
			continue
		}
		state = disableInterrupts()
		if t.running && t.gen == gen {
			next := wake + t.period
			if !timeBefore(now, next) {
				// Fell behind by a whole period; skip the missed expiries
				next = now + t.period
			}
			t.WakeTime = next
			s.list.insert(&t.Timer)
		}
		restoreInterrupts(state)
	}
}
