package core

import (
	"errors"
	"testing"
)

type fakeClock struct {
	now uint32
}

func (c *fakeClock) Now() uint32 { return c.now }

func newTestService(t *testing.T) (*TimerService, *fakeClock) {
	t.Helper()
	clk := &fakeClock{}
	s := NewTimerService()
	s.SetClock(clk.Now)
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return s, clk
}

func expectCode(t *testing.T, err error, code error) {
	t.Helper()
	var tse *TimerServiceError
	if !errors.As(err, &tse) {
		t.Fatalf("Expected TimerServiceError, got %v", err)
	}
	if !errors.Is(err, code) {
		t.Errorf("Expected %v, got %v", code, tse.Err)
	}
}

func TestTimerServiceCreate(t *testing.T) {
	s, _ := newTestService(t)
	noop := func(TimerID) {}

	a, err := s.Create(ModeRepeating, noop)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	b, err := s.Create(ModeSingleShot, noop)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if a == b {
		t.Error("Created timers share an id")
	}
	if s.Mode(a) != ModeRepeating || s.Mode(b) != ModeSingleShot {
		t.Error("Timer mode not kept")
	}
	if s.IsRunning(a) || s.IsRunning(b) {
		t.Error("New timers should be idle")
	}

	_, err = s.Create(ModeSingleShot, nil)
	expectCode(t, err, ErrInvalidParam)
}

func TestTimerServiceCreatePoolFull(t *testing.T) {
	s, _ := newTestService(t)
	for i := 0; i < MaxTimers; i++ {
		if _, err := s.Create(ModeSingleShot, func(TimerID) {}); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}
	_, err := s.Create(ModeSingleShot, func(TimerID) {})
	expectCode(t, err, ErrNoMem)
}

func TestTimerServiceStartValidation(t *testing.T) {
	s := NewTimerService()
	id, err := s.Create(ModeSingleShot, func(TimerID) {})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	expectCode(t, s.Start(id, 100), ErrInvalidState)

	_ = s.Init()
	expectCode(t, s.Start(id, MinTimeoutTicks-1), ErrInvalidParam)
	expectCode(t, s.Start(id, 0x80000000), ErrInvalidParam)
	expectCode(t, s.Start(TimerID(7), 100), ErrInvalidParam)

	if err := s.Start(id, MinTimeoutTicks); err != nil {
		t.Errorf("Start at minimum timeout failed: %v", err)
	}
}

func TestSingleShotFiresOnce(t *testing.T) {
	s, clk := newTestService(t)
	fired := 0
	id, _ := s.Create(ModeSingleShot, func(TimerID) { fired++ })

	if err := s.Start(id, 100); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	clk.now = 99
	if n := s.Dispatch(); n != 0 {
		t.Errorf("Dispatch before expiry fired %d timers", n)
	}
	clk.now = 100
	if n := s.Dispatch(); n != 1 {
		t.Errorf("Expected 1 expiry, got %d", n)
	}
	clk.now = 1000
	s.Dispatch()

	if fired != 1 {
		t.Errorf("Single-shot fired %d times", fired)
	}
	if s.IsRunning(id) {
		t.Error("Single-shot still running after expiry")
	}
}

func TestRepeatingPeriod(t *testing.T) {
	s, clk := newTestService(t)
	var at []uint32
	id, _ := s.Create(ModeRepeating, func(TimerID) { at = append(at, clk.now) })

	_ = s.Start(id, 10)
	for clk.now = 1; clk.now <= 35; clk.now++ {
		s.Dispatch()
	}
	want := []uint32{10, 20, 30}
	if len(at) != len(want) {
		t.Fatalf("Expected %d expiries, got %v", len(want), at)
	}
	for i := range want {
		if at[i] != want[i] {
			t.Errorf("Expiry %d at %d, want %d", i, at[i], want[i])
		}
	}
	if !s.IsRunning(id) {
		t.Error("Repeating timer stopped by itself")
	}
}

func TestRepeatingCatchesUp(t *testing.T) {
	s, clk := newTestService(t)
	fired := 0
	id, _ := s.Create(ModeRepeating, func(TimerID) { fired++ })
	_ = s.Start(id, 10)

	clk.now = 55
	s.Dispatch()
	if fired != 1 {
		t.Errorf("Missed periods should collapse into one expiry, got %d", fired)
	}
	clk.now = 64
	s.Dispatch()
	if fired != 1 {
		t.Error("Timer re-armed too early after catching up")
	}
	clk.now = 65
	s.Dispatch()
	if fired != 2 {
		t.Errorf("Expected second expiry one period after catch-up, got %d", fired)
	}
}

func TestStartRestartsRunningTimer(t *testing.T) {
	s, clk := newTestService(t)
	fired := 0
	id, _ := s.Create(ModeSingleShot, func(TimerID) { fired++ })

	_ = s.Start(id, 100)
	clk.now = 50
	_ = s.Start(id, 100) // now due at 150
	clk.now = 100
	s.Dispatch()
	if fired != 0 {
		t.Error("Restarted timer fired at its old deadline")
	}
	clk.now = 150
	s.Dispatch()
	if fired != 1 {
		t.Errorf("Restarted timer fired %d times at new deadline", fired)
	}
	if s.Pending() != 0 {
		t.Errorf("Expected empty timer list, got %d", s.Pending())
	}
}

func TestStopIdempotent(t *testing.T) {
	s, clk := newTestService(t)
	fired := 0
	id, _ := s.Create(ModeRepeating, func(TimerID) { fired++ })

	if err := s.Stop(id); err != nil {
		t.Errorf("Stop of idle timer failed: %v", err)
	}
	_ = s.Start(id, 10)
	if err := s.Stop(id); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
	if err := s.Stop(id); err != nil {
		t.Errorf("Second Stop failed: %v", err)
	}
	clk.now = 100
	s.Dispatch()
	if fired != 0 {
		t.Error("Stopped timer fired")
	}
	expectCode(t, s.Stop(TimerID(5)), ErrInvalidParam)
}

func TestHandlerStopsOwnRepeatingTimer(t *testing.T) {
	s, clk := newTestService(t)
	fired := 0
	var id TimerID
	id, _ = s.Create(ModeRepeating, func(TimerID) {
		fired++
		_ = s.Stop(id)
	})
	_ = s.Start(id, 10)

	for clk.now = 0; clk.now < 100; clk.now++ {
		s.Dispatch()
	}
	if fired != 1 {
		t.Errorf("Expected handler stop to end repetition, fired %d", fired)
	}
	if s.IsRunning(id) {
		t.Error("Timer still running")
	}
}

func TestHandlerRestartsOwnRepeatingTimer(t *testing.T) {
	s, clk := newTestService(t)
	var at []uint32
	var id TimerID
	id, _ = s.Create(ModeRepeating, func(TimerID) {
		at = append(at, clk.now)
		if len(at) == 1 {
			_ = s.Start(id, 30)
		}
	})
	_ = s.Start(id, 10)

	for clk.now = 0; clk.now <= 70; clk.now++ {
		s.Dispatch()
	}
	want := []uint32{10, 40, 70}
	if len(at) != len(want) {
		t.Fatalf("Expected expiries %v, got %v", want, at)
	}
	for i := range want {
		if at[i] != want[i] {
			t.Errorf("Expiry %d at %d, want %d", i, at[i], want[i])
		}
	}
}

func TestSharedHandlerReceivesID(t *testing.T) {
	s, clk := newTestService(t)
	var got []TimerID
	handler := func(id TimerID) { got = append(got, id) }
	a, _ := s.Create(ModeSingleShot, handler)
	b, _ := s.Create(ModeSingleShot, handler)

	_ = s.Start(b, 10)
	_ = s.Start(a, 20)
	clk.now = 20
	if n := s.Dispatch(); n != 2 {
		t.Fatalf("Expected 2 expiries, got %d", n)
	}
	if got[0] != b || got[1] != a {
		t.Errorf("Expected expiry order [%d %d], got %v", b, a, got)
	}
}

func TestStopAll(t *testing.T) {
	s, clk := newTestService(t)
	fired := 0
	for i := 0; i < 3; i++ {
		id, _ := s.Create(ModeRepeating, func(TimerID) { fired++ })
		_ = s.Start(id, 10)
	}
	if s.Pending() != 3 {
		t.Fatalf("Expected 3 pending timers, got %d", s.Pending())
	}
	s.StopAll()
	clk.now = 100
	s.Dispatch()
	if fired != 0 || s.Pending() != 0 {
		t.Errorf("StopAll left timers armed (fired=%d pending=%d)", fired, s.Pending())
	}
}

func TestTimerModeString(t *testing.T) {
	if ModeRepeating.String() != "repeating" || ModeSingleShot.String() != "single-shot" {
		t.Error("Unexpected mode names")
	}
	if TimerMode(9).String() != "unknown" {
		t.Error("Out-of-range mode should be unknown")
	}
}
