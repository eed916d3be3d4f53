package tickwheel

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestNewTickerParams(t *testing.T) {
	wt := New()
	if _, err := NewTicker(nil, time.Millisecond); err == nil {
		t.Errorf("NewTicker accepted a nil wheel\n")
	}
	if _, err := NewTicker(wt, time.Nanosecond); err == nil {
		t.Errorf("NewTicker accepted a too small tick duration\n")
	}
	if _, err := NewTicker(wt, 25*time.Hour); err == nil {
		t.Errorf("NewTicker accepted a too high tick duration\n")
	}
	tk, err := NewTicker(wt, 2*time.Millisecond)
	if err != nil {
		t.Fatalf("NewTicker failed with %q\n", err)
	}
	if tk.TickDuration() != 2*time.Millisecond {
		t.Errorf("wrong tick duration: %s\n", tk.TickDuration())
	}
	if ticks, rest := tk.Ticks(5 * time.Millisecond); ticks.Val() != 2 ||
		rest != time.Millisecond {
		t.Errorf("wrong conversion: %d ticks rest %s\n", ticks.Val(), rest)
	}
	if d := tk.Duration(NewTicks(3)); d != 6*time.Millisecond {
		t.Errorf("wrong conversion: %s\n", d)
	}
}

func TestTickerRun(t *testing.T) {
	var runs uint64
	wt := New()
	tk, err := NewTicker(wt, 2*time.Millisecond)
	if err != nil {
		t.Fatalf("NewTicker failed with %q\n", err)
	}

	e := NewTimerEvent(func(w *Wheel, self *TimerEvent, _ interface{}) {
		// periodic pattern: re-arm from the callback (runs on the
		// ticker go routine, no extra locking needed)
		if atomic.AddUint64(&runs, 1) < 5 {
			w.Schedule(self, 10)
		}
	}, nil)

	tk.Start()
	tk.Lock()
	err = wt.Schedule(e, 10) // ~20ms
	tk.Unlock()
	if err != nil {
		t.Fatalf("Schedule failed with %q\n", err)
	}

	// 5 runs, 20ms apart; leave generous slack for slow CI machines
	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadUint64(&runs) < 5 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	tk.Shutdown()

	if r := atomic.LoadUint64(&runs); r != 5 {
		t.Errorf("event executed %d times, expected 5 (now %d ticks)\n",
			r, wt.Now().Val())
	}
	tk.Lock()
	if wt.Now().Val() < 50 {
		t.Errorf("clock barely advanced: %d ticks\n", wt.Now().Val())
	}
	tk.Unlock()
}
