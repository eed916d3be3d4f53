package tickwheel

import (
	"testing"
)

// BenchmarkSchedule benchmarks the schedule + cancel path (no
// allocations expected).
func BenchmarkSchedule(b *testing.B) {
	wt := New()
	var e TimerEvent
	InitTimerEvent(&e, func(*Wheel, *TimerEvent, interface{}) {}, nil)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		wt.Schedule(&e, uint64(1+i%65535))
		e.Cancel()
	}
}

// BenchmarkReschedule benchmarks rescheduling an active event
// (implicit cancel).
func BenchmarkReschedule(b *testing.B) {
	wt := New()
	var e TimerEvent
	InitTimerEvent(&e, func(*Wheel, *TimerEvent, interface{}) {}, nil)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		wt.Schedule(&e, uint64(1+i%65535))
	}
}

// BenchmarkAdvanceChurn benchmarks a self re-arming event driven tick
// by tick.
func BenchmarkAdvanceChurn(b *testing.B) {
	wt := New()
	var e TimerEvent
	InitTimerEvent(&e, func(w *Wheel, self *TimerEvent, _ interface{}) {
		w.Schedule(self, 1)
	}, nil)
	wt.Schedule(&e, 1)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		wt.Advance(1)
	}
}

// BenchmarkAdvanceIdle benchmarks the per-tick cost with many pending
// far away events.
func BenchmarkAdvanceIdle(b *testing.B) {
	wt := New()
	events := make([]TimerEvent, 10000)
	f := func(w *Wheel, self *TimerEvent, _ interface{}) {
		w.Schedule(self, MaxTicksDiff-1)
	}
	for i := range events {
		InitTimerEvent(&events[i], f, nil)
		wt.Schedule(&events[i], MaxTicksDiff-1)
	}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		wt.Advance(1)
	}
}

// BenchmarkTicksToNextEvent benchmarks the scan with a single far
// away event.
func BenchmarkTicksToNextEvent(b *testing.B) {
	wt := New()
	var e TimerEvent
	InitTimerEvent(&e, func(*Wheel, *TimerEvent, interface{}) {}, nil)
	wt.Schedule(&e, 256*256*256)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		wt.TicksToNextEvent(MaxTicksDiff - 1)
	}
}
