// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tickwheel

import (
	"errors"
	"sync"
	"time"

	"github.com/intuitivelabs/timestamp"
)

// Ticker drives a Wheel from the wall clock: it converts elapsed time
// into whole ticks and advances the wheel from its own goroutine.
// The wheel stays tick-only; the Ticker is the host provided tick
// source, packaged for the common case.
//
// The wheel contract still applies: while the Ticker runs, all other
// wheel operations (Schedule*, Cancel, TicksToNextEvent) must be
// serialized against it, either by running them from timer callbacks
// or under Lock()/Unlock().
//
// Note that tick durations that are too low cause high cpu usage when
// idle (too many wakeups); durations in the millisecond range are a
// reasonable start.
type Ticker struct {
	mux sync.Mutex // serializes wheel access, see Lock()
	wt  *Wheel

	tickDuration time.Duration
	lastTickT    timestamp.TS // last time we updated the ticks
	badTime      uint32       // count time going backwards

	wg     sync.WaitGroup
	cancel chan struct{} // used to stop the ticker go routine
}

// NewTicker returns a ticker that will advance wt by one tick every td.
// It does not start it, see Start().
func NewTicker(wt *Wheel, td time.Duration) (*Ticker, error) {
	if wt == nil {
		return nil, ErrInvalidParameters
	}
	if td < time.Microsecond {
		return nil, errors.New("tickwheel.NewTicker: tick duration too small")
	} else if td > (time.Hour * 24) {
		// probably an error
		return nil, errors.New("tickwheel.NewTicker: tick duration too high")
	}
	return &Ticker{wt: wt, tickDuration: td}, nil
}

// TickDuration returns the configured tick length.
func (tk *Ticker) TickDuration() time.Duration {
	return tk.tickDuration
}

// Ticks returns the duration d converted to ticks (round-down) and
// the rest (if the passed duration is not an integer number of ticks).
func (tk *Ticker) Ticks(d time.Duration) (Ticks, time.Duration) {
	t := d / tk.tickDuration
	return NewTicks(uint64(t)), d % tk.tickDuration
}

// Duration converts a tick number to a time.Duration
// (according to the ticker tick length).
func (tk *Ticker) Duration(t Ticks) time.Duration {
	return time.Duration(t.Val()) * tk.tickDuration
}

// Lock acquires the ticker serialization lock, allowing wheel access
// from outside the ticker go routine (Unlock() when done).
func (tk *Ticker) Lock() {
	tk.mux.Lock()
}

// Unlock releases the ticker serialization lock.
func (tk *Ticker) Unlock() {
	tk.mux.Unlock()
}

// tick accumulates the wall-clock time passed since the last run and
// advances the wheel with the corresponding whole tick number.
// It must never be called in parallel.
func (tk *Ticker) tick() uint64 {
	now := timestamp.Now()
	if now.Before(tk.lastTickT) {
		// time going backwards!!
		tk.badTime++
		if tk.badTime > 10 {
			// re-init
			if ERRon() {
				ERR("trying to recover after time going backward %d times"+
					" with %s\n",
					tk.badTime, tk.lastTickT.Sub(now))
			}
			tk.lastTickT = now
		} else if DBGon() {
			DBG("tick: time going backward with %s (%d times)\n",
				tk.lastTickT.Sub(now), tk.badTime)
		}
		return 0
	}
	tk.badTime = 0
	diff := now.Sub(tk.lastTickT)
	if diff < tk.tickDuration {
		// to little time has passed
		return 0
	}
	ticks, rest := tk.Ticks(diff)
	tk.lastTickT = now.Add(-rest)

	tk.mux.Lock()
	// Advance is bounded per call: split huge jumps (e.g. after a
	// suspend/resume)
	for left := ticks.Val(); left > 0; {
		n := left
		if n >= MaxTicksDiff {
			n = MaxTicksDiff - 1
		}
		tk.wt.Advance(n)
		left -= n
	}
	tk.mux.Unlock()
	return ticks.Val()
}

// Start starts the ticker go routine. No event will expire if Start()
// was not called (or if the wheel is not advanced "by hand").
func (tk *Ticker) Start() {
	tk.cancel = make(chan struct{})
	tk.lastTickT = timestamp.Now()
	tk.wg.Add(1)
	go func() {
		defer tk.wg.Done()
		if DBGon() {
			DBG("starting ticker with %s at %s\n",
				tk.tickDuration, time.Now())
		}
		ticker := time.NewTicker(tk.tickDuration)
	loop:
		for {
			select {
			case <-tk.cancel:
				break loop
			case _, ok := <-ticker.C:
				if !ok {
					break loop
				}
				tk.tick()
			}
		}
		ticker.Stop()
	}()
}

// Shutdown will signal the ticker go routine to stop and will wait for
// it to finish. Scheduled events are left on the wheel.
func (tk *Ticker) Shutdown() {
	if tk.cancel != nil {
		close(tk.cancel)
	}
	tk.wg.Wait()
}
