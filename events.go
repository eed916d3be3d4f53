// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tickwheel

// A HandlerF is a callback called when an event expires.
// The parameters passed are a pointer to the wheel the event belongs
// to, the expired event itself and an opaque parameter passed when the
// event was initialised.
// The event is always unlinked and inactive before the callback runs,
// so the callback may freely re-schedule it (including on the same
// wheel, for the periodic timer pattern), schedule other events or
// cancel other events, even ones still pending dispatch in the same
// tick. Calling Cancel() on the expired event itself is a harmless
// no-op (it is already inactive).
type HandlerF func(w *Wheel, e *TimerEvent, arg interface{})

const (
	wheelNone  uint8  = 255   // sentinel value for no wheel
	wheelExp   uint8  = 254   // no wheel, expired list
	wheelNoIdx uint16 = 65535 // sentinel debug value for no index
)

// flags for events
const (
	fHead   = 1 // this is a list head (debugging)
	fActive = 2 // event is scheduled on some wheel slot
)

// A TimerEvent is a single scheduled callback, linked intrusively into
// at most one wheel slot. The owner of the event owns its storage: the
// wheel never allocates and holds no reference besides the slot list
// links. An event must stay alive until it either expires or is
// cancelled.
type TimerEvent struct {
	next   *TimerEvent
	prev   *TimerEvent
	expire Ticks // absolute expire "time" in ticks, valid while active
	info   tInfo // internal information (wheel no, idx, flags ...)

	f   HandlerF    // callback function
	arg interface{} // callback function parameter
}

// InitTimerEvent initialises an event before use, binding it to the
// callback f and the opaque argument arg.
// Note: never call it on a scheduled event, Cancel() it first.
func InitTimerEvent(e *TimerEvent, f HandlerF, arg interface{}) error {
	if e == nil || f == nil {
		return ErrInvalidParameters
	}
	if e.info.flags()&fActive != 0 {
		return ErrActiveTimer
	}
	if e.next != nil || e.prev != nil {
		return ErrInvalidTimer
	}
	*e = TimerEvent{}
	e.info.setWheel(wheelNone, wheelNoIdx)
	e.f = f
	e.arg = arg
	return nil
}

// NewTimerEvent allocates and returns a new initialised event.
// Note that the high performance way of using the wheel involves
// making a TimerEvent part of your own data structure and using
// InitTimerEvent() on it, avoiding the extra allocation and GC work.
func NewTimerEvent(f HandlerF, arg interface{}) *TimerEvent {
	e := &TimerEvent{}
	if InitTimerEvent(e, f, arg) != nil {
		return nil
	}
	return e
}

// InitMemberEvent initialises an event bound to a receiver object and
// one of its methods (m will be called as m(recv) on expiry).
// The binding keeps only the receiver pointer: to avoid a dangling
// receiver, make the event a member of the receiver so that the
// receiver's teardown path cancels it.
func InitMemberEvent[T any](e *TimerEvent, recv *T, m func(*T)) error {
	if recv == nil || m == nil {
		return ErrInvalidParameters
	}
	return InitTimerEvent(e, func(*Wheel, *TimerEvent, interface{}) {
		m(recv)
	}, nil)
}

// NewMemberEvent allocates and returns a new event bound to a receiver
// object and one of its methods. See InitMemberEvent().
func NewMemberEvent[T any](recv *T, m func(*T)) *TimerEvent {
	e := &TimerEvent{}
	if InitMemberEvent(e, recv, m) != nil {
		return nil
	}
	return e
}

// Detached checks if the event is part of a list and returns true
// if not.
func (e *TimerEvent) Detached() bool {
	return e == e.next || (e.next == nil && e.prev == nil)
}

// Active returns true if the event is scheduled on some wheel.
func (e *TimerEvent) Active() bool {
	return e.info.flags()&fActive != 0
}

// ScheduledAt returns the absolute expire "time" in ticks.
// The value is meaningful only while the event is active.
func (e *TimerEvent) ScheduledAt() Ticks {
	return e.expire
}

// Cancel removes the event from its wheel slot.
// Calling it on an inactive event is a no-op and Cancel() can be
// safely called multiple times. A cancelled event never fires (an
// event whose callback is already executing cannot be cancelled for
// that run, the wheel has unlinked it and committed to the call).
// O(1): the event unlinks itself without any wheel lookup.
func (e *TimerEvent) Cancel() {
	if e.info.flags()&fActive == 0 {
		return
	}
	if e.next == nil || e.prev == nil || e.next == e {
		BUG("Cancel called on active event %p with broken links:"+
			" n: %p p: %p %s\n", e, e.next, e.prev, e.info)
		e.info.resetFlags(fActive)
		return
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil
	e.prev = nil
	e.info.setWheel(wheelNone, wheelNoIdx)
	e.info.resetFlags(fActive)
}
