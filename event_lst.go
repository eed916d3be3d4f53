// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tickwheel

// eventLst is one wheel slot: a circular doubly-linked list of
// TimerEvents threaded through their own link fields, headed by a
// sentinel. Linking never allocates and unlinking needs only the
// event itself.
type eventLst struct {
	head     TimerEvent // sentinel, only next & prev are used
	wheelNo  uint8      // position of this slot, kept in each linked
	wheelIdx uint16     // event's info for O(1) ownership checks
}

// init initialises the slot sentinel and records its wheel position.
func (lst *eventLst) init(wheelNo uint8, wheelIdx uint16) {
	lst.forceEmpty()
	lst.wheelNo = wheelNo
	lst.wheelIdx = wheelIdx
	lst.head.info.setFlags(fHead)
	lst.head.info.setWheel(wheelNo, wheelIdx)
}

// forceEmpty will completely empty the list (re-init the sentinel).
func (lst *eventLst) forceEmpty() {
	lst.head.next = &lst.head
	lst.head.prev = &lst.head
}

// isEmpty returns true if the slot holds no events.
func (lst *eventLst) isEmpty() bool {
	return lst.head.next == &lst.head
}

// checkUnlinked PANICs unless e is detached and carries no wheel
// position (the only state in which it may be linked somewhere).
// op names the caller for the log.
func (lst *eventLst) checkUnlinked(op string, e *TimerEvent) {
	if e == nil || !e.Detached() {
		PANIC("%s: entry %p not detached (n: %p p: %p), lst wheel %d/%d\n",
			op, e, e.next, e.prev, lst.wheelNo, lst.wheelIdx)
	}
	if w, idx := e.info.wheelPos(); w != wheelNone || idx != wheelNoIdx {
		PANIC("%s: entry %p still marked on wheel %d/%d, lst wheel %d/%d\n",
			op, e, w, idx, lst.wheelNo, lst.wheelIdx)
	}
}

// checkOwned PANICs unless e is a proper member of this slot: sane
// links, not the sentinel and marked with this slot's position.
// op names the caller for the log.
func (lst *eventLst) checkOwned(op string, e *TimerEvent) {
	if e == nil || e.next == nil || e.prev == nil {
		PANIC("%s: nil-detached entry %p, lst wheel %d/%d\n",
			op, e, lst.wheelNo, lst.wheelIdx)
	}
	if e == &lst.head {
		PANIC("%s: called on the slot sentinel %p (wheel %d/%d)\n",
			op, e, lst.wheelNo, lst.wheelIdx)
	}
	if e.next == e || e.prev == e {
		PANIC("%s: detached entry %p: expire %s %s, lst wheel %d/%d\n",
			op, e, e.expire, e.info, lst.wheelNo, lst.wheelIdx)
	}
	if w, idx := e.info.wheelPos(); w != lst.wheelNo || idx != lst.wheelIdx {
		PANIC("%s: entry %p marked on wheel %d/%d, lst wheel %d/%d\n",
			op, e, w, idx, lst.wheelNo, lst.wheelIdx)
	}
}

// append links e at the tail of the slot (FIFO order for same-slot
// events) and marks it with the slot position.
func (lst *eventLst) append(e *TimerEvent) {
	lst.checkUnlinked("append", e)

	e.prev = lst.head.prev
	e.next = &lst.head
	e.prev.next = e
	lst.head.prev = e
	e.info.setWheel(lst.wheelNo, lst.wheelIdx)
}

// rm unlinks e from the slot. The links are left self-referencing
// ("detached" marker) and the wheel position is cleared.
func (lst *eventLst) rm(e *TimerEvent) {
	lst.checkOwned("rm", e)

	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = e
	e.prev = e
	e.info.setWheel(wheelNone, wheelNoIdx)
}

// mv appends all of lst's events, in order, to the tail of dst and
// leaves lst empty (the "steal the slot" primitive used on expiry).
// The whole chain is spliced in one go; each moved event is re-marked
// with dst's position in a single walk.
// Returns true if any events were moved.
func (lst *eventLst) mv(dst *eventLst) bool {
	s := lst.head.next
	e := lst.head.prev
	if s == &lst.head {
		return false
	}
	lst.forceEmpty()
	s.prev = dst.head.prev
	e.next = &dst.head
	s.prev.next = s
	dst.head.prev = e
	for v := s; v != &dst.head; v = v.next {
		v.info.setWheel(dst.wheelNo, dst.wheelIdx)
	}
	return true
}

// forEach calls f for every event in the slot, in list order, stopping
// early if f returns false.
// WARNING: f must not unlink the current entry, the walk reads its
// next pointer after the call.
func (lst *eventLst) forEach(f func(e *TimerEvent) bool) {
	for v := lst.head.next; v != &lst.head; v = v.next {
		if !f(v) {
			return
		}
	}
}
