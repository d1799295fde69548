package htmldom

// EventRef is a stable handle to one event in an EventQueue. Refs remain
// valid across insertion, removal, and splicing of other events; a ref is
// invalidated only when its own event is removed or the queue is cleared.
type EventRef int32

// NilRef is the sentinel for "no event". Detached node brackets hold it.
const NilRef EventRef = -1

type slot struct {
	ev    Event
	prev  EventRef
	next  EventRef
	inUse bool
}

// EventQueue is the ordered event sequence for one flush window: a doubly
// linked list stored in a slab with a free list, so positions are plain
// integers rather than pointers that mutation could invalidate.
//
// All operations panic on refs that do not address a live event; that is a
// caller bug (typically a filter holding a ref across a flush), never an
// input condition.
type EventQueue struct {
	slots []slot
	free  []EventRef
	head  EventRef
	tail  EventRef
	count int
}

// NewEventQueue creates an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{head: NilRef, tail: NilRef}
}

// Len returns the number of events in the queue.
func (q *EventQueue) Len() int { return q.count }

// First returns the ref of the first event, or NilRef when empty.
func (q *EventQueue) First() EventRef { return q.head }

// Last returns the ref of the last event, or NilRef when empty.
func (q *EventQueue) Last() EventRef { return q.tail }

// Next returns the ref after r, or NilRef at the end.
func (q *EventQueue) Next(r EventRef) EventRef {
	return q.slotOf(r).next
}

// Prev returns the ref before r, or NilRef at the start.
func (q *EventQueue) Prev(r EventRef) EventRef {
	return q.slotOf(r).prev
}

// Event returns the event at r. The pointer is valid until the event is
// removed or the queue is cleared.
func (q *EventQueue) Event(r EventRef) *Event {
	return &q.slotOf(r).ev
}

// Valid reports whether r addresses a live event in this queue.
func (q *EventQueue) Valid(r EventRef) bool {
	return r >= 0 && int(r) < len(q.slots) && q.slots[r].inUse
}

func (q *EventQueue) slotOf(r EventRef) *slot {
	if !q.Valid(r) {
		panic("htmldom: stale or invalid EventRef")
	}
	return &q.slots[r]
}

func (q *EventQueue) alloc(ev Event) EventRef {
	var r EventRef
	if n := len(q.free); n > 0 {
		r = q.free[n-1]
		q.free = q.free[:n-1]
	} else {
		q.slots = append(q.slots, slot{})
		r = EventRef(len(q.slots) - 1)
	}
	q.slots[r] = slot{ev: ev, prev: NilRef, next: NilRef, inUse: true}
	q.count++
	return r
}

// PushBack appends an event and returns its ref.
func (q *EventQueue) PushBack(ev Event) EventRef {
	r := q.alloc(ev)
	if q.tail == NilRef {
		q.head, q.tail = r, r
		return r
	}
	q.slots[q.tail].next = r
	q.slots[r].prev = q.tail
	q.tail = r
	return r
}

// InsertBefore inserts an event before pos and returns its ref.
func (q *EventQueue) InsertBefore(pos EventRef, ev Event) EventRef {
	at := q.slotOf(pos)
	r := q.alloc(ev)
	at = &q.slots[pos] // alloc may have grown the slab
	s := &q.slots[r]
	s.prev = at.prev
	s.next = pos
	if at.prev != NilRef {
		q.slots[at.prev].next = r
	} else {
		q.head = r
	}
	at.prev = r
	return r
}

// InsertAfter inserts an event after pos and returns its ref.
func (q *EventQueue) InsertAfter(pos EventRef, ev Event) EventRef {
	at := q.slotOf(pos)
	r := q.alloc(ev)
	at = &q.slots[pos]
	s := &q.slots[r]
	s.next = at.next
	s.prev = pos
	if at.next != NilRef {
		q.slots[at.next].prev = r
	} else {
		q.tail = r
	}
	at.next = r
	return r
}

// Remove unlinks and frees the event at r. The ref becomes invalid.
func (q *EventQueue) Remove(r EventRef) {
	s := q.slotOf(r)
	q.unlink(r)
	*s = slot{prev: NilRef, next: NilRef}
	q.free = append(q.free, r)
	q.count--
}

func (q *EventQueue) unlink(r EventRef) {
	s := &q.slots[r]
	if s.prev != NilRef {
		q.slots[s.prev].next = s.next
	} else {
		q.head = s.next
	}
	if s.next != NilRef {
		q.slots[s.next].prev = s.prev
	} else {
		q.tail = s.prev
	}
	s.prev = NilRef
	s.next = NilRef
}

// Reachable reports whether last can be reached from first by walking
// forward, inclusive. Both refs must be live.
func (q *EventQueue) Reachable(first, last EventRef) bool {
	q.slotOf(last)
	for r := first; r != NilRef; r = q.slots[r].next {
		if r == last {
			return true
		}
	}
	return false
}

// SpliceBefore moves the inclusive run [first..last] so it sits
// immediately before pos. pos must not be inside the run; the run must be
// a forward-reachable span. Refs inside the run remain valid.
func (q *EventQueue) SpliceBefore(first, last, pos EventRef) {
	q.spliceOut(first, last)
	at := &q.slots[pos]
	q.slots[first].prev = at.prev
	q.slots[last].next = pos
	if at.prev != NilRef {
		q.slots[at.prev].next = first
	} else {
		q.head = first
	}
	at.prev = last
}

// spliceOut unlinks the run [first..last] without freeing it.
func (q *EventQueue) spliceOut(first, last EventRef) {
	if !q.Reachable(first, last) {
		panic("htmldom: splice endpoints are not a forward run")
	}
	fs := &q.slots[first]
	ls := &q.slots[last]
	if fs.prev != NilRef {
		q.slots[fs.prev].next = ls.next
	} else {
		q.head = ls.next
	}
	if ls.next != NilRef {
		q.slots[ls.next].prev = fs.prev
	} else {
		q.tail = fs.prev
	}
	fs.prev = NilRef
	ls.next = NilRef
}

// Clear discards every event and resets the slab. All refs become invalid.
func (q *EventQueue) Clear() {
	q.slots = q.slots[:0]
	q.free = q.free[:0]
	q.head = NilRef
	q.tail = NilRef
	q.count = 0
}
