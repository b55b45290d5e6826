package kernel

import "sync/atomic"

// Message is a fixed-size event envelope. It is copied by value so
// publishing from interrupt context never allocates.
type Message struct {
	Source Source
	Event  Event
	// Value is event specific: a pulse width in µs, a level in centi-dB.
	Value uint32
	// Time is the publisher's µs timestamp.
	Time uint64
}

const mailboxSlots = 8

// Mailbox is a fixed-size multi-producer, single-consumer queue.
// It is designed for bare-metal use: no allocations and no blocking.
//
// Each slot carries a sequence number so a consumer never reads a slot whose
// producer has reserved it but not finished writing.
type Mailbox struct {
	_     [0]func() // prevent accidental copying.
	head  atomic.Uint32
	tail  atomic.Uint32
	slots [mailboxSlots]mailboxSlot
}

type mailboxSlot struct {
	seq atomic.Uint32
	msg Message
}

// seqBase offsets slot sequence numbers so the zero value means "never
// written" for every slot.
const seqBase = 1

// TrySend attempts to enqueue a message, returning false if the mailbox is full.
func (mb *Mailbox) TrySend(msg Message) bool {
	for {
		head := mb.head.Load()
		tail := mb.tail.Load()
		if head-tail >= mailboxSlots {
			return false
		}
		// Reserve a slot.
		if mb.head.CompareAndSwap(head, head+1) {
			s := &mb.slots[head%mailboxSlots]
			s.msg = msg
			s.seq.Store(head + seqBase)
			return true
		}
	}
}

// TryRecv attempts to dequeue one message, returning false if empty or if
// the oldest slot is still being written.
func (mb *Mailbox) TryRecv() (Message, bool) {
	tail := mb.tail.Load()
	s := &mb.slots[tail%mailboxSlots]
	if s.seq.Load() != tail+seqBase {
		return Message{}, false
	}
	msg := s.msg
	mb.tail.Store(tail + 1)
	return msg, true
}

// Len reports the number of reserved slots.
func (mb *Mailbox) Len() int {
	return int(mb.head.Load() - mb.tail.Load())
}
