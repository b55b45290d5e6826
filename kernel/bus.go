package kernel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Policy decides what happens to a message published while its listener is
// still busy with an earlier one.
type Policy uint8

const (
	// Reentrant runs the handler inline in the publisher's context, which
	// may be an interrupt. Handlers must be short and must not block.
	Reentrant Policy = iota
	// QueueIfBusy queues the message in the listener's mailbox; the
	// listener's worker handles queued messages one at a time, in order.
	QueueIfBusy
	// DropIfBusy discards the message while the listener is running or
	// already has a message pending.
	DropIfBusy
)

func (p Policy) String() string {
	switch p {
	case Reentrant:
		return "reentrant"
	case QueueIfBusy:
		return "queue-if-busy"
	case DropIfBusy:
		return "drop-if-busy"
	default:
		return "unknown"
	}
}

// Handler consumes one message.
type Handler func(Message)

// ListenerID identifies a registered listener.
type ListenerID uint8

const maxListeners = 16

var (
	ErrBusStarted    = errors.New("bus: already running")
	ErrTooManyListen = errors.New("bus: listener table full")
	ErrBadPolicy     = errors.New("bus: unknown policy")
)

type listener struct {
	source  Source
	event   Event
	policy  Policy
	handler Handler

	mbox    Mailbox     // QueueIfBusy
	busy    atomic.Bool // DropIfBusy: set from accept until the handler returns
	slot    Message     // DropIfBusy: the accepted message
	ready   atomic.Bool // DropIfBusy: slot holds an unhandled message
	dropped atomic.Uint32
	handled atomic.Uint32
}

// Bus routes messages from publishers to listeners keyed by (source, event).
//
// Listeners are registered before Run; the table is fixed afterwards so
// Publish can walk it without locks.
type Bus struct {
	listeners [maxListeners]listener
	count     int
	started   atomic.Bool

	// Idle is how long a worker sleeps when it finds nothing to do.
	Idle time.Duration
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{Idle: time.Millisecond}
}

// Listen registers handler for messages matching source and event.
// It panics on a nil handler.
func (b *Bus) Listen(source Source, event Event, handler Handler, policy Policy) (ListenerID, error) {
	if handler == nil {
		panic("kernel: nil handler")
	}
	if b.started.Load() {
		return 0, ErrBusStarted
	}
	if policy > DropIfBusy {
		return 0, ErrBadPolicy
	}
	if b.count == maxListeners {
		return 0, ErrTooManyListen
	}
	id := ListenerID(b.count)
	l := &b.listeners[id]
	l.source = source
	l.event = event
	l.policy = policy
	l.handler = handler
	b.count++
	return id, nil
}

// Publish delivers msg to every matching listener. It never blocks and
// never allocates, so it is safe from interrupt handlers.
func (b *Bus) Publish(msg Message) {
	for i := 0; i < b.count; i++ {
		l := &b.listeners[i]
		if l.source != msg.Source || l.event != msg.Event {
			continue
		}
		switch l.policy {
		case Reentrant:
			l.handler(msg)
			l.handled.Add(1)
		case QueueIfBusy:
			if !l.mbox.TrySend(msg) {
				l.dropped.Add(1)
			}
		case DropIfBusy:
			if !l.busy.CompareAndSwap(false, true) {
				l.dropped.Add(1)
				continue
			}
			l.slot = msg
			l.ready.Store(true)
		}
	}
}

// Dropped returns how many messages listener id has discarded.
func (b *Bus) Dropped(id ListenerID) uint32 {
	if int(id) >= b.count {
		return 0
	}
	return b.listeners[id].dropped.Load()
}

// Handled returns how many messages listener id has processed.
func (b *Bus) Handled(id ListenerID) uint32 {
	if int(id) >= b.count {
		return 0
	}
	return b.listeners[id].handled.Load()
}

// Run starts one worker per queued or dropping listener and blocks until
// ctx is done and every worker has returned.
func (b *Bus) Run(ctx context.Context) error {
	if !b.started.CompareAndSwap(false, true) {
		return ErrBusStarted
	}
	idle := b.Idle
	if idle <= 0 {
		idle = time.Millisecond
	}

	var wg sync.WaitGroup
	for i := 0; i < b.count; i++ {
		l := &b.listeners[i]
		if l.policy == Reentrant {
			continue
		}
		wg.Add(1)
		go func(id ListenerID, l *listener) {
			defer wg.Done()
			l.work(ctx, id, idle)
		}(ListenerID(i), l)
	}
	wg.Wait()
	return ctx.Err()
}

func (l *listener) work(ctx context.Context, id ListenerID, idle time.Duration) {
	for ctx.Err() == nil {
		if !l.step(id) {
			time.Sleep(idle)
		}
	}
}

// step handles at most one message and reports whether it found one.
func (l *listener) step(id ListenerID) bool {
	switch l.policy {
	case QueueIfBusy:
		msg, ok := l.mbox.TryRecv()
		if !ok {
			return false
		}
		l.call(id, msg)
		return true
	case DropIfBusy:
		if !l.ready.Load() {
			return false
		}
		msg := l.slot
		l.ready.Store(false)
		l.call(id, msg)
		l.busy.Store(false)
		return true
	}
	return false
}

func (l *listener) call(id ListenerID, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			triggerPanic(PanicInfo{Listener: id, Message: msg, Value: r})
		}
	}()
	l.handler(msg)
	l.handled.Add(1)
}
