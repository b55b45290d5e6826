package kernel

import (
	"runtime"
	"sync"
	"testing"
)

func TestMailboxTryRecvEmpty(t *testing.T) {
	var mb Mailbox

	_, ok := mb.TryRecv()
	if ok {
		t.Fatalf("TryRecv() ok = true, want false")
	}
}

func TestMailboxTrySendFull(t *testing.T) {
	var mb Mailbox
	var msg Message

	for i := 0; i < mailboxSlots; i++ {
		if ok := mb.TrySend(msg); !ok {
			t.Fatalf("TrySend() ok = false at slot %d, want true", i)
		}
	}
	if ok := mb.TrySend(msg); ok {
		t.Fatalf("TrySend() ok = true when full, want false")
	}

	for i := 0; i < mailboxSlots; i++ {
		if _, ok := mb.TryRecv(); !ok {
			t.Fatalf("TryRecv() ok = false at slot %d, want true", i)
		}
	}
}

func TestMailboxConcurrentProducers(t *testing.T) {
	oldProcs := runtime.GOMAXPROCS(1)
	defer runtime.GOMAXPROCS(oldProcs)

	const (
		producers = 4
		perProd   = 10_000
		total     = producers * perProd
	)

	var mb Mailbox

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(producers)
	for producerID := 0; producerID < producers; producerID++ {
		go func(producerID int) {
			defer wg.Done()
			<-start
			for i := 0; i < perProd; i++ {
				id := uint32(producerID*perProd + i)
				for !mb.TrySend(Message{Source: SourcePin(producerID), Event: EvtPulseHi, Value: id}) {
					runtime.Gosched()
				}
			}
		}(producerID)
	}
	close(start)

	seen := make([]bool, total)
	for i := 0; i < total; i++ {
		msg, ok := mb.TryRecv()
		for !ok {
			runtime.Gosched()
			msg, ok = mb.TryRecv()
		}
		if msg.Event != EvtPulseHi {
			t.Fatalf("TryRecv() msg.Event = %v, want %v", msg.Event, EvtPulseHi)
		}
		id := msg.Value
		if int(id) >= total {
			t.Fatalf("TryRecv() id = %d, want < %d", id, total)
		}
		if seen[id] {
			t.Fatalf("TryRecv() duplicate id %d", id)
		}
		seen[id] = true
	}

	wg.Wait()
}

func TestMailboxFIFO(t *testing.T) {
	var mb Mailbox
	for i := uint32(0); i < 3*mailboxSlots; i++ {
		if !mb.TrySend(Message{Value: i}) {
			t.Fatalf("TrySend(%d) ok = false, want true", i)
		}
		msg, ok := mb.TryRecv()
		if !ok || msg.Value != i {
			t.Fatalf("TryRecv() = %d, %v; want %d, true", msg.Value, ok, i)
		}
	}
	if n := mb.Len(); n != 0 {
		t.Fatalf("Len() = %d, want 0", n)
	}
}
