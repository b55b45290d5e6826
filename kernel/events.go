package kernel

import "strconv"

// Source identifies where a message originates: an edge connector pin or an
// on-board peripheral.
type Source uint16

const (
	// SourceButtonA and SourceButtonB are the two front buttons.
	SourceButtonA Source = 100 + iota
	SourceButtonB
	// SourceMicrophone is the level detector fed by the on-board microphone.
	SourceMicrophone
)

// maxPinSource bounds pin sources (P0..P20 on the edge connector).
const maxPinSource = 21

// SourcePin returns the source id for edge connector pin n.
func SourcePin(n int) Source {
	return Source(n)
}

// Pin reports the edge connector pin number of a pin source.
func (s Source) Pin() (int, bool) {
	if s < maxPinSource {
		return int(s), true
	}
	return 0, false
}

func (s Source) String() string {
	switch s {
	case SourceButtonA:
		return "button-a"
	case SourceButtonB:
		return "button-b"
	case SourceMicrophone:
		return "microphone"
	}
	if n, ok := s.Pin(); ok {
		return "P" + strconv.Itoa(n)
	}
	return "source-" + strconv.Itoa(int(s))
}

// Event is the kind of a message from a source.
type Event uint8

const (
	// EvtPulseHi reports a completed high phase; Value is its width in µs.
	EvtPulseHi Event = iota + 1
	// EvtPulseLo reports a completed low phase; Value is its width in µs.
	EvtPulseLo
	// EvtClick reports a button press.
	EvtClick
	// EvtLevelHigh reports the sound level crossing the high threshold;
	// Value is the level in centi-dB.
	EvtLevelHigh
	// EvtLevelLow reports the sound level falling to the low threshold.
	EvtLevelLow
)

func (e Event) String() string {
	switch e {
	case EvtPulseHi:
		return "pulse-hi"
	case EvtPulseLo:
		return "pulse-lo"
	case EvtClick:
		return "click"
	case EvtLevelHigh:
		return "level-high"
	case EvtLevelLow:
		return "level-low"
	default:
		return "event-" + strconv.Itoa(int(e))
	}
}
