package plot

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type sendRecorder struct {
	msgs []tea.Msg
}

func (s *sendRecorder) Send(m tea.Msg) { s.msgs = append(s.msgs, m) }

func TestStream(t *testing.T) {
	rec := &sendRecorder{}
	Stream(strings.NewReader("10 400 410\ngarbage\n20 420 430\n"), rec)
	if len(rec.msgs) != 4 {
		t.Fatalf("messages = %d, want 4", len(rec.msgs))
	}
	if s, ok := rec.msgs[0].(SampleMsg); !ok || s.D1 != 410 {
		t.Fatalf("msg 0 = %#v", rec.msgs[0])
	}
	if _, ok := rec.msgs[1].(BadLineMsg); !ok {
		t.Fatalf("msg 1 = %#v, want BadLineMsg", rec.msgs[1])
	}
	if d, ok := rec.msgs[3].(SourceDoneMsg); !ok || d.Err != nil {
		t.Fatalf("msg 3 = %#v, want clean SourceDoneMsg", rec.msgs[3])
	}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelFiltersAndCounts(t *testing.T) {
	m := NewModel("-", "dev", 16)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})
	m = update(t, m, SampleMsg{TimeMs: 10, D0: 400, D1: 410})
	m = update(t, m, SampleMsg{TimeMs: 20, D0: 400, D1: 2000})
	m = update(t, m, SampleMsg{TimeMs: 10, D0: 420, D1: 430})
	m = update(t, m, BadLineMsg{Err: ErrMalformed})

	if n := m.shared.trace0.Len(); n != 1 {
		t.Fatalf("trace0 len = %d, want 1", n)
	}
	if m.shared.filter.Outliers != 1 || m.shared.filter.Stale != 1 || m.bad != 1 {
		t.Fatalf("counters outliers=%d stale=%d bad=%d, want 1/1/1",
			m.shared.filter.Outliers, m.shared.filter.Stale, m.bad)
	}
	view := m.View()
	for _, want := range []string{"d0=400mm", "d1=410mm", "outliers=1", "bad=1"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestModelPauseAndQuit(t *testing.T) {
	m := NewModel("-", "dev", 16)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m = update(t, m, SampleMsg{TimeMs: 10, D0: 400, D1: 410})
	if m.shared.trace0.Len() != 0 {
		t.Fatal("sample recorded while paused")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q did not return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}
}

func TestModelSourceError(t *testing.T) {
	m := NewModel("/dev/ttyACM0", "dev", 16)
	m = update(t, m, SourceDoneMsg{Err: errors.New("device gone")})
	if m.Err() == nil {
		t.Fatal("Err() = nil after failed source")
	}
}
